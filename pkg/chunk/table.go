package chunk

import (
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// ChunkedColumn is a logical column stored as consecutive chunks.
type ChunkedColumn struct {
	typ    common.LType
	chunks []Column
	length int
}

func NewChunkedColumn(typ common.LType, chunks []Column) *ChunkedColumn {
	ret := &ChunkedColumn{
		typ:    typ,
		chunks: chunks,
	}
	for _, c := range chunks {
		util.AssertF(c.Typ().Equal(typ), "chunk of %s in %s column", c.Typ(), typ)
		ret.length += c.Len()
	}
	return ret
}

func (cc *ChunkedColumn) Typ() common.LType {
	return cc.typ
}

func (cc *ChunkedColumn) Len() int {
	return cc.length
}

func (cc *ChunkedColumn) Chunks() []Column {
	return cc.chunks
}

// Combine concatenates the chunks into one contiguous column.
func (cc *ChunkedColumn) Combine() Column {
	if len(cc.chunks) == 1 {
		return cc.chunks[0]
	}
	b := MakeBuilder(cc.typ, cc.length)
	for _, c := range cc.chunks {
		b.AppendSlice(c, 0, c.Len())
	}
	return b.Finish()
}

// Table is a Batch whose columns are chunked.
type Table struct {
	schema  *common.Schema
	columns []*ChunkedColumn
	rows    int
}

var _ Datum = new(Table)

func (t *Table) Schema() *common.Schema {
	return t.schema
}

func (t *Table) NumRows() int {
	return t.rows
}

func (t *Table) Column(i int) *ChunkedColumn {
	return t.columns[i]
}

func (t *Table) ColumnChunks(i int) []Column {
	return t.columns[i].chunks
}

// CombineInTable stacks batches sharing one schema. It returns nil for an
// empty list or mismatched schemas.
func CombineInTable(batches []*Batch) *Table {
	if len(batches) == 0 {
		return nil
	}
	schema := batches[0].schema
	ret := &Table{
		schema:  schema,
		columns: make([]*ChunkedColumn, schema.NumFields()),
	}
	for _, b := range batches {
		if !b.schema.Equal(schema) {
			return nil
		}
		ret.rows += b.rows
	}
	for i, field := range schema.Fields() {
		chunks := make([]Column, 0, len(batches))
		for _, b := range batches {
			chunks = append(chunks, b.columns[i])
		}
		ret.columns[i] = NewChunkedColumn(field.Type, chunks)
	}
	return ret
}

// ToBatch combines every chunked column into one contiguous column.
func (t *Table) ToBatch() *Batch {
	columns := make([]Column, len(t.columns))
	for i, col := range t.columns {
		columns[i] = col.Combine()
	}
	return NewBatch(t.schema, columns, t.rows)
}

func CombineBatches(batches []*Batch) *Batch {
	table := CombineInTable(batches)
	if table == nil {
		return nil
	}
	return table.ToBatch()
}
