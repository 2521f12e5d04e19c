// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chunk

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// Datum is a set of named columns, each possibly split into chunks.
// Both Batch and Table are Datums.
type Datum interface {
	Schema() *common.Schema
	NumRows() int
	ColumnChunks(i int) []Column
}

// Batch is an immutable schema plus one column per field, all of NumRows
// length. Transformations return new batches sharing untouched columns.
type Batch struct {
	schema  *common.Schema
	columns []Column
	rows    int
}

var _ Datum = new(Batch)

func TryNewBatch(schema *common.Schema, columns []Column, rows int) (*Batch, error) {
	if schema == nil {
		return nil, fmt.Errorf("nil schema")
	}
	if len(columns) != schema.NumFields() {
		return nil, fmt.Errorf("%d columns for %d fields", len(columns), schema.NumFields())
	}
	for i, col := range columns {
		field := schema.Field(i)
		if col == nil {
			return nil, fmt.Errorf("column %q is nil", field.Name)
		}
		if !col.Typ().Equal(field.Type) {
			return nil, fmt.Errorf("column %q has type %s, field wants %s", field.Name, col.Typ(), field.Type)
		}
		if col.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, batch has %d", field.Name, col.Len(), rows)
		}
	}
	return &Batch{
		schema:  schema,
		columns: columns,
		rows:    rows,
	}, nil
}

// NewBatch panics when the columns do not fit the schema.
func NewBatch(schema *common.Schema, columns []Column, rows int) *Batch {
	ret, err := TryNewBatch(schema, columns, rows)
	if err != nil {
		panic(err)
	}
	return ret
}

// MakeEmptyBatch is the zero-row batch of schema.
func MakeEmptyBatch(schema *common.Schema) *Batch {
	columns := make([]Column, schema.NumFields())
	for i, field := range schema.Fields() {
		columns[i] = MakeEmptyVector(field.Type)
	}
	return NewBatch(schema, columns, 0)
}

func (b *Batch) Schema() *common.Schema {
	return b.schema
}

func (b *Batch) NumRows() int {
	return b.rows
}

func (b *Batch) NumCols() int {
	return len(b.columns)
}

func (b *Batch) Column(i int) Column {
	return b.columns[i]
}

func (b *Batch) Columns() []Column {
	return b.columns
}

func (b *Batch) ColumnChunks(i int) []Column {
	return []Column{b.columns[i]}
}

// ColumnByName returns nil when there is no such field.
func (b *Batch) ColumnByName(name string) Column {
	idx := b.schema.FieldIndex(name)
	if idx < 0 {
		return nil
	}
	return b.columns[idx]
}

func (b *Batch) Slice(offset, length int) *Batch {
	util.AssertF(offset >= 0 && length >= 0 && offset+length <= b.rows,
		"slice [%d,%d) out of %d rows", offset, offset+length, b.rows)
	if offset == 0 && length == b.rows {
		return b
	}
	columns := make([]Column, len(b.columns))
	for i, col := range b.columns {
		columns[i] = col.Slice(offset, length)
	}
	return &Batch{
		schema:  b.schema,
		columns: columns,
		rows:    length,
	}
}

// Take gathers rows at indices from every column.
func (b *Batch) Take(indices []uint64) *Batch {
	columns := make([]Column, len(b.columns))
	for i, col := range b.columns {
		columns[i] = col.Take(indices)
	}
	return &Batch{
		schema:  b.schema,
		columns: columns,
		rows:    len(indices),
	}
}

func (b *Batch) Row(i int) []any {
	ret := make([]any, len(b.columns))
	for j, col := range b.columns {
		ret[j] = col.GetValue(i)
	}
	return ret
}

// Equal compares schema and every value, nulls equal to nulls.
func (b *Batch) Equal(o *Batch) bool {
	if b == o {
		return true
	}
	if b == nil || o == nil || b.rows != o.rows || !b.schema.Equal(o.schema) {
		return false
	}
	for i := range b.columns {
		if !ArrayScalarsEqual(b.columns[i], o.columns[i]) {
			return false
		}
	}
	return true
}

func (b *Batch) String() string {
	sb := strings.Builder{}
	sb.WriteString(b.schema.String())
	for i := 0; i < b.rows; i++ {
		sb.WriteString("\n")
		for j, col := range b.columns {
			if j > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(col.String(i))
		}
	}
	return sb.String()
}

// Print2 logs every row.
func (b *Batch) Print2(rowPrefix string) {
	for i := 0; i < b.rows; i++ {
		fields := make([]zap.Field, 0, len(b.columns))
		for j, col := range b.columns {
			fields = append(fields, zap.String(b.schema.Field(j).Name, col.String(i)))
		}
		util.Info(rowPrefix, fields...)
	}
}

// ArrayScalarsEqual compares two columns value by value.
func ArrayScalarsEqual(lhs, rhs Column) bool {
	if lhs.Len() != rhs.Len() || !lhs.Typ().Equal(rhs.Typ()) {
		return false
	}
	for i := 0; i < lhs.Len(); i++ {
		if lhs.CompareAt(i, rhs, i) != 0 {
			return false
		}
	}
	return true
}

// ExtractColumns projects the named columns. It returns nil when a name is
// missing.
func ExtractColumns(src *Batch, names []string) *Batch {
	fields := make([]common.Field, 0, len(names))
	columns := make([]Column, 0, len(names))
	for _, name := range names {
		pos := src.schema.FieldIndex(name)
		if pos < 0 {
			return nil
		}
		fields = append(fields, src.schema.Field(pos))
		columns = append(columns, src.columns[pos])
	}
	schema, err := common.TryNewSchema(fields)
	if err != nil {
		return nil
	}
	return &Batch{
		schema:  schema,
		columns: columns,
		rows:    src.rows,
	}
}

// ExtractColumnsBySchema projects src onto dst. A field missing from src or
// present with another type yields nil, or a null column when addNotExisted.
func ExtractColumnsBySchema(src *Batch, dst *common.Schema, addNotExisted bool) *Batch {
	columns := make([]Column, 0, dst.NumFields())
	for _, field := range dst.Fields() {
		col := src.ColumnByName(field.Name)
		if col != nil && !col.Typ().Equal(field.Type) {
			col = nil
		}
		if col == nil {
			if !addNotExisted {
				return nil
			}
			col = MakeNullVector(field.Type, src.rows)
		}
		columns = append(columns, col)
	}
	return &Batch{
		schema:  dst,
		columns: columns,
		rows:    src.rows,
	}
}

// ExtractExistedColumns keeps the fields of src matching fieldsToExtract by
// name and type, skipping the rest.
func ExtractExistedColumns(src *Batch, fieldsToExtract []common.Field) *Batch {
	fields := make([]common.Field, 0, len(fieldsToExtract))
	columns := make([]Column, 0, len(fieldsToExtract))
	for _, want := range fieldsToExtract {
		field, has := src.schema.FieldByName(want.Name)
		if has && field.Type.Equal(want.Type) {
			fields = append(fields, field)
			columns = append(columns, src.ColumnByName(want.Name))
		}
	}
	schema, err := common.TryNewSchema(fields)
	if err != nil {
		return nil
	}
	return &Batch{
		schema:  schema,
		columns: columns,
		rows:    src.rows,
	}
}

func HasAllColumns(b *Batch, schema *common.Schema) bool {
	for _, field := range schema.Fields() {
		if b.schema.FieldIndex(field.Name) < 0 {
			return false
		}
	}
	return true
}
