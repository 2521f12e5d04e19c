package main

import (
	"fmt"
	"math/rand"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/compute"
	"github.com/daviszhen/colkit/pkg/util"
)

var keyFields = []common.Field{
	{Name: "k_id", Type: common.BigintType()},
	{Name: "k_name", Type: common.VarcharType()},
	{Name: "k_date", Type: common.DateType()},
}

var payloadFields = []common.Field{
	{Name: "stream", Type: common.IntegerType()},
	{Name: "seq", Type: common.BigintType()},
	{Name: "amount", Type: common.DecimalType(12, 2)},
}

func genSchema(cfg *util.Config) (*common.Schema, *common.Schema) {
	keys := keyFields[:cfg.Data.KeyColumns]
	fields := make([]common.Field, 0, len(keys)+len(payloadFields))
	fields = append(fields, keys...)
	fields = append(fields, payloadFields...)
	return common.NewSchema(fields...), common.NewSchema(keys...)
}

type generator struct {
	cfg    *util.Config
	r      *rand.Rand
	schema *common.Schema
	key    *common.Schema
	desc   *compute.SortDescription
}

func newGenerator(cfg *util.Config) *generator {
	schema, key := genSchema(cfg)
	desc := compute.NewSortDescription(key)
	desc.Reverse = cfg.Merge.Reverse
	return &generator{
		cfg:    cfg,
		r:      rand.New(rand.NewSource(cfg.Data.Seed)),
		schema: schema,
		key:    key,
		desc:   desc,
	}
}

// batch generates rows of stream. Roughly one key value in twenty is null.
func (g *generator) batch(stream int, rows int) *chunk.Batch {
	builders := chunk.MakeBuilders(g.schema, rows)
	for i := 0; i < rows; i++ {
		id := g.r.Intn(g.cfg.Data.KeyRange)
		for j := range g.key.Fields() {
			if g.r.Intn(20) == 0 {
				builders[j].AppendNull()
				continue
			}
			switch j {
			case 0:
				builders[j].AppendValue(int64(id))
			case 1:
				builders[j].AppendValue(fmt.Sprintf("name%02d", g.r.Intn(4)))
			case 2:
				builders[j].AppendValue(common.Date(19000 + g.r.Intn(3)))
			}
		}
		off := g.key.NumFields()
		builders[off].AppendValue(int32(stream))
		builders[off+1].AppendValue(int64(i))
		builders[off+2].AppendValue(common.MustDecimal(fmt.Sprintf("%d.%02d", g.r.Intn(10000), g.r.Intn(100))))
	}
	return chunk.NewBatch(g.schema, chunk.FinishBuilders(builders), rows)
}

// sortedStreams returns one sorted batch per stream in the order of desc.
func (g *generator) sortedStreams() []*chunk.Batch {
	ret := make([]*chunk.Batch, g.cfg.Data.Streams)
	for i := range ret {
		ret[i] = compute.SortBatch(g.batch(i, g.cfg.Data.RowsPerBatch), g.key, g.desc.Reverse)
	}
	return ret
}

// splitBatch cuts batch into pieces of at most size rows.
func splitBatch(batch *chunk.Batch, size int) []*chunk.Batch {
	if size < 1 {
		size = 1
	}
	ret := make([]*chunk.Batch, 0, batch.NumRows()/size+1)
	for off := 0; off < batch.NumRows(); off += size {
		ret = append(ret, batch.Slice(off, min(size, batch.NumRows()-off)))
	}
	return ret
}
