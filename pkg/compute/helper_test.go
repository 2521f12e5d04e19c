package compute

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
)

var kvSchema = common.NewSchema(
	common.Field{Name: "k", Type: common.BigintType()},
	common.Field{Name: "v", Type: common.VarcharType()},
)

var kKey = common.NewSchema(common.Field{Name: "k", Type: common.BigintType()})

func kvBatch(keys []int64, vals []string) *chunk.Batch {
	return chunk.NewBatch(kvSchema, []chunk.Column{
		chunk.NewVector(common.BigintType(), keys, nil),
		chunk.NewVector(common.VarcharType(), vals, nil),
	}, len(keys))
}

func keysOf(batch *chunk.Batch) []int64 {
	ret := make([]int64, batch.NumRows())
	for i := range ret {
		ret[i] = batch.Column(0).GetValue(i).(int64)
	}
	return ret
}

func valsOf(batch *chunk.Batch) []string {
	ret := make([]string, batch.NumRows())
	for i := range ret {
		ret[i] = batch.Column(1).GetValue(i).(string)
	}
	return ret
}

// randomSortedBatches returns count batches sorted by k. Values are unique.
func randomSortedBatches(r *rand.Rand, count, maxRows int, keyRange int64) []*chunk.Batch {
	ret := make([]*chunk.Batch, count)
	for i := range ret {
		rows := r.Intn(maxRows + 1)
		keys := make([]int64, rows)
		vals := make([]string, rows)
		for j := range keys {
			keys[j] = r.Int63n(keyRange)
		}
		slices.Sort(keys)
		for j := range vals {
			vals[j] = fmt.Sprintf("s%d-%d", i, j)
		}
		ret[i] = kvBatch(keys, vals)
	}
	return ret
}

func totalRows(batches []*chunk.Batch) int {
	n := 0
	for _, b := range batches {
		if b != nil {
			n += b.NumRows()
		}
	}
	return n
}

func requireSortedByK(t *testing.T, batch *chunk.Batch, desc bool) {
	keys := keysOf(batch)
	for i := 1; i < len(keys); i++ {
		if desc {
			require.GreaterOrEqual(t, keys[i-1], keys[i])
		} else {
			require.LessOrEqual(t, keys[i-1], keys[i])
		}
	}
}
