package compute

import (
	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// MakeFilter wraps bits into a BOOL column.
func MakeFilter(bits []bool) chunk.Column {
	return chunk.NewVector(common.BooleanType(), bits, nil)
}

// CombineFilters ands two masks. An empty mask keeps every row.
func CombineFilters(f1, f2 []bool) []bool {
	if len(f1) == 0 {
		return f2
	}
	if len(f2) == 0 {
		return f1
	}
	util.AssertF(len(f1) == len(f2), "filters of %d and %d rows", len(f1), len(f2))
	ret := make([]bool, len(f1))
	for i := range f1 {
		ret[i] = f1[i] && f2[i]
	}
	return ret
}

// CombineFiltersCount is CombineFilters that also counts the kept rows.
func CombineFiltersCount(f1, f2 []bool) ([]bool, int) {
	ret := CombineFilters(f1, f2)
	count := 0
	for _, bit := range ret {
		if bit {
			count++
		}
	}
	return ret, count
}

// Filter keeps the rows of batch whose bit is set. A mask keeping every row
// returns batch itself.
func Filter(batch *chunk.Batch, bits []bool) *chunk.Batch {
	util.AssertF(len(bits) == batch.NumRows(), "filter of %d rows for %d rows", len(bits), batch.NumRows())
	indices := make([]uint64, 0, len(bits))
	for i, bit := range bits {
		if bit {
			indices = append(indices, uint64(i))
		}
	}
	if len(indices) == batch.NumRows() {
		return batch
	}
	return batch.Take(indices)
}
