package compute

import (
	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// DedupSortedBatch splits a batch sorted ascending by key into its runs of
// equal keys. Each run is a slice of batch. Batches of fewer than two rows
// come back whole.
func DedupSortedBatch(batch *chunk.Batch, key *common.Schema) []*chunk.Batch {
	if batch.NumRows() < 2 {
		return []*chunk.Batch{batch}
	}
	util.DebugAssert(func() bool {
		return IsSorted(batch, key, false)
	}, "dedup of unsorted batch")

	columns := KeyColumns(batch, key)
	var out []*chunk.Batch
	start := 0
	for i := 1; i < batch.NumRows(); i++ {
		prev := NewRawKeyView(columns, i-1)
		current := NewRawKeyView(columns, i)
		if !prev.Equal(current) {
			out = append(out, batch.Slice(start, i-start))
			start = i
		}
	}
	return append(out, batch.Slice(start, batch.NumRows()-start))
}

func isSelfSorted(columns []chunk.Column, rows int, desc, uniq bool) bool {
	for i := 1; i < rows; i++ {
		prev := NewRawKeyView(columns, i-1)
		current := NewRawKeyView(columns, i)
		c := prev.Compare(current)
		if desc {
			c = -c
		}
		if c > 0 || (uniq && c == 0) {
			return false
		}
	}
	return true
}

// IsSorted reports whether batch is ordered by key, descending when desc.
func IsSorted(batch *chunk.Batch, key *common.Schema, desc bool) bool {
	return isSelfSorted(KeyColumns(batch, key), batch.NumRows(), desc, false)
}

// IsSortedAndUnique is IsSorted with no two rows sharing a key.
func IsSortedAndUnique(batch *chunk.Batch, key *common.Schema, desc bool) bool {
	return isSelfSorted(KeyColumns(batch, key), batch.NumRows(), desc, true)
}
