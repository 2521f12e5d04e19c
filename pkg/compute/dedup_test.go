package compute

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/util"
)

func TestDedupSortedBatchRuns(t *testing.T) {
	batch := kvBatch([]int64{1, 1, 2, 3, 3, 3}, []string{"a", "b", "c", "d", "e", "f"})
	runs := DedupSortedBatch(batch, kKey)
	require.Len(t, runs, 3)
	assert.Equal(t, []int64{1, 1}, keysOf(runs[0]))
	assert.Equal(t, []int64{2}, keysOf(runs[1]))
	assert.Equal(t, []int64{3, 3, 3}, keysOf(runs[2]))
	assert.True(t, chunk.CombineBatches(runs).Equal(batch))

	unique := kvBatch([]int64{1, 2, 3}, []string{"a", "b", "c"})
	assert.Len(t, DedupSortedBatch(unique, kKey), 3)

	same := kvBatch([]int64{7, 7, 7}, []string{"a", "b", "c"})
	runs = DedupSortedBatch(same, kKey)
	require.Len(t, runs, 1)
	assert.Same(t, same, runs[0])
}

func TestDedupSortedBatchSmall(t *testing.T) {
	empty := chunk.MakeEmptyBatch(kvSchema)
	runs := DedupSortedBatch(empty, kKey)
	require.Len(t, runs, 1)
	assert.Same(t, empty, runs[0])

	one := kvBatch([]int64{1}, []string{"a"})
	runs = DedupSortedBatch(one, kKey)
	require.Len(t, runs, 1)
	assert.Same(t, one, runs[0])
}

func TestDedupSortedBatchRandom(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, batch := range randomSortedBatches(r, 20, 50, 10) {
		runs := DedupSortedBatch(batch, kKey)
		require.True(t, chunk.CombineBatches(runs).Equal(batch))
		for i, run := range runs {
			keys := keysOf(run)
			for _, k := range keys {
				assert.Equal(t, keys[0], k)
			}
			if i > 0 {
				prev := keysOf(runs[i-1])
				assert.Less(t, prev[0], keys[0])
			}
		}
	}
}

func TestDedupSortedBatchDebugAssert(t *testing.T) {
	util.DebugAsserts = true
	defer func() {
		util.DebugAsserts = false
	}()
	assert.Panics(t, func() {
		DedupSortedBatch(kvBatch([]int64{2, 1}, []string{"a", "b"}), kKey)
	})
}

func TestIsSorted(t *testing.T) {
	batch := kvBatch([]int64{1, 2, 2}, []string{"a", "b", "c"})
	assert.True(t, IsSorted(batch, kKey, false))
	assert.False(t, IsSortedAndUnique(batch, kKey, false))
	assert.True(t, IsSortedAndUnique(batch, kvSchema, false))
	assert.False(t, IsSorted(batch, kKey, true))
	assert.True(t, IsSorted(kvBatch([]int64{3, 3, 1}, []string{"a", "b", "c"}), kKey, true))
	assert.True(t, IsSortedAndUnique(chunk.MakeEmptyBatch(kvSchema), kKey, false))
}
