package compute

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/colkit/pkg/chunk"
)

func TestCombineSortedBatches(t *testing.T) {
	desc := NewSortDescription(kKey)
	out := CombineSortedBatches([]*chunk.Batch{
		kvBatch([]int64{1, 3}, []string{"a", "c"}),
		kvBatch([]int64{2}, []string{"b"}),
	}, desc)
	require.NotNil(t, out)
	assert.True(t, out.Equal(kvBatch([]int64{1, 2, 3}, []string{"a", "b", "c"})))

	assert.Nil(t, CombineSortedBatches(nil, desc))
	assert.Nil(t, CombineSortedBatches([]*chunk.Batch{chunk.MakeEmptyBatch(kvSchema)}, desc))
}

func TestCombineSortedBatchesRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	desc := NewSortDescription(kKey)
	for round := 0; round < 20; round++ {
		inputs := randomSortedBatches(r, 1+r.Intn(6), 40, 30)
		out := CombineSortedBatches(inputs, desc)
		total := totalRows(inputs)
		if total == 0 {
			assert.Nil(t, out)
			continue
		}
		require.NotNil(t, out)
		require.Equal(t, total, out.NumRows())
		requireSortedByK(t, out, false)

		var want, got []string
		for _, in := range inputs {
			want = append(want, valsOf(in)...)
		}
		got = valsOf(out)
		slices.Sort(want)
		slices.Sort(got)
		assert.Equal(t, want, got)
	}
}

func TestMergeEqualKeysInStreamOrder(t *testing.T) {
	out := CombineSortedBatches([]*chunk.Batch{
		kvBatch([]int64{1, 1}, []string{"s0-0", "s0-1"}),
		kvBatch([]int64{1}, []string{"s1-0"}),
		kvBatch([]int64{0, 1}, []string{"s2-0", "s2-1"}),
	}, NewSortDescription(kKey))
	assert.Equal(t, []string{"s2-0", "s0-0", "s0-1", "s1-0", "s2-1"}, valsOf(out))
}

func TestMergeSortedBatchesChunking(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	desc := NewSortDescription(kKey)
	inputs := randomSortedBatches(r, 5, 30, 50)
	inputs = append(inputs, chunk.MakeEmptyBatch(kvSchema))
	combined := CombineSortedBatches(inputs, desc)
	require.NotNil(t, combined)

	for _, maxRows := range []int{1, 2, 3, 7, 64, combined.NumRows(), combined.NumRows() + 1} {
		out := MergeSortedBatches(inputs, desc, maxRows)
		for _, b := range out {
			assert.LessOrEqual(t, b.NumRows(), maxRows)
			assert.Positive(t, b.NumRows())
		}
		assert.True(t, chunk.CombineBatches(out).Equal(combined), "max rows %d", maxRows)
	}

	assert.Panics(t, func() {
		MergeSortedBatches(inputs, desc, 0)
	})
}

func TestSliceSortedBatches(t *testing.T) {
	desc := NewSortDescription(kKey)
	out := SliceSortedBatches([]*chunk.Batch{
		kvBatch([]int64{1, 1, 2}, []string{"x", "y", "z"}),
	}, desc, 10)
	require.Len(t, out, 1)
	assert.Equal(t, []int64{1, 2}, keysOf(out[0]))
	assert.Equal(t, []string{"x", "z"}, valsOf(out[0]))

	// duplicates across streams and across output batches
	out = SliceSortedBatches([]*chunk.Batch{
		kvBatch([]int64{1, 2, 2}, []string{"a", "b", "c"}),
		kvBatch([]int64{1, 2, 3}, []string{"d", "e", "f"}),
	}, desc, 1)
	require.Len(t, out, 3)
	var keys []int64
	for _, b := range out {
		assert.Equal(t, 1, b.NumRows())
		keys = append(keys, keysOf(b)...)
	}
	assert.Equal(t, []int64{1, 2, 3}, keys)

	assert.Panics(t, func() {
		SliceSortedBatches(nil, desc.Inverted(), 10)
	})
}

func TestMergeReversed(t *testing.T) {
	desc := NewSortDescription(kKey).Inverted()
	out := CombineSortedBatches([]*chunk.Batch{
		kvBatch([]int64{5, 3, 1}, []string{"a", "b", "c"}),
		kvBatch([]int64{4, 3}, []string{"d", "e"}),
	}, desc)
	assert.Equal(t, []int64{5, 4, 3, 3, 1}, keysOf(out))
	assert.Equal(t, []string{"a", "d", "b", "e", "c"}, valsOf(out))
}

func TestMergingSortedInputStreamStates(t *testing.T) {
	streams := []InputStream{
		NewBatchesInputStream([]*chunk.Batch{
			kvBatch([]int64{1, 4}, []string{"a", "b"}),
			chunk.MakeEmptyBatch(kvSchema),
			kvBatch([]int64{5}, []string{"c"}),
		}),
		NewOneBatchInputStream(kvBatch([]int64{2}, []string{"d"})),
	}
	m := NewMergingSortedInputStream(streams, NewSortDescription(kKey), 3, false)
	assert.Equal(t, MS_ACTIVE, m.State())

	first := m.Read()
	require.NotNil(t, first)
	assert.Equal(t, []int64{1, 2, 4}, keysOf(first))
	assert.Equal(t, MS_DRAINING, m.State())
	assert.Equal(t, "draining", m.State().String())

	second := m.Read()
	require.NotNil(t, second)
	assert.Equal(t, []int64{5}, keysOf(second))
	assert.Equal(t, MS_EXHAUSTED, m.State())

	assert.Nil(t, m.Read())
	assert.Nil(t, m.Read())
	assert.Equal(t, MergeStats{Batches: 2, Rows: 4}, m.Stats())
}

func TestSortDescriptionClone(t *testing.T) {
	desc := NewSortDescription(kvSchema)
	desc.Unique = true
	cp := desc.Clone()
	assert.True(t, cp.Key.Equal(desc.Key))
	assert.True(t, cp.Unique)
	inv := desc.Inverted()
	assert.True(t, inv.Reverse)
	assert.False(t, desc.Reverse)
	assert.Equal(t, "k,v desc unique", inv.String())
}
