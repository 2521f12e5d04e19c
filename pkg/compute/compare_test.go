package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
)

func borderBatch(k int64, v string) *chunk.Batch {
	return kvBatch([]int64{k}, []string{v})
}

func fullCompare(source, border *chunk.Batch) []common.CompareResult {
	srcKey := KeyColumns(source, kvSchema)
	bKey := KeyColumns(border, kvSchema)
	ret := make([]common.CompareResult, source.NumRows())
	for i := range ret {
		c := NewRawKeyView(srcKey, i).Compare(NewRawKeyView(bKey, 0))
		ret[i] = common.CompareResult(c)
	}
	return ret
}

func TestUpdateCompareKeepsDecidedRows(t *testing.T) {
	res := []common.CompareResult{common.BORDER, common.LESS, common.GREATER}
	cmp := common.Int64Traits.Compare
	for i := range res {
		common.UpdateCompare(int64(1), int64(5), cmp, &res[i])
	}
	assert.Equal(t, []common.CompareResult{common.LESS, common.LESS, common.GREATER}, res)

	r := common.BORDER
	common.UpdateCompare([]byte("ab"), []byte("abc"), common.CompareBytes[[]byte], &r)
	assert.Equal(t, common.LESS, r)
}

func TestCompositeCompareShortCircuit(t *testing.T) {
	source := kvBatch([]int64{1, 5, 3, 7}, []string{"a", "b", "c", "d"})
	border := borderBatch(4, "z")

	results := NewCompareResults(source.NumRows())
	compared := CompositeCompare(source, border, results)
	assert.Equal(t, 1, compared)
	assert.Equal(t, fullCompare(source, border), results)
	assert.Equal(t, []common.CompareResult{common.LESS, common.GREATER, common.LESS, common.GREATER}, results)

	// the second key field is never looked up once every row is decided
	lazyBorder := chunk.NewBatch(
		common.NewSchema(
			common.Field{Name: "k", Type: common.BigintType()},
			common.Field{Name: "missing", Type: common.BigintType()},
		),
		[]chunk.Column{
			chunk.NewVector(common.BigintType(), []int64{4}, nil),
			chunk.NewVector(common.BigintType(), []int64{0}, nil),
		}, 1)
	results = NewCompareResults(source.NumRows())
	assert.NotPanics(t, func() {
		CompositeCompare(source, lazyBorder, results)
	})
}

func TestCompositeCompareTies(t *testing.T) {
	source := kvBatch([]int64{4, 4, 1, 4}, []string{"a", "c", "x", "b"})
	border := borderBatch(4, "b")
	results := NewCompareResults(source.NumRows())
	assert.Equal(t, 2, CompositeCompare(source, border, results))
	assert.Equal(t, []common.CompareResult{common.LESS, common.GREATER, common.LESS, common.BORDER}, results)
	assert.Equal(t, fullCompare(source, border), results)

	table := chunk.CombineInTable([]*chunk.Batch{source.Slice(0, 1), source.Slice(1, 3)})
	require.NotNil(t, table)
	tableResults := NewCompareResults(table.NumRows())
	CompositeCompare(table, border, tableResults)
	assert.Equal(t, results, tableResults)
}

func TestCompositeCompareViolations(t *testing.T) {
	source := kvBatch([]int64{1}, []string{"a"})
	results := NewCompareResults(1)
	assert.Panics(t, func() {
		CompositeCompare(source, kvBatch([]int64{1, 2}, []string{"a", "b"}), results)
	})
	assert.Panics(t, func() {
		empty := chunk.NewBatch(common.NewSchema(), nil, 1)
		CompositeCompare(source, empty, results)
	})
	assert.Panics(t, func() {
		wrong := chunk.NewBatch(
			common.NewSchema(common.Field{Name: "k", Type: common.IntegerType()}),
			[]chunk.Column{chunk.NewVector(common.IntegerType(), []int32{1}, nil)}, 1)
		CompositeCompare(source, wrong, results)
	})
	assert.Panics(t, func() {
		missing := chunk.NewBatch(
			common.NewSchema(common.Field{Name: "x", Type: common.BigintType()}),
			[]chunk.Column{chunk.NewVector(common.BigintType(), []int64{1}, nil)}, 1)
		CompositeCompare(source, missing, results)
	})
}

func TestMakePredicateFilter(t *testing.T) {
	source := kvBatch([]int64{1, 4, 4, 9}, []string{"a", "b", "c", "d"})
	border := borderBatch(4, "b")
	tests := []struct {
		ct   CompareType
		want []bool
	}{
		{CT_LESS, []bool{true, false, false, false}},
		{CT_LESS_OR_EQUAL, []bool{true, true, false, false}},
		{CT_GREATER, []bool{false, false, true, true}},
		{CT_GREATER_OR_EQUAL, []bool{false, true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.ct.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, MakePredicateFilter(source, border, tt.ct))
		})
	}
}

func TestMakeColumnPredicateFilter(t *testing.T) {
	chunks := []chunk.Column{
		chunk.NewVector(common.DoubleType(), []float64{1.5, 0}, []bool{true, false}),
		chunk.NewVector(common.DoubleType(), []float64{2.5}, nil),
	}
	border := chunk.NewVector(common.DoubleType(), []float64{2}, nil)
	assert.Equal(t, []bool{true, true, false}, MakeColumnPredicateFilter(chunks, border, CT_LESS))
	assert.Equal(t, []bool{false, false, true}, MakeColumnPredicateFilter(chunks, border, CT_GREATER_OR_EQUAL))

	assert.Panics(t, func() {
		MakeColumnPredicateFilter(chunks, chunk.NewVector(common.FloatType(), []float32{2}, nil), CT_LESS)
	})
}
