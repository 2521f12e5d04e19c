package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/colkit/pkg/common"
)

func testSchema() *common.Schema {
	return common.NewSchema(
		common.Field{Name: "id", Type: common.BigintType()},
		common.Field{Name: "name", Type: common.VarcharType()},
	)
}

func testBatch(ids []int64, names []string) *Batch {
	return NewBatch(testSchema(), []Column{
		NewVector(common.BigintType(), ids, nil),
		NewVector(common.VarcharType(), names, nil),
	}, len(ids))
}

func TestNewBatchInvariants(t *testing.T) {
	_, err := TryNewBatch(testSchema(), []Column{
		NewVector(common.BigintType(), []int64{1, 2}, nil),
		NewVector(common.VarcharType(), []string{"a"}, nil),
	}, 2)
	assert.Error(t, err)

	_, err = TryNewBatch(testSchema(), []Column{
		NewVector(common.IntegerType(), []int32{1}, nil),
		NewVector(common.VarcharType(), []string{"a"}, nil),
	}, 1)
	assert.Error(t, err)

	_, err = common.TryNewSchema([]common.Field{
		{Name: "a", Type: common.BigintType()},
		{Name: "a", Type: common.BigintType()},
	})
	assert.Error(t, err)
}

func TestMakeEmptyBatch(t *testing.T) {
	b := MakeEmptyBatch(testSchema())
	assert.Equal(t, 0, b.NumRows())
	require.Equal(t, 2, b.NumCols())
	for i, col := range b.Columns() {
		assert.Equal(t, 0, col.Len())
		assert.True(t, col.Typ().Equal(b.Schema().Field(i).Type))
	}
}

func TestBatchSliceSharesAndEquals(t *testing.T) {
	b := testBatch([]int64{1, 2, 3}, []string{"a", "b", "c"})
	assert.Same(t, b, b.Slice(0, 3))
	s := b.Slice(1, 2)
	assert.True(t, s.Equal(testBatch([]int64{2, 3}, []string{"b", "c"})))
	assert.False(t, s.Equal(testBatch([]int64{2, 4}, []string{"b", "c"})))
}

func TestExtractColumns(t *testing.T) {
	b := testBatch([]int64{1, 2}, []string{"a", "b"})

	key := ExtractColumns(b, []string{"name"})
	require.NotNil(t, key)
	assert.Equal(t, []string{"name"}, key.Schema().Names())
	assert.Same(t, b.Column(1), key.Column(0))

	assert.Nil(t, ExtractColumns(b, []string{"missing"}))

	dst := common.NewSchema(
		common.Field{Name: "name", Type: common.VarcharType()},
		common.Field{Name: "extra", Type: common.DoubleType()},
	)
	assert.Nil(t, ExtractColumnsBySchema(b, dst, false))
	filled := ExtractColumnsBySchema(b, dst, true)
	require.NotNil(t, filled)
	assert.Equal(t, 2, filled.Column(1).NullCount())

	wrongType := common.NewSchema(common.Field{Name: "id", Type: common.IntegerType()})
	assert.Nil(t, ExtractColumnsBySchema(b, wrongType, false))

	existed := ExtractExistedColumns(b, []common.Field{
		{Name: "id", Type: common.IntegerType()},
		{Name: "name", Type: common.VarcharType()},
	})
	assert.Equal(t, []string{"name"}, existed.Schema().Names())
	assert.True(t, HasAllColumns(b, testSchema()))
	assert.False(t, HasAllColumns(b, dst))
}

func TestCombineBatches(t *testing.T) {
	b1 := testBatch([]int64{1, 2}, []string{"a", "b"})
	b2 := testBatch([]int64{3}, []string{"c"})
	table := CombineInTable([]*Batch{b1, b2})
	require.NotNil(t, table)
	assert.Equal(t, 3, table.NumRows())
	assert.Len(t, table.ColumnChunks(0), 2)

	combined := CombineBatches([]*Batch{b1, b2})
	assert.True(t, combined.Equal(testBatch([]int64{1, 2, 3}, []string{"a", "b", "c"})))

	other := NewBatch(common.NewSchema(common.Field{Name: "x", Type: common.BigintType()}),
		[]Column{NewVector(common.BigintType(), []int64{1}, nil)}, 1)
	assert.Nil(t, CombineInTable([]*Batch{b1, other}))
	assert.Nil(t, CombineInTable(nil))
}
