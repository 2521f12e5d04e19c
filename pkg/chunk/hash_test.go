package chunk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daviszhen/colkit/pkg/common"
)

func hashOf(col Column) []uint64 {
	hashes := make([]uint64, col.Len())
	HashColumn(col, hashes, false)
	return hashes
}

func TestHashColumnEqualRows(t *testing.T) {
	tests := []struct {
		name string
		col  Column
	}{
		{"bigint", NewVector(common.BigintType(), []int64{7, 7}, nil)},
		{"varchar", NewVector(common.VarcharType(), []string{"abcdefghij", "abcdefghij"}, nil)},
		{"blob", NewVector(common.BlobType(), [][]byte{{1, 2, 3}, {1, 2, 3}}, nil)},
		{"double zero", NewVector(common.DoubleType(), []float64{0, math.Copysign(0, -1)}, nil)},
		{"double nan", NewVector(common.DoubleType(), []float64{math.NaN(), -math.NaN()}, nil)},
		{"decimal scale", NewVector(common.DecimalType(10, 2), []common.Decimal{
			common.MustDecimal("1.50"), common.MustDecimal("1.5"),
		}, nil)},
		{"nulls", NewVector(common.IntegerType(), []int32{1, 2}, []bool{false, false})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0, tt.col.CompareAt(0, tt.col, 1))
			hashes := hashOf(tt.col)
			assert.Equal(t, hashes[0], hashes[1])
		})
	}
}

func TestHashColumnNull(t *testing.T) {
	col := NewVector(common.BigintType(), []int64{0, 0}, []bool{true, false})
	hashes := hashOf(col)
	assert.Equal(t, uint64(NULL_HASH), hashes[1])
	assert.NotEqual(t, hashes[0], hashes[1])
}

func TestHashColumnCombine(t *testing.T) {
	a := NewVector(common.BigintType(), []int64{1, 1, 2}, nil)
	b := NewVector(common.VarcharType(), []string{"x", "y", "x"}, nil)
	hashes := make([]uint64, 3)
	HashColumn(a, hashes, false)
	HashColumn(b, hashes, true)
	assert.NotEqual(t, hashes[0], hashes[1])
	assert.NotEqual(t, hashes[0], hashes[2])

	again := make([]uint64, 3)
	HashColumn(a, again, false)
	HashColumn(b, again, true)
	assert.Equal(t, hashes, again)

	assert.Panics(t, func() {
		HashColumn(a, make([]uint64, 2), false)
	})
}
