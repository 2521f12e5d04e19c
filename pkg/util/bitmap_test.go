package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmap(t *testing.T) {
	var bm Bitmap
	assert.True(t, bm.Invalid())
	assert.True(t, bm.RowIsValid(100))

	bm.Set(3, true, 10)
	assert.True(t, bm.Invalid())

	bm.Set(9, false, 10)
	assert.Len(t, bm.Bits, 2)
	for i := uint64(0); i < 10; i++ {
		assert.Equal(t, i != 9, bm.RowIsValid(i), "row %d", i)
	}
	bm.Set(9, true, 10)
	assert.True(t, bm.RowIsValid(9))
}
