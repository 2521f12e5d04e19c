package compute

import (
	"sort"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/util"
)

// ScalarLess orders two non-null scalars of one type.
func ScalarLess(x, y chunk.Scalar) bool {
	util.AssertF(x.Column() != nil && y.Column() != nil, "nil scalar")
	util.AssertF(x.Typ().Equal(y.Typ()), "scalar %s vs %s", x.Typ(), y.Typ())
	util.AssertF(!x.IsNull() && !y.IsNull(), "null scalar in ScalarLess")
	return x.Column().CompareNotNullAt(0, y.Column(), 0) < 0
}

// IsGoodScalar reports whether s holds a value.
func IsGoodScalar(s chunk.Scalar) bool {
	return s.Column() != nil && !s.IsNull()
}

// LowerBound returns the first position at or after offset whose value is
// not less than border. col must be sorted ascending from offset on.
func LowerBound(col chunk.Column, border chunk.Scalar, offset int) int {
	util.AssertF(offset >= 0 && offset <= col.Len(), "offset %d out of %d rows", offset, col.Len())
	bcol := border.Column()
	return offset + sort.Search(col.Len()-offset, func(i int) bool {
		return col.CompareAt(offset+i, bcol, 0) >= 0
	})
}

// FindMinMaxPosition returns the positions of the first minimal and the
// first maximal value. Null rows are skipped, -1 means no value.
func FindMinMaxPosition(col chunk.Column) (int, int) {
	minPos, maxPos := -1, -1
	for i := 0; i < col.Len(); i++ {
		if !col.RowIsValid(i) {
			continue
		}
		if minPos < 0 {
			minPos, maxPos = i, i
			continue
		}
		if col.CompareNotNullAt(i, col, minPos) < 0 {
			minPos = i
		}
		if col.CompareNotNullAt(i, col, maxPos) > 0 {
			maxPos = i
		}
	}
	return minPos, maxPos
}
