package chunk

import (
	"fmt"

	"github.com/daviszhen/colkit/pkg/common"
)

// Scalar is a single typed value, kept as a one-row column so that it shares
// the column ordering.
type Scalar struct {
	col Column
}

func NewScalar(typ common.LType, v any) Scalar {
	b := MakeBuilder(typ, 1)
	b.AppendValue(v)
	return Scalar{col: b.Finish()}
}

// GetScalar copies row position of col.
func GetScalar(col Column, position int) Scalar {
	if position < 0 || position >= col.Len() {
		panic(fmt.Sprintf("scalar position %d out of %d rows", position, col.Len()))
	}
	return Scalar{col: col.Take([]uint64{uint64(position)})}
}

// MinScalar is the smallest value of typ. Types without one panic.
func MinScalar(typ common.LType) Scalar {
	b := MakeBuilder(typ, 1)
	b.appendMin()
	return Scalar{col: b.Finish()}
}

func (s Scalar) Typ() common.LType {
	return s.col.Typ()
}

func (s Scalar) IsNull() bool {
	return s.col == nil || !s.col.RowIsValid(0)
}

// Value boxes the value, nil when null.
func (s Scalar) Value() any {
	if s.col == nil {
		return nil
	}
	return s.col.GetValue(0)
}

// Column is the one-row column holding the value.
func (s Scalar) Column() Column {
	return s.col
}

func (s Scalar) String() string {
	if s.col == nil {
		return "NULL"
	}
	return s.col.String(0)
}
