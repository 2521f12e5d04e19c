// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chunk

import (
	"fmt"

	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// Column is an immutable sequence of values of one physical type.
//
// The only implementation is *Vector[T], one instantiation per physical
// type, chosen by MakeBuilder. Every bulk method below runs inside the
// instantiation, so per-row work never dispatches on the type.
type Column interface {
	Typ() common.LType
	Len() int
	NullCount() int
	RowIsValid(i int) bool
	// GetValue boxes row i, nil when it is null.
	GetValue(i int) any
	String(i int) string

	// Slice shares storage with the receiver.
	Slice(offset, length int) Column
	// Take gathers rows at indices into new storage.
	Take(indices []uint64) Column

	// CompareAt orders row i against row j of other. Nulls come first.
	// other must have the same physical type.
	CompareAt(i int, other Column, j int) int
	// CompareNotNullAt ignores validity.
	CompareNotNullAt(i int, other Column, j int) int
	// UpdateCompare narrows results against row borderRow of border.
	// It returns true when no row is left at BORDER.
	UpdateCompare(border Column, borderRow int, results []common.CompareResult) bool

	sealed()
}

type Vector[T any] struct {
	typ    common.LType
	data   []T
	mask   util.Bitmap
	offset int
	nulls  int
	traits *common.Traits[T]
}

func (vec *Vector[T]) sealed() {}

func (vec *Vector[T]) Typ() common.LType {
	return vec.typ
}

func (vec *Vector[T]) Len() int {
	return len(vec.data)
}

func (vec *Vector[T]) NullCount() int {
	return vec.nulls
}

func (vec *Vector[T]) RowIsValid(i int) bool {
	return vec.mask.RowIsValid(uint64(vec.offset + i))
}

// Values exposes the backing slice. Entries of null rows are zero values.
func (vec *Vector[T]) Values() []T {
	return vec.data
}

func (vec *Vector[T]) Value(i int) T {
	return vec.data[i]
}

func (vec *Vector[T]) Traits() *common.Traits[T] {
	return vec.traits
}

func (vec *Vector[T]) GetValue(i int) any {
	if !vec.RowIsValid(i) {
		return nil
	}
	return vec.data[i]
}

func (vec *Vector[T]) String(i int) string {
	if !vec.RowIsValid(i) {
		return "NULL"
	}
	return vec.traits.Format(vec.data[i])
}

func (vec *Vector[T]) Slice(offset, length int) Column {
	util.AssertF(offset >= 0 && length >= 0 && offset+length <= len(vec.data),
		"slice [%d,%d) out of range %d", offset, offset+length, len(vec.data))
	ret := &Vector[T]{
		typ:    vec.typ,
		data:   vec.data[offset : offset+length],
		mask:   vec.mask,
		offset: vec.offset + offset,
		traits: vec.traits,
	}
	if vec.nulls > 0 {
		for i := 0; i < length; i++ {
			if !ret.RowIsValid(i) {
				ret.nulls++
			}
		}
	}
	return ret
}

func (vec *Vector[T]) Take(indices []uint64) Column {
	ret := &Vector[T]{
		typ:    vec.typ,
		data:   make([]T, len(indices)),
		traits: vec.traits,
	}
	for i, idx := range indices {
		ret.data[i] = vec.data[idx]
	}
	if vec.nulls > 0 {
		for i, idx := range indices {
			if !vec.RowIsValid(int(idx)) {
				ret.mask.Set(uint64(i), false, len(indices))
				ret.nulls++
			}
		}
	}
	return ret
}

func (vec *Vector[T]) cast(other Column) *Vector[T] {
	o, ok := other.(*Vector[T])
	if !ok || !o.typ.Equal(vec.typ) {
		panic(fmt.Sprintf("compare %s with %s", vec.typ, other.Typ()))
	}
	return o
}

func (vec *Vector[T]) CompareAt(i int, other Column, j int) int {
	o := vec.cast(other)
	lValid, rValid := vec.RowIsValid(i), o.RowIsValid(j)
	if !lValid || !rValid {
		return compareValidity(lValid, rValid)
	}
	return vec.traits.Compare(vec.data[i], o.data[j])
}

func (vec *Vector[T]) CompareNotNullAt(i int, other Column, j int) int {
	o := vec.cast(other)
	return vec.traits.Compare(vec.data[i], o.data[j])
}

func (vec *Vector[T]) UpdateCompare(border Column, borderRow int, results []common.CompareResult) bool {
	b := vec.cast(border)
	util.AssertF(len(results) == len(vec.data), "results %d rows %d", len(results), len(vec.data))
	hasBorder := false
	if !b.RowIsValid(borderRow) || vec.nulls > 0 {
		for i := range vec.data {
			if results[i] == common.BORDER {
				c := vec.CompareAt(i, b, borderRow)
				if c < 0 {
					results[i] = common.LESS
				} else if c > 0 {
					results[i] = common.GREATER
				}
			}
			hasBorder = hasBorder || results[i] == common.BORDER
		}
		return !hasBorder
	}
	bv := b.data[borderRow]
	cmp := vec.traits.Compare
	for i := range vec.data {
		common.UpdateCompare(vec.data[i], bv, cmp, &results[i])
		hasBorder = hasBorder || results[i] == common.BORDER
	}
	return !hasBorder
}

// compareValidity orders a null before any value.
func compareValidity(lValid, rValid bool) int {
	switch {
	case lValid == rValid:
		return 0
	case !lValid:
		return -1
	default:
		return 1
	}
}

// Values returns the backing slice of col, which must hold T.
func Values[T any](col Column) []T {
	vec, ok := col.(*Vector[T])
	if !ok {
		panic(fmt.Sprintf("column of %s does not hold %T", col.Typ(), *new(T)))
	}
	return vec.data
}

// HasNulls reports whether any row of col is null.
func HasNulls(col Column) bool {
	return col.NullCount() > 0
}
