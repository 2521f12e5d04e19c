package chunk

import (
	"fmt"

	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// Builder accumulates values of one type and produces an immutable Column.
type Builder interface {
	Typ() common.LType
	Len() int
	Reserve(n int)
	// AppendFrom copies row of src. src must have the builder's type.
	AppendFrom(src Column, row int)
	AppendSlice(src Column, offset, length int)
	// AppendValue appends a boxed value, nil appends null.
	AppendValue(v any)
	AppendNull()
	// Finish returns the column and resets the builder.
	Finish() Column

	appendMin()
}

type vectorBuilder[T any] struct {
	typ    common.LType
	data   []T
	valid  []bool
	nulls  int
	traits *common.Traits[T]
}

func newBuilder[T any](typ common.LType, capacity int, traits *common.Traits[T]) *vectorBuilder[T] {
	return &vectorBuilder[T]{
		typ:    typ,
		data:   make([]T, 0, capacity),
		traits: traits,
	}
}

func (b *vectorBuilder[T]) Typ() common.LType {
	return b.typ
}

func (b *vectorBuilder[T]) Len() int {
	return len(b.data)
}

func (b *vectorBuilder[T]) Reserve(n int) {
	if cap(b.data)-len(b.data) >= n {
		return
	}
	grown := make([]T, len(b.data), len(b.data)+n)
	copy(grown, b.data)
	b.data = grown
}

func (b *vectorBuilder[T]) source(src Column) *Vector[T] {
	vec, ok := src.(*Vector[T])
	if !ok || !vec.typ.Equal(b.typ) {
		panic(fmt.Sprintf("append %s into %s builder", src.Typ(), b.typ))
	}
	return vec
}

func (b *vectorBuilder[T]) AppendFrom(src Column, row int) {
	vec := b.source(src)
	if !vec.RowIsValid(row) {
		b.AppendNull()
		return
	}
	b.appendValid(vec.data[row])
}

func (b *vectorBuilder[T]) AppendSlice(src Column, offset, length int) {
	vec := b.source(src)
	util.AssertF(offset+length <= vec.Len(), "append [%d,%d) of %d rows", offset, offset+length, vec.Len())
	if vec.nulls == 0 {
		b.data = append(b.data, vec.data[offset:offset+length]...)
		if b.valid != nil {
			for i := 0; i < length; i++ {
				b.valid = append(b.valid, true)
			}
		}
		return
	}
	for i := offset; i < offset+length; i++ {
		b.AppendFrom(vec, i)
	}
}

func (b *vectorBuilder[T]) AppendValue(v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	val, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("append %T into %s builder", v, b.typ))
	}
	b.check(val)
	b.appendValid(b.traits.Clone(val))
}

func (b *vectorBuilder[T]) check(val T) {
	if b.traits.Check == nil {
		return
	}
	if err := b.traits.Check(b.typ, val); err != nil {
		panic(fmt.Sprintf("append into %s builder: %v", b.typ, err))
	}
}

// appendValues appends values, null where valid is false. valid may be nil.
// Flat values without a check are copied in one go.
func (b *vectorBuilder[T]) appendValues(values []T, valid []bool) {
	util.AssertF(valid == nil || len(valid) == len(values), "%d valid flags for %d values", len(valid), len(values))
	start := len(b.data)
	nulls := 0
	for _, v := range valid {
		if !v {
			nulls++
		}
	}
	if b.traits.Flat && b.traits.Check == nil {
		b.data = append(b.data, values...)
		if nulls > 0 {
			var zero T
			for i, v := range valid {
				if !v {
					b.data[start+i] = zero
				}
			}
		}
	} else {
		b.Reserve(len(values))
		var zero T
		for i, val := range values {
			if valid != nil && !valid[i] {
				b.data = append(b.data, zero)
				continue
			}
			b.check(val)
			b.data = append(b.data, b.traits.Clone(val))
		}
	}

	if nulls > 0 && b.valid == nil {
		b.valid = make([]bool, start, cap(b.data))
		for i := range b.valid {
			b.valid[i] = true
		}
	}
	if b.valid != nil {
		if valid != nil {
			b.valid = append(b.valid, valid...)
		} else {
			for range values {
				b.valid = append(b.valid, true)
			}
		}
	}
	b.nulls += nulls
}

func (b *vectorBuilder[T]) appendValid(val T) {
	b.data = append(b.data, val)
	if b.valid != nil {
		b.valid = append(b.valid, true)
	}
}

func (b *vectorBuilder[T]) appendMin() {
	val, ok := b.traits.Min(b.typ)
	if !ok {
		panic(fmt.Sprintf("type %s has no minimal value", b.typ))
	}
	b.appendValid(val)
}

func (b *vectorBuilder[T]) AppendNull() {
	if b.valid == nil {
		b.valid = make([]bool, len(b.data), cap(b.data))
		for i := range b.valid {
			b.valid[i] = true
		}
	}
	var zero T
	b.data = append(b.data, zero)
	b.valid = append(b.valid, false)
	b.nulls++
}

func (b *vectorBuilder[T]) Finish() Column {
	ret := &Vector[T]{
		typ:    b.typ,
		data:   b.data,
		nulls:  b.nulls,
		traits: b.traits,
	}
	if b.nulls > 0 {
		for i, valid := range b.valid {
			if !valid {
				ret.mask.Set(uint64(i), false, len(b.data))
			}
		}
	}
	b.data = make([]T, 0, cap(b.data))
	b.valid = nil
	b.nulls = 0
	return ret
}
