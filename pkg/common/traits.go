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

package common

import (
	"bytes"
	"cmp"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ordered are the representations the builtin operators order.
type Ordered interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// FixedWidth are the representations stored as plain little-endian words.
type FixedWidth interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ByteView are the representations compared byte-wise.
type ByteView interface {
	~string | ~[]byte
}

// Traits carries everything generic algorithms need to know about T.
type Traits[T any] struct {
	// Compare is a total order. Floats order NaN first.
	Compare func(a, b T) int
	Format  func(v T) string
	// Min returns the smallest value of typ, false when there is none.
	Min func(typ LType) (T, bool)
	// Clone detaches a value from shared storage.
	Clone func(v T) T
	// Check rejects a value the column type cannot hold. Nil accepts all.
	Check func(typ LType, v T) error
	// Flat values own no memory, so a copy of the word is a copy of the value.
	Flat bool
}

func identity[T any](v T) T {
	return v
}

func noMin[T any](LType) (T, bool) {
	var zero T
	return zero, false
}

func OrderedTraits[T Ordered](lowest T, format func(v T) string) *Traits[T] {
	return &Traits[T]{
		Compare: cmp.Compare[T],
		Format:  format,
		Min: func(LType) (T, bool) {
			return lowest, true
		},
		Clone: identity[T],
		Flat:  true,
	}
}

// CompareBytes orders byte strings lexicographically, length breaking ties.
func CompareBytes[T ByteView](a, b T) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func formatInt[T ~int8 | ~int16 | ~int32 | ~int64](v T) string {
	return strconv.FormatInt(int64(v), 10)
}

func formatUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](v T) string {
	return strconv.FormatUint(uint64(v), 10)
}

func formatFloat[T ~float32 | ~float64](bits int) func(v T) string {
	return func(v T) string {
		return strconv.FormatFloat(float64(v), 'g', -1, bits)
	}
}

var (
	BoolTraits = &Traits[bool]{
		Compare: compareBool,
		Format:  strconv.FormatBool,
		Min: func(LType) (bool, bool) {
			return false, true
		},
		Clone: identity[bool],
		Flat:  true,
	}
	Int8Traits      = OrderedTraits[int8](math.MinInt8, formatInt[int8])
	Int16Traits     = OrderedTraits[int16](math.MinInt16, formatInt[int16])
	Int32Traits     = OrderedTraits[int32](math.MinInt32, formatInt[int32])
	Int64Traits     = OrderedTraits[int64](math.MinInt64, formatInt[int64])
	Uint8Traits     = OrderedTraits[uint8](0, formatUint[uint8])
	Uint16Traits    = OrderedTraits[uint16](0, formatUint[uint16])
	Uint32Traits    = OrderedTraits[uint32](0, formatUint[uint32])
	Uint64Traits    = OrderedTraits[uint64](0, formatUint[uint64])
	FloatTraits     = OrderedTraits[float32](float32(math.Inf(-1)), formatFloat[float32](32))
	DoubleTraits    = OrderedTraits[float64](math.Inf(-1), formatFloat[float64](64))
	DateTraits      = OrderedTraits[Date](math.MinInt32, Date.String)
	TimestampTraits = OrderedTraits[Timestamp](math.MinInt64, Timestamp.String)
	IntervalTraits  = OrderedTraits[Interval](math.MinInt64, Interval.String)
	DecimalTraits   = &Traits[Decimal]{
		Compare: compareDecimal,
		Format:  Decimal.String,
		Min:     noMin[Decimal],
		Clone:   identity[Decimal],
		Check:   checkDecimal,
		Flat:    true,
	}
	VarcharTraits = &Traits[string]{
		Compare: CompareBytes[string],
		Format:  strconv.Quote,
		Min: func(LType) (string, bool) {
			return "", true
		},
		Clone: strings.Clone,
	}
	BlobTraits = &Traits[[]byte]{
		Compare: CompareBytes[[]byte],
		Format:  hex.EncodeToString,
		Min: func(typ LType) ([]byte, bool) {
			if typ.Id == FIXEDBLOB {
				return make([]byte, typ.Width), true
			}
			return []byte{}, true
		},
		Clone: bytes.Clone,
		Check: checkBlob,
	}
)

func checkBlob(typ LType, v []byte) error {
	if typ.Id == FIXEDBLOB && len(v) != typ.Width {
		return fmt.Errorf("%d bytes for %s", len(v), typ)
	}
	return nil
}
