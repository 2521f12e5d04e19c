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
	"math"
	"unsafe"

	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

const (
	NULL_HASH = 0xbf58476d1ce4e5b9
)

func murmurhash64(x uint64) uint64 {
	x ^= x >> 32
	x *= 0xd6e8feb86659fd93
	x ^= x >> 32
	x *= 0xd6e8feb86659fd93
	x ^= x >> 32
	return x
}

func CombineHashScalar(a, b uint64) uint64 {
	return (a * 0xbf58476d1ce4e5b9) ^ b
}

func hashBool(v bool) uint64 {
	if v {
		return murmurhash64(1)
	}
	return murmurhash64(0)
}

func hashInt[T ~int8 | ~int16 | ~int32 | ~int64](v T) uint64 {
	return murmurhash64(uint64(v))
}

func hashUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](v T) uint64 {
	return murmurhash64(uint64(v))
}

// hashFloat maps 0 and -0 onto one hash, and every NaN onto one hash.
func hashFloat[T ~float32 | ~float64](v T) uint64 {
	f := float64(v)
	switch {
	case f == 0:
		f = 0
	case math.IsNaN(f):
		f = math.NaN()
	}
	return murmurhash64(math.Float64bits(f))
}

// hashDecimal hashes the value with trailing zeros dropped, so 1.50 and 1.5
// collide.
func hashDecimal(v common.Decimal) uint64 {
	d := v.Trim(0)
	neg := uint64(0)
	if d.IsNeg() {
		neg = 1
	}
	return murmurhash64(neg) ^ murmurhash64(d.Coef()) ^ murmurhash64(uint64(d.Scale()))
}

func hashString(v string) uint64 {
	return util.HashBytes(unsafe.Slice(unsafe.StringData(v), len(v)))
}

func loopHash[T any](col Column, hashes []uint64, combine bool, fun func(T) uint64) {
	vals := Values[T](col)
	for i, val := range vals {
		h := uint64(NULL_HASH)
		if col.RowIsValid(i) {
			h = fun(val)
		}
		if combine {
			hashes[i] = CombineHashScalar(hashes[i], h)
		} else {
			hashes[i] = h
		}
	}
}

// HashColumn writes the hash of every row of col into hashes. With combine
// set, the row hash is folded into the hash already there. Rows that compare
// equal hash equal.
func HashColumn(col Column, hashes []uint64, combine bool) {
	util.AssertF(len(hashes) == col.Len(), "%d hashes for %d rows", len(hashes), col.Len())
	switch typ := col.Typ(); typ.Id {
	case common.BOOL:
		loopHash(col, hashes, combine, hashBool)
	case common.INT8:
		loopHash(col, hashes, combine, hashInt[int8])
	case common.INT16:
		loopHash(col, hashes, combine, hashInt[int16])
	case common.INT32:
		loopHash(col, hashes, combine, hashInt[int32])
	case common.INT64:
		loopHash(col, hashes, combine, hashInt[int64])
	case common.UINT8:
		loopHash(col, hashes, combine, hashUint[uint8])
	case common.UINT16:
		loopHash(col, hashes, combine, hashUint[uint16])
	case common.UINT32:
		loopHash(col, hashes, combine, hashUint[uint32])
	case common.UINT64:
		loopHash(col, hashes, combine, hashUint[uint64])
	case common.FLOAT:
		loopHash(col, hashes, combine, hashFloat[float32])
	case common.DOUBLE:
		loopHash(col, hashes, combine, hashFloat[float64])
	case common.DATE:
		loopHash(col, hashes, combine, hashInt[common.Date])
	case common.TIMESTAMP:
		loopHash(col, hashes, combine, hashInt[common.Timestamp])
	case common.INTERVAL:
		loopHash(col, hashes, combine, hashInt[common.Interval])
	case common.DECIMAL:
		loopHash(col, hashes, combine, hashDecimal)
	case common.VARCHAR:
		loopHash(col, hashes, combine, hashString)
	case common.BLOB, common.FIXEDBLOB:
		loopHash(col, hashes, combine, util.HashBytes)
	default:
		panic(fmt.Sprintf("usp hash type %s", typ))
	}
}
