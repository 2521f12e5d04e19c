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
)

// MakeBuilder maps a type tag onto the Vector instantiation storing it.
// This is the only switch over physical types on the column path.
func MakeBuilder(typ common.LType, capacity int) Builder {
	switch typ.Id {
	case common.BOOL:
		return newBuilder(typ, capacity, common.BoolTraits)
	case common.INT8:
		return newBuilder(typ, capacity, common.Int8Traits)
	case common.INT16:
		return newBuilder(typ, capacity, common.Int16Traits)
	case common.INT32:
		return newBuilder(typ, capacity, common.Int32Traits)
	case common.INT64:
		return newBuilder(typ, capacity, common.Int64Traits)
	case common.UINT8:
		return newBuilder(typ, capacity, common.Uint8Traits)
	case common.UINT16:
		return newBuilder(typ, capacity, common.Uint16Traits)
	case common.UINT32:
		return newBuilder(typ, capacity, common.Uint32Traits)
	case common.UINT64:
		return newBuilder(typ, capacity, common.Uint64Traits)
	case common.FLOAT:
		return newBuilder(typ, capacity, common.FloatTraits)
	case common.DOUBLE:
		return newBuilder(typ, capacity, common.DoubleTraits)
	case common.DATE:
		return newBuilder(typ, capacity, common.DateTraits)
	case common.TIMESTAMP:
		return newBuilder(typ, capacity, common.TimestampTraits)
	case common.INTERVAL:
		return newBuilder(typ, capacity, common.IntervalTraits)
	case common.DECIMAL:
		return newBuilder(typ, capacity, common.DecimalTraits)
	case common.VARCHAR:
		return newBuilder(typ, capacity, common.VarcharTraits)
	case common.BLOB, common.FIXEDBLOB:
		return newBuilder(typ, capacity, common.BlobTraits)
	default:
		panic(fmt.Sprintf("usp type %d", typ.Id))
	}
}

// MakeBuilders returns one builder per field of schema.
func MakeBuilders(schema *common.Schema, capacity int) []Builder {
	ret := make([]Builder, schema.NumFields())
	for i, field := range schema.Fields() {
		ret[i] = MakeBuilder(field.Type, capacity)
	}
	return ret
}

func FinishBuilders(builders []Builder) []Column {
	ret := make([]Column, len(builders))
	for i, b := range builders {
		ret[i] = b.Finish()
	}
	return ret
}

// NewVector builds a column of typ from values. valid may be nil when every
// row is valid. T must be the representation MakeBuilder picks for typ.
func NewVector[T any](typ common.LType, values []T, valid []bool) Column {
	b, ok := MakeBuilder(typ, len(values)).(*vectorBuilder[T])
	if !ok {
		panic(fmt.Sprintf("type %s is not stored as %T", typ, *new(T)))
	}
	b.appendValues(values, valid)
	return b.Finish()
}

func MakeEmptyVector(typ common.LType) Column {
	return MakeBuilder(typ, 0).Finish()
}

func MakeNullVector(typ common.LType, count int) Column {
	b := MakeBuilder(typ, count)
	for i := 0; i < count; i++ {
		b.AppendNull()
	}
	return b.Finish()
}
