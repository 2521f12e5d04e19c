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

package codec

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/daviszhen/colkit/pkg/common"
)

// ToArrowType maps a column type onto its IPC representation.
func ToArrowType(typ common.LType) (arrow.DataType, error) {
	switch typ.Id {
	case common.BOOL:
		return arrow.FixedWidthTypes.Boolean, nil
	case common.INT8:
		return arrow.PrimitiveTypes.Int8, nil
	case common.INT16:
		return arrow.PrimitiveTypes.Int16, nil
	case common.INT32:
		return arrow.PrimitiveTypes.Int32, nil
	case common.INT64:
		return arrow.PrimitiveTypes.Int64, nil
	case common.UINT8:
		return arrow.PrimitiveTypes.Uint8, nil
	case common.UINT16:
		return arrow.PrimitiveTypes.Uint16, nil
	case common.UINT32:
		return arrow.PrimitiveTypes.Uint32, nil
	case common.UINT64:
		return arrow.PrimitiveTypes.Uint64, nil
	case common.FLOAT:
		return arrow.PrimitiveTypes.Float32, nil
	case common.DOUBLE:
		return arrow.PrimitiveTypes.Float64, nil
	case common.DATE:
		return arrow.FixedWidthTypes.Date32, nil
	case common.TIMESTAMP:
		return &arrow.TimestampType{Unit: arrow.Microsecond}, nil
	case common.INTERVAL:
		return arrow.FixedWidthTypes.Duration_us, nil
	case common.DECIMAL:
		return &arrow.Decimal128Type{Precision: int32(typ.Width), Scale: int32(typ.Scale)}, nil
	case common.VARCHAR:
		return arrow.BinaryTypes.String, nil
	case common.BLOB:
		return arrow.BinaryTypes.Binary, nil
	case common.FIXEDBLOB:
		return &arrow.FixedSizeBinaryType{ByteWidth: typ.Width}, nil
	default:
		return nil, fmt.Errorf("usp type %s", typ)
	}
}

// FromArrowType is the inverse of ToArrowType.
func FromArrowType(dt arrow.DataType) (common.LType, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return common.BooleanType(), nil
	case arrow.INT8:
		return common.TinyintType(), nil
	case arrow.INT16:
		return common.SmallintType(), nil
	case arrow.INT32:
		return common.IntegerType(), nil
	case arrow.INT64:
		return common.BigintType(), nil
	case arrow.UINT8:
		return common.UTinyintType(), nil
	case arrow.UINT16:
		return common.USmallintType(), nil
	case arrow.UINT32:
		return common.UIntegerType(), nil
	case arrow.UINT64:
		return common.UbigintType(), nil
	case arrow.FLOAT32:
		return common.FloatType(), nil
	case arrow.FLOAT64:
		return common.DoubleType(), nil
	case arrow.DATE32:
		return common.DateType(), nil
	case arrow.TIMESTAMP:
		if ts := dt.(*arrow.TimestampType); ts.Unit == arrow.Microsecond && ts.TimeZone == "" {
			return common.TimestampType(), nil
		}
	case arrow.DURATION:
		if dt.(*arrow.DurationType).Unit == arrow.Microsecond {
			return common.IntervalType(), nil
		}
	case arrow.DECIMAL128:
		dec := dt.(*arrow.Decimal128Type)
		return common.LType{Id: common.DECIMAL, Width: int(dec.Precision), Scale: int(dec.Scale)}, nil
	case arrow.STRING:
		return common.VarcharType(), nil
	case arrow.BINARY:
		return common.BlobType(), nil
	case arrow.FIXED_SIZE_BINARY:
		return common.LType{Id: common.FIXEDBLOB, Width: dt.(*arrow.FixedSizeBinaryType).ByteWidth}, nil
	}
	return common.LType{}, fmt.Errorf("usp arrow type %s", dt)
}

// ToArrowSchema maps every field. Every field is nullable.
func ToArrowSchema(schema *common.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, schema.NumFields())
	for _, field := range schema.Fields() {
		dt, err := ToArrowType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		fields = append(fields, arrow.Field{
			Name:     field.Name,
			Type:     dt,
			Nullable: true,
		})
	}
	return arrow.NewSchema(fields, nil), nil
}

func FromArrowSchema(schema *arrow.Schema) (*common.Schema, error) {
	fields := make([]common.Field, 0, schema.NumFields())
	for _, field := range schema.Fields() {
		typ, err := FromArrowType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		fields = append(fields, common.Field{Name: field.Name, Type: typ})
	}
	return common.TryNewSchema(fields)
}
