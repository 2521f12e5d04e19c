package codec

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

type wordsBuilder[A any] interface {
	AppendValues(v []A, valid []bool)
}

// validity returns nil when col has no nulls.
func validity(col chunk.Column) []bool {
	if col.NullCount() == 0 {
		return nil
	}
	valid := make([]bool, col.Len())
	for i := range valid {
		valid[i] = col.RowIsValid(i)
	}
	return valid
}

// appendWords hands the fixed-width values of col to b without converting
// them one by one. T and A share size and layout.
func appendWords[T, A common.FixedWidth](b wordsBuilder[A], col chunk.Column) {
	vals := chunk.Values[T](col)
	b.AppendValues(util.ToSlice[A](util.ToBytes(vals), int(unsafe.Sizeof(*new(A)))), validity(col))
}

func appendColumn(b array.Builder, col chunk.Column) error {
	typ := col.Typ()
	switch typ.Id {
	case common.BOOL:
		b.(*array.BooleanBuilder).AppendValues(chunk.Values[bool](col), validity(col))
	case common.INT8:
		appendWords[int8, int8](b.(*array.Int8Builder), col)
	case common.INT16:
		appendWords[int16, int16](b.(*array.Int16Builder), col)
	case common.INT32:
		appendWords[int32, int32](b.(*array.Int32Builder), col)
	case common.INT64:
		appendWords[int64, int64](b.(*array.Int64Builder), col)
	case common.UINT8:
		appendWords[uint8, uint8](b.(*array.Uint8Builder), col)
	case common.UINT16:
		appendWords[uint16, uint16](b.(*array.Uint16Builder), col)
	case common.UINT32:
		appendWords[uint32, uint32](b.(*array.Uint32Builder), col)
	case common.UINT64:
		appendWords[uint64, uint64](b.(*array.Uint64Builder), col)
	case common.FLOAT:
		appendWords[float32, float32](b.(*array.Float32Builder), col)
	case common.DOUBLE:
		appendWords[float64, float64](b.(*array.Float64Builder), col)
	case common.DATE:
		appendWords[common.Date, arrow.Date32](b.(*array.Date32Builder), col)
	case common.TIMESTAMP:
		appendWords[common.Timestamp, arrow.Timestamp](b.(*array.TimestampBuilder), col)
	case common.INTERVAL:
		appendWords[common.Interval, arrow.Duration](b.(*array.DurationBuilder), col)
	case common.DECIMAL:
		db := b.(*array.Decimal128Builder)
		vals := chunk.Values[common.Decimal](col)
		for i, val := range vals {
			if !col.RowIsValid(i) {
				db.AppendNull()
				continue
			}
			// decimal128 rounds extra fraction digits away.
			if err := common.DecimalTraits.Check(typ, val); err != nil {
				return err
			}
			num, err := decimal128.FromString(val.String(), int32(typ.Width), int32(typ.Scale))
			if err != nil {
				return fmt.Errorf("decimal %s: %w", val, err)
			}
			db.Append(num)
		}
	case common.VARCHAR:
		b.(*array.StringBuilder).AppendValues(chunk.Values[string](col), validity(col))
	case common.BLOB:
		bb := b.(*array.BinaryBuilder)
		for i, val := range chunk.Values[[]byte](col) {
			if col.RowIsValid(i) {
				bb.Append(val)
			} else {
				bb.AppendNull()
			}
		}
	case common.FIXEDBLOB:
		fb := b.(*array.FixedSizeBinaryBuilder)
		for i, val := range chunk.Values[[]byte](col) {
			if col.RowIsValid(i) {
				fb.Append(val)
			} else {
				fb.AppendNull()
			}
		}
	default:
		return fmt.Errorf("usp type %s", typ)
	}
	return nil
}

// toRecord copies batch into an arrow record. The caller releases it.
func toRecord(mem memory.Allocator, schema *arrow.Schema, batch *chunk.Batch) (arrow.Record, error) {
	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()
	rb.Reserve(batch.NumRows())
	for i, col := range batch.Columns() {
		if err := appendColumn(rb.Field(i), col); err != nil {
			return nil, fmt.Errorf("column %s: %w", batch.Schema().Field(i).Name, err)
		}
	}
	return rb.NewRecord(), nil
}

func arrayValidity(arr arrow.Array) []bool {
	if arr.NullN() == 0 {
		return nil
	}
	valid := make([]bool, arr.Len())
	for i := range valid {
		valid[i] = arr.IsValid(i)
	}
	return valid
}

func fromWords[T, A common.FixedWidth](typ common.LType, vals []A, arr arrow.Array) chunk.Column {
	return chunk.NewVector(typ, util.ToSlice[T](util.ToBytes(vals), int(unsafe.Sizeof(*new(T)))), arrayValidity(arr))
}

func fromValues[T any](typ common.LType, arr arrow.Array, value func(i int) T) chunk.Column {
	vals := make([]T, arr.Len())
	for i := range vals {
		if arr.IsValid(i) {
			vals[i] = value(i)
		}
	}
	return chunk.NewVector(typ, vals, arrayValidity(arr))
}

// parseDecimal drops trailing fraction zeros the fixed scale added.
func parseDecimal(s string) (common.Decimal, error) {
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return common.ParseDecimal(s)
}

// fromArray copies arr into a column of typ. The arrow type of arr must be
// ToArrowType(typ).
func fromArray(typ common.LType, arr arrow.Array) (chunk.Column, error) {
	switch a := arr.(type) {
	case *array.Boolean:
		return fromValues(typ, a, a.Value), nil
	case *array.Int8:
		return fromWords[int8](typ, a.Int8Values(), a), nil
	case *array.Int16:
		return fromWords[int16](typ, a.Int16Values(), a), nil
	case *array.Int32:
		return fromWords[int32](typ, a.Int32Values(), a), nil
	case *array.Int64:
		return fromWords[int64](typ, a.Int64Values(), a), nil
	case *array.Uint8:
		return fromWords[uint8](typ, a.Uint8Values(), a), nil
	case *array.Uint16:
		return fromWords[uint16](typ, a.Uint16Values(), a), nil
	case *array.Uint32:
		return fromWords[uint32](typ, a.Uint32Values(), a), nil
	case *array.Uint64:
		return fromWords[uint64](typ, a.Uint64Values(), a), nil
	case *array.Float32:
		return fromWords[float32](typ, a.Float32Values(), a), nil
	case *array.Float64:
		return fromWords[float64](typ, a.Float64Values(), a), nil
	case *array.Date32:
		return fromWords[common.Date](typ, a.Date32Values(), a), nil
	case *array.Timestamp:
		return fromWords[common.Timestamp](typ, a.TimestampValues(), a), nil
	case *array.Duration:
		return fromWords[common.Interval](typ, a.DurationValues(), a), nil
	case *array.Decimal128:
		var err error
		col := fromValues(typ, a, func(i int) common.Decimal {
			val, perr := parseDecimal(a.Value(i).ToString(int32(typ.Scale)))
			if perr != nil && err == nil {
				err = perr
			}
			return val
		})
		if err != nil {
			return nil, err
		}
		return col, nil
	case *array.String:
		return fromValues(typ, a, a.Value), nil
	case *array.Binary:
		return fromValues(typ, a, a.Value), nil
	case *array.FixedSizeBinary:
		return fromValues(typ, a, a.Value), nil
	default:
		return nil, fmt.Errorf("usp arrow array %s", arr.DataType())
	}
}
