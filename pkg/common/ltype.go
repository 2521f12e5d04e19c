package common

import (
	"fmt"
)

const (
	DecimalPrecision = 22
	DecimalScale     = 9
)

// LType is a physical type plus its parameters: byte width for FIXEDBLOB,
// precision and scale for DECIMAL.
type LType struct {
	Id    PhyType
	Width int
	Scale int
}

func BooleanType() LType {
	return LType{Id: BOOL}
}

func TinyintType() LType {
	return LType{Id: INT8}
}

func SmallintType() LType {
	return LType{Id: INT16}
}

func IntegerType() LType {
	return LType{Id: INT32}
}

func BigintType() LType {
	return LType{Id: INT64}
}

func UTinyintType() LType {
	return LType{Id: UINT8}
}

func USmallintType() LType {
	return LType{Id: UINT16}
}

func UIntegerType() LType {
	return LType{Id: UINT32}
}

func UbigintType() LType {
	return LType{Id: UINT64}
}

func FloatType() LType {
	return LType{Id: FLOAT}
}

func DoubleType() LType {
	return LType{Id: DOUBLE}
}

func DateType() LType {
	return LType{Id: DATE}
}

func TimestampType() LType {
	return LType{Id: TIMESTAMP}
}

func IntervalType() LType {
	return LType{Id: INTERVAL}
}

func DecimalType(width, scale int) LType {
	return LType{Id: DECIMAL, Width: width, Scale: scale}
}

func VarcharType() LType {
	return LType{Id: VARCHAR}
}

func BlobType() LType {
	return LType{Id: BLOB}
}

func FixedBlobType(width int) LType {
	if width <= 0 {
		panic(fmt.Sprintf("invalid fixed blob width %d", width))
	}
	return LType{Id: FIXEDBLOB, Width: width}
}

func (lt LType) Equal(o LType) bool {
	return lt.Id == o.Id && lt.Width == o.Width && lt.Scale == o.Scale
}

func (lt LType) IsValid() bool {
	_, has := pTypeToStr[lt.Id]
	if !has || lt.Id == INVALID {
		return false
	}
	switch lt.Id {
	case DECIMAL:
		return lt.Width > 0 && lt.Scale >= 0 && lt.Scale <= lt.Width
	case FIXEDBLOB:
		return lt.Width > 0
	}
	return lt.Width == 0 && lt.Scale == 0
}

func (lt LType) String() string {
	switch lt.Id {
	case DECIMAL:
		return fmt.Sprintf("DECIMAL(%d,%d)", lt.Width, lt.Scale)
	case FIXEDBLOB:
		return fmt.Sprintf("FIXEDBLOB(%d)", lt.Width)
	}
	return lt.Id.String()
}
