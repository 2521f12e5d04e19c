package common

import "fmt"

// PhyType is the closed catalog of physical column types.
type PhyType int

const (
	INVALID   PhyType = 0
	BOOL      PhyType = 1
	INT8      PhyType = 2
	INT16     PhyType = 3
	INT32     PhyType = 4
	INT64     PhyType = 5
	UINT8     PhyType = 6
	UINT16    PhyType = 7
	UINT32    PhyType = 8
	UINT64    PhyType = 9
	FLOAT     PhyType = 10
	DOUBLE    PhyType = 11
	DATE      PhyType = 20
	TIMESTAMP PhyType = 21
	INTERVAL  PhyType = 22
	DECIMAL   PhyType = 30
	VARCHAR   PhyType = 40
	BLOB      PhyType = 41
	FIXEDBLOB PhyType = 42
)

var pTypeToStr = map[PhyType]string{
	INVALID:   "INVALID",
	BOOL:      "BOOL",
	INT8:      "INT8",
	INT16:     "INT16",
	INT32:     "INT32",
	INT64:     "INT64",
	UINT8:     "UINT8",
	UINT16:    "UINT16",
	UINT32:    "UINT32",
	UINT64:    "UINT64",
	FLOAT:     "FLOAT",
	DOUBLE:    "DOUBLE",
	DATE:      "DATE",
	TIMESTAMP: "TIMESTAMP",
	INTERVAL:  "INTERVAL",
	DECIMAL:   "DECIMAL",
	VARCHAR:   "VARCHAR",
	BLOB:      "BLOB",
	FIXEDBLOB: "FIXEDBLOB",
}

// AllPhyTypes lists every supported tag, in declaration order.
var AllPhyTypes = []PhyType{
	BOOL, INT8, INT16, INT32, INT64, UINT8, UINT16, UINT32, UINT64,
	FLOAT, DOUBLE, DATE, TIMESTAMP, INTERVAL, DECIMAL, VARCHAR, BLOB, FIXEDBLOB,
}

func (pt PhyType) String() string {
	if s, has := pTypeToStr[pt]; has {
		return s
	}
	panic(fmt.Sprintf("usp %d", pt))
}
