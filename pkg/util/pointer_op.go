package util

import (
	"unsafe"
)

func PointerToSlice[T any](base unsafe.Pointer, len int) []T {
	return unsafe.Slice((*T)(base), len)
}

// ToSlice reinterprets data as a slice of T. pSize is sizeof(T).
func ToSlice[T any](data []byte, pSize int) []T {
	slen := len(data) / pSize
	if slen == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), slen)
}

// ToBytes reinterprets a fixed-width slice as its raw bytes without copying.
func ToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), len(data)*int(unsafe.Sizeof(zero)))
}
