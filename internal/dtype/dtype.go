// Package dtype defines the numeric element types the engine schedules
// work for, and the typed views of raw tile memory kernels operate on.
package dtype

import (
	"fmt"
	"unsafe"

	"github.com/x448/float16"
)

// DType is the constraint for supported tensor element types.
// Float16 values are represented as github.com/x448/float16.Float16.
type DType interface {
	~float32 | ~float64 | ~int64 | ~uint16
}

// DataType is runtime type information for a tile's elements.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
	Float16
	Int64
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64, Int64:
		return 8
	case Float16:
		return 2
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// Of returns the DataType for a generic element type.
func Of[T DType]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case float16.Float16:
		return Float16
	case int64:
		return Int64
	default:
		panic(fmt.Sprintf("unsupported element type %T", zero))
	}
}

// AsSlice reinterprets raw tile memory as a typed element slice.
// Panics if the byte length is not a whole number of elements.
func AsSlice[T DType](data []byte) []T {
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if len(data)%elem != 0 {
		panic(fmt.Sprintf("buffer of %d bytes is not a whole number of %T elements", len(data), zero))
	}
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/elem)
}

// Bytes reinterprets a typed element slice as raw bytes, without copying.
func Bytes[T DType](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*elem)
}
