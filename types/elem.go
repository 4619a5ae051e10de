package types

import (
	"math"

	"golang.org/x/exp/constraints"

	"silo/array"
)

// Elem is the set of element types a numeric representation can store.
// Character data is stored as uint16 code units.
type Elem interface {
	bool | constraints.Integer | constraints.Float | constraints.Complex
}

// ElementsOf returns r's payload converted to element type T. When r
// already stores T the result aliases r's storage and must not be
// modified.
func ElementsOf[T Elem](r Representation) (*array.Dense[T], error) {
	n, ok := r.(Numeric)
	if !ok {
		return nil, Mismatch("a numeric value", r.Kind())
	}
	switch src := n.Elements().(type) {
	case *array.Dense[T]:
		return src, nil
	case *array.Dense[bool]:
		return convertDense[bool, T](src), nil
	case *array.Dense[float64]:
		return convertDense[float64, T](src), nil
	case *array.Dense[float32]:
		return convertDense[float32, T](src), nil
	case *array.Dense[complex128]:
		return convertDense[complex128, T](src), nil
	case *array.Dense[complex64]:
		return convertDense[complex64, T](src), nil
	case *array.Dense[int8]:
		return convertDense[int8, T](src), nil
	case *array.Dense[int16]:
		return convertDense[int16, T](src), nil
	case *array.Dense[int32]:
		return convertDense[int32, T](src), nil
	case *array.Dense[int64]:
		return convertDense[int64, T](src), nil
	case *array.Dense[uint8]:
		return convertDense[uint8, T](src), nil
	case *array.Dense[uint16]:
		return convertDense[uint16, T](src), nil
	case *array.Dense[uint32]:
		return convertDense[uint32, T](src), nil
	case *array.Dense[uint64]:
		return convertDense[uint64, T](src), nil
	}
	return nil, Mismatch("a numeric value", r.Kind())
}

func convertDense[S, T Elem](src *array.Dense[S]) *array.Dense[T] {
	to, from := toComplex[S](), fromComplex[T]()
	return array.Map(src, func(s S) T { return from(to(s)) })
}

// Cast converts one element between element types.
func Cast[S, T Elem](s S) T {
	return fromComplex[T]()(toComplex[S]()(s))
}

func toComplex[S Elem]() func(S) complex128 {
	var z S
	switch any(z).(type) {
	case bool:
		return func(s S) complex128 {
			if any(s).(bool) {
				return 1
			}
			return 0
		}
	case float64:
		return func(s S) complex128 { return complex(any(s).(float64), 0) }
	case float32:
		return func(s S) complex128 { return complex(float64(any(s).(float32)), 0) }
	case complex128:
		return func(s S) complex128 { return any(s).(complex128) }
	case complex64:
		return func(s S) complex128 { return complex128(any(s).(complex64)) }
	case int8:
		return func(s S) complex128 { return complex(float64(any(s).(int8)), 0) }
	case int16:
		return func(s S) complex128 { return complex(float64(any(s).(int16)), 0) }
	case int32:
		return func(s S) complex128 { return complex(float64(any(s).(int32)), 0) }
	case int64:
		return func(s S) complex128 { return complex(float64(any(s).(int64)), 0) }
	case uint8:
		return func(s S) complex128 { return complex(float64(any(s).(uint8)), 0) }
	case uint16:
		return func(s S) complex128 { return complex(float64(any(s).(uint16)), 0) }
	case uint32:
		return func(s S) complex128 { return complex(float64(any(s).(uint32)), 0) }
	case uint64:
		return func(s S) complex128 { return complex(float64(any(s).(uint64)), 0) }
	}
	panic("types: unsupported element type")
}

func fromComplex[T Elem]() func(complex128) T {
	var z T
	switch any(z).(type) {
	case bool:
		return func(c complex128) T { return any(c != 0).(T) }
	case float64:
		return func(c complex128) T { return any(real(c)).(T) }
	case float32:
		return func(c complex128) T { return any(float32(real(c))).(T) }
	case complex128:
		return func(c complex128) T { return any(c).(T) }
	case complex64:
		return func(c complex128) T { return any(complex64(c)).(T) }
	case int8:
		return func(c complex128) T { return any(Saturate[int8](real(c))).(T) }
	case int16:
		return func(c complex128) T { return any(Saturate[int16](real(c))).(T) }
	case int32:
		return func(c complex128) T { return any(Saturate[int32](real(c))).(T) }
	case int64:
		return func(c complex128) T { return any(Saturate[int64](real(c))).(T) }
	case uint8:
		return func(c complex128) T { return any(Saturate[uint8](real(c))).(T) }
	case uint16:
		return func(c complex128) T { return any(Saturate[uint16](real(c))).(T) }
	case uint32:
		return func(c complex128) T { return any(Saturate[uint32](real(c))).(T) }
	case uint64:
		return func(c complex128) T { return any(Saturate[uint64](real(c))).(T) }
	}
	panic("types: unsupported element type")
}

// IntLimits returns the smallest and largest values of an integer type.
func IntLimits[T constraints.Integer]() (lo, hi T) {
	var z T
	switch any(z).(type) {
	case int8:
		return any(int8(math.MinInt8)).(T), any(int8(math.MaxInt8)).(T)
	case int16:
		return any(int16(math.MinInt16)).(T), any(int16(math.MaxInt16)).(T)
	case int32:
		return any(int32(math.MinInt32)).(T), any(int32(math.MaxInt32)).(T)
	case int64:
		return any(int64(math.MinInt64)).(T), any(int64(math.MaxInt64)).(T)
	case uint8:
		return 0, any(uint8(math.MaxUint8)).(T)
	case uint16:
		return 0, any(uint16(math.MaxUint16)).(T)
	case uint32:
		return 0, any(uint32(math.MaxUint32)).(T)
	case uint64:
		return 0, any(uint64(math.MaxUint64)).(T)
	}
	panic("types: unsupported integer type")
}

// Saturate rounds f half away from zero and clamps it to T's range. NaN
// maps to zero.
func Saturate[T constraints.Integer](f float64) T {
	if math.IsNaN(f) {
		return 0
	}
	lo, hi := IntLimits[T]()
	if f >= float64(hi) {
		return hi
	}
	if f <= float64(lo) {
		return lo
	}
	return T(math.Round(f))
}

// MatrixKindFor returns the full-array kind storing element type T.
func MatrixKindFor[T Elem]() Kind {
	var z T
	switch any(z).(type) {
	case bool:
		return KindBoolMatrix
	case float64:
		return KindMatrix
	case float32:
		return KindFloatMatrix
	case complex128:
		return KindComplexMatrix
	case complex64:
		return KindFloatComplexMatrix
	case int8:
		return KindInt8Matrix
	case int16:
		return KindInt16Matrix
	case int32:
		return KindInt32Matrix
	case int64:
		return KindInt64Matrix
	case uint8:
		return KindUint8Matrix
	case uint16:
		return KindUint16Matrix
	case uint32:
		return KindUint32Matrix
	case uint64:
		return KindUint64Matrix
	}
	panic("types: unsupported element type")
}

// ScalarKindFor returns the scalar kind storing element type T.
func ScalarKindFor[T Elem]() Kind {
	k, _ := ScalarKind(MatrixKindFor[T]())
	return k
}
