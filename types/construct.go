package types

import (
	"unicode/utf16"

	"silo/array"
)

// Literal constructors. Each one narrows its result once, so a 1x1 matrix
// literal arrives as a scalar and an evenly spaced row as a range.

// NewScalar returns a double scalar.
func NewScalar(v float64) Value {
	return Wrap(&Scalar[float64]{kind: KindScalar, v: v})
}

// NewComplex returns a complex double scalar.
func NewComplex(v complex128) Value {
	return Wrap(Narrow(&Scalar[complex128]{kind: KindComplex, v: v}))
}

// NewFloat returns a single-precision scalar.
func NewFloat(v float32) Value {
	return Wrap(&Scalar[float32]{kind: KindFloatScalar, v: v})
}

// NewBool returns a logical scalar.
func NewBool(v bool) Value {
	return Wrap(&Scalar[bool]{kind: KindBool, v: v})
}

// NewInt returns an integer scalar of T's class.
func NewInt[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](v T) Value {
	return Wrap(&Scalar[T]{kind: ScalarKindFor[T](), v: v})
}

// NewMatrix returns a double array from column-major data.
func NewMatrix(rows, cols int, data []float64) Value {
	return FromArray(array.FromSlice(Dims{rows, cols}, data))
}

// NewComplexMatrix returns a complex double array from column-major data.
func NewComplexMatrix(rows, cols int, data []complex128) Value {
	return FromArray(array.FromSlice(Dims{rows, cols}, data))
}

// NewFloatMatrix returns a single-precision array from column-major data.
func NewFloatMatrix(rows, cols int, data []float32) Value {
	return FromArray(array.FromSlice(Dims{rows, cols}, data))
}

// NewBoolMatrix returns a logical array from column-major data.
func NewBoolMatrix(rows, cols int, data []bool) Value {
	return FromArray(array.FromSlice(Dims{rows, cols}, data))
}

// NewIntMatrix returns an integer array of T's class from column-major
// data.
func NewIntMatrix[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](rows, cols int, data []T) Value {
	return FromArray(array.FromSlice(Dims{rows, cols}, data))
}

// NewMatrixRows returns a double array from row-major rows.
func NewMatrixRows(rows [][]float64) (Value, error) {
	a, err := array.FromRows(rows)
	if err != nil {
		return Value{}, FromArrayError(err)
	}
	return FromArray(a), nil
}

// NewString returns a 1xN char array.
func NewString(s string) Value {
	units := utf16.Encode([]rune(s))
	return Wrap(&Matrix[uint16]{kind: KindCharString, a: array.FromSlice(Dims{1, len(units)}, units)})
}

// NewCharMatrix returns a char array with one row per string. Rows must
// have equal length.
func NewCharMatrix(rows []string) (Value, error) {
	units := make([][]uint16, len(rows))
	for i, r := range rows {
		units[i] = utf16.Encode([]rune(r))
	}
	a, err := array.FromRows(units)
	if err != nil {
		return Value{}, FromArrayError(err)
	}
	return Wrap(&Matrix[uint16]{kind: KindCharString, a: a}), nil
}

// NewRange returns the range base:inc:limit.
func NewRange(base, inc, limit float64) Value {
	return Wrap(Narrow(NewRangeRep(base, inc, RangeCount(base, inc, limit))))
}

// NewEmpty returns the [] literal.
func NewEmpty() Value { return Wrap(&Null{kind: KindNullMatrix}) }

// NewEmptyString returns the '' literal.
func NewEmptyString() Value { return Wrap(&Null{kind: KindNullString}) }

// EmptyMatrix returns a stored 0x0 double array.
func EmptyMatrix() Value {
	return Wrap(&Matrix[float64]{kind: KindMatrix, a: array.New[float64](Dims{0, 0})})
}

// FromArray wraps a dense array as the matrix kind for its element type,
// narrowed.
func FromArray[T Elem](a *array.Dense[T]) Value {
	return Wrap(Narrow(&Matrix[T]{kind: MatrixKindFor[T](), a: a}))
}

// FromArrayRep wraps a dense array as the matrix kind for its element type
// without narrowing. Operator tables build their results with it.
func FromArrayRep[T Elem](a *array.Dense[T]) Representation {
	return &Matrix[T]{kind: MatrixKindFor[T](), a: a}
}

// CharArrayRep wraps code units as a char array.
func CharArrayRep(a *array.Dense[uint16]) Representation {
	return &Matrix[uint16]{kind: KindCharString, a: a}
}

// NewSparse returns a sparse double matrix from a dense one.
func NewSparse(a *array.Dense[float64]) (Value, error) {
	s, err := array.SparseFromDense(a)
	if err != nil {
		return Value{}, FromArrayError(err)
	}
	return Wrap(&Sparse[float64]{s: s}), nil
}

// NewCell returns a cell array from column-major elements. The cell takes
// the shares held by elems; nil elems gives a cell of empty matrices.
func NewCell(rows, cols int, elems []Value) Value {
	if elems == nil {
		elems = make([]Value, rows*cols)
	}
	return Wrap(NewCellRep(array.FromSlice(Dims{rows, cols}, elems)))
}

// NewStruct returns a scalar struct.
func NewStruct(keys []string, vals []Value) Value {
	return Wrap(NewScalarStructRep(keys, vals))
}

// NewFunctionHandle returns a handle to a named function.
func NewFunctionHandle(name string) Value {
	return Wrap(NewFunctionHandleRep(name))
}

// NewAnonymousFunction returns an anonymous function handle.
func NewAnonymousFunction(params []string, body string, captured map[string]Value) Value {
	return Wrap(NewAnonymousFunctionRep(params, body, captured))
}

// NewObject returns an instance of a user-defined class.
func NewObject(class string, handle bool, keys []string, vals []Value) Value {
	return Wrap(NewObjectRep(class, handle, keys, vals))
}

// NewCSList returns a cs-list of shares of vals.
func NewCSList(vals []Value) Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		out[i] = v.Copy()
	}
	return Wrap(NewCSListRep(out))
}

// Storable converts a right-hand side into something a variable may
// hold: a single-element cs-list yields its element, null literals become
// plain empty arrays.
func Storable(v Value) (Value, error) {
	switch r := v.Rep().(type) {
	case *CSList:
		if len(r.vals) != 1 {
			return Value{}, Errorf(NonconformantArguments, "some elements undefined in cs-list assignment (%d values for 1 target)", len(r.vals))
		}
		return r.vals[0].Copy(), nil
	case *Null:
		return Wrap(r.Storable()), nil
	case undefined:
		return Value{}, Errorf(Undefined, "value on right hand side of assignment is undefined")
	}
	return v.Copy(), nil
}
