package types

import (
	"math"
	"unicode/utf16"

	"silo/array"
)

func realSource(v Value, want string) (Representation, error) {
	r := v.Rep()
	if !IsReal(v) || v.Kind() == KindCharString {
		if IsComplex(v) {
			if c, err := ElementsOf[complex128](r); err == nil && allReal(c.Data()) {
				return r, nil
			}
		}
		return nil, Mismatch(want, v.Kind())
	}
	return r, nil
}

func allReal(c []complex128) bool {
	for _, x := range c {
		if imag(x) != 0 {
			return false
		}
	}
	return true
}

// AsFloat64 extracts a real scalar. Logical and integer scalars qualify;
// char does not.
func AsFloat64(v Value) (float64, error) {
	r, err := realSource(v, "a real scalar")
	if err != nil {
		return 0, err
	}
	a, err := ElementsOf[float64](r)
	if err != nil {
		return 0, err
	}
	if a.Numel() != 1 {
		return 0, Errorf(TypeMismatch, "expected a real scalar, got a %s array", a.Dims())
	}
	return a.At(0), nil
}

// AsInt extracts an integer-valued real scalar.
func AsInt(v Value) (int, error) {
	f, err := AsFloat64(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, Errorf(TypeMismatch, "expected an integer value, got %g", f)
	}
	return int(f), nil
}

// AsComplex extracts a numeric scalar as complex.
func AsComplex(v Value) (complex128, error) {
	if !IsNumeric(v) && !IsBool(v) {
		return 0, Mismatch("a numeric scalar", v.Kind())
	}
	a, err := ElementsOf[complex128](v.Rep())
	if err != nil {
		return 0, err
	}
	if a.Numel() != 1 {
		return 0, Errorf(TypeMismatch, "expected a numeric scalar, got a %s array", a.Dims())
	}
	return a.At(0), nil
}

// AsBool extracts a logical scalar.
func AsBool(v Value) (bool, error) {
	if !IsBool(v) {
		return false, Mismatch("a logical scalar", v.Kind())
	}
	a, err := ElementsOf[bool](v.Rep())
	if err != nil {
		return false, err
	}
	if a.Numel() != 1 {
		return false, Errorf(TypeMismatch, "expected a logical scalar, got a %s array", a.Dims())
	}
	return a.At(0), nil
}

// AsRealMatrix returns a copy of a real value's elements as doubles.
func AsRealMatrix(v Value) (*array.Dense[float64], error) {
	r, err := realSource(v, "a real matrix")
	if err != nil {
		return nil, err
	}
	a, err := ElementsOf[float64](r)
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

// AsRealVector returns a real vector (or empty value) as a slice.
func AsRealVector(v Value) ([]float64, error) {
	a, err := AsRealMatrix(v)
	if err != nil {
		return nil, err
	}
	if a.Numel() > 0 && !a.Dims().IsVector() {
		return nil, Errorf(TypeMismatch, "expected a vector, got a %s array", a.Dims())
	}
	return a.Data(), nil
}

// AsComplexMatrix returns a copy of a numeric value's elements as complex.
func AsComplexMatrix(v Value) (*array.Dense[complex128], error) {
	if !IsNumeric(v) && !IsBool(v) {
		return nil, Mismatch("a numeric matrix", v.Kind())
	}
	a, err := ElementsOf[complex128](v.Rep())
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

// AsBoolMatrix returns a copy of a logical value's elements.
func AsBoolMatrix(v Value) (*array.Dense[bool], error) {
	if !IsBool(v) {
		return nil, Mismatch("a logical matrix", v.Kind())
	}
	a, err := ElementsOf[bool](v.Rep())
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

// AsString extracts a char row vector. '' and 0x0 char arrays give "".
func AsString(v Value) (string, error) {
	if !IsChar(v) {
		return "", Mismatch("a string", v.Kind())
	}
	a, err := ElementsOf[uint16](v.Rep())
	if err != nil {
		return "", err
	}
	if a.Numel() > 0 && a.Dims().Rows() != 1 {
		return "", Errorf(TypeMismatch, "expected a character row vector, got a %s array", a.Dims())
	}
	return string(utf16.Decode(a.Data())), nil
}

// AsCell returns the cell representation.
func AsCell(v Value) (*Cell, error) {
	c, ok := v.Rep().(*Cell)
	if !ok {
		return nil, Mismatch("a cell array", v.Kind())
	}
	return c, nil
}

// AsStruct returns a struct value as a struct array.
func AsStruct(v Value) (*StructArray, error) {
	s, ok := AsStructArray(v.Rep())
	if !ok {
		return nil, Mismatch("a struct", v.Kind())
	}
	return s, nil
}

// AsFunctionHandle returns the function handle representation.
func AsFunctionHandle(v Value) (*FunctionHandle, error) {
	f, ok := v.Rep().(*FunctionHandle)
	if !ok {
		return nil, Mismatch("a function handle", v.Kind())
	}
	return f, nil
}

// AsObject returns the object representation.
func AsObject(v Value) (*Object, error) {
	o, ok := v.Rep().(*Object)
	if !ok {
		return nil, Mismatch("an object", v.Kind())
	}
	return o, nil
}
