package types

import (
	"math"
	"unsafe"

	"silo/array"
)

// Matrix represents a full N-d array of numbers, booleans or characters.
// One Go type serves several kinds; the kind tag tells them apart (a
// uint16 array is either a uint16 matrix or a char string).
type Matrix[T Elem] struct {
	kind Kind
	a    *array.Dense[T]
}

// NewMatrixRep wraps a dense array as a representation of the given kind.
func NewMatrixRep[T Elem](kind Kind, a *array.Dense[T]) *Matrix[T] {
	return &Matrix[T]{kind: kind, a: a}
}

func (m *Matrix[T]) Kind() Kind { return m.kind }
func (m *Matrix[T]) Dims() Dims { return m.a.Dims() }
func (m *Matrix[T]) Elements() any { return m.a }

// Array exposes the backing array. Callers own it only when the
// representation is exclusively held.
func (m *Matrix[T]) Array() *array.Dense[T] { return m.a }

func (m *Matrix[T]) Clone() Representation {
	return &Matrix[T]{kind: m.kind, a: m.a.Clone()}
}

func (m *Matrix[T]) Bytes() int {
	var z T
	return m.a.Numel() * int(unsafe.Sizeof(z))
}

func (m *Matrix[T]) Index(idx []array.Index) (Representation, error) {
	out, err := m.a.Index(idx)
	if err != nil {
		return nil, FromArrayError(err)
	}
	return &Matrix[T]{kind: m.kind, a: out}, nil
}

func (m *Matrix[T]) Delete(idx []array.Index) (Representation, error) {
	if err := m.a.Delete(idx); err != nil {
		return nil, FromArrayError(err)
	}
	return m, nil
}

// Transpose returns the transpose of a 2-D matrix.
func (m *Matrix[T]) Transpose() (Representation, error) {
	t, err := m.a.Transpose()
	if err != nil {
		return nil, FromArrayError(err)
	}
	return &Matrix[T]{kind: m.kind, a: t}, nil
}

// AssignArray writes src at idx in place, growing as needed.
func (m *Matrix[T]) AssignArray(idx []array.Index, src *array.Dense[T]) error {
	var fill T
	return FromArrayError(m.a.Assign(idx, src, fill))
}

func (m *Matrix[T]) Narrow(enabled NarrowMask) Representation {
	if enabled.Has(NarrowComplex) {
		if r, ok := dropImag[T](m.a); ok {
			return r
		}
	}
	d := m.a.Dims()
	if enabled.Has(NarrowScalar) && d.Ndims() == 2 && d.Rows() == 1 && d.Cols() == 1 {
		if sk, ok := ScalarKind(m.kind); ok {
			return &Scalar[T]{kind: sk, v: m.a.At(0)}
		}
	}
	if m.kind == KindMatrix {
		a := any(m.a).(*array.Dense[float64])
		if enabled.Has(NarrowPerm) {
			if p, ok := asPerm(a); ok {
				return p
			}
		}
		if enabled.Has(NarrowDiag) {
			if dg, ok := asDiag(a); ok {
				return dg
			}
		}
		if enabled.Has(NarrowRange) {
			if r, ok := asRange(a); ok {
				return r
			}
		}
	}
	if m.kind == KindComplexMatrix && enabled.Has(NarrowDiag) {
		if dg, ok := asDiag(any(m.a).(*array.Dense[complex128])); ok {
			return dg
		}
	}
	return m
}

// dropImag converts a complex array whose imaginary parts are all zero to
// the matching real kind.
func dropImag[T Elem](a *array.Dense[T]) (Representation, bool) {
	switch c := any(a).(type) {
	case *array.Dense[complex128]:
		for _, v := range c.Data() {
			if imag(v) != 0 {
				return nil, false
			}
		}
		return &Matrix[float64]{kind: KindMatrix, a: array.Map(c, func(v complex128) float64 { return real(v) })}, true
	case *array.Dense[complex64]:
		for _, v := range c.Data() {
			if imag(v) != 0 {
				return nil, false
			}
		}
		return &Matrix[float32]{kind: KindFloatMatrix, a: array.Map(c, func(v complex64) float32 { return real(v) })}, true
	}
	return nil, false
}

func asPerm(a *array.Dense[float64]) (*Perm, bool) {
	d := a.Dims()
	if d.Ndims() != 2 || d.Rows() != d.Cols() || d.Rows() < 2 {
		return nil, false
	}
	n := d.Rows()
	one := math.Float64bits(1)
	p := make([]int, n)
	colSeen := make([]bool, n)
	for i := 0; i < n; i++ {
		p[i] = -1
		for j := 0; j < n; j++ {
			switch math.Float64bits(a.At2(i, j)) {
			case 0:
			case one:
				if p[i] >= 0 || colSeen[j] {
					return nil, false
				}
				p[i] = j
				colSeen[j] = true
			default:
				return nil, false
			}
		}
		if p[i] < 0 {
			return nil, false
		}
	}
	return &Perm{p: p}, true
}

func asDiag[T float64 | complex128](a *array.Dense[T]) (*Diag[T], bool) {
	d := a.Dims()
	if d.Ndims() != 2 || d.Rows() < 2 || d.Cols() < 2 {
		return nil, false
	}
	r, c := d.Rows(), d.Cols()
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			if i != j && !positiveZero(a.At2(i, j)) {
				return nil, false
			}
		}
	}
	n := min(r, c)
	diag := make([]T, n)
	for i := range diag {
		diag[i] = a.At2(i, i)
	}
	return newDiag(r, c, diag), true
}

func positiveZero[T float64 | complex128](v T) bool {
	switch x := any(v).(type) {
	case float64:
		return math.Float64bits(x) == 0
	case complex128:
		return math.Float64bits(real(x)) == 0 && math.Float64bits(imag(x)) == 0
	}
	return false
}

// asRange recognizes a finite real row vector reproduced bit-exactly by
// base + i*inc.
func asRange(a *array.Dense[float64]) (*Range, bool) {
	d := a.Dims()
	if d.Ndims() != 2 || d.Rows() != 1 || d.Cols() < 2 {
		return nil, false
	}
	data := a.Data()
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
	}
	r := &Range{base: data[0], inc: data[1] - data[0], n: len(data)}
	for i, v := range data {
		if math.Float64bits(r.elem(i)) != math.Float64bits(v) {
			return nil, false
		}
	}
	return r, true
}

// Scalar represents a single number or boolean.
type Scalar[T Elem] struct {
	kind Kind
	v    T
}

// NewScalarRep wraps a single element as a representation of the given
// scalar kind.
func NewScalarRep[T Elem](kind Kind, v T) *Scalar[T] {
	return &Scalar[T]{kind: kind, v: v}
}

func (s *Scalar[T]) Kind() Kind            { return s.kind }
func (s *Scalar[T]) Dims() Dims            { return Dims{1, 1} }
func (s *Scalar[T]) Elements() any         { return array.Scalar(s.v) }
func (s *Scalar[T]) Clone() Representation { return &Scalar[T]{kind: s.kind, v: s.v} }

// Value returns the stored element.
func (s *Scalar[T]) Value() T { return s.v }

func (s *Scalar[T]) Bytes() int {
	var z T
	return int(unsafe.Sizeof(z))
}

func (s *Scalar[T]) full() *Matrix[T] {
	return &Matrix[T]{kind: MatrixKind(s.kind), a: array.Scalar(s.v)}
}

func (s *Scalar[T]) Index(idx []array.Index) (Representation, error) {
	return s.full().Index(idx)
}

func (s *Scalar[T]) Delete(idx []array.Index) (Representation, error) {
	return s.full().Delete(idx)
}

func (s *Scalar[T]) Narrow(enabled NarrowMask) Representation {
	if !enabled.Has(NarrowComplex) {
		return s
	}
	switch v := any(s.v).(type) {
	case complex128:
		if imag(v) == 0 {
			return &Scalar[float64]{kind: KindScalar, v: real(v)}
		}
	case complex64:
		if imag(v) == 0 {
			return &Scalar[float32]{kind: KindFloatScalar, v: real(v)}
		}
	}
	return s
}
