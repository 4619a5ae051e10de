package types

import (
	"math"

	"silo/array"
)

// Range represents the row vector base, base+inc, ..., with n elements.
// Element i is computed as base + i*inc.
type Range struct {
	base, inc float64
	n         int
}

// NewRangeRep builds a range representation.
func NewRangeRep(base, inc float64, n int) *Range {
	if n < 0 {
		n = 0
	}
	return &Range{base: base, inc: inc, n: n}
}

// RangeCount returns how many elements base:inc:limit has.
func RangeCount(base, inc, limit float64) int {
	if inc == 0 || math.IsNaN(base) || math.IsNaN(inc) || math.IsNaN(limit) ||
		(inc > 0 && base > limit) || (inc < 0 && base < limit) {
		return 0
	}
	ct := 3 * math.Abs(inc) * 2.2204460492503131e-16
	return int(math.Floor((limit-base)/inc+ct)) + 1
}

func (r *Range) elem(i int) float64 { return r.base + float64(i)*r.inc }

func (r *Range) Kind() Kind            { return KindRange }
func (r *Range) Dims() Dims            { return Dims{1, r.n} }
func (r *Range) Clone() Representation { c := *r; return &c }
func (r *Range) Bytes() int            { return 24 }

// Base, Increment and Len describe the range.
func (r *Range) Base() float64      { return r.base }
func (r *Range) Increment() float64 { return r.inc }
func (r *Range) Len() int           { return r.n }

func (r *Range) Elements() any {
	out := array.New[float64](Dims{1, r.n})
	d := out.Data()
	for i := range d {
		d[i] = r.elem(i)
	}
	return out
}

func (r *Range) full() *Matrix[float64] {
	return &Matrix[float64]{kind: KindMatrix, a: r.Elements().(*array.Dense[float64])}
}

func (r *Range) Index(idx []array.Index) (Representation, error) { return r.full().Index(idx) }
func (r *Range) Delete(idx []array.Index) (Representation, error) {
	return r.full().Delete(idx)
}

func (r *Range) Narrow(enabled NarrowMask) Representation {
	if !enabled.Has(NarrowScalar) {
		return r
	}
	switch r.n {
	case 0:
		return &Matrix[float64]{kind: KindMatrix, a: array.New[float64](Dims{1, 0})}
	case 1:
		return &Scalar[float64]{kind: KindScalar, v: r.base}
	}
	return r
}

// Diag represents a rows-by-cols matrix that is zero off its main
// diagonal.
type Diag[T float64 | complex128] struct {
	rows, cols int
	d          []T
}

func newDiag[T float64 | complex128](rows, cols int, d []T) *Diag[T] {
	return &Diag[T]{rows: rows, cols: cols, d: d}
}

// NewDiagRep builds a square diagonal matrix from its diagonal.
func NewDiagRep[T float64 | complex128](d []T) *Diag[T] {
	return newDiag(len(d), len(d), append([]T(nil), d...))
}

// NewRectDiagRep builds a rows-by-cols diagonal matrix. d holds at most
// min(rows, cols) entries; missing entries are zero.
func NewRectDiagRep[T float64 | complex128](rows, cols int, d []T) *Diag[T] {
	out := make([]T, min(rows, cols))
	copy(out, d)
	return newDiag(rows, cols, out)
}

func (g *Diag[T]) Kind() Kind {
	var z T
	if _, ok := any(z).(complex128); ok {
		return KindComplexDiagMatrix
	}
	return KindDiagMatrix
}

func (g *Diag[T]) Dims() Dims { return Dims{g.rows, g.cols} }
func (g *Diag[T]) Clone() Representation {
	return newDiag(g.rows, g.cols, append([]T(nil), g.d...))
}
func (g *Diag[T]) Bytes() int { return len(g.d) * 16 }

// Diagonal returns the stored diagonal.
func (g *Diag[T]) Diagonal() []T { return g.d }

func (g *Diag[T]) Elements() any {
	out := array.New[T](Dims{g.rows, g.cols})
	data := out.Data()
	for i, v := range g.d {
		data[i+i*g.rows] = v
	}
	return out
}

func (g *Diag[T]) full() *Matrix[T] {
	return &Matrix[T]{kind: MatrixKindFor[T](), a: g.Elements().(*array.Dense[T])}
}

func (g *Diag[T]) Index(idx []array.Index) (Representation, error) { return g.full().Index(idx) }
func (g *Diag[T]) Delete(idx []array.Index) (Representation, error) {
	return g.full().Delete(idx)
}

func (g *Diag[T]) Narrow(enabled NarrowMask) Representation {
	if enabled.Has(NarrowComplex) {
		if c, ok := any(g.d).([]complex128); ok {
			re := make([]float64, len(c))
			for i, v := range c {
				if imag(v) != 0 {
					return g
				}
				re[i] = real(v)
			}
			return newDiag(g.rows, g.cols, re)
		}
	}
	if enabled.Has(NarrowScalar) && g.rows == 1 && g.cols == 1 {
		return &Scalar[T]{kind: ScalarKindFor[T](), v: g.d[0]}
	}
	return g
}

// Perm represents a permutation matrix: row i holds a single 1 in column
// p[i].
type Perm struct {
	p []int
}

// NewPermRep builds a permutation matrix from zero-based column positions.
func NewPermRep(p []int) *Perm { return &Perm{p: append([]int(nil), p...)} }

func (m *Perm) Kind() Kind            { return KindPermMatrix }
func (m *Perm) Dims() Dims            { return Dims{len(m.p), len(m.p)} }
func (m *Perm) Clone() Representation { return NewPermRep(m.p) }
func (m *Perm) Bytes() int            { return len(m.p) * 8 }

// Columns returns the zero-based column of the 1 in each row.
func (m *Perm) Columns() []int { return m.p }

// Inverse returns the transposed permutation.
func (m *Perm) Inverse() *Perm {
	q := make([]int, len(m.p))
	for i, j := range m.p {
		q[j] = i
	}
	return &Perm{p: q}
}

func (m *Perm) Elements() any {
	n := len(m.p)
	out := array.New[float64](Dims{n, n})
	data := out.Data()
	for i, j := range m.p {
		data[i+j*n] = 1
	}
	return out
}

func (m *Perm) full() *Matrix[float64] {
	return &Matrix[float64]{kind: KindMatrix, a: m.Elements().(*array.Dense[float64])}
}

func (m *Perm) Index(idx []array.Index) (Representation, error) { return m.full().Index(idx) }
func (m *Perm) Delete(idx []array.Index) (Representation, error) {
	return m.full().Delete(idx)
}

func (m *Perm) Narrow(enabled NarrowMask) Representation {
	if enabled.Has(NarrowScalar) && len(m.p) == 1 {
		return &Scalar[float64]{kind: KindScalar, v: 1}
	}
	return m
}

// Sparse represents a compressed sparse column matrix of doubles, complex
// doubles or booleans.
type Sparse[T float64 | complex128 | bool] struct {
	s *array.Sparse[T]
}

// NewSparseRep wraps a sparse array.
func NewSparseRep[T float64 | complex128 | bool](s *array.Sparse[T]) *Sparse[T] {
	return &Sparse[T]{s: s}
}

func (m *Sparse[T]) Kind() Kind {
	var z T
	switch any(z).(type) {
	case complex128:
		return KindSparseComplexMatrix
	case bool:
		return KindSparseBoolMatrix
	}
	return KindSparseMatrix
}

func (m *Sparse[T]) Dims() Dims            { return m.s.Dims() }
func (m *Sparse[T]) Clone() Representation { return &Sparse[T]{s: m.s.Clone()} }
func (m *Sparse[T]) Elements() any         { return m.s.Dense() }
func (m *Sparse[T]) Bytes() int            { return m.s.Nnz() * 24 }

// Array exposes the compressed storage.
func (m *Sparse[T]) Array() *array.Sparse[T] { return m.s }

func (m *Sparse[T]) Index(idx []array.Index) (Representation, error) {
	out, err := m.s.Dense().Index(idx)
	if err != nil {
		return nil, FromArrayError(err)
	}
	s, err := array.SparseFromDense(out)
	if err != nil {
		return nil, FromArrayError(err)
	}
	return &Sparse[T]{s: s}, nil
}

func (m *Sparse[T]) Delete(idx []array.Index) (Representation, error) {
	d := m.s.Dense()
	if err := d.Delete(idx); err != nil {
		return nil, FromArrayError(err)
	}
	s, err := array.SparseFromDense(d)
	if err != nil {
		return nil, FromArrayError(err)
	}
	m.s = s
	return m, nil
}

// AssignArray writes src at idx, growing as needed.
func (m *Sparse[T]) AssignArray(idx []array.Index, src *array.Dense[T]) error {
	d := m.s.Dense()
	var fill T
	if err := d.Assign(idx, src, fill); err != nil {
		return FromArrayError(err)
	}
	s, err := array.SparseFromDense(d)
	if err != nil {
		return FromArrayError(err)
	}
	m.s = s
	return nil
}

func (m *Sparse[T]) Narrow(enabled NarrowMask) Representation {
	if !enabled.Has(NarrowComplex) {
		return m
	}
	if c, ok := any(m.s).(*array.Sparse[complex128]); ok {
		for _, v := range c.Dense().Data() {
			if imag(v) != 0 {
				return m
			}
		}
		return &Sparse[float64]{s: array.MapSparse(c, func(v complex128) float64 { return real(v) })}
	}
	return m
}

// Null represents the [] and '' literals. Null values exist only as
// right-hand sides: assigning one deletes elements, storing one yields a
// plain empty array.
type Null struct {
	kind Kind
}

func (n *Null) Kind() Kind            { return n.kind }
func (n *Null) Dims() Dims            { return Dims{0, 0} }
func (n *Null) Clone() Representation { return &Null{kind: n.kind} }

func (n *Null) Elements() any {
	if n.kind == KindNullString {
		return array.New[uint16](Dims{0, 0})
	}
	return array.New[float64](Dims{0, 0})
}

// Storable returns the plain empty array a null literal becomes once
// stored in a variable.
func (n *Null) Storable() Representation {
	if n.kind == KindNullString {
		return &Matrix[uint16]{kind: KindCharString, a: array.New[uint16](Dims{0, 0})}
	}
	return &Matrix[float64]{kind: KindMatrix, a: array.New[float64](Dims{0, 0})}
}

type undefined struct{}

func (undefined) Kind() Kind            { return KindUndefined }
func (undefined) Dims() Dims            { return Dims{0, 0} }
func (undefined) Clone() Representation { return undefined{} }
