package array

import (
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Number is the set of element types that support arithmetic.
type Number interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

// Sparse is a 2-D array in compressed sparse column form. Only non-zero
// elements are stored; rowIdx is sorted within each column.
type Sparse[T comparable] struct {
	rows, cols int
	colPtr     []int
	rowIdx     []int
	vals       []T
}

// NewSparse returns an all-zero sparse array.
func NewSparse[T comparable](rows, cols int) *Sparse[T] {
	return &Sparse[T]{rows: rows, cols: cols, colPtr: make([]int, cols+1)}
}

// SparseFromDense compresses a 2-D dense array.
func SparseFromDense[T comparable](d *Dense[T]) (*Sparse[T], error) {
	if d.dims.Ndims() != 2 {
		return nil, errors.Wrap(ErrNotTwoD, "sparse")
	}
	var zero T
	r, c := d.dims.Rows(), d.dims.Cols()
	s := NewSparse[T](r, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			if v := d.data[i+j*r]; v != zero {
				s.rowIdx = append(s.rowIdx, i)
				s.vals = append(s.vals, v)
			}
		}
		s.colPtr[j+1] = len(s.vals)
	}
	return s, nil
}

// SparseEye returns the n-by-n identity.
func SparseEye[T Number](n int) *Sparse[T] {
	s := NewSparse[T](n, n)
	for j := 0; j < n; j++ {
		s.rowIdx = append(s.rowIdx, j)
		s.vals = append(s.vals, 1)
		s.colPtr[j+1] = j + 1
	}
	return s
}

// Dims returns the array's dimensions.
func (s *Sparse[T]) Dims() Dims { return Dims{s.rows, s.cols} }

// Nnz returns the number of stored elements.
func (s *Sparse[T]) Nnz() int { return len(s.vals) }

// At returns the element at row r, column c.
func (s *Sparse[T]) At(r, c int) T {
	lo, hi := s.colPtr[c], s.colPtr[c+1]
	k := sort.SearchInts(s.rowIdx[lo:hi], r) + lo
	if k < hi && s.rowIdx[k] == r {
		return s.vals[k]
	}
	var zero T
	return zero
}

// Dense expands the array.
func (s *Sparse[T]) Dense() *Dense[T] {
	out := New[T](Dims{s.rows, s.cols})
	for j := 0; j < s.cols; j++ {
		for k := s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			out.data[s.rowIdx[k]+j*s.rows] = s.vals[k]
		}
	}
	return out
}

// Clone returns a deep copy.
func (s *Sparse[T]) Clone() *Sparse[T] {
	out := &Sparse[T]{
		rows:   s.rows,
		cols:   s.cols,
		colPtr: append([]int(nil), s.colPtr...),
		rowIdx: append([]int(nil), s.rowIdx...),
		vals:   append([]T(nil), s.vals...),
	}
	return out
}

// Transpose returns the transposed array.
func (s *Sparse[T]) Transpose() *Sparse[T] {
	out := NewSparse[T](s.cols, s.rows)
	count := make([]int, s.rows+1)
	for _, r := range s.rowIdx {
		count[r+1]++
	}
	for i := 0; i < s.rows; i++ {
		count[i+1] += count[i]
	}
	copy(out.colPtr, count)
	out.rowIdx = make([]int, len(s.vals))
	out.vals = make([]T, len(s.vals))
	next := append([]int(nil), count[:s.rows]...)
	for j := 0; j < s.cols; j++ {
		for k := s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			r := s.rowIdx[k]
			out.rowIdx[next[r]] = j
			out.vals[next[r]] = s.vals[k]
			next[r]++
		}
	}
	return out
}

// MapSparse applies f to the stored elements. Results equal to zero are
// dropped.
func MapSparse[T, U comparable](s *Sparse[T], f func(T) U) *Sparse[U] {
	var zero U
	out := NewSparse[U](s.rows, s.cols)
	for j := 0; j < s.cols; j++ {
		for k := s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			if v := f(s.vals[k]); v != zero {
				out.rowIdx = append(out.rowIdx, s.rowIdx[k])
				out.vals = append(out.vals, v)
			}
		}
		out.colPtr[j+1] = len(out.vals)
	}
	return out
}

// SparseMul computes the matrix product a*b.
func SparseMul[T Number](a, b *Sparse[T]) (*Sparse[T], error) {
	if a.cols != b.rows {
		return nil, &ConformError{Op: "*", A: a.Dims(), B: b.Dims()}
	}
	out := NewSparse[T](a.rows, b.cols)
	acc := make([]T, a.rows)
	mark := make([]int, a.rows)
	for i := range mark {
		mark[i] = -1
	}
	var rows []int
	var zero T
	for j := 0; j < b.cols; j++ {
		rows = rows[:0]
		for kb := b.colPtr[j]; kb < b.colPtr[j+1]; kb++ {
			col, bv := b.rowIdx[kb], b.vals[kb]
			for ka := a.colPtr[col]; ka < a.colPtr[col+1]; ka++ {
				r := a.rowIdx[ka]
				if mark[r] != j {
					mark[r] = j
					acc[r] = zero
					rows = append(rows, r)
				}
				acc[r] += a.vals[ka] * bv
			}
		}
		sort.Ints(rows)
		for _, r := range rows {
			if acc[r] != zero {
				out.rowIdx = append(out.rowIdx, r)
				out.vals = append(out.vals, acc[r])
			}
		}
		out.colPtr[j+1] = len(out.vals)
	}
	return out, nil
}
