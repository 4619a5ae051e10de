package array

import (
	"fmt"

	"github.com/pkg/errors"
)

// Dense is an N-d array stored in column-major order.
type Dense[T any] struct {
	dims Dims
	data []T
}

// New returns a zero-filled array.
func New[T any](dims Dims) *Dense[T] {
	d := dims.Clone().normalize()
	return &Dense[T]{dims: d, data: make([]T, d.Numel())}
}

// Filled returns an array with every element set to v.
func Filled[T any](dims Dims, v T) *Dense[T] {
	a := New[T](dims)
	for i := range a.data {
		a.data[i] = v
	}
	return a
}

// FromSlice wraps column-major data. The array takes ownership of data.
func FromSlice[T any](dims Dims, data []T) *Dense[T] {
	d := dims.Clone().normalize()
	if d.Numel() != len(data) {
		panic(fmt.Sprintf("array: %d elements do not fill %s", len(data), d))
	}
	return &Dense[T]{dims: d, data: data}
}

// FromRows builds a 2-D array from row-major rows.
func FromRows[T any](rows [][]T) (*Dense[T], error) {
	if len(rows) == 0 {
		return New[T](Dims{0, 0}), nil
	}
	nc := len(rows[0])
	a := New[T](Dims{len(rows), nc})
	for r, row := range rows {
		if len(row) != nc {
			return nil, &CatError{Dim: 1, A: Dims{1, nc}, B: Dims{1, len(row)}}
		}
		for c, v := range row {
			a.data[r+c*len(rows)] = v
		}
	}
	return a, nil
}

// Scalar returns a 1x1 array.
func Scalar[T any](v T) *Dense[T] {
	return &Dense[T]{dims: Dims{1, 1}, data: []T{v}}
}

// Dims returns the array's dimensions.
func (a *Dense[T]) Dims() Dims { return a.dims.Clone() }

// Numel returns the element count.
func (a *Dense[T]) Numel() int { return len(a.data) }

// Data exposes the column-major backing slice.
func (a *Dense[T]) Data() []T { return a.data }

// Raw returns the backing slice as an untyped value, for callers that
// switch on element type.
func (a *Dense[T]) Raw() any { return a.data }

// At returns the element at a linear position.
func (a *Dense[T]) At(i int) T { return a.data[i] }

// Set stores an element at a linear position.
func (a *Dense[T]) Set(i int, v T) { a.data[i] = v }

// At2 returns the element at row r, column c.
func (a *Dense[T]) At2(r, c int) T { return a.data[r+c*a.dims.Rows()] }

// Clone returns a deep copy of the storage. Elements are copied by value.
func (a *Dense[T]) Clone() *Dense[T] {
	out := &Dense[T]{dims: a.dims.Clone(), data: make([]T, len(a.data))}
	copy(out.data, a.data)
	return out
}

// Reshape returns a view-free copy with new dimensions of equal element count.
func (a *Dense[T]) Reshape(d Dims) (*Dense[T], error) {
	if d.Numel() != a.Numel() {
		return nil, errors.Errorf("reshape: can't reshape %s array to %s array", a.dims, d)
	}
	out := a.Clone()
	out.dims = d.Clone().normalize()
	return out, nil
}

// Transpose swaps rows and columns of a 2-D array.
func (a *Dense[T]) Transpose() (*Dense[T], error) {
	if a.dims.Ndims() != 2 {
		return nil, errors.Wrap(ErrNotTwoD, "transpose")
	}
	r, c := a.dims.Rows(), a.dims.Cols()
	out := New[T](Dims{c, r})
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			out.data[j+i*c] = a.data[i+j*r]
		}
	}
	return out, nil
}

// Map applies f to every element.
func Map[T, U any](a *Dense[T], f func(T) U) *Dense[U] {
	out := &Dense[U]{dims: a.dims.Clone(), data: make([]U, len(a.data))}
	for i, v := range a.data {
		out.data[i] = f(v)
	}
	return out
}

// Broadcast combines a and b elementwise. Equal shapes pair up directly,
// a single element expands against the other operand, and otherwise every
// dimension must agree or be 1 in one of the operands.
func Broadcast[T, U, R any](op string, a *Dense[T], b *Dense[U], f func(T, U) R) (*Dense[R], error) {
	switch {
	case a.dims.Equal(b.dims):
		out := &Dense[R]{dims: a.dims.Clone(), data: make([]R, len(a.data))}
		for i := range a.data {
			out.data[i] = f(a.data[i], b.data[i])
		}
		return out, nil
	case len(a.data) == 1:
		x := a.data[0]
		out := &Dense[R]{dims: b.dims.Clone(), data: make([]R, len(b.data))}
		for i, y := range b.data {
			out.data[i] = f(x, y)
		}
		return out, nil
	case len(b.data) == 1:
		y := b.data[0]
		out := &Dense[R]{dims: a.dims.Clone(), data: make([]R, len(a.data))}
		for i, x := range a.data {
			out.data[i] = f(x, y)
		}
		return out, nil
	}

	n := max(len(a.dims), len(b.dims))
	da, db := pad(a.dims, n), pad(b.dims, n)
	od := make(Dims, n)
	for k := 0; k < n; k++ {
		switch {
		case da[k] == db[k]:
			od[k] = da[k]
		case da[k] == 1:
			od[k] = db[k]
		case db[k] == 1:
			od[k] = da[k]
		default:
			return nil, &ConformError{Op: op, A: a.dims, B: b.dims}
		}
	}
	sa, sb := da.strides(), db.strides()
	for k := 0; k < n; k++ {
		if da[k] == 1 {
			sa[k] = 0
		}
		if db[k] == 1 {
			sb[k] = 0
		}
	}
	out := New[R](od)
	sub := make([]int, n)
	for i := range out.data {
		ia, ib := 0, 0
		for k := 0; k < n; k++ {
			ia += sub[k] * sa[k]
			ib += sub[k] * sb[k]
		}
		out.data[i] = f(a.data[ia], b.data[ib])
		step(sub, od)
	}
	return out, nil
}

// step advances an odometer over dims, first dimension fastest.
func step(sub []int, dims Dims) {
	for k := range sub {
		sub[k]++
		if sub[k] < dims[k] {
			return
		}
		sub[k] = 0
	}
}
