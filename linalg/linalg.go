// Package linalg holds the matrix kernels behind the operator tables:
// products, inverses, solves and integer powers of dense and sparse arrays.
package linalg

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"silo/array"
)

// ErrSingular reports a matrix that cannot be inverted.
var ErrSingular = errors.New("matrix singular to machine precision")

func toGonum(a *array.Dense[float64]) (*mat.Dense, error) {
	d := a.Dims()
	if d.Ndims() != 2 {
		return nil, errors.Wrap(array.ErrNotTwoD, "linalg")
	}
	r, c := d.Rows(), d.Cols()
	if r == 0 || c == 0 {
		return nil, nil
	}
	data := make([]float64, r*c)
	src := a.Data()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = src[i+j*r]
		}
	}
	return mat.NewDense(r, c, data), nil
}

func fromGonum(m mat.Matrix) *array.Dense[float64] {
	r, c := m.Dims()
	out := array.New[float64](array.Dims{r, c})
	data := out.Data()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i+j*r] = m.At(i, j)
		}
	}
	return out
}

func checkMul(a, b array.Dims) error {
	if a.Ndims() != 2 || b.Ndims() != 2 {
		return errors.Wrap(array.ErrNotTwoD, "operator *")
	}
	if a.Cols() != b.Rows() {
		return &array.ConformError{Op: "*", A: a, B: b}
	}
	return nil
}

// Mul computes the real matrix product a*b.
func Mul(a, b *array.Dense[float64]) (*array.Dense[float64], error) {
	if err := checkMul(a.Dims(), b.Dims()); err != nil {
		return nil, err
	}
	ga, err := toGonum(a)
	if err != nil {
		return nil, err
	}
	gb, err := toGonum(b)
	if err != nil {
		return nil, err
	}
	if ga == nil || gb == nil {
		return array.New[float64](array.Dims{a.Dims().Rows(), b.Dims().Cols()}), nil
	}
	var out mat.Dense
	out.Mul(ga, gb)
	return fromGonum(&out), nil
}

// MulGeneric computes a*b for any numeric element type.
func MulGeneric[T array.Number](a, b *array.Dense[T]) (*array.Dense[T], error) {
	da, db := a.Dims(), b.Dims()
	if err := checkMul(da, db); err != nil {
		return nil, err
	}
	n, k, m := da.Rows(), da.Cols(), db.Cols()
	out := array.New[T](array.Dims{n, m})
	x, y, z := a.Data(), b.Data(), out.Data()
	for j := 0; j < m; j++ {
		for p := 0; p < k; p++ {
			bv := y[p+j*k]
			if bv == 0 {
				continue
			}
			for i := 0; i < n; i++ {
				z[i+j*n] += x[i+p*n] * bv
			}
		}
	}
	return out, nil
}

// Inverse inverts a square real matrix.
func Inverse(a *array.Dense[float64]) (*array.Dense[float64], error) {
	d := a.Dims()
	if d.Ndims() != 2 || d.Rows() != d.Cols() {
		return nil, errors.Errorf("inverse: argument must be a square matrix (%s)", d)
	}
	if d.Rows() == 0 {
		return array.New[float64](d), nil
	}
	g, err := toGonum(a)
	if err != nil {
		return nil, err
	}
	var inv mat.Dense
	if err := inv.Inverse(g); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, errors.Wrap(ErrSingular, "inverse")
		}
	}
	return fromGonum(&inv), nil
}

// Solve returns x with a*x = b, in the least-squares sense when a is not
// square.
func Solve(a, b *array.Dense[float64]) (*array.Dense[float64], error) {
	da, db := a.Dims(), b.Dims()
	if da.Ndims() != 2 || db.Ndims() != 2 || da.Rows() != db.Rows() {
		return nil, &array.ConformError{Op: "\\", A: da, B: db}
	}
	ga, err := toGonum(a)
	if err != nil {
		return nil, err
	}
	gb, err := toGonum(b)
	if err != nil {
		return nil, err
	}
	if ga == nil || gb == nil {
		return array.New[float64](array.Dims{da.Cols(), db.Cols()}), nil
	}
	var x mat.Dense
	if err := x.Solve(ga, gb); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, errors.Wrap(ErrSingular, "mldivide")
		}
	}
	return fromGonum(&x), nil
}

// InverseComplex inverts a square complex matrix by Gauss-Jordan
// elimination with partial pivoting.
func InverseComplex(a *array.Dense[complex128]) (*array.Dense[complex128], error) {
	d := a.Dims()
	if d.Ndims() != 2 || d.Rows() != d.Cols() {
		return nil, errors.Errorf("inverse: argument must be a square matrix (%s)", d)
	}
	n := d.Rows()
	work := a.Clone().Data()
	inv := array.New[complex128](d)
	id := inv.Data()
	for i := 0; i < n; i++ {
		id[i+i*n] = 1
	}
	for c := 0; c < n; c++ {
		piv, best := -1, 0.0
		for r := c; r < n; r++ {
			if m := cmplx.Abs(work[r+c*n]); m > best {
				piv, best = r, m
			}
		}
		if piv < 0 {
			return nil, errors.Wrap(ErrSingular, "inverse")
		}
		if piv != c {
			for j := 0; j < n; j++ {
				work[c+j*n], work[piv+j*n] = work[piv+j*n], work[c+j*n]
				id[c+j*n], id[piv+j*n] = id[piv+j*n], id[c+j*n]
			}
		}
		p := work[c+c*n]
		for j := 0; j < n; j++ {
			work[c+j*n] /= p
			id[c+j*n] /= p
		}
		for r := 0; r < n; r++ {
			if r == c {
				continue
			}
			f := work[r+c*n]
			if f == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				work[r+j*n] -= f * work[c+j*n]
				id[r+j*n] -= f * id[c+j*n]
			}
		}
	}
	return inv, nil
}

// SolveComplex returns x with a*x = b for square a.
func SolveComplex(a, b *array.Dense[complex128]) (*array.Dense[complex128], error) {
	da, db := a.Dims(), b.Dims()
	if da.Rows() != db.Rows() {
		return nil, &array.ConformError{Op: "\\", A: da, B: db}
	}
	inv, err := InverseComplex(a)
	if err != nil {
		return nil, err
	}
	return MulGeneric(inv, b)
}

// Power raises a square real matrix to an integer power by repeated
// squaring. Negative powers invert first.
func Power(a *array.Dense[float64], p int) (*array.Dense[float64], error) {
	return power(a, p, Mul, Inverse, eye[float64])
}

// PowerComplex is Power for complex matrices.
func PowerComplex(a *array.Dense[complex128], p int) (*array.Dense[complex128], error) {
	return power(a, p, MulGeneric[complex128], InverseComplex, eye[complex128])
}

func eye[T array.Number](n int) *array.Dense[T] {
	out := array.New[T](array.Dims{n, n})
	d := out.Data()
	for i := 0; i < n; i++ {
		d[i+i*n] = 1
	}
	return out
}

func power[T array.Number](
	a *array.Dense[T], p int,
	mul func(x, y *array.Dense[T]) (*array.Dense[T], error),
	inv func(x *array.Dense[T]) (*array.Dense[T], error),
	id func(n int) *array.Dense[T],
) (*array.Dense[T], error) {
	d := a.Dims()
	if d.Ndims() != 2 || d.Rows() != d.Cols() {
		return nil, errors.Wrapf(array.ErrNonconformant, "for x^y, only square matrix arguments are permitted (%s)", d)
	}
	if p == 0 {
		return id(d.Rows()), nil
	}
	base := a
	if p < 0 {
		var err error
		if base, err = inv(a); err != nil {
			return nil, err
		}
		p = -p
	}
	result := id(d.Rows())
	for p > 0 {
		if p&1 == 1 {
			r, err := mul(result, base)
			if err != nil {
				return nil, err
			}
			result = r
		}
		p >>= 1
		if p > 0 {
			sq, err := mul(base, base)
			if err != nil {
				return nil, err
			}
			base = sq
		}
	}
	return result, nil
}
