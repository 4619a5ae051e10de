package linalg

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silo/array"
)

// [4 1 0; 1 3 1; 0 1 2]
func tridiag() *array.Dense[float64] {
	return array.FromSlice(array.Dims{3, 3}, []float64{4, 1, 0, 1, 3, 1, 0, 1, 2})
}

func assertClose(t *testing.T, want, got *array.Dense[float64]) {
	t.Helper()
	require.True(t, want.Dims().Equal(got.Dims()), "dims %s vs %s", want.Dims(), got.Dims())
	for i, w := range want.Data() {
		tol := 1e-10 * math.Max(1, math.Abs(w))
		assert.InDelta(t, w, got.Data()[i], tol, "element %d", i)
	}
}

func TestMulMatchesGeneric(t *testing.T) {
	a := array.FromSlice(array.Dims{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	b := array.FromSlice(array.Dims{3, 2}, []float64{1, 0, 1, 0, 1, 0})
	viaGonum, err := Mul(a, b)
	require.NoError(t, err)
	viaLoop, err := MulGeneric(a, b)
	require.NoError(t, err)
	assertClose(t, viaLoop, viaGonum)

	_, err = Mul(a, a)
	var ce *array.ConformError
	require.ErrorAs(t, err, &ce)
}

func TestInverse(t *testing.T) {
	a := tridiag()
	inv, err := Inverse(a)
	require.NoError(t, err)
	id, err := Mul(a, inv)
	require.NoError(t, err)
	assertClose(t, eye[float64](3), id)

	_, err = Inverse(array.FromSlice(array.Dims{2, 2}, []float64{1, 2, 2, 4}))
	require.ErrorIs(t, err, ErrSingular)
}

func TestInverseComplex(t *testing.T) {
	a := array.FromSlice(array.Dims{2, 2}, []complex128{2, 1i, -1i, 3})
	inv, err := InverseComplex(a)
	require.NoError(t, err)
	prod, err := MulGeneric(a, inv)
	require.NoError(t, err)
	for i, v := range prod.Data() {
		want := complex128(0)
		if i == 0 || i == 3 {
			want = 1
		}
		assert.InDelta(t, real(want), real(v), 1e-12)
		assert.InDelta(t, imag(want), imag(v), 1e-12)
	}
}

func TestSolve(t *testing.T) {
	a := tridiag()
	b := array.FromSlice(array.Dims{3, 1}, []float64{5, 5, 3})
	x, err := Solve(a, b)
	require.NoError(t, err)
	assertClose(t, array.FromSlice(array.Dims{3, 1}, []float64{1, 1, 1}), x)
}

func TestPower(t *testing.T) {
	a := tridiag()
	sq, err := Mul(a, a)
	require.NoError(t, err)
	cube, err := Mul(sq, a)
	require.NoError(t, err)
	got, err := Power(a, 3)
	require.NoError(t, err)
	assertClose(t, cube, got)

	got, err = Power(a, 0)
	require.NoError(t, err)
	assertClose(t, eye[float64](3), got)

	_, err = Power(array.FromSlice(array.Dims{1, 2}, []float64{1, 2}), 2)
	require.ErrorIs(t, err, array.ErrNonconformant)
}

func TestBandsThreshold(t *testing.T) {
	tests := []struct {
		sparsity uint64
		want     int
	}{
		{5, 3},
		{99, 3},
		{100, 20},
		{999, 20},
		{1000, 30},
		{10000, 40},
		{1 << 40, 40},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.sparsity), func(t *testing.T) {
			if got := DefaultBands.Threshold(tt.sparsity); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSparsePowerMatchesDense(t *testing.T) {
	a := tridiag()
	s, err := array.SparseFromDense(a)
	require.NoError(t, err)

	// Sparsity 9/7 selects a threshold of 3, so exponents of magnitude 4
	// and below multiply linearly and 5 and above square.
	tests := []struct {
		p    int
		want Strategy
	}{
		{0, StrategyIdentity},
		{1, StrategyLinear},
		{2, StrategyLinear},
		{3, StrategyLinear},
		{4, StrategyLinear},
		{5, StrategySquaring},
		{6, StrategySquaring},
		{9, StrategySquaring},
		{-1, StrategyLinear},
		{-3, StrategyLinear},
		{-4, StrategyLinear},
		{-5, StrategySquaring},
		{-6, StrategySquaring},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.p), func(t *testing.T) {
			got, strategy, err := SparsePower(s, tt.p, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strategy)
			want, err := Power(a, tt.p)
			require.NoError(t, err)
			assertClose(t, want, got.Dense())
		})
	}
}

func TestSparsePowerCustomBands(t *testing.T) {
	s, err := array.SparseFromDense(tridiag())
	require.NoError(t, err)
	_, strategy, err := SparsePower(s, 3, Bands{{MinSparsity: 0, Threshold: 1}})
	require.NoError(t, err)
	assert.Equal(t, StrategySquaring, strategy)
}

func TestSparsePowerNonSquare(t *testing.T) {
	s := array.NewSparse[float64](2, 3)
	_, _, err := SparsePower(s, 2, nil)
	require.ErrorIs(t, err, array.ErrNonconformant)
}
