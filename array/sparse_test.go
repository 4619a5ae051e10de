package array

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSparseRoundTrip(t *testing.T) {
	d := FromSlice(Dims{3, 3}, []float64{1, 0, 0, 0, 0, 2, 3, 0, 0})
	s, err := SparseFromDense(d)
	require.NoError(t, err)
	require.Equal(t, 3, s.Nnz())
	require.Equal(t, 2.0, s.At(2, 1))
	require.Equal(t, 0.0, s.At(1, 1))
	require.Equal(t, d.Data(), s.Dense().Data())
}

func TestSparseTranspose(t *testing.T) {
	d := FromSlice(Dims{2, 3}, []float64{1, 0, 0, 4, 5, 0})
	s, err := SparseFromDense(d)
	require.NoError(t, err)
	dt, err := d.Transpose()
	require.NoError(t, err)
	require.Equal(t, dt.Data(), s.Transpose().Dense().Data())
}

func TestSparseMul(t *testing.T) {
	a := FromSlice(Dims{2, 2}, []float64{1, 3, 2, 4})
	b := FromSlice(Dims{2, 2}, []float64{0, 1, 1, 0})
	sa, _ := SparseFromDense(a)
	sb, _ := SparseFromDense(b)
	out, err := SparseMul(sa, sb)
	require.NoError(t, err)
	// [1 2; 3 4] * [0 1; 1 0] = [2 1; 4 3]
	require.Equal(t, []float64{2, 4, 1, 3}, out.Dense().Data())

	eye := SparseEye[float64](2)
	same, err := SparseMul(sa, eye)
	require.NoError(t, err)
	require.Equal(t, a.Data(), same.Dense().Data())

	_, err = SparseMul(sa, NewSparse[float64](3, 1))
	require.Error(t, err)
}

func TestMapSparseDropsZeros(t *testing.T) {
	d := FromSlice(Dims{1, 3}, []float64{1, 2, 3})
	s, _ := SparseFromDense(d)
	out := MapSparse(s, func(v float64) float64 { return v - 2 })
	require.Equal(t, 2, out.Nnz())
}
