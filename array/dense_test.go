package array

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestDimsString(t *testing.T) {
	tests := []struct {
		dims Dims
		want string
	}{
		{Shape(1, 3), "1x3"},
		{Shape(0, 0), "0x0"},
		{Shape(2, 3, 4), "2x3x4"},
		{Shape(2, 3, 1), "2x3"},
		{Shape(5), "5x1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.dims.String(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDimsRedim(t *testing.T) {
	d := Shape(2, 3, 4)
	if got := d.Redim(2); !got.Equal(Dims{2, 12}) {
		t.Errorf("Expected 2x12, got %s", got)
	}
	if got := d.Redim(1); got[0] != 24 {
		t.Errorf("Expected 24, got %v", got)
	}
	if got := Shape(2, 3).Redim(3); len(got) != 3 || got[2] != 1 {
		t.Errorf("Expected 2x3x1, got %v", got)
	}
}

func TestLinearIndexOrientation(t *testing.T) {
	row := FromSlice(Dims{1, 4}, seq(4))
	col := FromSlice(Dims{4, 1}, seq(4))
	pick := Positions([]int{0, 2}, Dims{2, 1})

	out, err := row.Index([]Index{pick})
	require.NoError(t, err)
	require.True(t, out.Dims().Equal(Dims{1, 2}))
	require.Equal(t, []float64{1, 3}, out.Data())

	out, err = col.Index([]Index{pick})
	require.NoError(t, err)
	require.True(t, out.Dims().Equal(Dims{2, 1}))

	out, err = row.Index([]Index{Colon()})
	require.NoError(t, err)
	require.True(t, out.Dims().Equal(Dims{4, 1}))
}

func TestSubscriptIndex(t *testing.T) {
	// [1 3 5; 2 4 6]
	a := FromSlice(Dims{2, 3}, seq(6))
	out, err := a.Index([]Index{At(1), Colon()})
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 6}, out.Data())
	require.True(t, out.Dims().Equal(Dims{1, 3}))

	_, err = a.Index([]Index{At(2), At(0)})
	require.Error(t, err)
	var be *BoundError
	require.True(t, errors.As(err, &be))
	require.Equal(t, 1, be.Dim)
	require.Equal(t, 3, be.Pos)
}

func TestAssignGrowsVectors(t *testing.T) {
	a := FromSlice(Dims{1, 3}, seq(3))
	err := a.Assign([]Index{At(4)}, Scalar(7.0), 0)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 0, 7}, a.Data())
	require.True(t, a.Dims().Equal(Dims{1, 5}))

	c := FromSlice(Dims{2, 1}, seq(2))
	require.NoError(t, c.Assign([]Index{At(3)}, Scalar(9.0), -1))
	require.Equal(t, []float64{1, 2, -1, 9}, c.Data())
	require.True(t, c.Dims().Equal(Dims{4, 1}))

	e := New[float64](Dims{0, 0})
	require.NoError(t, e.Assign([]Index{At(2)}, Scalar(1.0), 0))
	require.True(t, e.Dims().Equal(Dims{1, 3}))
}

func TestAssignRefusesAmbiguousGrowth(t *testing.T) {
	a := FromSlice(Dims{2, 2}, seq(4))
	err := a.Assign([]Index{At(6)}, Scalar(1.0), 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrResize))
	require.Equal(t, []float64{1, 2, 3, 4}, a.Data(), "failed assignment must not modify the array")
}

func TestAssignSubscriptGrowth(t *testing.T) {
	a := FromSlice(Dims{2, 2}, seq(4))
	require.NoError(t, a.Assign([]Index{At(2), At(2)}, Scalar(9.0), 0))
	require.True(t, a.Dims().Equal(Dims{3, 3}))
	require.Equal(t, []float64{1, 2, 0, 3, 4, 0, 0, 0, 9}, a.Data())
}

func TestAssignRefusesHugeGrowth(t *testing.T) {
	a := FromSlice(Dims{1, 3}, seq(3))
	err := a.Assign([]Index{At(1e15 - 1)}, Scalar(9.0), 0)
	require.True(t, errors.Is(err, ErrTooLarge), "got %v", err)
	require.Equal(t, []float64{1, 2, 3}, a.Data())
	require.True(t, a.Dims().Equal(Dims{1, 3}))

	err = a.Assign([]Index{At(4e9 - 1), At(4e9 - 1)}, Scalar(9.0), 0)
	require.True(t, errors.Is(err, ErrTooLarge), "got %v", err)
	require.Equal(t, []float64{1, 2, 3}, a.Data())

	require.Error(t, a.Resize(Dims{MaxNumel, 2}, 0))
	require.NoError(t, a.Resize(Dims{1, 4}, 0))
	require.Equal(t, []float64{1, 2, 3, 0}, a.Data())
}

func TestAssignNonconformant(t *testing.T) {
	a := FromSlice(Dims{1, 3}, seq(3))
	err := a.Assign([]Index{Positions([]int{0, 1}, nil)}, FromSlice(Dims{1, 3}, seq(3)), 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNonconformant))
}

func TestDelete(t *testing.T) {
	a := FromSlice(Dims{1, 4}, seq(4))
	require.NoError(t, a.Delete([]Index{Positions([]int{1, 2}, nil)}))
	require.Equal(t, []float64{1, 4}, a.Data())

	m := FromSlice(Dims{2, 3}, seq(6))
	require.NoError(t, m.Delete([]Index{Colon(), At(1)}))
	require.True(t, m.Dims().Equal(Dims{2, 2}))
	require.Equal(t, []float64{1, 2, 5, 6}, m.Data())

	m = FromSlice(Dims{2, 3}, seq(6))
	err := m.Delete([]Index{At(0), At(1)})
	require.True(t, errors.Is(err, ErrNullAssign))
}

func TestBroadcast(t *testing.T) {
	col := FromSlice(Dims{2, 1}, []float64{10, 20})
	row := FromSlice(Dims{1, 3}, seq(3))
	out, err := Broadcast("+", col, row, func(a, b float64) float64 { return a + b })
	require.NoError(t, err)
	require.True(t, out.Dims().Equal(Dims{2, 3}))
	require.Equal(t, []float64{11, 21, 12, 22, 13, 23}, out.Data())

	_, err = Broadcast("+", FromSlice(Dims{1, 3}, seq(3)), FromSlice(Dims{1, 2}, seq(2)), func(a, b float64) float64 { return a + b })
	var ce *ConformError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "operator +: nonconformant arguments (op1 is 1x3, op2 is 1x2)", ce.Error())
}

func TestCat(t *testing.T) {
	a := FromSlice(Dims{2, 1}, []float64{1, 2})
	b := FromSlice(Dims{2, 2}, []float64{3, 4, 5, 6})
	out, err := Cat(2, a, b)
	require.NoError(t, err)
	require.True(t, out.Dims().Equal(Dims{2, 3}))
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, out.Data())

	out, err = Cat(1, FromSlice(Dims{1, 2}, []float64{1, 2}), FromSlice(Dims{1, 2}, []float64{3, 4}))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 3, 2, 4}, out.Data())

	out, err = Cat(2, New[float64](Dims{0, 0}), a)
	require.NoError(t, err)
	require.True(t, out.Dims().Equal(Dims{2, 1}))

	_, err = Cat(1, a, b)
	require.True(t, errors.Is(err, ErrNonconformant))
}

func TestTranspose(t *testing.T) {
	a := FromSlice(Dims{2, 3}, seq(6))
	out, err := a.Transpose()
	require.NoError(t, err)
	require.True(t, out.Dims().Equal(Dims{3, 2}))
	require.Equal(t, []float64{1, 3, 5, 2, 4, 6}, out.Data())
}
