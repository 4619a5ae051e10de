package types

import (
	"testing"

	"github.com/pkg/errors"
)

func TestToIndex(t *testing.T) {
	tests := []struct {
		name  string
		v     Value
		colon bool
		pos   []int
		err   error
	}{
		{"scalar", NewScalar(2), false, []int{1}, nil},
		{"int scalar", NewInt[int32](3), false, []int{2}, nil},
		{"range", NewRange(1, 1, 3), false, []int{0, 1, 2}, nil},
		{"vector", NewMatrix(1, 3, []float64{4, 1, 4}), false, []int{3, 0, 3}, nil},
		{"colon", NewString(":"), true, nil, nil},
		{"mask", NewBoolMatrix(1, 3, []bool{true, false, true}), false, []int{0, 2}, nil},
		{"null", NewEmpty(), false, []int{}, nil},
		{"zero", NewScalar(0), false, nil, ErrIndexOutOfRange},
		{"negative", NewScalar(-1), false, nil, ErrIndexOutOfRange},
		{"fraction", NewScalar(1.5), false, nil, ErrInvalidIndexType},
		{"complex", NewComplex(1 + 2i), false, nil, ErrInvalidIndexType},
		{"cell", NewCell(1, 1, []Value{NewScalar(1)}), false, nil, ErrInvalidIndexType},
		{"undefined", Value{}, false, nil, ErrUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := ToIndex(tt.v, 0, 1)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ix.IsColon() != tt.colon {
				t.Fatalf("colon = %v, want %v", ix.IsColon(), tt.colon)
			}
			if tt.colon {
				return
			}
			if ix.Len(0) != len(tt.pos) {
				t.Fatalf("expected %d positions, got %d", len(tt.pos), ix.Len(0))
			}
			for k, p := range tt.pos {
				if ix.Pos(k) != p {
					t.Errorf("position %d: expected %d, got %d", k, p, ix.Pos(k))
				}
			}
		})
	}
}

func TestToIndicesReportsPosition(t *testing.T) {
	_, err := ToIndices([]Value{NewScalar(1), NewScalar(0)})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected IndexOutOfRange, got %v", err)
	}
	if want := "index (_,0): out of bound; value 0 out of bound"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
