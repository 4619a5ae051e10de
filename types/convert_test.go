package types

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestConvertKind(t *testing.T) {
	tests := []struct {
		name   string
		in     Value
		target Kind
		want   Value
	}{
		{"int to double", NewInt[int32](3), KindScalar, NewScalar(3)},
		{"double saturates to uint8", NewScalar(300), KindUint8Scalar, NewInt[uint8](255)},
		{"rounds half away from zero", NewScalar(2.5), KindInt32Scalar, NewInt[int32](3)},
		{"negative half", NewScalar(-2.5), KindInt32Scalar, NewInt[int32](-3)},
		{"NaN to int", NewScalar(math.NaN()), KindInt8Scalar, NewInt[int8](0)},
		{"range to matrix", NewRange(1, 1, 3), KindMatrix, NewMatrix(1, 3, []float64{1, 2, 3})},
		{"bool to double matrix", NewBoolMatrix(1, 2, []bool{true, false}), KindMatrix, NewMatrix(1, 2, []float64{1, 0})},
		{"char to double", NewString("AB"), KindMatrix, NewMatrix(1, 2, []float64{65, 66})},
		{"double to single", NewMatrix(2, 2, []float64{1, 3, 2, 4}), KindFloatMatrix, NewFloatMatrix(2, 2, []float32{1, 3, 2, 4})},
		{"diag to complex", NewMatrix(2, 2, []float64{2, 0, 0, 3}), KindComplexMatrix, NewMatrix(2, 2, []float64{2, 0, 0, 3})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ConvertKind(tt.in.Rep(), tt.target)
			if err != nil {
				t.Fatalf("ConvertKind failed: %v", err)
			}
			if out.Kind() != tt.target {
				t.Errorf("expected kind %s, got %s", tt.target, out.Kind())
			}
			if !IsEqual(Wrap(out), tt.want) {
				t.Errorf("expected %v, got %v", tt.want, Wrap(out))
			}
		})
	}
}

func TestConvertKindDoesNotAlias(t *testing.T) {
	src := NewIntMatrix(1, 3, []uint16{1, 2, 3})
	out, err := ConvertKind(src.Rep(), KindCharString)
	if err != nil {
		t.Fatal(err)
	}
	out.(*Matrix[uint16]).Array().Set(0, 'x')
	if got, _ := AsRealVector(src); got[0] != 1 {
		t.Errorf("conversion aliased the source: %v", got)
	}
}

func TestConvertKindFailures(t *testing.T) {
	if _, err := ConvertKind(NewCell(1, 1, nil).Rep(), KindScalar); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("expected ConversionFailed, got %v", err)
	}
	if _, err := ConvertKind(NewMatrix(2, 3, seq(6)).Rep(), KindScalar); !errors.Is(err, ErrConversionFailed) {
		t.Errorf("expected ConversionFailed for a non-scalar, got %v", err)
	}
}

func TestEmptyLike(t *testing.T) {
	tests := []struct {
		rhs  Value
		kind Kind
	}{
		{NewScalar(1), KindMatrix},
		{NewString("ab"), KindCharString},
		{NewInt[int8](1), KindInt8Matrix},
		{NewBool(true), KindBoolMatrix},
		{NewRange(1, 1, 3), KindMatrix},
		{NewCell(1, 1, nil), KindCell},
		{NewStruct([]string{"a"}, nil), KindStruct},
		{NewEmpty(), KindMatrix},
	}
	for _, tt := range tests {
		out, err := EmptyLike(tt.rhs.Rep())
		if err != nil {
			t.Errorf("EmptyLike(%s): %v", tt.rhs.Kind(), err)
			continue
		}
		if out.Kind() != tt.kind || !out.Dims().IsZeroByZero() {
			t.Errorf("EmptyLike(%s) = %s %s", tt.rhs.Kind(), out.Kind(), out.Dims())
		}
	}
	if _, err := EmptyLike(NewFunctionHandle("sin").Rep()); !errors.Is(err, ErrOperatorNotImplemented) {
		t.Errorf("expected OperatorNotImplemented for a function handle, got %v", err)
	}
}
