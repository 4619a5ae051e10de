package types

import (
	"testing"

	"github.com/pkg/errors"
)

func TestScalarAccessors(t *testing.T) {
	t.Run("AsFloat64", func(t *testing.T) {
		for _, v := range []Value{NewScalar(1), NewBool(true), NewInt[int8](1), NewFloat(1), NewComplex(1)} {
			f, err := AsFloat64(v)
			if err != nil || f != 1 {
				t.Errorf("AsFloat64(%s) = %v, %v", v.Kind(), f, err)
			}
		}
		for _, v := range []Value{NewMatrix(1, 3, seq(3)), NewString("a"), NewComplex(1 + 2i), NewCell(1, 1, nil)} {
			if _, err := AsFloat64(v); !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("AsFloat64(%s) should fail with TypeMismatch, got %v", v.Kind(), err)
			}
		}
	})

	t.Run("AsInt", func(t *testing.T) {
		if n, err := AsInt(NewScalar(4)); err != nil || n != 4 {
			t.Errorf("AsInt(4) = %d, %v", n, err)
		}
		if _, err := AsInt(NewScalar(4.5)); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("AsInt(4.5) should fail, got %v", err)
		}
	})

	t.Run("AsBool", func(t *testing.T) {
		if b, err := AsBool(NewBool(true)); err != nil || !b {
			t.Errorf("AsBool(true) = %v, %v", b, err)
		}
		if _, err := AsBool(NewScalar(1)); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("AsBool(double) should fail, got %v", err)
		}
	})

	t.Run("AsComplex", func(t *testing.T) {
		if c, err := AsComplex(NewComplex(1 + 2i)); err != nil || c != 1+2i {
			t.Errorf("AsComplex = %v, %v", c, err)
		}
		if _, err := AsComplex(NewString("a")); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("AsComplex(char) should fail, got %v", err)
		}
	})
}

func TestArrayAccessors(t *testing.T) {
	m, err := AsRealMatrix(NewRange(1, 1, 4))
	if err != nil {
		t.Fatal(err)
	}
	if m.Dims().String() != "1x4" || m.At(3) != 4 {
		t.Errorf("unexpected range contents %v", m.Data())
	}

	if _, err := AsRealVector(NewMatrix(2, 3, seq(6))); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsRealVector on a matrix should fail, got %v", err)
	}

	c, err := AsComplexMatrix(NewBoolMatrix(1, 2, []bool{true, false}))
	if err != nil || c.At(0) != 1 || c.At(1) != 0 {
		t.Errorf("AsComplexMatrix(bool) = %v, %v", c, err)
	}

	b, err := AsBoolMatrix(NewBoolMatrix(1, 3, []bool{true, false, true}))
	if err != nil || b.Numel() != 3 || !b.At(2) {
		t.Errorf("AsBoolMatrix = %v, %v", b, err)
	}
}

func TestStringAccessor(t *testing.T) {
	if s, err := AsString(NewString("héllo")); err != nil || s != "héllo" {
		t.Errorf("AsString = %q, %v", s, err)
	}
	if s, err := AsString(NewEmptyString()); err != nil || s != "" {
		t.Errorf("AsString('') = %q, %v", s, err)
	}
	two, _ := NewCharMatrix([]string{"ab", "cd"})
	if _, err := AsString(two); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsString on a 2-row char array should fail, got %v", err)
	}
	if _, err := AsString(NewScalar(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsString(double) should fail, got %v", err)
	}
}

func TestContainerAccessors(t *testing.T) {
	if _, err := AsCell(NewCell(1, 2, nil)); err != nil {
		t.Error(err)
	}
	if _, err := AsCell(NewScalar(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsCell(double) should fail, got %v", err)
	}
	s, err := AsStruct(NewStruct([]string{"a", "b"}, []Value{NewScalar(1), NewScalar(2)}))
	if err != nil || len(s.Fields()) != 2 {
		t.Errorf("AsStruct = %v, %v", s, err)
	}
	if _, err := AsStruct(NewCell(1, 1, nil)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsStruct(cell) should fail, got %v", err)
	}
	f, err := AsFunctionHandle(NewFunctionHandle("sin"))
	if err != nil || f.Name() != "sin" {
		t.Errorf("AsFunctionHandle = %v, %v", f, err)
	}
	if _, err := AsObject(NewFunctionHandle("sin")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsObject(function handle) should fail, got %v", err)
	}
}

func TestValuePredicates(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		pred func(Value) bool
		want bool
	}{
		{"range is numeric", NewRange(1, 1, 3), IsNumeric, true},
		{"range is real", NewRange(1, 1, 3), IsReal, true},
		{"range predicate", NewRange(1, 1, 3), IsRange, true},
		{"char is not numeric", NewString("a"), IsNumeric, false},
		{"char is real", NewString("a"), IsReal, true},
		{"string", NewString("ab"), IsString, true},
		{"empty string", NewEmptyString(), IsString, true},
		{"complex", NewComplex(1i), IsComplex, true},
		{"diag", NewMatrix(2, 2, []float64{1, 0, 0, 2}), IsDiag, true},
		{"perm", NewMatrix(2, 2, []float64{0, 1, 1, 0}), IsPerm, true},
		{"null", NewEmpty(), IsNull, true},
		{"empty", NewEmpty(), IsEmpty, true},
		{"square", NewMatrix(2, 2, seq(4)), IsSquare, true},
		{"vector", NewMatrix(3, 1, seq(3)), IsVector, true},
		{"struct", NewStruct(nil, nil), IsStruct, true},
		{"single", NewFloat(1), IsSingle, true},
		{"integer", NewInt[uint64](1), IsInteger, true},
		{"sparse", mustSparse(t), IsSparse, true},
		{"undefined", Value{}, IsDefined, false},
	}
	for _, tt := range tests {
		if got := tt.pred(tt.v); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func mustSparse(t *testing.T) Value {
	t.Helper()
	v, err := NewSparse(arrayOf(2, 2, 1, 0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	return v
}
