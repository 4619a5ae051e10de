package types

import (
	"math"
	"testing"
)

func TestIsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"range and matrix", NewRange(1, 1, 3), rawMatrix(1, 3, 1, 2, 3), true},
		{"int and double", NewIntMatrix(1, 2, []int32{1, 2}), NewMatrix(1, 2, []float64{1, 2}), true},
		{"NaN", NewScalar(math.NaN()), NewScalar(math.NaN()), true},
		{"shape", NewMatrix(1, 2, seq(2)), NewMatrix(2, 1, seq(2)), false},
		{"values", NewScalar(1), NewScalar(2), false},
		{"char and double", NewString("A"), NewScalar(65), true},
		{"null and stored empty", NewEmpty(), EmptyMatrix(), true},
		{"cell", NewCell(1, 2, []Value{NewScalar(1), NewString("a")}), NewCell(1, 2, []Value{NewScalar(1), NewString("a")}), true},
		{"cell contents", NewCell(1, 1, []Value{NewScalar(1)}), NewCell(1, 1, []Value{NewScalar(2)}), false},
		{"cell and matrix", NewCell(1, 1, []Value{NewScalar(1)}), NewScalar(1), false},
		{"struct field order",
			NewStruct([]string{"a", "b"}, []Value{NewScalar(1), NewScalar(2)}),
			NewStruct([]string{"b", "a"}, []Value{NewScalar(2), NewScalar(1)}), true},
		{"struct fields", NewStruct([]string{"a"}, nil), NewStruct([]string{"b"}, nil), false},
		{"named handles", NewFunctionHandle("sin"), NewFunctionHandle("sin"), true},
		{"anonymous handles", NewAnonymousFunction([]string{"x"}, "x+1", nil), NewAnonymousFunction([]string{"x"}, "x+1", nil), false},
		{"undefined", Value{}, Value{}, true},
		{"undefined and value", Value{}, NewScalar(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("IsEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func rawMatrix(rows, cols int, data ...float64) Value {
	return Wrap(FromArrayRep(arrayOf(rows, cols, data...)))
}

func TestFingerprint(t *testing.T) {
	a := NewMatrix(2, 2, []float64{1, 3, 2, 4})
	if Fingerprint(a) != Fingerprint(a.Copy()) {
		t.Error("copies should fingerprint the same")
	}
	if Fingerprint(a) != Fingerprint(NewMatrix(2, 2, []float64{1, 3, 2, 4})) {
		t.Error("equal values should fingerprint the same")
	}
	if Fingerprint(NewScalar(1)) == Fingerprint(NewInt[int32](1)) {
		t.Error("different kinds should fingerprint differently")
	}
	if Fingerprint(NewString("a")) == Fingerprint(NewString("b")) {
		t.Error("different contents should fingerprint differently")
	}
	if Fingerprint(NewRange(1, 1, 3)) == Fingerprint(rawMatrix(1, 3, 1, 2, 3)) {
		t.Error("a range and a matrix should fingerprint differently")
	}
	c1 := NewCell(1, 1, []Value{NewScalar(1)})
	c2 := NewCell(1, 1, []Value{NewScalar(2)})
	if Fingerprint(c1) == Fingerprint(c2) {
		t.Error("cell contents should reach the fingerprint")
	}
	if len(Fingerprint(a).String()) != 64 {
		t.Errorf("expected a 64-digit hex digest, got %q", Fingerprint(a).String())
	}
}

func TestFormat(t *testing.T) {
	two, _ := NewCharMatrix([]string{"ab", "cd"})
	tests := []struct {
		v    Value
		want string
	}{
		{NewScalar(2.5), "2.5"},
		{NewMatrix(2, 2, []float64{1, 3, 2, 4}), "[1 2; 3 4]"},
		{NewComplex(1 - 2i), "1-2i"},
		{NewInt[int8](5), "int8(5)"},
		{NewFloat(0.1), "single(0.1)"},
		{NewBool(true), "logical(1)"},
		{NewRange(1, 1, 4), "1:1:4"},
		{NewString("it's"), "'it''s'"},
		{two, "['ab'; 'cd']"},
		{NewEmpty(), "[]"},
		{NewEmptyString(), "''"},
		{NewCell(1, 2, []Value{NewScalar(1), NewString("a")}), "{1, 'a'}"},
		{NewStruct([]string{"x"}, []Value{NewScalar(1)}), "struct('x', 1)"},
		{NewFunctionHandle("sin"), "@sin"},
		{NewAnonymousFunction([]string{"x"}, "x.^2", nil), "@(x) x.^2"},
		{NewScalar(math.Inf(-1)), "-Inf"},
	}
	for _, tt := range tests {
		if got := Format(tt.v); got != tt.want {
			t.Errorf("Format(%s) = %q, want %q", tt.v.Kind(), got, tt.want)
		}
	}
}
