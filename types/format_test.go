package types

import (
	"math"
	"testing"
)

func TestFormatValues(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NewScalar(2.5), "2.5"},
		{NewMatrix(2, 2, []float64{1, 3, 2, 4}), "[1 2; 3 4]"},
		{NewInt[int8](-5), "int8(-5)"},
		{NewInt[int64](math.MaxInt64), "int64(9223372036854775807)"},
		{NewInt[int64](math.MinInt64), "int64(-9223372036854775808)"},
		{NewIntMatrix[uint64](1, 2, []uint64{math.MaxUint64, 0}), "uint64([18446744073709551615 0])"},
		{NewInt[int64](9007199254740993), "int64(9007199254740993)"},
		{NewString("it's"), "'it''s'"},
		{NewBoolMatrix(1, 2, []bool{true, false}), "logical([1 0])"},
	}
	for _, tt := range tests {
		if got := Format(tt.v); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}
