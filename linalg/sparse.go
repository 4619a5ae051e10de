package linalg

import (
	"sort"

	"github.com/pkg/errors"

	"silo/array"
)

// Band maps a sparsity level to the exponent above which sparse powers
// switch from repeated multiplication to repeated squaring. Sparsity is
// numel/nnz.
type Band struct {
	MinSparsity uint64
	Threshold   int
}

// Bands is an ordered threshold table.
type Bands []Band

// DefaultBands is the threshold table used when none is configured.
var DefaultBands = Bands{
	{MinSparsity: 10000, Threshold: 40},
	{MinSparsity: 1000, Threshold: 30},
	{MinSparsity: 100, Threshold: 20},
	{MinSparsity: 0, Threshold: 3},
}

// Threshold picks the exponent threshold for a sparsity level.
func (b Bands) Threshold(sparsity uint64) int {
	sorted := append(Bands(nil), b...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinSparsity > sorted[j].MinSparsity })
	for _, band := range sorted {
		if sparsity >= band.MinSparsity {
			return band.Threshold
		}
	}
	return 0
}

// Strategy names the algorithm a sparse power took.
type Strategy int

const (
	StrategyIdentity Strategy = iota
	StrategyLinear
	StrategySquaring
)

func (s Strategy) String() string {
	switch s {
	case StrategyIdentity:
		return "identity"
	case StrategyLinear:
		return "linear"
	case StrategySquaring:
		return "squaring"
	default:
		return "unknown"
	}
}

// SparseInverse inverts a square sparse matrix through its dense form.
func SparseInverse(s *array.Sparse[float64]) (*array.Sparse[float64], error) {
	inv, err := Inverse(s.Dense())
	if err != nil {
		return nil, err
	}
	return array.SparseFromDense(inv)
}

// SparsePower raises a square sparse matrix to an integer power. The
// operand itself is the first factor. Past the band threshold the
// remaining factors come from repeated squaring, otherwise from one
// multiplication each.
func SparsePower(a *array.Sparse[float64], p int, bands Bands) (*array.Sparse[float64], Strategy, error) {
	d := a.Dims()
	if d.Rows() != d.Cols() {
		return nil, StrategyIdentity, errors.Wrapf(array.ErrNonconformant, "for x^y, only square matrix arguments are permitted (%s)", d)
	}
	if p == 0 {
		return array.SparseEye[float64](d.Rows()), StrategyIdentity, nil
	}
	if len(bands) == 0 {
		bands = DefaultBands
	}

	atmp := a
	if p < 0 {
		inv, err := SparseInverse(a)
		if err != nil {
			return nil, StrategyIdentity, err
		}
		atmp = inv
		p = -p
	}

	result := atmp.Clone()
	p--
	if p == 0 {
		return result, StrategyLinear, nil
	}

	sparsity := uint64(d.Numel())
	if nnz := atmp.Nnz(); nnz > 0 {
		sparsity /= uint64(nnz)
	}

	if p > bands.Threshold(sparsity) {
		for p > 0 {
			if p&1 == 1 {
				r, err := array.SparseMul(result, atmp)
				if err != nil {
					return nil, StrategySquaring, err
				}
				result = r
			}
			p >>= 1
			if p > 0 {
				sq, err := array.SparseMul(atmp, atmp)
				if err != nil {
					return nil, StrategySquaring, err
				}
				atmp = sq
			}
		}
		return result, StrategySquaring, nil
	}

	for i := 0; i < p; i++ {
		r, err := array.SparseMul(result, atmp)
		if err != nil {
			return nil, StrategyLinear, err
		}
		result = r
	}
	return result, StrategyLinear, nil
}
