// Package ops installs the dispatch table entries and conversions for
// every built-in kind.
package ops

import (
	"silo/dispatch"
	"silo/linalg"
	"silo/types"
)

// Option adjusts how the registry is built.
type Option func(*options)

type options struct {
	bands linalg.Bands
}

// WithSparseBands sets the density bands that choose between linear
// multiplication and repeated squaring for sparse integer powers.
func WithSparseBands(b linalg.Bands) Option {
	return func(o *options) { o.bands = b }
}

// Kind groups shared by the installers.
var (
	floatKinds = []types.Kind{
		types.KindScalar, types.KindMatrix, types.KindComplex, types.KindComplexMatrix,
		types.KindFloatScalar, types.KindFloatMatrix, types.KindFloatComplex, types.KindFloatComplexMatrix,
	}
	// arithKinds are combined by the generic elementwise kernels; char
	// data computes as double.
	arithKinds = append(append([]types.Kind(nil), floatKinds...), types.KindCharString)
	boolKinds  = []types.Kind{types.KindBool, types.KindBoolMatrix}
	catKinds   = func() []types.Kind {
		out := append([]types.Kind(nil), arithKinds...)
		out = append(out, boolKinds...)
		out = append(out, types.IntScalarKinds()...)
		return append(out, types.IntMatrixKinds()...)
	}()
)

// intFamilies lists the (scalar, matrix) kind pair of each integer class.
func intFamilies() [][2]types.Kind {
	s, m := types.IntScalarKinds(), types.IntMatrixKinds()
	out := make([][2]types.Kind, len(s))
	for i := range s {
		out[i] = [2]types.Kind{s[i], m[i]}
	}
	return out
}

// NewRegistry registers every kind and its table entries and returns the
// frozen registry. It is the one initialization step a process runs
// before evaluating anything.
func NewRegistry(opts ...Option) *dispatch.Registry {
	o := options{bands: linalg.DefaultBands}
	for _, opt := range opts {
		opt(&o)
	}

	b := dispatch.NewBuilder()

	// Kinds and their conversions
	registerTypes(b)

	// Arithmetic
	installArith(b)
	installIntArith(b)
	installLinear(b)

	// Comparison and logical operators
	installCompare(b)
	installLogical(b)

	// Unary operators
	installUnary(b)

	// Ranges, diagonal, permutation and sparse matrices
	installRange(b)
	installDiag(b)
	installPerm(b)
	installSparse(b, o.bands)

	// Concatenation
	installCat(b)

	// Indexed assignment
	installAssign(b)

	return b.Build()
}

func convertTo(k types.Kind) *dispatch.Conversion {
	return &dispatch.Conversion{Target: k, Fn: func(r types.Representation) (types.Representation, error) {
		return types.ConvertKind(r, k)
	}}
}

// registerTypes declares every kind except undefined. Promotions widen
// toward a kind with more entries (bool to double, real to complex,
// integer to double); demotions fall back to single precision or to full
// storage.
func registerTypes(b *dispatch.Builder) {
	promote := map[types.Kind]types.Kind{
		types.KindNullMatrix:        types.KindMatrix,
		types.KindNullString:        types.KindCharString,
		types.KindBool:              types.KindScalar,
		types.KindBoolMatrix:        types.KindMatrix,
		types.KindScalar:            types.KindComplex,
		types.KindMatrix:            types.KindComplexMatrix,
		types.KindFloatScalar:       types.KindFloatComplex,
		types.KindFloatMatrix:       types.KindFloatComplexMatrix,
		types.KindRange:             types.KindMatrix,
		types.KindDiagMatrix:        types.KindMatrix,
		types.KindComplexDiagMatrix: types.KindComplexMatrix,
		types.KindPermMatrix:        types.KindMatrix,
		types.KindSparseMatrix:      types.KindSparseComplexMatrix,
		types.KindSparseBoolMatrix:  types.KindSparseMatrix,
		types.KindScalarStruct:      types.KindStruct,
	}
	for _, f := range intFamilies() {
		promote[f[0]] = types.KindScalar
		promote[f[1]] = types.KindMatrix
	}
	demote := map[types.Kind]types.Kind{
		types.KindScalar:              types.KindFloatScalar,
		types.KindMatrix:              types.KindFloatMatrix,
		types.KindComplex:             types.KindFloatComplex,
		types.KindComplexMatrix:       types.KindFloatComplexMatrix,
		types.KindSparseMatrix:        types.KindMatrix,
		types.KindSparseComplexMatrix: types.KindComplexMatrix,
		types.KindSparseBoolMatrix:    types.KindBoolMatrix,
	}
	noGrowth := map[types.Kind]bool{
		types.KindFunctionHandle: true,
		types.KindObject:         true,
		types.KindCSList:         true,
	}

	for _, k := range types.AllKinds() {
		if k == types.KindUndefined {
			continue
		}
		info := dispatch.TypeInfo{Kind: k}
		if t, ok := promote[k]; ok {
			info.Promote = convertTo(t)
		}
		if t, ok := demote[k]; ok {
			info.Demote = convertTo(t)
		}
		if noGrowth[k] {
			info.Growth = dispatch.GrowNone
		}
		b.RegisterType(info)
	}
}

func pairs(a, b []types.Kind, fn func(x, y types.Kind)) {
	for _, x := range a {
		for _, y := range b {
			fn(x, y)
		}
	}
}
