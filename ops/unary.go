package ops

import (
	"math/cmplx"

	"silo/array"
	"silo/dispatch"
	"silo/types"
)

// unaryKinds are the dense kinds with direct unary entries.
var unaryKinds = func() []types.Kind {
	out := append([]types.Kind(nil), numKinds...)
	out = append(out, types.IntScalarKinds()...)
	return append(out, types.IntMatrixKinds()...)
}()

func installUnary(b *dispatch.Builder) {
	for _, k := range unaryKinds {
		b.Unary(dispatch.OpNot, k, not)
		b.Unary(dispatch.OpUPlus, k, uplus)
		b.Unary(dispatch.OpUMinus, k, uminus)
		b.Unary(dispatch.OpTranspose, k, transpose)
		b.Unary(dispatch.OpHermitian, k, hermitian)
		b.Unary(dispatch.OpIncr, k, step(dispatch.OpAdd))
		b.Unary(dispatch.OpDecr, k, step(dispatch.OpSub))
	}
	b.Unary(dispatch.OpTranspose, types.KindCell, transpose)
	b.Unary(dispatch.OpHermitian, types.KindCell, transpose)
}

func not(a types.Representation) (types.Representation, error) {
	t, err := truth(a)
	if err != nil {
		return nil, err
	}
	return boolResult(array.Map(t, func(v bool) bool { return !v })), nil
}

// uplus returns its operand; logical and character data become double.
func uplus(a types.Representation) (types.Representation, error) {
	c := unaryClass(a.Kind())
	if c.base == classOf(a.Kind()).base {
		return a.Clone(), nil
	}
	x, err := types.ElementsOf[float64](a)
	if err != nil {
		return nil, err
	}
	return storeReal(c.base, x.Clone()), nil
}

// uminus negates; integer results saturate, so -int8(-128) is 127.
func uminus(a types.Representation) (types.Representation, error) {
	c := unaryClass(a.Kind())
	if c.complex {
		x, err := types.ElementsOf[complex128](a)
		if err != nil {
			return nil, err
		}
		return storeComplex(c, array.Map(x, func(v complex128) complex128 { return -v })), nil
	}
	if isWideInt(a.Kind()) {
		return wideNegate(a)
	}
	x, err := types.ElementsOf[float64](a)
	if err != nil {
		return nil, err
	}
	return storeReal(c.base, array.Map(x, func(v float64) float64 { return -v })), nil
}

type transposer interface {
	Transpose() (types.Representation, error)
}

func transpose(a types.Representation) (types.Representation, error) {
	switch r := a.(type) {
	case transposer:
		return r.Transpose()
	case *types.Range:
		return types.FromArrayRep(array.FromSlice(array.Dims{r.Len(), 1}, r.Elements().(*array.Dense[float64]).Data())), nil
	case *types.Diag[float64]:
		d := r.Dims()
		return types.NewRectDiagRep(d.Cols(), d.Rows(), r.Diagonal()), nil
	case *types.Diag[complex128]:
		d := r.Dims()
		return types.NewRectDiagRep(d.Cols(), d.Rows(), r.Diagonal()), nil
	case *types.Perm:
		return r.Inverse(), nil
	case *types.Sparse[float64]:
		return types.NewSparseRep(r.Array().Transpose()), nil
	case *types.Sparse[complex128]:
		return types.NewSparseRep(r.Array().Transpose()), nil
	case *types.Sparse[bool]:
		return types.NewSparseRep(r.Array().Transpose()), nil
	}
	if a.Dims().IsScalar() {
		return a.Clone(), nil
	}
	return nil, types.UnaryNotImplemented(dispatch.OpTranspose.String(), a.Kind())
}

func conj64(v complex64) complex64 { return complex64(cmplx.Conj(complex128(v))) }

// conjugate conjugates complex elements and leaves real ones alone. It
// works on representations it owns.
func conjugate(a types.Representation) types.Representation {
	switch r := a.(type) {
	case *types.Matrix[complex128]:
		return types.NewMatrixRep(r.Kind(), array.Map(r.Array(), cmplx.Conj))
	case *types.Matrix[complex64]:
		return types.NewMatrixRep(r.Kind(), array.Map(r.Array(), conj64))
	case *types.Scalar[complex128]:
		return types.NewScalarRep(r.Kind(), cmplx.Conj(r.Value()))
	case *types.Scalar[complex64]:
		return types.NewScalarRep(r.Kind(), conj64(r.Value()))
	case *types.Diag[complex128]:
		d := r.Dims()
		diag := make([]complex128, len(r.Diagonal()))
		for i, v := range r.Diagonal() {
			diag[i] = cmplx.Conj(v)
		}
		return types.NewRectDiagRep(d.Rows(), d.Cols(), diag)
	case *types.Sparse[complex128]:
		return types.NewSparseRep(array.MapSparse(r.Array(), cmplx.Conj))
	}
	return a
}

func hermitian(a types.Representation) (types.Representation, error) {
	t, err := transpose(a)
	if err != nil {
		return nil, err
	}
	return conjugate(t), nil
}

// step returns the ++ (OpAdd) or -- (OpSub) entry. Full double matrices
// are updated in place; other kinds are recomputed, so logical and
// character operands become double.
func step(op dispatch.BinaryOp) dispatch.UnaryFn {
	fn := elementwise(op)
	d := 1.0
	if op == dispatch.OpSub {
		d = -1
	}
	return func(a types.Representation) (types.Representation, error) {
		if m, ok := a.(*types.Matrix[float64]); ok && m.Kind() == types.KindMatrix {
			data := m.Array().Data()
			for i := range data {
				data[i] += d
			}
			return m, nil
		}
		return fn(a, unitOf(a.Kind()))
	}
}
