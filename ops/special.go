package ops

import (
	"fmt"
	"math"

	"silo/array"
	"silo/dispatch"
	"silo/linalg"
	"silo/trace"
	"silo/types"
)

func finite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// rangeEntry keeps a range lazy under an affine update by a double scalar.
// f returns false when the update would not reproduce the elementwise
// result (zero or non-finite scalars), and the full kernel runs instead.
func rangeEntry(op dispatch.BinaryOp, rangeLeft bool, f func(base, inc, x float64) (float64, float64, bool)) dispatch.BinaryFn {
	full := elementwise(op)
	return func(a, b types.Representation) (types.Representation, error) {
		g, s := a, b
		if !rangeLeft {
			g, s = b, a
		}
		rg, ok := g.(*types.Range)
		sc, ok2 := s.(*types.Scalar[float64])
		if !ok || !ok2 {
			return full(a, b)
		}
		if base, inc, ok := f(rg.Base(), rg.Increment(), sc.Value()); ok {
			return types.NewRangeRep(base, inc, rg.Len()), nil
		}
		return full(a, b)
	}
}

func installRange(b *dispatch.Builder) {
	r, s := types.KindRange, types.KindScalar
	shift := func(base, inc, x float64) (float64, float64, bool) { return base + x, inc, finite(x) }
	scale := func(base, inc, x float64) (float64, float64, bool) { return base * x, inc * x, finite(x) && x != 0 }

	b.Binary(dispatch.OpAdd, r, s, rangeEntry(dispatch.OpAdd, true, shift))
	b.Binary(dispatch.OpAdd, s, r, rangeEntry(dispatch.OpAdd, false, shift))
	b.Binary(dispatch.OpSub, r, s, rangeEntry(dispatch.OpSub, true, func(base, inc, x float64) (float64, float64, bool) {
		return base - x, inc, finite(x)
	}))
	b.Binary(dispatch.OpSub, s, r, rangeEntry(dispatch.OpSub, false, func(base, inc, x float64) (float64, float64, bool) {
		return x - base, -inc, finite(x)
	}))
	for _, op := range []dispatch.BinaryOp{dispatch.OpMul, dispatch.OpElMul} {
		b.Binary(op, r, s, rangeEntry(op, true, scale))
		b.Binary(op, s, r, rangeEntry(op, false, scale))
	}
	for _, op := range []dispatch.BinaryOp{dispatch.OpDiv, dispatch.OpElDiv} {
		b.Binary(op, r, s, rangeEntry(op, true, func(base, inc, x float64) (float64, float64, bool) {
			return base / x, inc / x, finite(x) && x != 0
		}))
	}

	b.Unary(dispatch.OpUMinus, r, func(a types.Representation) (types.Representation, error) {
		g := a.(*types.Range)
		return types.NewRangeRep(-g.Base(), -g.Increment(), g.Len()), nil
	})
	b.Unary(dispatch.OpUPlus, r, func(a types.Representation) (types.Representation, error) {
		return a.Clone(), nil
	})
	b.Unary(dispatch.OpTranspose, r, transpose)
	b.Unary(dispatch.OpHermitian, r, transpose)
}

func ipow[T float64 | complex128](x T, p int) T {
	if p < 0 {
		x = 1 / x
		p = -p
	}
	r := T(1)
	for p > 0 {
		if p&1 == 1 {
			r *= x
		}
		x *= x
		p >>= 1
	}
	return r
}

func diagAt[T float64 | complex128](d []T, i int) T {
	if i < len(d) {
		return d[i]
	}
	return 0
}

// diagScale multiplies or divides the diagonal by a scalar. Scalars that
// would turn the off-diagonal zeros into NaN take the full kernel.
func diagScale[T float64 | complex128](op dispatch.BinaryOp, diagLeft bool) dispatch.BinaryFn {
	full := elementwise(op)
	divide := op == dispatch.OpDiv || op == dispatch.OpElDiv
	return func(a, b types.Representation) (types.Representation, error) {
		g, s := a, b
		if !diagLeft {
			g, s = b, a
		}
		dg := g.(*types.Diag[T])
		xs, err := types.ElementsOf[T](s)
		if err != nil {
			return nil, err
		}
		x := xs.At(0)
		xc := complex128(0)
		switch v := any(x).(type) {
		case float64:
			xc = complex(v, 0)
		case complex128:
			xc = v
		}
		if !finite(real(xc)) || !finite(imag(xc)) || (divide && x == 0) {
			return full(a, b)
		}
		out := make([]T, len(dg.Diagonal()))
		for i, v := range dg.Diagonal() {
			if divide {
				out[i] = v / x
			} else {
				out[i] = v * x
			}
		}
		d := dg.Dims()
		return types.NewRectDiagRep(d.Rows(), d.Cols(), out), nil
	}
}

func diagSum[T float64 | complex128](op dispatch.BinaryOp) dispatch.BinaryFn {
	return func(a, b types.Representation) (types.Representation, error) {
		x, y := a.(*types.Diag[T]), b.(*types.Diag[T])
		if !x.Dims().Equal(y.Dims()) {
			return nil, kernelError(&array.ConformError{Op: op.String(), A: x.Dims(), B: y.Dims()})
		}
		out := make([]T, len(x.Diagonal()))
		for i := range out {
			if op == dispatch.OpSub {
				out[i] = x.Diagonal()[i] - y.Diagonal()[i]
			} else {
				out[i] = x.Diagonal()[i] + y.Diagonal()[i]
			}
		}
		d := x.Dims()
		return types.NewRectDiagRep(d.Rows(), d.Cols(), out), nil
	}
}

func diagProduct[T float64 | complex128](a, b types.Representation) (types.Representation, error) {
	x, y := a.(*types.Diag[T]), b.(*types.Diag[T])
	dx, dy := x.Dims(), y.Dims()
	if dx.Cols() != dy.Rows() {
		return nil, kernelError(&array.ConformError{Op: "*", A: dx, B: dy})
	}
	n := min(dx.Rows(), dy.Cols())
	out := make([]T, n)
	for i := range out {
		out[i] = diagAt(x.Diagonal(), i) * diagAt(y.Diagonal(), i)
	}
	return types.NewRectDiagRep(dx.Rows(), dy.Cols(), out), nil
}

func diagPower[T float64 | complex128](a, b types.Representation) (types.Representation, error) {
	g := a.(*types.Diag[T])
	p, ok := integerExponent(b)
	d := g.Dims()
	if !ok || d.Rows() != d.Cols() {
		return matrixOp(dispatch.OpPow)(a, b)
	}
	out := make([]T, len(g.Diagonal()))
	for i, v := range g.Diagonal() {
		if p < 0 && v == 0 {
			return matrixOp(dispatch.OpPow)(a, b)
		}
		out[i] = ipow(v, p)
	}
	return types.NewDiagRep(out), nil
}

func diagNegate[T float64 | complex128](a types.Representation) (types.Representation, error) {
	g := a.(*types.Diag[T])
	out := make([]T, len(g.Diagonal()))
	for i, v := range g.Diagonal() {
		out[i] = -v
	}
	d := g.Dims()
	return types.NewRectDiagRep(d.Rows(), d.Cols(), out), nil
}

func installDiagOf[T float64 | complex128](b *dispatch.Builder, k types.Kind, scalars []types.Kind) {
	for _, s := range scalars {
		for _, op := range []dispatch.BinaryOp{dispatch.OpMul, dispatch.OpElMul} {
			b.Binary(op, k, s, diagScale[T](op, true))
			b.Binary(op, s, k, diagScale[T](op, false))
		}
		for _, op := range []dispatch.BinaryOp{dispatch.OpDiv, dispatch.OpElDiv} {
			b.Binary(op, k, s, diagScale[T](op, true))
		}
		b.Binary(dispatch.OpPow, k, s, diagPower[T])
	}
	b.Binary(dispatch.OpAdd, k, k, diagSum[T](dispatch.OpAdd))
	b.Binary(dispatch.OpSub, k, k, diagSum[T](dispatch.OpSub))
	b.Binary(dispatch.OpMul, k, k, diagProduct[T])
	b.Unary(dispatch.OpUMinus, k, diagNegate[T])
	b.Unary(dispatch.OpUPlus, k, func(a types.Representation) (types.Representation, error) {
		return a.Clone(), nil
	})
	b.Unary(dispatch.OpTranspose, k, transpose)
	b.Unary(dispatch.OpHermitian, k, hermitian)
}

func installDiag(b *dispatch.Builder) {
	installDiagOf[float64](b, types.KindDiagMatrix, []types.Kind{types.KindScalar})
	installDiagOf[complex128](b, types.KindComplexDiagMatrix, []types.Kind{types.KindScalar, types.KindComplex})
}

// permFullKinds are the full matrices a permutation reorders directly.
var permFullKinds = []types.Kind{
	types.KindMatrix, types.KindComplexMatrix, types.KindFloatMatrix, types.KindFloatComplexMatrix,
}

// permute selects rows (rows=true) or columns of m in the order given.
func permute(m types.Representation, pos []int, rows bool, op string, pdims array.Dims) (types.Representation, error) {
	d := m.Dims()
	ext := d.Cols()
	if rows {
		ext = d.Rows()
	}
	if d.Ndims() != 2 || ext != len(pos) {
		a, b := pdims, d
		if !rows {
			a, b = d, pdims
		}
		return nil, kernelError(&array.ConformError{Op: op, A: a, B: b})
	}
	ix, ok := m.(types.Indexable)
	if !ok {
		return nil, types.Mismatch("an indexable value", m.Kind())
	}
	sel := array.Positions(pos, array.Dims{1, len(pos)})
	if rows {
		return ix.Index([]array.Index{sel, array.Colon()})
	}
	return ix.Index([]array.Index{array.Colon(), sel})
}

func installPerm(b *dispatch.Builder) {
	p := types.KindPermMatrix
	b.Binary(dispatch.OpMul, p, p, func(a, c types.Representation) (types.Representation, error) {
		x, y := a.(*types.Perm), c.(*types.Perm)
		if len(x.Columns()) != len(y.Columns()) {
			return nil, kernelError(&array.ConformError{Op: "*", A: x.Dims(), B: y.Dims()})
		}
		out := make([]int, len(x.Columns()))
		for i, j := range x.Columns() {
			out[i] = y.Columns()[j]
		}
		return types.NewPermRep(out), nil
	})
	b.Binary(dispatch.OpPow, p, types.KindScalar, func(a, c types.Representation) (types.Representation, error) {
		e, ok := integerExponent(c)
		if !ok {
			return matrixOp(dispatch.OpPow)(a, c)
		}
		base := a.(*types.Perm)
		if e < 0 {
			base, e = base.Inverse(), -e
		}
		out := make([]int, len(base.Columns()))
		for i := range out {
			out[i] = i
		}
		for ; e > 0; e-- {
			for i, j := range out {
				out[i] = base.Columns()[j]
			}
		}
		return types.NewPermRep(out), nil
	})
	for _, m := range permFullKinds {
		// P*M reorders the rows of M; M*P reorders its columns.
		b.Binary(dispatch.OpMul, p, m, func(a, c types.Representation) (types.Representation, error) {
			return permute(c, a.(*types.Perm).Columns(), true, "*", a.Dims())
		})
		b.Binary(dispatch.OpMul, m, p, func(a, c types.Representation) (types.Representation, error) {
			return permute(a, c.(*types.Perm).Inverse().Columns(), false, "*", c.Dims())
		})
		b.Binary(dispatch.OpLdiv, p, m, func(a, c types.Representation) (types.Representation, error) {
			return permute(c, a.(*types.Perm).Inverse().Columns(), true, "\\", a.Dims())
		})
		b.Binary(dispatch.OpDiv, m, p, func(a, c types.Representation) (types.Representation, error) {
			return permute(a, c.(*types.Perm).Columns(), false, "/", c.Dims())
		})
	}
	b.Unary(dispatch.OpTranspose, p, transpose)
	b.Unary(dispatch.OpHermitian, p, transpose)
}

func sparseOf[T float64 | complex128 | bool](d *array.Dense[T]) (types.Representation, error) {
	s, err := array.SparseFromDense(d)
	if err != nil {
		return nil, kernelError(err)
	}
	return types.NewSparseRep(s), nil
}

// compress stores a full double, complex or logical result as sparse.
func compress(r types.Representation) (types.Representation, error) {
	switch m := r.(type) {
	case *types.Matrix[float64]:
		return sparseOf(m.Array())
	case *types.Matrix[complex128]:
		return sparseOf(m.Array())
	case *types.Matrix[bool]:
		return sparseOf(m.Array())
	}
	return r, nil
}

func sparseResult(fn dispatch.BinaryFn) dispatch.BinaryFn {
	return func(a, b types.Representation) (types.Representation, error) {
		out, err := fn(a, b)
		if err != nil {
			return nil, err
		}
		return compress(out)
	}
}

func sparseUnary(fn dispatch.UnaryFn) dispatch.UnaryFn {
	return func(a types.Representation) (types.Representation, error) {
		out, err := fn(a)
		if err != nil {
			return nil, err
		}
		return compress(out)
	}
}

// sparsePower raises a sparse matrix to an integer power, choosing
// between repeated multiplication and repeated squaring from the bands.
func sparsePower(bands linalg.Bands) dispatch.BinaryFn {
	return func(a, b types.Representation) (types.Representation, error) {
		d := a.Dims()
		if d.Rows() != d.Cols() {
			return nil, types.Errorf(types.NonconformantArguments, "%s", mpowerShape)
		}
		p, ok := integerExponent(b)
		if !ok {
			return nil, types.Errorf(types.OperatorNotImplemented, "operator ^: sparse matrix raised to a non-integer power is not supported")
		}
		switch s := a.(type) {
		case *types.Sparse[float64]:
			out, strategy, err := linalg.SparsePower(s.Array(), p, bands)
			if err != nil {
				return nil, kernelError(err)
			}
			trace.Kernel("^", fmt.Sprintf("sparse power %d by %s", p, strategy))
			return types.NewSparseRep(out), nil
		case *types.Sparse[complex128]:
			out, err := linalg.PowerComplex(s.Array().Dense(), p)
			if err != nil {
				return nil, kernelError(err)
			}
			return sparseOf(out)
		}
		return nil, types.NotImplemented("^", a.Kind(), b.Kind())
	}
}

func sparseProduct(a, b types.Representation) (types.Representation, error) {
	switch x := a.(type) {
	case *types.Sparse[float64]:
		out, err := array.SparseMul(x.Array(), b.(*types.Sparse[float64]).Array())
		if err != nil {
			return nil, kernelError(err)
		}
		return types.NewSparseRep(out), nil
	case *types.Sparse[complex128]:
		out, err := array.SparseMul(x.Array(), b.(*types.Sparse[complex128]).Array())
		if err != nil {
			return nil, kernelError(err)
		}
		return types.NewSparseRep(out), nil
	}
	return nil, types.NotImplemented("*", a.Kind(), b.Kind())
}

func installSparse(b *dispatch.Builder, bands linalg.Bands) {
	sparse := []types.Kind{types.KindSparseMatrix, types.KindSparseComplexMatrix}
	scalars := []types.Kind{types.KindScalar, types.KindComplex}

	b.Binary(dispatch.OpMul, types.KindSparseMatrix, types.KindSparseMatrix, sparseProduct)
	b.Binary(dispatch.OpMul, types.KindSparseComplexMatrix, types.KindSparseComplexMatrix, sparseProduct)
	for _, op := range []dispatch.BinaryOp{dispatch.OpAdd, dispatch.OpSub, dispatch.OpElMul} {
		fn := sparseResult(elementwise(op))
		pairs(sparse, sparse, func(x, y types.Kind) { b.Binary(op, x, y, fn) })
	}
	// Scaling keeps the sparsity pattern; a shift fills it in.
	for _, op := range []dispatch.BinaryOp{dispatch.OpMul, dispatch.OpElMul} {
		fn := sparseResult(elementwise(op))
		pairs(sparse, scalars, func(x, y types.Kind) { b.Binary(op, x, y, fn) })
		pairs(scalars, sparse, func(x, y types.Kind) { b.Binary(op, x, y, fn) })
	}
	for _, op := range []dispatch.BinaryOp{dispatch.OpDiv, dispatch.OpElDiv} {
		fn := sparseResult(elementwise(op))
		pairs(sparse, scalars, func(x, y types.Kind) { b.Binary(op, x, y, fn) })
	}
	for _, op := range []dispatch.BinaryOp{dispatch.OpAdd, dispatch.OpSub} {
		fn := elementwise(op)
		pairs(sparse, scalars, func(x, y types.Kind) { b.Binary(op, x, y, fn) })
		pairs(scalars, sparse, func(x, y types.Kind) { b.Binary(op, x, y, fn) })
	}
	pow := sparsePower(bands)
	for _, k := range sparse {
		b.Binary(dispatch.OpPow, k, types.KindScalar, pow)
		b.Unary(dispatch.OpUMinus, k, sparseUnary(uminus))
		b.Unary(dispatch.OpUPlus, k, func(a types.Representation) (types.Representation, error) {
			return a.Clone(), nil
		})
	}

	all := append(sparse, types.KindSparseBoolMatrix)
	for _, k := range all {
		b.Unary(dispatch.OpNot, k, sparseUnary(not))
		b.Unary(dispatch.OpTranspose, k, transpose)
		b.Unary(dispatch.OpHermitian, k, hermitian)
	}
	for _, op := range []dispatch.BinaryOp{dispatch.OpElAnd, dispatch.OpElOr} {
		fn := sparseResult(logical(op))
		pairs(all, all, func(x, y types.Kind) { b.Binary(op, x, y, fn) })
	}
}
