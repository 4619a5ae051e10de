package ops

import (
	"math"

	"silo/array"
	"silo/dispatch"
	"silo/linalg"
	"silo/types"
)

const mpowerShape = "for x^y, only square matrix arguments are permitted and one argument must be scalar.  Use .^ for elementwise power."

func installLinear(b *dispatch.Builder) {
	for _, op := range []dispatch.BinaryOp{dispatch.OpMul, dispatch.OpDiv, dispatch.OpLdiv, dispatch.OpPow} {
		fn := matrixOp(op)
		pairs(numKinds, numKinds, func(x, y types.Kind) {
			b.Binary(op, x, y, fn)
		})
		for _, f := range intFamilies() {
			family := f[:]
			pairs(family, family, func(x, y types.Kind) {
				b.Binary(op, x, y, fn)
			})
		}
	}
}

func isScalarRep(r types.Representation) bool { return r.Dims().IsScalar() }

// matrixOp returns the entry for a linear algebra operator. When one
// operand is a scalar the operator reduces to its elementwise form.
func matrixOp(op dispatch.BinaryOp) dispatch.BinaryFn {
	var elem dispatch.BinaryFn
	switch op {
	case dispatch.OpMul:
		elem = elementwise(dispatch.OpElMul)
	case dispatch.OpDiv:
		elem = elementwise(dispatch.OpElDiv)
	case dispatch.OpLdiv:
		elem = elementwise(dispatch.OpElLdiv)
	case dispatch.OpPow:
		elem = elementwise(dispatch.OpElPow)
	}
	return func(a, b types.Representation) (types.Representation, error) {
		as, bs := isScalarRep(a), isScalarRep(b)
		switch op {
		case dispatch.OpMul:
			if as || bs {
				return elem(a, b)
			}
		case dispatch.OpDiv:
			if bs {
				return elem(a, b)
			}
		case dispatch.OpLdiv:
			if as {
				return elem(a, b)
			}
		case dispatch.OpPow:
			if as && bs {
				return elem(a, b)
			}
		}
		c := arithClass(a.Kind(), b.Kind())
		if isIntBase(c.base) {
			return nil, types.NotImplemented(op.String(), a.Kind(), b.Kind())
		}
		if op == dispatch.OpPow {
			return matrixPower(c, a, b)
		}
		if c.complex {
			x, y, err := complexOperands(a, b)
			if err != nil {
				return nil, err
			}
			out, err := linearComplex(op, x, y)
			if err != nil {
				return nil, kernelError(err)
			}
			return storeComplex(c, out), nil
		}
		x, y, err := realOperands(a, b)
		if err != nil {
			return nil, err
		}
		out, err := linearReal(op, x, y)
		if err != nil {
			return nil, kernelError(err)
		}
		return storeReal(c.base, out), nil
	}
}

func linearReal(op dispatch.BinaryOp, x, y *array.Dense[float64]) (*array.Dense[float64], error) {
	switch op {
	case dispatch.OpMul:
		return linalg.Mul(x, y)
	case dispatch.OpLdiv:
		return linalg.Solve(x, y)
	}
	// x/y solves z*y = x, that is y.'*z.' = x.'.
	yt, err := y.Transpose()
	if err != nil {
		return nil, err
	}
	xt, err := x.Transpose()
	if err != nil {
		return nil, err
	}
	if yt.Dims().Rows() != xt.Dims().Rows() {
		return nil, &array.ConformError{Op: "/", A: x.Dims(), B: y.Dims()}
	}
	zt, err := linalg.Solve(yt, xt)
	if err != nil {
		return nil, err
	}
	return zt.Transpose()
}

func linearComplex(op dispatch.BinaryOp, x, y *array.Dense[complex128]) (*array.Dense[complex128], error) {
	switch op {
	case dispatch.OpMul:
		return linalg.MulGeneric(x, y)
	case dispatch.OpLdiv:
		return linalg.SolveComplex(x, y)
	}
	yt, err := y.Transpose()
	if err != nil {
		return nil, err
	}
	xt, err := x.Transpose()
	if err != nil {
		return nil, err
	}
	if yt.Dims().Rows() != xt.Dims().Rows() {
		return nil, &array.ConformError{Op: "/", A: x.Dims(), B: y.Dims()}
	}
	zt, err := linalg.SolveComplex(yt, xt)
	if err != nil {
		return nil, err
	}
	return zt.Transpose()
}

// integerExponent extracts an integral real exponent.
func integerExponent(r types.Representation) (int, bool) {
	if types.IsComplexKind(r.Kind()) {
		c, err := types.ElementsOf[complex128](r)
		if err != nil || imag(c.At(0)) != 0 {
			return 0, false
		}
	}
	e, err := types.ElementsOf[float64](r)
	if err != nil || e.Numel() != 1 {
		return 0, false
	}
	p := e.At(0)
	if p != math.Trunc(p) || math.Abs(p) > math.MaxInt32 {
		return 0, false
	}
	return int(p), true
}

func matrixPower(c numClass, a, b types.Representation) (types.Representation, error) {
	d := a.Dims()
	if !isScalarRep(b) || d.Ndims() != 2 || d.Rows() != d.Cols() {
		return nil, types.Errorf(types.NonconformantArguments, "%s", mpowerShape)
	}
	p, ok := integerExponent(b)
	if !ok {
		return nil, types.Errorf(types.OperatorNotImplemented, "operator ^: matrix raised to a non-integer power is not supported")
	}
	if c.complex {
		x, err := types.ElementsOf[complex128](a)
		if err != nil {
			return nil, err
		}
		out, err := linalg.PowerComplex(x, p)
		if err != nil {
			return nil, kernelError(err)
		}
		return storeComplex(c, out), nil
	}
	x, err := types.ElementsOf[float64](a)
	if err != nil {
		return nil, err
	}
	out, err := linalg.Power(x, p)
	if err != nil {
		return nil, kernelError(err)
	}
	return storeReal(c.base, out), nil
}
