package ops

import (
	"math/big"

	"silo/array"
	"silo/dispatch"
	"silo/types"
)

// int64 and uint64 values do not fit in a float64 mantissa, so their
// arithmetic and comparisons run on the integers themselves. Results
// saturate like the narrower classes and divisions round half away from
// zero.

func isWideInt(k types.Kind) bool {
	b := classOf(k).base
	return b == types.KindInt64Matrix || b == types.KindUint64Matrix
}

// wideOperands reports whether a and b both hold the same 64-bit class.
func wideOperands(a, b types.Representation) bool {
	return isWideInt(a.Kind()) && classOf(a.Kind()).base == classOf(b.Kind()).base
}

func wideArith(op dispatch.BinaryOp, name string, a, b types.Representation) (types.Representation, error) {
	if classOf(a.Kind()).base == types.KindInt64Matrix {
		return wideKernel[int64](op, name, a, b)
	}
	return wideKernel[uint64](op, name, a, b)
}

func wideKernel[T int64 | uint64](op dispatch.BinaryOp, name string, a, b types.Representation) (types.Representation, error) {
	x, err := types.ElementsOf[T](a)
	if err != nil {
		return nil, err
	}
	y, err := types.ElementsOf[T](b)
	if err != nil {
		return nil, err
	}
	f := wideOp[T](op)
	out, err := array.Broadcast(name, x, y, func(p, q T) T {
		return f(bigOf(p), bigOf(q))
	})
	if err != nil {
		return nil, kernelError(err)
	}
	return types.NewMatrixRep(types.MatrixKindFor[T](), out), nil
}

func wideOp[T int64 | uint64](op dispatch.BinaryOp) func(x, y *big.Int) T {
	switch op {
	case dispatch.OpAdd:
		return func(x, y *big.Int) T { return clampBig[T](x.Add(x, y)) }
	case dispatch.OpSub:
		return func(x, y *big.Int) T { return clampBig[T](x.Sub(x, y)) }
	case dispatch.OpElMul:
		return func(x, y *big.Int) T { return clampBig[T](x.Mul(x, y)) }
	case dispatch.OpElDiv:
		return divRound[T]
	case dispatch.OpElLdiv:
		return func(x, y *big.Int) T { return divRound[T](y, x) }
	case dispatch.OpElPow:
		return powSaturate[T]
	}
	panic("ops: no integer kernel for " + op.String())
}

func bigOf[T int64 | uint64](v T) *big.Int {
	switch x := any(v).(type) {
	case int64:
		return big.NewInt(x)
	case uint64:
		return new(big.Int).SetUint64(x)
	}
	panic("unreachable")
}

func clampBig[T int64 | uint64](z *big.Int) T {
	lo, hi := types.IntLimits[T]()
	if z.Cmp(bigOf(hi)) >= 0 {
		return hi
	}
	if z.Cmp(bigOf(lo)) <= 0 {
		return lo
	}
	if z.Sign() < 0 {
		return T(z.Int64())
	}
	return T(z.Uint64())
}

// divRound divides n by d rounding half away from zero. n/0 saturates
// by the sign of n and 0/0 is 0.
func divRound[T int64 | uint64](n, d *big.Int) T {
	lo, hi := types.IntLimits[T]()
	if d.Sign() == 0 {
		switch n.Sign() {
		case 1:
			return hi
		case -1:
			return lo
		}
		return 0
	}
	q, r := new(big.Int).QuoRem(n, d, new(big.Int))
	r.Abs(r).Lsh(r, 1)
	if r.Cmp(new(big.Int).Abs(d)) >= 0 {
		if n.Sign()*d.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return clampBig[T](q)
}

// powSaturate raises x to the integer power y. Bases other than 0 and ±1
// overflow every 64-bit class well before an exponent of 64.
func powSaturate[T int64 | uint64](x, y *big.Int) T {
	lo, hi := types.IntLimits[T]()
	odd := y.Bit(0) == 1
	switch {
	case x.IsInt64() && x.Int64() == 1, y.Sign() == 0:
		return 1
	case x.IsInt64() && x.Int64() == -1:
		if odd {
			return clampBig[T](big.NewInt(-1))
		}
		return 1
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return hi
		}
		return 0
	case y.Sign() < 0:
		// |x| >= 2: only 1/x rounds away from zero, and only for |x| == 2.
		if y.IsInt64() && y.Int64() == -1 && x.CmpAbs(big.NewInt(2)) == 0 {
			return clampBig[T](big.NewInt(int64(x.Sign())))
		}
		return 0
	case y.Cmp(big.NewInt(64)) >= 0:
		if x.Sign() < 0 && odd {
			return lo
		}
		return hi
	}
	return clampBig[T](new(big.Int).Exp(x, y, nil))
}

// wideNegate negates a 64-bit integer operand exactly.
func wideNegate(a types.Representation) (types.Representation, error) {
	if classOf(a.Kind()).base == types.KindUint64Matrix {
		x, err := types.ElementsOf[uint64](a)
		if err != nil {
			return nil, err
		}
		return types.NewMatrixRep(types.KindUint64Matrix, array.Map(x, func(uint64) uint64 { return 0 })), nil
	}
	x, err := types.ElementsOf[int64](a)
	if err != nil {
		return nil, err
	}
	return types.NewMatrixRep(types.KindInt64Matrix, array.Map(x, func(v int64) int64 {
		return clampBig[int64](new(big.Int).Neg(big.NewInt(v)))
	})), nil
}

// unitOf is the scalar 1 in the class ++ and -- compute in for kind k.
func unitOf(k types.Kind) types.Representation {
	switch classOf(k).base {
	case types.KindInt64Matrix:
		return types.NewScalarRep(types.KindInt64Scalar, int64(1))
	case types.KindUint64Matrix:
		return types.NewScalarRep(types.KindUint64Scalar, uint64(1))
	}
	return types.NewScalarRep(types.KindScalar, 1.0)
}
