package ops

import (
	"math/cmplx"

	"golang.org/x/exp/constraints"

	"silo/array"
	"silo/dispatch"
	"silo/types"
)

var compareOps = []dispatch.BinaryOp{
	dispatch.OpLt, dispatch.OpLe, dispatch.OpEq, dispatch.OpGe, dispatch.OpGt, dispatch.OpNe,
}

// installCompare registers the relational operators. Character data is
// only compared with character data; there is no route between char and
// numeric or logical kinds.
func installCompare(b *dispatch.Builder) {
	for _, op := range compareOps {
		fn := comparison(op)
		pairs(floatKinds, floatKinds, func(x, y types.Kind) {
			b.Binary(op, x, y, fn)
		})
		for _, f := range intFamilies() {
			family := f[:]
			pairs(family, family, func(x, y types.Kind) {
				b.Binary(op, x, y, fn)
			})
		}
		b.Binary(op, types.KindCharString, types.KindCharString, fn)
	}
}

func realTest(op dispatch.BinaryOp) func(x, y float64) bool { return orderTest[float64](op) }

func orderTest[T constraints.Ordered](op dispatch.BinaryOp) func(x, y T) bool {
	switch op {
	case dispatch.OpLt:
		return func(x, y T) bool { return x < y }
	case dispatch.OpLe:
		return func(x, y T) bool { return x <= y }
	case dispatch.OpEq:
		return func(x, y T) bool { return x == y }
	case dispatch.OpGe:
		return func(x, y T) bool { return x >= y }
	case dispatch.OpGt:
		return func(x, y T) bool { return x > y }
	}
	return func(x, y T) bool { return x != y }
}

// exactComparison compares two operands of one integer class without
// converting them to double.
func exactComparison[T int64 | uint64](op dispatch.BinaryOp, a, b types.Representation) (types.Representation, error) {
	x, err := types.ElementsOf[T](a)
	if err != nil {
		return nil, err
	}
	y, err := types.ElementsOf[T](b)
	if err != nil {
		return nil, err
	}
	out, err := array.Broadcast(op.String(), x, y, orderTest[T](op))
	if err != nil {
		return nil, kernelError(err)
	}
	return boolResult(out), nil
}

// complexTest orders complex numbers by magnitude, then by phase angle.
func complexTest(op dispatch.BinaryOp) func(x, y complex128) bool {
	switch op {
	case dispatch.OpEq:
		return func(x, y complex128) bool { return x == y }
	case dispatch.OpNe:
		return func(x, y complex128) bool { return x != y }
	}
	less := realTest(op)
	eq := realTest(dispatch.OpEq)
	return func(x, y complex128) bool {
		ax, ay := cmplx.Abs(x), cmplx.Abs(y)
		if !eq(ax, ay) {
			return less(ax, ay)
		}
		return less(cmplx.Phase(x), cmplx.Phase(y))
	}
}

func comparison(op dispatch.BinaryOp) dispatch.BinaryFn {
	name := op.String()
	rt, ct := realTest(op), complexTest(op)
	return func(a, b types.Representation) (types.Representation, error) {
		if wideOperands(a, b) {
			if classOf(a.Kind()).base == types.KindInt64Matrix {
				return exactComparison[int64](op, a, b)
			}
			return exactComparison[uint64](op, a, b)
		}
		if types.IsComplexKind(a.Kind()) || types.IsComplexKind(b.Kind()) {
			x, y, err := complexOperands(a, b)
			if err != nil {
				return nil, err
			}
			out, err := array.Broadcast(name, x, y, ct)
			if err != nil {
				return nil, kernelError(err)
			}
			return boolResult(out), nil
		}
		x, y, err := realOperands(a, b)
		if err != nil {
			return nil, err
		}
		out, err := array.Broadcast(name, x, y, rt)
		if err != nil {
			return nil, kernelError(err)
		}
		return boolResult(out), nil
	}
}

// installLogical registers elementwise & and |.
func installLogical(b *dispatch.Builder) {
	for _, op := range []dispatch.BinaryOp{dispatch.OpElAnd, dispatch.OpElOr} {
		fn := logical(op)
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

func logical(op dispatch.BinaryOp) dispatch.BinaryFn {
	name := op.String()
	f := func(x, y bool) bool { return x && y }
	if op == dispatch.OpElOr {
		f = func(x, y bool) bool { return x || y }
	}
	return func(a, b types.Representation) (types.Representation, error) {
		x, err := truth(a)
		if err != nil {
			return nil, err
		}
		y, err := truth(b)
		if err != nil {
			return nil, err
		}
		out, err := array.Broadcast(name, x, y, f)
		if err != nil {
			return nil, kernelError(err)
		}
		return boolResult(out), nil
	}
}
