package ops

import (
	"silo/dispatch"
	"silo/types"
)

// elemOps are the operators computed element by element with broadcasting.
var elemOps = []dispatch.BinaryOp{
	dispatch.OpAdd, dispatch.OpSub,
	dispatch.OpElMul, dispatch.OpElDiv, dispatch.OpElLdiv, dispatch.OpElPow,
}

// numKinds take part in double, single and complex arithmetic directly.
var numKinds = append(append([]types.Kind(nil), arithKinds...), boolKinds...)

func installArith(b *dispatch.Builder) {
	for _, op := range elemOps {
		fn := elementwise(op)
		pairs(numKinds, numKinds, func(x, y types.Kind) {
			b.Binary(op, x, y, fn)
		})
	}
}

// installIntArith registers integer arithmetic within one integer class.
// Results saturate to the class range and round half away from zero.
// Mixed integer classes, and integers with double data, reach the double
// entries through promotion.
func installIntArith(b *dispatch.Builder) {
	for _, f := range intFamilies() {
		family := f[:]
		for _, op := range elemOps {
			fn := elementwise(op)
			pairs(family, family, func(x, y types.Kind) {
				b.Binary(op, x, y, fn)
			})
		}
	}
}
