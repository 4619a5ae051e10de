package ops

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"silo/array"
	"silo/dispatch"
	"silo/linalg"
	"silo/types"
)

// numClass is the storage class of a numeric operand or result: the full
// matrix kind of its real elements plus a complex flag.
type numClass struct {
	base    types.Kind
	complex bool
}

func classOf(k types.Kind) numClass {
	switch k {
	case types.KindComplex, types.KindComplexMatrix, types.KindComplexDiagMatrix, types.KindSparseComplexMatrix:
		return numClass{types.KindMatrix, true}
	case types.KindFloatComplex, types.KindFloatComplexMatrix:
		return numClass{types.KindFloatMatrix, true}
	case types.KindRange, types.KindDiagMatrix, types.KindPermMatrix, types.KindSparseMatrix, types.KindNullMatrix:
		return numClass{types.KindMatrix, false}
	case types.KindSparseBoolMatrix:
		return numClass{types.KindBoolMatrix, false}
	case types.KindNullString:
		return numClass{types.KindCharString, false}
	}
	return numClass{types.MatrixKind(k), false}
}

// matrixKind is the full kind that stores values of this class.
func (c numClass) matrixKind() types.Kind {
	if !c.complex {
		return c.base
	}
	if c.base == types.KindFloatMatrix {
		return types.KindFloatComplexMatrix
	}
	return types.KindComplexMatrix
}

func isIntBase(k types.Kind) bool { return types.IsIntegerKind(k) }

// arithClass is the class of an arithmetic result: an integer operand
// decides it, then single precision, and bool or char data compute as
// double.
func arithClass(a, b types.Kind) numClass {
	ca, cb := classOf(a), classOf(b)
	switch {
	case isIntBase(ca.base):
		return numClass{ca.base, false}
	case isIntBase(cb.base):
		return numClass{cb.base, false}
	}
	c := numClass{types.KindMatrix, ca.complex || cb.complex}
	if ca.base == types.KindFloatMatrix || cb.base == types.KindFloatMatrix {
		c.base = types.KindFloatMatrix
	}
	return c
}

// unaryClass is the class of a unary arithmetic result.
func unaryClass(k types.Kind) numClass {
	c := classOf(k)
	if c.base == types.KindBoolMatrix || c.base == types.KindCharString {
		c.base = types.KindMatrix
	}
	return c
}

func saturated[T constraints.Integer](k types.Kind, d *array.Dense[float64]) types.Representation {
	return types.NewMatrixRep(k, array.Map(d, types.Saturate[T]))
}

// storeReal converts a double result into the storage of kind k.
func storeReal(k types.Kind, d *array.Dense[float64]) types.Representation {
	switch k {
	case types.KindFloatMatrix:
		return types.NewMatrixRep(k, array.Map(d, func(v float64) float32 { return float32(v) }))
	case types.KindBoolMatrix:
		return types.NewMatrixRep(k, array.Map(d, func(v float64) bool { return v != 0 }))
	case types.KindCharString, types.KindUint16Matrix:
		return saturated[uint16](k, d)
	case types.KindInt8Matrix:
		return saturated[int8](k, d)
	case types.KindInt16Matrix:
		return saturated[int16](k, d)
	case types.KindInt32Matrix:
		return saturated[int32](k, d)
	case types.KindInt64Matrix:
		return saturated[int64](k, d)
	case types.KindUint8Matrix:
		return saturated[uint8](k, d)
	case types.KindUint32Matrix:
		return saturated[uint32](k, d)
	case types.KindUint64Matrix:
		return saturated[uint64](k, d)
	}
	return types.NewMatrixRep(types.KindMatrix, d)
}

// storeComplex converts a complex result into the storage of class c.
func storeComplex(c numClass, d *array.Dense[complex128]) types.Representation {
	if c.base == types.KindFloatMatrix {
		return types.NewMatrixRep(types.KindFloatComplexMatrix, array.Map(d, func(v complex128) complex64 { return complex64(v) }))
	}
	return types.NewMatrixRep(types.KindComplexMatrix, d)
}

func realOperands(a, b types.Representation) (*array.Dense[float64], *array.Dense[float64], error) {
	x, err := types.ElementsOf[float64](a)
	if err != nil {
		return nil, nil, err
	}
	y, err := types.ElementsOf[float64](b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func complexOperands(a, b types.Representation) (*array.Dense[complex128], *array.Dense[complex128], error) {
	x, err := types.ElementsOf[complex128](a)
	if err != nil {
		return nil, nil, err
	}
	y, err := types.ElementsOf[complex128](b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// kernelError classifies a failure from the array or linalg layer.
func kernelError(err error) error {
	if errors.Is(err, linalg.ErrSingular) {
		return types.Errorf(types.NonconformantArguments, "%v", err)
	}
	return types.FromArrayError(err)
}

func numel(r types.Representation) int { return r.Dims().Numel() }

type elemKernel struct {
	re func(x, y float64) float64
	cx func(x, y complex128) complex128
}

var elemKernels = map[dispatch.BinaryOp]elemKernel{
	dispatch.OpAdd: {
		func(x, y float64) float64 { return x + y },
		func(x, y complex128) complex128 { return x + y },
	},
	dispatch.OpSub: {
		func(x, y float64) float64 { return x - y },
		func(x, y complex128) complex128 { return x - y },
	},
	dispatch.OpElMul: {
		func(x, y float64) float64 { return x * y },
		func(x, y complex128) complex128 { return x * y },
	},
	dispatch.OpElDiv: {
		func(x, y float64) float64 { return x / y },
		func(x, y complex128) complex128 { return x / y },
	},
	dispatch.OpElLdiv: {
		func(x, y float64) float64 { return y / x },
		func(x, y complex128) complex128 { return y / x },
	},
	dispatch.OpElPow: {
		math.Pow,
		cmplx.Pow,
	},
}

// elemForm maps * and / to the elementwise operators they agree with
// when one operand is a scalar.
func elemForm(op dispatch.BinaryOp) dispatch.BinaryOp {
	switch op {
	case dispatch.OpMul:
		return dispatch.OpElMul
	case dispatch.OpDiv:
		return dispatch.OpElDiv
	}
	return op
}

// elementwise returns the broadcasting kernel for an elementwise
// arithmetic operator. * and / are accepted for entries where one side
// is a scalar.
func elementwise(op dispatch.BinaryOp) dispatch.BinaryFn {
	op = elemForm(op)
	k, ok := elemKernels[op]
	if !ok {
		panic("ops: no elementwise kernel for " + op.String())
	}
	name := op.String()
	return func(a, b types.Representation) (types.Representation, error) {
		if wideOperands(a, b) {
			return wideArith(op, name, a, b)
		}
		c := arithClass(a.Kind(), b.Kind())
		if c.complex {
			x, y, err := complexOperands(a, b)
			if err != nil {
				return nil, err
			}
			out, err := array.Broadcast(name, x, y, k.cx)
			if err != nil {
				return nil, kernelError(err)
			}
			return storeComplex(c, out), nil
		}
		x, y, err := realOperands(a, b)
		if err != nil {
			return nil, err
		}
		if op == dispatch.OpElPow && !isIntBase(c.base) {
			return realPower(name, c, x, y)
		}
		out, err := array.Broadcast(name, x, y, k.re)
		if err != nil {
			return nil, kernelError(err)
		}
		return storeReal(c.base, out), nil
	}
}

// realPower computes x.^y, switching to a complex result when a negative
// base meets a non-integer exponent.
func realPower(name string, c numClass, x, y *array.Dense[float64]) (types.Representation, error) {
	needComplex := false
	out, err := array.Broadcast(name, x, y, func(p, q float64) complex128 {
		if p < 0 && q != math.Trunc(q) {
			needComplex = true
			return cmplx.Pow(complex(p, 0), complex(q, 0))
		}
		return complex(math.Pow(p, q), 0)
	})
	if err != nil {
		return nil, kernelError(err)
	}
	if needComplex {
		c.complex = true
		return storeComplex(c, out), nil
	}
	return storeReal(c.base, array.Map(out, func(v complex128) float64 { return real(v) })), nil
}

// truth converts an operand to booleans for the logical operators. NaN
// has no truth value.
func truth(r types.Representation) (*array.Dense[bool], error) {
	if n, ok := r.(types.Numeric); ok {
		if d, ok := n.Elements().(*array.Dense[bool]); ok {
			return d, nil
		}
	}
	if types.IsComplexKind(r.Kind()) {
		d, err := types.ElementsOf[complex128](r)
		if err != nil {
			return nil, err
		}
		for _, v := range d.Data() {
			if cmplx.IsNaN(v) {
				return nil, types.Errorf(types.ConversionFailed, "logical: NaN can't be converted to logical value")
			}
		}
		return array.Map(d, func(v complex128) bool { return v != 0 }), nil
	}
	d, err := types.ElementsOf[float64](r)
	if err != nil {
		return nil, err
	}
	for _, v := range d.Data() {
		if math.IsNaN(v) {
			return nil, types.Errorf(types.ConversionFailed, "logical: NaN can't be converted to logical value")
		}
	}
	return array.Map(d, func(v float64) bool { return v != 0 }), nil
}

func boolResult(d *array.Dense[bool]) types.Representation {
	return types.NewMatrixRep(types.KindBoolMatrix, d)
}
