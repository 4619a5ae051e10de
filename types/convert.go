package types

import (
	"silo/array"
)

// ConvertKind converts r to the target kind, keeping its elements and
// shape. It serves the promotion, demotion and widening conversions
// registered with the dispatcher.
func ConvertKind(r Representation, target Kind) (Representation, error) {
	if r.Kind() == target {
		return r.Clone(), nil
	}
	switch target {
	case KindBool:
		return toScalar[bool](r, target)
	case KindScalar:
		return toScalar[float64](r, target)
	case KindComplex:
		return toScalar[complex128](r, target)
	case KindFloatScalar:
		return toScalar[float32](r, target)
	case KindFloatComplex:
		return toScalar[complex64](r, target)
	case KindInt8Scalar:
		return toScalar[int8](r, target)
	case KindInt16Scalar:
		return toScalar[int16](r, target)
	case KindInt32Scalar:
		return toScalar[int32](r, target)
	case KindInt64Scalar:
		return toScalar[int64](r, target)
	case KindUint8Scalar:
		return toScalar[uint8](r, target)
	case KindUint16Scalar:
		return toScalar[uint16](r, target)
	case KindUint32Scalar:
		return toScalar[uint32](r, target)
	case KindUint64Scalar:
		return toScalar[uint64](r, target)
	case KindBoolMatrix:
		return toMatrix[bool](r, target)
	case KindCharString:
		return toMatrix[uint16](r, target)
	case KindMatrix:
		return toMatrix[float64](r, target)
	case KindComplexMatrix:
		return toMatrix[complex128](r, target)
	case KindFloatMatrix:
		return toMatrix[float32](r, target)
	case KindFloatComplexMatrix:
		return toMatrix[complex64](r, target)
	case KindInt8Matrix:
		return toMatrix[int8](r, target)
	case KindInt16Matrix:
		return toMatrix[int16](r, target)
	case KindInt32Matrix:
		return toMatrix[int32](r, target)
	case KindInt64Matrix:
		return toMatrix[int64](r, target)
	case KindUint8Matrix:
		return toMatrix[uint8](r, target)
	case KindUint16Matrix:
		return toMatrix[uint16](r, target)
	case KindUint32Matrix:
		return toMatrix[uint32](r, target)
	case KindUint64Matrix:
		return toMatrix[uint64](r, target)
	case KindSparseMatrix:
		return toSparse[float64](r)
	case KindSparseComplexMatrix:
		return toSparse[complex128](r)
	case KindSparseBoolMatrix:
		return toSparse[bool](r)
	case KindStruct:
		if s, ok := AsStructArray(r); ok {
			return s, nil
		}
	case KindCell:
		if c, ok := r.(*Cell); ok {
			return c.Clone(), nil
		}
	}
	return nil, ConversionError(r.Kind(), target, nil)
}

func toScalar[T Elem](r Representation, target Kind) (Representation, error) {
	a, err := ElementsOf[T](r)
	if err != nil {
		return nil, ConversionError(r.Kind(), target, err)
	}
	if a.Numel() != 1 {
		return nil, ConversionError(r.Kind(), target, Errorf(NonconformantArguments, "%s value is not a scalar", a.Dims()))
	}
	return &Scalar[T]{kind: target, v: a.At(0)}, nil
}

func toMatrix[T Elem](r Representation, target Kind) (Representation, error) {
	a, err := ElementsOf[T](r)
	if err != nil {
		return nil, ConversionError(r.Kind(), target, err)
	}
	if m, ok := r.(*Matrix[T]); ok && m.a == a {
		a = a.Clone()
	}
	return &Matrix[T]{kind: target, a: a}, nil
}

func toSparse[T float64 | complex128 | bool](r Representation) (Representation, error) {
	a, err := ElementsOf[T](r)
	if err != nil {
		return nil, ConversionError(r.Kind(), (&Sparse[T]{}).Kind(), err)
	}
	s, err := array.SparseFromDense(a)
	if err != nil {
		return nil, ConversionError(r.Kind(), (&Sparse[T]{}).Kind(), FromArrayError(err))
	}
	return &Sparse[T]{s: s}, nil
}

// EmptyLike returns a 0x0 array of the family a right-hand side belongs
// to, used when indexed assignment targets an undefined variable.
func EmptyLike(rhs Representation) (Representation, error) {
	switch r := rhs.(type) {
	case *Cell:
		return NewCellRep(array.New[Value](Dims{0, 0})), nil
	case *ScalarStruct:
		return NewStructArrayRep(Dims{0, 0}, r.keys), nil
	case *StructArray:
		return NewStructArrayRep(Dims{0, 0}, r.keys), nil
	case *Sparse[float64], *Sparse[complex128], *Sparse[bool]:
		return ConvertKind(&Matrix[float64]{kind: KindMatrix, a: array.New[float64](Dims{0, 0})}, rhs.Kind())
	case *Null:
		return r.Storable(), nil
	}
	switch k := rhs.Kind(); {
	case rhs.Kind() == KindRange || rhs.Kind() == KindDiagMatrix || rhs.Kind() == KindPermMatrix:
		return ConvertKind(&Matrix[float64]{kind: KindMatrix, a: array.New[float64](Dims{0, 0})}, KindMatrix)
	case rhs.Kind() == KindComplexDiagMatrix:
		return ConvertKind(&Matrix[float64]{kind: KindMatrix, a: array.New[float64](Dims{0, 0})}, KindComplexMatrix)
	case IsNumericKind(k) || k == KindCharString || k == KindBool || k == KindBoolMatrix:
		return ConvertKind(&Matrix[float64]{kind: KindMatrix, a: array.New[float64](Dims{0, 0})}, MatrixKind(k))
	}
	return nil, Errorf(OperatorNotImplemented, "operator = undefined for '<undefined>' by '%s' operations", rhs.Kind())
}
