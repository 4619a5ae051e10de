package engine

import (
	"silo/array"
	"silo/dispatch"
	"silo/types"
)

// Growth reports what an out-of-range indexed assignment into kind k
// does.
//
// The rules are not uniform across kinds and are kept that way:
//   - vectors of every fill kind grow along their orientation, padding
//     with the kind's fill element (see FillElement);
//   - a linear index past the end of a 2-D array that is not a vector
//     fails with IndexOutOfRange instead of reshaping, while two
//     subscripts past the end grow both dimensions;
//   - ranges, diagonal and permutation matrices first widen to a full
//     matrix and then follow the matrix rule, so a growing range
//     never stays lazy;
//   - scalars grow like 1x1 vectors into rows;
//   - function handles, objects and cs-lists never grow.
//
// Unifying these needs a product decision; tests pin each kind down.
func (e *Engine) Growth(k types.Kind) dispatch.Growth {
	info, ok := e.d.Registry().Type(k)
	if !ok {
		return dispatch.GrowNone
	}
	return info.Growth
}

// FillElement returns the element growth pads kind k with. ok is false
// for kinds that never grow.
func FillElement(k types.Kind) (types.Value, bool) {
	switch {
	case k == types.KindCell:
		return types.EmptyMatrix(), true
	case k == types.KindStruct || k == types.KindScalarStruct:
		return types.Wrap(types.NewStructArrayRep(types.Dims{1, 1}, nil)), true
	case k == types.KindCharString || k == types.KindNullString:
		return types.Wrap(types.CharArrayRep(array.Scalar[uint16](0))), true
	case types.IsBoolKind(k):
		return types.NewBool(false), true
	case types.IsComplexKind(k):
		return types.NewComplex(0), true
	case types.IsSingleKind(k):
		return types.NewFloat(0), true
	case types.IsIntegerKind(k):
		return fillInt(k), true
	case types.IsNumericKind(k) || k == types.KindNullMatrix:
		return types.NewScalar(0), true
	}
	return types.Value{}, false
}

func fillInt(k types.Kind) types.Value {
	switch types.MatrixKind(k) {
	case types.KindInt8Matrix:
		return types.NewInt[int8](0)
	case types.KindInt16Matrix:
		return types.NewInt[int16](0)
	case types.KindInt32Matrix:
		return types.NewInt[int32](0)
	case types.KindInt64Matrix:
		return types.NewInt[int64](0)
	case types.KindUint8Matrix:
		return types.NewInt[uint8](0)
	case types.KindUint16Matrix:
		return types.NewInt[uint16](0)
	case types.KindUint32Matrix:
		return types.NewInt[uint32](0)
	}
	return types.NewInt[uint64](0)
}
