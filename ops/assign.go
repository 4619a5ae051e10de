package ops

import (
	"silo/array"
	"silo/dispatch"
	"silo/types"
)

// assignTarget is the kind an array must have to hold both its own
// elements and rhs. An integer class absorbs everything except complex
// data; otherwise complex and single precision are sticky. Char arrays
// keep their class for char and real double or single rhs, whose values
// become character codes; logical arrays only for logical rhs.
func assignTarget(lhs, rhs types.Kind) (types.Kind, bool) {
	cl, cr := classOf(lhs), classOf(rhs)
	switch {
	case isIntBase(cl.base):
		return cl.base, !cr.complex
	case isIntBase(cr.base):
		return cr.base, !cl.complex
	}
	c := numClass{types.KindMatrix, cl.complex || cr.complex}
	switch {
	case cl.base == cr.base && (cl.base == types.KindBoolMatrix || cl.base == types.KindCharString):
		c.base = cl.base
	case cl.base == types.KindCharString && !cr.complex && (cr.base == types.KindMatrix || cr.base == types.KindFloatMatrix):
		c.base = types.KindCharString
	case cl.base == types.KindFloatMatrix || cr.base == types.KindFloatMatrix:
		c.base = types.KindFloatMatrix
	}
	return c.matrixKind(), true
}

var sparseFor = map[types.Kind]types.Kind{
	types.KindMatrix:        types.KindSparseMatrix,
	types.KindComplexMatrix: types.KindSparseComplexMatrix,
	types.KindBoolMatrix:    types.KindSparseBoolMatrix,
}

func assignDense[T types.Elem](lhs types.Representation, idx []array.Index, rhs types.Representation) (types.Representation, error) {
	m, ok := lhs.(*types.Matrix[T])
	if !ok {
		return nil, types.Mismatch("a full array", lhs.Kind())
	}
	src, err := types.ElementsOf[T](rhs)
	if err != nil {
		return nil, err
	}
	if err := m.AssignArray(idx, src); err != nil {
		return nil, err
	}
	return m, nil
}

func assignSparse[T float64 | complex128 | bool](lhs types.Representation, idx []array.Index, rhs types.Representation) (types.Representation, error) {
	m, ok := lhs.(*types.Sparse[T])
	if !ok {
		return nil, types.Mismatch("a sparse array", lhs.Kind())
	}
	src, err := types.ElementsOf[T](rhs)
	if err != nil {
		return nil, err
	}
	if err := m.AssignArray(idx, src); err != nil {
		return nil, err
	}
	return m, nil
}

// assignInto returns the entry storing into an array of kind k.
func assignInto(k types.Kind) dispatch.AssignFn {
	switch k {
	case types.KindMatrix:
		return assignDense[float64]
	case types.KindComplexMatrix:
		return assignDense[complex128]
	case types.KindFloatMatrix:
		return assignDense[float32]
	case types.KindFloatComplexMatrix:
		return assignDense[complex64]
	case types.KindBoolMatrix:
		return assignDense[bool]
	case types.KindCharString, types.KindUint16Matrix:
		return assignDense[uint16]
	case types.KindInt8Matrix:
		return assignDense[int8]
	case types.KindInt16Matrix:
		return assignDense[int16]
	case types.KindInt32Matrix:
		return assignDense[int32]
	case types.KindInt64Matrix:
		return assignDense[int64]
	case types.KindUint8Matrix:
		return assignDense[uint8]
	case types.KindUint32Matrix:
		return assignDense[uint32]
	case types.KindUint64Matrix:
		return assignDense[uint64]
	case types.KindSparseMatrix:
		return assignSparse[float64]
	case types.KindSparseComplexMatrix:
		return assignSparse[complex128]
	case types.KindSparseBoolMatrix:
		return assignSparse[bool]
	}
	panic("ops: no assignment entry for " + k.String())
}

func widen(to types.Kind) dispatch.ConvertFn {
	return func(r types.Representation) (types.Representation, error) {
		return types.ConvertKind(r, to)
	}
}

func assignCell(lhs types.Representation, idx []array.Index, rhs types.Representation) (types.Representation, error) {
	c := lhs.(*types.Cell)
	src, release := asCell(rhs)
	defer release()
	if err := c.AssignCell(idx, src); err != nil {
		return nil, err
	}
	return c, nil
}

func assignStruct(lhs types.Representation, idx []array.Index, rhs types.Representation) (types.Representation, error) {
	s := lhs.(*types.StructArray)
	src, ok := types.AsStructArray(rhs)
	if !ok {
		return nil, types.Mismatch("a struct", rhs.Kind())
	}
	if err := s.AssignStruct(idx, src); err != nil {
		return nil, err
	}
	return s, nil
}

func installAssign(b *dispatch.Builder) {
	sparse := []types.Kind{types.KindSparseMatrix, types.KindSparseComplexMatrix, types.KindSparseBoolMatrix}
	special := []types.Kind{types.KindRange, types.KindDiagMatrix, types.KindComplexDiagMatrix, types.KindPermMatrix}

	rhsKinds := append(append(append([]types.Kind(nil), catKinds...), special...), sparse...)
	lhsKinds := append(append([]types.Kind(nil), rhsKinds...), types.KindNullMatrix, types.KindNullString)

	for _, lhs := range lhsKinds {
		for _, rhs := range rhsKinds {
			t, ok := assignTarget(lhs, rhs)
			if !ok {
				continue
			}
			if types.IsSparseKind(lhs) {
				if t, ok = sparseFor[t]; !ok {
					continue
				}
			}
			if t == lhs {
				b.Assign(lhs, rhs, assignInto(lhs))
				continue
			}
			// Scalars, lazy forms and narrower classes are widened first.
			b.PrefAssignConv(lhs, rhs, t)
			b.Widening(lhs, t, widen(t))
		}
	}

	for _, k := range cellPartners() {
		b.Assign(types.KindCell, k, assignCell)
	}
	b.Assign(types.KindCell, types.KindCell, assignCell)

	b.Assign(types.KindStruct, types.KindStruct, assignStruct)
	b.Assign(types.KindStruct, types.KindScalarStruct, assignStruct)
	for _, rhs := range []types.Kind{types.KindStruct, types.KindScalarStruct} {
		b.PrefAssignConv(types.KindScalarStruct, rhs, types.KindStruct)
	}
	b.Widening(types.KindScalarStruct, types.KindStruct, widen(types.KindStruct))
}
