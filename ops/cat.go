package ops

import (
	"silo/array"
	"silo/dispatch"
	"silo/types"
)

// catClass is the class of a concatenation: char wins, then the leftmost
// integer class, then single, then double. Logical results need two
// logical operands.
func catClass(a, b types.Kind) numClass {
	ca, cb := classOf(a), classOf(b)
	switch {
	case ca.base == types.KindCharString || cb.base == types.KindCharString:
		return numClass{types.KindCharString, false}
	case isIntBase(ca.base):
		return numClass{ca.base, false}
	case isIntBase(cb.base):
		return numClass{cb.base, false}
	case ca.base == types.KindBoolMatrix && cb.base == types.KindBoolMatrix:
		return numClass{types.KindBoolMatrix, false}
	}
	c := numClass{types.KindMatrix, ca.complex || cb.complex}
	if ca.base == types.KindFloatMatrix || cb.base == types.KindFloatMatrix {
		c.base = types.KindFloatMatrix
	}
	return c
}

func catTyped[T types.Elem](k types.Kind, dim int, a, b types.Representation) (types.Representation, error) {
	x, err := types.ElementsOf[T](a)
	if err != nil {
		return nil, err
	}
	y, err := types.ElementsOf[T](b)
	if err != nil {
		return nil, err
	}
	out, err := array.Cat(dim, x, y)
	if err != nil {
		return nil, kernelError(err)
	}
	return types.NewMatrixRep(k, out), nil
}

// catAs concatenates a and b into a full array of kind k.
func catAs(k types.Kind, dim int, a, b types.Representation) (types.Representation, error) {
	switch k {
	case types.KindComplexMatrix:
		return catTyped[complex128](k, dim, a, b)
	case types.KindFloatMatrix:
		return catTyped[float32](k, dim, a, b)
	case types.KindFloatComplexMatrix:
		return catTyped[complex64](k, dim, a, b)
	case types.KindBoolMatrix:
		return catTyped[bool](k, dim, a, b)
	case types.KindCharString, types.KindUint16Matrix:
		return catTyped[uint16](k, dim, a, b)
	case types.KindInt8Matrix:
		return catTyped[int8](k, dim, a, b)
	case types.KindInt16Matrix:
		return catTyped[int16](k, dim, a, b)
	case types.KindInt32Matrix:
		return catTyped[int32](k, dim, a, b)
	case types.KindInt64Matrix:
		return catTyped[int64](k, dim, a, b)
	case types.KindUint8Matrix:
		return catTyped[uint8](k, dim, a, b)
	case types.KindUint32Matrix:
		return catTyped[uint32](k, dim, a, b)
	case types.KindUint64Matrix:
		return catTyped[uint64](k, dim, a, b)
	}
	return catTyped[float64](types.KindMatrix, dim, a, b)
}

func catNumeric(dim int, a, b types.Representation) (types.Representation, error) {
	return catAs(catClass(a.Kind(), b.Kind()).matrixKind(), dim, a, b)
}

func catSparse(dim int, a, b types.Representation) (types.Representation, error) {
	out, err := catNumeric(dim, a, b)
	if err != nil {
		return nil, err
	}
	return compress(out)
}

func catCells(dim int, a, b *types.Cell) (types.Representation, error) {
	out, err := array.Cat(dim, a.Array(), b.Array())
	if err != nil {
		return nil, kernelError(err)
	}
	data := out.Data()
	for i := range data {
		data[i] = data[i].Copy()
	}
	return types.NewCellRep(out), nil
}

// asCell returns r as a cell, wrapping anything else in a 1x1 cell. The
// returned release function drops the wrapper's share.
func asCell(r types.Representation) (*types.Cell, func()) {
	if c, ok := r.(*types.Cell); ok {
		return c, func() {}
	}
	tmp := types.Wrap(r.Clone())
	return types.NewCellRep(array.Scalar(tmp)), tmp.Release
}

func catWithCell(dim int, a, b types.Representation) (types.Representation, error) {
	x, rx := asCell(a)
	defer rx()
	y, ry := asCell(b)
	defer ry()
	return catCells(dim, x, y)
}

func catStructs(dim int, a, b types.Representation) (types.Representation, error) {
	x, ok := types.AsStructArray(a)
	if !ok {
		return nil, types.Mismatch("a struct", a.Kind())
	}
	y, ok := types.AsStructArray(b)
	if !ok {
		return nil, types.Mismatch("a struct", b.Kind())
	}
	return types.CatStructs(dim, x, y)
}

// cellPartners are the kinds a cell concatenates with by wrapping.
func cellPartners() []types.Kind {
	var out []types.Kind
	for _, k := range types.AllKinds() {
		switch k {
		case types.KindUndefined, types.KindCell, types.KindCSList, types.KindNullMatrix, types.KindNullString:
			continue
		}
		out = append(out, k)
	}
	return out
}

func installCat(b *dispatch.Builder) {
	pairs(catKinds, catKinds, func(x, y types.Kind) { b.Cat(x, y, catNumeric) })

	sparse := []types.Kind{types.KindSparseMatrix, types.KindSparseComplexMatrix, types.KindSparseBoolMatrix}
	dense := []types.Kind{
		types.KindScalar, types.KindMatrix, types.KindComplex, types.KindComplexMatrix,
		types.KindBool, types.KindBoolMatrix,
	}
	pairs(sparse, sparse, func(x, y types.Kind) { b.Cat(x, y, catSparse) })
	pairs(sparse, dense, func(x, y types.Kind) { b.Cat(x, y, catSparse) })
	pairs(dense, sparse, func(x, y types.Kind) { b.Cat(x, y, catSparse) })

	b.Cat(types.KindCell, types.KindCell, func(dim int, x, y types.Representation) (types.Representation, error) {
		return catCells(dim, x.(*types.Cell), y.(*types.Cell))
	})
	for _, k := range cellPartners() {
		b.Cat(types.KindCell, k, catWithCell)
		b.Cat(k, types.KindCell, catWithCell)
	}

	structs := []types.Kind{types.KindStruct, types.KindScalarStruct}
	pairs(structs, structs, func(x, y types.Kind) { b.Cat(x, y, catStructs) })
}
