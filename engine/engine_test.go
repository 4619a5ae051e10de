package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"silo/dispatch"
	"silo/ops"
	"silo/types"
)

func newEngine(eval dispatch.Evaluator) *Engine {
	return New(ops.NewRegistry(), eval)
}

func num(v float64) types.Value { return types.NewScalar(v) }

func reals(t *testing.T, v types.Value) []float64 {
	a, err := types.AsRealMatrix(v)
	require.NoError(t, err)
	return a.Data()
}

func errKind(err error) types.ErrorKind {
	k, _ := types.KindOf(err)
	return k
}

func structRow(t *testing.T, e *Engine, vals ...float64) types.Value {
	parts := make([]types.Value, len(vals))
	for i, v := range vals {
		parts[i] = types.NewStruct([]string{"a"}, []types.Value{num(v)})
	}
	s, err := e.CatOp(2, parts...)
	require.NoError(t, err)
	return s
}

func TestSubsasgnCopyOnWrite(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	x := types.NewMatrix(1, 3, []float64{3, 1, 4})
	y := x.Copy()
	test.Equal(2, x.ShareCount())
	test.True(x.SameRep(y))

	y, err := e.Subsasgn(y, []Step{Paren(num(2))}, num(7))
	test.NoError(err)
	test.Equal([]float64{3, 1, 4}, reals(t, x))
	test.Equal([]float64{3, 7, 4}, reals(t, y))
	test.Equal(1, x.ShareCount())
	test.Equal(1, y.ShareCount())
	test.False(x.SameRep(y))
}

func TestSubsasgnWritesInPlaceWhenExclusive(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	x := types.NewMatrix(1, 3, []float64{3, 1, 4})
	before := x.Rep()
	x, err := e.Subsasgn(x, []Step{Paren(num(3))}, num(5))
	test.NoError(err)
	test.True(before == x.Rep())
	test.Equal([]float64{3, 1, 5}, reals(t, x))
}

// Assigning at index 5 of a 1x3 row vector, per kind.
func TestGrowthPerKind(t *testing.T) {
	e := newEngine(nil)

	tests := []struct {
		name  string
		v     types.Value
		rhs   types.Value
		kind  types.Kind
		check func(test *require.Assertions, v types.Value)
	}{
		{"double", types.NewMatrix(1, 3, []float64{3, 1, 4}), num(9), types.KindMatrix,
			func(test *require.Assertions, v types.Value) {
				a, err := types.AsRealMatrix(v)
				test.NoError(err)
				test.Equal([]float64{3, 1, 4, 0, 9}, a.Data())
			}},
		{"range", types.NewRange(1, 1, 3), num(9), types.KindMatrix,
			func(test *require.Assertions, v types.Value) {
				a, err := types.AsRealMatrix(v)
				test.NoError(err)
				test.Equal([]float64{1, 2, 3, 0, 9}, a.Data())
			}},
		{"single", types.NewFloatMatrix(1, 3, []float32{3, 1, 4}), num(9), types.KindFloatMatrix,
			func(test *require.Assertions, v types.Value) {
				a, err := types.ElementsOf[float32](v.Rep())
				test.NoError(err)
				test.Equal([]float32{3, 1, 4, 0, 9}, a.Data())
			}},
		{"int8", types.NewIntMatrix[int8](1, 3, []int8{3, 1, 4}), types.NewInt[int8](9), types.KindInt8Matrix,
			func(test *require.Assertions, v types.Value) {
				a, err := types.ElementsOf[int8](v.Rep())
				test.NoError(err)
				test.Equal([]int8{3, 1, 4, 0, 9}, a.Data())
			}},
		{"complex", types.NewComplexMatrix(1, 3, []complex128{1i, 1, 4}), num(9), types.KindComplexMatrix,
			func(test *require.Assertions, v types.Value) {
				a, err := types.AsComplexMatrix(v)
				test.NoError(err)
				test.Equal([]complex128{1i, 1, 4, 0, 9}, a.Data())
			}},
		{"logical", types.NewBoolMatrix(1, 3, []bool{true, false, true}), types.NewBool(true), types.KindBoolMatrix,
			func(test *require.Assertions, v types.Value) {
				a, err := types.AsBoolMatrix(v)
				test.NoError(err)
				test.Equal([]bool{true, false, true, false, true}, a.Data())
			}},
		{"char", types.NewString("abc"), types.NewString("e"), types.KindCharString,
			func(test *require.Assertions, v types.Value) {
				s, err := types.AsString(v)
				test.NoError(err)
				test.Equal("abc\x00e", s)
			}},
		{"char with numeric rhs", types.NewString("abc"), num(65), types.KindCharString,
			func(test *require.Assertions, v types.Value) {
				s, err := types.AsString(v)
				test.NoError(err)
				test.Equal("abc\x00A", s)
			}},
		{"cell", types.NewCell(1, 3, []types.Value{num(1), num(2), num(3)}),
			types.NewCell(1, 1, []types.Value{num(9)}), types.KindCell,
			func(test *require.Assertions, v types.Value) {
				c, err := types.AsCell(v)
				test.NoError(err)
				gap := c.Values()[3]
				test.Equal(types.KindMatrix, gap.Kind())
				test.True(gap.Dims().IsZeroByZero())
			}},
		{"struct", structRow(t, e, 1, 2, 3), types.NewStruct([]string{"a"}, []types.Value{num(9)}), types.KindStruct,
			func(test *require.Assertions, v types.Value) {
				s, err := types.AsStruct(v)
				test.NoError(err)
				vals, ok := s.FieldValues("a")
				test.True(ok)
				test.True(vals[3].Dims().IsZeroByZero())
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test := require.New(t)
			out, err := e.Subsasgn(tt.v, []Step{Paren(num(5))}, tt.rhs)
			test.NoError(err)
			test.Equal(tt.kind, out.Kind())
			test.Equal(types.Dims{1, 5}, out.Dims())
			tt.check(test, out)

			// The gap holds the kind's documented fill element.
			fill, ok := FillElement(tt.kind)
			test.True(ok)
			if tt.kind == types.KindStruct {
				gap, err := e.Subsref(out, []Step{Paren(num(4))})
				test.NoError(err)
				rec, err := types.AsStruct(gap)
				test.NoError(err)
				vals, _ := rec.FieldValues("a")
				test.True(types.IsEqual(types.EmptyMatrix(), vals[0]))
				empty, err := types.AsStruct(fill)
				test.NoError(err)
				test.Empty(empty.Fields())
				return
			}
			step := Paren(num(4))
			if tt.kind == types.KindCell {
				step = Brace(num(4))
			}
			gap, err := e.Subsref(out, []Step{step})
			test.NoError(err)
			test.Equal(fill.ClassName(), gap.ClassName())
			test.True(types.IsEqual(fill, gap), "gap %s, fill %s", types.Format(gap), types.Format(fill))
		})
	}
}

func TestGrowthFailures(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	m := types.NewMatrix(2, 2, []float64{1, 3, 2, 4})
	out, err := e.Subsasgn(m, []Step{Paren(num(7))}, num(1))
	test.Equal(types.IndexOutOfRange, errKind(err))
	test.Equal([]float64{1, 3, 2, 4}, reals(t, out))

	out, err = e.Subsasgn(m, []Step{Paren(num(3), num(3))}, num(1))
	test.NoError(err)
	test.Equal(types.Dims{3, 3}, out.Dims())
	test.Equal([]float64{1, 3, 0, 2, 4, 0, 0, 0, 1}, reals(t, out))

	x := types.NewMatrix(1, 3, []float64{3, 1, 4})
	x, err = e.Subsasgn(x, []Step{Paren(num(1e15))}, num(9))
	test.Equal(types.IndexOutOfRange, errKind(err))
	test.Equal([]float64{3, 1, 4}, reals(t, x))
	x, err = e.Subsasgn(x, []Step{Paren(num(4e9), num(4e9))}, num(9))
	test.Equal(types.IndexOutOfRange, errKind(err))
	test.Equal(types.Dims{1, 3}, x.Dims())

	f := types.NewFunctionHandle("sin")
	_, err = e.Subsasgn(f, []Step{Paren(num(2))}, num(1))
	test.Equal(types.InvalidIndexType, errKind(err))

	test.Equal(dispatch.GrowNone, e.Growth(types.KindFunctionHandle))
	test.Equal(dispatch.GrowNone, e.Growth(types.KindObject))
	test.Equal(dispatch.GrowFill, e.Growth(types.KindMatrix))
	test.Equal(dispatch.GrowFill, e.Growth(types.KindCell))
}

func TestFillElement(t *testing.T) {
	test := require.New(t)

	v, ok := FillElement(types.KindInt16Matrix)
	test.True(ok)
	test.Equal(types.KindInt16Scalar, v.Kind())

	v, ok = FillElement(types.KindCharString)
	test.True(ok)
	test.Equal(types.KindCharString, v.Kind())

	v, ok = FillElement(types.KindSparseBoolMatrix)
	test.True(ok)
	test.Equal(types.KindBool, v.Kind())

	_, ok = FillElement(types.KindFunctionHandle)
	test.False(ok)
}

func TestDeletion(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	x := types.NewMatrix(1, 5, []float64{3, 1, 4, 1, 5})
	x, err := e.Subsasgn(x, []Step{Paren(types.NewMatrix(1, 2, []float64{2, 4}))}, types.NewEmpty())
	test.NoError(err)
	test.Equal(types.Dims{1, 3}, x.Dims())
	test.Equal([]float64{3, 4, 5}, reals(t, x))

	x, err = e.Subsasgn(x, []Step{Paren(num(1))}, types.NewEmptyString())
	test.NoError(err)
	test.Equal([]float64{4, 5}, reals(t, x))

	c := types.NewCell(1, 3, []types.Value{num(1), num(2), num(3)})
	c, err = e.Subsasgn(c, []Step{Paren(num(2))}, types.NewEmpty())
	test.NoError(err)
	test.Equal(types.Dims{1, 2}, c.Dims())
	last, err := e.Subsref(c, []Step{Brace(num(2))})
	test.NoError(err)
	test.Equal([]float64{3}, reals(t, last))

	// Brace assignment of [] stores an empty element.
	c, err = e.Subsasgn(c, []Step{Brace(num(1))}, types.NewEmpty())
	test.NoError(err)
	test.Equal(types.Dims{1, 2}, c.Dims())
	first, err := e.Subsref(c, []Step{Brace(num(1))})
	test.NoError(err)
	test.Equal(types.KindMatrix, first.Kind())
	test.True(first.Dims().IsZeroByZero())
}

func TestNestedAssignment(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)
	path := []Step{Field("a"), Field("b")}

	var s types.Value
	s, err := e.Subsasgn(s, path, num(5))
	test.NoError(err)
	test.Equal(types.KindScalarStruct, s.Kind())
	got, err := e.Subsref(s, path)
	test.NoError(err)
	test.Equal([]float64{5}, reals(t, got))

	t2 := s.Copy()
	t2, err = e.Subsasgn(t2, path, num(6))
	test.NoError(err)
	old, err := e.Subsref(s, path)
	test.NoError(err)
	test.Equal([]float64{5}, reals(t, old))
	changed, err := e.Subsref(t2, path)
	test.NoError(err)
	test.Equal([]float64{6}, reals(t, changed))

	c := types.NewCell(1, 2, []types.Value{num(1), types.NewString("x")})
	c, err = e.Subsasgn(c, []Step{Brace(num(3)), Field("f")}, num(2))
	test.NoError(err)
	test.Equal(types.Dims{1, 3}, c.Dims())
	f, err := e.Subsref(c, []Step{Brace(num(3)), Field("f")})
	test.NoError(err)
	test.Equal([]float64{2}, reals(t, f))
}

func TestNestedStructArrayGrowth(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	var s types.Value
	s, err := e.Subsasgn(s, []Step{Paren(num(2)), Field("name")}, types.NewString("x"))
	test.NoError(err)
	test.Equal(types.KindStruct, s.Kind())
	test.Equal(types.Dims{1, 2}, s.Dims())

	name, err := e.Subsref(s, []Step{Paren(num(2)), Field("name")})
	test.NoError(err)
	str, err := types.AsString(name)
	test.NoError(err)
	test.Equal("x", str)

	gap, err := e.Subsref(s, []Step{Paren(num(1)), Field("name")})
	test.NoError(err)
	test.True(gap.Dims().IsZeroByZero())
}

func TestEmptyTargetsTakeTheirShapeFromTheStep(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	var x types.Value
	x, err := e.Subsasgn(x, []Step{Brace(num(2))}, types.NewString("hi"))
	test.NoError(err)
	test.Equal(types.KindCell, x.Kind())
	test.Equal(types.Dims{1, 2}, x.Dims())

	y := types.EmptyMatrix()
	y, err = e.Subsasgn(y, []Step{Field("f")}, num(1))
	test.NoError(err)
	test.Equal(types.KindScalarStruct, y.Kind())

	var z types.Value
	z, err = e.Subsasgn(z, []Step{Paren(num(3))}, types.NewInt[uint8](7))
	test.NoError(err)
	test.Equal(types.KindUint8Matrix, z.Kind())
	a, err := types.ElementsOf[uint8](z.Rep())
	test.NoError(err)
	test.Equal([]uint8{0, 0, 7}, a.Data())
}

func TestIndexingErrors(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)
	x := types.NewMatrix(1, 3, []float64{3, 1, 4})

	_, err := e.Subsref(x, []Step{Paren(num(5))})
	test.Equal(types.IndexOutOfRange, errKind(err))
	_, err = e.Subsref(x, []Step{Paren(num(0))})
	test.Equal(types.IndexOutOfRange, errKind(err))
	_, err = e.Subsref(x, []Step{Paren(num(1.5))})
	test.Equal(types.InvalidIndexType, errKind(err))
	_, err = e.Subsref(x, []Step{Brace(num(1))})
	test.Equal(types.InvalidIndexType, errKind(err))
	_, err = e.Subsref(x, []Step{Field("f")})
	test.Equal(types.InvalidIndexType, errKind(err))

	out, err := e.Subsasgn(x, []Step{Field("f")}, num(1))
	test.Equal(types.InvalidIndexType, errKind(err))
	test.Equal([]float64{3, 1, 4}, reals(t, out))

	_, err = e.Subsasgn(x, []Step{Brace(num(1))}, num(1))
	test.Equal(types.InvalidIndexType, errKind(err))
}

func TestSubsrefNarrowsResult(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	x := types.NewMatrix(1, 4, []float64{3, 1, 4, 1})
	v, err := e.Subsref(x, []Step{Paren(num(2))})
	test.NoError(err)
	test.Equal(types.KindScalar, v.Kind())
	test.Equal([]float64{1}, reals(t, v))
	test.Equal(1, x.ShareCount())
}

func TestCSLists(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	s := structRow(t, e, 1, 2)
	list, err := e.Subsref(s, []Step{Field("a")})
	test.NoError(err)
	test.Equal(types.KindCSList, list.Kind())
	test.Len(list.Rep().(*types.CSList).Values(), 2)

	_, err = e.Subsref(s, []Step{Field("a"), Paren(num(1))})
	test.Equal(types.InvalidIndexType, errKind(err))

	c := types.NewCell(1, 3, []types.Value{num(1), num(2), num(3)})
	all, err := e.Subsref(c, []Step{Brace(types.NewString(":"))})
	test.NoError(err)
	test.Equal(types.KindCSList, all.Kind())

	one, err := e.Subsasgn(types.Value{}, nil, types.NewCSList([]types.Value{num(4)}))
	test.NoError(err)
	test.Equal([]float64{4}, reals(t, one))

	_, err = e.Subsasgn(types.Value{}, nil, all)
	test.Equal(types.NonconformantArguments, errKind(err))

	_, err = e.Subsasgn(num(1), nil, types.Value{})
	test.Equal(types.Undefined, errKind(err))
}

func TestCompoundAssignment(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	x := types.NewMatrix(1, 3, []float64{3, 1, 4})
	x, err := e.Assign(dispatch.OpAddEq, x, []Step{Paren(num(2))}, num(10))
	test.NoError(err)
	test.Equal([]float64{3, 11, 4}, reals(t, x))

	x, err = e.Assign(dispatch.OpAsnEq, x, []Step{Paren(num(1))}, num(0))
	test.NoError(err)
	test.Equal([]float64{0, 11, 4}, reals(t, x))

	y := num(2)
	y, err = e.Assign(dispatch.OpMulEq, y, nil, num(3))
	test.NoError(err)
	test.Equal([]float64{6}, reals(t, y))

	_, err = e.Assign(dispatch.OpAddEq, x, []Step{Paren(num(9))}, num(1))
	test.Equal(types.IndexOutOfRange, errKind(err))

	test.NoError(e.Increment(dispatch.OpIncr, &y))
	test.Equal([]float64{7}, reals(t, y))
}

func TestOperatorEntryPoints(t *testing.T) {
	test := require.New(t)
	e := newEngine(nil)

	sum, err := e.BinaryOp(dispatch.OpAdd, num(2), num(3))
	test.NoError(err)
	test.Equal([]float64{5}, reals(t, sum))

	neg, err := e.UnaryOp(dispatch.OpUMinus, num(2))
	test.NoError(err)
	test.Equal([]float64{-2}, reals(t, neg))

	a := types.NewMatrix(2, 2, []float64{1, 3, 2, 4})
	prod, err := e.CompoundBinaryOp(dispatch.OpTransMul, a, a)
	test.NoError(err)
	test.Equal([]float64{10, 14, 14, 20}, reals(t, prod))

	row, err := e.CatOp(2, num(1), types.NewMatrix(1, 2, []float64{5, 2}))
	test.NoError(err)
	test.Equal([]float64{1, 5, 2}, reals(t, row))
}

func TestObjectOverloads(t *testing.T) {
	test := require.New(t)
	ev := NewStaticEvaluator()

	var seen string
	ev.DefineMethod("Meter", "subsref", func(args []types.Value, nargout int) ([]types.Value, error) {
		s, err := types.AsStruct(args[1])
		if err != nil {
			return nil, err
		}
		kinds, _ := s.FieldValues("type")
		seen, _ = types.AsString(kinds[0])
		return []types.Value{num(42)}, nil
	})
	calls := 0
	ev.DefineMethod("Meter", "subsasgn", func(args []types.Value, nargout int) ([]types.Value, error) {
		calls++
		return []types.Value{args[0].Copy()}, nil
	})
	ev.DefineMethod("Broken", "subsref", func(args []types.Value, nargout int) ([]types.Value, error) {
		return nil, errors.New("boom")
	})
	test.Equal([]string{"subsasgn", "subsref"}, ev.Methods("Meter"))
	e := newEngine(ev)

	m := types.NewObject("Meter", false, []string{"reading"}, []types.Value{num(7)})
	v, err := e.Subsref(m, []Step{Field("reading")})
	test.NoError(err)
	test.Equal([]float64{42}, reals(t, v))
	test.Equal(".", seen)

	_, err = e.Subsasgn(m, []Step{Field("reading")}, num(1))
	test.NoError(err)
	test.Equal(1, calls)

	p := types.NewObject("Plain", false, []string{"x"}, []types.Value{num(1)})
	v, err = e.Subsref(p, []Step{Field("x")})
	test.NoError(err)
	test.Equal([]float64{1}, reals(t, v))
	p, err = e.Subsasgn(p, []Step{Field("x")}, num(5))
	test.NoError(err)
	v, err = e.Subsref(p, []Step{Field("x")})
	test.NoError(err)
	test.Equal([]float64{5}, reals(t, v))
	_, err = e.Subsasgn(p, []Step{Field("y")}, num(5))
	test.Equal(types.InvalidIndexType, errKind(err))

	b := types.NewObject("Broken", false, nil, nil)
	_, err = e.Subsref(b, []Step{Paren(num(1))})
	test.Equal(types.EvaluatorFailed, errKind(err))
}

func TestFunctionHandleCalls(t *testing.T) {
	test := require.New(t)
	ev := NewStaticEvaluator()
	ev.DefineFunction("twice", func(args []types.Value, nargout int) ([]types.Value, error) {
		x, err := types.AsFloat64(args[0])
		if err != nil {
			return nil, err
		}
		return []types.Value{num(2 * x)}, nil
	})
	e := newEngine(ev)

	v, err := e.Subsref(types.NewFunctionHandle("twice"), []Step{Paren(num(3))})
	test.NoError(err)
	test.Equal([]float64{6}, reals(t, v))

	_, err = e.Subsref(types.NewFunctionHandle("missing"), []Step{Paren(num(3))})
	test.Equal(types.EvaluatorFailed, errKind(err))

	_, err = newEngine(nil).Subsref(types.NewFunctionHandle("twice"), []Step{Paren(num(3))})
	test.Equal(types.EvaluatorFailed, errKind(err))
}
