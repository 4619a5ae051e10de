package dispatch

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"silo/array"
	"silo/types"
)

func scalarOf(r types.Representation) float64 {
	return r.(*types.Scalar[float64]).Value()
}

func addScalars(a, b types.Representation) (types.Representation, error) {
	return types.NewScalarRep(types.KindScalar, scalarOf(a)+scalarOf(b)), nil
}

func toKind(k types.Kind) *Conversion {
	return &Conversion{Target: k, Fn: func(r types.Representation) (types.Representation, error) {
		return types.ConvertKind(r, k)
	}}
}

// smallRegistry declares bool (promotes to scalar), scalar, matrix (demotes
// to float matrix) and float matrix, with + only on (scalar, scalar) and
// (float matrix, scalar).
func smallRegistry(extra ...func(b *Builder)) *Registry {
	b := NewBuilder()
	b.RegisterType(TypeInfo{Kind: types.KindBool, Promote: toKind(types.KindScalar)})
	b.RegisterType(TypeInfo{Kind: types.KindScalar})
	b.RegisterType(TypeInfo{Kind: types.KindMatrix, Demote: toKind(types.KindFloatMatrix)})
	b.RegisterType(TypeInfo{Kind: types.KindFloatMatrix})
	b.RegisterType(TypeInfo{Kind: types.KindObject})
	b.Binary(OpAdd, types.KindScalar, types.KindScalar, addScalars)
	b.Binary(OpAdd, types.KindFloatMatrix, types.KindScalar, func(a, c types.Representation) (types.Representation, error) {
		return a.Clone(), nil
	})
	for _, fn := range extra {
		fn(b)
	}
	return b.Build()
}

type fakeEval struct {
	calls   []string
	methods map[string]func(args []types.Value) ([]types.Value, error)
}

func (f *fakeEval) CallMethod(class, name string, args []types.Value) ([]types.Value, bool, error) {
	f.calls = append(f.calls, class+"."+name)
	fn, ok := f.methods[class+"."+name]
	if !ok {
		return nil, false, nil
	}
	out, err := fn(args)
	return out, true, err
}

func (f *fakeEval) Call(fn *types.FunctionHandle, args []types.Value, nargout int) ([]types.Value, error) {
	if fn.Name() == "" {
		return nil, errors.New("anonymous functions are not callable here")
	}
	return []types.Value{types.NewString(fn.Name())}, nil
}

func TestBuilderRejectsMisuse(t *testing.T) {
	test := require.New(t)

	b := NewBuilder()
	b.RegisterType(TypeInfo{Kind: types.KindScalar})
	test.Panics(func() { b.RegisterType(TypeInfo{Kind: types.KindScalar}) })
	test.Panics(func() { b.Binary(OpAdd, types.KindScalar, types.KindCell, addScalars) })
	test.Panics(func() { b.RegisterType(TypeInfo{Kind: types.NumKinds}) })

	reg := b.Build()
	test.Panics(func() { b.Unary(OpUMinus, types.KindScalar, nil) })
	test.Panics(func() { b.Build() })

	info, ok := reg.Type(types.KindScalar)
	test.True(ok)
	test.Equal("scalar", info.Name)
	test.Equal(GrowFill, info.Growth)
	test.Equal([]types.Kind{types.KindScalar}, reg.Kinds())
}

func TestLaterEntryReplacesEarlier(t *testing.T) {
	test := require.New(t)

	reg := smallRegistry(func(b *Builder) {
		b.Binary(OpAdd, types.KindScalar, types.KindScalar, func(a, c types.Representation) (types.Representation, error) {
			return types.NewScalarRep(types.KindScalar, 42.0), nil
		})
	})
	d := New(reg, nil)

	out, err := d.Binary(OpAdd, types.NewScalar(1), types.NewScalar(2))
	test.NoError(err)
	test.Equal(42.0, scalarOf(out.Rep()))
	test.Equal(2, reg.BinaryEntries(OpAdd))
}

func TestDirectDispatch(t *testing.T) {
	test := require.New(t)
	d := New(smallRegistry(), nil)

	out, err := d.Binary(OpAdd, types.NewScalar(2), types.NewScalar(3))
	test.NoError(err)
	test.Equal(types.KindScalar, out.Kind())
	test.Equal(5.0, scalarOf(out.Rep()))

	res, err := d.ResolveBinary(OpAdd, types.KindScalar, types.KindScalar)
	test.NoError(err)
	test.Equal(Resolution{PathDirect, types.KindScalar, types.KindScalar}, res)
}

func TestPromotionPrefersOneSide(t *testing.T) {
	test := require.New(t)
	d := New(smallRegistry(), nil)

	res, err := d.ResolveBinary(OpAdd, types.KindScalar, types.KindBool)
	test.NoError(err)
	test.Equal(Resolution{PathPromote, types.KindScalar, types.KindScalar}, res)

	res, err = d.ResolveBinary(OpAdd, types.KindBool, types.KindScalar)
	test.NoError(err)
	test.Equal(Resolution{PathPromote, types.KindScalar, types.KindScalar}, res)

	res, err = d.ResolveBinary(OpAdd, types.KindBool, types.KindBool)
	test.NoError(err)
	test.Equal(Resolution{PathPromote, types.KindScalar, types.KindScalar}, res)

	out, err := d.Binary(OpAdd, types.NewBool(true), types.NewBool(true))
	test.NoError(err)
	test.Equal(2.0, scalarOf(out.Rep()))
}

func TestPromotionConvertsOnlyTheNeededSide(t *testing.T) {
	test := require.New(t)
	reg := smallRegistry(func(b *Builder) {
		b.Binary(OpSub, types.KindBool, types.KindScalar, func(a, c types.Representation) (types.Representation, error) {
			return types.NewScalarRep(types.KindScalar, -1.0), nil
		})
		b.Binary(OpSub, types.KindScalar, types.KindScalar, addScalars)
	})
	d := New(reg, nil)

	// (bool, promote(bool)) hits before (promote(bool), bool) is tried.
	res, err := d.ResolveBinary(OpSub, types.KindBool, types.KindBool)
	test.NoError(err)
	test.Equal(Resolution{PathPromote, types.KindBool, types.KindScalar}, res)
}

func TestDemotion(t *testing.T) {
	test := require.New(t)
	d := New(smallRegistry(), nil)

	res, err := d.ResolveBinary(OpAdd, types.KindMatrix, types.KindScalar)
	test.NoError(err)
	test.Equal(Resolution{PathDemote, types.KindFloatMatrix, types.KindScalar}, res)

	out, err := d.Binary(OpAdd, types.NewMatrix(1, 3, []float64{1.5, 7, 2}), types.NewScalar(1))
	test.NoError(err)
	test.Equal(types.KindFloatMatrix, out.Kind())
}

func TestNoRoute(t *testing.T) {
	test := require.New(t)
	d := New(smallRegistry(), nil)

	_, err := d.Binary(OpMul, types.NewScalar(1), types.NewBool(true))
	test.Error(err)
	kind, ok := types.KindOf(err)
	test.True(ok)
	test.Equal(types.OperatorNotImplemented, kind)
	test.Equal("binary operator '*' not implemented for 'scalar' by 'bool' operations", err.Error())
	test.True(errors.Is(err, types.ErrOperatorNotImplemented))

	_, err = d.Unary(OpUMinus, types.NewScalar(1))
	test.Equal("unary operator '-' not implemented for 'scalar' operations", err.Error())
}

func TestUnregisteredKind(t *testing.T) {
	test := require.New(t)
	d := New(smallRegistry(), nil)

	_, err := d.Binary(OpAdd, types.NewScalar(1), types.NewCell(1, 1, nil))
	test.Error(err)
	kind, _ := types.KindOf(err)
	test.Equal(types.OperatorNotImplemented, kind)
	test.Contains(err.Error(), "'cell'")
}

func TestConversionMustProduceTarget(t *testing.T) {
	test := require.New(t)

	b := NewBuilder()
	b.RegisterType(TypeInfo{Kind: types.KindBool, Promote: &Conversion{
		Target: types.KindScalar,
		Fn: func(r types.Representation) (types.Representation, error) {
			return r.Clone(), nil
		},
	}})
	b.RegisterType(TypeInfo{Kind: types.KindScalar})
	b.Binary(OpAdd, types.KindScalar, types.KindScalar, addScalars)
	d := New(b.Build(), nil)

	_, err := d.Binary(OpAdd, types.NewScalar(1), types.NewBool(true))
	test.Error(err)
	kind, _ := types.KindOf(err)
	test.Equal(types.ConversionFailed, kind)
	test.Contains(err.Error(), "'bool' to 'scalar'")
}

func TestResultsAreNarrowed(t *testing.T) {
	test := require.New(t)
	reg := smallRegistry(func(b *Builder) {
		b.Binary(OpMul, types.KindScalar, types.KindScalar, func(a, c types.Representation) (types.Representation, error) {
			return types.NewMatrixRep(types.KindMatrix, array.Scalar(scalarOf(a)*scalarOf(c))), nil
		})
	})
	d := New(reg, nil)

	out, err := d.Binary(OpMul, types.NewScalar(2), types.NewScalar(4))
	test.NoError(err)
	test.Equal(types.KindScalar, out.Kind())
}

func TestOperandsUntouched(t *testing.T) {
	test := require.New(t)
	d := New(smallRegistry(), nil)

	a := types.NewBool(true)
	b := a.Copy()
	_, err := d.Binary(OpAdd, a, b)
	test.NoError(err)
	test.Equal(types.KindBool, a.Kind())
	test.Equal(2, a.ShareCount())
}

func TestDeterminism(t *testing.T) {
	test := require.New(t)
	d := New(smallRegistry(), nil)

	for _, pair := range [][2]types.Kind{
		{types.KindScalar, types.KindScalar},
		{types.KindBool, types.KindBool},
		{types.KindMatrix, types.KindScalar},
	} {
		first, err := d.ResolveBinary(OpAdd, pair[0], pair[1])
		test.NoError(err)
		for i := 0; i < 5; i++ {
			again, err := d.ResolveBinary(OpAdd, pair[0], pair[1])
			test.NoError(err)
			test.Equal(first, again)
		}
	}
}

func TestClassOverload(t *testing.T) {
	test := require.New(t)

	eval := &fakeEval{methods: map[string]func([]types.Value) ([]types.Value, error){
		"Money.plus": func(args []types.Value) ([]types.Value, error) {
			return []types.Value{types.NewString("money")}, nil
		},
	}}
	d := New(smallRegistry(), eval)
	money := types.NewObject("Money", false, []string{"amount"}, []types.Value{types.NewScalar(5)})

	res, err := d.ResolveBinary(OpAdd, types.KindScalar, types.KindObject)
	test.NoError(err)
	test.Equal(PathClass, res.Path)

	out, err := d.Binary(OpAdd, types.NewScalar(1), money)
	test.NoError(err)
	s, err := types.AsString(out)
	test.NoError(err)
	test.Equal("money", s)
	test.Equal([]string{"Money.plus"}, eval.calls)

	_, err = d.Binary(OpSub, money, types.NewScalar(1))
	kind, _ := types.KindOf(err)
	test.Equal(types.OperatorNotImplemented, kind)
}

func TestClassOverloadTriesRightOperand(t *testing.T) {
	test := require.New(t)

	eval := &fakeEval{methods: map[string]func([]types.Value) ([]types.Value, error){
		"Euro.eq": func(args []types.Value) ([]types.Value, error) {
			return []types.Value{types.NewBool(true)}, nil
		},
	}}
	d := New(smallRegistry(), eval)
	left := types.NewObject("Dollar", false, nil, nil)
	right := types.NewObject("Euro", false, nil, nil)

	out, err := d.Binary(OpEq, left, right)
	test.NoError(err)
	test.Equal(types.KindBool, out.Kind())
	test.Equal([]string{"Dollar.eq", "Euro.eq"}, eval.calls)
}

func TestClassOverloadFailures(t *testing.T) {
	test := require.New(t)
	money := types.NewObject("Money", false, nil, nil)

	_, err := New(smallRegistry(), nil).Binary(OpAdd, money, money)
	kind, _ := types.KindOf(err)
	test.Equal(types.OperatorNotImplemented, kind)

	eval := &fakeEval{methods: map[string]func([]types.Value) ([]types.Value, error){
		"Money.plus": func(args []types.Value) ([]types.Value, error) {
			return nil, errors.New("insufficient funds")
		},
	}}
	_, err = New(smallRegistry(), eval).Binary(OpAdd, money, types.NewScalar(1))
	kind, _ = types.KindOf(err)
	test.Equal(types.EvaluatorFailed, kind)
	test.Contains(err.Error(), "insufficient funds")
}

func TestCompoundDecomposes(t *testing.T) {
	test := require.New(t)

	var order []string
	reg := smallRegistry(func(b *Builder) {
		b.Unary(OpNot, types.KindScalar, func(a types.Representation) (types.Representation, error) {
			order = append(order, "not")
			v := 0.0
			if scalarOf(a) == 0 {
				v = 1
			}
			return types.NewScalarRep(types.KindScalar, v), nil
		})
		b.Binary(OpElAnd, types.KindScalar, types.KindScalar, func(a, c types.Representation) (types.Representation, error) {
			order = append(order, "and")
			return types.NewScalarRep(types.KindBool, scalarOf(a) != 0 && scalarOf(c) != 0), nil
		})
	})
	d := New(reg, nil)

	out, err := d.Compound(OpElNotAnd, types.NewScalar(0), types.NewScalar(3))
	test.NoError(err)
	test.Equal(types.KindBool, out.Kind())
	test.Equal([]string{"not", "and"}, order)

	order = nil
	reg = smallRegistry(func(b *Builder) {
		b.CompoundBinary(OpElNotAnd, types.KindScalar, types.KindScalar, func(a, c types.Representation) (types.Representation, error) {
			order = append(order, "fused")
			return types.NewScalarRep(types.KindBool, false), nil
		})
	})
	_, err = New(reg, nil).Compound(OpElNotAnd, types.NewScalar(0), types.NewScalar(3))
	test.NoError(err)
	test.Equal([]string{"fused"}, order)
}

func TestIncrementUpdatesExclusiveValue(t *testing.T) {
	test := require.New(t)
	reg := smallRegistry(func(b *Builder) {
		b.Unary(OpIncr, types.KindScalar, func(a types.Representation) (types.Representation, error) {
			return types.NewScalarRep(types.KindScalar, scalarOf(a)+1), nil
		})
	})
	d := New(reg, nil)

	x := types.NewScalar(1)
	y := x.Copy()
	test.NoError(d.Increment(OpIncr, &x))
	test.Equal(2.0, scalarOf(x.Rep()))
	test.Equal(1.0, scalarOf(y.Rep()))
	test.Equal(1, x.ShareCount())

	z := types.NewBool(true)
	test.NoError(d.Increment(OpIncr, &z))
	test.Equal(types.KindScalar, z.Kind())
	test.Equal(2.0, scalarOf(z.Rep()))
}

func TestCatSkipsEmptyOperands(t *testing.T) {
	test := require.New(t)
	b := NewBuilder()
	b.RegisterType(TypeInfo{Kind: types.KindNullMatrix})
	b.RegisterType(TypeInfo{Kind: types.KindScalar})
	b.RegisterType(TypeInfo{Kind: types.KindMatrix})
	b.Cat(types.KindScalar, types.KindScalar, func(dim int, x, y types.Representation) (types.Representation, error) {
		return types.NewMatrix(1, 2, []float64{scalarOf(x), scalarOf(y)}).Rep(), nil
	})
	d := New(b.Build(), nil)

	out, err := d.Cat(2, types.NewEmpty(), types.NewScalar(1), types.EmptyMatrix(), types.NewScalar(4))
	test.NoError(err)
	test.Equal(types.Dims{1, 2}, out.Dims())

	out, err = d.Cat(2, types.NewEmpty())
	test.NoError(err)
	test.Equal(types.KindMatrix, out.Kind())

	res, err := d.ResolveCat(types.KindScalar, types.KindScalar)
	test.NoError(err)
	test.Equal(PathDirect, res.Path)
}

func TestCallHandle(t *testing.T) {
	test := require.New(t)

	_, err := New(smallRegistry(), nil).CallHandle(types.NewFunctionHandle("sin").Rep().(*types.FunctionHandle), nil, 1)
	kind, _ := types.KindOf(err)
	test.Equal(types.EvaluatorFailed, kind)

	d := New(smallRegistry(), &fakeEval{})
	out, err := d.CallHandle(types.NewFunctionHandle("sin").Rep().(*types.FunctionHandle), nil, 1)
	test.NoError(err)
	test.Len(out, 1)
}

func TestPathNames(t *testing.T) {
	test := require.New(t)
	for _, p := range []Path{PathDirect, PathClass, PathPromote, PathDemote} {
		back, ok := ParsePath(p.String())
		test.True(ok)
		test.Equal(p, back)
	}
	_, ok := ParsePath("sideways")
	test.False(ok)
}
