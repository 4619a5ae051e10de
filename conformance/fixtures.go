package conformance

import (
	"github.com/pkg/errors"

	"silo/engine"
	"silo/types"
)

// Fixtures returns the evaluator scenarios run against. It defines:
//
//	twice(x)       2*x
//	swap(a, b)     [b, a]
//	fail()         always errors
//
// and a value class Meter with one property, reading, whose plus and
// uminus overloads return a char tag naming the method, whose subsref
// returns the bracket of the first step and whose subsasgn stores the
// right-hand side in reading.
func Fixtures() *engine.StaticEvaluator {
	ev := engine.NewStaticEvaluator()

	ev.DefineFunction("twice", func(args []types.Value, nargout int) ([]types.Value, error) {
		if len(args) != 1 {
			return nil, errors.Errorf("twice: expected 1 argument, got %d", len(args))
		}
		x, err := types.AsFloat64(args[0])
		if err != nil {
			return nil, err
		}
		return []types.Value{types.NewScalar(2 * x)}, nil
	})
	ev.DefineFunction("swap", func(args []types.Value, nargout int) ([]types.Value, error) {
		if len(args) != 2 {
			return nil, errors.Errorf("swap: expected 2 arguments, got %d", len(args))
		}
		return []types.Value{args[1].Copy(), args[0].Copy()}, nil
	})
	ev.DefineFunction("fail", func(args []types.Value, nargout int) ([]types.Value, error) {
		return nil, errors.New("fail: called")
	})

	tag := func(name string) engine.Method {
		return func(args []types.Value, nargout int) ([]types.Value, error) {
			return []types.Value{types.NewString("Meter." + name)}, nil
		}
	}
	ev.DefineMethod("Meter", "plus", tag("plus"))
	ev.DefineMethod("Meter", "uminus", tag("uminus"))
	ev.DefineMethod("Meter", "subsref", func(args []types.Value, nargout int) ([]types.Value, error) {
		s, err := types.AsStruct(args[1])
		if err != nil {
			return nil, err
		}
		kinds, ok := s.FieldValues("type")
		if !ok || len(kinds) == 0 {
			return nil, errors.New("Meter.subsref: empty chain")
		}
		for _, k := range kinds[1:] {
			k.Release()
		}
		return kinds[:1], nil
	})
	ev.DefineMethod("Meter", "subsasgn", func(args []types.Value, nargout int) ([]types.Value, error) {
		o, err := types.AsObject(args[0])
		if err != nil {
			return nil, err
		}
		out := o.Clone().(*types.Object)
		if err := out.SetProperty("reading", args[2]); err != nil {
			return nil, err
		}
		return []types.Value{types.Wrap(out)}, nil
	})
	return ev
}
