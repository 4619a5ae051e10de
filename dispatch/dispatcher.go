package dispatch

import (
	"github.com/pkg/errors"

	"silo/trace"
	"silo/types"
)

// Evaluator is the interpreter callback used for class overloads and
// function handle calls.
type Evaluator interface {
	// CallMethod calls an overloaded method of class. found is false when
	// the class does not define it.
	CallMethod(class, name string, args []types.Value) (results []types.Value, found bool, err error)
	// Call invokes a function handle.
	Call(fn *types.FunctionHandle, args []types.Value, nargout int) ([]types.Value, error)
}

// Path says how an operation was resolved.
type Path int

const (
	PathDirect Path = iota
	PathClass
	PathPromote
	PathDemote
)

func (p Path) String() string {
	switch p {
	case PathDirect:
		return "direct"
	case PathClass:
		return "class"
	case PathPromote:
		return "promote"
	case PathDemote:
		return "demote"
	}
	return "unknown"
}

// ParsePath converts a path name to its value.
func ParsePath(s string) (Path, bool) {
	for p := PathDirect; p <= PathDemote; p++ {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}

// Resolution describes how an operation will run: the path taken and the
// operand kinds the table entry receives.
type Resolution struct {
	Path  Path
	Left  types.Kind
	Right types.Kind
}

type binaryRoute struct {
	Resolution
	fn           BinaryFn
	convA, convB ConvertFn
}

type unaryRoute struct {
	Resolution
	fn   UnaryFn
	conv ConvertFn
}

type catRoute struct {
	Resolution
	fn           CatFn
	convA, convB ConvertFn
}

// Dispatcher resolves operators against a Registry. It holds no mutable
// state, so evaluator callbacks may re-enter it.
type Dispatcher struct {
	reg  *Registry
	eval Evaluator
}

// New creates a dispatcher. eval may be nil when no classes or function
// handles are involved.
func New(reg *Registry, eval Evaluator) *Dispatcher {
	return &Dispatcher{reg: reg, eval: eval}
}

// Registry returns the tables the dispatcher reads.
func (d *Dispatcher) Registry() *Registry { return d.reg }

// Evaluator returns the callback, possibly nil.
func (d *Dispatcher) Evaluator() Evaluator { return d.eval }

func (d *Dispatcher) requireRegistered(op string, kinds ...types.Kind) error {
	for _, k := range kinds {
		if !d.reg.Registered(k) {
			return &types.Error{Kind: types.OperatorNotImplemented, Op: op, Left: k,
				Msg: "operator " + op + ": type '" + k.String() + "' is not registered"}
		}
	}
	return nil
}

func (d *Dispatcher) conversions(k types.Kind) (promote, demote *Conversion) {
	info, _ := d.reg.Type(k)
	return info.Promote, info.Demote
}

// ResolveBinary reports how op on (a, b) would be resolved without
// running it.
func (d *Dispatcher) ResolveBinary(op BinaryOp, a, b types.Kind) (Resolution, error) {
	rt, err := d.resolveBinary(op, a, b)
	return rt.Resolution, err
}

func (d *Dispatcher) resolveBinary(op BinaryOp, a, b types.Kind) (binaryRoute, error) {
	if err := d.requireRegistered(op.String(), a, b); err != nil {
		return binaryRoute{}, err
	}
	if fn := d.reg.LookupBinary(op, a, b); fn != nil {
		return binaryRoute{Resolution: Resolution{PathDirect, a, b}, fn: fn}, nil
	}
	if a == types.KindObject || b == types.KindObject {
		return binaryRoute{Resolution: Resolution{PathClass, a, b}}, nil
	}
	pa, da := d.conversions(a)
	pb, db := d.conversions(b)
	if rt, ok := d.tryBinaryPair(op, a, b, pa, pb, PathPromote); ok {
		return rt, nil
	}
	if rt, ok := d.tryBinaryPair(op, a, b, da, db, PathDemote); ok {
		return rt, nil
	}
	return binaryRoute{}, types.NotImplemented(op.String(), a, b)
}

// tryBinaryPair converts b alone, then a alone, then both.
func (d *Dispatcher) tryBinaryPair(op BinaryOp, a, b types.Kind, ca, cb *Conversion, path Path) (binaryRoute, bool) {
	if cb != nil {
		if fn := d.reg.LookupBinary(op, a, cb.Target); fn != nil {
			return binaryRoute{Resolution: Resolution{path, a, cb.Target}, fn: fn, convB: cb.Fn}, true
		}
	}
	if ca != nil {
		if fn := d.reg.LookupBinary(op, ca.Target, b); fn != nil {
			return binaryRoute{Resolution: Resolution{path, ca.Target, b}, fn: fn, convA: ca.Fn}, true
		}
	}
	if ca != nil && cb != nil {
		if fn := d.reg.LookupBinary(op, ca.Target, cb.Target); fn != nil {
			return binaryRoute{Resolution: Resolution{path, ca.Target, cb.Target}, fn: fn, convA: ca.Fn, convB: cb.Fn}, true
		}
	}
	return binaryRoute{}, false
}

// Binary applies op to a and b. The operands are not modified.
func (d *Dispatcher) Binary(op BinaryOp, a, b types.Value) (types.Value, error) {
	name := op.Method()
	rt, err := d.resolveBinary(op, a.Kind(), b.Kind())
	if err != nil {
		trace.Failure(name, err)
		return types.Value{}, err
	}
	if rt.Path == PathClass {
		return d.callClass(name, name, a, b)
	}
	ra, err := d.convert(name, a.Rep(), rt.Left, rt.convA, rt.Path)
	if err != nil {
		return types.Value{}, err
	}
	rb, err := d.convert(name, b.Rep(), rt.Right, rt.convB, rt.Path)
	if err != nil {
		return types.Value{}, err
	}
	out, err := rt.fn(ra, rb)
	if err != nil {
		trace.Failure(name, err)
		return types.Value{}, err
	}
	res := d.finish(name, out)
	trace.Dispatch(name, a.Kind(), b.Kind(), rt.Path.String(), res.Kind())
	return res, nil
}

// ResolveUnary reports how op on a would be resolved.
func (d *Dispatcher) ResolveUnary(op UnaryOp, a types.Kind) (Resolution, error) {
	rt, err := d.resolveUnary(op, a)
	return rt.Resolution, err
}

func (d *Dispatcher) resolveUnary(op UnaryOp, a types.Kind) (unaryRoute, error) {
	if err := d.requireRegistered(op.String(), a); err != nil {
		return unaryRoute{}, err
	}
	if fn := d.reg.LookupUnary(op, a); fn != nil {
		return unaryRoute{Resolution: Resolution{PathDirect, a, types.KindUndefined}, fn: fn}, nil
	}
	if a == types.KindObject && op.Method() != "" {
		return unaryRoute{Resolution: Resolution{PathClass, a, types.KindUndefined}}, nil
	}
	pa, da := d.conversions(a)
	for _, c := range []struct {
		conv *Conversion
		path Path
	}{{pa, PathPromote}, {da, PathDemote}} {
		if c.conv == nil {
			continue
		}
		if fn := d.reg.LookupUnary(op, c.conv.Target); fn != nil {
			return unaryRoute{Resolution: Resolution{c.path, c.conv.Target, types.KindUndefined}, fn: fn, conv: c.conv.Fn}, nil
		}
	}
	return unaryRoute{}, types.UnaryNotImplemented(op.String(), a)
}

// Unary applies op to a. Increment and decrement update a in place when
// a is exclusively held; every other operator leaves it untouched.
func (d *Dispatcher) Unary(op UnaryOp, a types.Value) (types.Value, error) {
	name := op.Method()
	if name == "" {
		name = op.String()
	}
	rt, err := d.resolveUnary(op, a.Kind())
	if err != nil {
		trace.Failure(name, err)
		return types.Value{}, err
	}
	if rt.Path == PathClass {
		return d.callClass(name, name, a)
	}
	ra, err := d.convert(name, a.Rep(), rt.Left, rt.conv, rt.Path)
	if err != nil {
		return types.Value{}, err
	}
	if (op == OpIncr || op == OpDecr) && rt.conv == nil {
		// The entry may update its operand, so it must not see a shared one.
		ra = ra.Clone()
	}
	out, err := rt.fn(ra)
	if err != nil {
		trace.Failure(name, err)
		return types.Value{}, err
	}
	res := d.finish(name, out)
	trace.UnaryDispatch(name, a.Kind(), rt.Path.String(), res.Kind())
	return res, nil
}

// Increment applies ++ or -- to *v. A direct entry updates the
// representation in place once v holds it exclusively; otherwise v is
// rebound to the converted result.
func (d *Dispatcher) Increment(op UnaryOp, v *types.Value) error {
	name := op.String()
	rt, err := d.resolveUnary(op, v.Kind())
	if err != nil {
		trace.Failure(name, err)
		return err
	}
	if rt.Path != PathDirect {
		out, err := d.Unary(op, *v)
		if err != nil {
			return err
		}
		v.Release()
		*v = out
		return nil
	}
	from := v.Kind()
	err = v.Mutate(func(r types.Representation) (types.Representation, error) {
		out, err := rt.fn(r)
		if err != nil {
			return nil, err
		}
		return types.NarrowResult(out), nil
	})
	if err != nil {
		trace.Failure(name, err)
		return err
	}
	trace.UnaryDispatch(name, from, rt.Path.String(), v.Kind())
	return nil
}

// Compound applies a fused operator. Without a direct entry it runs as
// the unary operator(s) followed by the binary one.
func (d *Dispatcher) Compound(op CompoundOp, a, b types.Value) (types.Value, error) {
	name := op.String()
	if err := d.requireRegistered(name, a.Kind(), b.Kind()); err != nil {
		return types.Value{}, err
	}
	if fn := d.reg.LookupCompoundBinary(op, a.Kind(), b.Kind()); fn != nil {
		out, err := fn(a.Rep(), b.Rep())
		if err != nil {
			trace.Failure(name, err)
			return types.Value{}, err
		}
		res := d.finish(name, out)
		trace.Dispatch(name, a.Kind(), b.Kind(), PathDirect.String(), res.Kind())
		return res, nil
	}
	left, right, bin := op.Decompose()
	x, y := a.Copy(), b.Copy()
	defer func() {
		x.Release()
		y.Release()
	}()
	var err error
	if left != noUnary {
		if x, err = d.swap(x, left); err != nil {
			return types.Value{}, err
		}
	}
	if right != noUnary {
		if y, err = d.swap(y, right); err != nil {
			return types.Value{}, err
		}
	}
	return d.Binary(bin, x, y)
}

func (d *Dispatcher) swap(v types.Value, op UnaryOp) (types.Value, error) {
	out, err := d.Unary(op, v)
	v.Release()
	if err != nil {
		return types.Value{}, err
	}
	return out, nil
}

// ResolveCat reports how concatenating a and b would be resolved.
func (d *Dispatcher) ResolveCat(a, b types.Kind) (Resolution, error) {
	rt, err := d.resolveCat(a, b)
	return rt.Resolution, err
}

func (d *Dispatcher) resolveCat(a, b types.Kind) (catRoute, error) {
	if err := d.requireRegistered("[]", a, b); err != nil {
		return catRoute{}, err
	}
	if fn := d.reg.LookupCat(a, b); fn != nil {
		return catRoute{Resolution: Resolution{PathDirect, a, b}, fn: fn}, nil
	}
	if a == types.KindObject || b == types.KindObject {
		return catRoute{Resolution: Resolution{PathClass, a, b}}, nil
	}
	pa, da := d.conversions(a)
	pb, db := d.conversions(b)
	for _, pass := range []struct {
		ca, cb *Conversion
		path   Path
	}{{pa, pb, PathPromote}, {da, db, PathDemote}} {
		if pass.cb != nil {
			if fn := d.reg.LookupCat(a, pass.cb.Target); fn != nil {
				return catRoute{Resolution: Resolution{pass.path, a, pass.cb.Target}, fn: fn, convB: pass.cb.Fn}, nil
			}
		}
		if pass.ca != nil {
			if fn := d.reg.LookupCat(pass.ca.Target, b); fn != nil {
				return catRoute{Resolution: Resolution{pass.path, pass.ca.Target, b}, fn: fn, convA: pass.ca.Fn}, nil
			}
		}
		if pass.ca != nil && pass.cb != nil {
			if fn := d.reg.LookupCat(pass.ca.Target, pass.cb.Target); fn != nil {
				return catRoute{Resolution: Resolution{pass.path, pass.ca.Target, pass.cb.Target}, fn: fn,
					convA: pass.ca.Fn, convB: pass.cb.Fn}, nil
			}
		}
	}
	return catRoute{}, types.Errorf(types.OperatorNotImplemented,
		"concatenation operator not implemented for '%s' by '%s' operations", a, b)
}

// Cat concatenates vals along dim (1 for [a; b], 2 for [a, b]), folding
// left to right. [] operands are skipped.
func (d *Dispatcher) Cat(dim int, vals ...types.Value) (types.Value, error) {
	name := "horzcat"
	if dim == 1 {
		name = "vertcat"
	}
	var acc types.Value
	for _, v := range vals {
		if skipInCat(v) && len(vals) > 1 {
			continue
		}
		if !acc.IsDefined() {
			acc = v.Copy()
			continue
		}
		next, err := d.cat2(name, dim, acc, v)
		acc.Release()
		if err != nil {
			return types.Value{}, err
		}
		acc = next
	}
	if !acc.IsDefined() {
		return types.EmptyMatrix(), nil
	}
	out, err := types.Storable(acc)
	acc.Release()
	return out, err
}

func skipInCat(v types.Value) bool {
	k := v.Kind()
	return k == types.KindNullMatrix || (k == types.KindMatrix && v.Dims().IsZeroByZero())
}

func (d *Dispatcher) cat2(name string, dim int, a, b types.Value) (types.Value, error) {
	rt, err := d.resolveCat(a.Kind(), b.Kind())
	if err != nil {
		trace.Failure(name, err)
		return types.Value{}, err
	}
	if rt.Path == PathClass {
		return d.callClass(name, name, a, b)
	}
	ra, err := d.convert(name, a.Rep(), rt.Left, rt.convA, rt.Path)
	if err != nil {
		return types.Value{}, err
	}
	rb, err := d.convert(name, b.Rep(), rt.Right, rt.convB, rt.Path)
	if err != nil {
		return types.Value{}, err
	}
	out, err := rt.fn(dim, ra, rb)
	if err != nil {
		trace.Failure(name, err)
		return types.Value{}, err
	}
	res := d.finish(name, out)
	trace.Dispatch(name, a.Kind(), b.Kind(), rt.Path.String(), res.Kind())
	return res, nil
}

// convert applies a route conversion and checks it produced the kind the
// route was resolved for.
func (d *Dispatcher) convert(op string, r types.Representation, target types.Kind, fn ConvertFn, path Path) (types.Representation, error) {
	if fn == nil {
		return r, nil
	}
	out, err := fn(r)
	if err == nil && out == nil {
		err = errors.New("conversion returned no value")
	}
	if err == nil && out.Kind() != target {
		err = errors.Errorf("conversion produced '%s'", out.Kind())
	}
	if err != nil {
		cerr := types.ConversionError(r.Kind(), target, err)
		trace.Failure(op, cerr)
		return nil, cerr
	}
	trace.Conversion(op, r.Kind(), target, path.String())
	return out, nil
}

// Convert applies a registered conversion from v's kind to target: the
// kind's promotion or demotion, or a widening entry.
func (d *Dispatcher) Convert(v types.Value, target types.Kind) (types.Value, error) {
	k := v.Kind()
	if k == target {
		return v.Copy(), nil
	}
	if err := d.requireRegistered("convert", k, target); err != nil {
		return types.Value{}, err
	}
	fn := d.reg.LookupWidening(k, target)
	path := PathPromote
	if fn == nil {
		pa, da := d.conversions(k)
		switch {
		case pa != nil && pa.Target == target:
			fn = pa.Fn
		case da != nil && da.Target == target:
			fn, path = da.Fn, PathDemote
		}
	}
	if fn == nil {
		return types.Value{}, types.ConversionError(k, target, nil)
	}
	out, err := d.convert("convert", v.Rep(), target, fn, path)
	if err != nil {
		return types.Value{}, err
	}
	return types.Wrap(out), nil
}

func (d *Dispatcher) finish(op string, out types.Representation) types.Value {
	n := types.NarrowResult(out)
	trace.Narrow(op, out.Kind(), n.Kind())
	return types.Wrap(n)
}

// callClass routes an operation on an object to the class overload: the
// leftmost object's class first, then the next object operand's class.
func (d *Dispatcher) callClass(op, method string, args ...types.Value) (types.Value, error) {
	kinds := make([]types.Kind, len(args))
	for i, a := range args {
		kinds[i] = a.Kind()
	}
	fail := func() error {
		if len(kinds) == 1 {
			return types.UnaryNotImplemented(op, kinds[0])
		}
		return types.NotImplemented(op, kinds[0], kinds[1])
	}
	if d.eval == nil || method == "" {
		return types.Value{}, fail()
	}
	tried := map[string]bool{}
	for _, a := range args {
		if a.Kind() != types.KindObject {
			continue
		}
		class := a.ClassName()
		if tried[class] {
			continue
		}
		tried[class] = true
		trace.Callback(op, class, method, len(args))
		res, found, err := d.eval.CallMethod(class, method, args)
		if err != nil {
			return types.Value{}, types.EvaluatorError(err)
		}
		if !found {
			continue
		}
		if len(res) == 0 {
			return types.Value{}, types.Errorf(types.Undefined, "%s.%s returned no value", class, method)
		}
		for _, extra := range res[1:] {
			extra.Release()
		}
		return res[0], nil
	}
	err := fail()
	trace.Failure(op, err)
	return types.Value{}, err
}

// CallClass runs an overloaded method on behalf of the engine, used for
// subsref, subsasgn and similar hooks. ok is false when the class does not
// define the method.
func (d *Dispatcher) CallClass(class, method string, args []types.Value) (types.Value, bool, error) {
	if d.eval == nil {
		return types.Value{}, false, nil
	}
	trace.Callback(method, class, method, len(args))
	res, found, err := d.eval.CallMethod(class, method, args)
	if err != nil {
		return types.Value{}, true, types.EvaluatorError(err)
	}
	if !found {
		return types.Value{}, false, nil
	}
	if len(res) == 0 {
		return types.Value{}, true, types.Errorf(types.Undefined, "%s.%s returned no value", class, method)
	}
	for _, extra := range res[1:] {
		extra.Release()
	}
	return res[0], true, nil
}

// CallHandle invokes a function handle through the evaluator.
func (d *Dispatcher) CallHandle(fn *types.FunctionHandle, args []types.Value, nargout int) ([]types.Value, error) {
	if d.eval == nil {
		return nil, types.Errorf(types.EvaluatorFailed, "no evaluator to call function handle")
	}
	name := fn.Name()
	if name == "" {
		name = "@<anonymous>"
	}
	trace.Callback("()", "function_handle", name, len(args))
	out, err := d.eval.Call(fn, args, nargout)
	if err != nil {
		return nil, types.EvaluatorError(err)
	}
	return out, nil
}
