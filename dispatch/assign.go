package dispatch

import (
	"silo/array"
	"silo/trace"
	"silo/types"
)

type assignRoute struct {
	widen []ConvertFn
	kinds []types.Kind
	rhs   ConvertFn
	rhsTo types.Kind
	fn    AssignFn
}

// assignChain looks up a direct entry for (lhs, rhs), following the
// preferred lhs widenings until one exists.
func (d *Dispatcher) assignChain(lhs, rhs types.Kind) (assignRoute, bool) {
	var rt assignRoute
	cur := lhs
	for range types.NumKinds {
		if fn := d.reg.LookupAssign(cur, rhs); fn != nil {
			rt.fn = fn
			return rt, true
		}
		next, ok := d.reg.LookupPrefAssignConv(cur, rhs)
		if !ok {
			return rt, false
		}
		w := d.reg.LookupWidening(cur, next)
		if w == nil {
			return rt, false
		}
		rt.widen = append(rt.widen, w)
		rt.kinds = append(rt.kinds, next)
		cur = next
	}
	return rt, false
}

// resolveAssign searches direct and widened entries, then promotes the
// rhs, then the lhs.
func (d *Dispatcher) resolveAssign(lhs, rhs types.Kind) (assignRoute, error) {
	if err := d.requireRegistered("=", lhs, rhs); err != nil {
		return assignRoute{}, err
	}
	if info, _ := d.reg.Type(lhs); info.Growth == GrowNone {
		return assignRoute{}, types.Errorf(types.InvalidIndexType,
			"operator = undefined for '%s' by '%s' operations: '%s' values cannot be indexed", lhs, rhs, lhs)
	}
	if rt, ok := d.assignChain(lhs, rhs); ok {
		return rt, nil
	}
	if pr, _ := d.conversions(rhs); pr != nil {
		if rt, ok := d.assignChain(lhs, pr.Target); ok {
			rt.rhs, rt.rhsTo = pr.Fn, pr.Target
			return rt, nil
		}
	}
	if pl, _ := d.conversions(lhs); pl != nil {
		if rt, ok := d.assignChain(pl.Target, rhs); ok {
			rt.widen = append([]ConvertFn{pl.Fn}, rt.widen...)
			rt.kinds = append([]types.Kind{pl.Target}, rt.kinds...)
			return rt, nil
		}
	}
	return assignRoute{}, types.Errorf(types.OperatorNotImplemented,
		"operator = undefined for '%s' by '%s' operations", lhs, rhs)
}

// AssignIndexed performs lhs(idx) = rhs. lhs is written through copy on
// write: other handles sharing its representation keep the old value. On
// failure lhs is unchanged.
func (d *Dispatcher) AssignIndexed(lhs *types.Value, idx []array.Index, rhs types.Value) error {
	const name = "subsasgn"
	from, rk := lhs.Kind(), rhs.Kind()
	rt, err := d.resolveAssign(from, rk)
	if err != nil {
		trace.Failure(name, err)
		return err
	}
	rr := rhs.Rep()
	if rt.rhs != nil {
		if rr, err = d.convert(name, rr, rt.rhsTo, rt.rhs, PathPromote); err != nil {
			return err
		}
	}
	err = lhs.Mutate(func(r types.Representation) (types.Representation, error) {
		for i, w := range rt.widen {
			out, err := d.convert(name, r, rt.kinds[i], w, PathPromote)
			if err != nil {
				return nil, err
			}
			r = out
		}
		out, err := rt.fn(r, idx, rr)
		if err != nil {
			return nil, err
		}
		return types.NarrowResult(out), nil
	})
	if err != nil {
		trace.Failure(name, err)
		return err
	}
	trace.Assign(name, from, "(...)", rk, lhs.Kind())
	return nil
}
