package engine

import (
	"github.com/pkg/errors"

	"silo/array"
	"silo/trace"
	"silo/types"
)

// Subsasgn evaluates v(chain) = rhs and returns the updated value. The
// result takes over v's share, so callers rebind the variable to it;
// other handles sharing v's representation keep the old contents. On
// failure v is returned unchanged together with the error.
//
// An empty chain rebinds: the result is rhs made storable. A null rhs in
// a final paren step deletes the selected elements. Longer chains read
// each intermediate container (undefined where it does not exist yet),
// assign at the deepest level and store the pieces back going up.
func (e *Engine) Subsasgn(v types.Value, chain []Step, rhs types.Value) (types.Value, error) {
	out := v
	if err := e.assign(&out, chain, rhs); err != nil {
		trace.Failure("subsasgn", err)
		return v, err
	}
	return out, nil
}

func (e *Engine) assign(cur *types.Value, chain []Step, rhs types.Value) error {
	if len(chain) == 0 {
		val, err := types.Storable(rhs)
		if err != nil {
			return err
		}
		cur.Release()
		*cur = val
		return nil
	}
	if cur.Kind() == types.KindObject {
		ok, err := e.objectSubsasgn(cur, chain, rhs)
		if ok || err != nil {
			return err
		}
	}
	s, rest := chain[0], chain[1:]
	if len(rest) == 0 {
		return e.store(cur, s, rhs)
	}

	child, err := e.child(*cur, s)
	if err != nil {
		return err
	}
	defer child.Release()
	if err := e.assign(&child, rest, rhs); err != nil {
		return err
	}
	return e.store(cur, s, child)
}

func (e *Engine) objectSubsasgn(cur *types.Value, chain []Step, rhs types.Value) (bool, error) {
	o := cur.Rep().(*types.Object)
	s, err := chainStruct(chain)
	if err != nil {
		return false, err
	}
	defer s.Release()
	res, ok, err := e.d.CallClass(o.Class(), "subsasgn", []types.Value{*cur, s, rhs})
	if !ok || err != nil {
		return ok, err
	}
	cur.Release()
	*cur = res
	return true, nil
}

// child reads the container one step below cur for a nested assignment.
// Missing elements and fields read as undefined so the deeper assignment
// can create them.
func (e *Engine) child(cur types.Value, s Step) (types.Value, error) {
	if !cur.IsDefined() || isEmptyDouble(cur) {
		return types.Value{}, nil
	}
	switch s.Type {
	case StepField:
		switch r := cur.Rep().(type) {
		case *types.ScalarStruct:
			v, _ := r.Field(s.Field)
			return v, nil
		case *types.StructArray:
			if r.Dims().Numel() != 1 {
				return types.Value{}, types.Errorf(types.InvalidIndexType,
					"invalid use of a N-D struct array in indexed assignment (%s)", r.Dims())
			}
			vals, _ := r.FieldValues(s.Field)
			if len(vals) == 0 {
				return types.Value{}, nil
			}
			return vals[0], nil
		}
	case StepBrace:
		out, err := brace(cur, s)
		if errors.Is(err, types.ErrIndexOutOfRange) {
			return types.Value{}, nil
		}
		if err == nil && out.Kind() == types.KindCSList {
			out.Release()
			return types.Value{}, types.Errorf(types.NonconformantArguments, "a cs-list cannot be further indexed")
		}
		return out, err
	case StepParen:
		if _, ok := cur.Rep().(*types.FunctionHandle); ok {
			return types.Value{}, indexError(cur.Kind(), s.Type)
		}
		out, err := e.paren(cur, s)
		if errors.Is(err, types.ErrIndexOutOfRange) {
			return types.Value{}, nil
		}
		return out, err
	}
	return e.step(cur, s)
}

// store performs the single step cur(s) = rhs.
func (e *Engine) store(cur *types.Value, s Step, rhs types.Value) error {
	switch s.Type {
	case StepParen:
		return e.storeParen(cur, s, rhs)
	case StepBrace:
		return storeBrace(cur, s, rhs)
	}
	return storeField(cur, s.Field, rhs)
}

func (e *Engine) storeParen(cur *types.Value, s Step, rhs types.Value) error {
	idx, err := s.indices()
	if err != nil {
		return err
	}
	if types.IsNull(rhs) && cur.IsDefined() {
		return deleteElements(cur, idx, rhs.Kind())
	}
	val, err := types.Storable(rhs)
	if err != nil {
		return err
	}
	defer val.Release()
	if !cur.IsDefined() || isEmptyDouble(*cur) {
		empty, err := types.EmptyLike(val.Rep())
		if err != nil {
			return err
		}
		fresh := types.Wrap(empty)
		if err := e.d.AssignIndexed(&fresh, idx, val); err != nil {
			return err
		}
		rebind(cur, fresh, true)
		return nil
	}
	return e.d.AssignIndexed(cur, idx, val)
}

func deleteElements(cur *types.Value, idx []array.Index, null types.Kind) error {
	from := cur.Kind()
	err := cur.Mutate(func(r types.Representation) (types.Representation, error) {
		ix, ok := r.(types.Indexable)
		if !ok {
			return nil, types.Errorf(types.InvalidIndexType, "a null assignment can only have one non-colon index (%s)", r.Kind())
		}
		out, err := ix.Delete(idx)
		if err != nil {
			return nil, types.FromArrayError(err)
		}
		return types.NarrowResult(out), nil
	})
	if err != nil {
		return err
	}
	trace.Assign("delete", from, "(...)", null, cur.Kind())
	return nil
}

func storeBrace(cur *types.Value, s Step, rhs types.Value) error {
	target, fresh := *cur, !cur.IsDefined() || isEmptyDouble(*cur)
	if fresh {
		target = types.Wrap(types.NewCellRep(array.New[types.Value](types.Dims{0, 0})))
	}
	if target.Kind() != types.KindCell {
		return types.Errorf(types.InvalidIndexType, "matrix cannot be indexed with {: lhs is '%s'", cur.Kind())
	}
	idx, err := s.indices()
	if err != nil {
		return err
	}
	val, err := types.Storable(rhs)
	if err != nil {
		return err
	}
	defer val.Release()
	err = target.Mutate(func(r types.Representation) (types.Representation, error) {
		c := r.(*types.Cell)
		if err := c.SetContents(idx, val); err != nil {
			return nil, err
		}
		return c, nil
	})
	if err != nil {
		return err
	}
	rebind(cur, target, fresh)
	return nil
}

func storeField(cur *types.Value, name string, rhs types.Value) error {
	target, fresh := *cur, !cur.IsDefined() || isEmptyDouble(*cur)
	if fresh {
		target = types.Wrap(types.NewScalarStructRep(nil, nil))
	}
	val, err := types.Storable(rhs)
	if err != nil {
		return err
	}
	defer val.Release()
	kind := target.Kind()
	err = target.Mutate(func(r types.Representation) (types.Representation, error) {
		switch x := r.(type) {
		case *types.ScalarStruct:
			x.SetField(name, val)
			return x, nil
		case *types.StructArray:
			if err := x.SetField(name, val); err != nil {
				return nil, err
			}
			return types.NarrowResult(x), nil
		case *types.Object:
			if err := x.SetProperty(name, val); err != nil {
				return nil, err
			}
			return x, nil
		}
		return nil, types.Errorf(types.InvalidIndexType, "invalid use of a N_-D array in indexed assignment: %s cannot be indexed with .", kind)
	})
	if err != nil {
		return err
	}
	rebind(cur, target, fresh)
	return nil
}

// rebind points cur at target after a successful store. A fresh target
// replaces what cur held; otherwise target is cur after copy on write.
func rebind(cur *types.Value, target types.Value, fresh bool) {
	if fresh {
		cur.Release()
	}
	*cur = target
}

func isEmptyDouble(v types.Value) bool {
	return v.Kind() == types.KindMatrix && v.Dims().IsZeroByZero()
}
