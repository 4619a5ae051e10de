package engine

import (
	"silo/trace"
	"silo/types"
)

// Subsref evaluates v followed by chain, left to right. An object whose
// class overloads subsref receives the rest of the chain in one call.
// The result is a new share; v is untouched.
func (e *Engine) Subsref(v types.Value, chain []Step) (types.Value, error) {
	cur := v.Copy()
	for i, s := range chain {
		if cur.Kind() == types.KindObject {
			res, ok, err := e.objectSubsref(cur, chain[i:])
			if ok || err != nil {
				cur.Release()
				return res, err
			}
		}
		if cur.Kind() == types.KindCSList {
			cur.Release()
			return types.Value{}, types.Errorf(types.InvalidIndexType, "a cs-list cannot be further indexed")
		}
		next, err := e.step(cur, s)
		cur.Release()
		if err != nil {
			trace.Failure("subsref", err)
			return types.Value{}, err
		}
		cur = next
	}
	return cur, nil
}

func (e *Engine) objectSubsref(obj types.Value, rest []Step) (types.Value, bool, error) {
	o := obj.Rep().(*types.Object)
	s, err := chainStruct(rest)
	if err != nil {
		return types.Value{}, false, err
	}
	defer s.Release()
	return e.d.CallClass(o.Class(), "subsref", []types.Value{obj, s})
}

// step applies one step of a read.
func (e *Engine) step(cur types.Value, s Step) (types.Value, error) {
	switch s.Type {
	case StepParen:
		return e.paren(cur, s)
	case StepBrace:
		return brace(cur, s)
	}
	return field(cur, s.Field)
}

func (e *Engine) paren(cur types.Value, s Step) (types.Value, error) {
	switch r := cur.Rep().(type) {
	case *types.FunctionHandle:
		out, err := e.d.CallHandle(r, s.Args, 1)
		if err != nil {
			return types.Value{}, err
		}
		if len(out) == 0 {
			return types.Value{}, types.Errorf(types.Undefined, "value on right hand side of assignment is undefined")
		}
		for _, extra := range out[1:] {
			extra.Release()
		}
		return out[0], nil
	case types.Indexable:
		idx, err := s.indices()
		if err != nil {
			return types.Value{}, err
		}
		out, err := r.Index(idx)
		if err != nil {
			return types.Value{}, types.FromArrayError(err)
		}
		return types.Wrap(types.Narrow(out)), nil
	}
	return types.Value{}, indexError(cur.Kind(), s.Type)
}

func brace(cur types.Value, s Step) (types.Value, error) {
	c, ok := cur.Rep().(*types.Cell)
	if !ok {
		return types.Value{}, indexError(cur.Kind(), s.Type)
	}
	idx, err := s.indices()
	if err != nil {
		return types.Value{}, err
	}
	vals, err := c.Contents(idx)
	if err != nil {
		return types.Value{}, err
	}
	return list(vals), nil
}

func field(cur types.Value, name string) (types.Value, error) {
	switch r := cur.Rep().(type) {
	case *types.ScalarStruct:
		if v, ok := r.Field(name); ok {
			return v, nil
		}
	case *types.StructArray:
		if vals, ok := r.FieldValues(name); ok {
			return list(vals), nil
		}
	case *types.Object:
		if v, ok := r.Property(name); ok {
			return v, nil
		}
		return types.Value{}, types.Errorf(types.InvalidIndexType, "invalid use of undefined property '%s' of class '%s'", name, r.Class())
	default:
		return types.Value{}, indexError(cur.Kind(), StepField)
	}
	return types.Value{}, types.Errorf(types.InvalidIndexType, "invalid use of undefined value: no field '%s'", name)
}

// list turns the shares in vals into one value: the element itself when
// there is exactly one, a cs-list otherwise.
func list(vals []types.Value) types.Value {
	if len(vals) == 1 {
		return vals[0]
	}
	out := types.NewCSList(vals)
	for i := range vals {
		vals[i].Release()
	}
	return out
}

func indexError(k types.Kind, t StepType) error {
	if t == StepBrace {
		return types.Errorf(types.InvalidIndexType, "'{' undefined for arguments of type '%s'", k)
	}
	if t == StepField {
		return types.Errorf(types.InvalidIndexType, "%s cannot be indexed with .", k)
	}
	return types.Errorf(types.InvalidIndexType, "%s cannot be indexed with (", k)
}
