package types

// Value is a shared, copy-on-write handle to a Representation. Copying a
// Value with Copy adds a share; mutating operations go through Mutate or
// MakeUnique, which clone the representation first when it is shared.
// The zero Value is undefined.
type Value struct {
	b *box
}

type box struct {
	rep  Representation
	refs int
}

var undefinedRep Representation = undefined{}

// Wrap makes a new handle owning r.
func Wrap(r Representation) Value {
	if r == nil {
		return Value{}
	}
	return Value{b: &box{rep: r, refs: 1}}
}

// Rep returns the underlying representation. It is a read-only view;
// callers that need to modify it use Mutate.
func (v Value) Rep() Representation {
	if v.b == nil {
		return undefinedRep
	}
	return v.b.rep
}

// Kind returns the kind of the underlying representation.
func (v Value) Kind() Kind { return v.Rep().Kind() }

// Dims returns the dimensions of the value.
func (v Value) Dims() Dims { return v.Rep().Dims() }

// ClassName returns the user-visible class name.
func (v Value) ClassName() string { return ClassNameOf(v.Rep()) }

// IsDefined reports whether the value holds anything.
func (v Value) IsDefined() bool { return v.Kind() != KindUndefined }

// Copy returns another handle to the same representation.
func (v Value) Copy() Value {
	if v.b != nil {
		v.b.refs++
	}
	return v
}

// Release drops this handle's share and leaves the handle undefined.
func (v *Value) Release() {
	if v.b != nil {
		v.b.refs--
		v.b = nil
	}
}

// ShareCount returns how many handles share the representation.
func (v Value) ShareCount() int {
	if v.b == nil {
		return 0
	}
	return v.b.refs
}

// SameRep reports whether two handles share one representation.
func (v Value) SameRep(o Value) bool {
	return v.b != nil && v.b == o.b
}

// MakeUnique ensures this handle is the only owner of its representation,
// cloning it if it is shared.
func (v *Value) MakeUnique() {
	if v.b == nil || v.b.refs <= 1 {
		return
	}
	rep := v.b.rep.Clone()
	v.b.refs--
	v.b = &box{rep: rep, refs: 1}
}

// Mutable makes the handle exclusive and returns its representation for
// in-place modification.
func (v *Value) Mutable() Representation {
	if v.b == nil {
		*v = Wrap(undefinedRep)
	}
	v.MakeUnique()
	return v.b.rep
}

// Mutate runs fn on a representation this handle exclusively owns and
// rebinds the handle to fn's result. When the representation is shared, fn
// sees a clone and the other handles are untouched; on error nothing
// changes.
func (v *Value) Mutate(fn func(Representation) (Representation, error)) error {
	if v.b == nil {
		v.b = &box{rep: undefinedRep, refs: 1}
	}
	shared := v.b.refs > 1
	rep := v.b.rep
	if shared {
		rep = rep.Clone()
	}
	out, err := fn(rep)
	if err != nil {
		return err
	}
	if shared {
		v.b.refs--
		v.b = &box{rep: out, refs: 1}
		return nil
	}
	v.b.rep = out
	return nil
}

// Rebind replaces the handle's representation outright, releasing the old
// share.
func (v *Value) Rebind(r Representation) {
	v.Release()
	*v = Wrap(r)
}

// String renders the value for diagnostics.
func (v Value) String() string {
	return Format(v)
}
