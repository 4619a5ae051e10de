package types

import (
	"sort"

	"github.com/google/uuid"
)

// Object represents an instance of a user-defined class. Operators on
// objects are resolved by the evaluator through overloaded methods.
// Value-class instances copy their properties on write; handle-class
// instances share one property set between every copy.
type Object struct {
	class  string
	handle bool
	st     *objectState
}

type objectState struct {
	id   uuid.UUID
	keys []string
	vals []Value
}

// NewObjectRep creates an instance with the given class and properties.
// It takes the shares held by vals.
func NewObjectRep(class string, handle bool, keys []string, vals []Value) *Object {
	st := &objectState{id: uuid.New(), keys: append([]string(nil), keys...), vals: make([]Value, len(keys))}
	copy(st.vals, vals)
	for i := range st.vals {
		if st.vals[i].b == nil {
			st.vals[i] = EmptyMatrix()
		}
	}
	return &Object{class: class, handle: handle, st: st}
}

func (o *Object) Kind() Kind        { return KindObject }
func (o *Object) Dims() Dims        { return Dims{1, 1} }
func (o *Object) ClassName() string { return o.class }
func (o *Object) Values() []Value   { return o.st.vals }

// Class returns the object's class name.
func (o *Object) Class() string { return o.class }

// IsHandle reports handle-class semantics.
func (o *Object) IsHandle() bool { return o.handle }

// ID returns the instance identity. Value-class copies get a new identity
// when cloned; handle-class copies keep it.
func (o *Object) ID() uuid.UUID { return o.st.id }

func (o *Object) Clone() Representation {
	if o.handle {
		return &Object{class: o.class, handle: true, st: o.st}
	}
	st := &objectState{id: uuid.New(), keys: append([]string(nil), o.st.keys...), vals: make([]Value, len(o.st.vals))}
	for i, v := range o.st.vals {
		st.vals[i] = v.Copy()
	}
	return &Object{class: o.class, st: st}
}

// Properties returns the property names in declaration order.
func (o *Object) Properties() []string { return o.st.keys }

// Property returns a share of a property value.
func (o *Object) Property(name string) (Value, bool) {
	for i, k := range o.st.keys {
		if k == name {
			return o.st.vals[i].Copy(), true
		}
	}
	return Value{}, false
}

// SetProperty stores a share of v. Only declared properties can be set.
func (o *Object) SetProperty(name string, v Value) error {
	for i, k := range o.st.keys {
		if k == name {
			o.st.vals[i].Release()
			o.st.vals[i] = v.Copy()
			return nil
		}
	}
	return Errorf(InvalidIndexType, "invalid use of undefined property '%s' of class '%s'", name, o.class)
}

// FunctionHandle represents a reference to a named function or an
// anonymous function with captured variables. Handles are immutable.
type FunctionHandle struct {
	name     string
	id       uuid.UUID
	params   []string
	body     string
	captured map[string]Value
}

// NewFunctionHandleRep references a named function.
func NewFunctionHandleRep(name string) *FunctionHandle {
	return &FunctionHandle{name: name}
}

// NewAnonymousFunctionRep builds an anonymous function. Each one gets a
// distinct identity.
func NewAnonymousFunctionRep(params []string, body string, captured map[string]Value) *FunctionHandle {
	return &FunctionHandle{id: uuid.New(), params: append([]string(nil), params...), body: body, captured: captured}
}

func (f *FunctionHandle) Kind() Kind            { return KindFunctionHandle }
func (f *FunctionHandle) Dims() Dims            { return Dims{1, 1} }
func (f *FunctionHandle) Clone() Representation { c := *f; return &c }

// Name returns the referenced function name, empty for anonymous functions.
func (f *FunctionHandle) Name() string { return f.name }

// IsAnonymous reports an anonymous function.
func (f *FunctionHandle) IsAnonymous() bool { return f.name == "" }

// ID returns the identity of an anonymous function.
func (f *FunctionHandle) ID() uuid.UUID { return f.id }

// Params and Body describe an anonymous function.
func (f *FunctionHandle) Params() []string { return f.params }
func (f *FunctionHandle) Body() string     { return f.body }

// Captured returns a share of a captured variable.
func (f *FunctionHandle) Captured(name string) (Value, bool) {
	v, ok := f.captured[name]
	if !ok {
		return Value{}, false
	}
	return v.Copy(), true
}

// CapturedNames returns the captured variable names, sorted.
func (f *FunctionHandle) CapturedNames() []string {
	names := make([]string, 0, len(f.captured))
	for k := range f.captured {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Values returns the captured variables in name order.
func (f *FunctionHandle) Values() []Value {
	names := f.CapturedNames()
	out := make([]Value, len(names))
	for i, k := range names {
		out[i] = f.captured[k]
	}
	return out
}
