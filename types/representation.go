package types

import "silo/array"

// Dims is the shape of a value.
type Dims = array.Dims

// Representation is the concrete payload behind a Value. Every
// representation reports a kind and dimensions and can clone itself;
// capabilities beyond that are discovered through the interfaces below.
type Representation interface {
	Kind() Kind
	Dims() Dims
	Clone() Representation
}

// Numeric is implemented by representations that hold a rectangular array
// of numbers, characters or booleans.
type Numeric interface {
	Representation
	// Elements returns the payload as a dense array of the kind's native
	// element type, e.g. *array.Dense[float64] or *array.Dense[int32].
	// The result may alias internal storage and must not be modified.
	Elements() any
}

// Indexable is implemented by representations that support parenthesis
// indexing and deletion. Delete runs against an exclusively owned
// representation and may return a different one.
type Indexable interface {
	Representation
	Index(idx []array.Index) (Representation, error)
	Delete(idx []array.Index) (Representation, error)
}

// Collection is implemented by containers of Values.
type Collection interface {
	Representation
	// Values returns the contained handles in storage order. The handles
	// are shared with the collection.
	Values() []Value
}

// Narrower is implemented by representations that may have a cheaper
// equivalent form. Narrow returns the receiver when no enabled category
// applies.
type Narrower interface {
	Narrow(enabled NarrowMask) Representation
}

// Sizer reports an approximate payload size in bytes.
type Sizer interface {
	Bytes() int
}

type classNamer interface {
	ClassName() string
}

// ClassNameOf returns the user-visible class of a representation.
func ClassNameOf(r Representation) string {
	if c, ok := r.(classNamer); ok {
		return c.ClassName()
	}
	return r.Kind().ClassName()
}

// BytesOf returns the approximate payload size of a representation.
func BytesOf(r Representation) int {
	if s, ok := r.(Sizer); ok {
		return s.Bytes()
	}
	return 0
}
