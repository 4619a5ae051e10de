package dispatch

import (
	"fmt"

	"silo/array"
	"silo/types"
)

// BinaryFn implements a binary operator for one pair of kinds. It must not
// modify its operands.
type BinaryFn func(a, b types.Representation) (types.Representation, error)

// UnaryFn implements a unary operator for one kind. Increment and
// decrement entries receive an exclusively owned operand and may update
// it in place.
type UnaryFn func(a types.Representation) (types.Representation, error)

// CatFn concatenates two operands along dim (1 vertical, 2 horizontal).
type CatFn func(dim int, a, b types.Representation) (types.Representation, error)

// AssignFn stores rhs at idx in lhs. lhs is exclusively owned and may be
// updated in place; the returned representation replaces it.
type AssignFn func(lhs types.Representation, idx []array.Index, rhs types.Representation) (types.Representation, error)

// ConvertFn converts a representation to another kind.
type ConvertFn func(r types.Representation) (types.Representation, error)

// Conversion is a kind's declared promotion or demotion.
type Conversion struct {
	Target types.Kind
	Fn     ConvertFn
}

// Growth says how indexed assignment past the end of a kind behaves.
type Growth int

const (
	// GrowFill grows the array, padding new elements with the kind's
	// empty element: zero, '\0', false, [] or a struct with empty fields.
	GrowFill Growth = iota
	// GrowNone rejects indexed assignment into the kind.
	GrowNone
)

func (g Growth) String() string {
	if g == GrowNone {
		return "none"
	}
	return "fill"
}

// TypeInfo describes a registered kind.
type TypeInfo struct {
	Kind    types.Kind
	Name    string
	Promote *Conversion
	Demote  *Conversion
	Growth  Growth
}

type tables struct {
	info     [types.NumKinds]*TypeInfo
	binary   [NumBinaryOps][types.NumKinds][types.NumKinds]BinaryFn
	compound [NumCompoundOps][types.NumKinds][types.NumKinds]BinaryFn
	unary    [NumUnaryOps][types.NumKinds]UnaryFn
	cat      [types.NumKinds][types.NumKinds]CatFn
	assign   [types.NumKinds][types.NumKinds]AssignFn
	prefConv [types.NumKinds][types.NumKinds]types.Kind
	widening [types.NumKinds][types.NumKinds]ConvertFn
}

// Builder collects type registrations and table entries. Build freezes
// them into a Registry; the Builder cannot be used afterwards.
//
// Registering a kind twice, or an entry for a kind that was never
// registered, is a programming error and panics. A later entry for the
// same key replaces an earlier one, so installers can register a family
// first and specialize it afterwards.
type Builder struct {
	t     *tables
	built bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{t: &tables{}}
}

func (b *Builder) check(kinds ...types.Kind) {
	if b.built {
		panic("dispatch: builder used after Build")
	}
	for _, k := range kinds {
		if !k.Valid() {
			panic(fmt.Sprintf("dispatch: invalid kind %d", int(k)))
		}
		if b.t.info[k] == nil {
			panic(fmt.Sprintf("dispatch: kind '%s' used before RegisterType", k))
		}
	}
}

// RegisterType declares a kind. Each kind is registered exactly once.
func (b *Builder) RegisterType(info TypeInfo) {
	if b.built {
		panic("dispatch: builder used after Build")
	}
	if !info.Kind.Valid() {
		panic(fmt.Sprintf("dispatch: invalid kind %d", int(info.Kind)))
	}
	if b.t.info[info.Kind] != nil {
		panic(fmt.Sprintf("dispatch: kind '%s' registered twice", info.Kind))
	}
	if info.Name == "" {
		info.Name = info.Kind.String()
	}
	b.t.info[info.Kind] = &info
}

// Registered reports whether a kind has been declared.
func (b *Builder) Registered(k types.Kind) bool {
	return k.Valid() && b.t.info[k] != nil
}

// Binary registers a binary operator entry.
func (b *Builder) Binary(op BinaryOp, a, c types.Kind, fn BinaryFn) {
	b.check(a, c)
	b.t.binary[op][a][c] = fn
}

// CompoundBinary registers a fused operator entry.
func (b *Builder) CompoundBinary(op CompoundOp, a, c types.Kind, fn BinaryFn) {
	b.check(a, c)
	b.t.compound[op][a][c] = fn
}

// Unary registers a unary operator entry.
func (b *Builder) Unary(op UnaryOp, a types.Kind, fn UnaryFn) {
	b.check(a)
	b.t.unary[op][a] = fn
}

// Cat registers a concatenation entry.
func (b *Builder) Cat(a, c types.Kind, fn CatFn) {
	b.check(a, c)
	b.t.cat[a][c] = fn
}

// Assign registers an indexed assignment entry.
func (b *Builder) Assign(lhs, rhs types.Kind, fn AssignFn) {
	b.check(lhs, rhs)
	b.t.assign[lhs][rhs] = fn
}

// PrefAssignConv declares the kind an lhs is widened to before storing an
// rhs of the given kind into it.
func (b *Builder) PrefAssignConv(lhs, rhs, result types.Kind) {
	b.check(lhs, rhs, result)
	b.t.prefConv[lhs][rhs] = result
}

// Widening registers the conversion used to widen from one kind to
// another during assignment.
func (b *Builder) Widening(from, to types.Kind, fn ConvertFn) {
	b.check(from, to)
	b.t.widening[from][to] = fn
}

// Build freezes the builder into a read-only Registry.
func (b *Builder) Build() *Registry {
	if b.built {
		panic("dispatch: Build called twice")
	}
	b.built = true
	return &Registry{t: b.t}
}

// Registry holds the frozen dispatch tables. It is safe for concurrent
// use.
type Registry struct {
	t *tables
}

// Type returns the declaration of a kind.
func (r *Registry) Type(k types.Kind) (TypeInfo, bool) {
	if !k.Valid() || r.t.info[k] == nil {
		return TypeInfo{}, false
	}
	return *r.t.info[k], true
}

// Registered reports whether a kind has been declared.
func (r *Registry) Registered(k types.Kind) bool {
	return k.Valid() && r.t.info[k] != nil
}

// Kinds lists the registered kinds in table order.
func (r *Registry) Kinds() []types.Kind {
	var out []types.Kind
	for k, info := range r.t.info {
		if info != nil {
			out = append(out, types.Kind(k))
		}
	}
	return out
}

// LookupBinary returns the direct entry for op on (a, b), or nil.
func (r *Registry) LookupBinary(op BinaryOp, a, b types.Kind) BinaryFn {
	if !validPair(a, b) || op < 0 || op >= NumBinaryOps {
		return nil
	}
	return r.t.binary[op][a][b]
}

// LookupCompoundBinary returns the direct fused entry, or nil.
func (r *Registry) LookupCompoundBinary(op CompoundOp, a, b types.Kind) BinaryFn {
	if !validPair(a, b) || op < 0 || op >= NumCompoundOps {
		return nil
	}
	return r.t.compound[op][a][b]
}

// LookupUnary returns the direct entry for op on a, or nil.
func (r *Registry) LookupUnary(op UnaryOp, a types.Kind) UnaryFn {
	if !a.Valid() || op < 0 || op >= NumUnaryOps {
		return nil
	}
	return r.t.unary[op][a]
}

// LookupCat returns the concatenation entry for (a, b), or nil.
func (r *Registry) LookupCat(a, b types.Kind) CatFn {
	if !validPair(a, b) {
		return nil
	}
	return r.t.cat[a][b]
}

// LookupAssign returns the assignment entry for (lhs, rhs), or nil.
func (r *Registry) LookupAssign(lhs, rhs types.Kind) AssignFn {
	if !validPair(lhs, rhs) {
		return nil
	}
	return r.t.assign[lhs][rhs]
}

// LookupPrefAssignConv returns the kind lhs is widened to for rhs.
func (r *Registry) LookupPrefAssignConv(lhs, rhs types.Kind) (types.Kind, bool) {
	if !validPair(lhs, rhs) {
		return types.KindUndefined, false
	}
	k := r.t.prefConv[lhs][rhs]
	return k, k != types.KindUndefined
}

// LookupWidening returns the widening conversion from one kind to another.
func (r *Registry) LookupWidening(from, to types.Kind) ConvertFn {
	if !validPair(from, to) {
		return nil
	}
	return r.t.widening[from][to]
}

// BinaryEntries counts the direct binary entries, for reporting.
func (r *Registry) BinaryEntries(op BinaryOp) int {
	n := 0
	for a := range r.t.binary[op] {
		for _, fn := range r.t.binary[op][a] {
			if fn != nil {
				n++
			}
		}
	}
	return n
}

func validPair(a, b types.Kind) bool { return a.Valid() && b.Valid() }
