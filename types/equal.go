package types

import (
	"math"
	"sort"
)

// IsEqual reports whether two values hold the same data, in the manner of
// isequaln: numeric, logical and char values compare by element value
// regardless of class or representation, NaNs compare equal, and struct
// fields compare regardless of order.
func IsEqual(a, b Value) bool {
	return repEqual(a.Rep(), b.Rep())
}

func repEqual(a, b Representation) bool {
	ka, kb := a.Kind(), b.Kind()
	if ka == KindUndefined || kb == KindUndefined {
		return ka == kb
	}
	if !a.Dims().Equal(b.Dims()) {
		return false
	}
	if na, ok := a.(Numeric); ok {
		nb, ok := b.(Numeric)
		if !ok {
			return false
		}
		return numericEqual(na, nb)
	}
	switch x := a.(type) {
	case *Cell:
		y, ok := b.(*Cell)
		return ok && valuesEqual(x.Values(), y.Values())
	case *CSList:
		y, ok := b.(*CSList)
		return ok && valuesEqual(x.vals, y.vals)
	case *ScalarStruct, *StructArray:
		sa, _ := AsStructArray(a)
		sb, ok := AsStructArray(b)
		return ok && structEqual(sa, sb)
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.class != y.class || x.handle != y.handle {
			return false
		}
		if x.handle {
			return x.st == y.st
		}
		return sameStrings(x.st.keys, y.st.keys) && valuesEqual(x.st.vals, y.st.vals)
	case *FunctionHandle:
		y, ok := b.(*FunctionHandle)
		if !ok {
			return false
		}
		if x.IsAnonymous() || y.IsAnonymous() {
			return x.IsAnonymous() && y.IsAnonymous() && x.id == y.id
		}
		return x.name == y.name
	}
	return false
}

func numericEqual(a, b Numeric) bool {
	ea, err := ElementsOf[complex128](a)
	if err != nil {
		return false
	}
	eb, err := ElementsOf[complex128](b)
	if err != nil {
		return false
	}
	x, y := ea.Data(), eb.Data()
	for i := range x {
		if !floatEqual(real(x[i]), real(y[i])) || !floatEqual(imag(x[i]), imag(y[i])) {
			return false
		}
	}
	return true
}

func floatEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !IsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func structEqual(a, b *StructArray) bool {
	if !a.Dims().Equal(b.Dims()) || len(a.keys) != len(b.keys) {
		return false
	}
	ka := append([]string(nil), a.keys...)
	kb := append([]string(nil), b.keys...)
	sort.Strings(ka)
	sort.Strings(kb)
	if !sameStrings(ka, kb) {
		return false
	}
	for _, k := range ka {
		va, _ := a.FieldValues(k)
		vb, _ := b.FieldValues(k)
		if !valuesEqual(va, vb) {
			return false
		}
	}
	return true
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
