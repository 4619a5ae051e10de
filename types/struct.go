package types

import (
	"silo/array"
)

// ScalarStruct represents a single record with ordered fields.
type ScalarStruct struct {
	keys []string
	vals []Value
}

// NewScalarStructRep builds a record. It takes the shares held by vals.
func NewScalarStructRep(keys []string, vals []Value) *ScalarStruct {
	s := &ScalarStruct{keys: append([]string(nil), keys...), vals: make([]Value, len(keys))}
	copy(s.vals, vals)
	for i := range s.vals {
		if s.vals[i].b == nil {
			s.vals[i] = EmptyMatrix()
		}
	}
	return s
}

func (s *ScalarStruct) Kind() Kind      { return KindScalarStruct }
func (s *ScalarStruct) Dims() Dims      { return Dims{1, 1} }
func (s *ScalarStruct) Values() []Value { return s.vals }

func (s *ScalarStruct) Clone() Representation {
	out := &ScalarStruct{keys: append([]string(nil), s.keys...), vals: make([]Value, len(s.vals))}
	for i, v := range s.vals {
		out.vals[i] = v.Copy()
	}
	return out
}

// Fields returns the field names in order.
func (s *ScalarStruct) Fields() []string { return s.keys }

func (s *ScalarStruct) fieldIndex(name string) int {
	for i, k := range s.keys {
		if k == name {
			return i
		}
	}
	return -1
}

// Field returns a share of a field's value.
func (s *ScalarStruct) Field(name string) (Value, bool) {
	i := s.fieldIndex(name)
	if i < 0 {
		return Value{}, false
	}
	return s.vals[i].Copy(), true
}

// SetField stores a share of v, adding the field when missing.
func (s *ScalarStruct) SetField(name string, v Value) {
	if i := s.fieldIndex(name); i >= 0 {
		s.vals[i].Release()
		s.vals[i] = v.Copy()
		return
	}
	s.keys = append(s.keys, name)
	s.vals = append(s.vals, v.Copy())
}

func (s *ScalarStruct) toArray() *StructArray {
	rec := make([]Value, len(s.vals))
	for i, v := range s.vals {
		rec[i] = v.Copy()
	}
	return &StructArray{keys: append([]string(nil), s.keys...), a: array.Scalar(rec)}
}

func (s *ScalarStruct) Index(idx []array.Index) (Representation, error) {
	return s.toArray().Index(idx)
}

func (s *ScalarStruct) Delete(idx []array.Index) (Representation, error) {
	return s.toArray().Delete(idx)
}

// StructArray represents an array of records sharing one ordered field
// list. Each element is a slice aligned with the field list; short slices
// read as [] for the missing fields.
type StructArray struct {
	keys []string
	a    *array.Dense[[]Value]
}

// NewStructArrayRep builds a struct array of the given shape with every
// field empty.
func NewStructArrayRep(dims Dims, keys []string) *StructArray {
	return &StructArray{keys: append([]string(nil), keys...), a: array.New[[]Value](dims)}
}

func (s *StructArray) Kind() Kind { return KindStruct }
func (s *StructArray) Dims() Dims { return s.a.Dims() }

func (s *StructArray) Clone() Representation {
	return &StructArray{keys: append([]string(nil), s.keys...), a: shareRecords(s.a)}
}

func shareRecords(a *array.Dense[[]Value]) *array.Dense[[]Value] {
	out := a.Clone()
	data := out.Data()
	for i, rec := range data {
		cp := make([]Value, len(rec))
		for j, v := range rec {
			cp[j] = v.Copy()
		}
		data[i] = cp
	}
	return out
}

// Fields returns the field names in order.
func (s *StructArray) Fields() []string { return s.keys }

func (s *StructArray) fieldIndex(name string) int {
	for i, k := range s.keys {
		if k == name {
			return i
		}
	}
	return -1
}

// Values returns every field value of every element, element by element.
func (s *StructArray) Values() []Value {
	var out []Value
	for _, rec := range s.a.Data() {
		for j := range s.keys {
			out = append(out, recordField(rec, j))
		}
	}
	return out
}

func recordField(rec []Value, j int) Value {
	if j < len(rec) && rec[j].b != nil {
		return rec[j]
	}
	return EmptyMatrix()
}

// Element returns the record at linear position i as a scalar struct.
func (s *StructArray) Element(i int) *ScalarStruct {
	rec := s.a.At(i)
	vals := make([]Value, len(s.keys))
	for j := range s.keys {
		vals[j] = recordField(rec, j).Copy()
	}
	return &ScalarStruct{keys: append([]string(nil), s.keys...), vals: vals}
}

// FieldValues returns shares of one field across all elements.
func (s *StructArray) FieldValues(name string) ([]Value, bool) {
	j := s.fieldIndex(name)
	if j < 0 {
		return nil, false
	}
	out := make([]Value, 0, s.a.Numel())
	for _, rec := range s.a.Data() {
		out = append(out, recordField(rec, j).Copy())
	}
	return out, true
}

// SetField stores a share of v in the named field of a single-element
// array, adding the field when missing.
func (s *StructArray) SetField(name string, v Value) error {
	if s.a.Numel() != 1 {
		return Errorf(InvalidIndexType, "invalid use of a N-D struct array in indexed assignment (%s)", s.a.Dims())
	}
	j := s.addField(name)
	rec := s.a.At(0)
	for len(rec) <= j {
		rec = append(rec, Value{})
	}
	rec[j].Release()
	rec[j] = v.Copy()
	s.a.Set(0, rec)
	return nil
}

func (s *StructArray) addField(name string) int {
	if j := s.fieldIndex(name); j >= 0 {
		return j
	}
	s.keys = append(s.keys, name)
	return len(s.keys) - 1
}

func (s *StructArray) Index(idx []array.Index) (Representation, error) {
	out, err := s.a.Index(idx)
	if err != nil {
		return nil, FromArrayError(err)
	}
	return &StructArray{keys: append([]string(nil), s.keys...), a: shareRecords(out)}, nil
}

func (s *StructArray) Delete(idx []array.Index) (Representation, error) {
	if err := s.a.Delete(idx); err != nil {
		return nil, FromArrayError(err)
	}
	return s, nil
}

// AssignStruct writes the records of src at idx, growing as needed. The
// field list becomes the union of both field lists.
func (s *StructArray) AssignStruct(idx []array.Index, src *StructArray) error {
	remap := make([]int, len(src.keys))
	keys := append([]string(nil), s.keys...)
	for i, k := range src.keys {
		j := -1
		for x, have := range keys {
			if have == k {
				j = x
				break
			}
		}
		if j < 0 {
			keys = append(keys, k)
			j = len(keys) - 1
		}
		remap[i] = j
	}
	recs := array.Map(src.a, func(rec []Value) []Value {
		out := make([]Value, len(keys))
		for i := range src.keys {
			out[remap[i]] = recordField(rec, i).Copy()
		}
		return out
	})
	if err := s.a.Assign(idx, recs, nil); err != nil {
		return FromArrayError(err)
	}
	s.keys = keys
	return nil
}

// CatStructs concatenates two struct arrays along dim. Both must carry the
// same fields, in any order; the result keeps a's order.
func CatStructs(dim int, a, b *StructArray) (*StructArray, error) {
	if len(a.keys) != len(b.keys) {
		return nil, Errorf(NonconformantArguments, "concatenation operator not implemented for struct arrays with different field names")
	}
	remap := make([]int, len(b.keys))
	for i, k := range b.keys {
		j := a.fieldIndex(k)
		if j < 0 {
			return nil, Errorf(NonconformantArguments, "concatenation operator not implemented for struct arrays with different field names")
		}
		remap[i] = j
	}
	left := shareRecords(a.a)
	right := array.Map(b.a, func(rec []Value) []Value {
		out := make([]Value, len(a.keys))
		for i := range b.keys {
			out[remap[i]] = recordField(rec, i).Copy()
		}
		return out
	})
	out, err := array.Cat(dim, left, right)
	if err != nil {
		return nil, FromArrayError(err)
	}
	return &StructArray{keys: append([]string(nil), a.keys...), a: out}, nil
}

// AsStructArray views a struct representation as an array.
func AsStructArray(r Representation) (*StructArray, bool) {
	switch s := r.(type) {
	case *StructArray:
		return s, true
	case *ScalarStruct:
		return s.toArray(), true
	}
	return nil, false
}

func (s *StructArray) Narrow(enabled NarrowMask) Representation {
	if enabled.Has(NarrowScalar) && s.a.Numel() == 1 && s.a.Dims().IsScalar() {
		return s.Element(0)
	}
	return s
}
