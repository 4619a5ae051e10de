package types

import (
	"testing"

	"github.com/pkg/errors"

	"silo/array"
)

func TestCellContents(t *testing.T) {
	c := NewCell(1, 3, []Value{NewScalar(1), NewString("a"), NewScalar(3)})
	cell, _ := AsCell(c)

	vals, err := cell.Contents([]array.Index{array.Colon()})
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 3 || !IsEqual(vals[1], NewString("a")) {
		t.Errorf("unexpected contents %v", vals)
	}

	if err := cell.SetContents([]array.Index{array.At(4)}, NewScalar(5)); err != nil {
		t.Fatal(err)
	}
	if cell.Dims().String() != "1x5" {
		t.Errorf("expected 1x5 after growth, got %s", cell.Dims())
	}
	if hole := cell.Array().At(3); !IsEqual(hole, EmptyMatrix()) {
		t.Errorf("grown cells should hold [], got %v", hole)
	}

	err = cell.SetContents([]array.Index{array.Positions([]int{0, 1}, nil)}, NewScalar(0))
	if !errors.Is(err, ErrNonconformant) {
		t.Errorf("expected NonconformantArguments for two targets, got %v", err)
	}
}

func TestStructArrayFields(t *testing.T) {
	s := NewStructArrayRep(Dims{1, 2}, []string{"a"})
	if err := s.SetField("a", NewScalar(1)); !errors.Is(err, ErrInvalidIndexType) {
		t.Errorf("setting a field of a 1x2 struct array should fail, got %v", err)
	}

	src := NewScalarStructRep([]string{"b"}, []Value{NewScalar(2)}).toArray()
	if err := s.AssignStruct([]array.Index{array.At(2)}, src); err != nil {
		t.Fatal(err)
	}
	if s.Dims().String() != "1x3" {
		t.Errorf("expected 1x3, got %s", s.Dims())
	}
	if len(s.Fields()) != 2 || s.Fields()[1] != "b" {
		t.Errorf("expected fields a, b; got %v", s.Fields())
	}
	bs, _ := s.FieldValues("b")
	if !IsEqual(bs[2], NewScalar(2)) || !IsEqual(bs[0], EmptyMatrix()) {
		t.Errorf("unexpected field b values %v", bs)
	}
	if _, ok := s.FieldValues("missing"); ok {
		t.Error("missing field should not be found")
	}

	one, err := s.Index([]array.Index{array.At(2)})
	if err != nil {
		t.Fatal(err)
	}
	if n := Narrow(one); n.Kind() != KindScalarStruct {
		t.Errorf("a 1x1 struct array should narrow to a scalar struct, got %s", n.Kind())
	}
}

func TestScalarStructSetField(t *testing.T) {
	s := NewScalarStructRep([]string{"x"}, []Value{NewScalar(1)})
	v := NewScalar(2)
	s.SetField("y", v)
	s.SetField("x", v)
	if v.ShareCount() != 3 {
		t.Errorf("both fields should hold a share, got %d", v.ShareCount())
	}
	if got, _ := s.Field("y"); !IsEqual(got, NewScalar(2)) {
		t.Errorf("unexpected field value %v", got)
	}
	if _, ok := s.Field("z"); ok {
		t.Error("missing field should not be found")
	}
}

func TestStorable(t *testing.T) {
	v, err := Storable(NewCSList([]Value{NewScalar(1)}))
	if err != nil || v.Kind() != KindScalar {
		t.Errorf("a one-element cs-list should unwrap, got %v, %v", v, err)
	}
	if _, err := Storable(NewCSList([]Value{NewScalar(1), NewScalar(2)})); !errors.Is(err, ErrNonconformant) {
		t.Errorf("expected NonconformantArguments, got %v", err)
	}
	if v, _ := Storable(NewEmpty()); v.Kind() != KindMatrix {
		t.Errorf("a stored [] should be a plain matrix, got %s", v.Kind())
	}
	if _, err := Storable(Value{}); !errors.Is(err, ErrUndefined) {
		t.Errorf("expected Undefined, got %v", err)
	}
}
