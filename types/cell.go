package types

import "silo/array"

// Cell represents an array of Values.
type Cell struct {
	a *array.Dense[Value]
}

// NewCellRep wraps an array of handles. The cell takes the shares held by
// the array's elements; undefined elements read as [].
func NewCellRep(a *array.Dense[Value]) *Cell {
	c := &Cell{a: a}
	c.fillHoles()
	return c
}

// shareClone copies an array of handles, adding a share to each element.
func shareClone(a *array.Dense[Value]) *array.Dense[Value] {
	out := a.Clone()
	data := out.Data()
	for i := range data {
		data[i] = data[i].Copy()
	}
	return out
}

func (c *Cell) fillHoles() {
	data := c.a.Data()
	for i := range data {
		if data[i].b == nil {
			data[i] = EmptyMatrix()
		}
	}
}

func (c *Cell) Kind() Kind            { return KindCell }
func (c *Cell) Dims() Dims            { return c.a.Dims() }
func (c *Cell) Clone() Representation { return &Cell{a: shareClone(c.a)} }
func (c *Cell) Values() []Value       { return c.a.Data() }

// Array exposes the backing array of handles.
func (c *Cell) Array() *array.Dense[Value] { return c.a }

func (c *Cell) Bytes() int {
	n := 0
	for _, v := range c.a.Data() {
		n += BytesOf(v.Rep())
	}
	return n
}

func (c *Cell) Index(idx []array.Index) (Representation, error) {
	out, err := c.a.Index(idx)
	if err != nil {
		return nil, FromArrayError(err)
	}
	for i, v := range out.Data() {
		out.Data()[i] = v.Copy()
	}
	return &Cell{a: out}, nil
}

func (c *Cell) Delete(idx []array.Index) (Representation, error) {
	if err := c.a.Delete(idx); err != nil {
		return nil, FromArrayError(err)
	}
	return c, nil
}

// Transpose returns the transposed cell, sharing its elements.
func (c *Cell) Transpose() (Representation, error) {
	t, err := c.a.Transpose()
	if err != nil {
		return nil, FromArrayError(err)
	}
	for i, v := range t.Data() {
		t.Data()[i] = v.Copy()
	}
	return &Cell{a: t}, nil
}

// Contents returns shares of the elements selected by idx, in storage
// order.
func (c *Cell) Contents(idx []array.Index) ([]Value, error) {
	out, err := c.a.Index(idx)
	if err != nil {
		return nil, FromArrayError(err)
	}
	vals := out.Data()
	for i := range vals {
		vals[i] = vals[i].Copy()
	}
	return vals, nil
}

// AssignCell writes the elements of src at idx, growing as needed.
func (c *Cell) AssignCell(idx []array.Index, src *Cell) error {
	if err := c.a.Assign(idx, shareClone(src.a), Value{}); err != nil {
		return FromArrayError(err)
	}
	c.fillHoles()
	return nil
}

// SetContents stores a share of v at the single element idx selects,
// growing as needed.
func (c *Cell) SetContents(idx []array.Index, v Value) error {
	n := 1
	d := c.a.Dims()
	if len(idx) == 1 {
		n = idx[0].Len(d.Numel())
	} else {
		rd := d.Redim(len(idx))
		for j, ix := range idx {
			n *= ix.Len(rd[j])
		}
	}
	if n != 1 {
		return Errorf(NonconformantArguments, "invalid number of elements on RHS of cell array assignment (%d selected)", n)
	}
	if err := c.a.Assign(idx, array.Scalar(v.Copy()), Value{}); err != nil {
		return FromArrayError(err)
	}
	c.fillHoles()
	return nil
}

// CSList represents the comma-separated list produced by c{:} or s.f on
// a struct array. It cannot be stored or further indexed.
type CSList struct {
	vals []Value
}

// NewCSListRep builds a cs-list from handles it takes shares of.
func NewCSListRep(vals []Value) *CSList { return &CSList{vals: vals} }

func (l *CSList) Kind() Kind { return KindCSList }
func (l *CSList) Dims() Dims { return Dims{1, len(l.vals)} }
func (l *CSList) Clone() Representation {
	out := make([]Value, len(l.vals))
	for i, v := range l.vals {
		out[i] = v.Copy()
	}
	return &CSList{vals: out}
}
func (l *CSList) Values() []Value { return l.vals }

// Len returns the element count.
func (l *CSList) Len() int { return len(l.vals) }
