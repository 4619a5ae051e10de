package conformance

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"silo/array"
	"silo/types"
)

// Literal is a value written in a scenario file. The short forms are
//
//	3            double scalar
//	true         logical scalar
//	"abc"        char row
//	[1, 5, 2]    double row
//	[[1, 2], [3, 4]]  double matrix, one list per row
//	[]           the [] literal
//
// and the long form is a mapping with a class:
//
//	{class: int8, value: [1, 2]}
//	{class: complex, value: [1, 0], imag: [0, 1]}
//	{class: range, base: 1, inc: 2, limit: 9}
//	{class: cell, dims: [1, 2], elems: [1, "x"]}
//	{class: struct, fields: {a: 1, b: "x"}}
//	{class: struct, elems: [{class: struct, fields: {a: 1}}, ...]}
//	{class: object, name: Meter, fields: {reading: 7}}
//	{class: handle, name: twice}
//	{ref: name}  a value defined in the suite's values block
type Literal struct {
	Class string

	rows  [][]float64
	imag  [][]float64
	bools bool
	text  string

	base, inc, limit float64
	dims             []int
	elems            []Literal
	keys             []string
	fields           []Literal
	name             string
	handle           bool
	ref              string
}

type literalForm struct {
	Class  string    `yaml:"class"`
	Value  yaml.Node `yaml:"value"`
	Imag   yaml.Node `yaml:"imag"`
	Base   float64   `yaml:"base"`
	Inc    float64   `yaml:"inc"`
	Limit  float64   `yaml:"limit"`
	Dims   []int     `yaml:"dims"`
	Elems  []Literal `yaml:"elems"`
	Fields yaml.Node `yaml:"fields"`
	Name   string    `yaml:"name"`
	Handle bool      `yaml:"handle"`
	Ref    string    `yaml:"ref"`
}

// UnmarshalYAML decodes the short and long forms.
func (l *Literal) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!str":
			l.Class, l.text = "char", n.Value
			return nil
		case "!!null":
			l.Class = "null"
			return nil
		}
		l.Class = "double"
		return l.decodeGrid(n)
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			l.Class = "null"
			return nil
		}
		l.Class = "double"
		return l.decodeGrid(n)
	case yaml.MappingNode:
		return l.decodeLong(n)
	}
	return errors.Errorf("line %d: unsupported literal", n.Line)
}

func (l *Literal) decodeLong(n *yaml.Node) error {
	var form literalForm
	if err := n.Decode(&form); err != nil {
		return err
	}
	l.Class = form.Class
	l.base, l.inc, l.limit = form.Base, form.Inc, form.Limit
	l.dims, l.elems = form.Dims, form.Elems
	l.name, l.handle = form.Name, form.Handle
	if form.Ref != "" {
		l.Class, l.ref = "ref", form.Ref
		return nil
	}
	if l.Class == "" {
		l.Class = "double"
	}
	if form.Value.Kind != 0 {
		if form.Value.Tag == "!!str" {
			l.text = form.Value.Value
		} else if err := l.decodeGrid(&form.Value); err != nil {
			return err
		}
	}
	if form.Imag.Kind != 0 {
		var im Literal
		if err := im.decodeGrid(&form.Imag); err != nil {
			return err
		}
		l.imag = im.rows
		if l.Class == "double" {
			l.Class = "complex"
		}
	}
	if form.Fields.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(form.Fields.Content); i += 2 {
			var f Literal
			if err := form.Fields.Content[i+1].Decode(&f); err != nil {
				return err
			}
			l.keys = append(l.keys, form.Fields.Content[i].Value)
			l.fields = append(l.fields, f)
		}
	}
	return nil
}

// decodeGrid reads a scalar, a row or a list of rows of numbers or
// booleans.
func (l *Literal) decodeGrid(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		f, b, err := scalarNumber(n)
		if err != nil {
			return err
		}
		l.rows, l.bools = [][]float64{{f}}, b
		return nil
	case yaml.SequenceNode:
		if len(n.Content) > 0 && n.Content[0].Kind == yaml.SequenceNode {
			for _, row := range n.Content {
				var r Literal
				if err := r.decodeGrid(row); err != nil {
					return err
				}
				if len(r.rows) != 1 {
					return errors.Errorf("line %d: nested rows", row.Line)
				}
				l.rows = append(l.rows, r.rows[0])
				l.bools = r.bools
			}
			return nil
		}
		row := make([]float64, len(n.Content))
		for i, c := range n.Content {
			f, b, err := scalarNumber(c)
			if err != nil {
				return err
			}
			row[i], l.bools = f, b
		}
		l.rows = [][]float64{row}
		return nil
	}
	return errors.Errorf("line %d: expected a number or a list of numbers", n.Line)
}

func scalarNumber(n *yaml.Node) (float64, bool, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, false, errors.Errorf("line %d: expected a number", n.Line)
	}
	if n.Tag == "!!bool" {
		var b bool
		if err := n.Decode(&b); err != nil {
			return 0, false, err
		}
		if b {
			return 1, true, nil
		}
		return 0, true, nil
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, false, errors.Wrapf(err, "line %d", n.Line)
	}
	return f, false, nil
}

// Build makes a fresh value. refs resolves {ref: name} literals.
func (l *Literal) Build(refs map[string]types.Value) (types.Value, error) {
	switch l.Class {
	case "ref":
		v, ok := refs[l.ref]
		if !ok {
			return types.Value{}, errors.Errorf("undefined value %q", l.ref)
		}
		return v.Copy(), nil
	case "undefined":
		return types.Value{}, nil
	case "null":
		return types.NewEmpty(), nil
	case "null_string":
		return types.NewEmptyString(), nil
	case "empty":
		return types.EmptyMatrix(), nil
	case "char":
		return types.NewString(l.text), nil
	case "handle":
		return types.NewFunctionHandle(l.name), nil
	case "range":
		return types.NewRange(l.base, l.inc, l.limit), nil
	case "cell":
		return l.buildCell(refs)
	case "struct":
		return l.buildStruct(refs)
	case "object":
		keys, vals, err := l.buildFields(refs)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewObject(l.name, l.handle, keys, vals), nil
	case "cs-list":
		vals, err := buildAll(l.elems, refs)
		if err != nil {
			return types.Value{}, err
		}
		out := types.NewCSList(vals)
		for i := range vals {
			vals[i].Release()
		}
		return out, nil
	}

	re, err := array.FromRows(l.rows)
	if err != nil {
		return types.Value{}, types.FromArrayError(err)
	}
	switch l.Class {
	case "double":
		if l.bools {
			return types.FromArray(array.Map(re, func(f float64) bool { return f != 0 })), nil
		}
		return types.FromArray(re), nil
	case "complex":
		im, err := array.FromRows(l.imag)
		if err != nil {
			return types.Value{}, types.FromArrayError(err)
		}
		if !im.Dims().Equal(re.Dims()) {
			return types.Value{}, errors.Errorf("imag is %s, value is %s", im.Dims(), re.Dims())
		}
		c := array.New[complex128](re.Dims())
		for i := range c.Data() {
			c.Set(i, complex(re.At(i), im.At(i)))
		}
		return types.FromArray(c), nil
	case "logical":
		return types.FromArray(array.Map(re, func(f float64) bool { return f != 0 })), nil
	case "single":
		return types.FromArray(array.Map(re, func(f float64) float32 { return float32(f) })), nil
	case "int8":
		return intArray[int8](re), nil
	case "int16":
		return intArray[int16](re), nil
	case "int32":
		return intArray[int32](re), nil
	case "int64":
		return intArray[int64](re), nil
	case "uint8":
		return intArray[uint8](re), nil
	case "uint16":
		return intArray[uint16](re), nil
	case "uint32":
		return intArray[uint32](re), nil
	case "uint64":
		return intArray[uint64](re), nil
	case "sparse":
		return types.NewSparse(re)
	case "diag":
		return types.Wrap(types.NewDiagRep(re.Data())), nil
	case "perm":
		p := make([]int, re.Numel())
		for i, f := range re.Data() {
			p[i] = int(f) - 1
		}
		return types.Wrap(types.NewPermRep(p)), nil
	}
	return types.Value{}, errors.Errorf("unknown literal class %q", l.Class)
}

func intArray[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](a *array.Dense[float64]) types.Value {
	return types.FromArray(array.Map(a, types.Saturate[T]))
}

func buildAll(lits []Literal, refs map[string]types.Value) ([]types.Value, error) {
	out := make([]types.Value, len(lits))
	for i := range lits {
		v, err := lits[i].Build(refs)
		if err != nil {
			for j := 0; j < i; j++ {
				out[j].Release()
			}
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (l *Literal) buildCell(refs map[string]types.Value) (types.Value, error) {
	vals, err := buildAll(l.elems, refs)
	if err != nil {
		return types.Value{}, err
	}
	rows, cols := 1, len(vals)
	if len(l.dims) == 2 {
		rows, cols = l.dims[0], l.dims[1]
	}
	if rows*cols != len(vals) {
		return types.Value{}, errors.Errorf("cell dims %v do not hold %d elements", l.dims, len(vals))
	}
	return types.NewCell(rows, cols, vals), nil
}

func (l *Literal) buildFields(refs map[string]types.Value) ([]string, []types.Value, error) {
	vals, err := buildAll(l.fields, refs)
	if err != nil {
		return nil, nil, err
	}
	return l.keys, vals, nil
}

// buildStruct makes a scalar struct from fields, or a 1xN struct array
// from elems.
func (l *Literal) buildStruct(refs map[string]types.Value) (types.Value, error) {
	if len(l.elems) == 0 {
		keys, vals, err := l.buildFields(refs)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewStruct(keys, vals), nil
	}
	var acc *types.StructArray
	for i := range l.elems {
		v, err := l.elems[i].Build(refs)
		if err != nil {
			return types.Value{}, err
		}
		s, ok := types.AsStructArray(v.Rep())
		v.Release()
		if !ok {
			return types.Value{}, errors.Errorf("struct element %d is %s", i+1, l.elems[i].Class)
		}
		if acc == nil {
			acc = s
			continue
		}
		if acc, err = types.CatStructs(2, acc, s); err != nil {
			return types.Value{}, err
		}
	}
	return types.Wrap(acc), nil
}
