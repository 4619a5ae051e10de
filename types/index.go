package types

import (
	"math"

	"silo/array"
)

// ToIndex converts one subscript value to zero-based positions. pos and n
// give the subscript's place among n subscripts, for messages.
func ToIndex(v Value, pos, n int) (array.Index, error) {
	r := v.Rep()
	switch k := r.Kind(); {
	case k == KindCharString:
		if s, err := AsString(v); err == nil && s == ":" {
			return array.Colon(), nil
		}
		a, _ := ElementsOf[float64](r)
		return positions(a, pos, n)
	case IsBoolKind(k):
		a, err := ElementsOf[bool](r)
		if err != nil {
			return array.Index{}, err
		}
		return mask(a), nil
	case k == KindNullMatrix || k == KindNullString:
		return array.Positions(nil, Dims{0, 0}), nil
	case IsComplexKind(k):
		return array.Index{}, Errorf(InvalidIndexType, "%s: subscripts must be real (forgot to initialize i or j?)", subscriptLabel(pos, n))
	case IsNumericKind(k):
		a, err := ElementsOf[float64](r)
		if err != nil {
			return array.Index{}, err
		}
		return positions(a, pos, n)
	case k == KindUndefined:
		return array.Index{}, Errorf(Undefined, "%s: index value is undefined", subscriptLabel(pos, n))
	}
	return array.Index{}, Errorf(InvalidIndexType, "%s: subscripts must be either integers 1 to (2^63)-1 or logicals, not '%s'", subscriptLabel(pos, n), r.Kind())
}

// ToIndices converts a subscript list.
func ToIndices(args []Value) ([]array.Index, error) {
	out := make([]array.Index, len(args))
	for i, a := range args {
		ix, err := ToIndex(a, i, len(args))
		if err != nil {
			return nil, err
		}
		out[i] = ix
	}
	return out, nil
}

func positions(a *array.Dense[float64], pos, n int) (array.Index, error) {
	data := a.Data()
	out := make([]int, len(data))
	for i, f := range data {
		switch {
		case math.IsNaN(f):
			return array.Index{}, Errorf(InvalidIndexType, "%s: subscripts must be either integers 1 to (2^63)-1 or logicals (NaN)", subscriptLabel(pos, n))
		case f != math.Trunc(f):
			return array.Index{}, Errorf(InvalidIndexType, "%s: subscripts must be either integers 1 to (2^63)-1 or logicals (%g)", subscriptLabel(pos, n), f)
		case f < 1:
			return array.Index{}, Errorf(IndexOutOfRange, "index (%s): out of bound; value %g out of bound", subscriptPlace(pos, n, f), f)
		case math.IsInf(f, 1) || f > math.MaxInt32*float64(1<<20):
			return array.Index{}, Errorf(IndexOutOfRange, "index (%s): out of bound; value %g out of bound", subscriptPlace(pos, n, f), f)
		}
		out[i] = int(f) - 1
	}
	return array.Positions(out, a.Dims()), nil
}

// mask selects the true positions of a logical array. A row mask gives a
// row index, anything else a column.
func mask(a *array.Dense[bool]) array.Index {
	var out []int
	for i, b := range a.Data() {
		if b {
			out = append(out, i)
		}
	}
	d := a.Dims()
	if d.Ndims() == 2 && d.Rows() == 1 {
		return array.Positions(out, Dims{1, len(out)})
	}
	return array.Positions(out, Dims{len(out), 1})
}

func subscriptLabel(pos, n int) string {
	if n <= 1 {
		return "index (_)"
	}
	return "index (" + subscriptPlace(pos, n, math.NaN()) + ")"
}

// subscriptPlace renders "_,3" style positions for messages.
func subscriptPlace(pos, n int, f float64) string {
	val := "_"
	if !math.IsNaN(f) {
		val = formatReal(f)
	}
	if n <= 1 {
		return val
	}
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		if i == pos {
			s += val
		} else {
			s += "_"
		}
	}
	return s
}
