package types

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"silo/array"
)

// Format renders a value as a compact, expression-like string for
// diagnostics and test output.
func Format(v Value) string {
	var sb strings.Builder
	formatRep(&sb, v.Rep())
	return sb.String()
}

func formatRep(sb *strings.Builder, r Representation) {
	k := r.Kind()
	switch x := r.(type) {
	case undefined:
		sb.WriteString("<undefined>")
		return
	case *Null:
		if k == KindNullString {
			sb.WriteString("''")
		} else {
			sb.WriteString("[]")
		}
		return
	case *Cell:
		formatCell(sb, x)
		return
	case *ScalarStruct:
		sb.WriteString("struct(")
		for i, key := range x.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("'" + key + "', ")
			formatRep(sb, x.vals[i].Rep())
		}
		sb.WriteString(")")
		return
	case *StructArray:
		sb.WriteString(x.Dims().String() + " struct array with fields: " + strings.Join(x.keys, ", "))
		return
	case *Object:
		sb.WriteString("<" + x.class + " object>")
		return
	case *FunctionHandle:
		if x.IsAnonymous() {
			sb.WriteString("@(" + strings.Join(x.params, ", ") + ") " + x.body)
		} else {
			sb.WriteString("@" + x.name)
		}
		return
	case *CSList:
		sb.WriteString("cs-list(")
		for i, v := range x.vals {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatRep(sb, v.Rep())
		}
		sb.WriteString(")")
		return
	case *Range:
		if x.n > 1 {
			sb.WriteString(formatReal(x.base) + ":" + formatReal(x.inc) + ":" + formatReal(x.elem(x.n-1)))
			return
		}
	}
	if k == KindCharString {
		formatChar(sb, r)
		return
	}
	wrap := ""
	switch {
	case IsIntegerKind(k), IsSingleKind(k):
		wrap = k.ClassName()
	case IsSparseKind(k):
		wrap = "sparse"
	case IsBoolKind(k):
		wrap = "logical"
	}
	if wrap != "" {
		sb.WriteString(wrap + "(")
	}
	formatNumeric(sb, r)
	if wrap != "" {
		sb.WriteString(")")
	}
}

func formatNumeric(sb *strings.Builder, r Representation) {
	k := r.Kind()
	switch {
	case IsIntegerKind(k) && isUnsignedKind(k):
		if a, err := ElementsOf[uint64](r); err == nil {
			formatGrid(sb, r, a, func(v uint64) string { return strconv.FormatUint(v, 10) })
			return
		}
	case IsIntegerKind(k):
		if a, err := ElementsOf[int64](r); err == nil {
			formatGrid(sb, r, a, func(v int64) string { return strconv.FormatInt(v, 10) })
			return
		}
	}
	a, err := ElementsOf[complex128](r)
	if err != nil {
		sb.WriteString("<" + k.String() + ">")
		return
	}
	cplx := IsComplexKind(k)
	bits := 64
	if IsSingleKind(k) {
		bits = 32
	}
	formatGrid(sb, r, a, func(c complex128) string {
		if cplx {
			return formatComplex(c, bits)
		}
		return formatFloat(real(c), bits)
	})
}

func isUnsignedKind(k Kind) bool {
	switch MatrixKind(k) {
	case KindUint8Matrix, KindUint16Matrix, KindUint32Matrix, KindUint64Matrix:
		return true
	}
	return false
}

func formatGrid[T Elem](sb *strings.Builder, r Representation, a *array.Dense[T], elem func(T) string) {
	d := a.Dims()
	switch {
	case d.Ndims() > 2:
		sb.WriteString(d.String() + " " + ClassNameOf(r) + " array")
	case d.IsZeroByZero():
		sb.WriteString("[]")
	case d.IsEmpty():
		sb.WriteString("zeros(" + strconv.Itoa(d.Rows()) + ", " + strconv.Itoa(d.Cols()) + ")")
	case d.IsScalar():
		sb.WriteString(elem(a.At(0)))
	default:
		sb.WriteString("[")
		for i := 0; i < d.Rows(); i++ {
			if i > 0 {
				sb.WriteString("; ")
			}
			for j := 0; j < d.Cols(); j++ {
				if j > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(elem(a.At2(i, j)))
			}
		}
		sb.WriteString("]")
	}
}

func formatChar(sb *strings.Builder, r Representation) {
	a, _ := ElementsOf[uint16](r)
	d := a.Dims()
	if d.Ndims() > 2 {
		sb.WriteString(d.String() + " char array")
		return
	}
	row := func(i int) string {
		units := make([]uint16, d.Cols())
		for j := range units {
			units[j] = a.At2(i, j)
		}
		return "'" + strings.ReplaceAll(string(utf16.Decode(units)), "'", "''") + "'"
	}
	switch d.Rows() {
	case 0:
		sb.WriteString("''")
	case 1:
		sb.WriteString(row(0))
	default:
		sb.WriteString("[")
		for i := 0; i < d.Rows(); i++ {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(row(i))
		}
		sb.WriteString("]")
	}
}

func formatCell(sb *strings.Builder, c *Cell) {
	d := c.a.Dims()
	if d.Ndims() > 2 {
		sb.WriteString(d.String() + " cell array")
		return
	}
	if d.IsEmpty() {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{")
	for i := 0; i < d.Rows(); i++ {
		if i > 0 {
			sb.WriteString("; ")
		}
		for j := 0; j < d.Cols(); j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			formatRep(sb, c.a.At2(i, j).Rep())
		}
	}
	sb.WriteString("}")
}

func formatReal(f float64) string { return formatFloat(f, 64) }

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func formatComplex(c complex128, bits int) string {
	im := imag(c)
	sign := "+"
	if im < 0 || (im == 0 && math.Signbit(im)) {
		sign = "-"
		im = -im
	}
	return formatFloat(real(c), bits) + sign + formatFloat(im, bits) + "i"
}
