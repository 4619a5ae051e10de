package array

import (
	"math"
	"strconv"
	"strings"
)

// Dims holds the extents of an array, one per dimension. Arrays always have
// at least two dimensions; trailing singleton dimensions beyond the second
// are dropped by Shape.
type Dims []int

// Shape builds normalized dimensions from the given extents.
func Shape(d ...int) Dims {
	out := make(Dims, len(d))
	copy(out, d)
	return out.normalize()
}

func (d Dims) normalize() Dims {
	for len(d) < 2 {
		d = append(d, 1)
	}
	for len(d) > 2 && d[len(d)-1] == 1 {
		d = d[:len(d)-1]
	}
	return d
}

// Numel returns the number of elements.
func (d Dims) Numel() int {
	if len(d) == 0 {
		return 0
	}
	n := 1
	for _, x := range d {
		n *= x
	}
	return n
}

// MaxNumel is the largest element count an array may grow to.
const MaxNumel = math.MaxInt32

// checkedNumel returns the number of elements, or false when it exceeds
// MaxNumel.
func (d Dims) checkedNumel() (int, bool) {
	for _, x := range d {
		if x == 0 {
			return 0, true
		}
	}
	n := 1
	for _, x := range d {
		if n > MaxNumel/x {
			return 0, false
		}
		n *= x
	}
	return n, true
}

// Ndims returns the number of dimensions, never less than two.
func (d Dims) Ndims() int {
	if len(d) < 2 {
		return 2
	}
	return len(d)
}

// Rows returns the first extent.
func (d Dims) Rows() int {
	if len(d) == 0 {
		return 0
	}
	return d[0]
}

// Cols returns the second extent.
func (d Dims) Cols() int {
	if len(d) < 2 {
		return 1
	}
	return d[1]
}

// IsScalar reports a 1x1 shape.
func (d Dims) IsScalar() bool {
	return d.Numel() == 1
}

// IsVector reports a non-empty 2-D shape with one singleton dimension.
func (d Dims) IsVector() bool {
	return d.Ndims() == 2 && (d.Rows() == 1 || d.Cols() == 1) && d.Numel() >= 1
}

// IsEmpty reports a shape with no elements.
func (d Dims) IsEmpty() bool {
	return d.Numel() == 0
}

// IsZeroByZero reports the 0x0 shape of the [] literal.
func (d Dims) IsZeroByZero() bool {
	return d.Ndims() == 2 && d.Rows() == 0 && d.Cols() == 0
}

// Equal compares normalized dimensions.
func (d Dims) Equal(o Dims) bool {
	a, b := d.Clone().normalize(), o.Clone().normalize()
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

// Clone returns an independent copy.
func (d Dims) Clone() Dims {
	out := make(Dims, len(d))
	copy(out, d)
	return out
}

// Redim returns the dimensions viewed through n subscripts: trailing
// dimensions fold into the last one, missing ones are padded with 1.
func (d Dims) Redim(n int) Dims {
	if n <= 0 {
		return Dims{}
	}
	out := make(Dims, n)
	for i := 0; i < n; i++ {
		switch {
		case i < n-1 && i < len(d):
			out[i] = d[i]
		case i < n-1:
			out[i] = 1
		default:
			last := 1
			for j := i; j < len(d); j++ {
				last *= d[j]
			}
			out[i] = last
		}
	}
	return out
}

// String renders dimensions as "2x3".
func (d Dims) String() string {
	n := d.Clone().normalize()
	parts := make([]string, len(n))
	for i, x := range n {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, "x")
}

func (d Dims) strides() []int {
	s := make([]int, len(d))
	acc := 1
	for i, x := range d {
		s[i] = acc
		acc *= x
	}
	return s
}

func pad(d Dims, n int) Dims {
	out := d.Clone()
	for len(out) < n {
		out = append(out, 1)
	}
	return out
}
