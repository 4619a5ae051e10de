package array

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfBound marks a read past the extent of an array.
	ErrOutOfBound = errors.New("index out of bound")
	// ErrNonconformant marks operands whose shapes do not agree.
	ErrNonconformant = errors.New("nonconformant arguments")
	// ErrResize marks a write that would need an ambiguous resize.
	ErrResize = errors.New("invalid resizing operation")
	// ErrNullAssign marks a deletion the shape cannot express.
	ErrNullAssign = errors.New("invalid null assignment")
	// ErrTooLarge marks a resize past MaxNumel elements.
	ErrTooLarge = errors.New("out of memory or dimension too large")
	// ErrNotTwoD marks an operation defined only for 2-D arrays.
	ErrNotTwoD = errors.New("operation not defined for N-D arrays")
)

// BoundError reports an out-of-bound position.
type BoundError struct {
	Pos  int // one-based position that failed
	Ext  int // extent it was checked against
	Dim  int // one-based subscript, 0 for linear indexing
	Nidx int // number of subscripts
	Dims Dims
}

func (e *BoundError) Error() string {
	var lbl string
	if e.Dim == 0 || e.Nidx <= 1 {
		lbl = fmt.Sprintf("index (%d)", e.Pos)
	} else {
		parts := make([]string, e.Nidx)
		for i := range parts {
			parts[i] = "_"
		}
		parts[e.Dim-1] = fmt.Sprint(e.Pos)
		lbl = "index (" + strings.Join(parts, ",") + ")"
	}
	return fmt.Sprintf("%s: out of bound; value %d out of bound %d (dimensions are %s)", lbl, e.Pos, e.Ext, e.Dims)
}

func (e *BoundError) Unwrap() error { return ErrOutOfBound }

// ConformError reports operands whose shapes do not agree.
type ConformError struct {
	Op   string
	A, B Dims
}

func (e *ConformError) Error() string {
	return fmt.Sprintf("operator %s: nonconformant arguments (op1 is %s, op2 is %s)", e.Op, e.A, e.B)
}

func (e *ConformError) Unwrap() error { return ErrNonconformant }

// CatError reports a concatenation whose operands do not line up.
type CatError struct {
	Dim  int
	A, B Dims
}

func (e *CatError) Error() string {
	dir := "vertical"
	if e.Dim == 2 {
		dir = "horizontal"
	} else if e.Dim > 2 {
		dir = fmt.Sprintf("dimension %d", e.Dim)
	}
	return fmt.Sprintf("%s dimensions mismatch (%s vs %s)", dir, e.A, e.B)
}

func (e *CatError) Unwrap() error { return ErrNonconformant }
