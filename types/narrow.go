package types

import (
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// NarrowCategory names one family of narrowing rewrites.
type NarrowCategory int

const (
	// NarrowComplex drops an all-zero imaginary part.
	NarrowComplex NarrowCategory = iota
	// NarrowScalar turns single-element arrays into scalars.
	NarrowScalar
	// NarrowRange turns evenly spaced real rows into ranges.
	NarrowRange
	// NarrowDiag turns matrices that are zero off the diagonal into
	// diagonal matrices.
	NarrowDiag
	// NarrowPerm turns exact permutation matrices into permutation
	// matrices.
	NarrowPerm

	numNarrowCategories
)

var narrowNames = [numNarrowCategories]string{"complex", "scalar", "range", "diag", "perm"}

func (c NarrowCategory) String() string {
	if c < 0 || c >= numNarrowCategories {
		return "unknown"
	}
	return narrowNames[c]
}

// ParseNarrowCategory converts a name like "range" to a category.
func ParseNarrowCategory(s string) (NarrowCategory, error) {
	for c, name := range narrowNames {
		if strings.EqualFold(s, name) {
			return NarrowCategory(c), nil
		}
	}
	return 0, errors.Errorf("unknown narrowing category %q", s)
}

// NarrowMask is a set of enabled categories.
type NarrowMask uint8

// Has reports whether c is in the set.
func (m NarrowMask) Has(c NarrowCategory) bool { return m&(1<<c) != 0 }

const allNarrowing NarrowMask = 1<<numNarrowCategories - 1

// resultNarrowing is the subset applied to operator results.
const resultNarrowing NarrowMask = 1<<NarrowComplex | 1<<NarrowScalar

var narrowingDisabled atomic.Uint32

// SetNarrowing enables or disables a category process-wide.
func SetNarrowing(c NarrowCategory, enabled bool) {
	for {
		old := narrowingDisabled.Load()
		next := old | 1<<c
		if enabled {
			next = old &^ (1 << c)
		}
		if narrowingDisabled.CompareAndSwap(old, next) {
			return
		}
	}
}

// NarrowingEnabled reports whether a category is enabled.
func NarrowingEnabled(c NarrowCategory) bool {
	return narrowingDisabled.Load()&(1<<c) == 0
}

// ResetNarrowing enables every category.
func ResetNarrowing() {
	narrowingDisabled.Store(0)
}

func currentMask(subset NarrowMask) NarrowMask {
	return subset &^ NarrowMask(narrowingDisabled.Load())
}

// Narrow replaces r with its cheapest lossless equivalent using every
// enabled category. Literal constructors call it once on their result.
func Narrow(r Representation) Representation {
	return narrowWith(r, currentMask(allNarrowing))
}

// NarrowResult applies the result subset (complex and scalar) to an
// operator result.
func NarrowResult(r Representation) Representation {
	return narrowWith(r, currentMask(resultNarrowing))
}

func narrowWith(r Representation, mask NarrowMask) Representation {
	if mask == 0 {
		return r
	}
	for i := 0; i < int(numNarrowCategories); i++ {
		n, ok := r.(Narrower)
		if !ok {
			return r
		}
		next := n.Narrow(mask)
		if next == r {
			return r
		}
		r = next
	}
	return r
}
