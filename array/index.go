package array

// Index selects positions along one subscript, or linearly when it is the
// only subscript. Positions are zero-based.
type Index struct {
	colon bool
	pos   []int
	shape Dims
}

// Colon selects every position.
func Colon() Index {
	return Index{colon: true}
}

// Positions selects the given zero-based positions. shape records the
// orientation of the index expression; nil means a row.
func Positions(pos []int, shape Dims) Index {
	if shape == nil {
		shape = Dims{1, len(pos)}
	}
	return Index{pos: pos, shape: shape}
}

// At selects a single position.
func At(p int) Index {
	return Index{pos: []int{p}, shape: Dims{1, 1}}
}

// IsColon reports the magic colon.
func (ix Index) IsColon() bool { return ix.colon }

// Len returns how many positions the index selects against an extent.
func (ix Index) Len(ext int) int {
	if ix.colon {
		return ext
	}
	return len(ix.pos)
}

// Pos returns the k-th selected position.
func (ix Index) Pos(k int) int {
	if ix.colon {
		return k
	}
	return ix.pos[k]
}

// Max returns the largest selected position, or -1 when nothing is selected.
func (ix Index) Max() int {
	m := -1
	for _, p := range ix.pos {
		if p > m {
			m = p
		}
	}
	return m
}

// Shape returns the orientation of the index expression.
func (ix Index) Shape(ext int) Dims {
	if ix.colon {
		return Dims{ext, 1}
	}
	return ix.shape
}

// Covers reports whether the index selects every position of an extent
// exactly once, in any order.
func (ix Index) Covers(ext int) bool {
	if ix.colon {
		return true
	}
	if len(ix.pos) != ext {
		return false
	}
	seen := make([]bool, ext)
	for _, p := range ix.pos {
		if p < 0 || p >= ext || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}
