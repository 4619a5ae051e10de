package array

import "github.com/pkg/errors"

// Index reads the elements selected by idx. One index addresses elements
// linearly; several address them by subscript.
func (a *Dense[T]) Index(idx []Index) (*Dense[T], error) {
	switch len(idx) {
	case 0:
		return a.Clone(), nil
	case 1:
		return a.index1(idx[0])
	default:
		return a.indexN(idx)
	}
}

func (a *Dense[T]) index1(ix Index) (*Dense[T], error) {
	n := len(a.data)
	if ix.IsColon() {
		out := New[T](Dims{n, 1})
		copy(out.data, a.data)
		return out, nil
	}
	if m := ix.Max(); m >= n {
		return nil, &BoundError{Pos: m + 1, Ext: n, Nidx: 1, Dims: a.dims.Clone()}
	}
	cnt := ix.Len(n)
	shape := ix.Shape(n)
	// A vector indexed by a vector keeps the source orientation.
	if a.dims.IsVector() && n > 1 && shape.IsVector() {
		if a.dims.Rows() == 1 {
			shape = Dims{1, cnt}
		} else {
			shape = Dims{cnt, 1}
		}
	}
	out := New[T](shape)
	for k := 0; k < cnt; k++ {
		out.data[k] = a.data[ix.Pos(k)]
	}
	return out, nil
}

func (a *Dense[T]) indexN(idx []Index) (*Dense[T], error) {
	k := len(idx)
	d := a.dims.Redim(k)
	lens := make(Dims, k)
	for j, ix := range idx {
		if m := ix.Max(); m >= d[j] {
			return nil, &BoundError{Pos: m + 1, Ext: d[j], Dim: j + 1, Nidx: k, Dims: a.dims.Clone()}
		}
		lens[j] = ix.Len(d[j])
	}
	out := New[T](lens)
	if len(out.data) == 0 {
		return out, nil
	}
	strides := d.strides()
	sub := make([]int, k)
	for i := range out.data {
		off := 0
		for j := 0; j < k; j++ {
			off += idx[j].Pos(sub[j]) * strides[j]
		}
		out.data[i] = a.data[off]
		step(sub, lens)
	}
	return out, nil
}

// Assign writes src at idx, growing the array when a position falls past
// its extent. A single-element src is broadcast. New positions take fill.
// Nothing is modified when an error is returned.
func (a *Dense[T]) Assign(idx []Index, src *Dense[T], fill T) error {
	switch len(idx) {
	case 0:
		return errors.Wrap(ErrNonconformant, "=: no index given")
	case 1:
		return a.assign1(idx[0], src, fill)
	default:
		return a.assignN(idx, src, fill)
	}
}

func (a *Dense[T]) assign1(ix Index, src *Dense[T], fill T) error {
	n := len(a.data)
	cnt := ix.Len(n)
	if src.Numel() != 1 && src.Numel() != cnt {
		return &ConformError{Op: "=", A: ix.Shape(n), B: src.dims.Clone()}
	}
	if ext := ix.Max() + 1; ext > n {
		var nd Dims
		switch {
		case n == 0:
			if a.dims.Cols() == 1 && a.dims.Rows() == 0 && a.dims.Ndims() == 2 && !a.dims.IsZeroByZero() {
				nd = Dims{ext, 1}
			} else {
				nd = Dims{1, ext}
			}
		case a.dims.Ndims() == 2 && a.dims.Rows() == 1:
			nd = Dims{1, ext}
		case a.dims.Ndims() == 2 && a.dims.Cols() == 1:
			nd = Dims{ext, 1}
		default:
			return errors.Wrapf(ErrResize, "Octave:index-out-of-bounds: A(I) = X: X must have the same size as I; out of bound %d (dimensions are %s)", ext, a.dims)
		}
		if err := a.resize(nd, fill); err != nil {
			return err
		}
	}
	one := src.Numel() == 1
	for k := 0; k < cnt; k++ {
		if one {
			a.data[ix.Pos(k)] = src.data[0]
		} else {
			a.data[ix.Pos(k)] = src.data[k]
		}
	}
	return nil
}

func (a *Dense[T]) assignN(idx []Index, src *Dense[T], fill T) error {
	k := len(idx)
	d := a.dims.Redim(k)
	sd := pad(src.dims, k)
	nd := make(Dims, k)
	lens := make(Dims, k)
	for j, ix := range idx {
		switch {
		case ix.IsColon() && d[j] == 0 && a.Numel() == 0:
			// A colon over an empty dimension takes its extent from src.
			if src.Numel() == 1 {
				nd[j] = 1
			} else {
				nd[j] = sd[j]
			}
		case ix.IsColon():
			nd[j] = d[j]
		default:
			nd[j] = max(d[j], ix.Max()+1)
		}
		lens[j] = ix.Len(nd[j])
	}
	if src.Numel() != 1 && src.Numel() != lens.Numel() {
		return &ConformError{Op: "=", A: lens, B: src.dims.Clone()}
	}
	if !nd.Equal(d) {
		if k < a.dims.Ndims() && nd[k-1] != d[k-1] {
			return errors.Wrapf(ErrResize, "A(...) = X: cannot grow folded dimension %d of %s array", k, a.dims)
		}
		grown := nd
		if k < len(a.dims) {
			grown = append(nd[:k-1:k-1], a.dims[k-1:]...)
		}
		if err := a.resize(grown, fill); err != nil {
			return err
		}
	}
	if lens.Numel() == 0 {
		return nil
	}
	strides := a.dims.Redim(k).strides()
	sub := make([]int, k)
	one := src.Numel() == 1
	for i := 0; i < lens.Numel(); i++ {
		off := 0
		for j := 0; j < k; j++ {
			off += idx[j].Pos(sub[j]) * strides[j]
		}
		if one {
			a.data[off] = src.data[0]
		} else {
			a.data[off] = src.data[i]
		}
		step(sub, lens)
	}
	return nil
}

// Resize changes the dimensions in place, keeping elements at their
// subscripts and filling new positions with fill. It fails with
// ErrTooLarge when the new shape holds more than MaxNumel elements.
func (a *Dense[T]) Resize(nd Dims, fill T) error {
	return a.resize(nd, fill)
}

func (a *Dense[T]) resize(nd Dims, fill T) error {
	nd = nd.Clone().normalize()
	if nd.Equal(a.dims) {
		return nil
	}
	numel, ok := nd.checkedNumel()
	if !ok {
		return errors.Wrapf(ErrTooLarge, "resize to %s", nd)
	}
	data := make([]T, numel)
	for i := range data {
		data[i] = fill
	}
	if len(a.data) > 0 && len(data) > 0 {
		n := max(len(a.dims), len(nd))
		od, pd := pad(a.dims, n), pad(nd, n)
		ps := pd.strides()
		sub := make([]int, n)
		for i := range a.data {
			off, ok := 0, true
			for j := 0; j < n; j++ {
				if sub[j] >= pd[j] {
					ok = false
					break
				}
				off += sub[j] * ps[j]
			}
			if ok {
				data[off] = a.data[i]
			}
			step(sub, od)
		}
	}
	a.dims, a.data = nd, data
	return nil
}

// Delete removes the elements selected by idx in place. A linear index
// leaves a row (or a column when the array was one); subscripts may
// restrict at most one dimension.
func (a *Dense[T]) Delete(idx []Index) error {
	switch len(idx) {
	case 0:
		return nil
	case 1:
		return a.delete1(idx[0])
	default:
		return a.deleteN(idx)
	}
}

func (a *Dense[T]) delete1(ix Index) error {
	n := len(a.data)
	if ix.IsColon() {
		a.dims, a.data = Dims{0, 0}, nil
		return nil
	}
	if m := ix.Max(); m >= n {
		return &BoundError{Pos: m + 1, Ext: n, Nidx: 1, Dims: a.dims.Clone()}
	}
	if ix.Len(n) == 0 {
		return nil
	}
	drop := make([]bool, n)
	for _, p := range ix.pos {
		drop[p] = true
	}
	keep := make([]T, 0, n)
	for i, v := range a.data {
		if !drop[i] {
			keep = append(keep, v)
		}
	}
	if a.dims.Ndims() == 2 && a.dims.Cols() == 1 && a.dims.Rows() != 1 {
		a.dims = Dims{len(keep), 1}
	} else {
		a.dims = Dims{1, len(keep)}
	}
	a.data = keep
	return nil
}

func (a *Dense[T]) deleteN(idx []Index) error {
	k := len(idx)
	d := a.dims.Redim(k)
	target := -1
	for j, ix := range idx {
		if m := ix.Max(); m >= d[j] {
			return &BoundError{Pos: m + 1, Ext: d[j], Dim: j + 1, Nidx: k, Dims: a.dims.Clone()}
		}
		if ix.Covers(d[j]) {
			continue
		}
		if target >= 0 {
			return errors.Wrap(ErrNullAssign, "a null assignment can only have one non-colon index")
		}
		target = j
	}
	if target < 0 {
		nd := d.Clone()
		nd[0] = 0
		a.dims, a.data = nd.normalize(), nil
		return nil
	}
	drop := make([]bool, d[target])
	for _, p := range idx[target].pos {
		drop[p] = true
	}
	remaining := 0
	for _, x := range drop {
		if !x {
			remaining++
		}
	}
	nd := d.Clone()
	nd[target] = remaining
	data := make([]T, 0, nd.Numel())
	sub := make([]int, k)
	for i := range a.data {
		if !drop[sub[target]] {
			data = append(data, a.data[i])
		}
		step(sub, d)
	}
	a.dims, a.data = nd.normalize(), data
	return nil
}

// Cat concatenates parts along the one-based dimension dim. 0x0 parts are
// skipped.
func Cat[T any](dim int, parts ...*Dense[T]) (*Dense[T], error) {
	var live []*Dense[T]
	for _, p := range parts {
		if !p.dims.IsZeroByZero() {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return New[T](Dims{0, 0}), nil
	}
	n := max(dim, 2)
	for _, p := range live {
		n = max(n, len(p.dims))
	}
	first := pad(live[0].dims, n)
	total := 0
	for _, p := range live {
		pd := pad(p.dims, n)
		for j := 0; j < n; j++ {
			if j != dim-1 && pd[j] != first[j] {
				return nil, &CatError{Dim: dim, A: live[0].dims.Clone(), B: p.dims.Clone()}
			}
		}
		total += pd[dim-1]
	}
	nd := first.Clone()
	nd[dim-1] = total
	pre := 1
	for j := 0; j < dim-1; j++ {
		pre *= first[j]
	}
	post := 1
	for j := dim; j < n; j++ {
		post *= first[j]
	}
	out := New[T](nd)
	off := 0
	for q := 0; q < post; q++ {
		for _, p := range live {
			block := pre * pad(p.dims, n)[dim-1]
			copy(out.data[off:off+block], p.data[q*block:(q+1)*block])
			off += block
		}
	}
	return out, nil
}
