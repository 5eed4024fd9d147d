package raster

import (
	"sort"

	"crustsim/core"
)

// Labels is one integer id per cell.
type Labels []int

// Mask is one indicator per cell.
type Mask []bool

func NewLabels(n int) Labels {
	return make(Labels, n)
}

func NewMask(n int) Mask {
	return make(Mask, n)
}

func ensureLabels(out Labels, n int) Labels {
	if out == nil {
		return NewLabels(n)
	}
	mustMatch(len(out), n)
	return out
}

func ensureMask(out Mask, n int) Mask {
	if out == nil {
		return NewMask(n)
	}
	mustMatch(len(out), n)
	return out
}

// Equal marks the cells whose label is v.
func Equal(labels Labels, v int, out Mask) Mask {
	out = ensureMask(out, len(labels))
	for i, l := range labels {
		out[i] = l == v
	}
	return out
}

// NotEqual marks the cells whose label is not v.
func NotEqual(labels Labels, v int, out Mask) Mask {
	out = ensureMask(out, len(labels))
	for i, l := range labels {
		out[i] = l != v
	}
	return out
}

// Unique returns the distinct labels in ascending order.
func Unique(labels Labels) []int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for l := range seen {
		ids = append(ids, l)
	}
	sort.Ints(ids)
	return ids
}

// FillIntoSelection copies labels into out, replacing selected cells with v.
func FillIntoSelection(labels Labels, v int, selection Mask, out Labels) Labels {
	mustMatch(len(labels), len(selection))
	out = ensureLabels(out, len(labels))
	for i := range out {
		if selection[i] {
			out[i] = v
		} else {
			out[i] = labels[i]
		}
	}
	return out
}

// Count returns the number of selected cells.
func Count(m Mask) int {
	n := 0
	for _, b := range m {
		if b {
			n++
		}
	}
	return n
}

// Difference marks cells set in a but not in b.
func Difference(a, b, out Mask) Mask {
	mustMatch(len(a), len(b))
	out = ensureMask(out, len(a))
	for i := range out {
		out[i] = a[i] && !b[i]
	}
	return out
}

// Union marks cells set in a or b.
func Union(a, b, out Mask) Mask {
	mustMatch(len(a), len(b))
	out = ensureMask(out, len(a))
	for i := range out {
		out[i] = a[i] || b[i]
	}
	return out
}

// Dilation grows mask by radius rings of neighbors. out may alias mask;
// scratch holds the previous ring and may not.
func Dilation(g *core.Grid, mask Mask, radius int, out, scratch Mask) Mask {
	g.MustMatch(len(mask), "dilation input")
	out = ensureMask(out, len(mask))
	scratch = ensureMask(scratch, len(mask))
	copy(out, mask)
	for r := 0; r < radius; r++ {
		copy(scratch, out)
		for _, a := range g.Arrows {
			if scratch[a[1]] {
				out[a[0]] = true
			}
		}
	}
	return out
}

// Erosion shrinks mask by radius rings: a cell survives a ring only if all
// of its neighbors were set. out may alias mask; scratch may not.
func Erosion(g *core.Grid, mask Mask, radius int, out, scratch Mask) Mask {
	g.MustMatch(len(mask), "erosion input")
	out = ensureMask(out, len(mask))
	scratch = ensureMask(scratch, len(mask))
	copy(out, mask)
	for r := 0; r < radius; r++ {
		copy(scratch, out)
		for _, a := range g.Arrows {
			if !scratch[a[1]] {
				out[a[0]] = false
			}
		}
	}
	return out
}

// Closing is a dilation followed by an erosion of the same radius. It fills
// holes and gaps narrower than the radius.
func Closing(g *core.Grid, mask Mask, radius int, out, scratch Mask) Mask {
	out = Dilation(g, mask, radius, out, scratch)
	return Erosion(g, out, radius, out, scratch)
}
