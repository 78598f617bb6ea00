// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/geometry.go
// Summary: Maps a pane tree onto integer cell rectangles and divider moves.
// Usage: Used by front ends to place panes and translate border drags into sizes.

package texel

// Rect is an integer cell rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Geometry holds the rectangles computed for every node of a tree.
type Geometry struct {
	Panes  map[PaneID]Rect
	Splits map[SplitID]Rect
}

// Layout distributes area over the tree according to split sizes. The last
// child of each split absorbs rounding so children tile the parent exactly.
func Layout(root Pane, area Rect) Geometry {
	g := Geometry{
		Panes:  make(map[PaneID]Rect),
		Splits: make(map[SplitID]Rect),
	}
	layoutNode(root, area, g)
	return g
}

func layoutNode(node Pane, area Rect, g Geometry) {
	switch n := node.(type) {
	case *Leaf:
		g.Panes[n.ID] = area
	case *Split:
		g.Splits[n.ID] = area
		count := len(n.Children)
		if count == 0 || len(n.Sizes) != count {
			debugLog.Printf("Layout: split %d has %d children and %d sizes", n.ID, count, len(n.Sizes))
			return
		}
		ratios := renormalize(n.Sizes)
		if n.Direction == Horizontal {
			x := area.X
			for i, child := range n.Children {
				w := int(float64(area.W) * ratios[i] / 100)
				if i == count-1 {
					w = area.W - (x - area.X)
				}
				layoutNode(child, Rect{X: x, Y: area.Y, W: w, H: area.H}, g)
				x += w
			}
			return
		}
		y := area.Y
		for i, child := range n.Children {
			h := int(float64(area.H) * ratios[i] / 100)
			if i == count-1 {
				h = area.H - (y - area.Y)
			}
			layoutNode(child, Rect{X: area.X, Y: y, W: area.W, H: h}, g)
			y += h
		}
	}
}

// LeafAt returns the id of the leaf whose rectangle contains (x, y).
func (g Geometry) LeafAt(x, y int) (PaneID, bool) {
	for id, r := range g.Panes {
		if r.Contains(x, y) {
			return id, true
		}
	}
	return 0, false
}

// ParentOf returns the split directly containing ref and the child index, or
// nil when ref is the root or absent.
func ParentOf(root Pane, ref NodeRef) (*Split, int) {
	var (
		parent *Split
		index  = -1
	)
	Walk(root, func(p Pane) bool {
		s, ok := p.(*Split)
		if !ok {
			return true
		}
		for i, child := range s.Children {
			if child.Ref() == ref {
				parent, index = s, i
				return false
			}
		}
		return true
	})
	return parent, index
}

// MoveDivider shifts the boundary between sizes[index] and sizes[index+1] by
// delta percentage points. Both neighbours stay at or above minSize and the
// other entries are untouched, so the total is preserved. Out of range
// indexes return a copy of sizes.
func MoveDivider(sizes []float64, index int, delta, minSize float64) []float64 {
	out := cloneSizes(sizes)
	if index < 0 || index+1 >= len(out) {
		return out
	}
	pair := out[index] + out[index+1]
	if minSize*2 > pair {
		minSize = pair / 2
	}
	first := out[index] + delta
	if first < minSize {
		first = minSize
	}
	if first > pair-minSize {
		first = pair - minSize
	}
	out[index] = first
	out[index+1] = pair - first
	return out
}
