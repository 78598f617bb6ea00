// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/tree.go
// Summary: Pane tree engine: split, close and resize over immutable trees.
// Usage: Called by TabStore on the root of the addressed terminal tab.
// Notes: Every function returns a new root and leaves its input untouched.
// Unresolved ids return the input tree and NotFound.

package texel

// Result reports whether a mutation changed anything.
type Result int

const (
	// NotFound means an id did not resolve; nothing changed.
	NotFound Result = iota
	// Applied means a new tree or snapshot was produced.
	Applied
	// Rejected means the ids resolved but the request would break an invariant.
	Rejected
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	default:
		return "not_found"
	}
}

// SplitPane inserts fresh next to the leaf target along dir.
//
// When target sits directly inside a split of the same direction, fresh is
// inserted right after it and every size at that level is reset to an equal
// share. Otherwise target's slot is taken over by a new two-way split of dir
// holding target and fresh at 50/50; the parent's sizes are untouched. Only the
// direct parent is considered: a matching ancestor further up is never used.
func SplitPane(root Pane, target PaneID, dir Direction, fresh *Leaf, ids SplitIDSource) (Pane, Result) {
	if root == nil || fresh == nil || ids == nil {
		return root, NotFound
	}
	updated, ok := splitNode(root, target, dir, fresh, ids)
	if !ok {
		return root, NotFound
	}
	return updated, Applied
}

func splitNode(node Pane, target PaneID, dir Direction, fresh *Leaf, ids SplitIDSource) (Pane, bool) {
	switch n := node.(type) {
	case *Leaf:
		if n.ID != target {
			return node, false
		}
		return pairSplit(n, fresh, dir, ids), true

	case *Split:
		for i, child := range n.Children {
			leaf, ok := child.(*Leaf)
			if !ok || leaf.ID != target {
				continue
			}
			if n.Direction == dir {
				children := make([]Pane, 0, len(n.Children)+1)
				children = append(children, n.Children[:i+1]...)
				children = append(children, fresh)
				children = append(children, n.Children[i+1:]...)
				return &Split{
					ID:        n.ID,
					Direction: n.Direction,
					Children:  children,
					Sizes:     equalSizes(len(children)),
				}, true
			}
			children := cloneChildren(n.Children)
			children[i] = pairSplit(leaf, fresh, dir, ids)
			return &Split{
				ID:        n.ID,
				Direction: n.Direction,
				Children:  children,
				Sizes:     cloneSizes(n.Sizes),
			}, true
		}

		for i, child := range n.Children {
			if _, ok := child.(*Split); !ok {
				continue
			}
			updated, ok := splitNode(child, target, dir, fresh, ids)
			if !ok {
				continue
			}
			children := cloneChildren(n.Children)
			children[i] = updated
			return &Split{
				ID:        n.ID,
				Direction: n.Direction,
				Children:  children,
				Sizes:     cloneSizes(n.Sizes),
			}, true
		}
	}
	return node, false
}

func pairSplit(existing, fresh *Leaf, dir Direction, ids SplitIDSource) *Split {
	return &Split{
		ID:        ids.NextSplitID(),
		Direction: dir,
		Children:  []Pane{existing, fresh},
		Sizes:     []float64{50, 50},
	}
}

// ClosePane removes the leaf target. It returns nil when the tree becomes
// empty. A split that loses a child renormalises the remaining sizes pro-rata
// so they sum to 100 again, and a split left with a single child is replaced
// by that child.
func ClosePane(root Pane, target PaneID) (Pane, Result) {
	if root == nil {
		return nil, NotFound
	}
	updated, ok := closeNode(root, target)
	if !ok {
		return root, NotFound
	}
	return updated, Applied
}

func closeNode(node Pane, target PaneID) (Pane, bool) {
	switch n := node.(type) {
	case *Leaf:
		if n.ID == target {
			return nil, true
		}
		return node, false

	case *Split:
		for i, child := range n.Children {
			updated, ok := closeNode(child, target)
			if !ok {
				continue
			}
			if updated != nil {
				children := cloneChildren(n.Children)
				children[i] = updated
				return &Split{
					ID:        n.ID,
					Direction: n.Direction,
					Children:  children,
					Sizes:     cloneSizes(n.Sizes),
				}, true
			}

			children := make([]Pane, 0, len(n.Children)-1)
			children = append(children, n.Children[:i]...)
			children = append(children, n.Children[i+1:]...)
			switch len(children) {
			case 0:
				return nil, true
			case 1:
				return children[0], true
			}

			sizes := make([]float64, 0, len(n.Sizes))
			for j, size := range n.Sizes {
				if j != i {
					sizes = append(sizes, size)
				}
			}
			return &Split{
				ID:        n.ID,
				Direction: n.Direction,
				Children:  children,
				Sizes:     renormalize(sizes),
			}, true
		}
	}
	return node, false
}

// renormalize rescales sizes so they sum to 100, keeping their ratios. All
// zero input falls back to equal shares.
func renormalize(sizes []float64) []float64 {
	total := 0.0
	for _, size := range sizes {
		total += size
	}
	if total <= 0 {
		return equalSizes(len(sizes))
	}
	out := make([]float64, len(sizes))
	for i, size := range sizes {
		out[i] = size / total * 100
	}
	return out
}

// ResizeSplit replaces the sizes of one split, 1:1 with its children. No
// renormalisation happens here; callers supply values summing to about 100.
//
// target is either the split's own SplitID or, for older callers, the id of
// the root of its first child subtree. An own-id match anywhere in the tree
// wins over a first-child match. A sizes slice whose length differs from the
// child count is Rejected.
func ResizeSplit(root Pane, target NodeRef, sizes []float64) (Pane, Result) {
	if root == nil || target == nil {
		return root, NotFound
	}
	matchOwn := func(s *Split) bool { return s.ID == target }
	matchFirst := func(s *Split) bool { return s.Children[0].Ref() == target }

	for _, match := range []func(*Split) bool{matchOwn, matchFirst} {
		updated, res := resizeNode(root, match, sizes)
		if res != NotFound {
			if res == Rejected {
				return root, Rejected
			}
			return updated, res
		}
	}
	return root, NotFound
}

func resizeNode(node Pane, match func(*Split) bool, sizes []float64) (Pane, Result) {
	n, ok := node.(*Split)
	if !ok {
		return node, NotFound
	}
	if len(n.Children) > 0 && match(n) {
		if len(sizes) != len(n.Children) {
			return node, Rejected
		}
		return &Split{
			ID:        n.ID,
			Direction: n.Direction,
			Children:  n.Children,
			Sizes:     cloneSizes(sizes),
		}, Applied
	}
	for i, child := range n.Children {
		updated, res := resizeNode(child, match, sizes)
		if res == NotFound {
			continue
		}
		if res == Rejected {
			return node, Rejected
		}
		children := cloneChildren(n.Children)
		children[i] = updated
		return &Split{
			ID:        n.ID,
			Direction: n.Direction,
			Children:  children,
			Sizes:     n.Sizes,
		}, Applied
	}
	return node, NotFound
}

// AttachTerminal binds handle to the leaf target. A leaf that already has a
// handle keeps it and the call is Rejected.
func AttachTerminal(root Pane, target PaneID, handle TerminalHandle) (Pane, Result) {
	if root == nil {
		return root, NotFound
	}
	leaf := FindLeaf(root, target)
	if leaf == nil {
		return root, NotFound
	}
	if leaf.Attached {
		return root, Rejected
	}
	return replaceLeaf(root, leaf.withHandle(handle)), Applied
}

// replaceLeaf swaps the leaf with the same id as repl, rebuilding only the
// path from the root to it.
func replaceLeaf(node Pane, repl *Leaf) Pane {
	switch n := node.(type) {
	case *Leaf:
		if n.ID == repl.ID {
			return repl
		}
	case *Split:
		for i, child := range n.Children {
			updated := replaceLeaf(child, repl)
			if updated == child {
				continue
			}
			children := cloneChildren(n.Children)
			children[i] = updated
			return &Split{
				ID:        n.ID,
				Direction: n.Direction,
				Children:  children,
				Sizes:     n.Sizes,
			}
		}
	}
	return node
}
