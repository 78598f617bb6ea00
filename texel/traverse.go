// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/traverse.go
// Summary: Read-only traversals over pane trees.

package texel

import (
	"fmt"
	"strings"
)

// Walk visits node and its descendants depth first, parents before children,
// children left to right. Returning false from fn stops the walk.
func Walk(node Pane, fn func(Pane) bool) bool {
	if node == nil {
		return true
	}
	if !fn(node) {
		return false
	}
	if s, ok := node.(*Split); ok {
		for _, child := range s.Children {
			if !Walk(child, fn) {
				return false
			}
		}
	}
	return true
}

// AllPaneIDs lists every leaf id, left to right.
func AllPaneIDs(node Pane) []PaneID {
	var ids []PaneID
	Walk(node, func(p Pane) bool {
		if leaf, ok := p.(*Leaf); ok {
			ids = append(ids, leaf.ID)
		}
		return true
	})
	return ids
}

// AllSplitIDs lists every split id, parents before children.
func AllSplitIDs(node Pane) []SplitID {
	var ids []SplitID
	Walk(node, func(p Pane) bool {
		if s, ok := p.(*Split); ok {
			ids = append(ids, s.ID)
		}
		return true
	})
	return ids
}

// AllTerminalHandles lists the handles of attached leaves, left to right.
func AllTerminalHandles(node Pane) []TerminalHandle {
	var handles []TerminalHandle
	Walk(node, func(p Pane) bool {
		if leaf, ok := p.(*Leaf); ok && leaf.Attached {
			handles = append(handles, leaf.Handle)
		}
		return true
	})
	return handles
}

// FirstTerminalHandle returns the first attached handle in depth-first order.
func FirstTerminalHandle(node Pane) (TerminalHandle, bool) {
	var (
		handle TerminalHandle
		found  bool
	)
	Walk(node, func(p Pane) bool {
		if leaf, ok := p.(*Leaf); ok && leaf.Attached {
			handle, found = leaf.Handle, true
			return false
		}
		return true
	})
	return handle, found
}

// PaneHandleMap maps each attached leaf to its handle.
func PaneHandleMap(node Pane) map[PaneID]TerminalHandle {
	out := make(map[PaneID]TerminalHandle)
	Walk(node, func(p Pane) bool {
		if leaf, ok := p.(*Leaf); ok && leaf.Attached {
			out[leaf.ID] = leaf.Handle
		}
		return true
	})
	return out
}

// FindLeaf returns the leaf with the given id or nil.
func FindLeaf(node Pane, id PaneID) *Leaf {
	var found *Leaf
	Walk(node, func(p Pane) bool {
		if leaf, ok := p.(*Leaf); ok && leaf.ID == id {
			found = leaf
			return false
		}
		return true
	})
	return found
}

// FirstLeaf returns the leftmost leaf of node.
func FirstLeaf(node Pane) *Leaf {
	for node != nil {
		switch n := node.(type) {
		case *Leaf:
			return n
		case *Split:
			if len(n.Children) == 0 {
				return nil
			}
			node = n.Children[0]
		default:
			return nil
		}
	}
	return nil
}

// LeafCount returns the number of leaves under node.
func LeafCount(node Pane) int {
	return len(AllPaneIDs(node))
}

// Dump renders the tree as indented text, one node per line.
func Dump(node Pane) string {
	var b strings.Builder
	dumpNode(&b, node, 0)
	return b.String()
}

func dumpNode(b *strings.Builder, node Pane, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := node.(type) {
	case nil:
		fmt.Fprintf(b, "%s<empty>\n", indent)
	case *Leaf:
		if n.Attached {
			fmt.Fprintf(b, "%sleaf %d handle=%d\n", indent, n.ID, n.Handle)
		} else {
			fmt.Fprintf(b, "%sleaf %d\n", indent, n.ID)
		}
	case *Split:
		fmt.Fprintf(b, "%ssplit %d %s sizes=%v\n", indent, n.ID, n.Direction, n.Sizes)
		for _, child := range n.Children {
			dumpNode(b, child, depth+1)
		}
	}
}
