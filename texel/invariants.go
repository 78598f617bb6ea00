// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/invariants.go
// Summary: Structural checks for pane trees.

package texel

import (
	"fmt"
	"math"
)

// InvariantError describes the first structural violation found in a tree.
type InvariantError struct {
	Split  SplitID
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Split == 0 {
		return "pane tree: " + e.Reason
	}
	return fmt.Sprintf("pane tree: split %d: %s", e.Split, e.Reason)
}

// CheckInvariants verifies that every split has at least two children, as
// many sizes as children, sizes summing to 100 within SizeEpsilon, and that
// no pane or split id appears twice.
func CheckInvariants(root Pane) error {
	panes := make(map[PaneID]struct{})
	splits := make(map[SplitID]struct{})
	var err error
	Walk(root, func(p Pane) bool {
		switch n := p.(type) {
		case *Leaf:
			if _, dup := panes[n.ID]; dup {
				err = &InvariantError{Reason: fmt.Sprintf("duplicate pane id %d", n.ID)}
				return false
			}
			panes[n.ID] = struct{}{}
		case *Split:
			if _, dup := splits[n.ID]; dup {
				err = &InvariantError{Split: n.ID, Reason: "duplicate split id"}
				return false
			}
			splits[n.ID] = struct{}{}
			if len(n.Children) < 2 {
				err = &InvariantError{Split: n.ID, Reason: fmt.Sprintf("%d children, want at least 2", len(n.Children))}
				return false
			}
			if len(n.Children) != len(n.Sizes) {
				err = &InvariantError{Split: n.ID, Reason: fmt.Sprintf("%d children but %d sizes", len(n.Children), len(n.Sizes))}
				return false
			}
			total := 0.0
			for _, size := range n.Sizes {
				total += size
			}
			if math.Abs(total-100) > SizeEpsilon {
				err = &InvariantError{Split: n.ID, Reason: fmt.Sprintf("sizes sum to %g", total)}
				return false
			}
		}
		return true
	})
	return err
}
