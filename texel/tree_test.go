// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/tree_test.go
// Summary: Exercises split, close and resize on pane trees.
// Usage: Executed during `go test` to guard against regressions.

package texel

import (
	"math"
	"reflect"
	"testing"
)

func approxSizes(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("sizes %v, want %v", got, want)
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("sizes %v, want %v", got, want)
		}
	}
}

func mustSplit(t *testing.T, node Pane) *Split {
	t.Helper()
	s, ok := node.(*Split)
	if !ok {
		t.Fatalf("expected split, got %T:\n%s", node, Dump(node))
	}
	return s
}

func mustCheck(t *testing.T, root Pane) {
	t.Helper()
	if err := CheckInvariants(root); err != nil {
		t.Fatalf("%v\n%s", err, Dump(root))
	}
}

func TestSplitRootLeaf(t *testing.T) {
	ids := NewIDSequence()
	l1 := NewLeaf(ids.NextPaneID())
	l2 := NewLeaf(ids.NextPaneID())

	root, res := SplitPane(l1, l1.ID, Horizontal, l2, ids)
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	s := mustSplit(t, root)
	if s.Direction != Horizontal {
		t.Fatalf("expected horizontal, got %s", s.Direction)
	}
	if s.Children[0] != Pane(l1) || s.Children[1] != Pane(l2) {
		t.Fatalf("unexpected children:\n%s", Dump(root))
	}
	approxSizes(t, s.Sizes, []float64{50, 50})
	mustCheck(t, root)
}

func TestSplitSameDirectionResetsSizes(t *testing.T) {
	ids := NewIDSequence()
	l1 := NewLeaf(ids.NextPaneID())
	l2 := NewLeaf(ids.NextPaneID())
	l3 := NewLeaf(ids.NextPaneID())

	root, _ := SplitPane(l1, l1.ID, Horizontal, l2, ids)
	first := mustSplit(t, root)
	root, res := SplitPane(root, l1.ID, Horizontal, l3, ids)
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	s := mustSplit(t, root)
	if s.ID != first.ID {
		t.Fatalf("expected split %d to be reused, got %d", first.ID, s.ID)
	}
	if got := AllPaneIDs(root); !reflect.DeepEqual(got, []PaneID{l1.ID, l3.ID, l2.ID}) {
		t.Fatalf("unexpected order %v", got)
	}
	third := 100.0 / 3
	approxSizes(t, s.Sizes, []float64{third, third, third})
	mustCheck(t, root)
}

func TestSplitSameDirectionDiscardsCustomSizes(t *testing.T) {
	ids := NewIDSequence()
	l1, l2, l3 := NewLeaf(1), NewLeaf(2), NewLeaf(3)
	root := &Split{ID: ids.NextSplitID(), Direction: Vertical, Children: []Pane{l1, l2}, Sizes: []float64{70, 30}}

	updated, _ := SplitPane(root, l2.ID, Vertical, l3, ids)
	s := mustSplit(t, updated)
	approxSizes(t, s.Sizes, []float64{100.0 / 3, 100.0 / 3, 100.0 / 3})
	if got := AllPaneIDs(updated); !reflect.DeepEqual(got, []PaneID{1, 2, 3}) {
		t.Fatalf("unexpected order %v", got)
	}
	approxSizes(t, root.Sizes, []float64{70, 30})
}

func TestSplitDifferentDirectionNests(t *testing.T) {
	ids := NewIDSequence()
	l1, l2, l3 := NewLeaf(1), NewLeaf(2), NewLeaf(3)
	root := &Split{ID: ids.NextSplitID(), Direction: Vertical, Children: []Pane{l1, l2}, Sizes: []float64{40, 60}}

	updated, res := SplitPane(root, l1.ID, Horizontal, l3, ids)
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	outer := mustSplit(t, updated)
	if outer.Direction != Vertical || len(outer.Children) != 2 {
		t.Fatalf("outer split changed:\n%s", Dump(updated))
	}
	approxSizes(t, outer.Sizes, []float64{40, 60})
	inner := mustSplit(t, outer.Children[0])
	if inner.Direction != Horizontal {
		t.Fatalf("expected nested horizontal split, got %s", inner.Direction)
	}
	if inner.ID == outer.ID {
		t.Fatalf("nested split reused parent id")
	}
	if inner.Children[0] != Pane(l1) || inner.Children[1] != Pane(l3) {
		t.Fatalf("unexpected nested children:\n%s", Dump(updated))
	}
	approxSizes(t, inner.Sizes, []float64{50, 50})
	if outer.Children[1] != Pane(l2) {
		t.Fatalf("sibling should be reused")
	}
	mustCheck(t, updated)
}

func TestSplitUsesDirectParentOnly(t *testing.T) {
	// The leaf's direct parent is vertical; a horizontal ancestor higher up
	// must not receive the new pane.
	ids := NewIDSequence()
	l1, l2, l3, l4 := NewLeaf(1), NewLeaf(2), NewLeaf(3), NewLeaf(4)
	inner := &Split{ID: ids.NextSplitID(), Direction: Vertical, Children: []Pane{l1, l2}, Sizes: []float64{50, 50}}
	root := &Split{ID: ids.NextSplitID(), Direction: Horizontal, Children: []Pane{inner, l3}, Sizes: []float64{30, 70}}

	updated, res := SplitPane(root, l1.ID, Horizontal, l4, ids)
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	outer := mustSplit(t, updated)
	if len(outer.Children) != 2 {
		t.Fatalf("ancestor gained a child:\n%s", Dump(updated))
	}
	approxSizes(t, outer.Sizes, []float64{30, 70})
	mid := mustSplit(t, outer.Children[0])
	if mid.ID != inner.ID || mid.Direction != Vertical {
		t.Fatalf("unexpected middle split:\n%s", Dump(updated))
	}
	nested := mustSplit(t, mid.Children[0])
	if nested.Direction != Horizontal {
		t.Fatalf("expected nested horizontal split:\n%s", Dump(updated))
	}
	if got := AllPaneIDs(updated); !reflect.DeepEqual(got, []PaneID{1, 4, 2, 3}) {
		t.Fatalf("unexpected order %v", got)
	}
	mustCheck(t, updated)
}

func TestSplitUnknownPaneIsNoop(t *testing.T) {
	ids := NewIDSequence()
	l1, l2 := NewLeaf(1), NewLeaf(2)
	root := &Split{ID: ids.NextSplitID(), Direction: Vertical, Children: []Pane{l1, l2}, Sizes: []float64{50, 50}}

	updated, res := SplitPane(root, 99, Horizontal, NewLeaf(3), ids)
	if res != NotFound {
		t.Fatalf("expected not_found, got %s", res)
	}
	if updated != Pane(root) {
		t.Fatalf("expected original tree back")
	}
}

func TestSplitLeavesInputUntouched(t *testing.T) {
	ids := NewIDSequence()
	l1, l2, l3 := NewLeaf(1), NewLeaf(2), NewLeaf(3)
	root := &Split{ID: ids.NextSplitID(), Direction: Vertical, Children: []Pane{l1, l2}, Sizes: []float64{25, 75}}
	before := Dump(root)

	SplitPane(root, l2.ID, Vertical, l3, ids)
	SplitPane(root, l2.ID, Horizontal, NewLeaf(4), ids)
	if after := Dump(root); after != before {
		t.Fatalf("input mutated:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestCloseOnlyLeaf(t *testing.T) {
	l1 := NewLeaf(1)
	updated, res := ClosePane(l1, 1)
	if res != Applied || updated != nil {
		t.Fatalf("expected empty tree, got %v (%s)", updated, res)
	}
}

func TestCloseRedistributesProRata(t *testing.T) {
	l1, l2, l3 := NewLeaf(1), NewLeaf(2), NewLeaf(3)
	root := &Split{ID: 1, Direction: Horizontal, Children: []Pane{l1, l2, l3}, Sizes: []float64{20, 50, 30}}

	updated, res := ClosePane(root, l1.ID)
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	s := mustSplit(t, updated)
	if got := AllPaneIDs(updated); !reflect.DeepEqual(got, []PaneID{2, 3}) {
		t.Fatalf("unexpected leaves %v", got)
	}
	approxSizes(t, s.Sizes, []float64{62.5, 37.5})
	mustCheck(t, updated)
}

func TestCloseCollapsesSingleChild(t *testing.T) {
	l1, l2, l3 := NewLeaf(1), NewLeaf(2), NewLeaf(3)
	inner := &Split{ID: 2, Direction: Horizontal, Children: []Pane{l2, l3}, Sizes: []float64{50, 50}}
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{l1, inner}, Sizes: []float64{30, 70}}

	updated, _ := ClosePane(root, l3.ID)
	outer := mustSplit(t, updated)
	if outer.Children[1] != Pane(l2) {
		t.Fatalf("expected l2 to take the collapsed split's slot:\n%s", Dump(updated))
	}
	approxSizes(t, outer.Sizes, []float64{30, 70})

	updated, _ = ClosePane(updated, l1.ID)
	if updated != Pane(l2) {
		t.Fatalf("expected lone leaf as root, got:\n%s", Dump(updated))
	}
}

func TestCloseUnknownPaneIsNoop(t *testing.T) {
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{NewLeaf(1), NewLeaf(2)}, Sizes: []float64{50, 50}}
	updated, res := ClosePane(root, 7)
	if res != NotFound || updated != Pane(root) {
		t.Fatalf("expected untouched tree, got %s", res)
	}
	if updated, res := ClosePane(nil, 1); res != NotFound || updated != nil {
		t.Fatalf("expected nil tree to stay nil")
	}
}

func TestSplitThenCloseRestoresLeaf(t *testing.T) {
	ids := NewIDSequence()
	l1 := &Leaf{ID: ids.NextPaneID(), Handle: 42, Attached: true}
	fresh := NewLeaf(ids.NextPaneID())

	split, _ := SplitPane(l1, l1.ID, Vertical, fresh, ids)
	restored, res := ClosePane(split, fresh.ID)
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	if restored != Pane(l1) {
		t.Fatalf("expected original leaf back, got:\n%s", Dump(restored))
	}
	if !reflect.DeepEqual(restored, Pane(&Leaf{ID: 1, Handle: 42, Attached: true})) {
		t.Fatalf("leaf changed: %+v", restored)
	}
}

func TestResizeByOwnID(t *testing.T) {
	l1, l2, l3 := NewLeaf(1), NewLeaf(2), NewLeaf(3)
	inner := &Split{ID: 2, Direction: Horizontal, Children: []Pane{l2, l3}, Sizes: []float64{50, 50}}
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{l1, inner}, Sizes: []float64{30, 70}}

	updated, res := ResizeSplit(root, SplitID(2), []float64{80, 20})
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	outer := mustSplit(t, updated)
	approxSizes(t, outer.Sizes, []float64{30, 70})
	approxSizes(t, mustSplit(t, outer.Children[1]).Sizes, []float64{80, 20})
	approxSizes(t, inner.Sizes, []float64{50, 50})
	if outer.Children[0] != Pane(l1) {
		t.Fatalf("untouched sibling should be reused")
	}
}

func TestResizeByFirstChildID(t *testing.T) {
	l1, l2, l3 := NewLeaf(1), NewLeaf(2), NewLeaf(3)
	inner := &Split{ID: 2, Direction: Horizontal, Children: []Pane{l2, l3}, Sizes: []float64{50, 50}}
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{l1, inner}, Sizes: []float64{30, 70}}

	updated, res := ResizeSplit(root, PaneID(2), []float64{10, 90})
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	outer := mustSplit(t, updated)
	approxSizes(t, outer.Sizes, []float64{30, 70})
	approxSizes(t, mustSplit(t, outer.Children[1]).Sizes, []float64{10, 90})

	updated, _ = ResizeSplit(root, PaneID(1), []float64{60, 40})
	approxSizes(t, mustSplit(t, updated).Sizes, []float64{60, 40})
}

func TestResizeOwnIDWinsOverFirstChild(t *testing.T) {
	// Split 2 is the first child of split 1, so SplitID(2) could address
	// either; the split's own id takes precedence.
	inner := &Split{ID: 2, Direction: Horizontal, Children: []Pane{NewLeaf(1), NewLeaf(2)}, Sizes: []float64{50, 50}}
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{inner, NewLeaf(3)}, Sizes: []float64{50, 50}}

	updated, _ := ResizeSplit(root, SplitID(2), []float64{25, 75})
	outer := mustSplit(t, updated)
	approxSizes(t, outer.Sizes, []float64{50, 50})
	approxSizes(t, mustSplit(t, outer.Children[0]).Sizes, []float64{25, 75})
}

func TestResizeDoesNotValidateSum(t *testing.T) {
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{NewLeaf(1), NewLeaf(2)}, Sizes: []float64{50, 50}}
	updated, res := ResizeSplit(root, SplitID(1), []float64{10, 10})
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	approxSizes(t, mustSplit(t, updated).Sizes, []float64{10, 10})
}

func TestResizeRejectsWrongLength(t *testing.T) {
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{NewLeaf(1), NewLeaf(2)}, Sizes: []float64{50, 50}}
	updated, res := ResizeSplit(root, SplitID(1), []float64{100})
	if res != Rejected || updated != Pane(root) {
		t.Fatalf("expected rejection, got %s", res)
	}
}

func TestResizeUnknownIsNoop(t *testing.T) {
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{NewLeaf(1), NewLeaf(2)}, Sizes: []float64{50, 50}}
	for _, ref := range []NodeRef{SplitID(9), PaneID(2), PaneID(9)} {
		updated, res := ResizeSplit(root, ref, []float64{40, 60})
		if res != NotFound || updated != Pane(root) {
			t.Fatalf("ref %v: expected untouched tree, got %s", ref, res)
		}
	}
	leaf := NewLeaf(1)
	if updated, res := ResizeSplit(leaf, PaneID(1), []float64{100}); res != NotFound || updated != Pane(leaf) {
		t.Fatalf("resizing a leaf root should be a no-op")
	}
}

func TestAttachTerminalOnlyOnce(t *testing.T) {
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{NewLeaf(1), NewLeaf(2)}, Sizes: []float64{50, 50}}

	updated, res := AttachTerminal(root, 2, 7)
	if res != Applied {
		t.Fatalf("expected applied, got %s", res)
	}
	if h, ok := FindLeaf(updated, 2).Terminal(); !ok || h != 7 {
		t.Fatalf("expected handle 7, got %d (%v)", h, ok)
	}
	if mustSplit(t, updated).Children[0] != root.Children[0] {
		t.Fatalf("untouched leaf should be reused")
	}
	if _, ok := FindLeaf(root, 2).Terminal(); ok {
		t.Fatalf("input tree was mutated")
	}

	again, res := AttachTerminal(updated, 2, 8)
	if res != Rejected || again != updated {
		t.Fatalf("expected second attach to be rejected, got %s", res)
	}
	if _, res := AttachTerminal(updated, 9, 8); res != NotFound {
		t.Fatalf("expected not_found, got %s", res)
	}
}
