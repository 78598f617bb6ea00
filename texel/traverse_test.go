// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/traverse_test.go
// Summary: Exercises read-only pane tree traversals.
// Usage: Executed during `go test` to guard against regressions.

package texel

import (
	"reflect"
	"strings"
	"testing"
)

// sampleTree builds
//
//	split 1 horizontal
//	  leaf 1 handle=10
//	  split 2 vertical
//	    leaf 2
//	    leaf 3 handle=30
//	  leaf 4
func sampleTree() Pane {
	inner := &Split{
		ID:        2,
		Direction: Vertical,
		Children:  []Pane{NewLeaf(2), &Leaf{ID: 3, Handle: 30, Attached: true}},
		Sizes:     []float64{50, 50},
	}
	return &Split{
		ID:        1,
		Direction: Horizontal,
		Children:  []Pane{&Leaf{ID: 1, Handle: 10, Attached: true}, inner, NewLeaf(4)},
		Sizes:     []float64{25, 50, 25},
	}
}

func TestAllPaneIDs(t *testing.T) {
	if got := AllPaneIDs(sampleTree()); !reflect.DeepEqual(got, []PaneID{1, 2, 3, 4}) {
		t.Fatalf("unexpected pane ids %v", got)
	}
	if got := AllPaneIDs(NewLeaf(5)); !reflect.DeepEqual(got, []PaneID{5}) {
		t.Fatalf("unexpected pane ids %v", got)
	}
	if got := AllPaneIDs(nil); len(got) != 0 {
		t.Fatalf("expected no ids for empty tree, got %v", got)
	}
}

func TestAllSplitIDs(t *testing.T) {
	if got := AllSplitIDs(sampleTree()); !reflect.DeepEqual(got, []SplitID{1, 2}) {
		t.Fatalf("unexpected split ids %v", got)
	}
	if got := AllSplitIDs(NewLeaf(1)); len(got) != 0 {
		t.Fatalf("expected no split ids, got %v", got)
	}
}

func TestTerminalHandles(t *testing.T) {
	root := sampleTree()
	if got := AllTerminalHandles(root); !reflect.DeepEqual(got, []TerminalHandle{10, 30}) {
		t.Fatalf("unexpected handles %v", got)
	}
	if h, ok := FirstTerminalHandle(root); !ok || h != 10 {
		t.Fatalf("expected first handle 10, got %d (%v)", h, ok)
	}
	want := map[PaneID]TerminalHandle{1: 10, 3: 30}
	if got := PaneHandleMap(root); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected handle map %v", got)
	}
}

func TestTerminalHandlesSkipUnattached(t *testing.T) {
	root := &Split{ID: 1, Direction: Vertical, Children: []Pane{NewLeaf(1), NewLeaf(2)}, Sizes: []float64{50, 50}}
	if _, ok := FirstTerminalHandle(root); ok {
		t.Fatalf("expected no handle before attachment")
	}
	if got := AllTerminalHandles(root); len(got) != 0 {
		t.Fatalf("expected no handles, got %v", got)
	}
	if got := PaneHandleMap(root); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}

	// A handle of zero is still a handle once attached.
	attached, _ := AttachTerminal(root, 2, 0)
	if h, ok := FirstTerminalHandle(attached); !ok || h != 0 {
		t.Fatalf("expected attached zero handle, got %d (%v)", h, ok)
	}
}

func TestFindAndFirstLeaf(t *testing.T) {
	root := sampleTree()
	if leaf := FindLeaf(root, 3); leaf == nil || leaf.Handle != 30 {
		t.Fatalf("expected leaf 3, got %+v", leaf)
	}
	if leaf := FindLeaf(root, 9); leaf != nil {
		t.Fatalf("expected nil, got %+v", leaf)
	}
	if leaf := FirstLeaf(root); leaf == nil || leaf.ID != 1 {
		t.Fatalf("expected leaf 1 first, got %+v", leaf)
	}
	if got := LeafCount(root); got != 4 {
		t.Fatalf("expected 4 leaves, got %d", got)
	}
}

func TestDump(t *testing.T) {
	out := Dump(sampleTree())
	for _, want := range []string{
		"split 1 horizontal sizes=[25 50 25]",
		"  leaf 1 handle=10",
		"  split 2 vertical",
		"    leaf 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
	if Dump(nil) != "<empty>\n" {
		t.Fatalf("unexpected dump for nil tree: %q", Dump(nil))
	}
}

func TestCheckInvariants(t *testing.T) {
	if err := CheckInvariants(sampleTree()); err != nil {
		t.Fatalf("sample tree should be valid: %v", err)
	}

	cases := map[string]Pane{
		"single child":   &Split{ID: 1, Children: []Pane{NewLeaf(1)}, Sizes: []float64{100}},
		"parity":         &Split{ID: 1, Children: []Pane{NewLeaf(1), NewLeaf(2)}, Sizes: []float64{100}},
		"sum":            &Split{ID: 1, Children: []Pane{NewLeaf(1), NewLeaf(2)}, Sizes: []float64{50, 49}},
		"duplicate pane": &Split{ID: 1, Children: []Pane{NewLeaf(1), NewLeaf(1)}, Sizes: []float64{50, 50}},
	}
	for name, root := range cases {
		if err := CheckInvariants(root); err == nil {
			t.Fatalf("%s: expected invariant error", name)
		}
	}
}
