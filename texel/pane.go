// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/pane.go
// Summary: Pane tree node types: leaves hosting a terminal slot and n-ary splits.
// Usage: Produced and consumed by the pane tree engine and the tab store.
// Notes: Nodes are immutable once published; every mutation builds new nodes.

package texel

import "fmt"

// PaneID identifies a leaf pane. Zero is never handed out.
type PaneID uint64

// SplitID identifies a split node. Zero is never handed out.
type SplitID uint64

// TerminalHandle is the opaque backend identifier bound to a leaf once its
// terminal process is ready.
type TerminalHandle int

// SizeEpsilon is the tolerated drift when checking that split sizes sum to 100.
const SizeEpsilon = 1e-6

// Direction is the axis along which a split arranges its children.
type Direction int

const (
	// Horizontal lays children out left to right.
	Horizontal Direction = iota
	// Vertical stacks children top to bottom.
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}


// Pane is a node of the layout tree: either a *Leaf or a *Split.
type Pane interface {
	// Ref returns the id of the node as an addressable reference.
	Ref() NodeRef
	isPane()
}

// NodeRef addresses a node by id. PaneID and SplitID come from independent
// sequences, so the type carries the kind.
type NodeRef interface {
	isNodeRef()
}

func (PaneID) isNodeRef()  {}
func (SplitID) isNodeRef() {}

// Leaf hosts one terminal session slot.
type Leaf struct {
	ID       PaneID
	Handle   TerminalHandle
	Attached bool
}

// NewLeaf returns an unattached leaf.
func NewLeaf(id PaneID) *Leaf {
	return &Leaf{ID: id}
}

func (l *Leaf) Ref() NodeRef { return l.ID }
func (*Leaf) isPane()        {}

// Terminal returns the attached handle, if any.
func (l *Leaf) Terminal() (TerminalHandle, bool) {
	return l.Handle, l.Attached
}

// withHandle returns a copy of the leaf bound to handle.
func (l *Leaf) withHandle(handle TerminalHandle) *Leaf {
	return &Leaf{ID: l.ID, Handle: handle, Attached: true}
}

// Split holds two or more ordered children and their percentage sizes.
// Children and Sizes are parallel and must not be modified in place.
type Split struct {
	ID        SplitID
	Direction Direction
	Children  []Pane
	Sizes     []float64
}

func (s *Split) Ref() NodeRef { return s.ID }
func (*Split) isPane()        {}

// equalSizes returns n shares of 100/n.
func equalSizes(n int) []float64 {
	sizes := make([]float64, n)
	for i := range sizes {
		sizes[i] = 100 / float64(n)
	}
	return sizes
}

func cloneSizes(sizes []float64) []float64 {
	out := make([]float64, len(sizes))
	copy(out, sizes)
	return out
}

func cloneChildren(children []Pane) []Pane {
	out := make([]Pane, len(children))
	copy(out, children)
	return out
}
