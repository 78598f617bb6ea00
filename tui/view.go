// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/view.go
// Summary: Front-end state kept outside the tab store: focused pane per tab
//   and control mode.

package tui

import (
	"sync"

	"github.com/framegrace/texelide/texel"
)

// View tracks which pane has focus in each terminal tab.
type View struct {
	mu      sync.Mutex
	focus   map[texel.TabID]texel.PaneID
	control bool
}

// NewView returns an empty view.
func NewView() *View {
	return &View{focus: make(map[texel.TabID]texel.PaneID)}
}

// Focused returns the focused pane of tab, falling back to its first leaf
// when the remembered pane no longer exists.
func (v *View) Focused(tab *texel.TerminalTab) texel.PaneID {
	v.mu.Lock()
	defer v.mu.Unlock()
	if id, ok := v.focus[tab.ID]; ok && texel.FindLeaf(tab.Root, id) != nil {
		return id
	}
	leaf := texel.FirstLeaf(tab.Root)
	if leaf == nil {
		return 0
	}
	v.focus[tab.ID] = leaf.ID
	return leaf.ID
}

// SetFocus records pane as focused in tab.
func (v *View) SetFocus(tab texel.TabID, pane texel.PaneID) {
	v.mu.Lock()
	v.focus[tab] = pane
	v.mu.Unlock()
}

// Forget drops state for tabs not in snap.
func (v *View) Forget(snap texel.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id := range v.focus {
		if tab, _ := snap.Tab(id); tab == nil {
			delete(v.focus, id)
		}
	}
}

// ControlMode reports whether the next key is a command.
func (v *View) ControlMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.control
}

func (v *View) setControl(on bool) {
	v.mu.Lock()
	v.control = on
	v.mu.Unlock()
}
