// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/snapshot.go
// Summary: Immutable view of the tab store published after every change.

package texel

// Snapshot is the state published by a TabStore. Tabs and the trees they own
// are shared between snapshots and must be treated as read-only.
type Snapshot struct {
	Tabs        []Tab
	ActiveTabID TabID
	// Version increases by one for every published change.
	Version uint64
}

// Tab returns the tab with the given id and its index, or nil and -1.
func (s Snapshot) Tab(id TabID) (Tab, int) {
	for i, tab := range s.Tabs {
		if tab.TabID() == id {
			return tab, i
		}
	}
	return nil, -1
}

// Active returns the active tab, or nil when the store is empty.
func (s Snapshot) Active() Tab {
	if s.ActiveTabID == 0 {
		return nil
	}
	tab, _ := s.Tab(s.ActiveTabID)
	return tab
}

// Terminal returns the terminal tab with the given id.
func (s Snapshot) Terminal(id TabID) (*TerminalTab, bool) {
	tab, _ := s.Tab(id)
	term, ok := tab.(*TerminalTab)
	return term, ok
}

// replaceTab returns a copy of tabs with tabs[index] set to tab. Other entries
// keep their identity.
func replaceTab(tabs []Tab, index int, tab Tab) []Tab {
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	out[index] = tab
	return out
}

func removeTab(tabs []Tab, index int) []Tab {
	out := make([]Tab, 0, len(tabs)-1)
	out = append(out, tabs[:index]...)
	return append(out, tabs[index+1:]...)
}
