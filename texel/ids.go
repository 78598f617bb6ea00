// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/ids.go
// Summary: Per-store id sequences for panes, splits and tabs.

package texel

import "sync/atomic"

// IDSequence hands out monotonically increasing ids. Pane, split and tab ids
// are independent sequences starting at 1. Each TabStore owns its own
// sequence so stores never share counters.
type IDSequence struct {
	pane  atomic.Uint64
	split atomic.Uint64
	tab   atomic.Uint64
}

// NewIDSequence returns a fresh sequence.
func NewIDSequence() *IDSequence {
	return &IDSequence{}
}

func (s *IDSequence) NextPaneID() PaneID   { return PaneID(s.pane.Add(1)) }
func (s *IDSequence) NextSplitID() SplitID { return SplitID(s.split.Add(1)) }
func (s *IDSequence) NextTabID() TabID     { return TabID(s.tab.Add(1)) }

// ObserveTabID advances the tab sequence so it never returns id or anything
// below it. Used when tabs are restored with ids from a previous run.
func (s *IDSequence) ObserveTabID(id TabID) {
	for {
		cur := s.tab.Load()
		if cur >= uint64(id) {
			return
		}
		if s.tab.CompareAndSwap(cur, uint64(id)) {
			return
		}
	}
}

// SplitIDSource allocates ids for splits created by SplitPane.
type SplitIDSource interface {
	NextSplitID() SplitID
}
