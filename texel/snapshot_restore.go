// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/snapshot_restore.go
// Summary: Persistable tab state and rehydration of a store from it.
// Usage: Session stores save PersistableState on exit and feed it back through RestoreState.
// Notes: Pane layouts and terminal handles are runtime-only and are not persisted.

package texel

// PersistedTab is a tab stripped of runtime state. FilePath is set for editor
// tabs and Title for terminal tabs.
type PersistedTab struct {
	ID       TabID   `json:"id"`
	Kind     TabKind `json:"kind"`
	FilePath string  `json:"file_path,omitempty"`
	Title    string  `json:"title,omitempty"`
}

// PersistedState is the ordered tab list plus the active tab.
type PersistedState struct {
	Tabs        []PersistedTab `json:"tabs"`
	ActiveTabID TabID          `json:"active_tab_id"`
}

// PersistableState returns the current tabs in order with runtime-only fields
// (pane layout, terminal handles) removed.
func (s *TabStore) PersistableState() PersistedState {
	return Persist(s.Snapshot())
}

// Persist strips snap down to what survives a restart. Subscribers use it to
// save without calling back into the store.
func Persist(snap Snapshot) PersistedState {
	state := PersistedState{
		Tabs:        make([]PersistedTab, 0, len(snap.Tabs)),
		ActiveTabID: snap.ActiveTabID,
	}
	for _, tab := range snap.Tabs {
		switch t := tab.(type) {
		case *EditorTab:
			state.Tabs = append(state.Tabs, PersistedTab{ID: t.ID, Kind: EditorKind, FilePath: t.FilePath})
		case *TerminalTab:
			state.Tabs = append(state.Tabs, PersistedTab{ID: t.ID, Kind: TerminalKind, Title: t.Title})
		}
	}
	return state
}

// RestoreState replaces the store contents with tabs. Every terminal tab gets
// a fresh single-leaf root: split layouts do not survive a restart, only tab
// identity and order do. Entries with an unknown kind or a repeated id are
// skipped. When activeID is not among the restored tabs the first tab becomes
// active. Handles owned by the replaced tabs are released.
func (s *TabStore) RestoreState(tabs []PersistedTab, activeID TabID) Result {
	return s.apply("RestoreState", func(cur Snapshot) (Snapshot, Result, []TerminalHandle) {
		var released []TerminalHandle
		for _, tab := range cur.Tabs {
			if term, ok := tab.(*TerminalTab); ok {
				released = append(released, AllTerminalHandles(term.Root)...)
			}
		}

		seen := make(map[TabID]struct{}, len(tabs))
		restored := make([]Tab, 0, len(tabs))
		for _, pt := range tabs {
			if pt.ID == 0 {
				continue
			}
			if _, dup := seen[pt.ID]; dup {
				debugLog.Printf("TabStore.RestoreState: skipping duplicate tab id %d", pt.ID)
				continue
			}
			switch pt.Kind {
			case EditorKind:
				restored = append(restored, &EditorTab{
					ID:       pt.ID,
					FilePath: pt.FilePath,
					Language: DetectLanguage(pt.FilePath),
				})
			case TerminalKind:
				title := pt.Title
				if title == "" {
					title = s.defaultTitle
				}
				restored = append(restored, &TerminalTab{
					ID:    pt.ID,
					Title: s.fitTitle(title),
					Root:  NewLeaf(s.ids.NextPaneID()),
				})
			default:
				debugLog.Printf("TabStore.RestoreState: skipping tab %d with kind %d", pt.ID, pt.Kind)
				continue
			}
			seen[pt.ID] = struct{}{}
			s.ids.ObserveTabID(pt.ID)
		}

		next := Snapshot{Tabs: restored}
		if _, ok := seen[activeID]; ok {
			next.ActiveTabID = activeID
		} else if len(restored) > 0 {
			next.ActiveTabID = restored[0].TabID()
		}
		return next, Applied, released
	})
}
