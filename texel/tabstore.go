// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/tabstore.go
// Summary: Ordered tab collection with an active tab, publishing immutable snapshots.
// Usage: Front ends and the terminal process host mutate tabs through TabStore.
// Notes: Every operation reads the latest snapshot under the store lock, builds
// the next one copy-on-write and publishes it before releasing the lock, so
// concurrent callers never overwrite each other's changes.

package texel

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/mattn/go-runewidth"
)

// DefaultTerminalTitle is used for new terminal tabs unless overridden.
const DefaultTerminalTitle = "Terminal"

// Releaser is told about terminal handles that no longer belong to any pane,
// after the snapshot dropping them has been published.
type Releaser interface {
	Release(handles []TerminalHandle)
}

// ReleaserFunc adapts a function to Releaser.
type ReleaserFunc func(handles []TerminalHandle)

func (f ReleaserFunc) Release(handles []TerminalHandle) { f(handles) }

// StoreOption configures a TabStore.
type StoreOption func(*TabStore)

// WithIDSequence makes the store draw ids from seq.
func WithIDSequence(seq *IDSequence) StoreOption {
	return func(s *TabStore) {
		if seq != nil {
			s.ids = seq
		}
	}
}

// WithReleaser registers the collaborator that owns terminal processes.
func WithReleaser(r Releaser) StoreOption {
	return func(s *TabStore) { s.releaser = r }
}

// WithTitleWidth truncates terminal titles to at most width display cells.
// Zero disables truncation.
func WithTitleWidth(width int) StoreOption {
	return func(s *TabStore) { s.titleWidth = width }
}

// WithDefaultTitle sets the title of new terminal tabs.
func WithDefaultTitle(title string) StoreOption {
	return func(s *TabStore) { s.defaultTitle = title }
}

// TabStore holds the tabs of one window.
type TabStore struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	snap     Snapshot
	ids      *IDSequence

	subscribers map[int]func(Snapshot)
	nextSub     int

	releaser     Releaser
	titleWidth   int
	defaultTitle string
}

// NewTabStore returns an empty store.
func NewTabStore(opts ...StoreOption) *TabStore {
	s := &TabStore{
		ids:          NewIDSequence(),
		subscribers:  make(map[int]func(Snapshot)),
		defaultTitle: DefaultTerminalTitle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the latest published state.
func (s *TabStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to receive every snapshot published from now on, in
// publish order. fn runs synchronously on the publishing goroutine and must
// not call back into the store. The returned function unsubscribes.
func (s *TabStore) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// SetReleaser replaces the handle releaser.
func (s *TabStore) SetReleaser(r Releaser) {
	s.mu.Lock()
	s.releaser = r
	s.mu.Unlock()
}

type mutation func(cur Snapshot) (next Snapshot, res Result, released []TerminalHandle)

// apply runs m against the latest snapshot and publishes the result when it
// reports Applied. Subscribers are notified in publish order; releases happen
// after notification.
func (s *TabStore) apply(op string, m mutation) Result {
	s.mu.Lock()
	next, res, released := m(s.snap)
	if res != Applied {
		s.mu.Unlock()
		debugLog.Printf("TabStore.%s: %s, nothing published", op, res)
		return res
	}
	next.Version = s.snap.Version + 1
	s.snap = next

	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Snapshot), len(ids))
	for i, id := range ids {
		subs[i] = s.subscribers[id]
	}
	releaser := s.releaser

	s.notifyMu.Lock()
	s.mu.Unlock()
	for _, fn := range subs {
		fn(next)
	}
	s.notifyMu.Unlock()

	debugLog.Printf("TabStore.%s: published version %d (%d tabs, active=%d)", op, next.Version, len(next.Tabs), next.ActiveTabID)
	if releaser != nil && len(released) > 0 {
		debugLog.Printf("TabStore.%s: releasing handles %v", op, released)
		releaser.Release(released)
	}
	return res
}

// AddTerminalTab appends a terminal tab holding a single unattached leaf and
// makes it active.
func (s *TabStore) AddTerminalTab() TabID {
	var id TabID
	s.apply("AddTerminalTab", func(cur Snapshot) (Snapshot, Result, []TerminalHandle) {
		id = s.ids.NextTabID()
		tab := &TerminalTab{ID: id, Title: s.fitTitle(s.defaultTitle), Root: NewLeaf(s.ids.NextPaneID())}
		return appendTab(cur, tab), Applied, nil
	})
	return id
}

// AddEditorTab opens path in a new editor tab and makes it active. A path that
// is already open activates the existing tab instead, publishing nothing when
// it is already active.
func (s *TabStore) AddEditorTab(path string) TabID {
	clean := filepath.Clean(path)
	var id TabID
	s.apply("AddEditorTab", func(cur Snapshot) (Snapshot, Result, []TerminalHandle) {
		for _, tab := range cur.Tabs {
			if ed, ok := tab.(*EditorTab); ok && ed.FilePath == clean {
				id = ed.ID
				if cur.ActiveTabID == id {
					return cur, Rejected, nil
				}
				return Snapshot{Tabs: cur.Tabs, ActiveTabID: id}, Applied, nil
			}
		}
		id = s.ids.NextTabID()
		tab := &EditorTab{ID: id, FilePath: clean, Language: DetectLanguage(clean)}
		return appendTab(cur, tab), Applied, nil
	})
	return id
}

func appendTab(cur Snapshot, tab Tab) Snapshot {
	tabs := make([]Tab, 0, len(cur.Tabs)+1)
	tabs = append(tabs, cur.Tabs...)
	tabs = append(tabs, tab)
	return Snapshot{Tabs: tabs, ActiveTabID: tab.TabID()}
}

// CloseTab removes a tab. When it was active, the tab now at the same index
// becomes active, else the one before it, else none. Terminal handles owned by
// the tab are released.
func (s *TabStore) CloseTab(id TabID) Result {
	return s.apply("CloseTab", func(cur Snapshot) (Snapshot, Result, []TerminalHandle) {
		tab, idx := cur.Tab(id)
		if tab == nil {
			return cur, NotFound, nil
		}
		next := closeTabAt(cur, idx)
		var released []TerminalHandle
		if term, ok := tab.(*TerminalTab); ok {
			released = AllTerminalHandles(term.Root)
		}
		return next, Applied, released
	})
}

func closeTabAt(cur Snapshot, idx int) Snapshot {
	id := cur.Tabs[idx].TabID()
	tabs := removeTab(cur.Tabs, idx)
	active := cur.ActiveTabID
	if active == id {
		switch {
		case len(tabs) == 0:
			active = 0
		case idx < len(tabs):
			active = tabs[idx].TabID()
		default:
			active = tabs[idx-1].TabID()
		}
	}
	return Snapshot{Tabs: tabs, ActiveTabID: active}
}

// SetActiveTab activates an existing tab.
func (s *TabStore) SetActiveTab(id TabID) Result {
	return s.apply("SetActiveTab", func(cur Snapshot) (Snapshot, Result, []TerminalHandle) {
		if tab, _ := cur.Tab(id); tab == nil {
			return cur, NotFound, nil
		}
		return Snapshot{Tabs: cur.Tabs, ActiveTabID: id}, Applied, nil
	})
}

// UpdateTabTitle renames a terminal tab. Editor tabs are named after their
// file and are left alone.
func (s *TabStore) UpdateTabTitle(id TabID, title string) Result {
	title = s.fitTitle(title)
	return s.apply("UpdateTabTitle", func(cur Snapshot) (Snapshot, Result, []TerminalHandle) {
		tab, idx := cur.Tab(id)
		if tab == nil {
			return cur, NotFound, nil
		}
		term, ok := tab.(*TerminalTab)
		if !ok {
			return cur, Rejected, nil
		}
		renamed := &TerminalTab{ID: term.ID, Title: title, Root: term.Root}
		return Snapshot{Tabs: replaceTab(cur.Tabs, idx, renamed), ActiveTabID: cur.ActiveTabID}, Applied, nil
	})
}

// SetTabModified flags an editor tab as having unsaved changes.
func (s *TabStore) SetTabModified(id TabID, modified bool) Result {
	return s.apply("SetTabModified", func(cur Snapshot) (Snapshot, Result, []TerminalHandle) {
		tab, idx := cur.Tab(id)
		if tab == nil {
			return cur, NotFound, nil
		}
		ed, ok := tab.(*EditorTab)
		if !ok {
			return cur, Rejected, nil
		}
		updated := *ed
		updated.Modified = modified
		return Snapshot{Tabs: replaceTab(cur.Tabs, idx, &updated), ActiveTabID: cur.ActiveTabID}, Applied, nil
	})
}

// fitTitle truncates title to the configured display width.
func (s *TabStore) fitTitle(title string) string {
	if s.titleWidth > 0 && runewidth.StringWidth(title) > s.titleWidth {
		return runewidth.Truncate(title, s.titleWidth, "…")
	}
	return title
}

// updateTree runs fn on the root of a terminal tab and swaps in the result.
func (s *TabStore) updateTree(op string, tabID TabID, fn func(root Pane) (Pane, Result, []TerminalHandle)) Result {
	return s.apply(op, func(cur Snapshot) (Snapshot, Result, []TerminalHandle) {
		tab, idx := cur.Tab(tabID)
		if tab == nil {
			return cur, NotFound, nil
		}
		term, ok := tab.(*TerminalTab)
		if !ok {
			return cur, NotFound, nil
		}
		root, res, released := fn(term.Root)
		if res != Applied {
			return cur, res, nil
		}
		if root == nil {
			return closeTabAt(cur, idx), Applied, released
		}
		return Snapshot{
			Tabs:        replaceTab(cur.Tabs, idx, term.withRoot(root)),
			ActiveTabID: cur.ActiveTabID,
		}, Applied, released
	})
}

// SetTerminalID binds handle to a leaf of a terminal tab. A leaf keeps the
// first handle it is given.
func (s *TabStore) SetTerminalID(tabID TabID, paneID PaneID, handle TerminalHandle) Result {
	return s.updateTree("SetTerminalID", tabID, func(root Pane) (Pane, Result, []TerminalHandle) {
		updated, res := AttachTerminal(root, paneID, handle)
		return updated, res, nil
	})
}

// SplitPane adds a new unattached leaf next to paneID and returns its id.
func (s *TabStore) SplitPane(tabID TabID, paneID PaneID, dir Direction) (PaneID, Result) {
	var fresh PaneID
	res := s.updateTree("SplitPane", tabID, func(root Pane) (Pane, Result, []TerminalHandle) {
		if FindLeaf(root, paneID) == nil {
			return root, NotFound, nil
		}
		leaf := NewLeaf(s.ids.NextPaneID())
		updated, res := SplitPane(root, paneID, dir, leaf, s.ids)
		if res == Applied {
			fresh = leaf.ID
		}
		return updated, res, nil
	})
	return fresh, res
}

// ClosePane removes a leaf. Closing the last leaf of a tab closes the tab.
func (s *TabStore) ClosePane(tabID TabID, paneID PaneID) Result {
	return s.updateTree("ClosePane", tabID, func(root Pane) (Pane, Result, []TerminalHandle) {
		leaf := FindLeaf(root, paneID)
		if leaf == nil {
			return root, NotFound, nil
		}
		updated, res := ClosePane(root, paneID)
		var released []TerminalHandle
		if handle, ok := leaf.Terminal(); ok {
			released = []TerminalHandle{handle}
		}
		return updated, res, released
	})
}

// UpdatePaneSizes sets the sizes of the split addressed by target, either its
// SplitID or the id of its first child.
func (s *TabStore) UpdatePaneSizes(tabID TabID, target NodeRef, sizes []float64) Result {
	return s.updateTree("UpdatePaneSizes", tabID, func(root Pane) (Pane, Result, []TerminalHandle) {
		updated, res := ResizeSplit(root, target, sizes)
		return updated, res, nil
	})
}
