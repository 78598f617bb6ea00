// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/framegrace/texelide/texel"
)

func TestPublisherRecordsStoreSnapshots(t *testing.T) {
	var session [16]byte
	copy(session[:], "record-session-1")

	store := texel.NewTabStore()
	buf := &bytes.Buffer{}
	pub := NewPublisher(buf, session)
	stop := pub.Attach(store)

	tab := store.AddTerminalTab()
	store.UpdateTabTitle(tab, "build")
	stop()
	store.AddTerminalTab() // not recorded

	if err := pub.WriteAttach(PaneAttach{TabID: tab, PaneID: 1, Handle: 3}); err != nil {
		t.Fatalf("WriteAttach: %v", err)
	}

	var (
		types []MessageType
		seqs  []uint64
		last  texel.Snapshot
	)
	err := Replay(buf, func(f Frame) error {
		if f.Header.SessionID != session {
			t.Fatalf("unexpected session id %x", f.Header.SessionID)
		}
		types = append(types, f.Header.Type)
		seqs = append(seqs, f.Header.Sequence)
		if f.Snapshot != nil {
			last = *f.Snapshot
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	want := []MessageType{MsgHello, MsgTabSnapshot, MsgTabSnapshot, MsgTabSnapshot, MsgPaneAttach}
	if len(types) != len(want) {
		t.Fatalf("expected %d frames, got %v", len(want), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("frame %d: got %s, want %s", i, types[i], want[i])
		}
		if seqs[i] != uint64(i+1) {
			t.Fatalf("frame %d: sequence %d", i, seqs[i])
		}
	}
	if len(last.Tabs) != 1 || last.Tabs[0].Label() != "build" {
		t.Fatalf("unexpected last snapshot %+v", last)
	}
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errors.New("disk full")
}

func TestPublisherStopsAfterWriteError(t *testing.T) {
	w := &failingWriter{}
	pub := NewPublisher(w, [16]byte{})
	if err := pub.WriteError(1, "boom"); err == nil {
		t.Fatalf("expected write error")
	}
	if err := pub.WriteError(1, "again"); err == nil {
		t.Fatalf("expected sticky write error")
	}
	if w.n != 1 {
		t.Fatalf("expected a single write attempt, got %d", w.n)
	}
}

func TestReplayStopsOnCallbackError(t *testing.T) {
	buf := &bytes.Buffer{}
	pub := NewPublisher(buf, [16]byte{})
	_ = pub.WriteError(1, "a")
	_ = pub.WriteError(2, "b")

	sentinel := errors.New("stop")
	calls := 0
	err := Replay(buf, func(Frame) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) || calls != 1 {
		t.Fatalf("expected sentinel after one call, got %v after %d", err, calls)
	}
}

func TestPublisherDropsStaleSnapshots(t *testing.T) {
	store := texel.NewTabStore()
	store.AddTerminalTab()
	store.AddTerminalTab()
	newer := store.Snapshot()
	older := newer
	older.Version--

	buf := &bytes.Buffer{}
	pub := NewPublisher(buf, [16]byte{})
	for _, snap := range []texel.Snapshot{newer, older, newer} {
		if err := pub.WriteSnapshot(snap); err != nil {
			t.Fatalf("WriteSnapshot: %v", err)
		}
	}

	var versions []uint64
	if err := Replay(buf, func(f Frame) error {
		if f.Snapshot != nil {
			versions = append(versions, f.Snapshot.Version)
		}
		return nil
	}); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(versions) != 1 || versions[0] != newer.Version {
		t.Fatalf("expected only v%d recorded, got %v", newer.Version, versions)
	}
}
