// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/messages_test.go
// Summary: Payload codec round trips and malformed payload handling.

package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/framegrace/texelide/texel"
)

func buildStore(t *testing.T) *texel.TabStore {
	t.Helper()
	store := texel.NewTabStore()
	tab := store.AddTerminalTab()
	term, _ := store.Snapshot().Terminal(tab)
	first := term.Root.(*texel.Leaf).ID
	if res := store.SetTerminalID(tab, first, 0); res != texel.Applied {
		t.Fatalf("SetTerminalID: %s", res)
	}
	second, res := store.SplitPane(tab, first, texel.Horizontal)
	if res != texel.Applied {
		t.Fatalf("SplitPane: %s", res)
	}
	if _, res := store.SplitPane(tab, second, texel.Vertical); res != texel.Applied {
		t.Fatalf("nested SplitPane: %s", res)
	}
	store.AddEditorTab("/src/tree.go")
	store.SetTabModified(store.Snapshot().ActiveTabID, true)
	return store
}

func TestTabSnapshotRoundTrip(t *testing.T) {
	snap := buildStore(t).Snapshot()
	payload, err := EncodeTabSnapshot(snap)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeTabSnapshot(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.Version != snap.Version || decoded.ActiveTabID != snap.ActiveTabID {
		t.Fatalf("header mismatch: v%d/%d vs v%d/%d", decoded.Version, decoded.ActiveTabID, snap.Version, snap.ActiveTabID)
	}
	if len(decoded.Tabs) != len(snap.Tabs) {
		t.Fatalf("tab count mismatch: %d vs %d", len(decoded.Tabs), len(snap.Tabs))
	}

	origTerm := snap.Tabs[0].(*texel.TerminalTab)
	gotTerm, ok := decoded.Tabs[0].(*texel.TerminalTab)
	if !ok {
		t.Fatalf("expected terminal tab, got %T", decoded.Tabs[0])
	}
	if gotTerm.Title != origTerm.Title {
		t.Fatalf("title mismatch: %q vs %q", gotTerm.Title, origTerm.Title)
	}
	if got, want := texel.Dump(gotTerm.Root), texel.Dump(origTerm.Root); got != want {
		t.Fatalf("tree mismatch:\n%s\nwant:\n%s", got, want)
	}
	if err := texel.CheckInvariants(gotTerm.Root); err != nil {
		t.Fatalf("decoded tree invalid: %v", err)
	}
	if h, ok := texel.FirstTerminalHandle(gotTerm.Root); !ok || h != 0 {
		t.Fatalf("expected attached handle 0 to survive, got %d, %v", h, ok)
	}

	editor, ok := decoded.Tabs[1].(*texel.EditorTab)
	if !ok {
		t.Fatalf("expected editor tab, got %T", decoded.Tabs[1])
	}
	if editor.FilePath != "/src/tree.go" || !editor.Modified || editor.Language != "Go" {
		t.Fatalf("editor mismatch: %+v", editor)
	}
}

func TestEmptySnapshotRoundTrip(t *testing.T) {
	payload, err := EncodeTabSnapshot(texel.Snapshot{})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeTabSnapshot(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.Tabs) != 0 || decoded.ActiveTabID != 0 {
		t.Fatalf("expected empty snapshot, got %+v", decoded)
	}
}

func TestTabSnapshotTruncated(t *testing.T) {
	payload, err := EncodeTabSnapshot(buildStore(t).Snapshot())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	for _, cut := range []int{0, 10, 18, len(payload) / 2, len(payload) - 1} {
		if _, err := DecodeTabSnapshot(payload[:cut]); err == nil {
			t.Fatalf("expected error decoding %d of %d bytes", cut, len(payload))
		}
	}
	if _, err := DecodeTabSnapshot(append(payload, 0)); err != errExtraBytes {
		t.Fatalf("expected errExtraBytes, got %v", err)
	}
}

func TestPaneAttachRoundTrip(t *testing.T) {
	in := PaneAttach{TabID: 4, PaneID: 9, Handle: -1}
	payload, err := EncodePaneAttach(in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	out, err := DecodePaneAttach(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out != in {
		t.Fatalf("mismatch: %+v vs %+v", out, in)
	}
}

func TestErrorFrameRoundTrip(t *testing.T) {
	payload, err := EncodeErrorFrame(ErrorFrame{Code: 2, Message: "split rejected"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	out, err := DecodeErrorFrame(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Code != 2 || out.Message != "split rejected" {
		t.Fatalf("unexpected frame %+v", out)
	}
	if _, err := DecodeErrorFrame(append(payload, 0)); !errors.Is(err, errExtraBytes) {
		t.Fatalf("expected trailing data error, got %v", err)
	}
}

func TestStringTooLong(t *testing.T) {
	snap := texel.Snapshot{Tabs: []texel.Tab{
		&texel.TerminalTab{ID: 1, Title: strings.Repeat("x", 0x10000), Root: texel.NewLeaf(1)},
	}}
	if _, err := EncodeTabSnapshot(snap); err != errStringTooLong {
		t.Fatalf("expected errStringTooLong, got %v", err)
	}
}
