// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/tab.go
// Summary: Workspace tabs: editor tabs bound to a file and terminal tabs owning a pane tree.

package texel

import (
	"path/filepath"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/go-enry/go-enry/v2"
)

// TabID identifies a tab. Zero means "no tab".
type TabID uint64

// TabKind distinguishes the two tab variants.
type TabKind int

const (
	EditorKind TabKind = iota + 1
	TerminalKind
)

func (k TabKind) String() string {
	switch k {
	case EditorKind:
		return "editor"
	case TerminalKind:
		return "terminal"
	default:
		return "unknown"
	}
}

// ParseTabKind converts the textual form produced by String.
func ParseTabKind(s string) (TabKind, bool) {
	switch s {
	case "editor":
		return EditorKind, true
	case "terminal":
		return TerminalKind, true
	}
	return 0, false
}

// Tab is either an *EditorTab or a *TerminalTab.
type Tab interface {
	TabID() TabID
	Kind() TabKind
	// Label is the text shown in a tab bar.
	Label() string
}

// EditorTab shows one file.
type EditorTab struct {
	ID       TabID
	FilePath string
	Modified bool
	Language string
}

func (t *EditorTab) TabID() TabID  { return t.ID }
func (*EditorTab) Kind() TabKind   { return EditorKind }
func (t *EditorTab) Label() string { return filepath.Base(t.FilePath) }

// TerminalTab owns exactly one pane tree.
type TerminalTab struct {
	ID    TabID
	Title string
	Root  Pane
}

func (t *TerminalTab) TabID() TabID  { return t.ID }
func (*TerminalTab) Kind() TabKind   { return TerminalKind }
func (t *TerminalTab) Label() string { return t.Title }

func (t *TerminalTab) withRoot(root Pane) *TerminalTab {
	return &TerminalTab{ID: t.ID, Title: t.Title, Root: root}
}

// DetectLanguage names the language of path from its file name. go-enry is
// consulted first and chroma's lexer registry fills the gaps. Unknown files
// return "".
func DetectLanguage(path string) string {
	if path == "" {
		return ""
	}
	name := filepath.Base(path)
	if lang, _ := enry.GetLanguageByFilename(name); lang != "" {
		return lang
	}
	if lang, _ := enry.GetLanguageByExtension(name); lang != "" {
		return lang
	}
	if lexer := lexers.Match(name); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
