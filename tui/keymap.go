// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/keymap.go
// Summary: Maps key events to tab store operations.
// Usage: Ctrl-A enters control mode; the next key is a command. Other keys
//   are forwarded to the focused terminal.
// Notes: Commands: c new tab, x close pane, X close tab, | split side by side,
//   - split stacked, n/p next/previous tab, 1-9 select tab, arrows move focus,
//   Ctrl-arrows move the nearest divider, q quit, Esc cancel.

package tui

import (
	"log"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelide/texel"
)

const keyControlMode = tcell.KeyCtrlA

// Action tells the event loop what to do after a key.
type Action int

const (
	ActionNone Action = iota
	ActionRedraw
	ActionQuit
)

// InputFunc receives bytes typed into a terminal pane.
type InputFunc func(handle texel.TerminalHandle, b []byte)

// Keymap translates keys into store operations.
type Keymap struct {
	store *texel.TabStore
	view  *View
	input InputFunc

	// ResizeStep is the divider move per key press, in percentage points.
	ResizeStep float64
	// MinPane is the smallest size a divider move may leave, in percent.
	MinPane float64

	geom texel.Geometry
}

// NewKeymap returns a keymap acting on store.
func NewKeymap(store *texel.TabStore, view *View, input InputFunc) *Keymap {
	return &Keymap{store: store, view: view, input: input, ResizeStep: 5, MinPane: 5}
}

// SetGeometry records the last drawn layout, used for focus moves.
func (k *Keymap) SetGeometry(g texel.Geometry) {
	k.geom = g
}

// HandleKey processes one key event.
func (k *Keymap) HandleKey(ev *tcell.EventKey) Action {
	if k.view.ControlMode() {
		k.view.setControl(false)
		return k.command(ev)
	}
	if ev.Key() == keyControlMode {
		k.view.setControl(true)
		return ActionRedraw
	}
	k.forward(ev)
	return ActionNone
}

func (k *Keymap) command(ev *tcell.EventKey) Action {
	snap := k.store.Snapshot()
	term, _ := snap.Active().(*texel.TerminalTab)

	if ev.Key() == tcell.KeyEsc {
		return ActionRedraw
	}
	if ev.Key() == keyControlMode {
		// Ctrl-A Ctrl-A sends a literal Ctrl-A.
		k.forward(ev)
		return ActionRedraw
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 && term != nil {
		if k.resize(term, ev.Key()) {
			return ActionRedraw
		}
	}
	switch ev.Key() {
	case tcell.KeyLeft, tcell.KeyRight, tcell.KeyUp, tcell.KeyDown:
		if term != nil {
			k.moveFocus(term, ev.Key())
		}
		return ActionRedraw
	}

	r := ev.Rune()
	if r >= '1' && r <= '9' {
		if idx := int(r - '1'); idx < len(snap.Tabs) {
			k.store.SetActiveTab(snap.Tabs[idx].TabID())
		}
		return ActionRedraw
	}

	switch r {
	case 'c':
		k.store.AddTerminalTab()
	case 'X':
		if tab := snap.Active(); tab != nil {
			k.store.CloseTab(tab.TabID())
		}
	case 'x':
		if term != nil {
			k.store.ClosePane(term.ID, k.view.Focused(term))
		} else if tab := snap.Active(); tab != nil {
			k.store.CloseTab(tab.TabID())
		}
	case '|':
		k.split(term, texel.Horizontal)
	case '-':
		k.split(term, texel.Vertical)
	case 'n':
		k.cycle(snap, 1)
	case 'p':
		k.cycle(snap, -1)
	case 'q':
		return ActionQuit
	}
	return ActionRedraw
}

func (k *Keymap) split(term *texel.TerminalTab, dir texel.Direction) {
	if term == nil {
		return
	}
	fresh, res := k.store.SplitPane(term.ID, k.view.Focused(term), dir)
	if res == texel.Applied {
		k.view.SetFocus(term.ID, fresh)
	}
}

func (k *Keymap) cycle(snap texel.Snapshot, step int) {
	n := len(snap.Tabs)
	if n == 0 {
		return
	}
	_, idx := snap.Tab(snap.ActiveTabID)
	if idx < 0 {
		idx = 0
	}
	next := ((idx+step)%n + n) % n
	k.store.SetActiveTab(snap.Tabs[next].TabID())
}

// moveFocus picks the pane bordering the focused one on the given side.
func (k *Keymap) moveFocus(term *texel.TerminalTab, key tcell.Key) {
	cur := k.view.Focused(term)
	rect, ok := k.geom.Panes[cur]
	if !ok {
		return
	}
	var x, y int
	switch key {
	case tcell.KeyLeft:
		x, y = rect.X-1, rect.Y+rect.H/2
	case tcell.KeyRight:
		x, y = rect.X+rect.W, rect.Y+rect.H/2
	case tcell.KeyUp:
		x, y = rect.X+rect.W/2, rect.Y-1
	case tcell.KeyDown:
		x, y = rect.X+rect.W/2, rect.Y+rect.H
	}
	if id, ok := k.geom.LeafAt(x, y); ok && texel.FindLeaf(term.Root, id) != nil {
		k.view.SetFocus(term.ID, id)
	}
}

// resize moves the divider of the nearest ancestor split laid out along the
// arrow's axis. Right and Down move it forward.
func (k *Keymap) resize(term *texel.TerminalTab, key tcell.Key) bool {
	var (
		dir   texel.Direction
		delta float64
	)
	switch key {
	case tcell.KeyLeft:
		dir, delta = texel.Horizontal, -k.ResizeStep
	case tcell.KeyRight:
		dir, delta = texel.Horizontal, k.ResizeStep
	case tcell.KeyUp:
		dir, delta = texel.Vertical, -k.ResizeStep
	case tcell.KeyDown:
		dir, delta = texel.Vertical, k.ResizeStep
	default:
		return false
	}

	var ref texel.NodeRef = k.view.Focused(term)
	for {
		parent, idx := texel.ParentOf(term.Root, ref)
		if parent == nil {
			return true
		}
		if parent.Direction == dir {
			divider := idx
			if divider == len(parent.Sizes)-1 {
				divider--
			}
			sizes := texel.MoveDivider(parent.Sizes, divider, delta, k.MinPane)
			if res := k.store.UpdatePaneSizes(term.ID, parent.ID, sizes); res != texel.Applied {
				log.Printf("resize split %d: %s", parent.ID, res)
			}
			return true
		}
		ref = parent.ID
	}
}

// forward sends the key to the focused terminal.
func (k *Keymap) forward(ev *tcell.EventKey) {
	if k.input == nil {
		return
	}
	term, ok := k.store.Snapshot().Active().(*texel.TerminalTab)
	if !ok {
		return
	}
	leaf := texel.FindLeaf(term.Root, k.view.Focused(term))
	if leaf == nil {
		return
	}
	handle, attached := leaf.Terminal()
	if !attached {
		return
	}
	if b := KeyBytes(ev); len(b) > 0 {
		k.input(handle, b)
	}
}

// KeyBytes encodes a key event the way an xterm would send it.
func KeyBytes(ev *tcell.EventKey) []byte {
	switch ev.Key() {
	case tcell.KeyRune:
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, ev.Rune())
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return append([]byte{0x1b}, buf[:n]...)
		}
		return buf[:n]
	case tcell.KeyEnter:
		return []byte{'\r'}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{0x7f}
	case tcell.KeyTab:
		return []byte{'\t'}
	case tcell.KeyEsc:
		return []byte{0x1b}
	case tcell.KeyUp:
		return []byte("\x1b[A")
	case tcell.KeyDown:
		return []byte("\x1b[B")
	case tcell.KeyRight:
		return []byte("\x1b[C")
	case tcell.KeyLeft:
		return []byte("\x1b[D")
	case tcell.KeyHome:
		return []byte("\x1b[H")
	case tcell.KeyEnd:
		return []byte("\x1b[F")
	case tcell.KeyDelete:
		return []byte("\x1b[3~")
	case tcell.KeyPgUp:
		return []byte("\x1b[5~")
	case tcell.KeyPgDn:
		return []byte("\x1b[6~")
	}
	if k := ev.Key(); k < 0x20 {
		return []byte{byte(k)}
	}
	return nil
}
