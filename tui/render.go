// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/render.go
// Summary: Draws a tab snapshot onto a tcell screen: tab bar, pane borders
//   and labels, and an optional plain-text preview per terminal.

package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelide/texel"
)

// Styles groups the styles used by the renderer.
type Styles struct {
	Base        tcell.Style
	TabBar      tcell.Style
	ActiveTab   tcell.Style
	Border      tcell.Style
	FocusBorder tcell.Style
	Control     tcell.Style
}

// DefaultStyles returns the built-in palette.
func DefaultStyles() Styles {
	base := tcell.StyleDefault
	return Styles{
		Base:        base,
		TabBar:      base.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite),
		ActiveTab:   base.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack).Bold(true),
		Border:      base.Foreground(tcell.ColorGray),
		FocusBorder: base.Foreground(tcell.ColorYellow).Bold(true),
		Control:     base.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite).Bold(true),
	}
}

// ContentFunc returns the text lines to show inside a terminal pane.
type ContentFunc func(handle texel.TerminalHandle, w, h int) []string

// Renderer paints snapshots onto a screen.
type Renderer struct {
	screen  tcell.Screen
	styles  Styles
	content ContentFunc
}

// NewRenderer returns a renderer for screen. content may be nil.
func NewRenderer(screen tcell.Screen, styles Styles, content ContentFunc) *Renderer {
	return &Renderer{screen: screen, styles: styles, content: content}
}

// BodyRect returns the area below the tab bar for a w×h screen.
func BodyRect(w, h int) texel.Rect {
	if h < 1 {
		return texel.Rect{W: w}
	}
	return texel.Rect{X: 0, Y: 1, W: w, H: h - 1}
}

// Draw renders snap and returns the geometry of the active terminal tab.
func (r *Renderer) Draw(snap texel.Snapshot, view *View) texel.Geometry {
	r.screen.SetStyle(r.styles.Base)
	r.screen.Clear()
	w, h := r.screen.Size()

	r.drawTabBar(snap, view, w)

	var geom texel.Geometry
	body := BodyRect(w, h)
	switch tab := snap.Active().(type) {
	case *texel.TerminalTab:
		geom = texel.Layout(tab.Root, body)
		focused := view.Focused(tab)
		handles := texel.PaneHandleMap(tab.Root)
		for id, rect := range geom.Panes {
			handle, attached := handles[id]
			r.drawPane(id, rect, id == focused, handle, attached)
		}
	case *texel.EditorTab:
		r.drawEditor(tab, body)
	default:
		msg := "no tabs: Ctrl-A c opens a terminal"
		drawText(r.screen, (w-runewidth.StringWidth(msg))/2, body.Y+body.H/2, w, msg, r.styles.Base)
	}
	r.screen.Show()
	return geom
}

func (r *Renderer) drawTabBar(snap texel.Snapshot, view *View, w int) {
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, 0, ' ', nil, r.styles.TabBar)
	}
	x := 0
	if view.ControlMode() {
		x += drawText(r.screen, x, 0, w-x, " CTRL ", r.styles.Control)
	}
	for i, tab := range snap.Tabs {
		label := tab.Label()
		if ed, ok := tab.(*texel.EditorTab); ok && ed.Modified {
			label += "*"
		}
		text := fmt.Sprintf(" %d:%s ", i+1, label)
		style := r.styles.TabBar
		if tab.TabID() == snap.ActiveTabID {
			style = r.styles.ActiveTab
		}
		if x >= w {
			break
		}
		x += drawText(r.screen, x, 0, w-x, text, style)
	}
}

func (r *Renderer) drawPane(id texel.PaneID, rect texel.Rect, focused bool, handle texel.TerminalHandle, attached bool) {
	if rect.W < 2 || rect.H < 2 {
		return
	}
	style := r.styles.Border
	if focused {
		style = r.styles.FocusBorder
	}
	x0, y0 := rect.X, rect.Y
	x1, y1 := rect.X+rect.W-1, rect.Y+rect.H-1
	for x := x0 + 1; x < x1; x++ {
		r.screen.SetContent(x, y0, tcell.RuneHLine, nil, style)
		r.screen.SetContent(x, y1, tcell.RuneHLine, nil, style)
	}
	for y := y0 + 1; y < y1; y++ {
		r.screen.SetContent(x0, y, tcell.RuneVLine, nil, style)
		r.screen.SetContent(x1, y, tcell.RuneVLine, nil, style)
	}
	r.screen.SetContent(x0, y0, tcell.RuneULCorner, nil, style)
	r.screen.SetContent(x1, y0, tcell.RuneURCorner, nil, style)
	r.screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, style)
	r.screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, style)

	label := fmt.Sprintf(" pane %d ", id)
	if !attached {
		label = fmt.Sprintf(" pane %d (starting) ", id)
	}
	drawText(r.screen, x0+1, y0, rect.W-2, label, style)

	if r.content == nil || !attached {
		return
	}
	inner := texel.Rect{X: x0 + 1, Y: y0 + 1, W: rect.W - 2, H: rect.H - 2}
	for i, line := range r.content(handle, inner.W, inner.H) {
		if i >= inner.H {
			break
		}
		drawText(r.screen, inner.X, inner.Y+i, inner.W, line, r.styles.Base)
	}
}

func (r *Renderer) drawEditor(tab *texel.EditorTab, body texel.Rect) {
	lines := []string{tab.FilePath}
	if tab.Language != "" {
		lines = append(lines, tab.Language)
	}
	if tab.Modified {
		lines = append(lines, "modified")
	}
	top := body.Y + (body.H-len(lines))/2
	for i, line := range lines {
		width := runewidth.StringWidth(line)
		x := body.X + (body.W-width)/2
		if x < body.X {
			x = body.X
		}
		drawText(r.screen, x, top+i, body.W, line, r.styles.Base)
	}
}
