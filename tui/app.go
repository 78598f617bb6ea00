// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/app.go
// Summary: Event loop tying a tcell screen to a tab store.
// Usage: app := tui.NewApp(screen, store, opts); err := app.Run(ctx)

package tui

import (
	"context"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelide/texel"
)

// Options configures an App.
type Options struct {
	Styles     Styles
	Content    ContentFunc
	Input      InputFunc
	Resize     func(handle texel.TerminalHandle, cols, rows int)
	ResizeStep float64
	MinPane    float64
}

// App runs the interactive loop.
type App struct {
	screen   tcell.Screen
	store    *texel.TabStore
	view     *View
	keymap   *Keymap
	renderer *Renderer
	resize   func(handle texel.TerminalHandle, cols, rows int)

	sizes map[texel.TerminalHandle][2]int
}

// NewApp wires a screen to store. The screen must already be initialised.
func NewApp(screen tcell.Screen, store *texel.TabStore, opts Options) *App {
	if opts.Styles == (Styles{}) {
		opts.Styles = DefaultStyles()
	}
	view := NewView()
	km := NewKeymap(store, view, opts.Input)
	if opts.ResizeStep > 0 {
		km.ResizeStep = opts.ResizeStep
	}
	if opts.MinPane > 0 {
		km.MinPane = opts.MinPane
	}
	return &App{
		screen:   screen,
		store:    store,
		view:     view,
		keymap:   km,
		renderer: NewRenderer(screen, opts.Styles, opts.Content),
		resize:   opts.Resize,
		sizes:    make(map[texel.TerminalHandle][2]int),
	}
}

// View exposes the focus state.
func (a *App) View() *View { return a.view }

// Refresh asks the loop to redraw. Safe from any goroutine.
func (a *App) Refresh() {
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Do runs fn on the event loop goroutine.
func (a *App) Do(fn func()) {
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// SetResizeStep changes the divider step and minimum pane size. Call it from
// the event loop, for example through Do.
func (a *App) SetResizeStep(step, minPane float64) {
	if step > 0 {
		a.keymap.ResizeStep = step
	}
	if minPane > 0 {
		a.keymap.MinPane = minPane
	}
}

// Run processes events until quit or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	unsubscribe := a.store.Subscribe(func(texel.Snapshot) { a.Refresh() })
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(ctx))
		case <-done:
		}
	}()

	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
			a.draw()
		case *tcell.EventKey:
			switch a.keymap.HandleKey(e) {
			case ActionQuit:
				return nil
			case ActionRedraw:
				a.draw()
			}
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if fn, ok := e.Data().(func()); ok {
				fn()
			}
			a.draw()
		}
	}
}

func (a *App) draw() {
	snap := a.store.Snapshot()
	a.view.Forget(snap)
	geom := a.renderer.Draw(snap, a.view)
	a.keymap.SetGeometry(geom)
	a.syncSizes(snap, geom)
}

// syncSizes reports inner pane sizes to the terminal owner when they change.
func (a *App) syncSizes(snap texel.Snapshot, geom texel.Geometry) {
	if a.resize == nil {
		return
	}
	term, ok := snap.Active().(*texel.TerminalTab)
	if !ok {
		return
	}
	for id, handle := range texel.PaneHandleMap(term.Root) {
		rect, ok := geom.Panes[id]
		if !ok {
			continue
		}
		size := [2]int{rect.W - 2, rect.H - 2}
		if size[0] <= 0 || size[1] <= 0 || a.sizes[handle] == size {
			continue
		}
		a.sizes[handle] = size
		log.Printf("pane %d: terminal %d resized to %dx%d", id, handle, size[0], size[1])
		a.resize(handle, size[0], size[1])
	}
}
