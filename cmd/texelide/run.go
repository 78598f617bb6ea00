// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelide/run.go
// Summary: Interactive shell: restores the last session, spawns shells and
//   runs the tcell event loop until quit.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/framegrace/texelide/config"
	"github.com/framegrace/texelide/internal/ptyhost"
	"github.com/framegrace/texelide/internal/session"
	"github.com/framegrace/texelide/protocol"
	"github.com/framegrace/texelide/texel"
	"github.com/framegrace/texelide/tui"
)

const previewRefresh = 100 * time.Millisecond

// Error codes written to recordings.
const errSpawnFailed uint16 = 1

func runShell(cmd *cobra.Command, args []string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("texelide needs an interactive terminal on stdin")
	}

	settings := config.LoadSettings()
	if err := config.Err(); err != nil {
		fmt.Fprintln(os.Stderr, color.YellowString("Warning: config not loaded, using defaults: %v", err))
	}
	if width, height, err := term.GetSize(fd); err == nil && width > 0 && height > 0 {
		// Initial pty size before the first layout pass.
		settings.Cols, settings.Rows = width, height
	}

	paths, err := GetPaths(settings)
	if err != nil {
		return err
	}
	if err := paths.EnsureStateDir(); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	closeLog, err := setupLogging(paths.LogPath, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	db, err := session.Open(paths.DBPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer db.Close()

	store := texel.NewTabStore(
		texel.WithTitleWidth(settings.TitleMaxWidth),
		texel.WithDefaultTitle(settings.DefaultTitle),
	)
	sessionID, err := restoreSession(ctx, db, store, settings)
	if err != nil {
		return err
	}
	if _, err := openFiles(store, args); err != nil {
		return err
	}
	log.Printf("texelide: session %s with %d tabs", sessionID, len(store.Snapshot().Tabs))

	var pub *protocol.Publisher
	if recordPath != "" {
		f, err := os.Create(recordPath)
		if err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
		defer f.Close()
		pub = protocol.NewPublisher(f, sessionID)
		defer pub.Attach(store)()
	}

	opts := ptyhost.Options{
		Shell: settings.Shell,
		Term:  settings.Term,
		Cols:  settings.Cols,
		Rows:  settings.Rows,
	}
	if pub != nil {
		opts.OnAttach = func(tabID texel.TabID, paneID texel.PaneID, handle texel.TerminalHandle) {
			_ = pub.WriteAttach(protocol.PaneAttach{TabID: tabID, PaneID: paneID, Handle: handle})
		}
		opts.OnSpawnError = func(tabID texel.TabID, paneID texel.PaneID, err error) {
			_ = pub.WriteError(errSpawnFailed, fmt.Sprintf("tab %d pane %d: %v", tabID, paneID, err))
		}
	}
	host := ptyhost.New(store, opts)
	store.SetReleaser(host)
	defer host.Close()

	if settings.Autosave {
		saver := session.StartAutosave(db, store, sessionID, settings.AutosaveDelay)
		defer saver.Stop()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	app := tui.NewApp(screen, store, tui.Options{
		Content: func(h texel.TerminalHandle, w, rows int) []string {
			out, err := host.Tail(h)
			if err != nil {
				return nil
			}
			return tui.PlainLines(out, w, rows)
		},
		Input: func(h texel.TerminalHandle, b []byte) {
			if _, err := host.Write(h, b); err != nil {
				log.Printf("texelide: input to terminal %d: %v", h, err)
			}
		},
		Resize: func(h texel.TerminalHandle, cols, rows int) {
			if err := host.Resize(h, cols, rows); err != nil {
				log.Printf("texelide: resize terminal %d: %v", h, err)
			}
		},
		ResizeStep: settings.ResizeStep,
		MinPane:    settings.MinPanePercent,
	})

	defer host.Watch()()

	go func() {
		err := config.Watch(ctx, func(cfg config.Config) {
			next := config.SettingsFrom(cfg)
			app.Do(func() { app.SetResizeStep(next.ResizeStep, next.MinPanePercent) })
			log.Printf("texelide: config reloaded")
		})
		if err != nil {
			log.Printf("texelide: config watch stopped: %v", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(previewRefresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.Refresh()
			}
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := app.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// restoreSession loads the requested or most recent session into store, or
// starts a fresh one with a single terminal tab.
func restoreSession(ctx context.Context, db *session.Store, store *texel.TabStore, settings config.Settings) (uuid.UUID, error) {
	if freshStart {
		store.AddTerminalTab()
		return session.NewID(), nil
	}

	var (
		id    uuid.UUID
		state texel.PersistedState
		err   error
	)
	switch {
	case sessionArg != "":
		id, err = uuid.Parse(sessionArg)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid session id %q: %w", sessionArg, err)
		}
		state, err = db.Load(ctx, id)
	case settings.RestoreOnStart:
		id, state, err = db.Latest(ctx)
	default:
		err = session.ErrNotFound
	}

	if errors.Is(err, session.ErrNotFound) {
		if sessionArg != "" {
			return uuid.Nil, fmt.Errorf("session %s not found", sessionArg)
		}
		store.AddTerminalTab()
		return session.NewID(), nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}

	if res := store.RestoreState(state.Tabs, state.ActiveTabID); res != texel.Applied {
		log.Printf("texelide: restore of %s returned %s", id, res)
	}
	if len(store.Snapshot().Tabs) == 0 {
		store.AddTerminalTab()
	}
	return id, nil
}

// openFiles opens each path in an editor tab. The last one ends up active.
func openFiles(store *texel.TabStore, paths []string) ([]texel.TabID, error) {
	ids := make([]texel.TabID, 0, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
		ids = append(ids, store.AddEditorTab(abs))
	}
	return ids, nil
}
