// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/ptyhost/host.go
// Summary: Spawns a shell per unattached pane and reports its handle to the
//   tab store.
// Usage: h := ptyhost.New(store, opts); stop := h.Watch(); defer h.Close()
// Notes: Handles are bound with SetTerminalID from a separate goroutine so
//   the host never calls back into the store from a subscriber.

package ptyhost

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/framegrace/texelide/texel"
)

// ErrUnknownHandle is returned for handles the host does not own.
var ErrUnknownHandle = errors.New("ptyhost: unknown handle")

const (
	tailSize  = 4096
	killGrace = 2 * time.Second
)

// Options configures spawned processes.
type Options struct {
	Shell string
	Args  []string
	Term  string
	Cols  int
	Rows  int
	Env   []string

	// OnAttach, when set, is called after a spawned process is bound to its pane.
	OnAttach func(tabID texel.TabID, paneID texel.PaneID, handle texel.TerminalHandle)
	// OnSpawnError, when set, is called when a watched pane cannot get a process.
	OnSpawnError func(tabID texel.TabID, paneID texel.PaneID, err error)
}

type process struct {
	handle texel.TerminalHandle
	tabID  texel.TabID
	paneID texel.PaneID
	cmd    *exec.Cmd
	pty    *os.File
	done   chan struct{}

	mu     sync.Mutex
	tail   []byte
	title  string
	killed bool
}

func (p *process) appendTail(b []byte) {
	p.mu.Lock()
	p.tail = append(p.tail, b...)
	if over := len(p.tail) - tailSize; over > 0 {
		p.tail = append(p.tail[:0], p.tail[over:]...)
	}
	p.mu.Unlock()
}

// Host owns the shell processes bound to a store's panes.
type Host struct {
	store *texel.TabStore
	opts  Options

	mu      sync.Mutex
	next    texel.TerminalHandle
	procs   map[texel.TerminalHandle]*process
	pending map[texel.PaneID]struct{}
	closed  bool

	wg sync.WaitGroup
}

// New returns a host for store. Zero-valued options fall back to /bin/sh and
// an 80x24 terminal.
func New(store *texel.TabStore, opts Options) *Host {
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}
	if opts.Term == "" {
		opts.Term = "xterm-256color"
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	return &Host{
		store:   store,
		opts:    opts,
		next:    1,
		procs:   make(map[texel.TerminalHandle]*process),
		pending: make(map[texel.PaneID]struct{}),
	}
}

// Watch spawns a process for every unattached leaf in the current snapshot
// and in every snapshot published afterwards. The returned function stops
// watching.
func (h *Host) Watch() func() {
	unsubscribe := h.store.Subscribe(h.scan)
	h.scan(h.store.Snapshot())
	return unsubscribe
}

func (h *Host) scan(snap texel.Snapshot) {
	for _, tab := range snap.Tabs {
		term, ok := tab.(*texel.TerminalTab)
		if !ok {
			continue
		}
		texel.Walk(term.Root, func(p texel.Pane) bool {
			leaf, ok := p.(*texel.Leaf)
			if !ok || leaf.Attached {
				return true
			}
			h.mu.Lock()
			_, busy := h.pending[leaf.ID]
			start := !busy && !h.closed
			if start {
				h.pending[leaf.ID] = struct{}{}
				h.wg.Add(1)
			}
			h.mu.Unlock()
			if start {
				tabID, paneID := term.ID, leaf.ID
				go func() {
					defer h.wg.Done()
					if _, err := h.Spawn(tabID, paneID); err != nil {
						log.Printf("[PTYHOST] spawn for tab %d pane %d failed: %v", tabID, paneID, err)
						if h.opts.OnSpawnError != nil {
							h.opts.OnSpawnError(tabID, paneID, err)
						}
					}
				}()
			}
			return true
		})
	}
}

// Spawn starts a shell and binds it to paneID. When the store rejects the
// binding (pane gone or already attached) the process is killed.
func (h *Host) Spawn(tabID texel.TabID, paneID texel.PaneID) (texel.TerminalHandle, error) {
	defer func() {
		h.mu.Lock()
		delete(h.pending, paneID)
		h.mu.Unlock()
	}()

	cmd := exec.Command(h.opts.Shell, h.opts.Args...)
	cmd.Env = append(append(os.Environ(), "TERM="+h.opts.Term), h.opts.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(h.opts.Rows),
		Cols: uint16(h.opts.Cols),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to start pty: %w", err)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		ptmx.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 0, errors.New("ptyhost: closed")
	}
	handle := h.next
	h.next++
	proc := &process{
		handle: handle,
		tabID:  tabID,
		paneID: paneID,
		cmd:    cmd,
		pty:    ptmx,
		done:   make(chan struct{}),
	}
	h.procs[handle] = proc
	h.wg.Add(2)
	h.mu.Unlock()

	go h.pump(proc)
	go h.reap(proc)

	if res := h.store.SetTerminalID(tabID, paneID, handle); res != texel.Applied {
		log.Printf("[PTYHOST] pane %d in tab %d not bound (%s); stopping handle %d", paneID, tabID, res, handle)
		h.kill(handle)
		return handle, fmt.Errorf("bind pane %d: %s", paneID, res)
	}
	log.Printf("[PTYHOST] started %s (pid %d) as handle %d for tab %d pane %d", h.opts.Shell, cmd.Process.Pid, handle, tabID, paneID)
	if h.opts.OnAttach != nil {
		h.opts.OnAttach(tabID, paneID, handle)
	}
	return handle, nil
}

func (h *Host) pump(p *process) {
	defer h.wg.Done()
	buf := make([]byte, 1024)
	for {
		n, err := p.pty.Read(buf)
		if n > 0 {
			p.appendTail(buf[:n])
			if title, ok := p.newTitle(); ok {
				debugf("handle %d set title %q", p.handle, title)
				h.store.UpdateTabTitle(p.tabID, title)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				debugf("handle %d read: %v", p.handle, err)
			}
			return
		}
	}
}

// reap waits for the process and closes its pane when the shell exits on its
// own.
func (h *Host) reap(p *process) {
	defer h.wg.Done()
	err := p.cmd.Wait()
	close(p.done)
	p.pty.Close()

	p.mu.Lock()
	killed := p.killed
	p.mu.Unlock()

	h.mu.Lock()
	delete(h.procs, p.handle)
	closed := h.closed
	h.mu.Unlock()

	if killed || closed {
		return
	}
	log.Printf("[PTYHOST] handle %d exited: %v", p.handle, err)
	h.store.ClosePane(p.tabID, p.paneID)
}

// Release implements texel.Releaser. Processes for the given handles are
// hung up and killed if still alive after killGrace. Release does not wait.
func (h *Host) Release(handles []texel.TerminalHandle) {
	for _, handle := range handles {
		h.kill(handle)
	}
}

func (h *Host) kill(handle texel.TerminalHandle) {
	h.mu.Lock()
	p, ok := h.procs[handle]
	if ok {
		// reap still holds the group while p is registered.
		h.wg.Add(1)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	p.mu.Lock()
	already := p.killed
	p.killed = true
	p.mu.Unlock()
	if already {
		h.wg.Done()
		return
	}

	// Closing the master hangs up the session; interactive shells ignore
	// SIGTERM but not SIGHUP.
	p.pty.Close()
	_ = p.cmd.Process.Signal(syscall.SIGHUP)
	go func() {
		defer h.wg.Done()
		select {
		case <-p.done:
		case <-time.After(killGrace):
			debugf("handle %d ignored hangup, killing", handle)
			_ = p.cmd.Process.Kill()
		}
	}()
}

// Resize changes the terminal size of handle.
func (h *Host) Resize(handle texel.TerminalHandle, cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	p, err := h.lookup(handle)
	if err != nil {
		return err
	}
	return pty.Setsize(p.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Write sends input to the process behind handle.
func (h *Host) Write(handle texel.TerminalHandle, b []byte) (int, error) {
	p, err := h.lookup(handle)
	if err != nil {
		return 0, err
	}
	return p.pty.Write(b)
}

// Tail returns the most recent output of handle.
func (h *Host) Tail(handle texel.TerminalHandle) (string, error) {
	p, err := h.lookup(handle)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.tail), nil
}

// Running returns the number of live processes.
func (h *Host) Running() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.procs)
}

func (h *Host) lookup(handle texel.TerminalHandle) (*process, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.procs[handle]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return p, nil
}

// Close terminates every process and waits for the host's goroutines.
func (h *Host) Close() {
	h.mu.Lock()
	h.closed = true
	handles := make([]texel.TerminalHandle, 0, len(h.procs))
	for handle := range h.procs {
		handles = append(handles, handle)
	}
	h.mu.Unlock()

	h.Release(handles)
	h.wg.Wait()
}
