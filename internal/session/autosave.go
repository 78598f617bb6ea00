// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/session/autosave.go
// Summary: Background saver that persists tab snapshots as they are published.
// Usage: a := session.StartAutosave(store, tabs, id, time.Second); defer a.Stop()

package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/framegrace/texelide/texel"
)

// Autosaver saves the latest published tab state after a quiet period.
// Bursts of snapshots collapse into one write.
type Autosaver struct {
	store    *Store
	id       uuid.UUID
	debounce time.Duration

	mu      sync.Mutex
	pending *texel.PersistedState

	wake    chan struct{}
	flushCh chan chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}

	unsubscribe func()
	stopOnce    sync.Once
}

// StartAutosave subscribes to tabs and saves every change under id.
func StartAutosave(store *Store, tabs *texel.TabStore, id uuid.UUID, debounce time.Duration) *Autosaver {
	a := &Autosaver{
		store:    store,
		id:       id,
		debounce: debounce,
		wake:     make(chan struct{}, 1),
		flushCh:  make(chan chan struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	a.unsubscribe = tabs.Subscribe(a.offer)
	go a.run()
	return a
}

func (a *Autosaver) offer(snap texel.Snapshot) {
	state := texel.Persist(snap)
	a.mu.Lock()
	a.pending = &state
	a.mu.Unlock()
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

func (a *Autosaver) run() {
	defer close(a.doneCh)

	timer := time.NewTimer(a.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-a.wake:
			timer.Reset(a.debounce)
		case <-timer.C:
			a.save()
		case done := <-a.flushCh:
			a.save()
			close(done)
		case <-a.stopCh:
			a.save()
			return
		}
	}
}

func (a *Autosaver) save() {
	a.mu.Lock()
	state := a.pending
	a.pending = nil
	a.mu.Unlock()
	if state == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.Save(ctx, a.id, *state); err != nil {
		log.Printf("[SESSION] Autosave failed: %v", err)
	}
}

// Flush blocks until any pending state is written.
func (a *Autosaver) Flush() {
	done := make(chan struct{})
	select {
	case a.flushCh <- done:
		<-done
	case <-a.doneCh:
	}
}

// Stop unsubscribes, writes any pending state and waits for the saver to exit.
func (a *Autosaver) Stop() {
	a.stopOnce.Do(func() {
		a.unsubscribe()
		close(a.stopCh)
	})
	<-a.doneCh
}
