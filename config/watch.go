// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/watch.go
// Summary: Reloads texelide.json when it changes on disk.
// Usage: go config.Watch(ctx, func(cfg config.Config) { ... })
// Notes: Watches the parent directory so editors that replace the file via
//   rename keep triggering reloads.

package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the system config whenever texelide.json is written or
// replaced and calls onChange with the fresh config. It blocks until ctx is
// cancelled.
func Watch(ctx context.Context, onChange func(Config)) error {
	path, err := systemConfigPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	return watchPath(ctx, path, func() {
		if err := Reload(); err != nil {
			log.Printf("Config: reload after change failed: %v", err)
			return
		}
		if onChange != nil {
			onChange(System())
		}
	})
}

func watchPath(ctx context.Context, path string, fire func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	name := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fire()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Config: watcher error: %v", err)
		}
	}
}
