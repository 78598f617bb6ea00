// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func resetStore() {
	once = sync.Once{}
	system = nil
	loadErr = nil
}

func TestSystemDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	if got := cfg.GetString(SectionTerminal, "term", ""); got != "xterm-256color" {
		t.Fatalf("expected default term, got %q", got)
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	for _, name := range []string{SectionTerminal, SectionTabs, SectionLayout, SectionSession} {
		if disk.Section(name) == nil {
			t.Fatalf("expected %s section to be present", name)
		}
	}
}

func TestSaveSystemWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Config{
		SectionTabs: map[string]interface{}{
			"default_title": "Shell",
		},
	}
	SetSystem(cfg)
	if err := SaveSystem(); err != nil {
		t.Fatalf("SaveSystem: %v", err)
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if got := disk.GetString(SectionTabs, "default_title", ""); got != "Shell" {
		t.Fatalf("expected default_title Shell, got %q", got)
	}
	if got := disk.GetInt(SectionTabs, "title_max_width", 0); got != 24 {
		t.Fatalf("expected registered default title_max_width 24, got %d", got)
	}
}

func TestUserValuesSurviveDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()

	dir := filepath.Join(root, "texelide")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := writeConfig(filepath.Join(dir, systemConfigName), Config{
		SectionTerminal: map[string]interface{}{"cols": 132},
	}); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := System()
	if got := cfg.GetInt(SectionTerminal, "cols", 0); got != 132 {
		t.Fatalf("expected cols 132, got %d", got)
	}
	if got := cfg.GetInt(SectionTerminal, "rows", 0); got != 24 {
		t.Fatalf("expected rows default 24, got %d", got)
	}
	if err := Err(); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
}

func TestInvalidJSONReportsError(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()

	dir := filepath.Join(root, "texelide")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, systemConfigName), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := System()
	if Err() == nil {
		t.Fatalf("expected parse error")
	}
	if got := cfg.GetBool(SectionSession, "autosave", false); !got {
		t.Fatalf("expected defaults applied after parse error")
	}
}

func TestTypedGetters(t *testing.T) {
	cfg := Config{
		"s": map[string]interface{}{
			"f":   "2.5",
			"i":   json.Number("7"),
			"b":   "true",
			"d":   "1500ms",
			"dms": 250.0,
		},
	}
	if got := cfg.GetFloat("s", "f", 0); got != 2.5 {
		t.Fatalf("GetFloat = %v", got)
	}
	if got := cfg.GetInt("s", "i", 0); got != 7 {
		t.Fatalf("GetInt = %v", got)
	}
	if got := cfg.GetBool("s", "b", false); !got {
		t.Fatalf("GetBool = %v", got)
	}
	if got := cfg.GetDuration("s", "d", 0); got != 1500*time.Millisecond {
		t.Fatalf("GetDuration string = %v", got)
	}
	if got := cfg.GetDuration("s", "dms", 0); got != 250*time.Millisecond {
		t.Fatalf("GetDuration number = %v", got)
	}
	if got := cfg.GetString("missing", "x", "fallback"); got != "fallback" {
		t.Fatalf("GetString fallback = %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Config{
		"tabs": map[string]interface{}{
			"list": []interface{}{"a"},
		},
	}
	cp := Clone(orig)
	cp.Set("tabs", "default_title", "X")
	cp.Section("tabs")["list"].([]interface{})[0] = "b"

	if _, ok := orig.Section("tabs")["default_title"]; ok {
		t.Fatalf("clone shares section with original")
	}
	if got := orig.Section("tabs")["list"].([]interface{})[0]; got != "a" {
		t.Fatalf("clone shares slice with original, got %v", got)
	}
}

func TestSettingsFrom(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	t.Setenv("HOME", t.TempDir())
	cfg := Config{
		SectionTerminal: map[string]interface{}{"cols": 0.0},
		SectionLayout:   map[string]interface{}{"resize_step": 10.0},
		SectionSession:  map[string]interface{}{"autosave_delay": "2s"},
	}
	s := SettingsFrom(cfg)
	if s.Shell != "/bin/zsh" {
		t.Fatalf("expected shell from $SHELL, got %q", s.Shell)
	}
	if s.Cols != 80 {
		t.Fatalf("expected non-positive cols to fall back to 80, got %d", s.Cols)
	}
	if s.ResizeStep != 10 {
		t.Fatalf("expected resize step 10, got %v", s.ResizeStep)
	}
	if s.AutosaveDelay != 2*time.Second {
		t.Fatalf("expected autosave delay 2s, got %v", s.AutosaveDelay)
	}
	if filepath.Base(s.DBPath) != "sessions.db" {
		t.Fatalf("expected db path under state dir, got %q", s.DBPath)
	}
}

func TestWatchPathFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, systemConfigName)
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchPath(ctx, path, func() { fired <- struct{}{} })
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-fired:
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watchPath: %v", err)
			}
			return
		case <-tick.C:
			// The watcher may not be registered yet; keep touching the file.
			_ = os.WriteFile(path, []byte(`{"tabs":{}}`), 0644)
		case <-deadline:
			t.Fatalf("watcher never fired")
		}
	}
}
