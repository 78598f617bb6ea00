// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/settings.go
// Summary: Typed view over the texelide sections of the system config.

package config

import (
	"os"
	"path/filepath"
	"time"
)

// Settings is the typed configuration consumed by the texelide shell.
type Settings struct {
	Shell          string
	Term           string
	Cols           int
	Rows           int
	DefaultTitle   string
	TitleMaxWidth  int
	RestoreOnStart bool
	ResizeStep     float64
	MinPanePercent float64
	DBPath         string
	Autosave       bool
	AutosaveDelay  time.Duration
}

// LoadSettings resolves Settings from the current system config.
func LoadSettings() Settings {
	return SettingsFrom(System())
}

// SettingsFrom resolves Settings from cfg, filling gaps with built-in
// defaults. An empty shell falls back to $SHELL and then /bin/sh; an empty
// db_path resolves under StateDir.
func SettingsFrom(cfg Config) Settings {
	s := Settings{
		Shell:          cfg.GetString(SectionTerminal, "shell", ""),
		Term:           cfg.GetString(SectionTerminal, "term", "xterm-256color"),
		Cols:           cfg.GetInt(SectionTerminal, "cols", 80),
		Rows:           cfg.GetInt(SectionTerminal, "rows", 24),
		DefaultTitle:   cfg.GetString(SectionTabs, "default_title", "Terminal"),
		TitleMaxWidth:  cfg.GetInt(SectionTabs, "title_max_width", 24),
		RestoreOnStart: cfg.GetBool(SectionTabs, "restore_on_start", true),
		ResizeStep:     cfg.GetFloat(SectionLayout, "resize_step", 5),
		MinPanePercent: cfg.GetFloat(SectionLayout, "min_pane_percent", 5),
		DBPath:         cfg.GetString(SectionSession, "db_path", ""),
		Autosave:       cfg.GetBool(SectionSession, "autosave", true),
		AutosaveDelay:  cfg.GetDuration(SectionSession, "autosave_delay", 500*time.Millisecond),
	}
	if s.Shell == "" {
		s.Shell = os.Getenv("SHELL")
	}
	if s.Shell == "" {
		s.Shell = "/bin/sh"
	}
	if s.Cols <= 0 {
		s.Cols = 80
	}
	if s.Rows <= 0 {
		s.Rows = 24
	}
	if s.AutosaveDelay <= 0 {
		s.AutosaveDelay = 500 * time.Millisecond
	}
	if s.DBPath == "" {
		if dir, err := StateDir(); err == nil {
			s.DBPath = filepath.Join(dir, "sessions.db")
		}
	}
	return s
}
