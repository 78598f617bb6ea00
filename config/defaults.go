// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Built-in defaults registered on top of texelide.json.

package config

// Section names used by texelide.
const (
	SectionTerminal = "terminal"
	SectionTabs     = "tabs"
	SectionLayout   = "layout"
	SectionSession  = "session"
)

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults(SectionTerminal, Section{
		"shell": "",
		"term":  "xterm-256color",
		"cols":  80,
		"rows":  24,
	})
	cfg.RegisterDefaults(SectionTabs, Section{
		"default_title":    "Terminal",
		"title_max_width":  24,
		"restore_on_start": true,
	})
	cfg.RegisterDefaults(SectionLayout, Section{
		"resize_step":      5.0,
		"min_pane_percent": 5.0,
	})
	cfg.RegisterDefaults(SectionSession, Section{
		"db_path":        "",
		"autosave":       true,
		"autosave_delay": "500ms",
	})
}
