// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelide/paths.go
// Summary: Standard paths for texelide runtime files.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/framegrace/texelide/config"
)

// Paths holds standard file paths for texelide.
type Paths struct {
	StateDir   string // ~/.texelide
	LogPath    string // ~/.texelide/texelide.log
	DBPath     string // session.db_path or ~/.texelide/sessions.db
	ConfigPath string // $XDG_CONFIG_HOME/texelide/texelide.json
}

// GetPaths resolves paths, honouring the configured database location.
func GetPaths(settings config.Settings) (*Paths, error) {
	stateDir, err := config.StateDir()
	if err != nil {
		return nil, fmt.Errorf("get state directory: %w", err)
	}
	cfgPath, err := config.Path()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}
	db := settings.DBPath
	if db == "" {
		db = filepath.Join(stateDir, "sessions.db")
	}
	return &Paths{
		StateDir:   stateDir,
		LogPath:    filepath.Join(stateDir, "texelide.log"),
		DBPath:     db,
		ConfigPath: cfgPath,
	}, nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func (p *Paths) EnsureStateDir() error {
	return os.MkdirAll(p.StateDir, 0755)
}
