// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelide/logging.go
// Summary: Routes logs to ~/.texelide/texelide.log while the screen is in use.

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/framegrace/texelide/internal/ptyhost"
	"github.com/framegrace/texelide/texel"
)

// setupLogging sends the standard logger and the verbose package loggers to
// path. The returned function closes the file.
func setupLogging(path string, verbose bool) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if verbose {
		texel.SetLogOutput(f)
		ptyhost.SetVerboseLogging(true)
	}
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
