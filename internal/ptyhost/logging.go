// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/ptyhost/logging.go
// Summary: Verbose logging toggle for the pty host.

package ptyhost

import (
	"io"
	"log"
)

var debugLog = log.New(io.Discard, "[PTYHOST] ", log.LstdFlags)

// SetVerboseLogging toggles per-read diagnostics. Verbose output follows the
// standard logger's destination.
func SetVerboseLogging(enabled bool) {
	if enabled {
		debugLog.SetOutput(log.Writer())
		return
	}
	debugLog.SetOutput(io.Discard)
}

func debugf(format string, args ...interface{}) {
	debugLog.Printf(format, args...)
}
