// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/logging.go
// Summary: Debug logger for the pane engine and tab store.

package texel

import (
	"io"
	"log"
	"os"
)

var debugLog = log.New(io.Discard, "", log.LstdFlags)

// SetVerboseLogging toggles verbose pane engine logging.
// When disabled (default), debug output is discarded.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(os.Stderr)
	} else {
		debugLog.SetOutput(io.Discard)
	}
}

// SetLogOutput routes verbose output to w, for callers that log to a file.
func SetLogOutput(w io.Writer) {
	debugLog.SetOutput(w)
}
