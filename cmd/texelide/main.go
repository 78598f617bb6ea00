// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelide/main.go
// Summary: texelide command: interactive tabbed terminal shell plus session
//   and config maintenance subcommands.
// Usage: `texelide` starts the shell; `texelide sessions list` etc.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	recordPath string
	sessionArg string
	freshStart bool
)

var rootCmd = &cobra.Command{
	Use:   "texelide [FILE...]",
	Short: "Tabbed terminal shell with split panes",
	Long: `texelide runs shells in tabs that can be split into panes.
Each FILE is opened in an editor tab next to the restored session.

Press Ctrl-A followed by a command key:
  c  new terminal tab      x  close pane        X  close tab
  |  split side by side    -  split stacked
  n  next tab              p  previous tab      1-9 select tab
  arrows move focus        Ctrl-arrows resize   q  quit`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runShell,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.Flags().StringVar(&recordPath, "record", "", "Record every tab snapshot to this file")
	rootCmd.Flags().StringVar(&sessionArg, "session", "", "Session id to restore (default: most recent)")
	rootCmd.Flags().BoolVar(&freshStart, "fresh", false, "Ignore saved sessions and start with one terminal tab")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
