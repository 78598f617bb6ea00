// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelide/sessions.go
// Summary: `texelide sessions` subcommands for listing, inspecting and
//   removing saved sessions.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/framegrace/texelide/config"
	"github.com/framegrace/texelide/internal/session"
	"github.com/framegrace/texelide/texel"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openSessionStore()
		if err != nil {
			return err
		}
		defer db.Close()
		infos, err := db.List(cmd.Context())
		if err != nil {
			return err
		}
		printSessions(cmd.OutOrStdout(), infos)
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the tabs of a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", args[0], err)
		}
		db, err := openSessionStore()
		if err != nil {
			return err
		}
		defer db.Close()
		state, err := db.Load(cmd.Context(), id)
		if err != nil {
			return err
		}
		printState(cmd.OutOrStdout(), state)
		return nil
	},
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete saved sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openSessionStore()
		if err != nil {
			return err
		}
		defer db.Close()
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid session id %q: %w", arg, err)
			}
			if err := db.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.RedString("removed"), id)
		}
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsRmCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func openSessionStore() (*session.Store, error) {
	paths, err := GetPaths(config.LoadSettings())
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(paths.DBPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no session database at %s", paths.DBPath)
	}
	return session.Open(paths.DBPath)
}

func printSessions(w io.Writer, infos []session.Info) {
	if len(infos) == 0 {
		fmt.Fprintln(w, color.YellowString("No saved sessions"))
		return
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%s  %s  %d tabs\n",
			color.CyanString(info.ID.String()),
			info.SavedAt.Format("2006-01-02 15:04:05"),
			info.TabCount)
	}
}

func printState(w io.Writer, state texel.PersistedState) {
	for i, tab := range state.Tabs {
		marker := " "
		if tab.ID == state.ActiveTabID {
			marker = color.GreenString("*")
		}
		label := tab.Title
		if tab.Kind == texel.EditorKind {
			label = tab.FilePath
		}
		fmt.Fprintf(w, "%s %d. [%s] %s\n", marker, i+1, tab.Kind, label)
	}
}
