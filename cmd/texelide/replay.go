// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelide/replay.go
// Summary: `texelide replay` prints a recording written with --record.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/framegrace/texelide/protocol"
	"github.com/framegrace/texelide/texel"
)

var (
	replayTrees bool
	replayKind  string
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Print the frames of a recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		defer f.Close()
		var kind texel.TabKind
		if replayKind != "" {
			var ok bool
			if kind, ok = texel.ParseTabKind(replayKind); !ok {
				return fmt.Errorf("unknown tab kind %q (want editor or terminal)", replayKind)
			}
		}
		return printRecording(cmd.OutOrStdout(), f, replayTrees, kind)
	},
}

func init() {
	replayCmd.Flags().BoolVar(&replayTrees, "trees", false, "Dump every terminal tab's pane tree")
	replayCmd.Flags().StringVar(&replayKind, "kind", "", "With --trees, only list tabs of this kind (editor or terminal)")
	rootCmd.AddCommand(replayCmd)
}

// printRecording writes one line per frame. kind 0 lists every tab.
func printRecording(w io.Writer, r io.Reader, trees bool, kind texel.TabKind) error {
	return protocol.Replay(r, func(f protocol.Frame) error {
		prefix := color.CyanString("#%d %s", f.Header.Sequence, f.Header.Type)
		switch {
		case f.Hello != nil:
			fmt.Fprintf(w, "%s %s started %s\n", prefix, f.Hello.Program,
				time.Unix(0, f.Hello.StartedAt).Format(time.RFC3339))
		case f.Snapshot != nil:
			printSnapshot(w, prefix, *f.Snapshot, trees, kind)
		case f.Attach != nil:
			fmt.Fprintf(w, "%s tab %d pane %d -> terminal %d\n", prefix, f.Attach.TabID, f.Attach.PaneID, f.Attach.Handle)
		case f.Error != nil:
			fmt.Fprintf(w, "%s %s\n", prefix, color.RedString("code %d: %s", f.Error.Code, f.Error.Message))
		}
		return nil
	})
}

func printSnapshot(w io.Writer, prefix string, snap texel.Snapshot, trees bool, kind texel.TabKind) {
	fmt.Fprintf(w, "%s v%d tabs=%d active=%d\n", prefix, snap.Version, len(snap.Tabs), snap.ActiveTabID)
	if !trees {
		return
	}
	for _, tab := range snap.Tabs {
		if kind != 0 && tab.Kind() != kind {
			continue
		}
		fmt.Fprintf(w, "  tab %d %s %q\n", tab.TabID(), tab.Kind(), tab.Label())
		if term, ok := tab.(*texel.TerminalTab); ok {
			for _, line := range strings.Split(strings.TrimRight(texel.Dump(term.Root), "\n"), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}
