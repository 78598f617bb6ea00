// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/text.go
// Summary: Width-aware text drawing and plain-text previews of terminal output.

package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// drawText writes s at (x, y) clipped to maxW cells and returns the number of
// cells used.
func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) int {
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxW {
			break
		}
		s.SetContent(x+used, y, r, nil, style)
		used += w
	}
	return used
}

// PlainLines strips escape sequences and control characters from terminal
// output and returns at most h trailing lines, each truncated to w cells.
func PlainLines(out string, w, h int) []string {
	if w <= 0 || h <= 0 {
		return nil
	}
	var (
		lines []string
		cur   strings.Builder
		esc   int // 0 none, 1 after ESC, 2 inside CSI, 3 inside OSC
	)
	flush := func() {
		lines = append(lines, runewidth.Truncate(cur.String(), w, ""))
		cur.Reset()
	}
	for _, r := range out {
		switch esc {
		case 1:
			switch r {
			case '[':
				esc = 2
			case ']':
				esc = 3
			default:
				esc = 0
			}
			continue
		case 2:
			if r >= 0x40 && r <= 0x7e {
				esc = 0
			}
			continue
		case 3:
			if r == 0x07 {
				esc = 0
			} else if r == 0x1b {
				esc = 1
			}
			continue
		}
		switch {
		case r == 0x1b:
			esc = 1
		case r == '\n':
			flush()
		case r == '\r':
		case r == '\t':
			cur.WriteString("    ")
		case r < 0x20 || r == 0x7f:
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		flush()
	}
	if len(lines) > h {
		lines = lines[len(lines)-h:]
	}
	return lines
}
