// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/ptyhost/title.go
// Summary: Picks window titles (OSC 0 and OSC 2) out of shell output.

package ptyhost

import "bytes"

var oscStart = []byte("\x1b]")

// lastTitle returns the text of the last complete OSC 0 or OSC 2 sequence in
// b. Sequences end with BEL or ST (ESC \).
func lastTitle(b []byte) (string, bool) {
	var (
		title string
		found bool
	)
	for {
		i := bytes.Index(b, oscStart)
		if i < 0 {
			return title, found
		}
		b = b[i+len(oscStart):]
		if len(b) < 2 || (b[0] != '0' && b[0] != '2') || b[1] != ';' {
			continue
		}
		body := b[2:]
		end := bytes.IndexAny(body, "\x07\x1b")
		if end < 0 {
			return title, found
		}
		switch {
		case body[end] == 0x07:
			title, found = string(body[:end]), true
			b = body[end+1:]
		case end+1 < len(body) && body[end+1] == '\\':
			title, found = string(body[:end]), true
			b = body[end+2:]
		case end+1 == len(body):
			return title, found
		default:
			// Interrupted by another escape sequence.
			b = body[end:]
		}
	}
}

// newTitle reports a title that differs from the last one seen for p.
func (p *process) newTitle() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.killed {
		return "", false
	}
	title, ok := lastTitle(p.tail)
	if !ok || title == p.title {
		return "", false
	}
	p.title = title
	return title, true
}
