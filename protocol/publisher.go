// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/publisher.go
// Summary: Writes store snapshots as frames and replays them back.
// Usage: p := protocol.NewPublisher(w, sessionID); stop := p.Attach(store)
//   records every published snapshot; Replay reads a recording.

package protocol

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/framegrace/texelide/texel"
)

// Publisher writes frames for one session to w. It is safe for concurrent
// use; frames are written whole and in sequence order.
type Publisher struct {
	mu      sync.Mutex
	w       io.Writer
	session [16]byte
	seq     uint64
	err     error

	// Version of the newest snapshot written, valid once wroteSnap is set.
	lastVersion uint64
	wroteSnap   bool
}

// NewPublisher returns a publisher writing to w under the given session id.
func NewPublisher(w io.Writer, session [16]byte) *Publisher {
	return &Publisher{w: w, session: session}
}

// Attach writes a hello frame and the current snapshot, then records every
// snapshot store publishes until the returned function is called.
func (p *Publisher) Attach(store *texel.TabStore) func() {
	if err := p.WriteHello(Hello{Program: "texelide", StartedAt: time.Now().UnixNano()}); err != nil {
		log.Printf("[PROTOCOL] hello frame failed: %v", err)
	}
	unsubscribe := store.Subscribe(func(snap texel.Snapshot) {
		if err := p.WriteSnapshot(snap); err != nil {
			log.Printf("[PROTOCOL] snapshot v%d not recorded: %v", snap.Version, err)
		}
	})
	if err := p.WriteSnapshot(store.Snapshot()); err != nil {
		log.Printf("[PROTOCOL] initial snapshot not recorded: %v", err)
	}
	return unsubscribe
}

// WriteHello writes a hello frame.
func (p *Publisher) WriteHello(h Hello) error {
	payload, err := EncodeHello(h)
	if err != nil {
		return fmt.Errorf("failed to encode hello: %w", err)
	}
	return p.write(MsgHello, payload)
}

// WriteSnapshot writes one tab snapshot frame. Snapshots not newer than the
// last one written are dropped, so a recording never goes back in time.
func (p *Publisher) WriteSnapshot(snap texel.Snapshot) error {
	payload, err := EncodeTabSnapshot(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.wroteSnap && snap.Version <= p.lastVersion {
		return nil
	}
	if err := p.writeLocked(MsgTabSnapshot, payload); err != nil {
		return err
	}
	p.lastVersion, p.wroteSnap = snap.Version, true
	return nil
}

// WriteAttach records a terminal handle bound to a pane.
func (p *Publisher) WriteAttach(a PaneAttach) error {
	payload, err := EncodePaneAttach(a)
	if err != nil {
		return fmt.Errorf("failed to encode attach: %w", err)
	}
	return p.write(MsgPaneAttach, payload)
}

// WriteError records an operation failure.
func (p *Publisher) WriteError(code uint16, msg string) error {
	payload, err := EncodeErrorFrame(ErrorFrame{Code: code, Message: msg})
	if err != nil {
		return fmt.Errorf("failed to encode error frame: %w", err)
	}
	return p.write(MsgError, payload)
}

func (p *Publisher) write(typ MessageType, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeLocked(typ, payload)
}

func (p *Publisher) writeLocked(typ MessageType, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.seq++
	hdr := Header{
		Version:   Version,
		Type:      typ,
		Flags:     FlagChecksum,
		SessionID: p.session,
		Sequence:  p.seq,
	}
	if err := WriteMessage(p.w, hdr, payload); err != nil {
		p.err = fmt.Errorf("failed to write %s frame: %w", typ, err)
		return p.err
	}
	return nil
}

// Frame is one decoded recording frame. Exactly one of the payload fields is
// set, matching Header.Type.
type Frame struct {
	Header   Header
	Hello    *Hello
	Snapshot *texel.Snapshot
	Attach   *PaneAttach
	Error    *ErrorFrame
}

// Replay reads frames from r until EOF and calls fn for each. Frames of an
// unknown type are skipped. A truncated trailing frame is reported as
// ErrShortPayload.
func Replay(r io.Reader, fn func(Frame) error) error {
	for {
		hdr, payload, err := ReadMessage(r)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		frame := Frame{Header: hdr}
		switch hdr.Type {
		case MsgHello:
			h, err := DecodeHello(payload)
			if err != nil {
				return fmt.Errorf("frame %d: %w", hdr.Sequence, err)
			}
			frame.Hello = &h
		case MsgTabSnapshot:
			snap, err := DecodeTabSnapshot(payload)
			if err != nil {
				return fmt.Errorf("frame %d: %w", hdr.Sequence, err)
			}
			frame.Snapshot = &snap
		case MsgPaneAttach:
			a, err := DecodePaneAttach(payload)
			if err != nil {
				return fmt.Errorf("frame %d: %w", hdr.Sequence, err)
			}
			frame.Attach = &a
		case MsgError:
			e, err := DecodeErrorFrame(payload)
			if err != nil {
				return fmt.Errorf("frame %d: %w", hdr.Sequence, err)
			}
			frame.Error = &e
		default:
			log.Printf("[PROTOCOL] skipping frame %d of type %d", hdr.Sequence, hdr.Type)
			continue
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}
