// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/messages.go
// Summary: Payload codecs for recording frames: hello, tab snapshots, pane
//   attach notices and errors.
// Notes: All integers are little endian. Strings carry a uint16 length prefix.

package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"github.com/framegrace/texelide/texel"
)

var (
	errStringTooLong = errors.New("protocol: string exceeds 64KB limit")
	errPayloadShort  = errors.New("protocol: payload too short")
	errExtraBytes    = errors.New("protocol: payload has trailing data")
	errUnknownNode   = errors.New("protocol: unknown pane node tag")
	errUnknownKind   = errors.New("protocol: unknown tab kind")
	errTooMany       = errors.New("protocol: collection exceeds 64K entries")
)

// Hello opens a recording.
type Hello struct {
	Program   string
	StartedAt int64
}

// PaneAttach reports a terminal handle bound to a pane.
type PaneAttach struct {
	TabID  texel.TabID
	PaneID texel.PaneID
	Handle texel.TerminalHandle
}

// ErrorFrame records an operation failure.
type ErrorFrame struct {
	Code    uint16
	Message string
}

const (
	nodeLeaf  byte = 0
	nodeSplit byte = 1
)

func encodeString(buf *bytes.Buffer, value string) error {
	if len(value) > 0xFFFF {
		return errStringTooLong
	}
	if err := binary.Write(buf, binary.LittleEndian, uint16(len(value))); err != nil {
		return err
	}
	if len(value) > 0 {
		if _, err := buf.WriteString(value); err != nil {
			return err
		}
	}
	return nil
}

func decodeString(b []byte) (string, []byte, error) {
	if len(b) < 2 {
		return "", nil, errPayloadShort
	}
	length := binary.LittleEndian.Uint16(b[:2])
	b = b[2:]
	if len(b) < int(length) {
		return "", nil, errPayloadShort
	}
	return string(b[:length]), b[length:], nil
}

func encodeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
		return
	}
	buf.WriteByte(0)
}

func EncodeHello(h Hello) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 10+len(h.Program)))
	if err := encodeString(buf, h.Program); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, h.StartedAt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeHello(b []byte) (Hello, error) {
	var h Hello
	name, rest, err := decodeString(b)
	if err != nil {
		return h, err
	}
	h.Program = name
	if len(rest) < 8 {
		return h, errPayloadShort
	}
	h.StartedAt = int64(binary.LittleEndian.Uint64(rest[:8]))
	if len(rest) != 8 {
		return h, errExtraBytes
	}
	return h, nil
}

func EncodePaneAttach(a PaneAttach) ([]byte, error) {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(a.TabID))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(a.PaneID))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(int64(a.Handle)))
	return buf, nil
}

func DecodePaneAttach(b []byte) (PaneAttach, error) {
	var a PaneAttach
	if len(b) < 24 {
		return a, errPayloadShort
	}
	if len(b) > 24 {
		return a, errExtraBytes
	}
	a.TabID = texel.TabID(binary.LittleEndian.Uint64(b[0:8]))
	a.PaneID = texel.PaneID(binary.LittleEndian.Uint64(b[8:16]))
	a.Handle = texel.TerminalHandle(int64(binary.LittleEndian.Uint64(b[16:24])))
	return a, nil
}

func EncodeErrorFrame(e ErrorFrame) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 4+len(e.Message)))
	if err := binary.Write(buf, binary.LittleEndian, e.Code); err != nil {
		return nil, err
	}
	if err := encodeString(buf, e.Message); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeErrorFrame(b []byte) (ErrorFrame, error) {
	var e ErrorFrame
	if len(b) < 2 {
		return e, errPayloadShort
	}
	e.Code = binary.LittleEndian.Uint16(b[:2])
	msg, rest, err := decodeString(b[2:])
	if err != nil {
		return e, err
	}
	e.Message = msg
	if len(rest) != 0 {
		return e, errExtraBytes
	}
	return e, nil
}

// EncodeTabSnapshot serialises a full tab snapshot including every terminal
// tab's pane tree.
func EncodeTabSnapshot(snap texel.Snapshot) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := binary.Write(buf, binary.LittleEndian, snap.Version); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint64(snap.ActiveTabID)); err != nil {
		return nil, err
	}
	if len(snap.Tabs) > 0xFFFF {
		return nil, errTooMany
	}
	if err := binary.Write(buf, binary.LittleEndian, uint16(len(snap.Tabs))); err != nil {
		return nil, err
	}
	for _, tab := range snap.Tabs {
		buf.WriteByte(byte(tab.Kind()))
		if err := binary.Write(buf, binary.LittleEndian, uint64(tab.TabID())); err != nil {
			return nil, err
		}
		switch t := tab.(type) {
		case *texel.EditorTab:
			if err := encodeString(buf, t.FilePath); err != nil {
				return nil, err
			}
			encodeBool(buf, t.Modified)
			if err := encodeString(buf, t.Language); err != nil {
				return nil, err
			}
		case *texel.TerminalTab:
			if err := encodeString(buf, t.Title); err != nil {
				return nil, err
			}
			if err := encodePane(buf, t.Root); err != nil {
				return nil, err
			}
		default:
			return nil, errUnknownKind
		}
	}
	return buf.Bytes(), nil
}

// DecodeTabSnapshot deserialises a tab snapshot payload.
func DecodeTabSnapshot(b []byte) (texel.Snapshot, error) {
	var snap texel.Snapshot
	if len(b) < 18 {
		return snap, errPayloadShort
	}
	snap.Version = binary.LittleEndian.Uint64(b[0:8])
	snap.ActiveTabID = texel.TabID(binary.LittleEndian.Uint64(b[8:16]))
	count := binary.LittleEndian.Uint16(b[16:18])
	b = b[18:]
	snap.Tabs = make([]texel.Tab, 0, count)
	for i := 0; i < int(count); i++ {
		if len(b) < 9 {
			return snap, errPayloadShort
		}
		kind := texel.TabKind(b[0])
		id := texel.TabID(binary.LittleEndian.Uint64(b[1:9]))
		b = b[9:]
		switch kind {
		case texel.EditorKind:
			path, rest, err := decodeString(b)
			if err != nil {
				return snap, err
			}
			if len(rest) < 1 {
				return snap, errPayloadShort
			}
			modified := rest[0] != 0
			lang, rest, err := decodeString(rest[1:])
			if err != nil {
				return snap, err
			}
			snap.Tabs = append(snap.Tabs, &texel.EditorTab{ID: id, FilePath: path, Modified: modified, Language: lang})
			b = rest
		case texel.TerminalKind:
			title, rest, err := decodeString(b)
			if err != nil {
				return snap, err
			}
			root, rest, err := decodePane(rest)
			if err != nil {
				return snap, err
			}
			snap.Tabs = append(snap.Tabs, &texel.TerminalTab{ID: id, Title: title, Root: root})
			b = rest
		default:
			return snap, errUnknownKind
		}
	}
	if len(b) != 0 {
		return snap, errExtraBytes
	}
	return snap, nil
}

func encodePane(buf *bytes.Buffer, node texel.Pane) error {
	switch n := node.(type) {
	case *texel.Leaf:
		buf.WriteByte(nodeLeaf)
		if err := binary.Write(buf, binary.LittleEndian, uint64(n.ID)); err != nil {
			return err
		}
		encodeBool(buf, n.Attached)
		return binary.Write(buf, binary.LittleEndian, int64(n.Handle))
	case *texel.Split:
		buf.WriteByte(nodeSplit)
		if err := binary.Write(buf, binary.LittleEndian, uint64(n.ID)); err != nil {
			return err
		}
		buf.WriteByte(byte(n.Direction))
		if len(n.Children) > 0xFFFF || len(n.Sizes) != len(n.Children) {
			return errTooMany
		}
		if err := binary.Write(buf, binary.LittleEndian, uint16(len(n.Children))); err != nil {
			return err
		}
		for _, size := range n.Sizes {
			if err := binary.Write(buf, binary.LittleEndian, math.Float64bits(size)); err != nil {
				return err
			}
		}
		for _, child := range n.Children {
			if err := encodePane(buf, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return errUnknownNode
	}
}

func decodePane(b []byte) (texel.Pane, []byte, error) {
	if len(b) < 1 {
		return nil, nil, errPayloadShort
	}
	tag := b[0]
	b = b[1:]
	switch tag {
	case nodeLeaf:
		if len(b) < 17 {
			return nil, nil, errPayloadShort
		}
		leaf := &texel.Leaf{
			ID:       texel.PaneID(binary.LittleEndian.Uint64(b[0:8])),
			Attached: b[8] != 0,
			Handle:   texel.TerminalHandle(int64(binary.LittleEndian.Uint64(b[9:17]))),
		}
		return leaf, b[17:], nil
	case nodeSplit:
		if len(b) < 11 {
			return nil, nil, errPayloadShort
		}
		split := &texel.Split{
			ID:        texel.SplitID(binary.LittleEndian.Uint64(b[0:8])),
			Direction: texel.Direction(b[8]),
		}
		count := int(binary.LittleEndian.Uint16(b[9:11]))
		b = b[11:]
		if len(b) < count*8 {
			return nil, nil, errPayloadShort
		}
		split.Sizes = make([]float64, count)
		for i := 0; i < count; i++ {
			split.Sizes[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8 : (i+1)*8]))
		}
		b = b[count*8:]
		split.Children = make([]texel.Pane, 0, count)
		for i := 0; i < count; i++ {
			child, rest, err := decodePane(b)
			if err != nil {
				return nil, nil, err
			}
			split.Children = append(split.Children, child)
			b = rest
		}
		return split, b, nil
	default:
		return nil, nil, errUnknownNode
	}
}
