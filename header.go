// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import "fmt"

// Magic is the 4-byte little-endian file signature "XFS\0".
const Magic uint32 = 0x00534658

// HeaderSize is the fixed on-disk byte length of Header.
const HeaderSize = 24

// Header is the fixed 24-byte prefix of every XFS file: magic, version
// pair, a running object counter, and the byte length of the schema
// block that immediately follows.
type Header struct {
	Magic        uint32 `json:"-"`
	MajorVersion uint16 `json:"$major_version"`
	MinorVersion uint16 `json:"$minor_version"`

	// ClassCount is a running counter of objects emitted during
	// encoding; on decode it is informational only (xfs.c never uses
	// it to bound the object tree walk).
	ClassCount int64 `json:"-"`

	// DefCount is the number of definitions in the schema block.
	DefCount int32 `json:"-"`

	// DefSize is the byte length of the schema block that follows the
	// header.
	DefSize int32 `json:"-"`
}

// DecodeHeader reads and validates the 24-byte header at the cursor's
// current position.
func DecodeHeader(c *Cursor) (Header, error) {
	var h Header

	magic, err := c.ReadU32()
	if err != nil {
		return h, fmt.Errorf("xfs: read magic: %w", err)
	}
	if magic != Magic {
		return h, fmt.Errorf("%w: got 0x%08X", ErrInvalidMagic, magic)
	}
	h.Magic = magic

	if h.MajorVersion, err = c.ReadU16(); err != nil {
		return h, fmt.Errorf("xfs: read major_version: %w", err)
	}
	if h.MinorVersion, err = c.ReadU16(); err != nil {
		return h, fmt.Errorf("xfs: read minor_version: %w", err)
	}
	if h.ClassCount, err = c.ReadS64(); err != nil {
		return h, fmt.Errorf("xfs: read class_count: %w", err)
	}
	if h.DefCount, err = c.ReadS32(); err != nil {
		return h, fmt.Errorf("xfs: read def_count: %w", err)
	}
	if h.DefSize, err = c.ReadS32(); err != nil {
		return h, fmt.Errorf("xfs: read def_size: %w", err)
	}
	if h.DefCount < 0 || h.DefSize < 0 {
		return h, fmt.Errorf("%w: negative def_count/def_size", ErrSchemaOverflow)
	}

	return h, nil
}

// Encode writes the 24-byte header to w at its current position.
func (h Header) Encode(w *Writer) {
	w.WriteU32(Magic)
	w.WriteU16(h.MajorVersion)
	w.WriteU16(h.MinorVersion)
	w.WriteS64(h.ClassCount)
	w.WriteS32(h.DefCount)
	w.WriteS32(h.DefSize)
}
