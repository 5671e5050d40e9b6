// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import "fmt"

// PropertyDef describes one typed field in a Definition, in the order
// it appears in the wire's property record array. That order doubles
// as the field order of every Object of the owning class.
type PropertyDef struct {
	Name    string
	Type    Type
	Attr    uint8
	Bytes   uint16 // 15-bit field on the wire
	Disable bool
}

// Definition is one class schema entry: the engine's dti hash plus its
// ordered property list. RawHeader preserves the verbatim on-disk def
// header bytes (16 for v15, 8 for v16) so that unspecified padding
// bits survive a decode/encode round trip untouched — dti_hash,
// PropCount and Init are parsed out of it but remain authoritative.
type Definition struct {
	DtiHash   uint32
	Init      bool // v15 only; always false for v16
	RawHeader []byte
	Props     []PropertyDef

	// Empty marks a definition whose offset-table slot was zero on
	// decode — no record was present at all. The encoder still emits
	// an offset-table entry and a zero-valued record for it, matching
	// the source's unconditional per-index write on save.
	Empty bool
}

// PropCount is the wire prop_count field: len(Props), which must fit
// in 15 bits.
func (d Definition) PropCount() int { return len(d.Props) }

// SchemaCodec decodes and encodes one (major_version, pointer-width)
// variant of the schema block. v15Codec and v16Codec are the two
// concrete implementations; the interface exists so object.go and
// document.go need not know which arch a file uses.
type SchemaCodec interface {
	// MajorVersion is the header value this codec serves.
	MajorVersion() uint16

	// DefHeaderSize is the preserved raw-header width in bytes.
	DefHeaderSize() int

	// PointerSize is the offset-table entry width in bytes (8 or 4).
	PointerSize() int

	// DecodeSchema reads defCount definitions from a schema block of
	// defSize bytes starting at the cursor's current position, and
	// leaves the cursor positioned immediately after the block.
	DecodeSchema(c *Cursor, defCount int32, defSize int32) ([]Definition, error)

	// DefSize computes the encoded byte length of defs, tail-padded
	// to a 4-byte boundary, matching the header's def_size field.
	DefSize(defs []Definition) int32

	// EncodeSchema returns exactly DefSize(defs) bytes encoding defs.
	EncodeSchema(defs []Definition) []byte
}

// SchemaCodecFor selects the codec for a header's major_version. Only
// v15 (64-bit layout) and v16 (32-bit layout) are defined on the wire;
// any other value is ErrUnsupportedVersion, by design extensible
// without touching the value codec (§4.2 of the codec's design).
func SchemaCodecFor(majorVersion uint16) (SchemaCodec, error) {
	switch majorVersion {
	case 15:
		return v15Codec{}, nil
	case 16:
		return v16Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: major_version %d", ErrUnsupportedVersion, majorVersion)
	}
}

// alignUp4 rounds n up to the next multiple of 4, matching the schema
// block's tail padding.
func alignUp4(n int64) int64 {
	return (n + 3) &^ 3
}

func leU16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leU64(b []byte) uint64 {
	return uint64(leU32(b[0:4])) | uint64(leU32(b[4:8]))<<32
}

func putLeU16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }

func putLeU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putLeU64(b []byte, v uint64) {
	putLeU32(b[0:4], uint32(v))
	putLeU32(b[4:8], uint32(v>>32))
}
