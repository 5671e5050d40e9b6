// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// SeekOrigin mirrors the {start, current, end} trio spec.md requires of
// Cursor.Seek, rather than reusing io.Seeker's untyped int constants.
type SeekOrigin int

const (
	SeekStart SeekOrigin = iota
	SeekCurrent
	SeekEnd
)

// Cursor is a bounded sequential reader over a byte slice, optionally
// backed by a memory-mapped file the way pe.File.data is in the teacher
// (file.go's New uses mmap.Map instead of buffered read/write). No
// endianness swap is ever performed: XFS is native little-endian on
// disk and no big-endian target is in scope.
type Cursor struct {
	data []byte
	pos  int64

	mm mmap.MMap
	f  *os.File
}

// NewCursor wraps an in-memory buffer (e.g. a parsed-from-JSON encode
// target, or a previously mmap'd slice) for reading.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// OpenCursor memory-maps path read-only and returns a Cursor over it.
// The caller must Close the cursor to release the mapping and the file
// descriptor.
func OpenCursor(path string) (*Cursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Cursor{data: data, mm: data, f: f}, nil
}

// Close unmaps the backing file, if any, and closes the file handle.
func (c *Cursor) Close() error {
	var err error
	if c.mm != nil {
		err = c.mm.Unmap()
		c.mm = nil
	}
	if c.f != nil {
		if cerr := c.f.Close(); err == nil {
			err = cerr
		}
		c.f = nil
	}
	return err
}

// Len returns the total size of the underlying buffer.
func (c *Cursor) Len() int64 { return int64(len(c.data)) }

// Tell returns the logical position the next byte will be read from.
func (c *Cursor) Tell() int64 { return c.pos }

// Seek repositions the cursor. Invalidates nothing extra in this
// implementation since, unlike the chunked C reader, the whole buffer
// is already resident — the "prefetch buffer" spec.md describes is the
// mmap/slice itself.
func (c *Cursor) Seek(offset int64, origin SeekOrigin) (int64, error) {
	var abs int64
	switch origin {
	case SeekStart:
		abs = offset
	case SeekCurrent:
		abs = c.pos + offset
	case SeekEnd:
		abs = int64(len(c.data)) + offset
	default:
		return 0, fmt.Errorf("xfs: invalid seek origin %d", origin)
	}
	if abs < 0 || abs > int64(len(c.data)) {
		return 0, ErrOutOfBounds
	}
	c.pos = abs
	return abs, nil
}

// Read returns the next n bytes and advances the cursor. The returned
// slice aliases the underlying buffer; callers that retain it across
// further reads must copy.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrOutOfBounds
	}
	if c.pos+int64(n) > int64(len(c.data)) {
		return nil, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrOutOfBounds, n, c.pos, len(c.data)-int(c.pos))
	}
	b := c.data[c.pos : c.pos+int64(n)]
	c.pos += int64(n)
	return b, nil
}

// ReadAt reads size bytes at an absolute offset without moving the
// cursor's logical position.
func (c *Cursor) ReadAt(offset int64, size int) ([]byte, error) {
	if offset < 0 || size < 0 || offset+int64(size) > int64(len(c.data)) {
		return nil, ErrOutOfBounds
	}
	return c.data[offset : offset+int64(size)], nil
}

// ReadCString reads bytes up to and including the first null, never
// examining more than max input bytes, and fails if no null is found
// in that span (binary_reader_read_str's BINARY_READER_ERROR case).
func (c *Cursor) ReadCString(max int) (string, error) {
	end := c.pos + int64(max)
	if end > int64(len(c.data)) {
		end = int64(len(c.data))
	}
	for i := c.pos; i < end; i++ {
		if c.data[i] == 0 {
			s := string(c.data[c.pos:i])
			c.pos = i + 1
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: no null terminator within %d bytes", ErrStringTooLong, max)
}

// ReadCStringAt reads a null-terminated string starting at an absolute
// offset, used by the schema codec to materialize property names out
// of the string pool by offset (xfs_v16_32_load's strdup((char*)buffer
// + prop->name_offset)).
func (c *Cursor) ReadCStringAt(offset int64) (string, error) {
	if offset < 0 || offset > int64(len(c.data)) {
		return "", ErrOutOfBounds
	}
	for i := offset; i < int64(len(c.data)); i++ {
		if c.data[i] == 0 {
			return string(c.data[offset:i]), nil
		}
	}
	return "", fmt.Errorf("%w: unterminated string in pool at offset %d", ErrStringTooLong, offset)
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *Cursor) ReadS8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

func (c *Cursor) ReadS16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

func (c *Cursor) ReadS32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

func (c *Cursor) ReadS64() (int64, error) {
	v, err := c.ReadU64()
	return int64(v), err
}

func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadF64() (float64, error) {
	v, err := c.ReadU64()
	return math.Float64frombits(v), err
}

func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadU8()
	return v != 0, err
}

// Writer is a growable byte buffer supporting absolute back-patching —
// the "write a placeholder, keep encoding, come back and fill it in"
// discipline spec.md's Back-patch glossary entry and binary_writer.c's
// write_at/set_u32/set_u64 describe. It serves both the top-level
// document encode and, via NewWriterSize, the schema block's
// self-referential arena buffer (original_source's
// binary_writer_create_buffer).
type Writer struct {
	buf []byte
	pos int64
}

// NewWriter returns an empty Writer that grows on demand.
func NewWriter() *Writer { return &Writer{} }

// NewWriterSize returns a Writer pre-sized to exactly n bytes, all
// zero, matching arch_{32,64}'s malloc(def_size)+memset(0) arena.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: make([]byte, n)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Tell returns the current absolute write position.
func (w *Writer) Tell() int64 { return w.pos }

// Seek repositions the writer. Writing after seeking backward
// overwrites existing bytes rather than truncating, matching
// binary_writer_seek + subsequent binary_writer_write_u32 in
// xfs_save_object's back-patch step.
func (w *Writer) Seek(offset int64, origin SeekOrigin) (int64, error) {
	var abs int64
	switch origin {
	case SeekStart:
		abs = offset
	case SeekCurrent:
		abs = w.pos + offset
	case SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, fmt.Errorf("xfs: invalid seek origin %d", origin)
	}
	if abs < 0 {
		return 0, ErrOutOfBounds
	}
	w.pos = abs
	return abs, nil
}

func (w *Writer) ensure(end int64) {
	if end > int64(len(w.buf)) {
		grown := make([]byte, end)
		copy(grown, w.buf)
		w.buf = grown
	}
}

// Write appends (or overwrites, if the cursor was seeked backward) p
// at the current position and advances past it.
func (w *Writer) Write(p []byte) {
	end := w.pos + int64(len(p))
	w.ensure(end)
	copy(w.buf[w.pos:end], p)
	w.pos = end
}

// WriteAt back-patches size bytes at an absolute offset without moving
// the writer's logical position — binary_writer_write_at.
func (w *Writer) WriteAt(offset int64, p []byte) {
	end := offset + int64(len(p))
	w.ensure(end)
	copy(w.buf[offset:end], p)
}

// SetU32 back-patches a little-endian u32 at an absolute offset —
// binary_writer_set_u32, used to fill the schema offset table and
// object size fields after the fact.
func (w *Writer) SetU32(offset int64, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.WriteAt(offset, b[:])
}

// SetU64 back-patches a little-endian u64 at an absolute offset —
// binary_writer_set_u64.
func (w *Writer) SetU64(offset int64, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.WriteAt(offset, b[:])
}

func (w *Writer) WriteU8(v uint8)  { w.Write([]byte{v}) }
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func (w *Writer) WriteS8(v int8)   { w.WriteU8(uint8(v)) }
func (w *Writer) WriteS16(v int16) { w.WriteU16(uint16(v)) }
func (w *Writer) WriteS32(v int32) { w.WriteU32(uint32(v)) }
func (w *Writer) WriteS64(v int64) { w.WriteU64(uint64(v)) }

func (w *Writer) WriteF32(v float32) { w.WriteU32(math.Float32bits(v)) }
func (w *Writer) WriteF64(v float64) { w.WriteU64(math.Float64bits(v)) }

// WriteCString writes s followed by a single null terminator —
// binary_writer_write_str.
func (w *Writer) WriteCString(s string) {
	w.Write([]byte(s))
	w.WriteU8(0)
}
