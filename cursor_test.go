// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorScalarRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU8(0xAB)
	w.WriteU16(0x1234)
	w.WriteU32(0xDEADBEEF)
	w.WriteU64(0x0123456789ABCDEF)
	w.WriteS32(-42)
	w.WriteF32(3.5)
	w.WriteF64(2.25)
	w.WriteBool(true)
	w.WriteCString("hello")

	c := NewCursor(w.Bytes())

	u8, err := c.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := c.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := c.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := c.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0123456789ABCDEF), u64)

	s32, err := c.ReadS32()
	require.NoError(t, err)
	assert.Equal(t, int32(-42), s32)

	f32, err := c.ReadF32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	f64, err := c.ReadF64()
	require.NoError(t, err)
	assert.Equal(t, 2.25, f64)

	b, err := c.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	s, err := c.ReadCString(16)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestCursorReadPastEndFails(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	_, err := c.Read(4)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestCursorSeek(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4, 5})
	pos, err := c.Seek(2, SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)

	b, err := c.Read(1)
	require.NoError(t, err)
	assert.Equal(t, byte(3), b[0])

	_, err = c.Seek(100, SeekStart)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestCursorCStringMissingTerminatorFails(t *testing.T) {
	c := NewCursor([]byte{'a', 'b', 'c'})
	_, err := c.ReadCString(3)
	assert.ErrorIs(t, err, ErrStringTooLong)
}

func TestWriterBackPatch(t *testing.T) {
	w := NewWriterSize(8)
	w.WriteAt(0, []byte{0, 0, 0, 0})
	w.SetU32(0, 42)
	w.SetU64(0, 0x1122334455667788)

	c := NewCursor(w.Bytes())
	v, err := c.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), v)
}
