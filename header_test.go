// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{MajorVersion: 16, MinorVersion: 3, ClassCount: 7, DefCount: 2, DefSize: 128}

	w := NewWriter()
	h.Encode(w)
	assert.Equal(t, HeaderSize, len(w.Bytes()))

	got, err := DecodeHeader(NewCursor(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, Magic, got.Magic)
	assert.Equal(t, h.MajorVersion, got.MajorVersion)
	assert.Equal(t, h.MinorVersion, got.MinorVersion)
	assert.Equal(t, h.ClassCount, got.ClassCount)
	assert.Equal(t, h.DefCount, got.DefCount)
	assert.Equal(t, h.DefSize, got.DefSize)
}

func TestHeaderInvalidMagic(t *testing.T) {
	w := NewWriter()
	w.WriteU32(0xFFFFFFFF)
	w.WriteU16(16)
	w.WriteU16(0)
	w.WriteS64(0)
	w.WriteS32(0)
	w.WriteS32(0)

	_, err := DecodeHeader(NewCursor(w.Bytes()))
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestHeaderTruncated(t *testing.T) {
	_, err := DecodeHeader(NewCursor([]byte{0x58, 0x46, 0x53, 0x00}))
	assert.Error(t, err)
}
