// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTripValue(t *testing.T, d Data) Data {
	t.Helper()
	w := NewWriter()
	require.NoError(t, encodeValue(w, d, v16Codec{}))
	got, err := decodeValue(NewCursor(w.Bytes()), d.Type, nil, 16, nil)
	require.NoError(t, err)
	return got
}

func TestEncodeDecodeScalarValues(t *testing.T) {
	assert.Equal(t, Data{Type: TypeU32, U32: 99}, roundTripValue(t, Data{Type: TypeU32, U32: 99}))
	assert.Equal(t, Data{Type: TypeBool, Bool: true}, roundTripValue(t, Data{Type: TypeBool, Bool: true}))
	assert.Equal(t, Data{Type: TypeString, Str: "hello"}, roundTripValue(t, Data{Type: TypeString, Str: "hello"}))
}

func TestEncodeDecodeColor(t *testing.T) {
	got := roundTripValue(t, Data{Type: TypeColor, U32: 0xAABBCCDD})
	assert.Equal(t, uint32(0xAABBCCDD), got.U32)
}

func TestEncodeDecodeCustom(t *testing.T) {
	got := roundTripValue(t, Data{Type: TypeCustom, Custom: []string{"a", "bb", "ccc"}})
	assert.Equal(t, []string{"a", "bb", "ccc"}, got.Custom)
}

// TestFloat2BothFieldsRoundTrip guards against reintroducing the
// source's documented FLOAT2 writer bug (it only ever wrote x).
func TestFloat2BothFieldsRoundTrip(t *testing.T) {
	got := roundTripValue(t, Data{Type: TypeFloat2, Geom: Float2{X: 1.5, Y: -2.5}})
	assert.Equal(t, Float2{X: 1.5, Y: -2.5}, got.Geom)
}

// TestRangeFamilyBothFieldsRoundTrip guards against the source's
// RANGE/RANGEF/RANGEU16 writer bug (only the first field was written).
func TestRangeFamilyBothFieldsRoundTrip(t *testing.T) {
	assert.Equal(t, Range{S: -5, R: 12}, roundTripValue(t, Data{Type: TypeRange, Geom: Range{S: -5, R: 12}}).Geom)
	assert.Equal(t, RangeF{S: 1.5, R: 2.5}, roundTripValue(t, Data{Type: TypeRangeF, Geom: RangeF{S: 1.5, R: 2.5}}).Geom)
	assert.Equal(t, RangeU16{S: 3, R: 9}, roundTripValue(t, Data{Type: TypeRangeU16, Geom: RangeU16{S: 3, R: 9}}).Geom)
}

func TestEncodeDecodeMatrix(t *testing.T) {
	m := Matrix{}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m.M[i][j] = float32(i*4 + j)
		}
	}
	got := roundTripValue(t, Data{Type: TypeMatrix, Geom: m})
	assert.Equal(t, m, got.Geom)
}

// TestDecodeReservedTypeDegradesToZeroValue guards xfs_load_data's
// default-less fallthrough: a reserved tag never aborts the decode, it
// yields a zero-value Data and a warning.
func TestDecodeReservedTypeDegradesToZeroValue(t *testing.T) {
	var warnings []error
	got, err := decodeValue(NewCursor(nil), TypeGroup, nil, 16, &warnings)
	require.NoError(t, err)
	assert.Equal(t, Data{Type: TypeGroup}, got)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrUnsupportedType)
}

func TestDecodeUnknownTagIsUnsupported(t *testing.T) {
	_, err := decodeValue(NewCursor(nil), Type(0xFE), nil, 16, nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

// TestEncodeReservedTypeWritesNothing guards xfs_save_data's matching
// behavior on the write side: a reserved tag emits zero bytes rather
// than failing the whole encode.
func TestEncodeReservedTypeWritesNothing(t *testing.T) {
	w := NewWriter()
	require.NoError(t, encodeValue(w, Data{Type: TypeGroup}, v16Codec{}))
	assert.Empty(t, w.Bytes())
}

func TestStringTooLongFails(t *testing.T) {
	err := encodeValue(NewWriter(), Data{Type: TypeString, Str: string(make([]byte, maxStringLen))}, v16Codec{})
	assert.ErrorIs(t, err, ErrStringTooLong)
}
