// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleObjectDefs() []Definition {
	return []Definition{
		{DtiHash: 1, Props: []PropertyDef{{Name: "x", Type: TypeS32}}},
		{DtiHash: 2, Props: []PropertyDef{
			{Name: "child", Type: TypeClass},
			{Name: "tags", Type: TypeU32},
		}},
	}
}

func TestObjectRoundTripWithNestedClassAndArray(t *testing.T) {
	defs := sampleObjectDefs()

	child := &Object{DefID: 0, ID: 1, Def: &defs[0], Fields: []Field{
		{Name: "x", Type: TypeS32, Value: Data{Type: TypeS32, S32: 42}},
	}}
	parent := &Object{DefID: 1, ID: 2, Def: &defs[1], Fields: []Field{
		{Name: "child", Type: TypeClass, Value: Data{Type: TypeClass, Class: child}},
		{Name: "tags", Type: TypeU32, IsArray: true, Array: []Data{
			{Type: TypeU32, U32: 1}, {Type: TypeU32, U32: 2}, {Type: TypeU32, U32: 3},
		}},
	}}

	w := NewWriter()
	require.NoError(t, encodeObject(w, parent, v16Codec{}))

	got, err := decodeObject(NewCursor(w.Bytes()), defs, 16, nil)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, int32(1), got.DefID)
	require.Len(t, got.Fields, 2)

	gotChild := got.Fields[0].Value.Class
	require.NotNil(t, gotChild)
	assert.Equal(t, int32(0), gotChild.DefID)
	assert.Equal(t, int32(42), gotChild.Fields[0].Value.S32)

	require.True(t, got.Fields[1].IsArray)
	require.Len(t, got.Fields[1].Array, 3)
	assert.Equal(t, uint32(2), got.Fields[1].Array[1].U32)
}

func TestObjectNullClassRefRoundTrips(t *testing.T) {
	w := NewWriter()
	require.NoError(t, encodeObject(w, nil, v16Codec{}))

	defs := sampleObjectDefs()
	got, err := decodeObject(NewCursor(w.Bytes()), defs, 16, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestObjectOutOfRangeDefIDFails(t *testing.T) {
	w := NewWriter()
	encodeClassRef(w, 5, 0, false)
	w.WriteU32(0)

	_, err := decodeObject(NewCursor(w.Bytes()), sampleObjectDefs(), 16, nil)
	assert.ErrorIs(t, err, ErrSchemaOverflow)
}

func TestClassRefBitPacking(t *testing.T) {
	w := NewWriter()
	encodeClassRef(w, 100, 7, false)
	defID, id, ok, err := decodeClassRef(NewCursor(w.Bytes()))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(100), defID)
	assert.Equal(t, int16(7), id)

	w2 := NewWriter()
	encodeClassRef(w2, 0, 0, true)
	_, _, ok2, err := decodeClassRef(NewCursor(w2.Bytes()))
	require.NoError(t, err)
	assert.False(t, ok2)
}
