// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(majorVersion uint16) *Document {
	defs := []Definition{
		{
			DtiHash:   0x1000,
			RawHeader: make([]byte, v16DefHeaderSize),
			Props: []PropertyDef{
				{Name: "hp", Type: TypeS32},
				{Name: "label", Type: TypeString},
				{Name: "pos", Type: TypeVector3},
			},
		},
	}
	root := &Object{DefID: 0, ID: 0, Def: &defs[0], Fields: []Field{
		{Name: "hp", Type: TypeS32, Value: Data{Type: TypeS32, S32: 100}},
		{Name: "label", Type: TypeString, Value: Data{Type: TypeString, Str: "boss"}},
		{Name: "pos", Type: TypeVector3, Value: Data{Type: TypeVector3, Geom: Vector3{X: 1, Y: 2, Z: 3}}},
	}}

	return &Document{
		Header:      Header{MajorVersion: majorVersion, MinorVersion: 0, ClassCount: 1},
		Definitions: defs,
		Root:        root,
	}
}

func TestDocumentBinaryRoundTripV16(t *testing.T) {
	doc := sampleDocument(16)

	data, err := doc.Encode()
	require.NoError(t, err)

	got, err := LoadBytes(data, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Warnings)
	assert.Equal(t, int32(100), got.Root.Fields[0].Value.S32)
	assert.Equal(t, "boss", got.Root.Fields[1].Value.Str)
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, got.Root.Fields[2].Value.Geom)

	data2, err := got.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, data2)
}

func TestDocumentBinaryRoundTripV15(t *testing.T) {
	doc := sampleDocument(15)
	doc.Definitions[0].RawHeader = make([]byte, v15DefHeaderSize)
	doc.Definitions[0].Init = true

	data, err := doc.Encode()
	require.NoError(t, err)

	got, err := LoadBytes(data, nil)
	require.NoError(t, err)
	assert.True(t, got.Definitions[0].Init)
	assert.Equal(t, int32(100), got.Root.Fields[0].Value.S32)
}

func TestDocumentSaveLoadFile(t *testing.T) {
	doc := sampleDocument(16)
	path := filepath.Join(t.TempDir(), "sample.xfs")

	require.NoError(t, doc.Save(path))

	got, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "boss", got.Root.Fields[1].Value.Str)
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := sampleDocument(16)

	out, err := doc.ToJSON()
	require.NoError(t, err)

	got, err := FromJSON(out)
	require.NoError(t, err)

	assert.Equal(t, doc.Header.MajorVersion, got.Header.MajorVersion)
	assert.Equal(t, int64(1), got.Header.ClassCount)
	assert.Equal(t, int32(100), got.Root.Fields[0].Value.S32)
	assert.Equal(t, "boss", got.Root.Fields[1].Value.Str)
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, got.Root.Fields[2].Value.Geom)

	out2, err := got.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(out), string(out2))
}

// TestDocumentDecodeToleratesReservedType guards xfs_load_data's
// fprintf-and-continue behavior: a reserved-type field degrades to a
// zero value and a warning, but the object it belongs to — and every
// sibling field around it — still decodes.
func TestDocumentDecodeToleratesReservedType(t *testing.T) {
	defs := []Definition{
		{DtiHash: 1, RawHeader: make([]byte, v16DefHeaderSize), Props: []PropertyDef{
			{Name: "grp", Type: TypeGroup},
			{Name: "hp", Type: TypeS32},
		}},
	}
	root := &Object{DefID: 0, ID: 0, Def: &defs[0], Fields: []Field{
		{Name: "grp", Type: TypeGroup, Value: Data{Type: TypeGroup}},
		{Name: "hp", Type: TypeS32, Value: Data{Type: TypeS32, S32: 77}},
	}}
	doc := &Document{Header: Header{MajorVersion: 16}, Definitions: defs, Root: root}

	data, err := doc.Encode()
	require.NoError(t, err)

	got, err := LoadBytes(data, nil)
	require.NoError(t, err)
	require.NotNil(t, got.Root)

	require.Len(t, got.Warnings, 1)
	assert.ErrorIs(t, got.Warnings[0], ErrUnsupportedType)

	require.Len(t, got.Root.Fields, 2)
	assert.Equal(t, Data{Type: TypeGroup}, got.Root.Fields[0].Value)
	assert.Equal(t, int32(77), got.Root.Fields[1].Value.S32)
}
