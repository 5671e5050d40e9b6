// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleV16Defs() []Definition {
	return []Definition{
		{Empty: true},
		{
			DtiHash:   0xCAFEBABE,
			RawHeader: make([]byte, v16DefHeaderSize),
			Props: []PropertyDef{
				{Name: "health", Type: TypeF32, Attr: 1, Bytes: 4},
				{Name: "name", Type: TypeString, Bytes: 64, Disable: true},
			},
		},
	}
}

func TestV16SchemaRoundTrip(t *testing.T) {
	codec := v16Codec{}
	defs := sampleV16Defs()

	size := codec.DefSize(defs)
	encoded := codec.EncodeSchema(defs)
	assert.Equal(t, int(size), len(encoded))

	c := NewCursor(encoded)
	got, err := codec.DecodeSchema(c, int32(len(defs)), size)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// An empty definition is re-encoded with a non-zero offset and a
	// zero-valued record, so it decodes back as a present definition.
	assert.False(t, got[0].Empty)
	assert.False(t, got[1].Init)
	assert.Equal(t, uint32(0xCAFEBABE), got[1].DtiHash)
	require.Len(t, got[1].Props, 2)
	assert.Equal(t, "health", got[1].Props[0].Name)
	assert.Equal(t, TypeF32, got[1].Props[0].Type)
	assert.Equal(t, "name", got[1].Props[1].Name)
	assert.True(t, got[1].Props[1].Disable)
	assert.Equal(t, uint16(64), got[1].Props[1].Bytes)

	assert.Equal(t, int64(len(encoded)), c.Tell())
}

func TestV16SchemaOverflow(t *testing.T) {
	codec := v16Codec{}
	c := NewCursor(make([]byte, 4))
	_, err := codec.DecodeSchema(c, 2, 4)
	assert.ErrorIs(t, err, ErrSchemaOverflow)
}
