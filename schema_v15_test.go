// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleV15Defs(init bool) []Definition {
	return []Definition{
		{
			DtiHash:   0x11223344,
			Init:      init,
			RawHeader: make([]byte, v15DefHeaderSize),
			Props: []PropertyDef{
				{Name: "position", Type: TypeVector3, Bytes: 16},
			},
		},
	}
}

func TestV15SchemaRoundTripWithInit(t *testing.T) {
	codec := v15Codec{}
	defs := sampleV15Defs(true)

	size := codec.DefSize(defs)
	encoded := codec.EncodeSchema(defs)
	require.Equal(t, int(size), len(encoded))

	got, err := codec.DecodeSchema(NewCursor(encoded), int32(len(defs)), size)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Init)
	assert.Equal(t, uint32(0x11223344), got[0].DtiHash)
	require.Len(t, got[0].Props, 1)
	assert.Equal(t, "position", got[0].Props[0].Name)
	assert.Equal(t, TypeVector3, got[0].Props[0].Type)
}

func TestV15SchemaInitFalse(t *testing.T) {
	codec := v15Codec{}
	defs := sampleV15Defs(false)
	encoded := codec.EncodeSchema(defs)

	got, err := codec.DecodeSchema(NewCursor(encoded), 1, codec.DefSize(defs))
	require.NoError(t, err)
	assert.False(t, got[0].Init)
}
