// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueToJSONColorIsHexString(t *testing.T) {
	jv, err := valueToJSON(Data{Type: TypeColor, U32: 0xFF0080FF})
	require.NoError(t, err)
	assert.Equal(t, "#FF0080FF", jv)
}

func TestJSONToValueColorParsesHash(t *testing.T) {
	d, err := jsonToValue("#0A0B0C0D", TypeColor, nil, new(int))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0A0B0C0D), d.U32)
}

func TestValueToJSONCustomShape(t *testing.T) {
	jv, err := valueToJSON(Data{Type: TypeCustom, Custom: []string{"foo", "bar"}})
	require.NoError(t, err)
	m, ok := jv.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"foo", "bar"}, m["values"])
}

func TestValueToJSONCustomEmptyIsEmptyArrayNotNull(t *testing.T) {
	jv, err := valueToJSON(Data{Type: TypeCustom})
	require.NoError(t, err)
	m := jv.(map[string]interface{})
	assert.Equal(t, []string{}, m["values"])
}

func TestJSONToValueCustomRoundTrip(t *testing.T) {
	jv, err := valueToJSON(Data{Type: TypeCustom, Custom: []string{"a", "b"}})
	require.NoError(t, err)

	raw, err := json.Marshal(jv)
	require.NoError(t, err)
	var generic interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))

	d, err := jsonToValue(generic, TypeCustom, nil, new(int))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, d.Custom)
}

func TestValueToJSONNullClassRef(t *testing.T) {
	jv, err := valueToJSON(Data{Type: TypeClassRef, Class: nil})
	require.NoError(t, err)
	assert.Nil(t, jv)
}

func TestJSONToValueNullClassRef(t *testing.T) {
	counter := 0
	d, err := jsonToValue(nil, TypeClassRef, nil, &counter)
	require.NoError(t, err)
	assert.Nil(t, d.Class)
	assert.Equal(t, 0, counter)
}

func TestValueToJSONReservedTypeProjectsNull(t *testing.T) {
	jv, err := valueToJSON(Data{Type: TypeGroup})
	require.NoError(t, err)
	assert.Nil(t, jv)
}

func TestJSONToValueReservedTypeDegradesToZeroValue(t *testing.T) {
	d, err := jsonToValue("anything", TypeGroup, nil, new(int))
	require.NoError(t, err)
	assert.Equal(t, Data{Type: TypeGroup}, d)
}

func TestGeomFromJSONVector3(t *testing.T) {
	v, err := geomFromJSON(TypeVector3, map[string]interface{}{"x": 1.0, "y": 2.0, "z": 3.0})
	require.NoError(t, err)
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, v)
}

func TestGeomFromJSONMatrixFlatKeys(t *testing.T) {
	raw := map[string]interface{}{}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			raw[fmt.Sprintf("m%d%d", i, j)] = float64(i*4 + j)
		}
	}
	v, err := geomFromJSON(TypeMatrix, raw)
	require.NoError(t, err)
	m := v.(Matrix)
	assert.Equal(t, float32(0), m.M[0][0])
	assert.Equal(t, float32(15), m.M[3][3])
}

func TestGeomFromJSONUnsupportedTag(t *testing.T) {
	_, err := geomFromJSON(Type(0xFE), map[string]interface{}{})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestFromJSONRejectsMissingID(t *testing.T) {
	_, err := jsonToObject(map[string]interface{}{}, sampleObjectDefs(), new(int))
	assert.ErrorIs(t, err, ErrJSONShape)
}

func TestFromJSONMalformedEnvelope(t *testing.T) {
	_, err := FromJSON([]byte("not json"))
	assert.ErrorIs(t, err, ErrJSONShape)
}
