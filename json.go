// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// jsonEnvelope is the top-level JSON document shape (§4.4): the root
// object tree plus the schema needed to re-bind it to definitions on
// load, and the version pair that selects a SchemaCodec.
type jsonEnvelope struct {
	Root         interface{} `json:"root"`
	Defs         []jsonDef   `json:"$defs"`
	MajorVersion uint16      `json:"$major_version"`
	MinorVersion uint16      `json:"$minor_version"`
}

// jsonDef is one definition's JSON projection. Init is a pointer so it
// can be omitted on JSON written from a v16 document (always false)
// without distinguishing "absent" from "false" on load — both mean
// false per §4.4.
type jsonDef struct {
	Dti   uint32     `json:"dti"`
	Init  *bool      `json:"init,omitempty"`
	Props []jsonProp `json:"props"`
}

type jsonProp struct {
	Name    string `json:"name"`
	Type    uint8  `json:"type"`
	Attr    uint8  `json:"attr"`
	Bytes   uint16 `json:"bytes"`
	Disable bool   `json:"disable"`
}

// ToJSON renders the document as the §4.4 envelope, 2-space indented
// for human consumption.
func (doc *Document) ToJSON() ([]byte, error) {
	defs := make([]jsonDef, len(doc.Definitions))
	for i, d := range doc.Definitions {
		defs[i] = defToJSON(d)
	}

	root, err := objectToJSON(doc.Root)
	if err != nil {
		return nil, fmt.Errorf("xfs: root to json: %w", err)
	}

	env := jsonEnvelope{
		Root:         root,
		Defs:         defs,
		MajorVersion: doc.Header.MajorVersion,
		MinorVersion: doc.Header.MinorVersion,
	}
	return json.MarshalIndent(env, "", "  ")
}

// FromJSON parses the §4.4 envelope into a Document. Definitions are
// consumed first so the object tree can bind each "$id" to its schema
// entry; every decoded object is assigned a fresh instance id by
// incrementing a counter that becomes the document's class_count, per
// §4.4's loader-behaviour note.
func FromJSON(data []byte) (*Document, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJSONShape, err)
	}

	codec, err := SchemaCodecFor(env.MajorVersion)
	if err != nil {
		return nil, err
	}

	defs := make([]Definition, len(env.Defs))
	for i, jd := range env.Defs {
		defs[i] = defFromJSON(jd, env.MajorVersion)
	}

	var root *Object
	counter := 0
	if env.Root != nil {
		m, ok := env.Root.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: root is not a json object", ErrJSONShape)
		}
		root, err = jsonToObject(m, defs, &counter)
		if err != nil {
			return nil, err
		}
	}

	h := Header{
		Magic:        Magic,
		MajorVersion: env.MajorVersion,
		MinorVersion: env.MinorVersion,
		ClassCount:   int64(counter),
		DefCount:     int32(len(defs)),
	}
	h.DefSize = codec.DefSize(defs)

	return &Document{Header: h, Definitions: defs, Root: root}, nil
}

func defToJSON(d Definition) jsonDef {
	props := make([]jsonProp, len(d.Props))
	for i, p := range d.Props {
		props[i] = jsonProp{Name: p.Name, Type: uint8(p.Type), Attr: p.Attr, Bytes: p.Bytes, Disable: p.Disable}
	}
	jd := jsonDef{Dti: d.DtiHash, Props: props}
	if d.Init {
		v := true
		jd.Init = &v
	}
	return jd
}

func defFromJSON(jd jsonDef, majorVersion uint16) Definition {
	props := make([]PropertyDef, len(jd.Props))
	for i, p := range jd.Props {
		props[i] = PropertyDef{Name: p.Name, Type: Type(p.Type), Attr: p.Attr, Bytes: p.Bytes, Disable: p.Disable}
	}
	init := jd.Init != nil && *jd.Init
	return Definition{
		DtiHash:   jd.Dti,
		Init:      init,
		RawHeader: synthesizeRawHeader(majorVersion, jd.Dti, len(props), init),
		Props:     props,
	}
}

// synthesizeRawHeader rebuilds the preserved def-header bytes from the
// fields a JSON document actually carries. Unknown padding bits that a
// binary round trip would have preserved are zeroed here — a
// documented lossy edge of the JSON path (§9).
func synthesizeRawHeader(majorVersion uint16, dtiHash uint32, propCount int, init bool) []byte {
	packed := uint32(propCount & 0x7FFF)
	switch majorVersion {
	case 16:
		h := make([]byte, v16DefHeaderSize)
		putLeU32(h[0:4], dtiHash)
		putLeU32(h[4:8], packed)
		return h
	case 15:
		if init {
			packed |= 0x8000
		}
		h := make([]byte, v15DefHeaderSize)
		putLeU32(h[0:4], dtiHash)
		putLeU32(h[8:12], packed)
		return h
	default:
		return nil
	}
}

// objectToJSON projects obj to its "$id"-keyed map form. A nil obj (the
// sentinel null class reference) projects to JSON null.
func objectToJSON(obj *Object) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}
	m := make(map[string]interface{}, len(obj.Fields)+1)
	m["$id"] = obj.DefID

	for _, f := range obj.Fields {
		if f.IsArray {
			arr := make([]interface{}, len(f.Array))
			for i, v := range f.Array {
				jv, err := valueToJSON(v)
				if err != nil {
					return nil, fmt.Errorf("field %q[%d]: %w", f.Name, i, err)
				}
				arr[i] = jv
			}
			m[f.Name] = arr
		} else {
			jv, err := valueToJSON(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			m[f.Name] = jv
		}
	}
	return m, nil
}

// valueToJSON projects one decoded value per §4.4's per-type table.
// Geometry composites are returned as the concrete types.go struct
// held in d.Geom — encoding/json dispatches to its MarshalJSON method
// (or its lowercase struct tags) when the envelope is marshaled.
func valueToJSON(d Data) (interface{}, error) {
	switch d.Type {
	case TypeBool:
		return d.Bool, nil
	case TypeU8:
		return d.U8, nil
	case TypeU16:
		return d.U16, nil
	case TypeU32:
		return d.U32, nil
	case TypeU64:
		return d.U64, nil
	case TypeS8:
		return d.S8, nil
	case TypeS16:
		return d.S16, nil
	case TypeS32:
		return d.S32, nil
	case TypeS64:
		return d.S64, nil
	case TypeF32:
		return d.F32, nil
	case TypeF64:
		return d.F64, nil
	case TypeString, TypeCString:
		return d.Str, nil
	case TypeColor:
		return fmt.Sprintf("#%08X", d.U32), nil
	case TypeTime:
		return d.S64, nil
	case TypeCustom:
		values := d.Custom
		if values == nil {
			values = []string{}
		}
		return map[string]interface{}{"values": values}, nil
	case TypeClass, TypeClassRef:
		return objectToJSON(d.Class)
	default:
		if d.Type.IsReserved() {
			// No JSON shape is defined for these tags; project the
			// degraded zero value as null rather than failing the
			// whole document's conversion.
			return nil, nil
		}
		if d.Geom == nil {
			return nil, fmt.Errorf("%w: tag 0x%02X has no geometry payload", ErrJSONShape, uint8(d.Type))
		}
		return d.Geom, nil
	}
}

// jsonToObject parses an "$id"-keyed map back into an Object, binding
// it to defs[$id] and assigning the next instance id from counter.
func jsonToObject(m map[string]interface{}, defs []Definition, counter *int) (*Object, error) {
	idRaw, ok := m["$id"]
	if !ok {
		return nil, fmt.Errorf("%w: object missing $id", ErrJSONShape)
	}
	idNum, ok := idRaw.(float64)
	if !ok {
		return nil, fmt.Errorf("%w: $id is not a number", ErrJSONShape)
	}
	defID := int32(idNum)
	if defID < 0 || int(defID) >= len(defs) {
		return nil, fmt.Errorf("%w: $id %d out of range (have %d defs)", ErrSchemaOverflow, defID, len(defs))
	}
	def := &defs[defID]

	obj := &Object{DefID: defID, ID: int16(*counter), Def: def, Fields: make([]Field, len(def.Props))}
	*counter++

	for i, prop := range def.Props {
		raw, ok := m[prop.Name]
		if !ok {
			return nil, fmt.Errorf("%w: object missing field %q", ErrJSONShape, prop.Name)
		}
		f, err := jsonToField(prop.Name, raw, prop.Type, defs, counter)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", prop.Name, err)
		}
		obj.Fields[i] = f
	}
	return obj, nil
}

func jsonToField(name string, raw interface{}, t Type, defs []Definition, counter *int) (Field, error) {
	if arr, ok := raw.([]interface{}); ok {
		vals := make([]Data, len(arr))
		for i, item := range arr {
			v, err := jsonToValue(item, t, defs, counter)
			if err != nil {
				return Field{}, fmt.Errorf("[%d]: %w", i, err)
			}
			vals[i] = v
		}
		return Field{Name: name, Type: t, IsArray: true, Array: vals}, nil
	}

	v, err := jsonToValue(raw, t, defs, counter)
	if err != nil {
		return Field{}, err
	}
	return Field{Name: name, Type: t, Value: v}, nil
}

func jsonToValue(raw interface{}, t Type, defs []Definition, counter *int) (Data, error) {
	d := Data{Type: t}

	switch t {
	case TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return d, fmt.Errorf("%w: expected bool", ErrJSONShape)
		}
		d.Bool = b
	case TypeU8, TypeU16, TypeU32, TypeU64, TypeS8, TypeS16, TypeS32, TypeS64, TypeF32, TypeF64:
		n, ok := raw.(float64)
		if !ok {
			return d, fmt.Errorf("%w: expected number", ErrJSONShape)
		}
		switch t {
		case TypeU8:
			d.U8 = uint8(n)
		case TypeU16:
			d.U16 = uint16(n)
		case TypeU32:
			d.U32 = uint32(n)
		case TypeU64:
			d.U64 = uint64(n)
		case TypeS8:
			d.S8 = int8(n)
		case TypeS16:
			d.S16 = int16(n)
		case TypeS32:
			d.S32 = int32(n)
		case TypeS64:
			d.S64 = int64(n)
		case TypeF32:
			d.F32 = float32(n)
		case TypeF64:
			d.F64 = n
		}
	case TypeString, TypeCString:
		s, ok := raw.(string)
		if !ok {
			return d, fmt.Errorf("%w: expected string", ErrJSONShape)
		}
		d.Str = s
	case TypeColor:
		s, ok := raw.(string)
		if !ok {
			return d, fmt.Errorf("%w: expected color string", ErrJSONShape)
		}
		u, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
		if err != nil {
			return d, fmt.Errorf("%w: malformed color %q", ErrJSONShape, s)
		}
		d.U32 = uint32(u)
	case TypeTime:
		n, ok := raw.(float64)
		if !ok {
			return d, fmt.Errorf("%w: expected number", ErrJSONShape)
		}
		d.S64 = int64(n)
	case TypeCustom:
		m, ok := raw.(map[string]interface{})
		if !ok {
			return d, fmt.Errorf("%w: expected custom object", ErrJSONShape)
		}
		vals, _ := m["values"].([]interface{})
		out := make([]string, len(vals))
		for i, v := range vals {
			s, ok := v.(string)
			if !ok {
				return d, fmt.Errorf("%w: custom value %d is not a string", ErrJSONShape, i)
			}
			out[i] = s
		}
		d.Custom = out
	case TypeClass, TypeClassRef:
		if raw == nil {
			return d, nil
		}
		m, ok := raw.(map[string]interface{})
		if !ok {
			return d, fmt.Errorf("%w: expected object or null", ErrJSONShape)
		}
		obj, err := jsonToObject(m, defs, counter)
		if err != nil {
			return d, err
		}
		d.Class = obj
	default:
		if t.IsReserved() {
			// Mirror the binary loader: a reserved tag degrades to a
			// zero value rather than failing the whole conversion.
			return d, nil
		}
		geom, err := geomFromJSON(t, raw)
		if err != nil {
			return d, err
		}
		d.Geom = geom
	}
	return d, nil
}

// geomFromJSON re-marshals the generic decoded JSON value raw and
// unmarshals it into the types.go struct matching t, using the same
// lowercase struct tags (and the matrix/SoaVector3 custom
// UnmarshalJSON methods) that ToJSON relied on to produce it.
func geomFromJSON(t Type, raw interface{}) (any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJSONShape, err)
	}

	var out any
	switch t {
	case TypePoint:
		var v Point
		err = json.Unmarshal(data, &v)
		out = v
	case TypeSize:
		var v Size
		err = json.Unmarshal(data, &v)
		out = v
	case TypeRect:
		var v Rect
		err = json.Unmarshal(data, &v)
		out = v
	case TypeMatrix:
		var v Matrix
		err = json.Unmarshal(data, &v)
		out = v
	case TypeVector3:
		var v Vector3
		err = json.Unmarshal(data, &v)
		out = v
	case TypeVector4:
		var v Vector4
		err = json.Unmarshal(data, &v)
		out = v
	case TypeQuaternion:
		var v Quaternion
		err = json.Unmarshal(data, &v)
		out = v
	case TypeFloat2:
		var v Float2
		err = json.Unmarshal(data, &v)
		out = v
	case TypeFloat3:
		var v Float3
		err = json.Unmarshal(data, &v)
		out = v
	case TypeFloat4:
		var v Float4
		err = json.Unmarshal(data, &v)
		out = v
	case TypeFloat3x3:
		var v Float3x3
		err = json.Unmarshal(data, &v)
		out = v
	case TypeFloat4x3:
		var v Float4x3
		err = json.Unmarshal(data, &v)
		out = v
	case TypeFloat4x4:
		var v Float4x4
		err = json.Unmarshal(data, &v)
		out = v
	case TypeFloat3x4:
		var v Float3x4
		err = json.Unmarshal(data, &v)
		out = v
	case TypeEaseCurve:
		var v EaseCurve
		err = json.Unmarshal(data, &v)
		out = v
	case TypeLine:
		var v Line
		err = json.Unmarshal(data, &v)
		out = v
	case TypeLineSegment:
		var v LineSegment
		err = json.Unmarshal(data, &v)
		out = v
	case TypeRay:
		var v Ray
		err = json.Unmarshal(data, &v)
		out = v
	case TypePlane:
		var v Plane
		err = json.Unmarshal(data, &v)
		out = v
	case TypeSphere:
		var v Sphere
		err = json.Unmarshal(data, &v)
		out = v
	case TypeCapsule, TypeCylinder:
		var v Capsule
		err = json.Unmarshal(data, &v)
		out = v
	case TypeAABB:
		var v AABB
		err = json.Unmarshal(data, &v)
		out = v
	case TypeOBB:
		var v OBB
		err = json.Unmarshal(data, &v)
		out = v
	case TypeTriangle:
		var v Triangle
		err = json.Unmarshal(data, &v)
		out = v
	case TypeCone:
		var v Cone
		err = json.Unmarshal(data, &v)
		out = v
	case TypeTorus:
		var v Torus
		err = json.Unmarshal(data, &v)
		out = v
	case TypeEllipsoid:
		var v Ellipsoid
		err = json.Unmarshal(data, &v)
		out = v
	case TypeRange:
		var v Range
		err = json.Unmarshal(data, &v)
		out = v
	case TypeRangeF:
		var v RangeF
		err = json.Unmarshal(data, &v)
		out = v
	case TypeRangeU16:
		var v RangeU16
		err = json.Unmarshal(data, &v)
		out = v
	case TypeHermiteCurve:
		var v HermiteCurve
		err = json.Unmarshal(data, &v)
		out = v
	case TypeLineSegment4:
		var v LineSegment4
		err = json.Unmarshal(data, &v)
		out = v
	case TypeAABB4:
		var v AABB4
		err = json.Unmarshal(data, &v)
		out = v
	case TypeVector2:
		var v Vector2
		err = json.Unmarshal(data, &v)
		out = v
	case TypeMatrix33:
		var v Matrix33
		err = json.Unmarshal(data, &v)
		out = v
	case TypeRect3DXZ:
		var v Rect3DXZ
		err = json.Unmarshal(data, &v)
		out = v
	case TypeRect3D:
		var v Rect3D
		err = json.Unmarshal(data, &v)
		out = v
	case TypePlaneXZ:
		var v PlaneXZ
		err = json.Unmarshal(data, &v)
		out = v
	case TypeRayY:
		var v RayY
		err = json.Unmarshal(data, &v)
		out = v
	case TypePointF:
		var v PointF
		err = json.Unmarshal(data, &v)
		out = v
	case TypeSizeF:
		var v SizeF
		err = json.Unmarshal(data, &v)
		out = v
	case TypeRectF:
		var v RectF
		err = json.Unmarshal(data, &v)
		out = v
	default:
		return nil, fmt.Errorf("%w: tag 0x%02X", ErrUnsupportedType, uint8(t))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJSONShape, err)
	}
	return out, nil
}
