// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"encoding/json"
	"fmt"
)

// Type is the on-disk tag identifying the shape of a property's value.
// The dense range 0x00-0x4B plus the sparse 0x80 CUSTOM tag are the
// complete set the MT Framework engine ever emitted.
type Type uint8

// Type tags, in declaration order from the engine's runtime type system.
const (
	TypeUndefined  Type = 0x00
	TypeClass      Type = 0x01
	TypeClassRef   Type = 0x02
	TypeBool       Type = 0x03
	TypeU8         Type = 0x04
	TypeU16        Type = 0x05
	TypeU32        Type = 0x06
	TypeU64        Type = 0x07
	TypeS8         Type = 0x08
	TypeS16        Type = 0x09
	TypeS32        Type = 0x0A
	TypeS64        Type = 0x0B
	TypeF32        Type = 0x0C
	TypeF64        Type = 0x0D
	TypeString     Type = 0x0E
	TypeColor      Type = 0x0F
	TypePoint      Type = 0x10
	TypeSize       Type = 0x11
	TypeRect       Type = 0x12
	TypeMatrix     Type = 0x13
	TypeVector3    Type = 0x14
	TypeVector4    Type = 0x15
	TypeQuaternion Type = 0x16

	// Reserved — never encoded by this codec, rejected (with a warning)
	// if found on decode.
	TypeProperty     Type = 0x17
	TypeEvent        Type = 0x18
	TypeGroup        Type = 0x19
	TypePageBegin    Type = 0x1A
	TypePageEnd      Type = 0x1B
	TypeEvent32      Type = 0x1C
	TypeArray        Type = 0x1D
	TypePropertyList Type = 0x1E
	TypeGroupEnd     Type = 0x1F

	TypeCString      Type = 0x20
	TypeTime         Type = 0x21
	TypeFloat2       Type = 0x22
	TypeFloat3       Type = 0x23
	TypeFloat4       Type = 0x24
	TypeFloat3x3     Type = 0x25
	TypeFloat4x3     Type = 0x26
	TypeFloat4x4     Type = 0x27
	TypeEaseCurve    Type = 0x28
	TypeLine         Type = 0x29
	TypeLineSegment  Type = 0x2A
	TypeRay          Type = 0x2B
	TypePlane        Type = 0x2C
	TypeSphere       Type = 0x2D
	TypeCapsule      Type = 0x2E
	TypeAABB         Type = 0x2F
	TypeOBB          Type = 0x30
	TypeCylinder     Type = 0x31
	TypeTriangle     Type = 0x32
	TypeCone         Type = 0x33
	TypeTorus        Type = 0x34
	TypeEllipsoid    Type = 0x35
	TypeRange        Type = 0x36
	TypeRangeF       Type = 0x37
	TypeRangeU16     Type = 0x38
	TypeHermiteCurve Type = 0x39

	// Reserved.
	TypeEnumList Type = 0x3A

	TypeFloat3x4     Type = 0x3B
	TypeLineSegment4 Type = 0x3C
	TypeAABB4        Type = 0x3D

	// Reserved.
	TypeOscillator Type = 0x3E
	TypeVariable   Type = 0x3F

	TypeVector2  Type = 0x40
	TypeMatrix33 Type = 0x41
	TypeRect3DXZ Type = 0x42
	TypeRect3D   Type = 0x43

	// Reserved.
	TypeRect3DCollision Type = 0x44

	TypePlaneXZ Type = 0x45
	TypeRayY    Type = 0x46
	TypePointF  Type = 0x47
	TypeSizeF   Type = 0x48
	TypeRectF   Type = 0x49

	// Reserved.
	TypeEvent64 Type = 0x4A
	TypeEnd     Type = 0x4B

	// Sparse. A length-prefixed list of owned strings.
	TypeCustom Type = 0x80
)

// reserved is the set of tags the engine defines but this codec never
// produces and only tolerates (with a warning) on decode, matching
// xfs_load_data's default-less switch arms in the original source.
var reserved = map[Type]bool{
	TypeProperty:        true,
	TypeEvent:           true,
	TypeGroup:           true,
	TypePageBegin:       true,
	TypePageEnd:         true,
	TypeEvent32:         true,
	TypeArray:           true,
	TypePropertyList:    true,
	TypeGroupEnd:        true,
	TypeEnumList:        true,
	TypeOscillator:      true,
	TypeVariable:        true,
	TypeRect3DCollision: true,
	TypeEvent64:         true,
	TypeEnd:             true,
}

// IsReserved reports whether t is one of the tags the engine's runtime
// type system defines but that never appears in a well-formed asset.
func (t Type) IsReserved() bool {
	return reserved[t]
}

// String implements fmt.Stringer for readable diagnostics.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

var typeNames = map[Type]string{
	TypeUndefined: "UNDEFINED", TypeClass: "CLASS", TypeClassRef: "CLASSREF",
	TypeBool: "BOOL", TypeU8: "U8", TypeU16: "U16", TypeU32: "U32", TypeU64: "U64",
	TypeS8: "S8", TypeS16: "S16", TypeS32: "S32", TypeS64: "S64",
	TypeF32: "F32", TypeF64: "F64", TypeString: "STRING", TypeColor: "COLOR",
	TypePoint: "POINT", TypeSize: "SIZE", TypeRect: "RECT", TypeMatrix: "MATRIX",
	TypeVector3: "VECTOR3", TypeVector4: "VECTOR4", TypeQuaternion: "QUATERNION",
	TypeProperty: "PROPERTY", TypeEvent: "EVENT", TypeGroup: "GROUP",
	TypePageBegin: "PAGE_BEGIN", TypePageEnd: "PAGE_END", TypeEvent32: "EVENT32",
	TypeArray: "ARRAY", TypePropertyList: "PROPERTYLIST", TypeGroupEnd: "GROUP_END",
	TypeCString: "CSTRING", TypeTime: "TIME", TypeFloat2: "FLOAT2", TypeFloat3: "FLOAT3",
	TypeFloat4: "FLOAT4", TypeFloat3x3: "FLOAT3x3", TypeFloat4x3: "FLOAT4x3",
	TypeFloat4x4: "FLOAT4x4", TypeEaseCurve: "EASECURVE", TypeLine: "LINE",
	TypeLineSegment: "LINESEGMENT", TypeRay: "RAY", TypePlane: "PLANE",
	TypeSphere: "SPHERE", TypeCapsule: "CAPSULE", TypeAABB: "AABB", TypeOBB: "OBB",
	TypeCylinder: "CYLINDER", TypeTriangle: "TRIANGLE", TypeCone: "CONE",
	TypeTorus: "TORUS", TypeEllipsoid: "ELLIPSOID", TypeRange: "RANGE",
	TypeRangeF: "RANGEF", TypeRangeU16: "RANGEU16", TypeHermiteCurve: "HERMITECURVE",
	TypeEnumList: "ENUMLIST", TypeFloat3x4: "FLOAT3x4", TypeLineSegment4: "LINESEGMENT4",
	TypeAABB4: "AABB4", TypeOscillator: "OSCILLATOR", TypeVariable: "VARIABLE",
	TypeVector2: "VECTOR2", TypeMatrix33: "MATRIX33", TypeRect3DXZ: "RECT3D_XZ",
	TypeRect3D: "RECT3D", TypeRect3DCollision: "RECT3D_COLLISION", TypePlaneXZ: "PLANE_XZ",
	TypeRayY: "RAY_Y", TypePointF: "POINTF", TypeSizeF: "SIZEF", TypeRectF: "RECTF",
	TypeEvent64: "EVENT64", TypeEnd: "END", TypeCustom: "CUSTOM",
}

// --- Geometry structs, byte-for-byte from prop_types.h ---

// Point is a 2D integer point.
type Point struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Size is a 2D integer extent.
type Size struct {
	W int32 `json:"w"`
	H int32 `json:"h"`
}

// Rect is an axis-aligned integer rectangle.
type Rect struct {
	L int32 `json:"l"`
	T int32 `json:"t"`
	R int32 `json:"r"`
	B int32 `json:"b"`
}

// Matrix is a row-major 4x4 float matrix. It marshals to/from the
// flat {"m00":...,"m33":...} member names the engine's JSON tooling
// uses instead of a nested array.
type Matrix struct{ M [4][4]float32 }

// Vector3 carries an explicit trailing pad float, matching the
// engine's 16-byte-aligned SIMD-friendly layout. Pad never appears in
// JSON and is zero-valued when a document is parsed from JSON.
type Vector3 struct {
	X, Y, Z float32
	Pad     float32 `json:"-"`
}

// vector3JSON gives Vector3 explicit lowercase keys and drops Pad.
type vector3JSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func (v Vector3) MarshalJSON() ([]byte, error) {
	return json.Marshal(vector3JSON{v.X, v.Y, v.Z})
}

func (v *Vector3) UnmarshalJSON(data []byte) error {
	var j vector3JSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	v.X, v.Y, v.Z = j.X, j.Y, j.Z
	return nil
}

// Vector4 is a plain 4-float vector.
type Vector4 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// Quaternion is a plain 4-float quaternion.
type Quaternion struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// Float2 is an unpadded 2-float pair.
type Float2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Float3 is an unpadded 3-float triple.
type Float3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Float4 is an unpadded 4-float quad.
type Float4 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// Float3x3 is a row-major 3x3 float matrix.
type Float3x3 struct{ M [3][3]float32 }

// Float4x3 is a row-major 4x3 float matrix.
type Float4x3 struct{ M [4][3]float32 }

// Float4x4 is a row-major 4x4 float matrix.
type Float4x4 struct{ M [4][4]float32 }

// EaseCurve is a two-control-point easing curve.
type EaseCurve struct {
	P1 float32 `json:"p1"`
	P2 float32 `json:"p2"`
}

// Line is an infinite line through From in direction Dir.
type Line struct {
	From Vector3 `json:"from"`
	Dir  Vector3 `json:"dir"`
}

// LineSegment is a bounded line between two points.
type LineSegment struct {
	P0 Vector3 `json:"p0"`
	P1 Vector3 `json:"p1"`
}

// Ray is an origin+direction ray.
type Ray struct {
	From Vector3 `json:"from"`
	Dir  Vector3 `json:"dir"`
}

// Plane is a normal+distance half-space boundary.
type Plane struct {
	Normal Float3  `json:"normal"`
	Dist   float32 `json:"dist"`
}

// Sphere is a center+radius bounding volume.
type Sphere struct {
	Center Float3  `json:"center"`
	Radius float32 `json:"radius"`
}

// Capsule is a swept-sphere volume between two points, with a trailing
// 3-float pad matching the engine's layout. Pad never appears in JSON.
type Capsule struct {
	P0     Vector3    `json:"p0"`
	P1     Vector3    `json:"p1"`
	Radius float32    `json:"radius"`
	Pad    [3]float32 `json:"-"`
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vector3 `json:"min"`
	Max Vector3 `json:"max"`
}

// OBB is an oriented bounding box: a transform plus a half-extent.
type OBB struct {
	Transform Matrix  `json:"transform"`
	Extent    Vector3 `json:"extent"`
}

// Cylinder shares Capsule's layout in the engine.
type Cylinder = Capsule

// Triangle is three points.
type Triangle struct {
	P0 Vector3 `json:"p0"`
	P1 Vector3 `json:"p1"`
	P2 Vector3 `json:"p2"`
}

// Cone is two capped circles.
type Cone struct {
	P0 Float3  `json:"p0"`
	R0 float32 `json:"r0"`
	P1 Float3  `json:"p1"`
	R1 float32 `json:"r1"`
}

// Torus is a tube swept around an axis.
type Torus struct {
	Pos  Vector3 `json:"pos"`
	R    float32 `json:"r"`
	Axis Vector3 `json:"axis"`
	Cr   float32 `json:"cr"`
}

// Ellipsoid is a center plus per-axis radii.
type Ellipsoid struct {
	Pos Vector3 `json:"pos"`
	R   Vector3 `json:"r"`
}

// Range is a signed start plus an unsigned extent.
type Range struct {
	S int32  `json:"s"`
	R uint32 `json:"r"`
}

// RangeF is a float start/extent pair.
type RangeF struct {
	S float32 `json:"s"`
	R float32 `json:"r"`
}

// RangeU16 packs two 16-bit fields into a 32-bit word.
type RangeU16 struct {
	S uint16 `json:"s"`
	R uint16 `json:"r"`
}

// HermiteCurve is two 8-sample control polygons.
type HermiteCurve struct {
	X [8]float32 `json:"x"`
	Y [8]float32 `json:"y"`
}

// Float3x4 is a row-major 3x4 float matrix.
type Float3x4 struct{ M [3][4]float32 }

// SoaVector3 is a structure-of-arrays quad of vector3s: X/Y/Z each
// hold the 4 parallel lane values for that axis, not a single vector's
// components, so it marshals as three 4-element arrays rather than
// reusing Vector4's x/y/z/w member names.
type SoaVector3 struct{ X, Y, Z Vector4 }

// LineSegment4 is a SIMD-batched line segment (4 segments at once).
type LineSegment4 struct {
	P0 SoaVector3 `json:"p0"`
	P1 SoaVector3 `json:"p1"`
}

// AABB4 is a SIMD-batched AABB (4 boxes at once).
type AABB4 struct {
	Min SoaVector3 `json:"min"`
	Max SoaVector3 `json:"max"`
}

// Vector2 is a plain 2-float vector.
type Vector2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Matrix33 is a row-major 3x3 float matrix (distinct tag from Float3x3).
type Matrix33 struct{ M [3][3]float32 }

// Rect3DXZ is a horizontal rectangle in 3D space.
type Rect3DXZ struct {
	LT     Vector2 `json:"lt"`
	LB     Vector2 `json:"lb"`
	RT     Vector2 `json:"rt"`
	RB     Vector2 `json:"rb"`
	Height float32 `json:"height"`
}

// Rect3D is an oriented rectangle in 3D space.
type Rect3D struct {
	Normal Vector3 `json:"normal"`
	SizeW  float32 `json:"sizew"`
	Center Vector3 `json:"center"`
	SizeH  float32 `json:"sizeh"`
}

// PlaneXZ is a horizontal plane at a given height.
type PlaneXZ struct {
	Dist float32 `json:"dist"`
}

// RayY is a ray constrained to vary only in Y.
type RayY struct {
	From Float3  `json:"from"`
	Dir  float32 `json:"dir"`
}

// PointF is a 2D float point.
type PointF struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// SizeF is a 2D float extent.
type SizeF struct {
	W float32 `json:"w"`
	H float32 `json:"h"`
}

// RectF is a float rectangle.
type RectF struct {
	L float32 `json:"l"`
	T float32 `json:"t"`
	R float32 `json:"r"`
	B float32 `json:"b"`
}

func marshalRowMajor(rows [][]float32) ([]byte, error) {
	m := make(map[string]float32, len(rows)*len(rows[0]))
	for i, row := range rows {
		for j, v := range row {
			m[fmt.Sprintf("m%d%d", i, j)] = v
		}
	}
	return json.Marshal(m)
}

func unmarshalRowMajor(data []byte, rows, cols int) ([][]float32, error) {
	var m map[string]float32
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	out := make([][]float32, rows)
	for i := range out {
		out[i] = make([]float32, cols)
		for j := range out[i] {
			out[i][j] = m[fmt.Sprintf("m%d%d", i, j)]
		}
	}
	return out, nil
}

func (m Matrix) MarshalJSON() ([]byte, error) {
	rows := make([][]float32, 4)
	for i := range rows {
		rows[i] = m.M[i][:]
	}
	return marshalRowMajor(rows)
}

func (m *Matrix) UnmarshalJSON(data []byte) error {
	rows, err := unmarshalRowMajor(data, 4, 4)
	if err != nil {
		return err
	}
	for i := range rows {
		copy(m.M[i][:], rows[i])
	}
	return nil
}

func (m Matrix33) MarshalJSON() ([]byte, error) {
	rows := make([][]float32, 3)
	for i := range rows {
		rows[i] = m.M[i][:]
	}
	return marshalRowMajor(rows)
}

func (m *Matrix33) UnmarshalJSON(data []byte) error {
	rows, err := unmarshalRowMajor(data, 3, 3)
	if err != nil {
		return err
	}
	for i := range rows {
		copy(m.M[i][:], rows[i])
	}
	return nil
}

func (m Float3x3) MarshalJSON() ([]byte, error) {
	rows := make([][]float32, 3)
	for i := range rows {
		rows[i] = m.M[i][:]
	}
	return marshalRowMajor(rows)
}

func (m *Float3x3) UnmarshalJSON(data []byte) error {
	rows, err := unmarshalRowMajor(data, 3, 3)
	if err != nil {
		return err
	}
	for i := range rows {
		copy(m.M[i][:], rows[i])
	}
	return nil
}

func (m Float4x3) MarshalJSON() ([]byte, error) {
	rows := make([][]float32, 4)
	for i := range rows {
		rows[i] = m.M[i][:]
	}
	return marshalRowMajor(rows)
}

func (m *Float4x3) UnmarshalJSON(data []byte) error {
	rows, err := unmarshalRowMajor(data, 4, 3)
	if err != nil {
		return err
	}
	for i := range rows {
		copy(m.M[i][:], rows[i])
	}
	return nil
}

func (m Float4x4) MarshalJSON() ([]byte, error) {
	rows := make([][]float32, 4)
	for i := range rows {
		rows[i] = m.M[i][:]
	}
	return marshalRowMajor(rows)
}

func (m *Float4x4) UnmarshalJSON(data []byte) error {
	rows, err := unmarshalRowMajor(data, 4, 4)
	if err != nil {
		return err
	}
	for i := range rows {
		copy(m.M[i][:], rows[i])
	}
	return nil
}

func (m Float3x4) MarshalJSON() ([]byte, error) {
	rows := make([][]float32, 3)
	for i := range rows {
		rows[i] = m.M[i][:]
	}
	return marshalRowMajor(rows)
}

func (m *Float3x4) UnmarshalJSON(data []byte) error {
	rows, err := unmarshalRowMajor(data, 3, 4)
	if err != nil {
		return err
	}
	for i := range rows {
		copy(m.M[i][:], rows[i])
	}
	return nil
}

type soaVector3JSON struct {
	X [4]float32 `json:"x"`
	Y [4]float32 `json:"y"`
	Z [4]float32 `json:"z"`
}

func (v SoaVector3) MarshalJSON() ([]byte, error) {
	return json.Marshal(soaVector3JSON{
		X: [4]float32{v.X.X, v.X.Y, v.X.Z, v.X.W},
		Y: [4]float32{v.Y.X, v.Y.Y, v.Y.Z, v.Y.W},
		Z: [4]float32{v.Z.X, v.Z.Y, v.Z.Z, v.Z.W},
	})
}

func (v *SoaVector3) UnmarshalJSON(data []byte) error {
	var j soaVector3JSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	v.X = Vector4{j.X[0], j.X[1], j.X[2], j.X[3]}
	v.Y = Vector4{j.Y[0], j.Y[1], j.Y[2], j.Y[3]}
	v.Z = Vector4{j.Z[0], j.Z[1], j.Z[2], j.Z[3]}
	return nil
}
