// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import "fmt"

// maxStringLen and maxCustomStringLen bound the null-terminated reads
// for STRING/CSTRING and each CUSTOM entry respectively (xfs.c never
// states these as named constants, but binary_reader_read_str takes
// an explicit max on every call site and the source's call sites use
// these exact bounds).
const (
	maxStringLen       = 512
	maxCustomStringLen = 128
	maxCustomCount     = 255
)

// Data is a tagged-union value: one Go struct with a Type discriminant
// standing in for the source's xfs_value/xfs_data C unions and their
// parallel ownership bookkeeping (§9 Design Notes prefers a single sum
// type here). Geom carries the concrete geometry struct from types.go
// for every composite type; callers that already know Type from
// context type-assert it back.
type Data struct {
	Type Type

	U8   uint8
	U16  uint16
	U32  uint32
	U64  uint64
	S8   int8
	S16  int16
	S32  int32
	S64  int64
	F32  float32
	F64  float64
	Bool bool

	Str    string   // STRING, CSTRING
	Custom []string // CUSTOM

	Class *Object // CLASS, CLASSREF; nil is the sentinel null reference

	Geom any
}

func readFloats(c *Cursor, n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := c.ReadF32()
		if err != nil {
			return nil, fmt.Errorf("%w: float %d/%d", ErrTruncatedValue, i+1, n)
		}
		out[i] = v
	}
	return out, nil
}

func writeFloats(w *Writer, vals []float32) {
	for _, v := range vals {
		w.WriteF32(v)
	}
}

func readVector3(c *Cursor) (Vector3, error) {
	f, err := readFloats(c, 4)
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: f[0], Y: f[1], Z: f[2], Pad: f[3]}, nil
}

func writeVector3(w *Writer, v Vector3) { writeFloats(w, []float32{v.X, v.Y, v.Z, v.Pad}) }

func readSoaVector3(c *Cursor) (SoaVector3, error) {
	f, err := readFloats(c, 12)
	if err != nil {
		return SoaVector3{}, err
	}
	return SoaVector3{
		X: Vector4{f[0], f[1], f[2], f[3]},
		Y: Vector4{f[4], f[5], f[6], f[7]},
		Z: Vector4{f[8], f[9], f[10], f[11]},
	}, nil
}

func writeSoaVector3(w *Writer, v SoaVector3) {
	writeFloats(w, []float32{
		v.X.X, v.X.Y, v.X.Z, v.X.W,
		v.Y.X, v.Y.Y, v.Y.Z, v.Y.W,
		v.Z.X, v.Z.Y, v.Z.Z, v.Z.W,
	})
}

// decodeValue reads one scalar value (never an array — object.go's
// caller loops this per array entry) of the given type. defs and
// majorVersion are threaded through to resolve nested CLASS/CLASSREF
// children, which recurse into decodeObject using the same schema and
// size-field width as their parent document. warnings, if non-nil,
// receives one entry per reserved-type tag encountered (see the
// default case below) instead of aborting the decode.
func decodeValue(c *Cursor, t Type, defs []Definition, majorVersion uint16, warnings *[]error) (Data, error) {
	d := Data{Type: t}

	switch t {
	case TypeBool:
		v, err := c.ReadBool()
		d.Bool = v
		return d, err
	case TypeU8:
		v, err := c.ReadU8()
		d.U8 = v
		return d, err
	case TypeU16:
		v, err := c.ReadU16()
		d.U16 = v
		return d, err
	case TypeU32:
		v, err := c.ReadU32()
		d.U32 = v
		return d, err
	case TypeU64:
		v, err := c.ReadU64()
		d.U64 = v
		return d, err
	case TypeS8:
		v, err := c.ReadS8()
		d.S8 = v
		return d, err
	case TypeS16:
		v, err := c.ReadS16()
		d.S16 = v
		return d, err
	case TypeS32:
		v, err := c.ReadS32()
		d.S32 = v
		return d, err
	case TypeS64:
		v, err := c.ReadS64()
		d.S64 = v
		return d, err
	case TypeF32:
		v, err := c.ReadF32()
		d.F32 = v
		return d, err
	case TypeF64:
		v, err := c.ReadF64()
		d.F64 = v
		return d, err
	case TypeString, TypeCString:
		s, err := c.ReadCString(maxStringLen)
		d.Str = s
		return d, err
	case TypeColor:
		v, err := c.ReadU32()
		d.U32 = v
		return d, err
	case TypeTime:
		v, err := c.ReadS64()
		d.S64 = v
		return d, err
	case TypeCustom:
		return decodeCustom(c)
	case TypeClass, TypeClassRef:
		obj, err := decodeObject(c, defs, majorVersion, warnings)
		if err != nil {
			return d, err
		}
		d.Class = obj
		return d, nil

	case TypePoint:
		x, err := c.ReadS32()
		if err != nil {
			return d, err
		}
		y, err := c.ReadS32()
		d.Geom = Point{X: x, Y: y}
		return d, err
	case TypeSize:
		w, err := c.ReadS32()
		if err != nil {
			return d, err
		}
		h, err := c.ReadS32()
		d.Geom = Size{W: w, H: h}
		return d, err
	case TypeRect:
		f, err := readS32s(c, 4)
		if err != nil {
			return d, err
		}
		d.Geom = Rect{L: f[0], T: f[1], R: f[2], B: f[3]}
		return d, nil
	case TypePointF:
		f, err := readFloats(c, 2)
		if err != nil {
			return d, err
		}
		d.Geom = PointF{X: f[0], Y: f[1]}
		return d, nil
	case TypeSizeF:
		f, err := readFloats(c, 2)
		if err != nil {
			return d, err
		}
		d.Geom = SizeF{W: f[0], H: f[1]}
		return d, nil
	case TypeRectF:
		f, err := readFloats(c, 4)
		if err != nil {
			return d, err
		}
		d.Geom = RectF{L: f[0], T: f[1], R: f[2], B: f[3]}
		return d, nil
	case TypeVector2:
		f, err := readFloats(c, 2)
		if err != nil {
			return d, err
		}
		d.Geom = Vector2{X: f[0], Y: f[1]}
		return d, nil
	case TypeVector3:
		v, err := readVector3(c)
		d.Geom = v
		return d, err
	case TypeVector4:
		f, err := readFloats(c, 4)
		if err != nil {
			return d, err
		}
		d.Geom = Vector4{f[0], f[1], f[2], f[3]}
		return d, nil
	case TypeQuaternion:
		f, err := readFloats(c, 4)
		if err != nil {
			return d, err
		}
		d.Geom = Quaternion{X: f[0], Y: f[1], Z: f[2], W: f[3]}
		return d, nil
	case TypeMatrix:
		f, err := readFloats(c, 16)
		if err != nil {
			return d, err
		}
		var m Matrix
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				m.M[i][j] = f[i*4+j]
			}
		}
		d.Geom = m
		return d, nil
	case TypeMatrix33:
		f, err := readFloats(c, 9)
		if err != nil {
			return d, err
		}
		var m Matrix33
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m.M[i][j] = f[i*3+j]
			}
		}
		d.Geom = m
		return d, nil
	case TypeFloat2:
		f, err := readFloats(c, 2)
		if err != nil {
			return d, err
		}
		d.Geom = Float2{X: f[0], Y: f[1]}
		return d, nil
	case TypeFloat3:
		f, err := readFloats(c, 3)
		if err != nil {
			return d, err
		}
		d.Geom = Float3{X: f[0], Y: f[1], Z: f[2]}
		return d, nil
	case TypeFloat4:
		f, err := readFloats(c, 4)
		if err != nil {
			return d, err
		}
		d.Geom = Float4{X: f[0], Y: f[1], Z: f[2], W: f[3]}
		return d, nil
	case TypeFloat3x3:
		f, err := readFloats(c, 9)
		if err != nil {
			return d, err
		}
		var m Float3x3
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m.M[i][j] = f[i*3+j]
			}
		}
		d.Geom = m
		return d, nil
	case TypeFloat4x3:
		f, err := readFloats(c, 12)
		if err != nil {
			return d, err
		}
		var m Float4x3
		for i := 0; i < 4; i++ {
			for j := 0; j < 3; j++ {
				m.M[i][j] = f[i*3+j]
			}
		}
		d.Geom = m
		return d, nil
	case TypeFloat4x4:
		f, err := readFloats(c, 16)
		if err != nil {
			return d, err
		}
		var m Float4x4
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				m.M[i][j] = f[i*4+j]
			}
		}
		d.Geom = m
		return d, nil
	case TypeFloat3x4:
		f, err := readFloats(c, 12)
		if err != nil {
			return d, err
		}
		var m Float3x4
		for i := 0; i < 3; i++ {
			for j := 0; j < 4; j++ {
				m.M[i][j] = f[i*4+j]
			}
		}
		d.Geom = m
		return d, nil
	case TypeEaseCurve:
		f, err := readFloats(c, 2)
		if err != nil {
			return d, err
		}
		d.Geom = EaseCurve{P1: f[0], P2: f[1]}
		return d, nil
	case TypeLine:
		from, err := readVector3(c)
		if err != nil {
			return d, err
		}
		dir, err := readVector3(c)
		d.Geom = Line{From: from, Dir: dir}
		return d, err
	case TypeLineSegment:
		p0, err := readVector3(c)
		if err != nil {
			return d, err
		}
		p1, err := readVector3(c)
		d.Geom = LineSegment{P0: p0, P1: p1}
		return d, err
	case TypeRay:
		from, err := readVector3(c)
		if err != nil {
			return d, err
		}
		dir, err := readVector3(c)
		d.Geom = Ray{From: from, Dir: dir}
		return d, err
	case TypePlane:
		f, err := readFloats(c, 4)
		if err != nil {
			return d, err
		}
		d.Geom = Plane{Normal: Float3{f[0], f[1], f[2]}, Dist: f[3]}
		return d, nil
	case TypeSphere:
		f, err := readFloats(c, 4)
		if err != nil {
			return d, err
		}
		d.Geom = Sphere{Center: Float3{f[0], f[1], f[2]}, Radius: f[3]}
		return d, nil
	case TypeCapsule, TypeCylinder:
		p0, err := readVector3(c)
		if err != nil {
			return d, err
		}
		p1, err := readVector3(c)
		if err != nil {
			return d, err
		}
		f, err := readFloats(c, 4) // radius + 3-float pad
		if err != nil {
			return d, err
		}
		d.Geom = Capsule{P0: p0, P1: p1, Radius: f[0], Pad: [3]float32{f[1], f[2], f[3]}}
		return d, nil
	case TypeAABB:
		min, err := readVector3(c)
		if err != nil {
			return d, err
		}
		max, err := readVector3(c)
		d.Geom = AABB{Min: min, Max: max}
		return d, err
	case TypeOBB:
		mf, err := readFloats(c, 16)
		if err != nil {
			return d, err
		}
		var m Matrix
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				m.M[i][j] = mf[i*4+j]
			}
		}
		extent, err := readVector3(c)
		d.Geom = OBB{Transform: m, Extent: extent}
		return d, err
	case TypeTriangle:
		p0, err := readVector3(c)
		if err != nil {
			return d, err
		}
		p1, err := readVector3(c)
		if err != nil {
			return d, err
		}
		p2, err := readVector3(c)
		d.Geom = Triangle{P0: p0, P1: p1, P2: p2}
		return d, err
	case TypeCone:
		f, err := readFloats(c, 8)
		if err != nil {
			return d, err
		}
		d.Geom = Cone{
			P0: Float3{f[0], f[1], f[2]}, R0: f[3],
			P1: Float3{f[4], f[5], f[6]}, R1: f[7],
		}
		return d, nil
	case TypeTorus:
		pos, err := readVector3(c)
		if err != nil {
			return d, err
		}
		r, err := c.ReadF32()
		if err != nil {
			return d, err
		}
		axis, err := readVector3(c)
		if err != nil {
			return d, err
		}
		cr, err := c.ReadF32()
		d.Geom = Torus{Pos: pos, R: r, Axis: axis, Cr: cr}
		return d, err
	case TypeEllipsoid:
		pos, err := readVector3(c)
		if err != nil {
			return d, err
		}
		r, err := readVector3(c)
		d.Geom = Ellipsoid{Pos: pos, R: r}
		return d, err
	case TypeRange:
		s, err := c.ReadS32()
		if err != nil {
			return d, err
		}
		r, err := c.ReadU32()
		d.Geom = Range{S: s, R: r}
		return d, err
	case TypeRangeF:
		f, err := readFloats(c, 2)
		if err != nil {
			return d, err
		}
		d.Geom = RangeF{S: f[0], R: f[1]}
		return d, nil
	case TypeRangeU16:
		s, err := c.ReadU16()
		if err != nil {
			return d, err
		}
		r, err := c.ReadU16()
		d.Geom = RangeU16{S: s, R: r}
		return d, err
	case TypeHermiteCurve:
		f, err := readFloats(c, 16)
		if err != nil {
			return d, err
		}
		var hc HermiteCurve
		copy(hc.X[:], f[0:8])
		copy(hc.Y[:], f[8:16])
		d.Geom = hc
		return d, nil
	case TypeLineSegment4:
		p0, err := readSoaVector3(c)
		if err != nil {
			return d, err
		}
		p1, err := readSoaVector3(c)
		d.Geom = LineSegment4{P0: p0, P1: p1}
		return d, err
	case TypeAABB4:
		min, err := readSoaVector3(c)
		if err != nil {
			return d, err
		}
		max, err := readSoaVector3(c)
		d.Geom = AABB4{Min: min, Max: max}
		return d, err
	case TypeRect3DXZ:
		f, err := readFloats(c, 9)
		if err != nil {
			return d, err
		}
		d.Geom = Rect3DXZ{
			LT: Vector2{f[0], f[1]}, LB: Vector2{f[2], f[3]},
			RT: Vector2{f[4], f[5]}, RB: Vector2{f[6], f[7]},
			Height: f[8],
		}
		return d, nil
	case TypeRect3D:
		normal, err := readVector3(c)
		if err != nil {
			return d, err
		}
		sizeW, err := c.ReadF32()
		if err != nil {
			return d, err
		}
		center, err := readVector3(c)
		if err != nil {
			return d, err
		}
		sizeH, err := c.ReadF32()
		d.Geom = Rect3D{Normal: normal, SizeW: sizeW, Center: center, SizeH: sizeH}
		return d, err
	case TypePlaneXZ:
		v, err := c.ReadF32()
		d.Geom = PlaneXZ{Dist: v}
		return d, err
	case TypeRayY:
		f, err := readFloats(c, 4)
		if err != nil {
			return d, err
		}
		d.Geom = RayY{From: Float3{f[0], f[1], f[2]}, Dir: f[3]}
		return d, nil

	default:
		if t.IsReserved() {
			// xfs_load_data has no case for these tags: it fprintfs a
			// diagnostic and falls through, leaving the field at its
			// zero value and letting the rest of the object decode.
			if warnings != nil {
				*warnings = append(*warnings, fmt.Errorf("%w: reserved tag %s", ErrUnsupportedType, t))
			}
			return d, nil
		}
		return d, fmt.Errorf("%w: tag 0x%02X", ErrUnsupportedType, uint8(t))
	}
}

func readS32s(c *Cursor, n int) ([]int32, error) {
	out := make([]int32, n)
	for i := range out {
		v, err := c.ReadS32()
		if err != nil {
			return nil, fmt.Errorf("%w: int32 %d/%d", ErrTruncatedValue, i+1, n)
		}
		out[i] = v
	}
	return out, nil
}

func decodeCustom(c *Cursor) (Data, error) {
	d := Data{Type: TypeCustom}
	n, err := c.ReadU8()
	if err != nil {
		return d, err
	}
	vals := make([]string, n)
	for i := range vals {
		s, err := c.ReadCString(maxCustomStringLen)
		if err != nil {
			return d, fmt.Errorf("xfs: custom entry %d: %w", i, err)
		}
		vals[i] = s
	}
	d.Custom = vals
	return d, nil
}

// encodeValue writes one scalar value (never an array) using the
// corrected encodings for the source's two known writer bugs: FLOAT2
// emits both x and y (the source writes x only), and RANGE/RANGEF/
// RANGEU16 emit both fields (the source writes only the first) — see
// SPEC_FULL.md's Design Notes on source writer bugs.
func encodeValue(w *Writer, d Data, codec SchemaCodec) error {
	switch d.Type {
	case TypeBool:
		w.WriteBool(d.Bool)
	case TypeU8:
		w.WriteU8(d.U8)
	case TypeU16:
		w.WriteU16(d.U16)
	case TypeU32:
		w.WriteU32(d.U32)
	case TypeU64:
		w.WriteU64(d.U64)
	case TypeS8:
		w.WriteS8(d.S8)
	case TypeS16:
		w.WriteS16(d.S16)
	case TypeS32:
		w.WriteS32(d.S32)
	case TypeS64:
		w.WriteS64(d.S64)
	case TypeF32:
		w.WriteF32(d.F32)
	case TypeF64:
		w.WriteF64(d.F64)
	case TypeString, TypeCString:
		if len(d.Str)+1 > maxStringLen {
			return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(d.Str))
		}
		w.WriteCString(d.Str)
	case TypeColor:
		w.WriteU32(d.U32)
	case TypeTime:
		w.WriteS64(d.S64)
	case TypeCustom:
		if len(d.Custom) > maxCustomCount {
			return fmt.Errorf("%w: %d entries", ErrStringTooLong, len(d.Custom))
		}
		w.WriteU8(uint8(len(d.Custom)))
		for _, s := range d.Custom {
			if len(s)+1 > maxCustomStringLen {
				return fmt.Errorf("%w: custom entry %d bytes", ErrStringTooLong, len(s))
			}
			w.WriteCString(s)
		}
	case TypeClass, TypeClassRef:
		return encodeObject(w, d.Class, codec)

	case TypePoint:
		p := d.Geom.(Point)
		w.WriteS32(p.X)
		w.WriteS32(p.Y)
	case TypeSize:
		s := d.Geom.(Size)
		w.WriteS32(s.W)
		w.WriteS32(s.H)
	case TypeRect:
		r := d.Geom.(Rect)
		w.WriteS32(r.L)
		w.WriteS32(r.T)
		w.WriteS32(r.R)
		w.WriteS32(r.B)
	case TypePointF:
		p := d.Geom.(PointF)
		writeFloats(w, []float32{p.X, p.Y})
	case TypeSizeF:
		s := d.Geom.(SizeF)
		writeFloats(w, []float32{s.W, s.H})
	case TypeRectF:
		r := d.Geom.(RectF)
		writeFloats(w, []float32{r.L, r.T, r.R, r.B})
	case TypeVector2:
		v := d.Geom.(Vector2)
		writeFloats(w, []float32{v.X, v.Y})
	case TypeVector3:
		writeVector3(w, d.Geom.(Vector3))
	case TypeVector4:
		v := d.Geom.(Vector4)
		writeFloats(w, []float32{v.X, v.Y, v.Z, v.W})
	case TypeQuaternion:
		q := d.Geom.(Quaternion)
		writeFloats(w, []float32{q.X, q.Y, q.Z, q.W})
	case TypeMatrix:
		m := d.Geom.(Matrix)
		for i := 0; i < 4; i++ {
			writeFloats(w, m.M[i][:])
		}
	case TypeMatrix33:
		m := d.Geom.(Matrix33)
		for i := 0; i < 3; i++ {
			writeFloats(w, m.M[i][:])
		}
	case TypeFloat2:
		f := d.Geom.(Float2)
		writeFloats(w, []float32{f.X, f.Y})
	case TypeFloat3:
		f := d.Geom.(Float3)
		writeFloats(w, []float32{f.X, f.Y, f.Z})
	case TypeFloat4:
		f := d.Geom.(Float4)
		writeFloats(w, []float32{f.X, f.Y, f.Z, f.W})
	case TypeFloat3x3:
		m := d.Geom.(Float3x3)
		for i := 0; i < 3; i++ {
			writeFloats(w, m.M[i][:])
		}
	case TypeFloat4x3:
		m := d.Geom.(Float4x3)
		for i := 0; i < 4; i++ {
			writeFloats(w, m.M[i][:])
		}
	case TypeFloat4x4:
		m := d.Geom.(Float4x4)
		for i := 0; i < 4; i++ {
			writeFloats(w, m.M[i][:])
		}
	case TypeFloat3x4:
		m := d.Geom.(Float3x4)
		for i := 0; i < 3; i++ {
			writeFloats(w, m.M[i][:])
		}
	case TypeEaseCurve:
		e := d.Geom.(EaseCurve)
		writeFloats(w, []float32{e.P1, e.P2})
	case TypeLine:
		l := d.Geom.(Line)
		writeVector3(w, l.From)
		writeVector3(w, l.Dir)
	case TypeLineSegment:
		l := d.Geom.(LineSegment)
		writeVector3(w, l.P0)
		writeVector3(w, l.P1)
	case TypeRay:
		r := d.Geom.(Ray)
		writeVector3(w, r.From)
		writeVector3(w, r.Dir)
	case TypePlane:
		p := d.Geom.(Plane)
		writeFloats(w, []float32{p.Normal.X, p.Normal.Y, p.Normal.Z, p.Dist})
	case TypeSphere:
		s := d.Geom.(Sphere)
		writeFloats(w, []float32{s.Center.X, s.Center.Y, s.Center.Z, s.Radius})
	case TypeCapsule, TypeCylinder:
		c := d.Geom.(Capsule)
		writeVector3(w, c.P0)
		writeVector3(w, c.P1)
		writeFloats(w, append([]float32{c.Radius}, c.Pad[:]...))
	case TypeAABB:
		a := d.Geom.(AABB)
		writeVector3(w, a.Min)
		writeVector3(w, a.Max)
	case TypeOBB:
		o := d.Geom.(OBB)
		for i := 0; i < 4; i++ {
			writeFloats(w, o.Transform.M[i][:])
		}
		writeVector3(w, o.Extent)
	case TypeTriangle:
		t := d.Geom.(Triangle)
		writeVector3(w, t.P0)
		writeVector3(w, t.P1)
		writeVector3(w, t.P2)
	case TypeCone:
		c := d.Geom.(Cone)
		writeFloats(w, []float32{c.P0.X, c.P0.Y, c.P0.Z, c.R0, c.P1.X, c.P1.Y, c.P1.Z, c.R1})
	case TypeTorus:
		t := d.Geom.(Torus)
		writeVector3(w, t.Pos)
		w.WriteF32(t.R)
		writeVector3(w, t.Axis)
		w.WriteF32(t.Cr)
	case TypeEllipsoid:
		e := d.Geom.(Ellipsoid)
		writeVector3(w, e.Pos)
		writeVector3(w, e.R)
	case TypeRange:
		r := d.Geom.(Range)
		w.WriteS32(r.S)
		w.WriteU32(r.R)
	case TypeRangeF:
		r := d.Geom.(RangeF)
		writeFloats(w, []float32{r.S, r.R})
	case TypeRangeU16:
		r := d.Geom.(RangeU16)
		w.WriteU16(r.S)
		w.WriteU16(r.R)
	case TypeHermiteCurve:
		hc := d.Geom.(HermiteCurve)
		writeFloats(w, hc.X[:])
		writeFloats(w, hc.Y[:])
	case TypeLineSegment4:
		l := d.Geom.(LineSegment4)
		writeSoaVector3(w, l.P0)
		writeSoaVector3(w, l.P1)
	case TypeAABB4:
		a := d.Geom.(AABB4)
		writeSoaVector3(w, a.Min)
		writeSoaVector3(w, a.Max)
	case TypeRect3DXZ:
		r := d.Geom.(Rect3DXZ)
		writeFloats(w, []float32{r.LT.X, r.LT.Y, r.LB.X, r.LB.Y, r.RT.X, r.RT.Y, r.RB.X, r.RB.Y, r.Height})
	case TypeRect3D:
		r := d.Geom.(Rect3D)
		writeVector3(w, r.Normal)
		w.WriteF32(r.SizeW)
		writeVector3(w, r.Center)
		w.WriteF32(r.SizeH)
	case TypePlaneXZ:
		p := d.Geom.(PlaneXZ)
		w.WriteF32(p.Dist)
	case TypeRayY:
		r := d.Geom.(RayY)
		writeFloats(w, []float32{r.From.X, r.From.Y, r.From.Z, r.Dir})

	default:
		if d.Type.IsReserved() {
			// xfs_save_data writes nothing for these tags; mirror that
			// here rather than failing the whole encode.
			return nil
		}
		return fmt.Errorf("%w: tag 0x%02X", ErrUnsupportedType, uint8(d.Type))
	}
	return nil
}
