// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import "fmt"

// classRefNullIndex is the 15-bit definition-index sentinel that,
// combined with a zero low bit, marks a class reference as null.
const classRefNullIndex = 0x7FFF

// Field is one property of an Object: its declared type, whether it
// was wire-signalled as an array, and either a single Data value or
// an array of them.
type Field struct {
	Name    string
	Type    Type
	IsArray bool
	Value   Data   // valid when !IsArray
	Array   []Data // valid when IsArray (len 0 is a valid empty array)
}

// Object is one decoded class instance: a reference to its definition
// by index and its fields in definition order.
type Object struct {
	DefID  int32
	ID     int16
	Def    *Definition
	Fields []Field
}

// decodeClassRef reads the 4-byte class reference. ok is false for the
// sentinel null pattern: low bit clear, or the 15-bit index field
// equal to 0x7FFF.
func decodeClassRef(c *Cursor) (defID int32, id int16, ok bool, err error) {
	classID, err := c.ReadS16()
	if err != nil {
		return 0, 0, false, err
	}
	id, err = c.ReadS16()
	if err != nil {
		return 0, 0, false, err
	}

	u := uint16(classID)
	index := (u >> 1) & classRefNullIndex
	valid := u&1 != 0
	if !valid || index == classRefNullIndex {
		return 0, id, false, nil
	}
	return int32(index), id, true, nil
}

// encodeClassRef writes a 4-byte class reference. A nil *Object
// encodes to the sentinel null pattern used throughout the source
// (low bit 0, index field 0x7FFF — see §9's note that a deployment
// using a different null pattern would require widening the decode
// check, not replacing it).
func encodeClassRef(w *Writer, defID int32, id int16, isNull bool) {
	var classID uint16
	if isNull {
		classID = uint16(classRefNullIndex) << 1
	} else {
		classID = (uint16(defID)&classRefNullIndex)<<1 | 1
	}
	w.WriteS16(int16(classID))
	w.WriteS16(id)
}

// decodeObject reads a class reference and, if non-null, the object
// body that follows: a size placeholder, then prop_count properties
// in definition order. On any failure it unwinds to start+size so the
// caller can resume at the next sibling, matching xfs_load_object's
// error path. majorVersion selects the object-size field width.
//
// warnings, if non-nil, accumulates one entry per reserved-type field
// encountered anywhere in this object or its nested CLASS/CLASSREF
// children — matching xfs_load_data's fprintf-and-continue: a reserved
// tag degrades only that one field to its zero value, never the whole
// object tree.
func decodeObject(c *Cursor, defs []Definition, majorVersion uint16, warnings *[]error) (*Object, error) {
	defID, id, ok, err := decodeClassRef(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if int(defID) < 0 || int(defID) >= len(defs) {
		return nil, fmt.Errorf("%w: def index %d out of range (have %d)", ErrSchemaOverflow, defID, len(defs))
	}
	def := &defs[defID]

	startPos := c.Tell()
	size, err := readObjectSize(c, majorVersion)
	if err != nil {
		return nil, err
	}

	obj, err := decodeObjectBody(c, defID, id, def, defs, majorVersion, warnings)
	if err != nil {
		// Unwind: reposition at the sibling that follows this
		// (partially-read) object regardless of how far the nested
		// decode got.
		if _, serr := c.Seek(startPos+size, SeekStart); serr != nil {
			return nil, fmt.Errorf("%w (and failed to reseek past it: %v)", err, serr)
		}
		return nil, err
	}
	return obj, nil
}

func decodeObjectBody(c *Cursor, defID int32, id int16, def *Definition, defs []Definition, majorVersion uint16, warnings *[]error) (*Object, error) {
	obj := &Object{DefID: defID, ID: id, Def: def, Fields: make([]Field, len(def.Props))}

	for i, prop := range def.Props {
		count, err := c.ReadS32()
		if err != nil {
			return nil, fmt.Errorf("xfs: field %q count: %w", prop.Name, err)
		}

		field := Field{Name: prop.Name, Type: prop.Type}
		if count == 1 {
			v, err := decodeValue(c, prop.Type, defs, majorVersion, warnings)
			if err != nil {
				return nil, fmt.Errorf("xfs: field %q: %w", prop.Name, err)
			}
			field.Value = v
		} else {
			field.IsArray = true
			n := int(count)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %q negative count", ErrTruncatedValue, prop.Name)
			}
			vals := make([]Data, n)
			for j := 0; j < n; j++ {
				v, err := decodeValue(c, prop.Type, defs, majorVersion, warnings)
				if err != nil {
					return nil, fmt.Errorf("xfs: field %q[%d]: %w", prop.Name, j, err)
				}
				vals[j] = v
			}
			field.Array = vals
		}
		obj.Fields[i] = field
	}

	return obj, nil
}

// readObjectSize reads the object-body size field: a plain u32 for
// v16, or a u32 size followed by a reserved u32 for v15 (the reserved
// word is read and discarded).
func readObjectSize(c *Cursor, majorVersion uint16) (int64, error) {
	size, err := c.ReadU32()
	if err != nil {
		return 0, fmt.Errorf("xfs: read object size: %w", err)
	}
	if majorVersion == 15 {
		if _, err := c.ReadU32(); err != nil {
			return 0, fmt.Errorf("xfs: read object size reserved word: %w", err)
		}
	}
	return int64(size), nil
}

// encodeObject writes obj's class reference and, if non-nil, its body:
// a zero size placeholder, all fields in definition order, then a
// back-patch of the size placeholder with the measured body length.
func encodeObject(w *Writer, obj *Object, codec SchemaCodec) error {
	if obj == nil {
		encodeClassRef(w, 0, 0, true)
		return nil
	}
	encodeClassRef(w, obj.DefID, obj.ID, false)

	startPos := w.Tell()
	w.WriteU32(0)
	if codec.MajorVersion() == 15 {
		w.WriteU32(0) // reserved word, never carries data
	}

	for _, f := range obj.Fields {
		if f.IsArray {
			w.WriteS32(int32(len(f.Array)))
			for _, v := range f.Array {
				if err := encodeValue(w, v, codec); err != nil {
					return fmt.Errorf("xfs: field %q: %w", f.Name, err)
				}
			}
		} else {
			w.WriteS32(1)
			if err := encodeValue(w, f.Value, codec); err != nil {
				return fmt.Errorf("xfs: field %q: %w", f.Name, err)
			}
		}
	}

	endPos := w.Tell()
	w.SetU32(startPos, uint32(endPos-startPos))
	return nil
}
