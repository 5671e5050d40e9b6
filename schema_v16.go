// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import "fmt"

const (
	v16PointerSize   = 4
	v16DefHeaderSize = 8
	// name_offset(4) + type(1) + attr(1) + bytes|disable(2) + pad[4]uint64(32)
	v16PropRecordSize = 40
)

// v16Codec implements the 32-bit-offset schema layout, grounded on
// original_source/src/xfs/v16/arch_32.c. Definitions never carry an
// Init flag on this arch — the bit the def header reserves for it on
// v15 is folded into v16's padding, so Init decodes as false always.
type v16Codec struct{}

func (v16Codec) MajorVersion() uint16 { return 16 }
func (v16Codec) DefHeaderSize() int   { return v16DefHeaderSize }
func (v16Codec) PointerSize() int     { return v16PointerSize }

func (v16Codec) DecodeSchema(c *Cursor, defCount int32, defSize int32) ([]Definition, error) {
	blockStart := c.Tell()
	if defSize < int32(v16PointerSize)*defCount {
		return nil, fmt.Errorf("%w: def_size %d too small for %d offsets", ErrSchemaOverflow, defSize, defCount)
	}

	offsets := make([]uint32, defCount)
	for i := range offsets {
		v, err := c.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("xfs: read v16 offset table[%d]: %w", i, err)
		}
		offsets[i] = v
	}

	defs := make([]Definition, defCount)
	for i, off := range offsets {
		if off == 0 {
			defs[i] = Definition{Empty: true}
			continue
		}
		recPos := blockStart + int64(off)
		if recPos < blockStart || recPos+v16DefHeaderSize > blockStart+int64(defSize) {
			return nil, fmt.Errorf("%w: def[%d] offset %d outside schema block", ErrSchemaOverflow, i, off)
		}

		raw, err := c.ReadAt(recPos, v16DefHeaderSize)
		if err != nil {
			return nil, fmt.Errorf("xfs: read v16 def[%d] header: %w", i, err)
		}
		header := make([]byte, v16DefHeaderSize)
		copy(header, raw)

		dtiHash := leU32(header[0:4])
		packed := leU32(header[4:8])
		propCount := int(packed & 0x7FFF)

		def := Definition{DtiHash: dtiHash, RawHeader: header}

		propPos := recPos + v16DefHeaderSize
		props := make([]PropertyDef, propCount)
		for j := 0; j < propCount; j++ {
			rec, err := c.ReadAt(propPos, v16PropRecordSize)
			if err != nil {
				return nil, fmt.Errorf("xfs: read v16 def[%d] prop[%d]: %w", i, j, err)
			}
			nameOffset := leU32(rec[0:4])
			typ := Type(rec[4])
			attr := rec[5]
			bytesDisable := leU16(rec[6:8])

			name, err := c.ReadCStringAt(blockStart + int64(nameOffset))
			if err != nil {
				return nil, fmt.Errorf("xfs: read v16 def[%d] prop[%d] name: %w", i, j, err)
			}

			props[j] = PropertyDef{
				Name:    name,
				Type:    typ,
				Attr:    attr,
				Bytes:   bytesDisable & 0x7FFF,
				Disable: bytesDisable&0x8000 != 0,
			}
			propPos += v16PropRecordSize
		}
		def.Props = props
		defs[i] = def
	}

	if _, err := c.Seek(blockStart+int64(defSize), SeekStart); err != nil {
		return nil, fmt.Errorf("xfs: seek past v16 schema block: %w", err)
	}
	return defs, nil
}

func (v16Codec) DefSize(defs []Definition) int32 {
	size := int64(v16PointerSize) * int64(len(defs))
	for _, d := range defs {
		size += v16DefHeaderSize + v16PropRecordSize*int64(len(d.Props))
		for _, p := range d.Props {
			size += int64(len(p.Name)) + 1
		}
	}
	return int32(alignUp4(size))
}

func (v16Codec) EncodeSchema(defs []Definition) []byte {
	codec := v16Codec{}
	w := NewWriterSize(int(codec.DefSize(defs)))

	offsetTableSize := int64(v16PointerSize) * int64(len(defs))
	recPos := offsetTableSize
	stringPos := offsetTableSize
	for _, d := range defs {
		stringPos += v16DefHeaderSize + v16PropRecordSize*int64(len(d.Props))
	}

	for i, d := range defs {
		w.SetU32(int64(i)*v16PointerSize, uint32(recPos))

		// Padding bits come from RawHeader; dti_hash and prop_count
		// come from the Definition's own fields.
		header := make([]byte, v16DefHeaderSize)
		if len(d.RawHeader) == v16DefHeaderSize {
			copy(header, d.RawHeader)
		}
		putLeU32(header[0:4], d.DtiHash)
		putLeU32(header[4:8], leU32(header[4:8])&^0x7FFF|uint32(len(d.Props))&0x7FFF)
		w.WriteAt(recPos, header)
		propPos := recPos + v16DefHeaderSize
		recPos += v16DefHeaderSize + v16PropRecordSize*int64(len(d.Props))

		for _, p := range d.Props {
			rec := make([]byte, v16PropRecordSize)
			putLeU32(rec[0:4], uint32(stringPos))
			rec[4] = byte(p.Type)
			rec[5] = p.Attr
			bd := p.Bytes & 0x7FFF
			if p.Disable {
				bd |= 0x8000
			}
			putLeU16(rec[6:8], bd)
			w.WriteAt(propPos, rec)

			name := append([]byte(p.Name), 0)
			w.WriteAt(stringPos, name)
			stringPos += int64(len(name))
			propPos += v16PropRecordSize
		}
	}

	return w.Bytes()
}
