// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import "fmt"

const (
	v15PointerSize   = 8
	v15DefHeaderSize = 16
	// name_offset(8) + type(1) + attr(1) + bytes|disable(2) + pad(4) + unknown[8]uint64(64)
	v15PropRecordSize = 80
)

// v15Codec implements the 64-bit-offset schema layout, grounded on
// original_source/src/xfs/v15/arch_64.c. Unlike v16, the def header
// genuinely carries the Init bit read back off disk.
type v15Codec struct{}

func (v15Codec) MajorVersion() uint16 { return 15 }
func (v15Codec) DefHeaderSize() int   { return v15DefHeaderSize }
func (v15Codec) PointerSize() int     { return v15PointerSize }

func (v15Codec) DecodeSchema(c *Cursor, defCount int32, defSize int32) ([]Definition, error) {
	blockStart := c.Tell()
	if int64(defSize) < int64(v15PointerSize)*int64(defCount) {
		return nil, fmt.Errorf("%w: def_size %d too small for %d offsets", ErrSchemaOverflow, defSize, defCount)
	}

	offsets := make([]uint64, defCount)
	for i := range offsets {
		v, err := c.ReadU64()
		if err != nil {
			return nil, fmt.Errorf("xfs: read v15 offset table[%d]: %w", i, err)
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
		if recPos < blockStart || recPos+v15DefHeaderSize > blockStart+int64(defSize) {
			return nil, fmt.Errorf("%w: def[%d] offset %d outside schema block", ErrSchemaOverflow, i, off)
		}

		raw, err := c.ReadAt(recPos, v15DefHeaderSize)
		if err != nil {
			return nil, fmt.Errorf("xfs: read v15 def[%d] header: %w", i, err)
		}
		header := make([]byte, v15DefHeaderSize)
		copy(header, raw)

		dtiHash := leU32(header[0:4])
		packed := leU32(header[8:12])
		propCount := int(packed & 0x7FFF)
		init := packed&0x8000 != 0

		def := Definition{DtiHash: dtiHash, Init: init, RawHeader: header}

		propPos := recPos + v15DefHeaderSize
		props := make([]PropertyDef, propCount)
		for j := 0; j < propCount; j++ {
			rec, err := c.ReadAt(propPos, v15PropRecordSize)
			if err != nil {
				return nil, fmt.Errorf("xfs: read v15 def[%d] prop[%d]: %w", i, j, err)
			}
			nameOffset := leU64(rec[0:8])
			typ := Type(rec[8])
			attr := rec[9]
			bytesDisable := leU16(rec[10:12])

			name, err := c.ReadCStringAt(blockStart + int64(nameOffset))
			if err != nil {
				return nil, fmt.Errorf("xfs: read v15 def[%d] prop[%d] name: %w", i, j, err)
			}

			props[j] = PropertyDef{
				Name:    name,
				Type:    typ,
				Attr:    attr,
				Bytes:   bytesDisable & 0x7FFF,
				Disable: bytesDisable&0x8000 != 0,
			}
			propPos += v15PropRecordSize
		}
		def.Props = props
		defs[i] = def
	}

	if _, err := c.Seek(blockStart+int64(defSize), SeekStart); err != nil {
		return nil, fmt.Errorf("xfs: seek past v15 schema block: %w", err)
	}
	return defs, nil
}

func (v15Codec) DefSize(defs []Definition) int32 {
	size := int64(v15PointerSize) * int64(len(defs))
	for _, d := range defs {
		size += v15DefHeaderSize + v15PropRecordSize*int64(len(d.Props))
		for _, p := range d.Props {
			size += int64(len(p.Name)) + 1
		}
	}
	return int32(alignUp4(size))
}

func (v15Codec) EncodeSchema(defs []Definition) []byte {
	codec := v15Codec{}
	w := NewWriterSize(int(codec.DefSize(defs)))

	offsetTableSize := int64(v15PointerSize) * int64(len(defs))
	recPos := offsetTableSize
	stringPos := offsetTableSize
	for _, d := range defs {
		stringPos += v15DefHeaderSize + v15PropRecordSize*int64(len(d.Props))
	}

	for i, d := range defs {
		w.SetU64(int64(i)*v15PointerSize, uint64(recPos))

		// Padding bits come from RawHeader; dti_hash, prop_count and
		// init come from the Definition's own fields.
		header := make([]byte, v15DefHeaderSize)
		if len(d.RawHeader) == v15DefHeaderSize {
			copy(header, d.RawHeader)
		}
		packed := leU32(header[8:12])&^0xFFFF | uint32(len(d.Props))&0x7FFF
		if d.Init {
			packed |= 0x8000
		}
		putLeU32(header[0:4], d.DtiHash)
		putLeU32(header[8:12], packed)
		w.WriteAt(recPos, header)
		propPos := recPos + v15DefHeaderSize
		recPos += v15DefHeaderSize + v15PropRecordSize*int64(len(d.Props))

		for _, p := range d.Props {
			rec := make([]byte, v15PropRecordSize)
			putLeU64(rec[0:8], uint64(stringPos))
			rec[8] = byte(p.Type)
			rec[9] = p.Attr
			bd := p.Bytes & 0x7FFF
			if p.Disable {
				bd |= 0x8000
			}
			putLeU16(rec[10:12], bd)
			w.WriteAt(propPos, rec)

			name := append([]byte(p.Name), 0)
			w.WriteAt(stringPos, name)
			stringPos += int64(len(name))
			propPos += v15PropRecordSize
		}
	}

	return w.Bytes()
}
