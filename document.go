// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import (
	"fmt"
	"os"

	"github.com/mtframework/xfs2json/log"
)

// Document is a fully decoded (or programmatically built) XFS file:
// its header, its ordered schema definitions, and the root object
// tree. It owns all nested storage — see §3's ownership model — so a
// *Document is the unit of lifetime for a load/save round trip.
//
// A Document loaded from disk is immutable by convention: callers
// should treat Definitions and Root as read-only and build a new
// Document (e.g. via FromJSON) rather than mutating one in place.
type Document struct {
	Header      Header
	Definitions []Definition
	Root        *Object

	// Warnings accumulates one entry per reserved-type field tolerated
	// anywhere in the object tree (root, nested CLASS/CLASSREF
	// children, array elements). Each such field decodes to its zero
	// value; only that field degrades, not the object it belongs to
	// or the document as a whole.
	Warnings []error
}

// Options configures Load/LoadBytes/Decode, mirroring the teacher's
// pe.Options injection point (file.go's Options.Logger).
type Options struct {
	// Logger receives a Warnf call for each entry appended to
	// Document.Warnings. Nil is valid and silently drops them.
	Logger *log.Helper
}

// Load reads path as a memory-mapped file and decodes it.
func Load(path string, opts *Options) (*Document, error) {
	c, err := OpenCursor(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return Decode(c, opts)
}

// LoadBytes decodes an in-memory XFS buffer.
func LoadBytes(data []byte, opts *Options) (*Document, error) {
	return Decode(NewCursor(data), opts)
}

// Decode drives the full binary load: header, schema block, then the
// recursive root object — mirroring xfs_load's dispatch-by-version
// top-level shape.
func Decode(c *Cursor, opts *Options) (*Document, error) {
	h, err := DecodeHeader(c)
	if err != nil {
		return nil, err
	}

	codec, err := SchemaCodecFor(h.MajorVersion)
	if err != nil {
		return nil, err
	}

	defs, err := codec.DecodeSchema(c, h.DefCount, h.DefSize)
	if err != nil {
		return nil, fmt.Errorf("xfs: decode schema: %w", err)
	}

	doc := &Document{Header: h, Definitions: defs}

	var logger *log.Helper
	if opts != nil {
		logger = opts.Logger
	}

	var warnings []error
	root, err := decodeObject(c, defs, h.MajorVersion, &warnings)
	if err != nil {
		return nil, fmt.Errorf("xfs: decode root object: %w", err)
	}
	doc.Root = root

	for _, w := range warnings {
		doc.Warnings = append(doc.Warnings, w)
		logger.Warnf("xfs: tolerated decode warning: %v", w)
	}

	return doc, nil
}

// Encode serializes the document to bytes: header, schema block, then
// the recursive root object. The schema block is built first because
// property layout determines value layout (§2's data-flow note).
func (doc *Document) Encode() ([]byte, error) {
	codec, err := SchemaCodecFor(doc.Header.MajorVersion)
	if err != nil {
		return nil, err
	}

	defSize := codec.DefSize(doc.Definitions)
	h := doc.Header
	h.DefCount = int32(len(doc.Definitions))
	h.DefSize = defSize

	w := NewWriter()
	h.Encode(w)
	w.Write(codec.EncodeSchema(doc.Definitions))

	if err := encodeObject(w, doc.Root, codec); err != nil {
		return nil, fmt.Errorf("xfs: encode root object: %w", err)
	}

	return w.Bytes(), nil
}

// Save encodes the document and writes it to path.
func (doc *Document) Save(path string) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
