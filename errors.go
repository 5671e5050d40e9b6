// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package xfs

import "errors"

// Sentinel errors returned by the codec. Wrap with fmt.Errorf("...: %w", err)
// at call sites that have more context (offsets, type tags, paths) to add.
var (
	// ErrInvalidMagic is returned when the 4-byte file magic does not
	// equal "XFS\0".
	ErrInvalidMagic = errors.New("xfs: invalid magic")

	// ErrUnsupportedVersion is returned when the header's major_version
	// has no registered SchemaCodec.
	ErrUnsupportedVersion = errors.New("xfs: unsupported version")

	// ErrSchemaOverflow is returned when an offset-table entry points
	// outside the schema block, or def_size is smaller than the
	// minimum the offset table alone requires.
	ErrSchemaOverflow = errors.New("xfs: schema block overflow")

	// ErrTruncatedValue is returned when a value read runs past the
	// end of the available input.
	ErrTruncatedValue = errors.New("xfs: truncated value")

	// ErrUnsupportedType marks a reserved type tag. For reserved tags
	// it is never returned as a hard error: it is collected into
	// Document.Warnings and the field decodes to its zero value, so
	// the rest of the object tree still decodes (see decodeValue).
	// For a tag that is neither reserved nor a known type, it is
	// returned as a genuine decode failure.
	ErrUnsupportedType = errors.New("xfs: unsupported type")

	// ErrJSONShape is returned when a JSON document is missing a
	// required key or has the wrong JSON type for it.
	ErrJSONShape = errors.New("xfs: malformed json shape")

	// ErrStringTooLong is returned when a STRING/CSTRING/CUSTOM value
	// exceeds its bounded maximum length without a null terminator.
	ErrStringTooLong = errors.New("xfs: string exceeds maximum length")

	// ErrClosed names the failure of a cursor operation performed
	// after Close. Cursor methods do not check for a closed cursor, so
	// none of them returns it.
	ErrClosed = errors.New("xfs: cursor closed")

	// ErrOutOfBounds is returned when a read or seek would move
	// outside the bounds of the underlying buffer or file.
	ErrOutOfBounds = errors.New("xfs: read outside boundary")
)
