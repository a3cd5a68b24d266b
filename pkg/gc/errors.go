// Package gc provides GameCube disc image (GCM) parsing functionality.
// This file defines the error values reported by the package.
package gc

import "errors"

// Errors reported by disc, file and DOL operations.
var (
	// ErrFormat is returned when fixed-layout data is truncated or
	// structurally invalid (bad FST indices, short headers).
	ErrFormat = errors.New("malformed disc image data")

	// ErrOutOfRange is returned when an offset falls outside the bounds
	// of the file region being accessed.
	ErrOutOfRange = errors.New("offset out of file bounds")

	// ErrRangeExceeded is returned when a read or write would cross the
	// end of a file region. Files inside a disc image can never change size.
	ErrRangeExceeded = errors.New("operation exceeds file bounds")

	// ErrInvalidWhence is returned when Seek is called with an unknown
	// whence value.
	ErrInvalidWhence = errors.New("invalid seek whence")

	// ErrNotFound is returned when no file entry or executable section
	// matches the requested path, offset or address.
	ErrNotFound = errors.New("not found")
)
