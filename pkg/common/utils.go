// Package common provides shared utilities for GameCube file processing.
package common

import (
	"fmt"
	"io"
)

// CString returns the zero-terminated string at the start of b. When no
// terminator is present the whole slice is returned.
func CString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// Hex formats a value the way GameCube tooling conventionally prints
// offsets and sizes.
func Hex(value uint64) string {
	return fmt.Sprintf("0x%X", value)
}

// ReadBytes reads exactly count bytes from the reader.
func ReadBytes(reader io.Reader, count int) ([]byte, error) {
	buffer := make([]byte, count)
	if _, err := io.ReadFull(reader, buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}
