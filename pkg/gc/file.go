// Package gc provides GameCube disc image (GCM) parsing functionality.
// This file contains the bounds-checked file view used for all reads and
// writes against a declared byte range of the disc image.
package gc

import (
	"fmt"
	"io"
	"os"
)

// Source is the backing byte container of a disc image. The core never opens
// files itself beyond wrapping a handle supplied by the caller; any type
// providing random access reads and writes plus a total size can back a Disc.
type Source interface {
	io.ReaderAt
	io.WriterAt
	Size() int64
}

// fileSource wraps *os.File to implement Source. os.File has ReadAt and
// WriteAt but not Size, so the size is cached at construction.
type fileSource struct {
	file *os.File
	size int64
}

// newFileSource creates a fileSource from an open file.
func newFileSource(f *os.File) (*fileSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	return &fileSource{file: f, size: info.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (fs *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return fs.file.ReadAt(p, off)
}

// WriteAt implements io.WriterAt.
func (fs *fileSource) WriteAt(p []byte, off int64) (int, error) {
	return fs.file.WriteAt(p, off)
}

// Size returns the total size of the disc image.
func (fs *fileSource) Size() int64 {
	return fs.size
}

// Interface compliance for fileSource.
var _ Source = (*fileSource)(nil)

// File is a bounds-checked view over one byte range of the disc image,
// with a movable cursor for sequential access. A File can never read or
// write outside its declared range; in particular a write can never change
// the size of the underlying file region.
//
// A failed read or write leaves the cursor where it was. Seeking beyond
// either bound is allowed; the subsequent read or write there fails.
type File struct {
	source Source
	offset int64 // absolute offset of the region inside the disc image
	size   int64 // extent of the region
	cursor int64
}

// newFile creates a view over the [offset, offset+size) range of source.
func newFile(source Source, offset, size int64) *File {
	return &File{source: source, offset: offset, size: size}
}

// Size returns the extent of the file region.
func (f *File) Size() int64 {
	return f.size
}

// Offset returns the absolute offset of the file region inside the disc image.
func (f *File) Offset() int64 {
	return f.offset
}

// checkOffset validates that off names a position inside the region.
func (f *File) checkOffset(off int64) error {
	if off < 0 {
		return fmt.Errorf("offset %d is negative: %w", off, ErrOutOfRange)
	}
	if off >= f.size {
		return fmt.Errorf("offset 0x%X beyond file size 0x%X: %w", off, f.size, ErrOutOfRange)
	}
	return nil
}

// ReadRange reads count bytes starting at off inside the file region,
// without touching the cursor. A negative count reads to the end of the
// region. The returned slice holds exactly the requested bytes.
func (f *File) ReadRange(off, count int64) ([]byte, error) {
	if err := f.checkOffset(off); err != nil {
		return nil, err
	}
	if count < 0 {
		count = f.size - off
	}
	// Compared against the remaining extent so a huge count cannot overflow
	if count > f.size-off {
		return nil, fmt.Errorf("read of 0x%X bytes at 0x%X crosses file end 0x%X: %w",
			count, off, f.size, ErrRangeExceeded)
	}
	buf := make([]byte, count)
	if _, err := f.source.ReadAt(buf, f.offset+off); err != nil {
		return nil, fmt.Errorf("failed to read disc image: %w", err)
	}
	return buf, nil
}

// WriteRange writes data at off inside the file region, without touching the
// cursor, and returns the number of bytes written. Writes crossing the end
// of the region fail with ErrRangeExceeded; a file can never change size.
func (f *File) WriteRange(off int64, data []byte) (int, error) {
	if err := f.checkOffset(off); err != nil {
		return 0, err
	}
	if int64(len(data)) > f.size-off {
		return 0, fmt.Errorf("write of 0x%X bytes at 0x%X crosses file end 0x%X: %w",
			len(data), off, f.size, ErrRangeExceeded)
	}
	n, err := f.source.WriteAt(data, f.offset+off)
	if err != nil {
		return n, fmt.Errorf("failed to write disc image: %w", err)
	}
	return n, nil
}

// Read reads count bytes from the current cursor position and advances the
// cursor. A negative count reads to the end of the region. On failure the
// cursor does not move.
func (f *File) Read(count int64) ([]byte, error) {
	data, err := f.ReadRange(f.cursor, count)
	if err != nil {
		return nil, err
	}
	f.cursor += int64(len(data))
	return data, nil
}

// Write writes data at the current cursor position and advances the cursor.
// On failure the cursor does not move.
func (f *File) Write(data []byte) (int, error) {
	n, err := f.WriteRange(f.cursor, data)
	if err != nil {
		return n, err
	}
	f.cursor += int64(n)
	return n, nil
}

// Seek moves the cursor according to offset and whence (io.SeekStart,
// io.SeekCurrent or io.SeekEnd) and returns the new position. Seeking
// outside the region bounds succeeds; reads and writes there fail.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.cursor = offset
	case io.SeekCurrent:
		f.cursor += offset
	case io.SeekEnd:
		f.cursor = f.size + offset
	default:
		return f.cursor, fmt.Errorf("whence %d: %w", whence, ErrInvalidWhence)
	}
	return f.cursor, nil
}

// Tell returns the current cursor position, even when it has been moved
// outside the region bounds.
func (f *File) Tell() int64 {
	return f.cursor
}
