// Package gc provides GameCube disc image (GCM) parsing functionality.
// This file contains the disc layout decoder and the file system table
// registry exposing the virtual filesystem view over the disc image.
package gc

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/hansbonini/gcmtools/pkg/common"
)

// Disc is the decoded view of a GameCube disc image: the disc header plus an
// ordered registry mapping every path inside the image to its byte range.
//
// The registry always contains five synthesized entries for the privileged
// regions (boot.bin, bi2.bin, fst.bin, start.dol, appldr.bin) followed by
// every file decoded from the FST, in pre-order traversal order. Decoded
// metadata is immutable after Open; only the raw bytes of the underlying
// image can be modified, and never in a way that changes a file's extent.
//
// A malformed FST can name the same path twice; the last entry wins,
// keeping the position of the first occurrence.
type Disc struct {
	Header DiscHeader

	// NumFSTEntries is the total number of file system table entries,
	// read from the root entry's length field.
	NumFSTEntries uint32
	// StringTableOffset is the absolute offset of the FST string table.
	StringTableOffset uint32

	source  Source
	closer  io.Closer
	entries []FileEntry
	index   map[string]int
}

// OpenDisc opens the disc image at path for reading and writing and decodes
// its layout. The caller must Close the returned disc.
func OpenDisc(path string) (*Disc, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open disc image: %w", err)
	}
	source, err := newFileSource(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	disc, err := NewDisc(source)
	if err != nil {
		file.Close()
		return nil, err
	}
	disc.closer = file
	return disc, nil
}

// NewDisc decodes the disc layout from an already open source. The source
// stays owned by the caller; Close on the returned disc is a no-op.
func NewDisc(source Source) (*Disc, error) {
	d := &Disc{
		source: source,
		index:  make(map[string]int),
	}
	if err := d.readHeader(); err != nil {
		return nil, err
	}
	if err := d.readFST(); err != nil {
		return nil, err
	}
	common.LogDebug(common.DebugDiscLoaded, string(d.Header.GameCode[:]), len(d.entries))
	return d, nil
}

// Close releases the underlying disc image when it was opened by OpenDisc.
func (d *Disc) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// readAt reads exactly len(buf) bytes at off, mapping short reads to ErrFormat.
func (d *Disc) readAt(buf []byte, off int64) error {
	if _, err := d.source.ReadAt(buf, off); err != nil {
		return fmt.Errorf("truncated disc image at offset 0x%X: %w", off, ErrFormat)
	}
	return nil
}

// readHeader decodes the fixed-offset disc header fields and synthesizes the
// privileged region entries.
func (d *Disc) readHeader() error {
	header := make([]byte, BootHeaderSize)
	if err := d.readAt(header, 0); err != nil {
		return err
	}

	h := &d.Header
	copy(h.GameCode[:], header[GameCodeOffset:GameCodeOffset+4])
	copy(h.MakerCode[:], header[MakerCodeOffset:MakerCodeOffset+2])
	h.DiskID = header[DiskIDOffset]
	h.Version = header[VersionOffset]
	h.GameName = common.CString(header[GameNameOffset : GameNameOffset+GameNameMaxLength])

	h.DOLOffset = binary.BigEndian.Uint32(header[LayoutOffset:])
	h.FSTOffset = binary.BigEndian.Uint32(header[LayoutOffset+4:])
	h.FSTSize = binary.BigEndian.Uint32(header[LayoutOffset+8:])
	h.MaxFSTSize = binary.BigEndian.Uint32(header[LayoutOffset+12:])
	// The main executable sits immediately before the FST
	h.DOLSize = h.FSTOffset - h.DOLOffset

	apploader := make([]byte, ApploaderDateLen+ApploaderPadding+12)
	if err := d.readAt(apploader, ApploaderOffset); err != nil {
		return err
	}
	h.ApploaderDate = common.CString(apploader[:ApploaderDateLen])
	h.ApploaderEntryPoint = binary.BigEndian.Uint32(apploader[ApploaderDateLen+ApploaderPadding:])
	h.ApploaderCodeSize = binary.BigEndian.Uint32(apploader[ApploaderDateLen+ApploaderPadding+4:])
	h.ApploaderTrailerSize = binary.BigEndian.Uint32(apploader[ApploaderDateLen+ApploaderPadding+8:])
	h.ApploaderCodeOffset = ApploaderOffset + ApploaderCodeDelta

	d.addEntry(BootFileName, 0, BootHeaderSize)
	d.addEntry(DiskInfoFileName, DiskInfoOffset, DiskInfoSize)
	d.addEntry(FSTFileName, h.FSTOffset, h.FSTSize)
	d.addEntry(DOLFileName, h.DOLOffset, h.DOLSize)
	d.addEntry(ApploaderFileName, h.ApploaderCodeOffset, h.ApploaderCodeSize)

	return nil
}

// dirFrame is one pending directory during FST traversal: the exclusive
// table-index bound of its subtree plus the accumulated path prefix.
type dirFrame struct {
	end    uint32
	prefix string
}

// readFST decodes the file system table into the registry. The table is a
// flat pre-order encoding: entry 0 is the implicit root and each directory
// entry carries the table index one past its subtree, so a single forward
// scan with an explicit stack of open directories visits every entry once.
func (d *Disc) readFST() error {
	if d.Header.FSTSize < FSTEntrySize {
		return fmt.Errorf("FST size 0x%X below a single entry: %w", d.Header.FSTSize, ErrFormat)
	}
	fst := make([]byte, d.Header.FSTSize)
	if err := d.readAt(fst, int64(d.Header.FSTOffset)); err != nil {
		return err
	}

	// The root entry's length field holds the total entry count
	d.NumFSTEntries = binary.BigEndian.Uint32(fst[8:])
	stringTable := d.NumFSTEntries * FSTEntrySize
	if uint64(d.NumFSTEntries)*FSTEntrySize > uint64(len(fst)) {
		return fmt.Errorf("FST declares %d entries beyond its 0x%X bytes: %w",
			d.NumFSTEntries, len(fst), ErrFormat)
	}
	d.StringTableOffset = d.Header.FSTOffset + stringTable

	stack := []dirFrame{{end: d.NumFSTEntries, prefix: ""}}
	for i := uint32(1); i < d.NumFSTEntries; i++ {
		for len(stack) > 1 && i >= stack[len(stack)-1].end {
			stack = stack[:len(stack)-1]
		}

		entry := decodeFSTEntry(fst[i*FSTEntrySize:])
		name, err := fstString(fst, stringTable, entry.nameOffset)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}

		prefix := stack[len(stack)-1].prefix
		if entry.isDir {
			if entry.size > d.NumFSTEntries {
				return fmt.Errorf("directory %q ends at entry %d of %d: %w",
					name, entry.size, d.NumFSTEntries, ErrFormat)
			}
			stack = append(stack, dirFrame{end: entry.size, prefix: prefix + name + "/"})
			continue
		}
		d.addEntry(strings.TrimPrefix(prefix+name, "/"), entry.offset, entry.size)
	}

	return nil
}

// decodeFSTEntry decodes one raw 0xC-byte table entry. The name offset is a
// 24-bit big-endian value sharing its first byte with the directory flag.
func decodeFSTEntry(raw []byte) fstEntry {
	return fstEntry{
		isDir:      raw[0] != 0,
		nameOffset: binary.BigEndian.Uint32(raw[0:4]) & 0x00FFFFFF,
		offset:     binary.BigEndian.Uint32(raw[4:8]),
		size:       binary.BigEndian.Uint32(raw[8:12]),
	}
}

// fstString reads the zero-terminated name at nameOffset inside the string
// table, which occupies the remainder of the FST region.
func fstString(fst []byte, stringTable, nameOffset uint32) (string, error) {
	start := uint64(stringTable) + uint64(nameOffset)
	if start >= uint64(len(fst)) {
		return "", fmt.Errorf("name offset 0x%X beyond string table: %w", nameOffset, ErrFormat)
	}
	end := start
	for end < uint64(len(fst)) && fst[end] != 0 {
		end++
	}
	if end == uint64(len(fst)) {
		return "", fmt.Errorf("unterminated name at offset 0x%X: %w", nameOffset, ErrFormat)
	}
	return string(fst[start:end]), nil
}

// addEntry records a path in the registry. Duplicate paths overwrite the
// earlier entry in place, preserving its position in the registry order.
func (d *Disc) addEntry(path string, offset, size uint32) {
	if i, ok := d.index[path]; ok {
		d.entries[i] = FileEntry{Path: path, Offset: offset, Size: size}
		return
	}
	d.index[path] = len(d.entries)
	d.entries = append(d.entries, FileEntry{Path: path, Offset: offset, Size: size})
}

// Entry returns the registry entry for path.
func (d *Disc) Entry(path string) (FileEntry, error) {
	i, ok := d.index[path]
	if !ok {
		return FileEntry{}, fmt.Errorf("no file %q in disc image: %w", path, ErrNotFound)
	}
	return d.entries[i], nil
}

// Entries returns an iterator over all registry entries in traversal order.
func (d *Disc) Entries() iter.Seq[FileEntry] {
	return func(yield func(FileEntry) bool) {
		for _, e := range d.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of registry entries.
func (d *Disc) Len() int {
	return len(d.entries)
}

// IsFile reports whether path names a file inside the disc image.
func (d *Disc) IsFile(path string) bool {
	_, ok := d.index[path]
	return ok
}

// IsDir reports whether path names a directory inside the disc image, i.e.
// whether any registered file lives below it. The root ("" or "/") is a
// directory on any non-empty disc.
func (d *Disc) IsDir(path string) bool {
	prefix := dirPrefix(path)
	if prefix == "" {
		return len(d.entries) > 0
	}
	for _, e := range d.entries {
		if strings.HasPrefix(e.Path, prefix) {
			return true
		}
	}
	return false
}

// ListDir returns an iterator over all files below path (including files in
// subdirectories, not including directories themselves) in registry order.
// The yielded paths are relative to the directory being listed.
func (d *Disc) ListDir(path string) iter.Seq[string] {
	prefix := dirPrefix(path)
	return func(yield func(string) bool) {
		for _, e := range d.entries {
			if strings.HasPrefix(e.Path, prefix) {
				if !yield(e.Path[len(prefix):]) {
					return
				}
			}
		}
	}
}

// dirPrefix normalizes a directory path to the prefix its files share:
// a single trailing separator, no leading separator, "" for the root.
func dirPrefix(path string) string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return ""
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

// Open returns a bounds-checked view over the byte range of the file at path.
func (d *Disc) Open(path string) (*File, error) {
	entry, err := d.Entry(path)
	if err != nil {
		return nil, err
	}
	return newFile(d.source, int64(entry.Offset), int64(entry.Size)), nil
}

// FileOffset returns the absolute offset of the file at path inside the
// disc image.
func (d *Disc) FileOffset(path string) (uint32, error) {
	entry, err := d.Entry(path)
	if err != nil {
		return 0, err
	}
	return entry.Offset, nil
}

// FileSize returns the size of the file at path.
func (d *Disc) FileSize(path string) (uint32, error) {
	entry, err := d.Entry(path)
	if err != nil {
		return 0, err
	}
	return entry.Size, nil
}

// ReadFile reads count bytes at offset inside the file at path. A negative
// count reads to the end of the file.
func (d *Disc) ReadFile(path string, offset, count int64) ([]byte, error) {
	f, err := d.Open(path)
	if err != nil {
		return nil, err
	}
	return f.ReadRange(offset, count)
}

// WriteFile writes data at offset inside the file at path and returns the
// number of bytes written. The write may never cross the end of the file.
func (d *Disc) WriteFile(path string, offset int64, data []byte) (int, error) {
	f, err := d.Open(path)
	if err != nil {
		return 0, err
	}
	return f.WriteRange(offset, data)
}

// DOL reads and decodes the main executable of the disc.
func (d *Disc) DOL() (*DOL, error) {
	data, err := d.ReadFile(DOLFileName, 0, -1)
	if err != nil {
		return nil, err
	}
	return ParseDOL(data)
}

// Banner reads and decodes the banner file at path (usually "opening.bnr").
func (d *Disc) Banner(path string) (*Banner, error) {
	data, err := d.ReadFile(path, 0, -1)
	if err != nil {
		return nil, err
	}
	return ParseBanner(data)
}
