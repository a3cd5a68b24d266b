// Package gc provides GameCube disc image (GCM) parsing functionality.
// This file contains the DOL executable layout decoder: the section table
// mapping file offsets to runtime memory addresses, and the contiguity
// analysis over that mapping.
// Reference: http://hitmen.c02.at/files/yagcd/yagcd/chap14.html#sec14.2
package gc

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// DOL header geometry: 6 text and 10 data section slots, each slot described
// by a file offset, a memory address and a size in three parallel arrays.
const (
	dolTextSlots = 6
	dolDataSlots = 10

	dolTextOffsets   = 0x00
	dolDataOffsets   = 0x1C
	dolTextAddresses = 0x48
	dolDataAddresses = 0x64
	dolTextSizes     = 0x90
	dolDataSizes     = 0xAC
	dolBSSAddress    = 0xD8
	dolBSSSize       = 0xDC
	dolEntryPoint    = 0xE0

	// DOLBodyOffset is where section data starts, right after the header.
	DOLBodyOffset = 0x100

	dolHeaderSize = DOLBodyOffset
)

// SectionKind distinguishes text (code) sections from data sections.
type SectionKind uint8

// Section kinds of a DOL executable.
const (
	SectionText SectionKind = iota
	SectionData
)

// String returns the conventional name of the section kind.
func (k SectionKind) String() string {
	switch k {
	case SectionText:
		return "text"
	case SectionData:
		return "data"
	default:
		return fmt.Sprintf("SectionKind(%d)", k)
	}
}

// Section is one contiguous on-disk chunk of the DOL, loaded by the
// apploader to a fixed runtime memory address. Index is 0-based within the
// section's kind. Sections are immutable after decoding.
type Section struct {
	Index      int
	Kind       SectionKind
	FileOffset uint32
	MemAddress uint32
	Size       uint32

	// Positions of this section in the by-file-offset and by-memory-address
	// orderings, fixed at construction.
	fileRank int
	memRank  int
}

// EndFileOffset returns the file offset one past the section.
func (s *Section) EndFileOffset() uint32 {
	return s.FileOffset + s.Size
}

// EndMemAddress returns the memory address one past the section.
func (s *Section) EndMemAddress() uint32 {
	return s.MemAddress + s.Size
}

// ContainsFileOffset reports whether off falls inside the section's
// half-open file range.
func (s *Section) ContainsFileOffset(off uint32) bool {
	return off >= s.FileOffset && off < s.EndFileOffset()
}

// ContainsMemAddress reports whether addr falls inside the section's
// half-open memory range.
func (s *Section) ContainsMemAddress(addr uint32) bool {
	return addr >= s.MemAddress && addr < s.EndMemAddress()
}

// isBefore reports whether next starts exactly where s ends in both file
// and memory space, i.e. the two sections abut with no gap in either layout.
func (s *Section) isBefore(next *Section) bool {
	return s.EndMemAddress() == next.MemAddress && s.EndFileOffset() == next.FileOffset
}

// String formats the section for logs and listings.
func (s *Section) String() string {
	return fmt.Sprintf("%s %d - fileOffset: 0x%X, memAddress: 0x%X, size: 0x%X",
		s.Kind, s.Index, s.FileOffset, s.MemAddress, s.Size)
}

// DOL is the decoded layout of a DOL executable: the section table in its
// four orderings plus the BSS region and entry point. The apploader loads
// the executable section by section; the sections stay individually
// contiguous in memory but may be permuted and leave gaps between them.
type DOL struct {
	// TextSections and DataSections hold the decoded sections in header
	// slot order. Sections joins them, text first.
	TextSections []*Section
	DataSections []*Section
	Sections     []*Section

	// SectionsByFileOffset and SectionsByMemAddress are stable sorts of
	// Sections, computed once at decode time.
	SectionsByFileOffset []*Section
	SectionsByMemAddress []*Section

	BSSMemAddress uint32
	BSSSize       uint32
	EntryPoint    uint32
	// BodyOffset is where section data starts inside the DOL file.
	BodyOffset uint32
}

// ParseDOL decodes a DOL executable layout from its raw bytes.
//
// Each of the 16 header slots yields a section only while its file offset,
// memory address and size are all non-zero; the first empty slot of a kind
// ends that kind's section list, with no gaps tolerated.
func ParseDOL(data []byte) (*DOL, error) {
	if len(data) < dolHeaderSize {
		return nil, fmt.Errorf("DOL header needs 0x%X bytes, got 0x%X: %w",
			dolHeaderSize, len(data), ErrFormat)
	}

	d := &DOL{
		BSSMemAddress: binary.BigEndian.Uint32(data[dolBSSAddress:]),
		BSSSize:       binary.BigEndian.Uint32(data[dolBSSSize:]),
		EntryPoint:    binary.BigEndian.Uint32(data[dolEntryPoint:]),
		BodyOffset:    DOLBodyOffset,
	}

	d.TextSections = zipSections(SectionText, dolTextSlots, data, dolTextOffsets, dolTextAddresses, dolTextSizes)
	d.DataSections = zipSections(SectionData, dolDataSlots, data, dolDataOffsets, dolDataAddresses, dolDataSizes)
	d.Sections = make([]*Section, 0, len(d.TextSections)+len(d.DataSections))
	d.Sections = append(d.Sections, d.TextSections...)
	d.Sections = append(d.Sections, d.DataSections...)

	d.SectionsByFileOffset = append([]*Section(nil), d.Sections...)
	sort.SliceStable(d.SectionsByFileOffset, func(i, j int) bool {
		return d.SectionsByFileOffset[i].FileOffset < d.SectionsByFileOffset[j].FileOffset
	})
	d.SectionsByMemAddress = append([]*Section(nil), d.Sections...)
	sort.SliceStable(d.SectionsByMemAddress, func(i, j int) bool {
		return d.SectionsByMemAddress[i].MemAddress < d.SectionsByMemAddress[j].MemAddress
	})
	for i, s := range d.SectionsByFileOffset {
		s.fileRank = i
	}
	for i, s := range d.SectionsByMemAddress {
		s.memRank = i
	}

	return d, nil
}

// zipSections builds the sections of one kind from the three parallel header
// arrays, stopping at the first slot with a zero offset, address or size.
func zipSections(kind SectionKind, slots int, data []byte, offsetsAt, addressesAt, sizesAt int) []*Section {
	var sections []*Section
	for i := 0; i < slots; i++ {
		offset := binary.BigEndian.Uint32(data[offsetsAt+4*i:])
		address := binary.BigEndian.Uint32(data[addressesAt+4*i:])
		size := binary.BigEndian.Uint32(data[sizesAt+4*i:])
		if offset == 0 || address == 0 || size == 0 {
			break
		}
		sections = append(sections, &Section{
			Index:      i,
			Kind:       kind,
			FileOffset: offset,
			MemAddress: address,
			Size:       size,
		})
	}
	return sections
}

// SectionByMemAddress returns the section whose memory range contains addr.
func (d *DOL) SectionByMemAddress(addr uint32) (*Section, bool) {
	for _, s := range d.Sections {
		if s.ContainsMemAddress(addr) {
			return s, true
		}
	}
	return nil, false
}

// SectionByFileOffset returns the section whose file range contains off.
func (d *DOL) SectionByFileOffset(off uint32) (*Section, bool) {
	for _, s := range d.Sections {
		if s.ContainsFileOffset(off) {
			return s, true
		}
	}
	return nil, false
}

// FileOffsetForMemAddress maps a runtime memory address to the file offset
// of the bytes loaded there. The second result is false when no section
// covers the address.
func (d *DOL) FileOffsetForMemAddress(addr uint32) (uint32, bool) {
	s, ok := d.SectionByMemAddress(addr)
	if !ok {
		return 0, false
	}
	return s.FileOffset + (addr - s.MemAddress), true
}

// MemAddressForFileOffset maps a file offset to the runtime memory address
// its bytes are loaded to. The second result is false when no section
// covers the offset.
func (d *DOL) MemAddressForFileOffset(off uint32) (uint32, bool) {
	s, ok := d.SectionByFileOffset(off)
	if !ok {
		return 0, false
	}
	return s.MemAddress + (off - s.FileOffset), true
}

// IsContiguousByFileOffset reports whether the file range [start, end) is
// loaded to one gap-free range of memory. end is exclusive and need not be
// mapped itself.
//
// The range stays contiguous across a section boundary only when the next
// section is the same in both the file-offset and the memory-address
// ordering and starts exactly where the current one ends in both spaces.
func (d *DOL) IsContiguousByFileOffset(start, end uint32) (bool, error) {
	section, ok := d.SectionByFileOffset(start)
	if !ok {
		return false, fmt.Errorf("no section contains file offset 0x%X: %w", start, ErrNotFound)
	}
	for {
		if end <= section.EndFileOffset() {
			return true, nil
		}
		if section.fileRank+1 >= len(d.SectionsByFileOffset) ||
			section.memRank+1 >= len(d.SectionsByMemAddress) {
			return false, nil
		}
		fileNext := d.SectionsByFileOffset[section.fileRank+1]
		memNext := d.SectionsByMemAddress[section.memRank+1]
		if fileNext != memNext || !section.isBefore(fileNext) {
			return false, nil
		}
		section = fileNext
	}
}

// IsContiguousByMemAddress reports whether the memory range [start, end) is
// backed by one gap-free range of the DOL file. Both addresses are mapped to
// file offsets first; an unmapped address yields an error.
func (d *DOL) IsContiguousByMemAddress(start, end uint32) (bool, error) {
	startOff, ok := d.FileOffsetForMemAddress(start)
	if !ok {
		return false, fmt.Errorf("no section contains memory address 0x%X: %w", start, ErrNotFound)
	}
	endOff, ok := d.FileOffsetForMemAddress(end)
	if !ok {
		return false, fmt.Errorf("no section contains memory address 0x%X: %w", end, ErrNotFound)
	}
	return d.IsContiguousByFileOffset(startOff, endOff)
}
