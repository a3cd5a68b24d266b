// Package gc provides GameCube disc image (GCM) parsing functionality.
// This file contains disc layout constants and on-disc record structures.
// Reference: http://hitmen.c02.at/files/yagcd/yagcd/chap13.html#sec13
package gc

// Fixed offsets and sizes of the GCM disc layout
const (
	// Disc header (boot.bin) fields
	GameCodeOffset    = 0x00  // 4-byte game code
	MakerCodeOffset   = 0x04  // 2-byte maker code
	DiskIDOffset      = 0x06  // 1-byte disk id
	VersionOffset     = 0x07  // 1-byte version
	GameNameOffset    = 0x20  // zero-terminated game name
	GameNameMaxLength = 0x3E0 // maximum length of the game name field
	LayoutOffset      = 0x420 // DOL offset, FST offset, FST size, max FST size

	// Privileged regions synthesized into the file registry
	BootHeaderSize   = 0x440  // boot.bin covers [0, 0x440)
	DiskInfoOffset   = 0x440  // bi2.bin start
	DiskInfoSize     = 0x2000 // bi2.bin is a fixed-width region
	ApploaderOffset  = 0x2440 // apploader descriptor
	ApploaderPadding = 6      // reserved bytes between date and entry point
	ApploaderDateLen = 10     // ASCII date of the apploader build

	// Apploader code starts right after the 0x20-byte descriptor
	ApploaderCodeDelta = 0x20

	// FSTEntrySize is the fixed size of a file system table entry
	FSTEntrySize = 0xC
)

// Synthesized entry names. These regions are not listed in the FST but are
// exposed through the registry under the conventional GameCube file names.
const (
	BootFileName      = "boot.bin"   // disc header
	DiskInfoFileName  = "bi2.bin"    // disk information region
	FSTFileName       = "fst.bin"    // the file system table itself
	DOLFileName       = "start.dol"  // main executable
	ApploaderFileName = "appldr.bin" // apploader code
)

// DiscHeader holds the decoded fields of the disc header (boot.bin) plus the
// apploader descriptor. All multi-byte integers on disc are big-endian.
type DiscHeader struct {
	GameCode  [4]byte // Game code (e.g. "GALE")
	MakerCode [2]byte // Maker code (e.g. "01" for Nintendo)
	DiskID    byte    // Disk id for multi-disc games
	Version   byte    // Game revision
	GameName  string  // Zero-terminated game title

	DOLOffset  uint32 // Offset of the main executable
	DOLSize    uint32 // Derived: FSTOffset - DOLOffset
	FSTOffset  uint32 // Offset of the file system table
	FSTSize    uint32 // Size of the file system table
	MaxFSTSize uint32 // Maximum FST size (multi-disc games)

	ApploaderDate        string // ASCII build date of the apploader
	ApploaderEntryPoint  uint32 // Runtime entry point of the apploader
	ApploaderCodeSize    uint32 // Size of the apploader code region
	ApploaderTrailerSize uint32 // Size of the apploader trailer
	ApploaderCodeOffset  uint32 // Derived: ApploaderOffset + 0x20
}

// FileEntry is one entry of the file registry: a path inside the disc mapped
// to its byte range in the flat container. Entries are created once at load
// and never change afterwards; writes can never grow or shrink a file.
type FileEntry struct {
	Path   string // Path inside the disc, "/"-separated, no leading separator
	Offset uint32 // Absolute offset inside the disc image
	Size   uint32 // Size in bytes
}

// fstEntry is a raw 0xC-byte file system table entry. Entry 0 is the
// implicit root. For directories, size holds the table index one past the
// end of the subtree rather than a byte count.
type fstEntry struct {
	isDir      bool
	nameOffset uint32 // 24-bit offset into the string table
	offset     uint32 // file data offset (files) / parent index (directories)
	size       uint32 // file size (files) / exclusive subtree bound (directories)
}
