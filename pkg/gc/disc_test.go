package gc

import (
	"encoding/binary"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDOLOffset = 0x2600
	testFSTOffset = 0x3000
)

// putFSTEntry encodes one raw table entry at index i of fst.
func putFSTEntry(fst []byte, i int, isDir bool, nameOffset, offset, size uint32) {
	raw := fst[i*FSTEntrySize:]
	binary.BigEndian.PutUint32(raw[0:], nameOffset&0x00FFFFFF)
	if isDir {
		raw[0] = 1
	}
	binary.BigEndian.PutUint32(raw[4:], offset)
	binary.BigEndian.PutUint32(raw[8:], size)
}

// buildTestImage assembles a minimal disc image: header, apploader
// descriptor and the given FST, plus recognizable file data.
func buildTestImage(fst []byte) []byte {
	img := make([]byte, 0x5000)

	copy(img[GameCodeOffset:], "GALE")
	copy(img[MakerCodeOffset:], "01")
	img[DiskIDOffset] = 0
	img[VersionOffset] = 2
	copy(img[GameNameOffset:], "Super Smash Bros Melee\x00")

	binary.BigEndian.PutUint32(img[LayoutOffset:], testDOLOffset)
	binary.BigEndian.PutUint32(img[LayoutOffset+4:], testFSTOffset)
	binary.BigEndian.PutUint32(img[LayoutOffset+8:], uint32(len(fst)))
	binary.BigEndian.PutUint32(img[LayoutOffset+12:], uint32(len(fst)))

	copy(img[ApploaderOffset:], "2001/12/17")
	binary.BigEndian.PutUint32(img[ApploaderOffset+ApploaderDateLen+ApploaderPadding:], 0x81200000)
	binary.BigEndian.PutUint32(img[ApploaderOffset+ApploaderDateLen+ApploaderPadding+4:], 0x100)
	binary.BigEndian.PutUint32(img[ApploaderOffset+ApploaderDateLen+ApploaderPadding+8:], 0x20)

	copy(img[testFSTOffset:], fst)

	// File data referenced by the test FSTs
	copy(img[0x4000:], "ONE.SSM.")
	copy(img[0x4100:], "TWO.SSM.")
	copy(img[0x4200:], "BANNERDATA")
	return img
}

// buildTestFST encodes a small nested tree:
//
//	audio/
//	  one.ssm
//	  us/
//	    two.ssm
//	opening.bnr
//	item.dat
func buildTestFST() []byte {
	names := []byte("audio\x00one.ssm\x00us\x00two.ssm\x00opening.bnr\x00item.dat\x00")
	fst := make([]byte, 7*FSTEntrySize+len(names))

	putFSTEntry(fst, 0, true, 0, 0, 7)
	putFSTEntry(fst, 1, true, 0, 0, 5)        // audio, subtree ends at entry 5
	putFSTEntry(fst, 2, false, 6, 0x4000, 8)  // one.ssm
	putFSTEntry(fst, 3, true, 14, 1, 5)       // us, subtree ends at entry 5
	putFSTEntry(fst, 4, false, 17, 0x4100, 8) // two.ssm
	putFSTEntry(fst, 5, false, 25, 0x4200, 10)
	putFSTEntry(fst, 6, false, 37, 0x4300, 4)
	copy(fst[7*FSTEntrySize:], names)
	return fst
}

func openTestDisc(t *testing.T) *Disc {
	t.Helper()
	disc, err := NewDisc(&memSource{data: buildTestImage(buildTestFST())})
	require.NoError(t, err)
	return disc
}

func TestDiscHeader(t *testing.T) {
	disc := openTestDisc(t)

	h := disc.Header
	assert.Equal(t, "GALE", string(h.GameCode[:]))
	assert.Equal(t, "01", string(h.MakerCode[:]))
	assert.Equal(t, byte(0), h.DiskID)
	assert.Equal(t, byte(2), h.Version)
	assert.Equal(t, "Super Smash Bros Melee", h.GameName)

	assert.Equal(t, uint32(testDOLOffset), h.DOLOffset)
	assert.Equal(t, uint32(testFSTOffset), h.FSTOffset)
	assert.Equal(t, uint32(testFSTOffset-testDOLOffset), h.DOLSize)

	assert.Equal(t, "2001/12/17", h.ApploaderDate)
	assert.Equal(t, uint32(0x81200000), h.ApploaderEntryPoint)
	assert.Equal(t, uint32(0x100), h.ApploaderCodeSize)
	assert.Equal(t, uint32(0x20), h.ApploaderTrailerSize)
	assert.Equal(t, uint32(ApploaderOffset+ApploaderCodeDelta), h.ApploaderCodeOffset)
}

func TestDiscRegistryOrder(t *testing.T) {
	disc := openTestDisc(t)

	var paths []string
	for e := range disc.Entries() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{
		"boot.bin", "bi2.bin", "fst.bin", "start.dol", "appldr.bin",
		"audio/one.ssm", "audio/us/two.ssm", "opening.bnr", "item.dat",
	}, paths)
	assert.Equal(t, 9, disc.Len())
	assert.Equal(t, uint32(7), disc.NumFSTEntries)
	assert.Equal(t, uint32(testFSTOffset+7*FSTEntrySize), disc.StringTableOffset)
}

func TestDiscPrivilegedEntries(t *testing.T) {
	disc := openTestDisc(t)

	testCases := []struct {
		path   string
		offset uint32
		size   uint32
	}{
		{"boot.bin", 0, BootHeaderSize},
		{"bi2.bin", DiskInfoOffset, DiskInfoSize},
		{"fst.bin", testFSTOffset, uint32(len(buildTestFST()))},
		{"start.dol", testDOLOffset, testFSTOffset - testDOLOffset},
		{"appldr.bin", ApploaderOffset + ApploaderCodeDelta, 0x100},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			entry, err := disc.Entry(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.offset, entry.Offset)
			assert.Equal(t, tc.size, entry.Size)
		})
	}
}

func TestDiscEntryNotFound(t *testing.T) {
	disc := openTestDisc(t)

	_, err := disc.Entry("missing.dat")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = disc.Open("audio")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiscIsFileIsDir(t *testing.T) {
	disc := openTestDisc(t)

	assert.True(t, disc.IsFile("audio/one.ssm"))
	assert.True(t, disc.IsFile("boot.bin"))
	assert.False(t, disc.IsFile("audio"))
	assert.False(t, disc.IsFile("missing.dat"))

	assert.True(t, disc.IsDir(""))
	assert.True(t, disc.IsDir("/"))
	assert.True(t, disc.IsDir("audio"))
	assert.True(t, disc.IsDir("audio/"))
	assert.True(t, disc.IsDir("/audio/us"))
	assert.False(t, disc.IsDir("audio/one.ssm"))
	assert.False(t, disc.IsDir("missing"))
}

func TestDiscListDir(t *testing.T) {
	disc := openTestDisc(t)

	assert.Equal(t, []string{"one.ssm", "us/two.ssm"},
		slices.Collect(disc.ListDir("audio")))
	assert.Equal(t, []string{"two.ssm"},
		slices.Collect(disc.ListDir("/audio/us/")))

	root := slices.Collect(disc.ListDir("/"))
	assert.Len(t, root, 9)
	assert.Equal(t, "boot.bin", root[0])
}

func TestDiscOpenReadWrite(t *testing.T) {
	disc := openTestDisc(t)

	f, err := disc.Open("audio/one.ssm")
	require.NoError(t, err)
	assert.Equal(t, int64(0x4000), f.Offset())
	assert.Equal(t, int64(8), f.Size())

	data, err := disc.ReadFile("audio/one.ssm", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("ONE.SSM."), data)

	data, err = disc.ReadFile("audio/us/two.ssm", 4, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("SSM"), data)

	n, err := disc.WriteFile("opening.bnr", 6, []byte("XY"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	data, err = disc.ReadFile("opening.bnr", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("BANNERXYTA"), data)

	// Writes are clamped to the file extent
	_, err = disc.WriteFile("opening.bnr", 8, []byte("OVERFLOW"))
	assert.ErrorIs(t, err, ErrRangeExceeded)
}

func TestDiscFileOffsetSize(t *testing.T) {
	disc := openTestDisc(t)

	off, err := disc.FileOffset("item.dat")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x4300), off)

	size, err := disc.FileSize("item.dat")
	require.NoError(t, err)
	assert.Equal(t, uint32(4), size)

	_, err = disc.FileOffset("missing.dat")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiscDuplicatePathLastWins(t *testing.T) {
	// Two root files with the same name; the later offsets win while the
	// entry keeps its original position.
	names := []byte("twin.dat\x00")
	fst := make([]byte, 3*FSTEntrySize+len(names))
	putFSTEntry(fst, 0, true, 0, 0, 3)
	putFSTEntry(fst, 1, false, 0, 0x4000, 8)
	putFSTEntry(fst, 2, false, 0, 0x4100, 4)
	copy(fst[3*FSTEntrySize:], names)

	disc, err := NewDisc(&memSource{data: buildTestImage(fst)})
	require.NoError(t, err)

	assert.Equal(t, 6, disc.Len())
	entry, err := disc.Entry("twin.dat")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x4100), entry.Offset)
	assert.Equal(t, uint32(4), entry.Size)

	var paths []string
	for e := range disc.Entries() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, "twin.dat", paths[5])
}

func TestDiscMalformedFST(t *testing.T) {
	testCases := []struct {
		name string
		fst  []byte
	}{
		{
			"directory bound beyond table",
			func() []byte {
				names := []byte("dir\x00")
				fst := make([]byte, 2*FSTEntrySize+len(names))
				putFSTEntry(fst, 0, true, 0, 0, 2)
				putFSTEntry(fst, 1, true, 0, 0, 99)
				copy(fst[2*FSTEntrySize:], names)
				return fst
			}(),
		},
		{
			"unterminated name",
			func() []byte {
				fst := make([]byte, 2*FSTEntrySize+4)
				putFSTEntry(fst, 0, true, 0, 0, 2)
				putFSTEntry(fst, 1, false, 0, 0x4000, 8)
				copy(fst[2*FSTEntrySize:], "name")
				return fst
			}(),
		},
		{
			"name offset beyond string table",
			func() []byte {
				names := []byte("a\x00")
				fst := make([]byte, 2*FSTEntrySize+len(names))
				putFSTEntry(fst, 0, true, 0, 0, 2)
				putFSTEntry(fst, 1, false, 0x100, 0x4000, 8)
				copy(fst[2*FSTEntrySize:], names)
				return fst
			}(),
		},
		{
			"entry count beyond table size",
			func() []byte {
				fst := make([]byte, FSTEntrySize)
				putFSTEntry(fst, 0, true, 0, 0, 50)
				return fst
			}(),
		},
		{
			"table below a single entry",
			make([]byte, FSTEntrySize-1),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDisc(&memSource{data: buildTestImage(tc.fst)})
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestDiscTruncatedImage(t *testing.T) {
	_, err := NewDisc(&memSource{data: make([]byte, 0x100)})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDiscCloseNoOwner(t *testing.T) {
	disc := openTestDisc(t)
	assert.NoError(t, disc.Close())
}
