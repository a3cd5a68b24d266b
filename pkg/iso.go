// Package pkg provides functionality for processing GameCube disc images.
// This file contains the ISO processor handling inspection, extraction and
// patching of disc images through the virtual filesystem view.
package pkg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gc"
)

// extractChunkSize is the buffer size used when streaming files out of a
// disc image.
const extractChunkSize = 1 << 20

// ISOProcessor handles disc image operations (info/list/read/write/dump)
type ISOProcessor struct{}

// NewISOProcessor creates a new ISO processor instance
func NewISOProcessor() *ISOProcessor {
	return &ISOProcessor{}
}

// Info prints the disc header fields. When yamlOutput is non-empty the same
// information is also written there as YAML.
func (p *ISOProcessor) Info(inputFile string, yamlOutput string) error {
	disc, err := gc.OpenDisc(inputFile)
	if err != nil {
		return common.FormatError(common.ErrFailedToOpenDisc, err)
	}
	defer disc.Close()

	h := disc.Header
	fmt.Printf("Game Code: %s\n", string(h.GameCode[:]))
	fmt.Printf("Maker Code: %s\n", string(h.MakerCode[:]))
	fmt.Printf("Disk Id: %d\n", h.DiskID)
	fmt.Printf("Version: %d\n", h.Version)
	fmt.Printf("Game Name: %s\n", h.GameName)
	fmt.Println()
	fmt.Printf("DOL offset: %s\n", common.Hex(uint64(h.DOLOffset)))
	fmt.Printf("DOL size: %s\n", common.Hex(uint64(h.DOLSize)))
	fmt.Printf("FST offset: %s\n", common.Hex(uint64(h.FSTOffset)))
	fmt.Printf("FST size: %s\n", common.Hex(uint64(h.FSTSize)))
	fmt.Printf("Max FST size: %s\n", common.Hex(uint64(h.MaxFSTSize)))
	fmt.Printf("FST entries: %d\n", disc.NumFSTEntries)
	fmt.Println()
	fmt.Printf("Apploader Date: %s\n", h.ApploaderDate)
	fmt.Printf("Apploader Entry Point: %s\n", common.Hex(uint64(h.ApploaderEntryPoint)))
	fmt.Printf("Apploader Code Size: %s\n", common.Hex(uint64(h.ApploaderCodeSize)))
	fmt.Printf("Apploader Trailer Size: %s\n", common.Hex(uint64(h.ApploaderTrailerSize)))

	if yamlOutput != "" {
		exporter := NewDiscInfoExporter()
		if err := exporter.Export(disc, yamlOutput); err != nil {
			return common.FormatError(common.ErrFailedToExportYAML, err)
		}
		common.LogInfo(common.InfoDiscInfoExported, yamlOutput)
	}

	return nil
}

// List prints the files below directory (the whole disc when directory is
// empty) in registry order, optionally with sizes.
func (p *ISOProcessor) List(inputFile string, directory string, showSize bool) error {
	disc, err := gc.OpenDisc(inputFile)
	if err != nil {
		return common.FormatError(common.ErrFailedToOpenDisc, err)
	}
	defer disc.Close()

	if directory != "" && !disc.IsDir(directory) {
		return fmt.Errorf("no directory %q in disc image: %w", directory, gc.ErrNotFound)
	}

	prefix := strings.Trim(directory, "/")
	count := 0
	for path := range disc.ListDir(directory) {
		if showSize {
			full := path
			if prefix != "" {
				full = prefix + "/" + path
			}
			size, err := disc.FileSize(full)
			if err != nil {
				return err
			}
			fmt.Printf("%-48s %10d\n", path, size)
		} else {
			fmt.Println(path)
		}
		count++
	}
	fmt.Printf("%d files\n", count)

	return nil
}

// Read copies length bytes at offset inside the internal file to outputFile.
// A negative length reads to the end of the internal file.
func (p *ISOProcessor) Read(inputFile, internalPath, outputFile string, offset, length int64) error {
	disc, err := gc.OpenDisc(inputFile)
	if err != nil {
		return common.FormatError(common.ErrFailedToOpenDisc, err)
	}
	defer disc.Close()

	data, err := disc.ReadFile(internalPath, offset, length)
	if err != nil {
		return common.FormatError(common.ErrFailedToReadDisc, err)
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return common.FormatError(common.ErrFailedToCreateOutput, err)
	}

	common.LogInfo(common.InfoFileRead, len(data), internalPath, common.Hex(uint64(offset)))
	return nil
}

// Write copies the contents of sourceFile into the internal file at offset.
// The write fails when it would cross the end of the internal file, since a
// file inside a disc image can never change size.
func (p *ISOProcessor) Write(inputFile, internalPath, sourceFile string, offset int64) error {
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	disc, err := gc.OpenDisc(inputFile)
	if err != nil {
		return common.FormatError(common.ErrFailedToOpenDisc, err)
	}
	defer disc.Close()

	n, err := disc.WriteFile(internalPath, offset, data)
	if err != nil {
		return common.FormatError(common.ErrFailedToWriteDisc, err)
	}

	common.LogInfo(common.InfoFileWritten, n, internalPath, common.Hex(uint64(offset)))
	return nil
}

// Dump extracts every file of the disc image into outputDir, preserving the
// internal directory structure. The synthesized system regions (boot.bin,
// bi2.bin, fst.bin, start.dol, appldr.bin) are extracted as well.
func (p *ISOProcessor) Dump(inputFile, outputDir string) error {
	disc, err := gc.OpenDisc(inputFile)
	if err != nil {
		return common.FormatError(common.ErrFailedToOpenDisc, err)
	}
	defer disc.Close()

	h := disc.Header
	common.LogInfo(common.InfoDiscOpened, h.GameName, string(h.GameCode[:]), h.Version)

	count := 0
	for entry := range disc.Entries() {
		if err := p.extractFile(disc, entry, outputDir); err != nil {
			return fmt.Errorf("failed to extract %s: %w", entry.Path, err)
		}
		common.LogDebug(common.DebugExtractedFile, entry.Path, entry.Size)
		count++
	}

	common.LogInfo(common.InfoFilesExtracted, count, outputDir)
	return nil
}

// extractFile streams one registry entry into outputDir.
func (p *ISOProcessor) extractFile(disc *gc.Disc, entry gc.FileEntry, outputDir string) error {
	outputPath := filepath.Join(outputDir, filepath.FromSlash(entry.Path))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	src, err := disc.Open(entry.Path)
	if err != nil {
		return err
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return common.FormatError(common.ErrFailedToCreateOutput, err)
	}
	defer out.Close()

	for off := int64(0); off < src.Size(); off += extractChunkSize {
		count := int64(extractChunkSize)
		if off+count > src.Size() {
			count = src.Size() - off
		}
		chunk, err := src.ReadRange(off, count)
		if err != nil {
			return err
		}
		if _, err := out.Write(chunk); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}

	return nil
}
