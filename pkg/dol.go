// Package pkg provides functionality for processing GameCube disc images.
// This file contains the DOL processor analyzing the section layout of the
// main executable: file-offset/memory-address mapping and contiguity.
package pkg

import (
	"fmt"
	"os"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gc"
)

// DOLProcessor handles DOL executable analysis operations
type DOLProcessor struct{}

// NewDOLProcessor creates a new DOL processor instance
func NewDOLProcessor() *DOLProcessor {
	return &DOLProcessor{}
}

// loadDOL decodes the executable layout either from the main executable of
// a disc image or, when raw is set, from a standalone .dol file. Only the
// header is needed for layout analysis, so the raw path reads just that.
func (p *DOLProcessor) loadDOL(inputFile string, raw bool) (*gc.DOL, error) {
	if raw {
		file, err := os.Open(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open DOL file: %w", err)
		}
		defer file.Close()

		header, err := common.ReadBytes(file, gc.DOLBodyOffset)
		if err != nil {
			return nil, fmt.Errorf("failed to read DOL header: %w", err)
		}
		return gc.ParseDOL(header)
	}

	disc, err := gc.OpenDisc(inputFile)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenDisc, err)
	}
	defer disc.Close()
	return disc.DOL()
}

// Info prints the executable layout: entry point, BSS region and the
// section table in header order.
func (p *DOLProcessor) Info(inputFile string, raw bool) error {
	dol, err := p.loadDOL(inputFile, raw)
	if err != nil {
		return common.FormatError(common.ErrFailedToParseDOL, err)
	}

	fmt.Printf("Entry Point: %s\n", common.Hex(uint64(dol.EntryPoint)))
	fmt.Printf("BSS Address: %s\n", common.Hex(uint64(dol.BSSMemAddress)))
	fmt.Printf("BSS Size: %s\n", common.Hex(uint64(dol.BSSSize)))
	fmt.Println()
	fmt.Printf("Kind | # | File Offset | Mem Address | Size\n")
	fmt.Printf("-----|---|-------------|-------------|-----------\n")
	for _, s := range dol.Sections {
		common.LogDebug(common.DebugSectionInfo, s)
		fmt.Printf("%-4s | %d | %-11s | %-11s | %s\n",
			s.Kind, s.Index,
			common.Hex(uint64(s.FileOffset)),
			common.Hex(uint64(s.MemAddress)),
			common.Hex(uint64(s.Size)))
	}

	return nil
}

// Map translates between file offsets and memory addresses. When
// toFileOffset is set value is a memory address to translate to a file
// offset, otherwise the reverse.
func (p *DOLProcessor) Map(inputFile string, raw bool, value uint32, toFileOffset bool) error {
	dol, err := p.loadDOL(inputFile, raw)
	if err != nil {
		return common.FormatError(common.ErrFailedToParseDOL, err)
	}

	if toFileOffset {
		offset, ok := dol.FileOffsetForMemAddress(value)
		if !ok {
			return fmt.Errorf("no section contains memory address %s: %w",
				common.Hex(uint64(value)), gc.ErrNotFound)
		}
		section, _ := dol.SectionByMemAddress(value)
		fmt.Printf("Memory address %s -> file offset %s (%s %d)\n",
			common.Hex(uint64(value)), common.Hex(uint64(offset)), section.Kind, section.Index)
		return nil
	}

	address, ok := dol.MemAddressForFileOffset(value)
	if !ok {
		return fmt.Errorf("no section contains file offset %s: %w",
			common.Hex(uint64(value)), gc.ErrNotFound)
	}
	section, _ := dol.SectionByFileOffset(value)
	fmt.Printf("File offset %s -> memory address %s (%s %d)\n",
		common.Hex(uint64(value)), common.Hex(uint64(address)), section.Kind, section.Index)
	return nil
}

// Contiguous reports whether the half-open range [start, end) maps to one
// gap-free range of memory. By default start and end are file offsets; with
// byMemAddress they are runtime memory addresses.
func (p *DOLProcessor) Contiguous(inputFile string, raw bool, start, end uint32, byMemAddress bool) error {
	dol, err := p.loadDOL(inputFile, raw)
	if err != nil {
		return common.FormatError(common.ErrFailedToParseDOL, err)
	}

	var contiguous bool
	if byMemAddress {
		contiguous, err = dol.IsContiguousByMemAddress(start, end)
	} else {
		contiguous, err = dol.IsContiguousByFileOffset(start, end)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Range %s-%s contiguous: %v\n",
		common.Hex(uint64(start)), common.Hex(uint64(end)), contiguous)
	return nil
}
