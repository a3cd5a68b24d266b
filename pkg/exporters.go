// Package pkg provides functionality for processing GameCube disc images.
// This file contains exporters for converting banner data to PNG images and
// disc/banner metadata to YAML files.
package pkg

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gc"
	"gopkg.in/yaml.v3"
)

// BannerFileExporter implements the BannerExporter interface and provides
// functionality to export banner data to external formats (PNG, YAML).
type BannerFileExporter struct{}

// NewBannerExporter creates a new banner exporter instance.
func NewBannerExporter() *BannerFileExporter {
	return &BannerFileExporter{}
}

// ExportImage renders the banner pixel data and writes it as a PNG file.
func (e *BannerFileExporter) ExportImage(banner *gc.Banner, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return common.FormatError(common.ErrFailedToCreateOutput, err)
	}
	defer out.Close()

	if err := png.Encode(out, banner.Image()); err != nil {
		return common.FormatError(common.ErrFailedToExportPNG, err)
	}

	common.LogInfo(common.InfoBannerExported, outputPath)
	return nil
}

// ExportMetadata writes the banner metadata blocks as a YAML file. PAL
// banners carry one block per language.
func (e *BannerFileExporter) ExportMetadata(banner *gc.Banner, outputPath string) error {
	doc := struct {
		Magic string          `yaml:"magic"`
		Meta  []gc.BannerMeta `yaml:"metadata"`
	}{
		Magic: banner.Magic,
		Meta:  banner.Meta,
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return common.FormatError(common.ErrFailedToExportYAML, err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return common.FormatError(common.ErrFailedToCreateOutput, err)
	}

	common.LogInfo(common.InfoMetadataExported, outputPath)
	return nil
}

// discInfo is the YAML document written by DiscInfoExporter.
type discInfo struct {
	GameCode             string `yaml:"game_code"`
	MakerCode            string `yaml:"maker_code"`
	DiskID               uint8  `yaml:"disk_id"`
	Version              uint8  `yaml:"version"`
	GameName             string `yaml:"game_name"`
	DOLOffset            uint32 `yaml:"dol_offset"`
	DOLSize              uint32 `yaml:"dol_size"`
	FSTOffset            uint32 `yaml:"fst_offset"`
	FSTSize              uint32 `yaml:"fst_size"`
	MaxFSTSize           uint32 `yaml:"max_fst_size"`
	FSTEntries           uint32 `yaml:"fst_entries"`
	ApploaderDate        string `yaml:"apploader_date"`
	ApploaderEntryPoint  uint32 `yaml:"apploader_entry_point"`
	ApploaderCodeSize    uint32 `yaml:"apploader_code_size"`
	ApploaderTrailerSize uint32 `yaml:"apploader_trailer_size"`
}

// DiscInfoExporter writes disc header information as YAML.
type DiscInfoExporter struct{}

// NewDiscInfoExporter creates a new disc info exporter instance.
func NewDiscInfoExporter() *DiscInfoExporter {
	return &DiscInfoExporter{}
}

// Export writes the decoded disc header fields to outputPath as YAML.
func (e *DiscInfoExporter) Export(disc *gc.Disc, outputPath string) error {
	h := disc.Header
	doc := discInfo{
		GameCode:             string(h.GameCode[:]),
		MakerCode:            string(h.MakerCode[:]),
		DiskID:               h.DiskID,
		Version:              h.Version,
		GameName:             h.GameName,
		DOLOffset:            h.DOLOffset,
		DOLSize:              h.DOLSize,
		FSTOffset:            h.FSTOffset,
		FSTSize:              h.FSTSize,
		MaxFSTSize:           h.MaxFSTSize,
		FSTEntries:           disc.NumFSTEntries,
		ApploaderDate:        h.ApploaderDate,
		ApploaderEntryPoint:  h.ApploaderEntryPoint,
		ApploaderCodeSize:    h.ApploaderCodeSize,
		ApploaderTrailerSize: h.ApploaderTrailerSize,
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return common.FormatError(common.ErrFailedToExportYAML, err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return common.FormatError(common.ErrFailedToCreateOutput, err)
	}

	return nil
}
