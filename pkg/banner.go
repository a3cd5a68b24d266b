// Package pkg provides functionality for processing GameCube disc images.
// This file contains the banner processor extracting and replacing banner
// images inside disc images.
package pkg

import (
	"image/png"
	"os"
	"path/filepath"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gc"
)

// DefaultBannerPath is where games conventionally store their banner.
const DefaultBannerPath = "opening.bnr"

// BannerProcessor handles banner extraction from disc images
type BannerProcessor struct {
	exporter BannerExporter
}

// NewBannerProcessor creates a new banner processor instance
func NewBannerProcessor() *BannerProcessor {
	return &BannerProcessor{exporter: NewBannerExporter()}
}

// Export decodes the banner at bannerPath inside the disc image and writes
// banner.png plus banner.yaml into outputDir.
func (p *BannerProcessor) Export(inputFile, bannerPath, outputDir string) error {
	disc, err := gc.OpenDisc(inputFile)
	if err != nil {
		return common.FormatError(common.ErrFailedToOpenDisc, err)
	}
	defer disc.Close()

	banner, err := disc.Banner(bannerPath)
	if err != nil {
		return common.FormatError(common.ErrFailedToParseBanner, err)
	}
	if banner.Magic != gc.BannerMagicNTSC && banner.Magic != gc.BannerMagicPAL {
		common.LogWarn(common.WarnUnexpectedMagic, banner.Magic)
	}

	if err := p.exporter.ExportImage(banner, filepath.Join(outputDir, "banner.png")); err != nil {
		return err
	}
	return p.exporter.ExportMetadata(banner, filepath.Join(outputDir, "banner.yaml"))
}

// Import re-encodes a 96x32 PNG image as RGB5A1 tile data and writes it over
// the pixel data of the banner at bannerPath inside the disc image.
func (p *BannerProcessor) Import(inputFile, bannerPath, imagePath string) error {
	in, err := os.Open(imagePath)
	if err != nil {
		return common.FormatError(common.ErrFailedToReadImage, err)
	}
	defer in.Close()

	img, err := png.Decode(in)
	if err != nil {
		return common.FormatError(common.ErrFailedToDecodePNG, err)
	}
	pixels, err := gc.EncodeBannerImage(img)
	if err != nil {
		return err
	}

	disc, err := gc.OpenDisc(inputFile)
	if err != nil {
		return common.FormatError(common.ErrFailedToOpenDisc, err)
	}
	defer disc.Close()

	n, err := disc.WriteFile(bannerPath, gc.BannerPixelOffset, pixels)
	if err != nil {
		return common.FormatError(common.ErrFailedToWriteDisc, err)
	}

	common.LogInfo(common.InfoBannerImported, n, bannerPath)
	return nil
}
