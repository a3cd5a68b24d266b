// Package gc provides GameCube disc image (GCM) parsing functionality.
// This file contains the banner file (.bnr) decoder: the RGB5A1 banner
// image plus one or more metadata blocks.
// Reference: http://hitmen.c02.at/files/yagcd/yagcd/chap14.html#sec14.1
package gc

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/hansbonini/gcmtools/pkg/common"
)

// Banner file geometry. The 96x32 pixel image is stored as 4x4 tiles of
// big-endian RGB5A1 values; metadata blocks of 0x140 bytes follow. NTSC
// banners carry one block, PAL banners one per language.
const (
	BannerWidth       = 96
	BannerHeight      = 32
	BannerPixelOffset = 0x20
	bannerTileSize    = 4
	bannerPixelSize   = BannerWidth * BannerHeight * 2
	bannerMetaOffset  = BannerPixelOffset + bannerPixelSize
	bannerMetaSize    = 0x140
)

// Banner magic values.
const (
	BannerMagicNTSC = "BNR1"
	BannerMagicPAL  = "BNR2"
)

// BannerMeta is one metadata block of a banner file.
type BannerMeta struct {
	GameName          string `yaml:"game_name"`
	DeveloperName     string `yaml:"developer_name"`
	FullGameTitle     string `yaml:"full_game_title"`
	FullDeveloperName string `yaml:"full_developer_name"`
	GameDescription   string `yaml:"game_description"`
}

// Banner is a decoded banner file.
type Banner struct {
	Magic     string // "BNR1" (NTSC) or "BNR2" (PAL)
	PixelData []byte // raw RGB5A1 tile data
	Meta      []BannerMeta
}

// ParseBanner decodes a banner file from its raw bytes.
func ParseBanner(data []byte) (*Banner, error) {
	if len(data) < bannerMetaOffset+bannerMetaSize {
		return nil, fmt.Errorf("banner needs 0x%X bytes, got 0x%X: %w",
			bannerMetaOffset+bannerMetaSize, len(data), ErrFormat)
	}

	b := &Banner{
		Magic:     string(data[0:4]),
		PixelData: data[BannerPixelOffset:bannerMetaOffset],
	}
	for off := bannerMetaOffset; off+bannerMetaSize <= len(data); off += bannerMetaSize {
		b.Meta = append(b.Meta, decodeBannerMeta(data[off:off+bannerMetaSize]))
	}
	return b, nil
}

// decodeBannerMeta decodes one 0x140-byte metadata block.
func decodeBannerMeta(block []byte) BannerMeta {
	return BannerMeta{
		GameName:          common.CString(block[0x00:0x20]),
		DeveloperName:     common.CString(block[0x20:0x40]),
		FullGameTitle:     common.CString(block[0x40:0x80]),
		FullDeveloperName: common.CString(block[0x80:0xC0]),
		GameDescription:   common.CString(block[0xC0:0x140]),
	}
}

// Image converts the banner pixel data to a standard image. Pixels are
// stored tile by tile, 4x4 pixels per tile, 24 tiles per row.
func (b *Banner) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, BannerWidth, BannerHeight))
	tilesPerRow := BannerWidth / bannerTileSize
	tilePixels := bannerTileSize * bannerTileSize

	for i := 0; i+1 < len(b.PixelData); i += 2 {
		pixel := i / 2
		tile := pixel / tilePixels
		tilePixel := pixel % tilePixels

		x := (tile%tilesPerRow)*bannerTileSize + tilePixel%bannerTileSize
		y := (tile/tilesPerRow)*bannerTileSize + tilePixel/bannerTileSize

		value := common.GCColor(binary.BigEndian.Uint16(b.PixelData[i:]))
		img.SetRGBA(x, y, value.ToRGBA())
	}
	return img
}

// EncodeBannerImage converts a 96x32 image back to RGB5A1 tile data, the
// inverse of Banner.Image. Images of any other size are rejected.
func EncodeBannerImage(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() != BannerWidth || bounds.Dy() != BannerHeight {
		return nil, fmt.Errorf("banner image must be %dx%d, got %dx%d: %w",
			BannerWidth, BannerHeight, bounds.Dx(), bounds.Dy(), ErrFormat)
	}
	tilesPerRow := BannerWidth / bannerTileSize
	tilePixels := bannerTileSize * bannerTileSize

	data := make([]byte, bannerPixelSize)
	for pixel := 0; pixel < BannerWidth*BannerHeight; pixel++ {
		tile := pixel / tilePixels
		tilePixel := pixel % tilePixels

		x := (tile%tilesPerRow)*bannerTileSize + tilePixel%bannerTileSize
		y := (tile/tilesPerRow)*bannerTileSize + tilePixel/bannerTileSize

		c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
		value := common.GCColorFromRGBA(c.R, c.G, c.B, c.A)
		binary.BigEndian.PutUint16(data[pixel*2:], uint16(value))
	}
	return data, nil
}
