// Package common provides shared utilities for GameCube file processing.
// This file contains the RGB5A1 color format used by banner images.
package common

import "image/color"

// GCColor represents a 16-bit RGB5A1 color value as stored in GameCube
// banner images: one alpha bit followed by 5 bits each of red, green and
// blue, big-endian on disc.
type GCColor uint16

// ToRGBA converts a GCColor to a standard RGBA color. Color channels are
// scaled from 5 to 8 bits and premultiplied by the single alpha bit, which
// matches how Dolphin and GC Rebuilder render banners.
func (c GCColor) ToRGBA() color.RGBA {
	a := uint8(c >> 15)
	r := uint8(uint32((c>>10)&0x1F) * 255 / 31)
	g := uint8(uint32((c>>5)&0x1F) * 255 / 31)
	b := uint8(uint32(c&0x1F) * 255 / 31)

	return color.RGBA{R: r * a, G: g * a, B: b * a, A: a * 255}
}

// GCColorFromRGBA converts 8-bit color components to a GCColor. Any pixel
// that is not fully transparent gets the alpha bit set.
func GCColorFromRGBA(r, g, b, a uint8) GCColor {
	if a == 0 {
		return 0
	}
	return GCColor(1<<15 |
		uint16(r>>3)<<10 |
		uint16(g>>3)<<5 |
		uint16(b>>3))
}
