package common

import (
	"image/color"
	"testing"
)

func TestGCColorToRGBA(t *testing.T) {
	testCases := []struct {
		name     string
		value    GCColor
		expected color.RGBA
	}{
		{"transparent", 0x0000, color.RGBA{0, 0, 0, 0}},
		{"opaque black", 0x8000, color.RGBA{0, 0, 0, 255}},
		{"opaque white", 0xFFFF, color.RGBA{255, 255, 255, 255}},
		{"opaque red", 0xFC00, color.RGBA{255, 0, 0, 255}},
		{"opaque green", 0x83E0, color.RGBA{0, 255, 0, 255}},
		{"opaque blue", 0x801F, color.RGBA{0, 0, 255, 255}},
		{"transparent channels dropped", 0x7FFF, color.RGBA{0, 0, 0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.value.ToRGBA()
			if result != tc.expected {
				t.Errorf("ToRGBA() = %v, want %v", result, tc.expected)
			}
		})
	}
}

func TestGCColorFromRGBA(t *testing.T) {
	testCases := []struct {
		name       string
		r, g, b, a uint8
		expected   GCColor
	}{
		{"transparent", 255, 255, 255, 0, 0x0000},
		{"opaque black", 0, 0, 0, 255, 0x8000},
		{"opaque white", 255, 255, 255, 255, 0xFFFF},
		{"opaque red", 255, 0, 0, 255, 0xFC00},
		{"partial alpha counts as opaque", 0, 0, 255, 1, 0x801F},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := GCColorFromRGBA(tc.r, tc.g, tc.b, tc.a)
			if result != tc.expected {
				t.Errorf("GCColorFromRGBA() = 0x%04X, want 0x%04X", result, tc.expected)
			}
		})
	}
}

func TestGCColorRoundTrip(t *testing.T) {
	for _, value := range []GCColor{0x8000, 0xFFFF, 0xFC00, 0x83E0, 0x801F, 0xBDEF} {
		rgba := value.ToRGBA()
		back := GCColorFromRGBA(rgba.R, rgba.G, rgba.B, rgba.A)
		if back != value {
			t.Errorf("round trip of 0x%04X = 0x%04X", value, back)
		}
	}
}
