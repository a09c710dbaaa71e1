// Package colorutil provides shared color utilities for the labeler.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Gray    = color.NRGBA{R: 128, G: 128, B: 128, A: 150}
	Red     = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	Yellow  = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
	Green   = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	Blue    = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	Magenta = color.NRGBA{R: 255, G: 0, B: 255, A: 255}
)

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Opaque returns c with full alpha, used for outlines of translucent fills.
func Opaque(c color.NRGBA) color.NRGBA {
	return WithAlpha(c, 255)
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA" (leading '#' optional).
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	if len(h) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatHex formats c as "#RRGGBBAA".
func FormatHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
