// Package annotation provides the polygon annotation engine: polygons with
// draggable vertex handles, the drawing state machine, and the per-image
// categorized polygon store.
package annotation

import (
	"image/color"

	"parcel-labeler/pkg/colorutil"
)

// Category is the small integer code that selects a polygon's label and color.
type Category int

// CategoryInfo describes one entry of the palette.
type CategoryInfo struct {
	Name  string
	Color color.NRGBA
}

// Palette maps category codes to labels and display colors. The code of a
// category is its index.
type Palette []CategoryInfo

// DefaultPalette is the parcel labeling palette.
var DefaultPalette = Palette{
	{Name: "Box", Color: colorutil.WithAlpha(colorutil.Red, 150)},
	{Name: "Bag", Color: colorutil.WithAlpha(colorutil.Yellow, 150)},
	{Name: "Transparent", Color: colorutil.WithAlpha(colorutil.Green, 150)},
	{Name: "Unknown", Color: colorutil.WithAlpha(colorutil.Blue, 150)},
	{Name: "None", Color: colorutil.WithAlpha(colorutil.Magenta, 150)},
}

// Valid reports whether c is a code of this palette.
func (p Palette) Valid(c Category) bool {
	return c >= 0 && int(c) < len(p)
}

// Color returns the display color for c. Codes outside the palette get gray.
func (p Palette) Color(c Category) color.NRGBA {
	if !p.Valid(c) {
		return colorutil.Gray
	}
	return p[c].Color
}

// Name returns the label for c, or "" for codes outside the palette.
func (p Palette) Name(c Category) string {
	if !p.Valid(c) {
		return ""
	}
	return p[c].Name
}

// Lookup returns the code whose label is name.
func (p Palette) Lookup(name string) (Category, bool) {
	for i, info := range p {
		if info.Name == name {
			return Category(i), true
		}
	}
	return 0, false
}
