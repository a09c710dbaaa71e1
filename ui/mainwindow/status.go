package mainwindow

import (
	"fmt"
	"strings"

	"parcel-labeler/internal/annotation"

	"fyne.io/fyne/v2"
)

// digitKeys maps the number row to category codes 0..8.
var digitKeys = []fyne.KeyName{
	fyne.Key1, fyne.Key2, fyne.Key3, fyne.Key4, fyne.Key5,
	fyne.Key6, fyne.Key7, fyne.Key8, fyne.Key9,
}

// categoryForKey returns the category selected by a number key.
func categoryForKey(key fyne.KeyName) (annotation.Category, bool) {
	for i, k := range digitKeys {
		if k == key {
			return annotation.Category(i), true
		}
	}
	return 0, false
}

func categoryLabel(i int, name string) string {
	if i < len(digitKeys) {
		return fmt.Sprintf("%d  %s", i+1, name)
	}
	return name
}

// formatStatus renders the status bar line.
func formatStatus(index, total int, mode annotation.Mode, category string, stats []annotation.CategoryStats, palette annotation.Palette) string {
	if total == 0 {
		return "No images"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Image %d/%d", index+1, total)
	if mode == annotation.ModeDrawing {
		fmt.Fprintf(&b, " | Drawing %s", category)
	}

	n := 0
	for _, s := range stats {
		n += s.Count
	}
	fmt.Fprintf(&b, " | %d polygons", n)
	for i, s := range stats {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %d (mean area %.0f)", palette.Name(s.Category), s.Count, s.MeanArea)
	}
	return b.String()
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}
