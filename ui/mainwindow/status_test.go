package mainwindow

import (
	"testing"

	"parcel-labeler/internal/annotation"

	"fyne.io/fyne/v2"
)

func TestCategoryForKey(t *testing.T) {
	tests := []struct {
		key    fyne.KeyName
		want   annotation.Category
		wantOK bool
	}{
		{fyne.Key1, 0, true},
		{fyne.Key5, 4, true},
		{fyne.Key9, 8, true},
		{fyne.Key0, 0, false},
		{fyne.KeyA, 0, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got, ok := categoryForKey(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("categoryForKey(%s) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatStatus(t *testing.T) {
	stats := annotation.Summarize(annotation.Categorized{
		0: {{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}},
		3: {
			{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}},
			{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}},
		},
	})

	tests := []struct {
		name  string
		index int
		total int
		mode  annotation.Mode
		stats []annotation.CategoryStats
		want  string
	}{
		{"no images", 0, 0, annotation.ModeIdle, nil, "No images"},
		{"empty image", 1, 3, annotation.ModeIdle, nil, "Image 2/3 | 0 polygons"},
		{"drawing", 0, 1, annotation.ModeDrawing, nil, "Image 1/1 | Drawing Bag | 0 polygons"},
		{"with stats", 0, 2, annotation.ModeIdle, stats,
			"Image 1/2 | 3 polygons: Box 1 (mean area 100), Unknown 2 (mean area 5)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatStatus(tt.index, tt.total, tt.mode, "Bag", tt.stats, annotation.DefaultPalette)
			if got != tt.want {
				t.Errorf("formatStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexOf(t *testing.T) {
	list := []string{"/a", "/b", "/c"}
	if got := indexOf(list, "/c"); got != 2 {
		t.Errorf("indexOf(/c) = %d", got)
	}
	if got := indexOf(list, "/gone"); got != 0 {
		t.Errorf("indexOf(missing) = %d, want 0", got)
	}
}
