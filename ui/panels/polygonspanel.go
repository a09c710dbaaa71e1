// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"strings"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/internal/app"
	"parcel-labeler/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// PolygonsPanel lists the finished polygons of the current image and
// summarizes them per category.
type PolygonsPanel struct {
	session   *app.Session
	container fyne.CanvasObject

	polygons []*annotation.Polygon

	list        *widget.List
	detailCard  *widget.Card
	detailLabel *widget.Label
	summary     *widget.Label
	selecting   bool // Set while the list selection follows the session
}

// NewPolygonsPanel creates a polygons panel that follows session.
func NewPolygonsPanel(session *app.Session) *PolygonsPanel {
	pp := &PolygonsPanel{
		session: session,
	}

	pp.list = widget.NewList(
		func() int {
			return len(pp.polygons)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Polygon")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(pp.polygons) {
				obj.(*widget.Label).SetText(pp.rowText(id))
			}
		},
	)

	pp.list.OnSelected = func(id widget.ListItemID) {
		if pp.selecting || id >= len(pp.polygons) {
			return
		}
		session.Select(pp.polygons[id])
	}

	pp.detailLabel = widget.NewLabel("Select a polygon")
	pp.detailLabel.Wrapping = fyne.TextWrapWord
	pp.detailCard = widget.NewCard("Polygon", "", pp.detailLabel)

	pp.summary = widget.NewLabel("")
	pp.summary.Wrapping = fyne.TextWrapWord

	pp.container = container.NewBorder(
		widget.NewCard("Summary", "", pp.summary),
		pp.detailCard,
		nil, nil,
		pp.list,
	)

	session.On(app.EventPolygonsChanged, func(interface{}) {
		pp.Refresh()
	})
	session.On(app.EventSelectionChanged, func(data interface{}) {
		p, _ := data.(*annotation.Polygon)
		pp.showSelection(p)
	})

	pp.Refresh()
	return pp
}

// Container returns the panel container.
func (pp *PolygonsPanel) Container() fyne.CanvasObject {
	return pp.container
}

// Refresh rebuilds the list and summary from the session.
func (pp *PolygonsPanel) Refresh() {
	pp.polygons = pp.polygons[:0]
	for _, p := range pp.session.Layer().Polygons() {
		if p.Finished() {
			pp.polygons = append(pp.polygons, p)
		}
	}
	pp.list.Refresh()
	pp.summary.SetText(summaryText(pp.session.Palette(), pp.session.Layer().Categorized()))
	pp.showSelection(pp.session.Selected())
}

func (pp *PolygonsPanel) rowText(i int) string {
	p := pp.polygons[i]
	return fmt.Sprintf("%d. %s (%d pts)", i+1, categoryName(pp.session.Palette(), p.Category()), p.NumPoints())
}

func (pp *PolygonsPanel) showSelection(p *annotation.Polygon) {
	pp.selecting = true
	defer func() { pp.selecting = false }()

	for i, other := range pp.polygons {
		if other == p {
			pp.list.Select(i)
			pp.detailLabel.SetText(detailText(pp.session.Palette(), p))
			return
		}
	}
	pp.list.UnselectAll()
	pp.detailLabel.SetText("Select a polygon")
}

func categoryName(palette annotation.Palette, c annotation.Category) string {
	if name := palette.Name(c); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", c)
}

// detailText describes one polygon in image pixels.
func detailText(palette annotation.Palette, p *annotation.Polygon) string {
	pts := p.ImagePoints()
	box := geometry.BoundingBox(pts)
	shape := "concave"
	if geometry.IsConvex(pts) {
		shape = "convex"
	}
	c := geometry.Centroid(pts)
	return fmt.Sprintf("%s\n%d vertices, %s\nArea: %.0f px, perimeter %.0f px\nBounds: %.0fx%.0f at (%.0f, %.0f)\nCenter: (%.0f, %.0f)",
		categoryName(palette, p.Category()), len(pts), shape,
		geometry.PolygonArea(pts), geometry.Perimeter(pts),
		box.Width, box.Height, box.X, box.Y, c.X, c.Y)
}

// summaryText formats per-category statistics, one line per category.
func summaryText(palette annotation.Palette, m annotation.Categorized) string {
	stats := annotation.Summarize(m)
	if len(stats) == 0 {
		return "No polygons"
	}
	lines := make([]string, len(stats))
	for i, cs := range stats {
		lines[i] = fmt.Sprintf("%s: %d (mean area %.0f, max %.0f)",
			categoryName(palette, cs.Category), cs.Count, cs.MeanArea, cs.MaxArea)
	}
	return strings.Join(lines, "\n")
}
