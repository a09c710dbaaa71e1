package annotation

import (
	"log"

	"parcel-labeler/pkg/geometry"
)

// Mode is the state of the drawing state machine.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
)

func (m Mode) String() string {
	switch m {
	case ModeDrawing:
		return "Drawing"
	default:
		return "Idle"
	}
}

// Drawer turns pointer clicks and moves into polygon geometry, one polygon at
// a time. While drawing, the polygon always carries one trailing ghost vertex
// that follows the pointer until the next click.
type Drawer struct {
	layer     *Layer
	minClicks int

	mode     Mode
	category Category
	current  *Polygon // nil unless drawing
	clicks   []geometry.Point2D
}

// NewDrawer creates an idle drawer working on layer. A polygon needs at least
// minClicks clicks (minimum 1) to be kept when drawing ends.
func NewDrawer(layer *Layer, minClicks int) *Drawer {
	if minClicks < 1 {
		minClicks = 1
	}
	return &Drawer{
		layer:     layer,
		minClicks: minClicks,
	}
}

// Mode returns the current state.
func (d *Drawer) Mode() Mode {
	return d.mode
}

// Category returns the category being drawn, or the last one drawn when idle.
func (d *Drawer) Category() Category {
	return d.category
}

// Current returns the polygon being drawn, or nil.
func (d *Drawer) Current() *Polygon {
	return d.current
}

// Clicks returns the points clicked so far for the current polygon.
func (d *Drawer) Clicks() []geometry.Point2D {
	return geometry.ClonePoints(d.clicks)
}

// Enter starts drawing a new polygon of category c. A polygon already in
// progress is finished first. Unknown categories are refused.
func (d *Drawer) Enter(c Category) bool {
	if !d.layer.palette.Valid(c) {
		log.Printf("Drawing: refusing unknown category %d", c)
		return false
	}
	d.finish()
	d.mode = ModeDrawing
	d.category = c
	d.current = d.layer.Begin(c)
	return true
}

// Exit returns to idle, finishing the polygon in progress. It reports
// whether a polygon was kept.
func (d *Drawer) Exit() bool {
	kept := d.finish()
	d.mode = ModeIdle
	return kept
}

// PointerDown commits the ghost vertex at p and opens a new ghost on top of it.
func (d *Drawer) PointerDown(p geometry.Point2D) bool {
	if d.mode != ModeDrawing {
		return false
	}
	d.current.RemoveLastPoint()
	d.current.AddPoint(p)
	d.current.AddPoint(p)
	d.clicks = append(d.clicks, p)
	return true
}

// PointerMove moves the ghost vertex to p. The first move of an empty
// polygon creates the ghost.
func (d *Drawer) PointerMove(p geometry.Point2D) bool {
	if d.mode != ModeDrawing {
		return false
	}
	if n := d.current.NumPoints(); n == 0 {
		d.current.AddPoint(p)
	} else {
		d.current.MovePoint(n-1, p)
	}
	return true
}

// Undo removes the last clicked vertex, keeping the ghost where it is.
func (d *Drawer) Undo() bool {
	if d.mode != ModeDrawing || len(d.clicks) == 0 {
		return false
	}
	pts := d.current.ImagePoints()
	ghost := pts[len(pts)-1]

	d.current.RemoveLastPoint()
	d.current.RemoveLastPoint()
	d.clicks = d.clicks[:len(d.clicks)-1]
	d.current.AddPoint(ghost)
	return true
}

// finish hands the polygon in progress to the layer, or drops it when it has
// too few clicks.
func (d *Drawer) finish() bool {
	p := d.current
	if p == nil {
		return false
	}
	clicks := d.clicks
	d.current = nil
	d.clicks = nil

	if len(clicks) < d.minClicks {
		d.layer.Discard(p)
		return false
	}
	p.RemoveLastPoint()
	return d.layer.Finish(p)
}
