package annotation

import (
	"parcel-labeler/pkg/geometry"
)

// Layer holds the polygons displayed for the current image, finished and
// in progress, in display order (last is topmost).
type Layer struct {
	renderer Renderer
	palette  Palette
	polygons []*Polygon
}

// NewLayer creates an empty layer drawing through r with palette.
func NewLayer(r Renderer, palette Palette) *Layer {
	return &Layer{
		renderer: r,
		palette:  palette,
		polygons: make([]*Polygon, 0),
	}
}

// Palette returns the palette polygons are colored with.
func (l *Layer) Palette() Palette {
	return l.palette
}

// Begin shows a new, empty polygon for category c.
func (l *Layer) Begin(c Category) *Polygon {
	p := NewPolygon(l.renderer, c, l.palette.Color(c))
	l.polygons = append(l.polygons, p)
	return p
}

// Finish marks p as a finished annotation. A polygon whose image-space
// vertices equal those of a finished polygon in the same category is a
// duplicate: it is removed and Finish returns false.
func (l *Layer) Finish(p *Polygon) bool {
	pts := p.ImagePoints()
	for _, other := range l.polygons {
		if other == p || !other.finished || other.category != p.category {
			continue
		}
		if geometry.EqualPoints(other.ImagePoints(), pts) {
			l.Remove(p)
			return false
		}
	}
	p.finished = true
	return true
}

// Discard drops an abandoned polygon.
func (l *Layer) Discard(p *Polygon) {
	l.Remove(p)
}

// Remove destroys p and takes it off the layer. It reports whether p was on it.
func (l *Layer) Remove(p *Polygon) bool {
	for i, other := range l.polygons {
		if other == p {
			p.Destroy()
			l.polygons = append(l.polygons[:i], l.polygons[i+1:]...)
			return true
		}
	}
	return false
}

// Clear destroys every polygon and handle on the layer.
func (l *Layer) Clear() {
	for _, p := range l.polygons {
		p.Destroy()
	}
	l.polygons = l.polygons[:0]
}

// Polygons returns the displayed polygons in display order.
func (l *Layer) Polygons() []*Polygon {
	out := make([]*Polygon, len(l.polygons))
	copy(out, l.polygons)
	return out
}

// Len returns the number of displayed polygons.
func (l *Layer) Len() int {
	return len(l.polygons)
}

// Bucket returns the vertex lists of finished polygons in category c.
func (l *Layer) Bucket(c Category) [][]geometry.Point2D {
	var out [][]geometry.Point2D
	for _, p := range l.polygons {
		if p.finished && p.category == c {
			out = append(out, p.ImagePoints())
		}
	}
	return out
}

// Categorized gathers every finished polygon, grouped by category.
func (l *Layer) Categorized() Categorized {
	out := make(Categorized)
	for _, p := range l.polygons {
		if !p.finished {
			continue
		}
		out[p.category] = append(out[p.category], p.ImagePoints())
	}
	return out
}

// Rehydrate displays the stored polygons of m as finished polygons. Vertices
// are replayed one AddPoint each; no ghost vertex is involved.
func (l *Layer) Rehydrate(m Categorized) {
	for _, c := range m.Categories() {
		for _, pts := range m[c] {
			p := l.Begin(c)
			for _, pt := range pts {
				p.AddPoint(pt)
			}
			p.finished = true
		}
	}
}

// HandleAt returns the topmost handle of a finished polygon within radius of pt.
func (l *Layer) HandleAt(pt geometry.Point2D, radius float64) *Handle {
	for i := len(l.polygons) - 1; i >= 0; i-- {
		p := l.polygons[i]
		if !p.finished {
			continue
		}
		for j := len(p.handles) - 1; j >= 0; j-- {
			if p.handles[j].center.Distance(pt) <= radius {
				return p.handles[j]
			}
		}
	}
	return nil
}

// PolygonAt returns the topmost finished polygon containing pt.
func (l *Layer) PolygonAt(pt geometry.Point2D) *Polygon {
	for i := len(l.polygons) - 1; i >= 0; i-- {
		p := l.polygons[i]
		if p.finished && p.Contains(pt) {
			return p
		}
	}
	return nil
}
