package annotation

import (
	"image/color"

	"parcel-labeler/pkg/geometry"
)

// Polygon is an ordered, editable vertex list with one draggable handle per
// vertex. Vertices are stored in polygon-local space; transform maps them
// into image space.
type Polygon struct {
	category  Category
	color     color.NRGBA
	vertices  []geometry.Point2D
	handles   []*Handle
	transform geometry.AffineTransform

	renderer  Renderer
	item      ItemID
	finished  bool
	destroyed bool
}

// Handle is the draggable marker for one vertex. It is bound to its owning
// polygon and index for its whole life.
type Handle struct {
	owner   *Polygon
	index   int
	center  geometry.Point2D
	hovered bool
	item    ItemID
}

// NewPolygon creates an empty polygon tagged with category and shows it on r.
func NewPolygon(r Renderer, category Category, col color.NRGBA) *Polygon {
	p := &Polygon{
		category:  category,
		color:     col,
		transform: geometry.Identity(),
		renderer:  r,
	}
	p.item = r.DisplayPolygon(nil, col)
	return p
}

// Category returns the category code the polygon was created with.
func (p *Polygon) Category() Category {
	return p.category
}

// Color returns the display color.
func (p *Polygon) Color() color.NRGBA {
	return p.color
}

// Finished reports whether the polygon has left the drawing state.
func (p *Polygon) Finished() bool {
	return p.finished
}

// NumPoints returns the number of vertices.
func (p *Polygon) NumPoints() int {
	return len(p.vertices)
}

// Vertices returns a copy of the vertices in polygon-local space.
func (p *Polygon) Vertices() []geometry.Point2D {
	return geometry.ClonePoints(p.vertices)
}

// ImagePoints returns the vertices mapped into image space.
func (p *Polygon) ImagePoints() []geometry.Point2D {
	out := make([]geometry.Point2D, len(p.vertices))
	for i, v := range p.vertices {
		out[i] = p.transform.Apply(v)
	}
	return out
}

// Handles returns the handles, index-aligned with the vertices.
func (p *Polygon) Handles() []*Handle {
	out := make([]*Handle, len(p.handles))
	copy(out, p.handles)
	return out
}

// Contains reports whether the image-space point lies inside the polygon.
func (p *Polygon) Contains(pt geometry.Point2D) bool {
	return geometry.PointInPolygon(pt, p.ImagePoints())
}

// AddPoint appends pt (image space) and binds a new handle at it.
func (p *Polygon) AddPoint(pt geometry.Point2D) {
	if p.destroyed {
		return
	}
	p.vertices = append(p.vertices, p.mapFromImage(pt))

	h := &Handle{owner: p, index: len(p.vertices) - 1}
	h.center = p.transform.Apply(p.vertices[h.index])
	h.item = p.renderer.DisplayHandle(h.center, h.shape())
	p.handles = append(p.handles, h)

	p.redisplay()
}

// RemoveLastPoint pops the last vertex and destroys its handle.
func (p *Polygon) RemoveLastPoint() {
	if p.destroyed || len(p.vertices) == 0 {
		return
	}
	p.vertices = p.vertices[:len(p.vertices)-1]

	last := len(p.handles) - 1
	h := p.handles[last]
	p.handles[last] = nil
	p.handles = p.handles[:last]
	p.renderer.RemoveDisplayed(h.item)
	h.owner = nil

	p.redisplay()
}

// MovePoint replaces vertex i with pt (image space). Out-of-range indices
// are ignored: they come from a move queued behind a removal.
func (p *Polygon) MovePoint(i int, pt geometry.Point2D) {
	if p.destroyed || i < 0 || i >= len(p.vertices) {
		return
	}
	p.vertices[i] = p.mapFromImage(pt)
	p.redisplay()
	p.seatHandle(i)
}

// moveHandle is the write-back path of a dragged handle.
func (p *Polygon) moveHandle(index int, pos geometry.Point2D) {
	p.MovePoint(index, pos)
}

// Translate moves the whole polygon by (dx, dy) in image space and re-seats
// every handle on its vertex.
func (p *Polygon) Translate(dx, dy float64) {
	if p.destroyed {
		return
	}
	p.transform = geometry.Translation(dx, dy).Compose(p.transform)
	p.redisplay()
	for i := range p.handles {
		p.seatHandle(i)
	}
}

// Destroy removes the polygon and all of its handles from display.
// The polygon ignores every mutation afterwards.
func (p *Polygon) Destroy() {
	if p.destroyed {
		return
	}
	for _, h := range p.handles {
		p.renderer.RemoveDisplayed(h.item)
		h.owner = nil
	}
	p.handles = nil
	p.renderer.RemoveDisplayed(p.item)
	p.destroyed = true
}

func (p *Polygon) mapFromImage(pt geometry.Point2D) geometry.Point2D {
	inv, ok := p.transform.Inverse()
	if !ok {
		return pt
	}
	return inv.Apply(pt)
}

func (p *Polygon) redisplay() {
	p.renderer.UpdatePolygon(p.item, p.ImagePoints())
}

// seatHandle positions handle i on vertex i without writing back.
func (p *Polygon) seatHandle(i int) {
	h := p.handles[i]
	h.center = p.transform.Apply(p.vertices[i])
	p.renderer.UpdateHandle(h.item, h.center, h.shape())
}

// Index returns the vertex index the handle is bound to.
func (h *Handle) Index() int {
	return h.index
}

// Center returns the handle position in image space.
func (h *Handle) Center() geometry.Point2D {
	return h.center
}

// Owner returns the polygon the handle belongs to, or nil once it is gone.
func (h *Handle) Owner() *Polygon {
	return h.owner
}

// Hovered reports whether the pointer is over the handle.
func (h *Handle) Hovered() bool {
	return h.hovered
}

// DragTo moves the handle to pos, writing the new vertex back to the owner.
func (h *Handle) DragTo(pos geometry.Point2D) {
	if h.owner == nil {
		return
	}
	h.owner.moveHandle(h.index, pos)
}

// SetHovered switches the marker between circle and square.
func (h *Handle) SetHovered(hovered bool) {
	if h.owner == nil || h.hovered == hovered {
		return
	}
	h.hovered = hovered
	h.owner.renderer.UpdateHandle(h.item, h.center, h.shape())
}

func (h *Handle) shape() HandleShape {
	if h.hovered {
		return HandleSquare
	}
	return HandleCircle
}
