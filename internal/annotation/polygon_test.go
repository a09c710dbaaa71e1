package annotation

import (
	"testing"

	"parcel-labeler/pkg/geometry"
)

// checkAligned verifies that every handle of p sits on its vertex.
func checkAligned(t *testing.T, p *Polygon) {
	t.Helper()
	pts := p.ImagePoints()
	hs := p.Handles()
	if len(hs) != len(pts) {
		t.Fatalf("len(handles) = %d, len(vertices) = %d", len(hs), len(pts))
	}
	for i, h := range hs {
		if h.Index() != i {
			t.Errorf("handle %d bound to index %d", i, h.Index())
		}
		if h.Center() != pts[i] {
			t.Errorf("handle %d at %v, vertex at %v", i, h.Center(), pts[i])
		}
	}
}

func TestPolygonAddAndRemovePoints(t *testing.T) {
	r := newFakeRenderer()
	p := NewPolygon(r, 2, DefaultPalette.Color(2))

	p.AddPoint(pt(0, 0))
	p.AddPoint(pt(10, 0))
	p.AddPoint(pt(5, 10))
	checkAligned(t, p)

	if polys, handles := r.counts(); polys != 1 || handles != 3 {
		t.Fatalf("displayed %d polygons, %d handles; want 1, 3", polys, handles)
	}
	if got := r.items[p.item].points; !geometry.EqualPoints(got, p.ImagePoints()) {
		t.Errorf("displayed outline %v, want %v", got, p.ImagePoints())
	}
	if r.items[p.item].color != DefaultPalette[2].Color {
		t.Errorf("polygon color = %v", r.items[p.item].color)
	}

	p.RemoveLastPoint()
	checkAligned(t, p)
	if _, handles := r.counts(); handles != 2 {
		t.Errorf("handles after RemoveLastPoint = %d, want 2", handles)
	}

	p.RemoveLastPoint()
	p.RemoveLastPoint()
	p.RemoveLastPoint() // empty: no-op
	if p.NumPoints() != 0 || len(p.Handles()) != 0 {
		t.Errorf("polygon not empty: %d vertices", p.NumPoints())
	}
}

func TestPolygonMovePointIgnoresBadIndex(t *testing.T) {
	p := NewPolygon(newFakeRenderer(), 0, DefaultPalette.Color(0))
	p.AddPoint(pt(1, 1))
	p.AddPoint(pt(2, 2))

	for _, i := range []int{-1, 2, 100} {
		p.MovePoint(i, pt(50, 50))
	}
	if want := []geometry.Point2D{pt(1, 1), pt(2, 2)}; !geometry.EqualPoints(p.Vertices(), want) {
		t.Errorf("vertices = %v, want %v", p.Vertices(), want)
	}

	p.MovePoint(1, pt(7, 8))
	if got := p.Vertices()[1]; got != pt(7, 8) {
		t.Errorf("vertex 1 = %v, want (7,8)", got)
	}
	checkAligned(t, p)
}

func TestHandleDragWritesOnlyItsVertex(t *testing.T) {
	r := newFakeRenderer()
	p := NewPolygon(r, 0, DefaultPalette.Color(0))
	for _, v := range []geometry.Point2D{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)} {
		p.AddPoint(v)
	}

	h := p.Handles()[2]
	h.DragTo(pt(12, 14))

	want := []geometry.Point2D{pt(0, 0), pt(10, 0), pt(12, 14), pt(0, 10)}
	if !geometry.EqualPoints(p.ImagePoints(), want) {
		t.Errorf("vertices = %v, want %v", p.ImagePoints(), want)
	}
	if r.items[h.item].center != pt(12, 14) {
		t.Errorf("displayed handle at %v", r.items[h.item].center)
	}
	checkAligned(t, p)
}

func TestTranslateResyncsHandles(t *testing.T) {
	r := newFakeRenderer()
	p := NewPolygon(r, 1, DefaultPalette.Color(1))
	p.AddPoint(pt(0, 0))
	p.AddPoint(pt(10, 0))
	p.AddPoint(pt(5, 10))

	p.Translate(3, 4)
	checkAligned(t, p)

	want := []geometry.Point2D{pt(3, 4), pt(13, 4), pt(8, 14)}
	if !geometry.EqualPoints(p.ImagePoints(), want) {
		t.Errorf("image points = %v, want %v", p.ImagePoints(), want)
	}
	// Local vertices are untouched by a whole-polygon move.
	if !geometry.EqualPoints(p.Vertices(), []geometry.Point2D{pt(0, 0), pt(10, 0), pt(5, 10)}) {
		t.Errorf("local vertices changed: %v", p.Vertices())
	}

	// A handle dragged after the move lands where it is dropped.
	p.Handles()[0].DragTo(pt(0, 0))
	if got := p.ImagePoints()[0]; got != pt(0, 0) {
		t.Errorf("vertex 0 after drag = %v, want (0,0)", got)
	}
	if got := p.Vertices()[0]; got != pt(-3, -4) {
		t.Errorf("local vertex 0 = %v, want (-3,-4)", got)
	}
	checkAligned(t, p)

	// Points added after a move are placed in image space too.
	p.AddPoint(pt(20, 20))
	checkAligned(t, p)
	if got := p.ImagePoints()[3]; got != pt(20, 20) {
		t.Errorf("added point = %v, want (20,20)", got)
	}
}

func TestHandleHoverShape(t *testing.T) {
	r := newFakeRenderer()
	p := NewPolygon(r, 0, DefaultPalette.Color(0))
	p.AddPoint(pt(4, 4))
	h := p.Handles()[0]

	h.SetHovered(true)
	if !h.Hovered() || r.items[h.item].shape != HandleSquare {
		t.Error("hovered handle should be drawn square")
	}
	h.SetHovered(false)
	if r.items[h.item].shape != HandleCircle {
		t.Error("resting handle should be drawn as a circle")
	}
}

func TestDestroyRemovesEverything(t *testing.T) {
	r := newFakeRenderer()
	p := NewPolygon(r, 0, DefaultPalette.Color(0))
	p.AddPoint(pt(1, 1))
	p.AddPoint(pt(2, 2))
	h := p.Handles()[0]

	p.Destroy()
	if len(r.items) != 0 {
		t.Errorf("%d items still displayed", len(r.items))
	}
	if h.Owner() != nil {
		t.Error("handle outlived its polygon")
	}

	// Inert after destroy.
	p.AddPoint(pt(3, 3))
	h.DragTo(pt(9, 9))
	if len(r.items) != 0 {
		t.Error("destroyed polygon displayed new items")
	}
}
