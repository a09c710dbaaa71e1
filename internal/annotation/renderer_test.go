package annotation

import (
	"image/color"

	"parcel-labeler/pkg/geometry"
)

type fakeItem struct {
	polygon bool
	points  []geometry.Point2D
	color   color.NRGBA
	center  geometry.Point2D
	shape   HandleShape
}

// fakeRenderer records what is on display.
type fakeRenderer struct {
	next   ItemID
	items  map[ItemID]*fakeItem
	cursor CursorKind
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{items: make(map[ItemID]*fakeItem)}
}

func (r *fakeRenderer) DisplayPolygon(points []geometry.Point2D, col color.NRGBA) ItemID {
	r.next++
	r.items[r.next] = &fakeItem{polygon: true, points: geometry.ClonePoints(points), color: col}
	return r.next
}

func (r *fakeRenderer) UpdatePolygon(id ItemID, points []geometry.Point2D) {
	if it, ok := r.items[id]; ok {
		it.points = geometry.ClonePoints(points)
	}
}

func (r *fakeRenderer) DisplayHandle(center geometry.Point2D, shape HandleShape) ItemID {
	r.next++
	r.items[r.next] = &fakeItem{center: center, shape: shape}
	return r.next
}

func (r *fakeRenderer) UpdateHandle(id ItemID, center geometry.Point2D, shape HandleShape) {
	if it, ok := r.items[id]; ok {
		it.center = center
		it.shape = shape
	}
}

func (r *fakeRenderer) RemoveDisplayed(id ItemID) {
	delete(r.items, id)
}

func (r *fakeRenderer) SetCursorStyle(kind CursorKind) {
	r.cursor = kind
}

func (r *fakeRenderer) MapPointerToImageSpace(raw geometry.Point2D) geometry.Point2D {
	return raw
}

func (r *fakeRenderer) counts() (polygons, handles int) {
	for _, it := range r.items {
		if it.polygon {
			polygons++
		} else {
			handles++
		}
	}
	return polygons, handles
}

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}
