package canvas

import (
	"image/color"
	"sync"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/pkg/geometry"
)

type itemKind int

const (
	itemPolygon itemKind = iota
	itemHandle
)

// overlayItem is one displayed polygon or handle marker, in image coordinates.
type overlayItem struct {
	kind   itemKind
	points []geometry.Point2D
	color  color.NRGBA
	center geometry.Point2D
	shape  annotation.HandleShape
}

// Overlay holds the annotation items drawn over the image. Items are kept in
// display order: polygons below handles, each group in creation order.
// It is written from the event goroutine and read by the raster draw, so
// every access takes the lock.
type Overlay struct {
	mu     sync.Mutex
	nextID annotation.ItemID
	items  map[annotation.ItemID]*overlayItem
	order  []annotation.ItemID
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{items: make(map[annotation.ItemID]*overlayItem)}
}

func (o *Overlay) add(it *overlayItem) annotation.ItemID {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	id := o.nextID
	o.items[id] = it
	o.order = append(o.order, id)
	return id
}

// DisplayPolygon shows a polygon and returns its item id.
func (o *Overlay) DisplayPolygon(points []geometry.Point2D, col color.NRGBA) annotation.ItemID {
	return o.add(&overlayItem{kind: itemPolygon, points: geometry.ClonePoints(points), color: col})
}

// UpdatePolygon replaces the outline of a displayed polygon.
func (o *Overlay) UpdatePolygon(id annotation.ItemID, points []geometry.Point2D) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if it, ok := o.items[id]; ok && it.kind == itemPolygon {
		it.points = geometry.ClonePoints(points)
	}
}

// DisplayHandle shows a vertex marker and returns its item id.
func (o *Overlay) DisplayHandle(center geometry.Point2D, shape annotation.HandleShape) annotation.ItemID {
	return o.add(&overlayItem{kind: itemHandle, center: center, shape: shape})
}

// UpdateHandle moves or reshapes a displayed marker.
func (o *Overlay) UpdateHandle(id annotation.ItemID, center geometry.Point2D, shape annotation.HandleShape) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if it, ok := o.items[id]; ok && it.kind == itemHandle {
		it.center = center
		it.shape = shape
	}
}

// RemoveDisplayed takes an item off the overlay. Unknown ids are ignored.
func (o *Overlay) RemoveDisplayed(id annotation.ItemID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.items[id]; !ok {
		return
	}
	delete(o.items, id)
	for i, other := range o.order {
		if other == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of displayed items.
func (o *Overlay) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}

// snapshot returns copies of the items in paint order.
func (o *Overlay) snapshot() []overlayItem {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]overlayItem, 0, len(o.order))
	for _, kind := range []itemKind{itemPolygon, itemHandle} {
		for _, id := range o.order {
			it := o.items[id]
			if it.kind != kind {
				continue
			}
			cp := *it
			cp.points = geometry.ClonePoints(it.points)
			out = append(out, cp)
		}
	}
	return out
}
