package annotation

import (
	"image/color"

	"parcel-labeler/pkg/geometry"
)

// ItemID identifies an item shown by a Renderer.
type ItemID int

// HandleShape is the marker drawn for a vertex handle.
type HandleShape int

const (
	HandleCircle HandleShape = iota // Resting
	HandleSquare                    // Hovered
)

// CursorKind selects the pointer cursor shown over the image.
type CursorKind int

const (
	CursorDefault CursorKind = iota
	CursorCrosshair
	CursorPointingHand
)

// Renderer is what the engine needs from the display. The engine issues
// these calls; it receives only pointer and hover events in return.
type Renderer interface {
	// DisplayPolygon shows a polygon outline through points (image space).
	DisplayPolygon(points []geometry.Point2D, col color.NRGBA) ItemID

	// UpdatePolygon replaces the points of a displayed polygon.
	UpdatePolygon(id ItemID, points []geometry.Point2D)

	// DisplayHandle shows a vertex handle marker centered at center.
	DisplayHandle(center geometry.Point2D, shape HandleShape) ItemID

	// UpdateHandle moves or reshapes a displayed handle marker.
	UpdateHandle(id ItemID, center geometry.Point2D, shape HandleShape)

	// RemoveDisplayed removes a polygon or handle item.
	RemoveDisplayed(id ItemID)

	SetCursorStyle(kind CursorKind)

	// MapPointerToImageSpace converts a raw pointer position to image coordinates.
	MapPointerToImageSpace(raw geometry.Point2D) geometry.Point2D
}

// NopRenderer displays nothing and maps pointer positions unchanged.
// It drives the engine headless.
type NopRenderer struct {
	next ItemID
}

var _ Renderer = (*NopRenderer)(nil)

func (r *NopRenderer) DisplayPolygon([]geometry.Point2D, color.NRGBA) ItemID {
	r.next++
	return r.next
}

func (r *NopRenderer) UpdatePolygon(ItemID, []geometry.Point2D) {}

func (r *NopRenderer) DisplayHandle(geometry.Point2D, HandleShape) ItemID {
	r.next++
	return r.next
}

func (r *NopRenderer) UpdateHandle(ItemID, geometry.Point2D, HandleShape) {}

func (r *NopRenderer) RemoveDisplayed(ItemID) {}

func (r *NopRenderer) SetCursorStyle(CursorKind) {}

func (r *NopRenderer) MapPointerToImageSpace(raw geometry.Point2D) geometry.Point2D {
	return raw
}
