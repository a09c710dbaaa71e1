package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/pkg/colorutil"
	"parcel-labeler/pkg/geometry"
)

const (
	outlineThickness = 2
	markerRadius     = 5 // Handle marker size in screen pixels, independent of zoom
)

// drawOverlay paints the overlay items onto output at the given zoom.
func drawOverlay(output *image.RGBA, items []overlayItem, zoom float64) {
	for _, it := range items {
		switch it.kind {
		case itemPolygon:
			drawPolygon(output, it.points, it.color, zoom)
		case itemHandle:
			drawHandle(output, it.center.Scale(zoom), it.shape)
		}
	}
}

// drawPolygon fills a polygon with its translucent color and outlines it
// with the opaque variant. Open polygons of one or two vertices, as seen
// while drawing, only get the outline.
func drawPolygon(output *image.RGBA, points []geometry.Point2D, col color.NRGBA, zoom float64) {
	if len(points) < 2 {
		return
	}

	scaled := make([]geometry.Point2D, len(points))
	for i, p := range points {
		scaled[i] = p.Scale(zoom)
	}

	if len(scaled) >= 3 {
		fillPolygon(output, scaled, col)
	}

	outline := colorutil.Opaque(col)
	n := len(scaled)
	edges := n
	if n == 2 {
		edges = 1
	}
	for i := 0; i < edges; i++ {
		p1 := scaled[i]
		p2 := scaled[(i+1)%n]
		drawLine(output, int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), outline, outlineThickness)
	}
}

// fillPolygon composites col over the interior of pts (canvas coordinates).
// The rasterizer only covers the polygon's bounding box.
func fillPolygon(output *image.RGBA, pts []geometry.Point2D, col color.NRGBA) {
	box := geometry.BoundingBox(pts)
	r := image.Rect(
		int(math.Floor(box.X)), int(math.Floor(box.Y)),
		int(math.Ceil(box.X+box.Width)), int(math.Ceil(box.Y+box.Height)),
	).Intersect(output.Bounds())
	if r.Empty() {
		return
	}

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Over
	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	z.MoveTo(float32(pts[0].X)-ox, float32(pts[0].Y)-oy)
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X)-ox, float32(p.Y)-oy)
	}
	z.ClosePath()
	z.Draw(output, r, image.NewUniform(col), image.Point{})
}

// drawHandle draws a vertex marker centered at c (canvas coordinates).
// Circles mark idle handles; a filled square marks the hovered one.
func drawHandle(output *image.RGBA, c geometry.Point2D, shape annotation.HandleShape) {
	if shape == annotation.HandleSquare {
		drawSquare(output, c, markerRadius, colorutil.White, colorutil.Black)
		return
	}
	drawRing(output, c, markerRadius, colorutil.White)
}

// drawRing draws a 2 pixel circle outline.
func drawRing(output *image.RGBA, c geometry.Point2D, r float64, col color.Color) {
	bounds := output.Bounds()

	minX := int(c.X - r - 1)
	maxX := int(c.X + r + 1)
	minY := int(c.Y - r - 1)
	maxY := int(c.Y + r + 1)

	r2 := r * r
	innerR2 := (r - 2) * (r - 2)

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - c.X
			dy := float64(y) - c.Y
			dist2 := dx*dx + dy*dy
			if dist2 <= r2 && dist2 >= innerR2 {
				output.Set(x, y, col)
			}
		}
	}
}

// drawSquare draws a filled square of half-size r with a 1 pixel border.
func drawSquare(output *image.RGBA, c geometry.Point2D, r int, fill, border color.Color) {
	cx, cy := int(c.X), int(c.Y)
	bounds := output.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			if x == cx-r || x == cx+r || y == cy-r || y == cy+r {
				output.Set(x, y, border)
			} else {
				output.Set(x, y, fill)
			}
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.Color, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		// Draw thick point
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}
