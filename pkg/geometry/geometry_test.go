package geometry

import (
	"math"
	"testing"
)

func TestTransformInverseRoundTrip(t *testing.T) {
	tr := Translation(12, -4).Compose(Translation(3, 3))
	inv, ok := tr.Inverse()
	if !ok {
		t.Fatal("translation should be invertible")
	}

	p := Point2D{X: 7.5, Y: 2}
	got := inv.Apply(tr.Apply(p))
	if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
		t.Errorf("inverse(apply(p)) = %v, want %v", got, p)
	}

	if want := (Point2D{X: 22.5, Y: 1}); tr.Apply(p) != want {
		t.Errorf("Apply() = %v, want %v", tr.Apply(p), want)
	}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name   string
		points []Point2D
		want   float64
	}{
		{"empty", nil, 0},
		{"segment", []Point2D{{0, 0}, {4, 0}}, 0},
		{"triangle", []Point2D{{0, 0}, {10, 0}, {5, 10}}, 50},
		{"clockwise square", []Point2D{{0, 0}, {0, 2}, {2, 2}, {2, 0}}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.points); got != tt.want {
				t.Errorf("PolygonArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"center", Point2D{5, 5}, true},
		{"outside right", Point2D{15, 5}, false},
		{"outside above", Point2D{5, -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, square); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if PointInPolygon(Point2D{1, 1}, square[:2]) {
		t.Error("degenerate polygon should contain nothing")
	}
}

func TestPerimeterAndConvexity(t *testing.T) {
	square := []Point2D{{0, 0}, {3, 0}, {3, 3}, {0, 3}}
	if got := Perimeter(square); got != 12 {
		t.Errorf("Perimeter() = %v, want 12", got)
	}
	if !IsConvex(square) {
		t.Error("square should be convex")
	}

	arrow := []Point2D{{0, 0}, {4, 2}, {0, 4}, {1, 2}}
	if IsConvex(arrow) {
		t.Error("arrow head should not be convex")
	}
}

func TestClonePointsIsIndependent(t *testing.T) {
	orig := []Point2D{{1, 2}, {3, 4}}
	cp := ClonePoints(orig)
	cp[0].X = 99

	if orig[0].X != 1 {
		t.Error("ClonePoints shares backing storage with the input")
	}
	if !EqualPoints(orig[1:], cp[1:]) {
		t.Error("EqualPoints on identical tails = false")
	}
	if EqualPoints(orig, cp) {
		t.Error("EqualPoints on differing lists = true")
	}
	if ClonePoints(nil) != nil {
		t.Error("ClonePoints(nil) should stay nil")
	}
}

func TestBoundingBoxAndCentroid(t *testing.T) {
	pts := []Point2D{{0, 0}, {10, 0}, {5, 10}}

	bb := BoundingBox(pts)
	if bb != (Rect{X: 0, Y: 0, Width: 10, Height: 10}) {
		t.Errorf("BoundingBox() = %+v", bb)
	}
	if !bb.Inflate(1).Contains(Point2D{-1, 11}) {
		t.Error("inflated box should contain its new corner")
	}
	if c := Centroid(pts); c != (Point2D{5, 10.0 / 3}) {
		t.Errorf("Centroid() = %v", c)
	}
}
