package annotation

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"parcel-labeler/pkg/geometry"
)

// CategoryStats summarizes the polygons of one category.
type CategoryStats struct {
	Category  Category
	Count     int
	Convex    int
	TotalArea float64
	MeanArea  float64
	StdArea   float64 // Sample standard deviation; 0 for fewer than two polygons
	MaxArea   float64
}

// Summarize computes per-category area statistics, ordered by category.
func Summarize(m Categorized) []CategoryStats {
	var out []CategoryStats
	for _, c := range m.Categories() {
		polys := m[c]
		if len(polys) == 0 {
			continue
		}

		areas := make([]float64, len(polys))
		cs := CategoryStats{Category: c, Count: len(polys)}
		for i, pts := range polys {
			areas[i] = geometry.PolygonArea(pts)
			if geometry.IsConvex(pts) {
				cs.Convex++
			}
		}

		cs.TotalArea = floats.Sum(areas)
		cs.MaxArea = floats.Max(areas)
		if len(areas) > 1 {
			cs.MeanArea, cs.StdArea = stat.MeanStdDev(areas, nil)
		} else {
			cs.MeanArea = areas[0]
		}
		out = append(out, cs)
	}
	return out
}
