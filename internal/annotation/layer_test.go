package annotation

import (
	"testing"

	"parcel-labeler/pkg/geometry"
)

func TestRehydrateMatchesStoredMapping(t *testing.T) {
	r := newFakeRenderer()
	layer := NewLayer(r, DefaultPalette)
	m := sampleMapping()

	layer.Rehydrate(m)

	if got := layer.Categorized(); !got.Equal(m) {
		t.Errorf("Categorized() after Rehydrate = %v, want %v", got, m)
	}
	if layer.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", layer.Len())
	}
	for _, p := range layer.Polygons() {
		if !p.Finished() {
			t.Error("rehydrated polygon is not finished")
		}
		if p.Color() != DefaultPalette.Color(p.Category()) {
			t.Errorf("category %d drawn in %v", p.Category(), p.Color())
		}
		checkAligned(t, p)
	}
	if _, handles := r.counts(); handles != 9 {
		t.Errorf("displayed %d handles, want 9", handles)
	}
}

func TestClearDestroysEverything(t *testing.T) {
	r := newFakeRenderer()
	layer := NewLayer(r, DefaultPalette)
	layer.Rehydrate(sampleMapping())
	layer.Begin(2).AddPoint(pt(1, 1))

	layer.Clear()

	if layer.Len() != 0 || len(r.items) != 0 {
		t.Errorf("after Clear: %d polygons, %d displayed items", layer.Len(), len(r.items))
	}
	if len(layer.Categorized()) != 0 {
		t.Error("Categorized() not empty after Clear")
	}
}

func TestCategorizedSkipsPolygonInProgress(t *testing.T) {
	layer := NewLayer(newFakeRenderer(), DefaultPalette)
	p := layer.Begin(0)
	p.AddPoint(pt(1, 1))

	if len(layer.Categorized()) != 0 {
		t.Error("unfinished polygon was gathered")
	}
	if layer.PolygonAt(pt(1, 1)) != nil || layer.HandleAt(pt(1, 1), 5) != nil {
		t.Error("unfinished polygon is hit-testable")
	}
}

func TestHitTesting(t *testing.T) {
	layer := NewLayer(newFakeRenderer(), DefaultPalette)
	layer.Rehydrate(Categorized{
		0: {{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}},
		1: {{pt(5, 5), pt(15, 5), pt(15, 15), pt(5, 15)}},
	})

	// Category 1 was rehydrated last, so it is on top where they overlap.
	if p := layer.PolygonAt(pt(7, 7)); p == nil || p.Category() != 1 {
		t.Errorf("PolygonAt overlap = %v, want category 1", p)
	}
	if p := layer.PolygonAt(pt(2, 2)); p == nil || p.Category() != 0 {
		t.Errorf("PolygonAt(2,2) = %v, want category 0", p)
	}
	if p := layer.PolygonAt(pt(50, 50)); p != nil {
		t.Error("PolygonAt outside all polygons should be nil")
	}

	h := layer.HandleAt(pt(11, 1), 2)
	if h == nil || h.Index() != 1 || h.Owner().Category() != 0 {
		t.Errorf("HandleAt(11,1) = %v, want vertex 1 of category 0", h)
	}
	if layer.HandleAt(pt(50, 50), 2) != nil {
		t.Error("HandleAt far from any vertex should be nil")
	}
}

func TestRemoveSinglePolygon(t *testing.T) {
	r := newFakeRenderer()
	layer := NewLayer(r, DefaultPalette)
	layer.Rehydrate(sampleMapping())

	victim := layer.PolygonAt(pt(25, 25))
	if victim == nil {
		t.Fatal("no polygon at (25,25)")
	}
	if !layer.Remove(victim) {
		t.Fatal("Remove() = false")
	}
	if layer.Remove(victim) {
		t.Error("second Remove() of the same polygon = true")
	}

	want := Categorized{
		0: {{pt(0, 0), pt(10, 0), pt(5, 10)}},
		3: {{pt(1, 2), pt(3, 4)}},
	}
	if got := layer.Categorized(); !got.Equal(want) {
		t.Errorf("Categorized() = %v, want %v", got, want)
	}
	if polys, handles := r.counts(); polys != 2 || handles != 5 {
		t.Errorf("displayed %d polygons %d handles, want 2 and 5", polys, handles)
	}
}

func TestBucketReflectsHandleDrag(t *testing.T) {
	layer := NewLayer(newFakeRenderer(), DefaultPalette)
	layer.Rehydrate(Categorized{0: {{pt(0, 0), pt(10, 0), pt(5, 10)}}})

	layer.HandleAt(pt(5, 10), 1).DragTo(pt(5, 20))

	want := []geometry.Point2D{pt(0, 0), pt(10, 0), pt(5, 20)}
	if got := layer.Bucket(0); len(got) != 1 || !geometry.EqualPoints(got[0], want) {
		t.Errorf("Bucket(0) = %v, want [%v]", got, want)
	}
}
