package app

import (
	"image/color"
	"testing"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/pkg/geometry"
)

// countingRenderer tracks how many items are on display and the cursor.
type countingRenderer struct {
	annotation.NopRenderer
	live   map[annotation.ItemID]bool
	cursor annotation.CursorKind
	scale  float64
}

func newCountingRenderer() *countingRenderer {
	return &countingRenderer{live: make(map[annotation.ItemID]bool), scale: 1}
}

func (r *countingRenderer) DisplayPolygon(pts []geometry.Point2D, col color.NRGBA) annotation.ItemID {
	id := r.NopRenderer.DisplayPolygon(pts, col)
	r.live[id] = true
	return id
}

func (r *countingRenderer) DisplayHandle(c geometry.Point2D, s annotation.HandleShape) annotation.ItemID {
	id := r.NopRenderer.DisplayHandle(c, s)
	r.live[id] = true
	return id
}

func (r *countingRenderer) RemoveDisplayed(id annotation.ItemID) {
	delete(r.live, id)
}

func (r *countingRenderer) SetCursorStyle(k annotation.CursorKind) {
	r.cursor = k
}

func (r *countingRenderer) MapPointerToImageSpace(raw geometry.Point2D) geometry.Point2D {
	return raw.Scale(1 / r.scale)
}

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func newTestSession(images ...string) (*Session, *countingRenderer) {
	r := newCountingRenderer()
	opts := DefaultOptions()
	opts.HandleRadius = 2
	s := NewSession(annotation.NewStore(), r, opts)
	s.Open(images, 0)
	return s, r
}

func drawTriangle(s *Session, c annotation.Category) {
	s.EnterDrawing(c)
	s.PointerDown(pt(0, 0))
	s.PointerDown(pt(10, 0))
	s.PointerDown(pt(5, 10))
}

func TestEndToEndNavigation(t *testing.T) {
	s, r := newTestSession("I1", "I2", "I3")
	triangle := []geometry.Point2D{pt(0, 0), pt(10, 0), pt(5, 10)}

	drawTriangle(s, 0)
	s.Navigate(Next)

	want := annotation.Categorized{0: {triangle}}
	if got := s.Store().Load("I1"); !got.Equal(want) {
		t.Errorf("I1 bucket = %v, want %v", got, want)
	}
	if s.Current() != "I2" {
		t.Fatalf("current = %q, want I2", s.Current())
	}
	if s.Layer().Len() != 0 || len(r.live) != 0 {
		t.Errorf("I2 displays %d polygons (%d items)", s.Layer().Len(), len(r.live))
	}
	if s.Drawer().Mode() != annotation.ModeIdle {
		t.Error("navigation should leave drawing mode")
	}

	s.Navigate(Previous)
	if s.Current() != "I1" {
		t.Fatalf("current = %q, want I1", s.Current())
	}
	polys := s.Layer().Polygons()
	if len(polys) != 1 {
		t.Fatalf("I1 redisplays %d polygons, want 1", len(polys))
	}
	if polys[0].Category() != 0 || polys[0].Color() != annotation.DefaultPalette.Color(0) {
		t.Errorf("redisplayed polygon category %d color %v", polys[0].Category(), polys[0].Color())
	}
	if !geometry.EqualPoints(polys[0].ImagePoints(), triangle) {
		t.Errorf("redisplayed %v, want %v", polys[0].ImagePoints(), triangle)
	}
	if got := s.Store().Load("I2"); len(got) != 0 {
		t.Errorf("I2 should have been committed empty, got %v", got)
	}
}

func TestNavigationClamps(t *testing.T) {
	s, _ := newTestSession("a", "b", "c")

	loads := 0
	s.On(EventImageLoaded, func(interface{}) { loads++ })

	s.Navigate(Previous)
	if s.Index() != 0 || s.Current() != "a" {
		t.Errorf("Previous at first image moved to %d (%s)", s.Index(), s.Current())
	}

	s.GoTo(2)
	s.Navigate(Next)
	if s.Index() != 2 || s.Current() != "c" {
		t.Errorf("Next at last image moved to %d (%s)", s.Index(), s.Current())
	}
	if loads != 3 {
		t.Errorf("image loaded %d times, want 3 (clamped moves still reload)", loads)
	}

	s.GoTo(-5)
	if s.Index() != 0 {
		t.Errorf("GoTo(-5) index = %d, want 0", s.Index())
	}
}

func TestClampedNavigationKeepsAnnotations(t *testing.T) {
	s, _ := newTestSession("only")
	drawTriangle(s, 2)

	s.Navigate(Next)

	if s.Layer().Len() != 1 {
		t.Errorf("clamped reload shows %d polygons, want 1", s.Layer().Len())
	}
	if got := s.Store().Load("only"); len(got[2]) != 1 {
		t.Errorf("store = %v, want one category-2 polygon", got)
	}
}

func TestRecommitDoesNotDuplicate(t *testing.T) {
	s, _ := newTestSession("a", "b")
	drawTriangle(s, 1)

	s.CommitCurrentAndClear()
	first := s.Store().Load("a")
	s.LoadImage("a")
	s.CommitCurrentAndClear()

	if got := s.Store().Load("a"); !got.Equal(first) || got.Count() != 1 {
		t.Errorf("second commit = %v, want %v", got, first)
	}
}

func TestZeroClickPolygonNotPersisted(t *testing.T) {
	s, _ := newTestSession("a", "b")
	s.EnterDrawing(3)
	s.PointerMove(pt(4, 4))
	s.ExitDrawing()
	s.Navigate(Next)

	if got := s.Store().Load("a"); len(got) != 0 {
		t.Errorf("abandoned polygon persisted: %v", got)
	}
}

func TestPointerMappedToImageSpace(t *testing.T) {
	s, r := newTestSession("a")
	r.scale = 2

	s.EnterDrawing(0)
	s.PointerDown(pt(20, 40))
	s.ExitDrawing()

	bucket := s.Layer().Bucket(0)
	if len(bucket) != 1 || bucket[0][0] != pt(10, 20) {
		t.Errorf("bucket = %v, want [[(10,20)]]", bucket)
	}
}

func TestDragHandleAndPolygon(t *testing.T) {
	s, r := newTestSession("a")
	drawTriangle(s, 0)
	s.ExitDrawing()

	// Drag the apex handle.
	s.PointerDown(pt(5, 10))
	s.PointerMove(pt(5, 12))
	s.PointerMove(pt(5, 15))
	s.PointerUp(pt(5, 15))

	want := []geometry.Point2D{pt(0, 0), pt(10, 0), pt(5, 15)}
	if got := s.Layer().Bucket(0); len(got) != 1 || !geometry.EqualPoints(got[0], want) {
		t.Fatalf("after handle drag bucket = %v, want [%v]", got, want)
	}

	// Drag the polygon by its interior.
	s.PointerDown(pt(5, 3))
	s.PointerMove(pt(6, 5))
	s.PointerUp(pt(6, 5))

	want = []geometry.Point2D{pt(1, 2), pt(11, 2), pt(6, 17)}
	if got := s.Layer().Bucket(0); !geometry.EqualPoints(got[0], want) {
		t.Errorf("after polygon drag bucket = %v, want [%v]", got, want)
	}
	for i, h := range s.Layer().Polygons()[0].Handles() {
		if h.Center() != want[i] {
			t.Errorf("handle %d at %v, want %v", i, h.Center(), want[i])
		}
	}
	if r.cursor != annotation.CursorPointingHand {
		t.Errorf("cursor over polygon = %v, want pointing hand", r.cursor)
	}

	// Moves after release only hover.
	s.PointerMove(pt(100, 100))
	if got := s.Layer().Bucket(0); !geometry.EqualPoints(got[0], want) {
		t.Error("polygon moved after pointer release")
	}
	if r.cursor != annotation.CursorDefault {
		t.Errorf("cursor off polygon = %v, want default", r.cursor)
	}
}

func TestHoverHighlightsHandle(t *testing.T) {
	s, _ := newTestSession("a")
	drawTriangle(s, 0)
	s.ExitDrawing()

	s.PointerMove(pt(10, 1))
	h := s.Layer().Polygons()[0].Handles()[1]
	if !h.Hovered() {
		t.Error("handle under pointer not hovered")
	}
	s.PointerMove(pt(50, 50))
	if h.Hovered() {
		t.Error("handle still hovered after pointer left")
	}
}

func TestDeleteSelected(t *testing.T) {
	s, r := newTestSession("a")
	drawTriangle(s, 0)
	s.EnterDrawing(1)
	s.PointerDown(pt(20, 20))
	s.PointerDown(pt(30, 20))
	s.PointerDown(pt(30, 30))
	s.ExitDrawing()

	var selected []*annotation.Polygon
	s.On(EventSelectionChanged, func(data interface{}) {
		p, _ := data.(*annotation.Polygon)
		selected = append(selected, p)
	})

	s.PointerDown(pt(28, 24))
	s.PointerUp(pt(28, 24))
	if s.Selected() == nil || s.Selected().Category() != 1 {
		t.Fatal("click inside polygon did not select it")
	}
	if !s.DeleteSelected() {
		t.Fatal("DeleteSelected() = false")
	}
	if s.DeleteSelected() {
		t.Error("DeleteSelected() with nothing selected = true")
	}

	if got := s.Layer().Categorized(); len(got) != 1 || len(got[0]) != 1 {
		t.Errorf("remaining polygons = %v, want only the category 0 triangle", got)
	}
	if len(selected) != 2 || selected[0] == nil || selected[1] != nil {
		t.Errorf("selection events = %v", selected)
	}
	// triangle: 1 polygon + 3 handles
	if len(r.live) != 4 {
		t.Errorf("%d items displayed, want 4", len(r.live))
	}
}

func TestClearImage(t *testing.T) {
	s, _ := newTestSession("a", "b")
	drawTriangle(s, 0)
	s.Navigate(Next)
	s.Navigate(Previous)

	s.ClearImage()

	if s.Layer().Len() != 0 {
		t.Error("ClearImage left polygons on display")
	}
	if got := s.Store().Load("a"); len(got) != 0 {
		t.Errorf("store after ClearImage = %v", got)
	}
	s.Navigate(Next)
	s.Navigate(Previous)
	if s.Layer().Len() != 0 {
		t.Error("cleared polygons came back")
	}
}

func TestEventsAndModes(t *testing.T) {
	s, r := newTestSession("a", "b")

	var modes []annotation.Mode
	s.On(EventModeChanged, func(data interface{}) {
		modes = append(modes, data.(annotation.Mode))
	})
	var committed []annotation.Categorized
	s.On(EventImageCommitted, func(data interface{}) {
		committed = append(committed, data.(annotation.Categorized))
	})

	s.EnterDrawing(4)
	if r.cursor != annotation.CursorCrosshair {
		t.Errorf("drawing cursor = %v, want crosshair", r.cursor)
	}
	s.PointerDown(pt(1, 1))
	s.Navigate(Next)

	if len(modes) != 2 || modes[0] != annotation.ModeDrawing || modes[1] != annotation.ModeIdle {
		t.Errorf("mode events = %v", modes)
	}
	if len(committed) != 1 || len(committed[0][4]) != 1 {
		t.Errorf("commit events = %v", committed)
	}
}

func TestEmptySession(t *testing.T) {
	s, _ := newTestSession()
	s.Navigate(Next)
	s.PointerDown(pt(1, 1))
	if s.EnterDrawing(0) {
		t.Error("EnterDrawing without an image = true")
	}
	if s.Current() != "" || s.Layer().Len() != 0 {
		t.Error("empty session changed state")
	}
}

func TestUndoThroughSession(t *testing.T) {
	s, _ := newTestSession("a")
	s.EnterDrawing(0)
	s.PointerDown(pt(1, 1))
	s.PointerDown(pt(2, 2))
	if !s.Undo() {
		t.Fatal("Undo() = false")
	}
	s.ExitDrawing()

	if got := s.Layer().Bucket(0); len(got) != 1 || len(got[0]) != 1 {
		t.Errorf("bucket after undo = %v, want one single-vertex polygon", got)
	}
}

func TestSelect(t *testing.T) {
	s, _ := newTestSession("a")
	drawTriangle(s, 0)

	if s.Select(s.Layer().Polygons()[0]) {
		t.Error("Select() while drawing = true")
	}
	s.ExitDrawing()

	p := s.Layer().Polygons()[0]
	if !s.Select(p) || s.Selected() != p {
		t.Fatal("Select() of finished polygon failed")
	}
	if s.Select(nil) {
		t.Error("Select(nil) = true")
	}

	stale := p
	s.Navigate(Next) // commits and redisplays new polygon objects
	if s.Select(stale) {
		t.Error("Select() of polygon from before reload = true")
	}
}
