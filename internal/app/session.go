// Package app provides the image session: navigation across the image list,
// commit and reload of annotations, and pointer dispatch.
package app

import (
	"log"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/pkg/geometry"
)

// Direction selects the neighbouring image for Navigate.
type Direction int

const (
	Previous Direction = iota
	Next
)

// EventType identifies different session events.
type EventType int

const (
	EventImageLoaded      EventType = iota // data: image id (string)
	EventImageCommitted                    // data: annotation.Categorized
	EventModeChanged                       // data: annotation.Mode
	EventPolygonsChanged                   // data: nil
	EventSelectionChanged                  // data: *annotation.Polygon or nil
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Options configures a Session.
type Options struct {
	Palette      annotation.Palette
	MinClicks    int
	HandleRadius float64 // Hit radius of vertex handles in image pixels
}

// DefaultOptions returns the options used when no config file is present.
func DefaultOptions() Options {
	return Options{
		Palette:      annotation.DefaultPalette,
		MinClicks:    1,
		HandleRadius: 10,
	}
}

// gesture is a pointer drag in progress while not drawing.
type gesture struct {
	handle  *annotation.Handle
	polygon *annotation.Polygon
	last    geometry.Point2D
}

// Session is the only component that touches both the store and the drawer.
// All methods must be called from one goroutine.
type Session struct {
	store    *annotation.Store
	renderer annotation.Renderer
	layer    *annotation.Layer
	drawer   *annotation.Drawer
	opts     Options

	images  []string
	index   int
	current string

	grab     *gesture
	hovered  *annotation.Handle
	selected *annotation.Polygon

	listeners map[EventType][]EventListener
}

// NewSession creates a session drawing through r and committing into store.
func NewSession(store *annotation.Store, r annotation.Renderer, opts Options) *Session {
	if len(opts.Palette) == 0 {
		opts.Palette = annotation.DefaultPalette
	}
	layer := annotation.NewLayer(r, opts.Palette)
	return &Session{
		store:     store,
		renderer:  r,
		layer:     layer,
		drawer:    annotation.NewDrawer(layer, opts.MinClicks),
		opts:      opts,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// Store returns the store the session commits into.
func (s *Session) Store() *annotation.Store { return s.store }

// Layer returns the polygons displayed for the current image.
func (s *Session) Layer() *annotation.Layer { return s.layer }

// Drawer returns the drawing state machine.
func (s *Session) Drawer() *annotation.Drawer { return s.drawer }

// Palette returns the category palette.
func (s *Session) Palette() annotation.Palette { return s.opts.Palette }

// Images returns the image list.
func (s *Session) Images() []string {
	out := make([]string, len(s.images))
	copy(out, s.images)
	return out
}

// Index returns the position of the current image in the list.
func (s *Session) Index() int { return s.index }

// Current returns the identifier of the image on display, or "".
func (s *Session) Current() string { return s.current }

// Selected returns the selected polygon, or nil.
func (s *Session) Selected() *annotation.Polygon { return s.selected }

// Open replaces the image list and loads the image at start (clamped).
// Annotations of the outgoing image are committed first.
func (s *Session) Open(images []string, start int) {
	if s.current != "" {
		s.CommitCurrentAndClear()
	}
	s.images = append([]string(nil), images...)
	s.index = 0
	s.current = ""
	if len(s.images) == 0 {
		log.Printf("Session: opened empty image list")
		return
	}
	s.index = s.clamp(start)
	s.LoadImage(s.images[s.index])
}

// CommitCurrentAndClear finishes any drawing, writes the displayed polygons
// of the current image into the store and clears the display.
func (s *Session) CommitCurrentAndClear() {
	s.endGesture()
	s.setHovered(nil)
	s.setSelected(nil)
	if s.drawer.Mode() == annotation.ModeDrawing {
		s.drawer.Exit()
		s.Emit(EventModeChanged, annotation.ModeIdle)
	}

	m := s.layer.Categorized()
	if s.current != "" {
		s.store.Commit(s.current, m)
		log.Printf("Session: committed %d polygons for %s", m.Count(), s.current)
		s.Emit(EventImageCommitted, m)
	}
	s.layer.Clear()
	s.Emit(EventPolygonsChanged, nil)
}

// LoadImage makes id the current image and redisplays its stored polygons.
// It does not commit; callers that leave an image go through Navigate/GoTo.
func (s *Session) LoadImage(id string) {
	s.current = id
	m := s.store.Load(id)
	s.layer.Rehydrate(m)
	s.renderer.SetCursorStyle(annotation.CursorDefault)
	log.Printf("Session: loaded %s (%d polygons)", id, m.Count())
	s.Emit(EventImageLoaded, id)
	s.Emit(EventPolygonsChanged, nil)
}

// Navigate moves to the next or previous image. The index is clamped to the
// list; the current image is always committed and reloaded, even when the
// index does not change.
func (s *Session) Navigate(dir Direction) {
	target := s.index
	switch dir {
	case Next:
		target++
	case Previous:
		target--
	}
	s.GoTo(target)
}

// GoTo commits the current image and loads the image at index (clamped).
func (s *Session) GoTo(index int) {
	if len(s.images) == 0 {
		return
	}
	s.CommitCurrentAndClear()
	s.index = s.clamp(index)
	s.LoadImage(s.images[s.index])
}

func (s *Session) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(s.images)-1 {
		return len(s.images) - 1
	}
	return i
}

// EnterDrawing starts a polygon of category c.
func (s *Session) EnterDrawing(c annotation.Category) bool {
	if s.current == "" {
		return false
	}
	s.endGesture()
	s.setHovered(nil)
	s.setSelected(nil)
	if !s.drawer.Enter(c) {
		return false
	}
	s.renderer.SetCursorStyle(annotation.CursorCrosshair)
	s.Emit(EventModeChanged, annotation.ModeDrawing)
	s.Emit(EventPolygonsChanged, nil)
	return true
}

// ExitDrawing returns to idle, keeping the polygon in progress if it has
// enough clicks.
func (s *Session) ExitDrawing() {
	if s.drawer.Mode() != annotation.ModeDrawing {
		return
	}
	s.drawer.Exit()
	s.renderer.SetCursorStyle(annotation.CursorDefault)
	s.Emit(EventModeChanged, annotation.ModeIdle)
	s.Emit(EventPolygonsChanged, nil)
}

// Undo removes the last clicked vertex of the polygon in progress.
func (s *Session) Undo() bool {
	return s.drawer.Undo()
}

// DeleteSelected removes the selected polygon from the current image.
func (s *Session) DeleteSelected() bool {
	p := s.selected
	if p == nil {
		return false
	}
	s.endGesture()
	s.setHovered(nil)
	s.setSelected(nil)
	if !s.layer.Remove(p) {
		return false
	}
	s.Emit(EventPolygonsChanged, nil)
	return true
}

// Select makes p the selected polygon. p must be a finished polygon of the
// current image and the session must not be drawing.
func (s *Session) Select(p *annotation.Polygon) bool {
	if p == nil || !p.Finished() || s.drawer.Mode() == annotation.ModeDrawing {
		return false
	}
	for _, other := range s.layer.Polygons() {
		if other == p {
			s.setSelected(p)
			return true
		}
	}
	return false
}

// ClearImage deletes every polygon of the current image and commits the
// now empty image.
func (s *Session) ClearImage() {
	if s.current == "" {
		return
	}
	s.CommitCurrentAndClear()
	s.store.Commit(s.current, annotation.Categorized{})
	s.Emit(EventImageCommitted, annotation.Categorized{})
}

// PointerDown handles a button press at raw (display) coordinates.
func (s *Session) PointerDown(raw geometry.Point2D) {
	if s.current == "" {
		return
	}
	p := s.renderer.MapPointerToImageSpace(raw)
	if s.drawer.PointerDown(p) {
		s.Emit(EventPolygonsChanged, nil)
		return
	}

	if h := s.layer.HandleAt(p, s.opts.HandleRadius); h != nil {
		s.grab = &gesture{handle: h, last: p}
		s.setSelected(h.Owner())
		return
	}
	if poly := s.layer.PolygonAt(p); poly != nil {
		s.grab = &gesture{polygon: poly, last: p}
		s.setSelected(poly)
		return
	}
	s.setSelected(nil)
}

// PointerMove handles pointer motion, pressed or not.
func (s *Session) PointerMove(raw geometry.Point2D) {
	if s.current == "" {
		return
	}
	p := s.renderer.MapPointerToImageSpace(raw)
	if s.drawer.PointerMove(p) {
		s.Emit(EventPolygonsChanged, nil)
		return
	}

	if g := s.grab; g != nil {
		switch {
		case g.handle != nil:
			g.handle.DragTo(p)
		case g.polygon != nil:
			d := p.Sub(g.last)
			g.polygon.Translate(d.X, d.Y)
		}
		g.last = p
		s.Emit(EventPolygonsChanged, nil)
		return
	}

	s.hover(p)
}

// PointerUp ends a drag.
func (s *Session) PointerUp(raw geometry.Point2D) {
	if s.grab == nil {
		return
	}
	s.endGesture()
	s.hover(s.renderer.MapPointerToImageSpace(raw))
}

func (s *Session) endGesture() {
	s.grab = nil
}

// hover updates handle highlighting and the cursor for an idle pointer at p.
func (s *Session) hover(p geometry.Point2D) {
	h := s.layer.HandleAt(p, s.opts.HandleRadius)
	s.setHovered(h)
	switch {
	case h != nil, s.layer.PolygonAt(p) != nil:
		s.renderer.SetCursorStyle(annotation.CursorPointingHand)
	default:
		s.renderer.SetCursorStyle(annotation.CursorDefault)
	}
}

func (s *Session) setHovered(h *annotation.Handle) {
	if s.hovered == h {
		return
	}
	if s.hovered != nil {
		s.hovered.SetHovered(false)
	}
	s.hovered = h
	if h != nil {
		h.SetHovered(true)
	}
}

func (s *Session) setSelected(p *annotation.Polygon) {
	if s.selected == p {
		return
	}
	s.selected = p
	s.Emit(EventSelectionChanged, p)
}
