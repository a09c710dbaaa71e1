// Package canvas provides the annotation canvas: a zoomable image view that
// displays polygons and vertex handles and reports pointer events.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/pkg/geometry"
)

const (
	defaultMinZoom  = 0.05
	defaultMaxZoom  = 16.0
	defaultZoomStep = 1.25
)

// ImageCanvas displays one image with its annotation overlay. It implements
// annotation.Renderer.
type ImageCanvas struct {
	widget.BaseWidget

	overlay *Overlay

	// Guarded by mu: read by the raster draw.
	mu         sync.Mutex
	img        image.Image
	zoom       float64
	scaled     *image.RGBA // img at zoom, cached between frames
	scaledZoom float64

	minZoom, maxZoom, zoomStep float64

	cursor annotation.CursorKind

	raster  *fynecanvas.Raster
	scroll  *zoomScroll
	content *pointerContent
	imgSize fyne.Size

	fitToWindow    bool
	lastScrollSize fyne.Size

	onPointerDown func(raw geometry.Point2D)
	onPointerMove func(raw geometry.Point2D)
	onPointerUp   func(raw geometry.Point2D)
	onSecondary   func()
	onZoomChange  func(zoom float64)
}

var _ annotation.Renderer = (*ImageCanvas)(nil)

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// pointerContent wraps the raster and turns mouse input into pointer events.
// Positions are relative to the content, which already includes the scroll
// offset.
type pointerContent struct {
	widget.BaseWidget
	canvas  *ImageCanvas
	raster  *fynecanvas.Raster
	pressed bool
	last    fyne.Position
}

var (
	_ desktop.Mouseable  = (*pointerContent)(nil)
	_ desktop.Hoverable  = (*pointerContent)(nil)
	_ desktop.Cursorable = (*pointerContent)(nil)
	_ fyne.Draggable     = (*pointerContent)(nil)
)

func newPointerContent(ic *ImageCanvas, raster *fynecanvas.Raster) *pointerContent {
	pc := &pointerContent{
		canvas: ic,
		raster: raster,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *pointerContent) CreateRenderer() fyne.WidgetRenderer {
	return &pointerContentRenderer{content: pc}
}

func (pc *pointerContent) MinSize() fyne.Size {
	return pc.raster.MinSize()
}

func toPoint(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
}

func (pc *pointerContent) MouseDown(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		pc.pressed = true
		pc.last = ev.Position
		if pc.canvas.onPointerDown != nil {
			pc.canvas.onPointerDown(toPoint(ev.Position))
		}
	case desktop.MouseButtonSecondary:
		if pc.canvas.onSecondary != nil {
			pc.canvas.onSecondary()
		}
	}
}

func (pc *pointerContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	pc.release(ev.Position)
}

func (pc *pointerContent) release(pos fyne.Position) {
	if !pc.pressed {
		return
	}
	pc.pressed = false
	if pc.canvas.onPointerUp != nil {
		pc.canvas.onPointerUp(toPoint(pos))
	}
}

func (pc *pointerContent) MouseIn(ev *desktop.MouseEvent) {
	pc.MouseMoved(ev)
}

func (pc *pointerContent) MouseMoved(ev *desktop.MouseEvent) {
	pc.move(ev.Position)
}

func (pc *pointerContent) MouseOut() {}

// Dragged is delivered instead of MouseMoved while the button is held.
func (pc *pointerContent) Dragged(ev *fyne.DragEvent) {
	pc.move(ev.Position)
}

func (pc *pointerContent) DragEnd() {
	pc.release(pc.last)
}

func (pc *pointerContent) move(pos fyne.Position) {
	pc.last = pos
	if pc.canvas.onPointerMove != nil {
		pc.canvas.onPointerMove(toPoint(pos))
	}
}

// Cursor implements desktop.Cursorable.
func (pc *pointerContent) Cursor() desktop.Cursor {
	switch pc.canvas.cursor {
	case annotation.CursorCrosshair:
		return desktop.CrosshairCursor
	case annotation.CursorPointingHand:
		return desktop.PointerCursor
	default:
		return desktop.DefaultCursor
	}
}

type pointerContentRenderer struct {
	content *pointerContent
}

func (r *pointerContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *pointerContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *pointerContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *pointerContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *pointerContentRenderer) Destroy() {}

// NewImageCanvas creates a new image canvas.
func NewImageCanvas() *ImageCanvas {
	ic := &ImageCanvas{
		overlay:  NewOverlay(),
		zoom:     1.0,
		minZoom:  defaultMinZoom,
		maxZoom:  defaultMaxZoom,
		zoomStep: defaultZoomStep,
		imgSize:  fyne.NewSize(400, 300),
	}

	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)

	ic.content = newPointerContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)

	ic.ExtendBaseWidget(ic)
	return ic
}

// Container returns the canvas container for embedding in layouts.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic.scroll
}

// SetZoomLimits sets the zoom range and the factor of one zoom step.
func (ic *ImageCanvas) SetZoomLimits(minZoom, maxZoom, step float64) {
	ic.minZoom, ic.maxZoom, ic.zoomStep = minZoom, maxZoom, step
	ic.SetZoom(ic.GetZoom())
}

// SetImage sets the image to display. Nil clears the canvas.
func (ic *ImageCanvas) SetImage(img image.Image) {
	ic.mu.Lock()
	ic.img = img
	ic.scaled = nil
	ic.mu.Unlock()
	ic.updateContentSize()
	if ic.fitToWindow {
		ic.FitToWindow()
	}
}

// SetZoom sets the zoom level.
func (ic *ImageCanvas) SetZoom(zoom float64) {
	if zoom < ic.minZoom {
		zoom = ic.minZoom
	}
	if zoom > ic.maxZoom {
		zoom = ic.maxZoom
	}
	ic.mu.Lock()
	ic.zoom = zoom
	ic.mu.Unlock()
	ic.updateContentSize()

	if ic.onZoomChange != nil {
		ic.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (ic *ImageCanvas) GetZoom() float64 {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.zoom
}

// ZoomIn increases the zoom level.
func (ic *ImageCanvas) ZoomIn() {
	ic.SetZoom(ic.GetZoom() * ic.zoomStep)
}

// ZoomOut decreases the zoom level.
func (ic *ImageCanvas) ZoomOut() {
	ic.SetZoom(ic.GetZoom() / ic.zoomStep)
}

// FitToWindow adjusts zoom to fit the image in the visible area.
func (ic *ImageCanvas) FitToWindow() {
	bounds := ic.imageBounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}

	viewSize := ic.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(bounds.Dx())
	zoomY := float64(viewSize.Height) / float64(bounds.Dy())

	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}

	ic.SetZoom(zoom * 0.95) // Leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ic *ImageCanvas) SetFitToWindow(fit bool) {
	ic.fitToWindow = fit
	if fit {
		ic.FitToWindow()
	}
}

// CheckResize checks if scroll container was resized and auto-fits if enabled.
func (ic *ImageCanvas) CheckResize(size fyne.Size) {
	if !ic.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != ic.lastScrollSize {
		ic.lastScrollSize = size
		ic.FitToWindow()
	}
}

// OnPointerDown sets the callback for primary button presses.
// Positions are raw canvas coordinates; see MapPointerToImageSpace.
func (ic *ImageCanvas) OnPointerDown(callback func(raw geometry.Point2D)) {
	ic.onPointerDown = callback
}

// OnPointerMove sets the callback for pointer motion, pressed or not.
func (ic *ImageCanvas) OnPointerMove(callback func(raw geometry.Point2D)) {
	ic.onPointerMove = callback
}

// OnPointerUp sets the callback for primary button releases.
func (ic *ImageCanvas) OnPointerUp(callback func(raw geometry.Point2D)) {
	ic.onPointerUp = callback
}

// OnSecondaryClick sets the callback for secondary button presses.
func (ic *ImageCanvas) OnSecondaryClick(callback func()) {
	ic.onSecondary = callback
}

// OnZoomChange sets a callback for zoom changes.
func (ic *ImageCanvas) OnZoomChange(callback func(zoom float64)) {
	ic.onZoomChange = callback
}

// DisplayPolygon implements annotation.Renderer.
func (ic *ImageCanvas) DisplayPolygon(points []geometry.Point2D, col color.NRGBA) annotation.ItemID {
	id := ic.overlay.DisplayPolygon(points, col)
	ic.Refresh()
	return id
}

// UpdatePolygon implements annotation.Renderer.
func (ic *ImageCanvas) UpdatePolygon(id annotation.ItemID, points []geometry.Point2D) {
	ic.overlay.UpdatePolygon(id, points)
	ic.Refresh()
}

// DisplayHandle implements annotation.Renderer.
func (ic *ImageCanvas) DisplayHandle(center geometry.Point2D, shape annotation.HandleShape) annotation.ItemID {
	id := ic.overlay.DisplayHandle(center, shape)
	ic.Refresh()
	return id
}

// UpdateHandle implements annotation.Renderer.
func (ic *ImageCanvas) UpdateHandle(id annotation.ItemID, center geometry.Point2D, shape annotation.HandleShape) {
	ic.overlay.UpdateHandle(id, center, shape)
	ic.Refresh()
}

// RemoveDisplayed implements annotation.Renderer.
func (ic *ImageCanvas) RemoveDisplayed(id annotation.ItemID) {
	ic.overlay.RemoveDisplayed(id)
	ic.Refresh()
}

// SetCursorStyle implements annotation.Renderer. The new cursor shows on
// the next pointer motion.
func (ic *ImageCanvas) SetCursorStyle(kind annotation.CursorKind) {
	ic.cursor = kind
}

// MapPointerToImageSpace implements annotation.Renderer.
func (ic *ImageCanvas) MapPointerToImageSpace(raw geometry.Point2D) geometry.Point2D {
	return raw.Scale(1 / ic.GetZoom())
}

// Refresh refreshes the canvas display.
func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

func (ic *ImageCanvas) imageBounds() image.Rectangle {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if ic.img == nil {
		return image.Rectangle{}
	}
	b := ic.img.Bounds()
	return image.Rect(0, 0, b.Dx(), b.Dy())
}

// updateContentSize updates the content size based on image and zoom.
func (ic *ImageCanvas) updateContentSize() {
	bounds := ic.imageBounds()
	zoom := ic.GetZoom()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		ic.imgSize = fyne.NewSize(400, 300)
	} else {
		width := float32(float64(bounds.Dx()) * zoom)
		height := float32(float64(bounds.Dy()) * zoom)
		ic.imgSize = fyne.NewSize(width, height)
	}

	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(output, output.Bounds(), image.Black, image.Point{}, draw.Src)

	ic.mu.Lock()
	zoom := ic.zoom
	scaled := ic.scaledImage()
	ic.mu.Unlock()

	if scaled != nil {
		draw.Draw(output, output.Bounds(), scaled, image.Point{}, draw.Src)
	}
	drawOverlay(output, ic.overlay.snapshot(), zoom)
	return output
}

// scaledImage returns the image resampled to the current zoom, rebuilding
// the cache when zoom or image changed. Caller holds mu.
func (ic *ImageCanvas) scaledImage() *image.RGBA {
	if ic.img == nil {
		return nil
	}
	if ic.scaled != nil && ic.scaledZoom == ic.zoom {
		return ic.scaled
	}
	ic.scaled = scaleImage(ic.img, ic.zoom)
	ic.scaledZoom = ic.zoom
	return ic.scaled
}

// scaleImage resamples src by zoom with bilinear filtering.
func scaleImage(src image.Image, zoom float64) *image.RGBA {
	sb := src.Bounds()
	w := int(float64(sb.Dx()) * zoom)
	h := int(float64(sb.Dy()) * zoom)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: ic}
}

type imageCanvasRenderer struct {
	canvas *ImageCanvas
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
	r.canvas.CheckResize(size)
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *imageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *imageCanvasRenderer) Destroy() {}
