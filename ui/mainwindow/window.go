// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"sync"
	"time"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/internal/app"
	"parcel-labeler/internal/config"
	labelimage "parcel-labeler/internal/image"
	"parcel-labeler/internal/version"
	"parcel-labeler/pkg/colorutil"
	"parcel-labeler/ui/canvas"
	"parcel-labeler/ui/dialogs"
	"parcel-labeler/ui/panels"
	"parcel-labeler/ui/prefs"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	appTitle      = "Parcel Labeler"
	watchInterval = 2 * time.Second
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	session  *app.Session
	prefs    *prefs.Prefs
	canvas   *canvas.ImageCanvas
	polygons *panels.PolygonsPanel

	cfg        *config.Config
	configPath string

	statusBar   *widget.Label
	imageSelect *widget.Select
	rescanBtn   *widget.Button
	syncing     bool // Set while the select is updated from the session

	watcher *app.DirWatcher
	pending struct {
		sync.Mutex
		images []string
	}

	lastCategory annotation.Category

	fitToWindowItem *fyne.MenuItem
	fitToWindow     bool
}

// New creates the main window and the session that draws on its canvas.
// Settings edited in the window are saved to configPath.
func New(fyneApp fyne.App, store *annotation.Store, cfg *config.Config, configPath string, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:     win,
		app:        fyneApp,
		prefs:      p,
		cfg:        cfg,
		configPath: configPath,
	}

	mw.canvas = canvas.NewImageCanvas()
	mw.canvas.SetZoomLimits(cfg.Display.MinZoom, cfg.Display.MaxZoom, cfg.Display.ZoomStep)
	mw.session = app.NewSession(store, mw.canvas, cfg.SessionOptions())

	if c := annotation.Category(p.Int(prefs.KeyCategory, 0)); mw.session.Palette().Valid(c) {
		mw.lastCategory = c
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeys()

	mw.canvas.SetZoom(p.FloatWithFallback(prefs.KeyZoom, 1.0))
	mw.SetCloseIntercept(mw.onClose)
	return mw
}

// Session returns the session behind the window.
func (mw *MainWindow) Session() *app.Session {
	return mw.session
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Open a folder of images to start labeling")

	mw.imageSelect = widget.NewSelect(nil, func(string) {
		if mw.syncing {
			return
		}
		if i := mw.imageSelect.SelectedIndex(); i >= 0 {
			mw.session.GoTo(i)
		}
	})
	mw.imageSelect.PlaceHolder = "(no images)"

	mw.rescanBtn = widget.NewButton("Rescan", mw.onRescan)
	mw.rescanBtn.Disable()

	nav := container.NewBorder(nil, nil,
		container.NewHBox(
			widget.NewButton("Back", func() { mw.session.Navigate(app.Previous) }),
			widget.NewButton("Next", func() { mw.session.Navigate(app.Next) }),
		),
		mw.rescanBtn,
		mw.imageSelect,
	)

	canvasArea := container.NewBorder(
		container.NewVBox(nav, mw.createToolbar()), // top
		nil,                   // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		mw.createCategoryPanel(),          // left
		mw.createPolygonsPanel(),          // right
		canvasArea,                        // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// createCategoryPanel creates one button per palette entry plus the
// drawing controls.
func (mw *MainWindow) createCategoryPanel() fyne.CanvasObject {
	panel := container.NewVBox(widget.NewLabelWithStyle("Categories", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))

	for i, info := range mw.session.Palette() {
		c := annotation.Category(i)
		swatch := fynecanvas.NewRectangle(colorutil.Opaque(info.Color))
		swatch.SetMinSize(fyne.NewSize(14, 14))
		btn := widget.NewButton(categoryLabel(i, info.Name), func() { mw.enterCategory(c) })
		panel.Add(container.NewBorder(nil, nil, container.NewCenter(swatch), nil, btn))
	}

	panel.Add(widget.NewSeparator())
	panel.Add(widget.NewButton("Done (Esc)", mw.session.ExitDrawing))
	panel.Add(widget.NewButton("Undo vertex", mw.onUndo))
	panel.Add(widget.NewButton("Delete polygon", mw.onDelete))
	panel.Add(widget.NewButton("Clear image", mw.onClearImage))
	return container.NewPadded(panel)
}

// createPolygonsPanel creates the list of polygons on the current image.
func (mw *MainWindow) createPolygonsPanel() fyne.CanvasObject {
	mw.polygons = panels.NewPolygonsPanel(mw.session)
	width := fynecanvas.NewRectangle(color.Transparent)
	width.SetMinSize(fyne.NewSize(260, 0))
	return container.NewPadded(container.NewStack(width, mw.polygons.Container()))
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.onZoomOut),
		widget.NewButton("+", mw.onZoomIn),
		widget.NewButton("Fit", mw.onToggleFitToWindow),
		widget.NewButton("1:1", mw.onActualSize),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Folder...", mw.onOpenFolder),
		fyne.NewMenuItem("Rescan Folder", mw.onRescan),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo Vertex", mw.onUndo),
		fyne.NewMenuItem("Delete Polygon", mw.onDelete),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Image", mw.onClearImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", mw.onSettings),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers wires the canvas to the session and the session
// events to the window.
func (mw *MainWindow) setupEventHandlers() {
	mw.canvas.OnPointerDown(mw.session.PointerDown)
	mw.canvas.OnPointerMove(mw.session.PointerMove)
	mw.canvas.OnPointerUp(mw.session.PointerUp)
	mw.canvas.OnSecondaryClick(mw.session.ExitDrawing)
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.prefs.SetFloat(prefs.KeyZoom, zoom)
	})

	mw.session.On(app.EventImageLoaded, func(data interface{}) {
		id, _ := data.(string)
		mw.showImage(id)
	})
	mw.session.On(app.EventPolygonsChanged, func(interface{}) {
		mw.refreshStatus()
	})
	mw.session.On(app.EventModeChanged, func(interface{}) {
		mw.refreshStatus()
	})
	mw.session.On(app.EventImageCommitted, func(data interface{}) {
		if m, ok := data.(annotation.Categorized); ok {
			log.Printf("Committed %d polygons", m.Count())
		}
	})
}

// setupKeys registers the keyboard shortcuts.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyLeft:
			mw.session.Navigate(app.Previous)
		case fyne.KeyRight:
			mw.session.Navigate(app.Next)
		case fyne.KeyEscape:
			mw.session.ExitDrawing()
		case fyne.KeyA:
			mw.enterCategory(mw.lastCategory)
		case fyne.KeyX, fyne.KeyDelete:
			mw.onDelete()
		case fyne.KeyBackspace:
			mw.onUndo()
		case fyne.KeyEqual:
			mw.onZoomIn()
		case fyne.KeyMinus:
			mw.onZoomOut()
		default:
			if c, ok := categoryForKey(ev.Name); ok {
				mw.enterCategory(c)
			}
		}
	})
}

// OpenDir lists dir and opens its images, starting at start.
func (mw *MainWindow) OpenDir(dir string, start int) error {
	images, err := labelimage.List(dir)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		mw.updateStatus("No images in " + dir)
		return nil
	}

	mw.prefs.SetString(prefs.KeyLastDir, dir)
	mw.setImageOptions(images)
	mw.session.Open(images, start)
	mw.watch(dir, images)
	log.Printf("Opened %s: %d images", dir, len(images))
	return nil
}

// watch replaces the directory watcher.
func (mw *MainWindow) watch(dir string, images []string) {
	if mw.watcher != nil {
		mw.watcher.Stop()
	}
	mw.watcher = app.NewDirWatcher(dir, watchInterval)
	mw.watcher.ResetBaseline(images)
	mw.watcher.OnChange(func(images []string) {
		mw.pending.Lock()
		mw.pending.images = images
		mw.pending.Unlock()
		mw.rescanBtn.Enable()
		mw.updateStatus(fmt.Sprintf("Folder changed: %d images, press Rescan to update the list", len(images)))
	})
	mw.watcher.Start()
}

func (mw *MainWindow) setImageOptions(images []string) {
	names := make([]string, len(images))
	for i, p := range images {
		names[i] = fmt.Sprintf("%d. %s", i+1, filepath.Base(p))
	}
	mw.syncing = true
	mw.imageSelect.Options = names
	mw.imageSelect.ClearSelected()
	mw.syncing = false
	mw.imageSelect.Refresh()
}

// showImage decodes the current image onto the canvas.
func (mw *MainWindow) showImage(id string) {
	title := appTitle + " - " + filepath.Base(id)
	frame, err := labelimage.Load(id)
	if err != nil {
		log.Printf("Failed to load %s: %v", id, err)
		mw.canvas.SetImage(nil)
		dialog.ShowError(err, mw.Window)
	} else {
		mw.canvas.SetImage(frame.Image)
		title += fmt.Sprintf(" (%dx%d)", frame.Width(), frame.Height())
	}

	mw.syncing = true
	mw.imageSelect.SetSelectedIndex(mw.session.Index())
	mw.syncing = false

	mw.prefs.SetInt(prefs.KeyLastIndex, mw.session.Index())
	mw.SetTitle(title)
	mw.refreshStatus()
}

func (mw *MainWindow) enterCategory(c annotation.Category) {
	if !mw.session.EnterDrawing(c) {
		return
	}
	mw.lastCategory = c
	mw.prefs.SetInt(prefs.KeyCategory, int(c))
}

func (mw *MainWindow) refreshStatus() {
	d := mw.session.Drawer()
	mw.updateStatus(formatStatus(
		mw.session.Index(), len(mw.session.Images()),
		d.Mode(), mw.session.Palette().Name(d.Category()),
		annotation.Summarize(mw.session.Layer().Categorized()),
		mw.session.Palette(),
	))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// Menu action handlers

func (mw *MainWindow) onOpenFolder() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		if err := mw.OpenDir(uri.Path(), 0); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onRescan() {
	if mw.watcher == nil {
		return
	}
	mw.pending.Lock()
	images := mw.pending.images
	mw.pending.images = nil
	mw.pending.Unlock()
	mw.rescanBtn.Disable()

	if images == nil {
		var err error
		if images, err = labelimage.List(mw.watcher.Dir()); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
	}
	mw.watcher.ResetBaseline(images)

	start := indexOf(images, mw.session.Current())
	mw.setImageOptions(images)
	mw.session.Open(images, start)
}

func (mw *MainWindow) onUndo() {
	mw.session.Undo()
}

func (mw *MainWindow) onDelete() {
	if !mw.session.DeleteSelected() {
		mw.updateStatus("Click a polygon to select it first")
	}
}

func (mw *MainWindow) onClearImage() {
	if mw.session.Current() == "" {
		return
	}
	dialog.ShowConfirm("Clear image",
		"Delete every polygon on "+filepath.Base(mw.session.Current())+"?",
		func(ok bool) {
			if ok {
				mw.session.ClearImage()
			}
		}, mw.Window)
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	mw.fitToWindow = !mw.fitToWindow
	mw.canvas.SetFitToWindow(mw.fitToWindow)

	if mw.fitToWindow {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.fitToWindow {
		mw.fitToWindow = false
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onSettings() {
	dialogs.NewSettingsDialog(mw.cfg, mw.Window, func(cfg *config.Config) {
		if err := cfg.SaveToFile(mw.configPath); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		log.Printf("Saved settings to %s", mw.configPath)
		mw.cfg = cfg
		mw.canvas.SetZoomLimits(cfg.Display.MinZoom, cfg.Display.MaxZoom, cfg.Display.ZoomStep)
	}).Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Polygon labeling of parcel images.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

func (mw *MainWindow) onClose() {
	if mw.watcher != nil {
		mw.watcher.Stop()
	}
	mw.session.CommitCurrentAndClear()
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
	mw.Close()
}
