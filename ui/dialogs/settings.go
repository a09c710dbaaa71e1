// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"image/color"
	"strconv"

	"parcel-labeler/internal/config"
	"parcel-labeler/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// categoryRow holds the widgets editing one palette entry.
type categoryRow struct {
	name   *widget.Entry
	color  *widget.Entry
	swatch *fynecanvas.Rectangle
}

// SettingsDialog provides a property sheet for editing the configuration.
type SettingsDialog struct {
	cfg    *config.Config
	window fyne.Window

	categories []categoryRow

	// Drawing
	minClicksEntry    *widget.Entry
	handleRadiusEntry *widget.Entry

	// Display
	zoomStepEntry *widget.Entry
	minZoomEntry  *widget.Entry
	maxZoomEntry  *widget.Entry

	// Callback
	onSave func(*config.Config)
}

// NewSettingsDialog creates a settings dialog for cfg. cfg itself is never
// modified; onSave receives a validated copy.
func NewSettingsDialog(cfg *config.Config, window fyne.Window, onSave func(*config.Config)) *SettingsDialog {
	d := &SettingsDialog{
		cfg:    cfg,
		window: window,
		onSave: onSave,
	}
	return d
}

// Show displays the dialog.
func (d *SettingsDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		container.NewVScroll(content),
		func(save bool) {
			if !save {
				return
			}
			cfg, err := d.applyChanges()
			if err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			if d.onSave != nil {
				d.onSave(cfg)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(460, 600))
	dlg.Show()
}

func (d *SettingsDialog) createContent() fyne.CanvasObject {
	// Categories section
	grid := container.NewGridWithColumns(4,
		widget.NewLabel("Code"),
		widget.NewLabel("Name"),
		widget.NewLabel("Color"),
		widget.NewLabel(""),
	)
	d.categories = d.categories[:0]
	for i, cat := range d.cfg.Categories {
		row := categoryRow{
			name:   widget.NewEntry(),
			color:  widget.NewEntry(),
			swatch: fynecanvas.NewRectangle(color.Transparent),
		}
		row.name.SetText(cat.Name)
		row.color.SetText(cat.Color)
		row.swatch.SetMinSize(fyne.NewSize(40, 24))
		row.color.OnChanged = func(string) { updateSwatch(row) }
		updateSwatch(row)

		d.categories = append(d.categories, row)
		grid.Add(widget.NewLabel(fmt.Sprintf("%d", i)))
		grid.Add(row.name)
		grid.Add(row.color)
		grid.Add(row.swatch)
	}

	// Drawing section
	d.minClicksEntry = widget.NewEntry()
	d.minClicksEntry.SetText(fmt.Sprintf("%d", d.cfg.Drawing.MinClicks))
	d.handleRadiusEntry = widget.NewEntry()
	d.handleRadiusEntry.SetText(fmt.Sprintf("%.1f", d.cfg.Drawing.HandleRadius))

	drawingForm := widget.NewForm(
		widget.NewFormItem("Minimum clicks", d.minClicksEntry),
		widget.NewFormItem("Handle radius (px)", d.handleRadiusEntry),
	)

	// Display section
	d.zoomStepEntry = widget.NewEntry()
	d.zoomStepEntry.SetText(fmt.Sprintf("%.2f", d.cfg.Display.ZoomStep))
	d.minZoomEntry = widget.NewEntry()
	d.minZoomEntry.SetText(fmt.Sprintf("%.2f", d.cfg.Display.MinZoom))
	d.maxZoomEntry = widget.NewEntry()
	d.maxZoomEntry.SetText(fmt.Sprintf("%.2f", d.cfg.Display.MaxZoom))

	displayForm := widget.NewForm(
		widget.NewFormItem("Zoom step", d.zoomStepEntry),
		widget.NewFormItem("Min zoom", d.minZoomEntry),
		widget.NewFormItem("Max zoom", d.maxZoomEntry),
	)

	// Assemble cards
	return container.NewVBox(
		widget.NewCard("Categories", "Applied on next start", grid),
		widget.NewCard("Drawing", "Applied on next start", drawingForm),
		widget.NewCard("Display", "", displayForm),
	)
}

// applyChanges builds a new config from the entries. Fields that do not
// parse keep their previous value; the result must pass validation.
func (d *SettingsDialog) applyChanges() (*config.Config, error) {
	cfg := *d.cfg
	cfg.Categories = make([]config.CategoryConfig, len(d.categories))
	for i, row := range d.categories {
		cfg.Categories[i] = config.CategoryConfig{Name: row.name.Text, Color: row.color.Text}
	}

	if v, err := strconv.Atoi(d.minClicksEntry.Text); err == nil {
		cfg.Drawing.MinClicks = v
	}
	if v, err := strconv.ParseFloat(d.handleRadiusEntry.Text, 64); err == nil {
		cfg.Drawing.HandleRadius = v
	}
	if v, err := strconv.ParseFloat(d.zoomStepEntry.Text, 64); err == nil {
		cfg.Display.ZoomStep = v
	}
	if v, err := strconv.ParseFloat(d.minZoomEntry.Text, 64); err == nil {
		cfg.Display.MinZoom = v
	}
	if v, err := strconv.ParseFloat(d.maxZoomEntry.Text, 64); err == nil {
		cfg.Display.MaxZoom = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("settings not saved: %w", err)
	}
	return &cfg, nil
}

// updateSwatch shows the parsed color of a row, or nothing if it does not parse.
func updateSwatch(row categoryRow) {
	if c, err := colorutil.ParseHex(row.color.Text); err == nil {
		row.swatch.FillColor = colorutil.Opaque(c)
	} else {
		row.swatch.FillColor = color.Transparent
	}
	fynecanvas.Refresh(row.swatch)
}
