package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/internal/app"
	"parcel-labeler/pkg/geometry"
)

// ErrRefused is wrapped when the session refuses a command.
var ErrRefused = errors.New("command refused")

// Run executes cmds against s. It stops at the first refused command.
func Run(s *app.Session, cmds []Command) error {
	for _, cmd := range cmds {
		if err := step(s, cmd); err != nil {
			return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.Op, err)
		}
	}
	return nil
}

func step(s *app.Session, cmd Command) error {
	switch cmd.Op {
	case OpImages:
		s.Open(cmd.Images, 0)
	case OpEnter:
		c, ok := resolveCategory(s.Palette(), cmd.Category)
		if !ok {
			return fmt.Errorf("%w: unknown category %q", ErrRefused, cmd.Category)
		}
		if !s.EnterDrawing(c) {
			return fmt.Errorf("%w: no image open", ErrRefused)
		}
	case OpDown:
		s.PointerDown(cmd.Point)
	case OpMove:
		s.PointerMove(cmd.Point)
	case OpUp:
		s.PointerUp(cmd.Point)
	case OpExit:
		s.ExitDrawing()
	case OpUndo:
		if !s.Undo() {
			return fmt.Errorf("%w: nothing to undo", ErrRefused)
		}
	case OpNext:
		s.Navigate(app.Next)
	case OpPrev:
		s.Navigate(app.Previous)
	case OpGoto:
		s.GoTo(cmd.Index)
	case OpDelete:
		if !s.DeleteSelected() {
			return fmt.Errorf("%w: no polygon selected", ErrRefused)
		}
	case OpClear:
		s.ClearImage()
	case OpCommit:
		s.GoTo(s.Index())
	}
	return nil
}

// resolveCategory accepts a palette name or a decimal code.
func resolveCategory(p annotation.Palette, arg string) (annotation.Category, bool) {
	if c, ok := p.Lookup(arg); ok {
		return c, true
	}
	n, err := strconv.Atoi(arg)
	if err != nil || !p.Valid(annotation.Category(n)) {
		return 0, false
	}
	return annotation.Category(n), true
}

// ImageExport is the stored annotation of one image.
type ImageExport struct {
	Image    string                          `json:"image"`
	Polygons map[string][][]geometry.Point2D `json:"polygons"`
	Stats    []annotation.CategoryStats      `json:"stats,omitempty"`
}

// Export converts the store into per-image records keyed by category name,
// in image order. Categories outside the palette are keyed by their code.
func Export(store *annotation.Store, palette annotation.Palette) []ImageExport {
	images := store.Images()
	out := make([]ImageExport, 0, len(images))
	for _, id := range images {
		m := store.Load(id)
		rec := ImageExport{
			Image:    id,
			Polygons: make(map[string][][]geometry.Point2D, len(m)),
			Stats:    annotation.Summarize(m),
		}
		for _, c := range m.Categories() {
			name := palette.Name(c)
			if name == "" {
				name = strconv.Itoa(int(c))
			}
			rec.Polygons[name] = m[c]
		}
		out = append(out, rec)
	}
	return out
}

// WriteJSON writes the export of store as indented JSON.
func WriteJSON(w io.Writer, store *annotation.Store, palette annotation.Palette) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export(store, palette)); err != nil {
		return fmt.Errorf("failed to encode annotations: %w", err)
	}
	return nil
}
