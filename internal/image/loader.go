// Package image provides image loading and directory enumeration.
package image

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Frame is one decoded image of the session.
type Frame struct {
	Path  string      // Canonical file path, also the annotation key
	Image image.Image // Decoded pixels, EXIF orientation applied
}

// Load decodes the image at path. EXIF orientation is applied so that
// annotations are made on the image as it is seen.
func Load(path string) (*Frame, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		// Fallback: lossless and animated WebP variants the pure Go decoder
		// does not handle.
		if !strings.EqualFold(filepath.Ext(path), ".webp") {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		img, err = loadWebP(path)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
	}
	return &Frame{Path: path, Image: img}, nil
}

func loadWebP(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return webp.Decode(f)
}

// Width returns the image width in pixels.
func (f *Frame) Width() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (f *Frame) Height() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dy()
}

// PixelAt returns the color at the specified pixel coordinates.
func (f *Frame) PixelAt(x, y int) color.Color {
	if f.Image == nil {
		return color.Black
	}
	bounds := f.Image.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return color.Black
	}
	return f.Image.At(x, y)
}

// List returns the supported images directly inside dir as canonical
// paths (absolute, symlinks resolved), sorted and without duplicates.
// Two links to the same file therefore share one set of annotations.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image dir: %w", err)
	}

	seen := make(map[string]bool)
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedFormat(e.Name()) {
			continue
		}
		p, err := Canonical(filepath.Join(dir, e.Name()))
		if err != nil {
			// Dangling link or a file removed while listing.
			continue
		}
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			continue
		}
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Canonical returns the absolute, symlink-free form of path.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return real, nil
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
