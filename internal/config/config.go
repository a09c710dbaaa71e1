// Package config holds the labeler configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/internal/app"
	"parcel-labeler/pkg/colorutil"
)

// Config holds the application configuration
type Config struct {
	Categories []CategoryConfig `json:"categories"`
	Drawing    DrawingConfig    `json:"drawing"`
	Display    DisplayConfig    `json:"display"`
}

// CategoryConfig is one palette entry. Its position in the list is the
// category code.
type CategoryConfig struct {
	Name  string `json:"name"`
	Color string `json:"color"` // #RRGGBB or #RRGGBBAA
}

// DrawingConfig holds configuration for the drawing state machine
type DrawingConfig struct {
	MinClicks    int     `json:"min_clicks"`
	HandleRadius float64 `json:"handle_radius"`
}

// DisplayConfig holds configuration for the canvas
type DisplayConfig struct {
	ZoomStep float64 `json:"zoom_step"`
	MinZoom  float64 `json:"min_zoom"`
	MaxZoom  float64 `json:"max_zoom"`
}

// Default returns a configuration with default values
func Default() *Config {
	cats := make([]CategoryConfig, len(annotation.DefaultPalette))
	for i, info := range annotation.DefaultPalette {
		cats[i] = CategoryConfig{Name: info.Name, Color: colorutil.FormatHex(info.Color)}
	}
	return &Config{
		Categories: cats,
		Drawing: DrawingConfig{
			MinClicks:    1,
			HandleRadius: 10,
		},
		Display: DisplayConfig{
			ZoomStep: 1.25,
			MinZoom:  0.05,
			MaxZoom:  16,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from
// the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return config, nil
}

// LoadOrDefault loads filename, falling back to defaults when it does not
// exist. Any other failure is returned.
func LoadOrDefault(filename string) (*Config, error) {
	config, err := LoadFromFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("categories cannot be empty")
	}
	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("categories[%d].name cannot be empty", i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("categories[%d].name %q is duplicated", i, cat.Name)
		}
		seen[cat.Name] = true
		if _, err := colorutil.ParseHex(cat.Color); err != nil {
			return fmt.Errorf("categories[%d].color: %w", i, err)
		}
	}

	if c.Drawing.MinClicks < 1 {
		return fmt.Errorf("drawing.min_clicks must be at least 1")
	}
	if c.Drawing.HandleRadius <= 0 {
		return fmt.Errorf("drawing.handle_radius must be positive")
	}

	if c.Display.ZoomStep <= 1 {
		return fmt.Errorf("display.zoom_step must be greater than 1")
	}
	if c.Display.MinZoom <= 0 || c.Display.MaxZoom < c.Display.MinZoom {
		return fmt.Errorf("display.min_zoom and display.max_zoom must satisfy 0 < min <= max")
	}

	return nil
}

// Palette builds the category palette. The config must be valid.
func (c *Config) Palette() annotation.Palette {
	p := make(annotation.Palette, 0, len(c.Categories))
	for _, cat := range c.Categories {
		col, err := colorutil.ParseHex(cat.Color)
		if err != nil {
			col = colorutil.Gray
		}
		p = append(p, annotation.CategoryInfo{Name: cat.Name, Color: col})
	}
	return p
}

// SessionOptions returns the session options described by the config.
func (c *Config) SessionOptions() app.Options {
	return app.Options{
		Palette:      c.Palette(),
		MinClicks:    c.Drawing.MinClicks,
		HandleRadius: c.Drawing.HandleRadius,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(dir, "parcel-labeler", "config.json")
}
