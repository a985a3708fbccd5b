// Package config loads renderer settings from a JSON file. Missing files and
// missing keys fall back to DefaultConfig.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"chosenoffset.com/tilecomp/internal/tilemap"
)

// Config holds all settings shared by the CLI subcommands
type Config struct {
	// Render types to include in whole-map renders; empty means all
	RenderTypes []string `json:"render_types"`

	// Whether cached composites bake in the current frame of animated tiles
	IncludeAnimatedTiles bool `json:"include_animated_tiles"`

	// Background fill as #rrggbb or #rrggbbaa; empty leaves it transparent
	Background string `json:"background"`

	Viewport    ViewportConfig `json:"viewport"`
	ScrollSpeed int            `json:"scroll_speed"` // Pixels per frame in the viewer

	AssetsDir   string `json:"assets_dir"`   // Spritesheet directory; defaults to the map's directory
	ThumbnailDB string `json:"thumbnail_db"` // sqlite file for persisted composites

	GIF   GIFConfig `json:"gif"`
	Scale float64   `json:"scale"`
}

// ViewportConfig is the window size of the interactive viewer
type ViewportConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GIFConfig controls animated exports
type GIFConfig struct {
	Frames  int `json:"frames"`
	FrameMs int `json:"frame_ms"`
	Colors  int `json:"colors"`
}

// DefaultConfig returns the settings used when no file is given
func DefaultConfig() *Config {
	return &Config{
		IncludeAnimatedTiles: true,
		Viewport: ViewportConfig{
			Width:  640,
			Height: 480,
		},
		ScrollSpeed: 4,
		ThumbnailDB: "thumbnails.db",
		GIF: GIFConfig{
			Frames:  20,
			FrameMs: 100,
			Colors:  256,
		},
		Scale: 1,
	}
}

// LoadConfig loads config from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// Validate checks values that JSON decoding cannot
func (c *Config) Validate() error {
	if _, err := c.Types(); err != nil {
		return err
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.GIF.Frames <= 0 {
		return fmt.Errorf("gif.frames must be positive, got %d", c.GIF.Frames)
	}
	if c.GIF.Colors < 2 || c.GIF.Colors > 256 {
		return fmt.Errorf("gif.colors must be in [2, 256], got %d", c.GIF.Colors)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	}
	return nil
}

// Types parses RenderTypes into a filter set
func (c *Config) Types() (tilemap.RenderTypeSet, error) {
	types := make([]tilemap.RenderType, 0, len(c.RenderTypes))
	for _, name := range c.RenderTypes {
		rt, err := tilemap.ParseRenderType(name)
		if err != nil {
			return 0, err
		}
		types = append(types, rt)
	}
	return tilemap.RenderTypesOf(types...), nil
}

// BackgroundColor parses Background; nil means transparent
func (c *Config) BackgroundColor() (color.Color, error) {
	if c.Background == "" {
		return nil, nil
	}
	return ParseColor(c.Background)
}

// FrameDelay is GIF.FrameMs as a duration
func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.GIF.FrameMs) * time.Millisecond
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	// color.RGBA is alpha-premultiplied.
	if c.A != 0xff {
		c.R = uint8(uint32(c.R) * uint32(c.A) / 0xff)
		c.G = uint8(uint32(c.G) * uint32(c.A) / 0xff)
		c.B = uint8(uint32(c.B) * uint32(c.A) / 0xff)
	}
	return c, nil
}
