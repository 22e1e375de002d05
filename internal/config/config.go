// Package config loads the pad configuration file and builds the logger.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Galaxy-Pad/internal/pad"
)

// Config is the on-disk configuration (pad.yaml).
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Log      LogConfig      `yaml:"log"`
	Protocol ProtocolConfig `yaml:"protocol"`
	Palette  [][]int        `yaml:"palette"`
	Ripple   RippleConfig   `yaml:"ripple"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// WindowConfig sets the viewer window.
type WindowConfig struct {
	Title string  `yaml:"title"`
	Scale float64 `yaml:"scale"` // initial window size as a multiple of the 512px raster
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// ProtocolConfig sizes the worker's request and response channels.
type ProtocolConfig struct {
	Inbox  int `yaml:"inbox"`
	Outbox int `yaml:"outbox"`
}

// RippleConfig tunes the ripple engine's ring animation.
type RippleConfig struct {
	Frames int     `yaml:"frames"`
	Radius float64 `yaml:"radius"`
	Step   float64 `yaml:"step"` // seconds of tween time per frame
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window:   WindowConfig{Title: "Galaxy Pad", Scale: 1.5},
		Log:      LogConfig{Level: "info", Format: "text"},
		Protocol: ProtocolConfig{Inbox: 64, Outbox: 256},
		Ripple:   RippleConfig{Frames: 12, Radius: 48, Step: 1.0 / 12},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if _, err := c.LayerPalette(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Window.Scale < 0 {
		return fmt.Errorf("window scale must be >= 0, got %v", c.Window.Scale)
	}
	if c.Ripple.Frames < 0 || c.Ripple.Radius < 0 || c.Ripple.Step < 0 {
		return errors.New("ripple frames, radius and step must be >= 0")
	}
	return nil
}

// LayerPalette converts the configured palette. Every entry must carry all
// four channels; an empty palette selects pad.DefaultPalette.
func (c Config) LayerPalette() (pad.Palette, error) {
	if len(c.Palette) == 0 {
		return pad.DefaultPalette, nil
	}
	p := make(pad.Palette, len(c.Palette))
	for i, ch := range c.Palette {
		if len(ch) != 4 {
			return nil, fmt.Errorf("palette entry %d: want 4 channels (r,g,b,a), got %d", i, len(ch))
		}
		for _, v := range ch {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("palette entry %d: channel %d out of range", i, v)
			}
		}
		p[i] = color.RGBA{R: uint8(ch[0]), G: uint8(ch[1]), B: uint8(ch[2]), A: uint8(ch[3])}
	}
	return p, nil
}

// ParseLevel maps a level name onto slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// NewLogger builds the process logger writing to w.
func NewLogger(w io.Writer, lc LogConfig) (*slog.Logger, error) {
	lvl, err := ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
