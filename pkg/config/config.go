// Package config loads the application settings from a TOML file layered
// over compiled-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/chazu/blockletter/pkg/view"
	"github.com/pelletier/go-toml/v2"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "BLOCKLETTER_CONFIG"

// Window controls the desktop shell window.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Layout controls how the viewports share the window.
type Layout struct {
	SidebarWidth int    `toml:"sidebar_width"`
	ViewsSpacing int    `toml:"views_spacing"`
	Mode         string `toml:"mode"` // all, front, side, top, perspective
}

// Perspective configures the perspective camera.
type Perspective struct {
	FOV  float64    `toml:"fov"` // vertical field of view in degrees
	Near float64    `toml:"near"`
	Eye  [3]float64 `toml:"eye"`
}

// View configures how every viewport draws.
type View struct {
	Background  string      `toml:"background"`
	LineWidth   float64     `toml:"line_width"`
	OrthoExtent float64     `toml:"ortho_extent"` // world half-size mapped onto a viewport
	Perspective Perspective `toml:"perspective"`
}

// Engine configures scene script evaluation.
type Engine struct {
	EvalTimeout Duration `toml:"eval_timeout"`
}

// Log configures structured logging.
type Log struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Config is the complete application configuration.
type Config struct {
	Window Window `toml:"window"`
	Layout Layout `toml:"layout"`
	View   View   `toml:"view"`
	Engine Engine `toml:"engine"`
	Log    Log    `toml:"log"`
}

// Duration is a time.Duration written as a Go duration string ("5s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "Block Letters",
			Width:  1280,
			Height: 720,
		},
		Layout: Layout{
			SidebarWidth: 320,
			ViewsSpacing: 10,
			Mode:         "all",
		},
		View: View{
			Background:  "black",
			LineWidth:   1,
			OrthoExtent: 1,
			Perspective: Perspective{
				FOV:  60,
				Near: 0.1,
				Eye:  [3]float64{0, 0, 3},
			},
		},
		Engine: Engine{
			EvalTimeout: Duration{5 * time.Second},
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Parse decodes TOML over the defaults. Keys absent from data keep their
// default values; unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the file at path. An empty path or a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by $BLOCKLETTER_CONFIG.
func FromEnv() (Config, error) {
	return Load(os.Getenv(EnvPath))
}

// Validate checks ranges that would make the layout or cameras unusable.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Layout.SidebarWidth < 0 || c.Layout.ViewsSpacing < 0 {
		errs = append(errs, errors.New("layout sizes must not be negative"))
	}
	if _, err := view.ParseMode(c.Layout.Mode); err != nil {
		errs = append(errs, fmt.Errorf("layout: %w", err))
	}
	if c.View.OrthoExtent <= 0 {
		errs = append(errs, fmt.Errorf("ortho_extent %g must be positive", c.View.OrthoExtent))
	}
	if fov := c.View.Perspective.FOV; fov <= 0 || fov >= 180 {
		errs = append(errs, fmt.Errorf("perspective fov %g must be in (0, 180)", fov))
	}
	if c.View.Perspective.Near <= 0 {
		errs = append(errs, fmt.Errorf("perspective near %g must be positive", c.View.Perspective.Near))
	}
	if c.Engine.EvalTimeout.Duration <= 0 {
		errs = append(errs, errors.New("engine eval_timeout must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
