// Package config holds the tunables of the outline strip.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned by Validate for values the renderer cannot use.
var ErrInvalid = errors.New("invalid outline configuration")

// Defaults used for keys absent from the configuration file.
const (
	DefaultStripWidth  = 150
	DefaultDebounceMs  = 100
	DefaultTrimColumns = 80
	DefaultAspectGuard = 1.5
)

// Config controls the geometry and timing of the outline strip.
type Config struct {
	// StripWidth is the pixel width of the strip along the editor's right edge.
	StripWidth int `toml:"strip_width"`

	// DebounceMs is how long invalidation requests are coalesced before the
	// cached bitmap is dropped.
	DebounceMs int `toml:"debounce_ms"`

	// TrimColumns caps the line width considered when scaling, in columns of
	// the printer's 'w' advance. Very long lines are cut off rather than
	// shrinking the whole outline.
	TrimColumns int `toml:"trim_columns"`

	// AspectGuard is the largest allowed ratio of vertical to horizontal
	// scale: the vertical scale never exceeds X/AspectGuard, so short
	// documents do not look stretched.
	AspectGuard float64 `toml:"aspect_guard"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		StripWidth:  DefaultStripWidth,
		DebounceMs:  DefaultDebounceMs,
		TrimColumns: DefaultTrimColumns,
		AspectGuard: DefaultAspectGuard,
	}
}

// Debounce returns DebounceMs as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Validate reports every field that is out of range.
func (c Config) Validate() error {
	var errs []error
	if c.StripWidth <= 0 {
		errs = append(errs, fmt.Errorf("%w: strip_width %d must be positive", ErrInvalid, c.StripWidth))
	}
	if c.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms %d must not be negative", ErrInvalid, c.DebounceMs))
	}
	if c.TrimColumns <= 0 {
		errs = append(errs, fmt.Errorf("%w: trim_columns %d must be positive", ErrInvalid, c.TrimColumns))
	}
	if c.AspectGuard <= 0 {
		errs = append(errs, fmt.Errorf("%w: aspect_guard %g must be positive", ErrInvalid, c.AspectGuard))
	}
	return errors.Join(errs...)
}

// Parse decodes TOML data over the defaults. Keys absent from data keep
// their default values.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing outline config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the TOML file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
