package eventstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DoubleClickPolicy selects what a recognised double click emits.
type DoubleClickPolicy string

const (
	// DoubleClickReplace emits only DoubleClick for the second click.
	DoubleClickReplace DoubleClickPolicy = "replace"
	// DoubleClickBoth emits Click followed by DoubleClick for the second click.
	DoubleClickBoth DoubleClickPolicy = "both"
)

// Defaults applied to zero Config fields.
const (
	DefaultDoubleClickWindow   = 400 * time.Millisecond
	DefaultDoubleClickDistance = 5.0
	DefaultClickTolerance      = 5.0
)

// Config tunes the translator and dispatcher. The zero value is usable; zero
// fields take their defaults.
type Config struct {
	// DoubleClickWindow is the longest gap between two left clicks that still
	// counts as a double click. Default: 400ms.
	DoubleClickWindow time.Duration `yaml:"double_click_window"`
	// DoubleClickDistance is the furthest the pointer may travel between the
	// two clicks. Default: 5.
	DoubleClickDistance float64 `yaml:"double_click_distance"`
	// ClickTolerance is the furthest the pointer may travel between press and
	// release for the pair to be a click. Default: 5.
	ClickTolerance float64 `yaml:"click_tolerance"`
	// DoubleClickPolicy defaults to DoubleClickReplace.
	DoubleClickPolicy DoubleClickPolicy `yaml:"double_click_policy"`
	// HoverSlop, when positive, hovers the nearest instance within this
	// distance if nothing is directly under the pointer.
	HoverSlop float64 `yaml:"hover_slop"`
	// PointerEvents enables MouseDown, MouseUp and CursorMoved.
	PointerEvents bool `yaml:"pointer_events"`
	// Debug enables per-event debug logging.
	Debug bool `yaml:"debug"`

	// Logger overrides slog.Default().
	Logger *slog.Logger `yaml:"-"`
	// Clock stamps raw events that arrive without a time. Default: time.Now.
	Clock func() time.Time `yaml:"-"`
	// Metrics is optional.
	Metrics *Metrics `yaml:"-"`
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	var c Config
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.DoubleClickWindow == 0 {
		c.DoubleClickWindow = DefaultDoubleClickWindow
	}
	if c.DoubleClickDistance == 0 {
		c.DoubleClickDistance = DefaultDoubleClickDistance
	}
	if c.ClickTolerance == 0 {
		c.ClickTolerance = DefaultClickTolerance
	}
	if c.DoubleClickPolicy == "" {
		c.DoubleClickPolicy = DoubleClickReplace
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.DoubleClickWindow < 0:
		return fmt.Errorf("%w: negative double_click_window %v", ErrInvalidConfig, c.DoubleClickWindow)
	case badDistance(c.DoubleClickDistance):
		return fmt.Errorf("%w: double_click_distance %v", ErrInvalidConfig, c.DoubleClickDistance)
	case badDistance(c.ClickTolerance):
		return fmt.Errorf("%w: click_tolerance %v", ErrInvalidConfig, c.ClickTolerance)
	case badDistance(c.HoverSlop):
		return fmt.Errorf("%w: hover_slop %v", ErrInvalidConfig, c.HoverSlop)
	}
	switch c.DoubleClickPolicy {
	case "", DoubleClickReplace, DoubleClickBoth:
	default:
		return fmt.Errorf("%w: unknown double_click_policy %q", ErrInvalidConfig, c.DoubleClickPolicy)
	}
	return nil
}

func badDistance(d float64) bool { return d < 0 || math.IsNaN(d) || math.IsInf(d, 0) }

// LoadConfig parses a YAML (or JSON) document into a Config. Unknown keys
// are rejected. Durations use Go syntax such as "400ms". An empty document
// yields the zero Config.
func LoadConfig(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfigFile reads and parses the config file at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(data)
}
