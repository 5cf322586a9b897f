package eventstream

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.DoubleClickWindow != 400*time.Millisecond {
		t.Errorf("DoubleClickWindow = %v, want 400ms", c.DoubleClickWindow)
	}
	if c.DoubleClickDistance != 5 || c.ClickTolerance != 5 {
		t.Errorf("distances = %v, %v; want 5, 5", c.DoubleClickDistance, c.ClickTolerance)
	}
	if c.DoubleClickPolicy != DoubleClickReplace {
		t.Errorf("DoubleClickPolicy = %q", c.DoubleClickPolicy)
	}
	if c.Logger == nil || c.Clock == nil {
		t.Error("Logger and Clock should default")
	}
}

func TestLoadConfig(t *testing.T) {
	data := []byte(`
double_click_window: 250ms
double_click_distance: 3
click_tolerance: 2.5
double_click_policy: both
hover_slop: 4
pointer_events: true
debug: true
`)
	c, err := LoadConfig(data)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := Config{
		DoubleClickWindow:   250 * time.Millisecond,
		DoubleClickDistance: 3,
		ClickTolerance:      2.5,
		DoubleClickPolicy:   DoubleClickBoth,
		HoverSlop:           4,
		PointerEvents:       true,
		Debug:               true,
	}
	if c.DoubleClickWindow != want.DoubleClickWindow ||
		c.DoubleClickDistance != want.DoubleClickDistance ||
		c.ClickTolerance != want.ClickTolerance ||
		c.DoubleClickPolicy != want.DoubleClickPolicy ||
		c.HoverSlop != want.HoverSlop ||
		c.PointerEvents != want.PointerEvents ||
		c.Debug != want.Debug {
		t.Errorf("LoadConfig = %+v, want %+v", c, want)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	c, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig(nil): %v", err)
	}
	if c.DoubleClickWindow != 0 {
		t.Errorf("empty document should leave fields zero, got %+v", c)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "double_click_windw: 1s"},
		{"bad duration", "double_click_window: soon"},
		{"negative window", "double_click_window: -1s"},
		{"negative tolerance", "click_tolerance: -2"},
		{"bad policy", "double_click_policy: triple"},
		{"not a mapping", "- a\n- b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig([]byte(tt.data)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	if err := os.WriteFile(path, []byte("hover_slop: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if c.HoverSlop != 2 {
		t.Errorf("HoverSlop = %v, want 2", c.HoverSlop)
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
