package eventstream

import "math"

// Vec2 is a 2D vector used for positions and polygon vertices.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Inset grows (d > 0) or shrinks (d < 0) the rectangle by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (r Rect) min() [2]float64 { return [2]float64{r.X, r.Y} }
func (r Rect) max() [2]float64 { return [2]float64{r.X + r.Width, r.Y + r.Height} }

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft    MouseButton = iota // primary (left) mouse button
	MouseButtonRight                      // secondary (right) mouse button
	MouseButtonMiddle                     // middle mouse button (scroll wheel click)
	MouseButtonBack                       // browser-back side button
	MouseButtonForward                    // browser-forward side button
)

var buttonNames = [...]string{"left", "right", "middle", "back", "forward"}

func (b MouseButton) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return "unknown"
}

// ButtonSet is a bitmask of currently pressed mouse buttons.
type ButtonSet uint8

// Has reports whether b is in the set.
func (s ButtonSet) Has(b MouseButton) bool { return s&(1<<b) != 0 }

func (s ButtonSet) with(b MouseButton) ButtonSet    { return s | 1<<b }
func (s ButtonSet) without(b MouseButton) ButtonSet { return s &^ (1 << b) }

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Key names a keyboard key. Character keys use the character itself ("a",
// "1"); other keys use the names below.
type Key string

const (
	KeyShift      Key = "Shift"
	KeyControl    Key = "Control"
	KeyAlt        Key = "Alt"
	KeyMeta       Key = "Meta"
	KeyEscape     Key = "Escape"
	KeyEnter      Key = "Enter"
	KeySpace      Key = "Space"
	KeyTab        Key = "Tab"
	KeyBackspace  Key = "Backspace"
	KeyDelete     Key = "Delete"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// Modifier returns the modifier bit a key controls, or 0 for ordinary keys.
func (k Key) Modifier() KeyModifiers {
	switch k {
	case KeyShift:
		return ModShift
	case KeyControl:
		return ModCtrl
	case KeyAlt:
		return ModAlt
	case KeyMeta:
		return ModMeta
	}
	return 0
}

// WheelDeltaMode tells whether wheel deltas count lines or pixels.
type WheelDeltaMode uint8

const (
	WheelLines  WheelDeltaMode = iota // deltas are in scroll lines
	WheelPixels                       // deltas are in device pixels
)

// UpdateStatus tells the host what a handler's state change requires.
// Values are ordered: a rebuild implies a re-render.
type UpdateStatus uint8

const (
	UpdateNone    UpdateStatus = iota // no visible effect
	UpdateRender                      // redraw with the existing geometry
	UpdateRebuild                     // rebuild the geometry snapshot, then redraw
)

// Merge returns the dominant of s and other.
func (s UpdateStatus) Merge(other UpdateStatus) UpdateStatus {
	if other > s {
		return other
	}
	return s
}

// NeedsRender reports whether a redraw is required.
func (s UpdateStatus) NeedsRender() bool { return s >= UpdateRender }

// NeedsRebuild reports whether the geometry snapshot must be rebuilt.
func (s UpdateStatus) NeedsRebuild() bool { return s >= UpdateRebuild }

func (s UpdateStatus) String() string {
	switch s {
	case UpdateNone:
		return "none"
	case UpdateRender:
		return "render"
	case UpdateRebuild:
		return "rebuild"
	}
	return "unknown"
}
