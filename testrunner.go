package eventstream

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Steps  int     `yaml:"steps,omitempty"`
	Button string  `yaml:"button,omitempty"`
	Key    string  `yaml:"key,omitempty"`
	DX     float64 `yaml:"dx,omitempty"`
	DY     float64 `yaml:"dy,omitempty"`
	Pixels bool    `yaml:"pixels,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
	Path   string  `yaml:"path,omitempty"`
	Ms     int     `yaml:"ms,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// Script is a parsed sequence of input actions for replay in tests and
// demos. Time only advances at "wait" steps, so events between two waits
// share a timestamp.
//
// Actions: move, press, release, click, drag, wheel, key, keydown, keyup,
// resize, focus, blur, close, file, wait.
type Script struct {
	steps   []scriptStep
	buttons []MouseButton
}

// LoadScript parses a YAML or JSON input script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidScript)
	}
	s := &Script{steps: f.Steps, buttons: make([]MouseButton, len(f.Steps))}
	for i, st := range f.Steps {
		b, err := parseButton(st.Button)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrInvalidScript, i, err)
		}
		s.buttons[i] = b
		switch st.Action {
		case "move", "press", "release", "click", "drag", "wheel", "resize",
			"focus", "blur", "close":
		case "key", "keydown", "keyup":
			if st.Key == "" {
				return nil, fmt.Errorf("%w: step %d: %s without key", ErrInvalidScript, i, st.Action)
			}
		case "file":
			if st.Path == "" {
				return nil, fmt.Errorf("%w: step %d: file without path", ErrInvalidScript, i)
			}
		case "wait":
			if st.Ms < 0 {
				return nil, fmt.Errorf("%w: step %d: negative wait", ErrInvalidScript, i)
			}
		default:
			return nil, fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidScript, i, st.Action)
		}
	}
	return s, nil
}

func parseButton(name string) (MouseButton, error) {
	if name == "" {
		return MouseButtonLeft, nil
	}
	for i, n := range buttonNames {
		if n == name {
			return MouseButton(i), nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", name)
}

// Events expands the script into raw events, the first stamped at start.
func (s *Script) Events(start time.Time) []RawEvent {
	var (
		out []RawEvent
		now = start
	)
	emit := func(es ...RawEvent) {
		for _, e := range es {
			out = append(out, e.At(now))
		}
	}
	for i, st := range s.steps {
		b := s.buttons[i]
		switch st.Action {
		case "move":
			emit(PointerMove(st.X, st.Y))
		case "press":
			emit(PointerDown(st.X, st.Y, b))
		case "release":
			emit(PointerUp(st.X, st.Y, b))
		case "click":
			emit(PointerMove(st.X, st.Y), PointerDown(st.X, st.Y, b), PointerUp(st.X, st.Y, b))
		case "drag":
			emit(PointerMove(st.FromX, st.FromY), PointerDown(st.FromX, st.FromY, b))
			for k := 1; k <= st.Steps; k++ {
				t := float64(k) / float64(st.Steps+1)
				emit(PointerMove(st.FromX+(st.ToX-st.FromX)*t, st.FromY+(st.ToY-st.FromY)*t))
			}
			emit(PointerMove(st.ToX, st.ToY), PointerUp(st.ToX, st.ToY, b))
		case "wheel":
			mode := WheelLines
			if st.Pixels {
				mode = WheelPixels
			}
			emit(Wheel(st.DX, st.DY, mode))
		case "key":
			emit(KeyDown(Key(st.Key)), KeyUp(Key(st.Key)))
		case "keydown":
			emit(KeyDown(Key(st.Key)))
		case "keyup":
			emit(KeyUp(Key(st.Key)))
		case "resize":
			emit(Resize(st.Width, st.Height))
		case "focus":
			emit(FocusChange(true))
		case "blur":
			emit(FocusChange(false))
		case "close":
			emit(Close())
		case "file":
			emit(FileChanged(st.Path, nil))
		case "wait":
			now = now.Add(time.Duration(st.Ms) * time.Millisecond)
		}
	}
	return out
}

// RunScript replays s through m, starting the script clock at start.
func RunScript[S any](s *Script, m *Manager[S], state *S, start time.Time) (UpdateStatus, error) {
	return m.DeliverAll(s.Events(start), state)
}
