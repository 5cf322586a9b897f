package eventstream

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

type matchKind uint8

const (
	matchNone matchKind = iota
	matchExact
	matchPrefix
	matchGlob
	matchInstance
	matchFunc
)

// PathMatcher selects scene event targets by element path. Build one with
// Exact, Prefix, Glob, Instance or MatchFunc; the zero value is invalid.
type PathMatcher struct {
	kind     matchKind
	pattern  string
	segs     []string
	instance int
	fn       func(ElementRef) bool
}

// Exact matches every instance of the mark at p.
func Exact(p string) PathMatcher { return PathMatcher{kind: matchExact, pattern: p} }

// Prefix matches every element in the subtree rooted at p, p included.
func Prefix(p string) PathMatcher { return PathMatcher{kind: matchPrefix, pattern: p} }

// Glob matches paths segment by segment with path.Match syntax, so
// "chart.*.points" matches "chart.left.points". Segment counts must agree.
func Glob(pattern string) PathMatcher { return PathMatcher{kind: matchGlob, pattern: pattern} }

// Instance matches the single instance i of the mark at p.
func Instance(p string, i int) PathMatcher {
	return PathMatcher{kind: matchInstance, pattern: p, instance: i}
}

// MatchFunc matches the targets for which fn returns true.
func MatchFunc(fn func(ElementRef) bool) PathMatcher {
	return PathMatcher{kind: matchFunc, pattern: "func", fn: fn}
}

// compile validates m and prepares it for matching.
func (m PathMatcher) compile() (PathMatcher, error) {
	switch m.kind {
	case matchExact, matchPrefix, matchInstance:
		if _, err := splitPath(m.pattern); err != nil {
			return m, fmt.Errorf("%w: %v", ErrInvalidMatcher, err)
		}
		if m.kind == matchInstance && m.instance < 0 {
			return m, fmt.Errorf("%w: negative instance %d", ErrInvalidMatcher, m.instance)
		}
	case matchGlob:
		segs, err := splitPath(m.pattern)
		if err != nil {
			return m, fmt.Errorf("%w: %v", ErrInvalidMatcher, err)
		}
		for _, s := range segs {
			if _, err := path.Match(s, ""); err != nil {
				return m, fmt.Errorf("%w: glob %q: %v", ErrInvalidMatcher, m.pattern, err)
			}
		}
		m.segs = segs
	case matchFunc:
		if m.fn == nil {
			return m, fmt.Errorf("%w: nil match function", ErrInvalidMatcher)
		}
	default:
		return m, fmt.Errorf("%w: zero matcher", ErrInvalidMatcher)
	}
	return m, nil
}

// Match reports whether ref is selected. The zero ElementRef never matches.
func (m PathMatcher) Match(ref ElementRef) bool {
	if ref.IsZero() {
		return false
	}
	switch m.kind {
	case matchExact:
		return ref.path == m.pattern
	case matchPrefix:
		return ref.Within(m.pattern)
	case matchInstance:
		return ref.path == m.pattern && ref.Instance == m.instance
	case matchGlob:
		segs := m.segs
		if segs == nil {
			segs = strings.Split(m.pattern, PathSeparator)
		}
		got := ref.Path()
		if len(got) != len(segs) {
			return false
		}
		for i, s := range segs {
			if ok, _ := path.Match(s, got[i]); !ok {
				return false
			}
		}
		return true
	case matchFunc:
		return m.fn != nil && m.fn(ref)
	}
	return false
}

func (m PathMatcher) String() string {
	switch m.kind {
	case matchExact:
		return "exact(" + m.pattern + ")"
	case matchPrefix:
		return "prefix(" + m.pattern + ")"
	case matchGlob:
		return "glob(" + m.pattern + ")"
	case matchInstance:
		return "instance(" + m.pattern + "[" + strconv.Itoa(m.instance) + "])"
	case matchFunc:
		return "func"
	}
	return "none"
}

// Predicate is an arbitrary test on a scene event.
type Predicate func(SceneEvent) bool

// EventFilter decides which scene events a stream (or a between boundary)
// accepts. Every populated criterion must hold.
type EventFilter struct {
	// Types lists the accepted event kinds. It must not be empty.
	Types []EventType
	// Targets accepts events whose target matches any matcher. Untargeted
	// events fail a non-empty Targets.
	Targets []PathMatcher
	// Scope accepts events targeting the subtree rooted at this path.
	// Untargeted events fail a non-empty Scope.
	Scope string
	// Bounds accepts events whose pointer position lies inside the rect.
	Bounds *Rect
	// Files restricts FileChanged events to these paths. Other kinds are
	// unaffected.
	Files []string
	// Where lists extra predicates; all must return true.
	Where []Predicate
}

type compiledFilter struct {
	mask    eventMask
	targets []PathMatcher
	scope   string
	bounds  *Rect
	files   map[string]struct{}
	where   []Predicate
}

func (f EventFilter) compile() (compiledFilter, error) {
	if len(f.Types) == 0 {
		return compiledFilter{}, fmt.Errorf("%w: no event types", ErrInvalidConfig)
	}
	for _, t := range f.Types {
		if t >= numEventTypes {
			return compiledFilter{}, fmt.Errorf("%w: unknown event type %d", ErrInvalidConfig, t)
		}
	}
	c := compiledFilter{mask: maskOf(f.Types), scope: f.Scope}
	if f.Scope != "" {
		if _, err := splitPath(f.Scope); err != nil {
			return compiledFilter{}, fmt.Errorf("%w: scope: %v", ErrInvalidMatcher, err)
		}
	}
	for _, m := range f.Targets {
		cm, err := m.compile()
		if err != nil {
			return compiledFilter{}, err
		}
		c.targets = append(c.targets, cm)
	}
	if f.Bounds != nil {
		if f.Bounds.Width < 0 || f.Bounds.Height < 0 {
			return compiledFilter{}, fmt.Errorf("%w: negative bounds size", ErrInvalidConfig)
		}
		b := *f.Bounds
		c.bounds = &b
	}
	if len(f.Files) > 0 {
		c.files = make(map[string]struct{}, len(f.Files))
		for _, p := range f.Files {
			if p == "" {
				return compiledFilter{}, fmt.Errorf("%w: empty file path", ErrInvalidConfig)
			}
			c.files[canonicalPath(p)] = struct{}{}
		}
	}
	for _, w := range f.Where {
		if w == nil {
			return compiledFilter{}, fmt.Errorf("%w: nil predicate", ErrInvalidConfig)
		}
	}
	c.where = append(c.where, f.Where...)
	return c, nil
}

func (c *compiledFilter) match(ev SceneEvent) bool {
	if !c.mask.has(ev.Type) {
		return false
	}
	if c.scope != "" && !ev.Target.Within(c.scope) {
		return false
	}
	if len(c.targets) > 0 {
		hit := false
		for i := range c.targets {
			if c.targets[i].Match(ev.Target) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if c.bounds != nil && (!ev.HasPosition || !c.bounds.Contains(ev.X, ev.Y)) {
		return false
	}
	if c.files != nil && ev.Type == EventFileChanged {
		if _, ok := c.files[canonicalPath(ev.Path)]; !ok {
			return false
		}
	}
	for _, w := range c.where {
		if !w(ev) {
			return false
		}
	}
	return true
}

// fileList returns the canonical watched paths.
func (c *compiledFilter) fileList() []string {
	out := make([]string, 0, len(c.files))
	for p := range c.files {
		out = append(out, p)
	}
	return out
}

// canonicalPath makes p absolute and clean so watcher paths and configured
// paths compare equal.
func canonicalPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
