package eventstream

import (
	"fmt"
	"strconv"
	"strings"
)

// PathSeparator joins group identifiers in an element path.
const PathSeparator = "."

// NoInstance is the instance index of marks that render a single instance.
const NoInstance = -1

// ElementRef identifies one rendered instance of a mark: the path of group
// identifiers from the root plus an instance index. ElementRef is comparable
// and can be used as a map key. The zero value refers to no element.
type ElementRef struct {
	path     string
	Instance int
}

// NewElementRef builds a reference from path segments. Segments must be
// non-empty and must not contain PathSeparator; invalid input yields the
// zero ElementRef.
func NewElementRef(instance int, segments ...string) ElementRef {
	if len(segments) == 0 {
		return ElementRef{}
	}
	for _, s := range segments {
		if !validSegment(s) {
			return ElementRef{}
		}
	}
	return ElementRef{path: strings.Join(segments, PathSeparator), Instance: instance}
}

// ParseElementRef parses "group.mark" or "group.mark[3]".
func ParseElementRef(s string) (ElementRef, error) {
	instance := NoInstance
	if i := strings.IndexByte(s, '['); i >= 0 {
		if !strings.HasSuffix(s, "]") {
			return ElementRef{}, fmt.Errorf("parse element ref %q: unterminated instance index", s)
		}
		n, err := strconv.Atoi(s[i+1 : len(s)-1])
		if err != nil || n < 0 {
			return ElementRef{}, fmt.Errorf("parse element ref %q: bad instance index", s)
		}
		instance = n
		s = s[:i]
	}
	segs, err := splitPath(s)
	if err != nil {
		return ElementRef{}, fmt.Errorf("parse element ref: %w", err)
	}
	return ElementRef{path: strings.Join(segs, PathSeparator), Instance: instance}, nil
}

// IsZero reports whether r refers to no element.
func (r ElementRef) IsZero() bool { return r.path == "" }

// Path returns the group identifiers from the root to the mark.
func (r ElementRef) Path() []string {
	if r.path == "" {
		return nil
	}
	return strings.Split(r.path, PathSeparator)
}

// PathString returns the path joined with PathSeparator.
func (r ElementRef) PathString() string { return r.path }

// Mark returns a reference to the mark itself, dropping the instance index.
func (r ElementRef) Mark() ElementRef { return ElementRef{path: r.path, Instance: NoInstance} }

// Within reports whether r lies in the subtree rooted at scope. An empty
// scope contains every element.
func (r ElementRef) Within(scope string) bool {
	if r.path == "" {
		return false
	}
	if scope == "" || r.path == scope {
		return true
	}
	return strings.HasPrefix(r.path, scope) && strings.HasPrefix(r.path[len(scope):], PathSeparator)
}

func (r ElementRef) String() string {
	if r.path == "" {
		return "<none>"
	}
	if r.Instance == NoInstance {
		return r.path
	}
	return r.path + "[" + strconv.Itoa(r.Instance) + "]"
}

func validSegment(s string) bool {
	return s != "" && !strings.Contains(s, PathSeparator)
}

// splitPath splits a dotted path, rejecting empty segments.
func splitPath(p string) ([]string, error) {
	if p == "" {
		return nil, fmt.Errorf("empty path")
	}
	segs := strings.Split(p, PathSeparator)
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("empty segment in path %q", p)
		}
	}
	return segs, nil
}
