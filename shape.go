package eventstream

import "math"

// Shape is the geometry of one mark instance in local coordinates.
type Shape interface {
	// Bounds returns the axis-aligned bounds of the shape.
	Bounds() Rect
	// Contains reports whether (x, y) lies inside the filled shape.
	Contains(x, y float64) bool
	// Distance returns the distance from (x, y) to the shape; 0 when inside.
	Distance(x, y float64) float64
}

// HitRect is an axis-aligned rectangle (rect, text, image marks).
type HitRect struct {
	X, Y, Width, Height float64
}

// Bounds returns the rectangle itself.
func (r HitRect) Bounds() Rect { return Rect(r) }

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Distance returns the distance to the nearest edge, 0 when inside.
func (r HitRect) Distance(x, y float64) float64 {
	dx := math.Max(math.Max(r.X-x, 0), x-(r.X+r.Width))
	dy := math.Max(math.Max(r.Y-y, 0), y-(r.Y+r.Height))
	return math.Hypot(dx, dy)
}

// HitCircle is a circular area (symbol marks).
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Bounds returns the circle's bounding square.
func (c HitCircle) Bounds() Rect {
	return Rect{X: c.CenterX - c.Radius, Y: c.CenterY - c.Radius, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Distance returns the distance to the circumference, 0 when inside.
func (c HitCircle) Distance(x, y float64) float64 {
	return math.Max(math.Hypot(x-c.CenterX, y-c.CenterY)-c.Radius, 0)
}

// HitPoint is a zero-area point; combine it with a stroke width to make it
// pickable.
type HitPoint struct {
	X, Y float64
}

// Bounds returns a zero-size rectangle at the point.
func (p HitPoint) Bounds() Rect { return Rect{X: p.X, Y: p.Y} }

// Contains reports whether (x, y) is exactly the point.
func (p HitPoint) Contains(x, y float64) bool { return x == p.X && y == p.Y }

// Distance returns the euclidean distance to the point.
func (p HitPoint) Distance(x, y float64) float64 { return math.Hypot(x-p.X, y-p.Y) }

// HitPolygon is a closed simple polygon (area, arc, path marks). Either
// winding order is accepted; containment uses the even-odd rule.
type HitPolygon struct {
	Points []Vec2
}

// Bounds returns the bounding box of the vertices.
func (p HitPolygon) Bounds() Rect { return pointsBounds(p.Points) }

// Contains reports whether (x, y) lies inside the polygon or on its edge.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Points[i], p.Points[j]
		if segmentDistance(x, y, a, b) == 0 {
			return true
		}
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Distance returns the distance to the nearest edge, 0 when inside.
func (p HitPolygon) Distance(x, y float64) float64 {
	n := len(p.Points)
	switch {
	case n == 0:
		return math.Inf(1)
	case n == 1:
		return math.Hypot(x-p.Points[0].X, y-p.Points[0].Y)
	case n >= 3 && p.Contains(x, y):
		return 0
	}
	d := math.Inf(1)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		d = math.Min(d, segmentDistance(x, y, p.Points[i], p.Points[j]))
	}
	return d
}

// HitPolyline is an open path (line, rule, trail marks). It has no interior;
// points hit it only through the entry's stroke width.
type HitPolyline struct {
	Points []Vec2
}

// Bounds returns the bounding box of the vertices.
func (l HitPolyline) Bounds() Rect { return pointsBounds(l.Points) }

// Contains reports whether (x, y) lies exactly on the path.
func (l HitPolyline) Contains(x, y float64) bool { return l.Distance(x, y) == 0 }

// Distance returns the distance to the nearest segment.
func (l HitPolyline) Distance(x, y float64) float64 {
	switch len(l.Points) {
	case 0:
		return math.Inf(1)
	case 1:
		return math.Hypot(x-l.Points[0].X, y-l.Points[0].Y)
	}
	d := math.Inf(1)
	for i := 1; i < len(l.Points); i++ {
		d = math.Min(d, segmentDistance(x, y, l.Points[i-1], l.Points[i]))
	}
	return d
}

func segmentDistance(x, y float64, a, b Vec2) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(x-a.X, y-a.Y)
	}
	t := ((x-a.X)*dx + (y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(x-(a.X+t*dx), y-(a.Y+t*dy))
}

func pointsBounds(pts []Vec2) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
