package eventstream

import "math"

// Affine is a 2D affine matrix [a, b, c, d, tx, ty] mapping local element
// coordinates to snapshot coordinates. The zero Affine is treated as the
// identity so that entries without a group transform need no setup.
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// Identity is the identity transform.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine { return Affine{1, 0, 0, 1, tx, ty} }

// Scale returns a scale by (sx, sy) about the origin.
func Scale(sx, sy float64) Affine { return Affine{sx, 0, 0, sy, 0, 0} }

// Rotate returns a rotation by r radians about the origin.
func Rotate(r float64) Affine {
	sin, cos := math.Sincos(r)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// IsIdentity reports whether m leaves every point unchanged.
func (m Affine) IsIdentity() bool {
	return m == Affine{} || m == Identity
}

func (m Affine) norm() Affine {
	if m == (Affine{}) {
		return Identity
	}
	return m
}

// Multiply returns m * c: c is applied first, then m.
func (m Affine) Multiply(c Affine) Affine {
	p := m.norm()
	c = c.norm()
	return Affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// Invert returns the inverse of m. A singular matrix inverts to the identity.
func (m Affine) Invert() Affine {
	m = m.norm()
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	m = m.norm()
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyRect returns the axis-aligned bounds of r after transformation.
func (m Affine) ApplyRect(r Rect) Rect {
	if m.IsIdentity() {
		return r
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	corners := [4]Vec2{
		{r.X, r.Y}, {r.X + r.Width, r.Y},
		{r.X, r.Y + r.Height}, {r.X + r.Width, r.Y + r.Height},
	}
	for _, c := range corners {
		x, y := m.Apply(c.X, c.Y)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// scaleFactor is the geometric mean of the axis scales, used to convert
// local distances into snapshot units.
func (m Affine) scaleFactor() float64 {
	m = m.norm()
	det := math.Abs(m[0]*m[3] - m[2]*m[1])
	if det == 0 {
		return 1
	}
	return math.Sqrt(det)
}
