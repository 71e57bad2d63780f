package flowstroke

// CubicBez represents a cubic Bezier curve with control points P0, P1, P2, P3.
// P0 is the start point, P1 and P2 are control points, P3 is the end point.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// CatmullRom builds the Bezier equivalent of the cardinal spline segment
// running from p1 to p2, with p0 and p3 as the outer neighbors.
//
// The control points sit at p1 + (p2-p0)*tension/6 and p2 - (p3-p1)*tension/6.
// tension=1 is the uniform Catmull-Rom spline; smaller values pull the control
// points toward the endpoints and sharpen the curve at each knot.
func CatmullRom(p0, p1, p2, p3 Point, tension float64) CubicBez {
	k := tension / 6
	return CubicBez{
		P0: p1,
		P1: p1.Add(p2.Sub(p0).Mul(k)),
		P2: p2.Add(p3.Sub(p1).Mul(-k)),
		P3: p2,
	}
}

// Eval evaluates the curve at parameter t (0 to 1).
// t=0 returns P0 and t=1 returns P3 exactly.
func (c CubicBez) Eval(t float64) Point {
	switch t {
	case 0:
		return c.P0
	case 1:
		return c.P3
	}

	mt := 1.0 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	// (1-t)^3 * P0 + 3(1-t)^2*t * P1 + 3(1-t)*t^2 * P2 + t^3 * P3
	return Point{
		X: mt3*c.P0.X + 3*mt2*t*c.P1.X + 3*mt*t2*c.P2.X + t3*c.P3.X,
		Y: mt3*c.P0.Y + 3*mt2*t*c.P1.Y + 3*mt*t2*c.P2.Y + t3*c.P3.Y,
	}
}
