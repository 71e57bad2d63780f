package flowstroke

import "github.com/gogpu/flowstroke/internal/fmath"

// SmoothConfig controls curve densification.
type SmoothConfig struct {
	// Tension scales the Catmull-Rom control points. Smaller values give
	// sharper curvature at each input point.
	Tension float64 `json:"tension"`

	// SamplesPerSegment is the number of output steps between two input
	// points. Values below 1 are treated as 1.
	SamplesPerSegment int `json:"samplesPerSegment"`
}

// DefaultSmoothConfig returns the default smoothing parameters.
func DefaultSmoothConfig() SmoothConfig {
	return SmoothConfig{
		Tension:           1,
		SamplesPerSegment: 8,
	}
}

func (c SmoothConfig) samples() int {
	if c.SamplesPerSegment < 1 {
		return 1
	}
	return c.SamplesPerSegment
}

// Smooth expands sparse curve points into a dense sequence that passes
// exactly through every input.
//
// Input point j appears unchanged at output index j*SamplesPerSegment.
// Between two inputs the position follows a cardinal spline built from the
// neighboring points and the energy is interpolated linearly. Two points are
// joined by a straight line; zero or one point is returned as is.
func Smooth(points []CurvePoint, cfg SmoothConfig) []CurvePoint {
	n := len(points)
	if n < 2 {
		out := make([]CurvePoint, n)
		copy(out, points)
		return out
	}

	samples := cfg.samples()
	out := make([]CurvePoint, 0, (n-1)*samples+1)
	out = append(out, points[0])

	linear := n == 2
	for i := 0; i+1 < n; i++ {
		p1, p2 := points[i], points[i+1]

		var seg CubicBez
		if !linear {
			p0 := p1
			if i > 0 {
				p0 = points[i-1]
			}
			p3 := p2
			if i+2 < n {
				p3 = points[i+2]
			}
			seg = CatmullRom(p0.Pos, p1.Pos, p2.Pos, p3.Pos, cfg.Tension)
		}

		for k := 1; k < samples; k++ {
			t := float64(k) / float64(samples)
			var pos Point
			if linear {
				pos = p1.Pos.Lerp(p2.Pos, t)
			} else {
				pos = seg.Eval(t)
			}
			out = append(out, CurvePoint{
				Pos:    pos,
				Energy: fmath.Lerp(p1.Energy, p2.Energy, t),
			})
		}
		out = append(out, p2)
	}

	return out
}
