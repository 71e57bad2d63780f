package flowstroke

import (
	"math"

	"github.com/gogpu/flowstroke/internal/fmath"
)

// WobbleFunc returns a relative width perturbation for cross-section i.
// The ribbon width is multiplied by 1 + wobble. It must be deterministic.
type WobbleFunc func(i int, center Point) float64

// SineWobble returns the default brush wobble: a low-frequency sinusoid over
// position whose sign alternates with the index, scaled by amplitude.
func SineWobble(amplitude float64) WobbleFunc {
	return func(i int, center Point) float64 {
		sign := 1.0
		if i%2 == 1 {
			sign = -1
		}
		return sign * amplitude * (0.5 + 0.5*math.Sin(center.X*0.031+center.Y*0.017))
	}
}

// RibbonConfig controls the width profile of a ribbon.
type RibbonConfig struct {
	// WidthMin and WidthMax are the full stroke widths at energy 0 and 1.
	WidthMin float64 `json:"wMin"`
	WidthMax float64 `json:"wMax"`

	// EnergyGamma shapes the energy-to-width curve.
	EnergyGamma float64 `json:"energyGamma"`

	// MaxWidthToLocalScaleRatio bounds the width by the local point spacing.
	MaxWidthToLocalScaleRatio float64 `json:"maxWidthToLocalScaleRatio"`

	// WobbleAmplitude configures SineWobble when Wobble is nil.
	// Zero disables the wobble.
	WobbleAmplitude float64 `json:"wobbleAmplitude"`

	// Wobble overrides the default wobble.
	Wobble WobbleFunc `json:"-"`
}

// DefaultRibbonConfig returns the default ribbon width profile.
func DefaultRibbonConfig() RibbonConfig {
	return RibbonConfig{
		WidthMin:                  2,
		WidthMax:                  14,
		EnergyGamma:               0.8,
		MaxWidthToLocalScaleRatio: 2.2,
		WobbleAmplitude:           0.06,
	}
}

func (c RibbonConfig) wobble() WobbleFunc {
	if c.Wobble != nil {
		return c.Wobble
	}
	if c.WobbleAmplitude == 0 {
		return nil
	}
	return SineWobble(c.WobbleAmplitude)
}

// targetWidth maps energy to a full stroke width before clamping.
func (c RibbonConfig) targetWidth(energy float64) float64 {
	e := math.Pow(fmath.Saturate(energy), c.EnergyGamma)
	return fmath.Lerp(c.WidthMin, c.WidthMax, e)
}

// BuildRibbon converts a dense curve into a variable-width ribbon mesh.
//
// Fewer than two points produce an empty mesh; drawing a fallback dot is up
// to the caller. The width at every point is bounded by its local scale
// times MaxWidthToLocalScaleRatio, so the ribbon never grows wider than the
// spacing of the points it is built on.
func BuildRibbon(points []CurvePoint, cfg RibbonConfig) Mesh {
	n := len(points)
	if n < 2 {
		return Mesh{}
	}

	wobble := cfg.wobble()
	vertices := make([]RibbonVertex, 0, n*2)

	for i, p := range points {
		normal := tangentAt(points, i).Perp()

		width := cfg.targetWidth(p.Energy)
		if wobble != nil {
			width *= 1 + wobble(i, p.Pos)
		}
		limit := max(0, LocalScale(points, i)*cfg.MaxWidthToLocalScaleRatio)
		width = fmath.Clamp(width, 0, limit)
		half := width / 2

		u := float64(i) / float64(n-1)
		for _, side := range [2]float64{-1, 1} {
			vertices = append(vertices, RibbonVertex{
				Center:    p.Pos,
				Normal:    normal,
				Side:      side,
				HalfWidth: half,
				Energy:    p.Energy,
				U:         u,
			})
		}
	}

	return Mesh{
		Vertices: vertices,
		Indices:  stripIndices(n),
	}
}

// tangentAt estimates the unit tangent at point i from its immediate
// neighbors. At either end the point itself stands in for the missing
// neighbor. A zero-length tangent falls back to +X.
func tangentAt(points []CurvePoint, i int) Vec2 {
	prev := points[i].Pos
	if i > 0 {
		prev = points[i-1].Pos
	}
	next := points[i].Pos
	if i+1 < len(points) {
		next = points[i+1].Pos
	}
	return next.Sub(prev).NormalizeOr(defaultDirection)
}

// LocalScale returns the average distance from point i to the points two
// positions back and two forward, using the immediate neighbor where the
// second one does not exist. It is zero for a lone point.
func LocalScale(points []CurvePoint, i int) float64 {
	n := len(points)
	if i < 0 || i >= n {
		return 0
	}
	p := points[i].Pos

	var sum float64
	var count int
	switch {
	case i >= 2:
		sum += p.Distance(points[i-2].Pos)
		count++
	case i >= 1:
		sum += p.Distance(points[i-1].Pos)
		count++
	}
	switch {
	case i+2 < n:
		sum += p.Distance(points[i+2].Pos)
		count++
	case i+1 < n:
		sum += p.Distance(points[i+1].Pos)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
