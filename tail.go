package flowstroke

import (
	"math"

	"github.com/gogpu/flowstroke/internal/fmath"
)

// tailWidthRatios is the descending width pool for tail segments.
var tailWidthRatios = [...]float64{0.65, 0.45, 0.28, 0.15, 0.06}

// TailConfig controls the decay tail drawn after a flow.
type TailConfig struct {
	// DecayThreshold is the decay ratio a flow must exceed to get a tail.
	DecayThreshold float64 `json:"tailDecayThreshold"`

	// BaseSegmentLength is the length of one tail segment at decay 0.6.
	BaseSegmentLength float64 `json:"tailBaseSegmentLength"`

	// MaxSegments caps the number of tail segments.
	MaxSegments int `json:"tailMaxSegments"`
}

// DefaultTailConfig returns the default tail parameters.
func DefaultTailConfig() TailConfig {
	return TailConfig{
		DecayThreshold:    0.55,
		BaseSegmentLength: 18,
		MaxSegments:       5,
	}
}

// TailSegment is one piece of a tail, extending the flow past its last point.
type TailSegment struct {
	Start, End Point

	// WidthRatio scales the stroke width at the flow's end.
	WidthRatio float64
}

// TailSegmentCount returns how many segments a tail with the given decay
// ratio gets. It is zero at or below the threshold and non-decreasing in
// decayRatio above it.
func (c TailConfig) TailSegmentCount(decayRatio float64) int {
	if !(decayRatio > c.DecayThreshold) {
		return 0
	}
	t := 1.0
	if span := 1 - c.DecayThreshold; span > fmath.Epsilon {
		t = fmath.Saturate((decayRatio - c.DecayThreshold) / span)
	}
	return max(0, min(c.MaxSegments, 2+int(math.Floor(t*3))))
}

// SegmentLength returns the length of each tail segment for decayRatio.
func (c TailConfig) SegmentLength(decayRatio float64) float64 {
	return c.BaseSegmentLength * (0.7 + 0.5*decayRatio)
}

// GenerateTail returns the tail to append after a flow whose dense curve is
// curve and whose last note has the given decay ratio.
//
// The tail continues along the direction of the curve's final step and
// thins out with distance. Curves with fewer than two points, and decay
// ratios at or below DecayThreshold, get no tail.
func GenerateTail(curve []CurvePoint, decayRatio float64, cfg TailConfig) []TailSegment {
	if len(curve) < 2 {
		return nil
	}
	count := cfg.TailSegmentCount(decayRatio)
	if count == 0 {
		return nil
	}

	dir := endDirection(curve)
	step := dir.Mul(cfg.SegmentLength(decayRatio))
	origin := curve[len(curve)-1].Pos

	segments := make([]TailSegment, count)
	for k := range segments {
		ratio := tailWidthRatios[min(k, len(tailWidthRatios)-1)]
		segments[k] = TailSegment{
			Start:      origin.Add(step.Mul(float64(k))),
			End:        origin.Add(step.Mul(float64(k + 1))),
			WidthRatio: ratio,
		}
	}
	return segments
}

// endDirection returns the unit direction of the last non-degenerate step
// of the curve, or +X if every point coincides.
func endDirection(curve []CurvePoint) Vec2 {
	last := curve[len(curve)-1].Pos
	for i := len(curve) - 2; i >= 0; i-- {
		if d := last.Sub(curve[i].Pos).Normalize(); !d.IsZero() {
			return d
		}
	}
	return defaultDirection
}

// BuildTailMesh turns tail segments into a short ribbon whose half width
// follows the segment ratios relative to halfWidth. The first cross-section
// sits at the flow's end with the full half width. U is 1 throughout, since
// the tail lies past the end of the stroke.
func BuildTailMesh(segments []TailSegment, halfWidth, energy float64) Mesh {
	if len(segments) == 0 {
		return Mesh{}
	}

	dir := segments[0].End.Sub(segments[0].Start).NormalizeOr(defaultDirection)
	normal := dir.Perp()
	halfWidth = max(0, halfWidth)

	vertices := make([]RibbonVertex, 0, (len(segments)+1)*2)
	section := func(center Point, half float64) {
		for _, side := range [2]float64{-1, 1} {
			vertices = append(vertices, RibbonVertex{
				Center:    center,
				Normal:    normal,
				Side:      side,
				HalfWidth: half,
				Energy:    energy,
				U:         1,
			})
		}
	}

	section(segments[0].Start, halfWidth)
	for _, seg := range segments {
		section(seg.End, halfWidth*seg.WidthRatio)
	}

	return Mesh{
		Vertices: vertices,
		Indices:  stripIndices(len(segments) + 1),
	}
}
