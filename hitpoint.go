package flowstroke

// HitPoint is one detected musical event as delivered by the upstream
// analysis pipeline.
type HitPoint struct {
	// T is the onset time in seconds.
	T float64 `json:"t"`

	// Pitch is in semitone-like units. Clustering only compares differences,
	// so the reference of the scale is up to the caller.
	Pitch float64 `json:"pitch"`

	// DecayRatio is the residual energy fraction in [0, 1] at the note's
	// nominal end. Nil means no decay information, which reads as sustained.
	DecayRatio *float64 `json:"decayRatio,omitempty"`

	// Energy is the instantaneous loudness or confidence in [0, 1].
	Energy float64 `json:"energy"`
}

// Decay returns the decay ratio, or 1 when it is absent.
func (h HitPoint) Decay() float64 {
	if h.DecayRatio == nil {
		return 1
	}
	return *h.DecayRatio
}

// DecayRatio returns a pointer to r, for filling HitPoint.DecayRatio inline.
func DecayRatio(r float64) *float64 {
	return &r
}

// Flow is an ordered, non-empty run of points that reads as one melodic breath.
type Flow struct {
	Points []HitPoint `json:"points"`
}

// Len returns the number of points in the flow.
func (f Flow) Len() int {
	return len(f.Points)
}

// First returns the earliest point of the flow.
func (f Flow) First() HitPoint {
	return f.Points[0]
}

// Last returns the latest point of the flow.
func (f Flow) Last() HitPoint {
	return f.Points[len(f.Points)-1]
}

// Duration returns the time spanned by the flow in seconds.
func (f Flow) Duration() float64 {
	if len(f.Points) == 0 {
		return 0
	}
	return f.Last().T - f.First().T
}

// CurvePoint is a HitPoint projected into render space, or a sample of the
// smoothed curve between two such projections.
type CurvePoint struct {
	Pos    Point
	Energy float64
}
