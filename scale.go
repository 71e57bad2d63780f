package flowstroke

import "math"

// ScaleFunc maps a domain value (time or pitch) to a render coordinate.
// It must be pure.
type ScaleFunc func(float64) float64

// Projection bundles the two mapping collaborators used to turn HitPoints
// into CurvePoints. Clustering never sees projected coordinates.
type Projection struct {
	TimeToX  ScaleFunc
	PitchToY ScaleFunc
}

// Project maps points into render space. A nil scale function is treated as
// the identity.
func (p Projection) Project(points []HitPoint) []CurvePoint {
	tx := p.TimeToX
	if tx == nil {
		tx = identity
	}
	py := p.PitchToY
	if py == nil {
		py = identity
	}

	out := make([]CurvePoint, len(points))
	for i, h := range points {
		out[i] = CurvePoint{
			Pos:    Pt(tx(h.T), py(h.Pitch)),
			Energy: h.Energy,
		}
	}
	return out
}

func identity(v float64) float64 { return v }

// LinearScale maps [d0, d1] linearly onto [r0, r1]. A zero-width domain maps
// everything to r0.
func LinearScale(d0, d1, r0, r1 float64) ScaleFunc {
	span := d1 - d0
	if span == 0 {
		return func(float64) float64 { return r0 }
	}
	k := (r1 - r0) / span
	return func(v float64) float64 {
		return r0 + (v-d0)*k
	}
}

// LogScale maps [d0, d1] onto [r0, r1] logarithmically. Inputs below the
// smaller domain bound map as that bound. If either domain bound is not
// positive, LogScale returns LinearScale(d0, d1, r0, r1) instead.
func LogScale(d0, d1, r0, r1 float64) ScaleFunc {
	if d0 <= 0 || d1 <= 0 {
		return LinearScale(d0, d1, r0, r1)
	}
	lo := math.Log(d0)
	span := math.Log(d1) - lo
	if span == 0 {
		return func(float64) float64 { return r0 }
	}
	floor := math.Min(d0, d1)
	return func(v float64) float64 {
		if v < floor {
			v = floor
		}
		return r0 + (math.Log(v)-lo)/span*(r1-r0)
	}
}

// MIDIToHz converts a MIDI note number (A4 = 69) to a frequency in Hz.
func MIDIToHz(note float64) float64 {
	return 440 * math.Pow(2, (note-69)/12)
}

// PitchLogScale maps MIDI pitches to y through their frequency on a
// logarithmic axis, so equal intervals get equal spacing. Higher pitches map
// toward r1.
func PitchLogScale(lowNote, highNote, r0, r1 float64) ScaleFunc {
	hz := LogScale(MIDIToHz(lowNote), MIDIToHz(highNote), r0, r1)
	return func(note float64) float64 {
		return hz(MIDIToHz(note))
	}
}
