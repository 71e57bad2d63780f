package flowstroke

import (
	"sort"
	"strings"
)

// ClusterConfig holds the musical-rest heuristics that decide where one flow
// ends and the next begins.
type ClusterConfig struct {
	// EndingDecayThreshold marks a note as finished when its decay ratio
	// falls below it.
	EndingDecayThreshold float64 `json:"endingDecayThreshold"`

	// GapAfterEndingSec is the silence that must follow a finished note
	// before a new flow starts.
	GapAfterEndingSec float64 `json:"gapAfterEndingSec"`

	// LongRestSec always splits, regardless of decay.
	LongRestSec float64 `json:"longRestSec"`

	// PitchDropSplitSemitones splits on a downward jump of at least this
	// size. Zero or negative disables the rule.
	PitchDropSplitSemitones float64 `json:"pitchDropSplitSemitones"`

	// MaxBreathDurationSec caps the span of a single flow.
	MaxBreathDurationSec float64 `json:"maxBreathDurationSec"`
}

// DefaultClusterConfig returns the default clustering thresholds.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		EndingDecayThreshold:    0.2,
		GapAfterEndingSec:       0.55,
		LongRestSec:             1.0,
		PitchDropSplitSemitones: 4,
		MaxBreathDurationSec:    10,
	}
}

// SplitReason is a set of rules that fired at a flow boundary.
type SplitReason uint8

const (
	// SplitEnding: the previous note decayed and enough silence followed.
	SplitEnding SplitReason = 1 << iota
	// SplitLongRest: the gap exceeded LongRestSec.
	SplitLongRest
	// SplitPitchDrop: the pitch fell by at least PitchDropSplitSemitones.
	SplitPitchDrop
	// SplitMaxBreath: the flow would exceed MaxBreathDurationSec.
	SplitMaxBreath
)

// String returns the fired rules joined by "|", or "none".
func (r SplitReason) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	for _, named := range []struct {
		bit  SplitReason
		name string
	}{
		{SplitEnding, "ending"},
		{SplitLongRest, "long-rest"},
		{SplitPitchDrop, "pitch-drop"},
		{SplitMaxBreath, "max-breath"},
	} {
		if r&named.bit != 0 {
			parts = append(parts, named.name)
		}
	}
	return strings.Join(parts, "|")
}

// Has reports whether all bits of other are set in r.
func (r SplitReason) Has(other SplitReason) bool {
	return r&other == other
}

// splitReason evaluates every rule for the step prev -> cur. The rules are
// independent; any one of them is enough to split.
func (c ClusterConfig) splitReason(flowStart, prev, cur HitPoint) SplitReason {
	gap := cur.T - prev.T
	breath := cur.T - flowStart.T
	drop := prev.Pitch - cur.Pitch

	var r SplitReason
	if prev.Decay() < c.EndingDecayThreshold && gap > c.GapAfterEndingSec {
		r |= SplitEnding
	}
	if gap > c.LongRestSec {
		r |= SplitLongRest
	}
	if c.PitchDropSplitSemitones > 0 && drop >= c.PitchDropSplitSemitones {
		r |= SplitPitchDrop
	}
	if breath > c.MaxBreathDurationSec {
		r |= SplitMaxBreath
	}
	return r
}

// Boundary describes one split between consecutive flows.
type Boundary struct {
	// Flow is the index of the flow that starts at this boundary.
	Flow   int
	Reason SplitReason
}

// Cluster partitions points into time-ordered, non-overlapping flows: the
// last point of a flow is always strictly earlier than the first point of
// the next one.
//
// The input does not need to be sorted and is not modified. Concatenating the
// returned flows reproduces the input sorted by time, with ties kept in input
// order. An empty input yields nil.
func Cluster(points []HitPoint, cfg ClusterConfig) []Flow {
	flows, _ := ClusterReasons(points, cfg)
	return flows
}

// ClusterReasons is Cluster, additionally reporting which rules fired at
// each flow boundary.
func ClusterReasons(points []HitPoint, cfg ClusterConfig) ([]Flow, []Boundary) {
	if len(points) == 0 {
		return nil, nil
	}

	sorted := make([]HitPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].T < sorted[j].T
	})

	var (
		flows      []Flow
		boundaries []Boundary
		start      = 0
	)
	for i := 1; i < len(sorted); i++ {
		// Simultaneous onsets form one chord; flows never split inside it.
		if sorted[i].T == sorted[i-1].T {
			continue
		}
		reason := cfg.splitReason(sorted[start], sorted[i-1], sorted[i])
		if reason == 0 {
			continue
		}
		flows = append(flows, Flow{Points: sorted[start:i:i]})
		boundaries = append(boundaries, Boundary{Flow: len(flows), Reason: reason})
		start = i
	}
	flows = append(flows, Flow{Points: sorted[start:]})

	return flows, boundaries
}
