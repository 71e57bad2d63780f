// Package midifile turns Standard MIDI Files into flowstroke HitPoints.
//
// Each note-on becomes one HitPoint: its onset time in seconds, its key as
// pitch and its velocity as energy. When the matching note-off is found,
// the note's decay ratio is estimated from its held duration as
// exp(-duration/DecayTime); notes that never end keep a nil decay.
package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/gogpu/flowstroke"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrInvalidFile is returned when the input is not a readable SMF.
var ErrInvalidFile = errors.New("midifile: invalid MIDI file")

// Options controls the conversion.
type Options struct {
	// DecayTime is the time constant in seconds of the exponential decay
	// used to estimate a note's residual energy at its release.
	DecayTime float64

	// Channels restricts the conversion to the given channels (0-15).
	// Empty means all channels.
	Channels []uint8

	// MinVelocity drops note-ons softer than this.
	MinVelocity uint8
}

// DefaultOptions returns the default conversion options.
func DefaultOptions() Options {
	return Options{
		DecayTime: 1.5,
	}
}

func (o Options) accepts(channel, velocity uint8) bool {
	if velocity < o.MinVelocity {
		return false
	}
	if len(o.Channels) == 0 {
		return true
	}
	for _, c := range o.Channels {
		if c == channel {
			return true
		}
	}
	return false
}

// Read reads the named MIDI file.
func Read(path string, opts Options) ([]flowstroke.HitPoint, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("midifile: %w", err)
	}
	points, err := Decode(bytes.NewReader(dat), opts)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return points, nil
}

// Decode reads a MIDI file from r.
func Decode(r io.Reader, opts Options) (points []flowstroke.HitPoint, err error) {
	// The SMF reader may panic on malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			points = nil
			err = fmt.Errorf("%w: %v", ErrInvalidFile, rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return FromSMF(s, opts), nil
}

type noteKey struct {
	channel, key uint8
}

// FromSMF converts the notes of every track of s, ordered by onset time.
func FromSMF(s *smf.SMF, opts Options) []flowstroke.HitPoint {
	log := flowstroke.Logger()
	var points []flowstroke.HitPoint
	var orphans int

	for ti, events := range s.Tracks {
		// Held notes per channel and key, oldest first.
		open := make(map[noteKey][]int)
		onsets := make(map[int]int64)
		skipped := make(map[noteKey]int)

		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				k := noteKey{channel, key}
				if !opts.accepts(channel, velocity) {
					skipped[k]++
					continue
				}
				absTime := s.TimeAt(absTicks)
				open[k] = append(open[k], len(points))
				onsets[len(points)] = absTime
				points = append(points, flowstroke.HitPoint{
					T:      float64(absTime) / 1e6,
					Pitch:  float64(key),
					Energy: float64(velocity) / 127,
				})
			case event.Message.GetNoteOn(&channel, &key, &velocity),
				event.Message.GetNoteOff(&channel, &key, &velocity):
				k := noteKey{channel, key}
				held := open[k]
				if len(held) == 0 {
					if skipped[k] > 0 {
						skipped[k]--
					} else {
						orphans++
					}
					continue
				}
				idx := held[0]
				open[k] = held[1:]
				dur := float64(s.TimeAt(absTicks)-onsets[idx]) / 1e6
				points[idx].DecayRatio = flowstroke.DecayRatio(decayRatio(dur, opts.DecayTime))
			}
		}

		var unended int
		for _, held := range open {
			unended += len(held)
		}
		if unended > 0 {
			log.Debug("midifile: notes without note-off", "track", ti, "count", unended)
		}
	}

	if orphans > 0 {
		log.Warn("midifile: skipped note-offs without note-on", "count", orphans)
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].T != points[j].T {
			return points[i].T < points[j].T
		}
		return points[i].Pitch < points[j].Pitch
	})
	log.Debug("midifile: converted", "tracks", len(s.Tracks), "notes", len(points))
	return points
}

// decayRatio estimates the residual energy fraction after dur seconds.
func decayRatio(dur, decayTime float64) float64 {
	if dur <= 0 {
		return 1
	}
	if decayTime <= 0 {
		return 0
	}
	return math.Exp(-dur / decayTime)
}
