package meshjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/flowstroke/internal/fmath"
)

// ErrInvalidRequest is wrapped by errors about malformed request content.
var ErrInvalidRequest = errors.New("meshjson: invalid request")

// MaxViewSize is the largest accepted view width or height. Previews
// allocate a full image of the view.
const MaxViewSize = 8192

// View describes the render space points are projected into.
type View struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Margin is kept free on every side.
	Margin float64 `json:"margin"`

	// TimeRange and PitchRange are the domain mapped onto the view. A range
	// whose bounds are equal is fitted to the points.
	TimeRange  [2]float64 `json:"timeRange"`
	PitchRange [2]float64 `json:"pitchRange"`

	// LogPitch spaces pitches by frequency ratio instead of linearly.
	LogPitch bool `json:"logPitch"`
}

// DefaultView returns a 1024×512 view fitted to the points.
func DefaultView() View {
	return View{
		Width:  1024,
		Height: 512,
		Margin: 24,
	}
}

// Projection returns the mapping of points into the view. Time runs left to
// right and higher pitches are drawn higher up.
func (v View) Projection(points []flowstroke.HitPoint) flowstroke.Projection {
	t0, t1 := v.TimeRange[0], v.TimeRange[1]
	p0, p1 := v.PitchRange[0], v.PitchRange[1]
	if t0 == t1 || p0 == p1 {
		ft0, ft1, fp0, fp1 := fit(points)
		if t0 == t1 {
			t0, t1 = ft0, ft1
		}
		if p0 == p1 {
			p0, p1 = fp0, fp1
		}
	}

	x0, x1 := v.Margin, v.Width-v.Margin
	y0, y1 := v.Height-v.Margin, v.Margin
	proj := flowstroke.Projection{
		TimeToX:  flowstroke.LinearScale(t0, t1, x0, x1),
		PitchToY: flowstroke.LinearScale(p0, p1, y0, y1),
	}
	if v.LogPitch {
		proj.PitchToY = flowstroke.PitchLogScale(p0, p1, y0, y1)
	}
	return proj
}

// fit returns the time span of points and their pitch span padded by a
// whole tone on each side.
func fit(points []flowstroke.HitPoint) (t0, t1, p0, p1 float64) {
	if len(points) == 0 {
		return 0, 1, 58, 62
	}
	t0, t1 = points[0].T, points[0].T
	p0, p1 = points[0].Pitch, points[0].Pitch
	for _, p := range points[1:] {
		t0, t1 = min(t0, p.T), max(t1, p.T)
		p0, p1 = min(p0, p.Pitch), max(p1, p.Pitch)
	}
	if t1 == t0 {
		t1 = t0 + 1
	}
	return t0, t1, p0 - 2, p1 + 2
}

// Request is the input document accepted by the command line tool and the
// HTTP server.
type Request struct {
	Points []flowstroke.HitPoint `json:"points"`

	// Config is a partial flowstroke configuration overlaid on the defaults.
	Config json.RawMessage `json:"config,omitempty"`

	View *View `json:"view,omitempty"`
}

// DecodeRequest reads and checks a Request from r.
func DecodeRequest(r io.Reader) (*Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	for i, p := range req.Points {
		if !fmath.IsFinite(p.T) || !fmath.IsFinite(p.Pitch) || !fmath.IsFinite(p.Energy) {
			return nil, fmt.Errorf("%w: point %d is not finite", ErrInvalidRequest, i)
		}
	}
	return &req, nil
}

// Settings resolves the request's configuration and view against the
// defaults.
func (q *Request) Settings() (flowstroke.Config, View, error) {
	cfg := flowstroke.DefaultConfig()
	if len(q.Config) > 0 {
		var err error
		if cfg, err = flowstroke.DecodeConfig(bytes.NewReader(q.Config)); err != nil {
			return flowstroke.Config{}, View{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	view := DefaultView()
	if q.View != nil {
		view = *q.View
	}
	if err := view.validate(); err != nil {
		return flowstroke.Config{}, View{}, err
	}
	return cfg, view, nil
}

func (v View) validate() error {
	// NaN fails both comparisons.
	if !(v.Width > 0 && v.Width <= MaxViewSize) || !(v.Height > 0 && v.Height <= MaxViewSize) {
		return fmt.Errorf("%w: view size %vx%v outside (0, %d]", ErrInvalidRequest, v.Width, v.Height, MaxViewSize)
	}
	if !fmath.IsFinite(v.Margin) {
		return fmt.Errorf("%w: view margin %v", ErrInvalidRequest, v.Margin)
	}
	return nil
}

// Build runs the pipeline for the request.
func (q *Request) Build(opts ...flowstroke.BuildOption) ([]flowstroke.FlowGeometry, error) {
	cfg, view, err := q.Settings()
	if err != nil {
		return nil, err
	}
	return flowstroke.Build(q.Points, view.Projection(q.Points), cfg, opts...), nil
}
