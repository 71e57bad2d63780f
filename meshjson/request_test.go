package meshjson

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/flowstroke"
)

func TestView_Projection(t *testing.T) {
	points := scenarioPoints()
	view := DefaultView()
	proj := view.Projection(points)
	curve := proj.Project(points)

	if got := curve[0].Pos.X; got != view.Margin {
		t.Errorf("first x = %v, want %v", got, view.Margin)
	}
	if got, want := curve[3].Pos.X, view.Width-view.Margin; math.Abs(got-want) > 1e-9 {
		t.Errorf("last x = %v, want %v", got, want)
	}
	// Pitch 64 is the highest note, pitch 48 the lowest.
	if curve[2].Pos.Y >= curve[3].Pos.Y {
		t.Errorf("higher pitch y = %v not above lower pitch y = %v", curve[2].Pos.Y, curve[3].Pos.Y)
	}
	for i, c := range curve {
		if c.Pos.Y < view.Margin || c.Pos.Y > view.Height-view.Margin {
			t.Errorf("curve[%d].Y = %v outside the margins", i, c.Pos.Y)
		}
	}
}

func TestView_FixedRanges(t *testing.T) {
	view := View{Width: 200, Height: 100, TimeRange: [2]float64{0, 10}, PitchRange: [2]float64{40, 80}}
	p := view.Projection(nil).Project([]flowstroke.HitPoint{{T: 5, Pitch: 60}})
	if p[0].Pos != flowstroke.Pt(100, 50) {
		t.Errorf("Project = %v, want (100, 50)", p[0].Pos)
	}

	view.LogPitch = true
	p = view.Projection(nil).Project([]flowstroke.HitPoint{{T: 5, Pitch: 40}, {T: 5, Pitch: 80}})
	if p[0].Pos.Y != 100 || p[1].Pos.Y != 0 {
		t.Errorf("log pitch ends = %v, %v; want 100, 0", p[0].Pos.Y, p[1].Pos.Y)
	}
}

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(`{
		"points": [
			{"t": 0, "pitch": 60, "energy": 0.8},
			{"t": 0.2, "pitch": 62, "energy": 0.7, "decayRatio": 0.9}
		],
		"config": {"smooth": {"samplesPerSegment": 2}},
		"view": {"width": 300, "height": 200, "margin": 10}
	}`))
	if err != nil {
		t.Fatalf("DecodeRequest() error = %v", err)
	}
	cfg, view, err := req.Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if cfg.Smooth.SamplesPerSegment != 2 || cfg.Ribbon.WidthMax != flowstroke.DefaultRibbonConfig().WidthMax {
		t.Errorf("config overlay = %+v", cfg)
	}
	if view.Width != 300 || view.Margin != 10 {
		t.Errorf("view = %+v", view)
	}

	geo, err := req.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(geo) != 1 || len(geo[0].Curve) != 3 {
		t.Errorf("Build() = %d flows", len(geo))
	}
}

func TestRequest_ViewLimit(t *testing.T) {
	req := &Request{View: &View{Width: MaxViewSize, Height: MaxViewSize}}
	if _, view, err := req.Settings(); err != nil || view.Width != MaxViewSize {
		t.Errorf("Settings() = %v, %v; want the largest view accepted", view, err)
	}
}

func TestRequest_Errors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		badConfig bool
	}{
		{"malformed", `{"points": [`, false},
		{"bad config", `{"points": [], "config": {"smooth": {"samplesPerSegment": 0}}}`, true},
		{"unknown config field", `{"points": [], "config": {"colour": 1}}`, false},
		{"zero view", `{"points": [], "view": {"width": 0, "height": 10}}`, false},
		{"huge view", `{"points": [], "view": {"width": 1e7, "height": 1e7}}`, false},
		{"view above limit", `{"points": [], "view": {"width": 8193, "height": 10}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest(strings.NewReader(tt.doc))
			if err == nil {
				_, err = req.Build()
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("error = %v, want ErrInvalidRequest", err)
			}
			if got := errors.Is(err, flowstroke.ErrInvalidConfig); got != tt.badConfig {
				t.Errorf("errors.Is(ErrInvalidConfig) = %v, want %v", got, tt.badConfig)
			}
		})
	}
}
