package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/flowstroke"
)

func scenarioGeometry() []flowstroke.FlowGeometry {
	points := []flowstroke.HitPoint{
		{T: 0, Pitch: 60, Energy: 0.8},
		{T: 0.2, Pitch: 62, Energy: 0.7},
		{T: 0.3, Pitch: 64, Energy: 0.9, DecayRatio: flowstroke.DecayRatio(0.1)},
		{T: 1.5, Pitch: 48, Energy: 0.5},
	}
	proj := flowstroke.Projection{
		TimeToX:  flowstroke.LinearScale(0, 2, 0, 400),
		PitchToY: flowstroke.LinearScale(36, 84, 240, 0),
	}
	return flowstroke.Build(points, proj, flowstroke.DefaultConfig())
}

func isBackground(img *image.RGBA, x, y int) bool {
	return img.RGBAAt(x, y) == color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

func TestRender_Size(t *testing.T) {
	img := Render(nil, DefaultOptions(64, 32))
	if got := img.Bounds(); got != image.Rect(0, 0, 64, 32) {
		t.Errorf("Bounds() = %v, want 64x32", got)
	}
	for y := range 32 {
		for x := range 64 {
			if !isBackground(img, x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want background", x, y, img.RGBAAt(x, y))
			}
		}
	}
}

func TestRender_Scenario(t *testing.T) {
	img := Render(scenarioGeometry(), DefaultOptions(400, 240))

	tests := []struct {
		name    string
		x, y    int
		painted bool
	}{
		{"ribbon at second note", 40, 110, true},
		{"ribbon between notes", 50, 105, true},
		{"dot for single-point flow", 300, 180, true},
		{"empty corner", 395, 5, false},
		{"gap between flows", 200, 60, false},
	}
	for _, tt := range tests {
		if got := !isBackground(img, tt.x, tt.y); got != tt.painted {
			t.Errorf("%s: pixel (%d,%d) painted = %v, want %v", tt.name, tt.x, tt.y, got, tt.painted)
		}
	}
}

func TestRender_NoDots(t *testing.T) {
	opts := DefaultOptions(400, 240)
	opts.DotRadius = 0
	img := Render(scenarioGeometry(), opts)
	if !isBackground(img, 300, 180) {
		t.Error("dot drawn with DotRadius 0")
	}
}

func TestRender_EnergyOpacity(t *testing.T) {
	build := func(energy float64) *image.RGBA {
		curve := []flowstroke.CurvePoint{
			{Pos: flowstroke.Pt(10, 20), Energy: energy},
			{Pos: flowstroke.Pt(90, 20), Energy: energy},
		}
		geo := []flowstroke.FlowGeometry{{
			Curve: curve,
			Mesh:  flowstroke.BuildRibbon(curve, flowstroke.DefaultRibbonConfig()),
		}}
		return Render(geo, DefaultOptions(100, 40))
	}
	loud := build(1).RGBAAt(50, 20)
	quiet := build(0).RGBAAt(50, 20)
	if loud.R >= quiet.R {
		t.Errorf("loud pixel %v is not darker than quiet pixel %v", loud, quiet)
	}
}

func TestRender_Label(t *testing.T) {
	opts := DefaultOptions(120, 30)
	opts.Label = "flows: 2"
	img := Render(nil, opts)

	var painted int
	for y := range 20 {
		for x := range 80 {
			if !isBackground(img, x, y) {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Error("label not drawn")
	}
}

func TestSavePNG(t *testing.T) {
	img := Render(scenarioGeometry(), DefaultOptions(400, 240))
	path := filepath.Join(t.TempDir(), "flows.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}

	if err := SavePNG(filepath.Join(t.TempDir(), "missing", "x.png"), img); err == nil {
		t.Error("SavePNG into a missing directory succeeded")
	}
}
