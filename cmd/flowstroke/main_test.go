package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/flowstroke/meshjson"
)

const scenarioJSON = `{
	"points": [
		{"t": 0, "pitch": 60, "energy": 0.8},
		{"t": 0.2, "pitch": 62, "energy": 0.7},
		{"t": 0.3, "pitch": 64, "energy": 0.9, "decayRatio": 0.1},
		{"t": 1.5, "pitch": 48, "energy": 0.5}
	]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { flowstroke.SetLogger(nil) })

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMeshCommand(t *testing.T) {
	in := writeInput(t, "take.json", scenarioJSON)
	out, err := run(t, "mesh", in)
	if err != nil {
		t.Fatalf("mesh: %v", err)
	}
	if !strings.Contains(out, "4 points in 2 flows (1 dots, 0 tails)") {
		t.Errorf("summary = %q", out)
	}

	f, err := os.Open(strings.TrimSuffix(in, ".json") + ".mesh.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := meshjson.Read(f)
	if err != nil {
		t.Fatalf("meshjson.Read() error = %v", err)
	}
	if len(doc.Flows) != 2 {
		t.Errorf("len(Flows) = %d, want 2", len(doc.Flows))
	}
}

func TestMeshCommand_Stdout(t *testing.T) {
	in := writeInput(t, "take.json", scenarioJSON)
	out, err := run(t, "mesh", in, "-o", "-", "--indent", "-j", "2")
	if err != nil {
		t.Fatalf("mesh: %v", err)
	}
	doc, err := meshjson.Read(strings.NewReader(out))
	if err != nil {
		t.Fatalf("stdout is not a mesh document: %v", err)
	}
	if len(doc.Flows) != 2 {
		t.Errorf("len(Flows) = %d, want 2", len(doc.Flows))
	}
}

func TestMeshCommand_Bundle(t *testing.T) {
	in := writeInput(t, "take.json", scenarioJSON)
	out, err := run(t, "mesh", in, "--format", "bin", "--width", "640")
	if err != nil {
		t.Fatalf("mesh: %v", err)
	}
	dest := strings.TrimSuffix(in, ".json") + ".mesh.bin"
	if !strings.Contains(out, dest) {
		t.Errorf("summary = %q, want path %s", out, dest)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 100 || string(data[:4]) != "FSTK" {
		t.Fatalf("bundle starts with %q (%d bytes)", data[:min(4, len(data))], len(data))
	}
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off:]) }
	if stride, draws := u32(52), u32(64); stride != 32 || draws != 1 {
		t.Errorf("stride = %d, draws = %d; want 32, 1", stride, draws)
	}
	if w := math.Float32frombits(u32(68)); w != 640 {
		t.Errorf("uniform view width = %v, want 640", w)
	}
}

func TestMeshCommand_Config(t *testing.T) {
	in := writeInput(t, "take.json", scenarioJSON)
	cfg := writeInput(t, "cfg.json", `{"cluster": {"longRestSec": 5, "gapAfterEndingSec": 5, "pitchDropSplitSemitones": 0}}`)
	out, err := run(t, "mesh", in, "-o", "-", "--config", cfg)
	if err != nil {
		t.Fatalf("mesh: %v", err)
	}
	doc, err := meshjson.Read(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Flows) != 1 {
		t.Errorf("len(Flows) = %d, want 1 with splitting relaxed", len(doc.Flows))
	}
}

func TestRenderCommand(t *testing.T) {
	in := writeInput(t, "take.json", scenarioJSON)
	dest := filepath.Join(t.TempDir(), "out.png")
	if _, err := run(t, "render", in, "-o", dest, "--width", "200", "--height", "100", "--label"); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("size = %dx%d, want 200x100", b.Dx(), b.Dy())
	}
}

func TestRenderCommand_MIDI(t *testing.T) {
	// Format 0, 500 ticks per quarter, two notes.
	smf := []byte{
		'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0x01, 0xf4,
		'M', 'T', 'r', 'k', 0, 0, 0, 29,
		0x00, 0xff, 0x51, 0x03, 0x07, 0xa1, 0x20,
		0x00, 0x90, 60, 100,
		0x83, 0x74, 0x80, 60, 64,
		0x00, 0x90, 64, 90,
		0x83, 0x74, 0x80, 64, 64,
		0x00, 0xff, 0x2f, 0x00,
	}
	in := writeInput(t, "take.mid", string(smf))
	out, err := run(t, "render", in, "--channel", "0")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "2 points in 1 flows") {
		t.Errorf("summary = %q", out)
	}
	if _, err := os.Stat(strings.TrimSuffix(in, ".mid") + ".png"); err != nil {
		t.Errorf("default output missing: %v", err)
	}

	if _, err := run(t, "render", in, "--channel", "16"); err == nil {
		t.Error("channel 16 accepted")
	}
}

func TestCommandErrors(t *testing.T) {
	bad := writeInput(t, "bad.json", `{"points": [`)
	tests := [][]string{
		{"render"},
		{"mesh", filepath.Join(t.TempDir(), "missing.json")},
		{"mesh", bad},
		{"mesh", "--format", "xml", bad},
		{"shader", "extra"},
	}
	for _, args := range tests {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v succeeded, want error", args)
		}
	}
}

func TestShaderCommand_WGSL(t *testing.T) {
	out, err := run(t, "shader", "--wgsl")
	if err != nil {
		t.Fatalf("shader: %v", err)
	}
	if !strings.Contains(out, "fn vs_main") {
		t.Error("WGSL output missing vertex entry point")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, ext, want string
	}{
		{"take.json", "", ".png", "take.png"},
		{"dir/take.mid", "", ".mesh.json", "dir/take.mesh.json"},
		{"dir.v2/take", "", ".png", "dir.v2/take.png"},
		{"take.json", "x.png", ".png", "x.png"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.output, tt.ext); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.input, tt.output, tt.ext, got, tt.want)
		}
	}
}

func TestPrinter(t *testing.T) {
	if got := printer("en").Sprintf("%d", 12345); got != "12,345" {
		t.Errorf("en = %q, want 12,345", got)
	}
	if got := printer("de").Sprintf("%d", 12345); got != "12.345" {
		t.Errorf("de = %q, want 12.345", got)
	}
	if got := printer("not a tag!").Sprintf("%d", 12345); got != "12,345" {
		t.Errorf("fallback = %q, want 12,345", got)
	}
}

func TestWatch(t *testing.T) {
	path := writeInput(t, "take.json", scenarioJSON)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	called := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, 10*time.Millisecond, func() { called <- struct{}{} })
	}()

	time.Sleep(30 * time.Millisecond)
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not fire after the file changed")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch() = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}
