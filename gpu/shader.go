package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/naga"
)

//go:embed shaders/ribbon.wgsl
var ribbonShaderSource string

// Entry points of the ribbon shader.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// UniformSize is the byte size of the packed Uniforms block.
const UniformSize = 32

// RibbonShaderSource returns the WGSL source of the ribbon shader.
func RibbonShaderSource() string {
	return ribbonShaderSource
}

// CompileRibbonShader compiles the ribbon shader to SPIR-V words.
func CompileRibbonShader() ([]uint32, error) {
	if ribbonShaderSource == "" {
		return nil, fmt.Errorf("gpu: ribbon shader source is empty")
	}
	spirvBytes, err := naga.Compile(ribbonShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile ribbon shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("gpu: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	flowstroke.Logger().Debug("gpu: ribbon shader compiled", "words", len(words))
	return words, nil
}

// SPIRVBytes flattens SPIR-V words back into a little-endian byte stream,
// the form written to .spv files.
func SPIRVBytes(words []uint32) []byte {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// Uniforms is the per-draw uniform block of the ribbon shader.
type Uniforms struct {
	// ViewWidth and ViewHeight are the render target size in pixels.
	ViewWidth, ViewHeight float32

	// Feather is the fraction of the half width faded out at the edges.
	Feather float32

	// MinAlpha is the opacity multiplier at energy 0.
	MinAlpha float32

	// Color is straight (non-premultiplied) RGBA in [0, 1].
	Color [4]float32
}

// DefaultUniforms returns uniforms for a black stroke on a w×h target.
func DefaultUniforms(w, h int) Uniforms {
	return Uniforms{
		ViewWidth:  float32(w),
		ViewHeight: float32(h),
		Feather:    0.25,
		MinAlpha:   0.35,
		Color:      [4]float32{0, 0, 0, 1},
	}
}

// Bytes packs the uniforms with WGSL uniform layout.
func (u Uniforms) Bytes() []byte {
	buf := make([]byte, UniformSize)
	vals := [...]float32{
		u.ViewWidth, u.ViewHeight, u.Feather, u.MinAlpha,
		u.Color[0], u.Color[1], u.Color[2], u.Color[3],
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
