package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/gputypes"
)

// RibbonVertexStride is the byte stride of one packed RibbonVertex.
const RibbonVertexStride = 32

// RibbonIndexFormat is the index format of packed meshes.
const RibbonIndexFormat = gputypes.IndexFormatUint32

// Buffer usages for the packed vertex and index data.
const (
	VertexBufferUsage = gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
	IndexBufferUsage  = gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
)

// RibbonVertexLayout returns the vertex buffer layout for the ribbon pipeline.
func RibbonVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: RibbonVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // center
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // normal
				{Format: gputypes.VertexFormatFloat32, Offset: 16, ShaderLocation: 2},  // side
				{Format: gputypes.VertexFormatFloat32, Offset: 20, ShaderLocation: 3},  // half width
				{Format: gputypes.VertexFormatFloat32, Offset: 24, ShaderLocation: 4},  // energy
				{Format: gputypes.VertexFormatFloat32, Offset: 28, ShaderLocation: 5},  // u
			},
		},
	}
}

// RibbonPrimitive returns the primitive state for drawing packed meshes.
// Ribbons may twist on sharp turns, so nothing is culled.
func RibbonPrimitive() gputypes.PrimitiveState {
	return gputypes.PrimitiveState{
		Topology: gputypes.PrimitiveTopologyTriangleList,
		CullMode: gputypes.CullModeNone,
	}
}

// RibbonTargets returns the color target for the ribbon pipeline. The
// fragment shader outputs premultiplied alpha.
func RibbonTargets(format gputypes.TextureFormat) []gputypes.ColorTargetState {
	blend := gputypes.BlendStatePremultiplied()
	return []gputypes.ColorTargetState{
		{
			Format:    format,
			Blend:     &blend,
			WriteMask: gputypes.ColorWriteMaskAll,
		},
	}
}

// PackVertices interleaves vertices into a buffer laid out as described by
// RibbonVertexLayout.
func PackVertices(vertices []flowstroke.RibbonVertex) []byte {
	buf := make([]byte, len(vertices)*RibbonVertexStride)
	for i := range vertices {
		writeRibbonVertex(buf[i*RibbonVertexStride:], &vertices[i])
	}
	return buf
}

// writeRibbonVertex writes a single vertex into the buffer.
func writeRibbonVertex(buf []byte, v *flowstroke.RibbonVertex) {
	putFloat(buf[0:4], v.Center.X)
	putFloat(buf[4:8], v.Center.Y)
	putFloat(buf[8:12], v.Normal.X)
	putFloat(buf[12:16], v.Normal.Y)
	putFloat(buf[16:20], v.Side)
	putFloat(buf[20:24], v.HalfWidth)
	putFloat(buf[24:28], v.Energy)
	putFloat(buf[28:32], v.U)
}

func putFloat(buf []byte, v float64) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
}

// PackIndices writes indices as little-endian uint32, each shifted by base.
func PackIndices(indices []uint32, base uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx+base)
	}
	return buf
}

// DrawRange is one indexed draw within a Batch.
type DrawRange struct {
	// Flow is FlowGeometry.Index of the mesh.
	Flow int

	// Tail marks the tail mesh of the flow rather than its ribbon.
	Tail bool

	FirstIndex uint32
	IndexCount uint32
}

// Batch holds the meshes of many flows in a single vertex buffer and a
// single index buffer. Indices are already offset into the shared vertex
// buffer, so every draw uses base vertex 0.
type Batch struct {
	Vertices    []byte
	Indices     []byte
	VertexCount uint32
	Draws       []DrawRange
}

// NewBatch packs the ribbons and tails of geo in flow order, each ribbon
// followed by its tail. Empty meshes are skipped.
func NewBatch(geo []flowstroke.FlowGeometry) *Batch {
	var nv, ni int
	for i := range geo {
		nv += len(geo[i].Mesh.Vertices) + len(geo[i].TailMesh.Vertices)
		ni += len(geo[i].Mesh.Indices) + len(geo[i].TailMesh.Indices)
	}

	b := &Batch{
		Vertices: make([]byte, 0, nv*RibbonVertexStride),
		Indices:  make([]byte, 0, ni*4),
	}
	for i := range geo {
		b.add(geo[i].Index, false, geo[i].Mesh)
		b.add(geo[i].Index, true, geo[i].TailMesh)
	}

	flowstroke.Logger().Debug("gpu: batch packed",
		"flows", len(geo),
		"vertices", b.VertexCount,
		"draws", len(b.Draws),
		"bytes", len(b.Vertices)+len(b.Indices))
	return b
}

func (b *Batch) add(flow int, tail bool, m flowstroke.Mesh) {
	if m.IsEmpty() {
		return
	}
	b.Draws = append(b.Draws, DrawRange{
		Flow:       flow,
		Tail:       tail,
		FirstIndex: uint32(len(b.Indices) / 4), //nolint:gosec // buffer sizes fit uint32
		IndexCount: uint32(len(m.Indices)),     //nolint:gosec // buffer sizes fit uint32
	})
	b.Vertices = append(b.Vertices, PackVertices(m.Vertices)...)
	b.Indices = append(b.Indices, PackIndices(m.Indices, b.VertexCount)...)
	b.VertexCount += uint32(len(m.Vertices)) //nolint:gosec // buffer sizes fit uint32
}

// IndexCount returns the total number of indices in the batch.
func (b *Batch) IndexCount() uint32 {
	return uint32(len(b.Indices) / 4) //nolint:gosec // buffer sizes fit uint32
}
