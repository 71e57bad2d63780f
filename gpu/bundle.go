package gpu

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/gputypes"
)

// BundleVersion is written into every encoded Bundle.
const BundleVersion = 1

var bundleMagic = [4]byte{'F', 'S', 'T', 'K'}

// Bundle is a batch together with the pipeline state and uniforms needed to
// draw it, so a renderer can load flows without linking this module.
type Bundle struct {
	Primitive gputypes.PrimitiveState
	Target    gputypes.ColorTargetState
	Uniforms  Uniforms
	Batch     *Batch
}

// NewBundle packs geo for a w×h render target of the given format.
func NewBundle(geo []flowstroke.FlowGeometry, format gputypes.TextureFormat, w, h int) *Bundle {
	return &Bundle{
		Primitive: RibbonPrimitive(),
		Target:    RibbonTargets(format)[0],
		Uniforms:  DefaultUniforms(w, h),
		Batch:     NewBatch(geo),
	}
}

// bundleHeader is the fixed-size start of an encoded Bundle.
type bundleHeader struct {
	Magic        [4]byte
	Version      uint32
	Topology     uint32
	CullMode     uint32
	IndexFormat  uint32
	TargetFormat uint32
	Blend        [6]uint32 // color src, dst, op, then alpha src, dst, op
	WriteMask    uint32
	VertexStride uint32
	VertexCount  uint32
	IndexCount   uint32
	DrawCount    uint32
	Uniforms     [UniformSize]byte
}

type bundleDraw struct {
	Flow       uint32
	Tail       uint32
	FirstIndex uint32
	IndexCount uint32
}

// WriteTo encodes the bundle as little-endian binary: the header, one
// record per draw, then the vertex and index buffers exactly as uploaded.
// A target without blending encodes zero blend factors.
func (b *Bundle) WriteTo(w io.Writer) (int64, error) {
	hdr := bundleHeader{
		Magic:        bundleMagic,
		Version:      BundleVersion,
		Topology:     uint32(b.Primitive.Topology),
		CullMode:     uint32(b.Primitive.CullMode),
		IndexFormat:  uint32(RibbonIndexFormat),
		TargetFormat: uint32(b.Target.Format),
		WriteMask:    uint32(b.Target.WriteMask),
		VertexStride: RibbonVertexStride,
		VertexCount:  b.Batch.VertexCount,
		IndexCount:   b.Batch.IndexCount(),
		DrawCount:    uint32(len(b.Batch.Draws)), //nolint:gosec // draw count fits uint32
	}
	if bl := b.Target.Blend; bl != nil {
		hdr.Blend = [6]uint32{
			uint32(bl.Color.SrcFactor), uint32(bl.Color.DstFactor), uint32(bl.Color.Operation),
			uint32(bl.Alpha.SrcFactor), uint32(bl.Alpha.DstFactor), uint32(bl.Alpha.Operation),
		}
	}
	copy(hdr.Uniforms[:], b.Uniforms.Bytes())

	draws := make([]bundleDraw, len(b.Batch.Draws))
	for i, d := range b.Batch.Draws {
		draws[i] = bundleDraw{
			Flow:       uint32(d.Flow), //nolint:gosec // flow indices fit uint32
			FirstIndex: d.FirstIndex,
			IndexCount: d.IndexCount,
		}
		if d.Tail {
			draws[i].Tail = 1
		}
	}

	var buf bytes.Buffer
	buf.Grow(binary.Size(hdr) + binary.Size(draws) + len(b.Batch.Vertices) + len(b.Batch.Indices))
	_ = binary.Write(&buf, binary.LittleEndian, &hdr)
	_ = binary.Write(&buf, binary.LittleEndian, draws)
	buf.Write(b.Batch.Vertices)
	buf.Write(b.Batch.Indices)
	return buf.WriteTo(w)
}
