// Package meshjson is the JSON wire format between the flowstroke pipeline
// and an external renderer.
//
// A Document carries every flow with its source points, its ribbon and tail
// meshes as flat per-vertex attribute arrays, and a stable ID. IDs are
// name-based UUIDs derived from the flow's content, so re-running the
// pipeline on the same input yields the same IDs and renderers can diff
// successive documents.
package meshjson

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/flowstroke"
	"github.com/google/uuid"
)

// Version is the wire format version written by Encode.
const Version = 1

// ErrVersion is returned when decoding a document of another version.
var ErrVersion = errors.New("meshjson: unsupported document version")

// namespace scopes flow IDs to this format.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/gogpu/flowstroke/meshjson"))

// Document is the top-level wire object.
type Document struct {
	Version int    `json:"version"`
	Flows   []Flow `json:"flows"`
}

// Flow is one flow and its geometry.
type Flow struct {
	ID    string `json:"id"`
	Index int    `json:"index"`

	// Start and End are the onset times of the first and last point.
	Start float64 `json:"start"`
	End   float64 `json:"end"`

	Points []flowstroke.HitPoint `json:"points"`

	// Anchor is the projected position of the first point, used for the
	// fallback dot when Ribbon is absent.
	Anchor [2]float64 `json:"anchor"`

	Ribbon       *Mesh         `json:"ribbon,omitempty"`
	Tail         *Mesh         `json:"tail,omitempty"`
	TailSegments []TailSegment `json:"tailSegments,omitempty"`
}

// TailSegment is the wire form of flowstroke.TailSegment.
type TailSegment struct {
	Start      [2]float64 `json:"start"`
	End        [2]float64 `json:"end"`
	WidthRatio float64    `json:"widthRatio"`
}

// Mesh holds one vertex attribute per array entry (two for vec2 attributes)
// and a triangle list of indices.
type Mesh struct {
	Positions  []float32 `json:"positions"`
	Centers    []float32 `json:"centers"`
	Normals    []float32 `json:"normals"`
	Sides      []float32 `json:"sides"`
	HalfWidths []float32 `json:"halfWidths"`
	Energy     []float32 `json:"energy"`
	U          []float32 `json:"u"`
	Indices    []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Sides)
}

// FlowID returns the stable ID of a flow: a SHA-1 name-based UUID over its
// position in time order and the times, pitches and energies of its points.
func FlowID(index int, f flowstroke.Flow) uuid.UUID {
	buf := make([]byte, 0, 8+len(f.Points)*24)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(index)) //nolint:gosec // flow index is non-negative
	for _, p := range f.Points {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.T))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Pitch))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Energy))
	}
	return uuid.NewSHA1(namespace, buf)
}

// Encode converts pipeline output into a Document.
func Encode(geo []flowstroke.FlowGeometry) *Document {
	doc := &Document{
		Version: Version,
		Flows:   make([]Flow, 0, len(geo)),
	}
	for i := range geo {
		g := &geo[i]
		a := g.Anchor()
		f := Flow{
			ID:     FlowID(g.Index, g.Flow).String(),
			Index:  g.Index,
			Points: g.Flow.Points,
			Anchor: [2]float64{a.X, a.Y},
			Ribbon: encodeMesh(g.Mesh),
			Tail:   encodeMesh(g.TailMesh),
		}
		if g.Flow.Len() > 0 {
			f.Start = g.Flow.First().T
			f.End = g.Flow.Last().T
		}
		for _, s := range g.Tail {
			f.TailSegments = append(f.TailSegments, TailSegment{
				Start:      [2]float64{s.Start.X, s.Start.Y},
				End:        [2]float64{s.End.X, s.End.Y},
				WidthRatio: s.WidthRatio,
			})
		}
		doc.Flows = append(doc.Flows, f)
	}
	return doc
}

func encodeMesh(m flowstroke.Mesh) *Mesh {
	if m.IsEmpty() {
		return nil
	}
	n := len(m.Vertices)
	out := &Mesh{
		Positions:  make([]float32, 0, n*2),
		Centers:    make([]float32, 0, n*2),
		Normals:    make([]float32, 0, n*2),
		Sides:      make([]float32, 0, n),
		HalfWidths: make([]float32, 0, n),
		Energy:     make([]float32, 0, n),
		U:          make([]float32, 0, n),
		Indices:    append([]uint32(nil), m.Indices...),
	}
	for _, v := range m.Vertices {
		p := v.Position()
		out.Positions = append(out.Positions, float32(p.X), float32(p.Y))
		out.Centers = append(out.Centers, float32(v.Center.X), float32(v.Center.Y))
		out.Normals = append(out.Normals, float32(v.Normal.X), float32(v.Normal.Y))
		out.Sides = append(out.Sides, float32(v.Side))
		out.HalfWidths = append(out.HalfWidths, float32(v.HalfWidth))
		out.Energy = append(out.Energy, float32(v.Energy))
		out.U = append(out.U, float32(v.U))
	}
	return out
}

// Write encodes doc as JSON to w. With indent set the output is
// human-readable.
func Write(w io.Writer, doc *Document, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("meshjson: encode: %w", err)
	}
	return nil
}

// Read decodes a Document from r.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("meshjson: decode: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}
	return &doc, nil
}
