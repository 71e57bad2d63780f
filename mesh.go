package flowstroke

// RibbonVertex is one side of a ribbon cross-section.
//
// The left (Side=-1) and right (Side=+1) vertices of a cross-section share
// Center, Normal, HalfWidth, Energy and U; the renderer offsets them itself
// or uses Position.
type RibbonVertex struct {
	Center    Point
	Normal    Vec2
	Side      float64
	HalfWidth float64
	Energy    float64

	// U is stroke progress: 0 at the flow's first point, 1 at its last.
	U float64
}

// Position returns the offset vertex position Center + Normal*Side*HalfWidth.
func (v RibbonVertex) Position() Point {
	return v.Center.Add(v.Normal.Mul(v.Side * v.HalfWidth))
}

// Mesh is a triangle-strip ribbon: two vertices per cross-section and two
// triangles between consecutive cross-sections, listed explicitly in Indices.
//
// A Mesh is owned by the caller and rebuilt whenever its inputs change.
type Mesh struct {
	Vertices []RibbonVertex
	Indices  []uint32
}

// IsEmpty reports whether the mesh has nothing to draw.
func (m Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Indices) == 0
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the bounding box of the offset vertex positions.
// The second result is false for an empty mesh.
func (m Mesh) Bounds() (min, max Point, ok bool) {
	if len(m.Vertices) == 0 {
		return Point{}, Point{}, false
	}
	min = m.Vertices[0].Position()
	max = min
	for _, v := range m.Vertices[1:] {
		p := v.Position()
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max, true
}

// stripIndices returns the two-triangle quads joining cross-sections
// i and i+1 for i = 0..sections-2.
func stripIndices(sections int) []uint32 {
	if sections < 2 {
		return nil
	}
	indices := make([]uint32, 0, (sections-1)*6)
	for i := 0; i+1 < sections; i++ {
		a := uint32(i * 2) //nolint:gosec // section count is bounded by the input size
		indices = append(indices,
			a, a+1, a+2,
			a+1, a+3, a+2,
		)
	}
	return indices
}
