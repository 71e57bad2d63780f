// Package flowstroke turns detected musical events into brush-stroke geometry.
//
// # Overview
//
// Upstream analysis delivers a list of HitPoints (onset time, pitch, energy
// and an optional decay ratio). flowstroke groups them into flows, one per
// melodic breath, draws a smooth curve through each flow and converts the
// curve into a variable-width ribbon mesh with a tapering tail when the last
// note lingers. Rendering the mesh is left to the caller.
//
// # Quick Start
//
//	import "github.com/gogpu/flowstroke"
//
//	proj := flowstroke.Projection{
//	    TimeToX:  flowstroke.LinearScale(0, 30, 0, 1920),
//	    PitchToY: flowstroke.PitchLogScale(36, 96, 1080, 0),
//	}
//	for _, g := range flowstroke.Build(points, proj, flowstroke.DefaultConfig()) {
//	    draw(g.Mesh, g.TailMesh)
//	}
//
// # Stages
//
// Each stage is a pure function of its input and a configuration struct and
// can be used on its own:
//   - Cluster partitions points into flows using musical-rest heuristics.
//   - Smooth densifies a projected flow along a cardinal spline that passes
//     through every input point.
//   - BuildRibbon converts a dense curve into a triangle-strip mesh whose
//     width follows energy and never exceeds the local point spacing.
//   - GenerateTail extends a flow along its final direction, thinning out.
//
// # Coordinate System
//
// Clustering works on raw time and pitch. Everything after it works in the
// render space defined by the Projection; flowstroke makes no assumption
// about its orientation or units.
//
// # Sub-packages
//
//   - gpu: interleaved vertex buffers, layouts and the ribbon WGSL shader
//   - preview: CPU rasterization of flow geometry to an image
//   - midifile: HitPoints from Standard MIDI Files
//   - meshjson: the JSON document served to web renderers
//   - server: an HTTP endpoint producing meshjson documents
package flowstroke
