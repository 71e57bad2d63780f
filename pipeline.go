package flowstroke

import (
	"context"
	"log/slog"

	"github.com/gogpu/flowstroke/internal/parallel"
)

// FlowGeometry is everything the renderer needs to draw one flow.
type FlowGeometry struct {
	// Index is the position of the flow in time order.
	Index int

	Flow Flow

	// Curve is the smoothed, projected curve of the flow.
	Curve []CurvePoint

	// Mesh is the ribbon for Curve. It is empty for single-point flows;
	// Anchor gives the position for a fallback dot.
	Mesh Mesh

	// Tail and TailMesh are empty unless the last note lingers.
	Tail     []TailSegment
	TailMesh Mesh
}

// Anchor returns the projected position of the flow's first point.
func (g FlowGeometry) Anchor() Point {
	if len(g.Curve) == 0 {
		return Point{}
	}
	return g.Curve[0].Pos
}

// Build runs the whole pipeline: it clusters points into flows, projects
// each flow through proj, smooths it, builds its ribbon and, when the final
// note lingers, its tail.
//
// Build never fails. Empty input returns nil. Identical inputs and
// configuration always produce identical geometry, with or without
// WithWorkers.
func Build(points []HitPoint, proj Projection, cfg Config, opts ...BuildOption) []FlowGeometry {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := Logger()
	flows, boundaries := ClusterReasons(points, cfg.Cluster)
	if len(flows) == 0 {
		return nil
	}

	log.Debug("flowstroke: clustered", "points", len(points), "flows", len(flows))
	if log.Enabled(context.Background(), slog.LevelDebug) {
		for _, b := range boundaries {
			log.Debug("flowstroke: flow boundary",
				"flow", b.Flow,
				"t", flows[b.Flow].First().T,
				"reason", b.Reason.String())
		}
	}

	out := make([]FlowGeometry, len(flows))
	build := func(i int) {
		out[i] = buildFlow(i, flows[i], proj, cfg, o)
	}

	if o.workers == 1 || len(flows) == 1 {
		for i := range flows {
			build(i)
		}
	} else {
		pool := parallel.NewWorkerPool(o.workers)
		pool.ForEach(len(flows), build)
		pool.Close()
	}

	if log.Enabled(context.Background(), slog.LevelDebug) {
		for _, g := range out {
			log.Debug("flowstroke: flow built",
				"flow", g.Index,
				"points", g.Flow.Len(),
				"duration", g.Flow.Duration(),
				"curve", len(g.Curve),
				"vertices", len(g.Mesh.Vertices),
				"tail", len(g.Tail))
		}
	}

	return out
}

// BuildFlow runs the per-flow stages for a single flow.
func BuildFlow(flow Flow, proj Projection, cfg Config) FlowGeometry {
	return buildFlow(0, flow, proj, cfg, defaultBuildOptions())
}

func buildFlow(index int, flow Flow, proj Projection, cfg Config, o buildOptions) FlowGeometry {
	curve := Smooth(proj.Project(flow.Points), cfg.Smooth)
	g := FlowGeometry{
		Index: index,
		Flow:  flow,
		Curve: curve,
		Mesh:  BuildRibbon(curve, cfg.Ribbon),
	}

	if o.noTails || flow.Len() == 0 {
		return g
	}
	g.Tail = GenerateTail(curve, flow.Last().Decay(), cfg.Tail)
	if len(g.Tail) > 0 && len(g.Mesh.Vertices) > 0 {
		end := g.Mesh.Vertices[len(g.Mesh.Vertices)-1]
		g.TailMesh = BuildTailMesh(g.Tail, end.HalfWidth, end.Energy)
	}
	return g
}
