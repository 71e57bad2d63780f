package main

import (
	"io"

	"github.com/gogpu/flowstroke"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// summary counts what a build produced.
type summary struct {
	points, flows, dots, tails, vertices, triangles int
}

func summarize(geo []flowstroke.FlowGeometry) summary {
	var s summary
	s.flows = len(geo)
	for i := range geo {
		g := &geo[i]
		s.points += g.Flow.Len()
		if g.Mesh.IsEmpty() {
			s.dots++
		}
		if !g.TailMesh.IsEmpty() {
			s.tails++
		}
		s.vertices += len(g.Mesh.Vertices) + len(g.TailMesh.Vertices)
		s.triangles += g.Mesh.TriangleCount() + g.TailMesh.TriangleCount()
	}
	return s
}

// printer returns a message printer for lang, falling back to English.
func printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

func (s summary) write(w io.Writer, lang, dest string) {
	p := printer(lang)
	p.Fprintf(w, "%d points in %d flows (%d dots, %d tails): %d vertices, %d triangles -> %s\n",
		s.points, s.flows, s.dots, s.tails, s.vertices, s.triangles, dest)
}
