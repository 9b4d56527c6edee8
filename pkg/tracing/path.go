// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package tracing

import (
	"strings"

	"github.com/netrace/netrace/pkg/network"
)

// Path is an immutable sequence of edges from a start vertex.
//
// A path shares its prefix with the path it was extended from.
type Path struct {
	prev   *Path
	start  *network.Vertex
	edge   *network.Edge
	end    *network.Vertex
	weight float64 // cumulative
	len    int
}

func newPath(start *network.Vertex, e *network.Edge, end *network.Vertex, w float64) *Path {
	return &Path{start: start, edge: e, end: end, weight: w, len: 1}
}

// extend returns a new path with e appended.
func (p *Path) extend(e *network.Edge, end *network.Vertex, w float64) *Path {
	return &Path{prev: p, start: p.start, edge: e, end: end, weight: p.weight + w, len: p.len + 1}
}

// Start vertex of the path.
func (p *Path) Start() *network.Vertex { return p.start }

// End vertex of the path.
func (p *Path) End() *network.Vertex { return p.end }

// Last edge of the path.
func (p *Path) Last() *network.Edge { return p.edge }

// Weight is the sum of edge weights.
func (p *Path) Weight() float64 { return p.weight }

// Len is the number of edges.
func (p *Path) Len() int { return p.len }

// Each calls f for each edge from start to end, with the weight of that edge.
func (p *Path) Each(f func(e *network.Edge, w float64)) {
	steps := p.steps()
	for i, q := range steps {
		w := q.weight
		if i > 0 {
			w -= steps[i-1].weight
		}
		f(q.edge, w)
	}
}

// Edges from start to end.
func (p *Path) Edges() []*network.Edge {
	edges := make([]*network.Edge, 0, p.len)
	for _, q := range p.steps() {
		edges = append(edges, q.edge)
	}
	return edges
}

// Vertices from start to end, Len()+1 vertices.
func (p *Path) Vertices() []*network.Vertex {
	vertices := make([]*network.Vertex, 0, p.len+1)
	vertices = append(vertices, p.start)
	for _, q := range p.steps() {
		vertices = append(vertices, q.end)
	}
	return vertices
}

// Returned is true if the end vertex appears earlier in the path.
func (p *Path) Returned() bool {
	if p.start.ID == p.end.ID {
		return true
	}
	for q := p.prev; q != nil; q = q.prev {
		if q.end.ID == p.end.ID {
			return true
		}
	}
	return false
}

// Contains is true if v is any vertex of the path.
func (p *Path) Contains(v *network.Vertex) bool {
	if v == nil {
		return false
	}
	if p.start.ID == v.ID {
		return true
	}
	for q := p; q != nil; q = q.prev {
		if q.end.ID == v.ID {
			return true
		}
	}
	return false
}

func (p *Path) String() string {
	var b strings.Builder
	b.WriteString(p.start.ID.String())
	for _, q := range p.steps() {
		b.WriteString(" -> ")
		b.WriteString(q.end.ID.String())
	}
	return b.String()
}

// steps returns the chain of path nodes from the first edge to the last.
func (p *Path) steps() []*Path {
	steps := make([]*Path, p.len)
	for q, i := p, p.len-1; q != nil; q, i = q.prev, i-1 {
		steps[i] = q
	}
	return steps
}
