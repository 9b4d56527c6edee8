// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package engine

import (
	"github.com/netrace/netrace/pkg/network"
	"github.com/netrace/netrace/pkg/unique"
)

// Result of a trace.
type Result struct {
	// Graph is the union of all traced paths, edges are oriented in the trace direction.
	Graph *network.Graph
	// Direction of the trace.
	Direction network.Direction
	// Starts are the start vertices that were traced, in request order.
	Starts []*network.Vertex
	// Distances maps each requested start to the minimum distance of each vertex reached from it.
	// The start itself is not included.
	Distances map[network.ID]map[network.ID]float64
	// Paths is the number of traced paths.
	Paths int
	// LimitReached is true if any start was truncated by the edge limit.
	LimitReached bool
}

// Native returns the result graph in the native direction of the network.
func (r *Result) Native() network.View { return r.Direction.Apply(r.Graph) }

// OrderedEdges returns the edges of the result graph in depth-first pre-order from the starts.
func (r *Result) OrderedEdges() ([]*network.Edge, error) {
	var edges []*network.Edge
	r.walk(func(e *network.Edge, _ *network.Vertex) { edges = append(edges, e) }, nil)
	if len(edges) != r.Graph.Size() {
		return nil, InconsistentTraceError{What: "edges", Walked: len(edges), Expected: r.Graph.Size()}
	}
	return edges, nil
}

// OrderedVertices returns the vertices of the result graph in depth-first pre-order from the starts.
func (r *Result) OrderedVertices() ([]*network.Vertex, error) {
	var vertices []*network.Vertex
	seen := unique.Set[network.ID]{}
	visit := func(v *network.Vertex) {
		if seen.AddNew(v.ID) {
			vertices = append(vertices, v)
		}
	}
	r.walk(func(_ *network.Edge, to *network.Vertex) { visit(to) }, visit)
	if len(vertices) != r.Graph.Order() {
		return nil, InconsistentTraceError{What: "vertices", Walked: len(vertices), Expected: r.Graph.Order()}
	}
	return vertices, nil
}

// walk calls onStart for each start in the graph, then onEdge for each edge reached for the first time.
func (r *Result) walk(onEdge func(*network.Edge, *network.Vertex), onStart func(*network.Vertex)) {
	g := r.Graph
	done := unique.Set[network.ID]{}
	var visit func(*network.Vertex)
	visit = func(v *network.Vertex) {
		for _, e := range g.Outgoing(v) {
			if done.AddNew(e.ID) {
				to := g.Target(e)
				onEdge(e, to)
				visit(to)
			}
		}
	}
	for _, s := range r.Starts {
		if v := g.Vertex(s.ID); v != nil {
			if onStart != nil {
				onStart(v)
			}
			visit(v)
		}
	}
}

// FilterLooseEnds removes connection edges that end the trace, with their target vertex.
// If the source of such an edge is a connection vertex, it is also removed with its incoming edges.
func (r *Result) FilterLooseEnds() {
	g := r.Graph
	var edges, vertices []network.ID
	for _, e := range g.Edges() {
		if network.TypeOf(e.Payload) != network.ConnectionEdgeType {
			continue
		}
		to := g.Target(e)
		if len(g.Outgoing(to)) > 0 {
			continue
		}
		edges = append(edges, e.ID)
		vertices = append(vertices, to.ID)
		if from := g.Source(e); network.TypeOf(from.Payload) == network.ConnectionVertexType {
			vertices = append(vertices, from.ID)
			edges = append(edges, network.IDs(g.Incoming(from))...)
		}
	}
	for _, id := range edges {
		g.RemoveEdge(id)
	}
	for _, id := range vertices {
		g.RemoveVertex(id)
	}
	if len(edges) > 0 {
		log.V(3).Info("Removed loose ends", "edges", len(edges), "vertices", len(vertices))
	}
}
