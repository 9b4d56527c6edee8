// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package network provides an identifier-indexed directed weighted multigraph of network vertices and edges.
//
// A [Graph] holds vertices and edges from several networks, indexed by [ID].
// Read-only [View]s of a graph can be reversed or masked without copying.
package network

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/path"
)

// DefaultWeight is the weight of a new edge.
const DefaultWeight = 1.0

// Graph is a directed weighted multigraph of [Vertex] and [Edge] values.
//
// Concurrency: Graph is mutable, callers must not mutate a graph while it is being read.
type Graph struct {
	g        *multi.WeightedDirectedGraph
	vertices map[ID]*Vertex
	lines    map[ID]*line
}

var _ View = (*Graph)(nil)

// New returns an empty graph.
func New() *Graph {
	g := multi.NewWeightedDirectedGraph()
	g.EdgeWeightFunc = minWeight
	return &Graph{g: g, vertices: map[ID]*Vertex{}, lines: map[ID]*line{}}
}

// AddVertex adds a new vertex.
// Returns [DuplicateIDError] if a vertex with the same ID exists.
func (g *Graph) AddVertex(id ID, p Payload) (*Vertex, error) {
	if _, ok := g.vertices[id]; ok {
		return nil, DuplicateIDError{ID: id}
	}
	v := newVertex(id, p)
	g.addVertex(v)
	return v, nil
}

// AddEdge adds a new edge from source to target with [DefaultWeight].
// Returns [DuplicateIDError] if an edge with the same ID exists,
// [MissingVertexError] if source or target is not in the graph.
// The graph is not modified if there is an error.
func (g *Graph) AddEdge(source, target, id ID, p Payload) (*Edge, error) {
	if _, ok := g.lines[id]; ok {
		return nil, DuplicateIDError{ID: id}
	}
	from, to := g.vertices[source], g.vertices[target]
	if from == nil {
		return nil, MissingVertexError{ID: source, Edge: id}
	}
	if to == nil {
		return nil, MissingVertexError{ID: target, Edge: id}
	}
	e := newEdge(id, p)
	g.addEdge(e, from, to, DefaultWeight)
	return e, nil
}

// MergeVertex adds v if there is no vertex with the same ID.
func (g *Graph) MergeVertex(v *Vertex) {
	if _, ok := g.vertices[v.ID]; !ok {
		g.addVertex(v)
	}
}

// MergeEdge adds e with the endpoints and weight it has in src, if there is no edge with the same ID.
// Missing endpoints are added.
func (g *Graph) MergeEdge(src View, e *Edge) {
	if _, ok := g.lines[e.ID]; ok {
		return
	}
	from, to := src.Source(e), src.Target(e)
	g.MergeVertex(from)
	g.MergeVertex(to)
	g.addEdge(e, g.vertices[from.ID], g.vertices[to.ID], src.Weight(e))
}

func (g *Graph) addVertex(v *Vertex) {
	g.vertices[v.ID] = v
	g.g.AddNode(node{v})
}

func (g *Graph) addEdge(e *Edge, from, to *Vertex, w float64) {
	l := &line{e: e, from: node{from}, to: node{to}, w: w}
	g.lines[e.ID] = l
	g.g.SetWeightedLine(l)
}

// RemoveVertex removes a vertex and all incident edges.
// Returns false if there is no such vertex.
func (g *Graph) RemoveVertex(id ID) bool {
	v := g.vertices[id]
	if v == nil {
		return false
	}
	for _, e := range g.Outgoing(v) {
		delete(g.lines, e.ID)
	}
	for _, e := range g.Incoming(v) {
		delete(g.lines, e.ID)
	}
	g.g.RemoveNode(v.nid)
	delete(g.vertices, id)
	return true
}

// RemoveEdge removes an edge, returns false if there is no such edge.
func (g *Graph) RemoveEdge(id ID) bool {
	l := g.lines[id]
	if l == nil {
		return false
	}
	g.g.RemoveLine(l.from.ID(), l.to.ID(), l.ID())
	delete(g.lines, id)
	return true
}

// Vertex returns the vertex with id, or nil.
func (g *Graph) Vertex(id ID) *Vertex { return g.vertices[id] }

// Edge returns the edge with id, or nil.
func (g *Graph) Edge(id ID) *Edge {
	if l := g.lines[id]; l != nil {
		return l.e
	}
	return nil
}

// Order is the number of vertices.
func (g *Graph) Order() int { return len(g.vertices) }

// Size is the number of edges.
func (g *Graph) Size() int { return len(g.lines) }

// Vertices in the order they were created.
func (g *Graph) Vertices() []*Vertex {
	vs := make([]*Vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		vs = append(vs, v)
	}
	slices.SortFunc(vs, func(a, b *Vertex) int { return cmp.Compare(a.nid, b.nid) })
	return vs
}

// Edges in the order they were created.
func (g *Graph) Edges() []*Edge {
	es := make([]*Edge, 0, len(g.lines))
	for _, l := range g.lines {
		es = append(es, l.e)
	}
	sortEdges(es)
	return es
}

// Outgoing edges of v in the order they were created.
func (g *Graph) Outgoing(v *Vertex) []*Edge {
	if v == nil || g.vertices[v.ID] == nil {
		return nil
	}
	var es []*Edge
	// NOTE: use new [graph.Lines] iterators, never the iterator embedded in a multi.Edge.
	to := g.g.From(v.nid)
	for to.Next() {
		lines := g.g.Lines(v.nid, to.Node().ID())
		for lines.Next() {
			es = append(es, lines.Line().(*line).e)
		}
	}
	sortEdges(es)
	return es
}

// Incoming edges of v in the order they were created.
func (g *Graph) Incoming(v *Vertex) []*Edge {
	if v == nil || g.vertices[v.ID] == nil {
		return nil
	}
	var es []*Edge
	from := g.g.To(v.nid)
	for from.Next() {
		lines := g.g.Lines(from.Node().ID(), v.nid)
		for lines.Next() {
			es = append(es, lines.Line().(*line).e)
		}
	}
	sortEdges(es)
	return es
}

// Source vertex of e, nil if e is not in the graph.
func (g *Graph) Source(e *Edge) *Vertex {
	if l := g.lines[e.ID]; l != nil {
		return l.from.v
	}
	return nil
}

// Target vertex of e, nil if e is not in the graph.
func (g *Graph) Target(e *Edge) *Vertex {
	if l := g.lines[e.ID]; l != nil {
		return l.to.v
	}
	return nil
}

// Weight of e, 0 if e is not in the graph.
func (g *Graph) Weight(e *Edge) float64 {
	if l := g.lines[e.ID]; l != nil {
		return l.w
	}
	return 0
}

// SetWeight sets the weight of an edge. Weights must be non-negative numbers.
func (g *Graph) SetWeight(id ID, w float64) error {
	l := g.lines[id]
	if l == nil {
		return MissingEdgeError{ID: id}
	}
	if w < 0 || math.IsNaN(w) {
		return WeightError{ID: id, Weight: w}
	}
	l.w = w
	return nil
}

// ShortestDistances returns the minimum cumulative weight from start to every reachable vertex,
// including start itself at distance 0.
// Parallel edges count with their minimum weight.
func (g *Graph) ShortestDistances(start *Vertex) map[ID]float64 {
	if start == nil || g.vertices[start.ID] == nil {
		return nil
	}
	shortest := path.DijkstraFrom(node{g.vertices[start.ID]}, g.g)
	distances := map[ID]float64{}
	for id, v := range g.vertices {
		if w := shortest.WeightTo(v.nid); !math.IsInf(w, 1) {
			distances[id] = w
		}
	}
	return distances
}

func sortEdges(es []*Edge) {
	slices.SortFunc(es, func(a, b *Edge) int { return cmp.Compare(a.lid, b.lid) })
}

func minWeight(lines graph.WeightedLines) float64 {
	w := math.Inf(1)
	if lines == nil {
		return w
	}
	for lines.Next() {
		w = min(w, lines.WeightedLine().Weight())
	}
	return w
}

// node is a gonum graph.Node for a vertex.
type node struct{ v *Vertex }

func (n node) ID() int64 { return n.v.nid }

// line is a gonum graph.WeightedLine for an edge.
type line struct {
	e        *Edge
	from, to node
	w        float64
}

func (l *line) From() graph.Node         { return l.from }
func (l *line) To() graph.Node           { return l.to }
func (l *line) ID() int64                { return l.e.lid }
func (l *line) Weight() float64          { return l.w }
func (l *line) ReversedLine() graph.Line { return &line{e: l.e, from: l.to, to: l.from, w: l.w} }
