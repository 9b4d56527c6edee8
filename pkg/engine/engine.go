// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// package engine traces one or more starts through a network graph and merges the results.
//
// The engine composes a view of the graph for each request:
// reversed for upstream traces, then masked by the networks and filters of the request.
// Paths are traced in the view with [tracing.Tracer] and folded into a single result graph.
package engine

import (
	"time"

	"github.com/netrace/netrace/internal/pkg/logging"
	"github.com/netrace/netrace/pkg/network"
	"github.com/netrace/netrace/pkg/tracing"
)

var log = logging.Log()

// Engine traces paths in a graph.
// Once created an engine is immutable, it is safe for concurrent traces if the graph is not modified.
type Engine struct {
	g *network.Graph
}

// New engine for graph g.
func New(g *network.Graph) *Engine { return &Engine{g: g} }

// Graph traced by this engine.
func (e *Engine) Graph() *network.Graph { return e.g }

// Trace all starts of a request.
// Returns [StartNotFoundError] if a start is neither a vertex nor an edge of the graph.
// A start that is hidden by the request filters gives an empty trace.
func (e *Engine) Trace(req Request) (*Result, error) {
	begin := time.Now()
	view := e.View(req)
	tracer := tracing.New(view)
	opts := tracing.Options{
		SimplePathsOnly: true,
		Continue:        continuePredicate(view, &req),
		MaxEdges:        req.MaxEdges,
		IgnoreVisited:   req.ignoreVisited(),
	}
	r := &Result{
		Graph:     network.New(),
		Direction: req.Direction,
		Distances: map[network.ID]map[network.ID]float64{},
	}
	var paths []*tracing.Path
	for _, id := range req.Starts {
		start, err := e.resolve(view, id)
		if err != nil {
			return nil, err
		}
		r.Distances[id] = map[network.ID]float64{}
		if start.Vertex == nil {
			log.V(3).Info("Start is not visible", "start", id)
			continue
		}
		tr, err := tracer.Trace(start, opts)
		if err != nil {
			return nil, err
		}
		r.Starts = append(r.Starts, start.Vertex)
		r.LimitReached = r.LimitReached || tr.LimitReached
		paths = append(paths, tr.Paths...)
		r.Graph = tracing.Fold(view, paths)
		r.Distances[id] = tracing.MinimumDistances(r.Graph, start.Vertex)
	}
	r.Paths = len(paths)
	log.V(2).Info("Traced", "starts", len(req.Starts), "direction", req.Direction,
		"paths", r.Paths, "edges", r.Graph.Size(), "limitReached", r.LimitReached, "duration", time.Since(begin))
	return r, nil
}

// View of the graph used to trace req.
func (e *Engine) View(req Request) network.View {
	keepV := func(v *network.Vertex) bool {
		return keep(&req, v.ID, v.Payload, network.ConnectionVertexType, keepVertex)
	}
	keepE := func(x *network.Edge) bool {
		return keep(&req, x.ID, x.Payload, network.ConnectionEdgeType, keepEdge)
	}
	return network.Mask(req.Direction.Apply(e.g), keepV, keepE)
}

func keepVertex(n *Network) func(network.Payload) bool { return n.KeepVertex }
func keepEdge(n *Network) func(network.Payload) bool   { return n.KeepEdge }

// keep decides if an entity is visible in the view for req.
func keep(req *Request, id network.ID, p network.Payload, connectionType string, pred func(*Network) func(network.Payload) bool) bool {
	n := req.network(id.Network)
	switch {
	case n == nil:
		return true
	case network.TypeOf(p) == connectionType:
		return false
	case pred(n) == nil:
		return true
	default:
		return pred(n)(p)
	}
}

// resolve a start identifier to a tracing start in view.
// The start vertex is nil if the start is hidden by view.
func (e *Engine) resolve(view network.View, id network.ID) (tracing.Start, error) {
	if v := e.g.Vertex(id); v != nil {
		return tracing.Start{Vertex: view.Vertex(id)}, nil
	}
	if x := e.g.Edge(id); x != nil {
		if view.Edge(id) == nil {
			return tracing.Start{}, nil
		}
		return tracing.Start{Vertex: view.Source(x), Edge: x}, nil
	}
	return tracing.Start{}, StartNotFoundError{ID: id}
}

// continuePredicate stops paths that exceed the global distance or the distance for a network.
func continuePredicate(view network.View, req *Request) tracing.Predicate {
	ceilings := map[string]float64{}
	for _, n := range req.Networks {
		if n.MaxDistance > 0 {
			ceilings[n.Name] = n.MaxDistance
		}
	}
	if req.MaxDistance <= 0 && len(ceilings) == 0 {
		return nil
	}
	return func(p *tracing.Path) bool {
		if req.MaxDistance > 0 && p.Weight() > req.MaxDistance {
			return false
		}
		if len(ceilings) == 0 {
			return true
		}
		distances := map[string]float64{}
		p.Each(func(e *network.Edge, w float64) { distances[e.ID.Network] += w })
		for name, d := range distances {
			if limit, ok := ceilings[name]; ok && d > limit {
				return false
			}
		}
		return true
	}
}
