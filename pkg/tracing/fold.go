// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package tracing

import (
	"github.com/netrace/netrace/pkg/network"
)

// Fold returns the union of all paths as a new graph.
// Edges have the orientation and weight they have in view.
// Vertices and edges are shared with view, and keep its order.
func Fold(view network.View, paths []*Path) *network.Graph {
	g := network.New()
	for _, p := range paths {
		g.MergeVertex(p.Start())
		p.Each(func(e *network.Edge, _ float64) { g.MergeEdge(view, e) })
	}
	return g
}

// MinimumDistances returns the minimum path weight from start to every vertex of sub reachable from start.
// The start vertex itself is not included.
func MinimumDistances(sub *network.Graph, start *network.Vertex) map[network.ID]float64 {
	d := sub.ShortestDistances(start)
	if start != nil {
		delete(d, start.ID)
	}
	return d
}
