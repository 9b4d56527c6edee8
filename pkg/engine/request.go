// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package engine

import (
	"github.com/netrace/netrace/pkg/network"
	"github.com/netrace/netrace/pkg/ptr"
)

// Network selects a network for a trace and restricts it.
type Network struct {
	// Name of the network.
	Name string
	// MaxDistance is the maximum distance travelled within this network, 0 means no limit.
	MaxDistance float64
	// KeepVertex and KeepEdge select the vertices and edges of this network that can be traced.
	// Nil keeps everything.
	KeepVertex, KeepEdge func(network.Payload) bool
}

// Request parameters for [Engine.Trace].
type Request struct {
	// Starts are vertex or edge identifiers.
	Starts []network.ID
	// Direction of the trace.
	Direction network.Direction
	// Networks that are restricted by the trace.
	// Connection vertices and edges of these networks are never traced.
	// Networks that are not listed are traced without restriction.
	Networks []Network
	// MaxDistance is the maximum total path weight, 0 means no limit.
	MaxDistance float64
	// MaxEdges is the maximum number of edges in the trace for each start, 0 means no limit.
	MaxEdges int
	// IgnoreVisited stops paths at vertices that were already expanded.
	IgnoreVisited bool
	// AutoIgnoreVisited turns on IgnoreVisited if there is no distance limit.
	// Nil means true.
	AutoIgnoreVisited *bool
}

func (r *Request) network(name string) *Network {
	for i := range r.Networks {
		if r.Networks[i].Name == name {
			return &r.Networks[i]
		}
	}
	return nil
}

func (r *Request) unbounded() bool {
	if r.MaxDistance > 0 {
		return false
	}
	for _, n := range r.Networks {
		if n.MaxDistance > 0 {
			return false
		}
	}
	return true
}

func (r *Request) ignoreVisited() bool {
	return r.IgnoreVisited || (ptr.ValueOr(r.AutoIgnoreVisited, true) && r.unbounded())
}
