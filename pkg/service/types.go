// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package service

import "github.com/netrace/netrace/pkg/network"

// TraceRequest is a request to trace from one or more starts.
type TraceRequest struct {
	// Start vertex or edge identifiers, in "network:id" form.
	Start []string `json:"start" validate:"required,min=1,dive,required"`
	// Upstream traces against the edge direction.
	Upstream bool `json:"upstream,omitempty"`
	// MaxDistance is the maximum total distance of a path, 0 uses the configured default.
	MaxDistance float64 `json:"maxDistance,omitempty" validate:"gte=0"`
	// Limit is the maximum number of edges traced from each start, 0 uses the configured limit.
	// A trace with several starts can return more than Limit edges.
	// A limit larger than the configured limit is reduced to it.
	Limit int `json:"limit,omitempty" validate:"gte=0"`
	// IgnoreVisited stops paths at vertices that were already expanded.
	IgnoreVisited bool `json:"ignoreVisited,omitempty"`
	// Networks restricts the listed networks. Networks that are not listed are traced without restriction.
	Networks []NetworkRequest `json:"networks,omitempty" validate:"dive"`
}

// NetworkRequest restricts one network in a trace.
// Connections into a listed network are not traced.
type NetworkRequest struct {
	Name string `json:"name" validate:"required"`
	// MaxDistance within this network, overrides the configured value.
	MaxDistance *float64 `json:"maxDistance,omitempty" validate:"omitempty,gt=0"`
	// NodeFilter and EdgeFilter are filter expressions, combined with the configured filters.
	NodeFilter string `json:"nodeFilter,omitempty"`
	EdgeFilter string `json:"edgeFilter,omitempty"`
	// Aggregates selects the aggregate targets to compute. Nil computes all configured aggregates.
	Aggregates []string `json:"aggregates,omitempty"`
}

// Entity is a vertex or edge in a trace response.
// Source and Target are only set for edges, in the native direction of the network.
type Entity struct {
	ID         network.ID     `json:"id"`
	Type       string         `json:"type,omitempty"`
	Source     *network.ID    `json:"source,omitempty"`
	Target     *network.ID    `json:"target,omitempty"`
	Weight     *float64       `json:"weight,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Warning codes in a [TraceResponse].
const (
	WarnMaxEdges          = "max_edges_reached"
	WarnAggregateSkipped  = "aggregate_skipped"
	WarnStartNotTraceable = "start_not_traceable"
)

// TraceResponse is the result of a trace.
type TraceResponse struct {
	// Serial of the graph that was traced.
	Serial    int64             `json:"serial"`
	Direction network.Direction `json:"direction"`
	// Vertices and Edges in trace order.
	Vertices []Entity `json:"vertices"`
	Edges    []Entity `json:"edges"`
	// Distances is the minimum distance to each vertex from the nearest start. Starts are not included.
	Distances       map[network.ID]float64 `json:"distances"`
	OrderedVertices []network.ID           `json:"orderedVertices"`
	OrderedEdges    []network.ID           `json:"orderedEdges"`
	// Aggregates maps each aggregate target attribute to edge values.
	Aggregates   map[string]map[network.ID]float64 `json:"aggregates,omitempty"`
	LimitReached bool                              `json:"limitReached"`
	Warnings     []string                          `json:"warnings,omitempty"`
}

// NetworkInfo describes a configured network.
type NetworkInfo struct {
	Name        string   `json:"name"`
	EdgeType    string   `json:"edgeType"`
	VertexType  string   `json:"vertexType"`
	MaxDistance *float64 `json:"maxDistance,omitempty"`
	Aggregates  []string `json:"aggregates,omitempty"`
	Vertices    int      `json:"vertices"`
	Edges       int      `json:"edges"`
}
