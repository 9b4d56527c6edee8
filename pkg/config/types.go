// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package config

// Config defines the configuration for an instance of netrace.
// Configuration files may be JSON or YAML.
type Config struct {
	// Networks are the sub-networks that make up the traced graph.
	Networks []Network `json:"networks,omitempty" validate:"dive"`

	// Connections join vertices of one network to edges of another.
	Connections []Connection `json:"connections,omitempty" validate:"dive"`

	// Limits bound the work done by a single trace.
	Limits *Limits `json:"limits,omitempty"`

	// Reload controls retries when loading the graph fails.
	Reload *Reload `json:"reload,omitempty"`

	// Include lists additional configuration files or URLs to include.
	Include []string `json:"include,omitempty"`
}

// Network configures one sub-network.
type Network struct {
	// Name identifies the network. It is the network part of every vertex and edge ID.
	Name string `json:"name" validate:"required,netname"`

	// Data is the file or URL holding the vertices and edges of the network.
	// Relative paths are relative to the configuration file.
	Data string `json:"data" validate:"required"`

	// EdgeFeature describes the edges of the network.
	EdgeFeature Feature `json:"edgeFeature"`

	// VertexFeature describes the vertices of the network.
	VertexFeature Feature `json:"vertexFeature,omitempty"`

	// MaxDistance is the default distance ceiling for this network, used when a request
	// includes the network without its own ceiling.
	MaxDistance *float64 `json:"maxDistance,omitempty" validate:"omitempty,gt=0"`

	// NodeFilter is a filter expression applied to vertex attributes. Vertices that do not match are hidden.
	NodeFilter string `json:"nodeFilter,omitempty"`

	// EdgeFilter is a filter expression applied to edge attributes. Edges that do not match are hidden.
	EdgeFilter string `json:"edgeFilter,omitempty"`
}

// Feature describes the payload type of vertices or edges.
type Feature struct {
	// Name is the payload type name.
	Name string `json:"name,omitempty"`

	// UserAttributes are the attributes returned in trace responses. Empty means all.
	UserAttributes []string `json:"userAttributes,omitempty"`

	// Aggregates are computed along the trace for every edge of this feature.
	Aggregates []Aggregate `json:"aggregates,omitempty" validate:"dive"`
}

// Aggregate derives a per-edge value from an edge attribute.
type Aggregate struct {
	// Source attribute holding the seed value.
	Source string `json:"source" validate:"required"`
	// Target attribute receiving the aggregated value.
	Target string `json:"target" validate:"required"`
	// Method is ADD or SPLITFACTOR.
	Method string `json:"method" validate:"required"`
}

// ConnectionType selects the end of the target edge a connection attaches to.
type ConnectionType string

const (
	ConnectStart ConnectionType = "START"
	ConnectEnd   ConnectionType = "END"
)

// Connection joins two networks.
//
// Every vertex of SourceNetwork with a ReferenceAttribute value names an edge of TargetNetwork.
// A generated vertex and two generated edges connect them, in both directions.
type Connection struct {
	SourceNetwork      string         `json:"sourceNetwork" validate:"required"`
	TargetNetwork      string         `json:"targetNetwork" validate:"required"`
	ReferenceAttribute string         `json:"referenceAttribute" validate:"required"`
	Type               ConnectionType `json:"type,omitempty" validate:"omitempty,oneof=START END"`
}

// Limits bound a trace.
type Limits struct {
	// MaxEdges caps the number of edges in a trace result, 0 means unlimited.
	MaxEdges int `json:"maxEdges,omitempty" validate:"gte=0"`

	// DefaultMaxDistance applies to requests that have no distance ceiling at all. 0 means unbounded.
	DefaultMaxDistance float64 `json:"defaultMaxDistance,omitempty" validate:"gte=0"`

	// AutoIgnoreVisited turns on IgnoreVisited for unbounded traces. Default true.
	AutoIgnoreVisited *bool `json:"autoIgnoreVisited,omitempty"`
}

// Reload configures retries of a failed graph load.
// The wait starts at Retry and is multiplied by Multiplier after each failure, up to RetryMax.
type Reload struct {
	Retry      Duration `json:"retry,omitempty"`
	RetryMax   Duration `json:"retryMax,omitempty"`
	Multiplier float64  `json:"multiplier,omitempty" validate:"omitempty,gte=1"`
}

// EdgeType is the payload type name of the network's edges.
// It defaults to the network name.
func (n *Network) EdgeType() string {
	if n.EdgeFeature.Name != "" {
		return n.EdgeFeature.Name
	}
	return n.Name
}

// VertexType is the payload type name of the network's vertices.
func (n *Network) VertexType() string {
	if n.VertexFeature.Name != "" {
		return n.VertexFeature.Name
	}
	return n.Name + "-vertex"
}
