// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package network

import (
	"sync/atomic"
)

// Payload is the data carried by a vertex or an edge, opaque to graph algorithms.
type Payload interface {
	// Type is the feature type name.
	Type() string
	// Attribute returns a named attribute value and true if it is present.
	Attribute(name string) (any, bool)
}

// Type names of the synthetic entities that connect independently loaded networks.
// The loader only generates connection edges. Connection vertices appear in graphs that split
// an edge at a projected connection point.
const (
	ConnectionEdgeType   = "connection-edge"
	ConnectionVertexType = "connection-generated-vertex"
)

// IsConnection is true if p is a connection edge or vertex payload.
func IsConnection(p Payload) bool {
	if p == nil {
		return false
	}
	t := p.Type()
	return t == ConnectionEdgeType || t == ConnectionVertexType
}

// TypeOf returns the payload type or "" for a nil payload.
func TypeOf(p Payload) string {
	if p == nil {
		return ""
	}
	return p.Type()
}

// Feature is a simple [Payload] with a type name and attributes.
type Feature struct {
	TypeName   string         `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func NewFeature(typeName string, attrs map[string]any) *Feature {
	return &Feature{TypeName: typeName, Attributes: attrs}
}

func (f *Feature) Type() string { return f.TypeName }

func (f *Feature) Attribute(name string) (any, bool) {
	v, ok := f.Attributes[name]
	return v, ok
}

// Vertex is a graph vertex.
// Vertices are shared between a graph and the sub-graphs built from it.
type Vertex struct {
	ID      ID
	Payload Payload
	nid     int64
}

// Edge is a graph edge.
// Source, target and weight belong to the graph or view containing the edge, not to the edge.
type Edge struct {
	ID      ID
	Payload Payload
	lid     int64
}

func (v *Vertex) String() string { return v.ID.String() }
func (e *Edge) String() string   { return e.ID.String() }

// Sequence numbers are global so that any sub-graph can hold any entity
// without collisions, and so that creation order can be recovered after
// iterating gonum's maps.
var (
	nextNode atomic.Int64
	nextLine atomic.Int64
)

func newVertex(id ID, p Payload) *Vertex { return &Vertex{ID: id, Payload: p, nid: nextNode.Add(1)} }
func newEdge(id ID, p Payload) *Edge     { return &Edge{ID: id, Payload: p, lid: nextLine.Add(1)} }

// IDs returns the identifiers of vertices or edges.
func IDs[T interface{ *Vertex | *Edge }](entities []T) []ID {
	ids := make([]ID, len(entities))
	for i, e := range entities {
		switch e := any(e).(type) {
		case *Vertex:
			ids[i] = e.ID
		case *Edge:
			ids[i] = e.ID
		}
	}
	return ids
}
