// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package network

import (
	"fmt"
	"strings"
)

// View is a read-only directed multigraph.
//
// Slices returned by a view are in a stable order for a given graph, and are owned by the caller.
// Vertex and Edge return nil for entities that are not visible in the view.
type View interface {
	Vertex(id ID) *Vertex
	Edge(id ID) *Edge
	Vertices() []*Vertex
	Edges() []*Edge
	Outgoing(v *Vertex) []*Edge
	Incoming(v *Vertex) []*Edge
	Source(e *Edge) *Vertex
	Target(e *Edge) *Vertex
	Weight(e *Edge) float64
}

// Reverse returns a view with the direction of every edge reversed.
// Reversing a reversed view returns the original view.
func Reverse(v View) View {
	if r, ok := v.(reversed); ok {
		return r.View
	}
	return reversed{View: v}
}

type reversed struct{ View }

func (r reversed) Outgoing(v *Vertex) []*Edge { return r.View.Incoming(v) }
func (r reversed) Incoming(v *Vertex) []*Edge { return r.View.Outgoing(v) }
func (r reversed) Source(e *Edge) *Vertex     { return r.View.Target(e) }
func (r reversed) Target(e *Edge) *Vertex     { return r.View.Source(e) }

// Mask returns a view that hides vertices and edges.
// A vertex is visible if keepVertex(v) is true.
// An edge is visible if keepEdge(e) is true and both of its endpoints are visible.
// A nil function keeps everything.
func Mask(v View, keepVertex func(*Vertex) bool, keepEdge func(*Edge) bool) View {
	if keepVertex == nil {
		keepVertex = func(*Vertex) bool { return true }
	}
	if keepEdge == nil {
		keepEdge = func(*Edge) bool { return true }
	}
	return &masked{View: v, keepVertex: keepVertex, keepEdge: keepEdge}
}

type masked struct {
	View
	keepVertex func(*Vertex) bool
	keepEdge   func(*Edge) bool
}

func (m *masked) hasVertex(v *Vertex) bool { return v != nil && m.keepVertex(v) }

func (m *masked) hasEdge(e *Edge) bool {
	return e != nil && m.keepEdge(e) && m.hasVertex(m.View.Source(e)) && m.hasVertex(m.View.Target(e))
}

func (m *masked) Vertex(id ID) *Vertex {
	if v := m.View.Vertex(id); m.hasVertex(v) {
		return v
	}
	return nil
}

func (m *masked) Edge(id ID) *Edge {
	if e := m.View.Edge(id); m.hasEdge(e) {
		return e
	}
	return nil
}

func (m *masked) Vertices() []*Vertex { return filter(m.View.Vertices(), m.hasVertex) }
func (m *masked) Edges() []*Edge      { return filter(m.View.Edges(), m.hasEdge) }

func (m *masked) Outgoing(v *Vertex) []*Edge {
	if !m.hasVertex(v) {
		return nil
	}
	return filter(m.View.Outgoing(v), m.hasEdge)
}

func (m *masked) Incoming(v *Vertex) []*Edge {
	if !m.hasVertex(v) {
		return nil
	}
	return filter(m.View.Incoming(v), m.hasEdge)
}

func (m *masked) Source(e *Edge) *Vertex {
	if !m.hasEdge(e) {
		return nil
	}
	return m.View.Source(e)
}

func (m *masked) Target(e *Edge) *Vertex {
	if !m.hasEdge(e) {
		return nil
	}
	return m.View.Target(e)
}

func (m *masked) Weight(e *Edge) float64 {
	if !m.hasEdge(e) {
		return 0
	}
	return m.View.Weight(e)
}

func filter[T any](values []T, keep func(T) bool) []T {
	var kept []T
	for _, v := range values {
		if keep(v) {
			kept = append(kept, v)
		}
	}
	return kept
}

// Direction of a trace relative to the native direction of edges.
type Direction int

const (
	Downstream Direction = iota // Follow edges in their native direction.
	Upstream                    // Follow edges against their native direction.
)

func (d Direction) String() string {
	switch d {
	case Downstream:
		return "downstream"
	case Upstream:
		return "upstream"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses "downstream" or "upstream", case insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "downstream", "":
		return Downstream, nil
	case "upstream":
		return Upstream, nil
	default:
		return Downstream, fmt.Errorf("invalid direction: %q", s)
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) (err error) {
	*d, err = ParseDirection(string(b))
	return err
}

// Apply returns v unchanged for Downstream, reversed for Upstream.
func (d Direction) Apply(v View) View {
	if d == Upstream {
		return Reverse(v)
	}
	return v
}
