// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package aggregate computes values for the edges of a trace by propagating edge attributes through the trace graph.
//
// Downstream, the value of an edge is computed from the edges that flow into it (its parents)
// shared with the edges that leave the same vertex (its siblings).
// Cycles are detected and repaired: the edges that close a loop back to an edge being computed are fixed to zero.
//
// Upstream, the value of an edge is computed from the edges that leave its target vertex.
// Upstream aggregation does not repair cycles, an edge that is still being computed contributes nothing.
package aggregate

import (
	"fmt"
	"slices"

	"github.com/netrace/netrace/internal/pkg/logging"
	"github.com/netrace/netrace/pkg/network"
)

var log = logging.Log()

// Aggregator computes one value per edge of a given type.
type Aggregator struct {
	view      network.View
	order     []*network.Edge
	typeName  string
	source    string
	method    Method
	direction network.Direction

	memo    map[network.ID]state
	fixed   map[network.ID]bool // Edges fixed to 0 to break a loop.
	unwound map[network.ID]bool // Edges removed from the memo while backtracking to a loop root.
}

// state of an edge in the memo, either pending (being computed) or done.
type state struct {
	pending bool
	value   float64
}

// New aggregator.
//
// The view must have the native edge direction of the network, for both directions.
// Edges are computed in the given order, only edges with payload type typeName are computed.
// The source attribute of each edge provides the seed value.
func New(view network.View, order []*network.Edge, typeName, source string, m Method, d network.Direction) (*Aggregator, error) {
	if m == nil {
		return nil, ConfigError{Message: "missing aggregate method"}
	}
	if d == network.Upstream && !m.SupportsUpstream() {
		return nil, ConfigError{Message: fmt.Sprintf("aggregate method %v does not support direction %v", m.Name(), d)}
	}
	return &Aggregator{view: view, order: order, typeName: typeName, source: source, method: m, direction: d}, nil
}

// Aggregate returns the value computed for each edge of the aggregator type.
func (a *Aggregator) Aggregate() (map[network.ID]float64, error) {
	a.memo = map[network.ID]state{}
	a.fixed = map[network.ID]bool{}
	a.unwound = map[network.ID]bool{}
	result := map[network.ID]float64{}
	for _, e := range a.order {
		if !a.match(e) {
			continue
		}
		if err := a.compute(e); err != nil {
			return nil, err
		}
		result[e.ID] = a.memo[e.ID].value
	}
	log.V(4).Info("Aggregated", "type", a.typeName, "source", a.source, "method", a.method.Name(),
		"direction", a.direction, "edges", len(result), "fixed", len(a.fixed))
	return result, nil
}

func (a *Aggregator) match(e *network.Edge) bool { return network.TypeOf(e.Payload) == a.typeName }

func (a *Aggregator) matching(edges []*network.Edge) []*network.Edge {
	return slices.DeleteFunc(edges, func(e *network.Edge) bool { return !a.match(e) })
}

// siblings of e share its source downstream, or its target upstream.
func (a *Aggregator) siblings(e *network.Edge) []*network.Edge {
	if a.direction == network.Upstream {
		return a.matching(a.view.Incoming(a.view.Target(e)))
	}
	return a.matching(a.view.Outgoing(a.view.Source(e)))
}

// parents of e provide its value: incoming edges of the source downstream, outgoing edges of the target upstream.
func (a *Aggregator) parents(e *network.Edge) []*network.Edge {
	if a.direction == network.Upstream {
		return a.matching(a.view.Outgoing(a.view.Target(e)))
	}
	return a.matching(a.view.Incoming(a.view.Source(e)))
}

// valid counts the siblings that are not fixed by a loop repair.
func (a *Aggregator) valid(siblings []*network.Edge) int {
	n := 0
	for _, s := range siblings {
		if !a.fixed[s.ID] {
			n++
		}
	}
	return n
}

func (a *Aggregator) seed(e *network.Edge, parents, siblings int) (float64, error) {
	var v any
	if e.Payload != nil {
		v, _ = e.Payload.Attribute(a.source)
	}
	f, err := Float(v)
	if err != nil {
		return 0, fmt.Errorf("edge %v attribute %v: %w", e.ID, a.source, err)
	}
	return a.method.Seed(f, parents, siblings), nil
}

// frame is the computation of one edge on the work stack.
type frame struct {
	edge     *network.Edge
	value    float64
	parents  []*network.Edge
	siblings []*network.Edge
	next     int // Index of the next parent to visit.
}

// outcome of computing an edge: a value, or pending for an edge that is still being computed.
type outcome struct {
	pending *network.Edge
	value   float64
}

func (a *Aggregator) push(stack []*frame, e *network.Edge) ([]*frame, error) {
	f := &frame{edge: e, parents: a.parents(e), siblings: a.siblings(e)}
	var err error
	if f.value, err = a.seed(e, len(f.parents), len(f.siblings)); err != nil {
		return nil, err
	}
	a.memo[e.ID] = state{pending: true}
	return append(stack, f), nil
}

// compute e and the edges it depends on, using an explicit stack in place of recursion.
func (a *Aggregator) compute(e *network.Edge) error {
	if _, ok := a.memo[e.ID]; ok {
		return nil
	}
	stack, err := a.push(nil, e)
	if err != nil {
		return err
	}
	var (
		result    outcome
		hasResult bool
	)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if hasResult { // Result for f.parents[f.next-1]
			hasResult = false
			parent := f.parents[f.next-1]
			switch {
			case result.pending == nil:
				n := len(f.siblings)
				if a.direction == network.Downstream {
					n = a.valid(f.siblings)
				}
				v, err := a.method.Distribute(result.value, n)
				if err != nil {
					return fmt.Errorf("edge %v: %w", f.edge.ID, err)
				}
				f.value = a.method.Combine(f.value, v)
			case a.direction == network.Upstream:
				// Parent is on the stack, no contribution.
			case result.pending.ID == f.edge.ID:
				a.repair(parent, f.edge)
			default: // Unwind to the root of the loop.
				delete(a.memo, f.edge.ID)
				a.unwound[f.edge.ID] = true
				stack = stack[:len(stack)-1]
				hasResult = true
				continue
			}
		}
		if f.next < len(f.parents) {
			p := f.parents[f.next]
			f.next++
			if s, ok := a.memo[p.ID]; ok {
				result, hasResult = a.outcome(p, s), true
			} else if stack, err = a.push(stack, p); err != nil {
				return err
			}
			continue
		}
		a.memo[f.edge.ID] = state{value: f.value}
		stack = stack[:len(stack)-1]
		result, hasResult = outcome{value: f.value}, true
	}
	return nil
}

func (a *Aggregator) outcome(e *network.Edge, s state) outcome {
	if s.pending {
		return outcome{pending: e}
	}
	return outcome{value: s.value}
}

// repair fixes the edges of a loop closing on root to zero.
// The walk starts at the parent of root that returned pending, and follows parents back through
// edges that were unwound from the memo, while the only remaining sibling of an edge is itself.
func (a *Aggregator) repair(from, root *network.Edge) {
	todo := []*network.Edge{from}
	for len(todo) > 0 {
		e := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if e.ID == root.ID || !a.unwound[e.ID] || a.fixed[e.ID] {
			continue
		}
		if _, ok := a.memo[e.ID]; ok {
			continue
		}
		n := a.valid(a.siblings(e))
		a.memo[e.ID] = state{}
		a.fixed[e.ID] = true
		log.V(5).Info("Loop repair", "edge", e.ID, "root", root.ID)
		if n == 1 {
			parents := a.parents(e)
			slices.Reverse(parents)
			todo = append(todo, parents...)
		}
	}
}
