// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package tracing enumerates paths through a [network.View].
//
// A trace is a depth-first enumeration of paths from a start vertex or edge.
// Each path is extended until it is stopped by one of:
//   - a dead end, no outgoing edges;
//   - a cycle, when simple paths are requested;
//   - a vertex that was already expanded, when visited vertices are ignored;
//   - the [Predicate] returning false;
//   - the edge limit.
//
// Paths are folded into a subgraph with [Fold].
package tracing

import (
	"github.com/netrace/netrace/internal/pkg/logging"
	"github.com/netrace/netrace/pkg/network"
)

var log = logging.Log()

// Predicate decides whether a path should be extended further.
type Predicate func(*Path) bool

// Start of a trace. At least one of Vertex or Edge must be set.
// If Edge is set, the trace starts with Edge and Vertex must be nil or the source of Edge.
type Start struct {
	Vertex *network.Vertex
	Edge   *network.Edge
}

// Options for [Tracer.Trace].
type Options struct {
	// SimplePathsOnly stops a path when it returns to a vertex it already contains.
	SimplePathsOnly bool
	// Continue is called for each candidate path, a nil predicate always continues.
	Continue Predicate
	// MaxEdges limits the number of edges added to the trace, 0 means no limit.
	MaxEdges int
	// IgnoreVisited stops a path at a vertex that was already expanded by another path.
	IgnoreVisited bool
}

// Result of a trace.
type Result struct {
	// Paths in the order they were completed.
	Paths []*Path
	// LimitReached is true if the trace was truncated by Options.MaxEdges.
	LimitReached bool
}

// Tracer traces paths in a view.
// A Tracer has no mutable state and is safe for concurrent use if the view is not modified.
type Tracer struct {
	view network.View
}

// New tracer for view.
func New(view network.View) *Tracer { return &Tracer{view: view} }

// View being traced.
func (t *Tracer) View() network.View { return t.view }

// TraceWeight traces paths while the path weight is less than maxWeight.
func (t *Tracer) TraceWeight(start Start, simple bool, maxWeight float64, maxEdges int) (Result, error) {
	if maxWeight <= 0 {
		return Result{}, errWeight
	}
	return t.Trace(start, Options{
		SimplePathsOnly: simple,
		Continue:        func(p *Path) bool { return p.Weight() < maxWeight },
		MaxEdges:        maxEdges,
	})
}

// Trace enumerates paths from start.
func (t *Tracer) Trace(start Start, opts Options) (Result, error) {
	tr := &trace{Tracer: t, opts: opts, expanded: map[network.ID]bool{}}
	if err := tr.seed(start); err != nil {
		return Result{}, err
	}
	for len(tr.stack) > 0 {
		p := tr.stack[len(tr.stack)-1]
		tr.stack = tr.stack[:len(tr.stack)-1]
		switch {
		case opts.SimplePathsOnly && p.Returned():
			tr.finish(p)
		case opts.IgnoreVisited && tr.expanded[p.End().ID]:
			tr.finish(p)
		case opts.Continue != nil && !opts.Continue(p):
			tr.finish(p)
		default:
			tr.expand(p)
		}
	}
	log.V(4).Info("Trace complete", "paths", len(tr.paths), "edges", tr.count, "limitReached", tr.limitReached)
	return Result{Paths: tr.paths, LimitReached: tr.limitReached}, nil
}

// trace is the state of a single call to Trace.
type trace struct {
	*Tracer
	opts         Options
	stack        []*Path // Top of stack is the end of the slice.
	paths        []*Path
	expanded     map[network.ID]bool
	count        int // Edges pushed so far.
	limitReached bool
}

func (tr *trace) seed(start Start) error {
	switch {
	case start.Edge != nil:
		e := start.Edge
		from, to := tr.view.Source(e), tr.view.Target(e)
		if from == nil || to == nil { // Edge not in view.
			return nil
		}
		if start.Vertex != nil && from.ID != start.Vertex.ID {
			return errStartMismatch
		}
		tr.count++
		tr.stack = append(tr.stack, newPath(from, e, to, tr.view.Weight(e)))
	case start.Vertex != nil:
		v := start.Vertex
		tr.expanded[v.ID] = true
		for _, e := range tr.view.Outgoing(v) {
			if !tr.push(func() *Path { return newPath(v, e, tr.view.Target(e), tr.view.Weight(e)) }) {
				break
			}
		}
	default:
		return errNoStart
	}
	return nil
}

func (tr *trace) full() bool { return tr.opts.MaxEdges > 0 && tr.count >= tr.opts.MaxEdges }

// push a new path unless the edge limit is reached, returns false if the limit was reached.
// The limit is only reached by a path that is refused, so a trace that uses exactly MaxEdges is complete.
func (tr *trace) push(next func() *Path) bool {
	if tr.full() {
		tr.limitReached = true
		return false
	}
	tr.count++
	tr.stack = append(tr.stack, next())
	return true
}

func (tr *trace) expand(p *Path) {
	tr.expanded[p.End().ID] = true
	pushed := 0
	for _, e := range tr.view.Outgoing(p.End()) {
		if !tr.push(func() *Path { return p.extend(e, tr.view.Target(e), tr.view.Weight(e)) }) {
			break
		}
		pushed++
	}
	if pushed == 0 {
		tr.finish(p)
	}
}

func (tr *trace) finish(p *Path) { tr.paths = append(tr.paths, p) }
