// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/netrace/netrace/pkg/aggregate"
	"github.com/netrace/netrace/pkg/config"
	"github.com/netrace/netrace/pkg/engine"
	"github.com/netrace/netrace/pkg/filter"
	"github.com/netrace/netrace/pkg/network"
	"github.com/netrace/netrace/pkg/ptr"
	"github.com/netrace/netrace/pkg/unique"
)

// Trace runs a trace request against the current graph.
//
// Aggregates are computed on the full trace, before connection edges at the ends of the trace are removed.
// Errors are [NotReadyError], [RequestError], [engine.StartNotFoundError] or internal errors.
func (s *Service) Trace(ctx context.Context, req TraceRequest) (resp *TraceResponse, err error) {
	begin := time.Now()
	defer func() {
		if err != nil {
			s.metrics.RecordTraceError(errorReason(err))
		}
	}()
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if err := config.Validator().Struct(&req); err != nil {
		return nil, RequestError{Err: config.FormatValidationError(err)}
	}
	ereq, err := snap.request(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := snap.engine.Trace(ereq)
	if err != nil {
		return nil, err
	}
	resp = &TraceResponse{Serial: snap.serial, Direction: r.Direction, LimitReached: r.LimitReached}
	if r.LimitReached {
		resp.Warnings = append(resp.Warnings, WarnMaxEdges)
	}
	if len(r.Starts) < len(ereq.Starts) {
		resp.Warnings = append(resp.Warnings, WarnStartNotTraceable)
	}
	if err := snap.aggregate(r, req, resp); err != nil {
		return nil, err
	}
	r.FilterLooseEnds()
	if err := snap.project(r, resp); err != nil {
		return nil, err
	}
	if len(resp.Warnings) > 1 { // The same aggregate target may be skipped in several networks.
		resp.Warnings = unique.NewList(resp.Warnings...).List
	}
	s.metrics.RecordTrace(r.Direction.String(), r.LimitReached, time.Since(begin))
	return resp, nil
}

func errorReason(err error) string {
	switch {
	case IsNotReady(err):
		return "not_ready"
	case IsRequestError(err):
		return "invalid_request"
	case engine.IsStartNotFound(err):
		return "start_not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}

// request converts a trace request to an engine request, applying configured defaults and limits.
func (snap *snapshot) request(req TraceRequest) (engine.Request, error) {
	c := snap.config
	limits := config.Limits{}
	if c.Limits != nil {
		limits = *c.Limits
	}
	ereq := engine.Request{
		Direction:         network.Downstream,
		MaxDistance:       req.MaxDistance,
		MaxEdges:          req.Limit,
		IgnoreVisited:     req.IgnoreVisited,
		AutoIgnoreVisited: limits.AutoIgnoreVisited,
	}
	if req.Upstream {
		ereq.Direction = network.Upstream
	}
	if ereq.MaxDistance == 0 {
		ereq.MaxDistance = limits.DefaultMaxDistance
	}
	if limits.MaxEdges > 0 && (ereq.MaxEdges == 0 || ereq.MaxEdges > limits.MaxEdges) {
		ereq.MaxEdges = limits.MaxEdges
	}
	for _, s := range req.Start {
		id, err := network.ParseID(s)
		if err != nil {
			return ereq, RequestError{Err: err}
		}
		ereq.Starts = append(ereq.Starts, id)
	}
	seen := map[string]bool{}
	for _, nr := range req.Networks {
		n := c.Network(nr.Name)
		if n == nil {
			return ereq, requestError("unknown network %q", nr.Name)
		}
		if seen[nr.Name] {
			return ereq, requestError("network %q listed more than once", nr.Name)
		}
		seen[nr.Name] = true
		en := engine.Network{Name: n.Name, MaxDistance: ptr.ValueOr(nr.MaxDistance, ptr.ValueOr(n.MaxDistance, 0))}
		f := snap.filters[n.Name]
		var err error
		if en.KeepVertex, err = combine(f.vertex, nr.NodeFilter); err != nil {
			return ereq, RequestError{Err: fmt.Errorf("network %q: %w", nr.Name, err)}
		}
		if en.KeepEdge, err = combine(f.edge, nr.EdgeFilter); err != nil {
			return ereq, RequestError{Err: fmt.Errorf("network %q: %w", nr.Name, err)}
		}
		ereq.Networks = append(ereq.Networks, en)
	}
	return ereq, nil
}

// combine a configured filter with a request filter expression. Both must match.
func combine(configured func(network.Payload) bool, expr string) (func(network.Payload) bool, error) {
	requested, err := filter.Compile(expr)
	switch {
	case err != nil:
		return nil, err
	case configured == nil:
		return requested, nil
	case requested == nil:
		return configured, nil
	default:
		return func(p network.Payload) bool { return configured(p) && requested(p) }, nil
	}
}

// aggregate computes the configured aggregates of the traced networks.
// If the request lists no networks, all configured networks are aggregated.
func (snap *snapshot) aggregate(r *engine.Result, req TraceRequest, resp *TraceResponse) error {
	selected := map[string][]string{} // Network name to requested targets, nil means all.
	if len(req.Networks) == 0 {
		for _, n := range snap.config.Networks {
			selected[n.Name] = nil
		}
	}
	for _, nr := range req.Networks {
		selected[nr.Name] = nr.Aggregates
	}
	order, err := r.OrderedEdges()
	if err != nil {
		return err
	}
	view := r.Native()
	for _, n := range snap.config.Networks {
		targets, ok := selected[n.Name]
		if !ok {
			continue
		}
		for _, a := range n.EdgeFeature.Aggregates {
			if targets != nil && !slices.Contains(targets, a.Target) {
				continue
			}
			m, err := aggregate.MethodByName(a.Method)
			if err != nil {
				return err
			}
			if r.Direction == network.Upstream && !m.SupportsUpstream() {
				resp.Warnings = append(resp.Warnings, fmt.Sprintf("%v:%v", WarnAggregateSkipped, a.Target))
				continue
			}
			agg, err := aggregate.New(view, order, n.EdgeType(), a.Source, m, r.Direction)
			if err != nil {
				return err
			}
			values, err := agg.Aggregate()
			if err != nil {
				return fmt.Errorf("aggregate %v: %w", a.Target, err)
			}
			if len(values) == 0 {
				continue
			}
			if resp.Aggregates == nil {
				resp.Aggregates = map[string]map[network.ID]float64{}
			}
			if resp.Aggregates[a.Target] == nil {
				resp.Aggregates[a.Target] = values
			} else {
				maps.Copy(resp.Aggregates[a.Target], values)
			}
		}
	}
	return nil
}

// project fills in the entities, ordering and distances of the response from the filtered result.
func (snap *snapshot) project(r *engine.Result, resp *TraceResponse) error {
	vertices, err := r.OrderedVertices()
	if err != nil {
		return err
	}
	edges, err := r.OrderedEdges()
	if err != nil {
		return err
	}
	native := r.Native()
	resp.Distances = map[network.ID]float64{}
	starts := unique.Set[network.ID]{}
	for _, v := range r.Starts {
		starts.Add(v.ID)
	}
	for _, v := range vertices {
		resp.OrderedVertices = append(resp.OrderedVertices, v.ID)
		resp.Vertices = append(resp.Vertices, snap.entity(v.ID, v.Payload, false))
		if starts.Has(v.ID) {
			continue
		}
		for _, d := range r.Distances {
			if w, ok := d[v.ID]; ok {
				if old, ok := resp.Distances[v.ID]; !ok || w < old {
					resp.Distances[v.ID] = w
				}
			}
		}
	}
	for _, e := range edges {
		resp.OrderedEdges = append(resp.OrderedEdges, e.ID)
		x := snap.entity(e.ID, e.Payload, true)
		source, target, w := native.Source(e).ID, native.Target(e).ID, native.Weight(e)
		x.Source, x.Target, x.Weight = &source, &target, &w
		resp.Edges = append(resp.Edges, x)
	}
	return nil
}

// entity with the user attributes configured for its network.
func (snap *snapshot) entity(id network.ID, p network.Payload, edge bool) Entity {
	x := Entity{ID: id, Type: network.TypeOf(p)}
	f, ok := p.(*network.Feature)
	if !ok || len(f.Attributes) == 0 {
		return x
	}
	var attrs []string
	if n := snap.config.Network(id.Network); n != nil && !network.IsConnection(p) {
		if edge {
			attrs = n.EdgeFeature.UserAttributes
		} else {
			attrs = n.VertexFeature.UserAttributes
		}
	}
	if len(attrs) == 0 {
		x.Attributes = maps.Clone(f.Attributes)
		return x
	}
	x.Attributes = map[string]any{}
	for _, name := range attrs {
		if v, ok := f.Attributes[name]; ok {
			x.Attributes[name] = v
		}
	}
	return x
}
