// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package service

import (
	"context"
	"testing"

	"github.com/netrace/netrace/pkg/engine"
	"github.com/netrace/netrace/pkg/loader"
	"github.com/netrace/netrace/pkg/network"
	"github.com/netrace/netrace/pkg/ptr"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sewer(s string) network.ID { return network.NewID("sewer", s) }
func river(s string) network.ID { return network.NewID("river", s) }

var connection = network.GeneratedID("river", loader.ConnectionID(sewer("5"), river("r")))

func newService(t *testing.T) *Service {
	t.Helper()
	s := New("testdata/config.yaml", nil)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestService_Load(t *testing.T) {
	s := New("testdata/config.yaml", nil)
	assert.Equal(t, StatusInfo{Status: Uninitialized}, s.Status())
	require.NoError(t, s.Load(context.Background()))
	st := s.Status()
	assert.Equal(t, Ready, st.Status)
	assert.Equal(t, int64(1), st.Serial)
	assert.NotNil(t, st.Loaded)
	assert.Equal(t, 7, st.Vertices)
	assert.Equal(t, 6, st.Edges)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, int64(2), s.Status().Serial)
	assert.Equal(t, 2.0, testutil.ToFloat64(s.Metrics().GraphReloadsTotal.WithLabelValues("success")))
}

func TestService_LoadFailed(t *testing.T) {
	s := New("testdata/nonesuch.yaml", nil)
	require.Error(t, s.Load(context.Background()))
	st := s.Status()
	assert.Equal(t, Failed, st.Status)
	assert.Contains(t, st.Error, "nonesuch.yaml")

	_, err := s.Trace(context.Background(), TraceRequest{Start: []string{"sewer:1"}})
	assert.True(t, IsNotReady(err), "%v", err)
	_, err = s.Networks()
	assert.True(t, IsNotReady(err), "%v", err)
}

func TestService_Networks(t *testing.T) {
	infos, err := newService(t).Networks()
	require.NoError(t, err)
	assert.Equal(t, []NetworkInfo{
		{Name: "sewer", EdgeType: "pipe", VertexType: "manhole", Aggregates: []string{"totalFlow", "split"}, Vertices: 5, Edges: 4},
		{Name: "river", EdgeType: "river", VertexType: "river-vertex", MaxDistance: ptr.To(100.0), Vertices: 2, Edges: 2},
	}, infos)
}

func TestService_TraceDownstream(t *testing.T) {
	s := newService(t)
	resp, err := s.Trace(context.Background(), TraceRequest{Start: []string{"sewer:1"}})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.Serial)
	assert.Equal(t, network.Downstream, resp.Direction)
	assert.False(t, resp.LimitReached)
	assert.Empty(t, resp.Warnings)
	assert.Equal(t, []network.ID{sewer("1"), sewer("2"), sewer("3"), sewer("5"), sewer("4")}, resp.OrderedVertices)
	assert.Equal(t, []network.ID{sewer("a"), sewer("b"), sewer("d"), sewer("c")}, resp.OrderedEdges, "loose connection removed")
	assert.Equal(t, map[network.ID]float64{sewer("2"): 1, sewer("3"): 2, sewer("5"): 3, sewer("4"): 2}, resp.Distances)
	assert.Equal(t, map[string]map[network.ID]float64{
		"totalFlow": {sewer("a"): 1, sewer("b"): 2.5, sewer("d"): 6.5, sewer("c"): 3.5},
		"split":     {sewer("a"): 1, sewer("b"): .5, sewer("d"): .5, sewer("c"): .5},
	}, resp.Aggregates)

	a := resp.Edges[0]
	assert.Equal(t, Entity{
		ID:         sewer("a"),
		Type:       "pipe",
		Source:     ptr.To(sewer("1")),
		Target:     ptr.To(sewer("2")),
		Weight:     ptr.To(1.0),
		Attributes: map[string]any{"name": "a", "flow": 1.0},
	}, a, "user attributes only")
	assert.Equal(t, Entity{ID: sewer("1"), Type: "manhole", Attributes: map[string]any{"depth": 2.0}}, resp.Vertices[0])

	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().TracesTotal.WithLabelValues("downstream")))
}

func TestService_TraceUpstream(t *testing.T) {
	resp, err := newService(t).Trace(context.Background(), TraceRequest{Start: []string{"river:r2"}, Upstream: true})
	require.NoError(t, err)
	assert.Equal(t, network.Upstream, resp.Direction)
	assert.Equal(t, []network.ID{river("r"), connection, sewer("d"), sewer("b"), sewer("a")}, resp.OrderedEdges)
	assert.Equal(t, []network.ID{river("r2"), river("r1"), sewer("5"), sewer("3"), sewer("2"), sewer("1")}, resp.OrderedVertices)
	assert.Equal(t, map[network.ID]float64{river("r1"): 5, sewer("5"): 0, sewer("3"): 1, sewer("2"): 2, sewer("1"): 3}, resp.Distances)
	assert.Equal(t, map[string]map[network.ID]float64{
		"totalFlow": {sewer("a"): 7, sewer("b"): 6, sewer("d"): 4},
	}, resp.Aggregates)
	assert.Equal(t, []string{"aggregate_skipped:split"}, resp.Warnings)

	conn := resp.Edges[1]
	assert.Equal(t, network.ConnectionEdgeType, conn.Type)
	assert.Equal(t, sewer("5"), *conn.Source, "native direction")
	assert.Equal(t, river("r2"), *conn.Target)
	assert.Equal(t, 0.0, *conn.Weight)
	assert.Equal(t, map[string]any{"source": "sewer:5", "reference": "river:r"}, conn.Attributes)
}

func TestService_TraceNetworks(t *testing.T) {
	s := newService(t)
	for _, x := range []struct {
		name       string
		networks   []NetworkRequest
		edges      []network.ID
		aggregates map[string]map[network.ID]float64
		warnings   []string
	}{
		{
			name:     "filtered",
			networks: []NetworkRequest{{Name: "sewer", EdgeFilter: `status != "closed"`}},
			edges:    []network.ID{sewer("a"), sewer("b"), sewer("d")},
			aggregates: map[string]map[network.ID]float64{
				"totalFlow": {sewer("a"): 1, sewer("b"): 3, sewer("d"): 7},
				"split":     {sewer("a"): 1, sewer("b"): 1, sewer("d"): 1},
			},
		},
		{
			name:     "selected aggregate",
			networks: []NetworkRequest{{Name: "sewer", Aggregates: []string{"split"}}},
			edges:    []network.ID{sewer("a"), sewer("b"), sewer("d"), sewer("c")},
			aggregates: map[string]map[network.ID]float64{
				"split": {sewer("a"): 1, sewer("b"): .5, sewer("d"): .5, sewer("c"): .5},
			},
		},
		{
			name:     "no connection into river",
			networks: []NetworkRequest{{Name: "river"}},
			edges:    []network.ID{sewer("a"), sewer("b"), sewer("d"), sewer("c")},
		},
		{
			name:     "hidden start",
			networks: []NetworkRequest{{Name: "sewer", NodeFilter: `depth == null`}},
			warnings: []string{WarnStartNotTraceable},
		},
	} {
		t.Run(x.name, func(t *testing.T) {
			resp, err := s.Trace(context.Background(), TraceRequest{Start: []string{"sewer:1"}, Networks: x.networks})
			require.NoError(t, err)
			assert.Equal(t, x.edges, resp.OrderedEdges)
			assert.Equal(t, x.aggregates, resp.Aggregates)
			assert.Equal(t, x.warnings, resp.Warnings)
		})
	}
}

func TestService_TraceLimit(t *testing.T) {
	resp, err := newService(t).Trace(context.Background(), TraceRequest{Start: []string{"sewer:1"}, Limit: 2})
	require.NoError(t, err)
	assert.True(t, resp.LimitReached)
	assert.Contains(t, resp.Warnings, WarnMaxEdges)
	assert.LessOrEqual(t, len(resp.Edges), 2)

	// The limit applies to each start.
	resp, err = newService(t).Trace(context.Background(), TraceRequest{Start: []string{"sewer:1", "sewer:3"}, Limit: 1})
	require.NoError(t, err)
	assert.True(t, resp.LimitReached)
	assert.Equal(t, []network.ID{sewer("a"), sewer("d")}, resp.OrderedEdges)
}

func TestService_TraceErrors(t *testing.T) {
	s := newService(t)
	for _, x := range []struct {
		name  string
		req   TraceRequest
		check func(error) bool
	}{
		{"no start", TraceRequest{}, IsRequestError},
		{"bad start", TraceRequest{Start: []string{"nocolon"}}, IsRequestError},
		{"negative limit", TraceRequest{Start: []string{"sewer:1"}, Limit: -1}, IsRequestError},
		{"unknown network", TraceRequest{Start: []string{"sewer:1"}, Networks: []NetworkRequest{{Name: "x"}}}, IsRequestError},
		{"duplicate network", TraceRequest{Start: []string{"sewer:1"}, Networks: []NetworkRequest{{Name: "river"}, {Name: "river"}}}, IsRequestError},
		{"bad filter", TraceRequest{Start: []string{"sewer:1"}, Networks: []NetworkRequest{{Name: "sewer", NodeFilter: "(("}}}, IsRequestError},
		{"not found", TraceRequest{Start: []string{"sewer:99"}}, engine.IsStartNotFound},
	} {
		t.Run(x.name, func(t *testing.T) {
			_, err := s.Trace(context.Background(), x.req)
			require.Error(t, err)
			assert.True(t, x.check(err), "%v", err)
		})
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().TraceErrors.WithLabelValues("start_not_found")))
}

func TestSnapshot_Request(t *testing.T) {
	snap := newService(t).snap.Load()
	r, err := snap.request(TraceRequest{Start: []string{"sewer:1", "river:r"}, Limit: 1000, Upstream: true,
		Networks: []NetworkRequest{{Name: "river"}, {Name: "sewer", MaxDistance: ptr.To(3.0)}}})
	require.NoError(t, err)
	assert.Equal(t, []network.ID{sewer("1"), river("r")}, r.Starts)
	assert.Equal(t, network.Upstream, r.Direction)
	assert.Equal(t, 50, r.MaxEdges, "capped by configured limit")
	require.Len(t, r.Networks, 2)
	assert.Equal(t, 100.0, r.Networks[0].MaxDistance, "configured default")
	assert.Equal(t, 3.0, r.Networks[1].MaxDistance)
}
