// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package engine

import (
	"fmt"
	"testing"

	"github.com/netrace/netrace/pkg/network"
	"github.com/netrace/netrace/pkg/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vid(n int) network.ID    { return network.NewID("toy", fmt.Sprint(n)) }
func eid(a, b int) network.ID { return network.NewID("toy", fmt.Sprintf("%v-%v", a, b)) }

func toy(t testing.TB) *network.Graph {
	t.Helper()
	g := network.New()
	for i := 1; i <= 7; i++ {
		_, err := g.AddVertex(vid(i), nil)
		require.NoError(t, err)
	}
	for _, x := range []struct {
		a, b int
		w    float64
	}{{1, 2, .25}, {2, 3, .35}, {2, 4, .45}, {3, 5, .25}, {4, 5, .35}, {5, 6, .45}, {4, 2, .55}, {4, 7, .25}, {7, 1, .05}} {
		_, err := g.AddEdge(vid(x.a), vid(x.b), eid(x.a, x.b), nil)
		require.NoError(t, err)
		require.NoError(t, g.SetWeight(eid(x.a, x.b), x.w))
	}
	return g
}

func assertDistances(t *testing.T, want map[int]float64, got map[network.ID]float64) {
	t.Helper()
	require.Len(t, got, len(want), "%v", got)
	for k, w := range want {
		assert.InDelta(t, w, got[vid(k)], 1e-9, "vertex %v", k)
	}
}

func TestEngine_Trace(t *testing.T) {
	e := New(toy(t))
	r, err := e.Trace(Request{Starts: []network.ID{vid(1)}, MaxDistance: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Paths)
	assert.Equal(t, 9, r.Graph.Size())
	assert.False(t, r.LimitReached)
	assertDistances(t, map[int]float64{2: .25, 3: .6, 4: .7, 5: .85, 6: 1.3, 7: .95}, r.Distances[vid(1)])

	edges, err := r.OrderedEdges()
	require.NoError(t, err)
	assert.Equal(t, []network.ID{eid(1, 2), eid(2, 3), eid(3, 5), eid(5, 6), eid(2, 4), eid(4, 5), eid(4, 2), eid(4, 7), eid(7, 1)}, network.IDs(edges))
	vertices, err := r.OrderedVertices()
	require.NoError(t, err)
	assert.Equal(t, []network.ID{vid(1), vid(2), vid(3), vid(5), vid(6), vid(4), vid(7)}, network.IDs(vertices))
}

func TestEngine_Upstream(t *testing.T) {
	g := toy(t)
	r, err := New(g).Trace(Request{Starts: []network.ID{vid(6)}, Direction: network.Upstream, MaxDistance: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Paths)
	assert.Equal(t, []network.ID{eid(2, 3), eid(2, 4), eid(3, 5), eid(4, 5), eid(5, 6)}, network.IDs(r.Graph.Edges()))
	e := r.Graph.Edge(eid(5, 6))
	assert.Equal(t, vid(6), r.Graph.Source(e).ID, "trace orientation")
	assert.Equal(t, vid(5), r.Native().Source(e).ID, "native orientation")
	assertDistances(t, map[int]float64{5: .45, 4: .8, 3: .7, 2: 1.05}, r.Distances[vid(6)])
}

func TestEngine_StartEdge(t *testing.T) {
	r, err := New(toy(t)).Trace(Request{Starts: []network.ID{eid(2, 3)}, MaxDistance: 2})
	require.NoError(t, err)
	assert.Equal(t, []network.ID{vid(2)}, network.IDs(r.Starts))
	assert.Equal(t, []network.ID{eid(2, 3), eid(3, 5), eid(5, 6)}, network.IDs(r.Graph.Edges()))
	assertDistances(t, map[int]float64{3: .35, 5: .6, 6: 1.05}, r.Distances[eid(2, 3)])
}

func TestEngine_StartNotFound(t *testing.T) {
	_, err := New(toy(t)).Trace(Request{Starts: []network.ID{vid(1), vid(99)}})
	require.Error(t, err)
	assert.True(t, IsStartNotFound(err))
	assert.EqualError(t, err, "start not found: toy:99")
}

func TestEngine_IgnoreVisited(t *testing.T) {
	e := New(toy(t))
	// No ceiling, visited vertices are ignored automatically.
	r, err := e.Trace(Request{Starts: []network.ID{vid(4)}})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Paths)
	assert.Equal(t, 9, r.Graph.Size())

	r, err = e.Trace(Request{Starts: []network.ID{vid(4)}, AutoIgnoreVisited: ptr.To(false)})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Paths)
	assert.Equal(t, 9, r.Graph.Size())

	r, err = e.Trace(Request{Starts: []network.ID{vid(4)}, AutoIgnoreVisited: ptr.To(false), IgnoreVisited: true})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Paths)
}

func TestEngine_MultiStart(t *testing.T) {
	r, err := New(toy(t)).Trace(Request{Starts: []network.ID{vid(3), vid(4)}})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Paths)
	assert.Equal(t, 9, r.Graph.Size())
	assertDistances(t, map[int]float64{5: .25, 6: .7}, r.Distances[vid(3)])
	assertDistances(t, map[int]float64{7: .25, 1: .3, 2: .55, 3: .9, 5: .35, 6: .8}, r.Distances[vid(4)])
	assert.False(t, r.LimitReached)
	vertices, err := r.OrderedVertices()
	require.NoError(t, err)
	assert.Equal(t, []network.ID{vid(3), vid(5), vid(6), vid(4), vid(2), vid(7), vid(1)}, network.IDs(vertices))
}

func TestEngine_LimitReached(t *testing.T) {
	r, err := New(toy(t)).Trace(Request{Starts: []network.ID{vid(3), vid(4)}, MaxEdges: 2})
	require.NoError(t, err)
	assert.True(t, r.LimitReached)
	assert.Equal(t, []network.ID{eid(3, 5), eid(4, 5), eid(5, 6), eid(4, 2)}, network.IDs(r.Graph.Edges()))
}

// twoNetworks has networks "a" and "b", with a direct edge and a connection path from a:3 to b:1.
// All weights are 1, edge b:1-2 is closed.
func twoNetworks(t testing.TB) *network.Graph {
	t.Helper()
	g := network.New()
	node := network.NewFeature("node", nil)
	for _, id := range []network.ID{
		network.NewID("a", "1"), network.NewID("a", "2"), network.NewID("a", "3"),
		network.NewID("b", "1"), network.NewID("b", "2"), network.NewID("b", "3"),
	} {
		_, err := g.AddVertex(id, node)
		require.NoError(t, err)
	}
	_, err := g.AddVertex(network.GeneratedID("b", "cv"), network.NewFeature(network.ConnectionVertexType, nil))
	require.NoError(t, err)
	pipe := network.NewFeature("pipe", nil)
	closed := network.NewFeature("pipe", map[string]any{"open": false})
	conn := network.NewFeature(network.ConnectionEdgeType, nil)
	for _, x := range []struct {
		from, to, id string
		p            network.Payload
	}{
		{"a:1", "a:2", "a:1-2", pipe},
		{"a:2", "a:3", "a:2-3", pipe},
		{"a:3", "b:1", "b:3-1", pipe},
		{"b:1", "b:2", "b:1-2", closed},
		{"b:2", "b:3", "b:2-3", pipe},
		{"a:3", "b:cv~", "b:c1~", conn},
		{"b:cv~", "b:1", "b:c2~", conn},
	} {
		_, err := g.AddEdge(parse(t, x.from), parse(t, x.to), parse(t, x.id), x.p)
		require.NoError(t, err)
	}
	return g
}

func parse(t testing.TB, s string) network.ID {
	id, err := network.ParseID(s)
	require.NoError(t, err)
	return id
}

func TestEngine_Networks(t *testing.T) {
	g := twoNetworks(t)
	open := func(p network.Payload) bool { v, ok := p.Attribute("open"); return !ok || v != false }
	all := func(network.Payload) bool { return true }
	for _, x := range []struct {
		name  string
		req   Request
		edges []string
	}{
		{"unconfigured", Request{}, []string{"a:1-2", "a:2-3", "b:3-1", "b:1-2", "b:2-3", "b:c1~", "b:c2~"}},
		{"connections hidden", Request{Networks: []Network{{Name: "b"}}}, []string{"a:1-2", "a:2-3", "b:3-1", "b:1-2", "b:2-3"}},
		{"edge filter", Request{Networks: []Network{{Name: "b", KeepEdge: open}}}, []string{"a:1-2", "a:2-3", "b:3-1"}},
		{"vertex filter", Request{Networks: []Network{{Name: "a", KeepVertex: all}, {Name: "b", KeepVertex: func(p network.Payload) bool { return false }}}}, []string{"a:1-2", "a:2-3"}},
		{"network distance", Request{Networks: []Network{{Name: "b", MaxDistance: 1.5}}}, []string{"a:1-2", "a:2-3", "b:3-1", "b:1-2"}},
		{"global distance", Request{MaxDistance: 2.5}, []string{"a:1-2", "a:2-3", "b:3-1", "b:c1~"}},
	} {
		t.Run(x.name, func(t *testing.T) {
			x.req.Starts = []network.ID{network.NewID("a", "1")}
			r, err := New(g).Trace(x.req)
			require.NoError(t, err)
			var want []network.ID
			for _, s := range x.edges {
				want = append(want, parse(t, s))
			}
			assert.Equal(t, want, network.IDs(r.Graph.Edges()))
		})
	}
}

func TestEngine_HiddenStart(t *testing.T) {
	g := twoNetworks(t)
	hide := func(network.Payload) bool { return false }
	r, err := New(g).Trace(Request{
		Starts:   []network.ID{network.NewID("a", "1"), network.NewID("a", "2-3")},
		Networks: []Network{{Name: "a", KeepVertex: hide}},
	})
	require.NoError(t, err)
	assert.Empty(t, r.Starts)
	assert.Equal(t, 0, r.Graph.Size())
	assert.Equal(t, map[network.ID]map[network.ID]float64{
		network.NewID("a", "1"): {}, network.NewID("a", "2-3"): {},
	}, r.Distances)
}

func TestResult_FilterLooseEnds(t *testing.T) {
	g := twoNetworks(t)
	// Leave the connection path as the only way into network b, ending at b:1.
	require.True(t, g.RemoveEdge(network.NewID("b", "3-1")))
	require.True(t, g.RemoveEdge(network.NewID("b", "1-2")))
	r, err := New(g).Trace(Request{Starts: []network.ID{network.NewID("a", "1")}})
	require.NoError(t, err)
	require.Equal(t, 4, r.Graph.Size())
	r.FilterLooseEnds()
	assert.Equal(t, []network.ID{network.NewID("a", "1-2"), network.NewID("a", "2-3")}, network.IDs(r.Graph.Edges()))
	assert.Equal(t, []network.ID{network.NewID("a", "1"), network.NewID("a", "2"), network.NewID("a", "3")}, network.IDs(r.Graph.Vertices()))
	_, err = r.OrderedEdges()
	assert.NoError(t, err)
}

func TestResult_Inconsistent(t *testing.T) {
	g := toy(t)
	r := &Result{Graph: g, Starts: []*network.Vertex{g.Vertex(vid(3))}}
	_, err := r.OrderedEdges()
	assert.Equal(t, InconsistentTraceError{What: "edges", Walked: 2, Expected: 9}, err)
	_, err = r.OrderedVertices()
	assert.Equal(t, InconsistentTraceError{What: "vertices", Walked: 3, Expected: 7}, err)
}
