// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package main

import (
	"testing"

	"github.com/netrace/netrace/pkg/ptr"
	"github.com/netrace/netrace/pkg/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetwork(t *testing.T) {
	for _, x := range []struct {
		in   string
		name string
		dist *float64
		err  bool
	}{
		{in: "sewer", name: "sewer"},
		{in: "sewer:250", name: "sewer", dist: ptr.To(250.0)},
		{in: "sewer:0.5", name: "sewer", dist: ptr.To(0.5)},
		{in: "sewer:0", err: true},
		{in: "sewer:-1", err: true},
		{in: "sewer:x", err: true},
		{in: ":1", err: true},
		{in: "", err: true},
	} {
		t.Run(x.in, func(t *testing.T) {
			name, dist, err := parseNetwork(x.in)
			if x.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, x.name, name)
			assert.Equal(t, x.dist, dist)
		})
	}
}

func TestTraceRequest(t *testing.T) {
	require.NoError(t, traceCmd.Flags().Parse([]string{
		"--start", "sewer:1", "-s", "river:r", "--upstream", "--limit", "10",
		"--network", "river:20",
		"--edge-filter", `sewer=status == "open"`,
		"--aggregate", "sewer=split",
		"--node-filter", "river=depth > 1",
		"--network", "sewer:5",
	}))
	req, err := traceRequest()
	require.NoError(t, err)
	assert.Equal(t, service.TraceRequest{
		Start:    []string{"sewer:1", "river:r"},
		Upstream: true,
		Limit:    10,
		Networks: []service.NetworkRequest{
			{Name: "river", MaxDistance: ptr.To(20.0), NodeFilter: "depth > 1"},
			{Name: "sewer", MaxDistance: ptr.To(5.0), EdgeFilter: `status == "open"`, Aggregates: []string{"split"}},
		},
	}, req)
}
