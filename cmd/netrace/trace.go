// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/netrace/netrace/internal/pkg/must"
	"github.com/netrace/netrace/pkg/service"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace --start NETWORK:ID... [flags]",
	Short: "Trace from start vertices or edges and print the result.",
	Long: `Trace from start vertices or edges and print the result.

Listed networks are restricted: connections into them are not traced, and
their distance limits and filters apply. Networks that are not listed are traced without restriction.`,
	Example: `  netrace trace -c netrace.yaml --start sewer:m1 --network sewer:250 --edge-filter 'sewer=status != "closed"'`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		req := must.Must1(traceRequest())
		s := newService(cmd)
		resp := must.Must1(s.Trace(cmd.Context(), req))
		for _, w := range resp.Warnings {
			log.Info("Warning", "warning", w)
		}
		newPrinter(cmd.OutOrStdout()).Print(resp)
	},
}

var (
	startFlag         *[]string
	upstreamFlag      *bool
	networkFlag       *[]string
	nodeFilterFlag    *[]string
	edgeFilterFlag    *[]string
	aggregateFlag     *[]string
	maxDistanceFlag   *float64
	limitFlag         *int
	ignoreVisitedFlag *bool
)

func init() {
	rootCmd.AddCommand(traceCmd)
	f := traceCmd.Flags()
	startFlag = f.StringArrayP("start", "s", nil, "Start vertex or edge NETWORK:ID, may be repeated")
	must.Must(traceCmd.MarkFlagRequired("start"))
	upstreamFlag = f.BoolP("upstream", "u", false, "Trace against the direction of flow")
	networkFlag = f.StringArray("network", nil, "Restrict network NAME[:MAX_DISTANCE], may be repeated")
	nodeFilterFlag = f.StringArray("node-filter", nil, "Vertex filter NAME=EXPRESSION for a network, implies --network NAME")
	edgeFilterFlag = f.StringArray("edge-filter", nil, "Edge filter NAME=EXPRESSION for a network, implies --network NAME")
	aggregateFlag = f.StringArray("aggregate", nil, "Compute only aggregate NAME=TARGET for a network, implies --network NAME")
	maxDistanceFlag = f.Float64("max-distance", 0, "Maximum total distance of a path, 0 for the configured default")
	limitFlag = f.Int("limit", 0, "Maximum number of edges, 0 for the configured limit")
	ignoreVisitedFlag = f.Bool("ignore-visited", false, "Stop paths at vertices that were already expanded")
}

// traceRequest builds a request from the trace flags.
func traceRequest() (service.TraceRequest, error) {
	req := service.TraceRequest{
		Start:         *startFlag,
		Upstream:      *upstreamFlag,
		MaxDistance:   *maxDistanceFlag,
		Limit:         *limitFlag,
		IgnoreVisited: *ignoreVisitedFlag,
	}
	index := map[string]int{} // Network name to index in req.Networks
	network := func(name string) *service.NetworkRequest {
		i, ok := index[name]
		if !ok {
			i = len(req.Networks)
			index[name] = i
			req.Networks = append(req.Networks, service.NetworkRequest{Name: name})
		}
		return &req.Networks[i]
	}
	for _, s := range *networkFlag {
		name, dist, err := parseNetwork(s)
		if err != nil {
			return req, err
		}
		if nr := network(name); dist != nil {
			nr.MaxDistance = dist
		}
	}
	for _, x := range []struct {
		flag  string
		value *[]string
		set   func(*service.NetworkRequest, string)
	}{
		{"node-filter", nodeFilterFlag, func(nr *service.NetworkRequest, v string) { nr.NodeFilter = v }},
		{"edge-filter", edgeFilterFlag, func(nr *service.NetworkRequest, v string) { nr.EdgeFilter = v }},
		{"aggregate", aggregateFlag, func(nr *service.NetworkRequest, v string) { nr.Aggregates = append(nr.Aggregates, v) }},
	} {
		for _, s := range *x.value {
			name, value, ok := strings.Cut(s, "=")
			if !ok || name == "" {
				return req, fmt.Errorf("--%v: expecting NAME=VALUE: %q", x.flag, s)
			}
			x.set(network(name), value)
		}
	}
	return req, nil
}

// parseNetwork parses NAME[:MAX_DISTANCE].
func parseNetwork(s string) (name string, maxDistance *float64, err error) {
	name, dist, ok := strings.Cut(s, ":")
	if name == "" {
		return "", nil, fmt.Errorf("--network: missing name: %q", s)
	}
	if !ok {
		return name, nil, nil
	}
	d, err := strconv.ParseFloat(dist, 64)
	if err != nil || d <= 0 {
		return "", nil, fmt.Errorf("--network: invalid max distance: %q", s)
	}
	return name, &d, nil
}
