// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// package text prints networks and traces as aligned text tables for the command line.
package text

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/netrace/netrace/pkg/network"
	"github.com/netrace/netrace/pkg/service"
)

func WriteString(print func(io.Writer)) string {
	w := &strings.Builder{}
	print(w)
	return w.String()
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

// Networks prints one line per network.
func Networks(w io.Writer, infos []service.NetworkInfo) {
	tw := newTable(w, "NETWORK", "EDGE-TYPE", "VERTEX-TYPE", "VERTICES", "EDGES", "MAX-DISTANCE", "AGGREGATES")
	defer func() { _ = tw.Flush() }()
	for _, n := range infos {
		maxDistance := "-"
		if n.MaxDistance != nil {
			maxDistance = number(*n.MaxDistance)
		}
		fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\t%v\t%v\n",
			n.Name, n.EdgeType, n.VertexType, n.Vertices, n.Edges, maxDistance, strings.Join(n.Aggregates, ","))
	}
}

// Trace prints the edges of a trace in order, with the distance to each target and the aggregate values.
// Warnings are printed after the table.
func Trace(w io.Writer, r *service.TraceResponse) {
	targets := slices.Sorted(maps.Keys(r.Aggregates))
	headers := []string{"EDGE", "TYPE", "FROM", "TO", "WEIGHT", "DISTANCE"}
	for _, t := range targets {
		headers = append(headers, strings.ToUpper(t))
	}
	tw := newTable(w, headers...)
	for _, e := range r.Edges {
		from, to := e.Source, e.Target
		if r.Direction == network.Upstream {
			from, to = to, from
		}
		row := []string{e.ID.String(), e.Type, idString(from), idString(to), optional(e.Weight), "-"}
		if to != nil {
			if d, ok := r.Distances[*to]; ok {
				row[5] = number(d)
			}
		}
		for _, t := range targets {
			if v, ok := r.Aggregates[t][e.ID]; ok {
				row = append(row, number(v))
			} else {
				row = append(row, "-")
			}
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%v vertices, %v edges, %v\n", len(r.Vertices), len(r.Edges), r.Direction)
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "warning: %v\n", warning)
	}
}

func number(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func optional(f *float64) string {
	if f == nil {
		return "-"
	}
	return number(*f)
}

func idString(id *network.ID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
