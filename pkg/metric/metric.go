// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package metric holds the prometheus collectors of a netrace service.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns a prometheus registry and the netrace collectors registered in it.
type Registry struct {
	registry *prometheus.Registry

	TracesTotal        *prometheus.CounterVec
	TraceLimitReached  prometheus.Counter
	TraceDuration      prometheus.Histogram
	TraceErrors        *prometheus.CounterVec
	GraphReloadsTotal  *prometheus.CounterVec
	GraphEdges         prometheus.Gauge
	GraphVertices      prometheus.Gauge
	GraphLoadTimestamp prometheus.Gauge
}

// NewRegistry creates a registry with the netrace collectors and the Go runtime collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(r.registry)

	r.TracesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "netrace_traces_total",
		Help: "Total number of completed traces by direction",
	}, []string{"direction"})
	r.TraceLimitReached = factory.NewCounter(prometheus.CounterOpts{
		Name: "netrace_trace_limit_reached_total",
		Help: "Total number of traces truncated by the edge limit",
	})
	r.TraceDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "netrace_trace_duration_seconds",
		Help:    "Trace duration including aggregation",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	})
	r.TraceErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "netrace_trace_errors_total",
		Help: "Total number of failed traces by reason",
	}, []string{"reason"})
	r.GraphReloadsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "netrace_graph_reloads_total",
		Help: "Total number of graph loads by result",
	}, []string{"result"})
	r.GraphEdges = factory.NewGauge(prometheus.GaugeOpts{
		Name: "netrace_graph_edges",
		Help: "Number of edges in the loaded graph",
	})
	r.GraphVertices = factory.NewGauge(prometheus.GaugeOpts{
		Name: "netrace_graph_vertices",
		Help: "Number of vertices in the loaded graph",
	})
	r.GraphLoadTimestamp = factory.NewGauge(prometheus.GaugeOpts{
		Name: "netrace_graph_load_timestamp_seconds",
		Help: "Time the current graph was loaded, as a Unix timestamp",
	})
	return r
}

// Gatherer for the registered collectors.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// Handler serves the registered metrics in the prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// RecordTrace records a completed trace.
func (r *Registry) RecordTrace(direction string, limitReached bool, duration time.Duration) {
	r.TracesTotal.WithLabelValues(direction).Inc()
	r.TraceDuration.Observe(duration.Seconds())
	if limitReached {
		r.TraceLimitReached.Inc()
	}
}

// RecordTraceError records a failed trace.
func (r *Registry) RecordTraceError(reason string) { r.TraceErrors.WithLabelValues(reason).Inc() }

// RecordReload records a graph load attempt, with the graph size on success.
func (r *Registry) RecordReload(err error, vertices, edges int, at time.Time) {
	if err != nil {
		r.GraphReloadsTotal.WithLabelValues("failure").Inc()
		return
	}
	r.GraphReloadsTotal.WithLabelValues("success").Inc()
	r.GraphVertices.Set(float64(vertices))
	r.GraphEdges.Set(float64(edges))
	r.GraphLoadTimestamp.Set(float64(at.Unix()))
}
