// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package service serves traces over a graph loaded from configuration.
//
// The service holds an immutable snapshot of the configuration and graph.
// A reload builds a new snapshot and swaps it in, traces in progress keep the snapshot they started with.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/netrace/netrace/internal/pkg/logging"
	"github.com/netrace/netrace/pkg/config"
	"github.com/netrace/netrace/pkg/engine"
	"github.com/netrace/netrace/pkg/filter"
	"github.com/netrace/netrace/pkg/loader"
	"github.com/netrace/netrace/pkg/metric"
	"github.com/netrace/netrace/pkg/network"
)

var log = logging.Log()

// Service owns the loaded graph.
type Service struct {
	source  string
	metrics *metric.Registry
	// Retry overrides the configured reload policy if not nil.
	Retry *config.Reload

	snap    atomic.Pointer[snapshot]
	status  atomic.Pointer[StatusInfo]
	loading sync.Mutex
}

// snapshot is an immutable loaded state.
type snapshot struct {
	serial  int64
	config  *config.Config
	engine  *engine.Engine
	filters map[string]filters
}

// filters compiled from the configuration of a network.
type filters struct{ vertex, edge func(network.Payload) bool }

// New service for the configuration file or URL source. Metrics are recorded in m.
func New(source string, m *metric.Registry) *Service {
	if m == nil {
		m = metric.NewRegistry()
	}
	s := &Service{source: source, metrics: m}
	s.status.Store(&StatusInfo{Status: Uninitialized})
	return s
}

// Metrics registry of the service.
func (s *Service) Metrics() *metric.Registry { return s.metrics }

// Status of the served graph.
func (s *Service) Status() StatusInfo { return *s.status.Load() }

// Config returns the current configuration, nil if not loaded.
func (s *Service) Config() *config.Config {
	if snap := s.snap.Load(); snap != nil {
		return snap.config
	}
	return nil
}

// Load makes a single attempt to load the configuration and graph.
// On failure the previous graph, if any, is still served.
func (s *Service) Load(ctx context.Context) error {
	s.loading.Lock()
	defer s.loading.Unlock()
	return s.load(ctx)
}

// TryLoad is Load, except that it fails with [BusyError] if a load is already in progress.
func (s *Service) TryLoad(ctx context.Context) error {
	if !s.loading.TryLock() {
		return BusyError{}
	}
	defer s.loading.Unlock()
	return s.load(ctx)
}

// load must be called with s.loading held.
func (s *Service) load(ctx context.Context) error {
	old := s.Status()
	s.setStatus(func(st *StatusInfo) { st.Status = Loading })
	begin := time.Now()
	snap, err := s.build(ctx, old.Serial+1)
	if err != nil {
		s.metrics.RecordReload(err, 0, 0, time.Now())
		log.Error(err, "Load failed", "config", s.source)
		s.setStatus(func(st *StatusInfo) {
			st.Status = Failed
			st.Error = err.Error()
		})
		return err
	}
	s.snap.Store(snap)
	now := time.Now()
	g := snap.engine.Graph()
	s.status.Store(&StatusInfo{Status: Ready, Serial: snap.serial, Loaded: &now, Vertices: g.Order(), Edges: g.Size()})
	s.metrics.RecordReload(nil, g.Order(), g.Size(), now)
	log.Info("Graph ready", "serial", snap.serial, "vertices", g.Order(), "edges", g.Size(), "duration", time.Since(begin))
	return nil
}

// Reload loads the graph, retrying with an increasing wait until it succeeds or ctx is done.
func (s *Service) Reload(ctx context.Context) error {
	err := s.Load(ctx)
	if err == nil {
		return nil
	}
	timer := newStandoff(s.policy())
	for timer.delay(ctx) {
		if err = s.Load(ctx); err == nil {
			return nil
		}
	}
	return fmt.Errorf("reload cancelled after %v retries: %w", timer.retries, context.Cause(ctx))
}

func (s *Service) policy() config.Reload {
	switch {
	case s.Retry != nil:
		return (&config.Config{Reload: s.Retry}).ReloadPolicy()
	case s.Config() != nil:
		return s.Config().ReloadPolicy()
	default:
		return config.DefaultReload
	}
}

func (s *Service) setStatus(update func(*StatusInfo)) {
	st := s.Status()
	update(&st)
	s.status.Store(&st)
}

func (s *Service) build(ctx context.Context, serial int64) (*snapshot, error) {
	c, err := config.LoadConfig(s.source)
	if err != nil {
		return nil, err
	}
	snap := &snapshot{serial: serial, config: c, filters: map[string]filters{}}
	for _, n := range c.Networks {
		var f filters
		if f.vertex, err = filter.Compile(n.NodeFilter); err != nil {
			return nil, err
		}
		if f.edge, err = filter.Compile(n.EdgeFilter); err != nil {
			return nil, err
		}
		snap.filters[n.Name] = f
	}
	g, err := loader.Load(ctx, c)
	if err != nil {
		return nil, err
	}
	snap.engine = engine.New(g)
	return snap, nil
}

func (s *Service) snapshot() (*snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, NotReadyError{Status: s.Status().Status}
	}
	return snap, nil
}

// Networks describes the configured networks of the current graph.
func (s *Service) Networks() ([]NetworkInfo, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	counts := map[string]*NetworkInfo{}
	infos := make([]NetworkInfo, len(snap.config.Networks))
	for i, n := range snap.config.Networks {
		infos[i] = NetworkInfo{Name: n.Name, EdgeType: n.EdgeType(), VertexType: n.VertexType(), MaxDistance: n.MaxDistance}
		for _, a := range n.EdgeFeature.Aggregates {
			infos[i].Aggregates = append(infos[i].Aggregates, a.Target)
		}
		counts[n.Name] = &infos[i]
	}
	g := snap.engine.Graph()
	for _, v := range g.Vertices() {
		if info := counts[v.ID.Network]; info != nil {
			info.Vertices++
		}
	}
	for _, e := range g.Edges() {
		if info := counts[e.ID.Network]; info != nil {
			info.Edges++
		}
	}
	return infos, nil
}
