// Package monitor runs the per-port analytics pipeline: fetch a snapshot
// through the cached provider chain, predict arrivals, cluster the fleet,
// analyze berth capacity and assemble the port report. Independent ports
// run concurrently; a failing port never aborts its siblings.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pietroscik/marinetraffic/core/cluster"
	"github.com/pietroscik/marinetraffic/core/events"
	"github.com/pietroscik/marinetraffic/core/logger"
	"github.com/pietroscik/marinetraffic/core/metrics"
	"github.com/pietroscik/marinetraffic/core/model"
	"github.com/pietroscik/marinetraffic/core/predict"
	"github.com/pietroscik/marinetraffic/core/report"
	"github.com/pietroscik/marinetraffic/internal/eventbus"
)

// SnapshotSource serves the vessel snapshot for one port, implemented by
// cache.SnapshotCache.
type SnapshotSource interface {
	Get(ctx context.Context, port model.Port) (model.Snapshot, error)
}

// Monitor orchestrates monitoring cycles over the configured ports.
type Monitor struct {
	cfg       Config
	source    SnapshotSource
	predictor *predict.Predictor
	clusterer *cluster.Clusterer
	projCfg   predict.ProjectionConfig
	sink      metrics.MetricsSink
	store     *report.MemoryStore
	log       logger.Logger

	cycleBus      *eventbus.TypedBus[events.CycleEvent]
	congestionBus *eventbus.TypedBus[events.CongestionEvent]

	now func() time.Time
}

// New builds a monitor after validating its configuration.
func New(cfg Config, source SnapshotSource, predictor *predict.Predictor, clusterer *cluster.Clusterer,
	projCfg predict.ProjectionConfig, sink metrics.MetricsSink, store *report.MemoryStore, log logger.Logger) (*Monitor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	projCfg.SetDefaults()
	if err := projCfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if store == nil {
		store = report.NewMemoryStore()
	}
	return &Monitor{
		cfg:           cfg,
		source:        source,
		predictor:     predictor,
		clusterer:     clusterer,
		projCfg:       projCfg,
		sink:          sink,
		store:         store,
		log:           log,
		cycleBus:      eventbus.NewTyped[events.CycleEvent](),
		congestionBus: eventbus.NewTyped[events.CongestionEvent](),
		now:           time.Now,
	}, nil
}

// Reports exposes the store holding the latest report per port.
func (m *Monitor) Reports() *report.MemoryStore { return m.store }

// CycleEvents subscribes to per-port cycle outcomes.
func (m *Monitor) CycleEvents() <-chan events.CycleEvent { return m.cycleBus.Subscribe() }

// CongestionEvents subscribes to congestion notifications.
func (m *Monitor) CongestionEvents() <-chan events.CongestionEvent {
	return m.congestionBus.Subscribe()
}

// Close shuts down the event buses.
func (m *Monitor) Close() {
	m.cycleBus.Close()
	m.congestionBus.Close()
}

// Run executes one cycle immediately, then one per configured interval
// until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.RunCycle(ctx)
	ticker := time.NewTicker(time.Duration(m.cfg.IntervalSeconds) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.RunCycle(ctx)
		}
	}
}

// RunCycle monitors every configured port once. Ports run concurrently and
// share no mutable state; the result map carries one report per port,
// failed ones included.
func (m *Monitor) RunCycle(ctx context.Context) map[string]model.PortReport {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports = make(map[string]model.PortReport, len(m.cfg.Ports))
	)
	for _, port := range m.cfg.Ports {
		wg.Add(1)
		go func(p model.Port) {
			defer wg.Done()
			rep := m.MonitorPort(ctx, p)
			mu.Lock()
			reports[p.Name] = rep
			mu.Unlock()
		}(port)
	}
	wg.Wait()
	return reports
}

// MonitorPort runs the full pipeline for one port and returns its report.
// Failures yield a report with zero vessels and the Error annotation set,
// never one indistinguishable from a quiet port.
func (m *Monitor) MonitorPort(ctx context.Context, port model.Port) model.PortReport {
	start := m.now()
	rep := model.PortReport{
		CycleID:     uuid.NewString(),
		Port:        port.Name,
		GeneratedAt: start,
	}

	// Configuration problems fail fast, before any provider call.
	if err := port.Validate(); err != nil {
		return m.fail(rep, start, err)
	}

	snap, err := m.source.Get(ctx, port)
	if err != nil {
		return m.fail(rep, start, err)
	}

	now := m.now()
	preds := m.predictor.Predict(snap.Vessels, now)
	windows := m.predictor.ArrivalWindows(preds, now)
	capacity, err := m.clusterer.AnalyzeCapacity(preds, port, m.predictor.Config().HorizonHours)
	if err != nil {
		return m.fail(rep, start, err)
	}

	rep.Source = snap.Source
	rep.Stale = snap.Stale
	rep.Vessels = snap.Vessels
	rep.DroppedRecords = snap.Dropped
	rep.Predictions = preds
	rep.PriorityArrivals = m.predictor.PriorityArrivals(preds)
	rep.Windows = windows
	rep.ByType = m.clusterer.ByShipType(preds)
	rep.BySize = m.clusterer.BySize(snap.Vessels, preds)
	rep.ByWindow = m.clusterer.ByWindow(preds)
	rep.ServiceEstimates = m.clusterer.EstimateServiceTimes(snap.Vessels)
	rep.Capacity = capacity
	rep.Stats = trafficStats(snap.Vessels, preds)

	if m.projCfg.Enabled {
		proj, err := predict.Project(preds, now, m.projCfg)
		if err != nil {
			// Validated at startup; a failure here is a programming error.
			m.log.Errorf("projection for port %s: %v", port.Name, err)
		} else {
			rep.Projection = &proj
		}
	}

	m.finish(rep, start)
	if capacity.Congested {
		m.log.Warnf("port %s congested: %d expected arrivals for %d berths (%.1f%%)",
			port.Name, capacity.ExpectedArrivals, capacity.MaxBerths, capacity.UtilizationPercent)
		m.congestionBus.Publish(events.CongestionEvent{
			Port:               port.Name,
			CycleID:            rep.CycleID,
			UtilizationPercent: capacity.UtilizationPercent,
			ExpectedArrivals:   capacity.ExpectedArrivals,
			MaxBerths:          capacity.MaxBerths,
			Time:               m.now(),
		})
	}
	if r, ok := m.sink.(metrics.CapacityRecorder); ok {
		_ = r.RecordCapacity(metrics.CapacityEvent{
			Port:               port.Name,
			UtilizationPercent: capacity.UtilizationPercent,
			ExpectedArrivals:   capacity.ExpectedArrivals,
			MaxBerths:          capacity.MaxBerths,
			Congested:          capacity.Congested,
			Time:               m.now(),
		})
	}
	return rep
}

func (m *Monitor) fail(rep model.PortReport, start time.Time, err error) model.PortReport {
	rep.Error = err.Error()
	m.log.Errorf("monitoring cycle for port %s failed: %v", rep.Port, err)
	m.finish(rep, start)
	return rep
}

// finish stores the report, publishes the cycle event and records metrics.
func (m *Monitor) finish(rep model.PortReport, start time.Time) {
	elapsed := m.now().Sub(start)
	m.store.Put(rep)
	m.cycleBus.Publish(events.CycleEvent{
		Port:     rep.Port,
		CycleID:  rep.CycleID,
		Vessels:  len(rep.Vessels),
		Source:   rep.Source,
		Stale:    rep.Stale,
		Err:      rep.Error,
		Duration: elapsed,
		Time:     m.now(),
	})
	if r, ok := m.sink.(metrics.CycleRecorder); ok {
		_ = r.RecordCycle(metrics.CycleEvent{
			Port:     rep.Port,
			CycleID:  rep.CycleID,
			Vessels:  len(rep.Vessels),
			Priority: len(rep.PriorityArrivals),
			Stale:    rep.Stale,
			Failed:   rep.Failed(),
			Duration: elapsed,
			Time:     m.now(),
		})
	}
}

func trafficStats(vessels []model.Vessel, preds []model.PredictionResult) model.TrafficStats {
	stats := model.TrafficStats{
		VesselCount: len(vessels),
		TypeCounts:  make(map[string]int),
	}
	var speedSum float64
	for _, v := range vessels {
		stats.TypeCounts[cluster.CanonicalType(v.Type)]++
		speedSum += v.SpeedKnots
	}
	var etaSum float64
	for _, pr := range preds {
		etaSum += pr.ETAHours
	}
	if len(vessels) > 0 {
		stats.AvgSpeedKnot = speedSum / float64(len(vessels))
	}
	if len(preds) > 0 {
		stats.AvgETAHours = etaSum / float64(len(preds))
	}
	return stats
}
