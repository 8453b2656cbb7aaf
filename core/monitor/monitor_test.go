package monitor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pietroscik/marinetraffic/core/cluster"
	"github.com/pietroscik/marinetraffic/core/model"
	"github.com/pietroscik/marinetraffic/core/predict"
	"github.com/pietroscik/marinetraffic/core/provider"
	"github.com/pietroscik/marinetraffic/infra/logger"
)

// stubSource serves canned snapshots per port and counts fetches.
type stubSource struct {
	mu    sync.Mutex
	snaps map[string]model.Snapshot
	errs  map[string]error
	calls map[string]int
}

func (s *stubSource) Get(_ context.Context, port model.Port) (model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[port.Name]++
	if err := s.errs[port.Name]; err != nil {
		return model.Snapshot{}, err
	}
	return s.snaps[port.Name], nil
}

func testVessels(port model.Port, n int) []model.Vessel {
	vs := make([]model.Vessel, n)
	for i := range vs {
		vs[i] = model.Vessel{
			MMSI:       int64(247100000 + i),
			Name:       fmt.Sprintf("SHIP %d", i),
			Type:       "Cargo",
			Status:     model.StatusUnderWayEngine,
			DistanceNM: float64((i + 1) * 20),
			SpeedKnots: 10,
			LengthM:    180,
			ReportedAt: time.Now(),
		}
	}
	return vs
}

func newMonitor(t *testing.T, cfg Config, source SnapshotSource, projCfg predict.ProjectionConfig) *Monitor {
	t.Helper()
	pred, err := predict.New(predict.Config{}, logger.NopLogger{})
	if err != nil {
		t.Fatalf("predictor: %v", err)
	}
	clus, err := cluster.New(cluster.Config{}, logger.NopLogger{})
	if err != nil {
		t.Fatalf("clusterer: %v", err)
	}
	m, err := New(cfg, source, pred, clus, projCfg, nil, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("monitor: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestCycleProducesFullReport(t *testing.T) {
	naples := model.Port{Name: "Naples", Lat: 40.8394, Lon: 14.2520, MaxBerths: 10}
	src := &stubSource{snaps: map[string]model.Snapshot{
		"Naples": {Port: "Naples", Vessels: testVessels(naples, 6), Source: "aishub", FetchedAt: time.Now()},
	}}
	m := newMonitor(t, Config{Ports: []model.Port{naples}}, src, predict.ProjectionConfig{Enabled: true})

	reports := m.RunCycle(context.Background())
	rep, ok := reports["Naples"]
	if !ok || rep.Failed() {
		t.Fatalf("report = %+v", rep)
	}
	if len(rep.Predictions) != 6 || len(rep.Vessels) != 6 {
		t.Fatalf("predictions=%d vessels=%d", len(rep.Predictions), len(rep.Vessels))
	}
	if rep.Capacity.UtilizationPercent != 60.0 || rep.Capacity.Congested {
		t.Fatalf("capacity = %+v", rep.Capacity)
	}
	if len(rep.Windows) == 0 || len(rep.ByType) == 0 || len(rep.ServiceEstimates) != 6 {
		t.Fatalf("clusters missing: windows=%d types=%d estimates=%d",
			len(rep.Windows), len(rep.ByType), len(rep.ServiceEstimates))
	}
	if rep.Projection == nil || len(rep.Projection.Points) == 0 {
		t.Fatalf("projection missing with projections enabled")
	}
	if rep.Source != "aishub" || rep.CycleID == "" {
		t.Fatalf("provenance missing: source=%q cycle=%q", rep.Source, rep.CycleID)
	}

	stored, ok := m.Reports().Get("Naples")
	if !ok || stored.CycleID != rep.CycleID {
		t.Fatalf("latest report not stored")
	}
}

func TestFailedPortAnnotatedSiblingsContinue(t *testing.T) {
	naples := model.Port{Name: "Naples", Lat: 40.8394, Lon: 14.2520, MaxBerths: 10}
	salerno := model.Port{Name: "Salerno", Lat: 40.6741, Lon: 14.7697, MaxBerths: 8}
	src := &stubSource{
		snaps: map[string]model.Snapshot{
			"Salerno": {Port: "Salerno", Vessels: testVessels(salerno, 3), Source: "simulated", FetchedAt: time.Now()},
		},
		errs: map[string]error{
			"Naples": fmt.Errorf("port Naples: %w", provider.ErrChainExhausted),
		},
	}
	m := newMonitor(t, Config{Ports: []model.Port{naples, salerno}}, src, predict.ProjectionConfig{})

	reports := m.RunCycle(context.Background())
	failed := reports["Naples"]
	if !failed.Failed() || len(failed.Vessels) != 0 {
		t.Fatalf("failed port report = %+v", failed)
	}
	if failed.Error == "" {
		t.Fatalf("failure not annotated")
	}
	ok := reports["Salerno"]
	if ok.Failed() || len(ok.Vessels) != 3 {
		t.Fatalf("sibling port affected: %+v", ok)
	}
}

func TestInvalidBerthsFailsBeforeFetch(t *testing.T) {
	good := model.Port{Name: "Naples", Lat: 40.8394, Lon: 14.2520, MaxBerths: 10}
	src := &stubSource{snaps: map[string]model.Snapshot{
		"Naples": {Port: "Naples", Vessels: testVessels(good, 2), FetchedAt: time.Now()},
	}}
	m := newMonitor(t, Config{Ports: []model.Port{good}}, src, predict.ProjectionConfig{})

	bad := model.Port{Name: "Broken", Lat: 40.0, Lon: 14.0, MaxBerths: 0}
	rep := m.MonitorPort(context.Background(), bad)
	if !rep.Failed() {
		t.Fatalf("invalid berth count accepted: %+v", rep)
	}
	if src.calls["Broken"] != 0 {
		t.Fatalf("provider contacted despite configuration error")
	}
}

func TestCongestionEventPublished(t *testing.T) {
	naples := model.Port{Name: "Naples", Lat: 40.8394, Lon: 14.2520, MaxBerths: 10}
	src := &stubSource{snaps: map[string]model.Snapshot{
		"Naples": {Port: "Naples", Vessels: testVessels(naples, 12), Source: "simulated", FetchedAt: time.Now()},
	}}
	m := newMonitor(t, Config{Ports: []model.Port{naples}}, src, predict.ProjectionConfig{})

	sub := m.CongestionEvents()
	reports := m.RunCycle(context.Background())
	if !reports["Naples"].Capacity.Congested {
		t.Fatalf("12 vessels on 10 berths not congested")
	}

	select {
	case ev := <-sub:
		if ev.Port != "Naples" || ev.UtilizationPercent != 120.0 {
			t.Fatalf("congestion event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no congestion event published")
	}
}

func TestConfigValidation(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Fatalf("empty port list accepted")
	}
	dup := Config{IntervalSeconds: 60, Ports: []model.Port{
		{Name: "Naples", Lat: 40.8, Lon: 14.2, MaxBerths: 10},
		{Name: "Naples", Lat: 40.8, Lon: 14.2, MaxBerths: 10},
	}}
	if err := dup.Validate(); err == nil {
		t.Fatalf("duplicate port accepted")
	}
	cfg := Config{Ports: []model.Port{{Name: "Naples", Lat: 40.8, Lon: 14.2}}}
	cfg.SetDefaults()
	if cfg.Ports[0].MaxBerths != 10 {
		t.Fatalf("berth default not applied: %d", cfg.Ports[0].MaxBerths)
	}
}
