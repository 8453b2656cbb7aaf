package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/pietroscik/marinetraffic/core/metrics"
)

// PromSink exposes monitoring events as Prometheus metrics. The exposition
// server is started separately by the application.
type PromSink struct {
	fetches   *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	cycles    *prometheus.HistogramVec
	vessels   *prometheus.GaugeVec
	priority  *prometheus.GaugeVec
	utilized  *prometheus.GaugeVec
	congested *prometheus.GaugeVec
}

// NewPromSink registers the monitoring metrics on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A
// collector that is already registered is reused, so repeated construction
// within one process is harmless.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ais_fetch_attempts_total",
		Help: "Provider fetch attempts by outcome",
	}, []string{"provider", "port", "outcome"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ais_dropped_records_total",
		Help: "Malformed AIS records dropped during normalization",
	}, []string{"provider"})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_cache_lookups_total",
		Help: "Snapshot cache lookups by outcome",
	}, []string{"port", "outcome"})
	cycles := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "monitor_cycle_duration_seconds",
		Help:    "Duration of one per-port monitoring cycle",
		Buckets: prometheus.DefBuckets,
	}, []string{"port", "failed"})
	vessels := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "port_vessels",
		Help: "Vessels in the latest snapshot per port",
	}, []string{"port"})
	priority := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "port_priority_arrivals",
		Help: "Arrivals within the priority threshold per port",
	}, []string{"port"})
	utilized := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "port_berth_utilization_percent",
		Help: "Expected berth demand as a percentage of capacity",
	}, []string{"port"})
	congested := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "port_congested",
		Help: "Whether expected demand exceeds berth capacity (0/1)",
	}, []string{"port"})

	s := &PromSink{}
	if err := registerCounterVec(reg, fetches, &s.fetches); err != nil {
		return nil, err
	}
	if err := registerCounterVec(reg, dropped, &s.dropped); err != nil {
		return nil, err
	}
	if err := registerCounterVec(reg, cacheHits, &s.cacheHits); err != nil {
		return nil, err
	}
	if err := reg.Register(cycles); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cycles = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	s.cycles = cycles
	for _, g := range []struct {
		vec *prometheus.GaugeVec
		dst **prometheus.GaugeVec
	}{
		{vessels, &s.vessels}, {priority, &s.priority}, {utilized, &s.utilized}, {congested, &s.congested},
	} {
		if err := registerGaugeVec(reg, g.vec, g.dst); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, dst **prometheus.CounterVec) error {
	if err := reg.Register(vec); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		vec = are.ExistingCollector.(*prometheus.CounterVec)
	}
	*dst = vec
	return nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, dst **prometheus.GaugeVec) error {
	if err := reg.Register(vec); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		vec = are.ExistingCollector.(*prometheus.GaugeVec)
	}
	*dst = vec
	return nil
}

// RecordFetch counts one provider attempt.
func (s *PromSink) RecordFetch(ev coremetrics.FetchEvent) error {
	s.fetches.WithLabelValues(ev.Provider, ev.Port, ev.Outcome).Inc()
	if ev.Dropped > 0 {
		s.dropped.WithLabelValues(ev.Provider).Add(float64(ev.Dropped))
	}
	return nil
}

// RecordCycle observes the cycle duration and snapshot gauges.
func (s *PromSink) RecordCycle(ev coremetrics.CycleEvent) error {
	s.cycles.WithLabelValues(ev.Port, strconv.FormatBool(ev.Failed)).Observe(ev.Duration.Seconds())
	s.vessels.WithLabelValues(ev.Port).Set(float64(ev.Vessels))
	s.priority.WithLabelValues(ev.Port).Set(float64(ev.Priority))
	return nil
}

// RecordCapacity sets the berth utilization gauges.
func (s *PromSink) RecordCapacity(ev coremetrics.CapacityEvent) error {
	s.utilized.WithLabelValues(ev.Port).Set(ev.UtilizationPercent)
	congested := 0.0
	if ev.Congested {
		congested = 1
	}
	s.congested.WithLabelValues(ev.Port).Set(congested)
	return nil
}

// RecordCache counts one snapshot cache lookup.
func (s *PromSink) RecordCache(ev coremetrics.CacheEvent) error {
	s.cacheHits.WithLabelValues(ev.Port, ev.Outcome).Inc()
	return nil
}
