package metrics

import "time"

// Fetch outcomes recorded per provider attempt.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
)

// FetchEvent captures one provider attempt within a chain fetch.
type FetchEvent struct {
	Provider string
	Port     string
	Outcome  string
	Vessels  int
	Dropped  int
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records provider fetch events for observability purposes.
type MetricsSink interface {
	RecordFetch(ev FetchEvent) error
}

// CycleEvent captures the outcome of one monitoring cycle for one port.
type CycleEvent struct {
	Port     string
	CycleID  string
	Vessels  int
	Priority int
	Stale    bool
	Failed   bool
	Duration time.Duration
	Time     time.Time
}

// CycleRecorder records monitoring cycle outcomes.
type CycleRecorder interface {
	RecordCycle(ev CycleEvent) error
}

// CapacityEvent captures the berth utilization computed for one port.
type CapacityEvent struct {
	Port               string
	UtilizationPercent float64
	ExpectedArrivals   int
	MaxBerths          int
	Congested          bool
	Time               time.Time
}

// CapacityRecorder records berth capacity results.
type CapacityRecorder interface {
	RecordCapacity(ev CapacityEvent) error
}

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
)

// CacheEvent captures one snapshot cache lookup.
type CacheEvent struct {
	Port    string
	Outcome string
	Time    time.Time
}

// CacheRecorder records snapshot cache lookups.
type CacheRecorder interface {
	RecordCache(ev CacheEvent) error
}

// NopSink implements MetricsSink with no-op methods. It is the default when
// no sink is configured and the stand-in used by tests.
type NopSink struct{}

func (NopSink) RecordFetch(FetchEvent) error { return nil }

func (NopSink) RecordCycle(CycleEvent) error       { return nil }
func (NopSink) RecordCapacity(CapacityEvent) error { return nil }
func (NopSink) RecordCache(CacheEvent) error       { return nil }
