package metrics

// Package metrics defines interfaces and implementations for collecting
// port monitoring metrics. Sinks like PromSink and InfluxSink record events
// such as provider fetches or berth utilization and can be combined with
// NewMultiSink. The factory helpers return a MultiSink automatically when
// multiple sinks are configured.
