package metrics

// MultiSink fans events out to several sinks. Optional recorder interfaces
// are forwarded only to the sinks that implement them; the first error wins
// but every sink is still invoked.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink combines the given sinks into one.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordFetch(ev FetchEvent) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.RecordFetch(ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *MultiSink) RecordCycle(ev CycleEvent) error {
	var firstErr error
	for _, s := range m.sinks {
		if r, ok := s.(CycleRecorder); ok {
			if err := r.RecordCycle(ev); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *MultiSink) RecordCapacity(ev CapacityEvent) error {
	var firstErr error
	for _, s := range m.sinks {
		if r, ok := s.(CapacityRecorder); ok {
			if err := r.RecordCapacity(ev); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *MultiSink) RecordCache(ev CacheEvent) error {
	var firstErr error
	for _, s := range m.sinks {
		if r, ok := s.(CacheRecorder); ok {
			if err := r.RecordCache(ev); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
