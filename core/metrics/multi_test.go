package metrics

import (
	"errors"
	"testing"
)

// TestMultiSink ensures events are forwarded to all sinks.

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordFetch(FetchEvent) error {
	r.count++
	return r.err
}

func (r *recordSink) RecordCycle(CycleEvent) error {
	r.count++
	return r.err
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordFetch(FetchEvent{Provider: "simulated", Port: "Naples"}); err != nil {
		t.Fatalf("record fetch: %v", err)
	}
	if err := m.RecordCycle(CycleEvent{Port: "Naples"}); err != nil {
		t.Fatalf("record cycle: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded")
	}
	// Capacity events only reach sinks implementing CapacityRecorder.
	if err := m.RecordCapacity(CapacityEvent{Port: "Naples"}); err != nil {
		t.Fatalf("record capacity: %v", err)
	}
	if s1.count != 2 {
		t.Fatalf("capacity forwarded to sink without CapacityRecorder")
	}
}

func TestMultiSinkFirstErrorWins(t *testing.T) {
	fail := errors.New("sink down")
	s1 := &recordSink{err: fail}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordFetch(FetchEvent{}); !errors.Is(err, fail) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if s2.count != 1 {
		t.Fatalf("second sink skipped after error")
	}
}
