// Package report keeps the latest monitoring artifact per port in memory
// for the HTTP API and export commands. Reports live for one process: the
// store is rebuilt from scratch on restart.
package report

import (
	"sort"
	"sync"

	"github.com/pietroscik/marinetraffic/core/model"
)

// MemoryStore holds the most recent PortReport per port name.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]model.PortReport
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]model.PortReport)}
}

// Put replaces the stored report for its port.
func (s *MemoryStore) Put(r model.PortReport) {
	s.mu.Lock()
	s.reports[r.Port] = r
	s.mu.Unlock()
}

// Get returns the latest report for the port.
func (s *MemoryStore) Get(port string) (model.PortReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[port]
	return r, ok
}

// All returns every stored report sorted by port name.
func (s *MemoryStore) All() []model.PortReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PortReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out
}

// Ready reports whether at least one cycle has completed.
func (s *MemoryStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports) > 0
}
