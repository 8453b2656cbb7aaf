package report

import (
	"sync"
	"testing"

	"github.com/pietroscik/marinetraffic/core/model"
)

func TestStoreReplacesPerPort(t *testing.T) {
	s := NewMemoryStore()
	if s.Ready() {
		t.Fatalf("empty store claims ready")
	}

	s.Put(model.PortReport{Port: "Naples", CycleID: "a"})
	s.Put(model.PortReport{Port: "Salerno", CycleID: "b"})
	s.Put(model.PortReport{Port: "Naples", CycleID: "c"})

	r, ok := s.Get("Naples")
	if !ok || r.CycleID != "c" {
		t.Fatalf("Naples report = %+v, ok=%v", r, ok)
	}
	all := s.All()
	if len(all) != 2 || all[0].Port != "Naples" || all[1].Port != "Salerno" {
		t.Fatalf("all = %+v", all)
	}
	if !s.Ready() {
		t.Fatalf("store with reports not ready")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Put(model.PortReport{Port: "Naples"})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Get("Naples")
				s.All()
			}
		}()
	}
	wg.Wait()
}
