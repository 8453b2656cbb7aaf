package events

import "time"

// CongestionEvent is published when expected berth demand exceeds a port's
// capacity. Alert publishers subscribe to it.
type CongestionEvent struct {
	Port               string
	CycleID            string
	UtilizationPercent float64
	ExpectedArrivals   int
	MaxBerths          int
	Time               time.Time
}
