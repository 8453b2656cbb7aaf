package events

import "time"

// CycleEvent is published after each per-port monitoring cycle, successful
// or not. Err holds the failure message for failed cycles.
type CycleEvent struct {
	Port     string
	CycleID  string
	Vessels  int
	Source   string
	Stale    bool
	Err      string
	Duration time.Duration
	Time     time.Time
}
