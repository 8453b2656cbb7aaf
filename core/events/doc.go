// Package events defines the monitoring events emitted on the event bus.
//
// Available event types:
//   - CycleEvent: outcome of one per-port monitoring cycle
//   - CongestionEvent: expected berth demand exceeded port capacity
package events
