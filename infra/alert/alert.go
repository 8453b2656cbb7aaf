// Package alert delivers congestion notifications to external systems.
package alert

import (
	"context"

	"github.com/pietroscik/marinetraffic/core/events"
	"github.com/pietroscik/marinetraffic/infra/logger"
)

// Alerter delivers a congestion notification.
type Alerter interface {
	CongestionAlert(ctx context.Context, ev events.CongestionEvent) error
}

// LogAlerter writes congestion alerts to the structured log. It is the
// fallback when no broker is configured.
type LogAlerter struct {
	log logger.Logger
}

// NewLogAlerter returns an Alerter backed by the component logger.
func NewLogAlerter() *LogAlerter {
	return &LogAlerter{log: logger.New("congestion-alert")}
}

func (a *LogAlerter) CongestionAlert(_ context.Context, ev events.CongestionEvent) error {
	a.log.Warnf("port %s congested: %.1f%% utilization (%d arrivals, %d berths)",
		ev.Port, ev.UtilizationPercent, ev.ExpectedArrivals, ev.MaxBerths)
	return nil
}
