package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pietroscik/marinetraffic/core/factory"
	"github.com/pietroscik/marinetraffic/core/logger"
	"github.com/pietroscik/marinetraffic/core/metrics"
	"github.com/pietroscik/marinetraffic/core/model"
)

// Chain tries providers in strict priority order until one yields a usable
// snapshot. Results are never merged across providers: the first usable
// result wins and lower-priority providers are not contacted.
type Chain struct {
	providers   []Provider
	acceptEmpty bool
	timeout     time.Duration
	sink        metrics.MetricsSink
	log         logger.Logger
	mode        string

	now func() time.Time
}

// NewChain builds the chain described by cfg. A simulated provider is
// appended as terminal fallback unless the configuration already contains
// one, so a correctly configured chain cannot run out of data sources.
func NewChain(cfg Config, sink metrics.MetricsSink, log logger.Logger) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}

	modules := make([]factory.ModuleConfig, len(cfg.Chain))
	copy(modules, cfg.Chain)
	hasSim := false
	for _, m := range modules {
		if m.Type == TypeSimulated {
			hasSim = true
			break
		}
	}
	if !hasSim {
		modules = append(modules, factory.ModuleConfig{Type: TypeSimulated})
	}

	providers := make([]Provider, 0, len(modules))
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		p, err := New(m)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", m.Type, err)
		}
		providers = append(providers, p)
		names = append(names, p.Name())
	}

	return &Chain{
		providers:   providers,
		acceptEmpty: cfg.AcceptEmpty,
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		sink:        sink,
		log:         log,
		mode:        strings.Join(names, "+"),
		now:         time.Now,
	}, nil
}

// NewChainFromProviders builds a chain over explicit provider instances.
// No simulated fallback is appended; the caller owns the ordering. Used by
// tests and by callers that assemble providers themselves.
func NewChainFromProviders(providers []Provider, acceptEmpty bool, timeout time.Duration, sink metrics.MetricsSink, log logger.Logger) *Chain {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	return &Chain{
		providers:   providers,
		acceptEmpty: acceptEmpty,
		timeout:     timeout,
		sink:        sink,
		log:         log,
		mode:        strings.Join(names, "+"),
		now:         time.Now,
	}
}

// SourceMode identifies the configured chain composition, e.g.
// "aishub+simulated". Cache keys include it so that reconfigured chains do
// not serve each other's snapshots.
func (c *Chain) SourceMode() string { return c.mode }

// Fetch walks the chain for one port. A provider error or, unless
// AcceptEmpty is set, an empty result advances to the next provider. When
// every provider has been tried without a usable result the fetch fails
// with ErrChainExhausted wrapping the last provider error.
func (c *Chain) Fetch(ctx context.Context, port model.Port) (model.Snapshot, error) {
	var lastErr error
	last := len(c.providers) - 1
	for i, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return model.Snapshot{}, err
		}

		start := c.now()
		fctx, cancel := context.WithTimeout(ctx, c.timeout)
		res, err := p.Fetch(fctx, port)
		cancel()
		elapsed := c.now().Sub(start)

		ev := metrics.FetchEvent{
			Provider: p.Name(),
			Port:     port.Name,
			Duration: elapsed,
			Time:     c.now(),
		}

		if err != nil {
			ev.Outcome = metrics.OutcomeError
			_ = c.sink.RecordFetch(ev)
			c.log.Warnf("provider %s failed for port %s: %v", p.Name(), port.Name, err)
			lastErr = err
			continue
		}

		if len(res.Vessels) == 0 && !c.acceptEmpty {
			ev.Outcome = metrics.OutcomeEmpty
			_ = c.sink.RecordFetch(ev)
			if i < last {
				c.log.Infof("provider %s returned no vessels for port %s, trying next", p.Name(), port.Name)
				continue
			}
			return model.Snapshot{}, fmt.Errorf("port %s: %w (no provider returned data)", port.Name, ErrChainExhausted)
		}

		vessels := dedupe(res.Vessels)
		ev.Outcome = metrics.OutcomeOK
		ev.Vessels = len(vessels)
		ev.Dropped = res.Dropped
		_ = c.sink.RecordFetch(ev)
		if res.Dropped > 0 {
			c.log.Debugf("provider %s dropped %d malformed records for port %s", p.Name(), res.Dropped, port.Name)
		}
		c.log.Debugw("snapshot fetched", map[string]any{
			"port":     port.Name,
			"provider": p.Name(),
			"vessels":  len(vessels),
			"dropped":  res.Dropped,
		})
		return model.Snapshot{
			Port:      port.Name,
			Vessels:   vessels,
			Source:    p.Name(),
			FetchedAt: c.now(),
			Dropped:   res.Dropped,
		}, nil
	}
	if lastErr != nil {
		return model.Snapshot{}, fmt.Errorf("port %s: %w (last error: %v)", port.Name, ErrChainExhausted, lastErr)
	}
	return model.Snapshot{}, fmt.Errorf("port %s: %w (no providers configured)", port.Name, ErrChainExhausted)
}

// dedupe resolves duplicate MMSIs within one batch: the report with the
// newest timestamp wins, later elements break ties. The spread between the
// fastest and slowest duplicate speed is kept as a volatility hint for the
// confidence score. Output is sorted by MMSI for determinism.
func dedupe(vessels []model.Vessel) []model.Vessel {
	type speedRange struct{ min, max float64 }
	byID := make(map[int64]model.Vessel, len(vessels))
	speeds := make(map[int64]speedRange, len(vessels))

	for _, v := range vessels {
		cur, seen := byID[v.MMSI]
		if !seen {
			byID[v.MMSI] = v
			speeds[v.MMSI] = speedRange{min: v.SpeedKnots, max: v.SpeedKnots}
			continue
		}
		r := speeds[v.MMSI]
		if v.SpeedKnots < r.min {
			r.min = v.SpeedKnots
		}
		if v.SpeedKnots > r.max {
			r.max = v.SpeedKnots
		}
		speeds[v.MMSI] = r
		if !v.ReportedAt.Before(cur.ReportedAt) {
			byID[v.MMSI] = v
		}
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]model.Vessel, 0, len(ids))
	for _, id := range ids {
		v := byID[id]
		if r := speeds[id]; r.max > r.min {
			v.SpeedSpreadKnots = r.max - r.min
		}
		out = append(out, v)
	}
	return out
}
