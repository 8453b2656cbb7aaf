package provider

import (
	"context"
	"errors"

	"github.com/pietroscik/marinetraffic/core/model"
)

// Sentinel errors used across the provider layer. Providers wrap
// ErrUnavailable so the chain can distinguish an outage from a programming
// error; ErrBadRecord marks a single malformed record, never a whole fetch.
var (
	// ErrUnavailable reports that a provider could not serve data at all
	// (network failure, bad status, malformed payload, auth rejection).
	ErrUnavailable = errors.New("provider unavailable")

	// ErrChainExhausted reports that every provider in the chain failed
	// for a port. It wraps the last provider error.
	ErrChainExhausted = errors.New("provider chain exhausted")

	// ErrBadRecord reports a single unusable AIS record, typically one
	// without an MMSI. Such records are dropped and counted, they never
	// fail the fetch.
	ErrBadRecord = errors.New("malformed ais record")
)

// Result carries the outcome of one provider fetch.
type Result struct {
	Vessels []model.Vessel
	Dropped int // malformed records discarded during normalization
}

// Provider serves AIS vessel data around a port. Implementations must
// return only records carrying an MMSI; anything else is dropped during
// normalization and counted in Result.Dropped.
type Provider interface {
	// Name identifies the provider in logs, metrics and snapshots.
	Name() string
	// Fetch returns the vessels currently reported near the port.
	Fetch(ctx context.Context, port model.Port) (Result, error)
}
