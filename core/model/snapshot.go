package model

import "time"

// Snapshot is the result of one fetch for one port: the deduplicated vessel
// list plus provenance.
type Snapshot struct {
	Port      string
	Vessels   []Vessel
	Source    string    // name of the provider that served the data
	FetchedAt time.Time // when the data was obtained from the provider
	Dropped   int       // malformed records discarded during normalization
	Stale     bool      // true when served from an expired cache entry
}
