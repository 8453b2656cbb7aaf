package cache

import "fmt"

// Config tunes the snapshot cache.
type Config struct {
	// TTLMinutes is how long a cached snapshot stays fresh.
	TTLMinutes int `json:"ttl_minutes"`
	// ServeStale allows returning an expired snapshot, tagged stale, when
	// the chain fails. Off by default: a failed port is normally reported
	// as failed rather than papered over with old data.
	ServeStale bool `json:"serve_stale"`
}

// SetDefaults fills unset fields with sane values.
func (c *Config) SetDefaults() {
	if c.TTLMinutes == 0 {
		c.TTLMinutes = 5
	}
}

// Validate checks the cache configuration.
func (c Config) Validate() error {
	if c.TTLMinutes <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %d minutes", c.TTLMinutes)
	}
	return nil
}
