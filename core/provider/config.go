package provider

import (
	"fmt"

	"github.com/pietroscik/marinetraffic/core/factory"
)

// TypeSimulated is the registered name of the synthetic provider. The chain
// guarantees it as terminal fallback so a cycle always has data to work on.
const TypeSimulated = "simulated"

// Config defines the provider chain for all monitored ports.
type Config struct {
	// Chain lists providers in strict priority order. When empty the
	// simulated provider runs alone.
	Chain []factory.ModuleConfig `json:"chain"`
	// AcceptEmpty makes an empty result final instead of advancing to the
	// next provider.
	AcceptEmpty bool `json:"accept_empty"`
	// TimeoutSeconds bounds each single provider attempt.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults fills unset fields with sane values.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks the chain definition.
func (c Config) Validate() error {
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("provider timeout must be positive, got %d", c.TimeoutSeconds)
	}
	for i, m := range c.Chain {
		if m.Type == "" {
			return fmt.Errorf("provider chain entry %d has no type", i)
		}
	}
	return nil
}
