package monitor

import (
	"fmt"

	"github.com/pietroscik/marinetraffic/core/model"
)

// Config defines which ports are monitored and how often.
type Config struct {
	// Ports lists the monitored harbours in configuration order.
	Ports []model.Port `json:"ports"`
	// IntervalSeconds is the cycle period in service mode.
	IntervalSeconds int `json:"interval_seconds"`
}

// SetDefaults fills unset fields with sane values.
func (c *Config) SetDefaults() {
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = 300
	}
	for i := range c.Ports {
		if c.Ports[i].MaxBerths == 0 {
			c.Ports[i].MaxBerths = 10
		}
	}
}

// Validate checks the monitoring configuration. Port definitions are
// validated here so that a bad berth count fails at load time, before any
// provider is contacted.
func (c Config) Validate() error {
	if len(c.Ports) == 0 {
		return fmt.Errorf("at least one port must be configured")
	}
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("monitor interval must be positive, got %d seconds", c.IntervalSeconds)
	}
	seen := make(map[string]bool, len(c.Ports))
	for _, p := range c.Ports {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("port %s configured twice", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
