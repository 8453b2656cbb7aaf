package metrics

import "github.com/pietroscik/marinetraffic/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}

// PrometheusAddr returns the listen address of the first configured
// prometheus sink, or empty when none is configured. The exposition server
// is started by the application, not by the sink itself.
func (c Config) PrometheusAddr() string {
	for _, s := range c.Sinks {
		if s.Type != "prometheus" {
			continue
		}
		if addr, ok := s.Conf["listen_addr"].(string); ok && addr != "" {
			return addr
		}
		return ":9090"
	}
	return ""
}
