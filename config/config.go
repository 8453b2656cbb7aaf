// Package config loads and validates the service configuration from YAML
// or JSON files with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pietroscik/marinetraffic/core/cache"
	"github.com/pietroscik/marinetraffic/core/cluster"
	"github.com/pietroscik/marinetraffic/core/metrics"
	"github.com/pietroscik/marinetraffic/core/monitor"
	"github.com/pietroscik/marinetraffic/core/predict"
	"github.com/pietroscik/marinetraffic/core/provider"
	"github.com/pietroscik/marinetraffic/infra/alert"
)

// Config is the root configuration of the monitoring service.
type Config struct {
	Monitor    monitor.Config           `json:"monitor"`
	Provider   provider.Config          `json:"provider"`
	Cache      cache.Config             `json:"cache"`
	Predictor  predict.Config           `json:"predictor"`
	Projection predict.ProjectionConfig `json:"projection"`
	Clusterer  cluster.Config           `json:"clusterer"`
	Metrics    metrics.Config           `json:"metrics"`
	Alerts     AlertsConfig             `json:"alerts"`
	API        APIConfig                `json:"api"`
	Logging    LoggingConfig            `json:"logging"`
}

// AlertsConfig selects where congestion alerts are delivered. Without a
// broker they only go to the log.
type AlertsConfig struct {
	Enabled bool             `json:"enabled"`
	MQTT    alert.MQTTConfig `json:"mqtt"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Enabled    bool   `json:"enabled"`
	ListenAddr string `json:"listen_addr"`
}

// SetDefaults fills the API defaults.
func (c *APIConfig) SetDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
}

// LoggingConfig tunes the zerolog output.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the log level.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "trace", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown log level %s", c.Level)
}

// Load reads the configuration file, applies MT_ environment overrides,
// fills defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. MT_CACHE__TTL_MINUTES=10.
	if err := k.Load(env.Provider("MT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "mt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section with its defaults.
func (c *Config) SetDefaults() {
	c.Monitor.SetDefaults()
	c.Provider.SetDefaults()
	c.Cache.SetDefaults()
	c.Predictor.SetDefaults()
	c.Projection.SetDefaults()
	c.Clusterer.SetDefaults()
	c.Alerts.MQTT.SetDefaults()
	c.API.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Monitor.Validate(); err != nil {
		return err
	}
	if err := c.Provider.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Predictor.Validate(); err != nil {
		return err
	}
	if err := c.Projection.Validate(); err != nil {
		return err
	}
	if err := c.Clusterer.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}
