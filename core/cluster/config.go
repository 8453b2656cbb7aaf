package cluster

import (
	"errors"
	"fmt"
)

// ErrInvalidBerths reports a non-positive berth capacity. Division by the
// berth count would otherwise produce an undefined utilization.
var ErrInvalidBerths = errors.New("max berths must be positive")

// SizeClass is one band of the vessel length classification. MaxLengthM is
// the exclusive upper bound; the final class leaves it at zero and is
// open-ended.
type SizeClass struct {
	Name       string  `json:"name"`
	MaxLengthM float64 `json:"max_length_m"`
}

// Config tunes clustering, service time estimation and capacity analysis.
type Config struct {
	// SizeClasses lists length bands in ascending order. The classifier
	// never falls back to implicit thresholds: an empty list is filled by
	// SetDefaults, an inconsistent one is rejected by Validate.
	SizeClasses []SizeClass `json:"size_classes"`
	// ServiceTimes maps canonical ship types to base berth occupation in
	// hours.
	ServiceTimes map[string]float64 `json:"service_times"`
	// DefaultServiceTime applies to types missing from ServiceTimes.
	DefaultServiceTime float64 `json:"default_service_time"`
	// SizeFactors scales the base service time per size class. Classes
	// without an entry keep factor 1.
	SizeFactors map[string]float64 `json:"size_factors"`
}

// SetDefaults fills unset fields with sane values.
func (c *Config) SetDefaults() {
	if len(c.SizeClasses) == 0 {
		c.SizeClasses = []SizeClass{
			{Name: "small", MaxLengthM: 150},
			{Name: "medium", MaxLengthM: 250},
			{Name: "large"},
		}
	}
	if len(c.ServiceTimes) == 0 {
		c.ServiceTimes = map[string]float64{
			"container":    24,
			"cargo":        18,
			"tanker":       20,
			"bulk_carrier": 22,
			"passenger":    8,
		}
	}
	if c.DefaultServiceTime == 0 {
		c.DefaultServiceTime = 16
	}
	if len(c.SizeFactors) == 0 {
		c.SizeFactors = map[string]float64{"small": 0.8, "large": 1.3}
	}
}

// Validate checks the clustering configuration.
func (c Config) Validate() error {
	if len(c.SizeClasses) == 0 {
		return fmt.Errorf("at least one size class is required")
	}
	prev := 0.0
	for i, sc := range c.SizeClasses {
		if sc.Name == "" {
			return fmt.Errorf("size class %d has no name", i)
		}
		last := i == len(c.SizeClasses)-1
		if last {
			if sc.MaxLengthM != 0 {
				return fmt.Errorf("final size class %q must be open-ended", sc.Name)
			}
			continue
		}
		if sc.MaxLengthM <= prev {
			return fmt.Errorf("size class %q: bound %.0fm not ascending", sc.Name, sc.MaxLengthM)
		}
		prev = sc.MaxLengthM
	}
	if c.DefaultServiceTime <= 0 {
		return fmt.Errorf("default service time must be positive, got %.1f", c.DefaultServiceTime)
	}
	for typ, h := range c.ServiceTimes {
		if h <= 0 {
			return fmt.Errorf("service time for %q must be positive, got %.1f", typ, h)
		}
	}
	for class, f := range c.SizeFactors {
		if f <= 0 {
			return fmt.Errorf("size factor for %q must be positive, got %.2f", class, f)
		}
	}
	return nil
}
