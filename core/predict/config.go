package predict

import "fmt"

// ConfidenceWeights tune the arrival confidence score. The score starts at
// Base and decreases monotonically with report age, time to arrival and
// speed volatility, with an extra penalty for vessels that claim to be
// under way while barely moving.
type ConfidenceWeights struct {
	Base              float64 `json:"base"`
	AgePerHour        float64 `json:"age_per_hour"`
	ETAPerHour        float64 `json:"eta_per_hour"`
	VolatilityPerKnot float64 `json:"volatility_per_knot"`
	SlowPenalty       float64 `json:"slow_penalty"`
	Floor             float64 `json:"floor"`
}

// Config tunes the arrival predictor.
type Config struct {
	// PriorityHours marks arrivals within this many hours as priority.
	PriorityHours float64 `json:"priority_hours"`
	// WindowHours is the width of one arrival window bucket.
	WindowHours int `json:"window_hours"`
	// HorizonHours is how far ahead arrivals are bucketed.
	HorizonHours int `json:"horizon_hours"`
	// MinSpeedKnots floors the speed used in the ETA division so that a
	// drifting vessel yields a large finite ETA instead of infinity.
	MinSpeedKnots float64 `json:"min_speed_knots"`
	// SlowSpeedKnots is the threshold under which an under-way vessel is
	// considered suspiciously slow.
	SlowSpeedKnots float64 `json:"slow_speed_knots"`
	// AnchorageRadiusNM is the distance within which an anchored vessel
	// counts as already arrived.
	AnchorageRadiusNM float64 `json:"anchorage_radius_nm"`

	Confidence ConfidenceWeights `json:"confidence"`
}

// SetDefaults fills unset fields with sane values.
func (c *Config) SetDefaults() {
	if c.PriorityHours == 0 {
		c.PriorityHours = 12
	}
	if c.WindowHours == 0 {
		c.WindowHours = 6
	}
	if c.HorizonHours == 0 {
		c.HorizonHours = 48
	}
	if c.MinSpeedKnots == 0 {
		c.MinSpeedKnots = 0.5
	}
	if c.SlowSpeedKnots == 0 {
		c.SlowSpeedKnots = 1.0
	}
	if c.AnchorageRadiusNM == 0 {
		c.AnchorageRadiusNM = 5.0
	}
	w := &c.Confidence
	if w.Base == 0 {
		w.Base = 0.95
	}
	if w.AgePerHour == 0 {
		w.AgePerHour = 0.02
	}
	if w.ETAPerHour == 0 {
		w.ETAPerHour = 0.01
	}
	if w.VolatilityPerKnot == 0 {
		w.VolatilityPerKnot = 0.05
	}
	if w.SlowPenalty == 0 {
		w.SlowPenalty = 0.20
	}
	if w.Floor == 0 {
		w.Floor = 0.05
	}
}

// Validate checks the predictor configuration.
func (c Config) Validate() error {
	if c.PriorityHours <= 0 {
		return fmt.Errorf("priority threshold must be positive, got %.1f hours", c.PriorityHours)
	}
	if c.WindowHours <= 0 {
		return fmt.Errorf("window width must be positive, got %d hours", c.WindowHours)
	}
	if c.HorizonHours < c.WindowHours {
		return fmt.Errorf("horizon (%dh) must cover at least one window (%dh)", c.HorizonHours, c.WindowHours)
	}
	if c.MinSpeedKnots <= 0 {
		return fmt.Errorf("minimum speed must be positive, got %.2f knots", c.MinSpeedKnots)
	}
	w := c.Confidence
	if w.Base <= 0 || w.Base > 1 {
		return fmt.Errorf("confidence base must be in (0,1], got %.2f", w.Base)
	}
	if w.Floor < 0 || w.Floor > w.Base {
		return fmt.Errorf("confidence floor must be in [0, base], got %.2f", w.Floor)
	}
	if w.AgePerHour < 0 || w.ETAPerHour < 0 || w.VolatilityPerKnot < 0 || w.SlowPenalty < 0 {
		return fmt.Errorf("confidence weights must not be negative")
	}
	return nil
}

// ProjectionConfig tunes the optional traffic projection.
type ProjectionConfig struct {
	Enabled       bool `json:"enabled"`
	HorizonHours  int  `json:"horizon_hours"`
	IntervalHours int  `json:"interval_hours"`
}

// SetDefaults fills unset fields with sane values.
func (c *ProjectionConfig) SetDefaults() {
	if c.HorizonHours == 0 {
		c.HorizonHours = 48
	}
	if c.IntervalHours == 0 {
		c.IntervalHours = 6
	}
}

// Validate checks the projection parameters when projections are enabled.
func (c ProjectionConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.HorizonHours <= 0 || c.IntervalHours <= 0 {
		return fmt.Errorf("%w: horizon %dh, interval %dh", ErrInvalidProjectionParams, c.HorizonHours, c.IntervalHours)
	}
	return nil
}
