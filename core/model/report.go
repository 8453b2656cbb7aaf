package model

import "time"

// VesselRef identifies a vessel inside a cluster without repeating the full
// record.
type VesselRef struct {
	MMSI int64  `json:"mmsi"`
	Name string `json:"name"`
}

// Cluster groups vessels sharing one key (ship type, size class or arrival
// window) together with aggregate metrics over the group.
type Cluster struct {
	Key           string      `json:"key"`
	Vessels       []VesselRef `json:"vessels"`
	Count         int         `json:"count"`
	AvgETAHours   float64     `json:"avg_eta_hours"`
	AvgConfidence float64     `json:"avg_confidence"`
}

// ClusterSet maps a cluster key to its cluster.
type ClusterSet map[string]Cluster

// ServiceEstimate is the expected berth occupation for one vessel, derived
// from its type and size class.
type ServiceEstimate struct {
	MMSI      int64   `json:"mmsi"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	SizeClass string  `json:"size_class"`
	Hours     float64 `json:"hours"`
	Days      float64 `json:"days"`
}

// CapacityReport compares expected berth demand against the port's capacity.
type CapacityReport struct {
	Port               string  `json:"port"`
	HorizonHours       int     `json:"horizon_hours"`
	ExpectedArrivals   int     `json:"expected_arrivals"`
	MaxBerths          int     `json:"max_berths"`
	UtilizationPercent float64 `json:"utilization_percent"`
	Congested          bool    `json:"congested"` // demand strictly exceeds capacity
}

// Trend labels attached to a traffic projection.
const (
	TrendIncreasing   = "increasing"
	TrendDecreasing   = "decreasing"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient data"
)

// ProjectionPoint is one interval of the traffic projection.
type ProjectionPoint struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Expected      int       `json:"expected"`
	Cumulative    int       `json:"cumulative"`
	TrendEstimate float64   `json:"trend_estimate"`
}

// ProjectionTrend is the least-squares line fitted over the projection
// intervals.
type ProjectionTrend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Label     string  `json:"label"`
}

// Projection forecasts arrival counts per interval over a horizon.
type Projection struct {
	GeneratedAt   time.Time         `json:"generated_at"`
	HorizonHours  int               `json:"horizon_hours"`
	IntervalHours int               `json:"interval_hours"`
	Points        []ProjectionPoint `json:"points"`
	Trend         ProjectionTrend   `json:"trend"`
}

// TrafficStats summarises the snapshot a report was built from.
type TrafficStats struct {
	VesselCount  int            `json:"vessel_count"`
	TypeCounts   map[string]int `json:"type_counts"`
	AvgETAHours  float64        `json:"avg_eta_hours"`
	AvgSpeedKnot float64        `json:"avg_speed_knots"`
}

// PortReport is the full analytics artifact produced for one port in one
// monitoring cycle. A failed cycle yields a report with Error set and no
// vessel data; sibling ports are unaffected.
type PortReport struct {
	CycleID          string             `json:"cycle_id"`
	Port             string             `json:"port"`
	GeneratedAt      time.Time          `json:"generated_at"`
	Source           string             `json:"source,omitempty"`
	Stale            bool               `json:"stale,omitempty"`
	Vessels          []Vessel           `json:"vessels,omitempty"`
	Predictions      []PredictionResult `json:"predictions,omitempty"`
	PriorityArrivals []PredictionResult `json:"priority_arrivals,omitempty"`
	Windows          []ArrivalWindow    `json:"windows,omitempty"`
	ByType           ClusterSet         `json:"by_type,omitempty"`
	BySize           ClusterSet         `json:"by_size,omitempty"`
	ByWindow         ClusterSet         `json:"by_window,omitempty"`
	ServiceEstimates []ServiceEstimate  `json:"service_estimates,omitempty"`
	Capacity         CapacityReport     `json:"capacity"`
	Projection       *Projection        `json:"projection,omitempty"`
	Stats            TrafficStats       `json:"stats"`
	DroppedRecords   int                `json:"dropped_records,omitempty"`
	Error            string             `json:"error,omitempty"`
}

// Failed reports whether the cycle that produced this report failed.
func (r PortReport) Failed() bool { return r.Error != "" }
