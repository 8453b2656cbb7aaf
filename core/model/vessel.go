package model

import (
	"fmt"
	"strings"
	"time"
)

// NavStatus is the navigational status reported over AIS. Feeds disagree on
// exact wording ("Moored", "moored", "At anchor"), so matching is substring
// based and case insensitive.
type NavStatus string

// Common statuses as emitted by most AIS sources.
const (
	StatusUnderWayEngine NavStatus = "Under way using engine"
	StatusAtAnchor       NavStatus = "At anchor"
	StatusMoored         NavStatus = "Moored"
	StatusUnknown        NavStatus = "Unknown"
)

// IsMoored reports whether the vessel is tied up at a berth.
func (s NavStatus) IsMoored() bool {
	return strings.Contains(strings.ToLower(string(s)), "moor")
}

// IsAnchored reports whether the vessel is at anchor.
func (s NavStatus) IsAnchored() bool {
	return strings.Contains(strings.ToLower(string(s)), "anchor")
}

// IsUnderway reports whether the vessel claims to be making way.
func (s NavStatus) IsUnderway() bool {
	l := strings.ToLower(string(s))
	return strings.Contains(l, "under way") || strings.Contains(l, "underway")
}

// Vessel is a single normalized AIS position report near a monitored port.
type Vessel struct {
	MMSI        int64      `json:"mmsi"`
	IMO         int64      `json:"imo,omitempty"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Lat         float64    `json:"lat"`
	Lon         float64    `json:"lon"`
	SpeedKnots  float64    `json:"speed_knots"`
	CourseDeg   float64    `json:"course_deg"`
	Status      NavStatus  `json:"status"`
	Destination string     `json:"destination"`
	DistanceNM  float64    `json:"distance_nm"` // great-circle distance to the monitored port
	DeclaredETA *time.Time `json:"declared_eta,omitempty"`
	DraughtM    float64    `json:"draught_m,omitempty"`
	LengthM     float64    `json:"length_m,omitempty"`
	WidthM      float64    `json:"width_m,omitempty"`
	ReportedAt  time.Time  `json:"reported_at"`

	// SpeedSpreadKnots is the spread between the fastest and slowest speed
	// seen for this MMSI when a single fetch carried duplicate reports.
	// Zero when the vessel was reported once.
	SpeedSpreadKnots float64 `json:"speed_spread_knots,omitempty"`
}

// Validate checks that the vessel record is usable. MMSI is the only
// mandatory field: records without it cannot be deduplicated or tracked.
func (v Vessel) Validate() error {
	if v.MMSI <= 0 {
		return fmt.Errorf("vessel must carry a positive MMSI")
	}
	return nil
}
