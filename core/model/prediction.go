package model

import "time"

// PredictionResult is the estimated arrival of one vessel at the monitored
// port.
type PredictionResult struct {
	MMSI        int64     `json:"mmsi"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	ETAHours    float64   `json:"eta_hours"`
	ArrivalTime time.Time `json:"arrival_time"`
	Confidence  float64   `json:"confidence"` // always within [0,1]
	Window      string    `json:"window,omitempty"`
	Priority    bool      `json:"priority"` // arrival expected within the priority threshold
}

// ArrivalWindow is one half-open time bucket [Start, End) of the arrival
// forecast grid. Buckets are aligned to the start of the hour so that
// consecutive cycles produce comparable windows.
type ArrivalWindow struct {
	Index         int                `json:"index"`
	Start         time.Time          `json:"start"`
	End           time.Time          `json:"end"`
	Label         string             `json:"label"`
	Vessels       []PredictionResult `json:"vessels"`
	AvgConfidence float64            `json:"avg_confidence"`
}
