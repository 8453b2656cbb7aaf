// Package predict implements the arrival prediction engine: kinematic ETA,
// a monotone confidence score, priority arrivals, arrival window bucketing
// and the optional traffic projection.
package predict

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pietroscik/marinetraffic/core/logger"
	"github.com/pietroscik/marinetraffic/core/model"
)

// Predictor derives arrival estimates from one vessel snapshot. It holds no
// mutable state: identical inputs always produce identical outputs.
type Predictor struct {
	cfg Config
	log logger.Logger
}

// New builds a predictor after validating its configuration.
func New(cfg Config, log logger.Logger) (*Predictor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{cfg: cfg, log: log}, nil
}

// Config returns the validated predictor configuration.
func (p *Predictor) Config() Config { return p.cfg }

// Predict estimates the arrival of every vessel in the snapshot relative to
// now. Results are sorted by ETA ascending, confidence descending, MMSI
// ascending so repeated runs on the same snapshot are byte-identical.
func (p *Predictor) Predict(vessels []model.Vessel, now time.Time) []model.PredictionResult {
	preds := make([]model.PredictionResult, 0, len(vessels))
	for _, v := range vessels {
		preds = append(preds, p.predictOne(v, now))
	}
	sortPredictions(preds)
	return preds
}

func (p *Predictor) predictOne(v model.Vessel, now time.Time) model.PredictionResult {
	eta, slow := p.etaHours(v)
	return model.PredictionResult{
		MMSI:        v.MMSI,
		Name:        v.Name,
		Type:        v.Type,
		ETAHours:    eta,
		ArrivalTime: now.Add(time.Duration(eta * float64(time.Hour))),
		Confidence:  p.confidence(v, eta, slow, now),
		Priority:    eta <= p.cfg.PriorityHours,
	}
}

// etaHours returns the estimated hours to arrival and whether the vessel
// claims to be under way while barely moving.
func (p *Predictor) etaHours(v model.Vessel) (eta float64, slow bool) {
	if v.Status.IsMoored() {
		return 0, false
	}
	if v.Status.IsAnchored() && v.DistanceNM <= p.cfg.AnchorageRadiusNM {
		// At anchor inside the anchorage: effectively arrived.
		return 0, false
	}
	speed := v.SpeedKnots
	if speed < p.cfg.MinSpeedKnots {
		speed = p.cfg.MinSpeedKnots
		slow = v.Status.IsUnderway()
	} else if v.Status.IsUnderway() && speed < p.cfg.SlowSpeedKnots {
		slow = true
	}
	eta = v.DistanceNM / speed
	if eta < 0 {
		eta = 0
	}
	return eta, slow
}

// confidence scores one prediction. The score starts at the configured base
// and decreases monotonically with position-fix age, ETA magnitude and the
// speed spread seen across duplicate reports, with a flat penalty for
// suspiciously slow under-way vessels. The result is clamped to the
// configured floor and never leaves [0,1].
func (p *Predictor) confidence(v model.Vessel, eta float64, slow bool, now time.Time) float64 {
	w := p.cfg.Confidence
	score := w.Base

	if !v.ReportedAt.IsZero() {
		if age := now.Sub(v.ReportedAt).Hours(); age > 0 {
			score -= age * w.AgePerHour
		}
	}
	score -= eta * w.ETAPerHour
	score -= v.SpeedSpreadKnots * w.VolatilityPerKnot
	if slow {
		score -= w.SlowPenalty
	}

	if score < w.Floor {
		score = w.Floor
	}
	return clamp01(score)
}

// PriorityArrivals filters predictions expected within the priority
// threshold. The input order (ETA asc, confidence desc, MMSI asc) is kept.
func (p *Predictor) PriorityArrivals(preds []model.PredictionResult) []model.PredictionResult {
	out := make([]model.PredictionResult, 0, len(preds))
	for _, pr := range preds {
		if pr.ETAHours >= 0 && pr.ETAHours <= p.cfg.PriorityHours {
			out = append(out, pr)
		}
	}
	return out
}

// ArrivalWindows partitions the horizon into half-open buckets of the
// configured width, anchored at now floored to the hour, and assigns every
// in-horizon prediction to exactly one bucket. The matching prediction's
// Window label is set in place so downstream clustering shares the labels.
func (p *Predictor) ArrivalWindows(preds []model.PredictionResult, now time.Time) []model.ArrivalWindow {
	base := now.Truncate(time.Hour)
	width := time.Duration(p.cfg.WindowHours) * time.Hour
	count := (p.cfg.HorizonHours + p.cfg.WindowHours - 1) / p.cfg.WindowHours

	windows := make([]model.ArrivalWindow, count)
	for i := range windows {
		start := base.Add(time.Duration(i) * width)
		windows[i] = model.ArrivalWindow{
			Index: i,
			Start: start,
			End:   start.Add(width),
			Label: windowLabel(i, p.cfg.WindowHours),
		}
	}

	horizonEnd := base.Add(time.Duration(count) * width)
	for i := range preds {
		at := preds[i].ArrivalTime
		if at.Before(base) || !at.Before(horizonEnd) {
			continue
		}
		idx := int(at.Sub(base) / width)
		preds[i].Window = windows[idx].Label
		windows[idx].Vessels = append(windows[idx].Vessels, preds[i])
	}

	for i := range windows {
		windows[i].AvgConfidence = avgConfidence(windows[i].Vessels)
	}
	return windows
}

// windowLabel names a bucket by its offset from the grid origin, e.g.
// "0-6h" or "6-12h".
func windowLabel(index, widthHours int) string {
	return fmt.Sprintf("%d-%dh", index*widthHours, (index+1)*widthHours)
}

func avgConfidence(preds []model.PredictionResult) float64 {
	if len(preds) == 0 {
		return 0
	}
	var sum float64
	for _, pr := range preds {
		sum += pr.Confidence
	}
	return sum / float64(len(preds))
}

func sortPredictions(preds []model.PredictionResult) {
	sort.Slice(preds, func(i, j int) bool {
		if preds[i].ETAHours != preds[j].ETAHours {
			return preds[i].ETAHours < preds[j].ETAHours
		}
		if preds[i].Confidence != preds[j].Confidence {
			return preds[i].Confidence > preds[j].Confidence
		}
		return preds[i].MMSI < preds[j].MMSI
	})
}

func clamp01(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}
