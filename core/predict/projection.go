package predict

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pietroscik/marinetraffic/core/model"
)

// ErrInvalidProjectionParams reports a non-positive projection horizon or
// interval.
var ErrInvalidProjectionParams = errors.New("projection horizon and interval must be positive")

// trendEps is the slope magnitude under which a trend counts as stable.
const trendEps = 0.01

// Project aggregates predicted arrivals into fixed intervals over the
// projection horizon, anchored at now, and fits a least-squares line over
// the per-interval counts. With fewer than two intervals no line can be
// fitted and the trend reports insufficient data.
func Project(preds []model.PredictionResult, now time.Time, cfg ProjectionConfig) (model.Projection, error) {
	if cfg.HorizonHours <= 0 || cfg.IntervalHours <= 0 {
		return model.Projection{}, ErrInvalidProjectionParams
	}

	width := time.Duration(cfg.IntervalHours) * time.Hour
	count := (cfg.HorizonHours + cfg.IntervalHours - 1) / cfg.IntervalHours

	points := make([]model.ProjectionPoint, count)
	cumulative := 0
	for i := range points {
		start := now.Add(time.Duration(i) * width)
		end := start.Add(width)
		expected := 0
		for _, pr := range preds {
			if !pr.ArrivalTime.Before(start) && pr.ArrivalTime.Before(end) {
				expected++
			}
		}
		cumulative += expected
		points[i] = model.ProjectionPoint{
			Start:      start,
			End:        end,
			Expected:   expected,
			Cumulative: cumulative,
		}
	}

	counts := make([]float64, count)
	for i, pt := range points {
		counts[i] = float64(pt.Expected)
	}
	trend := FitTrend(counts)
	if trend.Label != model.TrendInsufficient {
		for i := range points {
			points[i].TrendEstimate = math.Max(trend.Intercept+trend.Slope*float64(i), 0)
		}
	}

	return model.Projection{
		GeneratedAt:   now,
		HorizonHours:  cfg.HorizonHours,
		IntervalHours: cfg.IntervalHours,
		Points:        points,
		Trend:         trend,
	}, nil
}

// FitTrend fits an ordinary least squares line over bucket index versus
// count and labels its direction. Fewer than two buckets cannot define a
// line: the slope is zero and the label marks the data as insufficient.
func FitTrend(counts []float64) model.ProjectionTrend {
	if len(counts) < 2 {
		return model.ProjectionTrend{Label: model.TrendInsufficient}
	}
	xs := make([]float64, len(counts))
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, counts, nil, false)

	label := model.TrendStable
	switch {
	case slope > trendEps:
		label = model.TrendIncreasing
	case slope < -trendEps:
		label = model.TrendDecreasing
	}
	return model.ProjectionTrend{Slope: slope, Intercept: intercept, Label: label}
}
