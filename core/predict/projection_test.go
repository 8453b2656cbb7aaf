package predict

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pietroscik/marinetraffic/core/model"
)

func arrivalsAt(now time.Time, hours ...float64) []model.PredictionResult {
	preds := make([]model.PredictionResult, len(hours))
	for i, h := range hours {
		preds[i] = model.PredictionResult{
			MMSI:        int64(247003000 + i),
			ETAHours:    h,
			ArrivalTime: now.Add(time.Duration(h * float64(time.Hour))),
		}
	}
	return preds
}

func TestFitTrendIncreasing(t *testing.T) {
	trend := FitTrend([]float64{2, 3, 4, 5})
	if math.Abs(trend.Slope-1) > 1e-9 {
		t.Fatalf("slope = %v, want 1", trend.Slope)
	}
	if trend.Label != model.TrendIncreasing {
		t.Fatalf("label = %q, want %q", trend.Label, model.TrendIncreasing)
	}
}

func TestFitTrendDirections(t *testing.T) {
	if got := FitTrend([]float64{5, 4, 3, 1}).Label; got != model.TrendDecreasing {
		t.Fatalf("decreasing counts labelled %q", got)
	}
	if got := FitTrend([]float64{3, 3, 3, 3}).Label; got != model.TrendStable {
		t.Fatalf("flat counts labelled %q", got)
	}
}

func TestFitTrendInsufficientData(t *testing.T) {
	for _, counts := range [][]float64{nil, {}, {4}} {
		trend := FitTrend(counts)
		if trend.Slope != 0 {
			t.Fatalf("slope = %v, want 0 for %v", trend.Slope, counts)
		}
		if trend.Label != model.TrendInsufficient {
			t.Fatalf("label = %q for %v", trend.Label, counts)
		}
	}
}

func TestProjectBucketsAndCumulative(t *testing.T) {
	cfg := ProjectionConfig{Enabled: true, HorizonHours: 24, IntervalHours: 6}
	// 2, 1, 0 and 1 arrivals per 6h interval.
	preds := arrivalsAt(testNow, 1, 5, 8, 21)

	proj, err := Project(preds, testNow, cfg)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if len(proj.Points) != 4 {
		t.Fatalf("points = %d, want 4", len(proj.Points))
	}
	wantExpected := []int{2, 1, 0, 1}
	wantCumulative := []int{2, 3, 3, 4}
	for i, pt := range proj.Points {
		if pt.Expected != wantExpected[i] {
			t.Fatalf("point %d expected = %d, want %d", i, pt.Expected, wantExpected[i])
		}
		if pt.Cumulative != wantCumulative[i] {
			t.Fatalf("point %d cumulative = %d, want %d", i, pt.Cumulative, wantCumulative[i])
		}
		if pt.TrendEstimate < 0 {
			t.Fatalf("point %d trend estimate negative", i)
		}
	}
	if !proj.Points[0].Start.Equal(testNow) {
		t.Fatalf("first interval starts at %s, want now", proj.Points[0].Start)
	}
}

func TestProjectExcludesArrivalsBeyondHorizon(t *testing.T) {
	cfg := ProjectionConfig{Enabled: true, HorizonHours: 12, IntervalHours: 6}
	preds := arrivalsAt(testNow, 2, 30)

	proj, err := Project(preds, testNow, cfg)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	total := 0
	for _, pt := range proj.Points {
		total += pt.Expected
	}
	if total != 1 {
		t.Fatalf("counted %d arrivals, want 1", total)
	}
}

func TestProjectRejectsBadParams(t *testing.T) {
	for _, cfg := range []ProjectionConfig{
		{HorizonHours: 0, IntervalHours: 6},
		{HorizonHours: 48, IntervalHours: -1},
	} {
		if _, err := Project(nil, testNow, cfg); !errors.Is(err, ErrInvalidProjectionParams) {
			t.Fatalf("cfg %+v: err = %v", cfg, err)
		}
	}
}
