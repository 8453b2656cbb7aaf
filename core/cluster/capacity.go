package cluster

import (
	"fmt"
	"math"

	"github.com/pietroscik/marinetraffic/core/model"
)

// AnalyzeCapacity compares expected berth demand against the port's
// capacity. Demand counts the predictions arriving within horizonHours; a
// utilization strictly above 100 percent marks the port as congested.
// A non-positive berth count is a configuration error: config validation
// rejects it before any fetch, this check guards direct callers.
func (c *Clusterer) AnalyzeCapacity(preds []model.PredictionResult, port model.Port, horizonHours int) (model.CapacityReport, error) {
	if port.MaxBerths <= 0 {
		return model.CapacityReport{}, fmt.Errorf("port %s: %w, got %d", port.Name, ErrInvalidBerths, port.MaxBerths)
	}

	demand := 0
	for _, pr := range preds {
		if pr.ETAHours >= 0 && pr.ETAHours <= float64(horizonHours) {
			demand++
		}
	}

	utilization := float64(demand) / float64(port.MaxBerths) * 100
	utilization = math.Round(utilization*10) / 10

	return model.CapacityReport{
		Port:               port.Name,
		HorizonHours:       horizonHours,
		ExpectedArrivals:   demand,
		MaxBerths:          port.MaxBerths,
		UtilizationPercent: utilization,
		Congested:          utilization > 100,
	}, nil
}
