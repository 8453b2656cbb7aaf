// Package export serializes port reports for offline consumption.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/pietroscik/marinetraffic/core/model"
)

// WriteJSON writes the reports to w as an indented JSON array.
func WriteJSON(w io.Writer, reports []model.PortReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// WriteCSV writes one row per predicted arrival across all reports.
func WriteCSV(w io.Writer, reports []model.PortReport) error {
	cw := csv.NewWriter(w)
	header := []string{"port", "cycle_id", "mmsi", "name", "type", "eta_hours", "arrival_time", "confidence", "window", "priority"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range reports {
		for _, p := range r.Predictions {
			rec := []string{
				r.Port,
				r.CycleID,
				strconv.FormatInt(p.MMSI, 10),
				p.Name,
				p.Type,
				strconv.FormatFloat(p.ETAHours, 'f', 2, 64),
				p.ArrivalTime.Format(time.RFC3339),
				strconv.FormatFloat(p.Confidence, 'f', 3, 64),
				p.Window,
				strconv.FormatBool(p.Priority),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
