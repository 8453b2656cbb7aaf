// Package provider implements the AIS data sources: the commercial
// MarineTraffic-style API, AISHub, open HTTP endpoints, local open-data
// files and a deterministic simulated feed. Every implementation registers
// itself with the core provider registry and normalizes feed records into
// the shared vessel model.
package provider

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pietroscik/marinetraffic/core/model"
	coreprovider "github.com/pietroscik/marinetraffic/core/provider"
)

// normalizeRecord maps one raw AIS record into the vessel model. Feeds name
// the same fields differently (MMSI/mmsi, SHIPNAME/ship_name/name, SOG/
// speed), so every field is resolved through an alternate-key lookup. A
// record without an MMSI is unusable and returns ErrBadRecord so the caller
// can drop and count it.
func normalizeRecord(raw map[string]any, port model.Port, now time.Time) (model.Vessel, error) {
	mmsi := asInt(pick(raw, "mmsi", "MMSI"))
	if mmsi <= 0 {
		return model.Vessel{}, fmt.Errorf("%w: no mmsi in %d fields", coreprovider.ErrBadRecord, len(raw))
	}

	lat := asFloat(pick(raw, "latitude", "LAT", "lat"))
	lon := asFloat(pick(raw, "longitude", "LON", "lon"))

	length := asFloat(pick(raw, "length", "LENGTH", "length_m"))
	if length == 0 {
		length = asFloat(raw["dim_a"]) + asFloat(raw["dim_b"])
	}
	width := asFloat(pick(raw, "width", "WIDTH", "width_m"))
	if width == 0 {
		width = asFloat(raw["dim_c"]) + asFloat(raw["dim_d"])
	}

	v := model.Vessel{
		MMSI:        mmsi,
		IMO:         asInt(pick(raw, "imo", "IMO")),
		Name:        asString(pick(raw, "ship_name", "SHIPNAME", "name", "NAME"), "Unknown"),
		Type:        asString(pick(raw, "ship_type", "SHIPTYPE", "type", "TYPE"), "Unknown"),
		Lat:         lat,
		Lon:         lon,
		SpeedKnots:  asFloat(pick(raw, "speed", "SOG", "sog", "SPEED")),
		CourseDeg:   asFloat(pick(raw, "course", "COG", "cog", "COURSE", "heading")),
		Status:      model.NavStatus(asString(pick(raw, "status", "STATUS", "nav_status", "NAVSTAT"), string(model.StatusUnknown))),
		Destination: asString(pick(raw, "destination", "DESTINATION"), port.Name),
		DraughtM:    asFloat(pick(raw, "draught", "DRAUGHT", "draught_m")),
		LengthM:     length,
		WidthM:      width,
		ReportedAt:  parseTimestamp(pick(raw, "timestamp", "TIMESTAMP", "time", "TIME", "last_position"), now),
	}

	if eta := parseETA(pick(raw, "eta", "ETA"), now); eta != nil {
		v.DeclaredETA = eta
	}
	if dist := asFloat(pick(raw, "distance", "DISTANCE", "distance_nm")); dist > 0 {
		v.DistanceNM = dist
	} else if lat != 0 || lon != 0 {
		v.DistanceNM = port.DistanceNM(lat, lon)
	}
	return v, nil
}

// normalizeAll maps a batch of raw records, dropping the malformed ones and
// reporting how many were discarded.
func normalizeAll(records []map[string]any, port model.Port, now time.Time) coreprovider.Result {
	res := coreprovider.Result{Vessels: make([]model.Vessel, 0, len(records))}
	for _, raw := range records {
		v, err := normalizeRecord(raw, port, now)
		if err != nil {
			res.Dropped++
			continue
		}
		res.Vessels = append(res.Vessels, v)
	}
	return res
}

func pick(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if val, ok := raw[k]; ok && val != nil && val != "" {
			return val
		}
	}
	return nil
}

func asString(val any, fallback string) string {
	switch s := val.(type) {
	case string:
		if t := strings.TrimSpace(s); t != "" {
			return t
		}
	case fmt.Stringer:
		return s.String()
	}
	return fallback
}

// asFloat parses numeric fields that feeds serialize either as numbers or
// as strings.
func asFloat(val any) float64 {
	switch n := val.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func asInt(val any) int64 {
	return int64(asFloat(val))
}

// etaLayouts are the declared-ETA encodings seen across feeds, tried in
// order.
var etaLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"01-02 15:04",
	"02-01 15:04",
}

// parseETA interprets the declared ETA field. Numbers mean hours from now;
// strings are tried against the known layouts, including the bare AIS HHMM
// form. Unparseable values yield nil: the declared ETA is advisory only.
func parseETA(val any, now time.Time) *time.Time {
	switch eta := val.(type) {
	case nil:
		return nil
	case float64, float32, int, int64:
		t := now.Add(time.Duration(asFloat(val) * float64(time.Hour)))
		return &t
	case string:
		s := strings.TrimSpace(eta)
		if s == "" || strings.HasPrefix(s, "0000-00-00") {
			return nil
		}
		for _, layout := range etaLayouts {
			t, err := time.ParseInLocation(layout, s, now.Location())
			if err != nil {
				continue
			}
			if t.Year() == 0 {
				t = t.AddDate(now.Year(), 0, 0)
			}
			return &t
		}
		// Bare AIS ETA: wall-clock HMM or HHMM, rolling to tomorrow when
		// already past.
		if len(s) == 3 || len(s) == 4 {
			if n, err := strconv.Atoi(s); err == nil {
				hours, minutes := n/100, n%100
				if hours < 24 && minutes < 60 {
					t := time.Date(now.Year(), now.Month(), now.Day(), hours, minutes, 0, 0, now.Location())
					if t.Before(now) {
						t = t.Add(24 * time.Hour)
					}
					return &t
				}
			}
		}
	}
	return nil
}

// parseTimestamp resolves the position-fix time, defaulting to now when the
// feed carries none or an unreadable one.
func parseTimestamp(val any, now time.Time) time.Time {
	switch ts := val.(type) {
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if t, err := time.ParseInLocation(layout, strings.TrimSpace(ts), now.Location()); err == nil {
				return t
			}
		}
	case float64:
		if ts > 1e9 {
			return time.Unix(int64(ts), 0)
		}
	}
	return now
}
