// Package cluster groups vessels for operational planning: by ship type,
// arrival window and size class, with per-vessel service time estimates and
// port capacity analysis.
package cluster

import (
	"math"
	"sort"
	"strings"

	"github.com/pietroscik/marinetraffic/core/logger"
	"github.com/pietroscik/marinetraffic/core/model"
)

// typeAliases maps the type strings AIS feeds actually carry to canonical
// cluster keys. Matching is case-insensitive over the collapsed form.
var typeAliases = map[string]string{
	"container":         "container",
	"container ship":    "container",
	"containership":     "container",
	"cargo":             "cargo",
	"general cargo":     "cargo",
	"cargo ship":        "cargo",
	"tanker":            "tanker",
	"oil tanker":        "tanker",
	"chemical tanker":   "tanker",
	"lng tanker":        "tanker",
	"bulk carrier":      "bulk_carrier",
	"bulker":            "bulk_carrier",
	"bulk":              "bulk_carrier",
	"passenger":         "passenger",
	"passenger ship":    "passenger",
	"cruise ship":       "passenger",
	"ferry":             "passenger",
	"ro-ro":             "roro",
	"roro":              "roro",
	"ro-ro cargo":       "roro",
	"vehicles carrier":  "roro",
	"fishing":           "fishing",
	"fishing vessel":    "fishing",
	"tug":               "tug",
	"pilot vessel":      "tug",
	"high speed craft":  "passenger",
	"pleasure craft":    "pleasure",
	"sailing vessel":    "pleasure",
	"offshore supply":   "offshore",
	"offshore vessel":   "offshore",
	"dredger":           "offshore",
	"research vessel":   "offshore",
	"livestock carrier": "cargo",
}

// TypeUnknown is the cluster every unmapped ship type lands in.
const TypeUnknown = "unknown"

// CanonicalType resolves a raw ship type string to its cluster key.
func CanonicalType(raw string) string {
	key := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), " ")
	if t, ok := typeAliases[key]; ok {
		return t
	}
	return TypeUnknown
}

// Clusterer groups one snapshot's vessels for operational planning.
type Clusterer struct {
	cfg Config
	log logger.Logger
}

// New builds a clusterer after validating its configuration.
func New(cfg Config, log logger.Logger) (*Clusterer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Clusterer{cfg: cfg, log: log}, nil
}

// ByShipType groups predictions by canonical ship type. Unmapped types land
// in the "unknown" cluster.
func (c *Clusterer) ByShipType(preds []model.PredictionResult) model.ClusterSet {
	set := model.ClusterSet{}
	for _, pr := range preds {
		addToCluster(set, CanonicalType(pr.Type), pr)
	}
	finalize(set)
	return set
}

// ByWindow groups predictions by the arrival window label assigned by the
// predictor. Predictions outside the horizon carry no label and are
// skipped.
func (c *Clusterer) ByWindow(preds []model.PredictionResult) model.ClusterSet {
	set := model.ClusterSet{}
	for _, pr := range preds {
		if pr.Window == "" {
			continue
		}
		addToCluster(set, pr.Window, pr)
	}
	finalize(set)
	return set
}

// BySize groups vessels by the configured length bands. Vessels without a
// matching prediction still count; they just do not contribute to the ETA
// and confidence aggregates.
func (c *Clusterer) BySize(vessels []model.Vessel, preds []model.PredictionResult) model.ClusterSet {
	byMMSI := make(map[int64]model.PredictionResult, len(preds))
	for _, pr := range preds {
		byMMSI[pr.MMSI] = pr
	}

	set := model.ClusterSet{}
	for _, v := range vessels {
		class := c.SizeClass(v.LengthM)
		if pr, ok := byMMSI[v.MMSI]; ok {
			addToCluster(set, class, pr)
		} else {
			cl := set[class]
			cl.Key = class
			cl.Vessels = append(cl.Vessels, model.VesselRef{MMSI: v.MMSI, Name: v.Name})
			set[class] = cl
		}
	}
	finalize(set)
	return set
}

// SizeClass resolves a hull length to its configured class name.
func (c *Clusterer) SizeClass(lengthM float64) string {
	for i, sc := range c.cfg.SizeClasses {
		if i == len(c.cfg.SizeClasses)-1 || lengthM < sc.MaxLengthM {
			return sc.Name
		}
	}
	return c.cfg.SizeClasses[len(c.cfg.SizeClasses)-1].Name
}

// EstimateServiceTimes attaches an expected berth occupation to every
// vessel, from the per-type lookup scaled by the size class factor. The
// estimate is advisory and never blocks the pipeline.
func (c *Clusterer) EstimateServiceTimes(vessels []model.Vessel) []model.ServiceEstimate {
	out := make([]model.ServiceEstimate, 0, len(vessels))
	for _, v := range vessels {
		typ := CanonicalType(v.Type)
		base, ok := c.cfg.ServiceTimes[typ]
		if !ok {
			base = c.cfg.DefaultServiceTime
		}
		class := c.SizeClass(v.LengthM)
		factor := 1.0
		if f, ok := c.cfg.SizeFactors[class]; ok {
			factor = f
		}
		hours := round1(base * factor)
		out = append(out, model.ServiceEstimate{
			MMSI:      v.MMSI,
			Name:      v.Name,
			Type:      typ,
			SizeClass: class,
			Hours:     hours,
			Days:      round1(hours / 24),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MMSI < out[j].MMSI })
	return out
}

func addToCluster(set model.ClusterSet, key string, pr model.PredictionResult) {
	cl := set[key]
	cl.Key = key
	cl.Vessels = append(cl.Vessels, model.VesselRef{MMSI: pr.MMSI, Name: pr.Name})
	cl.AvgETAHours += pr.ETAHours
	cl.AvgConfidence += pr.Confidence
	set[key] = cl
}

// finalize turns the running sums accumulated by addToCluster into
// averages and fills the counts.
func finalize(set model.ClusterSet) {
	for key, cl := range set {
		cl.Count = len(cl.Vessels)
		if cl.Count > 0 {
			cl.AvgETAHours = round1(cl.AvgETAHours / float64(cl.Count))
			cl.AvgConfidence = cl.AvgConfidence / float64(cl.Count)
		}
		set[key] = cl
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
