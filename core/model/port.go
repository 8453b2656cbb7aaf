package model

import (
	"fmt"
	"math"
)

// Earth mean radius in nautical miles, the unit AIS distances are
// conventionally expressed in.
const earthRadiusNM = 3440.0

const degToRad = math.Pi / 180.0

// Port is a monitored harbour with its berth capacity.
type Port struct {
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	MaxBerths int     `json:"max_berths"`
}

// Validate checks the port definition. Capacity analysis divides by
// MaxBerths, so a non-positive value must be rejected before any fetch.
func (p Port) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("port name must not be empty")
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("port %s: latitude %.4f out of range", p.Name, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("port %s: longitude %.4f out of range", p.Name, p.Lon)
	}
	if p.MaxBerths <= 0 {
		return fmt.Errorf("port %s: max berths must be positive, got %d", p.Name, p.MaxBerths)
	}
	return nil
}

// DistanceNM returns the great-circle distance in nautical miles between the
// port and the given coordinates, using the haversine formula.
func (p Port) DistanceNM(lat, lon float64) float64 {
	dLat := (lat - p.Lat) * degToRad
	dLon := (lon - p.Lon) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(p.Lat*degToRad)*math.Cos(lat*degToRad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusNM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BoundingBox is a latitude/longitude rectangle used to query area-based AIS
// endpoints.
type BoundingBox struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// BoundingBox returns a box spanning radiusNM nautical miles around the
// port. One minute of latitude is one nautical mile; longitude minutes
// shrink with the cosine of the latitude, floored to keep the box finite
// near the poles.
func (p Port) BoundingBox(radiusNM float64) BoundingBox {
	dLat := radiusNM / 60.0
	cosLat := math.Cos(p.Lat * degToRad)
	if math.Abs(cosLat) < 1e-4 {
		cosLat = 1e-4
	}
	dLon := radiusNM / (60.0 * cosLat)
	return BoundingBox{
		LatMin: p.Lat - dLat,
		LatMax: p.Lat + dLat,
		LonMin: p.Lon - dLon,
		LonMax: p.Lon + dLon,
	}
}
