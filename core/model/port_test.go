package model

import (
	"math"
	"testing"
)

func TestPortDistanceNM(t *testing.T) {
	naples := Port{Name: "Naples", Lat: 40.8394, Lon: 14.2520, MaxBerths: 10}

	if d := naples.DistanceNM(naples.Lat, naples.Lon); d != 0 {
		t.Fatalf("distance to itself = %f, want 0", d)
	}

	// Naples to Salerno is roughly 25 nautical miles.
	d := naples.DistanceNM(40.6741, 14.7697)
	if math.Abs(d-25.5) > 0.5 {
		t.Fatalf("Naples-Salerno distance = %f, want ~25.5", d)
	}

	// Symmetry.
	salerno := Port{Name: "Salerno", Lat: 40.6741, Lon: 14.7697, MaxBerths: 8}
	if d2 := salerno.DistanceNM(naples.Lat, naples.Lon); math.Abs(d-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", d, d2)
	}
}

func TestPortBoundingBox(t *testing.T) {
	p := Port{Name: "Naples", Lat: 40.8394, Lon: 14.2520, MaxBerths: 10}
	box := p.BoundingBox(30)

	if math.Abs((box.LatMax-box.LatMin)-1.0) > 1e-9 {
		t.Fatalf("latitude span = %f, want 1.0 degree for 30 NM", box.LatMax-box.LatMin)
	}
	// Longitude span stretches with latitude.
	lonSpan := box.LonMax - box.LonMin
	want := 2 * 30 / (60 * math.Cos(p.Lat*degToRad))
	if math.Abs(lonSpan-want) > 1e-9 {
		t.Fatalf("longitude span = %f, want %f", lonSpan, want)
	}
	if box.LatMin >= box.LatMax || box.LonMin >= box.LonMax {
		t.Fatalf("degenerate box: %+v", box)
	}
}

func TestPortValidate(t *testing.T) {
	cases := []struct {
		name    string
		port    Port
		wantErr bool
	}{
		{"valid", Port{Name: "Naples", Lat: 40.8394, Lon: 14.2520, MaxBerths: 10}, false},
		{"empty name", Port{Lat: 1, Lon: 1, MaxBerths: 1}, true},
		{"zero berths", Port{Name: "Gaeta", Lat: 41.2131, Lon: 13.5722}, true},
		{"negative berths", Port{Name: "Gaeta", Lat: 41.2131, Lon: 13.5722, MaxBerths: -2}, true},
		{"latitude out of range", Port{Name: "X", Lat: 91, Lon: 0, MaxBerths: 1}, true},
		{"longitude out of range", Port{Name: "X", Lat: 0, Lon: -181, MaxBerths: 1}, true},
	}
	for _, c := range cases {
		err := c.port.Validate()
		if c.wantErr && err == nil {
			t.Errorf("%s: expected error", c.name)
		}
		if !c.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
		}
	}
}
