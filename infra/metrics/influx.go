package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/pietroscik/marinetraffic/core/metrics"
	"github.com/pietroscik/marinetraffic/infra/logger"
)

// InfluxSink writes monitoring events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordFetch writes one provider attempt as a line protocol point.
func (s *InfluxSink) RecordFetch(ev coremetrics.FetchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("ais_fetch").
		AddTag("provider", ev.Provider).
		AddTag("port", ev.Port).
		AddTag("outcome", ev.Outcome).
		AddTag("component", "provider_chain").
		AddField("vessels", ev.Vessels).
		AddField("dropped", ev.Dropped).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCycle persists the outcome of one monitoring cycle for one port.
func (s *InfluxSink) RecordCycle(ev coremetrics.CycleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("monitor_cycle").
		AddTag("port", ev.Port).
		AddTag("cycle_id", ev.CycleID).
		AddTag("failed", strconv.FormatBool(ev.Failed)).
		AddTag("component", "port_monitor").
		AddField("vessels", ev.Vessels).
		AddField("priority_arrivals", ev.Priority).
		AddField("stale", ev.Stale).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCapacity writes the berth utilization computed for one port.
func (s *InfluxSink) RecordCapacity(ev coremetrics.CapacityEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("berth_capacity").
		AddTag("port", ev.Port).
		AddTag("congested", strconv.FormatBool(ev.Congested)).
		AddTag("component", "capacity_analyzer").
		AddField("utilization_percent", round3(ev.UtilizationPercent)).
		AddField("expected_arrivals", ev.ExpectedArrivals).
		AddField("max_berths", ev.MaxBerths).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCache writes one snapshot cache lookup.
func (s *InfluxSink) RecordCache(ev coremetrics.CacheEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("snapshot_cache_lookup").
		AddTag("port", ev.Port).
		AddTag("outcome", ev.Outcome).
		AddTag("component", "snapshot_cache").
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client resources.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
