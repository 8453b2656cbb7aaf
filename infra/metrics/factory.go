package metrics

import (
	"fmt"

	"github.com/pietroscik/marinetraffic/core/factory"
	coremetrics "github.com/pietroscik/marinetraffic/core/metrics"
)

type promConf struct {
	ListenAddr string `json:"listen_addr"`
}

type influxConf struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

func init() {
	must(coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	}))
	must(coremetrics.RegisterMetricsSink("prometheus", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c promConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPromSink()
	}))
	must(coremetrics.RegisterMetricsSink("influxdb", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c influxConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.URL == "" {
			return nil, fmt.Errorf("influxdb sink: url is required")
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
