// Package app assembles the monitoring service from its configuration.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pietroscik/marinetraffic/api/ports"
	"github.com/pietroscik/marinetraffic/config"
	"github.com/pietroscik/marinetraffic/core/cache"
	"github.com/pietroscik/marinetraffic/core/cluster"
	coremetrics "github.com/pietroscik/marinetraffic/core/metrics"
	"github.com/pietroscik/marinetraffic/core/model"
	"github.com/pietroscik/marinetraffic/core/monitor"
	"github.com/pietroscik/marinetraffic/core/predict"
	"github.com/pietroscik/marinetraffic/core/provider"
	"github.com/pietroscik/marinetraffic/core/report"
	"github.com/pietroscik/marinetraffic/infra/alert"
	"github.com/pietroscik/marinetraffic/infra/logger"
	"github.com/pietroscik/marinetraffic/infra/metrics"

	// Register the bundled providers.
	_ "github.com/pietroscik/marinetraffic/infra/provider"
)

// Service wires the provider chain, cache, analytics and outputs together.
type Service struct {
	Monitor *monitor.Monitor
	Store   *report.MemoryStore

	cfg     *config.Config
	alerter alert.Alerter
	log     logger.Logger

	closers []func()
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}

	chain, err := provider.NewChain(cfg.Provider, sink, logger.New("provider-chain"))
	if err != nil {
		return nil, fmt.Errorf("provider chain: %w", err)
	}
	snapshots := cache.New(chain, cfg.Cache, sink, logger.New("snapshot-cache"))

	predictor, err := predict.New(cfg.Predictor, logger.New("predictor"))
	if err != nil {
		return nil, fmt.Errorf("predictor: %w", err)
	}
	clusterer, err := cluster.New(cfg.Clusterer, logger.New("clusterer"))
	if err != nil {
		return nil, fmt.Errorf("clusterer: %w", err)
	}

	store := report.NewMemoryStore()
	mon, err := monitor.New(cfg.Monitor, snapshots, predictor, clusterer,
		cfg.Projection, sink, store, logger.New("monitor"))
	if err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}

	svc := &Service{Monitor: mon, Store: store, cfg: cfg, log: logg}
	if cfg.Alerts.Enabled {
		if cfg.Alerts.MQTT.Broker != "" {
			mq, err := alert.NewMQTTAlerter(cfg.Alerts.MQTT)
			if err != nil {
				return nil, fmt.Errorf("mqtt alerter: %w", err)
			}
			svc.alerter = mq
			svc.closers = append(svc.closers, mq.Disconnect)
		} else {
			svc.alerter = alert.NewLogAlerter()
		}
	}
	return svc, nil
}

// Run starts the monitoring loop and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.alerter != nil {
		events := s.Monitor.CongestionEvents()
		go func() {
			for ev := range events {
				alertCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				if err := s.alerter.CongestionAlert(alertCtx, ev); err != nil {
					s.log.Errorf("congestion alert: %v", err)
				}
				cancel()
			}
		}()
	}
	if addr := s.cfg.Metrics.PrometheusAddr(); addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		go func() {
			if err := s.serveAPI(ctx); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	return s.Monitor.Run(ctx)
}

func (s *Service) serveAPI(ctx context.Context) error {
	handler := ports.NewHandler(s.cfg.Monitor.Ports, s.Store)
	srv := &http.Server{Addr: s.cfg.API.ListenAddr, Handler: handler.Router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("api listening on %s", s.cfg.API.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// RunOnce executes a single monitoring cycle and returns the stored reports.
func (s *Service) RunOnce(ctx context.Context) map[string]model.PortReport {
	return s.Monitor.RunCycle(ctx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.Monitor.Close()
	for _, c := range s.closers {
		c()
	}
	return nil
}
