package alert

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/pietroscik/marinetraffic/core/events"
	"github.com/pietroscik/marinetraffic/infra/logger"
)

// MQTTConfig defines the connection parameters for the Paho MQTT alert
// publisher.
type MQTTConfig struct {
	Broker     string      `json:"broker"`
	ClientID   string      `json:"client_id"`
	Username   string      `json:"username"`
	Password   string      `json:"password"`
	Topic      string      `json:"topic"`
	QoS        byte        `json:"qos"`
	Retain     bool        `json:"retain"`
	UseTLS     bool        `json:"use_tls"`
	ClientCert string      `json:"client_cert"`
	ClientKey  string      `json:"client_key"`
	CABundle   string      `json:"ca_bundle"`
	TLSConfig  *tls.Config `json:"-"`
}

// SetDefaults fills the optional fields.
func (c *MQTTConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "marinetraffic-alerts"
	}
	if c.Topic == "" {
		c.Topic = "marinetraffic/alerts"
	}
	if c.QoS == 0 {
		c.QoS = 1
	}
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c MQTTConfig) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTAlerter publishes congestion alerts on an MQTT topic.
type MQTTAlerter struct {
	cli    pahoClient
	topic  string
	qos    byte
	retain bool
	log    logger.Logger
}

// alertPayload is the JSON document published for each congestion event.
type alertPayload struct {
	AlertID            string    `json:"alert_id"`
	Port               string    `json:"port"`
	CycleID            string    `json:"cycle_id"`
	UtilizationPercent float64   `json:"utilization_percent"`
	ExpectedArrivals   int       `json:"expected_arrivals"`
	MaxBerths          int       `json:"max_berths"`
	Timestamp          time.Time `json:"timestamp"`
}

// NewMQTTAlerter connects to the broker and returns a ready publisher.
func NewMQTTAlerter(cfg MQTTConfig) (*MQTTAlerter, error) {
	cfg.SetDefaults()
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt alerter: broker is required")
	}
	log := logger.New("mqtt-alerter")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTAlerter{cli: c, topic: cfg.Topic, qos: cfg.QoS, retain: cfg.Retain, log: log}, nil
}

// CongestionAlert publishes the event as a JSON payload.
func (a *MQTTAlerter) CongestionAlert(ctx context.Context, ev events.CongestionEvent) error {
	payload, err := json.Marshal(alertPayload{
		AlertID:            uuid.NewString(),
		Port:               ev.Port,
		CycleID:            ev.CycleID,
		UtilizationPercent: ev.UtilizationPercent,
		ExpectedArrivals:   ev.ExpectedArrivals,
		MaxBerths:          ev.MaxBerths,
		Timestamp:          ev.Time,
	})
	if err != nil {
		return err
	}
	token := a.cli.Publish(a.topic, a.qos, a.retain, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		a.log.Errorf("publish alert for %s: %v", ev.Port, err)
		return err
	}
	a.log.Infof("published congestion alert for %s (%.1f%%)", ev.Port, ev.UtilizationPercent)
	return nil
}

// Disconnect gracefully closes the MQTT connection.
func (a *MQTTAlerter) Disconnect() {
	if a.cli != nil && a.cli.IsConnected() {
		a.cli.Disconnect(250)
	}
}
