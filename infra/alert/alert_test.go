package alert

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/pietroscik/marinetraffic/core/events"
	"github.com/pietroscik/marinetraffic/infra/logger"
)

type mockToken struct {
	err error
}

func (t *mockToken) Wait() bool                       { return true }
func (t *mockToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *mockToken) Error() error                     { return t.err }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type mockClient struct {
	opts         *paho.ClientOptions
	connected    bool
	disconnected bool
	publishErr   error

	topics   []string
	qos      []byte
	payloads [][]byte
}

func (m *mockClient) IsConnected() bool { return m.connected }
func (m *mockClient) Connect() paho.Token {
	m.connected = true
	return &mockToken{}
}
func (m *mockClient) Disconnect(quiesce uint) { m.disconnected = true }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	m.topics = append(m.topics, topic)
	m.qos = append(m.qos, qos)
	m.payloads = append(m.payloads, payload.([]byte))
	return &mockToken{err: m.publishErr}
}

func withMockClient(t *testing.T) *mockClient {
	t.Helper()
	mc := &mockClient{}
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})
	return mc
}

func testEvent() events.CongestionEvent {
	return events.CongestionEvent{
		Port:               "Naples",
		CycleID:            "c1",
		UtilizationPercent: 120,
		ExpectedArrivals:   12,
		MaxBerths:          10,
		Time:               time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestMQTTAlerter_PublishesJSON(t *testing.T) {
	mc := withMockClient(t)
	a, err := NewMQTTAlerter(MQTTConfig{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("alerter: %v", err)
	}
	if err := a.CongestionAlert(context.Background(), testEvent()); err != nil {
		t.Fatalf("alert: %v", err)
	}
	if len(mc.topics) != 1 || mc.topics[0] != "marinetraffic/alerts" {
		t.Fatalf("unexpected topics: %v", mc.topics)
	}
	if mc.qos[0] != 1 {
		t.Fatalf("expected default QoS 1, got %d", mc.qos[0])
	}
	var got alertPayload
	if err := json.Unmarshal(mc.payloads[0], &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.Port != "Naples" || got.UtilizationPercent != 120 || got.MaxBerths != 10 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.AlertID == "" {
		t.Fatalf("alert id not set")
	}
}

func TestMQTTAlerter_CustomTopicAndQoS(t *testing.T) {
	mc := withMockClient(t)
	a, err := NewMQTTAlerter(MQTTConfig{Broker: "tcp://localhost:1883", Topic: "ports/congestion", QoS: 2})
	if err != nil {
		t.Fatalf("alerter: %v", err)
	}
	if err := a.CongestionAlert(context.Background(), testEvent()); err != nil {
		t.Fatalf("alert: %v", err)
	}
	if mc.topics[0] != "ports/congestion" || mc.qos[0] != 2 {
		t.Fatalf("config not applied: topic=%s qos=%d", mc.topics[0], mc.qos[0])
	}
}

func TestMQTTAlerter_PublishError(t *testing.T) {
	mc := withMockClient(t)
	a, err := NewMQTTAlerter(MQTTConfig{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("alerter: %v", err)
	}
	mc.publishErr = errors.New("net fail")
	if err := a.CongestionAlert(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestMQTTAlerter_RequiresBroker(t *testing.T) {
	if _, err := NewMQTTAlerter(MQTTConfig{}); err == nil {
		t.Fatalf("expected error without broker")
	}
}

func TestMQTTAlerter_Disconnect(t *testing.T) {
	mc := withMockClient(t)
	a, err := NewMQTTAlerter(MQTTConfig{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("alerter: %v", err)
	}
	a.Disconnect()
	if !mc.disconnected {
		t.Errorf("expected Disconnect() to be called")
	}
}

func TestLogAlerter(t *testing.T) {
	a := &LogAlerter{log: logger.NopLogger{}}
	if err := a.CongestionAlert(context.Background(), testEvent()); err != nil {
		t.Fatalf("log alerter: %v", err)
	}
}
