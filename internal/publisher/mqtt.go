package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/smartcity/corridor/internal/domain"
)

// mqttClient is the part of mqtt.Client the publisher needs
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTConfig configures the broker connection
type MQTTConfig struct {
	BrokerURL      string
	ClientID       string
	Topic          string
	ConnectTimeout time.Duration
}

// MQTTPublisher pushes snapshots to an MQTT topic as retained JSON messages,
// so a dashboard that subscribes late still gets the latest snapshot.
type MQTTPublisher struct {
	client mqttClient
	topic  string
	log    *slog.Logger
}

// NewMQTTPublisher connects to the broker and returns a publisher
func NewMQTTPublisher(cfg MQTTConfig, log *slog.Logger) (*MQTTPublisher, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", "broker", cfg.BrokerURL, "err", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, fmt.Errorf("mqtt: connect to %s timed out", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: failed to connect to %s: %w", cfg.BrokerURL, err)
	}
	log.Info("connected to mqtt broker", "broker", cfg.BrokerURL, "topic", cfg.Topic)

	return newMQTTPublisher(client, cfg.Topic, log), nil
}

func newMQTTPublisher(client mqttClient, topic string, log *slog.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic, log: log}
}

// Name identifies the sink
func (p *MQTTPublisher) Name() string {
	return "mqtt"
}

// Publish sends the snapshot and waits for the broker acknowledgement or ctx
func (p *MQTTPublisher) Publish(ctx context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("mqtt: failed to marshal snapshot: %w", err)
	}

	token := p.client.Publish(p.topic, 1, true, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("mqtt: publish to %s: %w", p.topic, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: failed to publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close disconnects from the broker
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
