// Package mqttpublish publishes finished traffic models to an MQTT broker,
// grounded on kiwi_wspr/mqtt_publisher.go's client-option and
// reconnect-handler setup.
package mqttpublish

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/cwsl/rhythmic/internal/config"
	"github.com/cwsl/rhythmic/internal/model"
)

// Publisher publishes assembled traffic models to a configured MQTT topic.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// New connects to the broker described by cfg. Returns (nil, nil) if MQTT
// publishing is disabled, matching the teacher's NewMQTTPublisher.
func New(cfg config.MQTTConfig, logger *log.Logger) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(generateClientID())

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(mqtt.Client) {
		logf(logger, "mqtt: connected to broker")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logf(logger, "mqtt: connection lost: %v", err)
	})
	opts.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		logf(logger, "mqtt: attempting to reconnect...")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	logf(logger, "mqtt: connected to broker %s", cfg.Broker)

	return &Publisher{client: client, topic: cfg.Topic}, nil
}

// Publish sends the traffic model as retained JSON on the configured topic.
func (p *Publisher) Publish(runID string, m model.TrafficModel) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(struct {
		RunID string             `json:"run_id"`
		Model model.TrafficModel `json:"model"`
	}{RunID: runID, Model: m})
	if err != nil {
		return fmt.Errorf("marshaling traffic model: %w", err)
	}

	token := p.client.Publish(p.topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}

func generateClientID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "rhythmic_" + hex.EncodeToString(b)
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}
