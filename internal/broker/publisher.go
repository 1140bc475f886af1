package broker

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/config"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/domains"
)

// Publisher announces completed sync runs over MQTT. It is optional: the
// service runs without it when no broker is configured.
type Publisher struct {
	client mqtt.Client
}

// NewPublisher connects to the configured MQTT broker.
func NewPublisher(cfg *config.BrokerConfig) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Println("[broker] Connected to message broker")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			log.Printf("[broker] Connection lost: %v", err)
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if token.WaitTimeout(10 * time.Second) {
		if token.Error() != nil {
			return nil, fmt.Errorf("failed to connect to broker: %w", token.Error())
		}
	} else {
		return nil, fmt.Errorf("broker connection timeout")
	}

	return &Publisher{client: client}, nil
}

// PublishRunEvent publishes a run summary to sync/{entity_type}.
func (p *Publisher) PublishRunEvent(event *domains.RunEvent) error {
	topic := BuildTopic(event.EntityType)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	token := p.client.Publish(topic, 1, false, payload)
	if token.WaitTimeout(5 * time.Second) {
		if token.Error() != nil {
			return fmt.Errorf("failed to publish: %w", token.Error())
		}
	} else {
		return fmt.Errorf("publish timeout")
	}

	log.Printf("[broker] Published run %s to %s", event.RunID, topic)
	return nil
}

// Close closes the broker connection.
func (p *Publisher) Close() {
	p.client.Disconnect(1000)
	log.Println("[broker] Disconnected from message broker")
}
