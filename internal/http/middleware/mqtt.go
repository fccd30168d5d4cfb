package middleware

import (
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Notifier pushes timetable updates to signage screens over MQTT. A nil
// *Notifier is valid and drops every message.
type Notifier struct {
	client mqtt.Client
	topic  string
	mu     sync.Mutex
}

// NewNotifier connects to brokerURL and publishes on topic.
func NewNotifier(brokerURL, clientID, topic string) (*Notifier, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(publishTimeout)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Info().Str("broker", brokerURL).Str("topic", topic).Msg("MQTT notifier initialized")
	return &Notifier{client: client, topic: topic}, nil
}

// Publish sends a retained message so screens that connect later still get
// the latest timetable.
func (n *Notifier) Publish(payload []byte) error {
	if n == nil || n.client == nil {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	token := n.client.Publish(n.topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out publishing to %s", n.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", n.topic, err)
	}

	log.Debug().Str("topic", n.topic).Int("bytes", len(payload)).Msg("timetable published")
	return nil
}

// Close disconnects from the broker.
func (n *Notifier) Close() {
	if n == nil || n.client == nil {
		return
	}
	n.client.Disconnect(250)
	log.Info().Msg("MQTT notifier disconnected")
}
