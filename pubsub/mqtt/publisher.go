package mqtt

import (
	MQTT "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/pubsub"
)

// Publisher for mqtt
type Publisher struct {
	broker string
	prefix string
	client MQTT.Client
	logger *zap.Logger
}

// ID of Publisher
func (pub *Publisher) ID() string {
	return "mqtt: " + pub.broker
}

// Topic maps a pubsub topic to the mqtt topic it is published on.
func Topic(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + "/" + topic
}

// Emit an event and wait for the broker to acknowledge it. Retained events
// stay on the broker for late subscribers.
func (pub *Publisher) Emit(ev *pubsub.Event) {
	token := pub.client.Publish(Topic(pub.prefix, ev.Topic), 1, ev.Retained, ev.Bytes())
	if token.Wait() && token.Error() != nil {
		pub.logger.Warn("mqtt publish failed", zap.String("topic", ev.Topic), zap.Error(token.Error()))
	}
}
