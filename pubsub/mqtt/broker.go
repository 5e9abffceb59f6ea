// Package mqtt mirrors pubsub events onto an mqtt broker.
package mqtt

import (
	"fmt"
	"math/rand"
	"os"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Broker struct {
	broker string
	prefix string
	client MQTT.Client
	logger *zap.Logger
}

func clientID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("dashhome/%s-%d-%d", hostname, os.Getpid(), rand.Int())
}

// NewBroker connects to broker, e.g. tcp://127.0.0.1:1883. Topics are
// published under prefix.
func NewBroker(broker, prefix string, logger *zap.Logger) (*Broker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := MQTT.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID())
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ MQTT.Client, err error) {
		logger.Warn("mqtt connection lost", zap.String("broker", broker), zap.Error(err))
	})

	client := MQTT.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connecting to mqtt broker %s", broker)
	}
	logger.Info("mqtt connected", zap.String("broker", broker))
	return &Broker{broker: broker, prefix: prefix, client: client, logger: logger}, nil
}

func (self *Broker) ID() string {
	return "mqtt: " + self.broker
}

func (self *Broker) Publisher() *Publisher {
	return &Publisher{broker: self.broker, prefix: self.prefix, client: self.client, logger: self.logger}
}

func (self *Broker) Close() {
	self.client.Disconnect(250)
}
