package dummy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dashhome/dashhome/pubsub"
)

func TestInterfaces(t *testing.T) {
	var _ pubsub.Publisher = (*Publisher)(nil)
	var _ pubsub.Subscriber = (*Subscriber)(nil)
}

func TestForward(t *testing.T) {
	sub := &Subscriber{Events: []*pubsub.Event{
		pubsub.NewStateChanged("light/kitchen", "light.kitchen"),
		pubsub.NewStateChanged("sensor/temp", "sensor.temp"),
		pubsub.NewStateChanged("light/hall", "light.hall"),
	}}
	pub := &Publisher{}
	pubsub.Forward(sub.Subscribe(pubsub.Prefix("light")), pub)
	assert.Equal(t, []string{"light/kitchen", "light/hall"}, pub.Topics())
}
