package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchers(t *testing.T) {
	assert.True(t, Prefix("light").Match("light/kitchen"))
	assert.True(t, Prefix("light").Match("light"))
	assert.False(t, Prefix("light").Match("lights/kitchen"))
	assert.True(t, Exact("light/kitchen").Match("light/kitchen"))
	assert.False(t, Exact("light/kitchen").Match("light/hall"))
	assert.True(t, All().Match("anything"))
	assert.True(t, StartsWith("light/kit").Match("light/kitchen"))
	assert.False(t, StartsWith("light/kit").Match("light/hall"))
	assert.True(t, MatchAny([]Topic{Exact("snapshot"), Prefix("light")}, "light/hall"))
	assert.False(t, MatchAny(nil, "light/hall"))
}

func TestHubFiltersByTopic(t *testing.T) {
	hub := NewHub("test")
	lights := hub.Subscribe(Prefix("light"))
	all := hub.Subscribe()

	hub.Emit(NewStateChanged("light/kitchen", "light.kitchen"))
	hub.Emit(NewStateChanged("sensor/temp", "sensor.temp"))

	assert.Equal(t, "light.kitchen", (<-lights).EntityID())
	assert.Len(t, lights, 0)
	assert.Equal(t, "light.kitchen", (<-all).EntityID())
	assert.Equal(t, "sensor.temp", (<-all).EntityID())
}

func TestHubClose(t *testing.T) {
	hub := NewHub("test")
	ch := hub.Subscribe(All())
	hub.Close(ch)
	_, ok := <-ch
	assert.False(t, ok)
	// emitting after close must not panic
	hub.Emit(NewEvent("light/kitchen", nil))
}

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub("test")
	hub.Subscribe(All())
	for i := 0; i < ChannelSize+3; i++ {
		hub.Emit(NewEvent("x", nil))
	}
	assert.Equal(t, 3, hub.Dropped())
}
