package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashhome/dashhome/pubsub"
	"github.com/dashhome/dashhome/pubsub/dummy"
)

func state(id, s string) *EntityState {
	return &EntityState{EntityID: id, State: s, Attributes: map[string]interface{}{}}
}

func snapshot(states ...*EntityState) map[string]*EntityState {
	m := map[string]*EntityState{}
	for _, s := range states {
		m[s.EntityID] = s
	}
	return m
}

func ExampleDomain() {
	fmt.Println(Domain("light.kitchen"))
	fmt.Println(Topic("light.kitchen"))
	// Output:
	// light
	// light/kitchen
}

func TestSetEntitiesReplaces(t *testing.T) {
	store := NewStore(nil)
	store.SetEntities(snapshot(state("light.kitchen", "off"), state("light.hall", "on")))
	store.SetEntities(snapshot(state("light.kitchen", "on"), state("sensor.temp", "21")))

	assert.Equal(t, []string{"light.kitchen", "sensor.temp"}, store.IDs())
	assert.Nil(t, store.Get("light.hall"))
	assert.Equal(t, "on", store.Get("light.kitchen").State)
}

func TestSetEntitiesCopiesInput(t *testing.T) {
	store := NewStore(nil)
	input := snapshot(state("light.kitchen", "off"))
	store.SetEntities(input)
	input["light.hall"] = state("light.hall", "on")
	assert.Equal(t, 1, store.Len())
}

func TestSetEntityKeepsOtherIdentities(t *testing.T) {
	store := NewStore(nil)
	store.SetEntities(snapshot(state("light.kitchen", "off"), state("light.hall", "on")))
	before := store.All()
	hall := store.Get("light.hall")

	store.SetEntity("light.kitchen", state("light.kitchen", "on"))
	after := store.All()

	assert.Same(t, hall, after["light.hall"])
	assert.Equal(t, "off", before["light.kitchen"].State, "previous map must not change")
	assert.Equal(t, "on", after["light.kitchen"].State)
	assert.Len(t, after, 2)
}

func TestByDomain(t *testing.T) {
	store := NewStore(nil)
	store.SetEntities(snapshot(
		state("light.kitchen", "off"),
		state("light.hall", "on"),
		state("lightning.sensor", "on"),
		state("sensor.temp", "21"),
	))
	var ids []string
	for _, s := range store.ByDomain("light") {
		ids = append(ids, s.EntityID)
	}
	assert.Equal(t, []string{"light.hall", "light.kitchen"}, ids)
}

func TestRegistry(t *testing.T) {
	store := NewStore(nil)
	floor := "ground"
	store.SetFloors([]Floor{{FloorID: floor, Name: "Ground", Level: 0}})
	store.SetAreas([]Area{{AreaID: "kitchen", Name: "Kitchen", FloorID: &floor}})
	store.SetDevices([]Device{{ID: "dev1", Name: "Bulb", Manufacturer: "Acme"}})
	store.SetEntityAreaMap(map[string]string{"light.kitchen": "kitchen"})
	store.SetEntities(snapshot(state("light.kitchen", "off"), state("light.hall", "on")))

	require.NotNil(t, store.AreaOf("light.kitchen"))
	assert.Equal(t, "Kitchen", store.AreaOf("light.kitchen").Name)
	assert.Nil(t, store.AreaOf("light.hall"))
	assert.Equal(t, "Ground", store.Floor(*store.Area("kitchen").FloorID).Name)
	assert.Equal(t, "Acme", store.Device("dev1").Manufacturer)

	inKitchen := store.ByArea("kitchen")
	require.Len(t, inKitchen, 1)
	assert.Equal(t, "light.kitchen", inKitchen[0].EntityID)
}

func TestSubscribe(t *testing.T) {
	mirror := &dummy.Publisher{}
	store := NewStore(mirror)
	lights := store.Subscribe(pubsub.Prefix("light"))
	defer store.Close(lights)

	store.SetEntity("sensor.temp", state("sensor.temp", "21"))
	store.SetEntity("light.kitchen", state("light.kitchen", "on"))

	ev := <-lights
	assert.Equal(t, "light.kitchen", ev.EntityID())
	assert.Equal(t, pubsub.KindStateChanged, ev.Kind())
	assert.Equal(t, "on", ev.StringField("state"))
	assert.Len(t, lights, 0)
	store.CloseMirror()
	assert.Equal(t, []string{"sensor/temp", "light/kitchen"}, mirror.Topics())
	assert.True(t, mirror.Events[0].Retained)
}

// stalled blocks every Emit until released.
type stalled struct {
	release chan struct{}
	count   int
}

func (self *stalled) ID() string { return "stalled" }

func (self *stalled) Emit(ev *pubsub.Event) {
	<-self.release
	self.count++
}

func TestSlowMirrorDoesNotBlockWriters(t *testing.T) {
	mirror := &stalled{release: make(chan struct{})}
	store := NewStore(mirror)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			store.SetEntity("light.kitchen", state("light.kitchen", "on"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writes blocked on the mirror")
	}
	assert.Equal(t, "on", store.Get("light.kitchen").State)

	close(mirror.release)
	store.CloseMirror()
	assert.Equal(t, 10, mirror.count)
}

func TestSnapshotNotification(t *testing.T) {
	store := NewStore(nil)
	ch := store.Subscribe(pubsub.Exact("snapshot"))
	store.SetEntities(snapshot(state("light.kitchen", "off")))
	ev := <-ch
	assert.Equal(t, pubsub.KindSnapshot, ev.Kind())
	assert.EqualValues(t, 1, ev.IntField("count"))
}

func TestMatching(t *testing.T) {
	assert.True(t, Matching("light").Match(Topic("light.kitchen")))
	assert.False(t, Matching("light").Match(Topic("lightning.strike")))
	assert.True(t, Matching("light.kit").Match(Topic("light.kitchen")))
	assert.False(t, Matching("light.kit").Match(Topic("light.hall")))
	assert.True(t, Matching("light.hall").Match(Topic("light.hall")))
}
