package control

import (
	"context"

	"github.com/dashhome/dashhome/entity"
	"github.com/dashhome/dashhome/pubsub"
)

// Binding reconciles a Slider with one entity in a store.
type Binding struct {
	Slider   *Slider
	store    *entity.Store
	entityID string
	extract  func(*entity.EntityState) (int, bool)
}

// Bind seeds slider with the entity's current value.
func Bind(slider *Slider, store *entity.Store, entityID string, extract func(*entity.EntityState) (int, bool)) *Binding {
	self := &Binding{Slider: slider, store: store, entityID: entityID, extract: extract}
	self.observe()
	return self
}

// Authoritative is the value currently held by the store.
func (self *Binding) Authoritative() (int, bool) {
	return self.extract(self.store.Get(self.entityID))
}

// Value is the display value.
func (self *Binding) Value() int {
	v, _ := self.Authoritative()
	return self.Slider.Value(v)
}

func (self *Binding) observe() {
	self.Slider.Observe(self.Authoritative())
}

// Watch feeds every change of the entity, including snapshots, to the
// slider until ctx is done.
func (self *Binding) Watch(ctx context.Context) {
	events := self.store.Subscribe(pubsub.Exact(entity.Topic(self.entityID)), pubsub.Exact(entity.SnapshotTopic))
	defer self.store.Close(events)
	self.observe()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			self.observe()
		}
	}
}
