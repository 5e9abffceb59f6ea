package dummy

import (
	"sync"

	"github.com/dashhome/dashhome/pubsub"
)

// Dummy Publisher for testing
type Publisher struct {
	Events []*pubsub.Event
	lock   sync.Mutex
}

func (self *Publisher) ID() string {
	return "dummy"
}

func (self *Publisher) Emit(ev *pubsub.Event) {
	self.lock.Lock()
	self.Events = append(self.Events, ev)
	self.lock.Unlock()
}

// Topics emitted so far, in order.
func (self *Publisher) Topics() []string {
	self.lock.Lock()
	defer self.lock.Unlock()
	var ret []string
	for _, ev := range self.Events {
		ret = append(ret, ev.Topic)
	}
	return ret
}
