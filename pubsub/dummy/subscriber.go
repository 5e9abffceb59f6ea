package dummy

import "github.com/dashhome/dashhome/pubsub"

// Subscriber for testing. Each subscription receives the matching Events
// in order, then the channel is closed.
type Subscriber struct {
	Events []*pubsub.Event
}

func (self *Subscriber) ID() string {
	return "dummy"
}

func (self *Subscriber) Subscribe(topics ...pubsub.Topic) <-chan *pubsub.Event {
	ch := make(chan *pubsub.Event, len(self.Events))
	for _, ev := range self.Events {
		if pubsub.MatchAny(topics, ev.Topic) {
			ch <- ev
		}
	}
	close(ch)
	return ch
}

func (self *Subscriber) Close(<-chan *pubsub.Event) {
}
