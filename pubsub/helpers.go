package pubsub

import "sync"

// ChannelSize is the buffer of each subscription channel.
const ChannelSize = 64

type eventChannel struct {
	C      chan *Event
	topics []Topic
}

// Hub is an in-process Publisher and Subscriber. Events are fanned out to
// every subscription with a matching topic. A subscriber that lets its
// buffer fill loses events rather than stalling the publisher.
type Hub struct {
	id           string
	channels     []eventChannel
	channelsLock sync.Mutex
	dropped      int
}

func NewHub(id string) *Hub {
	return &Hub{id: id}
}

func (self *Hub) ID() string {
	return self.id
}

func (self *Hub) Emit(ev *Event) {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	for _, ch := range self.channels {
		if !MatchAny(ch.topics, ev.Topic) {
			continue
		}
		select {
		case ch.C <- ev:
		default:
			self.dropped++
		}
	}
}

// Dropped counts events discarded because a subscriber was full.
func (self *Hub) Dropped() int {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	return self.dropped
}

func (self *Hub) Subscribe(topics ...Topic) <-chan *Event {
	if len(topics) == 0 {
		topics = []Topic{All()}
	}
	ch := eventChannel{
		C:      make(chan *Event, ChannelSize),
		topics: topics,
	}
	self.channelsLock.Lock()
	self.channels = append(self.channels, ch)
	self.channelsLock.Unlock()
	return ch.C
}

func (self *Hub) Close(channel <-chan *Event) {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	var channels []eventChannel
	for _, ch := range self.channels {
		if channel == (<-chan *Event)(ch.C) {
			close(ch.C)
		} else {
			channels = append(channels, ch)
		}
	}
	self.channels = channels
}

// Forward copies every event from a subscription to a publisher until the
// subscription is closed.
func Forward(events <-chan *Event, pub Publisher) {
	for ev := range events {
		pub.Emit(ev)
	}
}
