package pubsub

type Publisher interface {
	ID() string
	Emit(ev *Event)
}

type Subscriber interface {
	ID() string
	Subscribe(topics ...Topic) <-chan *Event
	Close(<-chan *Event)
}

type Topic interface {
	Match(topic string) bool
}
