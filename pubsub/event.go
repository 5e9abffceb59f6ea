package pubsub

import (
	"encoding/json"
	"time"
)

type Fields map[string]interface{}

// Event kinds emitted by the stores.
const (
	KindStateChanged = "state_changed"
	KindSnapshot     = "snapshot"
	KindStatus       = "status"
)

type Event struct {
	Topic     string
	Timestamp time.Time
	Fields    Fields
	Retained  bool
}

func NewEvent(topic string, fields Fields) *Event {
	if fields == nil {
		fields = Fields{}
	}
	timestamp := time.Now().UTC()
	if ts, ok := fields["timestamp"].(string); ok {
		delete(fields, "timestamp")
		timestamp, _ = time.Parse(TimeFormat, ts)
	}
	return &Event{Topic: topic, Timestamp: timestamp, Fields: fields}
}

// NewStateChanged is the notification for a single entity update.
func NewStateChanged(topic, entityID string) *Event {
	return NewEvent(topic, Fields{
		"kind":      KindStateChanged,
		"entity_id": entityID,
	})
}

const TimeFormat = "2006-01-02 15:04:05.000000"

func (event *Event) Map() map[string]interface{} {
	data := make(map[string]interface{})
	data["topic"] = event.Topic
	data["timestamp"] = event.Timestamp.Format(TimeFormat)
	for k, v := range event.Fields {
		data[k] = v
	}
	return data
}

func (event *Event) Bytes() []byte {
	v, _ := json.Marshal(event.Map())
	return v
}

func (event *Event) String() string {
	return string(event.Bytes())
}

func (event *Event) StringField(name string) string {
	ret, _ := event.Fields[name].(string)
	return ret
}

func (event *Event) IntField(name string) int64 {
	switch v := event.Fields[name].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func (event *Event) SetField(name string, value interface{}) {
	event.Fields[name] = value
}

func (event *Event) SetRetained(retained bool) {
	event.Retained = retained
}

func (event *Event) Kind() string {
	return event.StringField("kind")
}

func (event *Event) EntityID() string {
	return event.StringField("entity_id")
}

// Parse an event from its json form. The topic argument is used when the
// payload carries none (e.g. taken from an mqtt topic).
func Parse(msg string, topic string) *Event {
	var fields map[string]interface{}
	err := json.Unmarshal([]byte(msg), &fields)
	if err != nil {
		return nil
	}
	if t, ok := fields["topic"].(string); ok {
		topic = t
		delete(fields, "topic")
	}
	if topic == "" {
		return nil
	}
	return NewEvent(topic, fields)
}
