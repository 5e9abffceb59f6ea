package pubsub

import "strings"

// PrefixTopic matches a topic and everything below it: "light" matches
// "light" and "light/kitchen" but not "lights/kitchen".
type PrefixTopic struct {
	Prefix string
}

func Prefix(prefix string) *PrefixTopic {
	return &PrefixTopic{prefix}
}

func (t *PrefixTopic) Match(topic string) bool {
	return t.Prefix == topic || strings.HasPrefix(topic, t.Prefix+"/")
}

// StartsWithTopic matches on the raw string, so "light/kit" matches
// "light/kitchen".
type StartsWithTopic struct {
	Prefix string
}

func StartsWith(prefix string) *StartsWithTopic {
	return &StartsWithTopic{prefix}
}

func (t *StartsWithTopic) Match(topic string) bool {
	return strings.HasPrefix(topic, t.Prefix)
}

type AllTopic struct{}

func All() *AllTopic {
	return &AllTopic{}
}

func (t *AllTopic) Match(topic string) bool {
	return true
}

type ExactTopic struct {
	Exact string
}

func Exact(exact string) *ExactTopic {
	return &ExactTopic{exact}
}

func (t *ExactTopic) Match(topic string) bool {
	return t.Exact == topic
}

// MatchAny reports whether any of topics matches topic.
func MatchAny(topics []Topic, topic string) bool {
	for _, t := range topics {
		if t.Match(topic) {
			return true
		}
	}
	return false
}
