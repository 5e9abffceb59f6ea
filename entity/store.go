package entity

import (
	"sort"
	"strings"
	"sync"

	"github.com/dashhome/dashhome/pubsub"
)

// SnapshotTopic carries the notification for a wholesale replace.
const SnapshotTopic = "snapshot"

// Store is a keyed cache of entity states plus the area, device and floor
// registry. Every write swaps in a freshly built map, so a map obtained
// from All is never modified afterwards and derived reads never observe a
// half-applied update.
type Store struct {
	lock       sync.RWMutex
	entities   map[string]*EntityState
	areas      map[string]*Area
	devices    map[string]*Device
	floors     map[string]*Floor
	entityArea map[string]string

	hub        *pubsub.Hub
	mirror     <-chan *pubsub.Event
	mirrorDone chan struct{}
}

// NewStore creates an empty store. mirror, if not nil, receives a copy of
// every change notification (e.g. an mqtt publisher) from its own
// goroutine. Writers never wait for it: a mirror more than
// pubsub.ChannelSize events behind loses events.
func NewStore(mirror pubsub.Publisher) *Store {
	self := &Store{
		entities:   map[string]*EntityState{},
		areas:      map[string]*Area{},
		devices:    map[string]*Device{},
		floors:     map[string]*Floor{},
		entityArea: map[string]string{},
		hub:        pubsub.NewHub("entity"),
	}
	if mirror != nil {
		self.mirror = self.hub.Subscribe(pubsub.All())
		self.mirrorDone = make(chan struct{})
		go func() {
			pubsub.Forward(self.mirror, mirror)
			close(self.mirrorDone)
		}()
	}
	return self
}

// CloseMirror stops mirroring once the events already queued have been
// published.
func (self *Store) CloseMirror() {
	if self.mirror == nil {
		return
	}
	self.hub.Close(self.mirror)
	<-self.mirrorDone
}

func (self *Store) emit(ev *pubsub.Event) {
	self.hub.Emit(ev)
}

// SetEntity replaces a single entity. All other entries keep their
// identity.
func (self *Store) SetEntity(id string, state *EntityState) {
	self.lock.Lock()
	next := make(map[string]*EntityState, len(self.entities)+1)
	for k, v := range self.entities {
		next[k] = v
	}
	next[id] = state
	self.entities = next
	self.lock.Unlock()

	ev := pubsub.NewStateChanged(Topic(id), id)
	ev.SetRetained(true)
	if state != nil {
		ev.SetField("state", state.State)
	}
	self.emit(ev)
}

// SetEntities replaces the whole map. Entities missing from the snapshot
// are gone.
func (self *Store) SetEntities(entities map[string]*EntityState) {
	next := make(map[string]*EntityState, len(entities))
	for k, v := range entities {
		next[k] = v
	}
	self.lock.Lock()
	self.entities = next
	self.lock.Unlock()

	self.emit(pubsub.NewEvent(SnapshotTopic, pubsub.Fields{
		"kind":  pubsub.KindSnapshot,
		"count": len(next),
	}))
}

func (self *Store) Get(id string) *EntityState {
	self.lock.RLock()
	defer self.lock.RUnlock()
	return self.entities[id]
}

// All returns the current map. It must not be modified.
func (self *Store) All() map[string]*EntityState {
	self.lock.RLock()
	defer self.lock.RUnlock()
	return self.entities
}

func (self *Store) Len() int {
	return len(self.All())
}

// IDs of all entities, sorted.
func (self *Store) IDs() []string {
	entities := self.All()
	ids := make([]string, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedStates(entities map[string]*EntityState, keep func(id string) bool) []*EntityState {
	var ret []*EntityState
	for id, state := range entities {
		if keep(id) {
			ret = append(ret, state)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].EntityID < ret[j].EntityID })
	return ret
}

// ByDomain returns the entities of a domain, sorted by id.
func (self *Store) ByDomain(domain string) []*EntityState {
	prefix := domain + "."
	return sortedStates(self.All(), func(id string) bool {
		return strings.HasPrefix(id, prefix)
	})
}

// ByArea returns the entities mapped to an area, sorted by id.
func (self *Store) ByArea(areaID string) []*EntityState {
	self.lock.RLock()
	entities, entityArea := self.entities, self.entityArea
	self.lock.RUnlock()
	return sortedStates(entities, func(id string) bool {
		return entityArea[id] == areaID
	})
}

// Subscribe to change notifications. Single entities are published on
// Topic(id), so pubsub.Prefix(domain) selects a domain. Snapshots are
// published on "snapshot".
func (self *Store) Subscribe(topics ...pubsub.Topic) <-chan *pubsub.Event {
	return self.hub.Subscribe(topics...)
}

func (self *Store) Close(ch <-chan *pubsub.Event) {
	self.hub.Close(ch)
}
