package dashboard

import "sync"

// Store owns the current document and the active view. Operations are
// scoped to the active view and replace the document as a whole.
type Store struct {
	lock         sync.Mutex
	doc          *Config
	activeViewID string
	editMode     bool
	subscribers  []chan *Config
}

func NewStore() *Store {
	return &Store{}
}

// Set loads a document and selects its default view, falling back to the
// first view.
func (self *Store) Set(doc *Config) {
	self.lock.Lock()
	self.doc = doc
	self.activeViewID = ""
	if doc != nil {
		if doc.DefaultView != "" {
			self.activeViewID = doc.DefaultView
		} else if len(doc.Views) > 0 {
			self.activeViewID = doc.Views[0].ID
		}
	}
	self.notifyLocked(doc)
	self.lock.Unlock()
}

// Replace swaps the document but keeps the active view, as used when
// restoring from history.
func (self *Store) Replace(doc *Config) {
	self.lock.Lock()
	self.doc = doc
	self.notifyLocked(doc)
	self.lock.Unlock()
}

// Document returns the current document. It must be treated as read-only.
func (self *Store) Document() *Config {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.doc
}

func (self *Store) ActiveViewID() string {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.activeViewID
}

func (self *Store) SetActiveView(id string) {
	self.lock.Lock()
	self.activeViewID = id
	self.lock.Unlock()
}

func (self *Store) ActiveView() *ViewConfig {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.doc.View(self.activeViewID)
}

func (self *Store) EditMode() bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.editMode
}

func (self *Store) SetEditMode(editMode bool) {
	self.lock.Lock()
	self.editMode = editMode
	self.lock.Unlock()
}

// Subscribe returns a channel that always holds the latest published
// document; intermediate versions may be skipped by slow readers.
func (self *Store) Subscribe() <-chan *Config {
	ch := make(chan *Config, 1)
	self.lock.Lock()
	self.subscribers = append(self.subscribers, ch)
	self.lock.Unlock()
	return ch
}

func (self *Store) Unsubscribe(ch <-chan *Config) {
	self.lock.Lock()
	defer self.lock.Unlock()
	var subscribers []chan *Config
	for _, sub := range self.subscribers {
		if (<-chan *Config)(sub) == ch {
			close(sub)
		} else {
			subscribers = append(subscribers, sub)
		}
	}
	self.subscribers = subscribers
}

// notifyLocked must be called with the lock held.
func (self *Store) notifyLocked(doc *Config) {
	for _, ch := range self.subscribers {
		// drop a stale pending value
		select {
		case <-ch:
		default:
		}
		ch <- doc
	}
}

// apply runs op against the current document and active view and publishes
// the result if it differs.
func (self *Store) apply(op func(doc *Config, viewID string) *Config) {
	self.lock.Lock()
	defer self.lock.Unlock()
	current := self.doc
	next := op(current, self.activeViewID)
	if next == current {
		return
	}
	self.doc = next
	self.notifyLocked(next)
}

func (self *Store) Reorder(sectionID string, oldIndex, newIndex int) {
	self.apply(func(doc *Config, viewID string) *Config {
		return doc.Reorder(viewID, sectionID, oldIndex, newIndex)
	})
}

func (self *Store) AddCard(sectionID string, card *CardItem) {
	self.apply(func(doc *Config, viewID string) *Config {
		return doc.AddCard(viewID, sectionID, card)
	})
}

func (self *Store) AddMultipleCards(sectionID string, cards []*CardItem) {
	self.apply(func(doc *Config, viewID string) *Config {
		return doc.AddMultipleCards(viewID, sectionID, cards)
	})
}

func (self *Store) RemoveCard(sectionID, cardID string) {
	self.apply(func(doc *Config, viewID string) *Config {
		return doc.RemoveCard(viewID, sectionID, cardID)
	})
}

func (self *Store) UpdateCardConfig(sectionID, cardID string, update CardUpdate) {
	self.apply(func(doc *Config, viewID string) *Config {
		return doc.UpdateCardConfig(viewID, sectionID, cardID, update)
	})
}

func (self *Store) ToggleCardVisibility(sectionID, cardID string) {
	self.apply(func(doc *Config, viewID string) *Config {
		return doc.ToggleCardVisibility(viewID, sectionID, cardID)
	})
}

func (self *Store) DuplicateCard(sectionID, cardID string) {
	self.apply(func(doc *Config, viewID string) *Config {
		return doc.DuplicateCard(viewID, sectionID, cardID)
	})
}

func (self *Store) AddSection(section *Section) {
	self.apply(func(doc *Config, viewID string) *Config {
		return doc.AddSection(viewID, section)
	})
}

func (self *Store) RemoveSection(sectionID string) {
	self.apply(func(doc *Config, viewID string) *Config {
		return doc.RemoveSection(viewID, sectionID)
	})
}

func (self *Store) UpdateTheme(theme, accentColor string, autoTheme bool) {
	self.apply(func(doc *Config, _ string) *Config {
		return doc.UpdateTheme(theme, accentColor, autoTheme)
	})
}
