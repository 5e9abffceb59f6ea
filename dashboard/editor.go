package dashboard

import (
	"strings"

	"github.com/dashhome/dashhome/history"
)

// KeyEvent is a key press as reported by the UI.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Editor couples a Store with an undo history. Each edit made through Edit
// that changes the document pushes the new document, so history always
// ends with the current state.
type Editor struct {
	store   *Store
	history *history.Stack[*Config]
}

// NewEditor seeds the history with the store's current document.
func NewEditor(store *Store, hist *history.Stack[*Config]) *Editor {
	if hist == nil {
		hist = history.New[*Config](history.MaxDepth)
	}
	if doc := store.Document(); doc != nil {
		hist.Push(doc)
	}
	return &Editor{store: store, history: hist}
}

func (self *Editor) Store() *Store {
	return self.store
}

func (self *Editor) History() *history.Stack[*Config] {
	return self.history
}

// Edit runs fn against the store and records the result. It reports
// whether the document changed.
func (self *Editor) Edit(fn func(*Store)) bool {
	before := self.store.Document()
	fn(self.store)
	after := self.store.Document()
	if after == before {
		return false
	}
	self.history.Push(after)
	return true
}

// Undo restores the document before the last edit.
func (self *Editor) Undo() bool {
	doc, ok := self.history.Undo()
	if ok {
		self.store.Replace(doc)
	}
	return ok
}

// Redo re-applies the last undone edit.
func (self *Editor) Redo() bool {
	doc, ok := self.history.Redo()
	if ok {
		self.store.Replace(doc)
	}
	return ok
}

// HandleKey maps Ctrl/Cmd+Z to undo and Ctrl/Cmd+Shift+Z to redo while in
// edit mode. It reports whether the key was consumed.
func (self *Editor) HandleKey(ev KeyEvent) bool {
	if !self.store.EditMode() {
		return false
	}
	if !(ev.Ctrl || ev.Meta) || !strings.EqualFold(ev.Key, "z") {
		return false
	}
	if ev.Shift {
		self.Redo()
	} else {
		self.Undo()
	}
	return true
}
