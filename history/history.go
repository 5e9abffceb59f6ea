// Package history is a bounded linear undo/redo stack of snapshots.
//
// The stack does not know what it stores. Callers push the state after
// every edit they want undoable and write the value returned by Undo or
// Redo back into their own store.
package history

import "sync"

// MaxDepth is the default number of snapshots kept in the past.
const MaxDepth = 50

type Stack[T any] struct {
	lock   sync.Mutex
	max    int
	past   []T
	future []T
}

func New[T any](max int) *Stack[T] {
	if max <= 0 {
		max = MaxDepth
	}
	return &Stack[T]{max: max}
}

// Push appends a snapshot, evicting the oldest entries beyond the maximum
// depth, and discards everything that could have been redone.
func (self *Stack[T]) Push(snapshot T) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.past = append(self.past, snapshot)
	if over := len(self.past) - self.max; over > 0 {
		self.past = append([]T(nil), self.past[over:]...)
	}
	self.future = nil
}

// Undo moves the newest snapshot onto the redo stack and returns the one
// now on top, i.e. the state before the last edit. With a single snapshot
// in the past it is still moved, but there is nothing earlier to restore
// and ok is false.
func (self *Stack[T]) Undo() (snapshot T, ok bool) {
	self.lock.Lock()
	defer self.lock.Unlock()
	n := len(self.past)
	if n == 0 {
		return snapshot, false
	}
	top := self.past[n-1]
	self.past = self.past[:n-1]
	self.future = append([]T{top}, self.future...)
	if n < 2 {
		return snapshot, false
	}
	return self.past[n-2], true
}

// Redo moves the first redo snapshot back onto the past and returns it.
func (self *Stack[T]) Redo() (snapshot T, ok bool) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if len(self.future) == 0 {
		return snapshot, false
	}
	next := self.future[0]
	self.future = self.future[1:]
	self.past = append(self.past, next)
	return next, true
}

func (self *Stack[T]) CanUndo() bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	return len(self.past) > 0
}

func (self *Stack[T]) CanRedo() bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	return len(self.future) > 0
}

// Past is the number of snapshots that can be undone.
func (self *Stack[T]) Past() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return len(self.past)
}

// Future is the number of snapshots that can be redone.
func (self *Stack[T]) Future() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return len(self.future)
}

func (self *Stack[T]) Clear() {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.past = nil
	self.future = nil
}
