package connection

import (
	"encoding/json"
	"sync"
	"time"
)

type outcome struct {
	result json.RawMessage
	err    error
}

type pending struct {
	deadline time.Time
	done     chan outcome
}

// requests is the table of commands awaiting a reply. An entry is removed
// under the lock before its outcome is delivered, so each one settles
// exactly once.
type requests struct {
	lock    sync.Mutex
	pending map[string]*pending
	closed  bool
}

func newRequests() *requests {
	return &requests{pending: map[string]*pending{}}
}

func (self *requests) add(id string, deadline time.Time) (*pending, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.closed {
		return nil, ErrClosed
	}
	p := &pending{deadline: deadline, done: make(chan outcome, 1)}
	self.pending[id] = p
	return p, nil
}

// settle delivers an outcome. It reports false if id was not pending.
func (self *requests) settle(id string, result json.RawMessage, err error) bool {
	self.lock.Lock()
	p, ok := self.pending[id]
	delete(self.pending, id)
	self.lock.Unlock()
	if !ok {
		return false
	}
	p.done <- outcome{result: result, err: err}
	return true
}

// sweep times out every entry past its deadline.
func (self *requests) sweep(now time.Time) int {
	self.lock.Lock()
	var expired []*pending
	for id, p := range self.pending {
		if !now.Before(p.deadline) {
			expired = append(expired, p)
			delete(self.pending, id)
		}
	}
	self.lock.Unlock()
	for _, p := range expired {
		p.done <- outcome{err: ErrTimeout}
	}
	return len(expired)
}

// close rejects everything outstanding and refuses new entries.
func (self *requests) close(err error) {
	self.lock.Lock()
	all := self.pending
	self.pending = map[string]*pending{}
	self.closed = true
	self.lock.Unlock()
	for _, p := range all {
		p.done <- outcome{err: err}
	}
}

func (self *requests) len() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return len(self.pending)
}
