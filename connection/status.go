package connection

import "sync"

type Status string

const (
	Disconnected Status = "disconnected"
	Connecting   Status = "connecting"
	Connected    Status = "connected"
)

// statusSignal holds the current status and fans changes out to
// subscribers. Each subscriber channel holds only the latest status.
type statusSignal struct {
	lock        sync.Mutex
	status      Status
	subscribers []chan Status
}

func (self *statusSignal) get() Status {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.status
}

func (self *statusSignal) set(status Status) bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.status == status {
		return false
	}
	self.status = status
	for _, ch := range self.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- status
	}
	return true
}

func (self *statusSignal) subscribe() <-chan Status {
	ch := make(chan Status, 1)
	self.lock.Lock()
	self.subscribers = append(self.subscribers, ch)
	self.lock.Unlock()
	return ch
}

func (self *statusSignal) unsubscribe(ch <-chan Status) {
	self.lock.Lock()
	defer self.lock.Unlock()
	var subscribers []chan Status
	for _, sub := range self.subscribers {
		if (<-chan Status)(sub) == ch {
			close(sub)
		} else {
			subscribers = append(subscribers, sub)
		}
	}
	self.subscribers = subscribers
}
