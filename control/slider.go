// Package control implements optimistic, rate limited continuous controls.
//
// A Slider shows the value the user is dragging to before the backend
// confirms it. Sends during a drag are gated to one per Throttle, the
// release always sends, and the local value is dropped once the
// authoritative value changes while no drag is active.
package control

import (
	"math"
	"sync"
	"time"
)

const DefaultThrottle = 100 * time.Millisecond

type Slider struct {
	Min      int
	Max      int
	Throttle time.Duration
	Send     func(value int)
	Clock    func() time.Time

	lock       sync.Mutex
	dragging   bool
	optimistic *int
	lastSend   time.Time
	observed   bool
	lastValue  int
	lastOK     bool
}

func NewSlider(min, max int, send func(value int)) *Slider {
	return &Slider{Min: min, Max: max, Throttle: DefaultThrottle, Send: send, Clock: time.Now}
}

func (self *Slider) now() time.Time {
	if self.Clock == nil {
		return time.Now()
	}
	return self.Clock()
}

// valueAt maps a 0..1 position along the track to Min..Max.
func (self *Slider) valueAt(ratio float64) int {
	ratio = math.Max(0, math.Min(1, ratio))
	v := int(math.Round(float64(self.Min) + ratio*float64(self.Max-self.Min)))
	if v < self.Min {
		v = self.Min
	}
	if v > self.Max {
		v = self.Max
	}
	return v
}

// update sets the optimistic value and reports whether it should be sent.
// Must be called with the lock held.
func (self *Slider) update(ratio float64, force bool) (int, bool) {
	v := self.valueAt(ratio)
	self.optimistic = &v
	now := self.now()
	if !force && now.Sub(self.lastSend) < self.Throttle {
		return v, false
	}
	self.lastSend = now
	return v, true
}

func (self *Slider) pointer(ratio float64, dragging, force bool) {
	self.lock.Lock()
	self.dragging = dragging
	v, send := self.update(ratio, force)
	self.lock.Unlock()
	if send && self.Send != nil {
		self.Send(v)
	}
}

func (self *Slider) PointerDown(ratio float64) {
	self.pointer(ratio, true, false)
}

func (self *Slider) PointerMove(ratio float64) {
	self.lock.Lock()
	dragging := self.dragging
	self.lock.Unlock()
	if !dragging {
		return
	}
	self.pointer(ratio, true, false)
}

// PointerUp ends the drag and always sends the released value.
func (self *Slider) PointerUp(ratio float64) {
	self.pointer(ratio, false, true)
}

// Observe reports the authoritative value. ok is false when it is unknown.
func (self *Slider) Observe(authoritative int, ok bool) {
	self.lock.Lock()
	defer self.lock.Unlock()
	changed := !self.observed || authoritative != self.lastValue || ok != self.lastOK
	self.observed = true
	self.lastValue = authoritative
	self.lastOK = ok
	if changed && !self.dragging {
		self.optimistic = nil
	}
}

// Value is what to display: the optimistic value if one is held.
func (self *Slider) Value(authoritative int) int {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.optimistic != nil {
		return *self.optimistic
	}
	return authoritative
}

func (self *Slider) Dragging() bool {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.dragging
}

// Optimistic returns the held local value, if any.
func (self *Slider) Optimistic() (int, bool) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.optimistic == nil {
		return 0, false
	}
	return *self.optimistic, true
}
