package connection

import "time"

// Backoff is a doubling reconnect delay between a floor and a ceiling. It
// is owned by a single goroutine.
type Backoff struct {
	floor   time.Duration
	ceiling time.Duration
	current time.Duration
}

func NewBackoff(floor, ceiling time.Duration) *Backoff {
	if ceiling < floor {
		ceiling = floor
	}
	return &Backoff{floor: floor, ceiling: ceiling, current: floor}
}

// Next returns the delay to wait now and doubles it, capped, for next time.
func (self *Backoff) Next() time.Duration {
	d := self.current
	self.current *= 2
	if self.current > self.ceiling {
		self.current = self.ceiling
	}
	return d
}

// Reset goes back to the floor after a successful connect.
func (self *Backoff) Reset() {
	self.current = self.floor
}
