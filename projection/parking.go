package projection

import (
	"blog-bus/domain/event"
	"time"
)

const (
	DefaultParkingCapacity = 1000
	DefaultParkingTTL      = 30 * time.Second
)

// Parked is an event waiting for a dependency, with the error that parked it.
type Parked struct {
	Event    event.Event
	Reason   error
	Deadline time.Time
}

// Parking holds events that arrived before the aggregate they depend on.
// It is bounded both in size and in time. It is not safe for concurrent use.
type Parking struct {
	capacity int
	ttl      time.Duration
	items    []Parked // arrival order
}

func NewParking(capacity int, ttl time.Duration) *Parking {
	if capacity <= 0 {
		capacity = DefaultParkingCapacity
	}
	if ttl <= 0 {
		ttl = DefaultParkingTTL
	}
	return &Parking{capacity: capacity, ttl: ttl}
}

// Park keeps evt until its deadline. When the buffer is full the oldest
// parked event is evicted and returned.
func (p *Parking) Park(evt event.Event, reason error, now time.Time) (evicted *Parked) {
	if len(p.items) >= p.capacity {
		oldest := p.items[0]
		p.items = p.items[1:]
		evicted = &oldest
	}
	p.items = append(p.items, Parked{Event: evt, Reason: reason, Deadline: now.Add(p.ttl)})
	return evicted
}

// Expire removes and returns the events whose deadline is past.
func (p *Parking) Expire(now time.Time) []Parked {
	var expired []Parked
	kept := p.items[:0]
	for _, item := range p.items {
		if now.After(item.Deadline) {
			expired = append(expired, item)
			continue
		}
		kept = append(kept, item)
	}
	clear(p.items[len(kept):])
	p.items = kept
	return expired
}

// take removes every parked event, keeping their order.
func (p *Parking) take() []Parked {
	items := p.items
	p.items = nil
	return items
}

// restore puts back events in front of those parked meanwhile.
func (p *Parking) restore(items []Parked) {
	p.items = append(items, p.items...)
}

func (p *Parking) Len() int { return len(p.items) }
