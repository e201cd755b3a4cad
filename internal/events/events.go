// Package events carries the engine's outbound status events to whoever is
// listening.
//
// Publishing is fire-and-forget: a publish never blocks and is silently
// dropped for any subscriber that is not keeping up, matching the best-effort
// broadcast contract of the command surface. A bounded ring of recent events
// is retained so the CLI can show what happened without having been
// subscribed at the time.
package events

import (
	"sync"
	"time"
)

// Kind enumerates status event types.
type Kind string

const (
	TimerStarted     Kind = "TIMER_STARTED"
	NotEnoughTabs    Kind = "NOT_ENOUGH_TABS"
	GroupingStarted  Kind = "GROUPING_STARTED"
	GroupingComplete Kind = "GROUPING_COMPLETE"
	Stopped          Kind = "STOPPED"
	Error            Kind = "ERROR"
)

// Event is one status broadcast. Payload fields are populated per kind:
// Minutes for TimerStarted, Required for NotEnoughTabs, Grouped for
// GroupingComplete, Message for Error.
type Event struct {
	Kind     Kind      `json:"kind"`
	Time     time.Time `json:"time"`
	Minutes  int       `json:"minutes,omitempty"`
	Required int       `json:"required,omitempty"`
	Grouped  int       `json:"grouped,omitempty"`
	Message  string    `json:"message,omitempty"`
}

const recentCapacity = 32

// Bus fans events out to subscribers without ever blocking the publisher.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	recent []Event
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Publish delivers the event to every subscriber that has buffer room and
// records it in the recent ring. Missing timestamps are stamped on entry.
func (b *Bus) Publish(event Event) {
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.recent = append(b.recent, event)
	if len(b.recent) > recentCapacity {
		b.recent = b.recent[len(b.recent)-recentCapacity:]
	}

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			// Subscriber is not draining; drop rather than block.
		}
	}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. The channel is closed on cancel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if existing, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(existing)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Recent returns a copy of the retained events, oldest first.
func (b *Bus) Recent() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.recent))
	copy(out, b.recent)
	return out
}
