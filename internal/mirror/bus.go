package mirror

import (
	"sync"

	"github.com/vitrinewallet/vitrine/internal/metrics"
)

// EventKind identifies what changed on an entity.
type EventKind string

// Event kinds published by the mirror.
const (
	EventNativeUpdated    EventKind = "native_updated"
	EventFungiblesUpdated EventKind = "fungibles_updated"
	EventLoadingChanged   EventKind = "loading_changed"
	EventEntityAdded      EventKind = "entity_added"
	EventEntityRemoved    EventKind = "entity_removed"
)

// Event is one observable state change.
type Event struct {
	EntityID string
	Kind     EventKind
}

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts dropping events rather than blocking the
// publisher.
const subscriberBuffer = 32

// Bus is a channel-backed publish/subscribe fanout for mirror events.
// Publishing never blocks: events to a full subscriber are dropped and
// counted. Subscribers that care about exact state read the entity, not
// the event stream; events only signal that something changed.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned cancel function
// removes the subscription and closes the channel; it is safe to call more
// than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
			metrics.Global.RecordEventPublished()
		default:
			metrics.Global.RecordEventDropped()
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
