package cart

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a cart domain event.
type EventKind string

// EventItemAdded fires after a product is added (inserted or incremented).
// UI observers subscribe to it for the add-to-cart notification; the store
// itself carries no presentation concerns.
const EventItemAdded EventKind = "item_added"

// Event is a cart domain event delivered to subscribers.
type Event struct {
	ID   string
	Kind EventKind
	Item LineItem
	At   time.Time
}

// Subscriber receives cart events. Subscribers run synchronously on the
// mutating caller's goroutine and must not call back into the store.
type Subscriber func(Event)

// Subscribe registers fn for all future events.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// emit delivers an event to all subscribers. Must be called without the
// store lock held.
func (s *Store) emit(kind EventKind, item LineItem) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if len(subs) == 0 {
		return
	}
	ev := Event{
		ID:   uuid.NewString(),
		Kind: kind,
		Item: item,
		At:   time.Now().UTC(),
	}
	for _, fn := range subs {
		fn(ev)
	}
}
