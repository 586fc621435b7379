package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/CursosTech/cursoteca/internal/domain/catalog"
	"github.com/CursosTech/cursoteca/internal/port/outbound"
	"github.com/CursosTech/cursoteca/internal/telemetry"
)

// Store owns the cart line items. At most one line exists per product
// identifier. Every mutation synchronously serializes the full list to
// durable storage; construction rehydrates from storage, falling back to an
// empty cart when the snapshot is absent or corrupt.
type Store struct {
	storage outbound.Storage
	logger  *slog.Logger
	metrics *telemetry.Metrics

	mu    sync.Mutex
	items []LineItem
	subs  []Subscriber
}

// NewStore creates a cart store and rehydrates it from durable storage.
func NewStore(storage outbound.Storage, logger *slog.Logger, metrics *telemetry.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		storage: storage,
		logger:  logger.With("component", "cart"),
		metrics: metrics,
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	raw, err := s.storage.Get(outbound.KeyCart)
	if err != nil {
		if !errors.Is(err, outbound.ErrKeyNotFound) {
			s.logger.Warn("failed to read cart snapshot, starting empty", "error", err)
		}
		return
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("corrupt cart snapshot, starting empty", "error", err)
		return
	}
	s.items = items
}

// Add inserts a new line with cantidad 1, or increments the existing line
// for the same product identifier. An item-added event is emitted after the
// mutation is persisted.
func (s *Store) Add(p catalog.Product) error {
	s.mu.Lock()
	idx := s.indexOf(p.ID)
	if idx >= 0 {
		s.items[idx].Cantidad++
	} else {
		s.items = append(s.items, LineItem{Product: p, Cantidad: 1})
		idx = len(s.items) - 1
	}
	item := s.items[idx]
	err := s.persist("add")
	s.mu.Unlock()

	s.emit(EventItemAdded, item)
	return err
}

// Increment raises the quantity of the line for id by one.
// Unknown identifiers are a no-op.
func (s *Store) Increment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	s.items[idx].Cantidad++
	return s.persist("increment")
}

// Decrement lowers the quantity of the line for id by one. A line at
// cantidad 1 is removed entirely; quantity zero is never stored.
// Unknown identifiers are a no-op.
func (s *Store) Decrement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	if s.items[idx].Cantidad > 1 {
		s.items[idx].Cantidad--
	} else {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
	return s.persist("decrement")
}

// Remove deletes the line for id regardless of quantity.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return s.persist("remove")
}

// Clear empties the cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.persist("clear")
}

// Items returns a copy of the current line items.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total is the derived cart total: sum of price times quantity over all
// lines. It is recomputed on every read and never stored, so there is no
// cached total to invalidate.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// persist serializes the full line-item list under the cart key.
// Caller must hold the lock. The in-memory state is kept even when the
// write fails; the error is reported so callers can surface it.
func (s *Store) persist(op string) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	s.metrics.ObserveCartMutation(op, len(s.items))
	if err := s.storage.Set(outbound.KeyCart, string(data)); err != nil {
		s.logger.Warn("failed to persist cart snapshot", "op", op, "error", err)
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// indexOf returns the line index for a product id, or -1.
// Caller must hold the lock.
func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
