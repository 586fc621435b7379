package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/CursosTech/cursoteca/internal/telemetry"
)

// Store is the single source of truth for product records on the client
// side. The in-memory list is a cache of remote state: every mutation is
// confirmed by the remote collaborator before the list changes.
//
// Completed async operations are applied in completion order, not issue
// order. Two in-flight updates to the same record therefore race, and the
// later-completing response replaces the record in full (last-writer-wins,
// no field-level merge).
type Store struct {
	client  Client
	logger  *slog.Logger
	metrics *telemetry.Metrics

	mu       sync.RWMutex
	products []Product
	viewed   *Product
	loading  bool
	loadErr  error
}

// NewStore creates a catalog store backed by the given remote client.
// Call LoadAll to populate the cache.
func NewStore(client Client, logger *slog.Logger, metrics *telemetry.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client:  client,
		logger:  logger.With("component", "catalog"),
		metrics: metrics,
	}
}

// LoadAll fetches the full product list from the remote collaborator.
// The loading flag is true until the call settles. On failure the error
// state is set, the list stays empty and no retry is attempted.
func (s *Store) LoadAll(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.loadErr = nil
	s.mu.Unlock()

	products, err := s.client.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.loadErr = fmt.Errorf("load productos: %w", err)
		s.products = nil
		s.metrics.ObserveCatalogRequest("list", "error")
		s.logger.Error("failed to load productos", "error", err)
		return
	}
	s.products = products
	s.metrics.ObserveCatalogRequest("list", "ok")
	s.logger.Debug("productos loaded", "count", len(products))
}

// LoadByID fetches a single product and stores it as the currently viewed
// product. The cached list is not touched. Failure and loading semantics
// match LoadAll.
func (s *Store) LoadByID(ctx context.Context, id string) {
	s.mu.Lock()
	s.loading = true
	s.loadErr = nil
	s.mu.Unlock()

	product, err := s.client.Get(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.loadErr = fmt.Errorf("load producto %s: %w", id, err)
		s.metrics.ObserveCatalogRequest("get", "error")
		s.logger.Error("failed to load producto", "id", id, "error", err)
		return
	}
	s.viewed = &product
	s.metrics.ObserveCatalogRequest("get", "ok")
}

// Create validates the draft and, when valid, sends it to the remote
// collaborator. On validation failure it returns a *ValidationError with
// the field map and the remote is never called. On remote failure the
// error propagates and local state is untouched.
func (s *Store) Create(ctx context.Context, draft Draft) (Product, error) {
	if errs := ValidateDraft(draft); len(errs) > 0 {
		return Product{}, &ValidationError{Fields: errs}
	}

	created, err := s.client.Create(ctx, draft)
	if err != nil {
		s.metrics.ObserveCatalogRequest("create", "error")
		return Product{}, fmt.Errorf("create producto: %w", err)
	}

	s.mu.Lock()
	s.products = append(s.products, created)
	s.mu.Unlock()

	s.metrics.ObserveCatalogRequest("create", "ok")
	s.logger.Info("producto created", "id", created.ID)
	return created, nil
}

// Update merges the patch onto the cached record and sends the merged
// record to the remote collaborator. On success the remote-confirmed
// version replaces the cached record wholesale. On failure the caller is
// responsible for reverting any optimistic UI value; the store does not
// roll back automatically.
func (s *Store) Update(ctx context.Context, patch Patch) (Product, error) {
	s.mu.RLock()
	base, ok := s.find(patch.ID)
	s.mu.RUnlock()
	if !ok {
		return Product{}, fmt.Errorf("producto %s not in catalog cache", patch.ID)
	}

	merged := patch.Apply(base)

	updated, err := s.client.Update(ctx, patch.ID, merged)
	if err != nil {
		s.metrics.ObserveCatalogRequest("update", "error")
		return Product{}, fmt.Errorf("update producto %s: %w", patch.ID, err)
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == updated.ID {
			s.products[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.metrics.ObserveCatalogRequest("update", "ok")
	return updated, nil
}

// Remove deletes the product remotely and, once confirmed, drops it from
// the cached list. On failure the list is left unchanged and the error
// propagates.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		s.metrics.ObserveCatalogRequest("delete", "error")
		return fmt.Errorf("delete producto %s: %w", id, err)
	}

	s.mu.Lock()
	filtered := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	s.products = filtered
	s.mu.Unlock()

	s.metrics.ObserveCatalogRequest("delete", "ok")
	s.logger.Info("producto removed", "id", id)
	return nil
}

// Products returns a copy of the cached product list.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get returns the cached record for id, if present.
func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(id)
}

// Viewed returns the currently viewed product set by LoadByID.
func (s *Store) Viewed() (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewed == nil {
		return Product{}, false
	}
	return *s.viewed, true
}

// Loading reports whether a load operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error state set by a failed load, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// find looks up a record by id. Caller must hold at least a read lock.
func (s *Store) find(id string) (Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
