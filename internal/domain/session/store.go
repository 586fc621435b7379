package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/CursosTech/cursoteca/internal/port/outbound"
	"github.com/CursosTech/cursoteca/internal/telemetry"
)

// Navigator moves the UI to another route. Implemented by the route table.
type Navigator interface {
	Navigate(path string)
}

// CartClearer empties the in-memory cart when the session ends.
// Implemented by the cart store.
type CartClearer interface {
	Clear() error
}

// Store owns the current session. It rehydrates from durable storage at
// construction and exposes a loading flag so route guards can distinguish
// "not yet known" from "definitely anonymous".
type Store struct {
	storage outbound.Storage
	nav     Navigator
	cart    CartClearer
	logger  *slog.Logger
	metrics *telemetry.Metrics

	mu      sync.RWMutex
	current *Session
	loading bool
}

// NewStore creates the auth store and rehydrates any persisted session.
// nav and cart may be nil in tests.
func NewStore(storage outbound.Storage, nav Navigator, cart CartClearer, logger *slog.Logger, metrics *telemetry.Metrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		storage: storage,
		nav:     nav,
		cart:    cart,
		logger:  logger.With("component", "session"),
		metrics: metrics,
		loading: true,
	}
	s.rehydrate()
	return s
}

// rehydrate reconstructs the session from durable storage. A session exists
// exactly when the token entry is present; email and admin flag fall back
// to their zero values when their entries are missing.
func (s *Store) rehydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	token, err := s.storage.Get(outbound.KeyAuthToken)
	if err != nil {
		if !errors.Is(err, outbound.ErrKeyNotFound) {
			s.logger.Warn("failed to read session token, staying anonymous", "error", err)
		}
		s.metrics.SetSessionActive(false)
		return
	}

	email, _ := s.storage.Get(outbound.KeyAuthEmail)
	adminRaw, _ := s.storage.Get(outbound.KeyIsAdmin)

	s.current = &Session{
		Nombre:  nombreFromToken(token),
		Email:   email,
		IsAdmin: adminRaw == "true",
	}
	s.metrics.SetSessionActive(true)
	s.logger.Debug("session rehydrated", "nombre", s.current.Nombre, "is_admin", s.current.IsAdmin)
}

// Login persists the session fields, sets the in-memory session and
// navigates to the home view. If persistence fails, the partially written
// keys are removed so the session stays fully absent.
func (s *Store) Login(creds Credentials) error {
	entries := map[string]string{
		outbound.KeyAuthToken: TokenFor(creds.Nombre),
		outbound.KeyAuthEmail: creds.Email,
		outbound.KeyIsAdmin:   strconv.FormatBool(creds.IsAdmin),
	}
	for key, value := range entries {
		if err := s.storage.Set(key, value); err != nil {
			for k := range entries {
				_ = s.storage.Delete(k)
			}
			return fmt.Errorf("persist session %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.current = &Session{Nombre: creds.Nombre, Email: creds.Email, IsAdmin: creds.IsAdmin}
	s.mu.Unlock()

	s.metrics.SetSessionActive(true)
	s.logger.Info("session started", "nombre", creds.Nombre, "is_admin", creds.IsAdmin)
	if s.nav != nil {
		s.nav.Navigate("/")
	}
	return nil
}

// Logout clears the session, the session storage entries and the cart's
// durable snapshot, then navigates to the home view.
func (s *Store) Logout() error {
	var firstErr error
	for _, key := range []string{
		outbound.KeyAuthToken,
		outbound.KeyAuthEmail,
		outbound.KeyIsAdmin,
		outbound.KeyCart,
	} {
		if err := s.storage.Delete(key); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("clear session %s: %w", key, err)
		}
	}

	if s.cart != nil {
		if err := s.cart.Clear(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.metrics.SetSessionActive(false)
	s.logger.Info("session ended")
	if s.nav != nil {
		s.nav.Navigate("/")
	}
	return firstErr
}

// Current returns the active session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a session is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Loading reports whether startup rehydration is still in progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
