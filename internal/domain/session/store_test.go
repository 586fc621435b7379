package session

import (
	"errors"
	"testing"

	"github.com/CursosTech/cursoteca/internal/adapter/outbound/memory"
	"github.com/CursosTech/cursoteca/internal/port/outbound"
)

// recordingNav captures navigation calls.
type recordingNav struct {
	paths []string
}

func (n *recordingNav) Navigate(path string) { n.paths = append(n.paths, path) }

// recordingCart counts Clear calls.
type recordingCart struct {
	cleared int
}

func (c *recordingCart) Clear() error {
	c.cleared++
	return nil
}

func TestStore_StartsAnonymous(t *testing.T) {
	t.Parallel()

	store := NewStore(memory.NewStore(), nil, nil, nil, nil)

	if store.Loading() {
		t.Error("Loading() = true after construction settled")
	}
	if store.IsAuthenticated() {
		t.Error("IsAuthenticated() = true with empty storage")
	}
}

func TestStore_LoginPersistsAndNavigatesHome(t *testing.T) {
	t.Parallel()

	storage := memory.NewStore()
	nav := &recordingNav{}
	store := NewStore(storage, nav, nil, nil, nil)

	err := store.Login(Credentials{Nombre: "Ana", Email: "ana@example.com", IsAdmin: true})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	sess, ok := store.Current()
	if !ok {
		t.Fatal("Current() absent after login")
	}
	if sess.Nombre != "Ana" || sess.Email != "ana@example.com" || !sess.IsAdmin {
		t.Errorf("Current() = %+v, want Ana/ana@example.com/admin", sess)
	}

	wantEntries := map[string]string{
		outbound.KeyAuthToken: "fake-token-Ana",
		outbound.KeyAuthEmail: "ana@example.com",
		outbound.KeyIsAdmin:   "true",
	}
	for key, want := range wantEntries {
		got, err := storage.Get(key)
		if err != nil {
			t.Fatalf("storage.Get(%s) error: %v", key, err)
		}
		if got != want {
			t.Errorf("storage[%s] = %q, want %q", key, got, want)
		}
	}

	if len(nav.paths) != 1 || nav.paths[0] != "/" {
		t.Errorf("Navigate calls = %v, want [/]", nav.paths)
	}
}

func TestStore_RehydratesAcrossRestart(t *testing.T) {
	t.Parallel()

	storage := memory.NewStore()
	first := NewStore(storage, nil, nil, nil, nil)
	if err := first.Login(Credentials{Nombre: "Luis", Email: "luis@example.com", IsAdmin: true}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	second := NewStore(storage, nil, nil, nil, nil)
	sess, ok := second.Current()
	if !ok {
		t.Fatal("Current() absent after rehydration")
	}
	if sess.Nombre != "Luis" {
		t.Errorf("Nombre = %q, want %q recovered from token", sess.Nombre, "Luis")
	}
	if sess.Email != "luis@example.com" {
		t.Errorf("Email = %q, want %q", sess.Email, "luis@example.com")
	}
	if !sess.IsAdmin {
		t.Error("IsAdmin = false, want durable admin flag honored")
	}
}

func TestStore_RehydrateTokenOnly(t *testing.T) {
	t.Parallel()

	storage := memory.NewStore()
	_ = storage.Set(outbound.KeyAuthToken, "fake-token-Eva")

	store := NewStore(storage, nil, nil, nil, nil)
	sess, ok := store.Current()
	if !ok {
		t.Fatal("Current() absent, want session from token alone")
	}
	if sess.Nombre != "Eva" {
		t.Errorf("Nombre = %q, want %q", sess.Nombre, "Eva")
	}
	if sess.Email != "" || sess.IsAdmin {
		t.Errorf("Current() = %+v, want zero email and non-admin", sess)
	}
}

func TestStore_LogoutClearsSessionAndCart(t *testing.T) {
	t.Parallel()

	storage := memory.NewStore()
	nav := &recordingNav{}
	cart := &recordingCart{}
	store := NewStore(storage, nav, cart, nil, nil)

	if err := store.Login(Credentials{Nombre: "Ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	_ = storage.Set(outbound.KeyCart, `[{"id":"1","cantidad":1}]`)

	if err := store.Logout(); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	if store.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	for _, key := range []string{outbound.KeyAuthToken, outbound.KeyAuthEmail, outbound.KeyIsAdmin, outbound.KeyCart} {
		if _, err := storage.Get(key); !errors.Is(err, outbound.ErrKeyNotFound) {
			t.Errorf("storage[%s] still present after logout", key)
		}
	}
	if cart.cleared != 1 {
		t.Errorf("cart.Clear() called %d times, want 1", cart.cleared)
	}
	if got := nav.paths[len(nav.paths)-1]; got != "/" {
		t.Errorf("last Navigate = %q, want /", got)
	}
}

func TestStore_LoginPersistFailureLeavesNoPartialSession(t *testing.T) {
	t.Parallel()

	storage := &flakyStorage{Storage: memory.NewStore(), failAfter: 1}
	store := NewStore(storage, nil, nil, nil, nil)

	if err := store.Login(Credentials{Nombre: "Ana", Email: "ana@example.com"}); err == nil {
		t.Fatal("Login() = nil error, want persistence failure")
	}
	if store.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed login")
	}
	for _, key := range []string{outbound.KeyAuthToken, outbound.KeyAuthEmail, outbound.KeyIsAdmin} {
		if _, err := storage.Get(key); !errors.Is(err, outbound.ErrKeyNotFound) {
			t.Errorf("storage[%s] present after failed login, want fully absent session", key)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	if got := TokenFor("María"); got != "fake-token-María" {
		t.Errorf("TokenFor() = %q, want %q", got, "fake-token-María")
	}
	if got := nombreFromToken("fake-token-María"); got != "María" {
		t.Errorf("nombreFromToken() = %q, want %q", got, "María")
	}
}

// flakyStorage fails Set after the first failAfter successful writes.
type flakyStorage struct {
	outbound.Storage
	writes    int
	failAfter int
}

func (f *flakyStorage) Set(key, value string) error {
	f.writes++
	if f.writes > f.failAfter {
		return errors.New("disk full")
	}
	return f.Storage.Set(key, value)
}
