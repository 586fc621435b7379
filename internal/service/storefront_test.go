package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/CursosTech/cursoteca/internal/config"
	"github.com/CursosTech/cursoteca/internal/domain/catalog"
	"github.com/CursosTech/cursoteca/internal/domain/guard"
	"github.com/CursosTech/cursoteca/internal/domain/session"
)

// catalogServer is a minimal remote catalog over httptest.
type catalogServer struct {
	mu      sync.Mutex
	records map[string]catalog.Product
}

func newCatalogServer(t *testing.T, seed ...catalog.Product) *httptest.Server {
	t.Helper()
	cs := &catalogServer{records: make(map[string]catalog.Product)}
	for _, p := range seed {
		cs.records[p.ID] = p
	}
	srv := httptest.NewServer(cs)
	t.Cleanup(srv.Close)
	return srv
}

func (cs *catalogServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	id := strings.TrimPrefix(r.URL.Path, "/productos")
	id = strings.TrimPrefix(id, "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		list := make([]catalog.Product, 0, len(cs.records))
		for _, p := range cs.records {
			list = append(list, p)
		}
		_ = json.NewEncoder(w).Encode(list)
	case r.Method == http.MethodGet:
		p, ok := cs.records[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	case r.Method == http.MethodPut:
		var p catalog.Product
		_ = json.NewDecoder(r.Body).Decode(&p)
		cs.records[id] = p
		_ = json.NewEncoder(w).Encode(p)
	default:
		http.Error(w, "unsupported", http.StatusMethodNotAllowed)
	}
}

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{
		Catalog: config.CatalogConfig{BaseURL: baseURL, Timeout: 2 * time.Second},
		Storage: config.StorageConfig{Backend: "memory", Path: "unused"},
	}
	cfg.SetDefaults()
	return cfg
}

func seedProduct(id string) catalog.Product {
	return catalog.Product{
		ID:          id,
		Titulo:      "Curso " + id,
		Descripcion: "Una descripcion suficientemente larga.",
		Precio:      "100",
		Imagen:      "https://cdn.example.com/" + id + ".png",
		Estado:      catalog.StatusPublished,
	}
}

func newTestStorefront(t *testing.T, seed ...catalog.Product) *Storefront {
	t.Helper()
	srv := newCatalogServer(t, seed...)
	sf, err := New(testConfig(srv.URL), nil, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = sf.Close(context.Background()) })
	return sf
}

func TestNew_WiresAllStores(t *testing.T) {
	t.Parallel()

	sf := newTestStorefront(t)

	if sf.Catalog == nil || sf.Cart == nil || sf.Auth == nil || sf.Routes == nil {
		t.Fatal("New() left a store nil")
	}
	if sf.Auth.Loading() {
		t.Error("Auth.Loading() = true after construction")
	}
	if got := sf.Routes.Current(); got != "/" {
		t.Errorf("Routes.Current() = %q, want /", got)
	}
}

func TestNew_UnknownStorageBackend(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://127.0.0.1:1")
	cfg.Storage.Backend = "redis"

	if _, err := New(cfg, nil, nil); err == nil {
		t.Error("New() = nil error for unknown backend")
	}
}

func TestStorefront_LoginUnlocksGuardedRoutes(t *testing.T) {
	t.Parallel()

	sf := newTestStorefront(t)

	if res := sf.Routes.Resolve("/cart"); res.Decision != guard.DecisionDenied {
		t.Errorf("anonymous /cart decision = %s, want denied", res.Decision)
	}

	if err := sf.Auth.Login(session.Credentials{Nombre: "Ana", Email: "ana@example.com", IsAdmin: true}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if res := sf.Routes.Resolve("/cart"); res.Decision != guard.DecisionAllowed {
		t.Errorf("/cart decision = %s, want allowed", res.Decision)
	}
	if res := sf.Routes.Resolve("/admin/productos"); res.Decision != guard.DecisionAllowed {
		t.Errorf("/admin/productos decision = %s, want allowed", res.Decision)
	}

	// Login navigated home.
	if got := sf.Routes.Current(); got != "/" {
		t.Errorf("Routes.Current() = %q, want /", got)
	}
}

func TestStorefront_LogoutClearsCart(t *testing.T) {
	t.Parallel()

	sf := newTestStorefront(t, seedProduct("1"))

	if err := sf.Auth.Login(session.Credentials{Nombre: "Ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if err := sf.Cart.Add(seedProduct("1")); err != nil {
		t.Fatalf("Cart.Add() error: %v", err)
	}

	if err := sf.Auth.Logout(); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if got := sf.Cart.Len(); got != 0 {
		t.Errorf("Cart.Len() = %d after logout, want 0", got)
	}
	if sf.Auth.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
}

func TestUpdateField(t *testing.T) {
	t.Parallel()

	sf := newTestStorefront(t, seedProduct("1"))
	sf.Catalog.LoadAll(context.Background())
	if err := sf.Catalog.Err(); err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}

	prev, err := sf.UpdateField(context.Background(), "1", "precio", "2.500")
	if err != nil {
		t.Fatalf("UpdateField() error: %v", err)
	}
	if prev != "100" {
		t.Errorf("prev = %q, want prior value 100", prev)
	}

	got, _ := sf.Catalog.Get("1")
	if got.Precio != "2.500" {
		t.Errorf("cached Precio = %q, want 2.500", got.Precio)
	}
}

func TestUpdateField_InvalidValueReturnsPrevForRevert(t *testing.T) {
	t.Parallel()

	sf := newTestStorefront(t, seedProduct("1"))
	sf.Catalog.LoadAll(context.Background())

	prev, err := sf.UpdateField(context.Background(), "1", "precio", "abc")

	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("UpdateField() error = %v, want *ValidationError", err)
	}
	if prev != "100" {
		t.Errorf("prev = %q, want prior value for revert", prev)
	}
	// The cache keeps the known-good value.
	got, _ := sf.Catalog.Get("1")
	if got.Precio != "100" {
		t.Errorf("cached Precio = %q, want untouched 100", got.Precio)
	}
}

func TestUpdateField_UnchangedValueIsNoOp(t *testing.T) {
	t.Parallel()

	sf := newTestStorefront(t, seedProduct("1"))
	sf.Catalog.LoadAll(context.Background())

	prev, err := sf.UpdateField(context.Background(), "1", "titulo", "Curso 1")
	if err != nil {
		t.Fatalf("UpdateField() error: %v", err)
	}
	if prev != "Curso 1" {
		t.Errorf("prev = %q, want current value", prev)
	}
}

func TestUpdateField_UnknownField(t *testing.T) {
	t.Parallel()

	sf := newTestStorefront(t, seedProduct("1"))
	sf.Catalog.LoadAll(context.Background())

	if _, err := sf.UpdateField(context.Background(), "1", "color", "rojo"); err == nil {
		t.Error("UpdateField() = nil error for unknown field")
	}
}

func TestUpdateField_EstadoToggle(t *testing.T) {
	t.Parallel()

	sf := newTestStorefront(t, seedProduct("1"))
	sf.Catalog.LoadAll(context.Background())

	prev, err := sf.UpdateField(context.Background(), "1", "estado", string(catalog.StatusPaused))
	if err != nil {
		t.Fatalf("UpdateField() error: %v", err)
	}
	if prev != string(catalog.StatusPublished) {
		t.Errorf("prev = %q, want Publicado", prev)
	}
	got, _ := sf.Catalog.Get("1")
	if got.Estado != catalog.StatusPaused {
		t.Errorf("Estado = %q, want Pausado", got.Estado)
	}
}
