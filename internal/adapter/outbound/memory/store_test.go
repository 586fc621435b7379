package memory

import (
	"errors"
	"sync"
	"testing"

	"github.com/CursosTech/cursoteca/internal/port/outbound"
)

func TestStore_SetGet(t *testing.T) {
	t.Parallel()

	store := NewStore()
	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "v" {
		t.Errorf("Get() = %q, want %q", got, "v")
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	t.Parallel()

	if _, err := NewStore().Get("nope"); !errors.Is(err, outbound.ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	t.Parallel()

	store := NewStore()
	_ = store.Set("a", "1")
	_ = store.Set("b", "2")

	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := store.Delete("a"); err != nil {
		t.Errorf("Delete(absent) error: %v", err)
	}
	if got := store.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if got := store.Len(); got != 0 {
		t.Errorf("Len() = %d after Clear, want 0", got)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("k", "v")
			_, _ = store.Get("k")
			_ = store.Delete("k")
		}()
	}
	wg.Wait()
}
