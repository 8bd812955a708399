package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/gofrs/flock"

	"taskdeck/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data"), logr.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestStore_GetMissing(t *testing.T) {
	s := newStore(t)

	_, err := s.Get(context.Background(), "tasks")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_PutGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "tasks", `[{"id":1}]`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `[{"id":1}]` {
		t.Errorf("expected stored value, got %q", got)
	}

	if err := s.Put(ctx, "tasks", `[]`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _ = s.Get(ctx, "tasks")
	if got != `[]` {
		t.Errorf("expected overwritten value, got %q", got)
	}
}

// Two stores over one directory stand in for two processes.
func TestStore_LastWriterWins(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	ctx := context.Background()
	a, err := New(dir, logr.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(dir, logr.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := a.Put(ctx, "tasks", `[{"id":1}]`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	seen, err := b.Get(ctx, "tasks")
	if err != nil || seen != `[{"id":1}]` {
		t.Fatalf("Get = %q, %v", seen, err)
	}

	// a writes after b has read; b's write replaces it.
	if err := a.Put(ctx, "tasks", `[{"id":1},{"id":2}]`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := b.Put(ctx, "tasks", `[{"id":1},{"id":3}]`); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _ := a.Get(ctx, "tasks")
	if got != `[{"id":1},{"id":3}]` {
		t.Errorf("expected the last write, got %q", got)
	}
}

func TestStore_FileLayout(t *testing.T) {
	s := newStore(t)

	if err := s.Put(context.Background(), "tasks", "[]"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	info, err := os.Stat(s.Path("tasks"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestStore_InvalidKey(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "..", "../escape", `a\b`} {
		if err := s.Put(ctx, key, "x"); err == nil {
			t.Errorf("Put(%q): expected error", key)
		}
		if _, err := s.Get(ctx, key); err == nil {
			t.Errorf("Get(%q): expected error", key)
		}
	}
}

func TestStore_WaitsForLock(t *testing.T) {
	s := newStore(t)

	held := flock.New(s.Path("tasks") + ".lock")
	if err := held.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer func() { _ = held.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := s.Put(ctx, "tasks", "[]"); err == nil {
		t.Error("expected error while another holder has the lock")
	}
	if _, err := os.Stat(s.Path("tasks")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no data file, got %v", err)
	}
}
