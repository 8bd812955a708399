// Package file implements storage.Store with one JSON file per key.
//
// Writes go to a uniquely named temporary file that is renamed over the
// target. A lock file next to each key serializes single reads and writes
// between processes. A caller's read-modify-write is not held under the lock,
// so concurrent writers of one key are last-writer-wins.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"taskdeck/internal/storage"
)

const (
	// lockRetry is how often a held lock is polled.
	lockRetry = 25 * time.Millisecond

	fileExt = ".json"
)

// Store is a directory-backed storage.Store.
type Store struct {
	dir string
	log logr.Logger
}

// New creates the directory if needed (mode 0700) and returns a Store over it.
func New(dir string, log logr.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Path returns the file holding key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Get implements storage.Store.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := storage.ValidateKey(key); err != nil {
		return "", err
	}

	lk := flock.New(s.Path(key) + ".lock")
	locked, err := lk.TryRLockContext(ctx, lockRetry)
	if err != nil {
		return "", fmt.Errorf("lock %s: %w", key, err)
	}
	if !locked {
		return "", fmt.Errorf("lock %s: not acquired", key)
	}
	defer func() { _ = lk.Unlock() }()

	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	s.log.V(1).Info("read key", "key", key, "bytes", len(data))
	return string(data), nil
}

// Put implements storage.Store.
func (s *Store) Put(ctx context.Context, key, value string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	lk := flock.New(s.Path(key) + ".lock")
	locked, err := lk.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", key)
	}
	defer func() { _ = lk.Unlock() }()

	tmp := filepath.Join(s.dir, fmt.Sprintf(".%s.%s.tmp", key, uuid.NewString()))
	defer func() { _ = os.Remove(tmp) }()

	if err := os.WriteFile(tmp, []byte(value), 0600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.Path(key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	s.log.V(1).Info("wrote key", "key", key, "bytes", len(value))
	return nil
}

// Close implements storage.Store. Locks are per call, so there is nothing to release.
func (s *Store) Close() error {
	return nil
}
