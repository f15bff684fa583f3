// Package storage reads and writes one markdown file per task item and
// keeps an append-only activity log of mutations.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dohr-michael/taskdeck/internal/task"
)

// Store owns a single flat directory of `<id>.md` files. Lookup by id
// needs no secondary index because the filename derives from the id.
// Writes are last-write-wins per file; a crash mid-write can leave a
// truncated file, which the tolerant loader will then skip with a warning.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// NewStore creates a store rooted at dir. The directory is created lazily
// on first write, so a fresh data dir loads as an empty task set.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the backing file path for an id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".md")
}

// LoadAll scans the directory and parses every `.md` file independently.
// A malformed file is skipped with a warning and never fails the load; an
// absent directory yields an empty result.
func (s *Store) LoadAll() ([]*task.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read task dir: %w", err)
	}

	var items []*task.Item
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable task file", "path", path, "error", err)
			continue
		}
		it, err := Parse(data, path)
		if err != nil {
			slog.Warn("skipping malformed task file", "path", path, "error", err)
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// Get loads a single task by id.
func (s *Store) Get(id string) (*task.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.Path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("read task %s: %w", id, err)
	}
	return Parse(data, path)
}

// Write serializes the item and overwrites its backing file, returning the
// path. The write is intentionally not atomic; failures are fatal for this
// operation only.
func (s *Store) Write(it *task.Item) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Serialize(it)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create task dir: %w", err)
	}
	path := s.Path(it.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write task %s: %w", it.ID, err)
	}
	return path, nil
}

// Delete removes the backing file. Deleting an id with no file is an
// error: the common flow archives instead, so a missing file means the
// caller's view of the store is stale.
func (s *Store) Delete(it *task.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(it.ID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete task %s: %w", it.ID, ErrNotFound)
		}
		return fmt.Errorf("delete task %s: %w", it.ID, err)
	}
	return nil
}

// List loads everything and applies the filter.
func (s *Store) List(f task.Filter) ([]*task.Item, error) {
	items, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return task.Apply(items, f), nil
}
