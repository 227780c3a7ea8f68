package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FileStore keeps entries in a single YAML file. The file is read on first
// use and rewritten atomically on Close when something changed. A file that
// exists but cannot be read is never overwritten.
type FileStore struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	loaded   bool
	dirty    bool
	readOnly bool
	entries  map[string]Entry
}

// NewFileStore returns a store backed by path. A zero ttl never expires.
func NewFileStore(path string, ttl time.Duration) *FileStore {
	return &FileStore{
		path:    path,
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]Entry{},
	}
}

func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.readOnly = true
		return fmt.Errorf("reading cache %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &s.entries); err != nil {
		// A corrupt cache is discarded and rebuilt.
		s.entries = map[string]Entry{}
		s.dirty = true
		return fmt.Errorf("parsing cache %s: %w", s.path, err)
	}
	if s.entries == nil {
		s.entries = map[string]Entry{}
	}
	return nil
}

func (s *FileStore) expired(e Entry) bool {
	return s.ttl > 0 && s.now().Sub(e.StoredAt) > s.ttl
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return Entry{}, false, err
	}
	e, ok := s.entries[key]
	if !ok || s.expired(e) {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A parse error leaves an empty map that Close rebuilds the file from.
	// A read error keeps new entries in memory only.
	_ = s.load()
	s.entries[key] = entry
	if !s.readOnly {
		s.dirty = true
	}
	return nil
}

// Close writes pending changes, dropping expired entries.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	for key, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, key)
		}
	}

	data, err := yaml.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".identities-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing cache %s: %w", path, err)
	}
	return nil
}
