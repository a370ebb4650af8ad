package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aurum-app/aurum/internal/models"
	"github.com/aurum-app/aurum/pkg/logger"
	"github.com/aurum-app/aurum/pkg/validation"
)

// FileStore is a subscription registry backed by a single JSON file.
// Mutations serialize through writeMu across the whole
// read-mutate-persist cycle so concurrent Add/Remove calls compose
// without lost updates. Reads are served from the in-memory cache and
// are not blocked by writers.
type FileStore struct {
	logger *logger.Logger
	path   string
	cap    int

	writeMu sync.Mutex

	cacheMu sync.RWMutex
	cache   []models.PushSubscription
	loaded  bool
}

// NewFileStore creates a file-backed store. The backing file is read
// lazily on first access.
func NewFileStore(path string, cap int, logger *logger.Logger) *FileStore {
	return &FileStore{
		logger: logger,
		path:   path,
		cap:    cap,
	}
}

// Get returns the current subscriptions. A read failure other than a
// missing file is logged and treated as an empty registry.
func (s *FileStore) Get() []models.PushSubscription {
	s.cacheMu.RLock()
	if s.loaded {
		subs := s.cache
		s.cacheMu.RUnlock()
		return subs
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.loaded {
		return s.cache
	}

	subs, err := s.readFile()
	if err != nil {
		s.logger.Warn("Failed to read subscription file, starting empty ", "path ", s.path, " error ", err)
		subs = nil
	}
	s.cache = subs
	s.loaded = true
	return s.cache
}

// Add validates and appends a subscription, persisting the new collection.
func (s *FileStore) Add(sub models.PushSubscription) error {
	if err := validation.ValidateEndpoint(sub.Endpoint); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidEndpoint, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Get()
	for _, existing := range current {
		if existing.Endpoint == sub.Endpoint {
			return nil
		}
	}
	if len(current) >= s.cap {
		return models.ErrStoreFull
	}

	next := make([]models.PushSubscription, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, sub)
	return s.persist(next)
}

// Remove deletes the subscription with the given endpoint. Removing an
// absent endpoint is a no-op.
func (s *FileStore) Remove(endpoint string) error {
	return s.RemoveAll([]string{endpoint})
}

// RemoveAll deletes every listed endpoint in one serialized mutation.
func (s *FileStore) RemoveAll(endpoints []string) error {
	if len(endpoints) == 0 {
		return nil
	}
	drop := make(map[string]bool, len(endpoints))
	for _, e := range endpoints {
		drop[e] = true
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Get()
	next := make([]models.PushSubscription, 0, len(current))
	for _, sub := range current {
		if !drop[sub.Endpoint] {
			next = append(next, sub)
		}
	}
	if len(next) == len(current) {
		return nil
	}
	return s.persist(next)
}

// Count returns the number of stored subscriptions.
func (s *FileStore) Count() int {
	return len(s.Get())
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) readFile() ([]models.PushSubscription, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var subs []models.PushSubscription
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("failed to parse subscription file: %w", err)
	}
	return subs, nil
}

// persist writes the collection to disk and, only on success, replaces
// the in-memory cache. A failed write leaves the cache at its
// last-known-good value.
func (s *FileStore) persist(subs []models.PushSubscription) error {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal subscriptions: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write subscription file: %w", err)
	}

	s.cacheMu.Lock()
	s.cache = subs
	s.loaded = true
	s.cacheMu.Unlock()
	return nil
}
