package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/videograph/storage"
)

// Store is an in-memory ObjectStore used in tests and examples.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ storage.ObjectStore = (*Store)(nil)

// NewStore creates an empty in-memory object store.
func NewStore() *Store {
	return &Store{objects: map[string][]byte{}}
}

// Read returns the contents of the object at path.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[path]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write stores data at path, replacing any existing object.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[path] = stored
	return nil
}

// Exists reports whether an object is present at path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[path]
	return ok, nil
}

// Delete removes the object at path.
func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, path)
	return nil
}

// List returns the paths of all objects under the given prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for p := range s.objects {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// URL is unsupported for the in-memory store.
func (s *Store) URL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return "", storage.ErrURLUnsupported
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
