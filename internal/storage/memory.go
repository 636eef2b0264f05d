package storage

import (
	"context"
	"io"
	"path"
	"sync"

	"github.com/google/uuid"
)

// MemoryImageStore keeps uploads in memory. Used by tests and local
// development when no S3 credentials are configured.
type MemoryImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{objects: make(map[string][]byte)}
}

func (s *MemoryImageStore) Put(ctx context.Context, name string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	key := uuid.New().String() + path.Ext(name)

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return "/uploads/" + key, nil
}

// Get returns a stored object; test helper.
func (s *MemoryImageStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len reports how many objects have been stored.
func (s *MemoryImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
