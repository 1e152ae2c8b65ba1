package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemorySink keeps objects in process. Used when no S3 credentials are set.
type MemorySink struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{objects: make(map[string][]byte)}
}

func (s *MemorySink) Put(_ context.Context, key string, r io.Reader, size int64, _ string) error {
	b, err := io.ReadAll(io.LimitReader(r, size+1))
	if err != nil {
		return fmt.Errorf("read object %s: %w", key, err)
	}
	if int64(len(b)) != size {
		return fmt.Errorf("object %s: got %d bytes, want %d", key, len(b), size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return nil
}

func (s *MemorySink) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}
