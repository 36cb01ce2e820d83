package cart

import (
	"context"
	"sync"
)

// MemStorage keeps the serialized blob in memory. Round-trips go through
// the same encode/decode as the durable backends.
type MemStorage struct {
	mu  sync.RWMutex
	raw []byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{}
}

func (s *MemStorage) Ping(ctx context.Context) error { return nil }

func (s *MemStorage) Load(ctx context.Context) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.raw == nil {
		return nil, nil
	}
	return decodeBlob(s.raw), nil
}

func (s *MemStorage) Save(ctx context.Context, lines []Line) error {
	raw := encodeBlob(lines)

	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
	return nil
}
