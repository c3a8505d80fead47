package persist

import (
	"context"
	"sync"
)

// Memory - хранилище блобов в памяти: разработка и тесты.
type Memory struct {
	mtx   sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Save(ctx context.Context, key string, value []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	m.blobs[key] = cp
	return nil
}

func (m *Memory) Load(ctx context.Context, key string) ([]byte, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	value, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (m *Memory) Close() {}

var _ BlobStore = (*Memory)(nil)
