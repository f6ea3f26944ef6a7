package persistence

import (
	"context"

	"ppods-be/pkg/appstate"

	"github.com/patrickmn/go-cache"
)

// MemoryBackend keeps blobs in process memory. Nothing survives a restart, so it
// is meant for development and tests.
type MemoryBackend struct {
	cache *cache.Cache
}

var _ appstate.Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{cache: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryBackend) Read(_ context.Context, key string) ([]byte, error) {
	if x, found := m.cache.Get(key); found {
		return append([]byte(nil), x.([]byte)...), nil
	}
	return nil, appstate.ErrNotFound
}

func (m *MemoryBackend) Write(_ context.Context, key string, data []byte) error {
	m.cache.Set(key, append([]byte(nil), data...), cache.NoExpiration)
	return nil
}
