package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
)

// memoryCache is an in-process CacheRepository used across service tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func TestCacheServiceRoundTripAndMetrics(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemoryCache(), metrics, time.Minute, nil, true)

	var out []string
	hit, err := svc.Get(context.Background(), "inventory:products", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "inventory:products", []string{"a"}, 0))
	hit, err = svc.Get(context.Background(), "inventory:products", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, out)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, 0, nil, false)
	require.NoError(t, svc.Set(context.Background(), "k", 1, 0))
	assert.False(t, repo.has("k"))
	assert.False(t, svc.Enabled())
}

func TestCacheServiceReportsBackendErrors(t *testing.T) {
	repo := newMemoryCache()
	repo.getErr = errors.New("redis down")
	svc := NewCacheService(repo, nil, 0, nil, true)

	var out int
	hit, err := svc.Get(context.Background(), "k", &out)
	assert.False(t, hit)
	assert.Error(t, err)
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, 0, nil, true)
	require.NoError(t, svc.Set(context.Background(), CacheKey("inventory", "products"), 1, 0))
	require.NoError(t, svc.Set(context.Background(), CacheKey("inventory", "alerts"), 1, 0))

	require.NoError(t, svc.Invalidate(context.Background(), "inventory:*"))
	assert.False(t, repo.has("inventory:products"))
	assert.False(t, repo.has("inventory:alerts"))
}
