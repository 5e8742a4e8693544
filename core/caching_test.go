package core

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/slopscan/slopscan/internal/contract"
	"github.com/slopscan/slopscan/schema"
	"github.com/stretchr/testify/assert"
)

// memStore is an in-memory CacheStore for orchestrator and cache tests.
type memStore struct {
	mu   sync.Mutex
	data map[string]memEntry
}

type memEntry struct {
	value     []byte
	version   int
	timestamp int64
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]memEntry)}
}

var _ contract.CacheStore = &memStore{}

func (s *memStore) Get(key string) ([]byte, int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok {
		return nil, 0, 0, nil
	}
	return e.value, e.version, e.timestamp, nil
}

func (s *memStore) Set(key string, value []byte, version int, timestamp int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = memEntry{value: value, version: version, timestamp: timestamp}
	return nil
}

func (s *memStore) GetStatus() (schema.CacheStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.CacheStatus{Backend: "memory", Connected: true, TotalEntries: int64(len(s.data))}, nil
}

func (s *memStore) Close() error { return nil }

// memManager hands out a single memStore.
type memManager struct {
	store *memStore
}

var _ contract.CacheManager = &memManager{}

func (m *memManager) GetAnalysisStore() contract.CacheStore { return m.store }

func TestAnalysisCacheKey(t *testing.T) {
	id := schema.RepoID{Owner: "octocat", Name: "hello-world"}
	assert.Equal(t, "octocat/hello-world:main:abc123", analysisCacheKey(id, "main", "abc123"))
	assert.Equal(t, "octocat/hello-world:main:no-commits", analysisCacheKey(id, "main", ""))
}

func TestCheckCacheHit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cached := &schema.RepoAnalysis{
		RepoID:    schema.RepoID{Owner: "o", Name: "n"},
		SlopScore: 55,
		Stage:     schema.FinalStage,
	}
	data, err := json.Marshal(cached)
	assert.NoError(t, err)

	testCases := []struct {
		name      string
		version   int
		timestamp int64
		wantHit   bool
	}{
		{"fresh", analysisCacheVersion, now.Add(-30 * time.Minute).Unix(), true},
		{"just under ttl", analysisCacheVersion, now.Add(-analysisTTL + time.Second).Unix(), true},
		{"stale", analysisCacheVersion, now.Add(-2 * time.Hour).Unix(), false},
		{"wrong version", analysisCacheVersion + 1, now.Add(-time.Minute).Unix(), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			assert.NoError(t, store.Set("k", data, tc.version, tc.timestamp))

			hit := checkCacheHit(store, "k", now)
			if !tc.wantHit {
				assert.Nil(t, hit)
				return
			}
			if assert.NotNil(t, hit) {
				assert.Equal(t, 55, hit.SlopScore)
				assert.True(t, hit.Cache.IsCached)
				assert.Equal(t, "k", hit.Cache.Key)
			}
		})
	}
}

func TestCheckCacheHitMissAndNilStore(t *testing.T) {
	now := time.Now()
	assert.Nil(t, checkCacheHit(nil, "k", now))
	assert.Nil(t, checkCacheHit(newMemStore(), "absent", now))
}

func TestStoreAnalysisRoundTrip(t *testing.T) {
	store := newMemStore()
	now := time.Now()
	analysis := &schema.RepoAnalysis{
		RepoID:    schema.RepoID{Owner: "o", Name: "n"},
		SlopScore: 70,
		Stage:     schema.FinalStage,
	}
	storeAnalysis(store, "k", analysis, now)

	hit := checkCacheHit(store, "k", now)
	if assert.NotNil(t, hit) {
		assert.Equal(t, 70, hit.SlopScore)
		assert.True(t, hit.Cache.IsCached)
	}
}
