package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
)

// MemoryCacheStore is the default tier-1 cache: a mutex-guarded map. Expiry
// is enforced by the cache service on read and reclaimed by Prune; data is
// lost on restart, which is fine for a fast tier backed by the durable
// repository.
type MemoryCacheStore struct {
	mu      sync.RWMutex
	entries map[string]*domainCache.Entry
}

func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{entries: make(map[string]*domainCache.Entry)}
}

func (ms *MemoryCacheStore) Get(ctx context.Context, key string) (*domainCache.Entry, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	e, ok := ms.entries[key]
	if !ok {
		return nil, false
	}
	return e, true
}

func (ms *MemoryCacheStore) Set(ctx context.Context, entry *domainCache.Entry) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entries[entry.Key] = entry
	return nil
}

func (ms *MemoryCacheStore) Delete(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.entries, key)
	return nil
}

func (ms *MemoryCacheStore) DeleteByProvider(ctx context.Context, provider string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	prefix := provider + ":"
	for key := range ms.entries {
		if strings.HasPrefix(key, prefix) {
			delete(ms.entries, key)
		}
	}
	return nil
}

func (ms *MemoryCacheStore) Clear(ctx context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entries = make(map[string]*domainCache.Entry)
	return nil
}

func (ms *MemoryCacheStore) Prune(ctx context.Context, now time.Time) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	pruned := 0
	for key, e := range ms.entries {
		if e.Expired(now) {
			delete(ms.entries, key)
			pruned++
		}
	}
	return pruned
}

func (ms *MemoryCacheStore) Len(ctx context.Context) int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return len(ms.entries)
}
