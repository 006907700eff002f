package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
	"github.com/sirupsen/logrus"
)

type cacheService struct {
	memory domainCache.Store
	repo   domainCache.Repository
	now    func() time.Time

	sweepInterval time.Duration
}

// NewCacheService wires the two cache tiers together. The memory store is
// the fast tier; the repository is the durable tier and the source of truth
// for invalidation counts.
func NewCacheService(memory domainCache.Store, repo domainCache.Repository, sweepInterval time.Duration) domainCache.ICacheUsecase {
	if sweepInterval < 5*time.Minute {
		sweepInterval = 5 * time.Minute
	}
	return &cacheService{
		memory:        memory,
		repo:          repo,
		now:           time.Now,
		sweepInterval: sweepInterval,
	}
}

// CacheKey derives the deterministic cache key for a provider and parameter
// set. Parameters are canonicalized by sorting keys before hashing, so the
// same logical request always collides to the same key regardless of
// construction order.
func CacheKey(provider string, params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	canonical := make([]byte, 0, 64)
	for _, k := range keys {
		v, err := json.Marshal(params[k])
		if err != nil {
			v = []byte(`null`)
		}
		canonical = append(canonical, k...)
		canonical = append(canonical, '=')
		canonical = append(canonical, v...)
		canonical = append(canonical, ';')
	}

	sum := md5.Sum(canonical)
	return provider + ":" + hex.EncodeToString(sum[:])
}

func (s *cacheService) Get(ctx context.Context, provider string, params map[string]any) (json.RawMessage, bool) {
	key := CacheKey(provider, params)
	now := s.now()

	// Tier 1. An expired entry is evicted, never served.
	if entry, ok := s.memory.Get(ctx, key); ok {
		if !entry.Expired(now) {
			logrus.Debugf("[CACHE] hit (memory): %s", provider)
			return entry.Payload, true
		}
		if err := s.memory.Delete(ctx, key); err != nil {
			logrus.Warnf("[CACHE] failed to evict expired memory entry %s: %v", key, err)
		}
	}

	// Tier 2. A storage fault is a miss, not an error for the caller.
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		logrus.Warnf("[CACHE] durable lookup failed for %s: %v", provider, err)
		return nil, false
	}
	if entry == nil {
		logrus.Debugf("[CACHE] miss: %s", provider)
		return nil, false
	}
	if entry.Expired(now) {
		if _, err := s.repo.Delete(ctx, key); err != nil {
			logrus.Warnf("[CACHE] failed to delete expired entry %s: %v", key, err)
		}
		return nil, false
	}

	// Promote to tier 1 with the same payload and expiry.
	if err := s.memory.Set(ctx, entry); err != nil {
		logrus.Warnf("[CACHE] memory promotion failed for %s: %v", key, err)
	}
	logrus.Debugf("[CACHE] hit (durable): %s", provider)
	return entry.Payload, true
}

func (s *cacheService) Put(ctx context.Context, provider string, params map[string]any, payload any, category domainCache.Category) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	entry := &domainCache.Entry{
		Key:       CacheKey(provider, params),
		Provider:  provider,
		Payload:   data,
		ExpiresAt: s.now().Add(category.TTL()),
	}

	if err := s.memory.Set(ctx, entry); err != nil {
		logrus.Warnf("[CACHE] memory store failed for %s: %v", entry.Key, err)
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		logrus.Errorf("[CACHE] durable store failed for %s: %v", entry.Key, err)
		return err
	}

	logrus.Debugf("[CACHE] stored %s (ttl %s)", provider, category.TTL())
	return nil
}

func (s *cacheService) Invalidate(ctx context.Context, provider, key string) (int64, error) {
	switch {
	case key != "":
		deleted, err := s.repo.Delete(ctx, key)
		if err != nil {
			return 0, err
		}
		if err := s.memory.Delete(ctx, key); err != nil {
			logrus.Warnf("[CACHE] memory invalidation failed for %s: %v", key, err)
		}
		return deleted, nil

	case provider != "":
		deleted, err := s.repo.DeleteByProvider(ctx, provider)
		if err != nil {
			return 0, err
		}
		if err := s.memory.DeleteByProvider(ctx, provider); err != nil {
			logrus.Warnf("[CACHE] memory invalidation failed for provider %s: %v", provider, err)
		}
		return deleted, nil

	default:
		deleted, err := s.repo.DeleteAll(ctx)
		if err != nil {
			return 0, err
		}
		if err := s.memory.Clear(ctx); err != nil {
			logrus.Warnf("[CACHE] memory clear failed: %v", err)
		}
		return deleted, nil
	}
}

func (s *cacheService) SweepExpired(ctx context.Context) (int64, error) {
	now := s.now()
	deleted, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	pruned := s.memory.Prune(ctx, now)
	if deleted > 0 || pruned > 0 {
		logrus.Infof("[CACHE] sweep removed %d durable, %d memory entries", deleted, pruned)
	}
	return deleted, nil
}

func (s *cacheService) Stats(ctx context.Context) (domainCache.Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return domainCache.Stats{}, err
	}
	expired, err := s.repo.CountExpired(ctx, s.now())
	if err != nil {
		return domainCache.Stats{}, err
	}
	byProvider, err := s.repo.CountByProvider(ctx)
	if err != nil {
		return domainCache.Stats{}, err
	}

	return domainCache.Stats{
		TotalEntries:   total,
		ExpiredEntries: expired,
		ActiveEntries:  total - expired,
		MemoryEntries:  s.memory.Len(ctx),
		ByProvider:     byProvider,
	}, nil
}

func (s *cacheService) StartBackgroundSweep(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.SweepExpired(ctx); err != nil {
					logrus.Errorf("[CACHE] scheduled sweep failed: %v", err)
				}
			}
		}
	}()
}
