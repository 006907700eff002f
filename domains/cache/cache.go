package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Category selects the TTL applied to a cached response.
type Category string

const (
	CategoryFlight  Category = "flight"
	CategoryHotel   Category = "hotel"
	CategoryAirport Category = "airport"
	CategoryToken   Category = "token"
)

// TTL returns the time-to-live for the category. Unknown categories fall
// back to the flight baseline rather than failing.
func (c Category) TTL() time.Duration {
	switch c {
	case CategoryFlight:
		return 60 * time.Minute
	case CategoryHotel:
		return 120 * time.Minute
	case CategoryAirport:
		return 10080 * time.Minute // 7 days
	case CategoryToken:
		return 25 * time.Minute
	default:
		return 60 * time.Minute
	}
}

// Entry is one cached provider response. Key is derived from the provider
// name and the canonicalized parameter set; Payload is opaque JSON.
type Entry struct {
	Key       string          `json:"key"`
	Provider  string          `json:"provider"`
	Payload   json.RawMessage `json:"payload"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

type Stats struct {
	TotalEntries   int64            `json:"total_entries"`
	ExpiredEntries int64            `json:"expired_entries"`
	ActiveEntries  int64            `json:"active_entries"`
	MemoryEntries  int              `json:"memory_entries"`
	ByProvider     map[string]int64 `json:"by_provider"`
}

type ICacheUsecase interface {
	// Get returns the cached payload for (provider, params), or ok=false on
	// a miss. Expired entries are evicted, never served, and a storage
	// fault degrades to a miss.
	Get(ctx context.Context, provider string, params map[string]any) (json.RawMessage, bool)

	// Put upserts the payload in both tiers with the category's TTL.
	Put(ctx context.Context, provider string, params map[string]any, payload any, category Category) error

	// Invalidate removes entries: by key if given, else by provider, else
	// everything. Returns the count removed from the durable tier.
	Invalidate(ctx context.Context, provider, key string) (int64, error)

	// SweepExpired deletes every expired entry from both tiers and returns
	// the durable-tier removal count.
	SweepExpired(ctx context.Context) (int64, error)

	Stats(ctx context.Context) (Stats, error)

	// StartBackgroundSweep runs SweepExpired on a timer until ctx is done.
	StartBackgroundSweep(ctx context.Context)
}

// Store is the fast tier-1 cache. Implementations must be safe for
// concurrent use; TTL enforcement may be lazy (expired entries are filtered
// on read) as long as Prune reclaims them.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, key string) error
	DeleteByProvider(ctx context.Context, provider string) error
	Clear(ctx context.Context) error
	Prune(ctx context.Context, now time.Time) int
	Len(ctx context.Context) int
}

// Repository is the durable tier-2 cache. Every mutation is a single
// transactional unit so a reader never observes a half-written entry.
type Repository interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Upsert(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, key string) (int64, error)
	DeleteByProvider(ctx context.Context, provider string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountExpired(ctx context.Context, now time.Time) (int64, error)
	CountByProvider(ctx context.Context) (map[string]int64, error)
}
