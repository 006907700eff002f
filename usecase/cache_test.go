package usecase

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
	"github.com/onlyWebstar/travel-bot/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type cacheFixture struct {
	svc    *cacheService
	memory *repository.MemoryCacheStore
	repo   *repository.CacheGormRepository
	now    time.Time
}

func newCacheFixture(t *testing.T) *cacheFixture {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cache_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := repository.NewCacheGormRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))

	f := &cacheFixture{
		memory: repository.NewMemoryCacheStore(),
		repo:   repo,
		now:    time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC),
	}
	f.svc = &cacheService{
		memory:        f.memory,
		repo:          repo,
		now:           func() time.Time { return f.now },
		sweepInterval: time.Hour,
	}
	return f
}

func (f *cacheFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestCacheKey_ParamOrderIndependent(t *testing.T) {
	a := CacheKey("amadeus_flights", map[string]any{"origin": "LOS", "destination": "LHR", "adults": 1})
	b := CacheKey("amadeus_flights", map[string]any{"adults": 1, "destination": "LHR", "origin": "LOS"})
	assert.Equal(t, a, b)

	c := CacheKey("amadeus_flights", map[string]any{"origin": "LOS", "destination": "CDG", "adults": 1})
	assert.NotEqual(t, a, c)

	// Same params under a different provider never collide.
	d := CacheKey("booking_hotels", map[string]any{"origin": "LOS", "destination": "LHR", "adults": 1})
	assert.NotEqual(t, a, d)
}

func TestCache_PutGetRoundtrip(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	params := map[string]any{"origin": "LOS", "destination": "LHR"}
	payload := map[string]string{"result": "five flights"}
	require.NoError(t, f.svc.Put(ctx, "amadeus_flights", params, payload, domainCache.CategoryFlight))

	raw, ok := f.svc.Get(ctx, "amadeus_flights", params)
	require.True(t, ok)

	var got map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, payload, got)
}

func TestCache_PutIsIdempotent(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	params := map[string]any{"city": "paris"}
	require.NoError(t, f.svc.Put(ctx, "airport_codes", params, "CDG", domainCache.CategoryAirport))
	require.NoError(t, f.svc.Put(ctx, "airport_codes", params, "CDG", domainCache.CategoryAirport))

	count, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCache_ExpiredEntryIsNeverServed(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	params := map[string]any{"client_id": "abc"}
	require.NoError(t, f.svc.Put(ctx, "amadeus_token", params, "tok", domainCache.CategoryToken))

	// Still inside the 25-minute token TTL.
	f.advance(24 * time.Minute)
	_, ok := f.svc.Get(ctx, "amadeus_token", params)
	assert.True(t, ok)

	// Past the TTL: miss, and the entry is evicted from both tiers.
	f.advance(2 * time.Minute)
	_, ok = f.svc.Get(ctx, "amadeus_token", params)
	assert.False(t, ok)

	assert.Equal(t, 0, f.memory.Len(ctx))
	entry, err := f.repo.Get(ctx, CacheKey("amadeus_token", params))
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCache_DurableTierPromotion(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	params := map[string]any{"city": "dubai"}
	require.NoError(t, f.svc.Put(ctx, "booking_hotels", params, []string{"Burj Al Arab"}, domainCache.CategoryHotel))

	// Drop tier 1 to simulate a restart; the durable tier must answer and
	// repopulate memory.
	require.NoError(t, f.memory.Clear(ctx))
	require.Equal(t, 0, f.memory.Len(ctx))

	_, ok := f.svc.Get(ctx, "booking_hotels", params)
	require.True(t, ok)
	assert.Equal(t, 1, f.memory.Len(ctx))
}

func TestCache_SweepRemovesOnlyExpired(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Put(ctx, "amadeus_flights", map[string]any{"r": 1}, "a", domainCache.CategoryFlight)) // 60m
	require.NoError(t, f.svc.Put(ctx, "booking_hotels", map[string]any{"r": 2}, "b", domainCache.CategoryHotel))   // 120m
	require.NoError(t, f.svc.Put(ctx, "airport_codes", map[string]any{"r": 3}, "c", domainCache.CategoryAirport))  // 7d

	f.advance(61 * time.Minute)

	removed, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalEntries)
	assert.EqualValues(t, 0, stats.ExpiredEntries)
	assert.EqualValues(t, 2, stats.ActiveEntries)
}

func TestCache_InvalidateByKeyProviderAndAll(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	p1 := map[string]any{"r": 1}
	p2 := map[string]any{"r": 2}
	require.NoError(t, f.svc.Put(ctx, "amadeus_flights", p1, "a", domainCache.CategoryFlight))
	require.NoError(t, f.svc.Put(ctx, "amadeus_flights", p2, "b", domainCache.CategoryFlight))
	require.NoError(t, f.svc.Put(ctx, "booking_hotels", p1, "c", domainCache.CategoryHotel))

	// By key.
	removed, err := f.svc.Invalidate(ctx, "", CacheKey("amadeus_flights", p1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	// By provider.
	removed, err = f.svc.Invalidate(ctx, "amadeus_flights", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	// Everything.
	removed, err = f.svc.Invalidate(ctx, "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	count, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, 0, f.memory.Len(ctx))
}

func TestCache_StatsByProvider(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Put(ctx, "amadeus_flights", map[string]any{"r": 1}, "a", domainCache.CategoryFlight))
	require.NoError(t, f.svc.Put(ctx, "amadeus_flights", map[string]any{"r": 2}, "b", domainCache.CategoryFlight))
	require.NoError(t, f.svc.Put(ctx, "booking_hotels", map[string]any{"r": 3}, "c", domainCache.CategoryHotel))

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.ByProvider["amadeus_flights"])
	assert.EqualValues(t, 1, stats.ByProvider["booking_hotels"])
	assert.Equal(t, 3, stats.MemoryEntries)
}
