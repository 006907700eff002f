package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
)

// fakeCacheService implements ICacheUsecase with canned responses, just
// enough to drive the handlers.
type fakeCacheService struct {
	invalidateProvider string
	invalidateKey      string
	sweepCalls         int
}

func (f *fakeCacheService) Get(ctx context.Context, provider string, params map[string]any) (json.RawMessage, bool) {
	return nil, false
}

func (f *fakeCacheService) Put(ctx context.Context, provider string, params map[string]any, payload any, category domainCache.Category) error {
	return nil
}

func (f *fakeCacheService) Invalidate(ctx context.Context, provider, key string) (int64, error) {
	f.invalidateProvider = provider
	f.invalidateKey = key
	return 4, nil
}

func (f *fakeCacheService) SweepExpired(ctx context.Context) (int64, error) {
	f.sweepCalls++
	return 2, nil
}

func (f *fakeCacheService) Stats(ctx context.Context) (domainCache.Stats, error) {
	return domainCache.Stats{
		TotalEntries:   10,
		ExpiredEntries: 3,
		ActiveEntries:  7,
		MemoryEntries:  5,
		ByProvider:     map[string]int64{"amadeus_flights": 6, "booking_hotels": 4},
	}, nil
}

func (f *fakeCacheService) StartBackgroundSweep(ctx context.Context) {}

type cacheEnvelope struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Results map[string]interface{} `json:"results"`
}

func decodeCacheEnvelope(t *testing.T, resp *http.Response) cacheEnvelope {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d, body=%s", resp.StatusCode, string(b))
	}

	var envelope cacheEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	return envelope
}

func TestCacheStats(t *testing.T) {
	app := fiber.New()
	service := &fakeCacheService{}
	InitRestCache(app, service)

	req := httptest.NewRequest(http.MethodGet, "/cache/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}

	envelope := decodeCacheEnvelope(t, resp)
	if envelope.Code != "SUCCESS" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	if v, ok := envelope.Results["total_entries"].(float64); !ok || v != 10 {
		t.Fatalf("expected total_entries 10, got %#v", envelope.Results["total_entries"])
	}
	if v, ok := envelope.Results["active_entries"].(float64); !ok || v != 7 {
		t.Fatalf("expected active_entries 7, got %#v", envelope.Results["active_entries"])
	}
}

func TestCacheInvalidate(t *testing.T) {
	app := fiber.New()
	service := &fakeCacheService{}
	InitRestCache(app, service)

	body := []byte(`{"provider":"amadeus_flights","key":"abc"}`)
	req := httptest.NewRequest(http.MethodPost, "/cache/invalidate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}

	envelope := decodeCacheEnvelope(t, resp)
	if v, ok := envelope.Results["removed"].(float64); !ok || v != 4 {
		t.Fatalf("expected removed 4, got %#v", envelope.Results["removed"])
	}
	if service.invalidateProvider != "amadeus_flights" || service.invalidateKey != "abc" {
		t.Fatalf("invalidate called with (%q, %q)", service.invalidateProvider, service.invalidateKey)
	}
}

func TestCacheCleanup(t *testing.T) {
	app := fiber.New()
	service := &fakeCacheService{}
	InitRestCache(app, service)

	req := httptest.NewRequest(http.MethodPost, "/cache/cleanup", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}

	envelope := decodeCacheEnvelope(t, resp)
	if v, ok := envelope.Results["removed"].(float64); !ok || v != 2 {
		t.Fatalf("expected removed 2, got %#v", envelope.Results["removed"])
	}
	if service.sweepCalls != 1 {
		t.Fatalf("expected one sweep call, got %d", service.sweepCalls)
	}
}
