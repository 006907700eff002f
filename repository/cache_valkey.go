package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	valkeylib "github.com/valkey-io/valkey-go"

	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
	"github.com/onlyWebstar/travel-bot/infrastructure/valkey"
)

// ValkeyCacheStore is a tier-1 cache backed by Valkey, for deployments that
// run several bot instances against one shared fast tier. TTL enforcement is
// native: entries are stored with EX so Valkey drops them on expiry and
// Prune has nothing to reclaim.
type ValkeyCacheStore struct {
	client *valkey.Client
	prefix string
}

func NewValkeyCacheStore(client *valkey.Client) *ValkeyCacheStore {
	return &ValkeyCacheStore{
		client: client,
		prefix: client.Key("apicache") + ":",
	}
}

func (vs *ValkeyCacheStore) fullKey(key string) string {
	return vs.prefix + key
}

func (vs *ValkeyCacheStore) inner() valkeylib.Client {
	return vs.client.Inner()
}

func (vs *ValkeyCacheStore) Get(ctx context.Context, key string) (*domainCache.Entry, bool) {
	cmd := vs.inner().B().Get().Key(vs.fullKey(key)).Build()
	data, err := vs.inner().Do(ctx, cmd).AsBytes()
	if err != nil {
		if !valkeylib.IsValkeyNil(err) {
			logrus.Warnf("[ValkeyCacheStore] get failed for %s: %v", key, err)
		}
		return nil, false
	}

	var entry domainCache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logrus.Warnf("[ValkeyCacheStore] failed to unmarshal entry %s: %v", key, err)
		return nil, false
	}
	return &entry, true
}

func (vs *ValkeyCacheStore) Set(ctx context.Context, entry *domainCache.Entry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	cmd := vs.inner().B().Set().
		Key(vs.fullKey(entry.Key)).
		Value(string(data)).
		Ex(ttl).
		Build()
	return vs.inner().Do(ctx, cmd).Error()
}

func (vs *ValkeyCacheStore) Delete(ctx context.Context, key string) error {
	cmd := vs.inner().B().Del().Key(vs.fullKey(key)).Build()
	return vs.inner().Do(ctx, cmd).Error()
}

func (vs *ValkeyCacheStore) DeleteByProvider(ctx context.Context, provider string) error {
	keys, err := vs.scan(ctx, vs.prefix+provider+":*")
	if err != nil {
		return err
	}
	return vs.deleteKeys(ctx, keys)
}

func (vs *ValkeyCacheStore) Clear(ctx context.Context) error {
	keys, err := vs.scan(ctx, vs.prefix+"*")
	if err != nil {
		return err
	}
	return vs.deleteKeys(ctx, keys)
}

// Prune is a no-op: Valkey expires entries natively via EX.
func (vs *ValkeyCacheStore) Prune(ctx context.Context, now time.Time) int {
	return 0
}

func (vs *ValkeyCacheStore) Len(ctx context.Context) int {
	keys, err := vs.scan(ctx, vs.prefix+"*")
	if err != nil {
		logrus.Warnf("[ValkeyCacheStore] scan failed: %v", err)
		return 0
	}
	return len(keys)
}

// scan walks the keyspace with SCAN so large caches never block the server.
func (vs *ValkeyCacheStore) scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := vs.inner().B().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		result, err := vs.inner().Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, err
		}
		keys = append(keys, result.Elements...)
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func (vs *ValkeyCacheStore) deleteKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	cmd := vs.inner().B().Del().Key(keys...).Build()
	return vs.inner().Do(ctx, cmd).Error()
}
