package repository

import (
	"context"
	"time"

	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Persistence Model ---

type apiCacheModel struct {
	CacheKey  string    `gorm:"primaryKey;size:255"`
	Provider  string    `gorm:"index:idx_api_cache_provider;size:50"`
	Payload   []byte    `gorm:"type:text"`
	ExpiresAt time.Time `gorm:"index:idx_api_cache_expires"`
}

func (apiCacheModel) TableName() string {
	return "api_cache"
}

// --- Repository Implementation ---

// CacheGormRepository is the durable tier-2 cache. Every mutation is a
// single statement, so readers never observe a half-written entry.
type CacheGormRepository struct {
	db *gorm.DB
}

func NewCacheGormRepository(db *gorm.DB) *CacheGormRepository {
	return &CacheGormRepository{db: db}
}

func (r *CacheGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&apiCacheModel{})
}

func (r *CacheGormRepository) Get(ctx context.Context, key string) (*domainCache.Entry, error) {
	var m apiCacheModel
	if err := r.db.WithContext(ctx).First(&m, "cache_key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &domainCache.Entry{
		Key:       m.CacheKey,
		Provider:  m.Provider,
		Payload:   m.Payload,
		ExpiresAt: m.ExpiresAt,
	}, nil
}

func (r *CacheGormRepository) Upsert(ctx context.Context, entry *domainCache.Entry) error {
	m := apiCacheModel{
		CacheKey:  entry.Key,
		Provider:  entry.Provider,
		Payload:   entry.Payload,
		ExpiresAt: entry.ExpiresAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"provider", "payload", "expires_at"}),
	}).Create(&m).Error
}

func (r *CacheGormRepository) Delete(ctx context.Context, key string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&apiCacheModel{}, "cache_key = ?", key)
	return result.RowsAffected, result.Error
}

func (r *CacheGormRepository) DeleteByProvider(ctx context.Context, provider string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&apiCacheModel{}, "provider = ?", provider)
	return result.RowsAffected, result.Error
}

func (r *CacheGormRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&apiCacheModel{})
	return result.RowsAffected, result.Error
}

func (r *CacheGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&apiCacheModel{}, "expires_at < ?", now)
	return result.RowsAffected, result.Error
}

func (r *CacheGormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&apiCacheModel{}).Count(&count).Error
	return count, err
}

func (r *CacheGormRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&apiCacheModel{}).Where("expires_at < ?", now).Count(&count).Error
	return count, err
}

func (r *CacheGormRepository) CountByProvider(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Provider string
		Total    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&apiCacheModel{}).
		Select("provider, count(*) as total").
		Group("provider").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Provider] = r.Total
	}
	return counts, nil
}
