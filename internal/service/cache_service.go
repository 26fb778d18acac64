package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dplus/internal/db"
	"github.com/dplus/internal/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCacheKeyRequired 表示缓存键为空。
var ErrCacheKeyRequired = errors.New("cache key is required")

// CacheService 基于 SQLite 的后端响应缓存，实现 api.ResponseCache。
type CacheService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCacheService 构造 CacheService。
func NewCacheService(gdb *gorm.DB) *CacheService {
	return &CacheService{db: gdb, now: time.Now}
}

// Get 返回未过期的缓存内容；过期或不存在时 ok 为 false。
func (s *CacheService) Get(ctx context.Context, key string) ([]byte, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, ErrCacheKeyRequired
	}

	var entry db.CacheEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	if entry.Expired(s.now()) {
		return nil, false, nil
	}
	return entry.Body, true, nil
}

// Set 写入或覆盖缓存内容，ttl <= 0 时不缓存。
func (s *CacheService) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrCacheKeyRequired
	}
	if ttl <= 0 {
		return nil
	}

	now := s.now()
	entry := db.CacheEntry{
		Key:       key,
		Body:      body,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "expires_at", "updated_at"}),
	}).Create(&entry).Error; err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// Delete 删除指定键。
func (s *CacheService) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", strings.TrimSpace(key)).Delete(&db.CacheEntry{}).Error; err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// PurgeExpired 清理所有已过期条目并返回删除数量。
func (s *CacheService) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&db.CacheEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge cache entries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Count 返回当前条目总数（含已过期）。
func (s *CacheService) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&db.CacheEntry{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return total, nil
}

// RunJanitor 按 interval 周期清理过期条目，直到 ctx 结束。
func (s *CacheService) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.PurgeExpired(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logging.Warn().Err(err).Msg("response cache purge failed")
				}
				continue
			}
			if removed > 0 {
				logging.Debug().Int64("removed", removed).Msg("response cache purged")
			}
		}
	}
}
