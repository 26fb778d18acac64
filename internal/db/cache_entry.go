package db

import "time"

// CacheEntry 保存一次后端 API 响应的原始字节，按请求 URL 去重。
type CacheEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"size:1024;uniqueIndex;not null"`
	Body      []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 自定义表名以保持命名一致。
func (CacheEntry) TableName() string {
	return "cache_entries"
}

// Expired 判断条目在 now 时刻是否已经过期。
func (e CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
