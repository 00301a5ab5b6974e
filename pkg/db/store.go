package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cricketstore/storefront/pkg/db/models"
	"github.com/cricketstore/storefront/pkg/storage"
)

// Store implements storage.Store on top of the storage_entries table.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

// NewStore binds a Store to the client's connection.
func NewStore(client *Client) *Store {
	return &Store{db: client.DB(), now: time.Now}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var entry models.StorageEntry
	err := s.db.WithContext(ctx).
		Where("storage_key = ?", key).
		Where("expires_at_ms IS NULL OR expires_at_ms > ?", s.now().UnixMilli()).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := models.StorageEntry{Key: key, Value: value}
	if ttl > 0 {
		expires := s.now().Add(ttl).UnixMilli()
		entry.ExpiresAtMs = &expires
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at_ms", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("storage_key = ?", key).
		Delete(&models.StorageEntry{}).Error
}

// PurgeExpired removes entries whose TTL has elapsed and reports how many were deleted.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at_ms IS NOT NULL AND expires_at_ms <= ?", s.now().UnixMilli()).
		Delete(&models.StorageEntry{})
	return res.RowsAffected, res.Error
}
