package models

import "time"

// StorageEntry is one session-scoped key/value pair.
type StorageEntry struct {
	Key         string    `gorm:"column:storage_key;primaryKey"`
	Value       string    `gorm:"column:value;not null"`
	ExpiresAtMs *int64    `gorm:"column:expires_at_ms"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
