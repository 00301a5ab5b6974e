package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cricketstore/storefront/pkg/enums"
	"github.com/cricketstore/storefront/pkg/storage"
)

const slotKey = "notification"

// Notification is the single transient notice shown to a shopper.
type Notification struct {
	Message   string                 `json:"message"`
	Type      enums.NotificationType `json:"type"`
	Icon      string                 `json:"icon"`
	ShownAt   time.Time              `json:"shown_at"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// Toaster owns the notification slot of one session. Showing a notice replaces the current one.
type Toaster struct {
	bucket storage.Bucket
	ttl    time.Duration
	now    func() time.Time
}

// NewToaster binds a toaster to a session bucket.
func NewToaster(bucket storage.Bucket, ttl time.Duration) *Toaster {
	return &Toaster{bucket: bucket, ttl: ttl, now: time.Now}
}

// WithClock overrides the toaster clock.
func (t *Toaster) WithClock(now func() time.Time) *Toaster {
	t.now = now
	return t
}

// Show stores the notice, dropping any notice still on screen.
func (t *Toaster) Show(ctx context.Context, message string, kind enums.NotificationType) error {
	if !kind.IsValid() {
		kind = enums.NotificationTypeInfo
	}
	now := t.now().UTC()
	n := Notification{
		Message:   message,
		Type:      kind,
		Icon:      kind.Icon(),
		ShownAt:   now,
		ExpiresAt: now.Add(t.ttl),
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}
	return t.bucket.Set(ctx, slotKey, string(raw), t.ttl)
}

// Current returns the visible notice, or nil once it has been dismissed.
func (t *Toaster) Current(ctx context.Context) (*Notification, error) {
	raw, err := t.bucket.Get(ctx, slotKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var n Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, nil
	}
	if t.ttl > 0 && !t.now().Before(n.ExpiresAt) {
		return nil, nil
	}
	return &n, nil
}

// Dismiss clears the slot.
func (t *Toaster) Dismiss(ctx context.Context) error {
	return t.bucket.Delete(ctx, slotKey)
}
