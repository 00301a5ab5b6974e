// Package storage defines the per-session key/value surface that stands in for
// the shopper's local storage.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("storage: key not found")

// Store persists opaque string values by key. A zero ttl keeps the value until overwritten.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

const keyNamespace = "cs"

// SessionKey namespaces a logical key (for example the cart key) under a shopper session.
func SessionKey(sessionID, name string) string {
	parts := []string{keyNamespace, "session"}
	for _, part := range []string{sessionID, name} {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ":")
}

// Bucket is a Store view scoped to a single session.
type Bucket struct {
	store     Store
	sessionID string
}

// ForSession returns a Bucket that prefixes every key with the session namespace.
func ForSession(store Store, sessionID string) Bucket {
	return Bucket{store: store, sessionID: sessionID}
}

func (b Bucket) SessionID() string { return b.sessionID }

func (b Bucket) Get(ctx context.Context, name string) (string, error) {
	return b.store.Get(ctx, SessionKey(b.sessionID, name))
}

func (b Bucket) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	return b.store.Set(ctx, SessionKey(b.sessionID, name), value, ttl)
}

func (b Bucket) Delete(ctx context.Context, name string) error {
	return b.store.Delete(ctx, SessionKey(b.sessionID, name))
}
