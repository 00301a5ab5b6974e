// Package storagetest provides an in-process storage.Store for tests.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cricketstore/storefront/pkg/storage"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is a concurrency-safe map-backed Store with TTL support and failure injection.
type Memory struct {
	mu      sync.Mutex
	data    map[string]entry
	now     func() time.Time
	FailGet error
	FailSet error
	// FailSetKeys fails writes to the listed keys only.
	FailSetKeys map[string]error
	Sets        int
}

func NewMemory() *Memory {
	return &Memory{data: map[string]entry{}, now: time.Now}
}

// WithClock overrides the clock used for TTL expiry.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet != nil {
		return "", m.FailGet
	}
	e, ok := m.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.data, key)
		return "", storage.ErrNotFound
	}
	return e.value, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	if err := m.FailSetKeys[key]; err != nil {
		return err
	}
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = e
	m.Sets++
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Raw returns the stored value regardless of expiry.
func (m *Memory) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[key]
	return e.value, ok
}

// Put writes a raw value without a TTL, bypassing failure injection.
func (m *Memory) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entry{value: value}
}

// ErrInjected is a convenience failure for FailGet/FailSet.
var ErrInjected = errors.New("storagetest: injected failure")
