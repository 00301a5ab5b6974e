package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cricketstore/storefront/pkg/storage"
	"github.com/cricketstore/storefront/pkg/storage/storagetest"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "cs:session:abc:cricketStoreCart", storage.SessionKey("abc", "cricketStoreCart"))
	assert.Equal(t, "cs:session:abc", storage.SessionKey(" abc ", ""))
}

func TestBucketScopesKeys(t *testing.T) {
	ctx := context.Background()
	mem := storagetest.NewMemory()
	a := storage.ForSession(mem, "a")
	b := storage.ForSession(mem, "b")

	require.NoError(t, a.Set(ctx, "cart", "[1]", 0))
	_, err := b.Get(ctx, "cart")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := a.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "[1]", got)

	raw, ok := mem.Raw("cs:session:a:cart")
	require.True(t, ok)
	assert.Equal(t, "[1]", raw)
}

func TestBreakerTripsAndIgnoresNotFound(t *testing.T) {
	ctx := context.Background()
	mem := storagetest.NewMemory()
	var transitions []gobreaker.State
	store := storage.WithBreaker(mem, storage.BreakerSettings{
		Name:                "test",
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Minute,
		OnStateChange: func(_ string, _, to gobreaker.State) {
			transitions = append(transitions, to)
		},
	})

	for i := 0; i < 3; i++ {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}
	assert.Empty(t, transitions)

	mem.FailSet = storagetest.ErrInjected
	for i := 0; i < 2; i++ {
		err := store.Set(ctx, "k", "v", 0)
		assert.ErrorIs(t, err, storagetest.ErrInjected)
	}

	mem.FailSet = nil
	err := store.Set(ctx, "k", "v", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
}
