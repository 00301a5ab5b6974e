package janitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cricketstore/storefront/pkg/logger"
)

type stubPurger struct {
	mu    sync.Mutex
	calls int
	n     int64
	err   error
}

func (p *stubPurger) PurgeExpired(context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.n, p.err
}

func (p *stubPurger) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type countingRecorder struct{ total int64 }

func (r *countingRecorder) AddPurged(n int64) { r.total += n }

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(ServiceParams{Purger: &stubPurger{}})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Logger: logger.Nop()})
	require.Error(t, err)
}

func TestRunOnceRecordsPurged(t *testing.T) {
	rec := &countingRecorder{}
	svc, err := NewService(ServiceParams{Logger: logger.Nop(), Purger: &stubPurger{n: 3}, Metrics: rec})
	require.NoError(t, err)

	assert.Equal(t, int64(3), svc.RunOnce(context.Background()))
	assert.Equal(t, int64(3), rec.total)
}

func TestRunOnceSwallowsErrors(t *testing.T) {
	rec := &countingRecorder{}
	svc, err := NewService(ServiceParams{Logger: logger.Nop(), Purger: &stubPurger{n: 3, err: errors.New("locked")}, Metrics: rec})
	require.NoError(t, err)

	assert.Zero(t, svc.RunOnce(context.Background()))
	assert.Zero(t, rec.total)
}

func TestRunStopsOnCancel(t *testing.T) {
	purger := &stubPurger{}
	svc, err := NewService(ServiceParams{Logger: logger.Nop(), Purger: purger, Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool { return purger.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
