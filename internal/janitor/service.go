// Package janitor removes expired session entries from SQL storage, which has no native TTL.
package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/cricketstore/storefront/pkg/logger"
)

const defaultInterval = 10 * time.Minute

// Purger deletes entries whose expiry has passed and reports how many went.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Recorder counts purged entries.
type Recorder interface {
	AddPurged(n int64)
}

// ServiceParams configure the janitor.
type ServiceParams struct {
	Logger   *logger.Logger
	Purger   Purger
	Metrics  Recorder
	Interval time.Duration
}

// Service purges on a fixed cadence.
type Service struct {
	logg     *logger.Logger
	purger   Purger
	metrics  Recorder
	interval time.Duration
}

// NewService builds a janitor.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Purger == nil {
		return nil, fmt.Errorf("purger required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		purger:   params.Purger,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run purges once immediately and then every interval until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.RunOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single purge. Failures are logged and retried on the next tick.
func (s *Service) RunOnce(ctx context.Context) int64 {
	ctx = s.logg.WithField(ctx, "event", "storage.purge")
	start := time.Now()
	n, err := s.purger.PurgeExpired(ctx)
	ctx = s.logg.WithField(ctx, "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		s.logg.Error(ctx, "purge failed", err)
		return 0
	}
	if s.metrics != nil {
		s.metrics.AddPurged(n)
	}
	if n > 0 {
		s.logg.Info(s.logg.WithField(ctx, "purged", n), "expired entries purged")
	} else {
		s.logg.Debug(ctx, "nothing to purge")
	}
	return n
}
