package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/multierr"

	"github.com/cricketstore/storefront/api/controllers"
	"github.com/cricketstore/storefront/api/routes"
	"github.com/cricketstore/storefront/internal/janitor"
	"github.com/cricketstore/storefront/internal/orders"
	"github.com/cricketstore/storefront/pkg/config"
	"github.com/cricketstore/storefront/pkg/db"
	"github.com/cricketstore/storefront/pkg/instance"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/metrics"
	"github.com/cricketstore/storefront/pkg/migrate"
	"github.com/cricketstore/storefront/pkg/razorpay"
	"github.com/cricketstore/storefront/pkg/redis"
	"github.com/cricketstore/storefront/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// backend is the storage selected by STOREFRONT_STORAGE_DRIVER plus what must be closed on exit.
type backend struct {
	store   storage.Store
	pinger  storage.Pinger
	purger  janitor.Purger
	closers []io.Closer
}

func (b *backend) Close() error {
	var err error
	for i := len(b.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, b.closers[i].Close())
	}
	return err
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run serves the api until a shutdown signal or a fatal error.
func run() error {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		return err
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"storage":  cfg.Storage.Driver,
		"instance": instance.GetID(),
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	be, err := openBackend(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap storage", err)
		return err
	}
	defer func() {
		if err := be.Close(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	store := storage.WithBreaker(be.store, storage.BreakerSettings{
		Name:                cfg.Storage.Driver,
		ConsecutiveFailures: cfg.Storage.BreakerFailures,
		OpenTimeout:         cfg.Storage.BreakerTimeout,
		OnStateChange: func(name string, from, to gobreaker.State) {
			storefrontMetrics.SetBreakerState(name, int(to))
			logg.Warn(logg.WithFields(ctx, map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}), "storage breaker state changed")
		},
	})

	widget := razorpay.NewWidget(cfg.Payment)
	if err := widget.Available(); err != nil {
		logg.Warn(ctx, "payment key not configured; checkout will report the widget as unavailable")
	} else {
		logg.Info(logg.WithField(ctx, "payment_key", widget.KeyHint()), "payment widget configured")
	}

	if be.purger != nil {
		svc, err := janitor.NewService(janitor.ServiceParams{
			Logger:   logg,
			Purger:   be.purger,
			Metrics:  storefrontMetrics,
			Interval: cfg.Storage.PurgeInterval,
		})
		if err != nil {
			logg.Error(ctx, "failed to create storage janitor", err)
			return err
		}
		go func() {
			if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "storage janitor stopped unexpectedly", err)
			}
		}()
	}

	handler := routes.NewRouter(routes.Deps{
		Config: cfg,
		Logger: logg,
		Storefront: &controllers.Storefront{
			Store:   store,
			Config:  cfg,
			Widget:  widget,
			IDs:     orders.NewIDGenerator(time.Now),
			Metrics: storefrontMetrics,
		},
		Pinger:   be.pinger,
		Metrics:  storefrontMetrics,
		Gatherer: registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "api server shutdown failed", err)
	}
	logg.Info(shutdownCtx, "api server shut down gracefully")
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*backend, error) {
	if cfg.Storage.Driver == config.StorageDriverRedis {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		return &backend{store: client, pinger: client, closers: []io.Closer{client}}, nil
	}

	client, err := db.New(ctx, cfg.Storage.Driver, cfg.DB, logg)
	if err != nil {
		return nil, err
	}
	if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
		return nil, multierr.Append(err, client.Close())
	}
	store := db.NewStore(client)
	return &backend{store: store, pinger: client, purger: store, closers: []io.Closer{client}}, nil
}
