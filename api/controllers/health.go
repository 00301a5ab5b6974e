package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/cricketstore/storefront/api/responses"
	"github.com/cricketstore/storefront/pkg/config"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/storage"
)

const (
	envHeader    = "X-Storefront-Env"
	readyTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the storage backend when it supports it.
func HealthReady(cfg *config.Config, logg *logger.Logger, pinger storage.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage not ready"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "storage": cfg.Storage.Driver})
	}
}
