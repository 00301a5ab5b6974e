package controllers

import (
	"net/http"

	"github.com/cricketstore/storefront/api/responses"
	"github.com/cricketstore/storefront/pkg/logger"
)

// NotificationCurrent returns the visible notice, or null once it has expired.
func NotificationCurrent(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		current, err := scope.toaster.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

// NotificationDismiss hides the visible notice early.
func NotificationDismiss(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := scope.toaster.Dismiss(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
