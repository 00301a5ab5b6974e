package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/cricketstore/storefront/api/responses"
	"github.com/cricketstore/storefront/pkg/config"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/session"
)

const sessionHeader = "X-Session-Token"

// Session binds every request to an anonymous shopper session, minting one when the
// presented token is missing, forged or expired.
func Session(cfg config.SessionConfig, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var sessionID string
			if raw := presentedToken(r, cfg.CookieName); raw != "" {
				if claims, err := session.Parse(cfg, raw); err == nil {
					sessionID = claims.SessionID()
				} else if logg != nil {
					logg.Debug(logg.WithField(ctx, "reason", err.Error()), "session token rejected")
				}
			}

			if sessionID == "" {
				token, claims, err := session.Mint(cfg, time.Now(), "")
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session"))
					return
				}
				sessionID = claims.SessionID()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
				w.Header().Set(sessionHeader, token)
			}

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func presentedToken(r *http.Request, cookieName string) string {
	if v := strings.TrimSpace(r.Header.Get(sessionHeader)); v != "" {
		return v
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}
