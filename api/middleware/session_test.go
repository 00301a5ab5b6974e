package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cricketstore/storefront/pkg/config"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/session"
)

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{Secret: "test-secret", Issuer: "cricket-store", CookieName: "cs_session", TTL: time.Hour}
}

func captureSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	handler := Session(sessionConfig(), false, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec
}

func TestSessionMintsCookieWhenMissing(t *testing.T) {
	seen, rec := captureSession(t, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	require.NotEmpty(t, seen)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "cs_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := session.Parse(sessionConfig(), cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, seen, claims.SessionID())
	assert.Equal(t, cookies[0].Value, rec.Header().Get(sessionHeader))
}

func TestSessionReusesValidToken(t *testing.T) {
	token, claims, err := session.Mint(sessionConfig(), time.Now(), "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cs_session", Value: token})
	seen, rec := captureSession(t, req)
	assert.Equal(t, claims.SessionID(), seen)
	assert.Empty(t, rec.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(sessionHeader, token)
	seen, _ = captureSession(t, req)
	assert.Equal(t, claims.SessionID(), seen)
}

func TestSessionReplacesForgedToken(t *testing.T) {
	other := sessionConfig()
	other.Secret = "attacker"
	forged, claims, err := session.Mint(other, time.Now(), "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cs_session", Value: forged})
	seen, rec := captureSession(t, req)
	assert.NotEqual(t, claims.SessionID(), seen)
	assert.Len(t, rec.Result().Cookies(), 1)
}
