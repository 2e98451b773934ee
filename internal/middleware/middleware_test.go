package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"planets-procgen/internal/auth"
	"planets-procgen/internal/middleware"
)

const secret = "0123456789abcdef0123456789abcdef"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, token string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/games", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

// TestRequireAdmin distinguishes missing, invalid, viewer and admin tokens.
func TestRequireAdmin(t *testing.T) {
	issuer, err := auth.NewIssuer(secret, time.Hour)
	require.NoError(t, err)
	h := middleware.NewAuth(issuer).RequireAdmin(okHandler())

	admin, err := issuer.Generate("ops", auth.RoleAdmin)
	require.NoError(t, err)
	viewer, err := issuer.Generate("guest", auth.RoleViewer)
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, serve(h, ""))
	require.Equal(t, http.StatusUnauthorized, serve(h, "garbage"))
	require.Equal(t, http.StatusForbidden, serve(h, viewer))
	require.Equal(t, http.StatusOK, serve(h, admin))
}

// TestRateLimiter rejects requests past the burst from one client only.
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 0.001,
		BurstSize:         2,
	})
	h := rl.Middleware(okHandler())

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/server/health", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit("10.0.0.1:1000"))
	require.Equal(t, http.StatusOK, hit("10.0.0.1:1001"))
	require.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1002"))
	require.Equal(t, http.StatusOK, hit("10.0.0.2:1000"))
}
