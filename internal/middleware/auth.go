package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"planets-procgen/internal/auth"
	"planets-procgen/internal/shared/errors"
	"planets-procgen/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

type Auth struct {
	issuer *auth.Issuer
}

func NewAuth(issuer *auth.Issuer) *Auth {
	return &Auth{issuer: issuer}
}

// JWT requires a valid "Authorization: Bearer <token>" header.
func (a *Auth) JWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := a.issuer.Validate(token)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		logger.Debug("JWT authentication successful",
			"subject", claims.Subject,
			"role", claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.JWT(AdminMiddleware(next))
}

// Helper to get user from context
func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
