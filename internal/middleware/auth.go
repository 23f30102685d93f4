// Package middleware provides HTTP middleware for the service.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/langerprakhar/referral-service/pkg/auth"
)

type contextKey struct{}

var userIDKey contextKey

// bearerPrefix is the literal scheme expected in the Authorization header.
const bearerPrefix = "Bearer "

// UserIDFromContext returns the authenticated user id attached by Authenticate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

// ContextWithUserID attaches a user id to the context. Exported for handler tests.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Authenticate verifies the bearer token on protected routes and attaches the
// verified user id to the request context. Every verification failure maps to
// the same 401 to avoid leaking which check failed.
func Authenticate(logger *zerolog.Logger, jwtAuth auth.JWTAuthenticator, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				unauthorized(w, "Authentication required")
				return
			}

			tokenString := strings.TrimSpace(authHeader[len(bearerPrefix):])
			if tokenString == "" {
				unauthorized(w, "Authentication required")
				return
			}

			claims := &auth.SessionClaims{}
			if _, err := jwtAuth.ValidateTokenWithClaims(tokenString, secret, claims); err != nil {
				logger.Warn().Err(err).Msg("token verification failed")
				unauthorized(w, "Invalid token")
				return
			}

			if claims.UserID == "" {
				logger.Warn().Msg("token is valid but carries no user id claim")
				unauthorized(w, "Invalid token format")
				return
			}

			ctx := ContextWithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
