package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/rentfage/property-service/internal/identity"
	"github.com/rentfage/property-service/internal/platform/logger"
)

// JWTAuth validates the bearer token and binds its user identity to the
// request context. Routes behind it always see a signed-in user.
func JWTAuth(secret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "authorization token is not provided", http.StatusUnauthorized)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warnf("Invalid authorization header format from %s", r.RemoteAddr)
				http.Error(w, "authorization token format is invalid, expected 'Bearer <token>'", http.StatusUnauthorized)
				return
			}

			claims, err := identity.ParseToken(parts[1], secret)
			if err != nil {
				log.Warnf("Token validation failed: %v", err)
				http.Error(w, "token is invalid", http.StatusUnauthorized)
				return
			}

			ctx := identity.WithUser(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogging logs one line per handled request.
func RequestLogging(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debugf("%s %s handled in %s", r.Method, r.URL.Path, time.Since(start))
		})
	}
}
