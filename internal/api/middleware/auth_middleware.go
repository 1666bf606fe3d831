package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/auth"
)

// AuthMiddleware resolves the caller's identity. Primary scheme is a bearer
// token looked up in the TokenStore; the legacy X-User-ID header is honoured
// as a fallback for trusted in-cluster callers.
func AuthMiddleware(tokenStore *auth.TokenStore) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := resolveUser(tokenStore, r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveUser(tokenStore *auth.TokenStore, r *http.Request) (uint, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return 0, false
		}
		userID, err := tokenStore.Resolve(token)
		if err != nil {
			return 0, false
		}
		return userID, true
	}

	if header := r.Header.Get("X-User-ID"); header != "" {
		userID, err := strconv.ParseUint(header, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint(userID), true
	}

	return 0, false
}

func GetUserID(ctx context.Context) (uint, bool) {
	v, ok := ctx.Value(userIDKey).(uint)
	return v, ok
}
