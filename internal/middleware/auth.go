package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/liftcare-id/liftcare/internal/utils"
)

type contextKey string

const claimsContextKey contextKey = "claims"

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Authenticate verifies the Bearer credential and stores the typed claims
// in the request context.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Token tidak ditemukan")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Token tidak ditemukan")
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Token tidak valid")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated callers whose role is not in the set
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil {
				respondError(w, http.StatusUnauthorized, "Token tidak ditemukan")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, "Akses ditolak")
		})
	}
}

// ClaimsFrom returns the authenticated claims stored by Authenticate,
// or nil for unauthenticated requests.
func ClaimsFrom(ctx context.Context) *utils.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*utils.Claims)
	return claims
}
