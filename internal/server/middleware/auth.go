// Package middleware provides HTTP middleware for authenticating athletes.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const athleteIDKey ContextKey = "athleteID"

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (AthleteIDGetter, error)
}

// AthleteIDGetter extracts the athlete ID from token claims.
type AthleteIDGetter interface {
	GetAthleteID() uuid.UUID
}

// Auth creates middleware that validates bearer tokens and stores the
// authenticated athlete ID in the request context.
func Auth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), athleteIDKey, claims.GetAthleteID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAthleteID extracts the authenticated athlete ID from the request context.
func GetAthleteID(r *http.Request) (uuid.UUID, error) {
	athleteID, ok := r.Context().Value(athleteIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("athlete ID not found in request context")
	}
	return athleteID, nil
}

// AthleteIDKey returns the context key for the athlete ID (for tests).
func AthleteIDKey() ContextKey {
	return athleteIDKey
}
