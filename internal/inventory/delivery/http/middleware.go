package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/pkg/auth"
	"github.com/oakbarn/farmstand/pkg/logger"
)

type contextKey string

const actorKey contextKey = "actor"

// AuthMiddleware validates the JWT token and resolves the acting user once.
// Everything below the delivery layer receives the actor as an explicit
// parameter; there is no ambient user context in the ledger itself.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondAuthError(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondAuthError(w, "Invalid authorization header format")
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			respondAuthError(w, "Invalid token")
			return
		}

		actor := domain.Actor{
			UserID:     claims.UserID,
			Username:   claims.Username,
			Role:       claims.Role,
			LocationID: claims.LocationID,
		}
		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// actorFrom returns the actor resolved by AuthMiddleware, or the zero Actor
// on unauthenticated routes.
func actorFrom(r *http.Request) domain.Actor {
	actor, _ := r.Context().Value(actorKey).(domain.Actor)
	return actor
}

// RecoveryMiddleware converts panics into 500 responses.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(r.Context()).
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Msg("Recovered from panic")
				respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		logger.Info(r.Context()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Msg("Request handled")
	})
}

func respondAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
