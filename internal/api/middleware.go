package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/model"
)

type contextKey string

const (
	claimsKey     contextKey = "claims"
	tokenKey      contextKey = "token"
	registrantKey contextKey = "registrant"
)

// AuthMiddleware requires a Bearer session token that is valid, not
// revoked and belongs to a registrant.
func AuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims, reg, err := auth.CheckSession(r.Context(), db, secret, tokenStr)
			if err != nil {
				if !errors.Is(err, auth.ErrSessionInvalid) {
					slog.Error("failed to check session", "error", err)
				}
				jsonError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, tokenKey, tokenStr)
			ctx = context.WithValue(ctx, registrantKey, reg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// GetToken retrieves the raw bearer token from the context.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// GetRegistrant retrieves the caller's registrant row from the context.
func GetRegistrant(ctx context.Context) *model.Registrant {
	reg, _ := ctx.Value(registrantKey).(*model.Registrant)
	return reg
}

// CORSMiddleware allows browser clients from the given origins. An empty
// list allows any origin; the API authenticates with bearer tokens, never
// cookies, so credentials are not allowed either way.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
