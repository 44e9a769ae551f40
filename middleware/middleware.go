// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"contesthub/auth"
	"contesthub/models"
)

// Identity is the authenticated account attached to a request context.
type Identity struct {
	Email    string
	Name     string
	PhotoURL *string
	Role     models.Role
}

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the authenticated identity stored by RequireAuth.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		next(w, r)

		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// RequireAuth validates the bearer token and loads the account's current
// role from the database before calling next. The role is re-read on every
// request rather than trusted from the token, so admin role changes apply
// immediately.
func RequireAuth(db *sql.DB, secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		email, err := auth.ParseToken(token, secret)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var id Identity
		var role string
		err = db.QueryRow(`
			SELECT email, name, photo_url, role FROM account WHERE email = $1
		`, email).Scan(&id.Email, &id.Name, &id.PhotoURL, &role)

		if err == sql.ErrNoRows {
			ErrorResponse(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		if err != nil {
			slog.Error("failed to load account", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		id.Role = models.Role(role)

		ctx := context.WithValue(r.Context(), identityKey, id)
		next(w, r.WithContext(ctx))
	}
}

// OptionalAuth attaches an identity when a valid bearer token is present
// and continues anonymously otherwise. Used for endpoints whose response
// depends on who is asking but which are also publicly reachable.
func OptionalAuth(db *sql.DB, secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next(w, r)
			return
		}

		email, err := auth.ParseToken(token, secret)
		if err != nil {
			next(w, r)
			return
		}

		var id Identity
		var role string
		err = db.QueryRow(`
			SELECT email, name, photo_url, role FROM account WHERE email = $1
		`, email).Scan(&id.Email, &id.Name, &id.PhotoURL, &role)
		if err != nil {
			next(w, r)
			return
		}
		id.Role = models.Role(role)

		ctx := context.WithValue(r.Context(), identityKey, id)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole is RequireAuth plus an exact role check. A wrong role gets
// 403; the client is expected to redirect away on that status.
func RequireRole(db *sql.DB, secret string, role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(db, secret, func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || id.Role != role {
			ErrorResponse(w, http.StatusForbidden, "Insufficient role")
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
