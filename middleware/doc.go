// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers for the
ContestHub API.

# Authentication

RequireAuth validates the Authorization bearer token and loads the
account's identity (including its current role) into the request context:

	mux.HandleFunc("GET /users/me", middleware.WithLogging(
	    middleware.RequireAuth(db, cfg.JWTSecret, userHandler.GetMe)))

RequireRole additionally checks for an exact role:

	middleware.RequireRole(db, cfg.JWTSecret, models.RoleAdmin, next)

Handlers read the identity back with IdentityFrom(r.Context()). Missing or
invalid tokens are 401; a valid token with the wrong role is 403.

# Helpers

JSONResponse, ErrorResponse, and ParseJSONBody are the standard JSON
plumbing used by every handler. Errors are always the same shape:

	{"error": "Conflict", "message": "Contest is not pending"}

# Request logging

WithLogging logs request start/completion with method, path, and duration
via log/slog.
*/
package middleware
