// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"contesthub/auth"
	"contesthub/cliparse"
	"contesthub/middleware"
	"contesthub/models"

	"github.com/lib/pq"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Password) < 6 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	var photo *string
	if req.PhotoURL != "" {
		photo = &req.PhotoURL
	}

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO account (email, name, photo_url, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, req.Email, req.Name, photo, hash, models.RoleParticipant, now)

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to insert account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, err := auth.IssueToken(req.Email, h.cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("account registered", "email", req.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Token: token,
		User: models.Account{
			Email:     req.Email,
			Name:      req.Name,
			PhotoURL:  photo,
			Role:      models.RoleParticipant,
			CreatedAt: now,
		},
	})
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var account models.Account
	var hash string
	var role string
	err := h.db.QueryRow(`
		SELECT email, name, photo_url, password_hash, role, created_at
		FROM account WHERE email = $1
	`, req.Email).Scan(&account.Email, &account.Name, &account.PhotoURL, &hash, &role, &account.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	account.Role = models.Role(role)

	token, err := auth.IssueToken(account.Email, h.cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("login", "email", account.Email)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  account,
	})
}

// GetMe handles GET /users/me
// Returns the caller's identity and role as currently stored server-side.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var account models.Account
	var role string
	err := h.db.QueryRow(`
		SELECT email, name, photo_url, role, created_at
		FROM account WHERE email = $1
	`, id.Email).Scan(&account.Email, &account.Name, &account.PhotoURL, &role, &account.CreatedAt)

	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	account.Role = models.Role(role)

	middleware.JSONResponse(w, http.StatusOK, account)
}

// ListUsers handles GET /users (admin)
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT email, name, photo_url, role, created_at
		FROM account
		ORDER BY created_at
	`)
	if err != nil {
		slog.Error("failed to query accounts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		var role string
		if err := rows.Scan(&a.Email, &a.Name, &a.PhotoURL, &role, &a.CreatedAt); err != nil {
			slog.Error("failed to scan account", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		a.Role = models.Role(role)
		accounts = append(accounts, a)
	}

	middleware.JSONResponse(w, http.StatusOK, accounts)
}

// UpdateRole handles PATCH /users/{email}/role (admin)
// Approving a pending creator request consumes the request row.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(r.PathValue("email"))
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	var req models.UpdateRoleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be one of: participant, contestCreator, admin")
		return
	}

	// An admin may not demote themself
	id, _ := middleware.IdentityFrom(r.Context())
	if id.Email == email && role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot change own admin role")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE account SET role = $1 WHERE email = $2`, role, email)
	if err != nil {
		slog.Error("failed to update role", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update role")
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Account not found")
		return
	}

	// Upgrading to contestCreator consumes any pending creator request
	if role == models.RoleCreator {
		if _, err := tx.Exec(`DELETE FROM creator_request WHERE email = $1`, email); err != nil {
			slog.Error("failed to consume creator request", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update role")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update role")
		return
	}

	slog.Info("role updated", "email", email, "role", role)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Role updated",
	})
}

// RequestCreator handles POST /creator-requests (participant)
func (h *UserHandler) RequestCreator(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	if id.Role != models.RoleParticipant {
		middleware.ErrorResponse(w, http.StatusConflict, "Only participants can request creator access")
		return
	}

	_, err := h.db.Exec(`
		INSERT INTO creator_request (email, requested_at)
		VALUES ($1, $2)
	`, id.Email, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Request already pending")
			return
		}
		slog.Error("failed to insert creator request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit request")
		return
	}

	slog.Info("creator request submitted", "email", id.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.MessageResponse{
		Message: "Creator request submitted",
	})
}

// ListCreatorRequests handles GET /creator-requests (admin)
func (h *UserHandler) ListCreatorRequests(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT cr.email, a.name, a.photo_url, cr.requested_at
		FROM creator_request cr
		JOIN account a ON cr.email = a.email
		ORDER BY cr.requested_at
	`)
	if err != nil {
		slog.Error("failed to query creator requests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	requests := []models.CreatorRequest{}
	for rows.Next() {
		var cr models.CreatorRequest
		if err := rows.Scan(&cr.Email, &cr.Name, &cr.PhotoURL, &cr.RequestedAt); err != nil {
			slog.Error("failed to scan creator request", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		requests = append(requests, cr)
	}

	middleware.JSONResponse(w, http.StatusOK, requests)
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
