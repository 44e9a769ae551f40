// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"contesthub/auth"
	"contesthub/cliparse"
	"contesthub/middleware"
	"contesthub/models"

	"github.com/google/uuid"
)

type PaymentHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPaymentHandler(db *sql.DB, cfg cliparse.Config) *PaymentHandler {
	return &PaymentHandler{db: db, cfg: cfg}
}

// CreateCheckoutSession handles POST /checkout-sessions (participant)
// Creates a pending session priced at the contest's entry fee. The actual
// gateway redirect is built by the client from the returned session ID.
func (h *PaymentHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	var req models.CreateCheckoutSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ContestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "contest_id is required")
		return
	}

	var status string
	var entryFee, capacity, registered int
	var deadline time.Time
	err := h.db.QueryRow(`
		SELECT c.status, c.entry_fee, c.capacity, c.deadline,
		       (SELECT COUNT(*) FROM registration reg WHERE reg.contest_id = c.id)
		FROM contest c
		WHERE c.id = $1
	`, req.ContestID).Scan(&status, &entryFee, &capacity, &deadline, &registered)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest not found")
		return
	}
	if err != nil {
		slog.Error("failed to query contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !models.Status(status).AcceptsRegistrations() {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest is not open for registration")
		return
	}
	if time.Now().After(deadline) {
		middleware.ErrorResponse(w, http.StatusConflict, "Deadline has passed")
		return
	}
	if registered >= capacity {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest is full")
		return
	}

	var alreadyIn bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM registration
			WHERE contest_id = $1 AND participant_email = $2
		)
	`, req.ContestID, id.Email).Scan(&alreadyIn)
	if err != nil {
		slog.Error("failed to check registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if alreadyIn {
		middleware.ErrorResponse(w, http.StatusConflict, "Already registered for this contest")
		return
	}

	sessionID := auth.GenerateSessionID(uuid.NewString(), h.cfg.SessionSalt)
	_, err = h.db.Exec(`
		INSERT INTO checkout_session (id, contest_id, participant_email, amount, status, created_at)
		VALUES ($1, $2, $3, $4, 'pending', $5)
	`, sessionID, req.ContestID, id.Email, entryFee, time.Now())

	if err != nil {
		slog.Error("failed to insert checkout session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}

	slog.Info("checkout session created", "session_id", sessionID, "contest_id", req.ContestID, "participant", id.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateCheckoutSessionResponse{
		SessionID: sessionID,
		Amount:    entryFee,
	})
}

// PaymentSuccess handles POST /payments/success (participant)
// Marks the session paid and records the registration in one transaction.
// The contest gates (Confirmed, deadline, capacity) are re-checked here
// with the contest row locked: a session created while the contest was
// open cannot be redeemed after it closes or fills.
// Idempotent: re-reporting an already-paid session is not an error.
func (h *PaymentHandler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	var req models.PaymentSuccessRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	var contestID, participantEmail, status string
	err := h.db.QueryRow(`
		SELECT contest_id, participant_email, status
		FROM checkout_session
		WHERE id = $1
	`, req.SessionID).Scan(&contestID, &participantEmail, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Checkout session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query checkout session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if participantEmail != id.Email {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not your checkout session")
		return
	}

	if status == "paid" {
		middleware.JSONResponse(w, http.StatusOK, models.PaymentSuccessResponse{
			ContestID:       contestID,
			AlreadyRecorded: true,
		})
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Claim the session; a concurrent success report loses here
	now := time.Now()
	res, err := tx.Exec(`
		UPDATE checkout_session SET status = 'paid', paid_at = $1
		WHERE id = $2 AND status = 'pending'
	`, now, req.SessionID)
	if err != nil {
		slog.Error("failed to mark session paid", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}
	if claimed, _ := res.RowsAffected(); claimed == 0 {
		middleware.JSONResponse(w, http.StatusOK, models.PaymentSuccessResponse{
			ContestID:       contestID,
			AlreadyRecorded: true,
		})
		return
	}

	// Lock the contest row so the capacity count is stable until commit
	var contestStatus string
	var deadline time.Time
	var capacity int
	err = tx.QueryRow(`
		SELECT status, deadline, capacity FROM contest WHERE id = $1 FOR UPDATE
	`, contestID).Scan(&contestStatus, &deadline, &capacity)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest not found")
		return
	}
	if err != nil {
		slog.Error("failed to query contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !models.Status(contestStatus).AcceptsRegistrations() {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest is not open for registration")
		return
	}
	if now.After(deadline) {
		middleware.ErrorResponse(w, http.StatusConflict, "Deadline has passed")
		return
	}

	var registered int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM registration WHERE contest_id = $1
	`, contestID).Scan(&registered)
	if err != nil {
		slog.Error("failed to count registrations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if registered >= capacity {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest is full")
		return
	}

	// ON CONFLICT: the caller registered through another session meanwhile
	_, err = tx.Exec(`
		INSERT INTO registration (contest_id, participant_email, session_id, paid_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (contest_id, participant_email) DO NOTHING
	`, contestID, id.Email, req.SessionID, now)
	if err != nil {
		slog.Error("failed to insert registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	slog.Info("payment recorded", "session_id", req.SessionID, "contest_id", contestID, "participant", id.Email)

	middleware.JSONResponse(w, http.StatusOK, models.PaymentSuccessResponse{
		ContestID: contestID,
	})
}

// MyRegistrations handles GET /my-registrations (participant)
// Contests the caller has paid for, with whether a task was submitted yet.
func (h *PaymentHandler) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	rows, err := h.db.Query(`
		SELECT reg.contest_id, c.name, c.status, c.deadline, reg.paid_at,
		       EXISTS(
		           SELECT 1 FROM submission s
		           WHERE s.contest_id = reg.contest_id AND s.participant_email = reg.participant_email
		       )
		FROM registration reg
		JOIN contest c ON reg.contest_id = c.id
		WHERE reg.participant_email = $1
		ORDER BY reg.paid_at DESC
	`, id.Email)
	if err != nil {
		slog.Error("failed to query registrations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	registrations := []models.Registration{}
	for rows.Next() {
		var reg models.Registration
		var status string
		if err := rows.Scan(&reg.ContestID, &reg.ContestName, &status, &reg.Deadline, &reg.PaidAt, &reg.Submitted); err != nil {
			slog.Error("failed to scan registration", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		reg.Status = models.Status(status)
		registrations = append(registrations, reg)
	}

	middleware.JSONResponse(w, http.StatusOK, registrations)
}
