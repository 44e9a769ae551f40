// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"contesthub/cliparse"
	"contesthub/middleware"
	"contesthub/models"
)

type WinnerHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewWinnerHandler(db *sql.DB, cfg cliparse.Config) *WinnerHandler {
	return &WinnerHandler{db: db, cfg: cfg}
}

// ListSubmissions handles GET /contests/{id}/submissions
// Visible to the contest's creator and to admins.
func (h *WinnerHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	contestID := r.PathValue("id")
	if contestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "contest_id is required")
		return
	}

	var creatorEmail string
	err := h.db.QueryRow(`SELECT creator_email FROM contest WHERE id = $1`, contestID).Scan(&creatorEmail)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest not found")
		return
	}
	if err != nil {
		slog.Error("failed to query contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if id.Email != creatorEmail && id.Role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not your contest")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, contest_id, participant_email, participant_name, participant_photo, task, submitted_at
		FROM submission
		WHERE contest_id = $1
		ORDER BY submitted_at
	`, contestID)
	if err != nil {
		slog.Error("failed to query submissions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	// Empty slice, not null: clients render an explicit no-submissions state
	submissions := []models.Submission{}
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.ContestID, &s.ParticipantEmail, &s.ParticipantName,
			&s.ParticipantPhoto, &s.Task, &s.SubmittedAt); err != nil {
			slog.Error("failed to scan submission", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		submissions = append(submissions, s)
	}

	middleware.JSONResponse(w, http.StatusOK, submissions)
}

// DeclareWinner handles PATCH /contests/{id}/winner (contest's creator)
// Irreversible: moves the contest from Confirmed to Completed and copies
// the winning submission's participant identity into the contest record.
// The UPDATE is guarded on status and winner_email so a concurrent second
// declaration affects zero rows and is reported as a conflict.
func (h *WinnerHandler) DeclareWinner(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	contestID := r.PathValue("id")
	if contestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "contest_id is required")
		return
	}

	var req models.DeclareWinnerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SubmissionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "submission_id is required")
		return
	}

	var status, creatorEmail string
	var winnerEmail sql.NullString
	err := h.db.QueryRow(`
		SELECT status, creator_email, winner_email FROM contest WHERE id = $1
	`, contestID).Scan(&status, &creatorEmail, &winnerEmail)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest not found")
		return
	}
	if err != nil {
		slog.Error("failed to query contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if creatorEmail != id.Email {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not your contest")
		return
	}
	if winnerEmail.Valid || !models.Status(status).CanTransitionTo(models.StatusCompleted) {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest already completed")
		return
	}

	// The submission must belong to this contest
	var winner models.Winner
	var photo sql.NullString
	err = h.db.QueryRow(`
		SELECT participant_name, participant_email, participant_photo
		FROM submission
		WHERE id = $1 AND contest_id = $2
	`, req.SubmissionID, contestID).Scan(&winner.Name, &winner.Email, &photo)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Submission not found for this contest")
		return
	}
	if err != nil {
		slog.Error("failed to query submission", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if photo.Valid {
		winner.PhotoURL = &photo.String
	}

	declaredAt := time.Now()
	res, err := h.db.Exec(`
		UPDATE contest
		SET status = $1, winner_name = $2, winner_email = $3, winner_photo = $4, winner_declared_at = $5
		WHERE id = $6 AND status = $7 AND winner_email IS NULL
	`, models.StatusCompleted, winner.Name, winner.Email, photo, declaredAt,
		contestID, models.StatusConfirmed)

	if err != nil {
		slog.Error("failed to declare winner", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to declare winner")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		// Lost the race to a concurrent declaration
		middleware.ErrorResponse(w, http.StatusConflict, "Contest already completed")
		return
	}

	winner.DeclaredAt = &declaredAt

	slog.Info("winner declared", "contest_id", contestID, "submission_id", req.SubmissionID, "winner", winner.Email)

	middleware.JSONResponse(w, http.StatusOK, models.DeclareWinnerResponse{
		Winner:     winner,
		DeclaredAt: declaredAt.Format(time.RFC3339),
	})
}
