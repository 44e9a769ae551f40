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
)

type SubmissionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSubmissionHandler(db *sql.DB, cfg cliparse.Config) *SubmissionHandler {
	return &SubmissionHandler{db: db, cfg: cfg}
}

// SubmitTask handles POST /submissions (participant)
// Requires a paid registration for a Confirmed contest whose deadline has
// not passed. One submission per participant per contest.
func (h *SubmissionHandler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	var req models.SubmitTaskRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ContestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "contest_id is required")
		return
	}
	if strings.TrimSpace(req.Task) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "task is required")
		return
	}

	var status string
	var deadline time.Time
	err := h.db.QueryRow(`
		SELECT status, deadline FROM contest WHERE id = $1
	`, req.ContestID).Scan(&status, &deadline)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest not found")
		return
	}
	if err != nil {
		slog.Error("failed to query contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !models.Status(status).AcceptsSubmissions() {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest is not accepting submissions")
		return
	}
	if time.Now().After(deadline) {
		middleware.ErrorResponse(w, http.StatusConflict, "Deadline has passed")
		return
	}

	// Submission requires a paid registration
	var registered bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM registration
			WHERE contest_id = $1 AND participant_email = $2
		)
	`, req.ContestID, id.Email).Scan(&registered)

	if err != nil {
		slog.Error("failed to check registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !registered {
		middleware.ErrorResponse(w, http.StatusForbidden, "Pay the entry fee before submitting")
		return
	}

	submissionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate submission ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit task")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO submission (id, contest_id, participant_email, participant_name, participant_photo, task, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, submissionID, req.ContestID, id.Email, id.Name, id.PhotoURL, req.Task, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Already submitted for this contest")
			return
		}
		slog.Error("failed to insert submission", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit task")
		return
	}

	slog.Info("task submitted", "contest_id", req.ContestID, "submission_id", submissionID, "participant", id.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitTaskResponse{
		SubmissionID: submissionID,
	})
}

// MySubmissions handles GET /my-submissions (participant)
func (h *SubmissionHandler) MySubmissions(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	rows, err := h.db.Query(`
		SELECT s.id, s.contest_id, s.participant_email, s.participant_name,
		       s.participant_photo, s.task, s.submitted_at, c.name
		FROM submission s
		JOIN contest c ON s.contest_id = c.id
		WHERE s.participant_email = $1
		ORDER BY s.submitted_at DESC
	`, id.Email)
	if err != nil {
		slog.Error("failed to query submissions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	submissions := []models.Submission{}
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.ContestID, &s.ParticipantEmail, &s.ParticipantName,
			&s.ParticipantPhoto, &s.Task, &s.SubmittedAt, &s.ContestName); err != nil {
			slog.Error("failed to scan submission", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		submissions = append(submissions, s)
	}

	middleware.JSONResponse(w, http.StatusOK, submissions)
}
