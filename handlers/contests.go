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

type ContestHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewContestHandler(db *sql.DB, cfg cliparse.Config) *ContestHandler {
	return &ContestHandler{db: db, cfg: cfg}
}

const contestColumns = `
	c.id, c.name, c.description, c.category, c.image_url,
	c.entry_fee, c.prize_money, c.capacity, c.deadline, c.status,
	c.creator_email, c.creator_name, c.creator_photo,
	c.winner_name, c.winner_email, c.winner_photo, c.winner_declared_at,
	c.created_at,
	(SELECT COUNT(*) FROM registration reg WHERE reg.contest_id = c.id) AS participant_count
`

func scanContest(row interface{ Scan(...interface{}) error }) (models.Contest, error) {
	var c models.Contest
	var status string
	var winnerName, winnerEmail, winnerPhoto sql.NullString
	var declaredAt sql.NullTime

	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Category, &c.ImageURL,
		&c.EntryFee, &c.PrizeMoney, &c.Capacity, &c.Deadline, &status,
		&c.CreatorEmail, &c.CreatorName, &c.CreatorPhoto,
		&winnerName, &winnerEmail, &winnerPhoto, &declaredAt,
		&c.CreatedAt, &c.ParticipantCount,
	)
	if err != nil {
		return models.Contest{}, err
	}
	c.Status = models.Status(status)

	if winnerEmail.Valid {
		w := models.Winner{Name: winnerName.String, Email: winnerEmail.String}
		if winnerPhoto.Valid {
			w.PhotoURL = &winnerPhoto.String
		}
		if declaredAt.Valid {
			w.DeclaredAt = &declaredAt.Time
		}
		c.Winner = &w
	}

	return c, nil
}

func validateContestInput(name, category string, entryFee, prizeMoney, capacity int, deadline time.Time) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(category) == "" {
		return "category is required"
	}
	if entryFee < 0 {
		return "entry_fee must not be negative"
	}
	if prizeMoney <= 0 {
		return "prize_money must be positive"
	}
	if capacity <= 0 {
		return "capacity must be positive"
	}
	if !deadline.After(time.Now()) {
		return "deadline must be in the future"
	}
	return ""
}

// Create handles POST /contests (contestCreator)
// New contests always start Pending; the creator identity is snapshotted.
func (h *ContestHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	var req models.CreateContestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateContestInput(req.Name, req.Category, req.EntryFee, req.PrizeMoney, req.Capacity, req.Deadline); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	contestID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate contest ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create contest")
		return
	}

	var image *string
	if req.ImageURL != "" {
		image = &req.ImageURL
	}

	_, err = h.db.Exec(`
		INSERT INTO contest (id, name, description, category, image_url,
			entry_fee, prize_money, capacity, deadline, status,
			creator_email, creator_name, creator_photo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, contestID, req.Name, req.Description, req.Category, image,
		req.EntryFee, req.PrizeMoney, req.Capacity, req.Deadline, models.StatusPending,
		id.Email, id.Name, id.PhotoURL, time.Now())

	if err != nil {
		slog.Error("failed to insert contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create contest")
		return
	}

	slog.Info("contest created", "contest_id", contestID, "creator", id.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateContestResponse{
		ContestID: contestID,
	})
}

// List handles GET /contests
// Public browse: Confirmed contests only, optionally filtered by category.
func (h *ContestHandler) List(w http.ResponseWriter, r *http.Request) {
	query := `SELECT ` + contestColumns + ` FROM contest c WHERE c.status = $1`
	args := []interface{}{models.StatusConfirmed}

	if category := r.URL.Query().Get("category"); category != "" {
		query += ` AND c.category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query contests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	contests := []models.Contest{}
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			slog.Error("failed to scan contest", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		contests = append(contests, c)
	}

	middleware.JSONResponse(w, http.StatusOK, contests)
}

// Popular handles GET /contests/popular
// Confirmed contests ordered by participant count.
func (h *ContestHandler) Popular(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT `+contestColumns+`
		FROM contest c
		WHERE c.status = $1
		ORDER BY participant_count DESC, c.created_at DESC
		LIMIT 6
	`, models.StatusConfirmed)
	if err != nil {
		slog.Error("failed to query popular contests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	contests := []models.Contest{}
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			slog.Error("failed to scan contest", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		contests = append(contests, c)
	}

	middleware.JSONResponse(w, http.StatusOK, contests)
}

// Get handles GET /contests/{id}
// Pending and Rejected contests are visible only to their creator and admins;
// everyone else gets 404 rather than a hint that the contest exists.
func (h *ContestHandler) Get(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("id")
	if contestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "contest_id is required")
		return
	}

	row := h.db.QueryRow(`SELECT `+contestColumns+` FROM contest c WHERE c.id = $1`, contestID)
	c, err := scanContest(row)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest not found")
		return
	}
	if err != nil {
		slog.Error("failed to query contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !c.Status.PubliclyVisible() {
		id, ok := middleware.IdentityFrom(r.Context())
		if !ok || (id.Email != c.CreatorEmail && id.Role != models.RoleAdmin) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Contest not found")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// Update handles PUT /contests/{id} (contestCreator, own contest, Pending only)
func (h *ContestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	contestID := r.PathValue("id")
	if contestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "contest_id is required")
		return
	}

	var req models.UpdateContestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateContestInput(req.Name, req.Category, req.EntryFee, req.PrizeMoney, req.Capacity, req.Deadline); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
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

	if creatorEmail != id.Email {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not your contest")
		return
	}

	var image *string
	if req.ImageURL != "" {
		image = &req.ImageURL
	}

	// Guard on status in the UPDATE itself: a concurrent confirmation
	// between the ownership check and this write affects zero rows
	res, err := h.db.Exec(`
		UPDATE contest
		SET name = $1, description = $2, category = $3, image_url = $4,
			entry_fee = $5, prize_money = $6, capacity = $7, deadline = $8
		WHERE id = $9 AND creator_email = $10 AND status = $11
	`, req.Name, req.Description, req.Category, image,
		req.EntryFee, req.PrizeMoney, req.Capacity, req.Deadline,
		contestID, id.Email, models.StatusPending)

	if err != nil {
		slog.Error("failed to update contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update contest")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest is no longer editable")
		return
	}

	slog.Info("contest updated", "contest_id", contestID, "creator", id.Email)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Contest updated",
	})
}

// Delete handles DELETE /contests/{id}
// Creators may hard-delete their own Pending contests. Admins may delete
// any contest that is not Confirmed or Completed.
func (h *ContestHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	// Status is checked by the DELETE itself, so a concurrent confirmation
	// between the ownership check and this write affects zero rows
	var res sql.Result
	var conflictMsg string
	switch {
	case id.Role == models.RoleAdmin:
		conflictMsg = "Confirmed and completed contests cannot be deleted"
		res, err = h.db.Exec(`
			DELETE FROM contest WHERE id = $1 AND status NOT IN ($2, $3)
		`, contestID, models.StatusConfirmed, models.StatusCompleted)
	case id.Email == creatorEmail:
		conflictMsg = "Only pending contests can be deleted"
		res, err = h.db.Exec(`
			DELETE FROM contest WHERE id = $1 AND creator_email = $2 AND status = $3
		`, contestID, id.Email, models.StatusPending)
	default:
		middleware.ErrorResponse(w, http.StatusForbidden, "Not your contest")
		return
	}

	if err != nil {
		slog.Error("failed to delete contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete contest")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, conflictMsg)
		return
	}

	slog.Info("contest deleted", "contest_id", contestID, "by", id.Email)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Contest deleted",
	})
}

// UpdateStatus handles PATCH /contests/{id}/status (admin)
// Admin moderation: Pending → Confirmed or Pending → Rejected.
func (h *ContestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("id")
	if contestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "contest_id is required")
		return
	}

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	next, err := models.ParseStatus(req.Status)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be Confirmed or Rejected")
		return
	}
	if next != models.StatusConfirmed && next != models.StatusRejected {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be Confirmed or Rejected")
		return
	}

	var current string
	err = h.db.QueryRow(`SELECT status FROM contest WHERE id = $1`, contestID).Scan(&current)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest not found")
		return
	}
	if err != nil {
		slog.Error("failed to query contest", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !models.Status(current).CanTransitionTo(next) {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest is not pending")
		return
	}

	// Guard on status in the UPDATE as well, in case of a concurrent moderation
	res, err := h.db.Exec(`
		UPDATE contest SET status = $1 WHERE id = $2 AND status = $3
	`, next, contestID, models.StatusPending)
	if err != nil {
		slog.Error("failed to update contest status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Contest is not pending")
		return
	}

	slog.Info("contest status updated", "contest_id", contestID, "status", next)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Status updated",
	})
}

// MyInventory handles GET /my-inventory (contestCreator)
// All of the caller's contests regardless of status.
func (h *ContestHandler) MyInventory(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	rows, err := h.db.Query(`
		SELECT `+contestColumns+`
		FROM contest c
		WHERE c.creator_email = $1
		ORDER BY c.created_at DESC
	`, id.Email)
	if err != nil {
		slog.Error("failed to query inventory", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	contests := []models.Contest{}
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			slog.Error("failed to scan contest", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		contests = append(contests, c)
	}

	middleware.JSONResponse(w, http.StatusOK, contests)
}
