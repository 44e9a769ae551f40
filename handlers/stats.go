// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"math"
	"net/http"

	"contesthub/cliparse"
	"contesthub/middleware"
	"contesthub/models"
)

type StatsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewStatsHandler(db *sql.DB, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{db: db, cfg: cfg}
}

// MyStats handles GET /stats/me (participant)
// Win rate is wins/participations*100 to one decimal place; the
// participated remainder is 100 minus the already-rounded win rate,
// so the pair always sums to exactly 100.
func (h *StatsHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	var stats models.ParticipantStats
	err := h.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM registration WHERE participant_email = $1),
			(SELECT COUNT(*) FROM contest WHERE winner_email = $1 AND status = $2)
	`, id.Email, models.StatusCompleted).Scan(&stats.ParticipationCount, &stats.WinCount)

	if err != nil {
		slog.Error("failed to query participant stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if stats.ParticipationCount > 0 {
		stats.WinRate = roundRate(float64(stats.WinCount) / float64(stats.ParticipationCount) * 100)
		stats.ParticipatedRate = roundRate(100 - stats.WinRate)
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// CreatorStats handles GET /stats/creator (contestCreator)
func (h *StatsHandler) CreatorStats(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	var stats models.CreatorStats
	err := h.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'Confirmed'),
			COUNT(*) FILTER (WHERE status = 'Rejected'),
			COUNT(*) FILTER (WHERE status = 'Completed'),
			COALESCE(SUM(prize_money) FILTER (WHERE status = 'Completed'), 0)
		FROM contest
		WHERE creator_email = $1
	`, id.Email).Scan(
		&stats.TotalContests,
		&stats.PendingCount,
		&stats.ConfirmedCount,
		&stats.RejectedCount,
		&stats.CompletedCount,
		&stats.PrizeAwarded,
	)
	if err != nil {
		slog.Error("failed to query creator stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = h.db.QueryRow(`
		SELECT COUNT(*)
		FROM submission s
		JOIN contest c ON s.contest_id = c.id
		WHERE c.creator_email = $1
	`, id.Email).Scan(&stats.TotalSubmissions)
	if err != nil {
		slog.Error("failed to query submission count", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// AdminStats handles GET /stats/admin (admin)
func (h *StatsHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	var stats models.AdminStats

	err := h.db.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE role = 'participant'),
			COUNT(*) FILTER (WHERE role = 'contestCreator'),
			COUNT(*) FILTER (WHERE role = 'admin')
		FROM account
	`).Scan(&stats.ParticipantCount, &stats.CreatorCount, &stats.AdminCount)
	if err != nil {
		slog.Error("failed to query account stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = h.db.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'Confirmed'),
			COUNT(*) FILTER (WHERE status = 'Rejected'),
			COUNT(*) FILTER (WHERE status = 'Completed')
		FROM contest
	`).Scan(&stats.PendingCount, &stats.ConfirmedCount, &stats.RejectedCount, &stats.CompletedCount)
	if err != nil {
		slog.Error("failed to query contest stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = h.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM checkout_session WHERE status = 'paid'
	`).Scan(&stats.FeesCollected)
	if err != nil {
		slog.Error("failed to query fee stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

func roundRate(rate float64) float64 {
	return math.Round(rate*10) / 10
}
