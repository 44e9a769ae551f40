// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"contesthub/cliparse"
	"contesthub/handlers"
	"contesthub/middleware"
	"contesthub/models"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	contestHandler := handlers.NewContestHandler(db, cfg)
	submissionHandler := handlers.NewSubmissionHandler(db, cfg)
	winnerHandler := handlers.NewWinnerHandler(db, cfg)
	paymentHandler := handlers.NewPaymentHandler(db, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)

	secret := cfg.JWTSecret
	logged := middleware.WithLogging
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return logged(middleware.RequireAuth(db, secret, next))
	}
	role := func(r models.Role, next http.HandlerFunc) http.HandlerFunc {
		return logged(middleware.RequireRole(db, secret, r, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts and sessions
	mux.HandleFunc("POST /auth/register", logged(userHandler.Register))
	mux.HandleFunc("POST /auth/login", logged(userHandler.Login))
	mux.HandleFunc("GET /users/me", authed(userHandler.GetMe))

	// Admin: user moderation and creator requests
	mux.HandleFunc("GET /users", role(models.RoleAdmin, userHandler.ListUsers))
	mux.HandleFunc("PATCH /users/{email}/role", role(models.RoleAdmin, userHandler.UpdateRole))
	mux.HandleFunc("POST /creator-requests", role(models.RoleParticipant, userHandler.RequestCreator))
	mux.HandleFunc("GET /creator-requests", role(models.RoleAdmin, userHandler.ListCreatorRequests))

	// Contests (public browse; detail visibility depends on caller)
	mux.HandleFunc("GET /contests", logged(contestHandler.List))
	mux.HandleFunc("GET /contests/popular", logged(contestHandler.Popular))
	mux.HandleFunc("GET /contests/{id}", logged(middleware.OptionalAuth(db, secret, contestHandler.Get)))

	// Contests (creator operations)
	mux.HandleFunc("POST /contests", role(models.RoleCreator, contestHandler.Create))
	mux.HandleFunc("PUT /contests/{id}", role(models.RoleCreator, contestHandler.Update))
	mux.HandleFunc("DELETE /contests/{id}", authed(contestHandler.Delete))
	mux.HandleFunc("GET /my-inventory", role(models.RoleCreator, contestHandler.MyInventory))

	// Contests (admin moderation)
	mux.HandleFunc("PATCH /contests/{id}/status", role(models.RoleAdmin, contestHandler.UpdateStatus))

	// Submissions and winner declaration
	mux.HandleFunc("POST /submissions", role(models.RoleParticipant, submissionHandler.SubmitTask))
	mux.HandleFunc("GET /my-submissions", role(models.RoleParticipant, submissionHandler.MySubmissions))
	mux.HandleFunc("GET /contests/{id}/submissions", authed(winnerHandler.ListSubmissions))
	mux.HandleFunc("PATCH /contests/{id}/winner", role(models.RoleCreator, winnerHandler.DeclareWinner))

	// Payments
	mux.HandleFunc("POST /checkout-sessions", role(models.RoleParticipant, paymentHandler.CreateCheckoutSession))
	mux.HandleFunc("POST /payments/success", role(models.RoleParticipant, paymentHandler.PaymentSuccess))
	mux.HandleFunc("GET /my-registrations", role(models.RoleParticipant, paymentHandler.MyRegistrations))

	// Statistics
	mux.HandleFunc("GET /stats/me", role(models.RoleParticipant, statsHandler.MyStats))
	mux.HandleFunc("GET /stats/creator", role(models.RoleCreator, statsHandler.CreatorStats))
	mux.HandleFunc("GET /stats/admin", role(models.RoleAdmin, statsHandler.AdminStats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("contesthub API v1"))
	})

	return mux
}
