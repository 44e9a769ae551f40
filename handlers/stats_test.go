// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contesthub/middleware"
	"contesthub/models"
	"contesthub/testutil"
)

func TestMyStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewStatsHandler(db, cfg)
	testutil.CreateTestAccount(t, db, cfg, "creator@example.com", "Creator", models.RoleCreator)
	aliceToken := testutil.CreateTestAccount(t, db, cfg, "alice@example.com", "Alice", models.RoleParticipant)

	// 10 participations, 3 wins
	for i := 0; i < 10; i++ {
		id := testutil.CreateTestContest(t, db, "creator@example.com", models.StatusConfirmed)
		testutil.RegisterTestParticipant(t, db, id, "alice@example.com")
		if i < 3 {
			_, err := db.Exec(`
				UPDATE contest
				SET status = 'Completed', winner_name = 'Alice', winner_email = 'alice@example.com', winner_declared_at = $1
				WHERE id = $2
			`, time.Now(), id)
			if err != nil {
				t.Fatalf("Failed to mark winner: %v", err)
			}
		}
	}

	req := testutil.MakeRequest("GET", "/stats/me", nil, testutil.AuthHeader(aliceToken))
	w := httptest.NewRecorder()
	middleware.RequireRole(db, cfg.JWTSecret, models.RoleParticipant, handler.MyStats)(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.ParticipantStats
	testutil.AssertJSON(t, w, &stats)

	if stats.ParticipationCount != 10 {
		t.Errorf("participation_count = %d, want 10", stats.ParticipationCount)
	}
	if stats.WinCount != 3 {
		t.Errorf("win_count = %d, want 3", stats.WinCount)
	}
	if stats.WinRate != 30 {
		t.Errorf("win_rate = %v, want 30", stats.WinRate)
	}
	if stats.ParticipatedRate != 70 {
		t.Errorf("participated_rate = %v, want 70", stats.ParticipatedRate)
	}
}

func TestMyStatsNoParticipations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewStatsHandler(db, cfg)
	aliceToken := testutil.CreateTestAccount(t, db, cfg, "alice@example.com", "Alice", models.RoleParticipant)

	req := testutil.MakeRequest("GET", "/stats/me", nil, testutil.AuthHeader(aliceToken))
	w := httptest.NewRecorder()
	middleware.RequireRole(db, cfg.JWTSecret, models.RoleParticipant, handler.MyStats)(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.ParticipantStats
	testutil.AssertJSON(t, w, &stats)

	// No division by zero: everything stays at zero
	if stats.WinRate != 0 || stats.ParticipatedRate != 0 {
		t.Errorf("rates = %v/%v, want 0/0", stats.WinRate, stats.ParticipatedRate)
	}
}

// The participated rate is the remainder of the rounded win rate, so the
// two always sum to exactly 100 even when the raw ratio does not round
// cleanly.
func TestMyStatsRatesComplement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewStatsHandler(db, cfg)
	testutil.CreateTestAccount(t, db, cfg, "creator@example.com", "Creator", models.RoleCreator)
	aliceToken := testutil.CreateTestAccount(t, db, cfg, "alice@example.com", "Alice", models.RoleParticipant)

	// 3 participations, 1 win: 33.3 / 66.7
	for i := 0; i < 3; i++ {
		id := testutil.CreateTestContest(t, db, "creator@example.com", models.StatusConfirmed)
		testutil.RegisterTestParticipant(t, db, id, "alice@example.com")
		if i == 0 {
			_, err := db.Exec(`
				UPDATE contest
				SET status = 'Completed', winner_name = 'Alice', winner_email = 'alice@example.com', winner_declared_at = NOW()
				WHERE id = $1
			`, id)
			if err != nil {
				t.Fatalf("Failed to mark winner: %v", err)
			}
		}
	}

	req := testutil.MakeRequest("GET", "/stats/me", nil, testutil.AuthHeader(aliceToken))
	w := httptest.NewRecorder()
	middleware.RequireRole(db, cfg.JWTSecret, models.RoleParticipant, handler.MyStats)(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.ParticipantStats
	testutil.AssertJSON(t, w, &stats)

	if stats.WinRate != 33.3 {
		t.Errorf("win_rate = %v, want 33.3", stats.WinRate)
	}
	if stats.ParticipatedRate != 66.7 {
		t.Errorf("participated_rate = %v, want 66.7", stats.ParticipatedRate)
	}
	if stats.WinRate+stats.ParticipatedRate != 100 {
		t.Errorf("rates sum to %v, want 100", stats.WinRate+stats.ParticipatedRate)
	}
}

func TestCreatorStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewStatsHandler(db, cfg)
	creatorToken := testutil.CreateTestAccount(t, db, cfg, "creator@example.com", "Creator", models.RoleCreator)
	testutil.CreateTestAccount(t, db, cfg, "alice@example.com", "Alice", models.RoleParticipant)

	testutil.CreateTestContest(t, db, "creator@example.com", models.StatusPending)
	confirmedID := testutil.CreateTestContest(t, db, "creator@example.com", models.StatusConfirmed)
	completedID := testutil.CreateTestContest(t, db, "creator@example.com", models.StatusCompleted)
	if _, err := db.Exec(`
		UPDATE contest SET winner_name = 'Alice', winner_email = 'alice@example.com', winner_declared_at = NOW()
		WHERE id = $1
	`, completedID); err != nil {
		t.Fatalf("Failed to set winner: %v", err)
	}
	testutil.CreateTestSubmission(t, db, confirmedID, "alice@example.com", "Alice")

	req := testutil.MakeRequest("GET", "/stats/creator", nil, testutil.AuthHeader(creatorToken))
	w := httptest.NewRecorder()
	middleware.RequireRole(db, cfg.JWTSecret, models.RoleCreator, handler.CreatorStats)(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.CreatorStats
	testutil.AssertJSON(t, w, &stats)

	if stats.TotalContests != 3 {
		t.Errorf("total_contests = %d, want 3", stats.TotalContests)
	}
	if stats.PendingCount != 1 || stats.ConfirmedCount != 1 || stats.CompletedCount != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.TotalSubmissions != 1 {
		t.Errorf("total_submissions = %d, want 1", stats.TotalSubmissions)
	}
	// Test contest prize money is 500, only Completed counts
	if stats.PrizeAwarded != 500 {
		t.Errorf("prize_awarded = %d, want 500", stats.PrizeAwarded)
	}
}

func TestAdminStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewStatsHandler(db, cfg)
	testutil.CreateTestAccount(t, db, cfg, "creator@example.com", "Creator", models.RoleCreator)
	adminToken := testutil.CreateTestAccount(t, db, cfg, "admin@example.com", "Admin", models.RoleAdmin)

	// Two participants, one with two paid sessions
	for i := 0; i < 2; i++ {
		email := fmt.Sprintf("p%d@example.com", i)
		testutil.CreateTestAccount(t, db, cfg, email, "P", models.RoleParticipant)
	}
	c1 := testutil.CreateTestContest(t, db, "creator@example.com", models.StatusConfirmed)
	c2 := testutil.CreateTestContest(t, db, "creator@example.com", models.StatusConfirmed)
	testutil.CreateTestContest(t, db, "creator@example.com", models.StatusPending)
	testutil.RegisterTestParticipant(t, db, c1, "p0@example.com")
	testutil.RegisterTestParticipant(t, db, c2, "p0@example.com")
	testutil.RegisterTestParticipant(t, db, c1, "p1@example.com")

	req := testutil.MakeRequest("GET", "/stats/admin", nil, testutil.AuthHeader(adminToken))
	w := httptest.NewRecorder()
	middleware.RequireRole(db, cfg.JWTSecret, models.RoleAdmin, handler.AdminStats)(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.AdminStats
	testutil.AssertJSON(t, w, &stats)

	if stats.ParticipantCount != 2 || stats.CreatorCount != 1 || stats.AdminCount != 1 {
		t.Errorf("account counts = %+v", stats)
	}
	if stats.ConfirmedCount != 2 || stats.PendingCount != 1 {
		t.Errorf("contest counts = %+v", stats)
	}
	// Three paid sessions at the test entry fee of 10 each
	if stats.FeesCollected != 30 {
		t.Errorf("fees_collected = %d, want 30", stats.FeesCollected)
	}
}

func TestRoundRate(t *testing.T) {
	tests := []struct {
		wins, participations int
		want                 float64
	}{
		{3, 10, 30},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{0, 5, 0},
		{5, 5, 100},
	}

	for _, tt := range tests {
		got := roundRate(float64(tt.wins) / float64(tt.participations) * 100)
		if got != tt.want {
			t.Errorf("roundRate(%d/%d) = %v, want %v", tt.wins, tt.participations, got, tt.want)
		}
	}
}
