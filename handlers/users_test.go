// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"contesthub/middleware"
	"contesthub/models"
	"contesthub/testutil"
)

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.AuthResponse)
	}{
		{
			name: "valid registration",
			requestBody: models.RegisterRequest{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.AuthResponse) {
				if resp.Token == "" {
					t.Error("Expected non-empty token")
				}
				if resp.User.Role != models.RoleParticipant {
					t.Errorf("role = %s, want participant", resp.User.Role)
				}

				// Password is stored hashed
				var hash string
				db.QueryRow(`SELECT password_hash FROM account WHERE email = 'alice@example.com'`).Scan(&hash)
				if hash == "password123" || hash == "" {
					t.Error("Password not hashed")
				}
			},
		},
		{
			name: "email is lowercased",
			requestBody: models.RegisterRequest{
				Name:     "Cased",
				Email:    "Cased@Example.COM",
				Password: "password123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.AuthResponse) {
				if resp.User.Email != "cased@example.com" {
					t.Errorf("email = %s", resp.User.Email)
				}
			},
		},
		{
			name: "duplicate email",
			requestBody: models.RegisterRequest{
				Name:     "Alice Again",
				Email:    "alice@example.com",
				Password: "password456",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "short password",
			requestBody: models.RegisterRequest{
				Name:     "Bob",
				Email:    "bob@example.com",
				Password: "123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			requestBody: models.RegisterRequest{
				Name:     "NoAt",
				Email:    "not-an-email",
				Password: "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing name",
			requestBody: models.RegisterRequest{
				Email:    "carol@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/register", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil {
				var resp models.AuthResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)
	testutil.CreateTestAccount(t, db, cfg, "alice@example.com", "Alice", models.RoleParticipant)

	tests := []struct {
		name           string
		requestBody    models.LoginRequest
		expectedStatus int
	}{
		{"valid login", models.LoginRequest{Email: "alice@example.com", Password: "password123"}, http.StatusOK},
		{"wrong password", models.LoginRequest{Email: "alice@example.com", Password: "wrong"}, http.StatusUnauthorized},
		{"unknown account", models.LoginRequest{Email: "nobody@example.com", Password: "password123"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/login", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var resp models.AuthResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Token == "" {
					t.Error("Expected non-empty token")
				}
			}
		})
	}
}

func TestGetMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)
	token := testutil.CreateTestAccount(t, db, cfg, "alice@example.com", "Alice", models.RoleParticipant)

	req := testutil.MakeRequest("GET", "/users/me", nil, testutil.AuthHeader(token))
	w := httptest.NewRecorder()
	middleware.RequireAuth(db, cfg.JWTSecret, handler.GetMe)(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var account models.Account
	testutil.AssertJSON(t, w, &account)
	if account.Email != "alice@example.com" || account.Role != models.RoleParticipant {
		t.Errorf("account = %+v", account)
	}

	// Role changes are visible on the next load, not the next login
	if _, err := db.Exec(`UPDATE account SET role = 'contestCreator' WHERE email = 'alice@example.com'`); err != nil {
		t.Fatalf("Failed to update role: %v", err)
	}

	req = testutil.MakeRequest("GET", "/users/me", nil, testutil.AuthHeader(token))
	w = httptest.NewRecorder()
	middleware.RequireAuth(db, cfg.JWTSecret, handler.GetMe)(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &account)
	if account.Role != models.RoleCreator {
		t.Errorf("role = %s, want contestCreator after upgrade", account.Role)
	}
}

func TestCreatorRequestFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)
	aliceToken := testutil.CreateTestAccount(t, db, cfg, "alice@example.com", "Alice", models.RoleParticipant)
	adminToken := testutil.CreateTestAccount(t, db, cfg, "admin@example.com", "Admin", models.RoleAdmin)

	request := middleware.RequireRole(db, cfg.JWTSecret, models.RoleParticipant, handler.RequestCreator)
	list := middleware.RequireRole(db, cfg.JWTSecret, models.RoleAdmin, handler.ListCreatorRequests)
	updateRole := middleware.RequireRole(db, cfg.JWTSecret, models.RoleAdmin, handler.UpdateRole)

	// Participant asks for creator access
	req := testutil.MakeRequest("POST", "/creator-requests", nil, testutil.AuthHeader(aliceToken))
	w := httptest.NewRecorder()
	request(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Duplicate ask is rejected
	req = testutil.MakeRequest("POST", "/creator-requests", nil, testutil.AuthHeader(aliceToken))
	w = httptest.NewRecorder()
	request(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Admin sees the pending request
	req = testutil.MakeRequest("GET", "/creator-requests", nil, testutil.AuthHeader(adminToken))
	w = httptest.NewRecorder()
	list(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var requests []models.CreatorRequest
	testutil.AssertJSON(t, w, &requests)
	if len(requests) != 1 || requests[0].Email != "alice@example.com" {
		t.Fatalf("requests = %+v", requests)
	}

	// Admin approves: role flips and the request is consumed
	req = testutil.MakeRequest("PATCH", "/users/alice@example.com/role",
		models.UpdateRoleRequest{Role: "contestCreator"}, testutil.AuthHeader(adminToken))
	req.SetPathValue("email", "alice@example.com")
	w = httptest.NewRecorder()
	updateRole(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var role string
	db.QueryRow(`SELECT role FROM account WHERE email = 'alice@example.com'`).Scan(&role)
	if role != string(models.RoleCreator) {
		t.Errorf("role = %s, want contestCreator", role)
	}

	var pending int
	db.QueryRow(`SELECT COUNT(*) FROM creator_request`).Scan(&pending)
	if pending != 0 {
		t.Errorf("creator_request rows = %d, want 0 after approval", pending)
	}
}

func TestUpdateRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)
	testutil.CreateTestAccount(t, db, cfg, "alice@example.com", "Alice", models.RoleParticipant)
	adminToken := testutil.CreateTestAccount(t, db, cfg, "admin@example.com", "Admin", models.RoleAdmin)

	wrapped := middleware.RequireRole(db, cfg.JWTSecret, models.RoleAdmin, handler.UpdateRole)

	roleReq := func(email, role string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PATCH", "/users/"+email+"/role",
			models.UpdateRoleRequest{Role: role}, testutil.AuthHeader(adminToken))
		req.SetPathValue("email", email)
		w := httptest.NewRecorder()
		wrapped(w, req)
		return w
	}

	t.Run("invalid role", func(t *testing.T) {
		testutil.AssertStatus(t, roleReq("alice@example.com", "superuser"), http.StatusBadRequest)
	})

	t.Run("unknown account", func(t *testing.T) {
		testutil.AssertStatus(t, roleReq("nobody@example.com", "admin"), http.StatusNotFound)
	})

	t.Run("admin cannot demote themself", func(t *testing.T) {
		testutil.AssertStatus(t, roleReq("admin@example.com", "participant"), http.StatusConflict)
	})

	t.Run("promote to admin", func(t *testing.T) {
		testutil.AssertStatus(t, roleReq("alice@example.com", "admin"), http.StatusOK)
	})
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)
	testutil.CreateTestAccount(t, db, cfg, "alice@example.com", "Alice", models.RoleParticipant)
	testutil.CreateTestAccount(t, db, cfg, "creator@example.com", "Creator", models.RoleCreator)
	adminToken := testutil.CreateTestAccount(t, db, cfg, "admin@example.com", "Admin", models.RoleAdmin)

	req := testutil.MakeRequest("GET", "/users", nil, testutil.AuthHeader(adminToken))
	w := httptest.NewRecorder()
	middleware.RequireRole(db, cfg.JWTSecret, models.RoleAdmin, handler.ListUsers)(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var accounts []models.Account
	testutil.AssertJSON(t, w, &accounts)
	if len(accounts) != 3 {
		t.Errorf("Expected 3 accounts, got %d", len(accounts))
	}
}
