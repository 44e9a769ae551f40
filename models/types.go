package models

import "time"

// Request types

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PhotoURL string `json:"photo_url"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateContestRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	EntryFee    int       `json:"entry_fee"`
	PrizeMoney  int       `json:"prize_money"`
	Capacity    int       `json:"capacity"`
	Deadline    time.Time `json:"deadline"`
}

type UpdateContestRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	EntryFee    int       `json:"entry_fee"`
	PrizeMoney  int       `json:"prize_money"`
	Capacity    int       `json:"capacity"`
	Deadline    time.Time `json:"deadline"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type DeclareWinnerRequest struct {
	SubmissionID string `json:"submission_id"`
}

type SubmitTaskRequest struct {
	ContestID string `json:"contest_id"`
	Task      string `json:"task"`
}

type CreateCheckoutSessionRequest struct {
	ContestID string `json:"contest_id"`
}

type PaymentSuccessRequest struct {
	SessionID string `json:"session_id"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// Response types

type AuthResponse struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}

type CreateContestResponse struct {
	ContestID string `json:"contest_id"`
}

type SubmitTaskResponse struct {
	SubmissionID string `json:"submission_id"`
}

type CreateCheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	Amount    int    `json:"amount"`
}

type PaymentSuccessResponse struct {
	ContestID       string `json:"contest_id"`
	AlreadyRecorded bool   `json:"already_recorded"`
}

type DeclareWinnerResponse struct {
	Winner     Winner `json:"winner"`
	DeclaredAt string `json:"declared_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Domain types

type Account struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Winner struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	PhotoURL   *string    `json:"photo_url,omitempty"`
	DeclaredAt *time.Time `json:"declared_at,omitempty"`
}

type Contest struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	ImageURL     *string   `json:"image_url,omitempty"`
	EntryFee     int       `json:"entry_fee"`
	PrizeMoney   int       `json:"prize_money"`
	Capacity     int       `json:"capacity"`
	Deadline     time.Time `json:"deadline"`
	Status       Status    `json:"status"`
	CreatorEmail string    `json:"creator_email"`
	CreatorName  string    `json:"creator_name"`
	CreatorPhoto *string   `json:"creator_photo,omitempty"`
	Winner       *Winner   `json:"winner,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// ParticipantCount is derived from registrations, not stored.
	ParticipantCount int `json:"participant_count"`
}

type Submission struct {
	ID               string    `json:"id"`
	ContestID        string    `json:"contest_id"`
	ParticipantEmail string    `json:"participant_email"`
	ParticipantName  string    `json:"participant_name"`
	ParticipantPhoto *string   `json:"participant_photo,omitempty"`
	Task             string    `json:"task"`
	SubmittedAt      time.Time `json:"submitted_at"`

	// ContestName is joined in for the participant's own-submissions view.
	ContestName string `json:"contest_name,omitempty"`
}

type Registration struct {
	ContestID   string    `json:"contest_id"`
	ContestName string    `json:"contest_name"`
	Status      Status    `json:"status"`
	Deadline    time.Time `json:"deadline"`
	PaidAt      time.Time `json:"paid_at"`
	Submitted   bool      `json:"submitted"`
}

type CreatorRequest struct {
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Statistics types

type ParticipantStats struct {
	ParticipationCount int     `json:"participation_count"`
	WinCount           int     `json:"win_count"`
	WinRate            float64 `json:"win_rate"`
	ParticipatedRate   float64 `json:"participated_rate"`
}

type CreatorStats struct {
	TotalContests    int `json:"total_contests"`
	PendingCount     int `json:"pending_count"`
	ConfirmedCount   int `json:"confirmed_count"`
	RejectedCount    int `json:"rejected_count"`
	CompletedCount   int `json:"completed_count"`
	TotalSubmissions int `json:"total_submissions"`
	PrizeAwarded     int `json:"prize_awarded"`
}

type AdminStats struct {
	ParticipantCount int `json:"participant_count"`
	CreatorCount     int `json:"creator_count"`
	AdminCount       int `json:"admin_count"`
	PendingCount     int `json:"pending_count"`
	ConfirmedCount   int `json:"confirmed_count"`
	RejectedCount    int `json:"rejected_count"`
	CompletedCount   int `json:"completed_count"`
	FeesCollected    int `json:"fees_collected"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
