package models

import "fmt"

// Status is the contest lifecycle state.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusRejected  Status = "Rejected"
	StatusCompleted Status = "Completed"
)

// Role determines which views and actions an account can reach.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleCreator     Role = "contestCreator"
	RoleAdmin       Role = "admin"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleParticipant, RoleCreator, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
// Pending may move to Confirmed or Rejected; Confirmed only to Completed
// (via winner declaration); Rejected and Completed are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusRejected
	case StatusConfirmed:
		return next == StatusCompleted
	case StatusRejected, StatusCompleted:
		return false
	}
	return false
}

// Editable reports whether the creator may still edit the contest.
func (s Status) Editable() bool {
	return s == StatusPending
}

// Deletable reports whether the creator may still delete the contest.
// Admin deletion is an override and is not governed by this predicate,
// except that Confirmed and Completed contests are never deletable.
func (s Status) Deletable() bool {
	return s == StatusPending
}

// AdminDeletable reports whether an admin override delete is allowed.
func (s Status) AdminDeletable() bool {
	return s != StatusConfirmed && s != StatusCompleted
}

// AcceptsRegistrations reports whether participants may pay to enter.
func (s Status) AcceptsRegistrations() bool {
	return s == StatusConfirmed
}

// AcceptsSubmissions reports whether registered participants may submit.
func (s Status) AcceptsSubmissions() bool {
	return s == StatusConfirmed
}

// PubliclyVisible reports whether participants can see the contest at all.
// Pending and Rejected contests exist only for their creator and admins.
func (s Status) PubliclyVisible() bool {
	return s == StatusConfirmed || s == StatusCompleted
}
