package models

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusRejected, false},
		{StatusConfirmed, StatusPending, false},
		{StatusRejected, StatusConfirmed, false},
		{StatusRejected, StatusCompleted, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusConfirmed, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestGuardPredicates(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusRejected, StatusCompleted} {
		if got, want := s.Editable(), s == StatusPending; got != want {
			t.Errorf("%s.Editable() = %v, want %v", s, got, want)
		}
		if got, want := s.Deletable(), s == StatusPending; got != want {
			t.Errorf("%s.Deletable() = %v, want %v", s, got, want)
		}
		if got, want := s.AcceptsRegistrations(), s == StatusConfirmed; got != want {
			t.Errorf("%s.AcceptsRegistrations() = %v, want %v", s, got, want)
		}
		if got, want := s.AcceptsSubmissions(), s == StatusConfirmed; got != want {
			t.Errorf("%s.AcceptsSubmissions() = %v, want %v", s, got, want)
		}
		if got, want := s.AdminDeletable(), s == StatusPending || s == StatusRejected; got != want {
			t.Errorf("%s.AdminDeletable() = %v, want %v", s, got, want)
		}
		if got, want := s.PubliclyVisible(), s == StatusConfirmed || s == StatusCompleted; got != want {
			t.Errorf("%s.PubliclyVisible() = %v, want %v", s, got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"Pending", "Confirmed", "Rejected", "Completed"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Errorf("ParseStatus(%q): unexpected error %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "pending", "Open", "confirmed", "Done"} {
		if _, err := ParseStatus(invalid); err == nil {
			t.Errorf("ParseStatus(%q): expected error", invalid)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"participant", "contestCreator", "admin"} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q): unexpected error %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Admin", "creator", "seller", "moderator"} {
		if _, err := ParseRole(invalid); err == nil {
			t.Errorf("ParseRole(%q): expected error", invalid)
		}
	}
}
