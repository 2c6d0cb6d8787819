package models

import (
	"testing"
	"time"
)

func TestChallenge_LazyExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expired := Challenge{
		Status:   ChallengeStatusPending,
		Deadline: now.Add(-time.Hour),
	}

	// Past-deadline challenges are no longer actionable but keep their
	// pending status; nothing flips them to an expired state.
	if expired.CanBeAccepted(now) {
		t.Error("expired challenge should not be acceptable")
	}
	if expired.CanBeDeclined(now) {
		t.Error("expired challenge should not be declinable")
	}
	if expired.CanBeCountered(now) {
		t.Error("expired challenge should not be counterable")
	}
	if expired.Status != ChallengeStatusPending {
		t.Errorf("expired challenge status = %q, want pending", expired.Status)
	}
	if !expired.IsExpired(now) {
		t.Error("IsExpired should report true past the deadline")
	}
}

func TestChallenge_CanBeAccepted(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)

	tests := []struct {
		name     string
		status   ChallengeStatus
		deadline time.Time
		expected bool
	}{
		{"Pending before deadline", ChallengeStatusPending, future, true},
		{"Pending past deadline", ChallengeStatusPending, now.Add(-time.Minute), false},
		{"Already accepted", ChallengeStatusAccepted, future, false},
		{"Counter-proposed", ChallengeStatusCounterProposed, future, false},
		{"Declined", ChallengeStatusDeclined, future, false},
		{"Completed", ChallengeStatusCompleted, future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Challenge{Status: tt.status, Deadline: tt.deadline}
			if got := c.CanBeAccepted(now); got != tt.expected {
				t.Errorf("CanBeAccepted() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestChallenge_CanBeCancelled(t *testing.T) {
	tests := []struct {
		status   ChallengeStatus
		expected bool
	}{
		{ChallengeStatusPending, true},
		{ChallengeStatusCounterProposed, true},
		{ChallengeStatusAccepted, true},
		{ChallengeStatusScheduled, false},
		{ChallengeStatusCompleted, false},
		{ChallengeStatusDeclined, false},
		{ChallengeStatusCancelled, false},
		{ChallengeStatusForfeited, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			c := Challenge{Status: tt.status}
			if got := c.CanBeCancelled(); got != tt.expected {
				t.Errorf("CanBeCancelled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestChallenge_IsTerminal(t *testing.T) {
	terminal := []ChallengeStatus{
		ChallengeStatusCompleted,
		ChallengeStatusDeclined,
		ChallengeStatusCancelled,
		ChallengeStatusForfeited,
	}
	for _, s := range terminal {
		c := Challenge{Status: s}
		if !c.IsTerminal() {
			t.Errorf("status %q should be terminal", s)
		}
	}

	open := []ChallengeStatus{
		ChallengeStatusPending,
		ChallengeStatusCounterProposed,
		ChallengeStatusAccepted,
		ChallengeStatusScheduled,
	}
	for _, s := range open {
		c := Challenge{Status: s}
		if c.IsTerminal() {
			t.Errorf("status %q should not be terminal", s)
		}
	}
}

func TestValidChallengeType(t *testing.T) {
	for _, valid := range []ChallengeType{
		ChallengeTypeStandard, ChallengeTypeLadderJump, ChallengeTypeSmackdown, ChallengeTypeSmackback,
	} {
		if !ValidChallengeType(valid) {
			t.Errorf("%q should be valid", valid)
		}
	}
	if ValidChallengeType("trickshot") {
		t.Error("unknown type should be invalid")
	}
}
