package models

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestPlayer_CanBeChallenged(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		player   Player
		expected bool
	}{
		{
			name:     "Active player",
			player:   Player{IsActive: true},
			expected: true,
		},
		{
			name:     "Inactive player",
			player:   Player{IsActive: false},
			expected: false,
		},
		{
			name:     "Suspended player",
			player:   Player{IsActive: true, IsSuspended: true},
			expected: false,
		},
		{
			name:     "On vacation",
			player:   Player{IsActive: true, VacationMode: true, VacationUntil: timePtr(now.Add(48 * time.Hour))},
			expected: false,
		},
		{
			name:     "Vacation expired",
			player:   Player{IsActive: true, VacationMode: true, VacationUntil: timePtr(now.Add(-time.Hour))},
			expected: true,
		},
		{
			name:     "Under immunity",
			player:   Player{IsActive: true, ImmunityUntil: timePtr(now.Add(24 * time.Hour))},
			expected: false,
		},
		{
			name:     "Immunity expired",
			player:   Player{IsActive: true, ImmunityUntil: timePtr(now.Add(-time.Minute))},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.player.CanBeChallenged(now); got != tt.expected {
				t.Errorf("CanBeChallenged() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPlayer_CanChallenge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Immunity blocks being challenged, not challenging
	immune := Player{IsActive: true, ImmunityUntil: timePtr(now.Add(24 * time.Hour))}
	if !immune.CanChallenge(now) {
		t.Error("immune player should still be able to initiate challenges")
	}
	if immune.CanBeChallenged(now) {
		t.Error("immune player should not be challengeable")
	}

	suspended := Player{IsActive: true, IsSuspended: true}
	if suspended.CanChallenge(now) {
		t.Error("suspended player should not be able to challenge")
	}

	vacationing := Player{IsActive: true, VacationMode: true, VacationUntil: timePtr(now.Add(time.Hour))}
	if vacationing.CanChallenge(now) {
		t.Error("vacationing player should not be able to challenge")
	}
}

func TestPlayer_WinPercentage(t *testing.T) {
	tests := []struct {
		name     string
		player   Player
		expected int
	}{
		{"No matches", Player{}, 0},
		{"All wins", Player{Wins: 5, TotalMatches: 5}, 100},
		{"Half wins", Player{Wins: 3, Losses: 3, TotalMatches: 6}, 50},
		{"Rounded up", Player{Wins: 2, Losses: 1, TotalMatches: 3}, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.player.WinPercentage(); got != tt.expected {
				t.Errorf("WinPercentage() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestPlayer_CheckPIN(t *testing.T) {
	hash, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("HashPIN failed: %v", err)
	}

	player := Player{PINHash: &hash}
	if !player.CheckPIN("1234") {
		t.Error("correct PIN should verify")
	}
	if player.CheckPIN("4321") {
		t.Error("wrong PIN should not verify")
	}

	noPIN := Player{}
	if noPIN.CheckPIN("1234") {
		t.Error("player without a PIN should never verify")
	}
}
