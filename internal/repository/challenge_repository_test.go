package repository

import (
	"testing"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
)

func TestFirstUnresolved(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expired := &models.Challenge{ID: "expired", Status: models.ChallengeStatusPending, Deadline: now.Add(-time.Hour)}
	livePending := &models.Challenge{ID: "live", Status: models.ChallengeStatusPending, Deadline: now.Add(time.Hour)}
	scheduled := &models.Challenge{ID: "scheduled", Status: models.ChallengeStatusScheduled, Deadline: now.Add(-48 * time.Hour)}

	tests := []struct {
		name       string
		challenges []*models.Challenge
		want       string
	}{
		{"No open challenges", nil, ""},
		{"Only an expired pending", []*models.Challenge{expired}, ""},
		{"Expired pending does not shadow a live one", []*models.Challenge{expired, livePending}, "live"},
		{"Expired pending does not shadow a scheduled one", []*models.Challenge{expired, scheduled}, "scheduled"},
		{"Scheduled blocks even past its deadline", []*models.Challenge{scheduled}, "scheduled"},
		{"Live pending blocks", []*models.Challenge{livePending}, "live"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := firstUnresolved(tt.challenges, now)
			id := ""
			if got != nil {
				id = got.ID
			}
			if id != tt.want {
				t.Errorf("firstUnresolved() = %q, want %q", id, tt.want)
			}
		})
	}
}
