package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
	MatchStatusForfeited MatchStatus = "forfeited"
)

// Match 완료 시점의 전후 포지션을 함께 기록한다.
// Reversal은 이 스냅샷을 기준으로 정확한 역연산을 수행한다.
type Match struct {
	ID          string        `json:"id" db:"id"`
	ChallengeID string        `json:"challengeId" db:"challenge_id"`
	Type        ChallengeType `json:"type" db:"match_type"`

	ChallengerID     string `json:"challengerId" db:"challenger_id"`
	DefenderID       string `json:"defenderId" db:"defender_id"`
	ChallengerLadder string `json:"challengerLadder" db:"challenger_ladder"`
	DefenderLadder   string `json:"defenderLadder" db:"defender_ladder"`

	ChallengerOldPosition *int `json:"challengerOldPosition,omitempty" db:"challenger_old_position"`
	ChallengerNewPosition *int `json:"challengerNewPosition,omitempty" db:"challenger_new_position"`
	DefenderOldPosition   *int `json:"defenderOldPosition,omitempty" db:"defender_old_position"`
	DefenderNewPosition   *int `json:"defenderNewPosition,omitempty" db:"defender_new_position"`

	Status          MatchStatus `json:"status" db:"status"`
	WinnerID        *string     `json:"winnerId,omitempty" db:"winner_id"`
	LoserID         *string     `json:"loserId,omitempty" db:"loser_id"`
	Score           *string     `json:"score,omitempty" db:"score"`
	ImmunityGranted bool        `json:"immunityGranted" db:"immunity_granted"`

	ScheduledDate time.Time  `json:"scheduledDate" db:"scheduled_date"`
	CompletedAt   *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	ReportedBy    *string    `json:"reportedBy,omitempty" db:"reported_by"`
	Venue         *string    `json:"venue,omitempty" db:"venue"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// Participant 매치 참가자인지 확인
func (m *Match) Participant(playerID string) bool {
	return m.ChallengerID == playerID || m.DefenderID == playerID
}

// OpponentOf 상대 플레이어 ID 반환
func (m *Match) OpponentOf(playerID string) string {
	if m.ChallengerID == playerID {
		return m.DefenderID
	}
	return m.ChallengerID
}

type ReportMatchResultRequest struct {
	WinnerID string `json:"winnerId" binding:"required"`
	Score    string `json:"score" binding:"required"`
	Notes    string `json:"notes"`
}
