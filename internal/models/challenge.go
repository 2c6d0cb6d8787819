package models

import "time"

type ChallengeType string

const (
	ChallengeTypeStandard   ChallengeType = "challenge"
	ChallengeTypeLadderJump ChallengeType = "ladder-jump"
	ChallengeTypeSmackdown  ChallengeType = "smackdown"
	ChallengeTypeSmackback  ChallengeType = "smackback"
)

// ValidChallengeType 허용된 도전 타입인지 확인
func ValidChallengeType(t ChallengeType) bool {
	switch t {
	case ChallengeTypeStandard, ChallengeTypeLadderJump, ChallengeTypeSmackdown, ChallengeTypeSmackback:
		return true
	}
	return false
}

type ChallengeStatus string

const (
	ChallengeStatusPending         ChallengeStatus = "pending"
	ChallengeStatusCounterProposed ChallengeStatus = "counter-proposed"
	ChallengeStatusAccepted        ChallengeStatus = "accepted"
	ChallengeStatusScheduled       ChallengeStatus = "scheduled"
	ChallengeStatusCompleted       ChallengeStatus = "completed"
	ChallengeStatusDeclined        ChallengeStatus = "declined"
	ChallengeStatusCancelled       ChallengeStatus = "cancelled"
	ChallengeStatusForfeited       ChallengeStatus = "forfeited"
)

type GameType string

const (
	GameTypeEightBall GameType = "8-ball"
	GameTypeNineBall  GameType = "9-ball"
	GameTypeTenBall   GameType = "10-ball"
	GameTypeMixed     GameType = "mixed"
)

func ValidGameType(g GameType) bool {
	switch g {
	case GameTypeEightBall, GameTypeNineBall, GameTypeTenBall, GameTypeMixed:
		return true
	}
	return false
}

type TableSize string

const (
	TableSizeSevenFoot TableSize = "7-foot"
	TableSizeNineFoot  TableSize = "9-foot"
)

func ValidTableSize(t TableSize) bool {
	return t == TableSizeSevenFoot || t == TableSizeNineFoot
}

// MatchTerms 양측이 합의해야 하는 경기 조건
type MatchTerms struct {
	EntryFee       int         `json:"entryFee"`
	RaceLength     int         `json:"raceLength"`
	GameType       GameType    `json:"gameType"`
	TableSize      TableSize   `json:"tableSize"`
	PreferredDates []time.Time `json:"preferredDates,omitempty"`
}

type Challenge struct {
	ID           string          `json:"id" db:"id"`
	Type         ChallengeType   `json:"type" db:"challenge_type"`
	ChallengerID string          `json:"challengerId" db:"challenger_id"`
	DefenderID   string          `json:"defenderId" db:"defender_id"`
	Status       ChallengeStatus `json:"status" db:"status"`

	Terms        MatchTerms  `json:"terms"`
	CounterTerms *MatchTerms `json:"counterTerms,omitempty"`
	AgreedDate   *time.Time  `json:"agreedDate,omitempty" db:"agreed_date"`

	// 데드라인 이후의 pending 도전은 수락/거절 불가 (상태는 그대로 유지)
	Deadline time.Time `json:"deadline" db:"deadline"`

	Message      *string    `json:"message,omitempty" db:"message"`
	ResponseNote *string    `json:"responseNote,omitempty" db:"response_note"`
	AcceptedAt   *time.Time `json:"acceptedAt,omitempty" db:"accepted_at"`

	CancelReason *string    `json:"cancelReason,omitempty" db:"cancel_reason"`
	CancelledBy  *string    `json:"cancelledBy,omitempty" db:"cancelled_by"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty" db:"cancelled_at"`

	IsAdminCreated bool      `json:"isAdminCreated" db:"is_admin_created"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// IsExpired 데드라인이 지났는지 확인
func (c *Challenge) IsExpired(now time.Time) bool {
	return now.After(c.Deadline)
}

// IsTerminal 종료 상태인지 확인
func (c *Challenge) IsTerminal() bool {
	switch c.Status {
	case ChallengeStatusCompleted, ChallengeStatusDeclined, ChallengeStatusCancelled, ChallengeStatusForfeited:
		return true
	}
	return false
}

// CanBeAccepted 수락 가능한지 확인 (pending & 데드라인 전)
func (c *Challenge) CanBeAccepted(now time.Time) bool {
	return c.Status == ChallengeStatusPending && !c.IsExpired(now)
}

// CanBeDeclined 거절 가능한지 확인
func (c *Challenge) CanBeDeclined(now time.Time) bool {
	return c.Status == ChallengeStatusPending && !c.IsExpired(now)
}

// CanBeCountered 역제안 가능한지 확인
func (c *Challenge) CanBeCountered(now time.Time) bool {
	return c.Status == ChallengeStatusPending && !c.IsExpired(now)
}

// OpponentOf 상대 플레이어 ID 반환
func (c *Challenge) OpponentOf(playerID string) string {
	if c.ChallengerID == playerID {
		return c.DefenderID
	}
	return c.ChallengerID
}

// CanBeCancelled 취소 가능한지 확인
func (c *Challenge) CanBeCancelled() bool {
	switch c.Status {
	case ChallengeStatusPending, ChallengeStatusCounterProposed, ChallengeStatusAccepted:
		return true
	}
	return false
}

type CreateChallengeRequest struct {
	ChallengerID   string        `json:"challengerId" binding:"required"`
	DefenderID     string        `json:"defenderId" binding:"required"`
	Type           ChallengeType `json:"type" binding:"required"`
	EntryFee       int           `json:"entryFee" binding:"required"`
	RaceLength     int           `json:"raceLength" binding:"required"`
	GameType       GameType      `json:"gameType"`
	TableSize      TableSize     `json:"tableSize"`
	PreferredDates []time.Time   `json:"preferredDates"`
	Message        *string       `json:"message"`
}

type CounterProposalRequest struct {
	EntryFee       int         `json:"entryFee" binding:"required"`
	RaceLength     int         `json:"raceLength" binding:"required"`
	GameType       GameType    `json:"gameType"`
	TableSize      TableSize   `json:"tableSize"`
	PreferredDates []time.Time `json:"preferredDates"`
}
