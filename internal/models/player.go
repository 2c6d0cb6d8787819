package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Player struct {
	ID         string  `json:"id" db:"id"`
	FirstName  string  `json:"firstName" db:"first_name"`
	LastName   string  `json:"lastName" db:"last_name"`
	Email      *string `json:"email,omitempty" db:"email"`
	PINHash    *string `json:"-" db:"pin_hash"` // JSON에서 숨김
	LadderName string  `json:"ladderName" db:"ladder_name"`
	Position   int     `json:"position" db:"position"`
	Rating     int     `json:"rating" db:"rating"`

	Wins         int `json:"wins" db:"wins"`
	Losses       int `json:"losses" db:"losses"`
	TotalMatches int `json:"totalMatches" db:"total_matches"`

	IsActive         bool       `json:"isActive" db:"is_active"`
	IsSuspended      bool       `json:"isSuspended" db:"is_suspended"`
	SuspensionReason *string    `json:"suspensionReason,omitempty" db:"suspension_reason"`
	SuspendedUntil   *time.Time `json:"suspendedUntil,omitempty" db:"suspended_until"`
	VacationMode     bool       `json:"vacationMode" db:"vacation_mode"`
	VacationUntil    *time.Time `json:"vacationUntil,omitempty" db:"vacation_until"`
	ImmunityUntil    *time.Time `json:"immunityUntil,omitempty" db:"immunity_until"`

	IsAdmin   bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName 전체 이름
func (p *Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

// WinPercentage 승률 (%)
func (p *Player) WinPercentage() int {
	if p.TotalMatches == 0 {
		return 0
	}
	return int(float64(p.Wins)/float64(p.TotalMatches)*100 + 0.5)
}

// OnVacation 휴가 모드 여부
func (p *Player) OnVacation(now time.Time) bool {
	return p.VacationMode && (p.VacationUntil == nil || p.VacationUntil.After(now))
}

// HasImmunity 면책 기간 여부 (이 기간 동안은 도전받지 않음)
func (p *Player) HasImmunity(now time.Time) bool {
	return p.ImmunityUntil != nil && p.ImmunityUntil.After(now)
}

// CanBeChallenged 도전받을 수 있는지 확인
func (p *Player) CanBeChallenged(now time.Time) bool {
	if !p.IsActive || p.IsSuspended {
		return false
	}
	if p.OnVacation(now) {
		return false
	}
	if p.HasImmunity(now) {
		return false
	}
	return true
}

// CanChallenge 도전을 시작할 수 있는지 확인
// 면책은 도전받는 것만 막고, 도전하는 것은 막지 않는다.
func (p *Player) CanChallenge(now time.Time) bool {
	if !p.IsActive || p.IsSuspended {
		return false
	}
	if p.OnVacation(now) {
		return false
	}
	return true
}

// HashPIN PIN 해싱
func HashPIN(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPIN PIN 검증
func (p *Player) CheckPIN(pin string) bool {
	if p.PINHash == nil {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(*p.PINHash), []byte(pin))
	return err == nil
}

type CreatePlayerRequest struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Email     *string `json:"email"`
	PIN       *string `json:"pin"`
	Rating    int     `json:"rating" binding:"required"`
}

type RatingUpdate struct {
	Email  string `json:"email" binding:"required"`
	Rating int    `json:"rating" binding:"required"`
}
