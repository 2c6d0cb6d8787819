package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/pkg/database"
)

// dateList TIMESTAMPTZ 배열 대신 JSONB로 저장되는 희망 날짜 목록
type dateList []time.Time

func (d dateList) value() (interface{}, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal([]time.Time(d))
}

func (d *dateList) scan(raw []byte) error {
	if len(raw) == 0 {
		*d = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]time.Time)(d))
}

const challengeColumns = `id, challenge_type, challenger_id, defender_id, status,
	       entry_fee, race_length, game_type, table_size, preferred_dates,
	       counter_entry_fee, counter_race_length, counter_game_type, counter_table_size, counter_preferred_dates,
	       agreed_date, deadline, message, response_note, accepted_at,
	       cancel_reason, cancelled_by, cancelled_at,
	       is_admin_created, created_at, updated_at`

func scanChallenge(row rowScanner) (*models.Challenge, error) {
	c := &models.Challenge{}
	var (
		preferredRaw        []byte
		counterEntryFee     sql.NullInt64
		counterRaceLength   sql.NullInt64
		counterGameType     sql.NullString
		counterTableSize    sql.NullString
		counterPreferredRaw []byte
	)

	err := row.Scan(
		&c.ID,
		&c.Type,
		&c.ChallengerID,
		&c.DefenderID,
		&c.Status,
		&c.Terms.EntryFee,
		&c.Terms.RaceLength,
		&c.Terms.GameType,
		&c.Terms.TableSize,
		&preferredRaw,
		&counterEntryFee,
		&counterRaceLength,
		&counterGameType,
		&counterTableSize,
		&counterPreferredRaw,
		&c.AgreedDate,
		&c.Deadline,
		&c.Message,
		&c.ResponseNote,
		&c.AcceptedAt,
		&c.CancelReason,
		&c.CancelledBy,
		&c.CancelledAt,
		&c.IsAdminCreated,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var preferred dateList
	if err := preferred.scan(preferredRaw); err != nil {
		return nil, fmt.Errorf("failed to decode preferred dates: %w", err)
	}
	c.Terms.PreferredDates = preferred

	if counterEntryFee.Valid {
		var counterPreferred dateList
		if err := counterPreferred.scan(counterPreferredRaw); err != nil {
			return nil, fmt.Errorf("failed to decode counter preferred dates: %w", err)
		}
		c.CounterTerms = &models.MatchTerms{
			EntryFee:       int(counterEntryFee.Int64),
			RaceLength:     int(counterRaceLength.Int64),
			GameType:       models.GameType(counterGameType.String),
			TableSize:      models.TableSize(counterTableSize.String),
			PreferredDates: counterPreferred,
		}
	}

	return c, nil
}

type ChallengeRepository struct {
	db *database.DB
}

func NewChallengeRepository(db *database.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Create 새 도전 생성
func (r *ChallengeRepository) Create(c *models.Challenge) (*models.Challenge, error) {
	query := `
		INSERT INTO challenges (challenge_type, challenger_id, defender_id, status,
		                        entry_fee, race_length, game_type, table_size, preferred_dates,
		                        deadline, message, is_admin_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + challengeColumns

	preferred, err := dateList(c.Terms.PreferredDates).value()
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferred dates: %w", err)
	}

	created, err := scanChallenge(r.db.QueryRow(query,
		c.Type,
		c.ChallengerID,
		c.DefenderID,
		c.Status,
		c.Terms.EntryFee,
		c.Terms.RaceLength,
		c.Terms.GameType,
		c.Terms.TableSize,
		preferred,
		c.Deadline,
		c.Message,
		c.IsAdminCreated,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return created, nil
}

// FindByID ID로 도전 찾기
func (r *ChallengeRepository) FindByID(id string) (*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`

	challenge, err := scanChallenge(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find challenge: %w", err)
	}

	return challenge, nil
}

// FindActiveForPlayer 플레이어의 미해결 도전 목록
func (r *ChallengeRepository) FindActiveForPlayer(playerID string) ([]*models.Challenge, error) {
	query := `
		SELECT ` + challengeColumns + `
		FROM challenges
		WHERE (challenger_id = $1 OR defender_id = $1)
		  AND status IN ('pending', 'counter-proposed', 'accepted', 'scheduled')
		ORDER BY created_at DESC
	`

	return r.queryChallenges(query, playerID)
}

// FindPendingForDefender 수비자 기준 pending 도전 목록
func (r *ChallengeRepository) FindPendingForDefender(defenderID string) ([]*models.Challenge, error) {
	query := `
		SELECT ` + challengeColumns + `
		FROM challenges
		WHERE defender_id = $1 AND status IN ('pending', 'counter-proposed')
		ORDER BY created_at DESC
	`

	return r.queryChallenges(query, defenderID)
}

// FindSentByChallenger 도전자가 보낸 미해결 도전 목록
func (r *ChallengeRepository) FindSentByChallenger(challengerID string) ([]*models.Challenge, error) {
	query := `
		SELECT ` + challengeColumns + `
		FROM challenges
		WHERE challenger_id = $1
		  AND status IN ('pending', 'counter-proposed', 'accepted', 'scheduled')
		ORDER BY created_at DESC
	`

	return r.queryChallenges(query, challengerID)
}

// FindOpenBetween 같은 두 플레이어 사이의 살아 있는 미해결 도전 찾기 (중복 생성 방지)
// pending은 게으른 만료 대상이라 열린 행을 전부 읽어 firstUnresolved로 거른다.
func (r *ChallengeRepository) FindOpenBetween(playerA, playerB string, now time.Time) (*models.Challenge, error) {
	query := `
		SELECT ` + challengeColumns + `
		FROM challenges
		WHERE ((challenger_id = $1 AND defender_id = $2) OR (challenger_id = $2 AND defender_id = $1))
		  AND status IN ('pending', 'counter-proposed', 'accepted', 'scheduled')
		ORDER BY created_at DESC
	`

	open, err := r.queryChallenges(query, playerA, playerB)
	if err != nil {
		return nil, fmt.Errorf("failed to find open challenge: %w", err)
	}

	return firstUnresolved(open, now), nil
}

// firstUnresolved 열린 도전 중 아직 유효한 첫 번째를 고른다.
// 데드라인이 지난 pending은 만료된 것으로 보고 새 도전을 막지 않는다.
func firstUnresolved(challenges []*models.Challenge, now time.Time) *models.Challenge {
	for _, c := range challenges {
		if c.Status == models.ChallengeStatusPending && c.IsExpired(now) {
			continue
		}
		return c
	}
	return nil
}

// Accept 도전 수락 (합의 날짜가 있으면 바로 scheduled)
func (r *ChallengeRepository) Accept(id string, status models.ChallengeStatus, note *string, agreedDate *time.Time) error {
	query := `
		UPDATE challenges
		SET status = $1,
		    response_note = $2,
		    agreed_date = $3,
		    accepted_at = NOW(),
		    updated_at = NOW()
		WHERE id = $4
	`

	if _, err := r.db.Exec(query, status, note, agreedDate, id); err != nil {
		return fmt.Errorf("failed to accept challenge: %w", err)
	}

	return nil
}

// Decline 도전 거절
func (r *ChallengeRepository) Decline(id string, note *string) error {
	query := `
		UPDATE challenges
		SET status = 'declined', response_note = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := r.db.Exec(query, note, id); err != nil {
		return fmt.Errorf("failed to decline challenge: %w", err)
	}

	return nil
}

// SetCounterTerms 역제안 조건 저장 및 counter-proposed 전환
func (r *ChallengeRepository) SetCounterTerms(id string, terms models.MatchTerms) error {
	query := `
		UPDATE challenges
		SET status = 'counter-proposed',
		    counter_entry_fee = $1,
		    counter_race_length = $2,
		    counter_game_type = $3,
		    counter_table_size = $4,
		    counter_preferred_dates = $5,
		    updated_at = NOW()
		WHERE id = $6
	`

	preferred, err := dateList(terms.PreferredDates).value()
	if err != nil {
		return fmt.Errorf("failed to encode counter preferred dates: %w", err)
	}

	_, err = r.db.Exec(query, terms.EntryFee, terms.RaceLength, terms.GameType, terms.TableSize,
		preferred, id)
	if err != nil {
		return fmt.Errorf("failed to set counter terms: %w", err)
	}

	return nil
}

// AmendTerms 원 도전 조건을 교체하고 상태 전환 (역제안 수락 경로)
func (r *ChallengeRepository) AmendTerms(id string, terms models.MatchTerms, status models.ChallengeStatus, agreedDate *time.Time) error {
	query := `
		UPDATE challenges
		SET status = $1,
		    entry_fee = $2,
		    race_length = $3,
		    game_type = $4,
		    table_size = $5,
		    preferred_dates = $6,
		    agreed_date = $7,
		    accepted_at = NOW(),
		    updated_at = NOW()
		WHERE id = $8
	`

	preferred, err := dateList(terms.PreferredDates).value()
	if err != nil {
		return fmt.Errorf("failed to encode preferred dates: %w", err)
	}

	_, err = r.db.Exec(query, status, terms.EntryFee, terms.RaceLength, terms.GameType, terms.TableSize,
		preferred, agreedDate, id)
	if err != nil {
		return fmt.Errorf("failed to amend challenge terms: %w", err)
	}

	return nil
}

// Cancel 도전 취소 (사유와 행위자 기록)
func (r *ChallengeRepository) Cancel(id, actorID, reason string) error {
	query := `
		UPDATE challenges
		SET status = 'cancelled',
		    cancel_reason = $1,
		    cancelled_by = $2,
		    cancelled_at = NOW(),
		    updated_at = NOW()
		WHERE id = $3
	`

	if _, err := r.db.Exec(query, reason, actorID, id); err != nil {
		return fmt.Errorf("failed to cancel challenge: %w", err)
	}

	return nil
}

// Forfeit 몰수 처리
func (r *ChallengeRepository) Forfeit(id, actorID, reason string) error {
	query := `
		UPDATE challenges
		SET status = 'forfeited',
		    cancel_reason = $1,
		    cancelled_by = $2,
		    cancelled_at = NOW(),
		    updated_at = NOW()
		WHERE id = $3
	`

	if _, err := r.db.Exec(query, reason, actorID, id); err != nil {
		return fmt.Errorf("failed to forfeit challenge: %w", err)
	}

	return nil
}

// UpdateStatusTx 트랜잭션 안에서 상태 전환 (매치 해결/되돌리기 경로)
func (r *ChallengeRepository) UpdateStatusTx(tx *sql.Tx, id string, status models.ChallengeStatus) error {
	query := `UPDATE challenges SET status = $1, updated_at = NOW() WHERE id = $2`

	if _, err := tx.Exec(query, status, id); err != nil {
		return fmt.Errorf("failed to update challenge status: %w", err)
	}

	return nil
}

func (r *ChallengeRepository) queryChallenges(query string, args ...interface{}) ([]*models.Challenge, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, challenge)
	}

	return challenges, nil
}
