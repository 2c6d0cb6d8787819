package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/pkg/database"
)

const matchColumns = `id, challenge_id, match_type, challenger_id, defender_id,
	       challenger_ladder, defender_ladder,
	       challenger_old_position, challenger_new_position,
	       defender_old_position, defender_new_position,
	       status, winner_id, loser_id, score, immunity_granted,
	       scheduled_date, completed_at, reported_by, venue, created_at`

func scanMatch(row rowScanner) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID,
		&m.ChallengeID,
		&m.Type,
		&m.ChallengerID,
		&m.DefenderID,
		&m.ChallengerLadder,
		&m.DefenderLadder,
		&m.ChallengerOldPosition,
		&m.ChallengerNewPosition,
		&m.DefenderOldPosition,
		&m.DefenderNewPosition,
		&m.Status,
		&m.WinnerID,
		&m.LoserID,
		&m.Score,
		&m.ImmunityGranted,
		&m.ScheduledDate,
		&m.CompletedAt,
		&m.ReportedBy,
		&m.Venue,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

type MatchRepository struct {
	db *database.DB
}

func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create 수락된 도전으로부터 scheduled 매치 생성
func (r *MatchRepository) Create(challenge *models.Challenge, challengerLadder, defenderLadder string, scheduledDate time.Time) (*models.Match, error) {
	query := `
		INSERT INTO matches (challenge_id, match_type, challenger_id, defender_id,
		                     challenger_ladder, defender_ladder, status, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6, 'scheduled', $7)
		RETURNING ` + matchColumns

	match, err := scanMatch(r.db.QueryRow(query,
		challenge.ID,
		challenge.Type,
		challenge.ChallengerID,
		challenge.DefenderID,
		challengerLadder,
		defenderLadder,
		scheduledDate,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	return match, nil
}

// FindByID ID로 매치 찾기
func (r *MatchRepository) FindByID(id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match: %w", err)
	}

	return match, nil
}

// FindByChallengeID 도전에 연결된 매치 찾기
func (r *MatchRepository) FindByChallengeID(challengeID string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE challenge_id = $1`

	match, err := scanMatch(r.db.QueryRow(query, challengeID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match by challenge: %w", err)
	}

	return match, nil
}

// FindRecent 최근 완료된 매치 목록
func (r *MatchRepository) FindRecent(limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = 'completed'
		ORDER BY completed_at DESC
		LIMIT $1
	`

	return r.queryMatches(query, limit)
}

// FindByPlayer 플레이어가 참가한 매치 목록 (최신순)
func (r *MatchRepository) FindByPlayer(playerID string, limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE challenger_id = $1 OR defender_id = $1
		ORDER BY scheduled_date DESC
		LIMIT $2
	`

	return r.queryMatches(query, playerID, limit)
}

// FindScheduled 아직 결과가 보고되지 않은 매치 목록
func (r *MatchRepository) FindScheduled() ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = 'scheduled'
		ORDER BY scheduled_date ASC
	`

	return r.queryMatches(query)
}

// WonSmackdownAsDefenderSince 수비자로서 이긴 스맥다운 매치가 since 이후 있는지 확인
// 스맥백 도전 자격의 근거가 된다.
func (r *MatchRepository) WonSmackdownAsDefenderSince(playerID string, since time.Time) (bool, error) {
	var earned bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM matches
			WHERE match_type = 'smackdown'
			  AND status = 'completed'
			  AND defender_id = $1
			  AND winner_id = $1
			  AND completed_at >= $2
		)
	`

	if err := r.db.QueryRow(query, playerID, since).Scan(&earned); err != nil {
		return false, fmt.Errorf("failed to check recent smackdown win: %w", err)
	}

	return earned, nil
}

// CompleteTx 결과와 전후 포지션 스냅샷을 한번에 기록
func (r *MatchRepository) CompleteTx(tx *sql.Tx, m *models.Match) error {
	query := `
		UPDATE matches
		SET status = 'completed',
		    winner_id = $1,
		    loser_id = $2,
		    score = $3,
		    immunity_granted = $4,
		    challenger_old_position = $5,
		    challenger_new_position = $6,
		    defender_old_position = $7,
		    defender_new_position = $8,
		    completed_at = NOW(),
		    reported_by = $9
		WHERE id = $10
	`

	_, err := tx.Exec(query,
		m.WinnerID,
		m.LoserID,
		m.Score,
		m.ImmunityGranted,
		m.ChallengerOldPosition,
		m.ChallengerNewPosition,
		m.DefenderOldPosition,
		m.DefenderNewPosition,
		m.ReportedBy,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete match: %w", err)
	}

	return nil
}

// DeleteTx 매치 삭제 (되돌리기 경로 전용)
func (r *MatchRepository) DeleteTx(tx *sql.Tx, id string) error {
	query := `DELETE FROM matches WHERE id = $1`

	if _, err := tx.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	return nil
}

// UpdateStatus 매치 상태 전환 (취소/몰수)
func (r *MatchRepository) UpdateStatus(id string, status models.MatchStatus) error {
	query := `UPDATE matches SET status = $1 WHERE id = $2`

	if _, err := r.db.Exec(query, status, id); err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}

	return nil
}

func (r *MatchRepository) queryMatches(query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, nil
}
