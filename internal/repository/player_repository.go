package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/pkg/database"
)

const playerColumns = `id, first_name, last_name, email, pin_hash, ladder_name, position, rating,
	       wins, losses, total_matches,
	       is_active, is_suspended, suspension_reason, suspended_until,
	       vacation_mode, vacation_until, immunity_until,
	       is_admin, created_at, updated_at`

// PositionChange 단일 플레이어의 포지션 변경
type PositionChange struct {
	PlayerID    string
	NewPosition int
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	p := &models.Player{}
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.PINHash,
		&p.LadderName,
		&p.Position,
		&p.Rating,
		&p.Wins,
		&p.Losses,
		&p.TotalMatches,
		&p.IsActive,
		&p.IsSuspended,
		&p.SuspensionReason,
		&p.SuspendedUntil,
		&p.VacationMode,
		&p.VacationUntil,
		&p.ImmunityUntil,
		&p.IsAdmin,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type PlayerRepository struct {
	db *database.DB
}

func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create 새 플레이어 생성
func (r *PlayerRepository) Create(firstName, lastName string, email, pinHash *string, ladderName string, position, rating int) (*models.Player, error) {
	query := `
		INSERT INTO players (first_name, last_name, email, pin_hash, ladder_name, position, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + playerColumns

	player, err := scanPlayer(r.db.QueryRow(query, firstName, lastName, email, pinHash, ladderName, position, rating))
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

// FindByID ID로 플레이어 찾기
func (r *PlayerRepository) FindByID(id string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player, err := scanPlayer(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find player: %w", err)
	}

	return player, nil
}

// FindByEmail 이메일로 활성 플레이어 찾기
func (r *PlayerRepository) FindByEmail(email string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE lower(email) = lower($1) AND is_active = true`

	player, err := scanPlayer(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find player by email: %w", err)
	}

	return player, nil
}

// FindByLadder 래더의 활성 플레이어 조회 (포지션 오름차순)
func (r *PlayerRepository) FindByLadder(ladderName string) ([]*models.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE ladder_name = $1 AND is_active = true
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, ladderName)
	if err != nil {
		return nil, fmt.Errorf("failed to query ladder players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	return players, nil
}

// FindAll 모든 활성 플레이어 조회 (래더, 포지션 순)
func (r *PlayerRepository) FindAll() ([]*models.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE is_active = true
		ORDER BY ladder_name ASC, position ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	return players, nil
}

// MaxPosition 래더의 가장 낮은 (최악) 포지션
func (r *PlayerRepository) MaxPosition(ladderName string) (int, error) {
	var max sql.NullInt64
	query := `SELECT MAX(position) FROM players WHERE ladder_name = $1 AND is_active = true`

	if err := r.db.QueryRow(query, ladderName).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max position: %w", err)
	}

	return int(max.Int64), nil
}

// FindAboveRating 밴드 상한을 넘긴 활성 플레이어 조회 (승격 후보)
func (r *PlayerRepository) FindAboveRating(ladderName string, ceiling int) ([]*models.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE ladder_name = $1 AND is_active = true AND rating > $2
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, ladderName, ceiling)
	if err != nil {
		return nil, fmt.Errorf("failed to query promotion candidates: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	return players, nil
}

// UpdateRating 레이팅 갱신
func (r *PlayerRepository) UpdateRating(id string, rating int) error {
	query := `UPDATE players SET rating = $1, updated_at = NOW() WHERE id = $2`

	if _, err := r.db.Exec(query, rating, id); err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}

	return nil
}

// SetSuspension 출전 정지 설정/해제
func (r *PlayerRepository) SetSuspension(id string, suspended bool, reason *string, until *time.Time) error {
	query := `
		UPDATE players
		SET is_suspended = $1, suspension_reason = $2, suspended_until = $3, updated_at = NOW()
		WHERE id = $4
	`

	if _, err := r.db.Exec(query, suspended, reason, until, id); err != nil {
		return fmt.Errorf("failed to set suspension: %w", err)
	}

	return nil
}

// SetVacation 휴가 모드 설정/해제
func (r *PlayerRepository) SetVacation(id string, on bool, until *time.Time) error {
	query := `
		UPDATE players
		SET vacation_mode = $1, vacation_until = $2, updated_at = NOW()
		WHERE id = $3
	`

	if _, err := r.db.Exec(query, on, until, id); err != nil {
		return fmt.Errorf("failed to set vacation: %w", err)
	}

	return nil
}

// SetImmunity 면책 기간 설정 (until이 nil이면 해제)
func (r *PlayerRepository) SetImmunity(id string, until *time.Time) error {
	query := `UPDATE players SET immunity_until = $1, updated_at = NOW() WHERE id = $2`

	if _, err := r.db.Exec(query, until, id); err != nil {
		return fmt.Errorf("failed to set immunity: %w", err)
	}

	return nil
}

// DeactivateTx 트랜잭션 안에서 소프트 삭제 (빈 자리 메우기와 함께 묶인다)
func (r *PlayerRepository) DeactivateTx(tx *sql.Tx, id string) error {
	query := `UPDATE players SET is_active = false, updated_at = NOW() WHERE id = $1`

	if _, err := tx.Exec(query, id); err != nil {
		return fmt.Errorf("failed to deactivate player: %w", err)
	}

	return nil
}

// ApplyPositionsTx 포지션 변경 배치 적용
// 한 래더의 스왑/시프트는 반드시 같은 트랜잭션에 묶인다.
func (r *PlayerRepository) ApplyPositionsTx(tx *sql.Tx, changes []PositionChange) error {
	query := `UPDATE players SET position = $1, updated_at = NOW() WHERE id = $2`

	for _, c := range changes {
		if _, err := tx.Exec(query, c.NewPosition, c.PlayerID); err != nil {
			return fmt.Errorf("failed to apply position change for %s: %w", c.PlayerID, err)
		}
	}

	return nil
}

// UpdateRecordTx 승/패/총경기수 델타 적용 (reversal은 음수 델타로 호출)
func (r *PlayerRepository) UpdateRecordTx(tx *sql.Tx, id string, winsDelta, lossesDelta int) error {
	query := `
		UPDATE players
		SET wins = wins + $1,
		    losses = losses + $2,
		    total_matches = total_matches + $1 + $2,
		    updated_at = NOW()
		WHERE id = $3
	`

	if _, err := tx.Exec(query, winsDelta, lossesDelta, id); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	return nil
}

// MoveToLadderTx 다른 래더로 이동 (래더 점프 / 승격)
func (r *PlayerRepository) MoveToLadderTx(tx *sql.Tx, id, ladderName string, position int) error {
	query := `
		UPDATE players
		SET ladder_name = $1, position = $2, updated_at = NOW()
		WHERE id = $3
	`

	if _, err := tx.Exec(query, ladderName, position, id); err != nil {
		return fmt.Errorf("failed to move player to ladder: %w", err)
	}

	return nil
}

// SetImmunityTx 트랜잭션 안에서 면책 설정 (매치 해결 경로용)
func (r *PlayerRepository) SetImmunityTx(tx *sql.Tx, id string, until *time.Time) error {
	query := `UPDATE players SET immunity_until = $1, updated_at = NOW() WHERE id = $2`

	if _, err := tx.Exec(query, until, id); err != nil {
		return fmt.Errorf("failed to set immunity: %w", err)
	}

	return nil
}
