package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/repository"
	"github.com/pool-ladder/pool-ladder-backend/pkg/database"
	"github.com/pool-ladder/pool-ladder-backend/pkg/lock"
	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

// PlayerService 플레이어 등록/조회/상태 관리
type PlayerService struct {
	db          *database.DB
	players     *repository.PlayerRepository
	locker      lock.Locker
	bands       models.Bands
	broadcaster Broadcaster

	immunityDuration time.Duration
}

func NewPlayerService(
	db *database.DB,
	players *repository.PlayerRepository,
	locker lock.Locker,
	bands models.Bands,
	broadcaster Broadcaster,
	immunityDuration time.Duration,
) *PlayerService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &PlayerService{
		db:               db,
		players:          players,
		locker:           locker,
		bands:            bands,
		broadcaster:      broadcaster,
		immunityDuration: immunityDuration,
	}
}

// Register 레이팅으로 래더를 정하고 그 래더의 맨 아래에 등록한다
func (s *PlayerService) Register(ctx context.Context, req *models.CreatePlayerRequest) (*models.Player, error) {
	band, err := s.bands.ByRating(req.Rating)
	if err != nil {
		return nil, err
	}

	var pinHash *string
	if req.PIN != nil && *req.PIN != "" {
		hash, err := models.HashPIN(*req.PIN)
		if err != nil {
			return nil, err
		}
		pinHash = &hash
	}

	unlock, err := s.locker.Lock(ctx, band.Name)
	if err != nil {
		return nil, err
	}
	defer unlock()

	maxPos, err := s.players.MaxPosition(band.Name)
	if err != nil {
		return nil, err
	}

	player, err := s.players.Create(req.FirstName, req.LastName, req.Email, pinHash, band.Name, maxPos+1, req.Rating)
	if err != nil {
		return nil, err
	}

	logger.Info("Player registered",
		"player", player.FullName(),
		"rating", player.Rating,
		"ladder", band.Name,
		"position", player.Position)

	return player, nil
}

// Authenticate 이메일+PIN 인증
func (s *PlayerService) Authenticate(email, pin string) (*models.Player, error) {
	player, err := s.players.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if player == nil || !player.CheckPIN(pin) {
		return nil, ErrInvalidCredentials
	}
	if !player.IsActive {
		return nil, ErrPlayerInactive
	}
	return player, nil
}

// GetByID 플레이어 조회
func (s *PlayerService) GetByID(playerID string) (*models.Player, error) {
	player, err := s.players.FindByID(playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// LadderStanding 래더 한 개의 순위표
type LadderStanding struct {
	Ladder  models.Band      `json:"ladder"`
	Players []*models.Player `json:"players"`
}

// Standings 전체 래더 순위표 (밴드 오름차순)
func (s *PlayerService) Standings() ([]LadderStanding, error) {
	standings := make([]LadderStanding, 0, len(s.bands))
	for _, band := range s.bands {
		roster, err := s.players.FindByLadder(band.Name)
		if err != nil {
			return nil, err
		}
		standings = append(standings, LadderStanding{Ladder: band, Players: roster})
	}
	return standings, nil
}

// Ladder 래더 한 개의 순위표
func (s *PlayerService) Ladder(ladderName string) (*LadderStanding, error) {
	band, err := s.bands.ByName(ladderName)
	if err != nil {
		return nil, ErrLadderNotFound
	}
	roster, err := s.players.FindByLadder(band.Name)
	if err != nil {
		return nil, err
	}
	return &LadderStanding{Ladder: band, Players: roster}, nil
}

// SetSuspension 출전 정지 설정/해제 (관리자)
func (s *PlayerService) SetSuspension(playerID string, suspended bool, reason *string, until *time.Time) (*models.Player, error) {
	if _, err := s.GetByID(playerID); err != nil {
		return nil, err
	}
	if err := s.players.SetSuspension(playerID, suspended, reason, until); err != nil {
		return nil, err
	}
	return s.players.FindByID(playerID)
}

// SetVacation 휴가 모드 설정/해제
func (s *PlayerService) SetVacation(playerID string, on bool, until *time.Time) (*models.Player, error) {
	if _, err := s.GetByID(playerID); err != nil {
		return nil, err
	}
	if err := s.players.SetVacation(playerID, on, until); err != nil {
		return nil, err
	}
	return s.players.FindByID(playerID)
}

// GrantImmunity 면책 부여 (관리자). until이 nil이면 기본 기간을 쓴다.
func (s *PlayerService) GrantImmunity(playerID string, until *time.Time) (*models.Player, error) {
	if _, err := s.GetByID(playerID); err != nil {
		return nil, err
	}
	if until == nil {
		t := time.Now().Add(s.immunityDuration)
		until = &t
	}
	if err := s.players.SetImmunity(playerID, until); err != nil {
		return nil, err
	}
	return s.players.FindByID(playerID)
}

// ClearImmunity 면책 해제 (관리자)
func (s *PlayerService) ClearImmunity(playerID string) (*models.Player, error) {
	if _, err := s.GetByID(playerID); err != nil {
		return nil, err
	}
	if err := s.players.SetImmunity(playerID, nil); err != nil {
		return nil, err
	}
	return s.players.FindByID(playerID)
}

// Remove 래더에서 제외하고 아래 전원을 한 칸씩 올린다
func (s *PlayerService) Remove(ctx context.Context, playerID string) error {
	player, err := s.GetByID(playerID)
	if err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, player.LadderName)
	if err != nil {
		return err
	}
	defer unlock()

	roster, err := s.players.FindByLadder(player.LadderName)
	if err != nil {
		return err
	}
	plan := planRemoval(roster, player.ID)

	err = s.db.WithinTx(func(tx *sql.Tx) error {
		if err := s.players.DeactivateTx(tx, player.ID); err != nil {
			return err
		}
		return s.players.ApplyPositionsTx(tx, toPositionChanges(plan))
	})
	if err != nil {
		return err
	}

	logger.Info("Player removed from ladder", "player", player.FullName(), "ladder", player.LadderName)
	s.broadcaster.Broadcast("ladder.player-removed", map[string]interface{}{
		"ladder":   player.LadderName,
		"playerId": player.ID,
	})

	return nil
}

// SetPosition 관리자 수동 포지션 조정. 대상 포지션으로 끼워 넣고
// 사이의 전원을 한 칸씩 밀어 1..N 연속성을 유지한다.
func (s *PlayerService) SetPosition(ctx context.Context, playerID string, position int) ([]Relocation, error) {
	player, err := s.GetByID(playerID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, player.LadderName)
	if err != nil {
		return nil, err
	}
	defer unlock()

	roster, err := s.players.FindByLadder(player.LadderName)
	if err != nil {
		return nil, err
	}
	if position < 1 || position > len(roster) {
		return nil, ErrInvalidPosition
	}

	idx := indexOf(roster, player.ID)
	if idx < 0 {
		return nil, ErrPlayerNotFound
	}
	order := make([]*models.Player, len(roster))
	copy(order, roster)
	order = moveWithin(order, idx, position-1)

	plan := diffPositions(order)
	if len(plan) == 0 {
		return nil, nil
	}

	err = s.db.WithinTx(func(tx *sql.Tx) error {
		return s.players.ApplyPositionsTx(tx, toPositionChanges(plan))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Position set by admin", "player", player.FullName(), "position", position)
	s.broadcaster.Broadcast("ladder.positions", map[string]interface{}{
		"ladder": player.LadderName,
		"moved":  plan,
	})

	return plan, nil
}
