package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/repository"
	"github.com/pool-ladder/pool-ladder-backend/pkg/database"
	"github.com/pool-ladder/pool-ladder-backend/pkg/lock"
	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

// PromotionService 레이팅이 밴드 상한을 넘은 플레이어를 위 래더로 올린다.
// 한 번의 스윕에서 한 단계만 이동한다. 연속 승격은 다음 스윕이 처리한다.
type PromotionService struct {
	db            *database.DB
	players       *repository.PlayerRepository
	locker        lock.Locker
	bands         models.Bands
	notifications *NotificationService
	broadcaster   Broadcaster

	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewPromotionService(
	db *database.DB,
	players *repository.PlayerRepository,
	locker lock.Locker,
	bands models.Bands,
	notifications *NotificationService,
	broadcaster Broadcaster,
	interval time.Duration,
) *PromotionService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &PromotionService{
		db:            db,
		players:       players,
		locker:        locker,
		bands:         bands,
		notifications: notifications,
		broadcaster:   broadcaster,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start 주기적 승격 스윕 시작
func (s *PromotionService) Start() {
	s.wg.Add(1)
	go s.sweepLoop()
	logger.Info("Promotion sweeper started", "interval", s.interval)
}

// Stop 스윕 중지 (완료까지 대기)
func (s *PromotionService) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	logger.Info("Promotion sweeper stopped")
}

func (s *PromotionService) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.SweepAll(context.Background()); err != nil {
				logger.Error("Promotion sweep failed", "error", err)
			}
		case <-s.stopChan:
			return
		}
	}
}

// SweepAll 모든 래더 스윕 (최상위 제외, 아래에서 위 순서)
func (s *PromotionService) SweepAll(ctx context.Context) error {
	for _, band := range s.bands {
		if s.bands.IsTop(band.Name) {
			continue
		}
		if _, err := s.Sweep(ctx, band.Name); err != nil {
			return err
		}
	}
	return nil
}

// Sweep 한 래더에서 상한을 넘긴 플레이어 전원을 다음 래더로 승격
func (s *PromotionService) Sweep(ctx context.Context, ladderName string) ([]*models.Player, error) {
	band, err := s.bands.ByName(ladderName)
	if err != nil {
		return nil, ErrLadderNotFound
	}
	if band.MaxRating == nil {
		return nil, ErrAlreadyTopLadder
	}
	next, ok := s.bands.Next(ladderName)
	if !ok {
		return nil, ErrAlreadyTopLadder
	}

	candidates, err := s.players.FindAboveRating(ladderName, *band.MaxRating)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	unlock, err := lock.LockLadders(ctx, s.locker, ladderName, next.Name)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var promoted []*models.Player
	for _, player := range candidates {
		if err := s.promoteTx(player, next.Name); err != nil {
			return promoted, err
		}
		promoted = append(promoted, player)

		logger.Info("Player promoted",
			"player", player.FullName(),
			"rating", player.Rating,
			"from", ladderName,
			"to", next.Name)
		go s.notifications.Promoted(player, next.Name)
	}

	s.broadcaster.Broadcast("ladder.promotions", map[string]interface{}{
		"from":  ladderName,
		"to":    next.Name,
		"count": len(promoted),
	})

	return promoted, nil
}

// promoteTx 한 명을 위 래더 최하위로 이동하고 원 래더 빈 자리를 메운다
func (s *PromotionService) promoteTx(player *models.Player, toLadder string) error {
	maxPos, err := s.players.MaxPosition(toLadder)
	if err != nil {
		return err
	}

	source, err := s.players.FindByLadder(player.LadderName)
	if err != nil {
		return err
	}
	plan := planRemoval(source, player.ID)

	return s.db.WithinTx(func(tx *sql.Tx) error {
		if err := s.players.MoveToLadderTx(tx, player.ID, toLadder, maxPos+1); err != nil {
			return err
		}
		return s.players.ApplyPositionsTx(tx, toPositionChanges(plan))
	})
}

// PromotePlayer 관리자 수동 승격. 레이팅과 무관하게 한 단계 올린다.
func (s *PromotionService) PromotePlayer(ctx context.Context, playerID string) (*models.Player, error) {
	player, err := s.players.FindByID(playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	next, ok := s.bands.Next(player.LadderName)
	if !ok {
		return nil, ErrAlreadyTopLadder
	}

	unlock, err := lock.LockLadders(ctx, s.locker, player.LadderName, next.Name)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.promoteTx(player, next.Name); err != nil {
		return nil, err
	}

	logger.Info("Player promoted by admin", "player", player.FullName(), "to", next.Name)
	go s.notifications.Promoted(player, next.Name)

	return s.players.FindByID(playerID)
}

// Reindex 래더 포지션을 1..N으로 다시 매긴다 (상대 순서 유지).
// 수동 포지션 조정이나 탈퇴 후의 복구 연산이다.
func (s *PromotionService) Reindex(ctx context.Context, ladderName string) ([]Relocation, error) {
	if _, err := s.bands.ByName(ladderName); err != nil {
		return nil, ErrLadderNotFound
	}

	unlock, err := s.locker.Lock(ctx, ladderName)
	if err != nil {
		return nil, err
	}
	defer unlock()

	roster, err := s.players.FindByLadder(ladderName)
	if err != nil {
		return nil, err
	}

	plan := diffPositions(roster)
	if len(plan) == 0 {
		return nil, nil
	}

	err = s.db.WithinTx(func(tx *sql.Tx) error {
		return s.players.ApplyPositionsTx(tx, toPositionChanges(plan))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Ladder reindexed", "ladder", ladderName, "moved", len(plan))
	s.broadcaster.Broadcast("ladder.reindexed", map[string]interface{}{
		"ladder": ladderName,
		"moved":  plan,
	})

	return plan, nil
}
