package service

import (
	"context"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/repository"
	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

// RatingService 외부 레이팅 시스템에서 들어오는 레이팅 반영
// 레이팅 계산 자체는 이 시스템 밖의 일이다. 여기서는 받아서 저장하고
// 밴드 상한을 넘었으면 승격 스윕을 돌릴 뿐이다.
type RatingService struct {
	players   *repository.PlayerRepository
	bands     models.Bands
	promotion *PromotionService
}

func NewRatingService(players *repository.PlayerRepository, bands models.Bands, promotion *PromotionService) *RatingService {
	return &RatingService{players: players, bands: bands, promotion: promotion}
}

// ImportResult 일괄 반영 결과
type ImportResult struct {
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped,omitempty"`
}

// UpdateRating 한 명의 레이팅 갱신 후 해당 래더 승격 스윕
func (s *RatingService) UpdateRating(ctx context.Context, playerID string, rating int) (*models.Player, error) {
	player, err := s.players.FindByID(playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	if err := s.players.UpdateRating(playerID, rating); err != nil {
		return nil, err
	}

	logger.Info("Rating updated", "player", player.FullName(), "from", player.Rating, "to", rating)

	if !s.bands.IsTop(player.LadderName) {
		if _, err := s.promotion.Sweep(ctx, player.LadderName); err != nil {
			return nil, err
		}
	}

	return s.players.FindByID(playerID)
}

// BulkImport 이메일 기준 일괄 레이팅 반영. 모르는 이메일은 건너뛰고 기록만 남긴다.
func (s *RatingService) BulkImport(ctx context.Context, updates []models.RatingUpdate) (*ImportResult, error) {
	result := &ImportResult{}
	touched := make(map[string]bool)

	for _, u := range updates {
		player, err := s.players.FindByEmail(u.Email)
		if err != nil {
			return nil, err
		}
		if player == nil {
			logger.Warn("Rating import skipped unknown player", "email", u.Email)
			result.Skipped = append(result.Skipped, u.Email)
			continue
		}

		if err := s.players.UpdateRating(player.ID, u.Rating); err != nil {
			return nil, err
		}
		result.Updated++
		touched[player.LadderName] = true
	}

	// 스윕은 래더당 한 번이면 충분하다
	for ladder := range touched {
		if s.bands.IsTop(ladder) {
			continue
		}
		if _, err := s.promotion.Sweep(ctx, ladder); err != nil {
			return nil, err
		}
	}

	logger.Info("Rating import finished", "updated", result.Updated, "skipped", len(result.Skipped))

	return result, nil
}
