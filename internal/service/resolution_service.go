package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/repository"
	"github.com/pool-ladder/pool-ladder-backend/pkg/lock"
	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

// Broadcaster 래더 변경을 실시간 구독자에게 전파
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, interface{}) {}

// positionStore 포지션/전적 변경까지 포함한 플레이어 저장소
type positionStore interface {
	rosterStore
	ApplyPositionsTx(tx *sql.Tx, changes []repository.PositionChange) error
	UpdateRecordTx(tx *sql.Tx, id string, winsDelta, lossesDelta int) error
	MoveToLadderTx(tx *sql.Tx, id, ladderName string, position int) error
	SetImmunityTx(tx *sql.Tx, id string, until *time.Time) error
}

// matchStore 매치 해결/되돌리기에 필요한 매치 저장소
type matchStore interface {
	FindByID(id string) (*models.Match, error)
	CompleteTx(tx *sql.Tx, m *models.Match) error
	DeleteTx(tx *sql.Tx, id string) error
}

// challengeStatusStore 해결 경로에서의 도전 상태 전환
type challengeStatusStore interface {
	UpdateStatusTx(tx *sql.Tx, id string, status models.ChallengeStatus) error
}

// txRunner 단일 트랜잭션 실행기
type txRunner interface {
	WithinTx(fn func(tx *sql.Tx) error) error
}

// ResolutionService 매치 결과 반영과 되돌리기
// 포지션을 건드리는 모든 경로는 래더 락과 단일 트랜잭션 안에서 실행된다.
type ResolutionService struct {
	db            txRunner
	matches       matchStore
	challenges    challengeStatusStore
	players       positionStore
	locker        lock.Locker
	bands         models.Bands
	notifications *NotificationService
	broadcaster   Broadcaster

	immunityDuration time.Duration
}

func NewResolutionService(
	db txRunner,
	matches matchStore,
	challenges challengeStatusStore,
	players positionStore,
	locker lock.Locker,
	bands models.Bands,
	notifications *NotificationService,
	broadcaster Broadcaster,
	immunityDuration time.Duration,
) *ResolutionService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &ResolutionService{
		db:               db,
		matches:          matches,
		challenges:       challenges,
		players:          players,
		locker:           locker,
		bands:            bands,
		notifications:    notifications,
		broadcaster:      broadcaster,
		immunityDuration: immunityDuration,
	}
}

func intPtrOf(v int) *int { return &v }

// Resolve 결과를 기록하고 도전 타입별 규칙대로 포지션을 이동한다.
// grantImmunity는 관리자 보고 경로에서만 true가 된다.
func (s *ResolutionService) Resolve(ctx context.Context, matchID, reporterID string, req *models.ReportMatchResultRequest, grantImmunity bool) (*models.Match, error) {
	match, err := s.matches.FindByID(matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}
	if match.Status != models.MatchStatusScheduled {
		return nil, ErrMatchNotScheduled
	}
	if !match.Participant(req.WinnerID) {
		return nil, ErrMissingWinner
	}

	winnerID := req.WinnerID
	loserID := match.OpponentOf(winnerID)

	unlock, err := lock.LockLadders(ctx, s.locker, match.ChallengerLadder, match.DefenderLadder)
	if err != nil {
		return nil, err
	}
	defer unlock()

	winner, loser, err := s.loadPair(winnerID, loserID)
	if err != nil {
		return nil, err
	}

	challenger, defender := winner, loser
	if winnerID != match.ChallengerID {
		challenger, defender = loser, winner
	}

	match.WinnerID = &winnerID
	match.LoserID = &loserID
	match.Score = &req.Score
	match.ReportedBy = &reporterID
	match.ChallengerOldPosition = intPtrOf(challenger.Position)
	match.DefenderOldPosition = intPtrOf(defender.Position)
	match.ChallengerNewPosition = intPtrOf(challenger.Position)
	match.DefenderNewPosition = intPtrOf(defender.Position)
	match.ImmunityGranted = grantImmunity

	err = s.db.WithinTx(func(tx *sql.Tx) error {
		if match.Type == models.ChallengeTypeLadderJump {
			if err := s.applyLadderJump(tx, match, challenger, winnerID); err != nil {
				return err
			}
		} else {
			if err := s.applySameLadder(tx, match, challenger, defender, winner, loser); err != nil {
				return err
			}
		}

		if err := s.players.UpdateRecordTx(tx, winnerID, 1, 0); err != nil {
			return err
		}
		if err := s.players.UpdateRecordTx(tx, loserID, 0, 1); err != nil {
			return err
		}

		if grantImmunity {
			until := time.Now().Add(s.immunityDuration)
			if err := s.players.SetImmunityTx(tx, winnerID, &until); err != nil {
				return err
			}
		}

		if err := s.matches.CompleteTx(tx, match); err != nil {
			return err
		}
		return s.challenges.UpdateStatusTx(tx, match.ChallengeID, models.ChallengeStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Match resolved",
		"matchId", match.ID,
		"type", match.Type,
		"winner", winner.FullName(),
		"score", req.Score)

	s.broadcaster.Broadcast("match.resolved", match)
	go s.notifications.MatchResolved(match, winner)

	return s.matches.FindByID(matchID)
}

// applySameLadder 같은 래더 안에서의 도전 타입별 포지션 이동
func (s *ResolutionService) applySameLadder(tx *sql.Tx, match *models.Match, challenger, defender, winner, loser *models.Player) error {
	roster, err := s.players.FindByLadder(match.ChallengerLadder)
	if err != nil {
		return err
	}

	var plan []Relocation
	switch match.Type {
	case models.ChallengeTypeSmackdown:
		if winner.ID == challenger.ID {
			plan = planSmackdownWin(roster, challenger.ID, defender.ID)
		} else {
			plan = planStandard(winner, loser)
		}
	case models.ChallengeTypeSmackback:
		if winner.ID == challenger.ID {
			plan = planSmackbackWin(roster, challenger.ID)
		} else {
			plan = planStandard(winner, loser)
		}
	default:
		plan = planStandard(winner, loser)
	}

	for _, r := range plan {
		switch r.PlayerID {
		case challenger.ID:
			match.ChallengerNewPosition = intPtrOf(r.To)
		case defender.ID:
			match.DefenderNewPosition = intPtrOf(r.To)
		}
	}

	return s.players.ApplyPositionsTx(tx, toPositionChanges(plan))
}

// applyLadderJump 도전자가 이기면 상위 래더 최하위 자리로 점프하고
// 원래 래더는 빈 자리를 메운다. 수비자는 움직이지 않는다.
func (s *ResolutionService) applyLadderJump(tx *sql.Tx, match *models.Match, challenger *models.Player, winnerID string) error {
	if winnerID != challenger.ID {
		return nil
	}

	maxPos, err := s.players.MaxPosition(match.DefenderLadder)
	if err != nil {
		return err
	}
	landing := maxPos + 1

	if err := s.players.MoveToLadderTx(tx, challenger.ID, match.DefenderLadder, landing); err != nil {
		return err
	}
	match.ChallengerNewPosition = intPtrOf(landing)

	source, err := s.players.FindByLadder(match.ChallengerLadder)
	if err != nil {
		return err
	}
	plan := planRemoval(source, challenger.ID)
	return s.players.ApplyPositionsTx(tx, toPositionChanges(plan))
}

// Reverse 완료된 매치를 정확히 되돌린다 (관리자 전용).
// 전후 포지션 스냅샷을 기준으로 역연산하고 매치 기록을 삭제한다.
func (s *ResolutionService) Reverse(ctx context.Context, matchID string) error {
	match, err := s.matches.FindByID(matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return ErrMatchNotFound
	}
	if match.Status != models.MatchStatusCompleted {
		return ErrMatchNotCompleted
	}
	if match.WinnerID == nil || match.LoserID == nil {
		return ErrMatchNotCompleted
	}

	unlock, err := lock.LockLadders(ctx, s.locker, match.ChallengerLadder, match.DefenderLadder)
	if err != nil {
		return err
	}
	defer unlock()

	err = s.db.WithinTx(func(tx *sql.Tx) error {
		if match.ChallengerLadder != match.DefenderLadder {
			if err := s.reverseLadderJump(tx, match); err != nil {
				return err
			}
		} else {
			if err := s.reverseSameLadder(tx, match); err != nil {
				return err
			}
		}

		if err := s.players.UpdateRecordTx(tx, *match.WinnerID, -1, 0); err != nil {
			return err
		}
		if err := s.players.UpdateRecordTx(tx, *match.LoserID, 0, -1); err != nil {
			return err
		}

		if match.ImmunityGranted {
			if err := s.players.SetImmunityTx(tx, *match.WinnerID, nil); err != nil {
				return err
			}
		}

		if err := s.challenges.UpdateStatusTx(tx, match.ChallengeID, models.ChallengeStatusScheduled); err != nil {
			return err
		}
		return s.matches.DeleteTx(tx, match.ID)
	})
	if err != nil {
		return err
	}

	logger.Info("Match reversed", "matchId", match.ID, "challengeId", match.ChallengeID)
	s.broadcaster.Broadcast("match.reversed", match)

	return nil
}

func (s *ResolutionService) reverseSameLadder(tx *sql.Tx, match *models.Match) error {
	if match.ChallengerOldPosition == nil || match.DefenderOldPosition == nil {
		return ErrMatchNotCompleted
	}

	roster, err := s.players.FindByLadder(match.ChallengerLadder)
	if err != nil {
		return err
	}

	plan := planReinsert(roster, map[string]int{
		match.ChallengerID: *match.ChallengerOldPosition,
		match.DefenderID:   *match.DefenderOldPosition,
	})
	return s.players.ApplyPositionsTx(tx, toPositionChanges(plan))
}

// reverseLadderJump 점프한 도전자를 원래 래더의 원래 자리로 복귀
func (s *ResolutionService) reverseLadderJump(tx *sql.Tx, match *models.Match) error {
	if match.WinnerID == nil || *match.WinnerID != match.ChallengerID {
		return nil
	}
	if match.ChallengerOldPosition == nil {
		return ErrMatchNotCompleted
	}

	// 상위 래더에서 빼고 빈 자리를 메운다
	dest, err := s.players.FindByLadder(match.DefenderLadder)
	if err != nil {
		return err
	}
	destPlan := planRemoval(dest, match.ChallengerID)
	if err := s.players.ApplyPositionsTx(tx, toPositionChanges(destPlan)); err != nil {
		return err
	}

	// 원래 래더로 되돌리고 아래 전원을 한 칸씩 내린다
	oldPos := *match.ChallengerOldPosition
	if err := s.players.MoveToLadderTx(tx, match.ChallengerID, match.ChallengerLadder, oldPos); err != nil {
		return err
	}

	source, err := s.players.FindByLadder(match.ChallengerLadder)
	if err != nil {
		return err
	}
	var plan []Relocation
	for _, p := range source {
		if p.ID != match.ChallengerID && p.Position >= oldPos {
			plan = append(plan, Relocation{PlayerID: p.ID, From: p.Position, To: p.Position + 1})
		}
	}
	return s.players.ApplyPositionsTx(tx, toPositionChanges(plan))
}

func (s *ResolutionService) loadPair(aID, bID string) (*models.Player, *models.Player, error) {
	a, err := s.players.FindByID(aID)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, nil, ErrPlayerNotFound
	}
	b, err := s.players.FindByID(bID)
	if err != nil {
		return nil, nil, err
	}
	if b == nil {
		return nil, nil, ErrPlayerNotFound
	}
	return a, b, nil
}
