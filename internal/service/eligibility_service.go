package service

import (
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
)

// 도전 가능 범위
const (
	challengeReachUp    = 4 // 표준 도전: 바로 위 4명까지
	smackdownReachDown  = 5 // 스맥다운: 바로 아래 5명까지
	ladderJumpTopCount  = 3 // 래더 점프 자격: 최하위 래더 상위 3명
	ladderJumpTailCount = 4 // 래더 점프 대상: 상위 래더 하위 4명

	// 스맥백 자격 유지 기간: 수비자로서 스맥다운을 이긴 뒤 7일
	smackbackWindow = 7 * 24 * time.Hour
)

// Targets 플레이어가 지금 도전할 수 있는 상대 목록
type Targets struct {
	Challenge  []*models.Player `json:"challenge"`
	Smackdown  []*models.Player `json:"smackdown"`
	Smackback  []*models.Player `json:"smackback"`
	LadderJump []*models.Player `json:"ladderJump"`
}

// rosterStore 자격 판정에 필요한 플레이어 조회
type rosterStore interface {
	FindByID(id string) (*models.Player, error)
	FindByLadder(ladderName string) ([]*models.Player, error)
	MaxPosition(ladderName string) (int, error)
}

// smackdownWinStore 스맥백 자격의 근거가 되는 최근 스맥다운 승리 조회
type smackdownWinStore interface {
	WonSmackdownAsDefenderSince(playerID string, since time.Time) (bool, error)
}

type EligibilityService struct {
	players rosterStore
	matches smackdownWinStore
	bands   models.Bands
}

func NewEligibilityService(players rosterStore, matches smackdownWinStore, bands models.Bands) *EligibilityService {
	return &EligibilityService{players: players, matches: matches, bands: bands}
}

// challengeTargets 표준 도전 대상: 포지션 p-1..p-4, 가까운 쪽부터
func challengeTargets(roster []*models.Player, pos int, now time.Time) []*models.Player {
	var targets []*models.Player
	for i := len(roster) - 1; i >= 0; i-- {
		p := roster[i]
		if p.Position >= pos || p.Position < pos-challengeReachUp {
			continue
		}
		if p.CanBeChallenged(now) {
			targets = append(targets, p)
		}
	}
	return targets
}

// smackdownTargets 스맥다운 대상: 포지션 p+1..p+5
func smackdownTargets(roster []*models.Player, pos int, now time.Time) []*models.Player {
	var targets []*models.Player
	for _, p := range roster {
		if p.Position <= pos || p.Position > pos+smackdownReachDown {
			continue
		}
		if p.CanBeChallenged(now) {
			targets = append(targets, p)
		}
	}
	return targets
}

// smackbackTargets 스맥백 대상: 같은 래더의 1위 (자기 자신 제외)
func smackbackTargets(roster []*models.Player, pos int, now time.Time) []*models.Player {
	var targets []*models.Player
	for _, p := range roster {
		if p.Position != 1 || p.Position == pos {
			continue
		}
		if p.CanBeChallenged(now) {
			targets = append(targets, p)
		}
	}
	return targets
}

// ladderJumpTargets 상위 래더의 하위 4명 (maxPos 기준)
func ladderJumpTargets(roster []*models.Player, now time.Time) []*models.Player {
	if len(roster) == 0 {
		return nil
	}

	maxPos := roster[len(roster)-1].Position
	floor := maxPos - ladderJumpTailCount + 1

	var targets []*models.Player
	for _, p := range roster {
		if p.Position < floor {
			continue
		}
		if p.CanBeChallenged(now) {
			targets = append(targets, p)
		}
	}
	return targets
}

// canLadderJump 래더 점프 자격: 최하위 래더의 상위 3명만
func canLadderJump(bands models.Bands, ladderName string, pos int) bool {
	return bands.Lowest().Name == ladderName && pos <= ladderJumpTopCount
}

// TargetsFor 플레이어의 모든 도전 타입별 대상 조회
func (s *EligibilityService) TargetsFor(playerID string) (*Targets, error) {
	now := time.Now()

	player, err := s.players.FindByID(playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	targets := &Targets{}
	if !player.CanChallenge(now) {
		return targets, nil
	}

	roster, err := s.players.FindByLadder(player.LadderName)
	if err != nil {
		return nil, err
	}

	targets.Challenge = challengeTargets(roster, player.Position, now)
	targets.Smackdown = smackdownTargets(roster, player.Position, now)

	// 스맥백은 최근 수비자로서 스맥다운을 이긴 플레이어만 쓸 수 있다
	if candidates := smackbackTargets(roster, player.Position, now); len(candidates) > 0 {
		earned, err := s.matches.WonSmackdownAsDefenderSince(player.ID, now.Add(-smackbackWindow))
		if err != nil {
			return nil, err
		}
		if earned {
			targets.Smackback = candidates
		}
	}

	if canLadderJump(s.bands, player.LadderName, player.Position) {
		for _, band := range s.bands.Above(player.LadderName) {
			higher, err := s.players.FindByLadder(band.Name)
			if err != nil {
				return nil, err
			}
			targets.LadderJump = append(targets.LadderJump, ladderJumpTargets(higher, now)...)
		}
	}

	return targets, nil
}

// Check 도전 타입에 맞는 자격 검사. 생성 시점과 수락 시점 양쪽에서 호출된다.
func (s *EligibilityService) Check(challengeType models.ChallengeType, challenger, defender *models.Player, now time.Time) error {
	if challenger.ID == defender.ID {
		return ErrSelfChallenge
	}
	if !challenger.CanChallenge(now) {
		return ErrChallengerIneligible
	}
	if defender.HasImmunity(now) {
		return ErrDefenderImmune
	}
	if !defender.CanBeChallenged(now) {
		return ErrDefenderUnavailable
	}

	switch challengeType {
	case models.ChallengeTypeStandard:
		return s.checkSameLadderWindow(challenger, defender, defender.Position >= challenger.Position-challengeReachUp && defender.Position < challenger.Position)
	case models.ChallengeTypeSmackdown:
		return s.checkSameLadderWindow(challenger, defender, defender.Position > challenger.Position && defender.Position <= challenger.Position+smackdownReachDown)
	case models.ChallengeTypeSmackback:
		if err := s.checkSameLadderWindow(challenger, defender, defender.Position == 1); err != nil {
			return err
		}
		earned, err := s.matches.WonSmackdownAsDefenderSince(challenger.ID, now.Add(-smackbackWindow))
		if err != nil {
			return err
		}
		if !earned {
			return ErrSmackbackNotEarned
		}
		return nil
	case models.ChallengeTypeLadderJump:
		return s.checkLadderJump(challenger, defender)
	}

	return ErrInvalidChallengeType
}

func (s *EligibilityService) checkSameLadderWindow(challenger, defender *models.Player, inWindow bool) error {
	if challenger.LadderName != defender.LadderName {
		return ErrCrossLadder
	}
	if !inWindow {
		return ErrTargetOutOfRange
	}
	return nil
}

func (s *EligibilityService) checkLadderJump(challenger, defender *models.Player) error {
	if !canLadderJump(s.bands, challenger.LadderName, challenger.Position) {
		return ErrNotLadderJumpSource
	}

	challengerBand, err := s.bands.ByName(challenger.LadderName)
	if err != nil {
		return err
	}
	defenderBand, err := s.bands.ByName(defender.LadderName)
	if err != nil {
		return err
	}
	if defenderBand.MinRating <= challengerBand.MinRating {
		return ErrNotLadderJumpTarget
	}

	maxPos, err := s.players.MaxPosition(defender.LadderName)
	if err != nil {
		return err
	}
	if defender.Position < maxPos-ladderJumpTailCount+1 {
		return ErrNotLadderJumpTarget
	}

	return nil
}

// CheckTerms 제안 조건이 래더 최소 조건을 만족하는지 검사
// 크로스 래더 도전은 더 높은 래더의 최소 조건을 따른다.
func (s *EligibilityService) CheckTerms(terms models.MatchTerms, ladderNames ...string) error {
	minFee, minRace := 0, 0
	for _, name := range ladderNames {
		band, err := s.bands.ByName(name)
		if err != nil {
			return err
		}
		if band.MinEntryFee > minFee {
			minFee = band.MinEntryFee
		}
		if band.MinRaceLength > minRace {
			minRace = band.MinRaceLength
		}
	}

	if terms.EntryFee < minFee || terms.RaceLength < minRace {
		return ErrTermsBelowMinimum
	}

	return nil
}
