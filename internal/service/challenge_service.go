package service

import (
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/repository"
	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

// CounterResolver 도전자가 역제안을 수락했을 때 최종 조건을 결정하는 전략
type CounterResolver interface {
	Resolve(original, counter models.MatchTerms) models.MatchTerms
}

// replaceTermsResolver 기본 전략: 역제안 조건이 원 조건을 통째로 대체한다.
type replaceTermsResolver struct{}

func (replaceTermsResolver) Resolve(_, counter models.MatchTerms) models.MatchTerms {
	return counter
}

type ChallengeService struct {
	challenges    *repository.ChallengeRepository
	matches       *repository.MatchRepository
	players       *repository.PlayerRepository
	eligibility   *EligibilityService
	notifications *NotificationService
	resolver      CounterResolver
	deadline      time.Duration
}

func NewChallengeService(
	challenges *repository.ChallengeRepository,
	matches *repository.MatchRepository,
	players *repository.PlayerRepository,
	eligibility *EligibilityService,
	notifications *NotificationService,
	deadline time.Duration,
) *ChallengeService {
	return &ChallengeService{
		challenges:    challenges,
		matches:       matches,
		players:       players,
		eligibility:   eligibility,
		notifications: notifications,
		resolver:      replaceTermsResolver{},
		deadline:      deadline,
	}
}

// SetCounterResolver 역제안 해석 전략 교체 (테스트/리그 규정 변경용)
func (s *ChallengeService) SetCounterResolver(r CounterResolver) {
	s.resolver = r
}

func (s *ChallengeService) loadParties(challengerID, defenderID string) (*models.Player, *models.Player, error) {
	challenger, err := s.players.FindByID(challengerID)
	if err != nil {
		return nil, nil, err
	}
	if challenger == nil {
		return nil, nil, ErrPlayerNotFound
	}

	defender, err := s.players.FindByID(defenderID)
	if err != nil {
		return nil, nil, err
	}
	if defender == nil {
		return nil, nil, ErrPlayerNotFound
	}

	return challenger, defender, nil
}

// Create 도전 생성. 자격/조건/중복 검사를 모두 통과해야 한다.
func (s *ChallengeService) Create(req *models.CreateChallengeRequest, isAdminCreated bool) (*models.Challenge, error) {
	now := time.Now()

	if !models.ValidChallengeType(req.Type) {
		return nil, ErrInvalidChallengeType
	}

	challenger, defender, err := s.loadParties(req.ChallengerID, req.DefenderID)
	if err != nil {
		return nil, err
	}

	if err := s.eligibility.Check(req.Type, challenger, defender, now); err != nil {
		return nil, err
	}

	terms := models.MatchTerms{
		EntryFee:       req.EntryFee,
		RaceLength:     req.RaceLength,
		GameType:       req.GameType,
		TableSize:      req.TableSize,
		PreferredDates: req.PreferredDates,
	}
	if terms.GameType == "" {
		terms.GameType = models.GameTypeNineBall
	}
	if terms.TableSize == "" {
		terms.TableSize = models.TableSizeNineFoot
	}
	if !models.ValidGameType(terms.GameType) || !models.ValidTableSize(terms.TableSize) {
		return nil, ErrTermsBelowMinimum
	}

	if err := s.eligibility.CheckTerms(terms, challenger.LadderName, defender.LadderName); err != nil {
		return nil, err
	}

	// 같은 두 플레이어 사이에는 살아 있는 미해결 도전 하나만 허용
	// 만료된 pending은 저장소 조회 단계에서 이미 걸러진다.
	open, err := s.challenges.FindOpenBetween(challenger.ID, defender.ID, now)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrDuplicateChallenge
	}

	challenge := &models.Challenge{
		Type:           req.Type,
		ChallengerID:   challenger.ID,
		DefenderID:     defender.ID,
		Status:         models.ChallengeStatusPending,
		Terms:          terms,
		Deadline:       now.Add(s.deadline),
		Message:        req.Message,
		IsAdminCreated: isAdminCreated,
	}

	created, err := s.challenges.Create(challenge)
	if err != nil {
		return nil, err
	}

	logger.Info("Challenge created",
		"challengeId", created.ID,
		"type", created.Type,
		"challenger", challenger.FullName(),
		"defender", defender.FullName())

	go s.notifications.ChallengeIssued(created, challenger, defender)

	return created, nil
}

// Accept 수비자가 도전을 수락. 날짜가 합의되면 바로 매치가 잡힌다.
// 생성 이후 래더가 움직였을 수 있으므로 자격을 다시 검사한다.
func (s *ChallengeService) Accept(challengeID, actorID string, note *string, agreedDate *time.Time) (*models.Challenge, error) {
	now := time.Now()

	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.DefenderID != actorID {
		return nil, ErrNotDefender
	}
	if challenge.Status != models.ChallengeStatusPending {
		return nil, ErrChallengeNotPending
	}
	if challenge.IsExpired(now) {
		return nil, ErrChallengeExpired
	}

	challenger, defender, err := s.loadParties(challenge.ChallengerID, challenge.DefenderID)
	if err != nil {
		return nil, err
	}
	if err := s.eligibility.Check(challenge.Type, challenger, defender, now); err != nil {
		return nil, err
	}

	status := models.ChallengeStatusAccepted
	if agreedDate != nil {
		status = models.ChallengeStatusScheduled
	}

	if err := s.challenges.Accept(challengeID, status, note, agreedDate); err != nil {
		return nil, err
	}

	if agreedDate != nil {
		if _, err := s.matches.Create(challenge, challenger.LadderName, defender.LadderName, *agreedDate); err != nil {
			return nil, err
		}
	}

	logger.Info("Challenge accepted", "challengeId", challengeID, "status", status)
	go s.notifications.ChallengeAccepted(challenge, defender)

	return s.challenges.FindByID(challengeID)
}

// Decline 수비자가 도전을 거절
func (s *ChallengeService) Decline(challengeID, actorID string, note *string) (*models.Challenge, error) {
	now := time.Now()

	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.DefenderID != actorID {
		return nil, ErrNotDefender
	}
	if challenge.Status != models.ChallengeStatusPending {
		return nil, ErrChallengeNotPending
	}
	if challenge.IsExpired(now) {
		return nil, ErrChallengeExpired
	}

	if err := s.challenges.Decline(challengeID, note); err != nil {
		return nil, err
	}

	defender, err := s.players.FindByID(actorID)
	if err == nil && defender != nil {
		go s.notifications.ChallengeDeclined(challenge, defender)
	}

	return s.challenges.FindByID(challengeID)
}

// CounterPropose 수비자가 조건을 바꿔 역제안
func (s *ChallengeService) CounterPropose(challengeID, actorID string, req *models.CounterProposalRequest) (*models.Challenge, error) {
	now := time.Now()

	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.DefenderID != actorID {
		return nil, ErrNotDefender
	}
	if !challenge.CanBeCountered(now) {
		if challenge.IsExpired(now) {
			return nil, ErrChallengeExpired
		}
		return nil, ErrChallengeNotPending
	}

	terms := models.MatchTerms{
		EntryFee:       req.EntryFee,
		RaceLength:     req.RaceLength,
		GameType:       req.GameType,
		TableSize:      req.TableSize,
		PreferredDates: req.PreferredDates,
	}
	if terms.GameType == "" {
		terms.GameType = challenge.Terms.GameType
	}
	if terms.TableSize == "" {
		terms.TableSize = challenge.Terms.TableSize
	}

	challenger, defender, err := s.loadParties(challenge.ChallengerID, challenge.DefenderID)
	if err != nil {
		return nil, err
	}
	if err := s.eligibility.CheckTerms(terms, challenger.LadderName, defender.LadderName); err != nil {
		return nil, err
	}

	if err := s.challenges.SetCounterTerms(challengeID, terms); err != nil {
		return nil, err
	}

	go s.notifications.CounterProposed(challenge, defender, terms)

	return s.challenges.FindByID(challengeID)
}

// AcceptCounter 도전자가 역제안을 수락. 최종 조건은 resolver가 결정한다.
func (s *ChallengeService) AcceptCounter(challengeID, actorID string, agreedDate *time.Time) (*models.Challenge, error) {
	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.ChallengerID != actorID {
		return nil, ErrNotChallenger
	}
	if challenge.Status != models.ChallengeStatusCounterProposed {
		return nil, ErrNoCounterProposal
	}
	if challenge.CounterTerms == nil {
		return nil, ErrNoCounterProposal
	}

	final := s.resolver.Resolve(challenge.Terms, *challenge.CounterTerms)

	status := models.ChallengeStatusAccepted
	if agreedDate != nil {
		status = models.ChallengeStatusScheduled
	}

	if err := s.challenges.AmendTerms(challengeID, final, status, agreedDate); err != nil {
		return nil, err
	}

	if agreedDate != nil {
		challenger, defender, err := s.loadParties(challenge.ChallengerID, challenge.DefenderID)
		if err != nil {
			return nil, err
		}
		if _, err := s.matches.Create(challenge, challenger.LadderName, defender.LadderName, *agreedDate); err != nil {
			return nil, err
		}
	}

	logger.Info("Counter-proposal accepted", "challengeId", challengeID, "status", status)

	return s.challenges.FindByID(challengeID)
}

// RejectCounter 도전자가 역제안을 거부하면 도전 전체가 취소된다.
func (s *ChallengeService) RejectCounter(challengeID, actorID string) (*models.Challenge, error) {
	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.ChallengerID != actorID {
		return nil, ErrNotChallenger
	}
	if challenge.Status != models.ChallengeStatusCounterProposed {
		return nil, ErrNoCounterProposal
	}

	reason := "counter-proposal rejected by challenger"
	if err := s.challenges.Cancel(challengeID, actorID, reason); err != nil {
		return nil, err
	}

	go s.notifications.ChallengeCancelled(challenge, challenge.DefenderID, reason)

	return s.challenges.FindByID(challengeID)
}

// Schedule 수락된 도전에 경기 날짜를 잡고 매치를 생성
// 관리자는 당사자가 아니어도, pending 상태에서도 강제로 잡을 수 있다.
func (s *ChallengeService) Schedule(challengeID, actorID string, date time.Time, isAdmin bool) (*models.Challenge, error) {
	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if !isAdmin && challenge.ChallengerID != actorID && challenge.DefenderID != actorID {
		return nil, ErrNotChallengeParty
	}
	switch challenge.Status {
	case models.ChallengeStatusAccepted:
	case models.ChallengeStatusPending, models.ChallengeStatusCounterProposed:
		if !isAdmin {
			return nil, ErrChallengeNotPending
		}
	default:
		return nil, ErrChallengeNotPending
	}

	if err := s.challenges.Accept(challengeID, models.ChallengeStatusScheduled, challenge.ResponseNote, &date); err != nil {
		return nil, err
	}

	challenger, defender, err := s.loadParties(challenge.ChallengerID, challenge.DefenderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.matches.Create(challenge, challenger.LadderName, defender.LadderName, date); err != nil {
		return nil, err
	}

	return s.challenges.FindByID(challengeID)
}

// Cancel 도전 취소. 당사자 또는 관리자만 가능.
func (s *ChallengeService) Cancel(challengeID, actorID, reason string, isAdmin bool) (*models.Challenge, error) {
	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if !isAdmin && challenge.ChallengerID != actorID && challenge.DefenderID != actorID {
		return nil, ErrNotChallengeParty
	}
	if !challenge.CanBeCancelled() {
		return nil, ErrChallengeNotOpen
	}

	if err := s.challenges.Cancel(challengeID, actorID, reason); err != nil {
		return nil, err
	}

	recipient := challenge.OpponentOf(actorID)
	go s.notifications.ChallengeCancelled(challenge, recipient, reason)

	return s.challenges.FindByID(challengeID)
}

// Forfeit 몰수 처리 (관리자 전용). 잡혀 있던 매치도 함께 몰수로 전환된다.
// 포지션 제재는 별도의 관리자 도구로 처리한다.
func (s *ChallengeService) Forfeit(challengeID, actorID, reason string) (*models.Challenge, error) {
	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.IsTerminal() {
		return nil, ErrChallengeNotOpen
	}

	if err := s.challenges.Forfeit(challengeID, actorID, reason); err != nil {
		return nil, err
	}

	match, err := s.matches.FindByChallengeID(challengeID)
	if err != nil {
		return nil, err
	}
	if match != nil && match.Status == models.MatchStatusScheduled {
		if err := s.matches.UpdateStatus(match.ID, models.MatchStatusForfeited); err != nil {
			return nil, err
		}
	}

	logger.Info("Challenge forfeited", "challengeId", challengeID, "by", actorID, "reason", reason)

	return s.challenges.FindByID(challengeID)
}

// GetByID 도전 조회
func (s *ChallengeService) GetByID(challengeID string) (*models.Challenge, error) {
	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}

// ListForPlayer 플레이어의 미해결 도전 목록
func (s *ChallengeService) ListForPlayer(playerID string) ([]*models.Challenge, error) {
	return s.challenges.FindActiveForPlayer(playerID)
}

// ListPendingForDefender 응답 대기 중인 도전 목록
func (s *ChallengeService) ListPendingForDefender(playerID string) ([]*models.Challenge, error) {
	return s.challenges.FindPendingForDefender(playerID)
}

// ListSent 도전자로서 보낸 미해결 도전 목록
func (s *ChallengeService) ListSent(playerID string) ([]*models.Challenge, error) {
	return s.challenges.FindSentByChallenger(playerID)
}
