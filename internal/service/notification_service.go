package service

import (
	"fmt"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

// Notification 플레이어에게 전달되는 알림 한 건
type Notification struct {
	PlayerID string
	Event    string
	Subject  string
	Body     string
}

// Sender 알림 전달 채널. 이메일/푸시 연동은 이 인터페이스 뒤에 숨긴다.
type Sender interface {
	Send(n Notification) error
}

// LogSender 전달 채널이 없을 때의 기본 구현. 로그만 남긴다.
type LogSender struct{}

func (LogSender) Send(n Notification) error {
	logger.Info("Notification", "event", n.Event, "playerId", n.PlayerID, "subject", n.Subject)
	return nil
}

// NotificationService 알림 발송. 실패는 삼키고 로그만 남긴다.
// 알림 실패가 래더 상태 변경을 되돌리는 일은 없어야 한다.
type NotificationService struct {
	sender Sender
}

func NewNotificationService(sender Sender) *NotificationService {
	if sender == nil {
		sender = LogSender{}
	}
	return &NotificationService{sender: sender}
}

func (s *NotificationService) send(n Notification) {
	if err := s.sender.Send(n); err != nil {
		logger.Error("Failed to send notification", "event", n.Event, "playerId", n.PlayerID, "error", err)
	}
}

// ChallengeIssued 수비자에게 새 도전 알림
func (s *NotificationService) ChallengeIssued(c *models.Challenge, challenger, defender *models.Player) {
	s.send(Notification{
		PlayerID: defender.ID,
		Event:    "challenge.issued",
		Subject:  fmt.Sprintf("%s has challenged you", challenger.FullName()),
		Body: fmt.Sprintf("%s challenge for $%d, race to %d. Respond before %s.",
			c.Type, c.Terms.EntryFee, c.Terms.RaceLength, c.Deadline.Format("Jan 2 3:04 PM")),
	})
}

// ChallengeAccepted 도전자에게 수락 알림
func (s *NotificationService) ChallengeAccepted(c *models.Challenge, defender *models.Player) {
	s.send(Notification{
		PlayerID: c.ChallengerID,
		Event:    "challenge.accepted",
		Subject:  fmt.Sprintf("%s accepted your challenge", defender.FullName()),
		Body:     "Coordinate a date and get it on the calendar.",
	})
}

// ChallengeDeclined 도전자에게 거절 알림
func (s *NotificationService) ChallengeDeclined(c *models.Challenge, defender *models.Player) {
	s.send(Notification{
		PlayerID: c.ChallengerID,
		Event:    "challenge.declined",
		Subject:  fmt.Sprintf("%s declined your challenge", defender.FullName()),
	})
}

// CounterProposed 도전자에게 역제안 알림
func (s *NotificationService) CounterProposed(c *models.Challenge, defender *models.Player, terms models.MatchTerms) {
	s.send(Notification{
		PlayerID: c.ChallengerID,
		Event:    "challenge.counter-proposed",
		Subject:  fmt.Sprintf("%s countered your challenge", defender.FullName()),
		Body:     fmt.Sprintf("New terms: $%d, race to %d.", terms.EntryFee, terms.RaceLength),
	})
}

// ChallengeCancelled 상대방에게 취소 알림
func (s *NotificationService) ChallengeCancelled(c *models.Challenge, recipientID, reason string) {
	s.send(Notification{
		PlayerID: recipientID,
		Event:    "challenge.cancelled",
		Subject:  "Challenge cancelled",
		Body:     reason,
	})
}

// MatchResolved 양쪽 플레이어에게 결과 알림
func (s *NotificationService) MatchResolved(m *models.Match, winner *models.Player) {
	for _, playerID := range []string{m.ChallengerID, m.DefenderID} {
		s.send(Notification{
			PlayerID: playerID,
			Event:    "match.resolved",
			Subject:  fmt.Sprintf("Match result: %s wins", winner.FullName()),
		})
	}
}

// Promoted 승격 알림
func (s *NotificationService) Promoted(player *models.Player, toLadder string) {
	s.send(Notification{
		PlayerID: player.ID,
		Event:    "player.promoted",
		Subject:  fmt.Sprintf("You have been promoted to the %s ladder", toLadder),
	})
}
