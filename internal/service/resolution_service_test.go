package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/repository"
	"github.com/pool-ladder/pool-ladder-backend/pkg/lock"
	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("development", "error")
	os.Exit(m.Run())
}

// 인메모리 저장소. 해결/되돌리기 경로를 DB 없이 끝까지 돌리기 위한 것.

type memoryTx struct{}

func (memoryTx) WithinTx(fn func(tx *sql.Tx) error) error { return fn(nil) }

type memoryPlayers struct {
	players map[string]*models.Player
}

func (s *memoryPlayers) FindByID(id string) (*models.Player, error) {
	return s.players[id], nil
}

func (s *memoryPlayers) FindByLadder(ladderName string) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range s.players {
		if p.LadderName == ladderName && p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *memoryPlayers) MaxPosition(ladderName string) (int, error) {
	max := 0
	for _, p := range s.players {
		if p.LadderName == ladderName && p.IsActive && p.Position > max {
			max = p.Position
		}
	}
	return max, nil
}

func (s *memoryPlayers) ApplyPositionsTx(_ *sql.Tx, changes []repository.PositionChange) error {
	for _, c := range changes {
		s.players[c.PlayerID].Position = c.NewPosition
	}
	return nil
}

func (s *memoryPlayers) UpdateRecordTx(_ *sql.Tx, id string, winsDelta, lossesDelta int) error {
	p := s.players[id]
	p.Wins += winsDelta
	p.Losses += lossesDelta
	p.TotalMatches += winsDelta + lossesDelta
	return nil
}

func (s *memoryPlayers) MoveToLadderTx(_ *sql.Tx, id, ladderName string, position int) error {
	p := s.players[id]
	p.LadderName = ladderName
	p.Position = position
	return nil
}

func (s *memoryPlayers) SetImmunityTx(_ *sql.Tx, id string, until *time.Time) error {
	s.players[id].ImmunityUntil = until
	return nil
}

type memoryMatches struct {
	matches map[string]*models.Match
}

func (s *memoryMatches) FindByID(id string) (*models.Match, error) {
	m, ok := s.matches[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *memoryMatches) CompleteTx(_ *sql.Tx, m *models.Match) error {
	cp := *m
	cp.Status = models.MatchStatusCompleted
	done := time.Now()
	cp.CompletedAt = &done
	*s.matches[m.ID] = cp
	return nil
}

func (s *memoryMatches) DeleteTx(_ *sql.Tx, id string) error {
	delete(s.matches, id)
	return nil
}

type memoryChallengeStatus struct {
	statuses map[string]models.ChallengeStatus
}

func (s *memoryChallengeStatus) UpdateStatusTx(_ *sql.Tx, id string, status models.ChallengeStatus) error {
	s.statuses[id] = status
	return nil
}

// newResolutionFixture 4명짜리 래더에 p4(도전자) vs p2(수비자) 표준 매치가 잡힌 상태
func newResolutionFixture() (*ResolutionService, *memoryPlayers, *memoryMatches, *memoryChallengeStatus) {
	players := &memoryPlayers{players: map[string]*models.Player{}}
	for i := 1; i <= 4; i++ {
		id := fmt.Sprintf("p%d", i)
		players.players[id] = &models.Player{
			ID:           id,
			LadderName:   "499-under",
			Position:     i,
			IsActive:     true,
			Wins:         i,
			Losses:       5 - i,
			TotalMatches: 5,
		}
	}

	matches := &memoryMatches{matches: map[string]*models.Match{
		"m1": {
			ID:               "m1",
			ChallengeID:      "c1",
			Type:             models.ChallengeTypeStandard,
			ChallengerID:     "p4",
			DefenderID:       "p2",
			ChallengerLadder: "499-under",
			DefenderLadder:   "499-under",
			Status:           models.MatchStatusScheduled,
			ScheduledDate:    time.Date(2025, 6, 10, 19, 0, 0, 0, time.UTC),
		},
	}}

	challenges := &memoryChallengeStatus{statuses: map[string]models.ChallengeStatus{}}

	svc := NewResolutionService(
		memoryTx{},
		matches,
		challenges,
		players,
		lock.NewLocalLocker(),
		models.DefaultBands(),
		NewNotificationService(nil),
		nil,
		7*24*time.Hour,
	)
	return svc, players, matches, challenges
}

func TestResolutionService_Resolve_RejectsSecondReport(t *testing.T) {
	svc, _, _, challenges := newResolutionFixture()
	req := &models.ReportMatchResultRequest{WinnerID: "p4", Score: "7-4"}

	resolved, err := svc.Resolve(context.Background(), "m1", "admin", req, false)
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	if resolved.Status != models.MatchStatusCompleted {
		t.Fatalf("match status = %s, want completed", resolved.Status)
	}
	if challenges.statuses["c1"] != models.ChallengeStatusCompleted {
		t.Errorf("challenge status = %s, want completed", challenges.statuses["c1"])
	}

	if _, err := svc.Resolve(context.Background(), "m1", "admin", req, false); err != ErrMatchAlreadyCompleted {
		t.Errorf("second Resolve() error = %v, want %v", err, ErrMatchAlreadyCompleted)
	}
}

func TestResolutionService_ReverseRestoresRecordsAndPositions(t *testing.T) {
	svc, players, matches, challenges := newResolutionFixture()

	type snapshot struct{ position, wins, losses, total int }
	before := map[string]snapshot{}
	for id, p := range players.players {
		before[id] = snapshot{p.Position, p.Wins, p.Losses, p.TotalMatches}
	}

	req := &models.ReportMatchResultRequest{WinnerID: "p4", Score: "7-2"}
	if _, err := svc.Resolve(context.Background(), "m1", "admin", req, true); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// 언더독 승리: 도전자가 수비자의 자리를 차지한다
	if players.players["p4"].Position != 2 || players.players["p2"].Position != 4 {
		t.Fatalf("positions after resolve = p4:%d p2:%d, want 2 and 4",
			players.players["p4"].Position, players.players["p2"].Position)
	}
	if players.players["p4"].ImmunityUntil == nil {
		t.Error("winner should hold immunity after an admin grant")
	}

	if err := svc.Reverse(context.Background(), "m1"); err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}

	for id, want := range before {
		p := players.players[id]
		if p.Position != want.position || p.Wins != want.wins || p.Losses != want.losses || p.TotalMatches != want.total {
			t.Errorf("player %s after reverse = pos:%d w:%d l:%d t:%d, want pos:%d w:%d l:%d t:%d",
				id, p.Position, p.Wins, p.Losses, p.TotalMatches,
				want.position, want.wins, want.losses, want.total)
		}
	}
	if players.players["p4"].ImmunityUntil != nil {
		t.Error("immunity should be cleared when the grant is reversed")
	}
	if m, _ := matches.FindByID("m1"); m != nil {
		t.Error("match record should be deleted on reverse")
	}
	if challenges.statuses["c1"] != models.ChallengeStatusScheduled {
		t.Errorf("challenge status = %s, want scheduled", challenges.statuses["c1"])
	}
}
