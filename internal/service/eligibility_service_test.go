package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
)

// smackdownWinsStub 최근 스맥다운 승리 여부를 고정값으로 돌려준다
type smackdownWinsStub struct {
	earned bool
}

func (s smackdownWinsStub) WonSmackdownAsDefenderSince(string, time.Time) (bool, error) {
	return s.earned, nil
}

func makeRoster(ladder string, n int) []*models.Player {
	roster := make([]*models.Player, n)
	for i := 0; i < n; i++ {
		roster[i] = &models.Player{
			ID:         fmt.Sprintf("%s-p%d", ladder, i+1),
			LadderName: ladder,
			Position:   i + 1,
			IsActive:   true,
		}
	}
	return roster
}

func positions(players []*models.Player) []int {
	out := make([]int, len(players))
	for i, p := range players {
		out[i] = p.Position
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestChallengeTargets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	roster := makeRoster("499-under", 10)

	// 가까운 상대가 먼저 온다 (p-1부터 p-4까지)
	tests := []struct {
		name     string
		pos      int
		expected []int
	}{
		{"Middle of ladder", 7, []int{6, 5, 4, 3}},
		{"Near the top", 3, []int{2, 1}},
		{"Top position", 1, nil},
		{"Bottom of ladder", 10, []int{9, 8, 7, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := positions(challengeTargets(roster, tt.pos, now))
			if !equalInts(got, tt.expected) {
				t.Errorf("challengeTargets(pos=%d) = %v, want %v", tt.pos, got, tt.expected)
			}
		})
	}
}

func TestChallengeTargets_SkipsUnavailable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	roster := makeRoster("499-under", 10)

	until := now.Add(48 * time.Hour)
	roster[4].ImmunityUntil = &until // position 5 immune
	roster[5].IsSuspended = true     // position 6 suspended

	got := positions(challengeTargets(roster, 7, now))
	want := []int{4, 3}
	if !equalInts(got, want) {
		t.Errorf("challengeTargets with unavailable players = %v, want %v", got, want)
	}
}

// 같은 래더 안에서 도전 창은 한 방향이다: A가 B에게 표준 도전을 걸 수 있으면
// B는 A에게 표준 도전을 걸 수 없고, 대신 스맥다운 창 안에 들어온다.
func TestChallengeWindowOneWay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	roster := makeRoster("499-under", 10)

	contains := func(players []*models.Player, id string) bool {
		for _, p := range players {
			if p.ID == id {
				return true
			}
		}
		return false
	}

	for _, a := range roster {
		for _, b := range challengeTargets(roster, a.Position, now) {
			if contains(challengeTargets(roster, b.Position, now), a.ID) {
				t.Errorf("positions %d and %d can both standard-challenge each other", a.Position, b.Position)
			}
			if !contains(smackdownTargets(roster, b.Position, now), a.ID) {
				t.Errorf("position %d should be a smackdown target of position %d", a.Position, b.Position)
			}
		}
	}
}

func TestSmackdownTargets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	roster := makeRoster("499-under", 10)

	tests := []struct {
		name     string
		pos      int
		expected []int
	}{
		{"Middle of ladder", 3, []int{4, 5, 6, 7, 8}},
		{"Near the bottom", 8, []int{9, 10}},
		{"Bottom position", 10, nil},
		{"Top position", 1, []int{2, 3, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := positions(smackdownTargets(roster, tt.pos, now))
			if !equalInts(got, tt.expected) {
				t.Errorf("smackdownTargets(pos=%d) = %v, want %v", tt.pos, got, tt.expected)
			}
		})
	}
}

func TestSmackbackTargets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	roster := makeRoster("499-under", 5)

	got := positions(smackbackTargets(roster, 5, now))
	if !equalInts(got, []int{1}) {
		t.Errorf("smackbackTargets = %v, want [1]", got)
	}

	// The champion has no one to smack back at.
	if got := smackbackTargets(roster, 1, now); len(got) != 0 {
		t.Errorf("champion should have no smackback targets, got %v", positions(got))
	}
}

func TestLadderJumpTargets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	roster := makeRoster("500-549", 6)
	got := positions(ladderJumpTargets(roster, now))
	if !equalInts(got, []int{3, 4, 5, 6}) {
		t.Errorf("ladderJumpTargets = %v, want bottom four [3 4 5 6]", got)
	}

	// Small ladders expose everyone.
	small := makeRoster("550-plus", 3)
	got = positions(ladderJumpTargets(small, now))
	if !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("ladderJumpTargets on a 3-player ladder = %v, want [1 2 3]", got)
	}

	if got := ladderJumpTargets(nil, now); got != nil {
		t.Errorf("empty ladder should have no targets, got %v", positions(got))
	}
}

func TestCanLadderJump(t *testing.T) {
	bands := models.DefaultBands()

	tests := []struct {
		name     string
		ladder   string
		pos      int
		expected bool
	}{
		{"Lowest ladder position 1", "499-under", 1, true},
		{"Lowest ladder position 3", "499-under", 3, true},
		{"Lowest ladder position 4", "499-under", 4, false},
		{"Middle ladder position 1", "500-549", 1, false},
		{"Top ladder position 1", "550-plus", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canLadderJump(bands, tt.ladder, tt.pos); got != tt.expected {
				t.Errorf("canLadderJump(%q, %d) = %v, want %v", tt.ladder, tt.pos, got, tt.expected)
			}
		})
	}
}

func TestEligibilityService_Check(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewEligibilityService(nil, smackdownWinsStub{earned: true}, models.DefaultBands())

	challenger := &models.Player{ID: "a", LadderName: "499-under", Position: 7, IsActive: true}
	immunityUntil := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		ctype    models.ChallengeType
		defender *models.Player
		wantErr  error
	}{
		{
			name:     "Valid standard challenge",
			ctype:    models.ChallengeTypeStandard,
			defender: &models.Player{ID: "b", LadderName: "499-under", Position: 4, IsActive: true},
			wantErr:  nil,
		},
		{
			name:     "Standard too far above",
			ctype:    models.ChallengeTypeStandard,
			defender: &models.Player{ID: "b", LadderName: "499-under", Position: 2, IsActive: true},
			wantErr:  ErrTargetOutOfRange,
		},
		{
			name:     "Standard cannot punch down",
			ctype:    models.ChallengeTypeStandard,
			defender: &models.Player{ID: "b", LadderName: "499-under", Position: 8, IsActive: true},
			wantErr:  ErrTargetOutOfRange,
		},
		{
			name:     "Standard cross ladder",
			ctype:    models.ChallengeTypeStandard,
			defender: &models.Player{ID: "b", LadderName: "500-549", Position: 4, IsActive: true},
			wantErr:  ErrCrossLadder,
		},
		{
			name:     "Self challenge",
			ctype:    models.ChallengeTypeStandard,
			defender: challenger,
			wantErr:  ErrSelfChallenge,
		},
		{
			name:     "Immune defender",
			ctype:    models.ChallengeTypeStandard,
			defender: &models.Player{ID: "b", LadderName: "499-under", Position: 4, IsActive: true, ImmunityUntil: &immunityUntil},
			wantErr:  ErrDefenderImmune,
		},
		{
			name:     "Valid smackdown",
			ctype:    models.ChallengeTypeSmackdown,
			defender: &models.Player{ID: "b", LadderName: "499-under", Position: 12, IsActive: true},
			wantErr:  nil,
		},
		{
			name:     "Smackdown too far below",
			ctype:    models.ChallengeTypeSmackdown,
			defender: &models.Player{ID: "b", LadderName: "499-under", Position: 13, IsActive: true},
			wantErr:  ErrTargetOutOfRange,
		},
		{
			name:     "Valid smackback",
			ctype:    models.ChallengeTypeSmackback,
			defender: &models.Player{ID: "b", LadderName: "499-under", Position: 1, IsActive: true},
			wantErr:  nil,
		},
		{
			name:     "Smackback must target the top",
			ctype:    models.ChallengeTypeSmackback,
			defender: &models.Player{ID: "b", LadderName: "499-under", Position: 2, IsActive: true},
			wantErr:  ErrTargetOutOfRange,
		},
		{
			name:     "Unknown challenge type",
			ctype:    models.ChallengeType("trickshot"),
			defender: &models.Player{ID: "b", LadderName: "499-under", Position: 4, IsActive: true},
			wantErr:  ErrInvalidChallengeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Check(tt.ctype, challenger, tt.defender, now)
			if err != tt.wantErr {
				t.Errorf("Check() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEligibilityService_Check_SmackbackMustBeEarned(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	challenger := &models.Player{ID: "a", LadderName: "499-under", Position: 7, IsActive: true}
	champion := &models.Player{ID: "b", LadderName: "499-under", Position: 1, IsActive: true}

	// 수비자로서 스맥다운을 이긴 적이 없으면 1위를 노릴 수 없다
	svc := NewEligibilityService(nil, smackdownWinsStub{earned: false}, models.DefaultBands())
	if err := svc.Check(models.ChallengeTypeSmackback, challenger, champion, now); err != ErrSmackbackNotEarned {
		t.Errorf("Check() error = %v, want %v", err, ErrSmackbackNotEarned)
	}

	// 창 검사가 먼저다: 1위가 아닌 상대는 자격과 무관하게 거부된다
	second := &models.Player{ID: "c", LadderName: "499-under", Position: 2, IsActive: true}
	if err := svc.Check(models.ChallengeTypeSmackback, challenger, second, now); err != ErrTargetOutOfRange {
		t.Errorf("Check() error = %v, want %v", err, ErrTargetOutOfRange)
	}

	earned := NewEligibilityService(nil, smackdownWinsStub{earned: true}, models.DefaultBands())
	if err := earned.Check(models.ChallengeTypeSmackback, challenger, champion, now); err != nil {
		t.Errorf("Check() with a recent smackdown win = %v, want nil", err)
	}
}

func TestEligibilityService_CheckLadderJump_SourceGate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewEligibilityService(nil, smackdownWinsStub{}, models.DefaultBands())

	// Position 4 on the lowest ladder cannot jump; the check fails before
	// any repository lookup is needed.
	challenger := &models.Player{ID: "a", LadderName: "499-under", Position: 4, IsActive: true}
	defender := &models.Player{ID: "b", LadderName: "500-549", Position: 9, IsActive: true}

	if err := svc.Check(models.ChallengeTypeLadderJump, challenger, defender, now); err != ErrNotLadderJumpSource {
		t.Errorf("Check() error = %v, want %v", err, ErrNotLadderJumpSource)
	}

	// Jumping sideways or down is never allowed.
	top3 := &models.Player{ID: "a", LadderName: "500-549", Position: 2, IsActive: true}
	if err := svc.Check(models.ChallengeTypeLadderJump, top3, defender, now); err != ErrNotLadderJumpSource {
		t.Errorf("Check() from middle ladder error = %v, want %v", err, ErrNotLadderJumpSource)
	}
}

func TestEligibilityService_CheckTerms(t *testing.T) {
	svc := NewEligibilityService(nil, smackdownWinsStub{}, models.DefaultBands())

	tests := []struct {
		name    string
		terms   models.MatchTerms
		ladders []string
		wantErr error
	}{
		{
			name:    "Meets low ladder minimums",
			terms:   models.MatchTerms{EntryFee: 25, RaceLength: 7},
			ladders: []string{"499-under"},
			wantErr: nil,
		},
		{
			name:    "Fee below minimum",
			terms:   models.MatchTerms{EntryFee: 20, RaceLength: 7},
			ladders: []string{"499-under"},
			wantErr: ErrTermsBelowMinimum,
		},
		{
			name:    "Race below minimum",
			terms:   models.MatchTerms{EntryFee: 50, RaceLength: 5},
			ladders: []string{"499-under"},
			wantErr: ErrTermsBelowMinimum,
		},
		{
			name:    "Cross ladder takes the stricter minimums",
			terms:   models.MatchTerms{EntryFee: 25, RaceLength: 7},
			ladders: []string{"499-under", "500-549"},
			wantErr: ErrTermsBelowMinimum,
		},
		{
			name:    "Cross ladder satisfied",
			terms:   models.MatchTerms{EntryFee: 50, RaceLength: 9},
			ladders: []string{"499-under", "500-549"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckTerms(tt.terms, tt.ladders...)
			if err != tt.wantErr {
				t.Errorf("CheckTerms() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
