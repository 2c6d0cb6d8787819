package service

import (
	"sort"
	"testing"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
)

func relocationMap(rels []Relocation) map[string]int {
	out := make(map[string]int, len(rels))
	for _, r := range rels {
		out[r.PlayerID] = r.To
	}
	return out
}

// applyPlan reproduces what the resolution transaction does to a roster,
// returning it re-fetched in position order so invariants can be checked.
func applyPlan(roster []*models.Player, rels []Relocation) []*models.Player {
	byID := relocationMap(rels)
	out := make([]*models.Player, len(roster))
	for i, p := range roster {
		cp := *p
		if to, ok := byID[p.ID]; ok {
			cp.Position = to
		}
		out[i] = &cp
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func assertContiguous(t *testing.T, roster []*models.Player) {
	t.Helper()
	seen := make(map[int]string, len(roster))
	for _, p := range roster {
		if p.Position < 1 || p.Position > len(roster) {
			t.Errorf("player %s has position %d outside 1..%d", p.ID, p.Position, len(roster))
		}
		if other, dup := seen[p.Position]; dup {
			t.Errorf("position %d held by both %s and %s", p.Position, other, p.ID)
		}
		seen[p.Position] = p.ID
	}
}

func TestPlanStandard_UpsetSwaps(t *testing.T) {
	roster := makeRoster("499-under", 5)
	winner, loser := roster[2], roster[0] // position 3 beats position 1

	rels := planStandard(winner, loser)
	got := relocationMap(rels)
	if got[winner.ID] != 1 || got[loser.ID] != 3 {
		t.Errorf("upset swap = %v, want winner to 1 and loser to 3", got)
	}
	if len(rels) != 2 {
		t.Errorf("standard swap should touch exactly two players, got %d", len(rels))
	}

	assertContiguous(t, applyPlan(roster, rels))
}

func TestPlanStandard_FavoriteHolds(t *testing.T) {
	roster := makeRoster("499-under", 5)

	// Position 1 beats position 3: nobody moves.
	if rels := planStandard(roster[0], roster[2]); rels != nil {
		t.Errorf("defending a higher position should produce no relocations, got %v", rels)
	}
}

func TestPlanSmackdownWin(t *testing.T) {
	roster := makeRoster("499-under", 12)
	challenger, defender := roster[6], roster[9] // positions 7 and 10

	rels := planSmackdownWin(roster, challenger.ID, defender.ID)
	got := relocationMap(rels)

	// Defender drops three slots to 13, clamped to the bottom (12).
	if got[defender.ID] != 12 {
		t.Errorf("defender moved to %d, want 12", got[defender.ID])
	}
	// Challenger rises two slots from 7 to 5.
	if got[challenger.ID] != 5 {
		t.Errorf("challenger moved to %d, want 5", got[challenger.ID])
	}

	assertContiguous(t, applyPlan(roster, rels))
}

func TestPlanSmackdownWin_ClampsAtTop(t *testing.T) {
	roster := makeRoster("499-under", 8)
	challenger, defender := roster[0], roster[3] // positions 1 and 4

	rels := planSmackdownWin(roster, challenger.ID, defender.ID)
	got := relocationMap(rels)

	if to, moved := got[challenger.ID]; moved && to != 1 {
		t.Errorf("challenger at the top moved to %d, want to stay at 1", to)
	}
	if got[defender.ID] != 7 {
		t.Errorf("defender moved to %d, want 7", got[defender.ID])
	}

	assertContiguous(t, applyPlan(roster, rels))
}

func TestPlanSmackbackWin(t *testing.T) {
	roster := makeRoster("499-under", 8)
	challenger := roster[4] // position 5

	rels := planSmackbackWin(roster, challenger.ID)
	got := relocationMap(rels)

	if got[challenger.ID] != 1 {
		t.Errorf("smackback winner moved to %d, want 1", got[challenger.ID])
	}
	// Everyone who was above the challenger shifts down one.
	for i := 0; i < 4; i++ {
		p := roster[i]
		if got[p.ID] != p.Position+1 {
			t.Errorf("player at %d moved to %d, want %d", p.Position, got[p.ID], p.Position+1)
		}
	}
	// Players below the challenger hold their positions.
	for i := 5; i < len(roster); i++ {
		if _, moved := got[roster[i].ID]; moved {
			t.Errorf("player at %d should not move", roster[i].Position)
		}
	}

	assertContiguous(t, applyPlan(roster, rels))
}

func TestPlanRemoval(t *testing.T) {
	roster := makeRoster("499-under", 6)

	rels := planRemoval(roster, roster[2].ID) // remove position 3
	got := relocationMap(rels)

	want := map[string]int{
		roster[3].ID: 3,
		roster[4].ID: 4,
		roster[5].ID: 5,
	}
	if len(got) != len(want) {
		t.Fatalf("removal touched %d players, want %d", len(got), len(want))
	}
	for id, to := range want {
		if got[id] != to {
			t.Errorf("player %s moved to %d, want %d", id, got[id], to)
		}
	}
}

func TestPlanReinsert_ReversesSmackback(t *testing.T) {
	before := makeRoster("499-under", 8)
	challenger := before[4] // position 5

	// Resolve, then reverse. The roster must come back exactly.
	resolved := applyPlan(before, planSmackbackWin(before, challenger.ID))

	reversal := planReinsert(resolved, map[string]int{challenger.ID: 5})
	after := applyPlan(resolved, reversal)

	assertContiguous(t, after)
	for i, p := range after {
		if p.ID != before[i].ID {
			t.Errorf("position %d held by %s after reversal, want %s", i+1, p.ID, before[i].ID)
		}
	}
}

func TestPlanReinsert_ReversesSmackdown(t *testing.T) {
	before := makeRoster("499-under", 12)
	challenger, defender := before[6], before[9]

	resolved := applyPlan(before, planSmackdownWin(before, challenger.ID, defender.ID))

	reversal := planReinsert(resolved, map[string]int{
		challenger.ID: 7,
		defender.ID:   10,
	})
	after := applyPlan(resolved, reversal)

	assertContiguous(t, after)
	for i, p := range after {
		if p.ID != before[i].ID {
			t.Errorf("position %d held by %s after reversal, want %s", i+1, p.ID, before[i].ID)
		}
	}
}

func TestDiffPositions_OnlyReportsChanges(t *testing.T) {
	roster := makeRoster("499-under", 4)
	if rels := diffPositions(roster); rels != nil {
		t.Errorf("unchanged order should produce no relocations, got %v", rels)
	}
}
