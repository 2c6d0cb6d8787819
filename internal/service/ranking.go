package service

import (
	"sort"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/repository"
)

// 스맥다운 승리 시 이동 폭
const (
	smackdownDropSlots = 3 // 패배한 수비자가 내려가는 칸 수
	smackdownRiseSlots = 2 // 승리한 도전자가 올라가는 칸 수
)

// Relocation 해결 계획 안에서 한 플레이어의 포지션 이동
type Relocation struct {
	PlayerID string `json:"playerId"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

func indexOf(order []*models.Player, id string) int {
	for i, p := range order {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// moveWithin order에서 from 위치의 플레이어를 빼서 to 위치에 끼워 넣는다.
func moveWithin(order []*models.Player, from, to int) []*models.Player {
	if from == to {
		return order
	}

	p := order[from]
	order = append(order[:from], order[from+1:]...)

	out := make([]*models.Player, 0, len(order)+1)
	out = append(out, order[:to]...)
	out = append(out, p)
	out = append(out, order[to:]...)
	return out
}

// diffPositions 재배열된 순서와 저장된 포지션의 차이만 반환
// 순서의 i번째 플레이어가 포지션 i+1이 되도록 한다.
func diffPositions(order []*models.Player) []Relocation {
	var rel []Relocation
	for i, p := range order {
		if p.Position != i+1 {
			rel = append(rel, Relocation{PlayerID: p.ID, From: p.Position, To: i + 1})
		}
	}
	return rel
}

// planStandard 표준 도전/스맥백 수비 성공 공통 규칙:
// 순위가 낮은 쪽이 이겼을 때만 두 사람의 포지션을 맞바꾼다.
func planStandard(winner, loser *models.Player) []Relocation {
	if winner.Position < loser.Position {
		return nil
	}
	return []Relocation{
		{PlayerID: winner.ID, From: winner.Position, To: loser.Position},
		{PlayerID: loser.ID, From: loser.Position, To: winner.Position},
	}
}

// planSmackdownWin 도전자(상위)가 스맥다운에서 이긴 경우:
// 수비자는 3칸 강등(최하위 클램프), 그 다음 도전자가 2칸 상승(1위 클램프).
func planSmackdownWin(roster []*models.Player, challengerID, defenderID string) []Relocation {
	order := make([]*models.Player, len(roster))
	copy(order, roster)

	di := indexOf(order, defenderID)
	if di < 0 {
		return nil
	}
	drop := di + smackdownDropSlots
	if drop > len(order)-1 {
		drop = len(order) - 1
	}
	order = moveWithin(order, di, drop)

	ci := indexOf(order, challengerID)
	if ci < 0 {
		return nil
	}
	rise := ci - smackdownRiseSlots
	if rise < 0 {
		rise = 0
	}
	order = moveWithin(order, ci, rise)

	return diffPositions(order)
}

// planSmackbackWin 도전자가 1위를 꺾은 경우: 도전자가 1위로 올라가고
// 기존 1위부터 도전자 바로 위까지 전원이 한 칸씩 내려간다.
func planSmackbackWin(roster []*models.Player, challengerID string) []Relocation {
	order := make([]*models.Player, len(roster))
	copy(order, roster)

	ci := indexOf(order, challengerID)
	if ci < 0 {
		return nil
	}
	order = moveWithin(order, ci, 0)

	return diffPositions(order)
}

// planRemoval 래더에서 빠진 플레이어 아래 전원을 한 칸씩 올린다.
func planRemoval(roster []*models.Player, playerID string) []Relocation {
	order := make([]*models.Player, 0, len(roster))
	for _, p := range roster {
		if p.ID != playerID {
			order = append(order, p)
		}
	}
	return diffPositions(order)
}

// planReinsert 지정된 플레이어들을 고정 포지션에 되돌려 놓고
// 나머지를 밀어서 1..N 연속성을 유지한다. Reversal의 핵심 연산이다.
func planReinsert(roster []*models.Player, placements map[string]int) []Relocation {
	order := make([]*models.Player, 0, len(roster))
	placed := make(map[string]*models.Player, len(placements))
	for _, p := range roster {
		if _, ok := placements[p.ID]; ok {
			placed[p.ID] = p
			continue
		}
		order = append(order, p)
	}

	ids := make([]string, 0, len(placements))
	for id := range placements {
		if _, ok := placed[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return placements[ids[i]] < placements[ids[j]] })

	for _, id := range ids {
		idx := placements[id] - 1
		if idx < 0 {
			idx = 0
		}
		if idx > len(order) {
			idx = len(order)
		}
		order = moveIn(order, placed[id], idx)
	}

	return diffPositions(order)
}

func moveIn(order []*models.Player, p *models.Player, idx int) []*models.Player {
	out := make([]*models.Player, 0, len(order)+1)
	out = append(out, order[:idx]...)
	out = append(out, p)
	out = append(out, order[idx:]...)
	return out
}

// toPositionChanges Relocation 목록을 저장소 배치 업데이트 형태로 변환
func toPositionChanges(rels []Relocation) []repository.PositionChange {
	changes := make([]repository.PositionChange, len(rels))
	for i, r := range rels {
		changes[i] = repository.PositionChange{PlayerID: r.PlayerID, NewPosition: r.To}
	}
	return changes
}
