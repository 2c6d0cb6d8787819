package models

import "fmt"

// Band 레이팅 구간으로 나뉜 래더 (예: "499 & Under")
// MaxRating이 nil이면 최상위 오픈 밴드.
type Band struct {
	Name          string `json:"name" db:"name"`
	DisplayName   string `json:"displayName" db:"display_name"`
	MinRating     int    `json:"minRating" db:"min_rating"`
	MaxRating     *int   `json:"maxRating,omitempty" db:"max_rating"`
	MinEntryFee   int    `json:"minEntryFee" db:"min_entry_fee"`
	MinRaceLength int    `json:"minRaceLength" db:"min_race_length"`
}

// Contains 레이팅이 이 밴드 구간에 속하는지 확인
func (b Band) Contains(rating int) bool {
	if rating < b.MinRating {
		return false
	}
	return b.MaxRating == nil || rating <= *b.MaxRating
}

// Bands 전체 래더 구성 (레이팅 오름차순)
type Bands []Band

func intPtr(v int) *int { return &v }

// DefaultBands 기본 래더 구성
func DefaultBands() Bands {
	return Bands{
		{Name: "499-under", DisplayName: "499 & Under", MinRating: 0, MaxRating: intPtr(499), MinEntryFee: 25, MinRaceLength: 7},
		{Name: "500-549", DisplayName: "500-549", MinRating: 500, MaxRating: intPtr(549), MinEntryFee: 50, MinRaceLength: 9},
		{Name: "550-plus", DisplayName: "550+", MinRating: 550, MaxRating: nil, MinEntryFee: 50, MinRaceLength: 9},
	}
}

// Validate 밴드 구성이 레이팅 전 구간을 빈틈/중복 없이 분할하는지 검사
// 설정 로드 시 한 번 호출한다. ByRating은 유효한 구성을 전제로 total function이다.
func (bs Bands) Validate() error {
	if len(bs) == 0 {
		return fmt.Errorf("no ladder bands configured")
	}

	if bs[0].MinRating != 0 {
		return fmt.Errorf("first band %q must start at rating 0, got %d", bs[0].Name, bs[0].MinRating)
	}

	for i, b := range bs {
		if b.Name == "" {
			return fmt.Errorf("band %d has no name", i)
		}

		last := i == len(bs)-1
		if last {
			if b.MaxRating != nil {
				return fmt.Errorf("topmost band %q must be open-ended", b.Name)
			}
			continue
		}

		if b.MaxRating == nil {
			return fmt.Errorf("band %q is open-ended but not topmost", b.Name)
		}
		if *b.MaxRating < b.MinRating {
			return fmt.Errorf("band %q has max rating %d below min rating %d", b.Name, *b.MaxRating, b.MinRating)
		}
		if bs[i+1].MinRating != *b.MaxRating+1 {
			return fmt.Errorf("gap or overlap between band %q (max %d) and %q (min %d)",
				b.Name, *b.MaxRating, bs[i+1].Name, bs[i+1].MinRating)
		}
	}

	return nil
}

// ByRating 레이팅이 속하는 밴드 반환
func (bs Bands) ByRating(rating int) (Band, error) {
	for _, b := range bs {
		if b.Contains(rating) {
			return b, nil
		}
	}
	return Band{}, fmt.Errorf("no band for rating %d", rating)
}

// ByName 이름으로 밴드 찾기
func (bs Bands) ByName(name string) (Band, error) {
	for _, b := range bs {
		if b.Name == name {
			return b, nil
		}
	}
	return Band{}, fmt.Errorf("unknown ladder %q", name)
}

// Next 한 단계 위 밴드 반환 (최상위면 ok=false)
func (bs Bands) Next(name string) (Band, bool) {
	for i, b := range bs {
		if b.Name == name {
			if i+1 < len(bs) {
				return bs[i+1], true
			}
			return Band{}, false
		}
	}
	return Band{}, false
}

// Above name보다 위에 있는 모든 밴드 (오름차순)
func (bs Bands) Above(name string) []Band {
	for i, b := range bs {
		if b.Name == name {
			return bs[i+1:]
		}
	}
	return nil
}

// Lowest 최하위 밴드
func (bs Bands) Lowest() Band {
	return bs[0]
}

// IsTop 최상위 밴드인지 확인
func (bs Bands) IsTop(name string) bool {
	return len(bs) > 0 && bs[len(bs)-1].Name == name
}
