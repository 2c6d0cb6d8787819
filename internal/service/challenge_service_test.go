package service

import (
	"testing"
	"time"

	"github.com/pool-ladder/pool-ladder-backend/internal/models"
)

func TestReplaceTermsResolver(t *testing.T) {
	original := models.MatchTerms{
		EntryFee:   25,
		RaceLength: 7,
		GameType:   models.GameTypeEightBall,
		TableSize:  models.TableSizeSevenFoot,
	}
	counter := models.MatchTerms{
		EntryFee:       50,
		RaceLength:     9,
		GameType:       models.GameTypeNineBall,
		TableSize:      models.TableSizeNineFoot,
		PreferredDates: []time.Time{time.Date(2025, 6, 10, 19, 0, 0, 0, time.UTC)},
	}

	final := replaceTermsResolver{}.Resolve(original, counter)

	if final.EntryFee != 50 || final.RaceLength != 9 {
		t.Errorf("resolver should take the counter terms wholesale, got %+v", final)
	}
	if final.GameType != models.GameTypeNineBall || final.TableSize != models.TableSizeNineFoot {
		t.Errorf("resolver should replace game type and table size, got %+v", final)
	}
	if len(final.PreferredDates) != 1 {
		t.Errorf("resolver should carry the counter dates, got %d", len(final.PreferredDates))
	}
}
