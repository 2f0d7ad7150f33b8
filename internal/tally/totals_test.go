package tally_test

import (
	"reflect"
	"testing"

	"github.com/NickGV/serujier/internal/models"
	"github.com/NickGV/serujier/internal/tally"
)

func TestCalculateTotals_Additivity(t *testing.T) {
	st := tally.NewState("2025-01-05")
	st.Counters[models.CategoryBrothers] = 4
	st.Rosters[models.CategoryBrothers] = []models.NamedAttendee{{ID: "m1", Name: "Jose"}, {ID: "m2", Name: "Luis"}}
	st.Counters[models.CategorySisters] = 3
	st.Rosters[models.CategorySympathizers] = []models.NamedAttendee{{ID: "s1", Name: "Ana"}}

	totals := tally.CalculateTotals(st)

	if got := totals.PerCategory[models.CategoryBrothers]; got != 6 {
		t.Errorf("brothers: expected 4+2=6, got %d", got)
	}
	if got := totals.PerCategory[models.CategorySisters]; got != 3 {
		t.Errorf("sisters: expected 3, got %d", got)
	}
	if got := totals.PerCategory[models.CategorySympathizers]; got != 1 {
		t.Errorf("sympathizers: expected 1, got %d", got)
	}

	sum := 0
	for _, c := range models.Categories() {
		sum += totals.PerCategory[c]
	}
	if totals.Grand != sum {
		t.Errorf("grand total %d does not equal category sum %d", totals.Grand, sum)
	}
}

func TestCalculateTotals_ConsecutiveCarry(t *testing.T) {
	st := tally.NewState("2025-01-05")
	st.IsConsecutive = true
	st.BaseSnapshot = &models.BaseSnapshot{
		Totals: map[models.Category]int{
			models.CategoryBrothers: 10,
			models.CategorySisters:  8,
		},
		GrandTotal: 18,
	}
	st.Counters[models.CategoryBrothers] = 3

	totals := tally.CalculateTotals(st)

	if got := totals.PerCategory[models.CategoryBrothers]; got != 13 {
		t.Errorf("brothers: expected 3 manual + 10 base = 13, got %d", got)
	}
	if got := totals.PerCategory[models.CategorySisters]; got != 8 {
		t.Errorf("sisters: expected carried 8, got %d", got)
	}
	if totals.Grand != 21 {
		t.Errorf("expected grand total 21, got %d", totals.Grand)
	}
}

// A stale snapshot left attached without the consecutive flag must not
// leak into the totals.
func TestCalculateTotals_StaleSnapshotIgnored(t *testing.T) {
	st := tally.NewState("2025-01-05")
	st.BaseSnapshot = &models.BaseSnapshot{
		Totals:     map[models.Category]int{models.CategoryBrothers: 10},
		GrandTotal: 10,
	}
	st.Counters[models.CategoryBrothers] = 2

	totals := tally.CalculateTotals(st)

	if got := totals.PerCategory[models.CategoryBrothers]; got != 2 {
		t.Errorf("expected base term to be zero, got total %d", got)
	}
	if totals.Grand != 2 {
		t.Errorf("expected grand total 2, got %d", totals.Grand)
	}
}

func TestCalculateTotals_PureAndIdempotent(t *testing.T) {
	st := tally.NewState("2025-01-05")
	st.IsConsecutive = true
	st.BaseSnapshot = &models.BaseSnapshot{
		Totals: map[models.Category]int{models.CategoryBrothers: 5},
	}
	st.Counters[models.CategoryBrothers] = 2
	st.Rosters[models.CategoryBrothers] = []models.NamedAttendee{{ID: "m1", Name: "Jose"}}

	first := tally.CalculateTotals(st)
	second := tally.CalculateTotals(st)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %v then %v", first, second)
	}
	if st.Counters[models.CategoryBrothers] != 2 || st.BaseSnapshot.Totals[models.CategoryBrothers] != 5 {
		t.Errorf("calculator mutated its inputs")
	}
}

func TestCalculateTotals_EmptyStateIsZero(t *testing.T) {
	totals := tally.CalculateTotals(tally.NewState("2025-01-05"))
	if totals.Grand != 0 {
		t.Errorf("expected zero grand total, got %d", totals.Grand)
	}
}
