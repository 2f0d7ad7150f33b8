package tally_test

import (
	"testing"

	"github.com/NickGV/serujier/internal/models"
	"github.com/NickGV/serujier/internal/tally"
)

func TestAllAttendees_BaseEntriesFirstWithPrefixedIDs(t *testing.T) {
	st := tally.NewState("2025-01-05")
	st.IsConsecutive = true
	st.BaseSnapshot = &models.BaseSnapshot{
		Rosters: map[models.Category][]models.NamedAttendee{
			models.CategorySympathizers: {{ID: "s1", Name: "Ana"}},
		},
	}
	st.Rosters[models.CategoryBrothers] = []models.NamedAttendee{{ID: "m1", Name: "Jose"}}

	list := tally.AllAttendees(st)
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}

	if !list[0].FromBase || list[0].DisplayID != "base-s1" || list[0].SourceID != "s1" {
		t.Errorf("expected base entry first with prefixed display id, got %+v", list[0])
	}
	if list[1].FromBase || list[1].DisplayID != "m1" {
		t.Errorf("expected session entry with original id, got %+v", list[1])
	}
}

// The same person counted in the base service and again in the session
// yields two distinct rows, and removing the session row leaves the base
// row untouched.
func TestAllAttendees_SharedIDDisambiguation(t *testing.T) {
	st := tally.NewState("2025-01-05")
	st.IsConsecutive = true
	st.BaseSnapshot = &models.BaseSnapshot{
		Rosters: map[models.Category][]models.NamedAttendee{
			models.CategorySympathizers: {{ID: "s7", Name: "Ana"}},
		},
	}
	st.Rosters[models.CategorySympathizers] = []models.NamedAttendee{{ID: "s7", Name: "Ana"}}

	list := tally.AllAttendees(st)
	if len(list) != 2 {
		t.Fatalf("expected 2 entries for the same catalog id, got %d", len(list))
	}
	if list[0].DisplayID == list[1].DisplayID {
		t.Errorf("expected distinct display ids, both %q", list[0].DisplayID)
	}

	// Remove the session entry; the base entry is display-only.
	remove := tally.RemoveAttendee(models.CategorySympathizers, list[1].SourceID)
	remove(&st)

	after := tally.AllAttendees(st)
	if len(after) != 1 || !after[0].FromBase {
		t.Errorf("expected only the base entry to remain, got %+v", after)
	}
}

func TestAllAttendees_SnapshotIgnoredOutsideConsecutiveMode(t *testing.T) {
	st := tally.NewState("2025-01-05")
	st.BaseSnapshot = &models.BaseSnapshot{
		Rosters: map[models.Category][]models.NamedAttendee{
			models.CategoryBrothers: {{ID: "m1", Name: "Jose"}},
		},
	}

	if list := tally.AllAttendees(st); len(list) != 0 {
		t.Errorf("expected no entries when consecutive mode is off, got %d", len(list))
	}
}

func TestAllAttendees_StableCategoryOrder(t *testing.T) {
	st := tally.NewState("2025-01-05")
	st.Rosters[models.CategoryVisitingBrothers] = []models.NamedAttendee{{ID: "v1", Name: "Carlos", Church: "Betania"}}
	st.Rosters[models.CategoryBrothers] = []models.NamedAttendee{{ID: "m1", Name: "Jose"}}

	list := tally.AllAttendees(st)
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].Category != models.CategoryBrothers || list[1].Category != models.CategoryVisitingBrothers {
		t.Errorf("expected catalog order brothers then visitingBrothers, got %v then %v", list[0].Category, list[1].Category)
	}
	if list[1].Church != "Betania" {
		t.Errorf("expected church of origin to carry through, got %q", list[1].Church)
	}
}
