package tally

import "github.com/NickGV/serujier/internal/models"

// ReconcileResult is the outcome of rebuilding engine state from an
// archived record. Inconsistencies lists the categories whose stored total
// was smaller than the named roster, where the manual counter was floored
// at zero; callers decide whether to log or surface them.
type ReconcileResult struct {
	State           models.TallyState
	Inconsistencies []models.Category
}

// ReconcileRecord rebuilds a TallyState from an archived record so the
// operator can edit it. A record only stores combined totals and named
// rosters, so the manual-counter component is recovered per category as
// max(0, total - len(roster)); the rosters themselves carry over intact.
// The returned state is in edit mode, dated to the record's day.
func ReconcileRecord(rec models.HistoricalRecord) ReconcileResult {
	st := NewState(rec.Date)
	st.ServiceType = rec.ServiceLabel
	st.IsEditMode = true
	st.EditingRecordID = rec.ID
	applyUshers(&st, rec.Ushers)

	var inconsistent []models.Category
	for _, c := range models.Categories() {
		roster := append([]models.NamedAttendee(nil), rec.Rosters[c]...)
		st.Rosters[c] = roster

		manual := rec.Totals[c] - len(roster)
		if manual < 0 {
			manual = 0
			inconsistent = append(inconsistent, c)
		}
		st.Counters[c] = manual
	}

	return ReconcileResult{State: st, Inconsistencies: inconsistent}
}

// BuildRecord is the inverse of ReconcileRecord: it folds the current
// state and its computed totals into an archive record. Named rosters are
// merged with the base snapshot's rosters while consecutive mode is
// active, since the saved record must stand on its own.
func BuildRecord(st models.TallyState) models.HistoricalRecord {
	totals := CalculateTotals(st)

	rec := models.HistoricalRecord{
		ID:           st.EditingRecordID,
		Date:         st.Date,
		ServiceLabel: st.ServiceType,
		Ushers:       append([]string(nil), st.SelectedUshers...),
		Totals:       totals.PerCategory,
		Rosters:      make(map[models.Category][]models.NamedAttendee, len(models.Categories())),
		GrandTotal:   totals.Grand,
	}

	for _, c := range models.Categories() {
		var roster []models.NamedAttendee
		if st.IsConsecutive && st.BaseSnapshot != nil {
			roster = append(roster, st.BaseSnapshot.Rosters[c]...)
		}
		roster = append(roster, st.Rosters[c]...)
		rec.Rosters[c] = roster
	}
	return rec
}

// SnapshotFromRecord captures a just-saved record as the base snapshot for
// a consecutive service.
func SnapshotFromRecord(rec models.HistoricalRecord) *models.BaseSnapshot {
	snap := &models.BaseSnapshot{
		RecordID:     rec.ID,
		ServiceLabel: rec.ServiceLabel,
		Totals:       make(map[models.Category]int, len(rec.Totals)),
		Rosters:      make(map[models.Category][]models.NamedAttendee, len(rec.Rosters)),
		GrandTotal:   rec.GrandTotal,
	}
	for c, n := range rec.Totals {
		snap.Totals[c] = n
	}
	for c, roster := range rec.Rosters {
		snap.Rosters[c] = append([]models.NamedAttendee(nil), roster...)
	}
	return snap
}
