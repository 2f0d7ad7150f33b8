package tally

import (
	"strings"

	"github.com/NickGV/serujier/internal/models"
)

// SetCounter sets the manual counter for a category. Negative values clamp
// to zero; unknown categories are ignored.
func SetCounter(c models.Category, n int) Update {
	return func(st *models.TallyState) {
		if !models.ValidCategory(c) {
			return
		}
		if n < 0 {
			n = 0
		}
		st.Counters[c] = n
	}
}

// Increment adjusts the manual counter for a category by delta, flooring
// at zero.
func Increment(c models.Category, delta int) Update {
	return func(st *models.TallyState) {
		if !models.ValidCategory(c) {
			return
		}
		n := st.Counters[c] + delta
		if n < 0 {
			n = 0
		}
		st.Counters[c] = n
	}
}

// AddAttendee appends a named attendee to a category roster. An attendee
// whose id is already on that roster is not added again.
func AddAttendee(c models.Category, a models.NamedAttendee) Update {
	return func(st *models.TallyState) {
		if !models.ValidCategory(c) || a.ID == "" {
			return
		}
		for _, existing := range st.Rosters[c] {
			if existing.ID == a.ID {
				return
			}
		}
		st.Rosters[c] = append(st.Rosters[c], a)
	}
}

// RemoveAttendee removes the attendee with the given id from a category
// roster. Only session entries live on these rosters, so base-snapshot
// attendees can never be removed through this path.
func RemoveAttendee(c models.Category, id string) Update {
	return func(st *models.TallyState) {
		roster := st.Rosters[c]
		for i, a := range roster {
			if a.ID == id {
				st.Rosters[c] = append(roster[:i:i], roster[i+1:]...)
				return
			}
		}
	}
}

// SetServiceType changes the service type for the day.
func SetServiceType(serviceType string) Update {
	return func(st *models.TallyState) {
		st.ServiceType = serviceType
	}
}

// SetUshers replaces the usher selection. More than one name selects the
// synthetic multiple mode with a comma-joined display string.
func SetUshers(names []string) Update {
	return func(st *models.TallyState) {
		applyUshers(st, names)
	}
}

func applyUshers(st *models.TallyState, names []string) {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	st.SelectedUshers = cleaned
	switch {
	case len(cleaned) > 1:
		st.UsherMode = models.UsherModeMultiple
		st.UsherDisplay = strings.Join(cleaned, ", ")
	case len(cleaned) == 1:
		st.UsherMode = models.UsherModeSingle
		st.UsherDisplay = cleaned[0]
	default:
		st.UsherMode = models.UsherModeSingle
		st.UsherDisplay = ""
	}
}

// SetBaseSnapshot attaches (or clears, with nil) the carried-over base
// service snapshot.
func SetBaseSnapshot(snap *models.BaseSnapshot) Update {
	return func(st *models.TallyState) {
		st.BaseSnapshot = snap
	}
}

// SetConsecutive toggles consecutive mode.
func SetConsecutive(on bool) Update {
	return func(st *models.TallyState) {
		st.IsConsecutive = on
	}
}

// ResetCounts zeroes every counter and empties every roster, leaving the
// usher selection, mode flags and snapshot alone. This is the transition
// into a consecutive service: the base snapshot keeps contributing while
// the operator counts the follow-on service from zero.
func ResetCounts() Update {
	return func(st *models.TallyState) {
		for _, c := range models.Categories() {
			st.Counters[c] = 0
			st.Rosters[c] = nil
		}
	}
}

// ClearDay resets every counter, roster, the usher selection and the mode
// flags. Date and service type survive; callers that also want the default
// service type compose this with SetServiceType.
func ClearDay() Update {
	return func(st *models.TallyState) {
		for _, c := range models.Categories() {
			st.Counters[c] = 0
			st.Rosters[c] = nil
		}
		st.SelectedUshers = nil
		st.UsherMode = models.UsherModeSingle
		st.UsherDisplay = ""
		st.IsConsecutive = false
		st.IsEditMode = false
		st.EditingRecordID = ""
		st.BaseSnapshot = nil
	}
}

// Replace swaps in a whole new state, used when entering edit mode after
// reconciliation.
func Replace(next models.TallyState) Update {
	return func(st *models.TallyState) {
		*st = cloneState(next)
	}
}
