package tally

import "github.com/NickGV/serujier/internal/models"

// BaseIDPrefix disambiguates base-snapshot attendees from session
// attendees that share the same catalog id.
const BaseIDPrefix = "base-"

// AttendeeEntry is one row of the flat attendee list shown on the counter
// page. DisplayID is unique across the whole list; SourceID is the id a
// removal must reference (base entries are not removable at all).
type AttendeeEntry struct {
	DisplayID string          `json:"displayId"`
	SourceID  string          `json:"sourceId"`
	Name      string          `json:"name"`
	Church    string          `json:"church,omitempty"`
	Category  models.Category `json:"category"`
	FromBase  bool            `json:"fromBase"`
}

// AllAttendees flattens the named rosters into a single display list.
// While consecutive mode is active the base snapshot's attendees come
// first, tagged FromBase with a prefixed display id; session attendees
// follow in category order with their original ids.
func AllAttendees(st models.TallyState) []AttendeeEntry {
	var out []AttendeeEntry

	if st.IsConsecutive && st.BaseSnapshot != nil {
		for _, c := range models.Categories() {
			for _, a := range st.BaseSnapshot.Rosters[c] {
				out = append(out, AttendeeEntry{
					DisplayID: BaseIDPrefix + a.ID,
					SourceID:  a.ID,
					Name:      a.Name,
					Church:    a.Church,
					Category:  c,
					FromBase:  true,
				})
			}
		}
	}

	for _, c := range models.Categories() {
		for _, a := range st.Rosters[c] {
			out = append(out, AttendeeEntry{
				DisplayID: a.ID,
				SourceID:  a.ID,
				Name:      a.Name,
				Church:    a.Church,
				Category:  c,
				FromBase:  false,
			})
		}
	}
	return out
}
