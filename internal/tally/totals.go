package tally

import "github.com/NickGV/serujier/internal/models"

// Totals holds the computed per-category and grand totals for a state.
type Totals struct {
	PerCategory map[models.Category]int `json:"perCategory"`
	Grand       int                     `json:"grand"`
}

// CalculateTotals computes the displayed totals for a state. For each
// category the total is manual counter + named roster length, plus the
// base snapshot's category total while consecutive mode is active. The
// base term is zero whenever the consecutive flag is off, even if a stale
// snapshot is still attached. Pure: neither input field is mutated.
func CalculateTotals(st models.TallyState) Totals {
	totals := Totals{PerCategory: make(map[models.Category]int, len(models.Categories()))}

	var base *models.BaseSnapshot
	if st.IsConsecutive {
		base = st.BaseSnapshot
	}

	for _, c := range models.Categories() {
		n := st.Counters[c] + len(st.Rosters[c]) + base.CategoryTotal(c)
		totals.PerCategory[c] = n
		totals.Grand += n
	}
	return totals
}
