package models

// Category identifies one fixed attendance bucket. The set is closed;
// counters and rosters are always keyed by one of the constants below.
type Category string

const (
	CategoryBrothers         Category = "brothers"
	CategorySisters          Category = "sisters"
	CategoryChildren         Category = "children"
	CategoryTeens            Category = "teens"
	CategorySympathizers     Category = "sympathizers"
	CategorySetApartBrothers Category = "setApartBrothers"
	CategoryVisitingBrothers Category = "visitingBrothers"
)

// categoryOrder fixes the display and iteration order everywhere.
var categoryOrder = []Category{
	CategoryBrothers,
	CategorySisters,
	CategoryChildren,
	CategoryTeens,
	CategorySympathizers,
	CategorySetApartBrothers,
	CategoryVisitingBrothers,
}

// Categories returns the closed category set in display order.
// The returned slice is a copy; callers may reorder it freely.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	for _, known := range categoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable label used on records and the display board.
func (c Category) Label() string {
	switch c {
	case CategoryBrothers:
		return "Hermanos"
	case CategorySisters:
		return "Hermanas"
	case CategoryChildren:
		return "Niños"
	case CategoryTeens:
		return "Adolescentes"
	case CategorySympathizers:
		return "Simpatizantes"
	case CategorySetApartBrothers:
		return "Hermanos Apartados"
	case CategoryVisitingBrothers:
		return "Hermanos Visitantes"
	default:
		return string(c)
	}
}

// NamedAttendee is an individually identified person in a category roster.
// ID is the catalog id for members and sympathizers; visiting brothers get
// a freshly generated UUID when they are added.
type NamedAttendee struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Church string `json:"church,omitempty"` // visiting brothers only
}

// BaseSnapshot is the carried-over copy of a just-saved base service,
// active only while the consecutive flow is running. It is immutable for
// as long as it is attached to a TallyState.
type BaseSnapshot struct {
	RecordID     string                       `json:"recordId"`
	ServiceLabel string                       `json:"serviceLabel"`
	Totals       map[Category]int             `json:"totals"`
	Rosters      map[Category][]NamedAttendee `json:"rosters"`
	GrandTotal   int                          `json:"grandTotal"`
}

// CategoryTotal returns the snapshot total for a category (zero when absent).
func (b *BaseSnapshot) CategoryTotal(c Category) int {
	if b == nil {
		return 0
	}
	return b.Totals[c]
}

// Usher selection modes. A reconciled legacy record with several ushers
// selects the synthetic multiple mode with a comma-joined display string.
const (
	UsherModeSingle   = "single"
	UsherModeMultiple = "multiple"
)

// TallyState is the root mutable entity for one day of counting.
// All mutation goes through the tally.Store; everything here is plain data.
type TallyState struct {
	Date            string                       `json:"date"` // YYYY-MM-DD, local time
	ServiceType     string                       `json:"serviceType"`
	SelectedUshers  []string                     `json:"selectedUshers"`
	UsherMode       string                       `json:"usherMode"`
	UsherDisplay    string                       `json:"usherDisplay,omitempty"`
	Counters        map[Category]int             `json:"counters"`
	Rosters         map[Category][]NamedAttendee `json:"rosters"`
	IsConsecutive   bool                         `json:"isConsecutive"`
	IsEditMode      bool                         `json:"isEditMode"`
	EditingRecordID string                       `json:"editingRecordId,omitempty"`
	BaseSnapshot    *BaseSnapshot                `json:"baseSnapshot,omitempty"`
}

// Member is a catalog person belonging to a member category.
type Member struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Active   bool     `json:"active"`
}

// Sympathizer is a catalog person selectable into the sympathizers roster.
type Sympathizer struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Active bool   `json:"active"`
}

// Usher is a catalog person who can be on duty for a service.
type Usher struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// WSMessage is the envelope for WebSocket broadcasts to display boards.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
