package models

// Well-known service types. ServiceType on a TallyState is free-form
// (operators can type their own), but these are the selectable defaults.
const (
	ServiceDominical   = "dominical"
	ServiceEvangelismo = "evangelismo"
	ServiceMisionera   = "misionera"
	ServiceOracion     = "oracion"
	ServiceEstudio     = "estudio"
)

// DefaultServiceType is the type a fresh day starts with and the type the
// engine returns to after a consecutive cycle finalizes.
const DefaultServiceType = ServiceDominical

// DefaultBaseServiceTypes are the service types whose save opens the
// consecutive flow (the saved record becomes the base snapshot).
func DefaultBaseServiceTypes() []string {
	return []string{ServiceEvangelismo, ServiceMisionera}
}

// HistoricalRecord is the durable archive unit for one saved service.
// Instances are owned by the archive; the engine only reads them and
// issues explicit create/update calls.
type HistoricalRecord struct {
	ID           string                       `json:"id,omitempty"`
	Date         string                       `json:"date"`
	ServiceLabel string                       `json:"serviceLabel"`
	Ushers       []string                     `json:"ushers"`
	Totals       map[Category]int             `json:"totals"`
	Rosters      map[Category][]NamedAttendee `json:"rosters"`
	GrandTotal   int                          `json:"grandTotal"`
}
