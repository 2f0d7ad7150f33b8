package services

import (
	"context"
	stderrors "errors"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/NickGV/serujier/internal/errors"
	"github.com/NickGV/serujier/internal/logger"
	"github.com/NickGV/serujier/internal/metrics"
	"github.com/NickGV/serujier/internal/models"
	"github.com/NickGV/serujier/internal/tally"
	"github.com/NickGV/serujier/pkg/archive"
)

// Mode is the engine's position in the save/reconciliation state machine.
type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeBaseSaved   Mode = "baseSaved" // base record saved, continue/decline pending
	ModeConsecutive Mode = "consecutive"
	ModeEditing     Mode = "editing"
)

// ModeOf derives the state-machine mode from the tally state flags.
func ModeOf(st models.TallyState) Mode {
	switch {
	case st.IsEditMode:
		return ModeEditing
	case st.IsConsecutive:
		return ModeConsecutive
	case st.BaseSnapshot != nil:
		return ModeBaseSaved
	default:
		return ModeNormal
	}
}

// TallySummary is everything the counter page needs in one read.
type TallySummary struct {
	State     models.TallyState     `json:"state"`
	Mode      Mode                  `json:"mode"`
	Totals    tally.Totals          `json:"totals"`
	Attendees []tally.AttendeeEntry `json:"attendees"`
}

// SaveResult describes the outcome of a save.
type SaveResult struct {
	RecordID         string `json:"recordId"`
	Mode             Mode   `json:"mode"`
	GrandTotal       int    `json:"grandTotal"`
	AwaitingDecision bool   `json:"awaitingDecision"` // true after saving a base service
	Updated          bool   `json:"updated"`          // true for edit-mode commits
}

// AttendanceService is the save/reconciliation orchestrator: it owns the
// state-machine transitions and decides which archive calls to issue.
type AttendanceService struct {
	log       logger.Logger
	store     *tally.Store
	archive   archive.Client
	metrics   *metrics.Metrics
	baseTypes map[string]bool

	mu     sync.Mutex
	saving bool
}

// NewAttendanceService creates a new AttendanceService. baseServiceTypes
// lists the service types whose save opens the consecutive flow; empty
// means the built-in defaults.
func NewAttendanceService(log logger.Logger, store *tally.Store, archiveClient archive.Client, m *metrics.Metrics, baseServiceTypes []string) *AttendanceService {
	if len(baseServiceTypes) == 0 {
		baseServiceTypes = models.DefaultBaseServiceTypes()
	}
	baseTypes := make(map[string]bool, len(baseServiceTypes))
	for _, t := range baseServiceTypes {
		baseTypes[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return &AttendanceService{
		log:       log,
		store:     store,
		archive:   archiveClient,
		metrics:   m,
		baseTypes: baseTypes,
	}
}

// IsBaseService reports whether saving the given service type opens the
// consecutive flow.
func (s *AttendanceService) IsBaseService(serviceType string) bool {
	return s.baseTypes[strings.ToLower(strings.TrimSpace(serviceType))]
}

// BaseServiceTypes returns the configured base service types, normalized
// to lower case, in alphabetical order.
func (s *AttendanceService) BaseServiceTypes() []string {
	types := make([]string, 0, len(s.baseTypes))
	for t := range s.baseTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Summary returns the current state with computed totals and the flat
// attendee list.
func (s *AttendanceService) Summary() TallySummary {
	st := s.store.State()
	return TallySummary{
		State:     st,
		Mode:      ModeOf(st),
		Totals:    tally.CalculateTotals(st),
		Attendees: tally.AllAttendees(st),
	}
}

// SetCounter sets a category's manual counter to an absolute value.
func (s *AttendanceService) SetCounter(category models.Category, value int) error {
	if !models.ValidCategory(category) {
		return errors.InvalidInputf("unknown category %q", category)
	}
	s.store.Dispatch(tally.SetCounter(category, value))
	return nil
}

// Increment adjusts a category's manual counter by delta (negative to
// decrement; floors at zero).
func (s *AttendanceService) Increment(category models.Category, delta int) error {
	if !models.ValidCategory(category) {
		return errors.InvalidInputf("unknown category %q", category)
	}
	s.store.Dispatch(tally.Increment(category, delta))
	return nil
}

// AddAttendee adds a named attendee to a category roster. Catalog-backed
// people pass their catalog id; an empty id means an ad-hoc entry (a
// visiting brother) and gets a generated one.
func (s *AttendanceService) AddAttendee(category models.Category, id, name, church string) (models.NamedAttendee, error) {
	if !models.ValidCategory(category) {
		return models.NamedAttendee{}, errors.InvalidInputf("unknown category %q", category)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.NamedAttendee{}, ErrEmptyName
	}
	if id == "" {
		id = uuid.NewString()
	}
	attendee := models.NamedAttendee{ID: id, Name: name, Church: strings.TrimSpace(church)}
	s.store.Dispatch(tally.AddAttendee(category, attendee))
	return attendee, nil
}

// RemoveAttendee removes a session attendee from a category roster.
// Base-snapshot attendees are not reachable from here.
func (s *AttendanceService) RemoveAttendee(category models.Category, id string) error {
	if !models.ValidCategory(category) {
		return errors.InvalidInputf("unknown category %q", category)
	}
	s.store.Dispatch(tally.RemoveAttendee(category, id))
	return nil
}

// SetServiceType changes the day's service type.
func (s *AttendanceService) SetServiceType(serviceType string) error {
	serviceType = strings.TrimSpace(serviceType)
	if serviceType == "" {
		return errors.InvalidInput("service type must not be empty")
	}
	s.store.Dispatch(tally.SetServiceType(serviceType))
	return nil
}

// SetUshers replaces the usher selection.
func (s *AttendanceService) SetUshers(names []string) {
	s.store.Dispatch(tally.SetUshers(names))
}

// beginSave marks a save in flight; false if one already is.
func (s *AttendanceService) beginSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return false
	}
	s.saving = true
	return true
}

func (s *AttendanceService) endSave() {
	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
}

// Save commits the current tally to the archive and advances the state
// machine. An archive failure leaves the state exactly as it was so the
// operator can retry.
func (s *AttendanceService) Save(ctx context.Context) (*SaveResult, error) {
	if !s.beginSave() {
		return nil, ErrSaveInProgress
	}
	defer s.endSave()

	st := s.store.State()
	if len(st.SelectedUshers) == 0 {
		return nil, ErrNoUsherSelected
	}

	rec := tally.BuildRecord(st)
	wire := archive.FromModel(rec)

	if st.IsEditMode {
		return s.commitEdit(ctx, st, wire)
	}

	id, err := s.archive.CreateRecord(ctx, wire)
	if err != nil {
		s.metrics.SaveFailures.Inc()
		return nil, errors.Unavailable("failed to save record", err)
	}
	rec.ID = id

	// Saving a base service outside consecutive mode opens the
	// continue/decline decision; the day's data stays put until the
	// operator answers.
	if !st.IsConsecutive && s.IsBaseService(st.ServiceType) {
		s.store.Dispatch(tally.SetBaseSnapshot(tally.SnapshotFromRecord(rec)))
		s.metrics.RecordsSaved.WithLabelValues("base").Inc()
		s.log.Info("Base service saved", "record", id, "service", st.ServiceType, "total", rec.GrandTotal)
		return &SaveResult{RecordID: id, Mode: ModeBaseSaved, GrandTotal: rec.GrandTotal, AwaitingDecision: true}, nil
	}

	if st.IsConsecutive {
		s.store.Dispatch(tally.ClearDay(), tally.SetServiceType(models.DefaultServiceType))
		s.metrics.RecordsSaved.WithLabelValues("consecutive").Inc()
	} else {
		s.store.Dispatch(tally.ClearDay())
		s.metrics.RecordsSaved.WithLabelValues("create").Inc()
	}
	s.log.Info("Record saved", "record", id, "service", st.ServiceType, "total", rec.GrandTotal)
	return &SaveResult{RecordID: id, Mode: ModeNormal, GrandTotal: rec.GrandTotal}, nil
}

// commitEdit updates the archived record in place and returns the engine
// to a fresh state for today.
func (s *AttendanceService) commitEdit(ctx context.Context, st models.TallyState, wire archive.Record) (*SaveResult, error) {
	if st.EditingRecordID == "" {
		return nil, ErrNotEditing
	}
	if err := s.archive.UpdateRecord(ctx, st.EditingRecordID, wire); err != nil {
		s.metrics.SaveFailures.Inc()
		return nil, errors.Unavailable("failed to update record", err)
	}
	s.store.ResetDay()
	s.metrics.RecordsSaved.WithLabelValues("update").Inc()
	s.log.Info("Record updated", "record", st.EditingRecordID, "total", wire.GrandTotal)
	return &SaveResult{RecordID: st.EditingRecordID, Mode: ModeNormal, GrandTotal: wire.GrandTotal, Updated: true}, nil
}

// ContinueConsecutive accepts the pending decision after a base save:
// counters and rosters restart at zero, the snapshot keeps contributing,
// the usher selection is preserved. followOnType defaults to the Sunday
// service.
func (s *AttendanceService) ContinueConsecutive(followOnType string) error {
	st := s.store.State()
	if ModeOf(st) != ModeBaseSaved {
		return ErrNoBaseService
	}
	if followOnType = strings.TrimSpace(followOnType); followOnType == "" {
		followOnType = models.DefaultServiceType
	}
	s.store.Dispatch(
		tally.ResetCounts(),
		tally.SetConsecutive(true),
		tally.SetServiceType(followOnType),
	)
	s.log.Info("Consecutive service started", "service", followOnType, "base", st.BaseSnapshot.ServiceLabel)
	return nil
}

// DeclineConsecutive rejects the pending decision: the snapshot is
// discarded and the day data cleared.
func (s *AttendanceService) DeclineConsecutive() error {
	if ModeOf(s.store.State()) != ModeBaseSaved {
		return ErrNoBaseService
	}
	s.store.Dispatch(tally.ClearDay())
	return nil
}

// EnterEdit loads an archived record, reconciles it back into engine
// state and switches to edit mode. A fetch failure leaves the current
// state untouched.
func (s *AttendanceService) EnterEdit(ctx context.Context, recordID string) (TallySummary, error) {
	wire, err := s.archive.GetRecord(ctx, recordID)
	if err != nil {
		return TallySummary{}, s.wrapArchiveError(err, "failed to fetch record "+recordID)
	}

	res := tally.ReconcileRecord(wire.ToModel())
	for _, c := range res.Inconsistencies {
		s.log.Warn("Stored total below roster length, manual counter floored at zero",
			"record", recordID, "category", c)
	}
	s.store.Dispatch(tally.Replace(res.State))
	return s.Summary(), nil
}

// Record fetches a single archived record.
func (s *AttendanceService) Record(ctx context.Context, recordID string) (models.HistoricalRecord, error) {
	wire, err := s.archive.GetRecord(ctx, recordID)
	if err != nil {
		return models.HistoricalRecord{}, s.wrapArchiveError(err, "failed to fetch record "+recordID)
	}
	return wire.ToModel(), nil
}

// Records lists archived records, optionally filtered to one day.
func (s *AttendanceService) Records(ctx context.Context, date string) ([]models.HistoricalRecord, error) {
	wires, err := s.archive.ListRecords(ctx, date)
	if err != nil {
		return nil, s.wrapArchiveError(err, "failed to list records")
	}
	out := make([]models.HistoricalRecord, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.ToModel())
	}
	return out, nil
}

// wrapArchiveError classifies archive failures: a 404 becomes a not-found
// error, everything else a retryable unavailable error.
func (s *AttendanceService) wrapArchiveError(err error, msg string) error {
	var statusErr *archive.ErrStatus
	if stderrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return errors.NotFound(msg + ": not found")
	}
	return errors.Unavailable(msg, err)
}
