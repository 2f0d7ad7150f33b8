// Package tally implements the attendance tally engine: the day-scoped
// state container, the totals calculator, the attendee roster builder and
// the manual-counter reconciler used to re-enter edit mode.
package tally

import (
	"sync"
	"time"

	"github.com/NickGV/serujier/internal/models"
)

// DateFormat is the day partition key layout (local time, zero-padded).
const DateFormat = "2006-01-02"

// Today formats now as a day partition key.
func Today(now time.Time) string {
	return now.Format(DateFormat)
}

// Update mutates a TallyState. Updates are applied atomically by
// Store.Dispatch; they must not retain the state pointer.
type Update func(*models.TallyState)

// Listener observes committed state. It receives a defensive copy and may
// not assume it runs on any particular goroutine.
type Listener func(models.TallyState)

// Store is the single mutation funnel for the day's tally. It holds no
// persistence of its own: side effects (storage writes, broadcasts) are
// subscribers registered at wiring time.
type Store struct {
	mu      sync.RWMutex
	state   models.TallyState
	subs    map[int]Listener
	nextSub int
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock, used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store holding a fresh empty state dated today.
func New(opts ...Option) *Store {
	s := &Store{
		subs: make(map[int]Listener),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = NewState(Today(s.now()))
	return s
}

// NewState returns an empty TallyState for the given day with every
// category counter at zero and every roster empty.
func NewState(date string) models.TallyState {
	st := models.TallyState{
		Date:        date,
		ServiceType: models.DefaultServiceType,
		UsherMode:   models.UsherModeSingle,
		Counters:    make(map[models.Category]int, len(models.Categories())),
		Rosters:     make(map[models.Category][]models.NamedAttendee, len(models.Categories())),
	}
	for _, c := range models.Categories() {
		st.Counters[c] = 0
		st.Rosters[c] = nil
	}
	return st
}

// Hydrate replaces the store state with a persisted one, enforcing the
// day-boundary invariant: state dated anything but today is discarded and
// replaced by a fresh empty state. Call once at startup, before Subscribe.
func (s *Store) Hydrate(persisted *models.TallyState) {
	today := Today(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if persisted == nil || persisted.Date != today {
		s.state = NewState(today)
		return
	}
	s.state = cloneState(*persisted)
}

// State returns a deep copy of the current state.
func (s *Store) State() models.TallyState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Dispatch applies the updates in order as one atomic transition, then
// notifies subscribers with a copy of the committed state. Subscribers run
// outside the lock so they may call back into the store.
func (s *Store) Dispatch(updates ...Update) {
	s.mu.Lock()
	for _, u := range updates {
		u(&s.state)
	}
	committed := cloneState(s.state)
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(committed)
	}
}

// ResetDay replaces the state with a fresh empty state dated today, used
// after committing an edit of a past record.
func (s *Store) ResetDay() {
	s.Dispatch(func(st *models.TallyState) {
		*st = NewState(Today(s.now()))
	})
}

// Subscribe registers a listener for committed states and returns its
// unsubscribe function.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// cloneState deep-copies maps, rosters and the base snapshot so callers
// can never alias store internals.
func cloneState(st models.TallyState) models.TallyState {
	out := st
	out.SelectedUshers = append([]string(nil), st.SelectedUshers...)
	out.Counters = make(map[models.Category]int, len(st.Counters))
	for c, n := range st.Counters {
		out.Counters[c] = n
	}
	out.Rosters = cloneRosters(st.Rosters)
	if st.BaseSnapshot != nil {
		snap := *st.BaseSnapshot
		snap.Totals = make(map[models.Category]int, len(st.BaseSnapshot.Totals))
		for c, n := range st.BaseSnapshot.Totals {
			snap.Totals[c] = n
		}
		snap.Rosters = cloneRosters(st.BaseSnapshot.Rosters)
		out.BaseSnapshot = &snap
	}
	return out
}

func cloneRosters(src map[models.Category][]models.NamedAttendee) map[models.Category][]models.NamedAttendee {
	out := make(map[models.Category][]models.NamedAttendee, len(src))
	for c, roster := range src {
		out[c] = append([]models.NamedAttendee(nil), roster...)
	}
	return out
}
