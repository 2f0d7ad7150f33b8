package services

import (
	"context"

	"github.com/NickGV/serujier/internal/models"
)

// AttendanceServicer is the attendance surface the handlers depend on.
type AttendanceServicer interface {
	Summary() TallySummary
	SetCounter(category models.Category, value int) error
	Increment(category models.Category, delta int) error
	AddAttendee(category models.Category, id, name, church string) (models.NamedAttendee, error)
	RemoveAttendee(category models.Category, id string) error
	SetServiceType(serviceType string) error
	SetUshers(names []string)
	Save(ctx context.Context) (*SaveResult, error)
	ContinueConsecutive(followOnType string) error
	DeclineConsecutive() error
	EnterEdit(ctx context.Context, recordID string) (TallySummary, error)
	Record(ctx context.Context, recordID string) (models.HistoricalRecord, error)
	Records(ctx context.Context, date string) ([]models.HistoricalRecord, error)
	IsBaseService(serviceType string) bool
	BaseServiceTypes() []string
}

// CatalogServicer is the catalog surface the handlers depend on.
type CatalogServicer interface {
	Members(ctx context.Context, category models.Category) ([]models.Member, error)
	AddMember(ctx context.Context, name string, category models.Category) (models.Member, error)
	UpdateMember(ctx context.Context, id int64, name string, category models.Category, active bool) error
	DeleteMember(ctx context.Context, id int64) error

	Sympathizers(ctx context.Context) ([]models.Sympathizer, error)
	AddSympathizer(ctx context.Context, name, phone string) (models.Sympathizer, error)
	UpdateSympathizer(ctx context.Context, id int64, name, phone string, active bool) error
	DeleteSympathizer(ctx context.Context, id int64) error

	Ushers(ctx context.Context) ([]models.Usher, error)
	ActiveUshers(ctx context.Context) ([]models.Usher, error)
	AddUsher(ctx context.Context, name string) (models.Usher, error)
	SetUsherActive(ctx context.Context, id int64, active bool) error
	DeleteUsher(ctx context.Context, id int64) error
}

var (
	_ AttendanceServicer = (*AttendanceService)(nil)
	_ CatalogServicer    = (*CatalogService)(nil)
)
