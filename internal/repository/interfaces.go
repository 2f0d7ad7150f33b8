package repository

import (
	"context"

	"github.com/NickGV/serujier/internal/models"
)

// CatalogRepository defines the lookup tables the counter draws from:
// members by sub-category, sympathizers, and the usher roster.
type CatalogRepository interface {
	ListMembers(ctx context.Context, category models.Category) ([]models.Member, error)
	CreateMember(ctx context.Context, name string, category models.Category) (int64, error)
	UpdateMember(ctx context.Context, id int64, name string, category models.Category, active bool) error
	DeleteMember(ctx context.Context, id int64) error

	ListSympathizers(ctx context.Context) ([]models.Sympathizer, error)
	CreateSympathizer(ctx context.Context, name, phone string) (int64, error)
	UpdateSympathizer(ctx context.Context, id int64, name, phone string, active bool) error
	DeleteSympathizer(ctx context.Context, id int64) error

	ListUshers(ctx context.Context) ([]models.Usher, error)
	CreateUsher(ctx context.Context, name string) (int64, error)
	SetUsherActive(ctx context.Context, id int64, active bool) error
	DeleteUsher(ctx context.Context, id int64) error
}

// StateRepository persists the serialized running tally between process
// restarts. One key holds one serialized TallyState.
type StateRepository interface {
	SaveTallyState(ctx context.Context, key, data string) error
	LoadTallyState(ctx context.Context, key string) (string, error)
	DeleteTallyState(ctx context.Context, key string) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	CatalogRepository
	StateRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
