package services

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"

	"github.com/NickGV/serujier/internal/errors"
	"github.com/NickGV/serujier/internal/logger"
	"github.com/NickGV/serujier/internal/models"
	"github.com/NickGV/serujier/internal/repository"
)

// CatalogService manages the lookup tables the counter draws from:
// members, sympathizers and the usher roster.
type CatalogService struct {
	log  logger.Logger
	repo repository.CatalogRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(log logger.Logger, repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{log: log, repo: repo}
}

// Members lists catalog members, optionally filtered to one category.
func (s *CatalogService) Members(ctx context.Context, category models.Category) ([]models.Member, error) {
	if category != "" && !models.ValidCategory(category) {
		return nil, errors.InvalidInputf("unknown category %q", category)
	}
	members, err := s.repo.ListMembers(ctx, category)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return members, nil
}

// AddMember adds a person to the member catalog.
func (s *CatalogService) AddMember(ctx context.Context, name string, category models.Category) (models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Member{}, ErrEmptyName
	}
	if !models.ValidCategory(category) {
		return models.Member{}, errors.InvalidInputf("unknown category %q", category)
	}
	id, err := s.repo.CreateMember(ctx, name, category)
	if err != nil {
		return models.Member{}, errors.Internal(err)
	}
	s.log.Info("Member added", "id", id, "name", name, "category", category)
	return models.Member{ID: id, Name: name, Category: category, Active: true}, nil
}

// UpdateMember updates a catalog member.
func (s *CatalogService) UpdateMember(ctx context.Context, id int64, name string, category models.Category, active bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if !models.ValidCategory(category) {
		return errors.InvalidInputf("unknown category %q", category)
	}
	if err := s.repo.UpdateMember(ctx, id, name, category, active); err != nil {
		return s.wrapRepoError(err, "member")
	}
	return nil
}

// DeleteMember removes a catalog member.
func (s *CatalogService) DeleteMember(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMember(ctx, id); err != nil {
		return s.wrapRepoError(err, "member")
	}
	return nil
}

// Sympathizers lists the sympathizer catalog.
func (s *CatalogService) Sympathizers(ctx context.Context) ([]models.Sympathizer, error) {
	sympathizers, err := s.repo.ListSympathizers(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return sympathizers, nil
}

// AddSympathizer adds a sympathizer, typically on the fly from the counter
// when a new visitor gives their name.
func (s *CatalogService) AddSympathizer(ctx context.Context, name, phone string) (models.Sympathizer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Sympathizer{}, ErrEmptyName
	}
	id, err := s.repo.CreateSympathizer(ctx, name, strings.TrimSpace(phone))
	if err != nil {
		return models.Sympathizer{}, errors.Internal(err)
	}
	s.log.Info("Sympathizer added", "id", id, "name", name)
	return models.Sympathizer{ID: id, Name: name, Phone: strings.TrimSpace(phone), Active: true}, nil
}

// UpdateSympathizer updates a catalog sympathizer.
func (s *CatalogService) UpdateSympathizer(ctx context.Context, id int64, name, phone string, active bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := s.repo.UpdateSympathizer(ctx, id, name, strings.TrimSpace(phone), active); err != nil {
		return s.wrapRepoError(err, "sympathizer")
	}
	return nil
}

// DeleteSympathizer removes a catalog sympathizer.
func (s *CatalogService) DeleteSympathizer(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSympathizer(ctx, id); err != nil {
		return s.wrapRepoError(err, "sympathizer")
	}
	return nil
}

// Ushers lists the whole usher roster, active or not.
func (s *CatalogService) Ushers(ctx context.Context) ([]models.Usher, error) {
	ushers, err := s.repo.ListUshers(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return ushers, nil
}

// ActiveUshers lists the ushers selectable for duty, sorted by name.
func (s *CatalogService) ActiveUshers(ctx context.Context) ([]models.Usher, error) {
	ushers, err := s.repo.ListUshers(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	active := make([]models.Usher, 0, len(ushers))
	for _, u := range ushers {
		if u.Active {
			active = append(active, u)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return strings.ToLower(active[i].Name) < strings.ToLower(active[j].Name)
	})
	return active, nil
}

// AddUsher adds a person to the usher roster.
func (s *CatalogService) AddUsher(ctx context.Context, name string) (models.Usher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Usher{}, ErrEmptyName
	}
	id, err := s.repo.CreateUsher(ctx, name)
	if err != nil {
		return models.Usher{}, errors.Internal(err)
	}
	s.log.Info("Usher added", "id", id, "name", name)
	return models.Usher{ID: id, Name: name, Active: true}, nil
}

// SetUsherActive toggles whether an usher is selectable for duty.
func (s *CatalogService) SetUsherActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.SetUsherActive(ctx, id, active); err != nil {
		return s.wrapRepoError(err, "usher")
	}
	return nil
}

// DeleteUsher removes an usher from the roster.
func (s *CatalogService) DeleteUsher(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUsher(ctx, id); err != nil {
		return s.wrapRepoError(err, "usher")
	}
	return nil
}

func (s *CatalogService) wrapRepoError(err error, what string) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound(what + " not found")
	}
	return errors.Internal(err)
}
