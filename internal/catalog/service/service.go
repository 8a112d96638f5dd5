package service

import (
	"context"
	"errors"
	"strings"

	catalogerrors "cleanbook/internal/catalog/errors"
	"cleanbook/internal/catalog/repository"
	"cleanbook/internal/catalog/validator"
	"cleanbook/pkg/config"
	mongodb "cleanbook/pkg/db/mongo"
	apperrors "cleanbook/pkg/errors"
	"cleanbook/pkg/model"
	"cleanbook/pkg/sanitizer"

	"github.com/gosimple/slug"
)

type CatalogService interface {
	List(ctx context.Context) ([]*model.Service, error)
	GetByID(ctx context.Context, id string) (*model.Service, error)
	GetBySlug(ctx context.Context, slug string) (*model.Service, error)
	Save(ctx context.Context, svc *model.Service) error
}

type catalogService struct {
	repo      repository.ServiceRepository
	validator *validator.ServiceValidator
	cfg       *config.Config
}

func NewCatalogService(
	repo repository.ServiceRepository,
	validator *validator.ServiceValidator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// List returns the active services in display order.
func (s *catalogService) List(ctx context.Context) ([]*model.Service, error) {
	services, err := s.repo.FindActive(ctx)
	if err != nil {
		s.cfg.Log.Op("ListServices").Error("Failed to list services", "error", err)
		return nil, mongodb.Classify("Failed to retrieve services", err)
	}
	return services, nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError("GetServiceByID", err, "id", id)
	}
	return svc, nil
}

// GetBySlug only exposes active services.
func (s *catalogService) GetBySlug(ctx context.Context, value string) (*model.Service, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || !slug.IsSlug(value) {
		return nil, apperrors.InvalidInput("Invalid service slug")
	}

	svc, err := s.repo.FindBySlug(ctx, value)
	if err != nil {
		return nil, s.lookupError("GetServiceBySlug", err, "slug", value)
	}
	if !svc.Active {
		return nil, apperrors.NotFound("Service")
	}
	return svc, nil
}

// Save normalizes and validates svc, derives its slug from the name when none is set, and
// upserts it by ID.
func (s *catalogService) Save(ctx context.Context, svc *model.Service) error {
	s.sanitize(svc)
	if err := s.validator.Validate(svc); err != nil {
		s.cfg.Log.Warn("Service validation failed", "id", svc.ID, "error", err)
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Upsert(ctx, svc); err != nil {
		if errors.Is(err, catalogerrors.ErrDuplicateSlug) {
			return apperrors.Conflict("Service slug already in use: " + svc.Slug)
		}
		s.cfg.Log.Op("SaveService").Error("Failed to save service", "id", svc.ID, "error", err)
		return mongodb.Classify("Failed to save service", err)
	}

	s.cfg.Log.Info("Service saved", "id", svc.ID, "slug", svc.Slug)
	return nil
}

func (s *catalogService) sanitize(svc *model.Service) {
	svc.ID = strings.TrimSpace(svc.ID)
	svc.Name = sanitizer.NormalizeName(svc.Name)
	svc.Category = sanitizer.NormalizeLabel(svc.Category)
	svc.Description = sanitizer.TrimAndNormalize(svc.Description)
	svc.Features = sanitizer.NormalizeFeatures(svc.Features)
	if svc.Slug == "" {
		svc.Slug = slug.Make(svc.Name)
	} else {
		svc.Slug = slug.Make(svc.Slug)
	}
}

func (s *catalogService) lookupError(op string, err error, args ...any) error {
	if errors.Is(err, catalogerrors.ErrNotFound) {
		return apperrors.NotFound("Service")
	}
	s.cfg.Log.Op(op).Error("Failed to find service", append(args, "error", err)...)
	return mongodb.Classify("Failed to retrieve service", err)
}
