package service

import (
	"context"
	"errors"
	"testing"

	"cleanbook/internal/catalog/repository"
	"cleanbook/internal/catalog/validator"
	"cleanbook/pkg/config"
	apperrors "cleanbook/pkg/errors"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"
)

func newTestService(repo repository.ServiceRepository) CatalogService {
	log := logger.Discard()
	return NewCatalogService(repo, validator.NewServiceValidator(log), &config.Config{Log: log})
}

func catalog() *repository.MemoryServiceRepository {
	return repository.NewMemoryServiceRepository(
		model.Service{ID: "deep", Slug: "dubinsko-ciscenje", Name: "Dubinsko čišćenje", Category: "Stan", BasePrice: 120, DurationHours: 4, Active: true, DisplayOrder: 2},
		model.Service{ID: "std", Slug: "standardno-ciscenje", Name: "Standardno čišćenje", Category: "Stan", BasePrice: 60, DurationHours: 2, Active: true, DisplayOrder: 1},
		model.Service{ID: "old", Slug: "staro", Name: "Staro", Category: "Stan", BasePrice: 10, DurationHours: 1, Active: false},
	)
}

func TestCatalogService_List(t *testing.T) {
	services, err := newTestService(catalog()).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 active services, got %d", len(services))
	}
	if services[0].ID != "std" || services[1].ID != "deep" {
		t.Errorf("expected display order std, deep; got %s, %s", services[0].ID, services[1].ID)
	}
}

func TestCatalogService_GetBySlug(t *testing.T) {
	svc := newTestService(catalog())
	ctx := context.Background()

	tests := []struct {
		name     string
		slug     string
		wantID   string
		wantCode string
	}{
		{name: "found", slug: "dubinsko-ciscenje", wantID: "deep"},
		{name: "case insensitive", slug: "Standardno-Ciscenje", wantID: "std"},
		{name: "inactive hidden", slug: "staro", wantCode: apperrors.CodeNotFound},
		{name: "missing", slug: "nema", wantCode: apperrors.CodeNotFound},
		{name: "malformed", slug: "a b", wantCode: apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetBySlug(ctx, tt.slug)
			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Errorf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("expected %s, got %s", tt.wantID, got.ID)
			}
		})
	}
}

func TestCatalogService_GetByID_StoreError(t *testing.T) {
	repo := catalog()
	repo.Err = errors.New("connection refused")

	_, err := newTestService(repo).GetByID(context.Background(), "std")
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestCatalogService_Save(t *testing.T) {
	repo := catalog()
	svc := newTestService(repo)
	ctx := context.Background()

	perSqm := 2.5
	entry := &model.Service{
		ID:            "windows",
		Name:          "  Pranje   prozora ",
		Category:      "Dodatno",
		PricePerSqm:   &perSqm,
		MinPrice:      40,
		DurationHours: 2,
		Features:      []string{" stakla ", "okviri", "stakla"},
		Active:        true,
	}
	if err := svc.Save(ctx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Slug != "pranje-prozora" {
		t.Errorf("expected derived slug pranje-prozora, got %q", entry.Slug)
	}
	if entry.Name != "Pranje prozora" {
		t.Errorf("expected normalized name, got %q", entry.Name)
	}

	stored, err := svc.GetBySlug(ctx, "pranje-prozora")
	if err != nil || stored.ID != "windows" {
		t.Errorf("expected stored service, got %+v (%v)", stored, err)
	}

	dup := &model.Service{ID: "other", Slug: "pranje-prozora", Name: "Drugo", Category: "Dodatno", BasePrice: 10, DurationHours: 1}
	if err := svc.Save(ctx, dup); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected conflict on duplicate slug, got %v", err)
	}

	unpriced := &model.Service{ID: "free", Name: "Besplatno", Category: "Dodatno", DurationHours: 1}
	if err := svc.Save(ctx, unpriced); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("expected validation error without any price, got %v", err)
	}
}
