package seed

import (
	"context"
	"testing"

	"cleanbook/internal/catalog/repository"
	"cleanbook/internal/catalog/service"
	"cleanbook/internal/catalog/validator"
	"cleanbook/pkg/config"
	"cleanbook/pkg/logger"
)

func TestServices_SeedsCatalogIdempotently(t *testing.T) {
	cfg := &config.Config{Log: logger.Discard()}
	catalog := service.NewCatalogService(
		repository.NewMemoryServiceRepository(),
		validator.NewServiceValidator(cfg.Log),
		cfg,
	)

	for run := 0; run < 2; run++ {
		n, err := Services(context.Background(), catalog, cfg.Log)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if n != len(DefaultServices()) {
			t.Fatalf("run %d: expected %d services, got %d", run, len(DefaultServices()), n)
		}
	}

	listed, err := catalog.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != len(DefaultServices()) {
		t.Fatalf("expected %d services, got %d", len(DefaultServices()), len(listed))
	}
	for i, svc := range listed {
		if svc.DisplayOrder != i+1 {
			t.Errorf("services out of display order at %d: %s", i, svc.ID)
		}
	}

	svc, err := catalog.GetBySlug(context.Background(), "dubinsko-ciscenje")
	if err != nil {
		t.Fatalf("slug lookup failed: %v", err)
	}
	if svc.ID != "dubinsko-ciscenje" {
		t.Errorf("unexpected service %s", svc.ID)
	}
}
