package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "cleanbook/pkg/errors"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockCatalogService struct {
	listFunc      func(ctx context.Context) ([]*model.Service, error)
	getBySlugFunc func(ctx context.Context, slug string) (*model.Service, error)
}

func (m *mockCatalogService) List(ctx context.Context) ([]*model.Service, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockCatalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	return nil, nil
}

func (m *mockCatalogService) GetBySlug(ctx context.Context, slug string) (*model.Service, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *mockCatalogService) Save(ctx context.Context, svc *model.Service) error {
	return nil
}

func TestCatalogHandler_List(t *testing.T) {
	svc := &mockCatalogService{
		listFunc: func(ctx context.Context) ([]*model.Service, error) {
			return []*model.Service{{ID: "std", Slug: "standardno-ciscenje"}}, nil
		},
	}
	h := NewCatalogHandler(svc, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ServicesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Services) != 1 || resp.Services[0].ID != "std" {
		t.Errorf("unexpected services: %+v", resp.Services)
	}
}

func TestCatalogHandler_GetBySlug(t *testing.T) {
	tests := []struct {
		name       string
		slug       string
		wantStatus int
	}{
		{name: "found", slug: "standardno-ciscenje", wantStatus: http.StatusOK},
		{name: "missing", slug: "nema", wantStatus: http.StatusNotFound},
	}

	svc := &mockCatalogService{
		getBySlugFunc: func(ctx context.Context, slug string) (*model.Service, error) {
			if slug == "standardno-ciscenje" {
				return &model.Service{ID: "std", Slug: slug}, nil
			}
			return nil, apperrors.NotFound("Service")
		},
	}
	h := NewCatalogHandler(svc, logger.Discard())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/services/"+tt.slug, nil)
			rec := httptest.NewRecorder()
			h.GetBySlug(rec, req, httprouter.Params{{Key: "slug", Value: tt.slug}})

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
