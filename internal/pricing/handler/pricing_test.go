package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "cleanbook/pkg/errors"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"
)

type mockPricingService struct {
	quoteFunc func(ctx context.Context, req *model.PriceRequest) (model.PriceQuote, error)
}

func (m *mockPricingService) Quote(ctx context.Context, req *model.PriceRequest) (model.PriceQuote, error) {
	if m.quoteFunc != nil {
		return m.quoteFunc(ctx, req)
	}
	return model.PriceQuote{}, nil
}

func TestPricingHandler_Quote(t *testing.T) {
	svc := &mockPricingService{
		quoteFunc: func(ctx context.Context, req *model.PriceRequest) (model.PriceQuote, error) {
			if req.ServiceID != "std" {
				return model.PriceQuote{}, apperrors.Validation("Unknown or inactive service", nil)
			}
			return model.PriceQuote{BasePrice: 60, ExtrasCost: 15, TotalPrice: 75}, nil
		},
	}
	h := NewPricingHandler(svc, logger.Discard())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid", body: `{"service_id":"std","extras":[{"name":"pećnica","price":15}]}`, wantStatus: http.StatusOK},
		{name: "unknown service", body: `{"service_id":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: `{"service_id":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"service_id":"std","discount":5}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/pricing", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Quote(rec, req, nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var quote model.PriceQuote
				if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
					t.Fatalf("failed to decode quote: %v", err)
				}
				if quote.TotalPrice != 75 {
					t.Errorf("expected total 75, got %v", quote.TotalPrice)
				}
			}
		})
	}
}
