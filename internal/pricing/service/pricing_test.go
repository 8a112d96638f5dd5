package service

import (
	"context"
	"testing"

	"cleanbook/pkg/config"
	apperrors "cleanbook/pkg/errors"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"
)

func ptr(v float64) *float64 {
	return &v
}

type mockLookup struct {
	services map[string]*model.Service
}

func (m *mockLookup) GetByID(_ context.Context, id string) (*model.Service, error) {
	if svc, ok := m.services[id]; ok {
		return svc, nil
	}
	return nil, apperrors.NotFound("Service")
}

var (
	flat   = &model.Service{ID: "std", BasePrice: 60, Active: true}
	perSqm = &model.Service{ID: "deep", PricePerSqm: ptr(2.5), MinPrice: 100, Active: true}
	mixed  = &model.Service{ID: "move", BasePrice: 150, PricePerSqm: ptr(3), MinPrice: 120, Active: true}
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		svc      *model.Service
		size     *float64
		extras   []model.Extra
		want     model.PriceQuote
		wantCode string
	}{
		{
			name: "flat price",
			svc:  flat,
			want: model.PriceQuote{BasePrice: 60, ExtrasCost: 0, TotalPrice: 60},
		},
		{
			name: "per sqm above minimum",
			svc:  perSqm,
			size: ptr(70),
			want: model.PriceQuote{BasePrice: 175, ExtrasCost: 0, TotalPrice: 175},
		},
		{
			name: "per sqm rounded to cents",
			svc:  perSqm,
			size: ptr(40.123),
			want: model.PriceQuote{BasePrice: 100.31, ExtrasCost: 0, TotalPrice: 100.31},
		},
		{
			name: "per sqm below minimum",
			svc:  perSqm,
			size: ptr(20),
			want: model.PriceQuote{BasePrice: 100, ExtrasCost: 0, TotalPrice: 100},
		},
		{
			name:     "per sqm without size",
			svc:      perSqm,
			wantCode: apperrors.CodeValidation,
		},
		{
			name: "mixed falls back to flat without size",
			svc:  mixed,
			want: model.PriceQuote{BasePrice: 150, ExtrasCost: 0, TotalPrice: 150},
		},
		{
			name:   "extras summed in cents",
			svc:    flat,
			extras: []model.Extra{{Name: "pećnica", Price: 15.25}, {Name: "hladnjak", Price: 10.1}},
			want:   model.PriceQuote{BasePrice: 60, ExtrasCost: 25.35, TotalPrice: 85.35},
		},
		{
			name:     "negative extra",
			svc:      flat,
			extras:   []model.Extra{{Name: "popust", Price: -5}},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "negative size",
			svc:      perSqm,
			size:     ptr(-10),
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "nil service",
			wantCode: apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.svc, tt.size, tt.extras)
			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Errorf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	extras := []model.Extra{{Name: "prozori", Price: 19.99}}
	first, err := Calculate(perSqm, ptr(63.3), extras)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, _ := Calculate(perSqm, ptr(63.3), extras)
		if got != first {
			t.Fatalf("iteration %d: expected %+v, got %+v", i, first, got)
		}
	}
}

func TestPricingService_Quote(t *testing.T) {
	lookup := &mockLookup{services: map[string]*model.Service{
		"std":  flat,
		"deep": perSqm,
		"old":  {ID: "old", BasePrice: 10, Active: false},
	}}
	svc := NewPricingService(lookup, &config.Config{Log: logger.Discard()})
	ctx := context.Background()

	tests := []struct {
		name     string
		req      *model.PriceRequest
		want     float64
		wantCode string
	}{
		{name: "flat", req: &model.PriceRequest{ServiceID: "std"}, want: 60},
		{name: "per sqm", req: &model.PriceRequest{ServiceID: "deep", PropertySize: ptr(80)}, want: 200},
		{name: "missing service id", req: &model.PriceRequest{}, wantCode: apperrors.CodeValidation},
		{name: "unknown service", req: &model.PriceRequest{ServiceID: "nope"}, wantCode: apperrors.CodeValidation},
		{name: "inactive service", req: &model.PriceRequest{ServiceID: "old"}, wantCode: apperrors.CodeValidation},
		{name: "size too large", req: &model.PriceRequest{ServiceID: "deep", PropertySize: ptr(20000)}, wantCode: apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := svc.Quote(ctx, tt.req)
			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Errorf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if quote.TotalPrice != tt.want {
				t.Errorf("expected total %v, got %v", tt.want, quote.TotalPrice)
			}
		})
	}
}
