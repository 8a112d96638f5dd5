package service

import (
	"context"
	"errors"
	"math"

	"cleanbook/pkg/config"
	apperrors "cleanbook/pkg/errors"
	"cleanbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

// ServiceLookup resolves catalog entries. Satisfied by the catalog service.
type ServiceLookup interface {
	GetByID(ctx context.Context, id string) (*model.Service, error)
}

type PricingService interface {
	Quote(ctx context.Context, req *model.PriceRequest) (model.PriceQuote, error)
}

type pricingService struct {
	services ServiceLookup
	validate *validator.Validate
	cfg      *config.Config
}

func NewPricingService(services ServiceLookup, cfg *config.Config) PricingService {
	return &pricingService{
		services: services,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Quote loads the service and prices the request against it. Unknown or inactive services
// are a validation failure, not a lookup miss.
func (s *pricingService) Quote(ctx context.Context, req *model.PriceRequest) (model.PriceQuote, error) {
	if err := s.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			details := make(map[string]any, len(validationErrs))
			for _, fe := range validationErrs {
				details[fe.Field()] = fe.Tag()
			}
			return model.PriceQuote{}, apperrors.Validation("Invalid price request", details)
		}
		return model.PriceQuote{}, apperrors.Validation("Invalid price request", nil)
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return model.PriceQuote{}, unknownService(req.ServiceID)
		}
		return model.PriceQuote{}, err
	}
	if !svc.Active {
		return model.PriceQuote{}, unknownService(req.ServiceID)
	}

	quote, err := Calculate(svc, req.PropertySize, req.Extras)
	if err != nil {
		s.cfg.Log.Warn("Price calculation rejected", "service_id", req.ServiceID, "error", err)
		return model.PriceQuote{}, err
	}
	return quote, nil
}

// Calculate is a pure function of the service's pricing rule and the inputs.
//
// Per-sqm services with a size are charged max(min_price, price_per_sqm * size); otherwise the
// flat base_price applies. Extras are summed on top. Every amount is rounded to cents.
func Calculate(svc *model.Service, propertySize *float64, extras []model.Extra) (model.PriceQuote, error) {
	if svc == nil {
		return model.PriceQuote{}, apperrors.Validation("Service is required", nil)
	}
	if propertySize != nil && *propertySize <= 0 {
		return model.PriceQuote{}, apperrors.Validation("Property size must be positive", map[string]any{
			"property_size": *propertySize,
		})
	}

	var base float64
	switch {
	case svc.PricePerSqm != nil && propertySize != nil:
		base = math.Max(svc.MinPrice, *svc.PricePerSqm**propertySize)
	case svc.HasFlatPrice():
		base = svc.BasePrice
	default:
		return model.PriceQuote{}, apperrors.Validation("Property size is required for this service", map[string]any{
			"service_id": svc.ID,
		})
	}

	var extrasCost float64
	for _, e := range extras {
		if e.Price < 0 {
			return model.PriceQuote{}, apperrors.Validation("Extra price cannot be negative", map[string]any{
				"extra": e.Name,
			})
		}
		extrasCost += e.Price
	}

	base = roundCents(base)
	extrasCost = roundCents(extrasCost)
	return model.PriceQuote{
		BasePrice:  base,
		ExtrasCost: extrasCost,
		TotalPrice: roundCents(base + extrasCost),
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func unknownService(id string) error {
	return apperrors.Validation("Unknown or inactive service", map[string]any{"service_id": id})
}
