package model

import "time"

// Service is a catalog entry. Read-mostly; the booking flow never mutates it.
type Service struct {
	ID            string    `json:"id" bson:"_id" validate:"required,max=64"`
	Slug          string    `json:"slug" bson:"slug" validate:"required,max=120"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Category      string    `json:"category" bson:"category" validate:"required,max=60"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	BasePrice     float64   `json:"base_price" bson:"base_price" validate:"gte=0"`
	PricePerSqm   *float64  `json:"price_per_sqm,omitempty" bson:"price_per_sqm,omitempty" validate:"omitempty,gt=0"`
	MinPrice      float64   `json:"min_price" bson:"min_price" validate:"gte=0"`
	DurationHours float64   `json:"duration_hours" bson:"duration_hours" validate:"gt=0,lte=12"`
	Features      []string  `json:"features" bson:"features"`
	Popular       bool      `json:"popular" bson:"popular"`
	Active        bool      `json:"active" bson:"active"`
	DisplayOrder  int       `json:"display_order" bson:"display_order"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// HasFlatPrice reports whether the service can be priced without a property size.
func (s *Service) HasFlatPrice() bool {
	return s.BasePrice > 0
}

type PriceQuote struct {
	BasePrice  float64 `json:"base_price"`
	ExtrasCost float64 `json:"extras_cost"`
	TotalPrice float64 `json:"total_price"`
}

type PriceRequest struct {
	ServiceID    string   `json:"service_id" validate:"required,max=64"`
	PropertySize *float64 `json:"property_size,omitempty" validate:"omitempty,gt=0,lte=10000"`
	Extras       []Extra  `json:"extras,omitempty" validate:"omitempty,max=20,dive"`
}
