package model

import (
	"time"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// bookingTransitions lists the statuses each status may move to.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsSlot reports whether a booking in this status keeps its availability cell claimed.
func (s BookingStatus) HoldsSlot() bool {
	return s != StatusCancelled
}

type Customer struct {
	FirstName string `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" bson:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" bson:"phone" validate:"required,phone"`
}

type Extra struct {
	Name  string  `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Price float64 `json:"price" bson:"price" validate:"gte=0"`
}

type Booking struct {
	ID            string        `json:"id" bson:"_id"`
	BookingNumber string        `json:"booking_number" bson:"booking_number"`
	Customer      Customer      `json:"customer" bson:"customer"`
	ServiceID     string        `json:"service_id" bson:"service_id"`
	ServiceType   string        `json:"service_type" bson:"service_type"`
	BookingDate   string        `json:"booking_date" bson:"booking_date"`
	TimeSlot      string        `json:"time_slot" bson:"time_slot"`
	TeamNumber    int           `json:"team_number" bson:"team_number"`
	PropertySize  *float64      `json:"property_size,omitempty" bson:"property_size,omitempty"`
	Extras        []Extra       `json:"extras" bson:"extras"`
	BasePrice     float64       `json:"base_price" bson:"base_price"`
	ExtrasCost    float64       `json:"extras_cost" bson:"extras_cost"`
	TotalPrice    float64       `json:"total_price" bson:"total_price"`
	Status        BookingStatus `json:"status" bson:"status"`
	Notes         string        `json:"notes,omitempty" bson:"notes,omitempty"`
	ManageURL     string        `json:"manage_url,omitempty" bson:"-"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
}

// BookingRequest is the client payload for creating a booking.
type BookingRequest struct {
	Customer     Customer `json:"customer" validate:"required"`
	ServiceID    string   `json:"service_id" validate:"required,max=64"`
	ServiceType  string   `json:"service_type" validate:"required,min=2,max=100"`
	BookingDate  string   `json:"booking_date" validate:"required,datetime=2006-01-02"`
	TimeSlot     string   `json:"time_slot" validate:"required,time_slot"`
	TeamNumber   *int     `json:"team_number,omitempty" validate:"omitempty,min=1"`
	PropertySize *float64 `json:"property_size,omitempty" validate:"omitempty,gt=0,lte=10000"`
	Extras       []Extra  `json:"extras,omitempty" validate:"omitempty,max=20,dive"`
	TotalPrice   *float64 `json:"total_price,omitempty" validate:"omitempty,gte=0"`
	Notes        string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type StatusUpdate struct {
	Status BookingStatus `json:"status" validate:"required,oneof=pending confirmed in_progress completed cancelled"`
}
