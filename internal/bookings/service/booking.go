package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	availability "cleanbook/internal/availability/service"
	bookingserrors "cleanbook/internal/bookings/errors"
	"cleanbook/internal/bookings/repository"
	"cleanbook/internal/bookings/validator"
	"cleanbook/internal/events"
	pricing "cleanbook/internal/pricing/service"
	"cleanbook/pkg/calendar"
	"cleanbook/pkg/config"
	mongodb "cleanbook/pkg/db/mongo"
	apperrors "cleanbook/pkg/errors"
	"cleanbook/pkg/model"
	"cleanbook/pkg/sanitizer"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	BookingNumberPrefix = "CS-"
	// No 0/O or 1/I, so numbers survive being read over the phone.
	bookingNumberAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	bookingNumberLength   = 8
	maxNumberAttempts     = 5
)

// ServiceLookup resolves catalog entries. Satisfied by the catalog service.
type ServiceLookup interface {
	GetByID(ctx context.Context, id string) (*model.Service, error)
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	// GetByNumber returns nil, nil when no booking has that number.
	GetByNumber(ctx context.Context, number string) (*model.Booking, error)
	Cancel(ctx context.Context, number string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, number string, update *model.StatusUpdate) (*model.Booking, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	validator    *validator.BookingValidator
	slots        availability.QueryService
	reservations availability.ReservationService
	services     ServiceLookup
	publisher    events.Publisher
	clock        *calendar.Clock
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	slots availability.QueryService,
	reservations availability.ReservationService,
	services ServiceLookup,
	publisher events.Publisher,
	clock *calendar.Clock,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		validator:    validator,
		slots:        slots,
		reservations: reservations,
		services:     services,
		publisher:    publisher,
		clock:        clock,
		cfg:          cfg,
	}
}

// Create runs validate, price, reserve and persist in that order. A failed persist releases
// the claimed cell before the error is returned.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	quote, err := s.price(svc, req)
	if err != nil {
		return nil, err
	}

	team, err := s.selectTeam(ctx, req)
	if err != nil {
		return nil, err
	}

	ref := model.SlotRef{Date: req.BookingDate, TimeSlot: req.TimeSlot, TeamNumber: team}
	bookingID := uuid.NewString()
	claimed, err := s.reservations.ClaimSlot(ctx, ref, bookingID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperrors.SlotConflict()
	}

	booking := &model.Booking{
		ID:           bookingID,
		Customer:     req.Customer,
		ServiceID:    svc.ID,
		ServiceType:  req.ServiceType,
		BookingDate:  ref.Date,
		TimeSlot:     ref.TimeSlot,
		TeamNumber:   ref.TeamNumber,
		PropertySize: req.PropertySize,
		Extras:       req.Extras,
		BasePrice:    quote.BasePrice,
		ExtrasCost:   quote.ExtrasCost,
		TotalPrice:   quote.TotalPrice,
		Status:       model.StatusPending,
		Notes:        req.Notes,
	}
	if booking.Extras == nil {
		booking.Extras = []model.Extra{}
	}

	if err := s.persist(ctx, booking); err != nil {
		s.compensate(ctx, bookingID)
		return nil, err
	}

	booking.ManageURL = s.cfg.BookingURL(booking.BookingNumber)
	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"booking_number", booking.BookingNumber,
		"date", booking.BookingDate,
		"time_slot", booking.TimeSlot,
		"team_number", booking.TeamNumber,
	)
	s.publish(ctx, events.TypeBookingCreated, booking)
	return booking, nil
}

func (s *bookingService) GetByNumber(ctx context.Context, number string) (*model.Booking, error) {
	booking, err := s.findByNumber(ctx, "GetBookingByNumber", number)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return booking, nil
}

// Cancel is safe to repeat: a booking that is already cancelled has its cell released again
// and is returned unchanged.
func (s *bookingService) Cancel(ctx context.Context, number string) (*model.Booking, error) {
	booking, err := s.findByNumber(ctx, "CancelBooking", number)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.StatusCancelled {
		if err := s.release(ctx, booking.ID); err != nil {
			return nil, err
		}
		return booking, nil
	}

	updated, err := s.transition(ctx, booking, model.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if err := s.release(ctx, updated.ID); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled", "id", updated.ID, "booking_number", updated.BookingNumber)
	s.publish(ctx, events.TypeBookingCancelled, updated)
	return updated, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, number string, update *model.StatusUpdate) (*model.Booking, error) {
	if err := s.validator.ValidateStatus(update); err != nil {
		s.cfg.Log.Warn("Status update validation failed", "booking_number", number, "error", err)
		return nil, validationError("Invalid status update", err)
	}
	if update.Status == model.StatusCancelled {
		return s.Cancel(ctx, number)
	}

	booking, err := s.findByNumber(ctx, "UpdateBookingStatus", number)
	if err != nil {
		return nil, err
	}
	if booking.Status == update.Status {
		return booking, nil
	}

	updated, err := s.transition(ctx, booking, update.Status)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking status updated",
		"id", updated.ID,
		"booking_number", updated.BookingNumber,
		"from", booking.Status,
		"to", updated.Status,
	)
	s.publish(ctx, events.TypeBookingStatus, updated)
	return updated, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.Customer.FirstName = sanitizer.NormalizeName(req.Customer.FirstName)
	req.Customer.LastName = sanitizer.NormalizeName(req.Customer.LastName)
	req.Customer.Email = sanitizer.NormalizeEmail(req.Customer.Email)
	if phone := sanitizer.NormalizePhone(req.Customer.Phone); phone != "" {
		req.Customer.Phone = phone
	}
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.ServiceType = sanitizer.NormalizeLabel(req.ServiceType)
	req.BookingDate = strings.TrimSpace(req.BookingDate)
	req.TimeSlot = strings.TrimSpace(req.TimeSlot)
	req.Notes = sanitizer.TrimAndNormalize(req.Notes)
	for i := range req.Extras {
		req.Extras[i].Name = sanitizer.TrimAndNormalize(req.Extras[i].Name)
	}
}

func (s *bookingService) validate(req *model.BookingRequest) error {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return validationError("Booking validation failed", err)
	}

	date, err := s.clock.ParseDate(req.BookingDate)
	if err != nil {
		return fieldError("BookingDate", "booking_date must be a date in YYYY-MM-DD format")
	}
	today := s.clock.Today()
	switch {
	case date.Before(today):
		return fieldError("BookingDate", "booking_date cannot be in the past")
	case date.After(today.AddDate(0, 0, s.cfg.SchedulingHorizonDays)):
		return fieldError("BookingDate", fmt.Sprintf("booking_date must be within %d days", s.cfg.SchedulingHorizonDays))
	case calendar.IsExcluded(date):
		return fieldError("BookingDate", "bookings are not available on Sundays")
	}

	start, err := calendar.SlotStart(date, req.TimeSlot)
	if err != nil {
		return fieldError("TimeSlot", err.Error())
	}
	if !start.After(s.clock.Now()) {
		return fieldError("TimeSlot", "time_slot has already started")
	}

	if req.TeamNumber != nil && *req.TeamNumber > s.cfg.TeamCount {
		return fieldError("TeamNumber", fmt.Sprintf("team_number must be at most %d", s.cfg.TeamCount))
	}
	return nil
}

func (s *bookingService) lookupService(ctx context.Context, id string) (*model.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, fieldError("ServiceID", "service_id does not match an active service")
		}
		return nil, err
	}
	if !svc.Active {
		return nil, fieldError("ServiceID", "service_id does not match an active service")
	}
	return svc, nil
}

// price trusts a client-supplied total and derives the base from it. Otherwise the catalog
// price is calculated.
func (s *bookingService) price(svc *model.Service, req *model.BookingRequest) (model.PriceQuote, error) {
	if req.TotalPrice == nil {
		return pricing.Calculate(svc, req.PropertySize, req.Extras)
	}

	var extras float64
	for _, e := range req.Extras {
		extras += e.Price
	}
	extras = math.Round(extras*100) / 100
	total := math.Round(*req.TotalPrice*100) / 100
	return model.PriceQuote{
		BasePrice:  math.Max(0, math.Round((total-extras)*100)/100),
		ExtrasCost: extras,
		TotalPrice: total,
	}, nil
}

// selectTeam returns the requested team, or the lowest-numbered team that is open right now.
func (s *bookingService) selectTeam(ctx context.Context, req *model.BookingRequest) (int, error) {
	if req.TeamNumber != nil {
		return *req.TeamNumber, nil
	}

	teams, err := s.slots.IsSlotOpen(ctx, req.BookingDate, req.TimeSlot)
	if err != nil {
		return 0, err
	}
	for _, t := range teams {
		if t.IsAvailable {
			return t.TeamNumber, nil
		}
	}
	return 0, apperrors.SlotConflict()
}

// persist stores booking under a fresh booking number, drawing a new one on collision.
func (s *bookingService) persist(ctx context.Context, booking *model.Booking) error {
	log := s.cfg.Log.Op("PersistBooking")

	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := newBookingNumber()
		if err != nil {
			log.Error("Failed to generate booking number", "id", booking.ID, "error", err)
			return apperrors.Internal("Failed to create booking", err)
		}
		booking.BookingNumber = number

		err = s.repo.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if errors.Is(err, bookingserrors.ErrDuplicateNumber) {
			log.Warn("Booking number collision", "booking_number", number, "attempt", attempt)
			continue
		}
		log.Error("Failed to persist booking", "id", booking.ID, "error", err)
		return mongodb.Classify("Failed to create booking", err)
	}
	return apperrors.Internal("Failed to create booking", bookingserrors.ErrDuplicateNumber)
}

// compensate undoes a claim whose booking could not be stored. It runs on a context that
// survives the request's cancellation.
func (s *bookingService) compensate(ctx context.Context, bookingID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()
	log := s.cfg.Log.Op("CompensateBooking")

	// An insert that timed out may still have landed.
	if err := s.repo.Delete(ctx, bookingID); err != nil && !errors.Is(err, bookingserrors.ErrNotFound) {
		log.Error("Failed to remove partial booking", "id", bookingID, "error", err)
	}

	released, err := s.reservations.ReleaseSlot(ctx, bookingID)
	if err != nil {
		log.Error("Failed to release slot after persist failure", "booking_id", bookingID, "error", err)
		return
	}
	log.Warn("Released slot after persist failure", "booking_id", bookingID, "released", released)
}

func (s *bookingService) release(ctx context.Context, bookingID string) error {
	released, err := s.reservations.ReleaseSlot(ctx, bookingID)
	if err != nil {
		return err
	}
	s.cfg.Log.Debug("Slot release", "booking_id", bookingID, "released", released)
	return nil
}

func (s *bookingService) transition(ctx context.Context, booking *model.Booking, to model.BookingStatus) (*model.Booking, error) {
	if !booking.Status.CanTransitionTo(to) {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking cannot move from %s to %s", booking.Status, to))
	}

	updated, err := s.repo.UpdateStatus(ctx, booking.ID, booking.Status, to, s.clock.Now())
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			return nil, apperrors.Conflict("Booking was modified concurrently, please retry")
		}
		s.cfg.Log.Op("UpdateBookingStatus").Error("Failed to update booking status",
			"id", booking.ID,
			"to", to,
			"error", err,
		)
		return nil, mongodb.Classify("Failed to update booking", err)
	}
	updated.ManageURL = s.cfg.BookingURL(updated.BookingNumber)
	return updated, nil
}

func (s *bookingService) findByNumber(ctx context.Context, op string, number string) (*model.Booking, error) {
	number = sanitizer.NormalizeCode(number)
	if number == "" {
		return nil, apperrors.InvalidInput("Booking number cannot be empty")
	}

	booking, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Booking")
		}
		s.cfg.Log.Op(op).Error("Failed to find booking", "booking_number", number, "error", err)
		return nil, mongodb.Classify("Failed to retrieve booking", err)
	}
	booking.ManageURL = s.cfg.BookingURL(booking.BookingNumber)
	return booking, nil
}

// publish is best effort: the booking is already committed.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if err := s.publisher.Publish(ctx, events.NewBookingEvent(eventType, booking)); err != nil {
		s.cfg.Log.Op("PublishBookingEvent").Error("Failed to publish booking event",
			"type", eventType,
			"booking_number", booking.BookingNumber,
			"error", err,
		)
	}
}

func newBookingNumber() (string, error) {
	id, err := gonanoid.Generate(bookingNumberAlphabet, bookingNumberLength)
	if err != nil {
		return "", err
	}
	return BookingNumberPrefix + id, nil
}

func validationError(message string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func fieldError(field, message string) error {
	return apperrors.Validation("Booking validation failed", map[string]any{field: message})
}
