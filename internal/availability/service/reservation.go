package service

import (
	"context"
	"strings"
	"time"

	"cleanbook/internal/availability/repository"
	"cleanbook/pkg/calendar"
	"cleanbook/pkg/config"
	mongodb "cleanbook/pkg/db/mongo"
	apperrors "cleanbook/pkg/errors"
	"cleanbook/pkg/model"
)

// ReservationService is the only writer of claims on the availability grid.
type ReservationService interface {
	// ClaimSlot reports false when another booking got the cell first. It never retries on
	// another team or slot.
	ClaimSlot(ctx context.Context, ref model.SlotRef, bookingID string) (bool, error)
	// ReleaseSlot reopens the cell held by bookingID. Releasing twice is a no-op.
	ReleaseSlot(ctx context.Context, bookingID string) (bool, error)
}

type reservationService struct {
	repo repository.AvailabilityRepository
	cfg  *config.Config
}

func NewReservationService(repo repository.AvailabilityRepository, cfg *config.Config) ReservationService {
	return &reservationService{repo: repo, cfg: cfg}
}

func (s *reservationService) ClaimSlot(ctx context.Context, ref model.SlotRef, bookingID string) (bool, error) {
	if err := validateRef(ref); err != nil {
		return false, err
	}
	if strings.TrimSpace(bookingID) == "" {
		return false, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	claimed, err := s.repo.Claim(ctx, ref, bookingID)
	if err != nil {
		s.cfg.Log.Op("ClaimSlot").Error("Failed to claim slot",
			"date", ref.Date,
			"time_slot", ref.TimeSlot,
			"team_number", ref.TeamNumber,
			"booking_id", bookingID,
			"error", err,
		)
		return false, mongodb.Classify("Failed to reserve time slot", err)
	}

	if !claimed {
		s.cfg.Log.Info("Slot claim lost",
			"date", ref.Date,
			"time_slot", ref.TimeSlot,
			"team_number", ref.TeamNumber,
		)
	}
	return claimed, nil
}

func (s *reservationService) ReleaseSlot(ctx context.Context, bookingID string) (bool, error) {
	if strings.TrimSpace(bookingID) == "" {
		return false, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	released, err := s.repo.Release(ctx, bookingID)
	if err != nil {
		s.cfg.Log.Op("ReleaseSlot").Error("Failed to release slot", "booking_id", bookingID, "error", err)
		return false, mongodb.Classify("Failed to release time slot", err)
	}
	return released, nil
}

func validateRef(ref model.SlotRef) error {
	if _, err := time.Parse(calendar.DateLayout, ref.Date); err != nil {
		return apperrors.InvalidInput("Invalid date, expected YYYY-MM-DD")
	}
	if !calendar.IsValidSlot(ref.TimeSlot) {
		return invalidSlot(ref.TimeSlot)
	}
	if ref.TeamNumber < 1 {
		return apperrors.InvalidInput("Team number must be positive")
	}
	return nil
}
