package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cleanbook/internal/availability/repository"
	"cleanbook/pkg/calendar"
	"cleanbook/pkg/config"
	mongodb "cleanbook/pkg/db/mongo"
	apperrors "cleanbook/pkg/errors"
	"cleanbook/pkg/model"
)

// ServiceLookup resolves catalog entries. Satisfied by the catalog service.
type ServiceLookup interface {
	GetByID(ctx context.Context, id string) (*model.Service, error)
}

// QueryService answers read-only availability questions. Results are snapshots and may be
// stale by the time a booking is attempted.
type QueryService interface {
	ListOpenSlots(ctx context.Context, date string) ([]model.SlotSummary, error)
	IsSlotOpen(ctx context.Context, date string, timeSlot string) ([]model.TeamAvailability, error)
	NextOpenSlot(ctx context.Context, serviceID string) (*model.SlotRef, error)
	ListOpenDates(ctx context.Context, horizonDays int) ([]string, error)
	IsDateFullyBooked(ctx context.Context, date string) (bool, error)
	ListRange(ctx context.Context, days int) (map[string][]model.SlotSummary, error)
}

type queryService struct {
	repo     repository.AvailabilityRepository
	services ServiceLookup
	clock    *calendar.Clock
	cfg      *config.Config
}

func NewQueryService(
	repo repository.AvailabilityRepository,
	services ServiceLookup,
	clock *calendar.Clock,
	cfg *config.Config,
) QueryService {
	return &queryService{
		repo:     repo,
		services: services,
		clock:    clock,
		cfg:      cfg,
	}
}

func (s *queryService) ListOpenSlots(ctx context.Context, date string) ([]model.SlotSummary, error) {
	if err := s.validateDate(date); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, s.storeError("ListOpenSlots", err, "date", date)
	}
	return summarize(rows), nil
}

func (s *queryService) IsSlotOpen(ctx context.Context, date string, timeSlot string) ([]model.TeamAvailability, error) {
	if err := s.validateDate(date); err != nil {
		return nil, err
	}
	if !calendar.IsValidSlot(timeSlot) {
		return nil, invalidSlot(timeSlot)
	}

	rows, err := s.repo.FindBySlot(ctx, date, timeSlot)
	if err != nil {
		return nil, s.storeError("IsSlotOpen", err, "date", date, "time_slot", timeSlot)
	}

	teams := make([]model.TeamAvailability, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, model.TeamAvailability{
			TeamNumber:  row.TeamNumber,
			IsAvailable: row.IsAvailable,
		})
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamNumber < teams[j].TeamNumber })
	return teams, nil
}

// NextOpenSlot returns the earliest open cell in [today, today+horizon], skipping slots of
// today that have already started. A nil result means nothing is open.
func (s *queryService) NextOpenSlot(ctx context.Context, serviceID string) (*model.SlotRef, error) {
	if serviceID = strings.TrimSpace(serviceID); serviceID != "" {
		if err := s.requireActiveService(ctx, serviceID); err != nil {
			return nil, err
		}
	}

	today := s.clock.Today()
	from := calendar.FormatDate(today)
	to := calendar.FormatDate(today.AddDate(0, 0, s.cfg.SchedulingHorizonDays))

	slot, err := s.repo.FindFirstOpen(ctx, from, to, s.clock.OpenSlotsToday())
	if err != nil {
		return nil, s.storeError("NextOpenSlot", err, "service_id", serviceID)
	}
	if slot == nil {
		return nil, nil
	}
	return &model.SlotRef{Date: slot.Date, TimeSlot: slot.TimeSlot, TeamNumber: slot.TeamNumber}, nil
}

func (s *queryService) ListOpenDates(ctx context.Context, horizonDays int) ([]string, error) {
	if !calendar.ValidHorizon(horizonDays) {
		return nil, invalidHorizon(horizonDays)
	}

	today := s.clock.Today()
	from := calendar.FormatDate(today)
	to := calendar.FormatDate(today.AddDate(0, 0, horizonDays))

	dates, err := s.repo.FindOpenDates(ctx, from, to)
	if err != nil {
		return nil, s.storeError("ListOpenDates", err, "days", horizonDays)
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *queryService) IsDateFullyBooked(ctx context.Context, date string) (bool, error) {
	if err := s.validateDate(date); err != nil {
		return false, err
	}

	open, err := s.repo.CountOpen(ctx, date)
	if err != nil {
		return false, s.storeError("IsDateFullyBooked", err, "date", date)
	}
	return open == 0, nil
}

// ListRange returns the slot summaries of every working date in [today, today+days].
func (s *queryService) ListRange(ctx context.Context, days int) (map[string][]model.SlotSummary, error) {
	if !calendar.ValidHorizon(days) {
		return nil, invalidHorizon(days)
	}

	today := s.clock.Today()
	from := calendar.FormatDate(today)
	to := calendar.FormatDate(today.AddDate(0, 0, days))

	rows, err := s.repo.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, s.storeError("ListRange", err, "days", days)
	}

	byDate := make(map[string][]*model.AvailabilitySlot)
	for _, row := range rows {
		byDate[row.Date] = append(byDate[row.Date], row)
	}

	result := make(map[string][]model.SlotSummary)
	for _, d := range calendar.WorkingDates(today, days) {
		key := calendar.FormatDate(d)
		result[key] = summarize(byDate[key])
	}
	return result, nil
}

func (s *queryService) requireActiveService(ctx context.Context, serviceID string) error {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return unknownService(serviceID)
		}
		return err
	}
	if !svc.Active {
		return unknownService(serviceID)
	}
	return nil
}

func (s *queryService) validateDate(date string) error {
	if _, err := s.clock.ParseDate(date); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	return nil
}

func (s *queryService) storeError(op string, err error, args ...any) error {
	s.cfg.Log.Op(op).Error("Availability store call failed", append(args, "error", err)...)
	return mongodb.Classify("Failed to read availability", err)
}

// summarize folds rows of one date into one summary per time slot, in slot order.
func summarize(rows []*model.AvailabilitySlot) []model.SlotSummary {
	open := make(map[string][]int, len(calendar.Slots))
	for _, row := range rows {
		if row.IsAvailable {
			open[row.TimeSlot] = append(open[row.TimeSlot], row.TeamNumber)
		}
	}

	summaries := make([]model.SlotSummary, 0, len(calendar.Slots))
	for _, slot := range calendar.Slots {
		teams := open[slot]
		if teams == nil {
			teams = []int{}
		}
		sort.Ints(teams)
		summaries = append(summaries, model.SlotSummary{
			TimeSlot:             slot,
			AvailableTeamCount:   len(teams),
			AvailableTeamNumbers: teams,
		})
	}
	return summaries
}

func invalidSlot(slot string) error {
	return apperrors.Validation("Invalid time slot", map[string]any{
		"time_slot": slot,
		"allowed":   calendar.Slots,
	})
}

func invalidHorizon(days int) error {
	return apperrors.Validation(
		fmt.Sprintf("days must be between %d and %d", calendar.MinHorizonDays, calendar.MaxHorizonDays),
		map[string]any{"days": days},
	)
}

func unknownService(id string) error {
	return apperrors.Validation("Unknown or inactive service", map[string]any{"service_id": id})
}
