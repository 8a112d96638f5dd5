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

// GridService maintains the availability grid itself: opening future dates and blocking
// cells for operational reasons. It never touches claimed cells.
type GridService interface {
	OpenDays(ctx context.Context, days int) (int64, error)
	Block(ctx context.Context, ref model.SlotRef, reason string) (bool, error)
	Unblock(ctx context.Context, ref model.SlotRef) (bool, error)
}

type gridService struct {
	repo  repository.AvailabilityRepository
	clock *calendar.Clock
	cfg   *config.Config
}

func NewGridService(repo repository.AvailabilityRepository, clock *calendar.Clock, cfg *config.Config) GridService {
	return &gridService{repo: repo, clock: clock, cfg: cfg}
}

// OpenDays inserts an open cell for every working date in [today, today+days], every slot
// and every team, when the cell does not exist yet. It returns the number inserted.
func (s *gridService) OpenDays(ctx context.Context, days int) (int64, error) {
	if days < 0 || days > s.cfg.SchedulingHorizonDays {
		return 0, apperrors.Validation("days is outside the scheduling horizon", map[string]any{
			"days":    days,
			"horizon": s.cfg.SchedulingHorizonDays,
		})
	}

	cells := BuildCells(calendar.WorkingDates(s.clock.Today(), days), s.cfg.TeamCount)
	inserted, err := s.repo.EnsureCells(ctx, cells)
	if err != nil {
		s.cfg.Log.Op("OpenDays").Error("Failed to open availability", "days", days, "error", err)
		return 0, mongodb.Classify("Failed to open availability", err)
	}

	s.cfg.Log.Info("Availability opened", "days", days, "cells", len(cells), "inserted", inserted)
	return inserted, nil
}

func (s *gridService) Block(ctx context.Context, ref model.SlotRef, reason string) (bool, error) {
	if err := validateRef(ref); err != nil {
		return false, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false, apperrors.InvalidInput("Block reason cannot be empty")
	}

	blocked, err := s.repo.Block(ctx, ref, reason)
	if err != nil {
		s.cfg.Log.Op("Block").Error("Failed to block slot", "slot", ref, "error", err)
		return false, mongodb.Classify("Failed to block time slot", err)
	}
	return blocked, nil
}

func (s *gridService) Unblock(ctx context.Context, ref model.SlotRef) (bool, error) {
	if err := validateRef(ref); err != nil {
		return false, err
	}

	unblocked, err := s.repo.Unblock(ctx, ref)
	if err != nil {
		s.cfg.Log.Op("Unblock").Error("Failed to unblock slot", "slot", ref, "error", err)
		return false, mongodb.Classify("Failed to unblock time slot", err)
	}
	return unblocked, nil
}

// BuildCells returns one open cell per date, slot and team.
func BuildCells(dates []time.Time, teamCount int) []*model.AvailabilitySlot {
	cells := make([]*model.AvailabilitySlot, 0, len(dates)*len(calendar.Slots)*teamCount)
	for _, d := range dates {
		date := calendar.FormatDate(d)
		for _, slot := range calendar.Slots {
			for team := 1; team <= teamCount; team++ {
				cells = append(cells, &model.AvailabilitySlot{
					Date:        date,
					TimeSlot:    slot,
					TeamNumber:  team,
					IsAvailable: true,
				})
			}
		}
	}
	return cells
}
