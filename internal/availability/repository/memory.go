package repository

import (
	"context"
	"sort"
	"sync"

	"cleanbook/pkg/model"
)

type cellKey struct {
	date     string
	timeSlot string
	team     int
}

// MemoryAvailabilityRepository keeps the grid in process. A single mutex gives Claim and
// Release the same all-or-nothing semantics as the conditional store update. Used by
// tests and local runs without a database.
type MemoryAvailabilityRepository struct {
	mu    sync.Mutex
	cells map[cellKey]*model.AvailabilitySlot

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryAvailabilityRepository() *MemoryAvailabilityRepository {
	return &MemoryAvailabilityRepository{cells: make(map[cellKey]*model.AvailabilitySlot)}
}

func keyOf(ref model.SlotRef) cellKey {
	return cellKey{date: ref.Date, timeSlot: ref.TimeSlot, team: ref.TeamNumber}
}

// Put stores a copy of slot, replacing any existing cell.
func (m *MemoryAvailabilityRepository) Put(slot model.AvailabilitySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := cellKey{date: slot.Date, timeSlot: slot.TimeSlot, team: slot.TeamNumber}
	m.cells[k] = &slot
}

// Get returns a copy of the cell, or nil.
func (m *MemoryAvailabilityRepository) Get(ref model.SlotRef) *model.AvailabilitySlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cells[keyOf(ref)]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

func (m *MemoryAvailabilityRepository) collect(match func(*model.AvailabilitySlot) bool) []*model.AvailabilitySlot {
	out := []*model.AvailabilitySlot{}
	for _, c := range m.cells {
		if match(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].TimeSlot != out[j].TimeSlot {
			return out[i].TimeSlot < out[j].TimeSlot
		}
		return out[i].TeamNumber < out[j].TeamNumber
	})
	return out
}

func (m *MemoryAvailabilityRepository) FindByDate(_ context.Context, date string) ([]*model.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.collect(func(c *model.AvailabilitySlot) bool { return c.Date == date }), nil
}

func (m *MemoryAvailabilityRepository) FindBySlot(_ context.Context, date string, timeSlot string) ([]*model.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.collect(func(c *model.AvailabilitySlot) bool {
		return c.Date == date && c.TimeSlot == timeSlot
	}), nil
}

func (m *MemoryAvailabilityRepository) FindByDateRange(_ context.Context, fromDate string, toDate string) ([]*model.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.collect(func(c *model.AvailabilitySlot) bool {
		return c.Date >= fromDate && c.Date <= toDate
	}), nil
}

func (m *MemoryAvailabilityRepository) FindFirstOpen(_ context.Context, fromDate string, toDate string, openSlotsOnFirstDay []string) (*model.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	firstDay := make(map[string]bool, len(openSlotsOnFirstDay))
	for _, s := range openSlotsOnFirstDay {
		firstDay[s] = true
	}
	open := m.collect(func(c *model.AvailabilitySlot) bool {
		if !c.IsAvailable {
			return false
		}
		if c.Date == fromDate {
			return firstDay[c.TimeSlot]
		}
		return c.Date > fromDate && c.Date <= toDate
	})
	if len(open) == 0 {
		return nil, nil
	}
	return open[0], nil
}

func (m *MemoryAvailabilityRepository) FindOpenDates(_ context.Context, fromDate string, toDate string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	seen := map[string]bool{}
	dates := []string{}
	for _, c := range m.cells {
		if c.IsAvailable && c.Date >= fromDate && c.Date <= toDate && !seen[c.Date] {
			seen[c.Date] = true
			dates = append(dates, c.Date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (m *MemoryAvailabilityRepository) CountOpen(_ context.Context, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, c := range m.cells {
		if c.Date == date && c.IsAvailable {
			n++
		}
	}
	return n, nil
}

func (m *MemoryAvailabilityRepository) Claim(_ context.Context, ref model.SlotRef, bookingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	c, ok := m.cells[keyOf(ref)]
	if !ok || !c.IsAvailable || c.BookingID != "" {
		return false, nil
	}
	c.IsAvailable = false
	c.BookingID = bookingID
	return true, nil
}

func (m *MemoryAvailabilityRepository) Release(_ context.Context, bookingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if bookingID == "" {
		return false, nil
	}
	for _, c := range m.cells {
		if c.BookingID == bookingID && !c.IsAvailable {
			c.IsAvailable = true
			c.BookingID = ""
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryAvailabilityRepository) Block(_ context.Context, ref model.SlotRef, reason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	c, ok := m.cells[keyOf(ref)]
	if !ok || !c.IsAvailable || c.BookingID != "" {
		return false, nil
	}
	c.IsAvailable = false
	c.BlockedReason = reason
	return true, nil
}

func (m *MemoryAvailabilityRepository) Unblock(_ context.Context, ref model.SlotRef) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	c, ok := m.cells[keyOf(ref)]
	if !ok || c.BlockedReason == "" || c.BookingID != "" {
		return false, nil
	}
	c.IsAvailable = true
	c.BlockedReason = ""
	return true, nil
}

func (m *MemoryAvailabilityRepository) EnsureCells(_ context.Context, cells []*model.AvailabilitySlot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var inserted int64
	for _, c := range cells {
		k := cellKey{date: c.Date, timeSlot: c.TimeSlot, team: c.TeamNumber}
		if _, ok := m.cells[k]; ok {
			continue
		}
		m.cells[k] = &model.AvailabilitySlot{
			Date:        c.Date,
			TimeSlot:    c.TimeSlot,
			TeamNumber:  c.TeamNumber,
			IsAvailable: c.IsAvailable,
		}
		inserted++
	}
	return inserted, nil
}

var _ AvailabilityRepository = (*MemoryAvailabilityRepository)(nil)
