package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingserrors "cleanbook/internal/bookings/errors"
	"cleanbook/pkg/model"
)

// MemoryBookingRepository keeps bookings in process with the same uniqueness rules as the
// Bookings collection.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]model.Booking

	// Err, when set, is returned by every call.
	Err error
	// CreateErr, when set, is returned by Create only.
	CreateErr error
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{bookings: make(map[string]model.Booking)}
}

func (m *MemoryBookingRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

func (m *MemoryBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, ok := m.bookings[booking.ID]; ok {
		return bookingserrors.ErrDuplicateNumber
	}
	for _, b := range m.bookings {
		if b.BookingNumber == booking.BookingNumber {
			return bookingserrors.ErrDuplicateNumber
		}
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	m.bookings[booking.ID] = clone(*booking)
	return nil
}

func (m *MemoryBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	cp := clone(b)
	return &cp, nil
}

func (m *MemoryBookingRepository) FindByNumber(_ context.Context, number string) (*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, b := range m.bookings {
		if b.BookingNumber == number {
			cp := clone(b)
			return &cp, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *MemoryBookingRepository) FindByDate(_ context.Context, date string) ([]*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := []*model.Booking{}
	for _, b := range m.bookings {
		if b.BookingDate == date {
			cp := clone(b)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimeSlot != out[j].TimeSlot {
			return out[i].TimeSlot < out[j].TimeSlot
		}
		return out[i].TeamNumber < out[j].TeamNumber
	})
	return out, nil
}

func (m *MemoryBookingRepository) UpdateStatus(
	_ context.Context,
	id string,
	from, to model.BookingStatus,
	at time.Time,
) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return nil, bookingserrors.ErrStatusChanged
	}

	at = at.UTC().Truncate(time.Millisecond)
	b.Status = to
	b.UpdatedAt = at
	if to == model.StatusCancelled {
		b.CancelledAt = &at
	}
	m.bookings[id] = b

	cp := clone(b)
	return &cp, nil
}

func (m *MemoryBookingRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func clone(b model.Booking) model.Booking {
	if b.Extras != nil {
		b.Extras = append([]model.Extra(nil), b.Extras...)
	}
	return b
}

var _ BookingRepository = (*MemoryBookingRepository)(nil)
