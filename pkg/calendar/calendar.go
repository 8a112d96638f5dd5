// Package calendar holds the scheduling rules shared by availability, pricing and bookings:
// the fixed daily time slots, date parsing in the company's timezone, and the excluded weekday.
package calendar

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ExcludedWeekday is never offered to customers.
const ExcludedWeekday = time.Sunday

const (
	MinHorizonDays = 1
	MaxHorizonDays = 30
)

// Slots are the six two-hour windows of a working day, in start-time order.
var Slots = []string{
	"07:00-09:00",
	"09:00-11:00",
	"11:00-13:00",
	"13:00-15:00",
	"15:00-17:00",
	"17:00-19:00",
}

var slotIndex = func() map[string]int {
	m := make(map[string]int, len(Slots))
	for i, s := range Slots {
		m[s] = i
	}
	return m
}()

func IsValidSlot(slot string) bool {
	_, ok := slotIndex[slot]
	return ok
}

// SlotIndex returns the position of slot in Slots, or -1.
func SlotIndex(slot string) int {
	if i, ok := slotIndex[slot]; ok {
		return i
	}
	return -1
}

// SlotStart returns the instant the slot begins on the given date.
func SlotStart(date time.Time, slot string) (time.Time, error) {
	if !IsValidSlot(slot) {
		return time.Time{}, fmt.Errorf("unknown time slot %q", slot)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(slot[:5], "%02d:%02d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("malformed time slot %q: %w", slot, err)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, date.Location()), nil
}

// Clock resolves "now" and "today" in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock pins "now" to t.
func NewFixedClock(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns midnight of the current day in the clock's location.
func (c *Clock) Today() time.Time {
	y, m, d := c.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

func (c *Clock) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, c.loc)
}

// OpenSlotsToday returns the slots of today that have not started yet.
func (c *Clock) OpenSlotsToday() []string {
	now := c.Now()
	today := c.Today()
	open := make([]string, 0, len(Slots))
	for _, s := range Slots {
		start, err := SlotStart(today, s)
		if err == nil && start.After(now) {
			open = append(open, s)
		}
	}
	return open
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func IsExcluded(t time.Time) bool {
	return t.Weekday() == ExcludedWeekday
}

// DateRange returns every date in [from, from+days], inclusive on both ends.
func DateRange(from time.Time, days int) []time.Time {
	if days < 0 {
		return nil
	}
	out := make([]time.Time, 0, days+1)
	for i := 0; i <= days; i++ {
		out = append(out, from.AddDate(0, 0, i))
	}
	return out
}

// WorkingDates is DateRange without the excluded weekday.
func WorkingDates(from time.Time, days int) []time.Time {
	all := DateRange(from, days)
	out := all[:0]
	for _, d := range all {
		if !IsExcluded(d) {
			out = append(out, d)
		}
	}
	return out
}

func ValidHorizon(days int) bool {
	return days >= MinHorizonDays && days <= MaxHorizonDays
}
