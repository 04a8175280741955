package availability

import (
	"time"

	"temporada/internal/domain/shared/daterange"
)

// DayStatus classifies a visible calendar day for rendering. The order of
// the checks in Selector.DayStatus is the precedence contract: a past day
// renders disabled even when it falls inside a committed range.
type DayStatus string

const (
	DayDisabled     DayStatus = "disabled"
	DaySelected     DayStatus = "selected"
	DayInRange      DayStatus = "in-range"
	DayPreviewRange DayStatus = "preview-range"
	DayAvailable    DayStatus = "available"
)

// Selector is the check-in/check-out state machine for one listing. The
// committed pair never holds checkOut <= checkIn; past dates are rejected
// silently. A fresh selector is created per listing, so dates never carry
// over between listings.
type Selector struct {
	today    time.Time
	checkIn  *time.Time
	checkOut *time.Time
}

// NewSelector builds a selector anchored at now, normalized to midnight.
func NewSelector(now time.Time) *Selector {
	return &Selector{today: daterange.Midnight(now)}
}

// SelectDate applies one click. Past dates are ignored and the method
// reports whether state changed. A click with no open selection, or with a
// completed one, starts over at d; a click on or before the open check-in
// restarts at d; anything later completes the range.
func (s *Selector) SelectDate(d time.Time) bool {
	day := daterange.Midnight(d)
	if day.Before(s.today) {
		return false
	}
	if s.checkIn == nil || s.checkOut != nil {
		s.checkIn = &day
		s.checkOut = nil
		return true
	}
	if !day.After(*s.checkIn) {
		s.checkIn = &day
		s.checkOut = nil
		return true
	}
	s.checkOut = &day
	return true
}

// Clear resets the pair to empty.
func (s *Selector) Clear() {
	s.checkIn = nil
	s.checkOut = nil
}

func (s *Selector) CheckIn() *time.Time  { return s.checkIn }
func (s *Selector) CheckOut() *time.Time { return s.checkOut }

// Complete reports whether both endpoints are committed.
func (s *Selector) Complete() bool {
	return s.checkIn != nil && s.checkOut != nil
}

// Range returns the committed stay interval, if complete.
func (s *Selector) Range() (daterange.DateRange, bool) {
	if !s.Complete() {
		return daterange.DateRange{}, false
	}
	dr, err := daterange.New(*s.checkIn, *s.checkOut)
	if err != nil {
		return daterange.DateRange{}, false
	}
	return dr, true
}

// DayStatus classifies day d given an ephemeral hover cursor. The hover
// cursor only matters while a selection is open (check-in set, check-out
// unset) and is not part of committed state.
func (s *Selector) DayStatus(d time.Time, hover *time.Time) DayStatus {
	day := daterange.Midnight(d)
	if day.Before(s.today) {
		return DayDisabled
	}
	if s.checkIn != nil && day.Equal(*s.checkIn) {
		return DaySelected
	}
	if s.checkOut != nil && day.Equal(*s.checkOut) {
		return DaySelected
	}
	if s.checkIn != nil && s.checkOut != nil && day.After(*s.checkIn) && day.Before(*s.checkOut) {
		return DayInRange
	}
	if s.checkIn != nil && s.checkOut == nil && hover != nil {
		h := daterange.Midnight(*hover)
		if day.After(*s.checkIn) && !day.After(h) {
			return DayPreviewRange
		}
	}
	return DayAvailable
}

// MonthCursor tracks the visible calendar month. Navigation is independent
// of the selector; going back past the month containing today is blocked.
type MonthCursor struct {
	year  int
	month time.Month
	floor time.Time
}

func NewMonthCursor(now time.Time) *MonthCursor {
	today := daterange.Midnight(now)
	return &MonthCursor{
		year:  today.Year(),
		month: today.Month(),
		floor: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MonthCursor) Year() int         { return m.year }
func (m *MonthCursor) Month() time.Month { return m.month }

// CanPrev reports whether a step back stays on or after the current month.
func (m *MonthCursor) CanPrev() bool {
	prev := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return !prev.Before(m.floor)
}

// Prev steps one month back and reports whether the move was allowed.
func (m *MonthCursor) Prev() bool {
	if !m.CanPrev() {
		return false
	}
	prev := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	m.year, m.month = prev.Year(), prev.Month()
	return true
}

// Next steps one month forward; forward navigation is unbounded.
func (m *MonthCursor) Next() {
	next := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	m.year, m.month = next.Year(), next.Month()
}

// DaysInMonth returns the day count of the visible month.
func (m *MonthCursor) DaysInMonth() int {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}

// FirstWeekday returns the weekday of the 1st, for grid alignment.
func (m *MonthCursor) FirstWeekday() time.Weekday {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// Day materializes day number d of the visible month.
func (m *MonthCursor) Day(d int) time.Time {
	return time.Date(m.year, m.month, d, 0, 0, 0, 0, time.UTC)
}
