package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 7, 1, 15, 30, 0, 0, time.UTC)

func d(day int) time.Time {
	return time.Date(2024, 7, day, 0, 0, 0, 0, time.UTC)
}

func TestSelector_CompleteRange(t *testing.T) {
	s := NewSelector(now)
	assert.True(t, s.SelectDate(d(5)))
	assert.True(t, s.SelectDate(d(8)))

	require.True(t, s.Complete())
	assert.Equal(t, d(5), *s.CheckIn())
	assert.Equal(t, d(8), *s.CheckOut())

	dr, ok := s.Range()
	require.True(t, ok)
	assert.Equal(t, 3, dr.Nights())
}

func TestSelector_RestartsOnThirdClick(t *testing.T) {
	s := NewSelector(now)
	s.SelectDate(d(5))
	s.SelectDate(d(8))
	s.SelectDate(d(20))

	assert.Equal(t, d(20), *s.CheckIn())
	assert.Nil(t, s.CheckOut())
}

func TestSelector_EarlierDateRestartsRange(t *testing.T) {
	s := NewSelector(now)
	s.SelectDate(d(10))
	s.SelectDate(d(6))

	assert.Equal(t, d(6), *s.CheckIn())
	assert.Nil(t, s.CheckOut())
}

func TestSelector_SameDayRestartsInsteadOfZeroNights(t *testing.T) {
	s := NewSelector(now)
	s.SelectDate(d(10))
	s.SelectDate(d(10))

	assert.Equal(t, d(10), *s.CheckIn())
	assert.Nil(t, s.CheckOut())
}

func TestSelector_PastDatesNeverChangeState(t *testing.T) {
	s := NewSelector(now)
	assert.False(t, s.SelectDate(time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, s.CheckIn())

	s.SelectDate(d(5))
	assert.False(t, s.SelectDate(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, d(5), *s.CheckIn())
}

func TestSelector_TodayIsSelectable(t *testing.T) {
	s := NewSelector(now)
	// now has a time-of-day component; selecting today must still work.
	assert.True(t, s.SelectDate(now))
	assert.Equal(t, d(1), *s.CheckIn())
}

func TestSelector_InvariantUnderClickSequences(t *testing.T) {
	seqs := [][]int{
		{5, 8, 3, 3, 12, 2, 28},
		{1, 1, 1},
		{31, 30, 29, 28},
		{10, 11, 12, 13},
	}
	for _, seq := range seqs {
		s := NewSelector(now)
		for _, day := range seq {
			s.SelectDate(d(day))
			if s.Complete() {
				assert.True(t, s.CheckOut().After(*s.CheckIn()))
			}
		}
	}
}

func TestSelector_Clear(t *testing.T) {
	s := NewSelector(now)
	s.SelectDate(d(5))
	s.SelectDate(d(8))
	s.Clear()
	assert.Nil(t, s.CheckIn())
	assert.Nil(t, s.CheckOut())
	assert.False(t, s.Complete())
}

func TestSelector_DayStatus(t *testing.T) {
	s := NewSelector(now)
	s.SelectDate(d(5))
	s.SelectDate(d(8))

	assert.Equal(t, DaySelected, s.DayStatus(d(5), nil))
	assert.Equal(t, DaySelected, s.DayStatus(d(8), nil))
	assert.Equal(t, DayInRange, s.DayStatus(d(6), nil))
	assert.Equal(t, DayInRange, s.DayStatus(d(7), nil))
	assert.Equal(t, DayAvailable, s.DayStatus(d(9), nil))
	assert.Equal(t, DayDisabled, s.DayStatus(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), nil))
}

func TestSelector_DayStatus_DisabledWinsOverRange(t *testing.T) {
	// A committed range held while the month rolls over: past days inside
	// the range still render disabled.
	s := NewSelector(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	s.SelectDate(time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC))
	s.SelectDate(time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))

	later := *s
	later.today = d(1)
	assert.Equal(t, DayDisabled, later.DayStatus(time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC), nil))
	assert.Equal(t, DayInRange, later.DayStatus(d(5), nil))
}

func TestSelector_DayStatus_PreviewRange(t *testing.T) {
	s := NewSelector(now)
	s.SelectDate(d(5))
	hover := d(9)

	assert.Equal(t, DayPreviewRange, s.DayStatus(d(6), &hover))
	assert.Equal(t, DayPreviewRange, s.DayStatus(d(9), &hover))
	assert.Equal(t, DayAvailable, s.DayStatus(d(10), &hover))
	assert.Equal(t, DaySelected, s.DayStatus(d(5), &hover))

	// Preview only exists while the selection is open.
	s.SelectDate(d(8))
	assert.Equal(t, DayAvailable, s.DayStatus(d(9), &hover))
}

func TestMonthCursor_BlocksPastMonths(t *testing.T) {
	m := NewMonthCursor(now)
	assert.Equal(t, time.July, m.Month())
	assert.False(t, m.CanPrev())
	assert.False(t, m.Prev())
	assert.Equal(t, time.July, m.Month())

	m.Next()
	assert.Equal(t, time.August, m.Month())
	assert.True(t, m.Prev())
	assert.Equal(t, time.July, m.Month())
}

func TestMonthCursor_YearBoundary(t *testing.T) {
	m := NewMonthCursor(time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC))
	m.Next()
	assert.Equal(t, 2025, m.Year())
	assert.Equal(t, time.January, m.Month())
	assert.True(t, m.Prev())
	assert.Equal(t, 2024, m.Year())
	assert.Equal(t, time.December, m.Month())
}

func TestMonthCursor_Grid(t *testing.T) {
	m := NewMonthCursor(now)
	assert.Equal(t, 31, m.DaysInMonth())
	assert.Equal(t, time.Monday, m.FirstWeekday())
	assert.Equal(t, d(15), m.Day(15))
}
