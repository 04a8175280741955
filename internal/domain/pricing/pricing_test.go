package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"temporada/internal/domain/listings"
)

func day(value string) *time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestForStay(t *testing.T) {
	l := listings.Listing{BasePrice: 200, CleaningFee: 150}

	q := ForStay(l, day("2024-07-05"), day("2024-07-08"))
	assert.True(t, q.Complete)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 200.0, q.NightlyRate)
	assert.Equal(t, 600.0, q.Subtotal)
	assert.Equal(t, 150.0, q.CleaningFee)
	assert.Equal(t, 750.0, q.Total)
}

func TestForStay_IncompleteDates(t *testing.T) {
	l := listings.Listing{BasePrice: 200, CleaningFee: 150}

	for _, q := range []Quote{
		ForStay(l, nil, nil),
		ForStay(l, day("2024-07-05"), nil),
		ForStay(l, nil, day("2024-07-08")),
	} {
		assert.False(t, q.Complete)
		assert.Zero(t, q.Nights)
		// No dates chosen is not the same as priced at zero: the cleaning
		// fee must not leak into an incomplete quote.
		assert.Zero(t, q.Total)
		assert.Zero(t, q.CleaningFee)
	}
}

func TestForStay_Deterministic(t *testing.T) {
	l := listings.Listing{BasePrice: 180, CleaningFee: 90, WeekendPrice: 250}
	first := ForStay(l, day("2025-01-10"), day("2025-01-12"))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ForStay(l, day("2025-01-10"), day("2025-01-12")))
	}
}

func TestNights_CeilsPartialDays(t *testing.T) {
	in := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	out := time.Date(2024, 7, 6, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, Nights(&in, &out))
}

func TestNightlyRate_FlatFallback(t *testing.T) {
	// Weekend and seasonal tiers never override a set base rate; the stay
	// is priced uniformly.
	assert.Equal(t, 200.0, NightlyRate(listings.Listing{BasePrice: 200, WeekendPrice: 300, SeasonalPrice: 400}))
	assert.Equal(t, 400.0, NightlyRate(listings.Listing{SeasonalPrice: 400, WeekendPrice: 300}))
	assert.Equal(t, 300.0, NightlyRate(listings.Listing{WeekendPrice: 300}))
	assert.Zero(t, NightlyRate(listings.Listing{}))
}

func TestMeetsMinStay(t *testing.T) {
	l := listings.Listing{BasePrice: 100, MinStayNights: 3}
	short := ForStay(l, day("2024-07-05"), day("2024-07-07"))
	// The resolver still prices a short stay; enforcement is advisory.
	assert.True(t, short.Complete)
	assert.False(t, MeetsMinStay(l, short))

	long := ForStay(l, day("2024-07-05"), day("2024-07-09"))
	assert.True(t, MeetsMinStay(l, long))
	assert.True(t, MeetsMinStay(listings.Listing{MinStayNights: 1}, short))
}
