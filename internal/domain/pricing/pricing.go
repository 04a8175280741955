package pricing

import (
	"math"
	"time"

	"temporada/internal/domain/listings"
)

// Quote is a transient price projection for a listing over a date pair.
// It is recomputed on every call and never stored. Incomplete quotes have
// Complete == false and carry no cost at all; a completed zero-night stay is
// not representable because the selector forbids equal dates.
type Quote struct {
	Nights      int
	NightlyRate float64
	Subtotal    float64
	CleaningFee float64
	Total       float64
	Complete    bool
}

// Nights returns the whole-night length of a stay, rounding partial days up.
// A nil date on either side yields zero.
func Nights(checkIn, checkOut *time.Time) int {
	if checkIn == nil || checkOut == nil {
		return 0
	}
	diff := checkOut.Sub(*checkIn)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// NightlyRate selects the flat rate applied to every night of the stay.
// Weekend and seasonal tiers are carried on the entity but the stay is
// priced uniformly at the base rate; the tiers only take over when the base
// rate is unset. Per-night calendar walks are deliberately not done here.
func NightlyRate(l listings.Listing) float64 {
	if l.BasePrice > 0 {
		return l.BasePrice
	}
	if l.SeasonalPrice > 0 {
		return l.SeasonalPrice
	}
	if l.WeekendPrice > 0 {
		return l.WeekendPrice
	}
	return 0
}

// ForStay computes a quote for the given listing and date pair. It is pure:
// the same inputs always produce the same quote. MinStayNights is not
// enforced here; callers decide whether a short stay is acceptable.
func ForStay(l listings.Listing, checkIn, checkOut *time.Time) Quote {
	nights := Nights(checkIn, checkOut)
	if nights == 0 {
		return Quote{}
	}
	rate := NightlyRate(l)
	subtotal := float64(nights) * rate
	fee := l.CleaningFee
	if fee < 0 {
		fee = 0
	}
	return Quote{
		Nights:      nights,
		NightlyRate: rate,
		Subtotal:    subtotal,
		CleaningFee: fee,
		Total:       subtotal + fee,
		Complete:    true,
	}
}

// MeetsMinStay reports whether the quoted stay satisfies the listing's
// minimum, for callers that want to surface a warning.
func MeetsMinStay(l listings.Listing, q Quote) bool {
	if l.MinStayNights <= 1 {
		return true
	}
	return q.Nights >= l.MinStayNights
}
