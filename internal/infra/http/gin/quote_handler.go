package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"temporada/internal/app/dto"
	"temporada/internal/catalog"
	"temporada/internal/domain/availability"
	"temporada/internal/domain/listings"
	"temporada/internal/domain/pricing"
	"temporada/internal/infra/messaging"
)

// QuoteHandler prices stays and hands reservations off to the messaging
// collaborator.
type QuoteHandler struct {
	Store   *catalog.Store
	Handoff messaging.Handoff
	Now     func() time.Time
}

// Quote computes a transient price projection for a listing and a date
// pair. Dates arrive as ISO days; an absent pair yields an incomplete quote
// rather than a zero-cost one.
func (h *QuoteHandler) Quote(c *gin.Context) {
	listing, checkIn, checkOut, ok := h.resolve(c)
	if !ok {
		return
	}
	q := pricing.ForStay(listing, checkIn, checkOut)
	c.JSON(http.StatusOK, dto.MapQuote(q, pricing.MeetsMinStay(listing, q)))
}

// Reserve builds the reservation text from the current quote and sends it
// through the handoff collaborator. Availability is advisory only; the
// reservation is confirmed out-of-band.
func (h *QuoteHandler) Reserve(c *gin.Context) {
	listing, checkIn, checkOut, ok := h.resolve(c)
	if !ok {
		return
	}
	q := pricing.ForStay(listing, checkIn, checkOut)
	if !q.Complete {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "check-in and check-out dates are required"})
		return
	}
	text := messaging.ReservationText(listing, q, checkIn, checkOut)
	if h.Handoff != nil {
		if err := h.Handoff.Send(c.Request.Context(), listing.OwnerPhone, text); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, dto.ReservationDTO{
		Message: text,
		Link:    messaging.WhatsAppLink(listing.OwnerPhone, text),
		Quote:   dto.MapQuote(q, pricing.MeetsMinStay(listing, q)),
	})
}

// resolve loads the listing and replays the date pair through the selector
// so the committed state honors the same transition rules the calendar UI
// applies: past dates are dropped and checkout must strictly follow checkin.
func (h *QuoteHandler) resolve(c *gin.Context) (listings.Listing, *time.Time, *time.Time, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return listings.Listing{}, nil, nil, false
	}
	listing, err := h.Store.ByID(c.Request.Context(), listings.ListingID(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return listings.Listing{}, nil, nil, false
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	sel := availability.NewSelector(now())
	for _, raw := range []string{c.Query("check_in"), c.Query("check_out")} {
		if raw == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
			return listings.Listing{}, nil, nil, false
		}
		sel.SelectDate(d)
	}
	return listing, sel.CheckIn(), sel.CheckOut(), true
}
