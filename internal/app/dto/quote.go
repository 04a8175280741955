package dto

import (
	"temporada/internal/domain/pricing"
)

// QuoteDTO is the transient price projection returned to clients.
type QuoteDTO struct {
	Nights       int     `json:"nights"`
	NightlyRate  float64 `json:"nightly_rate"`
	Subtotal     float64 `json:"subtotal"`
	CleaningFee  float64 `json:"cleaning_fee"`
	Total        float64 `json:"total"`
	Complete     bool    `json:"complete"`
	MeetsMinStay bool    `json:"meets_min_stay"`
}

// ReservationDTO carries the handoff text and link built from a quote.
type ReservationDTO struct {
	Message string   `json:"message"`
	Link    string   `json:"link"`
	Quote   QuoteDTO `json:"quote"`
}

// MapQuote copies a quote for frontend consumption.
func MapQuote(q pricing.Quote, meetsMinStay bool) QuoteDTO {
	return QuoteDTO{
		Nights:       q.Nights,
		NightlyRate:  q.NightlyRate,
		Subtotal:     q.Subtotal,
		CleaningFee:  q.CleaningFee,
		Total:        q.Total,
		Complete:     q.Complete,
		MeetsMinStay: meetsMinStay,
	}
}
