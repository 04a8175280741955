package messaging

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"temporada/internal/domain/listings"
	"temporada/internal/domain/pricing"
)

// SanitizePhone strips a phone number down to digits and prepends the
// Brazilian country code when a 10 or 11 digit local number is given. Too
// short numbers are returned as-is instead of being rejected outright.
func SanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if len(clean) == 10 || len(clean) == 11 {
		clean = "55" + clean
	}
	return clean
}

// WhatsAppLink builds a wa.me URL for the given phone and message text.
// An empty phone yields an empty link.
func WhatsAppLink(phone, message string) string {
	if phone == "" {
		return ""
	}
	return "https://wa.me/" + SanitizePhone(phone) + "?text=" + url.QueryEscape(message)
}

// ReservationText renders the reservation handoff message for a listing,
// a quoted stay and its date pair. The quote is the payload source; how the
// text travels is the handoff collaborator's concern.
func ReservationText(l listings.Listing, q pricing.Quote, checkIn, checkOut *time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá! Gostaria de reservar o imóvel *%s*.", l.Title)
	fmt.Fprintf(&b, "\n\n📅 *Datas:* %s a %s (%d noites)", formatDate(checkIn), formatDate(checkOut), q.Nights)
	fmt.Fprintf(&b, "\n💰 *Valor Estimado:* %s", FormatBRL(q.Total))
	return b.String()
}

func formatDate(d *time.Time) string {
	if d == nil {
		return "Adicionar data"
	}
	return d.Format("02/01/2006")
}

// FormatBRL renders an amount the pt-BR way: R$ 1.234,56.
func FormatBRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), cents)
}
