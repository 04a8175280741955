package catalog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"temporada/internal/domain/listings"
)

// Row is the remote storage shape of a listing. Column names and nullability
// belong to the remote schema; nothing outside this package reads or writes
// it. Nullable columns use database/sql null types so a sparse row scans
// without errors and the mapper decides the defaults.
type Row struct {
	ID             string
	Title          sql.NullString
	Description    sql.NullString
	Price          sql.NullFloat64
	WeekendPrice   sql.NullFloat64
	SeasonalPrice  sql.NullFloat64
	CleaningFee    sql.NullFloat64
	MinStay        sql.NullInt64
	Location       sql.NullString
	ImageURL       sql.NullString
	Gallery        pq.StringArray
	Amenities      pq.StringArray
	OwnerID        sql.NullString
	OwnerPhone     sql.NullString
	OwnerName      sql.NullString
	OwnerBio       sql.NullString
	OwnerAvatarURL sql.NullString
	Guests         sql.NullInt64
	Bedrooms       sql.NullInt64
	Beds           sql.NullInt64
	Baths          sql.NullInt64
	Lat            sql.NullFloat64
	Lng            sql.NullFloat64
	Rating         sql.NullFloat64
	ReviewsCount   sql.NullInt64
	Featured       sql.NullBool
	Active         sql.NullBool
	CreatedAt      sql.NullTime
}

// IdentityProvider resolves the acting user for outgoing rows. Absence is a
// valid state and maps to an explicit NULL owner stamp.
type IdentityProvider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

// IdentityFunc adapts a function to IdentityProvider.
type IdentityFunc func(ctx context.Context) (string, bool)

func (f IdentityFunc) CurrentUserID(ctx context.Context) (string, bool) { return f(ctx) }

// Mapper translates between Row and the domain entity in both directions.
// It is the only component aware of the storage schema.
type Mapper struct {
	Identity IdentityProvider
	Region   listings.Coordinates
}

// ToDomain maps a row to the domain entity. It is total: every field has a
// typed default and no input aborts the mapping — one corrupt row must never
// take down the rest of the page. If mapping still panics the sentinel error
// listing is returned with the original identifier.
func (m Mapper) ToDomain(row Row) (out listings.Listing) {
	defer func() {
		if r := recover(); r != nil {
			out = ErrorListing(listings.ListingID(row.ID))
		}
	}()

	featured := row.Featured.Valid && row.Featured.Bool
	active := !row.Active.Valid || row.Active.Bool

	ownerName := stringOr(row.OwnerName, "Concierge")
	avatar := row.OwnerAvatarURL.String
	if !row.OwnerAvatarURL.Valid || avatar == "" {
		avatar = listings.FallbackAvatar(ownerName)
	}

	coords := m.Region
	if row.Lat.Valid && row.Lng.Valid {
		coords = listings.Coordinates{Lat: row.Lat.Float64, Lng: row.Lng.Float64}
	}

	return listings.Listing{
		ID:            listings.ListingID(row.ID),
		OwnerID:       row.OwnerID.String,
		Title:         stringOr(row.Title, "Sem Título"),
		Description:   row.Description.String,
		Location:      stringOr(row.Location, "Sem Localização"),
		BasePrice:     floatMin(row.Price, 0),
		WeekendPrice:  floatMin(row.WeekendPrice, 0),
		SeasonalPrice: floatMin(row.SeasonalPrice, 0),
		CleaningFee:   floatMin(row.CleaningFee, 0),
		MinStayNights: intOr(row.MinStay, 1),
		Rating:        floatOr(row.Rating, 5.0),
		ReviewsCount:  intOr(row.ReviewsCount, 0),
		Guests:        intOr(row.Guests, 2),
		Bedrooms:      intOr(row.Bedrooms, 1),
		Beds:          intOr(row.Beds, 1),
		Baths:         intOr(row.Baths, 1),
		ImageURL:      row.ImageURL.String,
		Gallery:       append([]string(nil), row.Gallery...),
		Amenities:     append([]string(nil), row.Amenities...),
		OwnerPhone:    row.OwnerPhone.String,
		Coordinates:   coords,
		Owner: listings.Owner{
			Name:         ownerName,
			Avatar:       avatar,
			Bio:          stringOr(row.OwnerBio, "Anfitrião dedicado."),
			ResponseRate: "100%",
			ResponseTime: "1h",
			JoinedDate:   "2024",
			IsSuperhost:  featured,
		},
		Tags:      listings.DeriveTags(featured, active),
		CreatedAt: row.CreatedAt.Time,
	}
}

// ToRow maps a domain entity to its storage shape for insert/update. The
// acting identity is resolved here and stamped as owner_id; when no identity
// is available the stamp is an explicit NULL, never an omitted column. The
// featured flag is recovered from the badge set; Paused and New are
// derived-only and are never written back, and the active flag is left
// untouched for the remote side to manage.
func (m Mapper) ToRow(ctx context.Context, l listings.Listing) (Row, error) {
	var owner sql.NullString
	if m.Identity != nil {
		if id, ok := m.Identity.CurrentUserID(ctx); ok && id != "" {
			owner = sql.NullString{String: id, Valid: true}
		}
	}

	rating := l.Rating
	if rating <= 0 {
		rating = 5.0
	}

	return Row{
		ID:             string(l.ID),
		Title:          sql.NullString{String: l.Title, Valid: true},
		Description:    sql.NullString{String: l.Description, Valid: true},
		Price:          sql.NullFloat64{Float64: l.BasePrice, Valid: true},
		WeekendPrice:   sql.NullFloat64{Float64: l.WeekendPrice, Valid: true},
		SeasonalPrice:  sql.NullFloat64{Float64: l.SeasonalPrice, Valid: true},
		CleaningFee:    sql.NullFloat64{Float64: l.CleaningFee, Valid: true},
		MinStay:        sql.NullInt64{Int64: int64(l.MinStayNights), Valid: true},
		Location:       sql.NullString{String: l.Location, Valid: true},
		ImageURL:       sql.NullString{String: l.ImageURL, Valid: true},
		Gallery:        append(pq.StringArray(nil), l.Gallery...),
		Amenities:      append(pq.StringArray(nil), l.Amenities...),
		OwnerID:        owner,
		OwnerPhone:     sql.NullString{String: l.OwnerPhone, Valid: true},
		OwnerName:      sql.NullString{String: defaultString(l.Owner.Name, "Concierge"), Valid: true},
		OwnerBio:       sql.NullString{String: l.Owner.Bio, Valid: true},
		OwnerAvatarURL: sql.NullString{String: l.Owner.Avatar, Valid: true},
		Guests:         sql.NullInt64{Int64: int64(l.Guests), Valid: true},
		Bedrooms:       sql.NullInt64{Int64: int64(l.Bedrooms), Valid: true},
		Beds:           sql.NullInt64{Int64: int64(l.Beds), Valid: true},
		Baths:          sql.NullInt64{Int64: int64(l.Baths), Valid: true},
		Lat:            sql.NullFloat64{Float64: l.Coordinates.Lat, Valid: true},
		Lng:            sql.NullFloat64{Float64: l.Coordinates.Lng, Valid: true},
		Rating:         sql.NullFloat64{Float64: rating, Valid: true},
		ReviewsCount:   sql.NullInt64{Int64: int64(l.ReviewsCount), Valid: true},
		Featured:       sql.NullBool{Bool: l.Featured(), Valid: true},
	}, nil
}

// ErrorListing is the sentinel entity returned when a row cannot be mapped.
// It keeps the original identifier so the caller can still key on it.
func ErrorListing(id listings.ListingID) listings.Listing {
	if id == "" {
		id = "error"
	}
	return listings.Listing{
		ID:          id,
		Title:       "Erro ao carregar",
		Description: "Dados inválidos",
	}
}

func stringOr(v sql.NullString, def string) string {
	if v.Valid && strings.TrimSpace(v.String) != "" {
		return v.String
	}
	return def
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func floatOr(v sql.NullFloat64, def float64) float64 {
	if v.Valid {
		return v.Float64
	}
	return def
}

func floatMin(v sql.NullFloat64, min float64) float64 {
	if v.Valid && v.Float64 > min {
		return v.Float64
	}
	return min
}

func intOr(v sql.NullInt64, def int) int {
	if v.Valid && v.Int64 > 0 {
		return int(v.Int64)
	}
	return def
}
