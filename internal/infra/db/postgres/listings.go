package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"temporada/internal/catalog"
)

const listingColumns = `id, title, description, price, weekend_price, seasonal_price,
	cleaning_fee, min_stay, location, image_url, gallery, amenities, owner_id,
	owner_phone, owner_name, owner_bio, owner_avatar_url, guests, bedrooms,
	beds, baths, lat, lng, rating, reviews_count, featured, active, created_at`

// ListingSource implements catalog.Source on a Postgres listings table.
type ListingSource struct {
	db *sql.DB
}

func NewListingSource(db *sql.DB) *ListingSource {
	return &ListingSource{db: db}
}

// Page returns rows [offset, offset+limit) ordered by recency descending,
// together with the exact table row count.
func (s *ListingSource) Page(ctx context.Context, offset, limit int) ([]catalog.Row, int, error) {
	query := fmt.Sprintf(`SELECT %s, count(*) OVER() AS total
		FROM listings ORDER BY created_at DESC OFFSET $1 LIMIT $2`, listingColumns)
	rows, err := s.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: page listings: %w", err)
	}
	defer rows.Close()

	var (
		out   []catalog.Row
		total int
	)
	for rows.Next() {
		var row catalog.Row
		if err := scanListing(rows, &row, &total); err != nil {
			return nil, 0, fmt.Errorf("postgres: scan listing: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: page listings: %w", err)
	}
	if len(out) == 0 {
		// Offset past the end returns no rows and no window total.
		if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM listings`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("postgres: count listings: %w", err)
		}
	}
	return out, total, nil
}

// ByID fetches a single row by identifier.
func (s *ListingSource) ByID(ctx context.Context, id string) (catalog.Row, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = $1`, listingColumns)
	var row catalog.Row
	err := scanListingRow(s.db.QueryRowContext(ctx, query, id), &row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Row{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Row{}, fmt.Errorf("postgres: listing %s: %w", id, err)
	}
	return row, nil
}

// Insert adds a row and returns it as stored, including server-assigned
// identifier, active flag and creation timestamp.
func (s *ListingSource) Insert(ctx context.Context, row catalog.Row) (catalog.Row, error) {
	query := fmt.Sprintf(`INSERT INTO listings (
		title, description, price, weekend_price, seasonal_price, cleaning_fee,
		min_stay, location, image_url, gallery, amenities, owner_id, owner_phone,
		owner_name, owner_bio, owner_avatar_url, guests, bedrooms, beds, baths,
		lat, lng, rating, reviews_count, featured
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
	RETURNING %s`, listingColumns)

	var created catalog.Row
	err := scanListingRow(s.db.QueryRowContext(ctx, query,
		row.Title, row.Description, row.Price, row.WeekendPrice, row.SeasonalPrice,
		row.CleaningFee, row.MinStay, row.Location, row.ImageURL, row.Gallery,
		row.Amenities, row.OwnerID, row.OwnerPhone, row.OwnerName, row.OwnerBio,
		row.OwnerAvatarURL, row.Guests, row.Bedrooms, row.Beds, row.Baths,
		row.Lat, row.Lng, row.Rating, row.ReviewsCount, row.Featured,
	), &created)
	if err != nil {
		return catalog.Row{}, fmt.Errorf("postgres: insert listing: %w", err)
	}
	return created, nil
}

// Update rewrites a row by identifier. The active flag and creation
// timestamp are never written from here; they belong to the remote side.
func (s *ListingSource) Update(ctx context.Context, id string, row catalog.Row) error {
	res, err := s.db.ExecContext(ctx, `UPDATE listings SET
		title = $2, description = $3, price = $4, weekend_price = $5,
		seasonal_price = $6, cleaning_fee = $7, min_stay = $8, location = $9,
		image_url = $10, gallery = $11, amenities = $12, owner_id = $13,
		owner_phone = $14, owner_name = $15, owner_bio = $16,
		owner_avatar_url = $17, guests = $18, bedrooms = $19, beds = $20,
		baths = $21, lat = $22, lng = $23, rating = $24, reviews_count = $25,
		featured = $26
		WHERE id = $1`,
		id, row.Title, row.Description, row.Price, row.WeekendPrice,
		row.SeasonalPrice, row.CleaningFee, row.MinStay, row.Location,
		row.ImageURL, row.Gallery, row.Amenities, row.OwnerID, row.OwnerPhone,
		row.OwnerName, row.OwnerBio, row.OwnerAvatarURL, row.Guests,
		row.Bedrooms, row.Beds, row.Baths, row.Lat, row.Lng, row.Rating,
		row.ReviewsCount, row.Featured,
	)
	if err != nil {
		return fmt.Errorf("postgres: update listing %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes a row by identifier.
func (s *ListingSource) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete listing %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListingRow(sc rowScanner, row *catalog.Row) error {
	return sc.Scan(
		&row.ID, &row.Title, &row.Description, &row.Price, &row.WeekendPrice,
		&row.SeasonalPrice, &row.CleaningFee, &row.MinStay, &row.Location,
		&row.ImageURL, &row.Gallery, &row.Amenities, &row.OwnerID,
		&row.OwnerPhone, &row.OwnerName, &row.OwnerBio, &row.OwnerAvatarURL,
		&row.Guests, &row.Bedrooms, &row.Beds, &row.Baths, &row.Lat, &row.Lng,
		&row.Rating, &row.ReviewsCount, &row.Featured, &row.Active,
		&row.CreatedAt,
	)
}

func scanListing(sc rowScanner, row *catalog.Row, total *int) error {
	return sc.Scan(
		&row.ID, &row.Title, &row.Description, &row.Price, &row.WeekendPrice,
		&row.SeasonalPrice, &row.CleaningFee, &row.MinStay, &row.Location,
		&row.ImageURL, &row.Gallery, &row.Amenities, &row.OwnerID,
		&row.OwnerPhone, &row.OwnerName, &row.OwnerBio, &row.OwnerAvatarURL,
		&row.Guests, &row.Bedrooms, &row.Beds, &row.Baths, &row.Lat, &row.Lng,
		&row.Rating, &row.ReviewsCount, &row.Featured, &row.Active,
		&row.CreatedAt, total,
	)
}

var _ catalog.Source = (*ListingSource)(nil)
