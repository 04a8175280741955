package dto

import (
	"time"

	domainlistings "temporada/internal/domain/listings"
)

// ListingCard is the catalog card representation.
type ListingCard struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	Price         float64         `json:"price"`
	WeekendPrice  float64         `json:"weekend_price,omitempty"`
	SeasonalPrice float64         `json:"seasonal_price,omitempty"`
	CleaningFee   float64         `json:"cleaning_fee,omitempty"`
	MinStay       int             `json:"min_stay"`
	Rating        float64         `json:"rating"`
	ReviewsCount  int             `json:"reviews_count"`
	Guests        int             `json:"guests"`
	Bedrooms      int             `json:"bedrooms"`
	Beds          int             `json:"beds"`
	Baths         int             `json:"baths"`
	ImageURL      string          `json:"image_url"`
	Gallery       []string        `json:"gallery"`
	Amenities     []string        `json:"amenities"`
	Tags          []string        `json:"tags"`
	Coordinates   CoordinatesDTO  `json:"coordinates"`
	Owner         OwnerDTO        `json:"owner"`
	OwnerPhone    string          `json:"owner_phone,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CoordinatesDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type OwnerDTO struct {
	Name         string `json:"name"`
	Avatar       string `json:"avatar"`
	Bio          string `json:"bio,omitempty"`
	ResponseRate string `json:"response_rate"`
	ResponseTime string `json:"response_time"`
	JoinedDate   string `json:"joined_date"`
	IsSuperhost  bool   `json:"is_superhost"`
}

// CatalogPage is the paginated catalog view held by the store.
type CatalogPage struct {
	Items      []ListingCard `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	HasMore    bool          `json:"has_more"`
	Loading    bool          `json:"loading"`
	Error      string        `json:"error,omitempty"`
}

// MapListingCard copies domain data for frontend consumption.
func MapListingCard(l domainlistings.Listing) ListingCard {
	tags := make([]string, 0, len(l.Tags))
	for _, t := range l.Tags {
		tags = append(tags, string(t))
	}
	return ListingCard{
		ID:            string(l.ID),
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		Price:         l.BasePrice,
		WeekendPrice:  l.WeekendPrice,
		SeasonalPrice: l.SeasonalPrice,
		CleaningFee:   l.CleaningFee,
		MinStay:       l.MinStayNights,
		Rating:        l.Rating,
		ReviewsCount:  l.ReviewsCount,
		Guests:        l.Guests,
		Bedrooms:      l.Bedrooms,
		Beds:          l.Beds,
		Baths:         l.Baths,
		ImageURL:      l.ImageURL,
		Gallery:       append([]string(nil), l.Gallery...),
		Amenities:     append([]string(nil), l.Amenities...),
		Tags:          tags,
		Coordinates:   CoordinatesDTO{Lat: l.Coordinates.Lat, Lng: l.Coordinates.Lng},
		Owner: OwnerDTO{
			Name:         l.Owner.Name,
			Avatar:       l.Owner.Avatar,
			Bio:          l.Owner.Bio,
			ResponseRate: l.Owner.ResponseRate,
			ResponseTime: l.Owner.ResponseTime,
			JoinedDate:   l.Owner.JoinedDate,
			IsSuperhost:  l.Owner.IsSuperhost,
		},
		OwnerPhone: l.OwnerPhone,
		CreatedAt:  l.CreatedAt,
	}
}

// MapCatalogPage builds the paginated collection DTO from store state.
func MapCatalogPage(items []domainlistings.Listing, page, totalPages int, loading bool, lastErr error) CatalogPage {
	cards := make([]ListingCard, 0, len(items))
	for _, l := range items {
		cards = append(cards, MapListingCard(l))
	}
	out := CatalogPage{
		Items:      cards,
		Page:       page,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
		Loading:    loading,
	}
	if lastErr != nil {
		out.Error = lastErr.Error()
	}
	return out
}

// ListingInput is the write shape accepted by create/update endpoints.
type ListingInput struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	Price         float64  `json:"price"`
	WeekendPrice  float64  `json:"weekend_price"`
	SeasonalPrice float64  `json:"seasonal_price"`
	CleaningFee   float64  `json:"cleaning_fee"`
	MinStay       int      `json:"min_stay"`
	Guests        int      `json:"guests"`
	Bedrooms      int      `json:"bedrooms"`
	Beds          int      `json:"beds"`
	Baths         int      `json:"baths"`
	ImageURL      string   `json:"image_url"`
	Gallery       []string `json:"gallery"`
	Amenities     []string `json:"amenities"`
	OwnerPhone    string   `json:"owner_phone"`
	OwnerName     string   `json:"owner_name"`
	OwnerBio      string   `json:"owner_bio"`
	OwnerAvatar   string   `json:"owner_avatar"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	Featured      bool     `json:"featured"`
}

// ToDomain builds the domain entity for a write. The badge set is derived
// from the requested featured flag; active stays remote-managed.
func (in ListingInput) ToDomain(id string) domainlistings.Listing {
	return domainlistings.Listing{
		ID:            domainlistings.ListingID(id),
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		BasePrice:     in.Price,
		WeekendPrice:  in.WeekendPrice,
		SeasonalPrice: in.SeasonalPrice,
		CleaningFee:   in.CleaningFee,
		MinStayNights: in.MinStay,
		Guests:        in.Guests,
		Bedrooms:      in.Bedrooms,
		Beds:          in.Beds,
		Baths:         in.Baths,
		ImageURL:      in.ImageURL,
		Gallery:       append([]string(nil), in.Gallery...),
		Amenities:     append([]string(nil), in.Amenities...),
		OwnerPhone:    in.OwnerPhone,
		Coordinates:   domainlistings.Coordinates{Lat: in.Lat, Lng: in.Lng},
		Owner: domainlistings.Owner{
			Name:   in.OwnerName,
			Bio:    in.OwnerBio,
			Avatar: in.OwnerAvatar,
		},
		Tags: domainlistings.DeriveTags(in.Featured, true),
	}
}
