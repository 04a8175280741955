package listings

import (
	"net/url"
	"strings"
	"time"
)

type ListingID string

// Tag is a catalog badge displayed on listing cards. Tags are derived from
// the stored (featured, active) flags and are never persisted themselves.
type Tag string

const (
	TagFeatured Tag = "Superhost"
	TagPaused   Tag = "Pausado"
	TagNew      Tag = "Novo"
)

// Coordinates is a WGS84 point. Listings without a stored location fall back
// to a configured regional center.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Owner is the host sub-record shown on the detail page. Display strings are
// stored as-is; Avatar falls back to a generated placeholder.
type Owner struct {
	Name         string
	Avatar       string
	Bio          string
	ResponseRate string
	ResponseTime string
	JoinedDate   string
	IsSuperhost  bool
}

// Listing is the catalog's core entity. Price fields are advisory BRL
// amounts straight from the remote store; Tags carry the derived badge set.
type Listing struct {
	ID            ListingID
	OwnerID       string
	Title         string
	Description   string
	Location      string
	BasePrice     float64
	WeekendPrice  float64
	SeasonalPrice float64
	CleaningFee   float64
	MinStayNights int
	Rating        float64
	ReviewsCount  int
	Guests        int
	Bedrooms      int
	Beds          int
	Baths         int
	ImageURL      string
	Gallery       []string
	Amenities     []string
	OwnerPhone    string
	Coordinates   Coordinates
	Owner         Owner
	Tags          []Tag
	CreatedAt     time.Time
}

// DeriveTags computes the badge set from the two stored status flags.
// An inactive listing is always badged paused, a featured one always badged
// featured, and a plain active listing is badged new. The result is a pure
// function of its inputs; callers must recompute rather than cache it.
func DeriveTags(featured, active bool) []Tag {
	var tags []Tag
	if featured {
		tags = append(tags, TagFeatured)
	}
	if !active {
		tags = append(tags, TagPaused)
	}
	if len(tags) == 0 {
		tags = append(tags, TagNew)
	}
	return tags
}

// HasTag reports whether the derived badge set contains t.
func (l Listing) HasTag(t Tag) bool {
	for _, tag := range l.Tags {
		if tag == t {
			return true
		}
	}
	return false
}

// Featured reports whether the listing carries the featured badge. The
// mapper uses it to write the stored flag back; see DeriveTags for the
// forward direction.
func (l Listing) Featured() bool {
	return l.HasTag(TagFeatured)
}

// FallbackAvatar builds a placeholder avatar URL for hosts without one.
func FallbackAvatar(name string) string {
	if strings.TrimSpace(name) == "" {
		name = "Host"
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
