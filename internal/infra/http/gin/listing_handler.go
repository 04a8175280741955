package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/karlseguin/ccache/v3"

	"temporada/internal/app/dto"
	"temporada/internal/catalog"
	"temporada/internal/domain/listings"
)

// ListingHandler exposes the catalog store over HTTP.
type ListingHandler struct {
	Store       *catalog.Store
	DetailCache *ccache.Cache[listings.Listing]
	DetailTTL   time.Duration
}

func NewListingHandler(store *catalog.Store, detailTTL time.Duration) *ListingHandler {
	if detailTTL <= 0 {
		detailTTL = 30 * time.Second
	}
	return &ListingHandler{
		Store:       store,
		DetailCache: ccache.New(ccache.Configure[listings.Listing]().MaxSize(1000)),
		DetailTTL:   detailTTL,
	}
}

// Catalog responds with the accumulated paginated view. A page query param
// asks the store to fetch up to that page first; without it the current
// client-held state is returned as-is.
func (h *ListingHandler) Catalog(c *gin.Context) {
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
			return
		}
		if err := h.Store.FetchPage(c.Request.Context(), page); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, dto.MapCatalogPage(
		h.Store.Listings(), h.Store.Page(), h.Store.TotalPages(), h.Store.Loading(), h.Store.Err(),
	))
}

// LoadMore appends the next page to the accumulated view.
func (h *ListingHandler) LoadMore(c *gin.Context) {
	if err := h.Store.LoadMore(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MapCatalogPage(
		h.Store.Listings(), h.Store.Page(), h.Store.TotalPages(), h.Store.Loading(), h.Store.Err(),
	))
}

// Get serves a single listing, short-caching cold detail reads.
func (h *ListingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	listing, err := h.fetchDetail(c, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MapListingCard(listing))
}

// Create inserts a listing and returns the server-finalized entity.
func (h *ListingHandler) Create(c *gin.Context) {
	var in dto.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.Store.Create(c.Request.Context(), in.ToDomain(""))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.MapListingCard(created))
}

// Update rewrites a listing; the response reflects the optimistic local
// state, not a re-read.
func (h *ListingHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var in dto.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entity := in.ToDomain(id)
	if err := h.Store.Update(c.Request.Context(), entity); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.DetailCache.Delete(id)
	c.JSON(http.StatusOK, dto.MapListingCard(entity))
}

// Delete removes a listing.
func (h *ListingHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Store.Delete(c.Request.Context(), listings.ListingID(id)); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListingHandler) fetchDetail(c *gin.Context, id string) (listings.Listing, error) {
	if item := h.DetailCache.Get(id); item != nil && !item.Expired() {
		return item.Value(), nil
	}
	listing, err := h.Store.ByID(c.Request.Context(), listings.ListingID(id))
	if err != nil {
		return listings.Listing{}, err
	}
	h.DetailCache.Set(id, listing, h.DetailTTL)
	return listing, nil
}
