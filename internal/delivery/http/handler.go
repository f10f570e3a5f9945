package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tcgwallet/backend/internal/domain"
	"github.com/tcgwallet/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher *usecase.MatcherService
	pricing *usecase.PricingService
	catalog domain.CardCatalog
}

// NewHandler creates a new HTTP handler
func NewHandler(matcher *usecase.MatcherService, pricing *usecase.PricingService, catalog domain.CardCatalog) *Handler {
	return &Handler{
		matcher: matcher,
		pricing: pricing,
		catalog: catalog,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	cards := 0
	if h.catalog != nil {
		cards = len(h.catalog.Snapshot())
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tcgwallet-backend",
		"version": "1.0.0",
		"cards":   cards,
	})
}

// MatchCard ranks the catalog against extracted card attributes.
// POST /api/v1/cards/match
func (h *Handler) MatchCard(c *gin.Context) {
	var request domain.MatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
			"code":  "INVALID_REQUEST",
		})
		return
	}

	matches, err := h.matcher.MatchCard(c.Request.Context(), &request)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidWeight):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_WEIGHT"})
		case errors.Is(err, domain.ErrNoActiveWeights):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "NO_ACTIVE_WEIGHTS"})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_REQUEST"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "match failed", "code": "INTERNAL_ERROR"})
		}
		return
	}

	if len(matches) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no matching cards found with the given criteria",
			"code":  "CARD_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// CardVariants returns every printing sharing the base id of a card.
// GET /api/v1/cards/:id/variants
func (h *Handler) CardVariants(c *gin.Context) {
	baseID := c.Param("id")

	cards := h.catalog.FindCardsByBaseID(baseID)
	if len(cards) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no cards found for base id " + baseID,
			"code":  "CARD_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cards":    cards,
		"pack_ids": h.catalog.FindPackIDsByBaseID(baseID),
	})
}

// PriceGroups returns all card groups known to the price feed.
// GET /api/v1/tcgplayer/groups
func (h *Handler) PriceGroups(c *gin.Context) {
	groups, err := h.pricing.Groups(c.Request.Context())
	if err != nil {
		h.priceError(c, err)
		return
	}

	if len(groups) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no card groups found", "code": "GROUP_NOT_FOUND"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// PriceProducts returns all products for one price group.
// GET /api/v1/tcgplayer/products/:groupId
func (h *Handler) PriceProducts(c *gin.Context) {
	groupID, ok := h.groupIDParam(c)
	if !ok {
		return
	}

	products, err := h.pricing.Products(c.Request.Context(), groupID)
	if err != nil {
		h.priceError(c, err)
		return
	}

	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no products found for group " + strconv.Itoa(groupID),
			"code":  "PRODUCTS_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Prices returns the price spread for every product in one group.
// GET /api/v1/tcgplayer/prices/:groupId
func (h *Handler) Prices(c *gin.Context) {
	groupID, ok := h.groupIDParam(c)
	if !ok {
		return
	}

	prices, err := h.pricing.Prices(c.Request.Context(), groupID)
	if err != nil {
		h.priceError(c, err)
		return
	}

	if len(prices) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no prices found for group " + strconv.Itoa(groupID),
			"code":  "PRICES_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// PackGroup resolves the price group for a catalog pack.
// GET /api/v1/packs/:id/group
func (h *Handler) PackGroup(c *gin.Context) {
	packID := c.Param("id")

	group, err := h.pricing.GroupForPack(c.Request.Context(), packID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPackNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "PACK_NOT_FOUND"})
		case errors.Is(err, domain.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "GROUP_NOT_FOUND"})
		default:
			h.priceError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// groupIDParam parses the :groupId path parameter, replying 400 on failure
func (h *Handler) groupIDParam(c *gin.Context) (int, bool) {
	groupID, err := strconv.Atoi(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "group id must be an integer",
			"code":  "INVALID_REQUEST",
		})
		return 0, false
	}
	return groupID, true
}

// priceError maps a pricing failure to an HTTP response
func (h *Handler) priceError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrPriceAPIFailure) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "price feed unavailable", "code": "PRICE_FEED_FAILURE"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "INTERNAL_ERROR"})
}
