package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thryve-market/service-marketplace/internal/application"
	listingDomain "github.com/thryve-market/service-marketplace/internal/domain/listing"
	"github.com/thryve-market/service-marketplace/internal/platform/auth"
	"github.com/thryve-market/service-marketplace/internal/platform/middleware"
	"github.com/thryve-market/service-marketplace/internal/platform/response"
)

// ListingHandler handles HTTP requests for listing operations.
type ListingHandler struct {
	service *application.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *application.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// RegisterRoutes registers all listing routes on the given router group.
// Browsing and fetching listings is public; mutations require auth.
func (h *ListingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	listings := r.Group("/api/v1/listings")
	{
		listings.GET("", h.Browse)
		listings.GET("/:id", h.GetListing)

		authed := listings.Group("")
		authed.Use(authMW)
		{
			authed.POST("", h.CreateListing)
			authed.PUT("/:id", h.UpdateListing)
			authed.PATCH("/:id/availability", h.SetAvailability)
			authed.DELETE("/:id", h.DeleteListing)
		}
	}

	mine := r.Group("/api/v1/my-listings")
	mine.Use(authMW)
	{
		mine.GET("", h.MyListings)
	}
}

// Browse handles GET /api/v1/listings.
func (h *ListingHandler) Browse(c *gin.Context) {
	page, limit := parsePagination(c)

	filter := listingDomain.SearchFilter{
		Query:    c.Query("q"),
		Category: listingDomain.Category(c.Query("category")),
		Type:     listingDomain.ListingType(c.Query("type")),
	}

	result, err := h.service.Browse(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetListing handles GET /api/v1/listings/:id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	result, err := h.service.GetListing(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateListing handles POST /api/v1/listings.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateListing(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateListing handles PUT /api/v1/listings/:id.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	listingID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	var req application.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateListing(c.Request.Context(), listingID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetAvailability handles PATCH /api/v1/listings/:id/availability.
func (h *ListingHandler) SetAvailability(c *gin.Context) {
	listingID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetAvailability(c.Request.Context(), listingID, userID, *req.Available)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteListing handles DELETE /api/v1/listings/:id.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	listingID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	if err := h.service.DeleteListing(c.Request.Context(), listingID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// MyListings handles GET /api/v1/my-listings.
func (h *ListingHandler) MyListings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.GetOwnerListings(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

func (h *ListingHandler) idAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return uuid.Nil, uuid.Nil, false
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}

	return listingID, userID, true
}
