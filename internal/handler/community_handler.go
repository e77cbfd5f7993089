package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thryve-market/service-marketplace/internal/application"
	"github.com/thryve-market/service-marketplace/internal/platform/auth"
	"github.com/thryve-market/service-marketplace/internal/platform/middleware"
	"github.com/thryve-market/service-marketplace/internal/platform/response"
)

// CommunityHandler handles HTTP requests for the community feed.
type CommunityHandler struct {
	service *application.CommunityService
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(service *application.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

// RegisterRoutes registers all community routes on the given router group.
func (h *CommunityHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	posts := r.Group("/api/v1/posts")
	posts.Use(authMW)
	{
		posts.POST("", h.CreatePost)
		posts.GET("", h.Feed)
		posts.DELETE("/:id", h.DeletePost)
		posts.POST("/:id/like", h.ToggleLike)
		posts.POST("/:id/comments", h.AddComment)
		posts.GET("/:id/comments", h.ListComments)
	}

	comments := r.Group("/api/v1/comments")
	comments.Use(authMW)
	{
		comments.DELETE("/:id", h.DeleteComment)
	}
}

// CreatePost handles POST /api/v1/posts.
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Feed handles GET /api/v1/posts.
func (h *CommunityHandler) Feed(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.Feed(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// DeletePost handles DELETE /api/v1/posts/:id.
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	postID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), postID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// ToggleLike handles POST /api/v1/posts/:id/like.
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	postID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	liked, err := h.service.ToggleLike(c.Request.Context(), postID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"liked": liked})
}

// AddComment handles POST /api/v1/posts/:id/comments.
func (h *CommunityHandler) AddComment(c *gin.Context) {
	postID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	var req application.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), postID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListComments handles GET /api/v1/posts/:id/comments.
func (h *CommunityHandler) ListComments(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post ID")
		return
	}

	result, err := h.service.ListComments(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteComment handles DELETE /api/v1/comments/:id.
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	commentID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

func (h *CommunityHandler) idAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ID")
		return uuid.Nil, uuid.Nil, false
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}

	return id, userID, true
}
