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

// ConnectionHandler handles HTTP requests for connection operations.
type ConnectionHandler struct {
	service *application.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler.
func NewConnectionHandler(service *application.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

// RegisterRoutes registers all connection routes on the given router group.
func (h *ConnectionHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	requests := r.Group("/api/v1/connection-requests")
	requests.Use(authMW)
	{
		requests.POST("", h.SendRequest)
		requests.GET("", h.ListRequests)
		requests.POST("/:id/accept", h.AcceptRequest)
		requests.POST("/:id/decline", h.DeclineRequest)
		requests.DELETE("/:id", h.CancelRequest)
	}

	connections := r.Group("/api/v1/connections")
	connections.Use(authMW)
	{
		connections.GET("", h.ListConnections)
		connections.DELETE("/:id", h.RemoveConnection)
	}
}

// SendRequest handles POST /api/v1/connection-requests.
func (h *ConnectionHandler) SendRequest(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.SendConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SendRequest(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListRequests handles GET /api/v1/connection-requests.
func (h *ConnectionHandler) ListRequests(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ListRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AcceptRequest handles POST /api/v1/connection-requests/:id/accept.
func (h *ConnectionHandler) AcceptRequest(c *gin.Context) {
	requestID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	result, err := h.service.Accept(c.Request.Context(), requestID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeclineRequest handles POST /api/v1/connection-requests/:id/decline.
func (h *ConnectionHandler) DeclineRequest(c *gin.Context) {
	requestID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	if err := h.service.Decline(c.Request.Context(), requestID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"declined": true})
}

// CancelRequest handles DELETE /api/v1/connection-requests/:id.
func (h *ConnectionHandler) CancelRequest(c *gin.Context) {
	requestID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	if err := h.service.CancelRequest(c.Request.Context(), requestID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"cancelled": true})
}

// ListConnections handles GET /api/v1/connections.
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ListConnections(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveConnection handles DELETE /api/v1/connections/:id.
func (h *ConnectionHandler) RemoveConnection(c *gin.Context) {
	connectionID, userID, ok := h.idAndUser(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), connectionID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"removed": true})
}

func (h *ConnectionHandler) idAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
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
