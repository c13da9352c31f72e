package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/middleware"
	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/types"
)

type BuddyHandler struct {
	buddies service.IBuddyService
	limiter *middleware.RateLimiter
	logger  *zap.Logger
}

// NewBuddyHandler creates a BuddyHandler. limiter may be nil.
func NewBuddyHandler(buddies service.IBuddyService, limiter *middleware.RateLimiter, logger *zap.Logger) *BuddyHandler {
	return &BuddyHandler{buddies: buddies, limiter: limiter, logger: logger}
}

func (h *BuddyHandler) RegisterRoutes(router *gin.RouterGroup) {
	buddies := router.Group("/buddies")
	{
		buddies.GET("", h.ListRelationships)
		if h.limiter != nil {
			buddies.POST("/requests", h.limiter.RateLimitMiddleware(), h.SendRequest)
		} else {
			buddies.POST("/requests", h.SendRequest)
		}
		buddies.POST("/requests/:id/respond", h.RespondToRequest)
		buddies.DELETE("/:id", h.RemoveRelationship)
	}
}

func (h *BuddyHandler) ListRelationships(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	list, err := h.buddies.ListRelationships(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BuddyHandler) SendRequest(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	var req types.SendBuddyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	to, err := uuid.Parse(req.BuddyID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "Please choose someone to add", Fields: []string{"Buddy"}})
		return
	}

	rel, err := h.buddies.SendRequest(c.Request.Context(), userID, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (h *BuddyHandler) RespondToRequest(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.RespondBuddyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	rel, err := h.buddies.RespondToRequest(c.Request.Context(), userID, requestID, req.Response)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if rel == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Request declined"})
		return
	}
	c.JSON(http.StatusOK, rel)
}

func (h *BuddyHandler) RemoveRelationship(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}
	relationshipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.buddies.RemoveRelationship(c.Request.Context(), userID, relationshipID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
