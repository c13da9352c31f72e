package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/types"
)

// JournalHandler serves the shared feed and the owner's journal.
type JournalHandler struct {
	journals service.IJournalService
	feed     service.IFeedService
	logger   *zap.Logger
}

func NewJournalHandler(journals service.IJournalService, feed service.IFeedService, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{journals: journals, feed: feed, logger: logger}
}

func (h *JournalHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/feed", h.Feed)

	journals := router.Group("/journals")
	{
		journals.GET("", h.Timeline)
		journals.POST("", h.CreateEntry)
		journals.GET("/:id", h.GetEntry)
	}
}

func (h *JournalHandler) Feed(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	var page types.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		badRequest(c, "limit and offset must be numbers")
		return
	}
	page = page.Normalize()

	items, err := h.feed.ComposeFeed(c.Request.Context(), userID, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// Timeline lists the caller's own entries, optionally filtered by ?q=.
func (h *JournalHandler) Timeline(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	entries, err := h.feed.Timeline(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "dream_types": models.DreamTypes})
}

func (h *JournalHandler) CreateEntry(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	var req types.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	entry, err := h.journals.CreateEntry(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *JournalHandler) GetEntry(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.journals.GetEntry(c.Request.Context(), userID, entryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
