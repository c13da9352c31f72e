package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/types"
)

type DraftHandler struct {
	drafts service.IDraftService
	logger *zap.Logger
}

func NewDraftHandler(drafts service.IDraftService, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{drafts: drafts, logger: logger}
}

func (h *DraftHandler) RegisterRoutes(router *gin.RouterGroup) {
	drafts := router.Group("/drafts/journal")
	{
		drafts.GET("", h.LoadDraft)
		drafts.PUT("", h.SaveDraft)
		drafts.POST("/flush", h.FlushDraft)
		drafts.DELETE("", h.ClearDraft)
	}
}

func (h *DraftHandler) LoadDraft(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	d, err := h.drafts.LoadDraft(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// SaveDraft accepts every keystroke-level change; persistence is debounced.
func (h *DraftHandler) SaveDraft(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	var d types.JournalDraft
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.drafts.SaveDraft(c.Request.Context(), userID, d); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *DraftHandler) FlushDraft(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}
	if err := h.drafts.FlushDraft(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DraftHandler) ClearDraft(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}
	if err := h.drafts.ClearDraft(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
