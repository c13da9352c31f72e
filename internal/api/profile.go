package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/middleware"
	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/types"
)

// MaxAvatarSize is the largest avatar upload accepted.
const MaxAvatarSize = 5 << 20

type ProfileHandler struct {
	profiles service.IProfileService
	logger   *zap.Logger
}

func NewProfileHandler(profiles service.IProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.PUT("/username", h.SetUsername)
		profile.POST("/avatar", h.UploadAvatar)
	}

	profiles := router.Group("/profiles")
	{
		profiles.GET("/search", h.SearchProfiles)
		profiles.GET("/:id", h.ViewProfile)
	}
}

// GetProfile returns the caller's profile, creating it on first use.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	profile, err := h.profiles.EnsureProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":        profile,
		"needs_username": !profile.HasUsername(),
	})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) SetUsername(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	var req types.SetUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	profile, err := h.profiles.SetUsername(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxAvatarSize+1<<20)
	header, err := c.FormFile("avatar")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || (err == nil && header.Size > MaxAvatarSize) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, middleware.ErrorResponse{Error: "Image must be 5 MB or smaller"})
		return
	}
	if err != nil {
		badRequest(c, "Please choose an image to upload")
		return
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		badRequest(c, "Avatar must be an image")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	profile, err := h.profiles.UploadAvatar(c.Request.Context(), userID, header.Filename, file, header.Size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) SearchProfiles(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}

	results, err := h.profiles.SearchProfiles(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": results})
}

func (h *ProfileHandler) ViewProfile(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}
	profileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.profiles.ViewProfile(c.Request.Context(), userID, profileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
