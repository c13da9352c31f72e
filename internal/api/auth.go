package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/middleware"
	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/types"
)

type AuthHandler struct {
	auth   service.IAuthService
	logger *zap.Logger
}

func NewAuthHandler(auth service.IAuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// RegisterRoutes mounts the public auth routes and, behind requireAuth, the
// session routes.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
		auth.POST("/password-strength", h.PasswordStrength)

		auth.POST("/logout", requireAuth, h.Logout)
		auth.GET("/user", requireAuth, h.CurrentUser)
		auth.PUT("/password", requireAuth, h.UpdatePassword)
	}
	router.DELETE("/account", requireAuth, h.DeleteAccount)
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req types.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.auth.SignUp(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.auth.SignIn(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "unauthorized"})
		return
	}
	if err := h.auth.SignOut(c.Request.Context(), claims); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}
	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := viewer(c)
	if !ok {
		return
	}
	var req types.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.auth.UpdatePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// PasswordStrength scores a candidate password for the signup meter.
func (h *AuthHandler) PasswordStrength(c *gin.Context) {
	var req types.PasswordStrengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, service.ScorePassword(req.Password))
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error":   "Coming Soon",
		"message": "Account deletion is not available yet.",
	})
}
