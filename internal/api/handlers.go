package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/database"
	"github.com/nuhm/bitnap/backend/internal/metrics"
	"github.com/nuhm/bitnap/backend/internal/middleware"
	"github.com/nuhm/bitnap/backend/internal/service"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth     service.IAuthService
	Profiles service.IProfileService
	Buddies  service.IBuddyService
	Feed     service.IFeedService
	Journals service.IJournalService
	Drafts   service.IDraftService

	// DB is probed by the health check. Nil skips the probe.
	DB           database.Pinger
	ProbeTimeout time.Duration

	BuddyLimiter *middleware.RateLimiter
	Logger       *zap.Logger
}

// HealthHandler reports whether the data store is reachable.
type HealthHandler struct {
	db      database.Pinger
	timeout time.Duration
	logger  *zap.Logger
}

func NewHealthHandler(db database.Pinger, timeout time.Duration, logger *zap.Logger) *HealthHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HealthHandler{db: db, timeout: timeout, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.db != nil {
		if err := database.Probe(c.Request.Context(), h.db, h.timeout); err != nil {
			metrics.ProbeFailures.Inc()
			h.logger.Warn("health probe failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "maintenance",
				"message": maintenanceMessage,
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	health := NewHealthHandler(deps.DB, deps.ProbeTimeout, logger)
	router.GET("/health", health.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/health", health.HealthCheck)

	requireAuth := middleware.AuthMiddleware(deps.Auth)

	NewAuthHandler(deps.Auth, logger).RegisterRoutes(v1, requireAuth)

	protected := v1.Group("")
	protected.Use(requireAuth)
	NewProfileHandler(deps.Profiles, logger).RegisterRoutes(protected)
	NewBuddyHandler(deps.Buddies, deps.BuddyLimiter, logger).RegisterRoutes(protected)
	NewJournalHandler(deps.Journals, deps.Feed, logger).RegisterRoutes(protected)
	NewDraftHandler(deps.Drafts, logger).RegisterRoutes(protected)
}

// viewer returns the authenticated user, answering 401 when there is none.
func viewer(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "unauthorized"})
	}
	return id, ok
}

// pathID parses a uuid path parameter. Malformed ids look like missing ones.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, middleware.ErrorResponse{Error: service.ErrNotFound.Error()})
		return uuid.Nil, false
	}
	return id, true
}
