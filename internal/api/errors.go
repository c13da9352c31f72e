package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/database"
	"github.com/nuhm/bitnap/backend/internal/middleware"
	"github.com/nuhm/bitnap/backend/internal/service"
)

const (
	maintenanceMessage = "We're having trouble reaching our servers. Please try again in a moment."
	serverErrorMessage = "Something went wrong. Please try again."
)

// statusFor classifies a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrSelfRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAccountExists),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrAlreadyBuddies),
		errors.Is(err, service.ErrRequestExists),
		errors.Is(err, service.ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, service.ErrStorageUnavailable),
		errors.Is(err, database.ErrUnreachable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body for err. Unexpected errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	body := middleware.ErrorResponse{Error: err.Error()}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}

	switch {
	case errors.Is(err, database.ErrUnreachable):
		body.Error = maintenanceMessage
	case status == http.StatusInternalServerError:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		body.Error = serverErrorMessage
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorResponse{Error: message})
}
