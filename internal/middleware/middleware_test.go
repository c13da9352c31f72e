package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nuhm/bitnap/backend/internal/middleware"
	"github.com/nuhm/bitnap/backend/internal/testhelpers"
	"github.com/nuhm/bitnap/backend/internal/types"
)

type validatorFunc func(ctx context.Context, token string) (*types.TokenClaims, error)

func (f validatorFunc) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	return f(ctx, token)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	validator := validatorFunc(func(_ context.Context, token string) (*types.TokenClaims, error) {
		if token != "good" {
			return nil, errors.New("invalid token")
		}
		return &types.TokenClaims{UserID: userID}, nil
	})

	router := gin.New()
	router.Use(middleware.AuthMiddleware(validator))
	router.GET("/me", func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		require.True(t, ok)
		claims, ok := middleware.Claims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "claims_id": claims.UserID})
	})

	tests := []struct {
		name   string
		header string
		status int
		errMsg string
	}{
		{"missing", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization header format"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"ok", "Bearer good", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.errMsg != "" {
				var body middleware.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.errMsg, body.Error)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(middleware.Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("dream collapsed") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic while handling request").Len())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(middleware.RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(middleware.CORS([]string{"https://app.bitnap.test"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.bitnap.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.bitnap.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func limitedRouter(limiter *middleware.RateLimiter, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	router.POST("/buddies/requests", limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	limiter := middleware.NewBuddyRequestRateLimiter(nil, 1, time.Hour, zap.NewNop())
	assert.False(t, limiter.Enabled())

	router := limitedRouter(limiter, uuid.New())
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/buddies/requests", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	limiter := middleware.NewBuddyRequestRateLimiter(client, 2, time.Hour, zap.NewNop())
	userID := uuid.New()
	router := limitedRouter(limiter, userID)

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/buddies/requests", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	remaining, _, err := limiter.GetRemainingRequests(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Zero(t, remaining)

	other := limitedRouter(limiter, uuid.New())
	w := httptest.NewRecorder()
	other.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/buddies/requests", nil))
	assert.Equal(t, http.StatusCreated, w.Code, "limits are per user")
}
