package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/config"
	"github.com/nuhm/bitnap/backend/internal/api"
	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:  "127.0.0.1",
		ServerPort:  "0",
		JWTSecret:   "test-secret",
		CORSOrigins: []string{"https://app.bitnap.test"},
	}
}

func TestNew(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	auth := service.NewAuthService(db, "test-secret", time.Hour, nil, "", zap.NewNop())
	server := New(testConfig(), api.Dependencies{Auth: auth, DB: sqlDB, ProbeTimeout: time.Second}, zap.NewNop())
	require.NotNil(t, server)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.bitnap.test")
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "https://app.bitnap.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartStopsOnCancel(t *testing.T) {
	server := New(testConfig(), api.Dependencies{}, zap.NewNop())

	var flushed bool
	server.OnShutdown(func(context.Context) error {
		flushed = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, flushed)
}

func TestStopReportsHookErrors(t *testing.T) {
	server := New(testConfig(), api.Dependencies{}, zap.NewNop())
	boom := errors.New("flush failed")
	server.OnShutdown(func(context.Context) error { return boom })

	assert.ErrorIs(t, server.Stop(context.Background()), boom)
}
