package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/api"
	"github.com/nuhm/bitnap/backend/internal/database"
	"github.com/nuhm/bitnap/backend/internal/mocks"
	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/types"
)

// newMockedRouter authenticates the token "tok" as userID and routes every
// service call to the returned mocks.
func newMockedRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, *mocks.MockBuddyService, *mocks.MockAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := &mocks.MockAuthService{}
	auth.On("ValidateToken", mock.Anything, "tok").Return(&types.TokenClaims{UserID: userID}, nil)
	buddies := &mocks.MockBuddyService{}

	router := gin.New()
	api.RegisterRoutes(router, api.Dependencies{
		Auth:     auth,
		Profiles: &mocks.MockProfileService{},
		Buddies:  buddies,
		Feed:     &mocks.MockFeedService{},
		Journals: &mocks.MockJournalService{},
		Drafts:   &mocks.MockDraftService{},
		Logger:   zap.NewNop(),
	})
	return router, buddies, auth
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &service.ValidationError{Fields: []string{"Buddy"}, Message: "Please choose someone to add"}, http.StatusBadRequest, "Please choose someone to add"},
		{"self", service.ErrSelfRequest, http.StatusBadRequest, service.ErrSelfRequest.Error()},
		{"not found", service.ErrNotFound, http.StatusNotFound, service.ErrNotFound.Error()},
		{"already buddies", service.ErrAlreadyBuddies, http.StatusConflict, service.ErrAlreadyBuddies.Error()},
		{"request exists", service.ErrRequestExists, http.StatusConflict, service.ErrRequestExists.Error()},
		{"unreachable", fmt.Errorf("%w: dial tcp", database.ErrUnreachable), http.StatusServiceUnavailable, "We're having trouble reaching our servers. Please try again in a moment."},
		{"unexpected", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			me := uuid.New()
			router, buddies, _ := newMockedRouter(t, me)
			buddies.On("ListRelationships", mock.Anything, me).Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/buddies", nil)
			req.Header.Set("Authorization", "Bearer tok")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			body := decode[errorBody](t, w)
			assert.Equal(t, tt.message, body.Error)
			buddies.AssertExpectations(t)
		})
	}
}

func TestRevokedTokenIsRejectedBeforeHandlers(t *testing.T) {
	router, buddies, auth := newMockedRouter(t, uuid.New())
	auth.On("ValidateToken", mock.Anything, "old").Return(nil, service.ErrTokenRevoked)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buddies", nil)
	req.Header.Set("Authorization", "Bearer old")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	buddies.AssertNotCalled(t, "ListRelationships", mock.Anything, mock.Anything)
}
