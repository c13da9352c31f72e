package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/types"
)

// MockProfileService is a mock implementation of the ProfileService interface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) profile(args mock.Arguments) (*models.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) EnsureProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID))
}

func (m *MockProfileService) SetUsername(ctx context.Context, userID uuid.UUID, req *types.SetUsernameRequest) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, req))
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID))
}

func (m *MockProfileService) ViewProfile(ctx context.Context, viewerID, profileID uuid.UUID) (*types.ProfileView, error) {
	args := m.Called(ctx, viewerID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProfileView), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, req))
}

// UploadAvatar records the body length rather than the reader.
func (m *MockProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, body io.Reader, size int64) (*models.Profile, error) {
	return m.profile(m.Called(ctx, userID, filename, size))
}

func (m *MockProfileService) SearchProfiles(ctx context.Context, viewerID uuid.UUID, query string) ([]types.ProfileView, error) {
	args := m.Called(ctx, viewerID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ProfileView), args.Error(1)
}
