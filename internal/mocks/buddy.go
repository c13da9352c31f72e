package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/types"
)

type MockBuddyService struct {
	mock.Mock
}

func (m *MockBuddyService) ResolveBuddySet(ctx context.Context, viewerID uuid.UUID) (types.BuddySet, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).(types.BuddySet), args.Error(1)
}

func (m *MockBuddyService) SendRequest(ctx context.Context, fromID, toID uuid.UUID) (*models.Buddy, error) {
	args := m.Called(ctx, fromID, toID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Buddy), args.Error(1)
}

func (m *MockBuddyService) RespondToRequest(ctx context.Context, viewerID, requestID uuid.UUID, response string) (*models.Buddy, error) {
	args := m.Called(ctx, viewerID, requestID, response)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Buddy), args.Error(1)
}

func (m *MockBuddyService) RemoveRelationship(ctx context.Context, viewerID, relationshipID uuid.UUID) error {
	return m.Called(ctx, viewerID, relationshipID).Error(0)
}

func (m *MockBuddyService) ListRelationships(ctx context.Context, viewerID uuid.UUID) (*types.RelationshipList, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RelationshipList), args.Error(1)
}
