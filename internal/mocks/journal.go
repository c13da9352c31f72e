package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/types"
)

type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) ComposeFeed(ctx context.Context, viewerID uuid.UUID, page types.Page) ([]types.FeedItem, error) {
	args := m.Called(ctx, viewerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FeedItem), args.Error(1)
}

func (m *MockFeedService) Timeline(ctx context.Context, viewerID uuid.UUID, query string) ([]models.JournalEntry, error) {
	args := m.Called(ctx, viewerID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JournalEntry), args.Error(1)
}

type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) CreateEntry(ctx context.Context, ownerID uuid.UUID, req *types.CreateJournalRequest) (*models.JournalEntry, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntry(ctx context.Context, viewerID, entryID uuid.UUID) (*types.FeedItem, error) {
	args := m.Called(ctx, viewerID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedItem), args.Error(1)
}

type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) SaveDraft(ctx context.Context, userID uuid.UUID, d types.JournalDraft) error {
	return m.Called(ctx, userID, d).Error(0)
}

func (m *MockDraftService) FlushDraft(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockDraftService) LoadDraft(ctx context.Context, userID uuid.UUID) (*types.DraftResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DraftResponse), args.Error(1)
}

func (m *MockDraftService) ClearDraft(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
