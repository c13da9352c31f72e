package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	SignUp(ctx context.Context, req *types.SignUpRequest) (*types.AuthResponse, error)
	SignIn(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	SignOut(ctx context.Context, claims *types.TokenClaims) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, req *types.ChangePasswordRequest) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	EnsureProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	SetUsername(ctx context.Context, userID uuid.UUID, req *types.SetUsernameRequest) (*models.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	ViewProfile(ctx context.Context, viewerID, profileID uuid.UUID) (*types.ProfileView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, body io.Reader, size int64) (*models.Profile, error)
	SearchProfiles(ctx context.Context, viewerID uuid.UUID, query string) ([]types.ProfileView, error)
}

// BuddySetResolver derives a viewer's relationships.
type BuddySetResolver interface {
	ResolveBuddySet(ctx context.Context, viewerID uuid.UUID) (types.BuddySet, error)
}

// IBuddyService defines the buddy relationship lifecycle
type IBuddyService interface {
	BuddySetResolver
	SendRequest(ctx context.Context, fromID, toID uuid.UUID) (*models.Buddy, error)
	RespondToRequest(ctx context.Context, viewerID, requestID uuid.UUID, response string) (*models.Buddy, error)
	RemoveRelationship(ctx context.Context, viewerID, relationshipID uuid.UUID) error
	ListRelationships(ctx context.Context, viewerID uuid.UUID) (*types.RelationshipList, error)
}

// IFeedService composes what a viewer gets to read
type IFeedService interface {
	ComposeFeed(ctx context.Context, viewerID uuid.UUID, page types.Page) ([]types.FeedItem, error)
	Timeline(ctx context.Context, viewerID uuid.UUID, query string) ([]models.JournalEntry, error)
}

// IJournalService defines journal entry operations
type IJournalService interface {
	CreateEntry(ctx context.Context, ownerID uuid.UUID, req *types.CreateJournalRequest) (*models.JournalEntry, error)
	GetEntry(ctx context.Context, viewerID, entryID uuid.UUID) (*types.FeedItem, error)
}

// IDraftService keeps the unsaved journal form per user
type IDraftService interface {
	SaveDraft(ctx context.Context, userID uuid.UUID, d types.JournalDraft) error
	FlushDraft(ctx context.Context, userID uuid.UUID) error
	LoadDraft(ctx context.Context, userID uuid.UUID) (*types.DraftResponse, error)
	ClearDraft(ctx context.Context, userID uuid.UUID) error
}
