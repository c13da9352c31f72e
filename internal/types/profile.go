package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/nuhm/bitnap/backend/internal/models"
)

// SetUsernameRequest completes onboarding.
type SetUsernameRequest struct {
	Username  string `json:"username" validate:"required"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// UpdateProfileRequest represents a request to update a user's profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,max=2048"`
}

// ProfileSummary is the part of a profile shown next to other content.
type ProfileSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
}

// Summarize trims a profile down to its display fields.
func Summarize(p *models.Profile) ProfileSummary {
	return ProfileSummary{ID: p.ID, Username: p.Username, AvatarURL: p.AvatarURL}
}

// ProfileView is another user's profile as seen by the viewer.
type ProfileView struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Bio          string    `json:"bio"`
	AvatarURL    string    `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	Relationship string    `json:"relationship"`
}
