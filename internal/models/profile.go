package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public face of a user. ID equals the owning user's ID.
//
// Username stays empty until onboarding, so uniqueness only applies to
// non-empty values.
type Profile struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Username  string    `gorm:"size:15;not null;default:'';uniqueIndex:idx_profiles_username,where:username <> ''" json:"username"`
	Bio       string    `gorm:"type:text" json:"bio"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasUsername reports whether onboarding has been completed.
func (p *Profile) HasUsername() bool {
	return p.Username != ""
}
