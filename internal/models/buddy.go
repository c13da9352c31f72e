package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BuddyStatus is the lifecycle state of a buddy relationship row.
type BuddyStatus string

const (
	BuddyStatusPending  BuddyStatus = "pending"
	BuddyStatusAccepted BuddyStatus = "accepted"
)

// Buddy is a relationship between two users. It is stored directionally
// (UserID sent the request to BuddyID) but means the same thing from both
// sides. PairKey holds the unordered pair so storage allows one row per pair.
type Buddy struct {
	ID        uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:varchar(36);not null;index" json:"user_id"`
	BuddyID   uuid.UUID   `gorm:"type:varchar(36);not null;index" json:"buddy_id"`
	Status    BuddyStatus `gorm:"size:16;not null;default:'pending'" json:"status"`
	PairKey   string      `gorm:"size:73;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// BeforeCreate assigns an ID and the canonical pair key.
func (b *Buddy) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.PairKey = PairKey(b.UserID, b.BuddyID)
	return nil
}

// Other returns the party that is not viewer.
func (b *Buddy) Other(viewer uuid.UUID) uuid.UUID {
	if b.UserID == viewer {
		return b.BuddyID
	}
	return b.UserID
}

// Involves reports whether id is either side of the relationship.
func (b *Buddy) Involves(id uuid.UUID) bool {
	return b.UserID == id || b.BuddyID == id
}

// PairKey orders two ids so (a,b) and (b,a) produce the same key.
func PairKey(a, b uuid.UUID) string {
	as, bs := a.String(), b.String()
	if as > bs {
		as, bs = bs, as
	}
	return as + ":" + bs
}
