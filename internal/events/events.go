// Package events publishes domain events so other services (push
// notifications, activity digests) can react to buddy and journal activity.
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	BuddyRequested = "buddy.requested"
	BuddyAccepted  = "buddy.accepted"
	BuddyDeclined  = "buddy.declined"
	BuddyRemoved   = "buddy.removed"
	JournalCreated = "journal.created"
)

// BuddyEvent describes a change to a buddy relationship. ActorID is the user
// who caused it.
type BuddyEvent struct {
	RelationshipID uuid.UUID `json:"relationship_id"`
	RequesterID    uuid.UUID `json:"requester_id"`
	RecipientID    uuid.UUID `json:"recipient_id"`
	ActorID        uuid.UUID `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// JournalCreatedEvent announces a new entry. Only ids and visibility are
// published, never the dream itself.
type JournalCreatedEvent struct {
	EntryID    uuid.UUID `json:"entry_id"`
	UserID     uuid.UUID `json:"user_id"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}
