package types

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nuhm/bitnap/backend/internal/models"
)

// IDSet is a set of user ids. It marshals as a sorted JSON array.
type IDSet map[uuid.UUID]struct{}

func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s IDSet) Add(id uuid.UUID) { s[id] = struct{}{} }

func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the members ordered by their string form.
func (s IDSet) Slice() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// BuddySet partitions every relationship a viewer is part of.
type BuddySet struct {
	Accepted        IDSet `json:"accepted"`
	PendingSent     IDSet `json:"pending_sent"`
	PendingReceived IDSet `json:"pending_received"`
}

func NewBuddySet() BuddySet {
	return BuddySet{
		Accepted:        NewIDSet(),
		PendingSent:     NewIDSet(),
		PendingReceived: NewIDSet(),
	}
}

// Relationship labels used in profile views.
const (
	RelationshipSelf            = "self"
	RelationshipNone            = "none"
	RelationshipBuddy           = "buddy"
	RelationshipPendingSent     = "pending_sent"
	RelationshipPendingReceived = "pending_received"
)

// RelationshipTo describes how other relates to the set's viewer.
func (b BuddySet) RelationshipTo(viewer, other uuid.UUID) string {
	switch {
	case viewer == other:
		return RelationshipSelf
	case b.Accepted.Has(other):
		return RelationshipBuddy
	case b.PendingSent.Has(other):
		return RelationshipPendingSent
	case b.PendingReceived.Has(other):
		return RelationshipPendingReceived
	default:
		return RelationshipNone
	}
}

// Relationship directions from the viewer's side.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// RelationshipView is one relationship row joined with the other party's profile.
type RelationshipView struct {
	ID        uuid.UUID          `json:"id"`
	Status    models.BuddyStatus `json:"status"`
	Direction string             `json:"direction"`
	Other     ProfileSummary     `json:"other"`
	CreatedAt time.Time          `json:"created_at"`
}

// RelationshipList is the buddies screen payload.
type RelationshipList struct {
	Set           BuddySet           `json:"set"`
	Relationships []RelationshipView `json:"relationships"`
}
