package types

import "github.com/nuhm/bitnap/backend/internal/models"

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Page selects a window of a result list.
type Page struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// FeedItem is a journal entry paired with its owner's display fields.
type FeedItem struct {
	models.JournalEntry
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}
