package types

import (
	"strings"
	"time"
)

// JournalDraft is the unsaved state of the entry form. Every field is optional.
type JournalDraft struct {
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	DreamType      string     `json:"dream_type"`
	Date           string     `json:"date"`
	Tags           []string   `json:"tags,omitempty"`
	SleepTime      *time.Time `json:"sleep_time,omitempty"`
	WakeTime       *time.Time `json:"wake_time,omitempty"`
	SleepQuality   int        `json:"sleep_quality"`
	MoodBefore     string     `json:"mood_before"`
	MoodAfter      string     `json:"mood_after"`
	Feelings       string     `json:"feelings"`
	Interpretation string     `json:"interpretation"`
	Visibility     string     `json:"visibility"`
}

// HasContent reports whether the draft holds any text worth keeping.
// Picking a date or mood alone does not count.
func (d JournalDraft) HasContent() bool {
	for _, s := range []string{d.Title, d.Content, d.Interpretation, d.Feelings} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// DraftResponse is a stored draft with the time it was last persisted.
type DraftResponse struct {
	Draft   JournalDraft `json:"draft"`
	SavedAt time.Time    `json:"saved_at"`
}
