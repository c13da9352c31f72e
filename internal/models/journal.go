package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visibility controls who besides the owner may read an entry.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityBuddies Visibility = "buddies"
)

// DefaultDreamType is applied when an entry is created without a type.
const DefaultDreamType = "Standard"

// DreamTypes are the values offered by the entry form. The column itself is free text.
var DreamTypes = []string{"Standard", "Nightmare", "Lucid", "Daydream", "Other"}

// JournalEntry is a dream journal entry. Entries are append-only.
type JournalEntry struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title          string     `gorm:"size:50;not null" json:"title"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	DreamType      string     `gorm:"size:32;not null" json:"dream_type"`
	Date           time.Time  `gorm:"not null;index" json:"date"`
	Tags           string     `gorm:"type:text" json:"tags"`
	SleepTime      *time.Time `json:"sleep_time,omitempty"`
	WakeTime       *time.Time `json:"wake_time,omitempty"`
	SleepQuality   int        `gorm:"not null;default:0" json:"sleep_quality"`
	MoodBefore     string     `gorm:"size:16" json:"mood_before"`
	MoodAfter      string     `gorm:"size:16" json:"mood_after"`
	Feelings       string     `gorm:"size:200" json:"feelings"`
	Interpretation string     `gorm:"size:200" json:"interpretation"`
	Visibility     Visibility `gorm:"size:16;not null;default:'private';index" json:"visibility"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

// TableName keeps the table name used by the mobile client.
func (JournalEntry) TableName() string {
	return "journals"
}

func (j *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// TagList splits the stored comma-joined tags.
func (j *JournalEntry) TagList() []string {
	return SplitTags(j.Tags)
}

// SplitTags trims, drops empties and de-duplicates a comma-joined tag string,
// keeping first-seen order.
func SplitTags(s string) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, raw := range strings.Split(s, ",") {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags normalises tags and joins them for storage.
func JoinTags(tags []string) string {
	return strings.Join(SplitTags(strings.Join(tags, ",")), ",")
}
