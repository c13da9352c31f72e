package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/internal/models"
)

// TestPassword is the password of every user created by CreateUser.
const TestPassword = "dreamer123"

// CreateUser inserts a user with an onboarded profile.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.Profile {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		ID:           uuid.New(),
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}

	profile := models.Profile{
		ID:        user.ID,
		Username:  username,
		AvatarURL: "https://example.com/" + username + ".png",
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile %s: %v", username, err)
	}
	return &profile
}

// Relate inserts a relationship row from requester to recipient.
func Relate(t *testing.T, db *gorm.DB, requester, recipient uuid.UUID, status models.BuddyStatus) *models.Buddy {
	t.Helper()

	rel := models.Buddy{UserID: requester, BuddyID: recipient, Status: status}
	if err := db.Create(&rel).Error; err != nil {
		t.Fatalf("failed to create relationship: %v", err)
	}
	return &rel
}

// CreateEntry inserts a journal entry with the given visibility and creation time.
func CreateEntry(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, visibility models.Visibility, createdAt time.Time) *models.JournalEntry {
	t.Helper()

	entry := models.JournalEntry{
		UserID:     owner,
		Title:      title,
		Content:    "I was " + title,
		DreamType:  models.DefaultDreamType,
		Date:       createdAt.Truncate(24 * time.Hour),
		Visibility: visibility,
		CreatedAt:  createdAt,
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}
	return &entry
}
