package types

import (
	"time"
)

// SignUpRequest represents the request body for creating an account
type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token         string         `json:"token"`
	ExpiresAt     time.Time      `json:"expires_at"`
	Profile       ProfileSummary `json:"profile"`
	NeedsUsername bool           `json:"needs_username"`
}

// CreateJournalRequest represents the request body for creating a journal entry.
// Date accepts either YYYY-MM-DD or RFC 3339.
type CreateJournalRequest struct {
	Title          string     `json:"title" validate:"required,max=50"`
	Content        string     `json:"content" validate:"required,max=1000"`
	DreamType      string     `json:"dream_type" validate:"omitempty,max=32"`
	Date           string     `json:"date" validate:"required"`
	Tags           []string   `json:"tags"`
	SleepTime      *time.Time `json:"sleep_time,omitempty"`
	WakeTime       *time.Time `json:"wake_time,omitempty"`
	SleepQuality   int        `json:"sleep_quality" validate:"gte=0,lte=5"`
	MoodBefore     string     `json:"mood_before" validate:"max=16"`
	MoodAfter      string     `json:"mood_after" validate:"max=16"`
	Feelings       string     `json:"feelings" validate:"max=200"`
	Interpretation string     `json:"interpretation" validate:"max=200"`
	Visibility     string     `json:"visibility" validate:"omitempty,oneof=private buddies"`
}

// SendBuddyRequest names the recipient of a buddy request.
type SendBuddyRequest struct {
	BuddyID string `json:"buddy_id" validate:"required,uuid"`
}

// RespondBuddyRequest answers a pending request.
type RespondBuddyRequest struct {
	Response string `json:"response" validate:"required,oneof=accept decline"`
}
