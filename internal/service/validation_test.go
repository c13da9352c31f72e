package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nuhm/bitnap/backend/internal/service"
)

func TestScorePassword(t *testing.T) {
	tests := []struct {
		password string
		level    int
		label    string
	}{
		{"", 0, ""},
		{"abc", 20, "Too Short"},
		{"abcdef", 40, "Weak"},
		{"abcdefgh", 55, "Fair"},
		{"abcdEFGH", 70, "Good"},
		{"abcdEF12", 100, "Strong"},
		{"abcD12!x", 100, "Strong"},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			got := service.ScorePassword(tt.password)
			assert.Equal(t, tt.level, got.Level)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"abc", "dream_walker", "A1_b2_C3_d4_E5_"} {
		assert.NoError(t, service.ValidateUsername(ok), ok)
	}
	for _, bad := range []string{"", "ab", "has space", "emoji😴", "sixteen_chars_xx"} {
		assert.ErrorIs(t, service.ValidateUsername(bad), service.ErrValidation, bad)
	}
}
