package service

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,15}$`)

// fieldLabels maps struct fields to the names the app shows users.
var fieldLabels = map[string]string{
	"Title":           "Title",
	"Content":         "Contents",
	"Date":            "Date",
	"DreamType":       "Type",
	"Email":           "Email",
	"Password":        "Password",
	"ConfirmPassword": "Confirm Password",
	"CurrentPassword": "Current Password",
	"NewPassword":     "New Password",
	"Username":        "Username",
	"BuddyID":         "Buddy",
	"Response":        "Response",
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// validateStruct runs the struct tags and turns failures into a ValidationError.
// Missing required fields are reported together; otherwise the first problem wins.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, label(fe.Field()))
		}
	}
	if len(missing) > 0 {
		return missingFields(missing...)
	}

	fe := verrs[0]
	name := label(fe.Field())
	switch fe.Tag() {
	case "max":
		return invalid(fmt.Sprintf("%s must be at most %s characters", name, fe.Param()), name)
	case "min":
		return invalid(fmt.Sprintf("%s must be at least %s characters", name, fe.Param()), name)
	case "email":
		return invalid("Please enter a valid email address", name)
	case "oneof":
		return invalid(fmt.Sprintf("%s must be one of: %s", name, fe.Param()), name)
	case "gte", "lte":
		return invalid(fmt.Sprintf("%s is out of range", name), name)
	default:
		return invalid(fmt.Sprintf("%s is invalid", name), name)
	}
}

// ValidateUsername checks the 3 to 15 letters, digits or underscores rule.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return invalid("Username must be 3-15 characters and contain only letters, numbers and underscores", "Username")
	}
	return nil
}

// PasswordStrength is the meter shown while choosing a new password.
type PasswordStrength struct {
	Level int    `json:"level"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var (
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// ScorePassword rates a password from 0 to 100. Length gates the first two
// levels; after that each character class adds 15 to a base of 40.
func ScorePassword(password string) PasswordStrength {
	switch n := len([]rune(password)); {
	case n == 0:
		return PasswordStrength{Level: 0}
	case n < 6:
		return PasswordStrength{Level: 20, Label: "Too Short", Color: "#ff4444"}
	case n < 8:
		return PasswordStrength{Level: 40, Label: "Weak", Color: "#ff8800"}
	}

	score := 40
	for _, re := range []*regexp.Regexp{hasLower, hasUpper, hasDigit, hasSpecial} {
		if re.MatchString(password) {
			score += 15
		}
	}

	switch {
	case score < 60:
		return PasswordStrength{Level: score, Label: "Fair", Color: "#ffaa00"}
	case score < 85:
		return PasswordStrength{Level: score, Label: "Good", Color: "#88cc00"}
	default:
		return PasswordStrength{Level: 100, Label: "Strong", Color: "#00cc44"}
	}
}
