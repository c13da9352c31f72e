package service

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrSelfRequest        = errors.New("you cannot send a buddy request to yourself")
	ErrAlreadyBuddies     = errors.New("you are already buddies")
	ErrRequestExists      = errors.New("a buddy request between you already exists")
	ErrNotPending         = errors.New("buddy request is no longer pending")
)

// ValidationError lists the fields a request got wrong. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(message string, fields ...string) error {
	return &ValidationError{Fields: fields, Message: message}
}

func missingFields(fields ...string) error {
	return &ValidationError{
		Fields:  fields,
		Message: "Please fill in the following: " + strings.Join(fields, ", "),
	}
}
