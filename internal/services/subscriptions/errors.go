package subscriptions

import (
	"errors"
	"strings"
)

var (
	ErrDuplicateEmail  = errors.New("email already subscribed")
	ErrTokenGeneration = errors.New("could not generate subscription tokens")
	ErrTokenEmpty      = errors.New("token cannot be empty")
	ErrTokenNotFound   = errors.New("token not found")
)

// ValidationError lists every field violation as "<field>: <message>".
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// DuplicateEmailError reports whether the existing subscription is already active.
type DuplicateEmailError struct {
	Confirmed bool
}

func (e *DuplicateEmailError) Error() string {
	if e.Confirmed {
		return "email already subscribed and confirmed"
	}
	return "email already has a pending subscription"
}

func (e *DuplicateEmailError) Is(target error) bool {
	return target == ErrDuplicateEmail
}
