package weather

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured  = errors.New("weather service is not configured")
	ErrCityNotFound   = errors.New("city not found by weather provider")
	ErrInvalidRequest = errors.New("invalid request to weather provider")
	ErrAuthFailed     = errors.New("weather provider authentication failed")
	ErrUnavailable    = errors.New("weather provider unavailable")
	ErrBadResponse    = errors.New("malformed weather provider response")
)

// StatusError carries an upstream status code that has no dedicated mapping.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather provider returned status %d", e.StatusCode)
}
