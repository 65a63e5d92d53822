package models

import (
	"errors"
	"time"
)

type Frequency string

const (
	FrequencyHourly Frequency = "hourly"
	FrequencyDaily  Frequency = "daily"
)

var ErrInvalidFrequency = errors.New(`invalid frequency, use "hourly" or "daily"`)

// Frequencies lists every supported dispatch cadence.
var Frequencies = []Frequency{FrequencyHourly, FrequencyDaily}

func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case FrequencyHourly, FrequencyDaily:
		return f, nil
	default:
		return "", ErrInvalidFrequency
	}
}

// Subscription is a pending (Confirmed=false, ConfirmationToken set) or
// active (Confirmed=true, ConfirmationToken nil) weather subscription.
type Subscription struct {
	ID                int64
	Email             string
	City              string
	Frequency         Frequency
	ConfirmationToken *string
	UnsubscribeToken  *string
	Confirmed         bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

func NewSubscription(email, city string, freq Frequency, confirmToken, unsubToken string, now time.Time) Subscription {
	return Subscription{
		Email:             email,
		City:              city,
		Frequency:         freq,
		ConfirmationToken: &confirmToken,
		UnsubscribeToken:  &unsubToken,
		CreatedAt:         now,
	}
}

// Touch records a mutation time.
func (s *Subscription) Touch(now time.Time) {
	s.UpdatedAt = &now
}

// Confirm activates the subscription and consumes its confirmation token.
func (s *Subscription) Confirm(now time.Time) {
	s.Touch(now)
	s.Confirmed = true
	s.ConfirmationToken = nil
}

// SubscribeRequest is the body of POST /api/subscribe, either JSON or form encoded.
type SubscribeRequest struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	City      string `json:"city" form:"city" validate:"required,singleline"`
	Frequency string `json:"frequency" form:"frequency" validate:"required,oneof=hourly daily"`
}
