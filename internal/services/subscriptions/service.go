package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/repository/database"
	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

type ConfirmResult int

const (
	Confirmed ConfirmResult = iota + 1
	AlreadyConfirmed
)

type subscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	GetByEmail(ctx context.Context, email string) (models.Subscription, error)
	GetByConfirmationToken(ctx context.Context, token string) (models.Subscription, error)
	GetByUnsubscribeToken(ctx context.Context, token string) (models.Subscription, error)
	Update(ctx context.Context, sub models.Subscription) error
	Delete(ctx context.Context, id int64) error
}

type confirmationEmailer interface {
	SendConfirmation(ctx context.Context, to, city, confirmURL string) error
}

type Option func(*Service)

func WithTokenFunc(f TokenFunc) Option {
	return func(s *Service) { s.newToken = f }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service owns the subscription lifecycle: subscribe, confirm, unsubscribe.
type Service struct {
	repo      subscriptionRepository
	emailer   confirmationEmailer
	baseURL   string
	validator *validator.Validate
	newToken  TokenFunc
	now       func() time.Time
	logger    zerolog.Logger
	m         *metrics.Metrics
}

// NewService builds the service. baseURL is the public origin used in confirmation links.
func NewService(
	repo subscriptionRepository,
	emailer confirmationEmailer,
	baseURL string,
	logger zerolog.Logger,
	m *metrics.Metrics,
	opts ...Option,
) *Service {
	s := &Service{
		repo:      repo,
		emailer:   emailer,
		baseURL:   baseURL,
		validator: newValidator(),
		newToken:  RandomToken,
		now:       time.Now,
		logger:    logger.With().Str("component", "SubscriptionService").Logger(),
		m:         m,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe rejects an email that already has a subscription before looking
// at the remaining fields.
func (s *Service) Subscribe(ctx context.Context, req models.SubscribeRequest) error {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		s.m.BusinessErrors.WithLabelValues("duplicate_email", "warning").Inc()
		return &DuplicateEmailError{Confirmed: existing.Confirmed}
	case !errors.Is(err, database.ErrNotFound):
		return fmt.Errorf("lookup by email: %w", err)
	}

	confirmToken, unsubToken, err := s.tokens()
	if err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Msg("failed to generate secure tokens")
		s.m.TechnicalErrors.WithLabelValues("token_generation", "critical").Inc()
		return fmt.Errorf("%w: %w", ErrTokenGeneration, err)
	}

	if err := s.validate(req); err != nil {
		s.m.BusinessErrors.WithLabelValues("validation_failed", "warning").Inc()
		return err
	}

	freq := models.Frequency(req.Frequency)
	sub := models.NewSubscription(req.Email, req.City, freq, confirmToken, unsubToken, s.now())
	if err := s.repo.Create(ctx, &sub); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			s.m.BusinessErrors.WithLabelValues("duplicate_email", "warning").Inc()
			return &DuplicateEmailError{Confirmed: false}
		}
		return fmt.Errorf("create subscription: %w", err)
	}
	s.m.SubscriptionsCreated.WithLabelValues(string(freq)).Inc()

	confirmURL := s.baseURL + "/api/confirm/" + confirmToken
	if err := s.emailer.SendConfirmation(ctx, sub.Email, sub.City, confirmURL); err != nil {
		s.logger.Error().Ctx(ctx).Err(err).
			Str("email", logger.RedactEmail(sub.Email)).
			Msg("failed to send confirmation email")
	} else {
		s.logger.Info().Ctx(ctx).
			Str("email", logger.RedactEmail(sub.Email)).
			Str("city", sub.City).
			Msg("confirmation email sent")
	}

	s.logger.Info().Ctx(ctx).
		Int64("subscription_id", sub.ID).
		Str("city", sub.City).
		Str("frequency", string(freq)).
		Msg("new subscription created")
	return nil
}

func (s *Service) tokens() (string, string, error) {
	confirmToken, err := s.newToken()
	if err != nil {
		return "", "", err
	}
	unsubToken, err := s.newToken()
	if err != nil {
		return "", "", err
	}
	return confirmToken, unsubToken, nil
}

func (s *Service) Confirm(ctx context.Context, token string) (ConfirmResult, error) {
	if token == "" {
		return 0, ErrTokenEmpty
	}

	sub, err := s.repo.GetByConfirmationToken(ctx, token)
	if errors.Is(err, database.ErrNotFound) {
		s.m.BusinessErrors.WithLabelValues("confirm_token_not_found", "warning").Inc()
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup by confirmation token: %w", err)
	}

	if sub.Confirmed {
		return AlreadyConfirmed, nil
	}

	sub.Confirm(s.now())
	if err := s.repo.Update(ctx, sub); err != nil {
		return 0, fmt.Errorf("confirm subscription: %w", err)
	}
	s.m.SubscriptionsConfirmed.Inc()

	s.logger.Info().Ctx(ctx).
		Int64("subscription_id", sub.ID).
		Str("email", logger.RedactEmail(sub.Email)).
		Msg("subscription confirmed")
	return Confirmed, nil
}

func (s *Service) Unsubscribe(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenEmpty
	}

	sub, err := s.repo.GetByUnsubscribeToken(ctx, token)
	if errors.Is(err, database.ErrNotFound) {
		s.m.BusinessErrors.WithLabelValues("unsubscribe_token_not_found", "warning").Inc()
		return ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup by unsubscribe token: %w", err)
	}

	if err := s.repo.Delete(ctx, sub.ID); err != nil {
		// Removed concurrently between lookup and delete.
		if errors.Is(err, database.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("delete subscription: %w", err)
	}
	s.m.SubscriptionsCanceled.Inc()

	s.logger.Info().Ctx(ctx).
		Int64("subscription_id", sub.ID).
		Str("email", logger.RedactEmail(sub.Email)).
		Msg("subscription removed")
	return nil
}
