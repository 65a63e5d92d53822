package weather

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

// Service is the entry point used by handlers and the notifier.
type Service struct {
	client client
	logger zerolog.Logger
	m      *metrics.Metrics
}

func NewService(c client, logger zerolog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		client: c,
		logger: logger.With().Str("component", "WeatherService").Logger(),
		m:      m,
	}
}

func (s *Service) GetByCity(ctx context.Context, city string) (models.WeatherData, error) {
	start := time.Now()
	data, err := s.client.Fetch(ctx, city)
	result := resultLabel(err)
	s.m.WeatherRequests.WithLabelValues(result).Inc()

	if err != nil {
		if isOutage(err) || errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrAuthFailed) {
			s.m.TechnicalErrors.WithLabelValues("weather_"+result, "critical").Inc()
		} else {
			s.m.BusinessErrors.WithLabelValues("weather_"+result, "warning").Inc()
		}
		s.logger.Warn().Ctx(ctx).Err(err).Str("city", city).Dur("duration", time.Since(start)).
			Msg("weather lookup failed")
		return models.WeatherData{}, err
	}

	s.logger.Debug().Ctx(ctx).Str("city", city).Dur("duration", time.Since(start)).Msg("weather lookup done")
	return data, nil
}

func resultLabel(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrCityNotFound):
		return "city_not_found"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrAuthFailed):
		return "auth_failed"
	case errors.Is(err, ErrBadResponse):
		return "bad_response"
	case errors.As(err, &se):
		return "status_" + strconv.Itoa(se.StatusCode)
	default:
		return "unavailable"
	}
}
