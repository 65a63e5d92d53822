package decorators

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

const keyPrefix = "weather:"

type weatherGetterService interface {
	GetByCity(ctx context.Context, city string) (models.WeatherData, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

// CachedService serves repeated lookups for the same city from the cache.
// Only successful readings are stored.
type CachedService struct {
	inner  weatherGetterService
	cache  cacheClient[models.WeatherData]
	logger zerolog.Logger
}

func NewCachedService(
	inner weatherGetterService,
	cache cacheClient[models.WeatherData],
	logger zerolog.Logger,
) *CachedService {
	logger = logger.With().Str("component", "CachedWeatherService").Logger()
	return &CachedService{inner: inner, cache: cache, logger: logger}
}

func Key(city string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(city))
}

func (s *CachedService) GetByCity(ctx context.Context, city string) (models.WeatherData, error) {
	key := Key(city)

	if weather, err := s.cache.Get(ctx, key); err == nil {
		s.logger.Debug().Ctx(ctx).Str("key", key).Msg("cache hit")
		return weather, nil
	}

	weather, err := s.inner.GetByCity(ctx, city)
	if err != nil {
		return models.WeatherData{}, err
	}

	if err := s.cache.Set(ctx, key, weather); err != nil {
		s.logger.Warn().Ctx(ctx).Str("key", key).Err(err).Msg("cache set failed")
	}
	return weather, nil
}
