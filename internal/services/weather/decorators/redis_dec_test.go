//go:build unit

package decorators_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/services/cache"
	"github.com/Nazarious-ucu/weather-updates/internal/services/weather"
	"github.com/Nazarious-ucu/weather-updates/internal/services/weather/decorators"
)

type mockWeather struct {
	mock.Mock
}

func (m *mockWeather) GetByCity(ctx context.Context, city string) (models.WeatherData, error) {
	args := m.Called(ctx, city)
	data, ok := args.Get(0).(models.WeatherData)
	if !ok {
		return models.WeatherData{}, args.Error(1)
	}
	return data, args.Error(1)
}

func setup(t *testing.T) (*miniredis.Miniredis, *mockWeather, *decorators.CachedService, *metrics.Metrics) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	m := metrics.NewMetrics("cache_test")
	store := cache.NewMetricsDecorator[models.WeatherData](
		cache.NewRedisClient[models.WeatherData](rdb, zerolog.Nop(), time.Minute), m)

	inner := &mockWeather{}
	t.Cleanup(func() { inner.AssertExpectations(t) })
	return mr, inner, decorators.NewCachedService(inner, store, zerolog.Nop()), m
}

func TestCachedService_SecondCallHitsCache(t *testing.T) {
	mr, inner, svc, m := setup(t)

	temp, desc := 12.0, "Cloudy"
	inner.On("GetByCity", mock.Anything, "London").
		Return(models.WeatherData{Temperature: &temp, Description: &desc}, nil).Once()

	first, err := svc.GetByCity(context.Background(), "London")
	require.NoError(t, err)
	second, err := svc.GetByCity(context.Background(), " london ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Nil(t, second.Humidity)
	assert.True(t, mr.Exists("weather:london"))
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheRequests.WithLabelValues("get", "miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheRequests.WithLabelValues("get", "hit")), 0)
}

func TestCachedService_ErrorsAreNotCached(t *testing.T) {
	mr, inner, svc, _ := setup(t)

	inner.On("GetByCity", mock.Anything, "Atlantis").
		Return(models.WeatherData{}, weather.ErrCityNotFound).Twice()

	for i := 0; i < 2; i++ {
		_, err := svc.GetByCity(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, weather.ErrCityNotFound)
	}
	assert.False(t, mr.Exists("weather:atlantis"))
}

func TestCachedService_ExpiredEntryRefetches(t *testing.T) {
	mr, inner, svc, _ := setup(t)

	temp := 5.0
	inner.On("GetByCity", mock.Anything, "Oslo").
		Return(models.WeatherData{Temperature: &temp}, nil).Twice()

	_, err := svc.GetByCity(context.Background(), "Oslo")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = svc.GetByCity(context.Background(), "Oslo")
	require.NoError(t, err)
}
