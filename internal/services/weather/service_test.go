//go:build unit

package weather_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/services/weather"
)

func TestService_RecordsResults(t *testing.T) {
	wrapped := new(mockWrapped)
	wrapped.On("Fetch", mock.Anything, "Kyiv").Return(models.WeatherData{Temperature: ptr(1.0)}, nil).Once()
	wrapped.On("Fetch", mock.Anything, "Atlantis").Return(models.WeatherData{}, weather.ErrCityNotFound).Once()
	wrapped.On("Fetch", mock.Anything, "Rome").
		Return(models.WeatherData{}, &weather.StatusError{StatusCode: 500}).Once()

	m := metrics.NewMetrics("weather_service_test")
	svc := weather.NewService(wrapped, zerolog.Nop(), m)

	data, err := svc.GetByCity(context.Background(), "Kyiv")
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, *data.Temperature, 0)

	_, err = svc.GetByCity(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, weather.ErrCityNotFound)

	_, err = svc.GetByCity(context.Background(), "Rome")
	assert.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.WeatherRequests.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.WeatherRequests.WithLabelValues("city_not_found")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.WeatherRequests.WithLabelValues("status_500")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BusinessErrors.WithLabelValues("weather_city_not_found", "warning")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TechnicalErrors.WithLabelValues("weather_status_500", "critical")), 0)
	wrapped.AssertExpectations(t)
}
