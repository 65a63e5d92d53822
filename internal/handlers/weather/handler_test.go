//go:build unit

package weather_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-updates/internal/handlers/weather"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	weathersvc "github.com/Nazarious-ucu/weather-updates/internal/services/weather"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByCity(ctx context.Context, city string) (models.WeatherData, error) {
	args := m.Called(ctx, city)

	data, ok := args.Get(0).(models.WeatherData)
	if !ok {
		return models.WeatherData{}, args.Error(1)
	}
	return data, args.Error(1)
}

func serve(t *testing.T, m *mockService, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req

	weather.NewHandler(m, zerolog.Nop()).GetWeather(c)
	return rec
}

func TestGetWeather_NoCity(t *testing.T) {
	m := &mockService{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	rec := serve(t, m, "/api/weather")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"City parameter is required"}`, rec.Body.String())
}

func TestGetWeather_Success(t *testing.T) {
	temp, hum, desc := 20.5, 40.0, "Sunny"
	m := &mockService{}
	m.On("GetByCity", mock.Anything, "Kyiv").
		Return(models.WeatherData{Temperature: &temp, Humidity: &hum, Description: &desc}, nil).Once()
	t.Cleanup(func() { m.AssertExpectations(t) })

	rec := serve(t, m, "/api/weather?city=Kyiv")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"temperature":20.5,"humidity":40,"description":"Sunny"}`, rec.Body.String())
}

func TestGetWeather_NullFields(t *testing.T) {
	m := &mockService{}
	m.On("GetByCity", mock.Anything, "Oslo").Return(models.WeatherData{}, nil).Once()

	rec := serve(t, m, "/api/weather?city=Oslo")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"temperature":null,"humidity":null,"description":null}`, rec.Body.String())
}

func TestGetWeather_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"not configured", weathersvc.ErrNotConfigured, http.StatusInternalServerError, "Weather service is not configured."},
		{"city not found", weathersvc.ErrCityNotFound, http.StatusNotFound, "City not found by WeatherAPI.com"},
		{"invalid request", weathersvc.ErrInvalidRequest, http.StatusBadRequest, "Invalid request to weather service."},
		{"auth failed", weathersvc.ErrAuthFailed, http.StatusUnauthorized, "Weather service authentication failed."},
		{"bad response", fmt.Errorf("%w: unexpected EOF", weathersvc.ErrBadResponse), http.StatusInternalServerError,
			"Error processing weather service response."},
		{"upstream status", &weathersvc.StatusError{StatusCode: http.StatusServiceUnavailable},
			http.StatusServiceUnavailable, "Failed to retrieve weather data."},
		{"non error upstream status", &weathersvc.StatusError{StatusCode: http.StatusNoContent},
			http.StatusInternalServerError, "Failed to retrieve weather data."},
		{"unavailable", fmt.Errorf("%w: connection refused", weathersvc.ErrUnavailable),
			http.StatusInternalServerError, "Could not connect to weather service."},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Could not connect to weather service."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockService{}
			m.On("GetByCity", mock.Anything, "Kyiv").Return(models.WeatherData{}, tc.err).Once()
			t.Cleanup(func() { m.AssertExpectations(t) })

			rec := serve(t, m, "/api/weather?city=Kyiv")

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tc.wantMsg), rec.Body.String())
		})
	}
}
