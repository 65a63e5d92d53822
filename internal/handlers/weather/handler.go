package weather

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/services/weather"
)

const timeoutDuration = 15 * time.Second

type weatherGetter interface {
	GetByCity(ctx context.Context, city string) (models.WeatherData, error)
}

type Handler struct {
	service weatherGetter
	logger  zerolog.Logger
}

func NewHandler(svc weatherGetter, logger zerolog.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger.With().Str("component", "WeatherHandler").Logger(),
	}
}

// GetWeather
// @Summary Get current weather for a city
// @Description Returns the current temperature, humidity and description for the given city.
// @Tags weather
// @Produce json
// @Param city query string true "City name"
// @Success 200 {object} models.WeatherData
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "City parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	data, err := h.service.GetByCity(ctx, city)
	if err != nil {
		status, msg := mapError(err)
		h.logger.Debug().Err(err).Str("city", city).Int("status", status).Msg("weather request failed")
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, data)
}

func mapError(err error) (int, string) {
	var se *weather.StatusError
	switch {
	case errors.Is(err, weather.ErrNotConfigured):
		return http.StatusInternalServerError, "Weather service is not configured."
	case errors.Is(err, weather.ErrCityNotFound):
		return http.StatusNotFound, "City not found by WeatherAPI.com"
	case errors.Is(err, weather.ErrInvalidRequest):
		return http.StatusBadRequest, "Invalid request to weather service."
	case errors.Is(err, weather.ErrAuthFailed):
		return http.StatusUnauthorized, "Weather service authentication failed."
	case errors.Is(err, weather.ErrBadResponse):
		return http.StatusInternalServerError, "Error processing weather service response."
	case errors.As(err, &se):
		if se.StatusCode < http.StatusBadRequest {
			return http.StatusInternalServerError, "Failed to retrieve weather data."
		}
		return se.StatusCode, "Failed to retrieve weather data."
	default:
		return http.StatusInternalServerError, "Could not connect to weather service."
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
