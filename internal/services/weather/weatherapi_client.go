package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

const (
	placeholderAPIKey = "YOUR_WEATHERAPI_COM_KEY"
	codeCityNotFound  = 1006
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientWeatherAPI talks to the WeatherAPI.com current conditions endpoint.
type ClientWeatherAPI struct {
	apiKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewClientWeatherAPI(apiKey, apiURL string, httpClient HTTPClient, logger zerolog.Logger) *ClientWeatherAPI {
	return &ClientWeatherAPI{
		apiKey: apiKey,
		apiURL: strings.TrimRight(apiURL, "/"),
		client: httpClient,
		logger: logger.With().Str("component", "ClientWeatherAPI").Logger(),
	}
}

func (c *ClientWeatherAPI) Fetch(ctx context.Context, city string) (models.WeatherData, error) {
	if c.apiKey == "" || c.apiKey == placeholderAPIKey {
		c.logger.Error().Ctx(ctx).Msg("weather API key is not configured")
		return models.WeatherData{}, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", city)
	endpoint := c.apiURL + "/current.json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Str("city", city).Msg("weather request failed")
		return models.WeatherData{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return c.decodeCurrent(ctx, resp.Body)
	case http.StatusBadRequest:
		return models.WeatherData{}, c.badRequest(ctx, city, resp.Body)
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.Error().Ctx(ctx).Int("status", resp.StatusCode).
			Msg("weather API rejected the key, check WEATHER_API_KEY")
		return models.WeatherData{}, ErrAuthFailed
	default:
		c.logger.Error().Ctx(ctx).Int("status", resp.StatusCode).Str("city", city).
			Msg("unexpected weather API status")
		return models.WeatherData{}, &StatusError{StatusCode: resp.StatusCode}
	}
}

func (c *ClientWeatherAPI) decodeCurrent(ctx context.Context, body io.Reader) (models.WeatherData, error) {
	var raw struct {
		Current *struct {
			TempC     *float64 `json:"temp_c"`
			Humidity  *float64 `json:"humidity"`
			Condition *struct {
				Text *string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Msg("failed to decode weather response")
		return models.WeatherData{}, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}

	var data models.WeatherData
	if raw.Current != nil {
		data.Temperature = raw.Current.TempC
		data.Humidity = raw.Current.Humidity
		if raw.Current.Condition != nil {
			data.Description = raw.Current.Condition.Text
		}
	}
	return data, nil
}

func (c *ClientWeatherAPI) badRequest(ctx context.Context, city string, body io.Reader) error {
	var raw struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&raw); err == nil && raw.Error.Code == codeCityNotFound {
		c.logger.Info().Ctx(ctx).Str("city", city).Msg("city not found upstream")
		return ErrCityNotFound
	}

	c.logger.Warn().Ctx(ctx).
		Str("city", city).
		Int("code", raw.Error.Code).
		Str("message", raw.Error.Message).
		Msg("weather API rejected the request")
	return ErrInvalidRequest
}
