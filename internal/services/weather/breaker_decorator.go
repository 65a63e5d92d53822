package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

type client interface {
	Fetch(ctx context.Context, city string) (models.WeatherData, error)
}

// BreakerClient stops calling the provider after repeated outages.
// Answers such as "city not found" are successful calls from the breaker's view.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped client
}

func NewBreakerClient(name string, cfg BreakerConfig, wrapped client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isOutage(err)
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) Fetch(ctx context.Context, city string) (models.WeatherData, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, city)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return models.WeatherData{}, fmt.Errorf("%s unavailable: %w: %w", b.name, ErrUnavailable, err)
	}
	if err != nil {
		return models.WeatherData{}, err
	}
	res, ok := result.(models.WeatherData)
	if !ok {
		return models.WeatherData{}, fmt.Errorf("%s returned unexpected result: %w", b.name, ErrBadResponse)
	}
	return res, nil
}

func isOutage(err error) bool {
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrBadResponse) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 500
}
