package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-updates/internal/emailer"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/relay"
	"github.com/Nazarious-ucu/weather-updates/internal/services/cache"
	httplog "github.com/Nazarious-ucu/weather-updates/internal/services/logger"
	serviceWeather "github.com/Nazarious-ucu/weather-updates/internal/services/weather"
	"github.com/Nazarious-ucu/weather-updates/internal/services/weather/decorators"
)

type weatherGetter interface {
	GetByCity(ctx context.Context, city string) (models.WeatherData, error)
}

type dispatchLock interface {
	Acquire(ctx context.Context, key string) (func(context.Context) error, bool, error)
}

// newWeatherService stacks the WeatherAPI client, the circuit breaker, metrics
// and, when Redis is configured, the cache.
func (a *App) newWeatherService(rdb *redis.Client, fileLogger *zap.Logger) weatherGetter {
	httpClient := &http.Client{
		Timeout:   a.cfg.Weather.Timeout,
		Transport: httplog.NewRoundTripper(fileLogger, nil),
	}

	client := serviceWeather.NewBreakerClient("WeatherAPI", serviceWeather.BreakerConfig{
		TimeInterval: a.cfg.Weather.BreakerWindow,
		TimeTimeOut:  a.cfg.Weather.BreakerTimeout,
		RepeatNumber: a.cfg.Weather.BreakerFails,
	}, serviceWeather.NewClientWeatherAPI(a.cfg.Weather.APIKey, a.cfg.Weather.BaseURL, httpClient, a.l))

	svc := serviceWeather.NewService(client, a.l, a.m)
	if rdb == nil {
		return svc
	}

	store := cache.NewMetricsDecorator[models.WeatherData](
		cache.NewRedisClient[models.WeatherData](rdb, a.l, a.cfg.Weather.CacheTTL),
		a.m,
	)
	return decorators.NewCachedService(svc, store, a.l)
}

// newSender picks the mail transport named by MAIL_TRANSPORT.
func (a *App) newSender(ctx context.Context) (emailer.Sender, func(), error) {
	transport := a.cfg.Mail.Transport
	if transport != "queue" {
		sender, err := a.newDirectSender(ctx, transport)
		if err != nil {
			return nil, func() {}, err
		}
		return emailer.NewMetered(sender, transport, a.m), func() {}, nil
	}

	conn, err := relay.NewConn(a.cfg.RabbitMQ.Address())
	if err != nil {
		return nil, func() {}, err
	}
	pub, err := relay.NewPublisher(conn)
	if err != nil {
		_ = conn.Close()
		return nil, func() {}, err
	}
	a.l.Info().Str("transport", transport).Msg("mail transport selected")

	closeFn := func() {
		pub.Close()
		if err := conn.Close(); err != nil {
			a.l.Warn().Err(err).Msg("failed to close RabbitMQ connection")
		}
	}
	return emailer.NewMetered(emailer.NewQueuePublisher(pub, a.l), transport, a.m), closeFn, nil
}

// newDirectSender builds a transport that delivers mail itself.
func (a *App) newDirectSender(ctx context.Context, transport string) (emailer.Sender, error) {
	a.l.Info().Str("transport", transport).Msg("mail transport selected")
	switch transport {
	case "smtp":
		return emailer.NewSMTPService(a.cfg.SMTP, a.l), nil
	case "ses":
		ses, err := emailer.NewSESService(ctx, a.cfg.SES, a.l)
		if err != nil {
			return nil, err
		}
		return ses, nil
	case "log":
		return emailer.NewLogSender(a.l), nil
	default:
		return nil, fmt.Errorf("transport %q cannot deliver mail directly", transport)
	}
}
