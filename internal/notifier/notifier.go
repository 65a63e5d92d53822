package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

var ErrRunInProgress = errors.New("a dispatch run for this frequency is already in progress")

type subscriptionRepository interface {
	GetConfirmedByFrequency(ctx context.Context, frequency models.Frequency) ([]models.Subscription, error)
}

type emailSender interface {
	SendWeather(ctx context.Context, to, city string, data models.WeatherData) error
}

type weatherGetter interface {
	GetByCity(ctx context.Context, city string) (models.WeatherData, error)
}

type locker interface {
	Acquire(ctx context.Context, key string) (func(context.Context) error, bool, error)
}

// Delivery is one subscriber of one run.
type Delivery struct {
	Email string
	City  string
}

// Report summarizes a dispatch run.
type Report struct {
	Frequency    models.Frequency
	Subscribers  int
	Delivered    []Delivery
	Failed       []Delivery
	FailedCities []string
}

type Config struct {
	HourlySpec string
	DailySpec  string
	RunTimeout time.Duration
}

// Notifier sends weather updates to confirmed subscribers, once per city per run.
type Notifier struct {
	repo           subscriptionRepository
	weatherService weatherGetter
	emailService   emailSender
	lock           locker
	cfg            Config
	logger         zerolog.Logger
	m              *metrics.Metrics

	cron   *cron.Cron
	cancel context.CancelFunc
}

// New constructs a Notifier. lock may be nil, runs then do not guard against overlap.
func New(
	repo subscriptionRepository,
	ws weatherGetter,
	es emailSender,
	lock locker,
	cfg Config,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *Notifier {
	return &Notifier{
		repo:           repo,
		weatherService: ws,
		emailService:   es,
		lock:           lock,
		cfg:            cfg,
		logger:         logger.With().Str("component", "Notifier").Logger(),
		m:              m,
		cron:           cron.New(cron.WithSeconds()),
	}
}

// Start schedules the hourly and daily runs.
func (n *Notifier) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	for _, job := range []struct {
		spec string
		freq models.Frequency
	}{
		{n.cfg.HourlySpec, models.FrequencyHourly},
		{n.cfg.DailySpec, models.FrequencyDaily},
	} {
		freq := job.freq
		if _, err := n.cron.AddFunc(job.spec, func() { n.runScheduled(ctx, freq) }); err != nil {
			cancel()
			n.m.TechnicalErrors.WithLabelValues("cron_schedule_error", "critical").Inc()
			return fmt.Errorf("schedule %s job %q: %w", freq, job.spec, err)
		}
	}

	n.cancel = cancel
	n.cron.Start()
	n.logger.Info().
		Str("hourly_spec", n.cfg.HourlySpec).
		Str("daily_spec", n.cfg.DailySpec).
		Msg("weather notifier started")
	return nil
}

// Stop cancels in-flight runs and waits for them to return.
func (n *Notifier) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
	<-n.cron.Stop().Done()
	n.logger.Info().Msg("all cron jobs finished, notifier stopped")
}

func (n *Notifier) runScheduled(ctx context.Context, freq models.Frequency) {
	n.m.CronJob(string(freq), func() {
		report, err := n.Run(ctx, string(freq))
		if err != nil {
			n.logger.Error().Err(err).Str("frequency", string(freq)).Msg("scheduled dispatch failed")
			return
		}
		n.logger.Info().
			Str("frequency", string(freq)).
			Int("subscribers", report.Subscribers).
			Int("delivered", len(report.Delivered)).
			Int("failed", len(report.Failed)).
			Strs("failed_cities", report.FailedCities).
			Msg("scheduled dispatch finished")
	})
}

// Run sends one round of updates for frequency. Failures for a city or a
// recipient are recorded in the report and never abort the run.
func (n *Notifier) Run(ctx context.Context, frequency string) (Report, error) {
	freq, err := models.ParseFrequency(frequency)
	if err != nil {
		return Report{}, err
	}
	report := Report{Frequency: freq}

	if n.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.RunTimeout)
		defer cancel()
	}

	release, err := n.acquire(ctx, freq)
	if err != nil {
		return report, err
	}
	if release != nil {
		defer func() {
			// The run context may already be done, release on a fresh one.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := release(releaseCtx); err != nil {
				n.logger.Warn().Err(err).Str("frequency", string(freq)).Msg("failed to release dispatch lock")
			}
		}()
	}

	subs, err := n.repo.GetConfirmedByFrequency(ctx, freq)
	if err != nil {
		n.m.TechnicalErrors.WithLabelValues("fetch_due_subs", "critical").Inc()
		return report, fmt.Errorf("load %s subscriptions: %w", freq, err)
	}
	report.Subscribers = len(subs)
	if len(subs) == 0 {
		n.logger.Info().Str("frequency", string(freq)).Msg("no confirmed subscriptions")
		return report, nil
	}

	cities, byCity := groupByCity(subs)
	n.logger.Info().
		Str("frequency", string(freq)).
		Int("subscribers", len(subs)).
		Int("cities", len(cities)).
		Msg("dispatching weather updates")

	for _, city := range cities {
		forecast, err := n.weatherService.GetByCity(ctx, city)
		if err != nil {
			n.logger.Error().Err(err).Str("city", city).Msg("weather fetch error, skipping city")
			n.m.TechnicalErrors.WithLabelValues("weather_fetch_error", "critical").Inc()
			report.FailedCities = append(report.FailedCities, city)
			continue
		}

		for _, sub := range byCity[city] {
			d := Delivery{Email: sub.Email, City: city}
			if err := n.emailService.SendWeather(ctx, sub.Email, city, forecast); err != nil {
				n.logger.Error().Err(err).
					Int64("subscription_id", sub.ID).
					Str("email", logger.RedactEmail(sub.Email)).
					Msg("email send error")
				n.m.TechnicalErrors.WithLabelValues("email_send_error", "critical").Inc()
				report.Failed = append(report.Failed, d)
				continue
			}
			report.Delivered = append(report.Delivered, d)
		}
	}

	return report, nil
}

func (n *Notifier) acquire(ctx context.Context, freq models.Frequency) (func(context.Context) error, error) {
	if n.lock == nil {
		return nil, nil
	}

	release, ok, err := n.lock.Acquire(ctx, "dispatch:"+string(freq))
	if err != nil {
		// The lock is best effort, an unreachable Redis does not block dispatch.
		n.logger.Warn().Err(err).Str("frequency", string(freq)).Msg("dispatch lock unavailable, running unguarded")
		return nil, nil
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return release, nil
}

// groupByCity keeps cities in first-seen order.
func groupByCity(subs []models.Subscription) ([]string, map[string][]models.Subscription) {
	var cities []string
	byCity := make(map[string][]models.Subscription)
	for _, sub := range subs {
		if _, ok := byCity[sub.City]; !ok {
			cities = append(cities, sub.City)
		}
		byCity[sub.City] = append(byCity[sub.City], sub)
	}
	return cities, byCity
}
