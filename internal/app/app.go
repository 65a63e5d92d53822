package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/internal/handlers/subscription"
	"github.com/Nazarious-ucu/weather-updates/internal/handlers/weather"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/middleware"
	"github.com/Nazarious-ucu/weather-updates/internal/notifier"
	"github.com/Nazarious-ucu/weather-updates/internal/repository/database"
	"github.com/Nazarious-ucu/weather-updates/internal/services/email"
	"github.com/Nazarious-ucu/weather-updates/internal/services/subscriptions"
	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// ServiceContainer holds initialized dependencies shared by the server and the dispatch command.
type ServiceContainer struct {
	DB            *sql.DB
	Repo          *database.SubscriptionRepository
	Weather       weatherGetter
	Email         *email.Service
	Subscriptions *subscriptions.Service
	Notifier      *notifier.Notifier

	redis      *redis.Client
	fileLogger *zap.Logger
	closers    []func()
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metrics.Metrics
}

func New(cfg config.Config, logger zerolog.Logger, m *metrics.Metrics) *App {
	return &App{cfg: cfg, l: logger, m: m}
}

// Init opens storage and builds every service without starting anything.
func (a *App) Init(ctx context.Context) (*ServiceContainer, error) {
	c := &ServiceContainer{}

	db, err := database.Open(ctx, a.cfg.DB.Dialect, a.cfg.DB.Source)
	if err != nil {
		return nil, err
	}
	c.DB = db
	c.closers = append(c.closers, func() {
		if err := db.Close(); err != nil {
			a.l.Error().Err(err).Msg("DB close error")
		}
	})

	if err := database.Migrate(db, a.cfg.DB.Dialect, a.cfg.DB.MigrationsPath); err != nil {
		c.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	a.m.RegisterDB(db, "subscriptions")
	c.Repo = database.NewSubscriptionRepository(db, a.cfg.DB.Dialect, a.l, a.m)

	if a.cfg.Redis.Addr != "" {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		c.closers = append(c.closers, func() { _ = c.redis.Close() })
	}

	fileLogger, err := logger.NewFileLogger(a.cfg.Log.HTTPLogFile)
	if err != nil {
		a.l.Warn().Err(err).Msg("failed to create upstream HTTP log file, logging disabled")
		fileLogger = zap.NewNop()
	}
	c.fileLogger = fileLogger
	c.closers = append(c.closers, func() { _ = fileLogger.Sync() })

	c.Weather = a.newWeatherService(c.redis, fileLogger)

	sender, closeSender, err := a.newSender(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mail transport: %w", err)
	}
	c.closers = append(c.closers, closeSender)

	c.Email, err = email.NewService(sender, a.cfg.Mail.From, a.cfg.Server.TemplatesDir, a.l)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Subscriptions = subscriptions.NewService(c.Repo, c.Email, a.cfg.Server.PublicBaseURL, a.l, a.m)

	var lock dispatchLock
	if c.redis != nil {
		lock = notifier.NewRedisLock(c.redis, a.cfg.Notifier.LockTTL)
	}
	c.Notifier = notifier.New(c.Repo, c.Weather, c.Email, lock, notifier.Config{
		HourlySpec: a.cfg.Notifier.HourlySpec,
		DailySpec:  a.cfg.Notifier.DailySpec,
		RunTimeout: a.cfg.Notifier.RunTimeout,
	}, a.l, a.m)

	return c, nil
}

// Close releases resources in reverse order of acquisition.
func (c *ServiceContainer) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Start serves HTTP and runs the scheduler until ctx is done.
func (a *App) Start(ctx context.Context) error {
	c, err := a.Init(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()

	router := NewRouter(Handlers{
		Subscription: subscription.NewHandler(c.Subscriptions, a.l),
		Weather:      weather.NewHandler(c.Weather, a.l),
		Health:       healthCheck(c.DB),
	}, RouterConfig{
		TemplatesDir: a.cfg.Server.TemplatesDir,
		RateLimiter:  middleware.NewIPRateLimiter(limiterCtx, a.cfg.RateLimit.PerMinute, a.cfg.RateLimit.Burst),
	}, a.l, a.m)

	srv := &http.Server{
		Addr:         a.cfg.ServerAddress(),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	if a.cfg.Notifier.Enabled {
		if err := c.Notifier.Start(ctx); err != nil {
			return err
		}
		defer c.Notifier.Stop()
	}

	serveErr := make(chan error, 1)
	go func() {
		a.l.Info().Str("address", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	a.l.Info().Msg("shutdown signal received, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
		return err
	}
	a.l.Info().Msg("HTTP server stopped")
	return nil
}

func healthCheck(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
