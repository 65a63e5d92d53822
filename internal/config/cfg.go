package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Host          string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port          string        `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout   time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout  time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	PublicBaseURL string        `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	TemplatesDir  string        `envconfig:"TEMPLATES_DIR" default:"./templates"`
}

type Log struct {
	Level       string `envconfig:"LOG_LEVEL" default:"debug"`
	File        string `envconfig:"LOG_FILE" default:"logs/weather-updates.log"`
	HTTPLogFile string `envconfig:"HTTP_LOG_FILE" default:"logs/upstream.log"`
}

type DB struct {
	// Dialect is "sqlite" or "postgres".
	Dialect        string `envconfig:"DB_DIALECT" default:"sqlite"`
	Source         string `envconfig:"DB_SOURCE" default:"subscriptions.db"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_DIR" default:"./migrations"`
}

type Weather struct {
	APIKey         string        `envconfig:"WEATHER_API_KEY"`
	BaseURL        string        `envconfig:"WEATHER_API_URL" default:"http://api.weatherapi.com/v1"`
	Timeout        time.Duration `envconfig:"WEATHER_API_TIMEOUT" default:"10s"`
	CacheTTL       time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"10m"`
	BreakerFails   uint32        `envconfig:"WEATHER_BREAKER_FAILURES" default:"5"`
	BreakerWindow  time.Duration `envconfig:"WEATHER_BREAKER_INTERVAL" default:"30s"`
	BreakerTimeout time.Duration `envconfig:"WEATHER_BREAKER_TIMEOUT" default:"15s"`
}

type Mail struct {
	// Transport is one of smtp, ses, queue, log.
	Transport string `envconfig:"MAIL_TRANSPORT" default:"log"`
	From      string `envconfig:"MAIL_FROM" default:"no-reply@weatherapi.app"`
}

type SMTP struct {
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     string `envconfig:"SMTP_PORT" default:"1025"`
	User     string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASSWORD"`
}

type SES struct {
	Region    string `envconfig:"AWS_REGION" default:"us-east-1"`
	AccessKey string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
}

type RabbitMQ struct {
	Host string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port string `envconfig:"RABBITMQ_PORT" default:"5672"`
	User string `envconfig:"RABBITMQ_USER" default:"guest"`
	Pass string `envconfig:"RABBITMQ_PASSWORD" default:"guest"`
}

type Redis struct {
	// Addr enables the weather cache and the dispatch lock when set.
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type Notifier struct {
	Enabled    bool          `envconfig:"NOTIFIER_ENABLED" default:"true"`
	HourlySpec string        `envconfig:"NOTIFIER_HOURLY_SPEC" default:"0 0 * * * *"`
	DailySpec  string        `envconfig:"NOTIFIER_DAILY_SPEC" default:"0 0 9 * * *"`
	RunTimeout time.Duration `envconfig:"NOTIFIER_RUN_TIMEOUT" default:"10m"`
	LockTTL    time.Duration `envconfig:"NOTIFIER_LOCK_TTL" default:"15m"`
}

type RateLimit struct {
	PerMinute int `envconfig:"SUBSCRIBE_RATE_PER_MINUTE" default:"30"`
	Burst     int `envconfig:"SUBSCRIBE_RATE_BURST" default:"10"`
}

type Config struct {
	Server    Server
	Log       Log
	DB        DB
	Weather   Weather
	Mail      Mail
	SMTP      SMTP
	SES       SES
	RabbitMQ  RabbitMQ
	Redis     Redis
	Notifier  Notifier
	RateLimit RateLimit
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Dialect {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DIALECT %q", c.DB.Dialect)
	}
	switch c.Mail.Transport {
	case "smtp", "ses", "queue", "log":
	default:
		return fmt.Errorf("unsupported MAIL_TRANSPORT %q", c.Mail.Transport)
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("SUBSCRIBE_RATE_PER_MINUTE and SUBSCRIBE_RATE_BURST must be positive, got %d and %d",
			c.RateLimit.PerMinute, c.RateLimit.Burst)
	}
	c.Server.PublicBaseURL = strings.TrimRight(c.Server.PublicBaseURL, "/")
	return nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (r *RabbitMQ) Address() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", r.User, r.Pass, r.Host, r.Port)
}
