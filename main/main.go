package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/weather-updates/internal/app"
	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

// @title Weather Updates API
// @version 1.0
// @description Subscribe to periodic weather updates for a city.
// @host localhost:8080
// @BasePath /api
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(logger.Options{
		FilePath:    cfg.Log.File,
		ServiceName: "weather_updates",
		Level:       cfg.Log.Level,
	})
	if err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	m := metrics.NewMetrics("weather_updates")

	application := app.New(*cfg, l, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		l.Error().Err(err).Msg("application stopped with error")
		log.Panic(err)
	}
}
