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

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(logger.Options{
		FilePath:    "logs/mailer.log",
		ServiceName: "mail_relay",
		Level:       cfg.Log.Level,
	})
	if err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	application := app.New(*cfg, l, metrics.NewMetrics("mail_relay"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.StartRelay(ctx); err != nil {
		log.Panic(err)
	}
}
