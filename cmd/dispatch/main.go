package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/weather-updates/internal/app"
	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/notifier"
	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

const usage = `Invalid frequency. Use "hourly" or "daily".`

var errUsage = errors.New(usage)

// parseArgs accepts exactly one argument naming the frequency.
func parseArgs(args []string) (models.Frequency, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	freq, err := models.ParseFrequency(args[0])
	if err != nil {
		return "", errUsage
	}
	return freq, nil
}

func printReport(w io.Writer, r notifier.Report) {
	if r.Subscribers == 0 {
		_, _ = fmt.Fprintf(w, "No confirmed subscriptions found for frequency: %s\n", r.Frequency)
		return
	}
	for _, city := range r.FailedCities {
		_, _ = fmt.Fprintf(w, "Failed to fetch weather for city: %s\n", city)
	}
	for _, d := range r.Failed {
		_, _ = fmt.Fprintf(w, "Failed to send email to %s for city %s\n", d.Email, d.City)
	}
	for _, d := range r.Delivered {
		_, _ = fmt.Fprintf(w, "✅ Email sent to %s for city %s\n", d.Email, d.City)
	}
}

func main() {
	freq, err := parseArgs(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(logger.Options{
		FilePath:    cfg.Log.File,
		ServiceName: "weather_dispatch",
		Level:       cfg.Log.Level,
		NoConsole:   true,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, app.New(*cfg, l, metrics.NewMetrics("weather_dispatch")), freq, os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, application *app.App, freq models.Frequency, out io.Writer) int {
	c, err := application.Init(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		return 1
	}
	defer c.Close()

	report, err := c.Notifier.Run(ctx, string(freq))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "dispatch failed: %v\n", err)
		return 1
	}
	printReport(out, report)
	return 0
}
