package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/emailer"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

const (
	confirmTemplate = "confirm_email.html"
	confirmSubject  = "Confirm your Weather API Subscription"
	notAvailable    = "N/A"

	weatherBody = "Hello!\n\nHere is the latest weather for %s:\n\n" +
		"Temperature: %s°C\nHumidity: %s%%\nCondition: %s\n\nThanks for subscribing!"
)

// Service renders subscription emails and hands them to a transport.
type Service struct {
	sender  emailer.Sender
	from    string
	confirm *template.Template
	logger  zerolog.Logger
}

// NewService parses the confirmation template once.
func NewService(sender emailer.Sender, from, templatesDir string, logger zerolog.Logger) (*Service, error) {
	tmpl, err := template.ParseFiles(filepath.Join(templatesDir, confirmTemplate))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", confirmTemplate, err)
	}
	return &Service{
		sender:  sender,
		from:    from,
		confirm: tmpl,
		logger:  logger.With().Str("component", "EmailService").Logger(),
	}, nil
}

func (s *Service) SendConfirmation(ctx context.Context, to, city, confirmURL string) error {
	var body bytes.Buffer
	if err := s.confirm.Execute(&body, map[string]string{
		"City":       city,
		"ConfirmURL": confirmURL,
	}); err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}

	return s.sender.Send(ctx, emailer.Message{
		From:    s.from,
		To:      to,
		Subject: confirmSubject,
		Body:    body.String(),
		HTML:    true,
	})
}

func (s *Service) SendWeather(ctx context.Context, to, city string, data models.WeatherData) error {
	return s.sender.Send(ctx, emailer.Message{
		From:    s.from,
		To:      to,
		Subject: "Weather Update for " + city,
		Body:    WeatherBody(city, data),
	})
}

// WeatherBody renders the plain-text update, absent readings print as N/A.
func WeatherBody(city string, data models.WeatherData) string {
	return fmt.Sprintf(weatherBody, city,
		formatFloat(data.Temperature),
		formatFloat(data.Humidity),
		formatString(data.Description))
}

func formatFloat(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatString(v *string) string {
	if v == nil {
		return notAvailable
	}
	return *v
}
