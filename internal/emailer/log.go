package emailer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "LogSender").Logger()}
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	l.logger.Info().Ctx(ctx).
		Str("from", msg.From).
		Str("to", logger.RedactEmail(msg.To)).
		Str("subject", msg.Subject).
		Bool("html", msg.HTML).
		Int("body_bytes", len(msg.Body)).
		Msg("email not delivered, MAIL_TRANSPORT=log")
	return nil
}
