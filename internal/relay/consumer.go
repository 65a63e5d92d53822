package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/weather-updates/internal/emailer"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
	"github.com/Nazarious-ucu/weather-updates/pkg/messaging"
)

const deliverTimeout = 30 * time.Second

// Consumer delivers queued email events through a real transport.
type Consumer struct {
	sender emailer.Sender
	logger zerolog.Logger
	m      *metrics.Metrics
}

func NewConsumer(sender emailer.Sender, logger zerolog.Logger, m *metrics.Metrics) *Consumer {
	return &Consumer{
		sender: sender,
		logger: logger.With().Str("component", "RelayConsumer").Logger(),
		m:      m,
	}
}

// Handle acks delivered messages and discards malformed or undeliverable ones.
func (c *Consumer) Handle(d rabbitmq.Delivery) rabbitmq.Action {
	var evt messaging.EmailEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil || evt.To == "" {
		c.logger.Error().Err(err).Int("payload_bytes", len(d.Body)).Msg("unmarshal error, discarding")
		c.m.TechnicalErrors.WithLabelValues("relay_unmarshal_error", "critical").Inc()
		return rabbitmq.NackDiscard
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	if err := c.sender.Send(ctx, emailer.FromEvent(evt)); err != nil {
		c.logger.Error().Err(err).
			Str("to", logger.RedactEmail(evt.To)).
			Str("subject", evt.Subject).
			Msg("failed to deliver email, discarding")
		c.m.TechnicalErrors.WithLabelValues("relay_send_error", "critical").Inc()
		return rabbitmq.NackDiscard
	}

	c.logger.Info().
		Str("to", logger.RedactEmail(evt.To)).
		Str("subject", evt.Subject).
		Msg("email relayed")
	return rabbitmq.Ack
}
