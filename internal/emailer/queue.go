package emailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
	"github.com/Nazarious-ucu/weather-updates/pkg/messaging"
)

type publisher interface {
	PublishWithContext(
		ctx context.Context,
		data []byte,
		routingKeys []string,
		optionFuncs ...func(*rabbitmq.PublishOptions),
	) error
}

// QueuePublisher hands rendered messages to the mail relay over RabbitMQ.
type QueuePublisher struct {
	pub    publisher
	logger zerolog.Logger
}

func NewQueuePublisher(pub publisher, logger zerolog.Logger) *QueuePublisher {
	return &QueuePublisher{
		pub:    pub,
		logger: logger.With().Str("component", "QueuePublisher").Logger(),
	}
}

func (p *QueuePublisher) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg.Event())
	if err != nil {
		return fmt.Errorf("marshal email event: %w", err)
	}

	if err := p.pub.PublishWithContext(
		ctx,
		body,
		[]string{messaging.EmailRoutingKey},
		rabbitmq.WithPublishOptionsContentType("application/json"),
		rabbitmq.WithPublishOptionsMandatory,
		rabbitmq.WithPublishOptionsPersistentDelivery,
		rabbitmq.WithPublishOptionsExchange(messaging.ExchangeName),
	); err != nil {
		p.logger.Error().Ctx(ctx).Err(err).Msg("failed to publish email event")
		return fmt.Errorf("publish email event: %w", err)
	}

	p.logger.Debug().Ctx(ctx).
		Str("to", logger.RedactEmail(msg.To)).
		Str("routing_key", messaging.EmailRoutingKey).
		Msg("email event published")
	return nil
}
