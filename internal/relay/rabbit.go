package relay

import (
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/weather-updates/pkg/messaging"
)

// NewConn dials RabbitMQ with go-rabbitmq's reconnect handling.
func NewConn(url string) (*rabbitmq.Conn, error) {
	return rabbitmq.NewConn(url, rabbitmq.WithConnectionOptionsLogging)
}

// NewPublisher declares the durable notifications exchange.
func NewPublisher(conn *rabbitmq.Conn) (*rabbitmq.Publisher, error) {
	return rabbitmq.NewPublisher(
		conn,
		rabbitmq.WithPublisherOptionsExchangeName(messaging.ExchangeName),
		rabbitmq.WithPublisherOptionsExchangeDeclare,
		rabbitmq.WithPublisherOptionsExchangeDurable,
		rabbitmq.WithPublisherOptionsLogging,
	)
}

// NewEmailConsumer binds the durable email queue to the notifications exchange.
func NewEmailConsumer(conn *rabbitmq.Conn) (*rabbitmq.Consumer, error) {
	return rabbitmq.NewConsumer(
		conn,
		messaging.EmailQueueName,
		rabbitmq.WithConsumerOptionsExchangeName(messaging.ExchangeName),
		rabbitmq.WithConsumerOptionsExchangeDeclare,
		rabbitmq.WithConsumerOptionsExchangeDurable,
		rabbitmq.WithConsumerOptionsRoutingKey(messaging.EmailRoutingKey),
		rabbitmq.WithConsumerOptionsQueueDurable,
	)
}
