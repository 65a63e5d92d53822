package messaging

const (
	ExchangeName    = "notifications"
	EmailRoutingKey = "email"
	EmailQueueName  = "email_queue"
)
