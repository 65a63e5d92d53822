package emailer

import (
	"context"

	"github.com/Nazarious-ucu/weather-updates/pkg/messaging"
)

// Message is a fully rendered email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
	HTML    bool
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func (m Message) Event() messaging.EmailEvent {
	return messaging.EmailEvent{From: m.From, To: m.To, Subject: m.Subject, Body: m.Body, HTML: m.HTML}
}

func FromEvent(e messaging.EmailEvent) Message {
	return Message{From: e.From, To: e.To, Subject: e.Subject, Body: e.Body, HTML: e.HTML}
}
