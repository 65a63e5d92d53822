package app

import (
	"context"
	"errors"

	"github.com/Nazarious-ucu/weather-updates/internal/emailer"
	"github.com/Nazarious-ucu/weather-updates/internal/relay"
)

var errRelayTransport = errors.New(`relay needs MAIL_TRANSPORT "smtp", "ses" or "log"`)

// StartRelay consumes queued email events and delivers them until ctx is done.
func (a *App) StartRelay(ctx context.Context) error {
	if a.cfg.Mail.Transport == "queue" {
		return errRelayTransport
	}
	sender, err := a.newDirectSender(ctx, a.cfg.Mail.Transport)
	if err != nil {
		return err
	}

	conn, err := relay.NewConn(a.cfg.RabbitMQ.Address())
	if err != nil {
		a.l.Error().Err(err).Msg("failed to connect to RabbitMQ")
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			a.l.Warn().Err(err).Msg("failed to close RabbitMQ connection")
		}
	}()

	consumer, err := relay.NewEmailConsumer(conn)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to set up email consumer")
		return err
	}
	defer consumer.Close()

	handler := relay.NewConsumer(emailer.NewMetered(sender, a.cfg.Mail.Transport, a.m), a.l, a.m)
	runErr := make(chan error, 1)
	go func() {
		runErr <- consumer.Run(handler.Handle)
	}()
	a.l.Info().Msg("mail relay started")

	select {
	case err := <-runErr:
		return err
	case <-ctx.Done():
	}
	a.l.Info().Msg("mail relay stopped")
	return nil
}
