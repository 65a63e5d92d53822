package emailer

import (
	"context"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPService wraps smtp.SendMail with structured logging.
type SMTPService struct {
	user     string
	host     string
	port     string
	password string
	sendMail sendMailFunc
	logger   zerolog.Logger
}

func NewSMTPService(cfg config.SMTP, logger zerolog.Logger) *SMTPService {
	return &SMTPService{
		user:     cfg.User,
		host:     cfg.Host,
		port:     cfg.Port,
		password: cfg.Password,
		sendMail: smtp.SendMail,
		logger:   logger.With().Str("component", "SMTPService").Logger(),
	}
}

func (e *SMTPService) Send(ctx context.Context, msg Message) error {
	start := time.Now()
	e.logger.Debug().Ctx(ctx).
		Str("to", logger.RedactEmail(msg.To)).
		Str("subject", msg.Subject).
		Msg("sending email")

	// Local relays such as MailHog accept unauthenticated mail.
	var auth smtp.Auth
	if e.user != "" {
		auth = smtp.PlainAuth("", e.user, e.password, e.host)
	}

	addr := e.host + ":" + e.port
	err := e.sendMail(addr, auth, msg.From, []string{msg.To}, compose(msg))
	duration := time.Since(start)

	if err != nil {
		e.logger.Error().Ctx(ctx).
			Err(err).
			Str("to", logger.RedactEmail(msg.To)).
			Str("subject", msg.Subject).
			Dur("duration", duration).
			Msg("email send failed")
		return err
	}

	e.logger.Info().Ctx(ctx).
		Str("to", logger.RedactEmail(msg.To)).
		Str("subject", msg.Subject).
		Dur("duration", duration).
		Msg("email sent successfully")
	return nil
}

func compose(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + stripLineBreaks(msg.From) + "\r\n")
	b.WriteString("To: " + stripLineBreaks(msg.To) + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	if msg.HTML {
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

func stripLineBreaks(s string) string {
	return lineBreaks.Replace(s)
}
