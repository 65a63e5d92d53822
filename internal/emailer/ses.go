package emailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

var ErrSESNotInitialized = errors.New("SES client not initialized")

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESService delivers mail through AWS SES v2.
type SESService struct {
	client sesAPI
	logger zerolog.Logger
}

// NewSESService loads AWS configuration. Static keys take precedence over the
// default credential chain when both are set.
func NewSESService(ctx context.Context, cfg config.SES, logger zerolog.Logger) (*SESService, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSESServiceWithClient(sesv2.NewFromConfig(awsCfg), logger), nil
}

func NewSESServiceWithClient(client sesAPI, logger zerolog.Logger) *SESService {
	return &SESService{
		client: client,
		logger: logger.With().Str("component", "SESService").Logger(),
	}
}

func (s *SESService) Send(ctx context.Context, msg Message) error {
	if s.client == nil {
		return ErrSESNotInitialized
	}

	content := &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")}
	body := &types.Body{Text: content}
	if msg.HTML {
		body = &types.Body{Html: content}
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	})
	if err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Str("to", logger.RedactEmail(msg.To)).Msg("SES send failed")
		return fmt.Errorf("ses send: %w", err)
	}

	s.logger.Info().Ctx(ctx).
		Str("to", logger.RedactEmail(msg.To)).
		Str("message_id", aws.ToString(out.MessageId)).
		Msg("email sent via SES")
	return nil
}
