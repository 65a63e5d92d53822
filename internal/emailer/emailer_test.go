//go:build unit

package emailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/smtp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/pkg/messaging"
)

var htmlMsg = Message{
	From:    "no-reply@weatherapi.app",
	To:      "user@example.com",
	Subject: "Confirm your Weather API Subscription",
	Body:    "<p>confirm</p>",
	HTML:    true,
}

func TestSMTPService_Send(t *testing.T) {
	var (
		gotAddr string
		gotAuth smtp.Auth
		gotFrom string
		gotTo   []string
		gotMsg  string
	)
	svc := NewSMTPService(config.SMTP{Host: "mail.local", Port: "1025"}, zerolog.Nop())
	svc.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, string(msg)
		return nil
	}

	require.NoError(t, svc.Send(context.Background(), htmlMsg))

	assert.Equal(t, "mail.local:1025", gotAddr)
	assert.Nil(t, gotAuth)
	assert.Equal(t, htmlMsg.From, gotFrom)
	assert.Equal(t, []string{htmlMsg.To}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Confirm your Weather API Subscription\r\n")
	assert.Contains(t, gotMsg, "Content-Type: text/html")
	assert.Contains(t, gotMsg, "\r\n\r\n<p>confirm</p>")
}

func TestSMTPService_SendPlainWithAuth(t *testing.T) {
	var gotAuth smtp.Auth
	var gotMsg string
	svc := NewSMTPService(config.SMTP{Host: "smtp.example.com", Port: "587", User: "u", Password: "p"}, zerolog.Nop())
	svc.sendMail = func(_ string, a smtp.Auth, _ string, _ []string, msg []byte) error {
		gotAuth, gotMsg = a, string(msg)
		return nil
	}

	msg := htmlMsg
	msg.HTML = false
	require.NoError(t, svc.Send(context.Background(), msg))

	assert.NotNil(t, gotAuth)
	assert.Contains(t, gotMsg, "Content-Type: text/plain")
}

func TestSMTPService_SendError(t *testing.T) {
	svc := NewSMTPService(config.SMTP{Host: "mail.local", Port: "1025"}, zerolog.Nop())
	svc.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	assert.Error(t, svc.Send(context.Background(), htmlMsg))
}

func TestCompose_HeadersStaySingleLine(t *testing.T) {
	raw := string(compose(Message{
		From:    "no-reply@weatherapi.app",
		To:      "user@example.com\r\nCc: other@example.com",
		Subject: "Weather Update for Paris\r\nBcc: victim@evil.test",
		Body:    "body",
	}))

	headers, _, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	for _, line := range strings.Split(headers, "\r\n") {
		assert.NotRegexp(t, `^(Bcc|Cc):`, line)
	}
	assert.Contains(t, headers, "Subject: =?utf-8?q?")
	assert.Contains(t, headers, "To: user@example.comCc: other@example.com\r\n")
}

func TestCompose_EncodesNonASCIISubject(t *testing.T) {
	raw := string(compose(Message{Subject: "Weather Update for Київ", Body: "body"}))

	assert.Contains(t, raw, "Subject: =?utf-8?q?Weather_Update_for_")
	assert.NotContains(t, raw, "Київ")
	dec := new(mime.WordDecoder)
	line := raw[strings.Index(raw, "Subject: ")+len("Subject: "):]
	line = line[:strings.Index(line, "\r\n")]
	decoded, err := dec.DecodeHeader(line)
	require.NoError(t, err)
	assert.Equal(t, "Weather Update for Київ", decoded)
}

func TestLogSender_OmitsBody(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(zerolog.New(&buf))

	require.NoError(t, s.Send(context.Background(), Message{
		From:    "no-reply@weatherapi.app",
		To:      "user@example.com",
		Subject: "Confirm your Weather API Subscription",
		Body:    "http://localhost:8080/api/confirm/abc123",
	}))

	out := buf.String()
	assert.Contains(t, out, "Confirm your Weather API Subscription")
	assert.NotContains(t, out, "/api/confirm/abc123")
	assert.NotContains(t, out, "user@example.com")
}

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(
	ctx context.Context,
	params *sesv2.SendEmailInput,
	_ ...func(*sesv2.Options),
) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*sesv2.SendEmailOutput)
	return out, args.Error(1)
}

func TestSESService_Send(t *testing.T) {
	client := &mockSES{}
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		return aws.ToString(in.FromEmailAddress) == htmlMsg.From &&
			in.Destination.ToAddresses[0] == htmlMsg.To &&
			aws.ToString(in.Content.Simple.Subject.Data) == htmlMsg.Subject &&
			in.Content.Simple.Body.Html != nil &&
			in.Content.Simple.Body.Text == nil
	})).Return(&sesv2.SendEmailOutput{MessageId: aws.String("abc")}, nil).Once()

	svc := NewSESServiceWithClient(client, zerolog.Nop())
	require.NoError(t, svc.Send(context.Background(), htmlMsg))
	client.AssertExpectations(t)
}

func TestSESService_SendError(t *testing.T) {
	client := &mockSES{}
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

	svc := NewSESServiceWithClient(client, zerolog.Nop())
	assert.ErrorContains(t, svc.Send(context.Background(), htmlMsg), "throttled")
}

func TestSESService_NilClient(t *testing.T) {
	svc := &SESService{logger: zerolog.Nop()}
	assert.ErrorIs(t, svc.Send(context.Background(), htmlMsg), ErrSESNotInitialized)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishWithContext(
	ctx context.Context,
	data []byte,
	routingKeys []string,
	optionFuncs ...func(*rabbitmq.PublishOptions),
) error {
	opts := &rabbitmq.PublishOptions{}
	for _, f := range optionFuncs {
		f(opts)
	}
	return m.Called(ctx, data, routingKeys, opts.Exchange).Error(0)
}

func TestQueuePublisher_Send(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("PublishWithContext", mock.Anything, mock.MatchedBy(func(data []byte) bool {
		var evt messaging.EmailEvent
		return json.Unmarshal(data, &evt) == nil && evt == htmlMsg.Event()
	}), []string{messaging.EmailRoutingKey}, messaging.ExchangeName).Return(nil).Once()

	q := NewQueuePublisher(pub, zerolog.Nop())
	require.NoError(t, q.Send(context.Background(), htmlMsg))
	pub.AssertExpectations(t)
}

func TestQueuePublisher_SendError(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed")).Once()

	q := NewQueuePublisher(pub, zerolog.Nop())
	assert.ErrorContains(t, q.Send(context.Background(), htmlMsg), "channel closed")
}

func TestFromEvent_RoundTrip(t *testing.T) {
	assert.Equal(t, htmlMsg, FromEvent(htmlMsg.Event()))
}

type fakeRecorder struct {
	transport string
	err       error
	calls     int
}

func (f *fakeRecorder) RecordEmail(transport string, err error) {
	f.transport, f.err = transport, err
	f.calls++
}

type failingSender struct{ err error }

func (f failingSender) Send(context.Context, Message) error { return f.err }

func TestMetered_Send(t *testing.T) {
	rec := &fakeRecorder{}
	sendErr := errors.New("boom")

	m := NewMetered(failingSender{err: sendErr}, "smtp", rec)
	assert.ErrorIs(t, m.Send(context.Background(), htmlMsg), sendErr)
	assert.Equal(t, "smtp", rec.transport)
	assert.ErrorIs(t, rec.err, sendErr)

	m = NewMetered(NewLogSender(zerolog.Nop()), "log", rec)
	assert.NoError(t, m.Send(context.Background(), htmlMsg))
	assert.NoError(t, rec.err)
	assert.Equal(t, 2, rec.calls)
}
