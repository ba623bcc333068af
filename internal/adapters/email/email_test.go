package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinitebz/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestTemplateRenderer_EventPublished(t *testing.T) {
	r := NewTemplateRenderer()
	subject, html, text, err := r.Render(EventPublishedTemplate, &domain.EventPublishedEmailData{
		Email:      "ada@example.com",
		EventTitle: "Go <Meetup>",
		EventID:    "evt_42",
		ShareLink:  "https://infinitebz.com/events/evt_42",
	})
	require.NoError(t, err)
	assert.Equal(t, `Your event "Go <Meetup>" is live on InfiniteBZ`, subject)
	assert.Contains(t, html, "Go &lt;Meetup&gt;")
	assert.Contains(t, html, `href="https://infinitebz.com/events/evt_42"`)
	assert.Contains(t, text, "https://infinitebz.com/events/evt_42")
	assert.Contains(t, text, "Event ID: evt_42")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("nope", nil)
	assert.Error(t, err)
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "events@infinitebz.com", "InfiniteBZ", testLogger)

	err := m.Send(context.Background(), "ada@example.com", "Hello", "<p>hi</p>", "hi")
	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, "InfiniteBZ <events@infinitebz.com>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ada@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Equal(t, "hi", aws.ToString(client.input.Message.Body.Text.Data))
}

func TestSESMailer_SendTextOnly(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "events@infinitebz.com", "", testLogger)

	require.NoError(t, m.Send(context.Background(), "ada@example.com", "Hello", "", "hi"))
	assert.Equal(t, "events@infinitebz.com", aws.ToString(client.input.Source))
	assert.Nil(t, client.input.Message.Body.Html)
}

func TestSESMailer_SendError(t *testing.T) {
	m := newSESMailer(&fakeSES{err: errors.New("throttled")}, "a@b.c", "", testLogger)
	err := m.Send(context.Background(), "ada@example.com", "s", "", "t")
	assert.ErrorContains(t, err, "throttled")
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), "a@b.c", "s", "h", "t"))

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "a@b.c"}, testLogger)
	assert.Error(t, err)

	m, err = NewMailer(MailerConfig{
		Provider:    "ses",
		FromAddress: "events@infinitebz.com",
		SES:         SESConfig{Region: "us-east-1", AccessKeyID: "AKID", SecretAccessKey: "secret"},
	}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)
}
