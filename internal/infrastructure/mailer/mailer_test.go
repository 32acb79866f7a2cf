package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	in  *sesv2.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_SendPasswordReset(t *testing.T) {
	ses := &fakeSES{}
	m, err := newSESMailer(ses, SESConfig{From: "no-reply@zecall.ai", LinkTTL: "60 minutes"}, zerolog.Nop())
	require.NoError(t, err)

	link := "https://app.zecall.ai/reset-password/abc"
	require.NoError(t, m.SendPasswordReset(context.Background(), "jo@example.com", link))

	require.NotNil(t, ses.in)
	assert.Equal(t, "no-reply@zecall.ai", aws.ToString(ses.in.FromEmailAddress))
	assert.Equal(t, []string{"jo@example.com"}, ses.in.Destination.ToAddresses)
	assert.Equal(t, resetSubject, aws.ToString(ses.in.Content.Simple.Subject.Data))

	body := aws.ToString(ses.in.Content.Simple.Body.Text.Data)
	assert.Contains(t, body, link)
	assert.Contains(t, body, "jo@example.com")
	assert.Contains(t, body, "60 minutes")
}

func TestSESMailer_SendError(t *testing.T) {
	m, err := newSESMailer(&fakeSES{err: errors.New("throttled")}, SESConfig{From: "a@b.co"}, zerolog.Nop())
	require.NoError(t, err)

	err = m.SendPasswordReset(context.Background(), "x@y.co", "link")
	assert.ErrorContains(t, err, "throttled")
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, NewLogMailer(zerolog.Nop()).SendPasswordReset(context.Background(), "x@y.co", "link"))
}
