// Package mailer delivers transactional email: SES in production, the log
// in development.
package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/osteele/liquid"
	"github.com/rs/zerolog"
)

const resetSubject = "Reset your ZeCall password"

const resetBody = `Hi,

Someone asked to reset the password of your ZeCall account ({{ email }}).
Open the link below within {{ ttl }} to choose a new one:

{{ link }}

If it wasn't you, you can ignore this message.
`

// sesAPI is the slice of the SES v2 client the mailer uses.
type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESConfig struct {
	From            string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// LinkTTL is shown in the reset message.
	LinkTTL string
}

type SESMailer struct {
	client sesAPI
	from   string
	ttl    string
	tpl    *liquid.Template
	log    zerolog.Logger
}

// NewSESMailer loads AWS configuration, using static keys when both are set.
func NewSESMailer(ctx context.Context, cfg SESConfig, log zerolog.Logger) (*SESMailer, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSESMailer(sesv2.NewFromConfig(awsCfg), cfg, log)
}

func newSESMailer(client sesAPI, cfg SESConfig, log zerolog.Logger) (*SESMailer, error) {
	tpl, err := liquid.NewEngine().ParseTemplate([]byte(resetBody))
	if err != nil {
		return nil, fmt.Errorf("parse reset template: %w", err)
	}
	ttl := cfg.LinkTTL
	if ttl == "" {
		ttl = "1 hour"
	}
	return &SESMailer{client: client, from: cfg.From, ttl: ttl, tpl: tpl, log: log}, nil
}

func (m *SESMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	body, renderErr := m.tpl.Render(liquid.Bindings{"email": to, "link": link, "ttl": m.ttl})
	if renderErr != nil {
		return fmt.Errorf("render reset mail: %w", renderErr)
	}

	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(resetSubject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(string(body)), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("category"), Value: aws.String("password_reset")},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}

	m.log.Info().Str("message_id", aws.ToString(out.MessageId)).Msg("password reset mail sent")
	return nil
}

// LogMailer writes reset links to the log instead of sending them.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.log.Warn().Str("to", to).Str("link", link).Msg("mail delivery disabled, reset link logged")
	return nil
}
