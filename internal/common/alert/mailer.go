// internal/common/alert/mailer.go
package alert

import (
	"context"
	"fmt"

	"doctrack/internal/common/config"
	"doctrack/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the slice of the SES API the mailer uses, defined for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Mailer sends operator alert e-mails for failures that require attention,
// such as a failed table swap with quarantined data.
type Mailer struct {
	cfg    config.AlertConfig
	client SESService
	logger logger.Logger
}

func NewMailer(ctx context.Context, cfg config.AlertConfig, log logger.Logger) (*Mailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Mailer{
		cfg:    cfg,
		client: ses.NewFromConfig(awsCfg),
		logger: log,
	}, nil
}

// NewMailerWithClient wires a preconstructed SES client, used by tests.
func NewMailerWithClient(cfg config.AlertConfig, client SESService, log logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, client: client, logger: log}
}

// Notify sends one alert e-mail. A send failure is logged and returned but
// callers treat it as best-effort: the underlying failure has already been
// logged with full context.
func (m *Mailer) Notify(ctx context.Context, subject, body string) error {
	if !m.cfg.Enabled {
		return nil
	}

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{m.cfg.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.cfg.FromEmail),
	})
	if err != nil {
		m.logger.Error("alert e-mail send failed", map[string]interface{}{
			"error":   err,
			"subject": subject,
		})
		return err
	}

	m.logger.Info("alert e-mail sent", map[string]interface{}{
		"subject": subject,
		"to":      m.cfg.ToEmail,
	})
	return nil
}
