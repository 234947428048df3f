package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/avenford/workflow-backend/internal/application/port"
)

// SESAPI is the subset of the SES client the sender uses
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender implements port.EmailSender on Amazon SES
type SESSender struct {
	client SESAPI
	from   string
	logger *zap.Logger
}

// NewSESSender creates a new SESSender using the ambient AWS configuration
func NewSESSender(ctx context.Context, from string, logger *zap.Logger) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESSender{
		client: sesv2.NewFromConfig(cfg),
		from:   from,
		logger: logger,
	}, nil
}

// NewSESSenderWithClient creates a SESSender with an explicit client
func NewSESSenderWithClient(client SESAPI, from string, logger *zap.Logger) *SESSender {
	return &SESSender{
		client: client,
		from:   from,
		logger: logger,
	}
}

// Send delivers a transactional email
func (s *SESSender) Send(ctx context.Context, msg port.EmailMessage) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTMLBody)},
					Text: &types.Content{Data: aws.String(msg.TextBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		s.logger.Error("Failed to send email",
			zap.String("to", msg.To),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug("Email sent", zap.String("to", msg.To))
	return nil
}

// Verify interface compliance
var _ port.EmailSender = (*SESSender)(nil)
