package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	netmail "net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the subset of the SES v2 client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends email through Amazon SES v2.
type SESSender struct {
	client sesAPI
	from   string
}

// NewSESSender loads the default AWS configuration for region. Requests go
// through client.
func NewSESSender(ctx context.Context, client *http.Client, region, fromEmail, fromName string) (*SESSender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region), config.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	slog.Info("email service enabled", "from", fromEmail, "region", region)
	return newSESSender(sesv2.NewFromConfig(cfg), fromEmail, fromName), nil
}

func newSESSender(client sesAPI, fromEmail, fromName string) *SESSender {
	from := fromEmail
	if fromName != "" {
		from = (&netmail.Address{Name: fromName, Address: fromEmail}).String()
	}
	return &SESSender{client: client, from: from}
}

// Send delivers msg. To is required; Bcc may be empty.
func (s *SESSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("email has no recipient")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses:  []string{msg.To},
			BccAddresses: msg.Bcc,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	slog.Debug("email sent", "to", MaskEmail(msg.To), "message_id", aws.ToString(out.MessageId))
	return nil
}
