package domain

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/google/uuid"

	"github.com/caseyos/caseyos/pkg/emailerror"
)

// SESSettings configures the Amazon SES sender.
type SESSettings struct {
	Region    string
	AccessKey string
	SecretKey string
	FromEmail string
}

// sesAPI is the subset of the SES client we call, kept narrow for tests.
type sesAPI interface {
	SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, opts ...interface{}) (*ses.SendEmailOutput, error)
}

type sesClientAdapter struct {
	client *ses.SES
}

func (a *sesClientAdapter) SendEmailWithContext(ctx aws.Context, input *ses.SendEmailInput, opts ...interface{}) (*ses.SendEmailOutput, error) {
	return a.client.SendEmailWithContext(ctx, input)
}

// SESEmailConnector sends through Amazon SES. Like SMTP it is send-only:
// no mailbox, no provider-side drafts.
type SESEmailConnector struct {
	settings SESSettings
	api      sesAPI
}

func NewSESEmailConnector(settings SESSettings) (*SESEmailConnector, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(settings.Region),
		Credentials: credentials.NewStaticCredentials(settings.AccessKey, settings.SecretKey, ""),
	})
	if err != nil {
		return nil, NewConnectorError(ConnectorErrPermanent, "failed to create aws session", err)
	}
	return &SESEmailConnector{
		settings: settings,
		api:      &sesClientAdapter{client: ses.New(sess)},
	}, nil
}

func (c *SESEmailConnector) SearchThreads(ctx context.Context, query string, limit int) ([]EmailThreadRef, error) {
	return nil, nil
}

func (c *SESEmailConnector) GetThread(ctx context.Context, threadID string) (*EmailThread, error) {
	return nil, NewConnectorError(ConnectorErrNotFound, "ses connector has no mailbox", nil)
}

func (c *SESEmailConnector) CreateDraft(ctx context.Context, email OutboundEmail) (string, error) {
	return "ses-" + uuid.New().String(), nil
}

func (c *SESEmailConnector) DeleteDraft(ctx context.Context, externalDraftID string) error {
	return nil
}

func (c *SESEmailConnector) Send(ctx context.Context, externalDraftID string, email OutboundEmail) (*SendReceipt, error) {
	body := &ses.Body{
		Text: &ses.Content{Charset: aws.String("UTF-8"), Data: aws.String(email.BodyText)},
	}
	if email.BodyHTML != "" {
		body.Html = &ses.Content{Charset: aws.String("UTF-8"), Data: aws.String(email.BodyHTML)}
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(c.settings.FromEmail),
		Destination: &ses.Destination{ToAddresses: []*string{aws.String(email.To)}},
		Message: &ses.Message{
			Subject: &ses.Content{Charset: aws.String("UTF-8"), Data: aws.String(email.Subject)},
			Body:    body,
		},
	}

	output, err := c.api.SendEmailWithContext(ctx, input)
	if err != nil {
		return nil, classifySESError(err)
	}
	return &SendReceipt{MessageID: aws.StringValue(output.MessageId)}, nil
}

func classifySESError(err error) *ConnectorError {
	if awsErr, ok := err.(awserr.Error); ok {
		switch awsErr.Code() {
		case ses.ErrCodeMessageRejected, ses.ErrCodeMailFromDomainNotVerifiedException:
			return NewConnectorError(ConnectorErrPermanent, "ses rejected the message", err)
		case "Throttling", "ThrottlingException":
			return NewConnectorError(ConnectorErrRateLimited, "ses throttled the send", err)
		}
	}

	// pattern-based fallback for errors the SDK does not type
	classified := emailerror.NewClassifier().Classify(err, emailerror.ProviderSES)
	switch {
	case classified.RateLimited:
		return NewConnectorError(ConnectorErrRateLimited, "ses throttled the send", err)
	case classified.IsRecipientError():
		return NewConnectorError(ConnectorErrPermanent, "ses rejected the recipient", err)
	case !classified.Retryable:
		return NewConnectorError(ConnectorErrPermanent, "ses send failed", err)
	default:
		return NewConnectorError(ConnectorErrTransient, "ses send failed", err)
	}
}
