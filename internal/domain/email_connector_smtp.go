package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	mail "github.com/wneessen/go-mail"

	"github.com/caseyos/caseyos/pkg/emailerror"
)

// SMTPSettings configures the fallback SMTP sender.
type SMTPSettings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	UseTLS    bool
	FromEmail string
	FromName  string
}

// SMTPEmailConnector sends through a plain SMTP relay. It has no mailbox,
// so searches return nothing and drafts are local identifiers only; the
// durable draft record lives in our own store.
type SMTPEmailConnector struct {
	settings SMTPSettings
}

func NewSMTPEmailConnector(settings SMTPSettings) *SMTPEmailConnector {
	return &SMTPEmailConnector{settings: settings}
}

func (c *SMTPEmailConnector) SearchThreads(ctx context.Context, query string, limit int) ([]EmailThreadRef, error) {
	return nil, nil
}

func (c *SMTPEmailConnector) GetThread(ctx context.Context, threadID string) (*EmailThread, error) {
	return nil, NewConnectorError(ConnectorErrNotFound, "smtp connector has no mailbox", nil)
}

func (c *SMTPEmailConnector) CreateDraft(ctx context.Context, email OutboundEmail) (string, error) {
	return "smtp-" + uuid.New().String(), nil
}

func (c *SMTPEmailConnector) DeleteDraft(ctx context.Context, externalDraftID string) error {
	return nil
}

func (c *SMTPEmailConnector) Send(ctx context.Context, externalDraftID string, email OutboundEmail) (*SendReceipt, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(c.settings.FromName, c.settings.FromEmail); err != nil {
		return nil, NewConnectorError(ConnectorErrPermanent, "invalid from address", err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, NewConnectorError(ConnectorErrPermanent, "invalid recipient address", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.BodyText)
	if email.BodyHTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, email.BodyHTML)
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), c.settings.Host)
	msg.SetMessageIDWithValue(strings.Trim(messageID, "<>"))
	for name, value := range email.ThreadHeaders {
		msg.SetGenHeader(mail.Header(name), value)
	}

	options := []mail.Option{
		mail.WithPort(c.settings.Port),
		mail.WithTimeout(connectorCallTimeout),
	}
	if c.settings.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.settings.Username),
			mail.WithPassword(c.settings.Password),
		)
	}
	if c.settings.UseTLS {
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		options = append(options, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(c.settings.Host, options...)
	if err != nil {
		return nil, NewConnectorError(ConnectorErrPermanent, "failed to create smtp client", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		classified := emailerror.NewClassifier().Classify(err, emailerror.ProviderSMTP)
		if classified.IsRecipientError() {
			return nil, NewConnectorError(ConnectorErrPermanent, "smtp rejected the recipient", err)
		}
		return nil, NewConnectorError(ConnectorErrTransient, "smtp send failed", err)
	}

	return &SendReceipt{MessageID: messageID}, nil
}
