package email

import (
	"context"
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go"

	"eventrent-backend/internal/logger"
)

type MailjetSender struct {
	client   *mailjet.Client
	from     string
	fromName string
}

func NewMailjetSender(publicKey, privateKey, from, fromName string) *MailjetSender {
	return &MailjetSender{
		client:   mailjet.NewMailjetClient(publicKey, privateKey),
		from:     from,
		fromName: fromName,
	}
}

func (s *MailjetSender) Send(ctx context.Context, msg Message) error {
	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
		From: &mailjet.RecipientV31{Email: s.from, Name: s.fromName},
		To: &mailjet.RecipientsV31{
			mailjet.RecipientV31{Email: msg.To, Name: msg.ToName},
		},
		Subject:  msg.Subject,
		HTMLPart: msg.HTML,
	}}}

	if err := ctx.Err(); err != nil {
		return err
	}

	logger.ExternalServiceCall("mailjet", "SendMailV31", "to", msg.To)
	_, err := s.client.SendMailV31(&messages)
	logger.ExternalServiceResult("mailjet", "SendMailV31", err, "to", msg.To)
	if err != nil {
		return fmt.Errorf("failed to send email via mailjet: %w", err)
	}
	return nil
}
