package email

import (
	"context"
	"fmt"

	"eventrent-backend/internal/config"
	"eventrent-backend/internal/logger"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Sender delivers a message through one email provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns the sender configured by cfg.Provider.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	switch cfg.Provider {
	case "", "log":
		return NewLogSender(), nil
	case "sendgrid":
		return NewSendGridSender(cfg.SendGrid.APIKey, cfg.From, cfg.FromName), nil
	case "smtp":
		return NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.From, cfg.FromName), nil
	case "mailjet":
		return NewMailjetSender(cfg.Mailjet.PublicKey, cfg.Mailjet.PrivateKey, cfg.From, cfg.FromName), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}

type logSender struct{}

// NewLogSender returns a sender that only logs. Used in development.
func NewLogSender() Sender {
	return logSender{}
}

func (logSender) Send(ctx context.Context, msg Message) error {
	logger.InfoContext(ctx, "Email not delivered (log provider)", "to", msg.To, "subject", msg.Subject, "bytes", len(msg.HTML))
	return nil
}
