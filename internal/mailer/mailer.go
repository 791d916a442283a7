package mailer

import (
	"context"

	"github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"

	"github.com/dcastano/cobranza-engine/internal/config"
)

// Mailer sends composed digests over SMTP. It satisfies service.Sender.
type Mailer struct {
	dialer  *mail.Dialer
	from    string
	enabled bool
	logger  *logrus.Logger
}

func New(cfg config.SMTPConfig, logger *logrus.Logger) *Mailer {
	return &Mailer{
		dialer:  mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:    cfg.From,
		enabled: cfg.Enabled,
		logger:  logger,
	}
}

// Send dispatches one message. When the sender is disabled it logs and
// returns nil so runs in development still record SENT outcomes.
func (m *Mailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if !m.enabled {
		m.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("email sending disabled, skipping dispatch")
		return nil
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.WithError(err).WithField("to", to).Error("email send failed")
		return err
	}

	m.logger.WithField("to", to).Info("email sent")
	return nil
}
