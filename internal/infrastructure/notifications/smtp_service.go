package notifications

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/xenithra/authcore/domain"
)

// SMTPServiceImpl implements domain.MailService over plain SMTP.
type SMTPServiceImpl struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *zap.Logger
}

// NewSMTPService creates a new SMTP mail service. With an empty host the
// service logs messages instead of sending, which keeps local development
// and tests free of a mail server.
func NewSMTPService(host string, port int, username, password, from string, logger *zap.Logger) domain.MailService {
	svc := &SMTPServiceImpl{
		from:   from,
		logger: logger,
	}
	if host != "" {
		svc.addr = fmt.Sprintf("%s:%d", host, port)
		if username != "" {
			svc.auth = smtp.PlainAuth("", username, password, host)
		}
	}
	return svc
}

// Send implements domain.MailService
func (s *SMTPServiceImpl) Send(to, subject, body string) error {
	if s.addr == "" {
		s.logger.Info("mail delivery skipped, smtp not configured",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMailUnavailable, err)
	}
	return nil
}
