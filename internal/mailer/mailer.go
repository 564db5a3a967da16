package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"marketinsights/internal/config"
	"marketinsights/internal/logger"
)

// Mailer delivers sign-in codes over SMTP. When no host is configured the
// caller falls back to dev-mode delivery (logged code, telegram notify).
type Mailer struct {
	cfg    config.SMTPConfig
	tls    bool
	logger *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg.SMTP, tls: cfg.SMTPStartTLS(), logger: log}
}

func (m *Mailer) Configured() bool {
	return m.cfg.Host != ""
}

// SendCode emails a one-time sign-in code. No retries; a failure is the
// caller's signal to fall back to dev delivery.
func (m *Mailer) SendCode(email, code string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your Market Insights sign-in code\r\n\r\n"+
		"Your sign-in code is: %s\r\n\r\nThis code expires in 10 minutes.\r\n",
		m.cfg.From, email, code)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial SMTP: %w", err)
	}
	defer c.Close()

	if m.tls {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if m.cfg.User != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := c.Rcpt(email); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}
	return c.Quit()
}
