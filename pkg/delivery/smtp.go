package delivery

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
)

// sendMailFunc matches smtp.SendMail so tests can intercept the wire call.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// smtpDeliverer sends the digest as a plain-text mail over an authenticated
// SMTP submission. The session lives only for the duration of one Deliver.
type smtpDeliverer struct {
	id        string
	typ       string
	host      string
	port      int
	sender    string
	password  string
	recipient string
	send      sendMailFunc
	log       Logger
}

// newSMTPDeliverer builds the mail deliverer from config plus the run's
// credentials. Missing credentials fail here, before any connection attempt.
func newSMTPDeliverer(_ context.Context, cfg DelivererConfig, env BuildEnv) (Deliverer, error) {
	host := env.SMTP.Host
	port := env.SMTP.Port
	recipient := env.Mail.Recipient
	if cfg.SMTP != nil {
		if cfg.SMTP.Host != "" {
			host = cfg.SMTP.Host
		}
		if cfg.SMTP.Port > 0 {
			port = cfg.SMTP.Port
		}
		if cfg.SMTP.Recipient != "" {
			recipient = cfg.SMTP.Recipient
		}
	}
	if host == "" {
		host = smtpDefaultHost
	}
	if port <= 0 {
		port = smtpDefaultPort
	}

	if env.Mail.Sender == "" || env.Mail.Password == "" {
		return nil, fmt.Errorf("deliverer %q requires mail credentials", cfg.ID)
	}
	if recipient == "" {
		return nil, fmt.Errorf("deliverer %q has no recipient configured", cfg.ID)
	}

	return &smtpDeliverer{
		id:        cfg.ID,
		typ:       TypeSMTP,
		host:      host,
		port:      port,
		sender:    env.Mail.Sender,
		password:  env.Mail.Password,
		recipient: recipient,
		send:      smtp.SendMail,
		log:       ensureLogger(env.Log),
	}, nil
}

func (s *smtpDeliverer) ID() string   { return s.id }
func (s *smtpDeliverer) Type() string { return s.typ }

// Deliver submits the digest mail. net/smtp upgrades to STARTTLS when the
// relay advertises it, which every submission port relay does.
func (s *smtpDeliverer) Deliver(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMailMessage(s.sender, s.recipient, evt.Subject, evt.Body)
	auth := smtp.PlainAuth("", s.sender, s.password, s.host)
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	if err := s.send(addr, auth, s.sender, []string{s.recipient}, msg); err != nil {
		s.log.ErrorObj("smtp deliverer send failed", "deliverer_smtp_error", map[string]any{
			"deliverer_id": s.id,
			"relay":        addr,
			"error":        err.Error(),
		})
		return fmt.Errorf("send digest mail: %w", err)
	}

	s.log.InfoObj("smtp deliverer sent digest", "deliverer_smtp_delivery", map[string]any{
		"deliverer_id": s.id,
		"recipient":    s.recipient,
		"subject":      evt.Subject,
	})
	return nil
}

// buildMailMessage assembles an RFC822 plain-text message.
func buildMailMessage(from, to, subject, body string) []byte {
	headers := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n"
	return []byte(headers + body)
}
