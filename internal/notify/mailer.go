// Package notify implements best-effort transactional email for the
// onboarding service: a registration confirmation per created user and a
// network-created message per user of a confirmed project.
//
// Delivery is decoupled from the request path by a bounded queue drained by a
// single background worker (see Dispatcher). Failures are logged and counted,
// never surfaced to the HTTP caller.
package notify

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/network-onboarding/network-onboarding/internal/config"
)

// Message kinds, used as the metric label and to select the template.
const (
	KindRegistration   = "registration_confirmation"
	KindNetworkCreated = "network_created"
)

// Message is one queued notification.
type Message struct {
	Kind      string
	To        string
	Username  string
	OrgName   string
	NetworkID string // set for KindNetworkCreated only
}

// Mailer delivers a single message. Implementations must be safe for use from
// the dispatcher's worker goroutine.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer delivers messages over plain SMTP, STARTTLS, or implicit TLS.
type SMTPMailer struct {
	cfg *config.SMTPConfig
}

// NewSMTPMailer creates an SMTPMailer from outbound mail configuration.
func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send composes and delivers a plain-text email for msg.
func (m *SMTPMailer) Send(msg Message) error {
	subject, body := compose(msg)

	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n",
		m.cfg.From, msg.To, subject,
	)
	raw := []byte(headers + body + "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if m.cfg.UseTLS {
		return sendMailTLS(addr, m.cfg.Host, auth, m.cfg.From, []string{msg.To}, raw)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, raw)
}

// compose returns the subject and body for a message kind.
func compose(msg Message) (subject, body string) {
	switch msg.Kind {
	case KindNetworkCreated:
		subject = "Network Created"
		body = strings.Join([]string{
			fmt.Sprintf("Dear %s,", msg.Username),
			"",
			fmt.Sprintf("We are pleased to inform you that your network for the organization %q has been successfully created. Your unique network ID is %s.",
				msg.OrgName, msg.NetworkID),
			"",
			"Thank you,",
			"Team",
		}, "\r\n")
	default:
		subject = "Registration Successful"
		body = strings.Join([]string{
			fmt.Sprintf("Dear %s,", msg.Username),
			"",
			fmt.Sprintf("Your registration to the organization %q has been successful. We will inform you once the network is created based on your requirements.",
				msg.OrgName),
			"",
			"Thank you,",
			"Team",
		}, "\r\n")
	}
	return subject, body
}

// sendMailTLS connects via implicit TLS (port 465 / SMTPS) and sends a message.
// Use this when UseTLS=true and the port is 465; for port 587 STARTTLS,
// smtp.SendMail handles the upgrade automatically — but we call this path for
// both so the config is unambiguous: UseTLS=true always means an encrypted connection.
func sendMailTLS(addr, host string, auth smtp.Auth, from string, to []string, msg []byte) error {
	tlsConfig := &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		// Fall back to STARTTLS via the standard smtp.SendMail path (port 587 pattern)
		return smtp.SendMail(addr, auth, from, to, msg)
	}
	defer conn.Close()

	hostname, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, hostname)
	if err != nil {
		return fmt.Errorf("smtp new client: %w", err)
	}
	defer c.Quit() //nolint:errcheck

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, addr := range to {
		if err := c.Rcpt(addr); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", addr, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}
