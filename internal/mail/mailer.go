// Package mail delivers report emails over authenticated, encrypted SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/invoicedesk/invoicedesk/types"
)

// Sender dispatches an HTML email with a plain-text fallback.
type Sender interface {
	SendHTML(ctx context.Context, to, subject, htmlBody, textAlt string) error
}

// SMTPMailer implements Sender over SMTP with TLS: implicit TLS on port 465,
// STARTTLS otherwise.
type SMTPMailer struct {
	cfg     types.SMTPConfig
	timeout time.Duration
}

// NewSMTPMailer builds a mailer from configuration. A non-positive timeout
// falls back to 30 seconds.
func NewSMTPMailer(cfg types.SMTPConfig) *SMTPMailer {
	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &SMTPMailer{cfg: cfg, timeout: timeout}
}

// SendHTML builds a multipart/alternative message and delivers it.
func (m *SMTPMailer) SendHTML(ctx context.Context, to, subject, htmlBody, textAlt string) error {
	if textAlt == "" {
		textAlt = "This message contains an HTML report. Please use an HTML-capable mail client."
	}
	message, err := buildMessage(m.cfg.From, to, subject, htmlBody, textAlt)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	client, err := m.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect smtp: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(parseAddress(m.cfg.From)); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	return client.Quit()
}

func (m *SMTPMailer) connect(ctx context.Context) (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	dialer := &net.Dialer{Timeout: m.timeout}

	if m.cfg.Port == 465 {
		conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: m.cfg.Host})
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, m.cfg.Host)
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return nil, err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return client, nil
}

func buildMessage(from, to, subject, htmlBody, textAlt string) (string, error) {
	var body strings.Builder
	alt := multipart.NewWriter(&body)

	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + alt.Boundary(),
		"",
		"",
	}

	textPart, err := alt.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return "", err
	}
	if _, err := textPart.Write([]byte(textAlt)); err != nil {
		return "", err
	}
	htmlPart, err := alt.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
	if err != nil {
		return "", err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return "", err
	}
	if err := alt.Close(); err != nil {
		return "", err
	}

	return strings.Join(headers, "\r\n") + body.String(), nil
}

func parseAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}
