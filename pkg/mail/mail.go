// Package mail sends notification emails over SMTP.
//
//	msg := mail.To("sales@example.com").
//	    WithSubject("New enquiry").
//	    Template(tmpl, data)
//	err := sender.Send(ctx, msg)
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
)

// SMTP holds connection credentials.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// FromConfig reads MAIL_* settings.
func FromConfig() SMTP {
	return SMTP{
		Host:     config.MailHost(),
		Port:     config.MailPort(),
		Username: config.MailUsername(),
		Password: config.MailPassword(),
		From:     config.MailFrom(),
		FromName: config.MailFromName(),
	}
}

// Message is a fluent builder for an email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
	HTML    bool
	err     error
}

// To starts a message to the given recipients.
func To(addresses ...string) *Message {
	return &Message{To: addresses}
}

func (m *Message) WithSubject(s string) *Message {
	m.Subject = s
	return m
}

// WithReplyTo sets the Reply-To header so staff can answer the submitter.
func (m *Message) WithReplyTo(addr string) *Message {
	m.ReplyTo = addr
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.Body = text
	m.HTML = false
	return m
}

// Template renders tmpl with data as an HTML body. A render failure is
// reported by Err and by Send.
func (m *Message) Template(tmpl *template.Template, data interface{}) *Message {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		m.err = fmt.Errorf("mail: render %s: %w", tmpl.Name(), err)
		return m
	}
	m.Body = buf.String()
	m.HTML = true
	return m
}

func (m *Message) Err() error { return m.err }

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, m *Message) error
}

// SMTPSender delivers through an SMTP relay. Port 465 uses implicit TLS;
// other ports use STARTTLS when the server offers it.
type SMTPSender struct {
	cfg SMTP
}

func NewSMTP(cfg SMTP) *SMTPSender { return &SMTPSender{cfg: cfg} }

var ErrNoRecipients = errors.New("mail: no recipients")

func (s *SMTPSender) Send(ctx context.Context, m *Message) error {
	if m.err != nil {
		return m.err
	}
	if len(m.To) == 0 {
		return ErrNoRecipients
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	raw := m.build(s.cfg)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		if s.cfg.Port == 465 {
			done <- s.sendTLS(addr, auth, m.To, raw)
			return
		}
		done <- smtp.SendMail(addr, auth, s.cfg.From, m.To, raw)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: send to %s: %w", strings.Join(m.To, ","), err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SMTPSender) sendTLS(addr string, auth smtp.Auth, to []string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	return w.Close()
}

func (m *Message) build(cfg SMTP) []byte {
	contentType := "text/plain"
	if m.HTML {
		contentType = "text/html"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.FromName, cfg.From)
	b.WriteString("To: " + strings.Join(m.To, ", ") + "\r\n")
	if m.ReplyTo != "" {
		b.WriteString("Reply-To: " + m.ReplyTo + "\r\n")
	}
	b.WriteString("Subject: " + m.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}

// LogSender writes messages to the log instead of sending them. Used when
// no relay is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, m *Message) error {
	if m.err != nil {
		return m.err
	}
	logger.InfoContext(ctx, "mail: not sent (no relay configured)",
		"to", strings.Join(m.To, ","), "subject", m.Subject)
	return nil
}

// Default returns an SMTP sender when MAIL_HOST is set, otherwise LogSender.
func Default() Sender {
	cfg := FromConfig()
	if cfg.Host == "" {
		return LogSender{}
	}
	return NewSMTP(cfg)
}
