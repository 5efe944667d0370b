// Package mail delivers the panel's outgoing e-mail over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	smtpsettings "github.com/skyportlabs/panel/internal/db/controller/smtp"
)

const (
	defaultTimeout = 10 * time.Second

	// implicitTLSPort is the submission port that expects TLS from the first byte.
	implicitTLSPort = 465
)

var (
	// ErrNoRecipient is returned when a message has no usable recipient.
	ErrNoRecipient = errors.New("smtp: at least one recipient is required")
	// ErrNoSender is returned when neither the message nor the settings carry a sender.
	ErrNoSender = errors.New("smtp: sender address is required")
	// ErrNotConfigured is returned when no SMTP server is stored.
	ErrNotConfigured = errors.New("smtp: server is not configured")
	// ErrAuthNotSupported is returned when a username is set but the server offers no AUTH.
	ErrAuthNotSupported = errors.New("smtp: server does not support authentication")
)

// Message represents an outbound email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpClient interface {
	Mail(string) error
	Rcpt(string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
	StartTLS(*tls.Config) error
	Auth(smtp.Auth) error
	Extension(string) (bool, string)
}

type (
	dialFunc func(ctx context.Context, cfg smtpsettings.Settings, timeout time.Duration) (smtpClient, error)
	authFunc func(client smtpClient, cfg smtpsettings.Settings) error
)

type smtpMailer struct {
	cfg     smtpsettings.Settings
	timeout time.Duration
	dialFn  dialFunc
	authFn  authFunc
}

// NewSMTPMailer returns a Mailer using the stored SMTP settings.
func NewSMTPMailer(cfg smtpsettings.Settings) (Mailer, error) {
	if strings.TrimSpace(cfg.Server) == "" || cfg.Port == 0 {
		return nil, ErrNotConfigured
	}

	return &smtpMailer{
		cfg:     cfg,
		timeout: defaultTimeout,
		dialFn:  defaultDial,
		authFn:  defaultAuth,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	recipients := uniqueAddresses(msg.To)
	if len(recipients) == 0 {
		return ErrNoRecipient
	}

	from := strings.TrimSpace(m.cfg.FromAddress)
	if from == "" {
		return ErrNoSender
	}

	if _, err := mail.ParseAddress(from); err != nil {
		return fmt.Errorf("smtp: invalid from address: %w", err)
	}

	for _, rcpt := range recipients {
		if _, err := mail.ParseAddress(rcpt); err != nil {
			return fmt.Errorf("smtp: invalid recipient address %q: %w", rcpt, err)
		}
	}

	client, err := m.dialFn(ctx, m.cfg, m.timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	if err = m.authFn(client, m.cfg); err != nil {
		return err
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}

	for _, rcpt := range recipients {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp: rcpt to %s: %w", rcpt, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: data command: %w", err)
	}

	header := (&mail.Address{Name: m.cfg.FromName, Address: from}).String()
	if _, err = io.WriteString(wc, formatMessage(header, recipients, msg.Subject, msg.Body)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("smtp: write body: %w", err)
	}

	if err = wc.Close(); err != nil {
		return fmt.Errorf("smtp: close data writer: %w", err)
	}

	return client.Quit()
}

func defaultDial(ctx context.Context, cfg smtpsettings.Settings, timeout time.Duration) (smtpClient, error) {
	address := net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port))
	dialer := &net.Dialer{Timeout: timeout}
	tlsConfig := &tls.Config{ServerName: cfg.Server, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)

	if cfg.Port == implicitTLSPort {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", address)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", address)
	}
	if err != nil {
		return nil, fmt.Errorf("smtp: dial %s: %w", address, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, cfg.Server)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("smtp: new client: %w", err)
	}

	if cfg.Port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(tlsConfig); err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("smtp: start tls: %w", err)
			}
		}
	}

	return client, nil
}

func defaultAuth(client smtpClient, cfg smtpsettings.Settings) error {
	if strings.TrimSpace(cfg.Username) == "" {
		return nil
	}

	if ok, _ := client.Extension("AUTH"); !ok {
		return ErrAuthNotSupported
	}

	if err := client.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Server)); err != nil {
		return fmt.Errorf("smtp: auth: %w", err)
	}

	return nil
}

func uniqueAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))

	var result []string

	for _, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}

		if _, exists := seen[addr]; exists {
			continue
		}

		seen[addr] = struct{}{}
		result = append(result, addr)
	}

	return result
}

func formatMessage(from string, to []string, subject, body string) string {
	headers := []string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + escapeHeader(subject),
		"Date: " + time.Now().UTC().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
	}

	return strings.Join(headers, "\r\n") + "\r\n" + body
}

func escapeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")

	return value
}
