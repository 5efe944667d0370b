package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	smtpsettings "github.com/skyportlabs/panel/internal/db/controller/smtp"
)

const testEmailTimeout = 30 * time.Second

// Sender sends the "SMTP works" message from the SMTP settings page.
type Sender struct {
	db        *gorm.DB
	newMailer func(smtpsettings.Settings) (Mailer, error)
}

// NewSender returns a Sender reading the SMTP settings from db.
func NewSender(db *gorm.DB) *Sender {
	return &Sender{db: db, newMailer: NewSMTPMailer}
}

// SendTestEmail reports whether a test message was handed to the SMTP server.
// Failures are logged, the caller only routes on the result.
func (s *Sender) SendTestEmail(ctx context.Context, address string) bool {
	var cfg smtpsettings.Settings
	if err := cfg.Load(s.db); err != nil {
		log.Error().Err(err).Msg("failed to load SMTP settings for test email")
		return false
	}

	mailer, err := s.newMailer(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create SMTP mailer for test email")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, testEmailTimeout)
	defer cancel()

	err = mailer.Send(ctx, Message{
		To:      []string{address},
		Subject: "Skyport test email",
		Body:    "This is a test email from your panel. Your SMTP settings are working.\r\n",
	})
	if err != nil {
		log.Error().Err(err).Str("recipient", address).Msg("failed to send test email")
		return false
	}

	log.Info().Str("recipient", address).Msg("test email sent")

	return true
}
