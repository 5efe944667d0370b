package settings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/skyportlabs/panel/internal/db/controller/smtp"
)

// Status values carried in the SMTP page redirect.
const (
	MsgSMTPSaveSuccess      = "SmtpSaveSuccess"
	ErrSMTPSaveFailed       = "SmtpSaveFailed"
	MsgTestEmailSentSuccess = "TestemailSentsuccess"
	ErrTestEmailSentFailed  = "TestemailSentfailed"
)

// TestEmailForm is the posted test message recipient.
type TestEmailForm struct {
	RecipientEmail string `form:"recipientEmail" validate:"required,email"`
}

// SaveSMTP replaces the stored SMTP settings with the posted form.
func (s *Service) SaveSMTP(c *fiber.Ctx) error {
	settings := new(smtp.Settings)

	// a non numeric port fails here and is never coerced
	if err := c.BodyParser(settings); err != nil {
		log.Warn().Err(err).Msg("failed to parse SMTP settings form")
		return c.Redirect(SMTPPath + "?err=" + ErrSMTPSaveFailed)
	}

	if err := settings.Validate(s.validator); err != nil {
		log.Warn().Err(err).Msg("validation failed for SMTP settings")
		return c.Redirect(SMTPPath + "?err=" + ErrSMTPSaveFailed)
	}

	if err := settings.Save(s.db); err != nil {
		log.Error().Err(err).Msg("failed to save SMTP settings")
		return c.Redirect(SMTPPath + "?err=" + ErrSMTPSaveFailed)
	}

	s.recordAction(c, ActionSMTP)

	return c.Redirect(SMTPPath + "?msg=" + MsgSMTPSaveSuccess)
}

// SendTestEmail sends a test message to the posted recipient with the stored settings.
func (s *Service) SendTestEmail(c *fiber.Ctx) error {
	form := new(TestEmailForm)
	if err := c.BodyParser(form); err != nil {
		return c.Redirect(SMTPPath + "?err=" + ErrTestEmailSentFailed)
	}

	if err := s.validator.Struct(form); err != nil {
		log.Warn().Err(err).Msg("invalid test email recipient")
		return c.Redirect(SMTPPath + "?err=" + ErrTestEmailSentFailed)
	}

	if !s.mailer.SendTestEmail(c.UserContext(), form.RecipientEmail) {
		return c.Redirect(SMTPPath + "?err=" + ErrTestEmailSentFailed)
	}

	return c.Redirect(SMTPPath + "?msg=" + MsgTestEmailSentSuccess)
}
