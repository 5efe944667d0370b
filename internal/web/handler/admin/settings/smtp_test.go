package settings

import (
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyportlabs/panel/internal/db/controller/smtp"
)

func smtpForm() url.Values {
	return url.Values{
		"smtpServer":      {"smtp.example.com"},
		"smtpPort":        {"587"},
		"smtpUser":        {"mailer"},
		"smtpPass":        {"secret"},
		"smtpFromName":    {"Skyport"},
		"smtpFromAddress": {"noreply@example.com"},
	}
}

func TestSaveSMTP(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, Path+"/saveSmtpSettings", smtpForm())
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, SMTPPath+"?msg="+MsgSMTPSaveSuccess, resp.Header.Get(fiber.HeaderLocation))

	var stored smtp.Settings
	require.NoError(t, stored.Load(env.db))
	assert.Equal(t, smtp.Settings{
		Server:      "smtp.example.com",
		Port:        587,
		Username:    "mailer",
		Password:    "secret",
		FromName:    "Skyport",
		FromAddress: "noreply@example.com",
	}, stored)
	assert.Equal(t, []string{ActionSMTP}, env.notifier.actions())
}

func TestSaveSMTP_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric port", key: "smtpPort", value: "abc"},
		{name: "port out of range", key: "smtpPort", value: "70000"},
		{name: "missing server", key: "smtpServer", value: ""},
		{name: "bad from address", key: "smtpFromAddress", value: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			form := smtpForm()
			form.Set(tt.key, tt.value)

			resp := env.postForm(t, Path+"/saveSmtpSettings", form)
			require.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, SMTPPath+"?err="+ErrSMTPSaveFailed, resp.Header.Get(fiber.HeaderLocation))

			var stored smtp.Settings
			require.NoError(t, stored.Load(env.db))
			assert.Equal(t, smtp.Settings{}, stored)
			assert.Empty(t, env.notifier.actions())
		})
	}
}

func TestSendTestEmail(t *testing.T) {
	t.Run("sent", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.postForm(t, SendTestEmailPath, url.Values{"recipientEmail": {"admin@example.com"}})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, SMTPPath+"?msg="+MsgTestEmailSentSuccess, resp.Header.Get(fiber.HeaderLocation))
		assert.Equal(t, []string{"admin@example.com"}, env.mailer.recipients)
	})

	t.Run("sender failed", func(t *testing.T) {
		env := newTestEnv(t)
		env.mailer.result = false

		resp := env.postForm(t, SendTestEmailPath, url.Values{"recipientEmail": {"admin@example.com"}})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, SMTPPath+"?err="+ErrTestEmailSentFailed, resp.Header.Get(fiber.HeaderLocation))
	})

	t.Run("invalid recipient", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.postForm(t, SendTestEmailPath, url.Values{"recipientEmail": {"not an address"}})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, SMTPPath+"?err="+ErrTestEmailSentFailed, resp.Header.Get(fiber.HeaderLocation))
		assert.Empty(t, env.mailer.recipients)
	})
}
