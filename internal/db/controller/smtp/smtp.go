// Package smtp stores the outgoing mail server settings of the panel.
package smtp

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/db/controller/setting"
)

const (
	// SettingKeySMTP is the key used to store SMTP settings in the database.
	SettingKeySMTP = "smtp_settings"
)

// Settings represents the SMTP server configuration.
// The form tags match the fields posted by the SMTP settings page.
type Settings struct {
	Server      string `form:"smtpServer"      json:"server"      validate:"required,hostname_rfc1123|ip"`
	Port        int    `form:"smtpPort"        json:"port"        validate:"required,min=1,max=65535"`
	Username    string `form:"smtpUser"        json:"username"    validate:"max=255"`
	Password    string `form:"smtpPass"        json:"password"    validate:"max=255"`
	FromName    string `form:"smtpFromName"    json:"fromName"    validate:"max=255"`
	FromAddress string `form:"smtpFromAddress" json:"fromAddress" validate:"required,email"`
}

// Validate checks the settings with the given validator.
func (s *Settings) Validate(v *validator.Validate) error {
	return v.Struct(s)
}

// Load loads the SMTP settings. Missing settings leave s untouched and return nil.
func (s *Settings) Load(db *gorm.DB) error {
	stored, err := setting.Get(db, SettingKeySMTP)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(stored.Value, s)
}

// Save replaces the stored SMTP settings as a whole.
func (s *Settings) Save(db *gorm.DB) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, SettingKeySMTP, data)

	return err
}
