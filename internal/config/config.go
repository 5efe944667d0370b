// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigJSON is the env var holding a JSON document merged over main.toml.
const EnvConfigJSON = "SKYPORT_CONFIG_JSON"

const (
	defaultShutDownTime  = 5
	defaultMaxUploadSize = 8 << 20
	defaultTitle         = "Skyport"
	defaultAdminName     = "admin"
	defaultAdminEmail    = "admin@localhost"
	defaultSessionExpiry = 24 * time.Hour
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if c.Storage.ThemeFile == "" {
		return errors.Wrap(ErrEmptyThemeFile, invalidErrMessage)
	}

	if c.Storage.LogoFile == "" {
		return errors.Wrap(ErrEmptyLogoFile, invalidErrMessage)
	}

	if c.Webserver.CookieEncryptionKey != "" && !validCookieKey(c.Webserver.CookieEncryptionKey) {
		return errors.Wrap(ErrInvalidCookieEncryptionKey, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.MaxUploadSize == 0 {
		c.Webserver.MaxUploadSize = defaultMaxUploadSize
	}

	if c.Title == "" {
		c.Title = defaultTitle
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Admin.Username == "" {
		c.Admin.Username = defaultAdminName
	}

	if c.Admin.Email == "" {
		c.Admin.Email = defaultAdminEmail
	}

	return nil
}

func validCookieKey(key string) bool {
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return false
	}

	switch len(raw) {
	case 16, 24, 32:
		return true
	default:
		return false
	}
}
