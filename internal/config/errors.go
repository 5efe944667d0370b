package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be one of sqlite, mysql, postgres")

	// ErrEmptyThemeFile error if config storage.themeFile is empty.
	ErrEmptyThemeFile = errors.New("toml config storage.themeFile can not be empty")

	// ErrEmptyLogoFile error if config storage.logoFile is empty.
	ErrEmptyLogoFile = errors.New("toml config storage.logoFile can not be empty")

	// ErrInvalidCookieEncryptionKey error if config webserver.cookieEncryptionKey is not a base64 AES key.
	ErrInvalidCookieEncryptionKey = errors.New(
		"toml config webserver.cookieEncryptionKey must be a base64 encoded 16, 24 or 32 byte key",
	)
)
