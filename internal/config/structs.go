package config

import (
	"time"

	"github.com/skyportlabs/panel/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string // fallback display name of the panel
	Storage   Storage
	Admin     Admin
	Webserver Webserver
}

// Storage holds the on-disk locations of the theme document and the logo asset.
type Storage struct {
	ThemeFile string // path of the theme json document
	LogoFile  string // fixed path of the uploaded logo image
}

// Admin holds the initial administrator account created on first start.
type Admin struct {
	Username string
	Email    string
	Password string // generated and logged once when empty
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	DisableRecover      bool    // disable recover middleware
	PublicMetrics       bool    // serve /metrics without a session, admin only otherwise
	Domain              string  // session cookie domain, empty for host-only
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	MaxUploadSize       int     // body limit in bytes, mainly for logo uploads
	CookieEncryptionKey string  // encryption key for cookies
	Session             Session // session settings
}
