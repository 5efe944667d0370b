// Package main provides the entry point for the Skyport panel settings service.
// It starts a Fiber web server with the admin pages that change the panel's
// display name, registration and verification toggles, theme colors, SMTP
// settings and logo. Settings are stored with gorm, the theme document and
// the logo live on disk.
package main
