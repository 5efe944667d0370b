package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/config"
)

// ErrNilDependency is returned by Init when app, cfg or db is missing.
var ErrNilDependency = errors.New(ErrNilACDFatalLogMsg)

// Service is a page handler that registers its own routes.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error
}

// Mount initializes services in order and stops at the first failure.
func Mount(app *fiber.App, cfg *config.Config, db *gorm.DB, services ...Service) error {
	for _, s := range services {
		if err := s.Init(app, cfg, db); err != nil {
			return fmt.Errorf("%T: %w", s, err)
		}
	}

	return nil
}
