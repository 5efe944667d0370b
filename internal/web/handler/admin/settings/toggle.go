package settings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/skyportlabs/panel/internal/db/controller/panel"
)

// toggle flips field in the settings record and redirects to target.
// action maps the new value to the audit label.
func (s *Service) toggle(c *fiber.Ctx, field panel.Field, target string, action func(enabled bool) string) error {
	enabled, err := panel.Toggle(s.db, field)
	if err != nil {
		log.Error().Err(err).Str("field", string(field)).Msg("failed to toggle setting")
		return internalServerError(c, "Internal Server Error")
	}

	s.recordAction(c, action(enabled))

	return c.Redirect(target)
}

func fixedAction(action string) func(bool) string {
	return func(bool) string { return action }
}

// ToggleForceVerify flips mandatory e-mail verification.
func (s *Service) ToggleForceVerify(c *fiber.Ctx) error {
	return s.toggle(c, panel.FieldForceVerify, Path, fixedAction(ActionForceVerify))
}

// ToggleRegister flips public registration.
func (s *Service) ToggleRegister(c *fiber.Ctx) error {
	return s.toggle(c, panel.FieldRegister, Path, fixedAction(ActionRegister))
}

// ToggleFooter flips the footer and records whether it is now shown.
func (s *Service) ToggleFooter(c *fiber.Ctx) error {
	return s.toggle(c, panel.FieldFooter, ThemePath, func(enabled bool) string {
		if enabled {
			return ActionFooterEnabled
		}

		return ActionFooterDisabled
	})
}
