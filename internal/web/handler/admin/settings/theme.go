package settings

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/skyportlabs/panel/internal/theme"
)

// ButtonColorForm is the posted button color.
type ButtonColorForm struct {
	ButtonColor string `form:"buttoncolor" validate:"required,iscolor"`
}

// PanelThemeForm is the posted panel theme color.
type PanelThemeForm struct {
	PanelTheme string `form:"paneltheme" validate:"required,iscolor"`
}

// ChangeButtonColor sets the button-color field of the theme document.
func (s *Service) ChangeButtonColor(c *fiber.Ctx) error {
	form := new(ButtonColorForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
	}

	return s.setThemeField(c, form, theme.FieldButtonColor, form.ButtonColor, "changedbuttoncolorto")
}

// ChangePanelThemeColor sets the paneltheme-color field of the theme document.
func (s *Service) ChangePanelThemeColor(c *fiber.Ctx) error {
	form := new(PanelThemeForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
	}

	return s.setThemeField(c, form, theme.FieldPanelThemeColor, form.PanelTheme, "changedpanelcolorto")
}

// setThemeField validates form, writes value to field and redirects with the
// new value echoed in queryKey.
func (s *Service) setThemeField(c *fiber.Ctx, form any, field theme.Field, value, queryKey string) error {
	if err := s.validator.Struct(form); err != nil {
		log.Debug().Err(err).Str("field", string(field)).Msg("rejected theme color")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid color")
	}

	if err := s.theme.SetField(field, value); err != nil {
		log.Error().Err(err).Str("field", string(field)).Str("path", s.theme.Path()).Msg("failed to write theme")
		return internalServerError(c, "File writing error")
	}

	s.recordAction(c, ActionTheme)

	return c.Redirect(ThemePath + "?" + queryKey + "=" + url.QueryEscape(value))
}
