package settings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/skyportlabs/panel/internal/auth"
	"github.com/skyportlabs/panel/internal/db/controller/panel"
	"github.com/skyportlabs/panel/internal/db/controller/smtp"
	"github.com/skyportlabs/panel/internal/web/handler"
	"github.com/skyportlabs/panel/internal/web/navigation"
)

// pageData loads the values every settings page shows.
func (s *Service) pageData(c *fiber.Ctx, nav *navigation.Context) (fiber.Map, error) {
	name, err := panel.LoadName(s.db)
	if err != nil {
		return nil, err
	}

	logoPresent, err := panel.LoadLogoPresence(s.db)
	if err != nil {
		return nil, err
	}

	settings, err := panel.LoadSettings(s.db)
	if err != nil {
		return nil, err
	}

	user, _ := auth.CurrentUser(c)

	return fiber.Map{
		"Title":      s.cfg.Title,
		"Name":       name,
		"Logo":       logoPresent,
		"Settings":   settings,
		"User":       user,
		"Navigation": nav,
		"Msg":        c.Query("msg"),
		"Err":        c.Query("err"),
	}, nil
}

func newNavigation(title, page, path string) *navigation.Context {
	return navigation.NewContext(title, "settings", page).
		AddBreadcrumb("Home", handler.HomePath, false).
		AddBreadcrumb("Settings", Path, false).
		AddBreadcrumb(title, path, true).
		AddTab("Appearance", Path, "appearance").
		AddTab("Theme", ThemePath, "theme").
		AddTab("SMTP", SMTPPath, "smtp")
}

// GetAppearance renders the appearance page: name, logo and toggles.
func (s *Service) GetAppearance(c *fiber.Ctx) error {
	data, err := s.pageData(c, newNavigation("Appearance", "appearance", Path))
	if err != nil {
		log.Error().Err(err).Msg("failed to load appearance settings")
		return internalServerError(c, "Failed to fetch settings. Please try again later.")
	}

	data["ChangedName"] = c.Query("changednameto")

	return c.Render(TemplateAppearance, data, handler.BaseLayout)
}

// GetSMTP renders the SMTP settings page.
func (s *Service) GetSMTP(c *fiber.Ctx) error {
	data, err := s.pageData(c, newNavigation("SMTP", "smtp", SMTPPath))
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings for SMTP page")
		return internalServerError(c, "Failed to fetch settings. Please try again later.")
	}

	var smtpSettings smtp.Settings
	if err = smtpSettings.Load(s.db); err != nil {
		log.Error().Err(err).Msg("failed to load SMTP settings")
		return internalServerError(c, "Failed to fetch settings. Please try again later.")
	}

	data["SMTPSettings"] = smtpSettings

	return c.Render(TemplateSMTP, data, handler.BaseLayout)
}

// GetTheme renders the theme page.
func (s *Service) GetTheme(c *fiber.Ctx) error {
	data, err := s.pageData(c, newNavigation("Theme", "theme", ThemePath))
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings for theme page")
		return internalServerError(c, "Failed to fetch settings. Please try again later.")
	}

	doc, err := s.theme.Load()
	if err != nil {
		log.Error().Err(err).Str("path", s.theme.Path()).Msg("failed to load theme")
		return internalServerError(c, "Failed to load theme.")
	}

	data["Theme"] = doc
	data["ChangedButtonColor"] = c.Query("changedbuttoncolorto")
	data["ChangedPanelColor"] = c.Query("changedpanelcolorto")

	return c.Render(TemplateTheme, data, handler.BaseLayout)
}
