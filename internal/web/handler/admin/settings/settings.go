// Package settings implements the admin settings pages and their mutations:
// display name, registration and verification toggles, theme colors, footer,
// SMTP settings and the logo.
package settings

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/audit"
	"github.com/skyportlabs/panel/internal/auth"
	"github.com/skyportlabs/panel/internal/config"
	"github.com/skyportlabs/panel/internal/logo"
	"github.com/skyportlabs/panel/internal/theme"
	"github.com/skyportlabs/panel/internal/web/handler"
)

const (
	// Path is the appearance settings page.
	Path = handler.RootPath + "admin/settings"
	// SMTPPath is the SMTP settings page.
	SMTPPath = Path + "/smtp"
	// ThemePath is the theme settings page.
	ThemePath = Path + "/theme"
	// SendTestEmailPath sends a test message with the stored SMTP settings.
	SendTestEmailPath = handler.RootPath + "sendTestEmail"
	// LogoAssetPath serves the uploaded logo.
	LogoAssetPath = handler.RootPath + "assets/logo.png"

	// TemplateAppearance is the name of the appearance settings template.
	TemplateAppearance = "admin/settings/appearance"
	// TemplateSMTP is the name of the SMTP settings template.
	TemplateSMTP = "admin/settings/smtp"
	// TemplateTheme is the name of the theme settings template.
	TemplateTheme = "admin/settings/theme"
)

// Audit action labels.
const (
	ActionForceVerify    = "force-verify:edit"
	ActionName           = "name:edit"
	ActionTheme          = "theme:edit"
	ActionFooterEnabled  = "footer:enabled"
	ActionFooterDisabled = "footer:disabled"
	ActionSMTP           = "SMTP:edit"
	ActionLogo           = "logo:edit"
	ActionRegister       = "register:edit"
)

var mutationsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Namespace: "skyport",
		Subsystem: "settings",
		Name:      "mutations_total",
		Help:      "Number of applied settings changes, differentiated by audit action.",
	},
	[]string{"action"},
)

// TestMailer sends the SMTP test message.
type TestMailer interface {
	SendTestEmail(ctx context.Context, address string) bool
}

// Dependencies are the stores and collaborators the settings handlers write to.
type Dependencies struct {
	Theme    *theme.Store
	Logo     *logo.Store
	Notifier audit.Notifier
	Mailer   TestMailer
}

// Service is the admin settings handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	theme     *theme.Store
	logo      *logo.Store
	notifier  audit.Notifier
	mailer    TestMailer
	validator *validator.Validate
}

// Handler is the admin settings handler.
var Handler = Service{}

// Init initializes the settings handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, deps Dependencies) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	if deps.Theme == nil || deps.Logo == nil || deps.Notifier == nil || deps.Mailer == nil {
		log.Fatal().Msg("settings handler dependencies are incomplete")
		return
	}

	s.cfg = cfg
	s.db = db
	s.theme = deps.Theme
	s.logo = deps.Logo
	s.notifier = deps.Notifier
	s.mailer = deps.Mailer
	s.validator = validator.New()

	requireAdmin := auth.RequirePermission(authService, auth.PermAdminSettings)

	app.Get(LogoAssetPath, s.ServeLogo)

	app.Post(SendTestEmailPath, requireAdmin, s.SendTestEmail)

	app.Route(Path, func(router fiber.Router) {
		router.Use(requireAdmin)

		router.Get(handler.RootPath, s.GetAppearance)
		router.Get("/smtp", s.GetSMTP)
		router.Get("/theme", s.GetTheme)

		router.Post("/toggle/force-verify", s.ToggleForceVerify)
		router.Post("/toggle/register", s.ToggleRegister)
		router.Post("/toggle/theme/footer", s.ToggleFooter)

		router.Post("/change/name", s.ChangeName)
		router.Post("/change/logo", s.ChangeLogo)
		router.Post("/change/theme/button-color", s.ChangeButtonColor)
		router.Post("/change/theme/paneltheme-color", s.ChangePanelThemeColor)

		router.Post("/saveSmtpSettings", s.SaveSMTP)
	})
}

// recordAction reports a successful mutation to the audit notifier.
func (s *Service) recordAction(c *fiber.Ctx, action string) {
	user, _ := auth.CurrentUser(c)

	s.notifier.Notify(c.UserContext(), audit.Entry{
		ActorID:   user.ID,
		ActorName: user.Username,
		Action:    action,
		Origin:    c.IP(),
	})

	mutationsTotal.WithLabelValues(action).Inc()

	log.Info().Str("action", action).Str("user", user.Username).Msg("settings changed")
}

func internalServerError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).SendString(msg)
}
