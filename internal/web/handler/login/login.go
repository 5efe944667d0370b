package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/auth"
	"github.com/skyportlabs/panel/internal/config"
	"github.com/skyportlabs/panel/internal/db/models"
	"github.com/skyportlabs/panel/internal/web/handler"
	"github.com/skyportlabs/panel/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = handler.RootPath + "login"

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// Form is the posted login form.
type Form struct {
	Username string `form:"username" validate:"required,max=100"`
	Password string `form:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	localAuth *auth.LocalProvider
	validator *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return handler.ErrNilDependency
	}

	s.db = db
	s.cfg = cfg
	s.localAuth = auth.NewLocalProvider(db)
	s.validator = validator.New()

	// register routes
	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		log.Debug().Err(err).Msg("failed to parse login form")
		return s.renderError(c, ErrInvalidFormData)
	}

	if err := s.validator.Struct(form); err != nil {
		return s.renderError(c, ErrInvalidFormData)
	}

	user, err := s.authenticate(form.Username, form.Password)
	if err != nil {
		return s.renderError(c, err)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return s.renderError(c, ErrInternalServerError)
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.renderError(c, ErrInternalServerError)
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		Domain:   s.cfg.Webserver.Domain,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Str("username", user.Username).Str("origin", c.IP()).Msg("user logged in")

	return c.Redirect(handler.HomePath)
}

// authenticate checks the credentials and maps provider errors to login errors.
func (s *Service) authenticate(username, password string) (*models.User, error) {
	user, err := s.localAuth.Authenticate(username, password)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrInvalidPassword),
		errors.Is(err, auth.ErrUserAccountDisabled):
		log.Warn().Err(err).Str("username", username).Msg("login rejected")
		return nil, ErrInvalidCredentials
	default:
		log.Error().Err(err).Str("username", username).Msg("login failed")
		return nil, ErrInternalServerError
	}
}

func (s *Service) renderError(c *fiber.Ctx, err error) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"error": err.Error(),
	})
}
