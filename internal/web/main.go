package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/audit"
	"github.com/skyportlabs/panel/internal/auth"
	"github.com/skyportlabs/panel/internal/config"
	fiberlogger "github.com/skyportlabs/panel/internal/logger/adapter/fiber"
	"github.com/skyportlabs/panel/internal/logo"
	"github.com/skyportlabs/panel/internal/mail"
	"github.com/skyportlabs/panel/internal/theme"
	"github.com/skyportlabs/panel/internal/web/handler"
	"github.com/skyportlabs/panel/internal/web/handler/admin/settings"
	"github.com/skyportlabs/panel/internal/web/handler/login"
	"github.com/skyportlabs/panel/internal/web/handler/logout"
	authmiddleware "github.com/skyportlabs/panel/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic and 503 while it drains.
	CheckAlivePath = "/health"
	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	notifier     *audit.DBNotifier
}

// Start starts the web service on the configured port.
func (s *Service) Start() error {
	var doneFiber = make(chan bool)

	addr := ":" + strconv.Itoa(s.cfg.Webserver.Port)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the web service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown

	// flush pending audit entries
	s.notifier.Wait()

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive reports whether the service accepts traffic.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
// Theme and logo files are read from and written to fsys.
func New(cfg *config.Config, db *gorm.DB, fsys afero.Fs) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(subtree("templates"))
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
			BodyLimit:      cfg.Webserver.MaxUploadSize,
		},
	)

	// init web service
	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		fastShutDown: cfg.DevMode,
		notifier:     audit.NewDBNotifier(db),
	}
	service.alive.Store(true)

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	if key := cfg.Webserver.CookieEncryptionKey; key != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: key}))
	}

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:   http.FS(subtree("static")),
				Browse: cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Get(CheckAlivePath, service.CheckAlive)

	metrics := adaptor.HTTPHandler(promhttp.Handler())
	if cfg.Webserver.PublicMetrics {
		app.Get(MetricsPath, metrics)
	}

	// session check, redirects to the login page
	app.Use(authmiddleware.Middleware)

	service.authService = auth.NewService(db)

	if !cfg.Webserver.PublicMetrics {
		app.Get(MetricsPath, auth.RequirePermission(service.authService, auth.PermAdminSettings), metrics)
	}

	// init handlers (they register their own routes with permission checks)
	if err := handler.Mount(app, cfg, db, &login.Handler, &logout.Handler); err != nil {
		log.Fatal().Err(err).Msg("failed to init handlers")
	}

	settings.Handler.Init(app, cfg, db, service.authService, settings.Dependencies{
		Theme:    theme.NewStore(fsys, cfg.Storage.ThemeFile),
		Logo:     logo.NewStore(fsys, cfg.Storage.LogoFile),
		Notifier: service.notifier,
		Mailer:   mail.NewSender(db),
	})

	// redirect root to the settings page
	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(handler.HomePath)
	})

	return service
}
